package engine

// SlotRef is one bookable (date, time) pairing in the flattened view.
// The GMT label comes from configuration; the engine does no timezone
// conversion.
type SlotRef struct {
	Date string `json:"date"`
	Time string `json:"time"`
	GMT  string `json:"gmt"`
}

// Flatten expands the aggregate into one entry per slot, preserving
// day discovery order and per-day slot order.
func Flatten(aggregate *Aggregate, timezoneLabel string) []SlotRef {
	var flattened []SlotRef
	for _, day := range aggregate.Days() {
		for _, slot := range day.Slots {
			flattened = append(flattened, SlotRef{
				Date: day.Date,
				Time: slot,
				GMT:  timezoneLabel,
			})
		}
	}
	return flattened
}
