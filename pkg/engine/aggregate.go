package engine

// Aggregate is the deduplicated, date-keyed collection of days found
// across all visited weeks. Insertion order is preserved so output is
// stable; Add is the only mutation path.
type Aggregate struct {
	order          []string
	byDate         map[string]DaySlots
	duplicateSkips int
}

func NewAggregate() *Aggregate {
	return &Aggregate{byDate: map[string]DaySlots{}}
}

// Add inserts the day if its date key is absent and its slot list is
// non-empty. A repeated date key is a no-op recorded as a duplicate
// skip, not an error; re-adding the same day is therefore idempotent.
func (a *Aggregate) Add(day DaySlots) bool {
	if len(day.Slots) == 0 {
		return false
	}
	if _, exists := a.byDate[day.Date]; exists {
		a.duplicateSkips++
		return false
	}
	a.byDate[day.Date] = day
	a.order = append(a.order, day.Date)
	return true
}

// Merge adds every candidate and reports how many were new.
func (a *Aggregate) Merge(days []DaySlots) int {
	added := 0
	for _, day := range days {
		if a.Add(day) {
			added++
		}
	}
	return added
}

func (a *Aggregate) Len() int {
	return len(a.order)
}

// Get looks a day up by date key.
func (a *Aggregate) Get(date string) (DaySlots, bool) {
	day, ok := a.byDate[date]
	return day, ok
}

// Days returns the collected days in discovery order.
func (a *Aggregate) Days() []DaySlots {
	days := make([]DaySlots, 0, len(a.order))
	for _, date := range a.order {
		days = append(days, a.byDate[date])
	}
	return days
}

// ByDate returns the date→day mapping view used by the API response.
func (a *Aggregate) ByDate() map[string]DaySlots {
	view := make(map[string]DaySlots, len(a.byDate))
	for date, day := range a.byDate {
		view[date] = day
	}
	return view
}

// DuplicateSkips reports how many candidates were dropped because
// their date key was already present.
func (a *Aggregate) DuplicateSkips() int {
	return a.duplicateSkips
}
