package engine

import (
	"fmt"
	"strings"
)

// ScrapeRequest carries the guest identity submitted into the widget
// form plus how many distinct days the caller wants. Immutable once
// built; one request maps to one browser page.
type ScrapeRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	TargetDays int    `json:"days,omitempty"`
}

// Validate checks field presence. Target-day clamping happens in the
// engine, not here; a zero or oversized TargetDays is not an error.
func (r ScrapeRequest) Validate() error {
	for fieldName, value := range map[string]string{
		"first_name": r.FirstName,
		"last_name":  r.LastName,
		"email":      r.Email,
		"phone":      r.Phone,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("missing required field: %s", fieldName)
		}
	}
	return nil
}

// DaySlots is one calendar day discovered during collection together
// with its time-slot labels. Days with no slots never leave the
// collector.
type DaySlots struct {
	DayName string   `json:"day_name"`
	Date    string   `json:"date"`
	Slots   []string `json:"slots"`
}

// ScrapeOutcome is the terminal artifact of one request. Completed is
// true when navigation exhausted naturally (or the target was met) and
// false when the deadline cut the loop off.
type ScrapeOutcome struct {
	Days      *Aggregate
	Completed bool
}
