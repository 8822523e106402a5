package engine

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"chilislots/pkg/config"
)

// parseSelectedDay extracts the selected day's name, canonical date
// key, and slot labels from the rendered calendar HTML. The widget
// shows the day number and month as sibling spans inside the selected
// day label and never shows a year, so the caller supplies one.
func parseSelectedDay(bodyHTML string, calendar config.CalendarSelectors, year int) (DaySlots, error) {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(bodyHTML))
	if err != nil {
		return DaySlots{}, err
	}

	selected := document.Find(calendar.SelectedDay).First()
	if selected.Length() == 0 {
		return DaySlots{}, errors.New("no selected day element")
	}
	label := selected.Find(calendar.SelectedDayLabel).First()
	if label.Length() == 0 {
		return DaySlots{}, errors.New("no selected day label")
	}
	spans := label.Find("span")
	if spans.Length() < 2 {
		return DaySlots{}, fmt.Errorf("selected day label has %d spans, want 2", spans.Length())
	}
	dayNumber := strings.TrimSpace(spans.Eq(0).Text())
	month := strings.TrimSpace(spans.Eq(1).Text())
	if dayNumber == "" || month == "" {
		return DaySlots{}, errors.New("empty day number or month")
	}

	return DaySlots{
		DayName: selectedDayName(selected),
		Date:    fmt.Sprintf("%s %s, %d", month, dayNumber, year),
		Slots:   slotLabels(document, calendar.Slot),
	}, nil
}

// selectedDayName pulls the weekday name from the button's aria-label,
// falling back to its text content.
func selectedDayName(selected *goquery.Selection) string {
	text, exists := selected.Attr("aria-label")
	if !exists || strings.TrimSpace(text) == "" {
		text = selected.Text()
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "Unknown"
	}
	return strings.Trim(fields[0], ",")
}

// slotLabels collects the text of every slot button's label span,
// preserving document order.
func slotLabels(document *goquery.Document, slotSelector string) []string {
	var labels []string
	document.Find(slotSelector).Each(func(_ int, slot *goquery.Selection) {
		label := strings.TrimSpace(slot.Find("span").First().Text())
		if label == "" {
			label = strings.TrimSpace(slot.Text())
		}
		if label != "" {
			labels = append(labels, label)
		}
	})
	return labels
}
