package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chilislots/pkg/config"
)

const selectedDayHTML = `<body>
<button data-id="calendar-day-button-selected" aria-label="Tuesday, Oct 28">
  <div data-id="calendar-day-selected"><span>28</span><span>Oct</span></div>
</button>
<button data-id="calendar-slot"><span>9:00 AM</span></button>
<button data-id="calendar-slot"><span>9:30 AM</span></button>
</body>`

func TestParseSelectedDay(t *testing.T) {
	calendar := config.Default().Widget.Calendar
	day, err := parseSelectedDay(selectedDayHTML, calendar, 2025)
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", day.DayName)
	assert.Equal(t, "Oct 28, 2025", day.Date)
	assert.Equal(t, []string{"9:00 AM", "9:30 AM"}, day.Slots)
}

func TestParseSelectedDayNameFallsBackToText(t *testing.T) {
	calendar := config.Default().Widget.Calendar
	html := `<body>
<button data-id="calendar-day-button-selected">Wednesday
  <div data-id="calendar-day-selected"><span>29</span><span>Oct</span></div>
</button>
</body>`
	day, err := parseSelectedDay(html, calendar, 2025)
	require.NoError(t, err)
	assert.Equal(t, "Wednesday", day.DayName)
	assert.Empty(t, day.Slots)
}

func TestParseSelectedDaySlotLabelWithoutSpan(t *testing.T) {
	calendar := config.Default().Widget.Calendar
	html := `<body>
<button data-id="calendar-day-button-selected" aria-label="Thursday, Oct 30">
  <div data-id="calendar-day-selected"><span>30</span><span>Oct</span></div>
</button>
<button data-id="calendar-slot">2:00 PM</button>
</body>`
	day, err := parseSelectedDay(html, calendar, 2025)
	require.NoError(t, err)
	assert.Equal(t, []string{"2:00 PM"}, day.Slots)
}

func TestParseSelectedDayErrors(t *testing.T) {
	calendar := config.Default().Widget.Calendar

	_, err := parseSelectedDay("<body></body>", calendar, 2025)
	assert.Error(t, err, "missing selected day element")

	_, err = parseSelectedDay(`<body><button data-id="calendar-day-button-selected"></button></body>`, calendar, 2025)
	assert.Error(t, err, "missing label")

	_, err = parseSelectedDay(`<body><button data-id="calendar-day-button-selected"><div data-id="calendar-day-selected"><span>28</span></div></button></body>`, calendar, 2025)
	assert.Error(t, err, "too few spans")
}
