package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything needed to run the slot scraper: the widget
// selector profile, engine tuning, browser launch settings, and the HTTP
// server surface.
type Config struct {
	Widget  WidgetConfig  `yaml:"widget"`
	Scrape  ScrapeConfig  `yaml:"scrape"`
	Browser BrowserConfig `yaml:"browser"`
	Server  ServerConfig  `yaml:"server"`
}

// WidgetConfig is the selector profile for one booking-widget variant.
// Widgets that share the same page shape but different markup get their
// own profile; the engine itself is variant-agnostic.
type WidgetConfig struct {
	EntryURL string            `yaml:"entry_url"`
	Form     FormSelectors     `yaml:"form"`
	Calendar CalendarSelectors `yaml:"calendar"`
}

// FormSelectors locate the guest-identity form fields.
type FormSelectors struct {
	FirstName string `yaml:"first_name"`
	LastName  string `yaml:"last_name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Submit    string `yaml:"submit"`
}

// CalendarSelectors locate the weekly calendar controls and the per-day
// detail panel.
type CalendarSelectors struct {
	DayButton        string `yaml:"day_button"`
	SelectedDay      string `yaml:"selected_day"`
	SelectedDayLabel string `yaml:"selected_day_label"`
	Slot             string `yaml:"slot"`
	NextButton       string `yaml:"next_button"`
	PrevButton       string `yaml:"prev_button"`
	MonthYearPicker  string `yaml:"month_year_picker"`
}

// ScrapeConfig tunes the navigation/collection loop.
type ScrapeConfig struct {
	MaxWeeks        int      `yaml:"max_weeks"`
	MaxTargetDays   int      `yaml:"max_target_days"`
	Deadline        Duration `yaml:"deadline"`
	FormTimeout     Duration `yaml:"form_timeout"`
	CalendarTimeout Duration `yaml:"calendar_timeout"`
	Settle          Duration `yaml:"settle"`
	NavigateSettle  Duration `yaml:"navigate_settle"`
	TimezoneLabel   string   `yaml:"timezone_label"`
}

// BrowserConfig controls Chrome launch behaviour.
type BrowserConfig struct {
	ExecPath  string `yaml:"exec_path"`
	Headless  bool   `yaml:"headless"`
	UserAgent string `yaml:"user_agent"`
}

// ServerConfig describes the HTTP API surface.
type ServerConfig struct {
	Addr    string   `yaml:"addr"`
	APIKeys []string `yaml:"api_keys"`
}

// Default returns the built-in Chili Piper concierge-router profile with
// the tuning the widget tolerates in practice.
func Default() Config {
	return Config{
		Widget: WidgetConfig{
			EntryURL: "https://cincpro.chilipiper.com/concierge-router/link/lp-request-a-demo-agent-advice",
			Form: FormSelectors{
				FirstName: `[data-test-id="GuestFormField-PersonFirstName"]`,
				LastName:  `[data-test-id="GuestFormField-PersonLastName"]`,
				Email:     `[data-test-id="GuestFormField-PersonEmail"]`,
				Phone:     `[data-test-id="PhoneField-input"]`,
				Submit:    `[data-test-id="GuestForm-submit-button"]`,
			},
			Calendar: CalendarSelectors{
				DayButton:        `[data-id="calendar-day-button"]`,
				SelectedDay:      `[data-id="calendar-day-button-selected"]`,
				SelectedDayLabel: `[data-id="calendar-day-selected"]`,
				Slot:             `[data-id="calendar-slot"]`,
				NextButton:       `[data-id="calendar-arrows-button-next"]`,
				PrevButton:       `[data-id="calendar-arrows-button-prev"]`,
				MonthYearPicker:  `[data-id="calendar-month-year"]`,
			},
		},
		Scrape: ScrapeConfig{
			MaxWeeks:        3,
			MaxTargetDays:   9,
			Deadline:        DurationFrom(45 * time.Second),
			FormTimeout:     DurationFrom(20 * time.Second),
			CalendarTimeout: DurationFrom(10 * time.Second),
			Settle:          DurationFrom(150 * time.Millisecond),
			NavigateSettle:  DurationFrom(300 * time.Millisecond),
			TimezoneLabel:   "GMT-05:00 America/Chicago (CDT)",
		},
		Browser: BrowserConfig{
			Headless:  true,
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load reads, merges over defaults, and validates a YAML config file.
func Load(path string) (Config, error) {
	fh, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer fh.Close()
	return LoadFromReader(fh)
}

// LoadFromReader decodes configuration from an arbitrary reader.
func LoadFromReader(r io.Reader) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate enforces the invariants the engine assumes.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Widget.EntryURL) == "" {
		return errors.New("widget.entry_url must be set")
	}
	for name, sel := range map[string]string{
		"widget.form.first_name":        c.Widget.Form.FirstName,
		"widget.form.last_name":         c.Widget.Form.LastName,
		"widget.form.email":             c.Widget.Form.Email,
		"widget.form.phone":             c.Widget.Form.Phone,
		"widget.form.submit":            c.Widget.Form.Submit,
		"widget.calendar.day_button":    c.Widget.Calendar.DayButton,
		"widget.calendar.selected_day":  c.Widget.Calendar.SelectedDay,
		"widget.calendar.slot":          c.Widget.Calendar.Slot,
		"widget.calendar.next_button":   c.Widget.Calendar.NextButton,
		"widget.calendar.prev_button":   c.Widget.Calendar.PrevButton,
	} {
		if strings.TrimSpace(sel) == "" {
			return fmt.Errorf("%s must be set", name)
		}
	}
	if c.Scrape.MaxWeeks <= 0 {
		return fmt.Errorf("scrape.max_weeks must be > 0 (got %d)", c.Scrape.MaxWeeks)
	}
	if c.Scrape.MaxTargetDays <= 0 {
		return fmt.Errorf("scrape.max_target_days must be > 0 (got %d)", c.Scrape.MaxTargetDays)
	}
	if c.Scrape.Deadline.IsZero() {
		return errors.New("scrape.deadline must be set")
	}
	if c.Scrape.FormTimeout.IsZero() {
		return errors.New("scrape.form_timeout must be set")
	}
	if c.Scrape.CalendarTimeout.IsZero() {
		return errors.New("scrape.calendar_timeout must be set")
	}
	return nil
}
