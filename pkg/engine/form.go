package engine

import (
	"context"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/log"
)

// FormSubmitter fills the guest-identity form and triggers submission,
// transitioning the page from form view to calendar view. It does not
// re-validate the request; field presence is the caller's concern.
type FormSubmitter struct {
	form     config.FormSelectors
	calendar config.CalendarSelectors
	scrape   config.ScrapeConfig
}

func NewFormSubmitter(cfg config.Config) *FormSubmitter {
	return &FormSubmitter{
		form:     cfg.Widget.Form,
		calendar: cfg.Widget.Calendar,
		scrape:   cfg.Scrape,
	}
}

// Submit fills the four identity fields, clicks submit, and waits for
// the first calendar day button to appear. A field that cannot be
// located within the form timeout is fatal. A calendar that is slow to
// appear is not: the collector retries on its own, so calendarReady
// is reported rather than raised.
func (s *FormSubmitter) Submit(ctx context.Context, page driver.Page, request ScrapeRequest) (calendarReady bool, err error) {
	if err := page.WaitVisible(ctx, s.form.FirstName, s.scrape.FormTimeout.Duration); err != nil {
		return false, &FormFillError{Field: "first_name", Err: err}
	}

	fields := []struct {
		name     string
		selector string
		value    string
	}{
		{"first_name", s.form.FirstName, request.FirstName},
		{"last_name", s.form.LastName, request.LastName},
		{"email", s.form.Email, request.Email},
		{"phone", s.form.Phone, request.Phone},
	}
	for _, field := range fields {
		if fillError := page.Fill(ctx, field.selector, field.value); fillError != nil {
			return false, &FormFillError{Field: field.name, Err: fillError}
		}
	}
	if clickError := page.Click(ctx, s.form.Submit); clickError != nil {
		return false, &FormFillError{Field: "submit", Err: clickError}
	}
	log.L().Info("form_submitted", zap.String("email", request.Email))

	if waitError := page.WaitVisible(ctx, s.calendar.DayButton, s.scrape.CalendarTimeout.Duration); waitError != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		log.L().Warn("calendar_not_ready", zap.Error(waitError))
		return false, nil
	}
	return true, nil
}
