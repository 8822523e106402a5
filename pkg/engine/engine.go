// Package engine implements the slot-discovery pipeline: submit the
// guest form, page the weekly calendar, collect each day's slots, and
// merge them into a deduplicated, date-keyed aggregate. Everything is
// written against the driver.Page capability set so the whole pipeline
// runs unchanged against a fake page in tests.
package engine

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/log"
)

// Engine drives one scrape request end to end.
type Engine struct {
	cfg     config.Config
	browser driver.Browser
}

func New(cfg config.Config, browser driver.Browser) *Engine {
	return &Engine{cfg: cfg, browser: browser}
}

// Run executes a full scrape under the configured deadline and never
// returns an error: a deadline expiry yields a partial outcome with
// Completed=false, a navigation dead end yields a completed outcome,
// and any other automation fault degrades to an empty outcome. The
// page acquired for the request is released exactly once on every exit
// path.
func (e *Engine) Run(ctx context.Context, request ScrapeRequest) (outcome ScrapeOutcome) {
	targetDays := clampTarget(request.TargetDays, e.cfg.Scrape.MaxTargetDays)
	log.L().Info("scrape_start",
		zap.String("email", request.Email),
		zap.Int("target_days", targetDays))

	outcome = ScrapeOutcome{Days: NewAggregate()}
	defer func() {
		if recovered := recover(); recovered != nil {
			log.L().Error("automation_panic", zap.Any("panic", recovered))
			outcome = ScrapeOutcome{Days: NewAggregate()}
		}
	}()

	runContext, cancel := context.WithTimeout(ctx, e.cfg.Scrape.Deadline.Duration)
	defer cancel()

	page, release, err := e.browser.NewPage(runContext)
	if err != nil {
		log.L().Error("page_acquire_failed", zap.Error(err))
		return outcome
	}
	defer release()

	outcome = e.scrape(runContext, page, request, targetDays)
	log.L().Info("scrape_done",
		zap.Int("days", outcome.Days.Len()),
		zap.Int("duplicate_skips", outcome.Days.DuplicateSkips()),
		zap.Bool("completed", outcome.Completed))
	return outcome
}

func (e *Engine) scrape(ctx context.Context, page driver.Page, request ScrapeRequest, targetDays int) ScrapeOutcome {
	aggregate := NewAggregate()

	if err := page.Navigate(ctx, e.cfg.Widget.EntryURL); err != nil {
		return e.failed(aggregate, "navigate_failed", err)
	}

	calendarReady, err := NewFormSubmitter(e.cfg).Submit(ctx, page, request)
	if err != nil {
		return e.failed(aggregate, "form_submit_failed", err)
	}
	if !calendarReady {
		if err := page.Settle(ctx, e.cfg.Scrape.NavigateSettle.Duration); err != nil {
			return e.failed(aggregate, "calendar_wait_aborted", err)
		}
	}

	collector := NewSlotCollector(e.cfg)
	navigator := NewWeekNavigator(e.cfg.Widget.Calendar, e.cfg.Scrape.NavigateSettle.Duration, e.cfg.Scrape.MaxWeeks)

	for {
		days, collectError := collector.CollectWeek(ctx, page)
		if collectError != nil {
			return e.failed(aggregate, "week_collect_failed", collectError)
		}
		added := aggregate.Merge(days)
		log.L().Info("week_collected",
			zap.Int("week", navigator.Week()),
			zap.Int("found", len(days)),
			zap.Int("added", added),
			zap.Int("total", aggregate.Len()))

		if aggregate.Len() >= targetDays {
			return ScrapeOutcome{Days: aggregate, Completed: true}
		}

		advanced, advanceError := navigator.Advance(ctx, page)
		if advanceError != nil {
			return e.failed(aggregate, "week_advance_failed", advanceError)
		}
		if !advanced {
			// Dead end or week ceiling: whatever was collected is the
			// complete answer, even under target.
			return ScrapeOutcome{Days: aggregate, Completed: true}
		}
	}
}

// failed classifies a loop-ending error. Deadline expiry keeps the
// partial aggregate; anything else is an automation fault and returns
// an empty aggregate.
func (e *Engine) failed(aggregate *Aggregate, event string, err error) ScrapeOutcome {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		log.L().Warn("scrape_deadline", zap.String("during", event), zap.Int("days_so_far", aggregate.Len()))
		return ScrapeOutcome{Days: aggregate, Completed: false}
	}
	log.L().Error("automation_fault", zap.String("during", event), zap.Error(err))
	return ScrapeOutcome{Days: NewAggregate()}
}

func clampTarget(requested, maximum int) int {
	if requested <= 0 || requested > maximum {
		return maximum
	}
	return requested
}
