package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/log"
)

// WeekNavigator is the bounded state machine that pages the calendar
// across weeks. It sits at week n until a transition fails, then
// becomes exhausted, which is terminal. The attempt ceiling makes
// termination structural: even a widget that always reports an enabled
// arrow (cyclic calendars, stale enabled flags) cannot keep the loop
// alive past maxWeeks visited weeks.
//
// Navigation order per attempt: next-week arrow, then previous-week
// arrow (some widgets open on a week whose only availability is
// behind), then the month picker's next-month arrow. The week counter
// counts attempts, not calendar direction.
type WeekNavigator struct {
	calendar config.CalendarSelectors
	settle   time.Duration
	maxWeeks int

	week      int
	exhausted bool
}

func NewWeekNavigator(calendar config.CalendarSelectors, settle time.Duration, maxWeeks int) *WeekNavigator {
	if maxWeeks < 1 {
		maxWeeks = 1
	}
	return &WeekNavigator{calendar: calendar, settle: settle, maxWeeks: maxWeeks}
}

// Week is the zero-based index of the currently visible week.
func (n *WeekNavigator) Week() int { return n.week }

// WeeksVisited never exceeds the configured maximum.
func (n *WeekNavigator) WeeksVisited() int { return n.week + 1 }

func (n *WeekNavigator) Exhausted() bool { return n.exhausted }

// Advance tries to bring a new week into view and reports whether it
// did. Once it returns false the navigator stays exhausted; callers
// loop explicitly and must not retry.
func (n *WeekNavigator) Advance(ctx context.Context, page driver.Page) (bool, error) {
	if n.exhausted {
		return false, nil
	}
	if n.WeeksVisited() >= n.maxWeeks {
		n.exhausted = true
		log.L().Info("week_ceiling_reached", zap.Int("weeks_visited", n.WeeksVisited()))
		return false, nil
	}

	moved, err := n.clickIfEnabled(ctx, page, n.calendar.NextButton)
	if err != nil {
		return false, err
	}
	if !moved {
		moved, err = n.clickIfEnabled(ctx, page, n.calendar.PrevButton)
		if err != nil {
			return false, err
		}
	}
	if !moved {
		moved, err = n.advanceMonth(ctx, page)
		if err != nil {
			return false, err
		}
	}
	if !moved {
		n.exhausted = true
		log.L().Info("navigation_dead_end", zap.Int("week", n.week))
		return false, nil
	}

	n.week++
	if err := page.Settle(ctx, n.settle); err != nil {
		return false, err
	}
	log.L().Debug("week_advanced", zap.Int("week", n.week))
	return true, nil
}

// clickIfEnabled activates a control only when it is both present and
// enabled. Absence and disabled state are the same non-event.
func (n *WeekNavigator) clickIfEnabled(ctx context.Context, page driver.Page, selector string) (bool, error) {
	count, err := page.Count(ctx, selector)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	enabled, err := page.Enabled(ctx, selector, 0)
	if err != nil {
		return false, err
	}
	if !enabled {
		return false, nil
	}
	if err := page.Click(ctx, selector); err != nil {
		return false, err
	}
	return true, nil
}

// advanceMonth opens the month/year picker and tries its next-month
// arrow. Some widget states expose no week arrows at all but still
// allow jumping a whole month forward.
func (n *WeekNavigator) advanceMonth(ctx context.Context, page driver.Page) (bool, error) {
	count, err := page.Count(ctx, n.calendar.MonthYearPicker)
	if err != nil {
		return false, err
	}
	if count == 0 {
		return false, nil
	}
	if err := page.Click(ctx, n.calendar.MonthYearPicker); err != nil {
		return false, err
	}
	if err := page.Settle(ctx, n.settle); err != nil {
		return false, err
	}
	return n.clickIfEnabled(ctx, page, n.calendar.NextButton)
}
