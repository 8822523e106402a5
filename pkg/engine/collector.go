package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chilislots/pkg/config"
	"chilislots/pkg/driver"
	"chilislots/pkg/log"
)

const bodySelector = "body"

// SlotCollector discovers the enabled days of the currently visible
// week and extracts each day's time-slot list. Days are processed
// strictly sequentially, since one tab has one DOM. It never triggers
// navigation; dead weeks are the navigator's problem.
type SlotCollector struct {
	calendar config.CalendarSelectors
	settle   time.Duration
	now      func() time.Time
}

func NewSlotCollector(cfg config.Config) *SlotCollector {
	return &SlotCollector{
		calendar: cfg.Widget.Calendar,
		settle:   cfg.Scrape.Settle.Duration,
		now:      time.Now,
	}
}

// CollectWeek returns the week's days that have at least one slot, in
// discovery order. Zero enabled day buttons gets exactly one bounded
// retry (buttons enable asynchronously after render); a second zero is
// an empty result, not an error. A failure reading an individual day
// skips that day only.
func (c *SlotCollector) CollectWeek(ctx context.Context, page driver.Page) ([]DaySlots, error) {
	enabledIndexes, err := c.enabledDayButtons(ctx, page)
	if err != nil {
		return nil, err
	}
	if len(enabledIndexes) == 0 {
		log.L().Debug("no_enabled_days_retrying")
		if err := page.Settle(ctx, c.settle); err != nil {
			return nil, err
		}
		enabledIndexes, err = c.enabledDayButtons(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(enabledIndexes) == 0 {
			log.L().Info("no_enabled_days_in_week")
			return nil, nil
		}
	}

	var days []DaySlots
	for _, buttonIndex := range enabledIndexes {
		if err := ctx.Err(); err != nil {
			return days, err
		}
		day, dayError := c.collectDay(ctx, page, buttonIndex)
		if dayError != nil {
			if ctx.Err() != nil {
				return days, ctx.Err()
			}
			log.L().Warn("day_read_failed", zap.Int("button", buttonIndex), zap.Error(dayError))
			continue
		}
		if len(day.Slots) == 0 {
			log.L().Debug("day_without_slots", zap.String("date", day.Date))
			continue
		}
		log.L().Info("day_collected",
			zap.String("day", day.DayName),
			zap.String("date", day.Date),
			zap.Int("slots", len(day.Slots)))
		days = append(days, day)
	}
	return days, nil
}

func (c *SlotCollector) enabledDayButtons(ctx context.Context, page driver.Page) ([]int, error) {
	count, err := page.Count(ctx, c.calendar.DayButton)
	if err != nil {
		return nil, err
	}
	var enabledIndexes []int
	for i := 0; i < count; i++ {
		enabled, enabledError := page.Enabled(ctx, c.calendar.DayButton, i)
		if enabledError != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.L().Warn("day_button_state_unreadable", zap.Int("button", i), zap.Error(enabledError))
			continue
		}
		if enabled {
			enabledIndexes = append(enabledIndexes, i)
		}
	}
	return enabledIndexes, nil
}

func (c *SlotCollector) collectDay(ctx context.Context, page driver.Page, buttonIndex int) (DaySlots, error) {
	if err := page.ClickNth(ctx, c.calendar.DayButton, buttonIndex); err != nil {
		return DaySlots{}, err
	}
	if err := page.Settle(ctx, c.settle); err != nil {
		return DaySlots{}, err
	}
	bodyHTML, err := page.OuterHTML(ctx, bodySelector)
	if err != nil {
		return DaySlots{}, err
	}
	return parseSelectedDay(bodyHTML, c.calendar, c.now().Year())
}
