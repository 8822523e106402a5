// Package driver abstracts the browser-automation primitives the slot
// engine depends on. The engine is written purely against the Page
// capability set; chromedp supplies the production implementation and
// tests substitute an in-memory fake.
package driver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrSelectorTimeout reports that an expected element did not appear
// within its wait window.
var ErrSelectorTimeout = errors.New("selector timeout")

// SelectorTimeoutError carries the selector that never showed up.
type SelectorTimeoutError struct {
	Selector string
	Window   time.Duration
}

func (e *SelectorTimeoutError) Error() string {
	return fmt.Sprintf("selector %q not visible within %s", e.Selector, e.Window)
}

func (e *SelectorTimeoutError) Unwrap() error { return ErrSelectorTimeout }

// Page is the capability set one automated browser tab exposes. All
// methods honor context cancellation; element indices refer to the
// document-order position among elements matching the selector at call
// time.
type Page interface {
	// Navigate loads the given URL and waits for the load event.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until an element matching selector is visible,
	// or returns a SelectorTimeoutError after the wait window elapses.
	WaitVisible(ctx context.Context, selector string, window time.Duration) error
	// Fill types value into the input matching selector.
	Fill(ctx context.Context, selector, value string) error
	// Click activates the first element matching selector.
	Click(ctx context.Context, selector string) error
	// ClickNth activates the index-th element matching selector.
	ClickNth(ctx context.Context, selector string, index int) error
	// Count reports how many elements currently match selector.
	Count(ctx context.Context, selector string) (int, error)
	// Enabled reports whether the index-th element matching selector
	// is present and not disabled.
	Enabled(ctx context.Context, selector string, index int) (bool, error)
	// OuterHTML returns the serialized HTML of the first element
	// matching selector.
	OuterHTML(ctx context.Context, selector string) (string, error)
	// Settle pauses for a short interval so the view can stabilize
	// after an interaction, returning early if ctx is cancelled.
	Settle(ctx context.Context, interval time.Duration) error
}

// Browser hands out isolated pages. One page serves exactly one scrape
// request; the release func returned by NewPage must be called exactly
// once on every exit path.
type Browser interface {
	NewPage(ctx context.Context) (Page, func(), error)
	Close()
}
