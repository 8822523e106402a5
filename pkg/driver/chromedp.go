package driver

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"

	"chilislots/pkg/config"
)

func locateChromeExecutable() string {
	if path, _ := exec.LookPath("google-chrome"); path != "" {
		return path
	}
	if path, _ := exec.LookPath("chromium"); path != "" {
		return path
	}
	return "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
}

// ChromeBrowser runs one headless Chrome process and hands out one tab
// per scrape request.
type ChromeBrowser struct {
	allocatorCancel context.CancelFunc
	browserContext  context.Context
	browserCancel   context.CancelFunc
}

// NewChromeBrowser launches Chrome with the configured flags and waits
// for it to come up.
func NewChromeBrowser(parentContext context.Context, browserConfig config.BrowserConfig) (*ChromeBrowser, error) {
	execPath := browserConfig.ExecPath
	if execPath == "" {
		execPath = locateChromeExecutable()
	}
	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(execPath),
		chromedp.Flag("headless", browserConfig.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if browserConfig.UserAgent != "" {
		options = append(options, chromedp.UserAgent(browserConfig.UserAgent))
	}

	allocatorContext, allocatorCancel := chromedp.NewExecAllocator(parentContext, options...)
	browserContext, browserCancel := chromedp.NewContext(allocatorContext)
	if err := chromedp.Run(browserContext); err != nil {
		browserCancel()
		allocatorCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}
	return &ChromeBrowser{
		allocatorCancel: allocatorCancel,
		browserContext:  browserContext,
		browserCancel:   browserCancel,
	}, nil
}

// NewPage opens a fresh tab. The returned release func closes the tab
// and is safe to call more than once.
func (b *ChromeBrowser) NewPage(ctx context.Context) (Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	tabContext, tabCancel := chromedp.NewContext(b.browserContext)
	if err := chromedp.Run(tabContext); err != nil {
		tabCancel()
		return nil, nil, fmt.Errorf("opening tab: %w", err)
	}
	var releaseOnce sync.Once
	release := func() { releaseOnce.Do(tabCancel) }
	return &chromePage{tabContext: tabContext}, release, nil
}

// Close shuts down the browser process.
func (b *ChromeBrowser) Close() {
	b.browserCancel()
	b.allocatorCancel()
}

type chromePage struct {
	tabContext context.Context
}

// run executes chromedp actions against the tab, honoring cancellation
// of the caller's context. chromedp actions only observe their own
// context chain, so the caller's Done signal is bridged over.
func (p *chromePage) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	runContext, runCancel := context.WithCancel(p.tabContext)
	defer runCancel()
	stopBridge := context.AfterFunc(ctx, runCancel)
	defer stopBridge()

	if err := chromedp.Run(runContext, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	return nil
}

func (p *chromePage) Navigate(ctx context.Context, url string) error {
	return p.run(ctx, chromedp.Navigate(url))
}

func (p *chromePage) WaitVisible(ctx context.Context, selector string, window time.Duration) error {
	waitContext, waitCancel := context.WithTimeout(ctx, window)
	defer waitCancel()
	err := p.run(waitContext, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &SelectorTimeoutError{Selector: selector, Window: window}
	}
	return err
}

func (p *chromePage) Fill(ctx context.Context, selector, value string) error {
	return p.run(ctx,
		chromedp.WaitVisible(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	)
}

func (p *chromePage) Click(ctx context.Context, selector string) error {
	return p.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

func (p *chromePage) ClickNth(ctx context.Context, selector string, index int) error {
	nodes, err := p.nodes(ctx, selector)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(nodes) {
		return fmt.Errorf("element %d of %q not found (%d present)", index, selector, len(nodes))
	}
	return p.run(ctx, chromedp.MouseClickNode(nodes[index]))
}

func (p *chromePage) Count(ctx context.Context, selector string) (int, error) {
	nodes, err := p.nodes(ctx, selector)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (p *chromePage) Enabled(ctx context.Context, selector string, index int) (bool, error) {
	nodes, err := p.nodes(ctx, selector)
	if err != nil {
		return false, err
	}
	if index < 0 || index >= len(nodes) {
		return false, nil
	}
	return !hasAttribute(nodes[index], "disabled"), nil
}

func (p *chromePage) OuterHTML(ctx context.Context, selector string) (string, error) {
	var html string
	err := p.run(ctx, chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	return html, err
}

func (p *chromePage) Settle(ctx context.Context, interval time.Duration) error {
	timer := time.NewTimer(interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (p *chromePage) nodes(ctx context.Context, selector string) ([]*cdp.Node, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// hasAttribute reports attribute presence; cdp.Node.AttributeValue
// cannot distinguish an absent attribute from an empty one.
func hasAttribute(node *cdp.Node, name string) bool {
	for i := 0; i+1 < len(node.Attributes); i += 2 {
		if node.Attributes[i] == name {
			return true
		}
	}
	return false
}
