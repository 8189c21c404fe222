// Package browser wraps chromedp behind the narrow Page contract the
// orchestration core uses: navigation, DOM query, click, type, scroll, and
// script execution. The core never imports chromedp directly, which keeps
// every handler testable against a mocked Page.
package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/instaflow-labs/instaflow-cli/internal/config"
)

// Cookie is a name/value pair injected into the browser context.
type Cookie struct {
	Name  string
	Value string
}

// Page is the browser-control handle the session and engine operate on.
// All queries are XPath expressions. Exactly one goroutine may use a Page at
// a time; implementations provide no internal ordering beyond that.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// Source returns the full rendered page HTML.
	Source(ctx context.Context) (string, error)
	// Count reports how many elements the query currently matches.
	Count(ctx context.Context, query string) (int, error)
	Click(ctx context.Context, query string) error
	SendKeys(ctx context.Context, query, text string) error
	// Submit sends an Enter keypress into the matched element.
	Submit(ctx context.Context, query string) error
	// PressEscape sends an Escape keypress to the page.
	PressEscape(ctx context.Context) error
	ScrollBy(ctx context.Context, deltaY int) error
	ScrollIntoView(ctx context.Context, query string) error
	// MoveMouse dispatches a pointer movement to the given viewport position.
	MoveMouse(ctx context.Context, x, y float64) error
	SetCookies(ctx context.Context, domain string, cookies []Cookie) error
	Close() error
}

// Driver is the chromedp-backed Page implementation.
type Driver struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	logger      *zap.Logger
	cfg         config.BrowserConfig

	mu       sync.Mutex
	isClosed bool
}

var _ Page = (*Driver)(nil)

// New launches a Chrome instance and returns a Driver bound to a fresh tab.
func New(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Driver, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.Flag("headless", cfg.Headless))
	if cfg.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Establish the target and the CDP connection up front so a broken
	// Chrome install surfaces here rather than mid-action.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("starting browser: %w", err)
	}

	return &Driver{
		ctx:         browserCtx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		logger:      logger.Named("browser"),
		cfg:         cfg,
	}, nil
}

// run executes chromedp actions, respecting both the browser lifetime and the
// caller's context.
func (d *Driver) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(d.ctx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

func (d *Driver) Navigate(ctx context.Context, url string) error {
	if d.cfg.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.cfg.NavigationTimeout)
		defer cancel()
	}
	d.logger.Debug("Navigating.", zap.String("url", url))
	return d.run(ctx, chromedp.Navigate(url))
}

func (d *Driver) Source(ctx context.Context) (string, error) {
	var html string
	err := d.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		node, err := dom.GetDocument().Do(c)
		if err != nil {
			return err
		}
		html, err = dom.GetOuterHTML().WithNodeID(node.NodeID).Do(c)
		return err
	}))
	if err != nil {
		return "", fmt.Errorf("reading page source: %w", err)
	}
	return html, nil
}

func (d *Driver) Count(ctx context.Context, query string) (int, error) {
	var nodes []*cdp.Node
	err := d.run(ctx, chromedp.Nodes(query, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return 0, fmt.Errorf("querying %q: %w", query, err)
	}
	return len(nodes), nil
}

func (d *Driver) Click(ctx context.Context, query string) error {
	return d.run(ctx, chromedp.Click(query, chromedp.BySearch))
}

func (d *Driver) SendKeys(ctx context.Context, query, text string) error {
	return d.run(ctx, chromedp.SendKeys(query, text, chromedp.BySearch))
}

func (d *Driver) Submit(ctx context.Context, query string) error {
	return d.run(ctx, chromedp.SendKeys(query, kb.Enter, chromedp.BySearch))
}

func (d *Driver) PressEscape(ctx context.Context) error {
	return d.run(ctx, chromedp.KeyEvent(kb.Escape))
}

func (d *Driver) ScrollBy(ctx context.Context, deltaY int) error {
	js := fmt.Sprintf("window.scrollBy(0, %d);", deltaY)
	return d.run(ctx, chromedp.Evaluate(js, nil))
}

func (d *Driver) ScrollIntoView(ctx context.Context, query string) error {
	return d.run(ctx, chromedp.ScrollIntoView(query, chromedp.BySearch))
}

func (d *Driver) MoveMouse(ctx context.Context, x, y float64) error {
	return d.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, x, y).Do(c)
	}))
}

func (d *Driver) SetCookies(ctx context.Context, domain string, cookies []Cookie) error {
	return d.run(ctx, chromedp.ActionFunc(func(c context.Context) error {
		for _, ck := range cookies {
			if ck.Name == "" {
				continue
			}
			err := network.SetCookie(ck.Name, ck.Value).
				WithDomain(domain).
				WithPath("/").
				Do(c)
			if err != nil {
				// Cookie injection is best-effort: a stale or malformed
				// cookie must not abort session establishment.
				d.logger.Warn("Failed to set cookie.", zap.String("name", ck.Name), zap.Error(err))
			}
		}
		return nil
	}))
}

// Close tears down the tab and the browser process. Safe to call more than
// once.
func (d *Driver) Close() error {
	d.mu.Lock()
	if d.isClosed {
		d.mu.Unlock()
		return nil
	}
	d.isClosed = true
	d.mu.Unlock()

	d.logger.Debug("Closing browser.")
	d.cancel()
	d.cancelAlloc()
	return nil
}
