package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	appLog "ymcacal/internal/log"
)

// consentSelectors are tried in order when dismissing a cookie banner.
// The OneTrust ids cover the YMCA site; the aria-label form is a fallback
// seen on other themes.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"button#onetrust-accept-btn-handler",
	"button[aria-label*='accept' i]",
}

// Chrome is the chromedp-backed Session. One Chrome value owns one
// headless browser tab for the lifetime of the run.
type Chrome struct {
	ctx         context.Context
	cancelCtx   context.CancelFunc
	cancelAlloc context.CancelFunc
}

var _ Session = (*Chrome)(nil)

// NewChrome launches a Chromium instance and opens a tab. The session is
// bound to parent: canceling parent tears the browser down mid-call.
func NewChrome(parent context.Context, headless bool) (*Chrome, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", headless),
			chromedp.Flag("disable-gpu", true),
		)...,
	)

	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	// Start the browser eagerly so launch failures surface here instead
	// of on the first navigation.
	if err := chromedp.Run(ctx); err != nil {
		cancelCtx()
		cancelAlloc()
		return nil, fmt.Errorf("browser: starting chrome: %w", err)
	}

	return &Chrome{
		ctx:         ctx,
		cancelCtx:   cancelCtx,
		cancelAlloc: cancelAlloc,
	}, nil
}

// Close shuts the tab and the browser down.
func (c *Chrome) Close() error {
	c.cancelCtx()
	c.cancelAlloc()
	return nil
}

// run executes actions against the tab under a bounded deadline. A zero
// timeout means no per-call bound beyond the session's own lifetime.
func (c *Chrome) run(timeout time.Duration, actions ...chromedp.Action) error {
	ctx := c.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return chromedp.Run(ctx, actions...)
}

func (c *Chrome) Navigate(url string, timeout time.Duration) error {
	err := c.run(timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("browser: navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) DismissConsent() error {
	for _, sel := range consentSelectors {
		var clicked bool
		err := c.run(2*time.Second, chromedp.Evaluate(clickFirstJS(sel), &clicked))
		if err == nil && clicked {
			appLog.Debug("consent banner dismissed", "selector", sel)
			return c.Sleep(400 * time.Millisecond)
		}
	}

	// Fallback: any button whose text contains "accept".
	var clicked bool
	err := c.run(2*time.Second, chromedp.Evaluate(clickAcceptButtonJS, &clicked))
	if err == nil && clicked {
		appLog.Debug("consent banner dismissed", "selector", "button:accept-text")
		return c.Sleep(400 * time.Millisecond)
	}
	return nil
}

func (c *Chrome) WaitVisible(sel string, timeout time.Duration) error {
	if err := c.run(timeout, chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("browser: waiting for %q: %w", sel, err)
	}
	return nil
}

func (c *Chrome) WaitAttr(sel, attr, want string, timeout time.Duration) error {
	expr := fmt.Sprintf(
		`(function() {
			var n = document.querySelector(%q);
			return !!n && n.getAttribute(%q) === %q;
		})()`, sel, attr, want)

	var matched bool
	err := c.run(timeout, chromedp.Poll(expr, &matched, chromedp.WithPollingInterval(200*time.Millisecond)))
	if err != nil {
		return fmt.Errorf("browser: waiting for %q[%s=%q]: %w", sel, attr, want, err)
	}
	return nil
}

func (c *Chrome) Count(sel string) (int, error) {
	var n int
	expr := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	if err := c.run(5*time.Second, chromedp.Evaluate(expr, &n)); err != nil {
		return 0, fmt.Errorf("browser: counting %q: %w", sel, err)
	}
	return n, nil
}

func (c *Chrome) AttrAt(sel string, idx int, attr string) (string, bool, error) {
	expr := fmt.Sprintf(
		`(function() {
			var n = document.querySelectorAll(%q)[%d];
			if (!n) return {found: false, value: ""};
			var v = n.getAttribute(%q);
			if (v === null) return {found: false, value: ""};
			return {found: true, value: v};
		})()`, sel, idx, attr)

	var res struct {
		Found bool   `json:"found"`
		Value string `json:"value"`
	}
	if err := c.run(5*time.Second, chromedp.Evaluate(expr, &res)); err != nil {
		return "", false, fmt.Errorf("browser: reading %s of %q[%d]: %w", attr, sel, idx, err)
	}
	return res.Value, res.Found, nil
}

func (c *Chrome) ClickAt(sel string, idx int) error {
	expr := fmt.Sprintf(
		`(function() {
			var n = document.querySelectorAll(%q)[%d];
			if (!n) return false;
			n.scrollIntoView({block: 'center'});
			n.click();
			return true;
		})()`, sel, idx)

	var clicked bool
	if err := c.run(5*time.Second, chromedp.Evaluate(expr, &clicked)); err != nil {
		return fmt.Errorf("browser: clicking %q[%d]: %w", sel, idx, err)
	}
	if !clicked {
		return fmt.Errorf("browser: clicking %q[%d]: %w", sel, idx, ErrNoElement)
	}
	return nil
}

func (c *Chrome) OuterHTML(sel string) (string, error) {
	var html string
	err := c.run(5*time.Second, chromedp.OuterHTML(sel, &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("browser: reading markup of %q: %w", sel, err)
	}
	return html, nil
}

func (c *Chrome) Sleep(d time.Duration) error {
	return c.run(0, chromedp.Sleep(d))
}

func clickFirstJS(sel string) string {
	return fmt.Sprintf(
		`(function() {
			var n = document.querySelector(%q);
			if (!n) return false;
			n.click();
			return true;
		})()`, sel)
}

// clickAcceptButtonJS clicks the first button whose visible text contains
// "accept", case-insensitively.
const clickAcceptButtonJS = `(function() {
	var buttons = document.getElementsByTagName('button');
	for (var i = 0; i < buttons.length; i++) {
		var t = (buttons[i].textContent || '').trim().toLowerCase();
		if (t.indexOf('accept') !== -1) {
			buttons[i].click();
			return true;
		}
	}
	return false;
})()`
