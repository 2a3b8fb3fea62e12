package browser

import (
	"context"
	"errors"
	"time"
)

// ErrNoElement is returned by element-targeting calls when the selector
// (or the index into its match list) resolves to nothing.
var ErrNoElement = errors.New("browser: no matching element")

// Session is the capability surface the schedule logic needs from a
// rendered page. Every blocking call carries its own bounded timeout; on
// timeout the underlying error satisfies IsTimeout, and the caller decides
// whether that is fatal.
//
// Indexed calls (Count / AttrAt / ClickAt) re-resolve the selector against
// the live DOM on every invocation. The widget re-renders its day tabs
// between selections, so holding an element reference across a click is
// never safe; the schedule code depends on this re-query behavior.
type Session interface {
	// Navigate loads the given URL and waits for the document body.
	Navigate(url string, timeout time.Duration) error

	// DismissConsent best-effort clicks a cookie-consent button if one is
	// present. It never fails the run; a nil error only means the attempt
	// completed.
	DismissConsent() error

	// WaitVisible blocks until sel matches a visible element.
	WaitVisible(sel string, timeout time.Duration) error

	// WaitAttr blocks until the first element matching sel has attribute
	// attr equal to want.
	WaitAttr(sel, attr, want string, timeout time.Duration) error

	// Count returns the current number of elements matching sel.
	Count(sel string) (int, error)

	// AttrAt reads attribute attr of the idx-th element matching sel.
	// A missing element or missing attribute yields ok == false, not an
	// error; errors are reserved for driver failures.
	AttrAt(sel string, idx int, attr string) (value string, ok bool, err error)

	// ClickAt clicks the idx-th element matching sel programmatically
	// (scroll into view + synthetic click, robust against elements a real
	// pointer could not reach).
	ClickAt(sel string, idx int) error

	// OuterHTML returns the rendered markup of the first element
	// matching sel.
	OuterHTML(sel string) (string, error)

	// Sleep pauses for the given settle delay.
	Sleep(d time.Duration) error
}

// IsTimeout reports whether err is a bounded-wait expiry rather than a
// hard driver failure.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
