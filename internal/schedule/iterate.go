package schedule

import (
	"fmt"
	"time"

	"ymcacal/internal/browser"
	appLog "ymcacal/internal/log"
	"ymcacal/internal/model"
)

// Selectors for the Fisikal schedule widget embedded on the page.
const (
	selWidgetRoot  = "#fisikal-widget"
	selDateSlider  = ".fkl-location--date #fkl-date-slider"
	selDateTab     = ".fkl-location--date #fkl-date-slider .date-filter"
	selCurrentDate = ".fkl-location--current-date"
	selTimetable   = ".fkl-location--timetable"

	attrTabDate     = "data-date"
	attrCurrentDate = "data-curdate"
)

const (
	// confirmTimeout bounds the wait for the current-date indicator to
	// reflect a clicked tab. Expiry is not fatal; the widget sometimes
	// switches days without updating the indicator in time.
	confirmTimeout = 15 * time.Second

	// containerTimeout bounds the wait for the day's timetable container.
	containerTimeout = 10 * time.Second

	// populateDelay gives the widget's own scripts a moment to fill in
	// the slider after the root appears.
	populateDelay = 2 * time.Second

	// settleDelay absorbs asynchronous row population after the
	// container shows up.
	settleDelay = 400 * time.Millisecond

	// confirmFallback is the unconditional pause taken instead of a
	// confirmed day switch.
	confirmFallback = 1 * time.Second
)

// Iterator walks the widget's selectable days in slider order, yielding
// each day's rendered timetable markup exactly once. There is no backward
// iteration and no retry of a day.
type Iterator struct {
	sess        browser.Session
	waitTimeout time.Duration
}

// NewIterator returns an Iterator over sess. waitTimeout bounds the
// initial waits for the widget root and the day slider; those failing is
// fatal, there is no schedule to scrape without them.
func NewIterator(sess browser.Session, waitTimeout time.Duration) *Iterator {
	return &Iterator{sess: sess, waitTimeout: waitTimeout}
}

// Walk selects each day tab in turn and calls visit with the day and its
// timetable markup. Tabs without a resolvable date are skipped. A visit
// error aborts the walk.
//
// The tab list is counted once to fix the iteration length, but every
// per-index read and click re-queries the live DOM: the widget re-renders
// its tabs between selections, and a held reference would go stale.
func (it *Iterator) Walk(visit func(day model.Day, markup string) error) error {
	if err := it.sess.WaitVisible(selWidgetRoot, it.waitTimeout); err != nil {
		return fmt.Errorf("schedule: widget never appeared: %w", err)
	}
	if err := it.sess.Sleep(populateDelay); err != nil {
		return err
	}
	if err := it.sess.WaitVisible(selDateSlider, it.waitTimeout); err != nil {
		return fmt.Errorf("schedule: day selector never appeared: %w", err)
	}

	total, err := it.sess.Count(selDateTab)
	if err != nil {
		return fmt.Errorf("schedule: enumerating day tabs: %w", err)
	}
	appLog.Info("day tabs enumerated", "count", total)

	for idx := 0; idx < total; idx++ {
		date, ok, err := it.sess.AttrAt(selDateTab, idx, attrTabDate)
		if err != nil {
			return fmt.Errorf("schedule: reading day tab %d: %w", idx, err)
		}
		if !ok || date == "" {
			appLog.Debug("day tab without date skipped", "index", idx)
			continue
		}

		if err := it.sess.ClickAt(selDateTab, idx); err != nil {
			return fmt.Errorf("schedule: selecting day %s: %w", date, err)
		}

		// Best-effort confirmation only: when the indicator never
		// catches up, pause briefly and scrape whatever is shown.
		if err := it.sess.WaitAttr(selCurrentDate, attrCurrentDate, date, confirmTimeout); err != nil {
			appLog.Warn("day selection unconfirmed, continuing", "date", date, "index", idx)
			if err := it.sess.Sleep(confirmFallback); err != nil {
				return err
			}
		}

		if err := it.sess.WaitVisible(selTimetable, containerTimeout); err != nil {
			return fmt.Errorf("schedule: timetable for %s never appeared: %w", date, err)
		}
		if err := it.sess.Sleep(settleDelay); err != nil {
			return err
		}

		markup, err := it.sess.OuterHTML(selTimetable)
		if err != nil {
			return fmt.Errorf("schedule: reading timetable for %s: %w", date, err)
		}

		if err := visit(model.Day{Index: idx, Date: date}, markup); err != nil {
			return err
		}
	}

	return nil
}
