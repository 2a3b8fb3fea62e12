package schedule

import "ymcacal/internal/model"

// Aggregator accumulates unique events in discovery order. Duplicates are
// detected within one day only; StartDay resets the window. Keys embed
// the full start/end instants, so rows from different days can never
// collide anyway.
type Aggregator struct {
	seen   map[model.EventKey]struct{}
	events []model.ClassEvent
}

func NewAggregator() *Aggregator {
	return &Aggregator{seen: make(map[model.EventKey]struct{})}
}

// StartDay resets the duplicate window for a new day's rows.
func (a *Aggregator) StartDay() {
	a.seen = make(map[model.EventKey]struct{})
}

// Add appends ev unless an event with the same (title, start, end) was
// already added since the last StartDay. It reports whether ev was kept.
func (a *Aggregator) Add(ev model.ClassEvent) bool {
	key := ev.Key()
	if _, dup := a.seen[key]; dup {
		return false
	}
	a.seen[key] = struct{}{}
	a.events = append(a.events, ev)
	return true
}

// Events returns the accumulated events in day-then-row discovery order.
func (a *Aggregator) Events() []model.ClassEvent {
	return a.events
}

func (a *Aggregator) Len() int {
	return len(a.events)
}
