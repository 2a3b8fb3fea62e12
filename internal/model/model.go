package model

import "time"

// Day identifies one selectable day in the schedule widget. It is rebuilt
// from the live tab list on every iteration step, so it never holds a DOM
// reference across a re-render: only the position and the resolved date.
type Day struct {
	// Index is the tab's position in the day slider.
	Index int
	// Date is the tab's calendar date as an ISO string ("2006-01-02").
	Date string
}

// ClassRow is one row of schedule text as read off the rendered widget,
// before any time parsing. Title and TimeText are required; a row missing
// either is dropped before it can become an event.
type ClassRow struct {
	Title      string
	TimeText   string
	Instructor string // empty when the row has no trainer cell
	Room       string // facility name when the row has no location cell
}

// ClassEvent is a ClassRow with concrete start/end instants attached, in
// the configured timezone. End is always strictly after Start.
type ClassEvent struct {
	Title      string
	Instructor string
	Room       string

	// Date is the originating widget day, ISO form.
	Date string

	Start time.Time
	End   time.Time
}

// Key returns the deduplication identity for the event. Instructor and
// room differences do not make two entries distinct.
func (e ClassEvent) Key() EventKey {
	return EventKey{
		Title: e.Title,
		Start: e.Start.UnixNano(),
		End:   e.End.UnixNano(),
	}
}

// EventKey is a comparable (title, start, end) tuple. Instants are stored
// as Unix nanoseconds so that equal moments in time compare equal even if
// the time.Time values carry different Location pointers.
type EventKey struct {
	Title string
	Start int64
	End   int64
}
