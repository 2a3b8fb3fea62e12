package schedule

import (
	"regexp"
	"strings"
	"time"
)

// The widget prints ranges like "6:00am - 7:00am", with inconsistent
// casing and whitespace. Tokens without a colon are left unmatched on
// purpose; they fail parsing and the row is dropped.
var (
	rangeRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[ap]m)\s*-\s*(\d{1,2}:\d{2}\s*[ap]m)`)
	clockRe = regexp.MustCompile(`(?i)(\d{1,2}:\d{2}\s*[ap]m)`)
)

// fallbackDuration is assumed when a row carries only a start time.
const fallbackDuration = 60 * time.Minute

// ResolveRange turns free-form time text into concrete start/end instants
// on day, localized to loc.
//
// The primary path matches a full "H:MMam - H:MMpm" range. When the naive
// parse puts end at or before start (a range crossing noon or midnight
// with a sloppy second token), end is advanced by 12 hours. If no full
// range is present but a single clock time is, that time becomes start
// and end defaults to one hour later. Text with no clock time at all
// yields ok == false and the caller discards the row.
func ResolveRange(text string, day time.Time, loc *time.Location) (start, end time.Time, ok bool) {
	if m := rangeRe.FindStringSubmatch(text); m != nil {
		start, ok = parseClock(m[1], day, loc)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		end, ok = parseClock(m[2], day, loc)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		// A range like "11:30pm - 12:15am" naive-parses with end a full
		// day behind; advance in half-day steps until the range is
		// positive.
		for !end.After(start) {
			end = end.Add(12 * time.Hour)
		}
		return start, end, true
	}

	if m := clockRe.FindStringSubmatch(text); m != nil {
		start, ok = parseClock(m[1], day, loc)
		if !ok {
			return time.Time{}, time.Time{}, false
		}
		return start, start.Add(fallbackDuration), true
	}

	return time.Time{}, time.Time{}, false
}

// parseClock parses one "H:MM am|pm" token onto the given calendar day.
func parseClock(token string, day time.Time, loc *time.Location) (time.Time, bool) {
	// Collapse internal whitespace so "6:00 am" and "6:00am" parse alike.
	token = strings.ToLower(strings.Join(strings.Fields(token), ""))

	t, err := time.Parse("3:04pm", token)
	if err != nil {
		return time.Time{}, false
	}

	return time.Date(day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, loc), true
}

// ParseDate parses a widget day attribute ("2006-01-02") in loc.
func ParseDate(iso string, loc *time.Location) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(iso), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
