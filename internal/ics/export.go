package ics

import (
	"crypto/sha1"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "ymcacal/internal/log"
	"ymcacal/internal/model"
)

const (
	prodID     = "-//University Hills YMCA schedule//ymcacal//EN"
	sourceNote = "Source: University Hills Y schedule"
)

// BuildCalendar maps the scraped events onto one VCALENDAR document. Each
// event becomes a VEVENT: summary is the class title, the description
// carries instructor and room as optional lines plus a source note, and
// the location is the fixed facility address (the per-event room only
// appears in the description).
func BuildCalendar(events []model.ClassEvent, address string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(prodID)
	cal.SetVersion("2.0")

	stamp := time.Now().UTC()
	for _, ev := range events {
		entry := cal.AddEvent(eventUID(ev))
		entry.SetDtStampTime(stamp)
		entry.SetSummary(ev.Title)
		entry.SetStartAt(ev.Start)
		entry.SetEndAt(ev.End)
		entry.SetDescription(description(ev))
		entry.SetLocation(address)
	}

	return cal
}

// WriteFile serializes events into the calendar file at path, replacing
// any previous run's output. The write happens once, after all days have
// been processed, so an aborted run never leaves a partial file behind.
// It returns the number of entries written.
func WriteFile(path string, events []model.ClassEvent, address string) (int, error) {
	if path == "" {
		return 0, errors.New("export: output path is empty")
	}

	cal := BuildCalendar(events, address)
	if err := os.WriteFile(path, []byte(cal.Serialize()), 0o644); err != nil {
		return 0, fmt.Errorf("export: writing %s: %w", path, err)
	}

	appLog.Info("calendar written", "path", path, "events", len(events))
	return len(events), nil
}

func description(ev model.ClassEvent) string {
	var lines []string
	if ev.Instructor != "" {
		lines = append(lines, "Instructor: "+ev.Instructor)
	}
	if ev.Room != "" {
		lines = append(lines, "Room/Studio: "+ev.Room)
	}
	lines = append(lines, sourceNote)
	return strings.Join(lines, "\n")
}

// eventUID derives a stable identifier from the dedup key, so re-scraping
// an unchanged schedule yields byte-identical UIDs.
func eventUID(ev model.ClassEvent) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%d|%d", ev.Title, ev.Start.Unix(), ev.End.Unix())
	return fmt.Sprintf("%x@ymcacal", h.Sum(nil))
}
