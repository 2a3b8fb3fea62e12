package schedule

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"ymcacal/internal/config"
	"ymcacal/internal/model"
)

func testConfig() *config.Config {
	conf := config.DefaultConfig()
	conf.URL = "https://example.test/schedule"
	conf.NavTimeoutSeconds = 1
	return conf
}

func rowHTML(timeText, title, trainer, location string) string {
	var b strings.Builder
	b.WriteString(`<div class="timetable-row">`)
	if timeText != "" {
		fmt.Fprintf(&b, `<div class="timetable-row--time">%s</div>`, timeText)
	}
	if title != "" {
		fmt.Fprintf(&b, `<div class="timetable-row--title">%s</div>`, title)
	}
	if trainer != "" {
		fmt.Fprintf(&b, `<div class="timetable-row--trainer">%s</div>`, trainer)
	}
	if location != "" {
		fmt.Fprintf(&b, `<div class="timetable-row--location">%s</div>`, location)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func timetableHTML(rows ...string) string {
	return `<div class="fkl-location--timetable">` + strings.Join(rows, "") + `</div>`
}

func runScrape(t *testing.T, sess *fakeSession) []model.ClassEvent {
	t.Helper()
	scraper, err := NewScraper(sess, testConfig())
	if err != nil {
		t.Fatalf("NewScraper failed: %v", err)
	}
	events, err := scraper.Run()
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return events
}

func TestScrapeSingleRow(t *testing.T) {
	sess := &fakeSession{days: []fakeDay{{
		date:   "2024-03-01",
		markup: timetableHTML(rowHTML("6:00am - 7:00am", "Spin", "J. Doe", "")),
	}}}

	events := runScrape(t, sess)

	if sess.navigated != "https://example.test/schedule" {
		t.Errorf("navigated to %q", sess.navigated)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	loc := denver(t)
	if ev.Title != "Spin" {
		t.Errorf("title = %q", ev.Title)
	}
	if ev.Instructor != "J. Doe" {
		t.Errorf("instructor = %q", ev.Instructor)
	}
	if ev.Room != config.DefaultFacilityName {
		t.Errorf("room = %q, want default facility name", ev.Room)
	}
	if want := time.Date(2024, 3, 1, 6, 0, 0, 0, loc); !ev.Start.Equal(want) {
		t.Errorf("start = %v, want %v", ev.Start, want)
	}
	if want := time.Date(2024, 3, 1, 7, 0, 0, 0, loc); !ev.End.Equal(want) {
		t.Errorf("end = %v, want %v", ev.End, want)
	}
	if ev.Date != "2024-03-01" {
		t.Errorf("date = %q", ev.Date)
	}
}

func TestScrapeMidnightCrossing(t *testing.T) {
	sess := &fakeSession{days: []fakeDay{{
		date:   "2024-03-01",
		markup: timetableHTML(rowHTML("11:30pm - 12:15am", "Night Owl Cycle", "", "")),
	}}}

	events := runScrape(t, sess)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	ev := events[0]
	if got := ev.End.Sub(ev.Start); got != 45*time.Minute {
		t.Errorf("duration = %v, want 45m", got)
	}
	if !ev.End.After(ev.Start) {
		t.Errorf("end %v not after start %v", ev.End, ev.Start)
	}
}

func TestScrapeDropsRowWithoutTitle(t *testing.T) {
	sess := &fakeSession{days: []fakeDay{{
		date:   "2024-03-01",
		markup: timetableHTML(rowHTML("6:00am - 7:00am", "", "J. Doe", "")),
	}}}

	events := runScrape(t, sess)
	if len(events) != 0 {
		t.Errorf("got %d events from a title-less row, want 0", len(events))
	}
}

func TestScrapeDropsUnparseableTime(t *testing.T) {
	sess := &fakeSession{days: []fakeDay{{
		date: "2024-03-01",
		markup: timetableHTML(
			rowHTML("see front desk", "Mystery Class", "", ""),
			rowHTML("6:00am - 7:00am", "Spin", "", ""),
		),
	}}}

	events := runScrape(t, sess)
	if len(events) != 1 || events[0].Title != "Spin" {
		t.Errorf("events = %+v, want only Spin", events)
	}
}

func TestScrapeDeduplicatesWithinDay(t *testing.T) {
	row := rowHTML("6:00am - 7:00am", "Spin", "J. Doe", "")
	sess := &fakeSession{days: []fakeDay{{
		date:   "2024-03-01",
		markup: timetableHTML(row, row),
	}}}

	events := runScrape(t, sess)
	if len(events) != 1 {
		t.Errorf("got %d events from duplicate rows, want 1", len(events))
	}
}

func TestScrapeWeekWithUnconfirmedDay(t *testing.T) {
	days := make([]fakeDay, 7)
	for i := range days {
		days[i] = fakeDay{
			date: fmt.Sprintf("2024-03-%02d", i+1),
			markup: timetableHTML(
				rowHTML("6:00am - 7:00am", "Spin", "J. Doe", ""),
			),
		}
	}
	days[3].laggy = true

	sess := &fakeSession{days: days}
	events := runScrape(t, sess)

	if len(events) != 7 {
		t.Fatalf("got %d events, want one per day", len(events))
	}
	for i, ev := range events {
		wantDate := fmt.Sprintf("2024-03-%02d", i+1)
		if ev.Date != wantDate {
			t.Errorf("event %d date = %q, want %q", i, ev.Date, wantDate)
		}
	}
}

func TestScrapeSkipsMalformedDayDate(t *testing.T) {
	sess := &fakeSession{days: []fakeDay{
		{date: "not-a-date", markup: timetableHTML(rowHTML("6:00am - 7:00am", "Spin", "", ""))},
		{date: "2024-03-02", markup: timetableHTML(rowHTML("6:00am - 7:00am", "Spin", "", ""))},
	}}

	events := runScrape(t, sess)
	if len(events) != 1 || events[0].Date != "2024-03-02" {
		t.Errorf("events = %+v, want only the well-formed day", events)
	}
}

func TestScrapeBadTimezone(t *testing.T) {
	conf := testConfig()
	conf.Timezone = "Nowhere/Invalid"
	if _, err := NewScraper(&fakeSession{}, conf); err == nil {
		t.Fatal("expected an error for an invalid timezone")
	}
}
