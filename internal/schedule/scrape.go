package schedule

import (
	"fmt"
	"time"

	"ymcacal/internal/browser"
	"ymcacal/internal/config"
	appLog "ymcacal/internal/log"
	"ymcacal/internal/model"
)

// Scraper ties the day iterator, row extractor, time resolver and
// aggregator together over a single browser session.
type Scraper struct {
	sess browser.Session
	conf *config.Config
	loc  *time.Location
}

// NewScraper validates the configured timezone and returns a Scraper over
// sess. The session is borrowed, not owned; the caller closes it.
func NewScraper(sess browser.Session, conf *config.Config) (*Scraper, error) {
	loc, err := time.LoadLocation(conf.Timezone)
	if err != nil {
		return nil, fmt.Errorf("schedule: loading timezone %q: %w", conf.Timezone, err)
	}
	return &Scraper{sess: sess, conf: conf, loc: loc}, nil
}

// Run performs one full scrape: navigate, walk every day, extract and
// resolve rows, dedupe per day. Rows with missing or unparseable fields
// degrade silently; only widget-level failures abort the run.
func (s *Scraper) Run() ([]model.ClassEvent, error) {
	appLog.Info("scrape starting", "url", s.conf.URL, "timezone", s.conf.Timezone)

	if err := s.sess.Navigate(s.conf.URL, s.conf.NavTimeout()); err != nil {
		return nil, err
	}
	if err := s.sess.DismissConsent(); err != nil {
		appLog.Warn("consent dismissal failed, continuing", "err", err)
	}

	agg := NewAggregator()
	it := NewIterator(s.sess, s.conf.NavTimeout())

	err := it.Walk(func(day model.Day, markup string) error {
		agg.StartDay()

		date, ok := ParseDate(day.Date, s.loc)
		if !ok {
			appLog.Warn("day tab with malformed date skipped", "date", day.Date, "index", day.Index)
			return nil
		}

		rows, err := ExtractRows(markup, s.conf.FacilityName)
		if err != nil {
			return err
		}

		kept := 0
		for _, row := range rows {
			start, end, ok := ResolveRange(row.TimeText, date, s.loc)
			if !ok {
				appLog.Debug("row with unparseable time dropped", "date", day.Date, "title", row.Title, "time_text", row.TimeText)
				continue
			}

			ev := model.ClassEvent{
				Title:      row.Title,
				Instructor: row.Instructor,
				Room:       row.Room,
				Date:       day.Date,
				Start:      start,
				End:        end,
			}
			if agg.Add(ev) {
				kept++
			} else {
				appLog.Debug("duplicate row dropped", "date", day.Date, "title", row.Title)
			}
		}

		appLog.Info("day scraped", "date", day.Date, "rows", len(rows), "events", kept)
		return nil
	})
	if err != nil {
		return nil, err
	}

	appLog.Info("scrape finished", "events", agg.Len())
	return agg.Events(), nil
}
