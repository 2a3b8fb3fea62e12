package schedule

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ymcacal/internal/model"
)

// Row-level selectors inside the rendered timetable container.
const (
	selRow         = ".timetable-row"
	selRowTime     = ".timetable-row--time"
	selRowTitle    = ".timetable-row--title"
	selRowTrainer  = ".timetable-row--trainer"
	selRowLocation = ".timetable-row--location"
)

// ExtractRows reads the class rows out of one day's rendered timetable
// markup, in DOM order.
//
// Field lookups are independent: a missing trainer or location cell never
// discards the row. A row missing its title or time text is dropped, since
// it can never become an event. A missing location cell falls back to
// defaultRoom (the facility name).
func ExtractRows(markup, defaultRoom string) ([]model.ClassRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("extract: parsing day markup: %w", err)
	}

	var rows []model.ClassRow
	doc.Find(selRow).Each(func(_ int, row *goquery.Selection) {
		timeText, _ := fieldText(row, selRowTime)
		title, _ := fieldText(row, selRowTitle)
		instructor, _ := fieldText(row, selRowTrainer)
		room, ok := fieldText(row, selRowLocation)
		if !ok {
			room = defaultRoom
		}

		if timeText == "" || title == "" {
			return
		}

		rows = append(rows, model.ClassRow{
			Title:      title,
			TimeText:   timeText,
			Instructor: instructor,
			Room:       room,
		})
	})

	return rows, nil
}

// fieldText reads the trimmed text of the first sub-element matching sel.
// ok is false when the row has no such sub-element at all.
func fieldText(row *goquery.Selection, sel string) (string, bool) {
	s := row.Find(sel).First()
	if s.Length() == 0 {
		return "", false
	}
	return strings.TrimSpace(s.Text()), true
}
