package schedule

import (
	"reflect"
	"testing"

	"ymcacal/internal/model"
)

const facilityName = "University Hills-Schlessman YMCA"

const dayMarkup = `<div class="fkl-location--timetable">
  <div class="timetable-row">
    <div class="timetable-row--time"> 6:00am - 7:00am </div>
    <div class="timetable-row--title">Spin</div>
    <div class="timetable-row--trainer">J. Doe</div>
    <div class="timetable-row--location">Cycle Studio</div>
  </div>
  <div class="timetable-row">
    <div class="timetable-row--time">8:00am - 8:45am</div>
    <div class="timetable-row--title">Yoga Flow</div>
  </div>
  <div class="timetable-row">
    <div class="timetable-row--time">9:00am - 10:00am</div>
    <div class="timetable-row--title"></div>
    <div class="timetable-row--trainer">A. Smith</div>
  </div>
  <div class="timetable-row">
    <div class="timetable-row--title">Pilates</div>
    <div class="timetable-row--trainer">B. Jones</div>
  </div>
  <div class="timetable-row">
    <div class="timetable-row--time">12:00pm - 1:00pm</div>
    <div class="timetable-row--title">Aqua Fit</div>
    <div class="timetable-row--location">Pool</div>
  </div>
</div>`

func TestExtractRows(t *testing.T) {
	rows, err := ExtractRows(dayMarkup, facilityName)
	if err != nil {
		t.Fatalf("ExtractRows failed: %v", err)
	}

	want := []model.ClassRow{
		{Title: "Spin", TimeText: "6:00am - 7:00am", Instructor: "J. Doe", Room: "Cycle Studio"},
		{Title: "Yoga Flow", TimeText: "8:00am - 8:45am", Instructor: "", Room: facilityName},
		{Title: "Aqua Fit", TimeText: "12:00pm - 1:00pm", Instructor: "", Room: "Pool"},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("ExtractRows = %+v, want %+v", rows, want)
	}
}

func TestExtractRowsDropsIncompleteRows(t *testing.T) {
	rows, err := ExtractRows(dayMarkup, facilityName)
	if err != nil {
		t.Fatalf("ExtractRows failed: %v", err)
	}

	for _, row := range rows {
		if row.Title == "" || row.TimeText == "" {
			t.Errorf("row with empty required field survived: %+v", row)
		}
	}
	// The empty-title and missing-time rows are gone.
	if len(rows) != 3 {
		t.Errorf("got %d rows, want 3", len(rows))
	}
}

func TestExtractRowsIdempotent(t *testing.T) {
	first, err := ExtractRows(dayMarkup, facilityName)
	if err != nil {
		t.Fatalf("first extraction failed: %v", err)
	}
	second, err := ExtractRows(dayMarkup, facilityName)
	if err != nil {
		t.Fatalf("second extraction failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestExtractRowsEmptyContainer(t *testing.T) {
	rows, err := ExtractRows(`<div class="fkl-location--timetable"></div>`, facilityName)
	if err != nil {
		t.Fatalf("ExtractRows failed: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows from an empty container, want 0", len(rows))
	}
}
