package overlay

import (
	"strconv"
	"time"

	"digitalclock/internal/core/model"
	"digitalclock/internal/core/relevance"
	"digitalclock/internal/platform"
)

const (
	clockFormat = "15:04"
	dateFormat  = "Mon 2. 1. 2006"
)

// Day is one cell of the day strip.
type Day struct {
	Label string
	Class model.DayClassification
	Today bool
}

// Frame is everything the clock window draws for one instant.
type Frame struct {
	Clock   string
	Date    string
	Days    []Day
	Blocks  []relevance.Block
	Battery relevance.BatteryGlyph
}

// Agenda answers the day-strip and status-panel questions.
type Agenda interface {
	Classify(date time.Time) model.DayClassification
	EventsOnDay(now time.Time) []model.CalendarEntry
}

// BuildFrame assembles the frame for now.
func BuildFrame(now time.Time, loc *time.Location, agenda Agenda, info platform.SystemInfoProvider) Frame {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	window := model.NewObservedWindow(now)
	days := make([]Day, 0, len(window.Dates))
	for _, date := range window.Dates {
		days = append(days, Day{
			Label: strconv.Itoa(date.Day()),
			Class: agenda.Classify(date),
			Today: model.SameDay(date, now, loc),
		})
	}

	battery := info.BatteryLevel()
	return Frame{
		Clock:   now.Format(clockFormat),
		Date:    now.Format(dateFormat),
		Days:    days,
		Blocks:  relevance.Panel(now, agenda.EventsOnDay(now), info.Uptime(), battery),
		Battery: relevance.GlyphFor(battery),
	}
}
