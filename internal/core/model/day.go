package model

import "time"

// DayClassification marks a date in the day strip.
type DayClassification int

// Higher values win when several classifications apply to the same day.
const (
	DayNone DayClassification = iota
	DayWeekend
	DayPlannedEvent
	DayHoliday
)

func (class DayClassification) String() string {
	switch class {
	case DayWeekend:
		return "weekend"
	case DayPlannedEvent:
		return "planned_event"
	case DayHoliday:
		return "holiday"
	default:
		return "none"
	}
}

// Glyph returns the marker drawn under the day number.
func (class DayClassification) Glyph() string {
	switch class {
	case DayWeekend:
		return "●"
	case DayPlannedEvent:
		return "★"
	case DayHoliday:
		return "♦"
	default:
		return ""
	}
}

const (
	windowDaysBack    = 2
	windowDaysForward = 5
)

// WindowSize is the number of dates in an observed window.
const WindowSize = windowDaysBack + windowDaysForward + 1

// ObservedWindow is the ordered date range tracked by the day strip.
// Generation identifies the window; each replacement gets a larger value.
type ObservedWindow struct {
	Dates      []time.Time
	Generation uint64
}

// WindowDates returns today-2 … today+5 around now.
func WindowDates(now time.Time) []time.Time {
	dates := make([]time.Time, 0, WindowSize)
	for offset := -windowDaysBack; offset <= windowDaysForward; offset++ {
		dates = append(dates, now.AddDate(0, 0, offset))
	}
	return dates
}

// NewObservedWindow returns the window around now. Generation is left for
// the owner of the window to assign.
func NewObservedWindow(now time.Time) ObservedWindow {
	return ObservedWindow{Dates: WindowDates(now)}
}

// Bounds returns [start of the first day, start of the day after the last).
// ok is false when the window has fewer than two dates.
func (window ObservedWindow) Bounds(loc *time.Location) (time.Time, time.Time, bool) {
	if len(window.Dates) < 2 {
		return time.Time{}, time.Time{}, false
	}
	start := StartOfDay(window.Dates[0], loc)
	end := StartOfDay(window.Dates[len(window.Dates)-1], loc).AddDate(0, 0, 1)
	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}
