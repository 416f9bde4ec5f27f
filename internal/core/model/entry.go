package model

import (
	"time"

	"github.com/google/uuid"
)

// entryNamespace seeds deterministic IDs for entries that carry no UID.
var entryNamespace = uuid.MustParse("6f1c7c0e-3f1a-4d55-9a2b-5d0c3e8b7a11")

// CalendarEntry is an immutable snapshot of one calendar occurrence.
type CalendarEntry struct {
	ID           string
	Start        time.Time
	End          time.Time
	AllDay       bool
	Title        string
	CalendarName string
}

// EntryID returns uid when set, otherwise a stable UUIDv5 derived from the
// calendar name, title and start instant.
func EntryID(uid, calendarName, title string, start time.Time) string {
	if uid != "" {
		return uid
	}
	key := calendarName + "\x00" + title + "\x00" + start.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(entryNamespace, []byte(key)).String()
}

// Active reports whether now falls inside [Start, End).
func (entry CalendarEntry) Active(now time.Time) bool {
	return !entry.Start.After(now) && now.Before(entry.End)
}

// CoversDay reports whether an all-day entry spans the calendar day of date.
// End is exclusive, so a one-day entry ending at the next midnight covers
// only its own day.
func (entry CalendarEntry) CoversDay(date time.Time, loc *time.Location) bool {
	day := StartOfDay(date, loc)
	start := StartOfDay(entry.Start, loc)
	if day.Before(start) {
		return false
	}
	if !entry.End.After(entry.Start) {
		return SameDay(entry.Start, date, loc)
	}
	return day.Before(entry.End.In(loc))
}

// StartOfDay truncates t to local midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// SameDay compares calendar days, not instants.
func SameDay(a, b time.Time, loc *time.Location) bool {
	if loc == nil {
		loc = time.Local
	}
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}
