package relevance

import (
	"sort"
	"time"

	"digitalclock/internal/core/model"

	"github.com/samber/mo"
)

// LookAhead is how soon an upcoming event must start to pre-empt the one
// currently in progress.
const LookAhead = 10 * time.Minute

// Status describes how the selected event relates to now.
type Status int

const (
	StatusUnknown Status = iota
	StatusUpcoming
	StatusInProgress
)

func (status Status) String() string {
	switch status {
	case StatusUpcoming:
		return "upcoming"
	case StatusInProgress:
		return "in_progress"
	default:
		return "unknown"
	}
}

// Info is the single most relevant event for the current moment.
type Info struct {
	Entry  model.CalendarEntry
	Status Status
}

// Select picks the most relevant of today's events. An event starting
// within LookAhead wins over one already in progress.
func Select(now time.Time, events []model.CalendarEntry) mo.Option[Info] {
	sorted := append([]model.CalendarEntry(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	var inProgress, soonUpcoming, nextFuture *model.CalendarEntry
	for index := range sorted {
		candidate := &sorted[index]
		if inProgress == nil && candidate.Active(now) {
			inProgress = candidate
		}
		if candidate.Start.After(now) {
			if nextFuture == nil {
				nextFuture = candidate
			}
			if soonUpcoming == nil && candidate.Start.Before(now.Add(LookAhead)) {
				soonUpcoming = candidate
			}
		}
	}

	switch {
	case inProgress != nil && soonUpcoming != nil:
		return mo.Some(Info{Entry: *soonUpcoming, Status: StatusUpcoming})
	case inProgress != nil:
		return mo.Some(Info{Entry: *inProgress, Status: StatusInProgress})
	case nextFuture != nil:
		return mo.Some(Info{Entry: *nextFuture, Status: StatusUpcoming})
	default:
		return mo.None[Info]()
	}
}

// less orders by start, breaking ties on fields that do not depend on the
// input order so equal starts still select deterministically.
func less(a, b model.CalendarEntry) bool {
	if !a.Start.Equal(b.Start) {
		return a.Start.Before(b.Start)
	}
	if !a.End.Equal(b.End) {
		return a.End.Before(b.End)
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.ID < b.ID
}
