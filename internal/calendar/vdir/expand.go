package vdir

import (
	"fmt"
	"time"

	"github.com/emersion/go-ical"

	"digitalclock/internal/core/model"
)

type item struct {
	uid        string
	title      string
	start      time.Time
	end        time.Time
	allDay     bool
	recurrence *time.Time
	event      ical.Event
}

func (source *Source) expand(events []ical.Event, name string, start, end time.Time) ([]model.CalendarEntry, error) {
	var masters, overrides []item
	for _, event := range events {
		parsed, err := source.readEvent(event)
		if err != nil {
			return nil, err
		}
		if parsed.recurrence != nil {
			overrides = append(overrides, parsed)
			continue
		}
		masters = append(masters, parsed)
	}

	var entries []model.CalendarEntry
	for _, master := range masters {
		set, err := master.event.RecurrenceSet(source.location)
		if err != nil {
			return nil, fmt.Errorf("read recurrence of %s: %w", master.uid, err)
		}
		if set == nil {
			if overlaps(master.start, master.end, start, end) {
				entries = append(entries, entryOf(name, master, master.start, master.end, false))
			}
			continue
		}

		duration := master.end.Sub(master.start)
		occurrences := set.Between(start.Add(-duration), end, true)
		if len(occurrences) > maxOccurrences {
			occurrences = occurrences[:maxOccurrences]
		}
		for _, occurrence := range occurrences {
			if override, ok := overrideFor(overrides, master.uid, occurrence); ok {
				if overlaps(override.start, override.end, start, end) {
					entries = append(entries, entryOf(name, override, override.start, override.end, true))
				}
				continue
			}
			occurrenceEnd := occurrence.Add(duration)
			if master.allDay {
				occurrenceEnd = occurrence.AddDate(0, 0, int(duration.Round(24*time.Hour)/(24*time.Hour)))
			}
			if overlaps(occurrence, occurrenceEnd, start, end) {
				entries = append(entries, entryOf(name, master, occurrence, occurrenceEnd, true))
			}
		}
	}
	return entries, nil
}

func (source *Source) readEvent(event ical.Event) (item, error) {
	parsed := item{event: event}
	if prop := event.Props.Get(ical.PropUID); prop != nil {
		parsed.uid = prop.Value
	}
	if prop := event.Props.Get(ical.PropSummary); prop != nil {
		parsed.title = prop.Value
	}

	startProp := event.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return parsed, fmt.Errorf("event %s has no DTSTART", parsed.uid)
	}
	parsed.allDay = startProp.ValueType() == ical.ValueDate

	start, err := event.DateTimeStart(source.location)
	if err != nil {
		return parsed, fmt.Errorf("read DTSTART of %s: %w", parsed.uid, err)
	}
	endAt, err := event.DateTimeEnd(source.location)
	if err != nil {
		return parsed, fmt.Errorf("read DTEND of %s: %w", parsed.uid, err)
	}
	if !endAt.After(start) {
		endAt = start
		if parsed.allDay {
			endAt = start.AddDate(0, 0, 1)
		}
	}
	parsed.start, parsed.end = start, endAt

	if prop := event.Props.Get(ical.PropRecurrenceID); prop != nil {
		recurrence, err := prop.DateTime(source.location)
		if err != nil {
			return parsed, fmt.Errorf("read RECURRENCE-ID of %s: %w", parsed.uid, err)
		}
		parsed.recurrence = &recurrence
	}
	return parsed, nil
}

func overrideFor(overrides []item, uid string, occurrence time.Time) (item, bool) {
	for _, override := range overrides {
		if override.uid == uid && override.recurrence.Equal(occurrence) {
			return override, true
		}
	}
	return item{}, false
}

func overlaps(entryStart, entryEnd, start, end time.Time) bool {
	if !entryEnd.After(entryStart) {
		return !entryStart.Before(start) && entryStart.Before(end)
	}
	return entryStart.Before(end) && entryEnd.After(start)
}

func entryOf(name string, parsed item, start, end time.Time, instance bool) model.CalendarEntry {
	uid := parsed.uid
	if uid != "" && instance {
		uid = uid + "/" + start.UTC().Format("20060102T150405Z")
	}
	return model.CalendarEntry{
		ID:           model.EntryID(uid, name, parsed.title, start),
		Start:        start,
		End:          end,
		AllDay:       parsed.allDay,
		Title:        parsed.title,
		CalendarName: name,
	}
}
