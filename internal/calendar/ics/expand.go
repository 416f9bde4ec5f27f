package ics

import (
	"time"

	"github.com/teambition/rrule-go"

	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

const maxOccurrences = 1000

// expand turns parsed events into entries overlapping [start, end).
// RECURRENCE-ID overrides replace the instance they name.
func expand(calendar feedCalendar, start, end time.Time) []model.CalendarEntry {
	overrides := make(map[string][]vevent)
	var masters []vevent
	for _, event := range calendar.Events {
		if event.Recurrence != nil {
			overrides[event.UID] = append(overrides[event.UID], event)
			continue
		}
		masters = append(masters, event)
	}

	var entries []model.CalendarEntry
	for _, event := range masters {
		if event.RRule == "" {
			if overlaps(event.Start, event.End, start, end) {
				entries = append(entries, toEntry(calendar.Name, event, event.Start, event.End))
			}
			continue
		}
		entries = append(entries, expandRecurring(calendar.Name, event, overrides[event.UID], start, end)...)
	}

	// Overrides whose master is not recurring or missing still stand alone.
	for uid, moved := range overrides {
		if hasRecurringMaster(masters, uid) {
			continue
		}
		for _, event := range moved {
			if overlaps(event.Start, event.End, start, end) {
				entries = append(entries, toEntry(calendar.Name, event, event.Start, event.End))
			}
		}
	}
	return entries
}

func expandRecurring(name string, event vevent, overrides []vevent, start, end time.Time) []model.CalendarEntry {
	rule, err := rrule.StrToRRule(event.RRule)
	if err != nil {
		appLog.Error("ics recurrence rule rejected", err, "uid", event.UID, "rrule", event.RRule)
		return nil
	}
	rule.DTStart(event.Start)

	var set rrule.Set
	set.RRule(rule)
	for _, exdate := range event.ExDates {
		set.ExDate(exdate.In(event.Start.Location()))
	}

	duration := event.End.Sub(event.Start)
	// Occurrences starting before the range may still run into it.
	from := start.Add(-duration).In(event.Start.Location())
	occurrences := set.Between(from, end.In(event.Start.Location()), true)
	if len(occurrences) > maxOccurrences {
		appLog.Info("ics recurrence truncated", "uid", event.UID, "occurrences", len(occurrences))
		occurrences = occurrences[:maxOccurrences]
	}

	var entries []model.CalendarEntry
	for _, occurrence := range occurrences {
		if override, ok := findOverride(overrides, occurrence); ok {
			if overlaps(override.Start, override.End, start, end) {
				entries = append(entries, toEntry(name, override, override.Start, override.End))
			}
			continue
		}
		occurrenceEnd := occurrence.Add(duration)
		if event.AllDay {
			occurrenceEnd = occurrence.AddDate(0, 0, int(duration.Round(24*time.Hour)/(24*time.Hour)))
		}
		if overlaps(occurrence, occurrenceEnd, start, end) {
			entries = append(entries, toEntry(name, event, occurrence, occurrenceEnd))
		}
	}
	return entries
}

func findOverride(overrides []vevent, occurrence time.Time) (vevent, bool) {
	for _, override := range overrides {
		if override.Recurrence.Equal(occurrence) {
			return override, true
		}
	}
	return vevent{}, false
}

func hasRecurringMaster(masters []vevent, uid string) bool {
	for _, event := range masters {
		if event.UID == uid && event.RRule != "" {
			return true
		}
	}
	return false
}

// overlaps treats zero-length entries as occupying their start instant.
func overlaps(entryStart, entryEnd, start, end time.Time) bool {
	if !entryEnd.After(entryStart) {
		return !entryStart.Before(start) && entryStart.Before(end)
	}
	return entryStart.Before(end) && entryEnd.After(start)
}

func toEntry(calendarName string, event vevent, start, end time.Time) model.CalendarEntry {
	uid := event.UID
	if uid != "" && (event.RRule != "" || event.Recurrence != nil) {
		uid = uid + "/" + start.UTC().Format("20060102T150405Z")
	}
	return model.CalendarEntry{
		ID:           model.EntryID(uid, calendarName, event.Summary, start),
		Start:        start,
		End:          end,
		AllDay:       event.AllDay,
		Title:        event.Summary,
		CalendarName: calendarName,
	}
}
