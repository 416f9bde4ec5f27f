package ics

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "digitalclock/internal/log"
)

// vevent is a VEVENT reduced to what expansion needs.
type vevent struct {
	UID        string
	Summary    string
	Start      time.Time
	End        time.Time
	AllDay     bool
	RRule      string
	ExDates    []time.Time
	Recurrence *time.Time
}

// feedCalendar is a parsed feed.
type feedCalendar struct {
	Name   string
	Events []vevent
}

// parseFeed parses an ICS body. Dates without a zone are placed in loc.
// Broken VEVENTs are logged and skipped.
func parseFeed(feed Feed, body []byte, loc *time.Location) (feedCalendar, error) {
	if len(body) == 0 {
		return feedCalendar{}, errors.New("empty ICS body")
	}
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return feedCalendar{}, fmt.Errorf("parse feed %s: %w", feed.ID, err)
	}

	parsed := feedCalendar{Name: feed.Name}
	for _, property := range cal.CalendarProperties {
		if property.IANAToken == string(ical.PropertyXWRCalName) && strings.TrimSpace(property.Value) != "" {
			parsed.Name = strings.TrimSpace(property.Value)
		}
	}
	if parsed.Name == "" {
		parsed.Name = feed.ID
	}

	for _, component := range cal.Events() {
		event, err := parseEvent(component, loc)
		if err != nil {
			appLog.Error("ics event skipped", err, "feed", feed.ID)
			continue
		}
		parsed.Events = append(parsed.Events, event)
	}
	appLog.Debug("ics feed parsed", "feed", feed.ID, "calendar", parsed.Name, "events", len(parsed.Events))
	return parsed, nil
}

func parseEvent(component *ical.VEvent, loc *time.Location) (vevent, error) {
	var event vevent
	if property := component.GetProperty(ical.ComponentPropertyUniqueId); property != nil {
		event.UID = property.Value
	}
	if property := component.GetProperty(ical.ComponentPropertySummary); property != nil {
		event.Summary = property.Value
	}

	startProperty := component.GetProperty(ical.ComponentPropertyDtStart)
	if startProperty == nil {
		return event, errors.New("missing DTSTART")
	}
	event.AllDay = isDateValue(startProperty)

	if event.AllDay {
		start, err := component.GetAllDayStartAt()
		if err != nil {
			return event, fmt.Errorf("read DTSTART: %w", err)
		}
		event.Start = dateIn(start, loc)
		event.End = event.Start.AddDate(0, 0, 1)
		if end, err := component.GetAllDayEndAt(); err == nil && dateIn(end, loc).After(event.Start) {
			event.End = dateIn(end, loc)
		}
	} else {
		start, err := component.GetStartAt()
		if err != nil {
			return event, fmt.Errorf("read DTSTART: %w", err)
		}
		event.Start = start
		event.End = start
		if end, err := component.GetEndAt(); err == nil && end.After(start) {
			event.End = end
		}
	}

	if property := component.GetProperty(ical.ComponentPropertyRrule); property != nil {
		event.RRule = property.Value
	}
	for _, property := range component.GetProperties(ical.ComponentPropertyExdate) {
		for _, value := range strings.Split(property.Value, ",") {
			if exdate, err := parseTimeValue(strings.TrimSpace(value), property.ICalParameters, loc); err == nil {
				event.ExDates = append(event.ExDates, exdate)
			}
		}
	}
	if property := component.GetProperty(ical.ComponentPropertyRecurrenceId); property != nil {
		recurrence, err := parseTimeValue(property.Value, property.ICalParameters, loc)
		if err != nil {
			return event, fmt.Errorf("read RECURRENCE-ID: %w", err)
		}
		event.Recurrence = &recurrence
	}
	return event, nil
}

func isDateValue(property *ical.IANAProperty) bool {
	if values, ok := property.ICalParameters["VALUE"]; ok && len(values) > 0 && strings.EqualFold(values[0], "DATE") {
		return true
	}
	return !strings.Contains(property.Value, "T")
}

// parseTimeValue parses DATE and DATE-TIME values honouring TZID.
func parseTimeValue(value string, params map[string][]string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty time value")
	}
	zone := loc
	if ids, ok := params["TZID"]; ok && len(ids) == 1 {
		if tz, err := time.LoadLocation(ids[0]); err == nil {
			zone = tz
		}
	}
	switch {
	case strings.HasSuffix(value, "Z"):
		return time.Parse("20060102T150405Z", value)
	case strings.Contains(value, "T"):
		return time.ParseInLocation("20060102T150405", value, zone)
	default:
		return time.ParseInLocation("20060102", value, loc)
	}
}

// dateIn keeps the calendar date of t and moves it to midnight in loc.
func dateIn(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
