package model

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservedWindow(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	now := time.Date(2025, 10, 24, 23, 30, 0, 0, prague)

	window := NewObservedWindow(now)
	require.Len(t, window.Dates, WindowSize)
	assert.Equal(t, 22, window.Dates[0].Day())
	assert.Equal(t, 29, window.Dates[WindowSize-1].Day())
	assert.Zero(t, window.Generation)

	start, end, ok := window.Bounds(prague)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 10, 22, 0, 0, 0, 0, prague), start)
	assert.Equal(t, time.Date(2025, 10, 30, 0, 0, 0, 0, prague), end)

	_, _, ok = ObservedWindow{Dates: window.Dates[:1]}.Bounds(prague)
	assert.False(t, ok)
}

func TestEntryID(t *testing.T) {
	start := time.Date(2025, 9, 22, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "uid-1", EntryID("uid-1", "Work", "Standup", start))

	derived := EntryID("", "Work", "Standup", start)
	assert.Len(t, derived, 36)
	assert.Equal(t, derived, EntryID("", "Work", "Standup", start.In(time.FixedZone("X", 3600))))
	assert.NotEqual(t, derived, EntryID("", "Home", "Standup", start))
}

func TestEntryActiveAndCoversDay(t *testing.T) {
	loc := time.UTC
	meeting := CalendarEntry{
		Start: time.Date(2025, 9, 22, 9, 0, 0, 0, loc),
		End:   time.Date(2025, 9, 22, 10, 0, 0, 0, loc),
	}
	assert.True(t, meeting.Active(meeting.Start))
	assert.False(t, meeting.Active(meeting.End))

	trip := CalendarEntry{
		AllDay: true,
		Start:  time.Date(2025, 9, 22, 0, 0, 0, 0, loc),
		End:    time.Date(2025, 9, 24, 0, 0, 0, 0, loc),
	}
	assert.False(t, trip.CoversDay(time.Date(2025, 9, 21, 12, 0, 0, 0, loc), loc))
	assert.True(t, trip.CoversDay(time.Date(2025, 9, 23, 18, 0, 0, 0, loc), loc))
	assert.False(t, trip.CoversDay(time.Date(2025, 9, 24, 0, 0, 0, 0, loc), loc))

	marker := CalendarEntry{AllDay: true, Start: trip.Start, End: trip.Start}
	assert.True(t, marker.CoversDay(trip.Start.Add(5*time.Hour), loc))
	assert.False(t, marker.CoversDay(trip.Start.AddDate(0, 0, 1), loc))
}

func TestClassificationPriorityAndGlyphs(t *testing.T) {
	assert.Greater(t, DayHoliday, DayPlannedEvent)
	assert.Greater(t, DayPlannedEvent, DayWeekend)
	assert.Greater(t, DayWeekend, DayNone)

	assert.Equal(t, "●", DayWeekend.Glyph())
	assert.Equal(t, "★", DayPlannedEvent.Glyph())
	assert.Equal(t, "♦", DayHoliday.Glyph())
	assert.Empty(t, DayNone.Glyph())
	assert.Equal(t, "planned_event", DayPlannedEvent.String())
}

func TestPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	assert.Equal(t, float64(DefaultVerticalOffset), prefs.VerticalOffset)
	assert.Equal(t, prefs.HolidayColor, prefs.MarkerColor(DayHoliday))
	assert.Equal(t, prefs.TextColor, prefs.MarkerColor(DayNone))

	prefs.WeekendColor = color.NRGBA{R: 1, A: 255}
	prefs.VerticalOffset = 900
	prefs.APIKey = "key"
	prefs.ClampOffset()
	assert.Equal(t, float64(MaxVerticalOffset), prefs.VerticalOffset)

	prefs.Reset()
	assert.Equal(t, DefaultPreferences().WeekendColor, prefs.WeekendColor)
	assert.Equal(t, float64(MaxVerticalOffset), prefs.VerticalOffset)
	assert.Equal(t, "key", prefs.APIKey)

	prefs.VerticalOffset = -4
	prefs.ClampOffset()
	assert.Equal(t, float64(MinVerticalOffset), prefs.VerticalOffset)
}

func TestHexColor(t *testing.T) {
	c := color.NRGBA{R: 255, G: 214, B: 10, A: 217}
	assert.Equal(t, "#FFD60AD9", FormatHexColor(c))

	parsed, err := ParseHexColor("#FFD60AD9")
	require.NoError(t, err)
	assert.Equal(t, c, parsed)

	parsed, err = ParseHexColor(" 00ffff ")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, B: 255, A: 255}, parsed)

	_, err = ParseHexColor("#12345")
	assert.Error(t, err)
	_, err = ParseHexColor("#GGGGGG")
	assert.Error(t, err)
}
