package vdir

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeItem(t *testing.T, dir, name string, lines ...string) {
	t.Helper()
	body := strings.Join(append(append([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//digitalclock//test//EN",
	}, lines...), "END:VCALENDAR", ""), "\r\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
}

var (
	windowStart = time.Date(2025, 9, 20, 0, 0, 0, 0, time.UTC)
	windowEnd   = time.Date(2025, 9, 28, 0, 0, 0, 0, time.UTC)
)

func TestQueryAllDayAndRecurring(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, displayNameFile), []byte("Czech Holidays\n"), 0o600))
	writeItem(t, dir, "holiday.ics",
		"BEGIN:VEVENT",
		"UID:statehood@example.com",
		"DTSTAMP:20250101T000000Z",
		"DTSTART;VALUE=DATE:20250928",
		"DTEND;VALUE=DATE:20250929",
		"SUMMARY:Statehood Day",
		"END:VEVENT",
	)
	writeItem(t, dir, "gym.ics",
		"BEGIN:VEVENT",
		"UID:gym@example.com",
		"DTSTAMP:20250101T000000Z",
		"DTSTART:20250901T180000Z",
		"DTEND:20250901T190000Z",
		"RRULE:FREQ=WEEKLY;BYDAY=MO,TH",
		"EXDATE:20250925T180000Z",
		"SUMMARY:Gym",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:gym@example.com",
		"DTSTAMP:20250101T000000Z",
		"RECURRENCE-ID:20250922T180000Z",
		"DTSTART:20250922T170000Z",
		"DTEND:20250922T180000Z",
		"SUMMARY:Gym (early)",
		"END:VEVENT",
	)
	writeItem(t, dir, "dayoff.ics",
		"BEGIN:VEVENT",
		"UID:dayoff@example.com",
		"DTSTAMP:20250101T000000Z",
		"DTSTART;VALUE=DATE:20250926",
		"SUMMARY:Day off",
		"END:VEVENT",
	)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	source := New(dir, "", time.UTC)
	granted, err := source.RequestAccess(context.Background())
	require.NoError(t, err)
	require.True(t, granted)

	entries, err := source.Query(context.Background(), windowStart, windowEnd.AddDate(0, 0, 1))
	require.NoError(t, err)

	byTitle := map[string][]time.Time{}
	for _, entry := range entries {
		assert.Equal(t, "Czech Holidays", entry.CalendarName)
		byTitle[entry.Title] = append(byTitle[entry.Title], entry.Start)
	}

	require.Len(t, byTitle["Statehood Day"], 1)
	assert.Len(t, byTitle["Gym"], 0, "Monday moved and Thursday excluded")
	require.Len(t, byTitle["Gym (early)"], 1)
	assert.Equal(t, 17, byTitle["Gym (early)"][0].Hour())
	require.Len(t, byTitle["Day off"], 1)

	for _, entry := range entries {
		if entry.Title == "Day off" {
			assert.True(t, entry.AllDay)
			assert.Equal(t, 24*time.Hour, entry.End.Sub(entry.Start))
		}
	}
}

func TestDisplayNameFallbacks(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "personal")
	require.NoError(t, os.Mkdir(dir, 0o700))

	assert.Equal(t, "personal", New(dir, "", time.UTC).displayName())
	assert.Equal(t, "Mine", New(dir, "Mine", time.UTC).displayName())

	writeItem(t, dir, "a.ics",
		"X-WR-CALNAME:Family",
		"BEGIN:VEVENT",
		"UID:a@example.com",
		"DTSTAMP:20250101T000000Z",
		"DTSTART:20250922T100000Z",
		"DTEND:20250922T110000Z",
		"SUMMARY:Dentist",
		"END:VEVENT",
	)
	entries, err := New(dir, "", time.UTC).Query(context.Background(), windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Family", entries[0].CalendarName)
}

func TestMissingDirectoryIsDenied(t *testing.T) {
	granted, err := New(filepath.Join(t.TempDir(), "missing"), "", time.UTC).RequestAccess(context.Background())
	require.NoError(t, err)
	assert.False(t, granted)
}

func TestWatchSignalsChanges(t *testing.T) {
	dir := t.TempDir()
	source := New(dir, "", time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- source.Watch(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeItem(t, dir, "new.ics",
		"BEGIN:VEVENT",
		"UID:new@example.com",
		"DTSTAMP:20250101T000000Z",
		"DTSTART:20250922T100000Z",
		"SUMMARY:New",
		"END:VEVENT",
	)

	select {
	case <-source.Changes():
	case <-time.After(3 * time.Second):
		t.Fatal("no change signal after writing an item")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
