package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"digitalclock/internal/config"
	"digitalclock/internal/core/agenda"
	"digitalclock/internal/core/model"
	"digitalclock/internal/ui/overlay"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUntilNextMinute(t *testing.T) {
	base := time.Date(2025, 9, 24, 13, 50, 0, 0, time.UTC)

	assert.Equal(t, time.Minute, untilNextMinute(base))
	assert.Equal(t, 30*time.Second, untilNextMinute(base.Add(30*time.Second)))
	assert.Equal(t, time.Millisecond, untilNextMinute(base.Add(59*time.Second+999*time.Millisecond)))
}

func TestCalendarStatus(t *testing.T) {
	status, ok := calendarStatus(agenda.Event{Type: agenda.EventRefreshed, Events: 4, Holidays: 1})
	assert.True(t, ok)
	assert.Equal(t, "4 events, 1 holidays", status)

	status, ok = calendarStatus(agenda.Event{Type: agenda.EventAccessDenied})
	assert.True(t, ok)
	assert.Equal(t, "access denied", status)

	_, ok = calendarStatus(agenda.Event{Type: agenda.EventRefreshDiscarded})
	assert.False(t, ok)
}

type emptySource struct{}

func (emptySource) RequestAccess(context.Context) (bool, error) { return true, nil }
func (emptySource) Query(context.Context, time.Time, time.Time) ([]model.CalendarEntry, error) {
	return nil, nil
}
func (emptySource) Changes() <-chan struct{} { return nil }

type fixedInfo struct{}

func (fixedInfo) Uptime() mo.Option[time.Duration] { return mo.Some(90 * time.Minute) }
func (fixedInfo) BatteryLevel() mo.Option[int]     { return mo.None[int]() }

func TestClockLoopRendersAndObservesWindow(t *testing.T) {
	aggregator := agenda.New(emptySource{}, agenda.Config{Location: time.UTC})
	frames := make(chan overlay.Frame, 4)
	prague, err := time.LoadLocation("Europe/Prague")
	require.NoError(t, err)
	// A millisecond before the minute, so the minute timer fires at once.
	now := time.Date(2025, 9, 24, 23, 59, 59, 999_000_000, time.UTC)
	loop := &clockLoop{
		aggregator: aggregator,
		info:       fixedInfo{},
		location:   prague,
		render: func(frame overlay.Frame) {
			select {
			case frames <- frame:
			default:
			}
		},
		now: func() time.Time { return now },
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := make(chan agenda.Event, 1)
	done := make(chan struct{})
	go func() {
		loop.run(ctx, events)
		close(done)
	}()

	first := <-frames
	assert.Equal(t, "01:59", first.Clock)
	assert.Equal(t, "1h 30m", first.Blocks[1].Value)

	snapshot := aggregator.Snapshot()
	require.Len(t, snapshot.Window.Dates, model.WindowSize)
	assert.GreaterOrEqual(t, snapshot.Window.Generation, uint64(1))
	assert.Equal(t, prague, snapshot.Window.Dates[0].Location())
	assert.Equal(t, 23, snapshot.Window.Dates[0].Day())

	assert.Eventually(t, func() bool {
		return aggregator.Snapshot().Window.Generation >= 2
	}, time.Second, 5*time.Millisecond, "minute tick did not observe a new window")

	events <- agenda.Event{Type: agenda.EventRefreshed}
	select {
	case <-frames:
	case <-time.After(time.Second):
		t.Fatal("agenda event did not trigger a render")
	}

	cancel()
	<-done
}

func TestBuildCalendars(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.CacheDir = filepath.Join(dir, "cache")
	cfg.Calendars = []config.CalendarConfig{
		{ID: "team", Type: config.KindICS, URL: "https://example.com/team.ics"},
		{ID: "public", Type: config.KindICS, URL: "https://example.com/public.ics"},
		{ID: "local", Type: config.KindVdir, Path: filepath.Join(dir, "vdir")},
		{ID: "holidays", Type: config.KindGoogle, CalendarID: "cs.czech#holiday@group.v.calendar.google.com"},
	}
	prefs := model.DefaultPreferences()
	prefs.APIKey = "key"

	wired, err := buildCalendars(cfg, prefs, "DigitalClockTest")
	require.NoError(t, err)
	assert.NotNil(t, wired.source)
	assert.NotNil(t, wired.poller)
	assert.Len(t, wired.google, 1)

	granted, err := wired.source.RequestAccess(context.Background())
	assert.NoError(t, err)
	assert.True(t, granted)

	cfg.Refresh = "not a schedule"
	_, err = buildCalendars(cfg, prefs, "DigitalClockTest")
	assert.Error(t, err)
}

func TestSetAPIKeyGrantsGoogleCalendar(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CacheDir = t.TempDir()
	cfg.Calendars = []config.CalendarConfig{
		{ID: "holidays", Type: config.KindGoogle, CalendarID: "cs.czech#holiday@group.v.calendar.google.com"},
	}

	wired, err := buildCalendars(cfg, model.DefaultPreferences(), "DigitalClockTest")
	require.NoError(t, err)

	granted, _ := wired.source.RequestAccess(context.Background())
	assert.False(t, granted)

	wired.setAPIKey("key")
	granted, err = wired.source.RequestAccess(context.Background())
	require.NoError(t, err)
	assert.True(t, granted)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/clock")

	assert.Equal(t, filepath.Join("/home/clock", "calendars"), expandHome("~/calendars"))
	assert.Equal(t, "/srv/calendars", expandHome("/srv/calendars"))
	assert.Equal(t, "~user/x", expandHome("~user/x"))
}
