package relevance

import (
	"testing"
	"time"

	"digitalclock/internal/core/model"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 9, 22, hour, minute, 0, 0, time.UTC)
}

func event(title string, start, end time.Time) model.CalendarEntry {
	return model.CalendarEntry{
		ID:           model.EntryID("", "Work", title, start),
		Title:        title,
		CalendarName: "Work",
		Start:        start,
		End:          end,
	}
}

func TestSelectScenarios(t *testing.T) {
	now := at(10, 0)
	standup := event("Standup", at(9, 50), at(10, 5))
	review := event("Review", at(10, 7), at(10, 30))
	demo := event("Demo", at(14, 0), at(15, 0))
	lunch := event("Lunch", at(12, 0), at(13, 0))

	tests := []struct {
		name       string
		events     []model.CalendarEntry
		wantTitle  string
		wantStatus Status
		wantNone   bool
	}{
		{"in progress only", []model.CalendarEntry{standup}, "Standup", StatusInProgress, false},
		{"imminent pre-empts running", []model.CalendarEntry{standup, review}, "Review", StatusUpcoming, false},
		{"far future", []model.CalendarEntry{demo}, "Demo", StatusUpcoming, false},
		{"empty", nil, "", StatusUnknown, true},
		{"running beats distant upcoming", []model.CalendarEntry{lunch, standup}, "Standup", StatusInProgress, false},
		{"earliest future wins", []model.CalendarEntry{demo, lunch}, "Lunch", StatusUpcoming, false},
		{"all finished", []model.CalendarEntry{event("Early", at(8, 0), at(9, 0))}, "", StatusUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Select(now, tt.events)
			if tt.wantNone {
				assert.True(t, got.IsAbsent())
				return
			}
			info, ok := got.Get()
			require.True(t, ok)
			assert.Equal(t, tt.wantTitle, info.Entry.Title)
			assert.Equal(t, tt.wantStatus, info.Status)
		})
	}
}

func TestZeroInfoIsUnknown(t *testing.T) {
	var info Info
	assert.Equal(t, StatusUnknown, info.Status)
	assert.Equal(t, "unknown", info.Status.String())
	assert.Equal(t, "upcoming", StatusUpcoming.String())
	assert.Equal(t, "in_progress", StatusInProgress.String())
}

func TestSelectLookAheadBoundary(t *testing.T) {
	now := at(10, 0)
	standup := event("Standup", at(9, 50), at(10, 30))
	exactlyTen := event("Sync", at(10, 10), at(10, 40))

	info, ok := Select(now, []model.CalendarEntry{standup, exactlyTen}).Get()
	require.True(t, ok)
	assert.Equal(t, "Standup", info.Entry.Title)
	assert.Equal(t, StatusInProgress, info.Status)
}

func TestSelectIsOrderIndependent(t *testing.T) {
	now := at(10, 0)
	events := []model.CalendarEntry{
		event("Standup", at(9, 50), at(10, 5)),
		event("Review", at(10, 7), at(10, 30)),
		event("Other review", at(10, 7), at(10, 30)),
		event("Demo", at(14, 0), at(15, 0)),
	}
	want := Select(now, events)

	reversed := make([]model.CalendarEntry, len(events))
	for index, item := range events {
		reversed[len(events)-1-index] = item
	}
	rotated := append(append([]model.CalendarEntry(nil), events[2:]...), events[:2]...)

	assert.Equal(t, want, Select(now, reversed))
	assert.Equal(t, want, Select(now, rotated))
	assert.Equal(t, want, Select(now, events))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	events := []model.CalendarEntry{
		event("Demo", at(14, 0), at(15, 0)),
		event("Standup", at(9, 50), at(10, 5)),
	}
	Select(at(10, 0), events)
	assert.Equal(t, "Demo", events[0].Title)
}

func TestEventBlock(t *testing.T) {
	now := at(10, 0)

	tests := []struct {
		name  string
		info  mo.Option[Info]
		count int
		want  Block
	}{
		{
			name:  "no events today",
			info:  mo.None[Info](),
			count: 0,
			want:  Block{Title: "Events Today", Value: "None"},
		},
		{
			name:  "all finished",
			info:  mo.None[Info](),
			count: 2,
			want:  Block{Title: "Events Today", Value: "Finished", Highlight: true},
		},
		{
			name:  "upcoming",
			info:  mo.Some(Info{Entry: event("Demo", at(14, 0), at(15, 0)), Status: StatusUpcoming}),
			count: 1,
			want:  Block{Title: "Next Event", Value: "14:00 - Demo", Highlight: true},
		},
		{
			name:  "in progress",
			info:  mo.Some(Info{Entry: event("Standup", at(9, 50), at(10, 5)), Status: StatusInProgress}),
			count: 1,
			want:  Block{Title: "Now", Value: "Standup · 5 min left", Highlight: true},
		},
		{
			name:  "ending imminently",
			info:  mo.Some(Info{Entry: event("Standup", at(9, 50), now.Add(20*time.Second)), Status: StatusInProgress}),
			count: 1,
			want:  Block{Title: "Now", Value: "Standup · ending now", Highlight: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EventBlock(now, tt.info, tt.count))
		})
	}
}

func TestTruncateTitle(t *testing.T) {
	assert.Equal(t, "No Title", TruncateTitle("  "))
	assert.Equal(t, "Quarterly review", TruncateTitle("Quarterly review"))
	assert.Equal(t, "Quarterly business r…", TruncateTitle("Quarterly business review"))
	assert.Equal(t, "Čtvrtletní obchodní …", TruncateTitle("Čtvrtletní obchodní porada"))
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "N/A", FormatUptime(mo.None[time.Duration]()))
	assert.Equal(t, "5m", FormatUptime(mo.Some(5*time.Minute+30*time.Second)))
	assert.Equal(t, "2h 0m", FormatUptime(mo.Some(2*time.Hour)))
	assert.Equal(t, "1d 3h 7m", FormatUptime(mo.Some(27*time.Hour+7*time.Minute)))
}

func TestBattery(t *testing.T) {
	assert.Equal(t, Block{Title: "Battery", Value: "N/A"}, BatteryBlock(mo.None[int]()))
	assert.Equal(t, Block{Title: "Battery", Value: "87%"}, BatteryBlock(mo.Some(87)))

	assert.Equal(t, BatteryFull, GlyphFor(mo.Some(100)))
	assert.Equal(t, BatteryThreeQuarter, GlyphFor(mo.Some(94)))
	assert.Equal(t, BatteryHalf, GlyphFor(mo.Some(45)))
	assert.Equal(t, BatteryQuarter, GlyphFor(mo.Some(20)))
	assert.Equal(t, BatteryEmpty, GlyphFor(mo.Some(3)))
	assert.Equal(t, BatteryEmpty, GlyphFor(mo.None[int]()))
}

func TestPanel(t *testing.T) {
	now := at(9, 55)
	todays := []model.CalendarEntry{
		event("Standup", at(9, 30), at(10, 15)),
		event("Planning", at(10, 0), at(11, 0)),
	}

	blocks := Panel(now, todays, mo.Some(3*time.Hour), mo.None[int]())

	require.Len(t, blocks, 3)
	assert.Equal(t, Block{Title: "Next Event", Value: "10:00 - Planning", Highlight: true}, blocks[0])
	assert.Equal(t, Block{Title: "Uptime", Value: "3h 0m"}, blocks[1])
	assert.Equal(t, Block{Title: "Battery", Value: "N/A"}, blocks[2])
}
