package agenda

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"digitalclock/internal/core/model"
	"digitalclock/internal/core/weekend"
	appLog "digitalclock/internal/log"
)

// DefaultHolidayMarker is matched against calendar names to find holidays.
const DefaultHolidayMarker = "Holidays"

// ErrAccessDenied indicates the calendar capability refused access.
var ErrAccessDenied = errors.New("calendar access denied")

// Source is the calendar capability consumed by the Aggregator.
type Source interface {
	RequestAccess(ctx context.Context) (bool, error)
	Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error)
	Changes() <-chan struct{}
}

// Config contains runtime options for the Aggregator.
type Config struct {
	// HolidayMarker is a case-sensitive substring of holiday calendar names.
	HolidayMarker string
	Location      *time.Location
	Weekend       weekend.Rule
}

type accessState int

const (
	accessUnknown accessState = iota
	accessGranted
	accessDenied
)

// Snapshot is a copy of the aggregator state at one point in time.
type Snapshot struct {
	Window   model.ObservedWindow
	Events   []model.CalendarEntry
	Holidays []model.CalendarEntry
}

// Aggregator partitions calendar entries of the observed window into
// holidays and planned events and answers classification queries.
type Aggregator struct {
	mu         sync.Mutex
	source     Source
	config     Config
	window     model.ObservedWindow
	events     []model.CalendarEntry
	holidays   []model.CalendarEntry
	access     accessState
	refreshSeq uint64
	appliedSeq uint64
	observers  []chan Event
	ctx        context.Context
	cancel     context.CancelFunc
	running    bool
}

// New creates an Aggregator reading from source.
func New(source Source, config Config) *Aggregator {
	if config.HolidayMarker == "" {
		config.HolidayMarker = DefaultHolidayMarker
	}
	if config.Location == nil {
		config.Location = time.Local
	}
	if config.Weekend == (weekend.Rule{}) {
		config.Weekend = weekend.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Aggregator{
		source: source,
		config: config,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Subscribe registers a new observer channel.
func (aggregator *Aggregator) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	aggregator.mu.Lock()
	aggregator.observers = append(aggregator.observers, ch)
	aggregator.mu.Unlock()
	return ch
}

// Start requests calendar access and begins consuming change notifications.
// Denied access is logged and leaves the aggregator empty.
func (aggregator *Aggregator) Start(ctx context.Context) {
	aggregator.mu.Lock()
	if aggregator.running {
		aggregator.mu.Unlock()
		return
	}
	aggregator.running = true
	aggregator.cancel()
	aggregator.ctx, aggregator.cancel = context.WithCancel(ctx)
	runCtx := aggregator.ctx
	aggregator.mu.Unlock()

	aggregator.requestAccess(runCtx)
	go aggregator.watch(runCtx, aggregator.source.Changes())
}

// Reauthorize asks the source for access again and refreshes the observed
// window when it is granted. Use it after credentials change.
func (aggregator *Aggregator) Reauthorize() {
	aggregator.mu.Lock()
	if !aggregator.running {
		aggregator.mu.Unlock()
		return
	}
	ctx := aggregator.ctx
	aggregator.mu.Unlock()

	go aggregator.requestAccess(ctx)
}

func (aggregator *Aggregator) requestAccess(ctx context.Context) {
	granted, err := aggregator.source.RequestAccess(ctx)
	if err != nil {
		appLog.Error("calendar access request failed", err)
		granted = false
	}

	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	if ctx.Err() != nil {
		return
	}
	if granted {
		appLog.Info("calendar access allowed")
		aggregator.access = accessGranted
		aggregator.launchRefreshLocked()
		return
	}
	appLog.Info("calendar access denied")
	aggregator.access = accessDenied
	aggregator.emitLocked(Event{
		Type:    EventAccessDenied,
		Message: ErrAccessDenied.Error(),
		At:      time.Now(),
	})
}

// Stop terminates the change loop and closes observers.
func (aggregator *Aggregator) Stop() {
	aggregator.mu.Lock()
	if !aggregator.running {
		aggregator.mu.Unlock()
		return
	}
	aggregator.running = false
	aggregator.cancel()
	observers := aggregator.observers
	aggregator.observers = nil
	aggregator.mu.Unlock()

	for _, ch := range observers {
		close(ch)
	}
}

// SetObservedWindow replaces the observed window and refreshes it. The
// returned generation identifies the window; results of refreshes issued
// for earlier generations are discarded whatever their completion order.
func (aggregator *Aggregator) SetObservedWindow(dates []time.Time) uint64 {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	aggregator.window = model.ObservedWindow{
		Dates:      append([]time.Time(nil), dates...),
		Generation: aggregator.window.Generation + 1,
	}
	aggregator.launchRefreshLocked()
	return aggregator.window.Generation
}

// Refresh re-fetches the last observed window.
func (aggregator *Aggregator) Refresh() {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	aggregator.launchRefreshLocked()
}

// Classify returns the marker for the calendar day of date.
func (aggregator *Aggregator) Classify(date time.Time) model.DayClassification {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	loc := aggregator.config.Location
	if startsOn(aggregator.holidays, date, loc) {
		return model.DayHoliday
	}
	if startsOn(aggregator.events, date, loc) {
		return model.DayPlannedEvent
	}
	if aggregator.config.Weekend.Contains(date, loc) {
		return model.DayWeekend
	}
	return model.DayNone
}

// EventsOnDay returns planned events and holidays relevant to now: entries
// starting today, all-day entries covering today, and entries active now.
func (aggregator *Aggregator) EventsOnDay(now time.Time) []model.CalendarEntry {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	loc := aggregator.config.Location
	var out []model.CalendarEntry
	for _, group := range [][]model.CalendarEntry{aggregator.events, aggregator.holidays} {
		for _, entry := range group {
			switch {
			case model.SameDay(entry.Start, now, loc):
			case entry.AllDay && entry.CoversDay(now, loc):
			case entry.Active(now):
			default:
				continue
			}
			out = append(out, entry)
		}
	}
	return out
}

// Snapshot copies the current state.
func (aggregator *Aggregator) Snapshot() Snapshot {
	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()
	return Snapshot{
		Window: model.ObservedWindow{
			Dates:      append([]time.Time(nil), aggregator.window.Dates...),
			Generation: aggregator.window.Generation,
		},
		Events:   append([]model.CalendarEntry(nil), aggregator.events...),
		Holidays: append([]model.CalendarEntry(nil), aggregator.holidays...),
	}
}

func (aggregator *Aggregator) watch(ctx context.Context, changes <-chan struct{}) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-changes:
			if !ok {
				return
			}
			appLog.Debug("calendar changed, refreshing")
			aggregator.Refresh()
		}
	}
}

func (aggregator *Aggregator) launchRefreshLocked() {
	if aggregator.access != accessGranted {
		return
	}
	window := aggregator.window
	start, end, ok := window.Bounds(aggregator.config.Location)
	if !ok {
		return
	}
	aggregator.refreshSeq++
	seq := aggregator.refreshSeq
	ctx := aggregator.ctx
	go aggregator.refresh(ctx, window.Generation, seq, start, end)
}

func (aggregator *Aggregator) refresh(ctx context.Context, generation, seq uint64, start, end time.Time) {
	entries, err := aggregator.source.Query(ctx, start, end)

	aggregator.mu.Lock()
	defer aggregator.mu.Unlock()

	if err != nil {
		appLog.Error("calendar refresh failed", err, "generation", generation)
		aggregator.emitLocked(Event{
			Type:       EventRefreshFailed,
			Generation: generation,
			Message:    err.Error(),
			At:         time.Now(),
		})
		return
	}
	if generation != aggregator.window.Generation || seq < aggregator.appliedSeq {
		appLog.Debug("discarding stale refresh", "generation", generation, "current", aggregator.window.Generation)
		aggregator.emitLocked(Event{
			Type:       EventRefreshDiscarded,
			Generation: generation,
			At:         time.Now(),
		})
		return
	}

	events, holidays := partition(entries, aggregator.config.HolidayMarker)
	aggregator.events = events
	aggregator.holidays = holidays
	aggregator.appliedSeq = seq

	appLog.Debug("calendar refreshed", "generation", generation, "events", len(events), "holidays", len(holidays))
	aggregator.emitLocked(Event{
		Type:       EventRefreshed,
		Generation: generation,
		Events:     len(events),
		Holidays:   len(holidays),
		At:         time.Now(),
	})
}

func (aggregator *Aggregator) emitLocked(event Event) {
	for _, ch := range aggregator.observers {
		select {
		case ch <- event:
		default:
		}
	}
}

func partition(entries []model.CalendarEntry, marker string) ([]model.CalendarEntry, []model.CalendarEntry) {
	var events, holidays []model.CalendarEntry
	for _, entry := range entries {
		if strings.Contains(entry.CalendarName, marker) {
			holidays = append(holidays, entry)
		} else {
			events = append(events, entry)
		}
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Start.Before(events[j].Start) })
	sort.SliceStable(holidays, func(i, j int) bool { return holidays[i].Start.Before(holidays[j].Start) })
	return events, holidays
}

func startsOn(entries []model.CalendarEntry, date time.Time, loc *time.Location) bool {
	for _, entry := range entries {
		if model.SameDay(entry.Start, date, loc) {
			return true
		}
	}
	return false
}
