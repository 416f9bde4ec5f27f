package main

import (
	"context"
	"fmt"
	"time"

	"digitalclock/internal/core/agenda"
	"digitalclock/internal/core/model"
	"digitalclock/internal/platform"
	"digitalclock/internal/ui/overlay"
)

const statusInterval = 60 * time.Second

// clockLoop drives the clock window. Every minute it re-observes the date
// window and redraws; the status tick and calendar updates only redraw.
type clockLoop struct {
	aggregator *agenda.Aggregator
	info       platform.SystemInfoProvider
	location   *time.Location
	render     func(overlay.Frame)
	onAgenda   func(agenda.Event)
	now        func() time.Time
}

func (loop *clockLoop) run(ctx context.Context, events <-chan agenda.Event) {
	now := loop.now()
	loop.observe(now)
	loop.draw(now)

	minute := time.NewTimer(untilNextMinute(now))
	defer minute.Stop()
	status := time.NewTicker(statusInterval)
	defer status.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-minute.C:
			now = loop.now()
			loop.observe(now)
			loop.draw(now)
			minute.Reset(untilNextMinute(now))
		case <-status.C:
			loop.draw(loop.now())
		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if loop.onAgenda != nil {
				loop.onAgenda(event)
			}
			loop.draw(loop.now())
		}
	}
}

// observe pushes the date window around now to the aggregator, which
// refreshes it.
func (loop *clockLoop) observe(now time.Time) {
	loop.aggregator.SetObservedWindow(model.WindowDates(now.In(loop.location)))
}

func (loop *clockLoop) draw(now time.Time) {
	loop.render(overlay.BuildFrame(now, loop.location, loop.aggregator, loop.info))
}

// untilNextMinute is never zero so a tick landing exactly on the minute
// still waits for the next one.
func untilNextMinute(now time.Time) time.Duration {
	return now.Truncate(time.Minute).Add(time.Minute).Sub(now)
}

// calendarStatus summarizes an aggregator event for the tray.
func calendarStatus(event agenda.Event) (string, bool) {
	switch event.Type {
	case agenda.EventRefreshed:
		return fmt.Sprintf("%d events, %d holidays", event.Events, event.Holidays), true
	case agenda.EventAccessDenied:
		return "access denied", true
	case agenda.EventRefreshFailed:
		return "refresh failed", true
	default:
		return "", false
	}
}
