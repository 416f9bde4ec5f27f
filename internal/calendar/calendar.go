// Package calendar combines the configured calendar backends into the single
// source the agenda aggregator reads from.
package calendar

import (
	"context"
	"time"

	"digitalclock/internal/core/model"
)

// Source is one calendar backend.
type Source interface {
	RequestAccess(ctx context.Context) (bool, error)
	Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error)
	Changes() <-chan struct{}
}

// Watcher is implemented by sources that produce change signals from a
// background loop. Watch blocks until ctx is done.
type Watcher interface {
	Watch(ctx context.Context) error
}

// Notifier is a coalescing change signal: pending notifications collapse
// into one.
type Notifier struct {
	ch chan struct{}
}

// NewNotifier creates an idle Notifier.
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan struct{}, 1)}
}

// Notify signals a change without blocking.
func (notifier *Notifier) Notify() {
	select {
	case notifier.ch <- struct{}{}:
	default:
	}
}

// Changes returns the signal channel.
func (notifier *Notifier) Changes() <-chan struct{} {
	return notifier.ch
}
