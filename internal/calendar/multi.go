package calendar

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

// Named pairs a source with the label used in logs.
type Named struct {
	Name   string
	Source Source
}

// Multi merges several sources into one. Access is granted when any child
// grants it; queries skip failing children unless every child fails.
type Multi struct {
	mu       sync.Mutex
	children []Named
	granted  map[int]bool
	signals  []<-chan struct{}
	notifier *Notifier
}

// NewMulti creates a Multi over children. Extra signals, such as a Poller,
// are forwarded as change notifications.
func NewMulti(children []Named, signals ...<-chan struct{}) *Multi {
	return &Multi{
		children: children,
		granted:  make(map[int]bool),
		signals:  signals,
		notifier: NewNotifier(),
	}
}

// RequestAccess asks every child and remembers which ones granted. Calling
// it again re-evaluates every child.
func (multi *Multi) RequestAccess(ctx context.Context) (bool, error) {
	var errs []error
	anyGranted := false
	for index, child := range multi.children {
		granted, err := child.Source.RequestAccess(ctx)
		if err != nil {
			appLog.Error("calendar access request failed", err, "calendar", child.Name)
			errs = append(errs, fmt.Errorf("%s: %w", child.Name, err))
		}
		multi.mu.Lock()
		multi.granted[index] = granted
		multi.mu.Unlock()
		if granted {
			anyGranted = true
		} else {
			appLog.Info("calendar access not granted", "calendar", child.Name)
		}
	}
	if anyGranted {
		return true, nil
	}
	return false, errors.Join(errs...)
}

// Query collects entries from every granted child.
func (multi *Multi) Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error) {
	var (
		entries []model.CalendarEntry
		errs    []error
		queried int
	)
	for index, child := range multi.children {
		multi.mu.Lock()
		granted := multi.granted[index]
		multi.mu.Unlock()
		if !granted {
			continue
		}
		queried++

		found, err := child.Source.Query(ctx, start, end)
		if err != nil {
			appLog.Error("calendar query failed", err, "calendar", child.Name)
			errs = append(errs, fmt.Errorf("query %s: %w", child.Name, err))
			continue
		}
		entries = append(entries, found...)
	}
	if queried > 0 && len(errs) == queried {
		return nil, errors.Join(errs...)
	}
	return entries, nil
}

// Changes returns the merged change signal.
func (multi *Multi) Changes() <-chan struct{} {
	return multi.notifier.Changes()
}

// Watch runs child watchers and forwards every change signal until ctx is
// done.
func (multi *Multi) Watch(ctx context.Context) error {
	var group sync.WaitGroup

	forward := func(changes <-chan struct{}) {
		defer group.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				multi.notifier.Notify()
			}
		}
	}

	for _, child := range multi.children {
		if watcher, ok := child.Source.(Watcher); ok {
			group.Add(1)
			go func(name string, watcher Watcher) {
				defer group.Done()
				if err := watcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
					appLog.Error("calendar watcher stopped", err, "calendar", name)
				}
			}(child.Name, watcher)
		}
		if changes := child.Source.Changes(); changes != nil {
			group.Add(1)
			go forward(changes)
		}
	}
	for _, changes := range multi.signals {
		if changes == nil {
			continue
		}
		group.Add(1)
		go forward(changes)
	}

	group.Wait()
	return ctx.Err()
}
