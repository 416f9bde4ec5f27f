// Package vdir reads calendars stored as a vdir: a directory with one
// iCalendar file per event, as written by vdirsyncer and khal.
package vdir

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/fsnotify/fsnotify"

	"digitalclock/internal/calendar"
	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

const (
	displayNameFile = "displayname"
	debounce        = 500 * time.Millisecond
	maxOccurrences  = 1000
)

// Source serves entries from one vdir collection.
type Source struct {
	dir      string
	name     string
	location *time.Location
	notifier *calendar.Notifier
}

// New creates a Source for dir. name overrides the collection display name
// when set.
func New(dir, name string, location *time.Location) *Source {
	if location == nil {
		location = time.Local
	}
	return &Source{
		dir:      dir,
		name:     name,
		location: location,
		notifier: calendar.NewNotifier(),
	}
}

// RequestAccess grants access when the directory can be listed.
func (source *Source) RequestAccess(context.Context) (bool, error) {
	info, err := os.Stat(source.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) {
			return false, nil
		}
		return false, fmt.Errorf("stat vdir: %w", err)
	}
	if !info.IsDir() {
		return false, nil
	}
	if _, err := os.ReadDir(source.dir); err != nil {
		return false, nil
	}
	return true, nil
}

// Query parses every .ics file in the collection and returns entries
// overlapping [start, end). Unreadable files are logged and skipped.
func (source *Source) Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error) {
	files, err := os.ReadDir(source.dir)
	if err != nil {
		return nil, fmt.Errorf("list vdir: %w", err)
	}
	name := source.displayName()

	var entries []model.CalendarEntry
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if file.IsDir() || !strings.EqualFold(filepath.Ext(file.Name()), ".ics") {
			continue
		}
		path := filepath.Join(source.dir, file.Name())
		found, err := source.readFile(path, name, start, end)
		if err != nil {
			appLog.Error("vdir item skipped", err, "file", path)
			continue
		}
		entries = append(entries, found...)
	}
	return entries, nil
}

// Changes signals edits inside the collection while Watch runs.
func (source *Source) Changes() <-chan struct{} {
	return source.notifier.Changes()
}

// Watch follows the collection with fsnotify until ctx is done. Bursts of
// file events collapse into one change signal.
func (source *Source) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create vdir watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(source.dir); err != nil {
		return fmt.Errorf("watch vdir %s: %w", source.dir, err)
	}
	appLog.Info("vdir watch started", "dir", source.dir)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			appLog.Error("vdir watch error", err, "dir", source.dir)
		case <-timer.C:
			appLog.Debug("vdir changed", "dir", source.dir)
			source.notifier.Notify()
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	return base == displayNameFile || strings.EqualFold(filepath.Ext(base), ".ics")
}

// displayName picks the configured name, then the displayname file, then
// the directory name.
func (source *Source) displayName() string {
	if source.name != "" {
		return source.name
	}
	if data, err := os.ReadFile(filepath.Join(source.dir, displayNameFile)); err == nil {
		if name := strings.TrimSpace(string(data)); name != "" {
			return name
		}
	}
	return filepath.Base(filepath.Clean(source.dir))
}

func (source *Source) readFile(path, name string, start, end time.Time) ([]model.CalendarEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var entries []model.CalendarEntry
	decoder := ical.NewDecoder(file)
	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			return entries, nil
		}
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
		}
		calendarName := name
		if source.name == "" && !source.hasDisplayNameFile() {
			if prop := cal.Props.Get("X-WR-CALNAME"); prop != nil && strings.TrimSpace(prop.Value) != "" {
				calendarName = strings.TrimSpace(prop.Value)
			}
		}
		found, err := source.expand(cal.Events(), calendarName, start, end)
		if err != nil {
			return nil, err
		}
		entries = append(entries, found...)
	}
}

func (source *Source) hasDisplayNameFile() bool {
	_, err := os.Stat(filepath.Join(source.dir, displayNameFile))
	return err == nil
}
