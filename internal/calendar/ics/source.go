package ics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

// Source serves entries from a set of ICS subscriptions.
type Source struct {
	fetcher  *Fetcher
	feeds    []Feed
	location *time.Location
}

// New creates a Source. Feeds are cached under cacheDir.
func New(feeds []Feed, cacheDir string, client *http.Client, location *time.Location) *Source {
	if location == nil {
		location = time.Local
	}
	return &Source{
		fetcher:  NewFetcher(cacheDir, client),
		feeds:    feeds,
		location: location,
	}
}

// RequestAccess grants access when at least one feed is configured.
func (source *Source) RequestAccess(context.Context) (bool, error) {
	return len(source.feeds) > 0, nil
}

// Query fetches every feed and expands it into [start, end). A feed that
// fails is skipped unless all of them fail.
func (source *Source) Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error) {
	var (
		entries []model.CalendarEntry
		errs    []error
	)
	for _, feed := range source.feeds {
		body, err := source.fetcher.Fetch(ctx, feed)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("ics feed unavailable", err, "feed", feed.ID, "url", redactURL(feed.URL))
			continue
		}
		calendar, err := parseFeed(feed, body.Body, source.location)
		if err != nil {
			errs = append(errs, err)
			appLog.Error("ics feed unreadable", err, "feed", feed.ID)
			continue
		}
		entries = append(entries, expand(calendar, start, end)...)
	}
	if len(source.feeds) > 0 && len(errs) == len(source.feeds) {
		return nil, errors.Join(errs...)
	}
	return entries, nil
}

// Changes returns nil; feeds are re-read on the poll schedule.
func (source *Source) Changes() <-chan struct{} {
	return nil
}
