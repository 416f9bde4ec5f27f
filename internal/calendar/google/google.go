// Package google reads events from Google Calendar.
package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// Config describes one Google calendar.
type Config struct {
	CalendarID string
	// Name overrides the calendar summary reported by the API.
	Name string
	// APIKey reads public calendars such as national holidays.
	APIKey string
	// TokenPath points to a stored OAuth token for private calendars.
	TokenPath    string
	ClientID     string
	ClientSecret string

	// Endpoint and HTTPClient replace the API endpoint and transport.
	Endpoint   string
	HTTPClient *http.Client
}

// Source serves entries of one Google calendar.
type Source struct {
	mu       sync.Mutex
	config   Config
	location *time.Location
	service  *calendar.Service
}

// New creates a Source. Nothing is contacted until RequestAccess.
func New(config Config, location *time.Location) *Source {
	if config.CalendarID == "" {
		config.CalendarID = "primary"
	}
	if location == nil {
		location = time.Local
	}
	return &Source{config: config, location: location}
}

// SetAPIKey replaces the API key; the next request uses it.
func (source *Source) SetAPIKey(key string) {
	source.mu.Lock()
	defer source.mu.Unlock()
	key = strings.TrimSpace(key)
	if key == source.config.APIKey {
		return
	}
	source.config.APIKey = key
	source.service = nil
}

// RequestAccess builds the API client. It is granted when a transport, a
// stored token or an API key is available.
func (source *Source) RequestAccess(ctx context.Context) (bool, error) {
	_, err := source.client(ctx)
	if errors.Is(err, errNoCredentials) || errors.Is(err, ErrNoToken) {
		appLog.Info("google calendar has no credentials", "calendar", source.config.CalendarID)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

var errNoCredentials = errors.New("no google credentials configured")

func (source *Source) client(ctx context.Context) (*calendar.Service, error) {
	source.mu.Lock()
	defer source.mu.Unlock()
	if source.service != nil {
		return source.service, nil
	}

	var options []option.ClientOption
	if source.config.Endpoint != "" {
		options = append(options, option.WithEndpoint(source.config.Endpoint))
	}
	switch {
	case source.config.HTTPClient != nil:
		options = append(options, option.WithHTTPClient(source.config.HTTPClient))
	case source.config.TokenPath != "":
		oauthConfig := &oauth2.Config{
			ClientID:     source.config.ClientID,
			ClientSecret: source.config.ClientSecret,
			Endpoint:     googleEndpoint,
			Scopes:       []string{calendar.CalendarReadonlyScope},
		}
		httpClient, err := tokenClient(context.Background(), oauthConfig, NewFileTokenStore(source.config.TokenPath))
		if err != nil {
			return nil, err
		}
		options = append(options, option.WithHTTPClient(httpClient))
	case source.config.APIKey != "":
		options = append(options, option.WithAPIKey(source.config.APIKey))
	default:
		return nil, errNoCredentials
	}

	service, err := calendar.NewService(ctx, options...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	source.service = service
	return service, nil
}

// Query lists single events of [start, end), following every page.
func (source *Source) Query(ctx context.Context, start, end time.Time) ([]model.CalendarEntry, error) {
	service, err := source.client(ctx)
	if err != nil {
		return nil, err
	}

	name := source.config.Name
	var entries []model.CalendarEntry
	call := service.Events.List(source.config.CalendarID).
		TimeMin(start.Format(time.RFC3339)).
		TimeMax(end.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		ShowDeleted(false)
	err = call.Pages(ctx, func(page *calendar.Events) error {
		if name == "" {
			name = page.Summary
		}
		for _, item := range page.Items {
			entry, ok, err := source.toEntry(item)
			if err != nil {
				appLog.Error("google event skipped", err, "event", item.Id)
				continue
			}
			if ok {
				entries = append(entries, entry)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list google events: %w", err)
	}
	if name == "" {
		name = source.config.CalendarID
	}
	for index := range entries {
		entries[index].CalendarName = name
		entries[index].ID = model.EntryID(entries[index].ID, name, entries[index].Title, entries[index].Start)
	}
	return entries, nil
}

// Changes returns nil; the calendar is re-read on the poll schedule.
func (source *Source) Changes() <-chan struct{} {
	return nil
}

func (source *Source) toEntry(item *calendar.Event) (model.CalendarEntry, bool, error) {
	if item == nil || item.Status == "cancelled" || item.Start == nil {
		return model.CalendarEntry{}, false, nil
	}
	entry := model.CalendarEntry{ID: item.Id, Title: item.Summary}

	if item.Start.Date != "" {
		start, err := time.ParseInLocation(time.DateOnly, item.Start.Date, source.location)
		if err != nil {
			return entry, false, fmt.Errorf("parse start date: %w", err)
		}
		entry.AllDay = true
		entry.Start = start
		entry.End = start.AddDate(0, 0, 1)
		if item.End != nil && item.End.Date != "" {
			if end, err := time.ParseInLocation(time.DateOnly, item.End.Date, source.location); err == nil && end.After(start) {
				entry.End = end
			}
		}
		return entry, true, nil
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return entry, false, fmt.Errorf("parse start: %w", err)
	}
	entry.Start = start.In(source.location)
	entry.End = entry.Start
	if item.End != nil && item.End.DateTime != "" {
		if end, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil && end.After(start) {
			entry.End = end.In(source.location)
		}
	}
	return entry, true, nil
}
