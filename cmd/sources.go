package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"digitalclock/internal/calendar"
	"digitalclock/internal/calendar/google"
	"digitalclock/internal/calendar/ics"
	"digitalclock/internal/calendar/vdir"
	"digitalclock/internal/config"
	"digitalclock/internal/core/model"
	appLog "digitalclock/internal/log"
)

const httpTimeout = 30 * time.Second

// calendars is the wired calendar capability plus the handles main needs
// after construction.
type calendars struct {
	source *calendar.Multi
	poller *calendar.Poller
	google []*google.Source
}

// setAPIKey hands a new preference key to every Google source.
func (wired *calendars) setAPIKey(key string) {
	for _, source := range wired.google {
		source.SetAPIKey(key)
	}
}

func buildCalendars(cfg *config.Config, prefs model.Preferences, appName string) (*calendars, error) {
	loc := cfg.Location()
	client := &http.Client{Timeout: httpTimeout}

	cacheDir, err := resolveCacheDir(cfg.CacheDir, appName)
	if err != nil {
		return nil, err
	}

	wired := &calendars{}
	var children []calendar.Named
	var feeds []ics.Feed
	for _, entry := range cfg.Calendars {
		switch entry.Type {
		case config.KindICS:
			feeds = append(feeds, ics.Feed{ID: entry.ID, Name: entry.Name, URL: entry.URL})
		case config.KindVdir:
			children = append(children, calendar.Named{
				Name:   entry.ID,
				Source: vdir.New(expandHome(entry.Path), entry.Name, loc),
			})
		case config.KindGoogle:
			source := google.New(google.Config{
				CalendarID:   entry.CalendarID,
				Name:         entry.Name,
				APIKey:       prefs.APIKey,
				TokenPath:    expandHome(entry.TokenPath),
				ClientID:     entry.ClientID,
				ClientSecret: entry.ClientSecret,
			}, loc)
			wired.google = append(wired.google, source)
			children = append(children, calendar.Named{Name: entry.ID, Source: source})
		default:
			appLog.Info("skipping calendar of unknown type", "calendar", entry.ID, "type", entry.Type)
		}
	}
	if len(feeds) > 0 {
		children = append(children, calendar.Named{
			Name:   "ics",
			Source: ics.New(feeds, filepath.Join(cacheDir, "ics"), client, loc),
		})
	}

	poller, err := calendar.NewPoller(cfg.Refresh)
	if err != nil {
		return nil, err
	}
	wired.poller = poller
	wired.source = calendar.NewMulti(children, poller.Changes())
	appLog.Info("calendars configured", "sources", len(children), "ics_feeds", len(feeds), "google", len(wired.google))
	return wired, nil
}

func resolveCacheDir(configured, appName string) (string, error) {
	if configured != "" {
		return expandHome(configured), nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve user cache dir: %w", err)
	}
	return filepath.Join(base, appName), nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[1:])
	}
	return path
}
