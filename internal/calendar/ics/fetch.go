// Package ics reads calendar subscriptions published as iCalendar feeds.
package ics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	appLog "digitalclock/internal/log"
)

const fetchTimeout = 15 * time.Second

// Feed is one subscribed ICS URL.
type Feed struct {
	ID   string
	Name string
	URL  string
}

// payload is the body of a feed and where it came from.
type payload struct {
	Body      []byte
	FromCache bool
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fetcher downloads feeds with conditional requests and keeps the last good
// body on disk so a network failure still yields data.
type Fetcher struct {
	client   *http.Client
	cacheDir string
}

// NewFetcher creates a Fetcher caching under cacheDir. A nil client gets a
// default with a request timeout.
func NewFetcher(cacheDir string, client *http.Client) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{client: client, cacheDir: cacheDir}
}

// Fetch returns the current body of feed, falling back to the cached copy on
// network errors and non-OK responses.
func (fetcher *Fetcher) Fetch(ctx context.Context, feed Feed) (payload, error) {
	if feed.URL == "" {
		return payload{}, errors.New("feed URL is empty")
	}

	cachePath := fetcher.cachePath(feed.URL)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return payload{}, fmt.Errorf("create feed cache: %w", err)
	}
	meta, _ := loadMeta(cachePath)
	cached, _ := os.ReadFile(filepath.Join(cachePath, "body.ics"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return payload{}, fmt.Errorf("build feed request: %w", err)
	}
	if meta.URL == feed.URL && len(cached) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	resp, err := fetcher.client.Do(req)
	if err != nil {
		if len(cached) > 0 {
			appLog.Error("ics fetch failed, using cached feed", err, "feed", feed.ID, "url", redactURL(feed.URL))
			return payload{Body: cached, FromCache: true}, nil
		}
		return payload{}, fmt.Errorf("fetch feed %s: %w", feed.ID, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return payload{}, fmt.Errorf("read feed %s: %w", feed.ID, err)
		}
		meta := cacheMeta{
			URL:          feed.URL,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := saveCache(cachePath, meta, body); err != nil {
			appLog.Error("ics cache save failed", err, "feed", feed.ID)
		}
		appLog.Debug("ics feed fetched", "feed", feed.ID, "bytes", len(body))
		return payload{Body: body}, nil

	case http.StatusNotModified:
		if len(cached) == 0 {
			return payload{}, fmt.Errorf("fetch feed %s: not modified but no cached body", feed.ID)
		}
		appLog.Debug("ics feed not modified", "feed", feed.ID)
		return payload{Body: cached, FromCache: true}, nil

	default:
		statusErr := fmt.Errorf("fetch feed %s: unexpected status %s", feed.ID, resp.Status)
		if len(cached) > 0 {
			appLog.Error("ics fetch rejected, using cached feed", statusErr, "feed", feed.ID, "url", redactURL(feed.URL))
			return payload{Body: cached, FromCache: true}, nil
		}
		return payload{}, statusErr
	}
}

func (fetcher *Fetcher) cachePath(feedURL string) string {
	sum := sha256.Sum256([]byte(feedURL))
	return filepath.Join(fetcher.cacheDir, hex.EncodeToString(sum[:8]))
}

func loadMeta(cachePath string) (cacheMeta, error) {
	var meta cacheMeta
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

// saveCache writes the body before the metadata so meta never points at a
// missing body.
func saveCache(cachePath string, meta cacheMeta, body []byte) error {
	if err := os.WriteFile(filepath.Join(cachePath, "body.ics"), body, 0o600); err != nil {
		return err
	}
	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// redactURL keeps only scheme and host; subscription URLs often carry
// private tokens in the path or query.
func redactURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return "(redacted)"
	}
	return parsed.Scheme + "://" + parsed.Host + "/…"
}
