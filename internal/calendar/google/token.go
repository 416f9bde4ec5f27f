package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned when the token file does not exist yet.
var ErrNoToken = errors.New("no oauth token stored")

// TokenStore persists the OAuth token of a Google account.
type TokenStore interface {
	SaveToken(token *oauth2.Token) error
	LoadToken() (*oauth2.Token, error)
}

// FileTokenStore keeps the token as JSON in a file readable only by the
// owner.
type FileTokenStore struct {
	Path string
}

// NewFileTokenStore creates a FileTokenStore for path.
func NewFileTokenStore(path string) *FileTokenStore {
	return &FileTokenStore{Path: path}
}

// SaveToken writes token to the store path.
func (store *FileTokenStore) SaveToken(token *oauth2.Token) error {
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(store.Path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	if err := os.WriteFile(store.Path, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	return nil
}

// LoadToken reads the stored token. A missing file yields ErrNoToken.
func (store *FileTokenStore) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(store.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoToken
		}
		return nil, fmt.Errorf("read token file: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &token, nil
}

// savingTokenSource stores every refreshed token so the next start does not
// need a new authorization.
type savingTokenSource struct {
	mu     sync.Mutex
	source oauth2.TokenSource
	store  TokenStore
	last   *oauth2.Token
}

func (saving *savingTokenSource) Token() (*oauth2.Token, error) {
	token, err := saving.source.Token()
	if err != nil {
		return nil, err
	}
	saving.mu.Lock()
	defer saving.mu.Unlock()
	if saving.last == nil || saving.last.AccessToken != token.AccessToken {
		if err := saving.store.SaveToken(token); err != nil {
			return nil, fmt.Errorf("save refreshed token: %w", err)
		}
		saving.last = token
	}
	return token, nil
}

// tokenClient returns an HTTP client authorized with the stored token.
// The application never runs the interactive consent flow; the token file
// is expected to exist already.
func tokenClient(ctx context.Context, config *oauth2.Config, store TokenStore) (*http.Client, error) {
	token, err := store.LoadToken()
	if err != nil {
		return nil, err
	}
	source := &savingTokenSource{
		source: oauth2.ReuseTokenSource(token, config.TokenSource(ctx, token)),
		store:  store,
		last:   token,
	}
	return oauth2.NewClient(ctx, source), nil
}
