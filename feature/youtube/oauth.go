package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"sync"

	"livestream-sync/core/utils"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/youtube/v3"
)

// Scope grants management of the channel's broadcasts.
const Scope = youtube.YoutubeForceSslScope

// ErrNotAuthorized is returned when no token has been stored yet.
var ErrNotAuthorized = errors.New("no stored YouTube credentials, run the authorize command first")

// OAuthConfig reads the client secrets file and applies the redirect URL.
func OAuthConfig(cfg Config) (*oauth2.Config, error) {
	data, err := os.ReadFile(cfg.ClientSecretsFile)
	if err != nil {
		return nil, fmt.Errorf("read client secrets: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse client secrets: %w", err)
	}
	if cfg.RedirectURL != "" {
		conf.RedirectURL = cfg.RedirectURL
	}
	return conf, nil
}

// TokenFile stores the user token as JSON.
type TokenFile struct {
	Path string
}

// Load reads the token. It returns ErrNotAuthorized if none is stored.
func (f TokenFile) Load() (*oauth2.Token, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotAuthorized
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", f.Path, err)
	}
	if tok.RefreshToken == "" && tok.AccessToken == "" {
		return nil, ErrNotAuthorized
	}
	return &tok, nil
}

// Save writes the token, readable by the owner only.
func (f TokenFile) Save(tok *oauth2.Token) error {
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return err
	}
	return utils.WriteFileAtomic(f.Path, data, 0o600)
}

// savingSource writes every newly issued token back to the token file so
// a refresh survives the process.
type savingSource struct {
	base   oauth2.TokenSource
	file   TokenFile
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if tok.AccessToken != s.last {
		if err := s.file.Save(tok); err != nil {
			s.logger.Warn("Could not store refreshed credentials", zap.String("path", s.file.Path), zap.Error(err))
		} else {
			s.logger.Debug("Stored refreshed credentials")
		}
		s.last = tok.AccessToken
	}
	return tok, nil
}

// HTTPClient returns an authorized HTTP client for the stored token.
func HTTPClient(ctx context.Context, conf *oauth2.Config, file TokenFile, logger *zap.Logger) (*http.Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	tok, err := file.Load()
	if err != nil {
		return nil, err
	}
	src := &savingSource{
		base:   conf.TokenSource(ctx, tok),
		file:   file,
		logger: logger,
		last:   tok.AccessToken,
	}
	return oauth2.NewClient(ctx, src), nil
}
