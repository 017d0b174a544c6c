package youtube

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"livestream-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const savedPage = "<html><body><h1>Credentials saved</h1>\nYou can now close this page.</body></html>"

// Authorizer runs the OAuth consent flow with a local redirect listener.
type Authorizer struct {
	conf   *oauth2.Config
	tokens TokenFile
	logger *zap.Logger
	state  string

	once sync.Once
	done chan result
}

type result struct {
	tok *oauth2.Token
	err error
}

// NewAuthorizer creates an authorizer with a fresh CSRF state.
func NewAuthorizer(conf *oauth2.Config, tokens TokenFile, logger *zap.Logger) *Authorizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Authorizer{
		conf:   conf,
		tokens: tokens,
		logger: logger,
		state:  uuid.NewString(),
		done:   make(chan result, 1),
	}
}

// URL is the consent page the user has to open. Offline access with
// forced consent makes Google issue a refresh token every time.
func (a *Authorizer) URL() string {
	return a.conf.AuthCodeURL(a.state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
}

// CallbackPath is the path component of the redirect URL.
func (a *Authorizer) CallbackPath() string {
	u, err := url.Parse(a.conf.RedirectURL)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}

// Register mounts the redirect handler on app.
func (a *Authorizer) Register(app *fiber.App) {
	app.Get(a.CallbackPath(), a.handleCallback)
}

// Wait blocks until the flow completed or ctx is done.
func (a *Authorizer) Wait(ctx context.Context) (*oauth2.Token, error) {
	select {
	case r := <-a.done:
		return r.tok, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Authorizer) finish(tok *oauth2.Token, err error) {
	a.once.Do(func() {
		a.done <- result{tok: tok, err: err}
	})
}

func (a *Authorizer) handleCallback(c *fiber.Ctx) error {
	l := logger.WithRequestID(a.logger, c)

	if denied := c.Query("error"); denied != "" {
		denied = strings.Clone(denied)
		l.Warn("Authorization denied", zap.String("error", denied))
		a.finish(nil, fmt.Errorf("authorization denied: %s", denied))
		return c.Status(fiber.StatusBadRequest).SendString("Authorization denied: " + denied)
	}

	// stray requests without state are not part of the flow; keep waiting
	state := c.Query("state")
	if state == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No CSRF state present")
	}
	if state != a.state {
		l.Warn("CSRF state mismatch")
		return c.Status(fiber.StatusBadRequest).SendString("CSRF state mismatch")
	}
	code := strings.Clone(c.Query("code"))
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No authorization code present")
	}

	tok, err := a.conf.Exchange(c.UserContext(), code)
	if err != nil {
		l.Error("Token exchange failed", zap.Error(err))
		a.finish(nil, fmt.Errorf("exchange authorization code: %w", err))
		return c.Status(fiber.StatusBadGateway).SendString("Token exchange failed")
	}
	if tok.RefreshToken == "" {
		l.Warn("No refresh token issued; the token will stop working when it expires")
	}
	if err := a.tokens.Save(tok); err != nil {
		a.finish(nil, fmt.Errorf("store credentials: %w", err))
		return c.Status(fiber.StatusInternalServerError).SendString("Could not store credentials")
	}

	l.Info("Credentials saved", zap.String("path", a.tokens.Path))
	a.finish(tok, nil)
	c.Type("html")
	return c.SendString(savedPage)
}
