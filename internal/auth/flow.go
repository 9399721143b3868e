// Package auth implements the Telegram login hand-off. The popup opens a
// hosted login page in a secondary window; that window posts the issued
// token back, declaring its origin. Only messages from the backend origin
// are honored. There is no retry or timeout if the window is abandoned:
// the prior logged-out state simply persists.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/findmylink/companion/internal/browser"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/logger"
)

// EventTokenUpdated is broadcast after a token write so every open view
// reloads itself instead of patching state in place.
const EventTokenUpdated = "token_updated"

var (
	// ErrUntrustedOrigin means the message declared an origin other than
	// the backend's. Such messages are dropped, not answered.
	ErrUntrustedOrigin = errors.New("token message from untrusted origin")

	// ErrEmptyToken means the message carried no token.
	ErrEmptyToken = errors.New("token message without token")
)

// Flow wires the login hand-off: build the hosted login URL, accept the
// posted token, persist it, and trigger the dependent view reload.
type Flow struct {
	store         credstore.Store
	browser       browser.Browser
	backendURL    string
	backendOrigin string
	log           logger.Logger
}

func NewFlow(store credstore.Store, b browser.Browser, backendURL, backendOrigin string, log logger.Logger) *Flow {
	return &Flow{
		store:         store,
		browser:       b,
		backendURL:    backendURL,
		backendOrigin: backendOrigin,
		log:           log,
	}
}

// LoginURL is the hosted auth page the popup opens in a secondary window.
func (f *Flow) LoginURL() string {
	return f.backendURL + "/extension-auth"
}

// CallbackURL builds the telegram-login entry URL that routes the user
// back to the extension page after Telegram signs them in.
func (f *Flow) CallbackURL(extensionURL string) string {
	callback := fmt.Sprintf("%s/api/v1/telegram-callback?ext=%s", f.backendURL, url.QueryEscape(extensionURL))
	return fmt.Sprintf("%s/api/v1/telegram-login?callback=%s", f.backendURL, url.QueryEscape(callback))
}

// HandleTokenMessage processes a token posted by the login window. The
// declared origin must match the backend origin exactly; everything else is
// ignored. On success the write is persisted first, then the reload
// notification goes out, in that order.
func (f *Flow) HandleTokenMessage(ctx context.Context, origin, token string) error {
	if normalizeOrigin(origin) != normalizeOrigin(f.backendOrigin) {
		f.log.Warn("dropping token message",
			logger.String("origin", origin))
		return ErrUntrustedOrigin
	}
	if token == "" {
		return ErrEmptyToken
	}

	if err := f.store.SetToken(ctx, token); err != nil {
		return fmt.Errorf("failed to persist token: %w", err)
	}
	f.log.Info("login token persisted")

	if err := f.browser.Notify(ctx, EventTokenUpdated); err != nil {
		// Token is saved; the views just won't reload until reopened.
		f.log.Warn("failed to notify views of token update", logger.Error(err))
	}
	return nil
}

// Logout removes the stored credentials and tells views to reload.
func (f *Flow) Logout(ctx context.Context) error {
	if err := f.store.RemoveToken(ctx); err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	if err := f.store.RemoveUserID(ctx); err != nil {
		return fmt.Errorf("failed to remove user id: %w", err)
	}
	if err := f.browser.Notify(ctx, EventTokenUpdated); err != nil {
		f.log.Warn("failed to notify views of logout", logger.Error(err))
	}
	return nil
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
}
