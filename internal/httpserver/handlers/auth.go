package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/auth"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/logger"
)

type tokenRequest struct {
	Origin string `json:"origin"`
	Token  string `json:"token"`
}

// AuthToken accepts the token hand-off relayed from the login page. The
// declared origin must match the configured backend exactly or the token is
// dropped on the floor.
func AuthToken(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req tokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
			return
		}

		err := d.Auth.HandleTokenMessage(r.Context(), req.Origin, req.Token)
		switch {
		case errors.Is(err, auth.ErrUntrustedOrigin):
			writeError(w, http.StatusForbidden, "untrusted_origin", "")
			return
		case errors.Is(err, auth.ErrEmptyToken):
			writeError(w, http.StatusBadRequest, "empty_token", "")
			return
		case err != nil:
			logHandlerError(d, "auth_token", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// TelegramLogin exchanges the signed Telegram login-widget parameters for a
// backend token and stores the resulting credentials. The signature check
// happens server-side; the companion only relays the parameters.
func TelegramLogin(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var params map[string]string
		if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
			return
		}
		if params["hash"] == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "hash is required")
			return
		}

		result, err := d.Backend.TelegramAuth(ctx, params)
		if err != nil {
			if errors.Is(err, api.ErrUnavailable) {
				writeError(w, http.StatusBadGateway, "backend_unavailable", "")
				return
			}
			logHandlerError(d, "telegram_login", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		if err := d.Credentials.SetToken(ctx, result.Token); err != nil {
			logHandlerError(d, "telegram_login", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}
		if err := d.Credentials.SetUserID(ctx, strconv.FormatInt(result.UserID, 10)); err != nil {
			logHandlerError(d, "telegram_login", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}
		if err := d.Browser.Notify(ctx, auth.EventTokenUpdated); err != nil {
			d.Logger.Warn("login notification failed", logger.Error(err))
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"status":  "ok",
			"user_id": result.UserID,
		})
	}
}

// Logout drops the stored credentials and returns the logged-out state.
func Logout(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Auth.Logout(r.Context()); err != nil {
			logHandlerError(d, "logout", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
