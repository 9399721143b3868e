package handlers

import (
	"errors"
	"net/http"

	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/logger"
)

type readyzResponse struct {
	Ready bool `json:"ready"`
}

// Readyz reports whether the credential store answers. A missing token is
// still ready; only a store failure is not.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Credentials.Token(r.Context()); err != nil && !errors.Is(err, credstore.ErrNotFound) {
			d.Logger.Warn("credential store not ready", logger.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, readyzResponse{Ready: false})
			return
		}
		writeJSON(w, http.StatusOK, readyzResponse{Ready: true})
	}
}
