package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/findmylink/companion/internal/api"
	"github.com/findmylink/companion/internal/credstore"
	"github.com/findmylink/companion/internal/httpserver/deps"
)

type promoRequest struct {
	Code string `json:"code"`
}

type promoResponse struct {
	Message string `json:"message"`
}

// ApplyPromo forwards a promo code to the backend on behalf of the stored
// token. The backend's own message wins when it sends one.
func ApplyPromo(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tr := translator(d, r)

		var req promoRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", "invalid json body")
			return
		}
		if req.Code == "" {
			writeError(w, http.StatusBadRequest, "bad_request", "code is required")
			return
		}

		token, err := d.Credentials.Token(ctx)
		if err != nil {
			if errors.Is(err, credstore.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "logged_out", "")
				return
			}
			logHandlerError(d, "promo", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		result, err := d.Backend.ApplyPromo(ctx, token, req.Code)
		if err != nil {
			if errors.Is(err, api.ErrUnavailable) {
				writeError(w, http.StatusBadGateway, "backend_unavailable",
					tr.T("promo.invalid", nil))
				return
			}
			logHandlerError(d, "promo", err)
			writeError(w, http.StatusInternalServerError, "internal", "")
			return
		}

		msg := result.Message
		if msg == "" {
			msg = tr.T("promo.applied", nil)
		}
		writeJSON(w, http.StatusOK, promoResponse{Message: msg})
	}
}
