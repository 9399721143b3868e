package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/findmylink/companion/internal/httpserver/deps"
	"github.com/findmylink/companion/internal/i18n"
	"github.com/findmylink/companion/internal/logger"
)

// errorResponse is the uniform error shape for every endpoint.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: kind, Message: message})
}

// translator resolves the request's language: explicit ?lang= first, then
// the first Accept-Language tag, then the configured default.
func translator(d deps.Deps, r *http.Request) *i18n.Translator {
	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = firstAcceptLanguage(r.Header.Get("Accept-Language"))
	}
	if lang == "" {
		lang = d.DefaultLang
	}
	return d.Translations.Pick(lang)
}

func firstAcceptLanguage(header string) string {
	if i := strings.IndexAny(header, ",;"); i >= 0 {
		header = header[:i]
	}
	return strings.TrimSpace(header)
}

func logHandlerError(d deps.Deps, where string, err error) {
	d.Logger.Error("handler failure",
		logger.String("handler", where),
		logger.Error(err))
}
