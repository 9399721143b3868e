package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findmylink/companion/internal/logger"
)

func TestLocalOnly(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := LocalOnly(logger.New("error", false))(ok)

	tests := []struct {
		remote string
		want   int
	}{
		{"127.0.0.1:51234", http.StatusNoContent},
		{"[::1]:51234", http.StatusNoContent},
		{"192.168.1.10:51234", http.StatusForbidden},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.RemoteAddr = tt.remote
		rec := httptest.NewRecorder()
		guarded.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("remote %s: got status %d, want %d", tt.remote, rec.Code, tt.want)
		}
	}
}
