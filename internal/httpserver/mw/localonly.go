package mw

import (
	"net/http"

	"github.com/findmylink/companion/internal/logger"
	"github.com/findmylink/companion/internal/utils"
)

// LocalOnly rejects any client that is not connecting from a loopback
// address. The companion holds browser state and credentials for one user on
// one machine; nothing on the network has business talking to it.
func LocalOnly(log logger.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !utils.IsLoopbackAddr(r.RemoteAddr) {
				log.Warn("rejected non-local client",
					logger.String("remote_addr", r.RemoteAddr))
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
