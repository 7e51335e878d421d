// internal/handlers/http/health_handler.go
// Handler sederhana untuk health check dan readiness

package http

import (
	"net/http"

	"dca-oilgas/internal/util"
)

func HealthHandler(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// ReadyHandler 200 kalau semua dependensi wajib siap, selain itu 503.
// required kosong = selalu siap (status tetap dilaporkan).
func ReadyHandler(status func() map[string]bool, required ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st := status()
		code := http.StatusOK
		for _, name := range required {
			if !st[name] {
				code = http.StatusServiceUnavailable
			}
		}
		resp := map[string]any{"status": "ready", "deps": st}
		if code != http.StatusOK {
			resp["status"] = "not_ready"
		}
		util.WriteJSON(w, code, resp)
	}
}
