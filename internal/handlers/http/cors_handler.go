// internal/handlers/http/cors_handler.go
package http

import "net/http"

// PreflightHandler membalas OPTIONS /api/* dengan 204; header CORS dipasang middleware.CORS.
func PreflightHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Max-Age", "600")
	w.WriteHeader(http.StatusNoContent)
}
