// internal/middleware/admin_auth.go
package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// checkBasic user + password bcrypt dari konfigurasi.
func checkBasic(r *http.Request, user, hash string) (string, bool) {
	u, p, ok := r.BasicAuth()
	if !ok || user == "" || hash == "" {
		return "", false
	}
	if subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 {
		return "", false
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) != nil {
		return "", false
	}
	return u, true
}

// AdminBasicAuth Basic auth admin (untuk tool CLI / curl tanpa login).
func AdminBasicAuth(user, hash string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user == "" || hash == "" {
				http.Error(w, "admin auth not configured", http.StatusForbidden)
				return
			}
			u, ok := checkBasic(r, user, hash)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminUserKey, u)))
		})
	}
}

// AdminAuth menerima Bearer JWT (dari /login) atau Basic auth.
func AdminAuth(user, hash, secret string) func(http.Handler) http.Handler {
	basic := AdminBasicAuth(user, hash)
	bearer := AdminJWT(secret)
	return func(next http.Handler) http.Handler {
		viaBasic, viaJWT := basic(next), bearer(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch auth := r.Header.Get("Authorization"); {
			case strings.HasPrefix(auth, "Bearer "):
				viaJWT.ServeHTTP(w, r)
			case strings.HasPrefix(auth, "Basic "):
				viaBasic.ServeHTTP(w, r)
			case secret == "" && (user == "" || hash == ""):
				http.Error(w, "admin auth not configured", http.StatusForbidden)
			default:
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, "auth required", http.StatusUnauthorized)
			}
		})
	}
}
