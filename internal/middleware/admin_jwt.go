// internal/middleware/admin_jwt.go
package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const adminUserKey ctxKey = iota + 1

// AdminJWT memvalidasi Bearer token HS256 yang dibuat GenerateAdminToken.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				http.Error(w, "admin jwt not configured", http.StatusForbidden)
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				http.Error(w, "missing token", http.StatusUnauthorized)
				return
			}
			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid || claims["role"] != "admin" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			user, _ := claims["user"].(string)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminUserKey, user)))
		})
	}
}

// AdminUserFrom user admin dari token yang sudah tervalidasi.
func AdminUserFrom(ctx context.Context) string {
	u, _ := ctx.Value(adminUserKey).(string)
	return u
}

// GenerateAdminToken membuat JWT 24 jam untuk user admin
func GenerateAdminToken(secret, user string, now time.Time) (string, int64, error) {
	exp := now.Add(24 * time.Hour).Unix()

	claims := jwt.MapClaims{
		"user": user,
		"exp":  exp,
		"role": "admin",
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	return signed, exp, err
}
