// internal/handlers/http/login_handler.go
package http

import (
	"encoding/json"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/util"
)

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResp struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"` // epoch seconds
	User      string `json:"user"`
	Role      string `json:"role"`
}

type Login struct {
	AdminUser     string
	AdminPassHash string
	JWTSecret     string
	Clock         util.Clock
}

func (l *Login) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var in loginReq
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if l.AdminUser == "" || l.AdminPassHash == "" || l.JWTSecret == "" {
		http.Error(w, "admin not configured", http.StatusForbidden)
		return
	}

	if in.Username != l.AdminUser {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(l.AdminPassHash), []byte(in.Password)) != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	clock := l.Clock
	if clock == nil {
		clock = util.RealClock{}
	}
	token, exp, err := middleware.GenerateAdminToken(l.JWTSecret, l.AdminUser, clock.Now())
	if err != nil {
		http.Error(w, "token error", http.StatusInternalServerError)
		return
	}

	util.WriteJSON(w, http.StatusOK, loginResp{
		Token:     token,
		ExpiresAt: exp,
		User:      l.AdminUser,
		Role:      "admin",
	})
}
