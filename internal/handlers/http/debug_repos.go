// internal/handlers/http/debug_repos.go
package http

import (
	"net/http"

	"dca-oilgas/internal/util"
)

func ReposStatusHandler(status func() map[string]bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		util.WriteJSON(w, http.StatusOK, status())
	}
}
