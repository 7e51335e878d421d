// internal/handlers/http/admin_handler.go
package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/util"
)

// AdminUploadProduction POST /admin/fields/{id}/upload (multipart file xlsx)
func (a *API) AdminUploadProduction(w http.ResponseWriter, r *http.Request) {
	if a.Writer == nil {
		util.WriteError(w, util.Unavailable("production database not configured"))
		return
	}
	fieldID := strings.TrimSpace(mux.Vars(r)["id"])
	if fieldID == "" {
		util.WriteError(w, util.BadInput("field id required"))
		return
	}
	rows, err := readUpload(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 4*dbTimeout)
	defer cancel()
	n, err := a.Writer.UpsertYearly(ctx, fieldID, rows)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	a.logger().Info("production uploaded",
		zap.String("field_id", fieldID),
		zap.Int("rows", n),
		zap.String("admin", middleware.AdminUserFrom(r.Context())))
	util.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "field_id": fieldID, "rows": n})
}
