// internal/handlers/http/api.go
// Handler REST untuk perhitungan cadangan DCA

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const maxBody = 8 << 20

// ProductionWriter tujuan upload admin (implementasi: mysql.ProductionRepo).
type ProductionWriter interface {
	UpsertYearly(ctx context.Context, fieldID string, rows []dca.ProductionRow) (int, error)
}

type API struct {
	Svc       *services.ReservesService
	Writer    ProductionWriter    // nil = upload admin unavailable
	Assistant *services.Assistant // nil = /api/ask unavailable
	Log       *zap.Logger
}

// calcReq body umum endpoint perhitungan.
type calcReq struct {
	services.Params
	Rows     []dca.ProductionRow `json:"rows"`
	FieldIDs []string            `json:"field_ids,omitempty"`
}

func decodeCalc(w http.ResponseWriter, r *http.Request) (calcReq, error) {
	var in calcReq
	body, err := util.ReadBody(w, r, maxBody)
	if err != nil {
		return in, err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return in, nil
	}
	if err := json.Unmarshal(body, &in); err != nil {
		return in, util.BadInput("invalid json: " + err.Error())
	}
	return in, nil
}

func (a *API) logger() *zap.Logger {
	if a.Log == nil {
		return zap.NewNop()
	}
	return a.Log
}
