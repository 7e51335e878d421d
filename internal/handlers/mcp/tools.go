// internal/handlers/mcp/tools.go
// Tool MCP untuk perhitungan cadangan (DCA) + registrasi ke registry

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/mcp"
	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const (
	dbTimeout = 6 * time.Second
	maxBody   = 8 << 20
)

// Tools kumpulan handler tool; Svc wajib, Narrator boleh nil (template).
type Tools struct {
	Svc      *services.ReservesService
	Narrator *llm.Narrator
	Log      *zap.Logger
}

// toolReq bentuk params umum semua tool.
type toolReq struct {
	services.Params
	Rows     []dca.ProductionRow `json:"rows,omitempty"`
	Method   dca.MethodKey       `json:"method,omitempty"`
	FieldID  string              `json:"field_id,omitempty"`
	FromYear int                 `json:"from_year,omitempty"`
	ToYear   int                 `json:"to_year,omitempty"`
	Lang     string              `json:"lang,omitempty"`
	MinZ     float64             `json:"min_z,omitempty"`
}

// Register mendaftarkan semua tool ke reg.
func (t *Tools) Register(reg *mcp.Registry) {
	reg.RegisterFunc("calculate_reserves", t.CalculateReserves)
	reg.RegisterFunc("calculate_method", t.CalculateMethod)
	reg.RegisterFunc("prepare_rows", t.PrepareRows)
	reg.RegisterFunc("get_field_production", t.GetFieldProduction)
	reg.RegisterFunc("calculate_field", t.CalculateField)
	reg.RegisterFunc("summarize_reserves", t.SummarizeReserves)
	reg.RegisterFunc("diagnose_fits", t.DiagnoseFits)
}

// ReposStatus status siap/tidaknya dependensi tool.
func (t *Tools) ReposStatus() map[string]bool {
	return map[string]bool{
		"production": t.Svc != nil && t.Svc.Ready(),
		"llm":        t.Narrator != nil && t.Narrator.Client != nil,
	}
}

func decode(w http.ResponseWriter, r *http.Request, in *toolReq) error {
	body, err := util.ReadBody(w, r, maxBody)
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, in); err != nil {
			return util.BadInput("invalid json: " + err.Error())
		}
	}
	// GET/debug: field_id boleh dari query string
	if in.FieldID == "" {
		in.FieldID = strings.TrimSpace(r.URL.Query().Get("field_id"))
	}
	in.FieldID = strings.TrimSpace(in.FieldID)
	return nil
}

func (t *Tools) CalculateReserves(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	sum, err := t.Svc.Calculate(r.Context(), in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, sum)
}

func (t *Tools) CalculateMethod(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	res, err := t.Svc.CalculateMethod(r.Context(), in.Method, in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, res)
}

func (t *Tools) PrepareRows(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	rows, err := t.Svc.Prepare(in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

func (t *Tools) GetFieldProduction(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	if in.FieldID == "" {
		util.WriteError(w, util.BadInput("field_id required"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	rows, err := t.Svc.LoadField(ctx, mysqlrepo.YearlyFilter{FieldID: in.FieldID, FromYear: in.FromYear, ToYear: in.ToYear})
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"field_id": in.FieldID, "rows": rows})
}

func (t *Tools) CalculateField(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	if in.FieldID == "" {
		util.WriteError(w, util.BadInput("field_id required"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()

	sum, err := t.Svc.CalculateField(ctx, in.FieldID, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"field_id": in.FieldID, "summary": sum})
}

// SummarizeReserves: field_id atau rows -> Summary + narasi.
func (t *Tools) SummarizeReserves(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}

	sum, err := t.summaryFor(r.Context(), in)
	if err != nil {
		util.WriteError(w, err)
		return
	}

	narrator := t.Narrator
	if narrator == nil {
		narrator = llm.NewNarrator(nil, t.Log)
	}
	n := narrator.Narrate(r.Context(), sum, in.Lang)
	if t.Log != nil {
		t.Log.Debug("reserves summarized", zap.String("source", n.Source), zap.String("field_id", in.FieldID))
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{
		"narrative": n,
		"aggregate": sum.Aggregate,
		"methods":   fmt.Sprintf("%d/%d", sum.Aggregate.ValidCount, len(sum.Methods)),
	})
}

// DiagnoseFits: field_id atau rows -> korelasi X-Y + tahun outlier residual per metode.
func (t *Tools) DiagnoseFits(w http.ResponseWriter, r *http.Request) {
	var in toolReq
	if err := decode(w, r, &in); err != nil {
		util.WriteError(w, err)
		return
	}
	sum, err := t.summaryFor(r.Context(), in)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	minZ := in.MinZ
	if minZ <= 0 {
		minZ = services.DefaultMinZ
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{
		"field_id":    in.FieldID,
		"min_z":       minZ,
		"diagnostics": services.Diagnose(sum, minZ),
	})
}

// summaryFor hitung Summary dari field_id (prioritas) atau rows.
func (t *Tools) summaryFor(ctx context.Context, in toolReq) (*dca.Summary, error) {
	switch {
	case in.FieldID != "":
		ctx, cancel := context.WithTimeout(ctx, dbTimeout)
		defer cancel()
		return t.Svc.CalculateField(ctx, in.FieldID, in.Params)
	case len(in.Rows) > 0:
		return t.Svc.Calculate(ctx, in.Rows, in.Params)
	default:
		return nil, util.BadInput("field_id or rows required")
	}
}
