// internal/handlers/http/fields_handler.go
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	mysqlrepo "dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/util"
)

const dbTimeout = 6 * time.Second

// ListFields GET /api/fields
func (a *API) ListFields(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	fields, err := a.Svc.ListFields(ctx)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"fields": fields})
}

// FieldProduction GET /api/fields/{id}/production?from=2010&to=2020
func (a *API) FieldProduction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := mysqlrepo.YearlyFilter{FieldID: mux.Vars(r)["id"]}
	if v := q.Get("from"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.FromYear = n
		}
	}
	if v := q.Get("to"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.ToYear = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	rows, err := a.Svc.LoadField(ctx, f)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"field_id": f.FieldID, "rows": rows})
}

// CalculateField POST /api/fields/{id}/calculate
func (a *API) CalculateField(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), dbTimeout)
	defer cancel()
	sum, err := a.Svc.CalculateField(ctx, id, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"field_id": id, "summary": sum})
}

// CalculateFields POST /api/fields/calculate {"field_ids": [...]} (kosong = semua)
func (a *API) CalculateFields(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	out, err := a.Svc.CalculateFields(r.Context(), in.FieldIDs, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"fields": out})
}
