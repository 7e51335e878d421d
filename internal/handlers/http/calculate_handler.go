// internal/handlers/http/calculate_handler.go
package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/util"
)

// PrepareRows POST /api/rows/prepare
func (a *API) PrepareRows(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	rows, err := a.Svc.Prepare(in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"rows": rows})
}

// Calculate POST /api/calculate
func (a *API) Calculate(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	sum, err := a.Svc.Calculate(r.Context(), in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, sum)
}

// CalculateMethod POST /api/calculate/{method}
func (a *API) CalculateMethod(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	key := dca.MethodKey(mux.Vars(r)["method"])
	res, err := a.Svc.CalculateMethod(r.Context(), key, in.Rows, in.Params)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, res)
}

// Methods GET /api/methods: daftar metode + deskripsi sumbu.
func (a *API) Methods(w http.ResponseWriter, r *http.Request) {
	type item struct {
		Key          dca.MethodKey `json:"key"`
		Name         string        `json:"method"`
		XDescription string        `json:"x_description"`
		YDescription string        `json:"y_description"`
	}
	out := make([]item, 0, 6)
	for _, m := range dca.Methods() {
		out = append(out, item{m.Key, m.Name, m.XDescription, m.YDescription})
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"methods": out, "average_divisor": dca.ExpectedValidMethodCount})
}
