// internal/handlers/http/chart_handler.go
package http

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gonum.org/v1/plot/vg"

	"dca-oilgas/internal/chart"
	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/util"
)

// ReservesChart key khusus untuk grafik bar cadangan semua metode.
const ReservesChart = "reserves"

// Chart POST /api/chart/{method}?w=8&h=5 -> PNG
func (a *API) Chart(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	width := inches(r.URL.Query().Get("w"))
	height := inches(r.URL.Query().Get("h"))
	key := mux.Vars(r)["method"]

	var buf bytes.Buffer
	if key == ReservesChart {
		sum, err := a.Svc.Calculate(r.Context(), in.Rows, in.Params)
		if err != nil {
			util.WriteError(w, err)
			return
		}
		err = chart.RenderReserves(&buf, sum, width, height)
		if err != nil {
			util.WriteError(w, util.BadInput(err.Error()))
			return
		}
	} else {
		res, err := a.Svc.CalculateMethod(r.Context(), dca.MethodKey(key), in.Rows, in.Params)
		if err != nil {
			util.WriteError(w, err)
			return
		}
		if err := chart.RenderMethod(&buf, res, width, height); err != nil {
			util.WriteError(w, util.BadInput(err.Error()))
			return
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}

// inches parse ukuran (inci), 0 = default renderer; dibatasi 1..30.
func inches(s string) vg.Length {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return 0
	}
	if v < 1 {
		v = 1
	}
	if v > 30 {
		v = 30
	}
	return vg.Length(v) * vg.Inch
}
