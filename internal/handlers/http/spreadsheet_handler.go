// internal/handlers/http/spreadsheet_handler.go
// Import/export xlsx produksi + hasil

package http

import (
	"bytes"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/spreadsheet"
	"dca-oilgas/internal/util"
)

const xlsxType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// readUpload membaca multipart "file" menjadi rows mentah.
func readUpload(w http.ResponseWriter, r *http.Request) ([]dca.ProductionRow, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	f, _, err := r.FormFile("file")
	if err != nil {
		return nil, util.BadInput("file missing: " + err.Error())
	}
	defer f.Close()
	rows, err := spreadsheet.ReadRows(f)
	if err != nil {
		return nil, util.BadInput(err.Error())
	}
	return rows, nil
}

// Import POST /api/import (multipart file, window_size opsional)
func (a *API) Import(w http.ResponseWriter, r *http.Request) {
	rows, err := readUpload(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	var p services.Params
	if v := r.FormValue("window_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			util.WriteError(w, util.BadInput("window_size must be an integer"))
			return
		}
		p.WindowSize = &n
	}
	prepared, err := a.Svc.Prepare(rows, p)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, map[string]any{"rows": prepared})
}

// Export POST /api/export: rows + params -> xlsx (sheet Data + Results).
func (a *API) Export(w http.ResponseWriter, r *http.Request) {
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

	var buf bytes.Buffer
	if err := spreadsheet.WriteWorkbook(&buf, sum.Rows, sum); err != nil {
		a.logger().Error("export workbook", zap.Error(err))
		util.WriteError(w, util.Internal("export failed"))
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", `attachment; filename="data_export.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	_, _ = buf.WriteTo(w)
}
