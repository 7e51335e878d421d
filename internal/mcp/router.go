// internal/mcp/router.go
// Router MCP: katalog tool, envelope {tool, params}, dan panggilan langsung per tool.

package mcp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBody = 8 << 20

// simple recorder untuk menangkap output handler tool
type respRecorder struct {
	status int
	hdr    http.Header
	buf    []byte
}

func (r *respRecorder) Header() http.Header {
	if r.hdr == nil {
		r.hdr = http.Header{}
	}
	return r.hdr
}
func (r *respRecorder) WriteHeader(code int) { r.status = code }
func (r *respRecorder) Write(b []byte) (int, error) {
	r.buf = append(r.buf, b...)
	return len(b), nil
}

type Router struct {
	Registry *Registry
	Log      *zap.Logger
}

// NewRouter membuat chi router dengan route:
//
//	GET  /mcp/tools         katalog tool terdaftar
//	POST /mcp/call          envelope ToolRequest -> ToolResponse
//	POST /mcp/tools/{name}  body = params tool, balasan apa adanya
func NewRouter(reg *Registry, log *zap.Logger) chi.Router {
	if log == nil {
		log = zap.NewNop()
	}
	rt := &Router{Registry: reg, Log: log}
	r := chi.NewRouter()
	r.Route("/mcp", func(cr chi.Router) {
		cr.Get("/tools", rt.ListTools)
		cr.Post("/call", rt.Call)
		cr.Post("/tools/{name}", rt.Direct)
	})
	return r
}

// ListTools katalog dari mcp-tools.json yang terdaftar di registry.
func (rt *Router) ListTools(w http.ResponseWriter, r *http.Request) {
	defs, err := rt.Registry.Catalog()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ToolResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tools": defs})
}

// Call mengeksekusi satu tool dari envelope dan membungkus hasilnya.
func (rt *Router) Call(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req ToolRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req); err != nil {
		var tooB *http.MaxBytesError
		if errors.As(err, &tooB) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ToolResponse{Error: fmt.Sprintf("request body exceeds %d bytes", tooB.Limit)})
			return
		}
		writeJSON(w, http.StatusBadRequest, ToolResponse{Error: "invalid json: " + err.Error()})
		return
	}
	tool := strings.TrimSpace(req.Tool)
	status, body, err := rt.Registry.Invoke(r.Context(), tool, req.Params)
	if err != nil {
		rt.Log.Warn("mcp tool not found", zap.String("tool", tool), zap.String("request_id", r.Header.Get("X-Request-ID")))
		writeJSON(w, http.StatusNotFound, ToolResponse{Error: err.Error()})
		return
	}

	resp := ToolResponse{Success: status < 400}
	if resp.Success {
		var data any = json.RawMessage(body)
		if !json.Valid(body) {
			data = string(body)
		}
		resp.Data = data
	} else {
		resp.Error = toolError(body)
	}

	rt.Log.Info("mcp call",
		zap.String("tool", tool),
		zap.Int("status", status),
		zap.Duration("duration", time.Since(start)),
		zap.String("request_id", r.Header.Get("X-Request-ID")))
	writeJSON(w, status, resp)
}

// Direct meneruskan request ke tool tanpa envelope.
func (rt *Router) Direct(w http.ResponseWriter, r *http.Request) {
	rt.Registry.Serve(w, r, chi.URLParam(r, "name"))
}

// toolError ambil "message" dari body {"error","message"}; fallback teks mentah.
func toolError(body []byte) string {
	var e struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &e) == nil {
		switch {
		case e.Message != "":
			return e.Message
		case e.Error != "":
			return e.Error
		}
	}
	return strings.TrimSpace(string(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
