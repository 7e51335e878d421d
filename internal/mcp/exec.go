// internal/mcp/exec.go
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type ExecResult struct {
	Route Route           `json:"route"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

// Invoke menjalankan tool in-process dengan params sebagai body JSON.
// Error hanya untuk tool yang tidak terdaftar; error tool ada di status/body.
func (r *Registry) Invoke(ctx context.Context, name string, params json.RawMessage) (int, []byte, error) {
	h, ok := r.Get(name)
	if !ok {
		return http.StatusNotFound, nil, fmt.Errorf("tool not found: %s", name)
	}
	body := []byte(params)
	if isJSONNullOrEmpty(params) {
		body = []byte("{}")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/mcp/internal/"+name, bytes.NewReader(body))
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	rr := &respRecorder{}
	h.ServeHTTP(rr, req)
	status := rr.status
	if status == 0 {
		status = http.StatusOK
	}
	return status, rr.buf, nil
}

// Execute menjalankan semua rute berurutan; kegagalan satu rute dicatat di
// ExecResult.Error dan rute berikutnya tetap jalan.
func Execute(ctx context.Context, reg *Registry, routes []Route) []ExecResult {
	out := make([]ExecResult, 0, len(routes))
	for _, rt := range routes {
		if err := ctx.Err(); err != nil {
			out = append(out, ExecResult{Route: rt, Error: err.Error()})
			continue
		}
		status, body, err := reg.Invoke(ctx, rt.Tool, rt.Params)
		switch {
		case err != nil:
			out = append(out, ExecResult{Route: rt, Error: err.Error()})
		case status >= 400:
			msg := toolError(body)
			if msg == "" {
				msg = fmt.Sprintf("status %d", status)
			}
			out = append(out, ExecResult{Route: rt, Error: msg})
		case len(bytes.TrimSpace(body)) == 0:
			out = append(out, ExecResult{Route: rt, Data: json.RawMessage("{}")})
		case !json.Valid(body):
			s, _ := json.Marshal(string(body))
			out = append(out, ExecResult{Route: rt, Data: s})
		default:
			out = append(out, ExecResult{Route: rt, Data: bytes.TrimSpace(body)})
		}
	}
	return out
}
