// internal/mcp/plan.go
package mcp

import (
	"encoding/json"
	"strings"
)

// MaxRoutes batas rute per rencana.
const MaxRoutes = 3

type Route struct {
	Tool   string          `json:"tool"`
	Params json.RawMessage `json:"params,omitempty"` // payload JSON utk handler tool (RAW)
}

type Plan struct {
	Routes   []Route `json:"routes"`
	Reason   string  `json:"reason,omitempty"`
	Fallback bool    `json:"fallback,omitempty"` // true jika bukan dari planner LLM
}

// NormalizePlan memastikan rencana bisa dieksekusi:
//   - rute dengan tool yang tidak terdaftar dibuang
//   - jumlah rute dibatasi MaxRoutes
//   - params konteks request (rows, field_id, window_size, ...) disisipkan
//     ke setiap rute dan selalu menang atas params buatan planner
//
// Kalau tidak ada rute tersisa, fallback dipakai (ditandai Fallback).
func NormalizePlan(p Plan, reg *Registry, base map[string]json.RawMessage, fallback Plan) Plan {
	out := Plan{Reason: p.Reason, Fallback: p.Fallback}
	for _, r := range p.Routes {
		r.Tool = strings.TrimSpace(r.Tool)
		if _, ok := reg.Get(r.Tool); !ok {
			continue
		}
		if len(out.Routes) == MaxRoutes {
			break
		}
		r.Params = MergeParams(r.Params, base)
		out.Routes = append(out.Routes, r)
	}
	if len(out.Routes) > 0 {
		return out
	}

	fallback.Fallback = true
	if fallback.Reason == "" {
		fallback.Reason = "no executable routes"
	}
	for i := range fallback.Routes {
		fallback.Routes[i].Params = MergeParams(fallback.Routes[i].Params, base)
	}
	return fallback
}

// MergeParams menimpa key params dengan base. params yang bukan object
// JSON diperlakukan sebagai {}.
func MergeParams(params json.RawMessage, base map[string]json.RawMessage) json.RawMessage {
	m := map[string]json.RawMessage{}
	if !isJSONNullOrEmpty(params) {
		if err := json.Unmarshal(params, &m); err != nil {
			m = map[string]json.RawMessage{}
		}
	}
	for k, v := range base {
		if len(v) > 0 {
			m[k] = v
		}
	}
	b, err := json.Marshal(m)
	if err != nil {
		return json.RawMessage("{}")
	}
	return b
}

// isJSONNullOrEmpty: params null / {} / whitespace
func isJSONNullOrEmpty(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == "{}"
}
