// internal/mcp/registry.go
// Registri tool MCP: nama -> http.Handler, plus katalog tool terdaftar

package mcp

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Registry menyimpan peta nama tool -> http.Handler secara thread-safe.
type Registry struct {
	mu   sync.RWMutex
	data map[string]http.Handler
}

func NewRegistry() *Registry {
	return &Registry{data: make(map[string]http.Handler)}
}

// Register mendaftarkan handler untuk sebuah tool.
// Jika nama sudah ada, handler lama akan ditimpa.
func (r *Registry) Register(name string, h http.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[name] = h
}

// RegisterFunc mendaftarkan handler function biasa (http.HandlerFunc).
func (r *Registry) RegisterFunc(name string, fn func(http.ResponseWriter, *http.Request)) {
	r.Register(name, http.HandlerFunc(fn))
}

// Get mengambil handler berdasarkan nama tool.
func (r *Registry) Get(name string) (http.Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.data[name]
	return h, ok
}

// Catalog definisi tool dari mcp-tools.json yang terdaftar di registry,
// urut sesuai katalog.
func (r *Registry) Catalog() ([]ToolDef, error) {
	defs, err := LoadToolDefs()
	if err != nil {
		return nil, fmt.Errorf("tool catalog: %w", err)
	}
	out := make([]ToolDef, 0, len(defs))
	for _, d := range defs {
		if _, ok := r.Get(d.Name); ok {
			out = append(out, d)
		}
	}
	return out, nil
}

// List nama tool terdaftar, terurut.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.data))
	for k := range r.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Serve mengeksekusi handler untuk tool 'name'.
// Jika tidak ditemukan, otomatis membalas 404.
func (r *Registry) Serve(w http.ResponseWriter, req *http.Request, name string) {
	if h, ok := r.Get(name); ok {
		h.ServeHTTP(w, req)
		return
	}
	http.Error(w, "tool not found: "+name, http.StatusNotFound)
}
