// internal/util/sse/sse.go
// Helper util untuk menulis SSE secara aman.

package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
)

type Flusher interface {
	Flush()
}

// Set header SSE + no-cache
func PrepareSSE(w http.ResponseWriter) Flusher {
	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Nginx: disable buffering
	flusher, _ := w.(http.Flusher)
	return flusher
}

// WriteEvent menulis satu event. String multi-baris dipecah ke beberapa
// baris "data:"; nilai lain di-encode JSON.
func WriteEvent(w http.ResponseWriter, flusher Flusher, event string, v any) error {
	var payload string
	switch data := v.(type) {
	case string:
		payload = data
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		payload = string(b)
	}
	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return err
		}
	}
	for _, line := range strings.Split(payload, "\n") {
		if _, err := fmt.Fprintf(w, "data: %s\n", line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprint(w, "\n"); err != nil {
		return err
	}

	if flusher != nil {
		flusher.Flush()
	}
	return nil
}

// ErrUnsupported writer tidak bisa di-flush (tidak bisa streaming).
var ErrUnsupported = errors.New("sse: streaming unsupported")

// Stream penulis event berurutan; aman dari beberapa goroutine.
type Stream struct {
	mu sync.Mutex
	w  http.ResponseWriter
	f  Flusher
}

// Start memasang header SSE dan mengirim status 200.
func Start(w http.ResponseWriter) (*Stream, error) {
	f := PrepareSSE(w)
	if f == nil {
		return nil, ErrUnsupported
	}
	w.WriteHeader(http.StatusOK)
	f.Flush()
	return &Stream{w: w, f: f}, nil
}

func (s *Stream) Send(event string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteEvent(s.w, s.f, event, v)
}
