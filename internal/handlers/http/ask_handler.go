// internal/handlers/http/ask_handler.go
package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

const askTimeout = 25 * time.Second

type AskResponse struct {
	Status string `json:"status"`
	*services.AskResult
}

// decodeAsk body {question, lang, field_id, rows, window_size, ...}.
func decodeAsk(w http.ResponseWriter, r *http.Request) (services.AskInput, error) {
	var in services.AskInput
	body, err := util.ReadBody(w, r, maxBody)
	if err != nil {
		return in, err
	}
	if len(strings.TrimSpace(string(body))) > 0 {
		if err := json.Unmarshal(body, &in); err != nil {
			return in, util.BadInput("invalid json: " + err.Error())
		}
	}
	q := r.URL.Query()
	if in.Question == "" {
		in.Question = q.Get("q")
	}
	if in.Lang == "" {
		in.Lang = q.Get("lang")
	}
	if in.FieldID == "" {
		in.FieldID = q.Get("field_id")
	}
	return in, nil
}

func withAskDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, askTimeout)
}

// Ask POST /api/ask: planner -> eksekusi tool -> jawaban.
func (a *API) Ask(w http.ResponseWriter, r *http.Request) {
	if a.Assistant == nil {
		util.WriteError(w, util.Unavailable("assistant not configured"))
		return
	}
	in, err := decodeAsk(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	ctx, cancel := withAskDeadline(r.Context())
	defer cancel()

	res, err := a.Assistant.Ask(ctx, in)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, AskResponse{Status: "ok", AskResult: res})
}
