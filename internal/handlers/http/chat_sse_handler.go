// internal/handlers/http/chat_sse_handler.go
package http

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/middleware"
	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
	"dca-oilgas/internal/util/sse"
)

// AskStream GET /api/ask/stream?q=... atau POST body seperti /api/ask.
// Event: meta, phase, plan, sources, delta, done, error.
func (a *API) AskStream(w http.ResponseWriter, r *http.Request) {
	if a.Assistant == nil {
		util.WriteError(w, util.Unavailable("assistant not configured"))
		return
	}
	in, err := decodeAsk(w, r)
	if err == nil {
		err = in.Normalize()
	}
	if err != nil {
		util.WriteError(w, err)
		return
	}
	stream, err := sse.Start(w)
	if err != nil {
		util.WriteError(w, util.Internal(err.Error()))
		return
	}
	log := a.logger().With(zap.String("request_id", middleware.RequestIDFrom(r.Context())))

	ctx, cancel := withAskDeadline(r.Context())
	defer cancel()

	_ = stream.Send("meta", map[string]string{"lang": in.Lang})

	_ = stream.Send("phase", "plan_start")
	plan := a.Assistant.Plan(ctx, in)
	_ = stream.Send("plan", plan)
	if len(plan.Routes) == 0 {
		_ = stream.Send("error", map[string]string{"message": "question needs production rows or a field_id"})
		return
	}

	_ = stream.Send("phase", "exec_start")
	sources := a.Assistant.Execute(ctx, plan)
	_ = stream.Send("sources", sources)
	_ = stream.Send("phase", "exec_done")

	_ = stream.Send("phase", "llm_start")
	final, src := a.Assistant.Answer(ctx, in, sources, func(delta string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return stream.Send("delta", map[string]string{"delta": delta})
	})
	if err := ctx.Err(); err != nil {
		log.Warn("ask stream aborted", zap.Error(err))
		_ = stream.Send("error", map[string]string{"message": "stream aborted: " + err.Error()})
		return
	}
	_ = stream.Send("done", map[string]string{"final": final, "answer_source": src})
}

// CalculateFieldsStream POST /api/fields/calculate/stream: satu event
// "field" per lapangan begitu selesai, lalu "done".
func (a *API) CalculateFieldsStream(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCalc(w, r)
	if err != nil {
		util.WriteError(w, err)
		return
	}
	if !a.Svc.Ready() {
		util.WriteError(w, util.Unavailable("production database not configured"))
		return
	}
	stream, err := sse.Start(w)
	if err != nil {
		util.WriteError(w, util.Internal(err.Error()))
		return
	}

	start := time.Now()
	failed := 0
	out, err := a.Svc.CalculateFieldsEach(r.Context(), in.FieldIDs, in.Params, func(o services.FieldOutcome) {
		if o.Error != "" {
			failed++
		}
		_ = stream.Send("field", o)
	})
	if err != nil {
		ae, _ := util.Classify(err)
		_ = stream.Send("error", map[string]string{"error": ae.Code, "message": ae.Message})
		return
	}
	_ = stream.Send("done", map[string]any{
		"fields":  len(out),
		"failed":  failed,
		"took_ms": time.Since(start).Milliseconds(),
	})
}
