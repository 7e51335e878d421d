// internal/services/assistant_service.go
// Asisten cadangan: pertanyaan bebas -> rencana tool MCP -> eksekusi -> jawaban (LLM / template)

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/util"
)

// AskInput pertanyaan beserta data yang dibawa request.
type AskInput struct {
	Params
	Question string              `json:"question"`
	Lang     string              `json:"lang,omitempty"`
	FieldID  string              `json:"field_id,omitempty"`
	Rows     []dca.ProductionRow `json:"rows,omitempty"`
}

// Normalize trim + validasi; Lang kosong dideteksi dari pertanyaan.
func (in *AskInput) Normalize() error {
	in.Question = strings.TrimSpace(in.Question)
	in.FieldID = strings.TrimSpace(in.FieldID)
	in.Lang = strings.ToLower(strings.TrimSpace(in.Lang))
	if in.Question == "" {
		return util.BadInput("question required")
	}
	switch in.Lang {
	case "en", "ru", "id":
	default:
		in.Lang = llm.DetectLang(in.Question)
	}
	return nil
}

// contextParams params yang disisipkan ke setiap rute (menang atas planner).
func (in AskInput) contextParams() map[string]json.RawMessage {
	out := map[string]json.RawMessage{}
	put := func(k string, v any) {
		if b, err := json.Marshal(v); err == nil {
			out[k] = b
		}
	}
	if len(in.Rows) > 0 {
		put("rows", in.Rows)
	}
	if in.FieldID != "" {
		put("field_id", in.FieldID)
	}
	if in.WindowSize != nil {
		put("window_size", *in.WindowSize)
	}
	if in.FnLimit != nil {
		put("fn_limit", *in.FnLimit)
	}
	if in.FeLimit != nil {
		put("fe_limit", *in.FeLimit)
	}
	if in.GeologicalReserves != nil {
		put("geological_reserves", *in.GeologicalReserves)
	}
	if in.CumulativeOil != nil {
		put("cumulative_oil", *in.CumulativeOil)
	}
	if in.Lang != "" {
		put("lang", in.Lang)
	}
	return out
}

type AskResult struct {
	Lang         string           `json:"lang"`
	Plan         mcp.Plan         `json:"plan"`
	Sources      []mcp.ExecResult `json:"sources"`
	Answer       string           `json:"answer"`
	AnswerSource string           `json:"answer_source"` // "llm" | "template"
}

// Assistant menjalankan tool lewat Registry in-process. Client nil =
// rencana heuristik + jawaban template.
type Assistant struct {
	Registry *mcp.Registry
	Planner  *llm.Planner
	Client   llm.Client
	Log      *zap.Logger
}

func NewAssistant(reg *mcp.Registry, c llm.Client, log *zap.Logger) *Assistant {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assistant{Registry: reg, Planner: llm.NewPlanner(c, log), Client: c, Log: log}
}

// Plan rencana dari planner LLM; gagal/kosong -> rencana heuristik.
func (a *Assistant) Plan(ctx context.Context, in AskInput) mcp.Plan {
	fallback := heuristicPlan(in)
	base := in.contextParams()
	if a.Planner != nil {
		defs, err := a.Registry.Catalog()
		if err == nil {
			var p mcp.Plan
			p, err = a.Planner.Plan(ctx, defs, in.Question, llm.PlanContext{RowCount: len(in.Rows), FieldID: in.FieldID})
			if err == nil {
				return mcp.NormalizePlan(p, a.Registry, base, fallback)
			}
		}
		a.Log.Warn("planner failed, using heuristic plan", zap.Error(err))
	}
	return mcp.NormalizePlan(mcp.Plan{}, a.Registry, base, fallback)
}

func (a *Assistant) Execute(ctx context.Context, p mcp.Plan) []mcp.ExecResult {
	return mcp.Execute(ctx, a.Registry, p.Routes)
}

// Answer menyusun jawaban. onDelta != nil = mode streaming; jawaban template
// dikirim sebagai satu delta.
func (a *Assistant) Answer(ctx context.Context, in AskInput, sources []mcp.ExecResult, onDelta func(string) error) (string, string) {
	if a.Client != nil {
		payload, err := json.Marshal(struct {
			Question string           `json:"question"`
			Sources  []mcp.ExecResult `json:"sources"`
		}{in.Question, sources})
		if err == nil {
			var text string
			if onDelta != nil {
				text, err = a.Client.Stream(ctx, llm.AnswerPrompt(in.Lang), string(payload), onDelta)
			} else {
				text, err = a.Client.Complete(ctx, llm.AnswerPrompt(in.Lang), string(payload))
			}
			if err == nil && strings.TrimSpace(text) != "" {
				return text, "llm"
			}
		}
		a.Log.Warn("llm answer failed, using template", zap.Error(err))
	}
	text := templateAnswer(sources)
	if onDelta != nil {
		_ = onDelta(text)
	}
	return text, "template"
}

// Ask alur lengkap tanpa streaming.
func (a *Assistant) Ask(ctx context.Context, in AskInput) (*AskResult, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	plan := a.Plan(ctx, in)
	if len(plan.Routes) == 0 {
		return nil, util.BadInput("question needs production rows or a field_id")
	}
	sources := a.Execute(ctx, plan)
	answer, src := a.Answer(ctx, in, sources, nil)
	a.Log.Debug("question answered",
		zap.String("lang", in.Lang),
		zap.Int("routes", len(plan.Routes)),
		zap.Bool("fallback", plan.Fallback),
		zap.String("answer_source", src))
	return &AskResult{Lang: in.Lang, Plan: plan, Sources: sources, Answer: answer, AnswerSource: src}, nil
}

// alias nama metode (latin & kiril); posevich dicek sebelum nazarov karena
// kedua nama mengandung "sipachev".
var methodAliases = []struct {
	key   dca.MethodKey
	words []string
}{
	{dca.SipachevPosevich, []string{"posevich", "посевич"}},
	{dca.NazarovSipachev, []string{"nazarov", "назаров"}},
	{dca.Maksimov, []string{"maksimov", "maximov", "максимов"}},
	{dca.Sazonov, []string{"sazonov", "сазонов"}},
	{dca.Pirverdyan, []string{"pirverdyan", "пирвердян"}},
	{dca.Kambarov, []string{"kambarov", "камбаров"}},
}

var diagnoseWords = []string{
	"outlier", "anomal", "residual", "fit quality", "correlation",
	"korelasi", "anomali", "pencilan",
	"выброс", "аномал", "корреляц", "невязк",
}

func mentionedMethod(q string) (dca.MethodKey, bool) {
	for _, m := range methodAliases {
		for _, w := range m.words {
			if strings.Contains(q, w) {
				return m.key, true
			}
		}
	}
	return "", false
}

func containsAny(q string, words []string) bool {
	for _, w := range words {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

// heuristicPlan rencana berbasis kata kunci; kosong kalau request tidak
// membawa rows maupun field_id.
func heuristicPlan(in AskInput) mcp.Plan {
	if len(in.Rows) == 0 && in.FieldID == "" {
		return mcp.Plan{Reason: "no production data in request"}
	}
	q := strings.ToLower(in.Question)
	if containsAny(q, diagnoseWords) {
		return mcp.Plan{
			Routes: []mcp.Route{{Tool: "diagnose_fits"}, {Tool: "summarize_reserves"}},
			Reason: "fit diagnostics keywords",
		}
	}
	if key, ok := mentionedMethod(q); ok && len(in.Rows) > 0 {
		params, _ := json.Marshal(map[string]string{"method": string(key)})
		return mcp.Plan{
			Routes: []mcp.Route{{Tool: "calculate_method", Params: params}},
			Reason: "question names method " + string(key),
		}
	}
	return mcp.Plan{Routes: []mcp.Route{{Tool: "summarize_reserves"}}, Reason: "reserves summary"}
}

// templateAnswer jawaban deterministik dari hasil tool.
func templateAnswer(sources []mcp.ExecResult) string {
	var parts []string
	for _, s := range sources {
		if s.Error != "" {
			parts = append(parts, fmt.Sprintf("%s failed: %s.", s.Route.Tool, s.Error))
			continue
		}
		if text := describeSource(s.Data); text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "No results were produced for this question."
	}
	return strings.Join(parts, "\n")
}

func describeSource(data json.RawMessage) string {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return ""
	}

	if raw, ok := m["narrative"]; ok {
		var n llm.Narrative
		if json.Unmarshal(raw, &n) == nil && n.Text != "" {
			return n.Text
		}
	}
	if raw, ok := m["diagnostics"]; ok {
		var diags []FitDiagnostics
		if json.Unmarshal(raw, &diags) == nil {
			return describeDiagnostics(diags)
		}
	}
	if raw, ok := m["summary"]; ok {
		var s dca.Summary
		if json.Unmarshal(raw, &s) == nil {
			return llm.Template(&s)
		}
	}
	if _, ok := m["aggregate"]; ok {
		var s dca.Summary
		if json.Unmarshal(data, &s) == nil && len(s.Methods) > 0 {
			return llm.Template(&s)
		}
	}
	if _, ok := m["coefficients"]; ok {
		var r dca.MethodResult
		if json.Unmarshal(data, &r) == nil {
			return describeMethod(&r)
		}
	}
	if raw, ok := m["rows"]; ok {
		var rows []json.RawMessage
		if json.Unmarshal(raw, &rows) == nil {
			return fmt.Sprintf("%d production rows loaded.", len(rows))
		}
	}
	return ""
}

func describeMethod(r *dca.MethodResult) string {
	c := r.Coefficients
	text := fmt.Sprintf("%s: A=%s, B=%s, R²=%s.", r.Name,
		llm.FormatNumber(float64(c.A)), llm.FormatNumber(float64(c.B)), llm.FormatNumber(float64(c.R2)))
	if r.ExtractableOilReserves != nil && r.RemainingOilReserves != nil {
		text += fmt.Sprintf(" Extractable reserves %s, remaining reserves %s.",
			llm.FormatNumber(*r.ExtractableOilReserves), llm.FormatNumber(*r.RemainingOilReserves))
	} else {
		text += " This method has no reserve relation."
	}
	return text
}

func describeDiagnostics(diags []FitDiagnostics) string {
	var lines []string
	for _, d := range diags {
		if len(d.Outliers) == 0 {
			continue
		}
		years := make([]string, 0, len(d.Outliers))
		for _, o := range d.Outliers {
			years = append(years, fmt.Sprintf("%s (z=%.2f)", o.Year, o.ZScore))
		}
		lines = append(lines, fmt.Sprintf("%s: outlier years %s, correlation %s.",
			d.Name, strings.Join(years, ", "), llm.FormatNumber(d.Correlation)))
	}
	if len(lines) == 0 {
		return "No residual outliers found in any method."
	}
	return strings.Join(lines, "\n")
}
