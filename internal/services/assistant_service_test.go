package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/llm"
	"dca-oilgas/internal/mcp"
	"dca-oilgas/internal/util"
)

// scriptedClient: CompleteJSON membalas plan, Complete/Stream membalas answer.
type scriptedClient struct {
	plan    string
	answer  string
	planErr error
	ansErr  error
	prompts []string
}

func (c *scriptedClient) Complete(_ context.Context, _, prompt string) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.answer, c.ansErr
}

func (c *scriptedClient) CompleteJSON(context.Context, string, string) (string, error) {
	return c.plan, c.planErr
}

func (c *scriptedClient) Stream(_ context.Context, _, prompt string, onDelta func(string) error) (string, error) {
	c.prompts = append(c.prompts, prompt)
	if c.ansErr != nil {
		return "", c.ansErr
	}
	for _, w := range strings.SplitAfter(c.answer, " ") {
		if err := onDelta(w); err != nil {
			return "", err
		}
	}
	return c.answer, nil
}

func (c *scriptedClient) Model() string { return "scripted" }

func askRows() []dca.ProductionRow {
	oil := []float64{100, 190, 270, 340, 400, 450}
	liquid := []float64{120, 229, 327, 414, 488, 561}
	rows := make([]dca.ProductionRow, len(oil))
	for i := range oil {
		rows[i] = dca.ProductionRow{Year: fmt.Sprint(2014 + i), Oil: oil[i], Liquid: liquid[i]}
	}
	return rows
}

// assistantRegistry tool minimal di atas ReservesService.
func assistantRegistry(t *testing.T) (*mcp.Registry, *[]json.RawMessage) {
	t.Helper()
	svc := NewReservesService(nil, dca.Options{WindowSize: 11}, 1, nil, nil)
	var seen []json.RawMessage
	reg := mcp.NewRegistry()
	decode := func(r *http.Request) (AskInput, dca.MethodKey) {
		var raw json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		seen = append(seen, raw)
		var in struct {
			AskInput
			Method dca.MethodKey `json:"method"`
		}
		require.NoError(t, json.Unmarshal(raw, &in))
		return in.AskInput, in.Method
	}
	reg.RegisterFunc("summarize_reserves", func(w http.ResponseWriter, r *http.Request) {
		in, _ := decode(r)
		sum, err := svc.Calculate(r.Context(), in.Rows, in.Params)
		if err != nil {
			util.WriteError(w, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"narrative": llm.Narrative{Text: llm.Template(sum), Source: "template"}})
	})
	reg.RegisterFunc("calculate_method", func(w http.ResponseWriter, r *http.Request) {
		in, method := decode(r)
		res, err := svc.CalculateMethod(r.Context(), method, in.Rows, in.Params)
		if err != nil {
			util.WriteError(w, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, res)
	})
	reg.RegisterFunc("diagnose_fits", func(w http.ResponseWriter, r *http.Request) {
		in, _ := decode(r)
		sum, err := svc.Calculate(r.Context(), in.Rows, in.Params)
		if err != nil {
			util.WriteError(w, err)
			return
		}
		util.WriteJSON(w, http.StatusOK, map[string]any{"diagnostics": Diagnose(sum, 0.5)})
	})
	return reg, &seen
}

func TestAskInputNormalize(t *testing.T) {
	in := AskInput{Question: "  "}
	err := in.Normalize()
	var ae util.AppError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "bad_input", ae.Code)

	in = AskInput{Question: "Какие остаточные запасы?"}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "ru", in.Lang)

	in = AskInput{Question: "what are the remaining reserves", Lang: "EN "}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "en", in.Lang)

	in = AskInput{Question: "berapa sisa cadangan", Lang: "fr"}
	require.NoError(t, in.Normalize())
	assert.Equal(t, "id", in.Lang)
}

func TestHeuristicPlan(t *testing.T) {
	rows := askRows()

	p := heuristicPlan(AskInput{Question: "remaining reserves?"})
	assert.Empty(t, p.Routes)

	p = heuristicPlan(AskInput{Question: "Any outlier years?", Rows: rows})
	require.Len(t, p.Routes, 2)
	assert.Equal(t, "diagnose_fits", p.Routes[0].Tool)

	p = heuristicPlan(AskInput{Question: "What does Sipachev-Posevich give?", Rows: rows})
	require.Len(t, p.Routes, 1)
	assert.Equal(t, "calculate_method", p.Routes[0].Tool)
	assert.JSONEq(t, `{"method":"sipachev-posevich"}`, string(p.Routes[0].Params))

	p = heuristicPlan(AskInput{Question: "метод Камбарова", Rows: rows})
	assert.JSONEq(t, `{"method":"kambarov"}`, string(p.Routes[0].Params))

	// tanpa rows, nama metode tidak cukup untuk calculate_method
	p = heuristicPlan(AskInput{Question: "kambarov", FieldID: "F-1"})
	assert.Equal(t, "summarize_reserves", p.Routes[0].Tool)
}

func TestAskWithoutLLMUsesHeuristicAndTemplate(t *testing.T) {
	reg, seen := assistantRegistry(t)
	a := NewAssistant(reg, nil, zap.NewNop())
	w := 11
	res, err := a.Ask(context.Background(), AskInput{
		Question: "what are the remaining reserves",
		Rows:     askRows(),
		Params:   Params{WindowSize: &w},
	})
	require.NoError(t, err)
	assert.Equal(t, "en", res.Lang)
	assert.True(t, res.Plan.Fallback)
	require.Len(t, res.Sources, 1)
	assert.Empty(t, res.Sources[0].Error)
	assert.Equal(t, "template", res.AnswerSource)
	assert.Contains(t, res.Answer, "4 of 6 methods produced reserves")

	require.Len(t, *seen, 1)
	var sent map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0], &sent))
	assert.EqualValues(t, 11, sent["window_size"])
	assert.Equal(t, "en", sent["lang"])
	assert.Len(t, sent["rows"], 6)
}

func TestAskNeedsData(t *testing.T) {
	reg, _ := assistantRegistry(t)
	_, err := NewAssistant(reg, nil, nil).Ask(context.Background(), AskInput{Question: "remaining reserves?"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, util.StatusOf(err))
}

func TestAskWithPlannerMergesContextParams(t *testing.T) {
	reg, seen := assistantRegistry(t)
	c := &scriptedClient{
		plan:   "```json\n" + `{"routes":[{"tool":"drop_table"},{"tool":"calculate_method","params":{"method":"kambarov","rows":[{"year":1,"oil":1,"liquid":1}]}}],"reason":"one method"}` + "\n```",
		answer: "Kambarov gives the reserves.",
	}
	a := NewAssistant(reg, c, zap.NewNop())
	res, err := a.Ask(context.Background(), AskInput{Question: "kambarov please", Rows: askRows()})
	require.NoError(t, err)

	assert.False(t, res.Plan.Fallback)
	assert.Equal(t, "one method", res.Plan.Reason)
	require.Len(t, res.Plan.Routes, 1)
	assert.Equal(t, "calculate_method", res.Plan.Routes[0].Tool)
	assert.Equal(t, "llm", res.AnswerSource)
	assert.Equal(t, "Kambarov gives the reserves.", res.Answer)

	// rows dari request menimpa rows karangan planner
	var sent map[string]any
	require.NoError(t, json.Unmarshal((*seen)[0], &sent))
	assert.Len(t, sent["rows"], 6)
	assert.Equal(t, "kambarov", sent["method"])

	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], `"sources"`)
}

func TestAskFallsBackWhenLLMFails(t *testing.T) {
	reg, _ := assistantRegistry(t)
	c := &scriptedClient{planErr: errors.New("timeout"), ansErr: errors.New("timeout")}
	res, err := NewAssistant(reg, c, zap.NewNop()).Ask(context.Background(), AskInput{
		Question: "Any anomalies in the fits?",
		Rows:     askRows(),
	})
	require.NoError(t, err)
	assert.True(t, res.Plan.Fallback)
	require.Len(t, res.Sources, 2)
	assert.Equal(t, "diagnose_fits", res.Sources[0].Route.Tool)
	assert.Equal(t, "template", res.AnswerSource)
	assert.Contains(t, res.Answer, "4 of 6 methods produced reserves")
}

func TestAnswerStreaming(t *testing.T) {
	reg, _ := assistantRegistry(t)
	in := AskInput{Question: "remaining reserves", Lang: "en", Rows: askRows()}
	sources := []mcp.ExecResult{{Route: mcp.Route{Tool: "summarize_reserves"}, Data: json.RawMessage(`{"narrative":{"text":"done","source":"template"}}`)}}

	var deltas []string
	onDelta := func(d string) error { deltas = append(deltas, d); return nil }

	text, src := NewAssistant(reg, &scriptedClient{answer: "streamed answer"}, nil).Answer(context.Background(), in, sources, onDelta)
	assert.Equal(t, "llm", src)
	assert.Equal(t, "streamed answer", text)
	assert.Equal(t, []string{"streamed ", "answer"}, deltas)

	deltas = nil
	text, src = NewAssistant(reg, nil, nil).Answer(context.Background(), in, sources, onDelta)
	assert.Equal(t, "template", src)
	assert.Equal(t, "done", text)
	assert.Equal(t, []string{"done"}, deltas)
}

func TestTemplateAnswer(t *testing.T) {
	sum, err := dca.Calculate(askRows(), dca.Options{WindowSize: 11})
	require.NoError(t, err)
	sumJSON, err := json.Marshal(map[string]any{"field_id": "F-1", "summary": sum})
	require.NoError(t, err)
	methodJSON, err := json.Marshal(sum.Results[dca.Kambarov])
	require.NoError(t, err)

	text := templateAnswer([]mcp.ExecResult{
		{Route: mcp.Route{Tool: "calculate_field"}, Data: sumJSON},
		{Route: mcp.Route{Tool: "calculate_method"}, Data: methodJSON},
		{Route: mcp.Route{Tool: "get_field_production"}, Data: json.RawMessage(`{"rows":[{},{}]}`)},
		{Route: mcp.Route{Tool: "diagnose_fits"}, Data: json.RawMessage(`{"diagnostics":[]}`)},
		{Route: mcp.Route{Tool: "calculate_field"}, Error: "not_found: no production rows"},
	})
	assert.Contains(t, text, "4 of 6 methods produced reserves")
	assert.Contains(t, text, "Камбаров: A=")
	assert.Contains(t, text, "2 production rows loaded.")
	assert.Contains(t, text, "No residual outliers found in any method.")
	assert.Contains(t, text, "calculate_field failed: not_found: no production rows.")

	assert.Equal(t, "No results were produced for this question.", templateAnswer(nil))
}
