package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dca-oilgas/internal/mcp"
)

// capturingClient menyimpan prompt terakhir dari CompleteJSON.
type capturingClient struct {
	stubClient
	prompt string
}

func (c *capturingClient) CompleteJSON(_ context.Context, _, prompt string) (string, error) {
	c.prompt = prompt
	return c.text, c.err
}

func TestNewPlannerNilClient(t *testing.T) {
	assert.Nil(t, NewPlanner(nil, zap.NewNop()))
}

func TestPlannerPlan(t *testing.T) {
	c := &capturingClient{stubClient: stubClient{text: "```json\n{\"routes\":[{\"tool\":\"calculate_field\",\"params\":{\"field_id\":\"F-1\"}}],\"reason\":\"stored field\"}\n```"}}
	tools := []mcp.ToolDef{{
		Name:        "calculate_field",
		Description: "run all methods for a field",
		InputSchema: json.RawMessage(`{"type":"object","required":["field_id"],"properties":{"window_size":{},"field_id":{}}}`),
	}}

	plan, err := NewPlanner(c, nil).Plan(context.Background(), tools, "reserves of F-1?", PlanContext{FieldID: "F-1"})
	require.NoError(t, err)
	require.Len(t, plan.Routes, 1)
	assert.Equal(t, "calculate_field", plan.Routes[0].Tool)
	assert.Equal(t, "stored field", plan.Reason)

	var sent struct {
		Question string      `json:"question"`
		Context  PlanContext `json:"context"`
		Tools    []struct {
			Name     string   `json:"name"`
			Fields   []string `json:"fields"`
			Required []string `json:"required"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(c.prompt), &sent))
	assert.Equal(t, "F-1", sent.Context.FieldID)
	assert.Equal(t, []string{"field_id", "window_size"}, sent.Tools[0].Fields)
	assert.Equal(t, []string{"field_id"}, sent.Tools[0].Required)
}

func TestPlannerErrors(t *testing.T) {
	_, err := NewPlanner(stubClient{err: errors.New("boom")}, nil).Plan(context.Background(), nil, "q", PlanContext{})
	assert.ErrorContains(t, err, "planner: boom")

	_, err = NewPlanner(stubClient{text: "not json"}, nil).Plan(context.Background(), nil, "q", PlanContext{})
	assert.ErrorContains(t, err, "planner json")

	_, err = NewPlanner(stubClient{text: `{"routes":[]}`}, nil).Plan(context.Background(), nil, "q", PlanContext{})
	assert.EqualError(t, err, "planner returned no routes")
}

func TestDetectLang(t *testing.T) {
	assert.Equal(t, "ru", DetectLang("Каковы остаточные запасы?"))
	assert.Equal(t, "en", DetectLang("What is the ORC of field F-1"))
	assert.Equal(t, "id", DetectLang("berapa cadangan tersisa lapangan F-1"))
}

func TestAnswerPrompt(t *testing.T) {
	assert.Contains(t, AnswerPrompt("en"), "reservoir engineer")
	assert.Contains(t, AnswerPrompt("ru"), "инженер")
	assert.Contains(t, AnswerPrompt(""), "Jawab berdasarkan")
}
