package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dca-oilgas/internal/mcp"
)

func TestNormalizePlanDropsUnknownAndMergesContext(t *testing.T) {
	reg := echoRegistry()
	base := map[string]json.RawMessage{"rows": json.RawMessage(`[{"year":2010,"oil":1,"liquid":2}]`)}
	p := mcp.Plan{
		Reason: "calc",
		Routes: []mcp.Route{
			{Tool: "get_weather"},
			{Tool: " calculate_reserves ", Params: json.RawMessage(`{"window_size":5,"rows":[]}`)},
		},
	}

	got := mcp.NormalizePlan(p, reg, base, mcp.Plan{})
	require.Len(t, got.Routes, 1)
	assert.False(t, got.Fallback)
	assert.Equal(t, "calculate_reserves", got.Routes[0].Tool)
	assert.JSONEq(t, `{"window_size":5,"rows":[{"year":2010,"oil":1,"liquid":2}]}`, string(got.Routes[0].Params))
}

func TestNormalizePlanFallback(t *testing.T) {
	fb := mcp.Plan{Routes: []mcp.Route{{Tool: "calculate_reserves"}}}
	base := map[string]json.RawMessage{"field_id": json.RawMessage(`"F-1"`)}

	got := mcp.NormalizePlan(mcp.Plan{Routes: []mcp.Route{{Tool: "nope"}}}, echoRegistry(), base, fb)
	assert.True(t, got.Fallback)
	assert.Equal(t, "no executable routes", got.Reason)
	require.Len(t, got.Routes, 1)
	assert.JSONEq(t, `{"field_id":"F-1"}`, string(got.Routes[0].Params))
}

func TestNormalizePlanCapsRoutes(t *testing.T) {
	routes := make([]mcp.Route, 0, 5)
	for i := 0; i < 5; i++ {
		routes = append(routes, mcp.Route{Tool: "calculate_reserves"})
	}
	got := mcp.NormalizePlan(mcp.Plan{Routes: routes}, echoRegistry(), nil, mcp.Plan{})
	assert.Len(t, got.Routes, mcp.MaxRoutes)
}

func TestMergeParamsNonObject(t *testing.T) {
	got := mcp.MergeParams(json.RawMessage(`[1,2]`), map[string]json.RawMessage{"a": json.RawMessage(`1`)})
	assert.JSONEq(t, `{"a":1}`, string(got))
	assert.JSONEq(t, `{}`, string(mcp.MergeParams(nil, nil)))
}

func TestExecuteCollectsPerRouteErrors(t *testing.T) {
	reg := echoRegistry()
	out := mcp.Execute(context.Background(), reg, []mcp.Route{
		{Tool: "calculate_reserves", Params: json.RawMessage(`{"window_size":3}`)},
		{Tool: "prepare_rows"},
		{Tool: "missing"},
	})
	require.Len(t, out, 3)
	assert.JSONEq(t, `{"echo":{"window_size":3}}`, string(out[0].Data))
	assert.Empty(t, out[0].Error)
	assert.Equal(t, "rows: production table is empty", out[1].Error)
	assert.Equal(t, "tool not found: missing", out[2].Error)
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := mcp.Execute(ctx, echoRegistry(), []mcp.Route{{Tool: "calculate_reserves"}})
	require.Len(t, out, 1)
	assert.Equal(t, context.Canceled.Error(), out[0].Error)
}
