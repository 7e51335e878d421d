package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/services"
)

type fakeCalc struct {
	out   []services.FieldOutcome
	err   error
	calls atomic.Int32
}

func (f *fakeCalc) CalculateFields(context.Context, []string, services.Params) ([]services.FieldOutcome, error) {
	f.calls.Add(1)
	return f.out, f.err
}

func fp(v float64) *float64 { return &v }

func TestRunOnceCountsFailures(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	calc := &fakeCalc{out: []services.FieldOutcome{
		{FieldID: "A", Summary: &dca.Summary{Aggregate: dca.Aggregate{ValidCount: 4, RemainingAverage: fp(120), ORC: fp(0.3)}}},
		{FieldID: "B", Error: "field not found"},
	}}
	r := &Runner{Calc: calc, Log: zap.New(core)}

	rep, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, rep.Fields)
	assert.Equal(t, 1, rep.Failed)

	entries := logs.FilterMessage("field reserves").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "A", entries[0].ContextMap()["field_id"])
	assert.Equal(t, 0.3, entries[0].ContextMap()["orc"])
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, rep.RunID, entries[0].ContextMap()["run_id"])
}

func TestRunOncePropagatesError(t *testing.T) {
	r := &Runner{Calc: &fakeCalc{err: errors.New("db down")}}
	_, err := r.RunOnce(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRunStopsOnCancel(t *testing.T) {
	calc := &fakeCalc{}
	r := &Runner{Calc: calc, Interval: 5 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	require.Eventually(t, func() bool { return calc.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
