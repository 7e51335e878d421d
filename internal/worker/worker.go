// internal/worker/worker.go
// Job periodik: hitung ulang cadangan semua lapangan di MySQL

package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"dca-oilgas/internal/services"
	"dca-oilgas/internal/util"
)

// Calculator sumber perhitungan batch (implementasi: services.ReservesService).
type Calculator interface {
	CalculateFields(ctx context.Context, ids []string, p services.Params) ([]services.FieldOutcome, error)
}

// Report ringkasan satu putaran.
type Report struct {
	RunID    string
	Fields   int
	Failed   int
	Took     time.Duration
	Outcomes []services.FieldOutcome
}

type Runner struct {
	Calc     Calculator
	Interval time.Duration
	Params   services.Params
	Log      *zap.Logger
}

// RunOnce satu putaran batch. Gagal per lapangan hanya dihitung di Report.
func (r *Runner) RunOnce(ctx context.Context) (Report, error) {
	start := time.Now()
	runID := util.NewID()
	out, err := r.Calc.CalculateFields(ctx, nil, r.Params)
	if err != nil {
		return Report{RunID: runID}, err
	}
	rep := Report{RunID: runID, Fields: len(out), Took: time.Since(start), Outcomes: out}
	for _, o := range out {
		if o.Error != "" {
			rep.Failed++
			continue
		}
		agg := o.Summary.Aggregate
		fields := []zap.Field{
			zap.String("run_id", runID),
			zap.String("field_id", o.FieldID),
			zap.Int("valid_methods", agg.ValidCount),
		}
		if agg.RemainingAverage != nil {
			fields = append(fields, zap.Float64("remaining_average", *agg.RemainingAverage))
		}
		if agg.ORC != nil {
			fields = append(fields, zap.Float64("orc", *agg.ORC))
		}
		r.logger().Info("field reserves", fields...)
	}
	return rep, nil
}

// Run menjalankan RunOnce segera lalu tiap Interval sampai ctx selesai.
func (r *Runner) Run(ctx context.Context) error {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Hour
	}
	r.logger().Info("worker started", zap.Duration("interval", interval))

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		rep, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger().Error("batch failed", zap.Error(err))
		} else {
			r.logger().Info("batch done",
				zap.String("run_id", rep.RunID),
				zap.Int("fields", rep.Fields),
				zap.Int("failed", rep.Failed),
				zap.Duration("took", rep.Took))
		}

		select {
		case <-ctx.Done():
			r.logger().Info("worker stopped")
			return nil
		case <-t.C:
		}
	}
}

func (r *Runner) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
