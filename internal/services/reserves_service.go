// internal/services/reserves_service.go
// Layanan cadangan: jalankan engine DCA untuk input langsung atau data lapangan dari MySQL

package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"dca-oilgas/internal/dca"
	"dca-oilgas/internal/metrics"
	"dca-oilgas/internal/repositories/mysql"
	"dca-oilgas/internal/util"
)

// ProductionSource sumber data produksi tahunan (implementasi: mysql.ProductionRepo).
type ProductionSource interface {
	ListYearly(ctx context.Context, f mysql.YearlyFilter) ([]dca.ProductionRow, error)
	ListFields(ctx context.Context) ([]mysql.FieldInfo, error)
}

// Params parameter request; field nil memakai default service.
type Params struct {
	WindowSize         *int     `json:"window_size,omitempty"`
	FnLimit            *float64 `json:"fn_limit,omitempty"`
	FeLimit            *float64 `json:"fe_limit,omitempty"`
	GeologicalReserves *float64 `json:"geological_reserves,omitempty"`
	CumulativeOil      *float64 `json:"cumulative_oil,omitempty"`
}

// Resolve menggabungkan params dengan default.
func (p Params) Resolve(def dca.Options) dca.Options {
	o := def
	if p.WindowSize != nil {
		o.WindowSize = *p.WindowSize
	}
	if p.FnLimit != nil {
		o.FnLimit = *p.FnLimit
	}
	if p.FeLimit != nil {
		o.FeLimit = *p.FeLimit
	}
	if p.GeologicalReserves != nil {
		o.GeologicalReserves = p.GeologicalReserves
	}
	if p.CumulativeOil != nil {
		o.CumulativeOil = p.CumulativeOil
	}
	return o
}

type ReservesService struct {
	Source      ProductionSource // boleh nil: endpoint lapangan jadi unavailable
	Defaults    dca.Options
	Concurrency int
	Log         *zap.Logger
	Metrics     *metrics.Registry
}

func NewReservesService(src ProductionSource, def dca.Options, concurrency int, log *zap.Logger, m *metrics.Registry) *ReservesService {
	if log == nil {
		log = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ReservesService{Source: src, Defaults: def, Concurrency: concurrency, Log: log, Metrics: m}
}

// Ready true kalau sumber data lapangan tersedia.
func (s *ReservesService) Ready() bool { return s.Source != nil }

// Prepare hanya preprocessing (water, water cut, flag aktif).
func (s *ReservesService) Prepare(rows []dca.ProductionRow, p Params) ([]dca.ProductionRow, error) {
	return dca.Prepare(rows, p.Resolve(s.Defaults).WindowSize)
}

// Calculate menjalankan keenam metode atas rows.
func (s *ReservesService) Calculate(ctx context.Context, rows []dca.ProductionRow, p Params) (*dca.Summary, error) {
	return s.calculate(ctx, "request", rows, p.Resolve(s.Defaults))
}

// CalculateMethod satu metode saja.
func (s *ReservesService) CalculateMethod(ctx context.Context, key dca.MethodKey, rows []dca.ProductionRow, p Params) (*dca.MethodResult, error) {
	start := time.Now()
	res, err := dca.CalculateMethod(key, rows, p.Resolve(s.Defaults))
	s.Metrics.ObserveRun("method", time.Since(start))
	if err != nil {
		s.Metrics.CountMethod(string(key), "failed")
		s.Log.Debug("method calculation rejected", zap.String("method", string(key)), zap.Error(err))
		return nil, err
	}
	s.recordResult(res)
	return res, nil
}

// LoadField baris produksi satu lapangan.
func (s *ReservesService) LoadField(ctx context.Context, f mysql.YearlyFilter) ([]dca.ProductionRow, error) {
	if s.Source == nil {
		return nil, util.Unavailable("production database not configured")
	}
	rows, err := s.Source.ListYearly(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("load field %s: %w", f.FieldID, err)
	}
	if len(rows) == 0 {
		return nil, util.NotFound(fmt.Sprintf("no production rows for field %q", f.FieldID))
	}
	return rows, nil
}

func (s *ReservesService) ListFields(ctx context.Context) ([]mysql.FieldInfo, error) {
	if s.Source == nil {
		return nil, util.Unavailable("production database not configured")
	}
	return s.Source.ListFields(ctx)
}

// CalculateField memuat produksi lapangan lalu menghitung.
func (s *ReservesService) CalculateField(ctx context.Context, fieldID string, p Params) (*dca.Summary, error) {
	rows, err := s.LoadField(ctx, mysql.YearlyFilter{FieldID: fieldID})
	if err != nil {
		return nil, err
	}
	return s.calculate(ctx, "field", rows, p.Resolve(s.Defaults))
}

// FieldOutcome hasil batch per lapangan; tepat satu dari Summary/Error terisi.
type FieldOutcome struct {
	FieldID string       `json:"field_id"`
	Summary *dca.Summary `json:"summary,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// CalculateFields menghitung banyak lapangan paralel (dibatasi Concurrency).
// ids kosong = semua lapangan. Error per lapangan dicatat di outcome, bukan
// membatalkan batch; hanya pembatalan context yang mengembalikan error.
func (s *ReservesService) CalculateFields(ctx context.Context, ids []string, p Params) ([]FieldOutcome, error) {
	return s.CalculateFieldsEach(ctx, ids, p, nil)
}

// CalculateFieldsEach seperti CalculateFields; each (boleh nil) dipanggil
// berurutan (tidak konkuren) begitu tiap lapangan selesai.
func (s *ReservesService) CalculateFieldsEach(ctx context.Context, ids []string, p Params, each func(FieldOutcome)) ([]FieldOutcome, error) {
	if s.Source == nil {
		return nil, util.Unavailable("production database not configured")
	}
	if len(ids) == 0 {
		fields, err := s.Source.ListFields(ctx)
		if err != nil {
			return nil, fmt.Errorf("list fields: %w", err)
		}
		for _, f := range fields {
			ids = append(ids, f.FieldID)
		}
	}

	var (
		mu  sync.Mutex
		out = make([]FieldOutcome, 0, len(ids))
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Concurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := FieldOutcome{FieldID: id}
			sum, err := s.CalculateField(gctx, id, p)
			if err != nil {
				o.Error = err.Error()
				s.Log.Warn("field calculation failed", zap.String("field_id", id), zap.Error(err))
			} else {
				o.Summary = sum
			}
			mu.Lock()
			out = append(out, o)
			if each != nil {
				each(o)
			}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FieldID < out[j].FieldID })
	return out, nil
}

func (s *ReservesService) calculate(_ context.Context, source string, rows []dca.ProductionRow, opts dca.Options) (*dca.Summary, error) {
	start := time.Now()
	sum, err := dca.Calculate(rows, opts)
	s.Metrics.ObserveRun(source, time.Since(start))
	if err != nil {
		s.Log.Debug("calculation rejected", zap.String("source", source), zap.Error(err))
		return nil, err
	}

	for _, res := range sum.Ordered() {
		s.recordResult(res)
	}
	for key, msg := range sum.Failures {
		s.Metrics.CountMethod(string(key), "failed")
		s.Log.Warn("method failed", zap.String("method", string(key)), zap.String("error", msg))
	}
	if sum.Aggregate.UnderCounted {
		s.Log.Info("average divides by fixed method count with fewer valid methods",
			zap.Int("valid", sum.Aggregate.ValidCount),
			zap.Int("divisor", dca.ExpectedValidMethodCount))
	}
	s.Log.Debug("calculation done",
		zap.String("source", source),
		zap.Int("rows", len(rows)),
		zap.Int("window", opts.WindowSize),
		zap.Int("valid", sum.Aggregate.ValidCount),
		zap.Duration("took", time.Since(start)))
	return sum, nil
}

func (s *ReservesService) recordResult(res *dca.MethodResult) {
	status := "no_reserves"
	if res.ExtractableOilReserves != nil && res.RemainingOilReserves != nil {
		status = "valid"
	}
	s.Metrics.CountMethod(string(res.Key), status)
	if res.Degenerate.SlopeForcedZero {
		s.Metrics.CountDegenerate(string(res.Key), "slope")
	}
	if res.Degenerate.RSquaredUndefined {
		s.Metrics.CountDegenerate(string(res.Key), "r_squared")
	}
}
