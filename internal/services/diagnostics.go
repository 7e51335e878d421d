// internal/services/diagnostics.go
// Diagnostik fit: residual outlier (z-score) & korelasi Pearson X-Y per metode

package services

import (
	"errors"
	"math"

	"dca-oilgas/internal/dca"
)

// DefaultMinZ ambang |z| residual default.
const DefaultMinZ = 2.0

type Outlier struct {
	Year     string  `json:"year"`
	Residual float64 `json:"residual"`
	ZScore   float64 `json:"z_score"`
}

type FitDiagnostics struct {
	Method      dca.MethodKey `json:"method"`
	Name        string        `json:"name"`
	Correlation float64       `json:"correlation"`
	Outliers    []Outlier     `json:"outliers"`
}

// ResidualOutliers tahun dengan |z| residual >= minZ (mean & stddev populasi).
// Residual = y - (slope*x + intercept) memakai garis OLS metode.
func ResidualOutliers(res *dca.MethodResult, minZ float64) ([]Outlier, error) {
	if res == nil || len(res.Points) == 0 {
		return nil, errors.New("empty fit")
	}
	slope, intercept := res.Line()
	resid := make([]float64, len(res.Points))
	var sum float64
	for i, p := range res.Points {
		resid[i] = float64(p.Y) - (slope*float64(p.X) + intercept)
		sum += resid[i]
	}
	mean := sum / float64(len(resid))

	var ss float64
	for _, r := range resid {
		d := r - mean
		ss += d * d
	}
	std := math.Sqrt(ss / float64(len(resid)))
	if std == 0 || math.IsNaN(std) {
		return []Outlier{}, nil
	}

	out := []Outlier{}
	for i, p := range res.Points {
		z := (resid[i] - mean) / std
		if math.Abs(z) >= minZ {
			out = append(out, Outlier{Year: p.Year, Residual: resid[i], ZScore: z})
		}
	}
	return out, nil
}

// PearsonCorrelation korelasi Pearson dua deret sejajar; 0 kalau salah satu
// deret konstan.
func PearsonCorrelation(xs, ys []float64) (float64, error) {
	n := min(len(xs), len(ys))
	if n < 2 {
		return 0, errors.New("insufficient points for correlation")
	}
	var sx, sy, sxx, syy, sxy float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		sx += x
		sy += y
		sxx += x * x
		syy += y * y
		sxy += x * y
	}
	num := float64(n)*sxy - sx*sy
	den := math.Sqrt((float64(n)*sxx - sx*sx) * (float64(n)*syy - sy*sy))
	if den == 0 || math.IsNaN(den) {
		return 0, nil
	}
	return num / den, nil
}

// Diagnose diagnostik semua metode yang berhasil, urut metode tetap.
func Diagnose(s *dca.Summary, minZ float64) []FitDiagnostics {
	if minZ <= 0 {
		minZ = DefaultMinZ
	}
	out := make([]FitDiagnostics, 0, len(s.Methods))
	for _, res := range s.Ordered() {
		d := FitDiagnostics{Method: res.Key, Name: res.Name, Outliers: []Outlier{}}
		xs := make([]float64, len(res.Points))
		ys := make([]float64, len(res.Points))
		for i, p := range res.Points {
			xs[i], ys[i] = float64(p.X), float64(p.Y)
		}
		if r, err := PearsonCorrelation(xs, ys); err == nil {
			d.Correlation = r
		}
		if o, err := ResidualOutliers(res, minZ); err == nil {
			d.Outliers = o
		}
		out = append(out, d)
	}
	return out
}
