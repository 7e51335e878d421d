// internal/dca/ols.go
// Regresi linear dua variabel (OLS) yang dipakai keenam metode

package dca

import "math"

// Degeneracy menandai kondisi numerik yang membuat fit tidak bermakna.
type Degeneracy struct {
	// semua X sama: penyebut slope = 0, slope dipaksa 0
	SlopeForcedZero bool `json:"slope_forced_zero"`
	// semua Y sama: SStotal = 0, R² NaN
	RSquaredUndefined bool `json:"r_squared_undefined"`
}

// Any true kalau ada kondisi degenerate.
func (d Degeneracy) Any() bool { return d.SlopeForcedZero || d.RSquaredUndefined }

// Regression hasil OLS, agnostik terhadap penamaan A/B.
type Regression struct {
	N          int
	Slope      float64
	Intercept  float64
	RSquared   float64
	SumX       float64
	SumY       float64
	SumXY      float64
	SumX2      float64
	Degenerate Degeneracy
}

// Predict nilai Y pada x menurut garis fit.
func (r Regression) Predict(x float64) float64 { return r.Slope*x + r.Intercept }

// Fit menghitung slope, intercept dan R² atas points. Points kosong -> ValidationError.
func Fit(points []FitPoint) (Regression, error) {
	n := len(points)
	if n == 0 {
		return Regression{}, invalid("points", "no points to fit")
	}
	reg := Regression{N: n}
	for _, p := range points {
		x, y := float64(p.X), float64(p.Y)
		reg.SumX += x
		reg.SumY += y
		reg.SumXY += x * y
		reg.SumX2 += x * x
	}

	nf := float64(n)
	den := nf*reg.SumX2 - reg.SumX*reg.SumX
	if den == 0 {
		reg.Degenerate.SlopeForcedZero = true
	} else {
		reg.Slope = (nf*reg.SumXY - reg.SumX*reg.SumY) / den
	}
	reg.Intercept = (reg.SumY - reg.Slope*reg.SumX) / nf

	yMean := reg.SumY / nf
	var ssTotal, ssResidual float64
	for _, p := range points {
		y := float64(p.Y)
		d := y - yMean
		ssTotal += d * d
		e := y - reg.Predict(float64(p.X))
		ssResidual += e * e
	}
	if ssTotal == 0 {
		reg.RSquared = math.NaN()
		reg.Degenerate.RSquaredUndefined = true
	} else {
		reg.RSquared = 1 - ssResidual/ssTotal
	}
	return reg, nil
}
