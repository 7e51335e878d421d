// internal/chart/chart.go
// Render grafik PNG: titik regresi + garis fit per metode, dan bar cadangan

package chart

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"dca-oilgas/internal/dca"
)

const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

var (
	pointColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	lineColor  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	barColor   = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// FitLine slope dan intercept hasil OLS, terlepas dari urutan A/B metode.
func FitLine(res *dca.MethodResult) (slope, intercept float64) {
	return res.Line()
}

// RenderMethod scatter titik aktif dan garis fit satu metode.
func RenderMethod(w io.Writer, res *dca.MethodResult, width, height vg.Length) error {
	if res == nil {
		return fmt.Errorf("nil method result")
	}
	pts := make(plotter.XYs, 0, len(res.Points))
	for _, fp := range res.Points {
		x, y := float64(fp.X), float64(fp.Y)
		if finite(x) && finite(y) {
			pts = append(pts, plotter.XY{X: x, Y: y})
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("%s: no finite points to plot", res.Key)
	}

	p := plot.New()
	p.Title.Text = res.Name
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = res.XDescription
	p.Y.Label.Text = res.YDescription
	p.Add(plotter.NewGrid())

	sc, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = pointColor
	sc.GlyphStyle.Shape = draw.CircleGlyph{}
	sc.GlyphStyle.Radius = vg.Points(4)
	p.Add(sc)
	p.Legend.Add("данные", sc)

	slope, intercept := FitLine(res)
	if finite(slope) && finite(intercept) {
		minX, maxX := pts[0].X, pts[0].X
		for _, pt := range pts[1:] {
			minX = math.Min(minX, pt.X)
			maxX = math.Max(maxX, pt.X)
		}
		line, err := plotter.NewLine(plotter.XYs{
			{X: minX, Y: slope*minX + intercept},
			{X: maxX, Y: slope*maxX + intercept},
		})
		if err != nil {
			return err
		}
		line.LineStyle.Color = lineColor
		line.LineStyle.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("R² = %.4f", float64(res.Coefficients.R2)), line)
	}
	p.Legend.Top = true

	return save(w, p, width, height)
}

// RenderReserves bar cadangan sisa metode valid + garis rata-rata.
func RenderReserves(w io.Writer, s *dca.Summary, width, height vg.Length) error {
	if s == nil {
		return fmt.Errorf("nil summary")
	}
	var (
		values plotter.Values
		names  []string
	)
	for _, res := range s.Ordered() {
		if res.RemainingOilReserves == nil || !finite(*res.RemainingOilReserves) {
			continue
		}
		values = append(values, *res.RemainingOilReserves)
		names = append(names, res.Name)
	}
	if len(values) == 0 {
		return fmt.Errorf("no method produced reserves")
	}

	p := plot.New()
	p.Title.Text = "Остаточные запасы"
	p.Y.Label.Text = "V нефти"
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return err
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(names...)

	if avg := s.Aggregate.RemainingAverage; avg != nil && finite(*avg) {
		line, err := plotter.NewLine(plotter.XYs{
			{X: -0.5, Y: *avg},
			{X: float64(len(values)) - 0.5, Y: *avg},
		})
		if err != nil {
			return err
		}
		line.LineStyle.Color = lineColor
		line.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("среднее (/%d)", dca.ExpectedValidMethodCount), line)
	}

	return save(w, p, width, height)
}

func save(w io.Writer, p *plot.Plot, width, height vg.Length) error {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}
