// internal/dca/methods.go
// Tabel konfigurasi enam metode DCA (transformasi X/Y + relasi cadangan)

package dca

import "math"

// ClampRule aturan operand non-positif pada transformasi. Operand <= 0
// menghasilkan 0, tahun tersebut tidak memberi sinyal.
type ClampRule string

const (
	ClampNone        ClampRule = ""
	ClampRatio       ClampRule = "ratio"        // a/b, b = 0 -> 0
	ClampLog         ClampRule = "ln"           // ln(v), v <= 0 -> 0
	ClampInverseSqrt ClampRule = "inverse_sqrt" // v^(-1/2), v <= 0 -> 0
)

// CoefficientOrder menentukan slope/intercept mana yang disebut A.
type CoefficientOrder int

const (
	SlopeIsA     CoefficientOrder = iota // A = slope, B = intercept
	InterceptIsA                         // A = intercept, B = slope
)

// ReserveFunc relasi tertutup cadangan; nil/nil kalau metode tidak punya.
type ReserveFunc func(reg Regression, lastOil float64) (extractable, remaining *float64)

// Method satu konfigurasi decline-curve.
type Method struct {
	Key          MethodKey
	Name         string
	XDescription string
	YDescription string
	XClamp       ClampRule
	YClamp       ClampRule
	XOf          func(ProductionRow) float64
	YOf          func(ProductionRow) float64
	Order        CoefficientOrder
	Reserves     ReserveFunc
}

// Coefficients memetakan hasil OLS ke A/B sesuai metode.
func (m Method) Coefficients(reg Regression) Coefficients {
	c := Coefficients{A: Float(reg.Slope), B: Float(reg.Intercept), R2: Float(reg.RSquared)}
	if m.Order == InterceptIsA {
		c.A, c.B = Float(reg.Intercept), Float(reg.Slope)
	}
	return c
}

// Line slope dan intercept OLS dari hasil metode, terlepas dari urutan A/B.
func (r *MethodResult) Line() (slope, intercept float64) {
	slope, intercept = float64(r.Coefficients.A), float64(r.Coefficients.B)
	if m, err := Lookup(r.Key); err == nil && m.Order == InterceptIsA {
		slope, intercept = intercept, slope
	}
	return slope, intercept
}

// Transform memetakan rows aktif menjadi FitPoint.
func (m Method) Transform(rows []ProductionRow) []FitPoint {
	out := make([]FitPoint, 0, len(rows))
	for _, r := range rows {
		x, y := m.XOf(r), m.YOf(r)
		out = append(out, FitPoint{Year: r.Year, X: Float(x), Y: Float(y), XY: Float(x * y), X2: Float(x * x)})
	}
	return out
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func clampLog(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Log(v)
}

func clampInverseSqrt(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return math.Pow(v, -0.5)
}

// inverseSlopeReserves: extractable = 1/A (A = slope), nil kalau A = 0.
func inverseSlopeReserves(reg Regression, lastOil float64) (*float64, *float64) {
	if reg.Slope == 0 {
		return nil, nil
	}
	e := 1 / reg.Slope
	return ptr(e), ptr(e - lastOil)
}

func interceptReserves(reg Regression, lastOil float64) (*float64, *float64) {
	return ptr(reg.Intercept), ptr(reg.Intercept - lastOil)
}

func slopeReserves(reg Regression, lastOil float64) (*float64, *float64) {
	return ptr(reg.Slope), ptr(reg.Slope - lastOil)
}

func noReserves(Regression, float64) (*float64, *float64) { return nil, nil }

var methods = []Method{
	{
		Key:          NazarovSipachev,
		Name:         "Назаров-Сипачев",
		XDescription: "V воды",
		YDescription: "V жидкости / V нефти",
		YClamp:       ClampRatio,
		XOf:          func(r ProductionRow) float64 { return r.Water },
		YOf:          func(r ProductionRow) float64 { return ratio(r.Liquid, r.Oil) },
		Order:        SlopeIsA,
		Reserves:     inverseSlopeReserves,
	},
	{
		Key:          SipachevPosevich,
		Name:         "Сипачев-Посевич",
		XDescription: "V жидкости",
		YDescription: "V жидкости / V нефти",
		YClamp:       ClampRatio,
		XOf:          func(r ProductionRow) float64 { return r.Liquid },
		YOf:          func(r ProductionRow) float64 { return ratio(r.Liquid, r.Oil) },
		Order:        SlopeIsA,
		Reserves:     inverseSlopeReserves,
	},
	{
		Key:          Maksimov,
		Name:         "Максимов",
		XDescription: "V нефти",
		YDescription: "ln(V воды)",
		YClamp:       ClampLog,
		XOf:          func(r ProductionRow) float64 { return r.Oil },
		YOf:          func(r ProductionRow) float64 { return clampLog(r.Water) },
		Order:        SlopeIsA,
		Reserves:     noReserves,
	},
	{
		Key:          Sazonov,
		Name:         "Сазонов",
		XDescription: "V нефти",
		YDescription: "ln(V жидкости)",
		YClamp:       ClampLog,
		XOf:          func(r ProductionRow) float64 { return r.Oil },
		YOf:          func(r ProductionRow) float64 { return clampLog(r.Liquid) },
		Order:        SlopeIsA,
		Reserves:     noReserves,
	},
	{
		Key:          Pirverdyan,
		Name:         "Пирвердян",
		XDescription: "V жидкости^(-1/2)",
		YDescription: "V нефти",
		XClamp:       ClampInverseSqrt,
		XOf:          func(r ProductionRow) float64 { return clampInverseSqrt(r.Liquid) },
		YOf:          func(r ProductionRow) float64 { return r.Oil },
		Order:        InterceptIsA,
		Reserves:     interceptReserves,
	},
	{
		Key:          Kambarov,
		Name:         "Камбаров",
		XDescription: "V жидкости",
		YDescription: "V нефти * V жидкости",
		XOf:          func(r ProductionRow) float64 { return r.Liquid },
		YOf:          func(r ProductionRow) float64 { return r.Oil * r.Liquid },
		Order:        InterceptIsA,
		Reserves:     slopeReserves,
	},
}

// Methods mengembalikan salinan tabel metode dalam urutan tetap.
func Methods() []Method {
	out := make([]Method, len(methods))
	copy(out, methods)
	return out
}

// Keys urutan key metode.
func Keys() []MethodKey {
	out := make([]MethodKey, len(methods))
	for i, m := range methods {
		out[i] = m.Key
	}
	return out
}

// Lookup mencari metode berdasarkan key; key tak dikenal -> ValidationError.
func Lookup(key MethodKey) (Method, error) {
	for _, m := range methods {
		if m.Key == key {
			return m, nil
		}
	}
	return Method{}, invalid("method", "unknown calculation method %q", key)
}
