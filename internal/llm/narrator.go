// internal/llm/narrator.go
// Narasi ringkas hasil DCA: via LLM bila tersedia, fallback template deterministik

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"dca-oilgas/internal/dca"
)

type Narrative struct {
	Text   string `json:"text"`
	Source string `json:"source"` // "llm" | "template"
	Model  string `json:"model,omitempty"`
}

type Narrator struct {
	Client Client // nil = selalu template
	Log    *zap.Logger
}

func NewNarrator(c Client, log *zap.Logger) *Narrator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Narrator{Client: c, Log: log}
}

const systemPrompt = `You are a reservoir engineer. Summarise decline-curve analysis results in at most six sentences.
Mention which methods produced reserves, the averaged extractable and remaining reserves, and the oil recovery coefficient if present.
Point out when fewer than four methods produced reserves, because the average still divides by four.
Do not invent numbers that are not in the input.`

// Narrate menghasilkan ringkasan; error LLM tidak fatal (turun ke template).
func (n *Narrator) Narrate(ctx context.Context, s *dca.Summary, lang string) Narrative {
	if n.Client != nil {
		prompt, err := promptFor(s, lang)
		if err == nil {
			text, err := n.Client.Complete(ctx, systemPrompt, prompt)
			if err == nil && text != "" {
				return Narrative{Text: text, Source: "llm", Model: n.Client.Model()}
			}
			n.Log.Warn("llm narrative failed, using template", zap.Error(err))
		}
	}
	return Narrative{Text: Template(s), Source: "template"}
}

func promptFor(s *dca.Summary, lang string) (string, error) {
	b, err := json.Marshal(struct {
		Results   []*dca.MethodResult      `json:"results"`
		Failures  map[dca.MethodKey]string `json:"failures,omitempty"`
		Aggregate dca.Aggregate            `json:"aggregate"`
	}{s.Ordered(), s.Failures, s.Aggregate})
	if err != nil {
		return "", err
	}
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("Answer in language %q.\nResults JSON:\n%s", lang, b), nil
}

// Template ringkasan deterministik (bahasa Inggris).
func Template(s *dca.Summary) string {
	var b strings.Builder
	var valid, none []string
	for _, r := range s.Ordered() {
		if r.ExtractableOilReserves != nil && r.RemainingOilReserves != nil {
			valid = append(valid, fmt.Sprintf("%s (extractable %s, remaining %s)",
				r.Name, FormatNumber(*r.ExtractableOilReserves), FormatNumber(*r.RemainingOilReserves)))
		} else {
			none = append(none, r.Name)
		}
	}

	a := s.Aggregate
	fmt.Fprintf(&b, "%d of %d methods produced reserves", a.ValidCount, len(s.Methods))
	if len(valid) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(valid, "; "))
	}
	b.WriteString(".")
	if len(none) > 0 {
		fmt.Fprintf(&b, " Without reserves: %s.", strings.Join(none, ", "))
	}
	if len(s.Failures) > 0 {
		fmt.Fprintf(&b, " Failed methods: %d.", len(s.Failures))
	}
	if a.ExtractableAverage != nil && a.RemainingAverage != nil {
		fmt.Fprintf(&b, " Average extractable reserves %s, average remaining reserves %s (divisor %d).",
			FormatNumber(*a.ExtractableAverage), FormatNumber(*a.RemainingAverage), dca.ExpectedValidMethodCount)
	}
	if a.UnderCounted {
		fmt.Fprintf(&b, " Only %d methods were valid, so the averages are under-counted.", a.ValidCount)
	}
	fmt.Fprintf(&b, " Cumulative oil production %s.", FormatNumber(a.CumulativeOilProduction))
	if a.ORC != nil {
		fmt.Fprintf(&b, " Oil recovery coefficient %s.", FormatNumber(*a.ORC))
	}
	return b.String()
}

// FormatNumber format ringkas 4 digit signifikan; NaN/Inf jadi "n/a".
func FormatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4g", v)
}
