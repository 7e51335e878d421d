// internal/llm/planner.go
// Planner: pertanyaan bebas -> rencana pemanggilan tool MCP (JSON mode)

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"dca-oilgas/internal/mcp"
)

// PlanContext data yang sudah dibawa request. Rows tidak dikirim ke LLM,
// cukup jumlahnya; executor yang menyisipkan rows ke params tool.
type PlanContext struct {
	RowCount int    `json:"row_count,omitempty"`
	FieldID  string `json:"field_id,omitempty"`
}

type Planner struct {
	Client Client
	Log    *zap.Logger
}

func NewPlanner(c Client, log *zap.Logger) *Planner {
	if c == nil {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Planner{Client: c, Log: log}
}

const plannerPrompt = `You are a ROUTER for a decline-curve analysis (oil reserves) service. Reply ONLY with a valid JSON object.
Rules:
- Choose ONLY tools listed in "tools"; never invent tool names or params.
- "context.row_count" > 0 means the caller already attached production rows: do NOT put rows in params.
- "context.field_id" means the caller refers to a stored field: prefer calculate_field / summarize_reserves.
- A question about one specific method (Nazarov-Sipachev, Sipachev-Posevich, Maksimov, Sazonov, Pirverdyan, Kambarov) uses calculate_method with "method".
- Questions about fit quality, outliers or anomalous years use diagnose_fits.
- Use at most 3 routes.
Output schema:
{
  "routes": [{"tool": "<tool name>", "params": { }}],
  "reason": "short reason"
}`

type toolForLLM struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Fields      []string `json:"fields,omitempty"`
	Required    []string `json:"required,omitempty"`
}

// Plan meminta LLM menyusun rencana. Error atau rencana kosong dikembalikan
// sebagai error; pemanggil memakai rencana heuristik.
func (p *Planner) Plan(ctx context.Context, tools []mcp.ToolDef, question string, pc PlanContext) (mcp.Plan, error) {
	llmTools := make([]toolForLLM, 0, len(tools))
	for _, t := range tools {
		var sc struct {
			Properties map[string]json.RawMessage `json:"properties"`
			Required   []string                   `json:"required"`
		}
		_ = json.Unmarshal(t.InputSchema, &sc)
		fields := make([]string, 0, len(sc.Properties))
		for k := range sc.Properties {
			fields = append(fields, k)
		}
		sort.Strings(fields)
		llmTools = append(llmTools, toolForLLM{
			Name:        t.Name,
			Description: t.Description,
			Fields:      fields,
			Required:    sc.Required,
		})
	}

	ub, err := json.Marshal(struct {
		Question string       `json:"question"`
		Context  PlanContext  `json:"context"`
		Tools    []toolForLLM `json:"tools"`
	}{question, pc, llmTools})
	if err != nil {
		return mcp.Plan{}, err
	}

	raw, err := p.Client.CompleteJSON(ctx, plannerPrompt, string(ub))
	if err != nil {
		return mcp.Plan{}, fmt.Errorf("planner: %w", err)
	}
	var plan mcp.Plan
	if err := json.Unmarshal([]byte(StripFences(raw)), &plan); err != nil {
		p.Log.Warn("planner returned invalid json", zap.String("raw", raw), zap.Error(err))
		return mcp.Plan{}, fmt.Errorf("planner json: %w", err)
	}
	if len(plan.Routes) == 0 {
		return mcp.Plan{}, errors.New("planner returned no routes")
	}
	return plan, nil
}

// DetectLang heuristik ringan: kiril -> "ru", kata umum Inggris -> "en",
// selain itu "id".
func DetectLang(s string) string {
	cyr, latin := 0, 0
	for _, r := range s {
		switch {
		case r >= 'А' && r <= 'я', r == 'ё', r == 'Ё':
			cyr++
		case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
			latin++
		}
	}
	if cyr > latin {
		return "ru"
	}
	ls := " " + strings.ToLower(s) + " "
	for _, w := range []string{" the ", " what ", " how ", " which ", " reserves ", " remaining ", " show ", " is "} {
		if strings.Contains(ls, w) {
			return "en"
		}
	}
	return "id"
}

// AnswerPrompt system prompt penyusun jawaban per bahasa.
func AnswerPrompt(lang string) string {
	switch lang {
	case "ru":
		return `Вы инженер-разработчик месторождений.
- Отвечайте по данным из "sources" (результаты характеристик вытеснения).
- Кратко и точно, с ключевыми числами: извлекаемые и остаточные запасы, КИН.
- Если методов с запасами меньше четырёх, отметьте, что среднее всё равно делится на четыре.
- Не придумывайте числа, которых нет в данных.`
	case "en":
		return `You are a reservoir engineer.
- Answer from the "sources" data (decline-curve tool results).
- Be concise and accurate; quote key numbers such as extractable and remaining reserves and ORC.
- If fewer than four methods produced reserves, note that the average still divides by four.
- Do not invent numbers that are not in the sources.`
	default:
		return `Anda adalah reservoir engineer.
- Jawab berdasarkan data "sources" (hasil tool decline-curve).
- Ringkas dan akurat; sebutkan angka utama seperti cadangan extractable, remaining dan ORC.
- Jika metode yang menghasilkan cadangan kurang dari empat, sebutkan bahwa rata-rata tetap dibagi empat.
- Jangan mengarang angka yang tidak ada di sources.`
	}
}
