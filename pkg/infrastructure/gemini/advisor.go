package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vsinha/metalerp/pkg/domain/entities"
)

const (
	MsgMissingKey     = "Erro: Chave de API não configurada."
	MsgAnalysisFailed = "Não foi possível gerar a análise no momento."
)

// Advisor produces material estimates and labor analysis from the generative model.
// Failures never surface as errors: callers get an empty list or a fixed message.
type Advisor struct {
	client *Client
}

func NewAdvisor(client *Client) *Advisor {
	return &Advisor{client: client}
}

var suggestionSchema = &Schema{
	Type: "ARRAY",
	Items: &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"name":     {Type: "STRING", Description: "Nome técnico do material"},
			"type":     {Type: "STRING", Enum: []string{string(entities.MaterialBar), string(entities.MaterialSheet), string(entities.MaterialCommercial)}},
			"quantity": {Type: "NUMBER", Description: "Quantidade estimada total"},
			"unit":     {Type: "STRING", Description: "Unidade (m, kg, pç, un)"},
		},
		Required: []string{"name", "type", "quantity", "unit"},
	},
}

// SuggestMaterials estimates a consolidated bill of materials for the given items
func (a *Advisor) SuggestMaterials(ctx context.Context, items []entities.ProjectItem) []entities.MaterialSuggestion {
	if !a.client.Configured() {
		log.Warn().Msg("gemini api key missing, no material suggestions")
		return []entities.MaterialSuggestion{}
	}

	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("- %s (Quantidade: %s)", it.Description, it.Quantity))
	}

	prompt := `Atue como um Engenheiro de PCP Industrial experiente.
Analise esta lista de itens de uma Ordem de Produção (OP) e gere uma LISTA TÉCNICA CONSOLIDADA (BOM) de materiais necessários para fabricar TODOS eles.

ITENS A FABRICAR:
` + strings.Join(lines, "\n") + `

Regras:
1. Calcule a estimativa total de material para a quantidade solicitada.
2. Categorize estritamente em:
   - BARRA (Perfis, tubos, vigas, maciços)
   - CHAPA (Chapas lisas, xadrez, expandidas)
   - COMERCIAL_PART (Parafusos, rolamentos, tintas, itens comprados prontos, mancais de compra se não for fabricação)
3. Seja específico nas descrições (ex: "Barra Chata 1x1/8 A36", "Parafuso M10x50").

Retorne apenas JSON.`

	text, err := a.client.GenerateText(ctx, prompt, suggestionSchema)
	if err != nil {
		log.Error().Err(err).Msg("material suggestion failed")
		return []entities.MaterialSuggestion{}
	}
	if strings.TrimSpace(text) == "" {
		text = "[]"
	}

	var raw []entities.MaterialSuggestion
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		log.Error().Err(err).Msg("material suggestion returned malformed JSON")
		return []entities.MaterialSuggestion{}
	}

	out := make([]entities.MaterialSuggestion, 0, len(raw))
	for _, s := range raw {
		t, err := entities.ParseMaterialType(string(s.Type))
		if err != nil || strings.TrimSpace(s.Name) == "" {
			continue
		}
		s.Type = t
		out = append(out, s)
	}
	return out
}

type workLogSummary struct {
	Employee        string `json:"func"`
	Service         string `json:"servico"`
	OPNumber        string `json:"op"`
	Machine         string `json:"maquina"`
	DurationMinutes int64  `json:"duracao_minutos"`
}

// AnalyzeWorkLogs returns a free text productivity analysis of the given records
func (a *Advisor) AnalyzeWorkLogs(ctx context.Context, records []entities.JobRecord) string {
	if !a.client.Configured() {
		return MsgMissingKey
	}

	summary := make([]workLogSummary, 0, len(records))
	for _, r := range records {
		summary = append(summary, workLogSummary{
			Employee:        r.Employee,
			Service:         r.ServiceType,
			OPNumber:        r.OPNumber,
			Machine:         r.Machine,
			DurationMinutes: int64(math.Round(float64(r.DurationSeconds) / 60)),
		})
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return MsgAnalysisFailed
	}

	prompt := `Analise os seguintes registros de trabalho de uma fábrica metalúrgica.
Identifique padrões de produtividade, gargalos potenciais ou observações relevantes sobre o tempo gasto por serviço/máquina.
Seja direto e use bullet points. Fale português.

Dados:
` + string(data)

	text, err := a.client.GenerateText(ctx, prompt, nil)
	if err != nil {
		log.Error().Err(err).Msg("work log analysis failed")
		return MsgAnalysisFailed
	}
	return text
}
