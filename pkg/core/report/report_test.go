package report

import (
	"strings"
	"testing"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

func sampleResult() *models.AnalysisResult {
	return &models.AnalysisResult{
		Ticker:         "PETR4",
		CompanyName:    "Petrobras PN",
		ExtractedAtUTC: time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC),
		SourceURL:      "https://www.fundamentus.com.br/detalhes.php?papel=PETR4",
		FinancialData: models.FinancialRecord{
			models.KeyPrice: 38.50,
			models.KeyPE:    4.2,
			models.KeyROE:   0.22,
		},
		FairPrices: models.FairPriceSet{
			models.ModelAssetEarnings:    45.10,
			models.ModelDividendDiscount: 0.0,
			models.ModelPEAdjusted:       52.30,
			models.ModelPVPAdjusted:      40.00,
			models.ModelAverage:          46.25,
		},
		Analysis: &models.Recommendation{
			Recommendation: "COMPRAR",
			RiskLevel:      "MÉDIO",
			Strengths:      []string{"ROE Excelente: 22.00%"},
			Weaknesses:     []string{},
			Summary:        "PETR4 (Petrobras PN): COMPRAR (Score 4)",
			Score:          4,
		},
		MissingIndicators: []string{"PSR"},
	}
}

func TestMarkdownSections(t *testing.T) {
	md := Markdown(sampleResult())

	for _, want := range []string{
		"# Análise Fundamentalista: PETR4 (Petrobras PN)",
		"Extraído em 2026-08-29 12:00 UTC",
		"| Cotação Atual (R$) | 38.50 |",
		"| ROE | 22.00% |",
		"## Preços Justos",
		"| Desconto de Dividendos (Gordon) | n/a |",
		"**Média ponderada: R$ 46.25**",
		"**COMPRAR** (Score 4, Risco MÉDIO)",
		"- ROE Excelente: 22.00%",
		"## Indicadores Não Encontrados",
		"- PSR",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
	if strings.Contains(md, "Pontos Fracos") {
		t.Error("empty weaknesses must not render a section")
	}
}

func TestMarkdownWithoutMissingIndicators(t *testing.T) {
	r := sampleResult()
	r.MissingIndicators = nil
	if strings.Contains(Markdown(r), "Indicadores Não Encontrados") {
		t.Error("missing-indicator section must be omitted when empty")
	}
}

func TestHTMLRendering(t *testing.T) {
	html, err := HTML(sampleResult())
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	if !strings.Contains(html, "<h1") || !strings.Contains(html, "PETR4") {
		t.Errorf("unexpected html output: %.200s", html)
	}
	if !strings.Contains(html, "<strong>COMPRAR</strong>") {
		t.Errorf("recommendation emphasis missing from html")
	}
	if !strings.Contains(html, "<table>") {
		t.Errorf("indicator table missing from html")
	}
}
