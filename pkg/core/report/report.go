// Package report renders an analysis result as a Markdown document and as
// HTML for the web UI.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// renderer renders GFM tables, which the default goldmark parser ignores.
var renderer = goldmark.New(goldmark.WithExtensions(extension.Table))

// indicatorRows selects which record keys appear in the report table, in
// display order. Percent values are stored as fractions and shown as %.
var indicatorRows = []struct {
	Key     string
	Label   string
	Percent bool
}{
	{models.KeyPrice, "Cotação Atual (R$)", false},
	{models.KeyPE, "P/L", false},
	{models.KeyPB, "P/VP", false},
	{models.KeyEPS, "LPA (R$)", false},
	{models.KeyBVPS, "VPA (R$)", false},
	{models.KeyDividendYield, "Dividend Yield", true},
	{models.KeyROE, "ROE", true},
	{models.KeyROIC, "ROIC", true},
	{models.KeyNetMargin, "Margem Líquida", true},
	{models.KeyCurrentRatio, "Liquidez Corrente", false},
	{models.KeyDebtToEquity, "Dív. Bruta / Patrimônio", false},
	{models.KeyRevenueGrowth5Y, "Cresc. Receita (5a)", true},
	{models.KeyGreenblattYield, "Earnings Yield (Greenblatt)", true},
	{models.KeyGreenblattROC, "Retorno s/ Capital (Greenblatt)", true},
}

// modelRows fixes the fair-price table order and display names.
var modelRows = []struct {
	Key   string
	Label string
}{
	{models.ModelAssetEarnings, "Patrimônio e Lucros (Graham)"},
	{models.ModelDividendDiscount, "Desconto de Dividendos (Gordon)"},
	{models.ModelPEAdjusted, "P/L Ajustado por Qualidade"},
	{models.ModelPVPAdjusted, "P/VP Ajustado por Qualidade"},
}

// Markdown builds the human-readable report for one analysis result.
func Markdown(result *models.AnalysisResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Análise Fundamentalista: %s (%s)\n\n", result.Ticker, result.CompanyName)
	fmt.Fprintf(&b, "Fonte: [Fundamentus](%s) | Extraído em %s\n\n",
		result.SourceURL, result.ExtractedAtUTC.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Indicadores\n\n")
	b.WriteString("| Indicador | Valor |\n|---|---|\n")
	for _, row := range indicatorRows {
		value := result.FinancialData.Get(row.Key)
		if row.Percent {
			fmt.Fprintf(&b, "| %s | %.2f%% |\n", row.Label, value*100)
		} else {
			fmt.Fprintf(&b, "| %s | %.2f |\n", row.Label, value)
		}
	}
	b.WriteString("\n")

	b.WriteString("## Preços Justos\n\n")
	b.WriteString("| Modelo | Valor (R$) |\n|---|---|\n")
	for _, row := range modelRows {
		value := result.FairPrices[row.Key]
		if value <= 0 {
			fmt.Fprintf(&b, "| %s | n/a |\n", row.Label)
			continue
		}
		fmt.Fprintf(&b, "| %s | %.2f |\n", row.Label, value)
	}
	fmt.Fprintf(&b, "\n**Média ponderada: R$ %.2f**\n\n", result.FairPrices[models.ModelAverage])

	if rec := result.Analysis; rec != nil {
		b.WriteString("## Recomendação\n\n")
		fmt.Fprintf(&b, "**%s** (Score %d, Risco %s)\n\n", rec.Recommendation, rec.Score, rec.RiskLevel)
		if len(rec.Strengths) > 0 {
			b.WriteString("### Pontos Fortes\n\n")
			for _, s := range rec.Strengths {
				fmt.Fprintf(&b, "- %s\n", s)
			}
			b.WriteString("\n")
		}
		if len(rec.Weaknesses) > 0 {
			b.WriteString("### Pontos Fracos\n\n")
			for _, w := range rec.Weaknesses {
				fmt.Fprintf(&b, "- %s\n", w)
			}
			b.WriteString("\n")
		}
	}

	if len(result.MissingIndicators) > 0 {
		b.WriteString("## Indicadores Não Encontrados\n\n")
		for _, label := range result.MissingIndicators {
			fmt.Fprintf(&b, "- %s\n", label)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// HTML renders the Markdown report through goldmark.
func HTML(result *models.AnalysisResult) (string, error) {
	var buf bytes.Buffer
	if err := renderer.Convert([]byte(Markdown(result)), &buf); err != nil {
		return "", fmt.Errorf("rendering report for %s: %w", result.Ticker, err)
	}
	return buf.String(), nil
}
