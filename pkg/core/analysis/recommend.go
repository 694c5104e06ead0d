// Package analysis maps a valuation composite and a fixed set of quality
// indicators to a scored, explainable recommendation. This is a deterministic
// rule table, not a statistical model: thresholds and increments are design
// constants and reproducibility depends on their exact values.
package analysis

import (
	"fmt"
	"strings"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// Recommendation labels.
const (
	RecStrongBuy     = "COMPRAR FORTE"
	RecBuy           = "COMPRAR"
	RecWeakBuy       = "COMPRAR FRACO"
	RecNeutral       = "NEUTRO"
	RecWeakSell      = "VENDER FRACO"
	RecSell          = "VENDER"
	RecStrongSell    = "VENDER FORTE"
	RecAbnormalPrice = "ANALISAR (Cotação Anormal)"
	RecCaution       = "CAUTELA"
)

// Margin tiers (strict comparisons) and their score increments.
const (
	marginStrongBuy  = 0.30
	marginBuy        = 0.15
	marginWeakBuy    = 0.05
	marginWeakSell   = -0.15
	marginSell       = -0.30
	marginStrongSell = -0.50
)

// Quality-indicator thresholds.
const (
	roeExcellent  = 0.20
	roeGood       = 0.10
	roicExcellent = 0.15
	roicGood      = 0.10
	peLowCeiling  = 10.0
	debtLow       = 0.5
	debtHigh      = 1.0
	liquidityHigh = 2.0
	liquidityLow  = 1.0
	growthGood    = 0.10
)

// Score bounds.
const (
	scoreMin = -10
	scoreMax = 10
)

// Score derives the recommendation from the record and the fair-price
// composite. Pure function of its inputs; the 0.0 sentinel is deliberately
// not distinguished from a genuine zero, matching the extraction policy.
func Score(rec models.FinancialRecord, fairPrices models.FairPriceSet, tickerLabel, companyName string) *models.Recommendation {
	out := &models.Recommendation{
		Recommendation: RecNeutral,
		RiskLevel:      "MÉDIO",
		Strengths:      []string{},
		Weaknesses:     []string{},
	}

	price := rec.Get(models.KeyPrice)
	fairValue := fairPrices[models.ModelAverage]
	score := 0

	switch {
	case fairValue > 0 && price > 0:
		margin := (fairValue - price) / price
		out.Recommendation, score = marginTier(margin)
		out.Strengths = append(out.Strengths,
			fmt.Sprintf("Potencial de valorização (vs Cotação Atual): %.2f%%", margin*100))
	case price <= 0 && fairValue > 0:
		out.Recommendation = RecAbnormalPrice
	case fairValue <= 0 && price > 0:
		out.Recommendation = RecCaution
		out.Weaknesses = append(out.Weaknesses, "Média dos preços justos (positivos) não é conclusiva ou é zero.")
	}

	score += scoreQuality(rec, out)

	out.Score = clampScore(score)
	if companyName == "" {
		companyName = strings.ToUpper(tickerLabel)
	}
	out.Summary = fmt.Sprintf("%s (%s): %s (Score %d)", strings.ToUpper(tickerLabel), companyName, out.Recommendation, out.Score)
	return out
}

// marginTier maps the upside margin to a recommendation and its score
// increment. Boundaries are strict: a margin of exactly 0.30 falls to the
// next lower tier.
func marginTier(margin float64) (string, int) {
	switch {
	case margin > marginStrongBuy:
		return RecStrongBuy, 3
	case margin > marginBuy:
		return RecBuy, 2
	case margin > marginWeakBuy:
		return RecWeakBuy, 1
	case margin < marginStrongSell:
		return RecStrongSell, -3
	case margin < marginSell:
		return RecSell, -2
	case margin < marginWeakSell:
		return RecWeakSell, -1
	default:
		return RecNeutral, 0
	}
}

// scoreQuality applies the six fixed indicator rules, appending the
// strength/weakness notes and returning the total increment.
func scoreQuality(rec models.FinancialRecord, out *models.Recommendation) int {
	score := 0

	roe := rec.Get(models.KeyROE)
	switch {
	case roe > roeExcellent:
		out.Strengths = append(out.Strengths, fmt.Sprintf("ROE Excelente: %.2f%%", roe*100))
		score += 2
	case roe > roeGood:
		out.Strengths = append(out.Strengths, fmt.Sprintf("ROE Bom: %.2f%%", roe*100))
		score++
	case roe < 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("ROE Negativo: %.2f%%", roe*100))
		score -= 2
	}

	roic := rec.Get(models.KeyROIC)
	switch {
	case roic > roicExcellent:
		out.Strengths = append(out.Strengths, fmt.Sprintf("ROIC Excelente: %.2f%%", roic*100))
		score += 2
	case roic > roicGood:
		out.Strengths = append(out.Strengths, fmt.Sprintf("ROIC Bom: %.2f%%", roic*100))
		score++
	case roic < 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("ROIC Negativo: %.2f%%", roic*100))
		score -= 2
	}

	pe := rec.Get(models.KeyPE)
	switch {
	case pe > 0 && pe < peLowCeiling:
		out.Strengths = append(out.Strengths, fmt.Sprintf("P/L (Preço/Lucro) Baixo: %.2f", pe))
		score++
	case pe < 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("P/L Negativo (Prejuízo): %.2f", pe))
		score -= 2
	}

	debt := rec.Get(models.KeyDebtToEquity)
	switch {
	case debt >= 0 && debt < debtLow:
		out.Strengths = append(out.Strengths, fmt.Sprintf("Endividamento (Dív. Bruta/PL) Baixo: %.2f", debt))
		score++
	case debt > debtHigh:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("Endividamento (Dív. Bruta/PL) Alto: %.2f", debt))
		score--
	case debt < 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("Dív. Bruta/PL Negativo (PL Negativo?): %.2f", debt))
		score -= 2
	}

	liquidity := rec.Get(models.KeyCurrentRatio)
	switch {
	case liquidity > liquidityHigh:
		out.Strengths = append(out.Strengths, fmt.Sprintf("Liquidez Corrente Ótima: %.2f", liquidity))
		score++
	case liquidity < liquidityLow && liquidity >= 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("Liquidez Corrente Baixa: %.2f", liquidity))
		score--
	}

	growth := rec.Get(models.KeyRevenueGrowth5Y)
	switch {
	case growth > growthGood:
		out.Strengths = append(out.Strengths, fmt.Sprintf("Crescimento da Receita (5a) Bom: %.2f%%", growth*100))
		score++
	case growth < 0:
		out.Weaknesses = append(out.Weaknesses, fmt.Sprintf("Crescimento da Receita (5a) Negativo: %.2f%%", growth*100))
		score--
	}

	return score
}

func clampScore(s int) int {
	if s > scoreMax {
		return scoreMax
	}
	if s < scoreMin {
		return scoreMin
	}
	return s
}
