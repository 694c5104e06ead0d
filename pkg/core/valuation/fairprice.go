// Package valuation computes independent fair-value estimates from an
// assembled financial record and combines them into a weighted composite.
// Every function here is pure: each model guards its own preconditions and
// degrades to 0.0 ("not applicable") instead of propagating a fault.
package valuation

import (
	"math"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// Model constants. Named so they can be revisited without touching control
// flow; Config can override the tunable subset.
const (
	grahamMultiplier = 22.5

	basePEMultiple = 8.0
	peScoreStep    = 1.5
	peCeiling      = 25.0

	ddmEpsilon = 1e-6
)

// Config holds the tunable valuation constants.
type Config struct {
	// RequiredReturn is the DDM discount rate (cost of equity).
	RequiredReturn float64 `yaml:"required_return"`
	// DDMPriceCapMultiple clamps the DDM output to this multiple of the
	// current price, keeping the model stable near its r ~= g singularity.
	DDMPriceCapMultiple float64 `yaml:"ddm_price_cap_multiple"`
	// Weights of each model in the composite; renormalized over the
	// positive-valued subset at computation time.
	Weights map[string]float64 `yaml:"weights"`
}

// DefaultConfig returns the standard constants.
func DefaultConfig() Config {
	return Config{
		RequiredReturn:      0.12,
		DDMPriceCapMultiple: 5.0,
		Weights: map[string]float64{
			models.ModelAssetEarnings:    0.3,
			models.ModelDividendDiscount: 0.2,
			models.ModelPEAdjusted:       0.3,
			models.ModelPVPAdjusted:      0.2,
		},
	}
}

// compositeOrder fixes the iteration order of the weighted mean.
var compositeOrder = []string{
	models.ModelAssetEarnings,
	models.ModelDividendDiscount,
	models.ModelPEAdjusted,
	models.ModelPVPAdjusted,
}

// Engine computes fair prices under a fixed configuration.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine; zero-valued config fields fall back to the
// defaults so a partial yaml override stays safe.
func NewEngine(cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.RequiredReturn == 0 {
		cfg.RequiredReturn = def.RequiredReturn
	}
	if cfg.DDMPriceCapMultiple == 0 {
		cfg.DDMPriceCapMultiple = def.DDMPriceCapMultiple
	}
	if len(cfg.Weights) == 0 {
		cfg.Weights = def.Weights
	}
	return &Engine{cfg: cfg}
}

// FairPrices runs all models over the record. All monetary outputs are
// rounded to 2 decimals; 0.0 marks a model as not applicable.
func (e *Engine) FairPrices(rec models.FinancialRecord) models.FairPriceSet {
	eps := rec.Get(models.KeyEPS)
	bvps := rec.Get(models.KeyBVPS)
	price := rec.Get(models.KeyPrice)
	roe := rec.Get(models.KeyROE)
	yield := rec.Get(models.KeyDividendYield)
	currentRatio := rec.Get(models.KeyCurrentRatio)

	set := models.FairPriceSet{
		models.ModelAssetEarnings:    assetEarnings(eps, bvps),
		models.ModelDividendDiscount: e.dividendDiscount(price, yield, roe, eps),
		models.ModelPEAdjusted:       peAdjusted(eps, roe, currentRatio),
		models.ModelPVPAdjusted:      pvpAdjusted(bvps, roe),
	}
	set[models.ModelAverage] = e.weightedAverage(set)
	return set
}

// assetEarnings is the classic geometric-mean valuation sqrt(22.5*eps*bvps).
// Zero or negative inputs make the radicand ill-defined, so the model is
// skipped rather than taking an absolute value.
func assetEarnings(eps, bvps float64) float64 {
	if eps <= 0 || bvps <= 0 {
		return 0.0
	}
	return round2(math.Sqrt(grahamMultiplier * eps * bvps))
}

// dividendDiscount is a single-stage Gordon growth model. The payout-ratio
// bounds, the r > g >= 0 requirement, the epsilon on the denominator and the
// price-multiple clamp all keep the model numerically stable near r ~= g and
// reject economically nonsensical inputs.
func (e *Engine) dividendDiscount(price, yield, roe, eps float64) float64 {
	if price <= 0 || yield <= 0 || roe <= 0 || eps == 0 {
		return 0.0
	}

	dividendPerShare := price * yield
	payout := dividendPerShare / eps
	if payout < 0 || payout > 1 {
		return 0.0
	}

	growth := roe * (1 - payout)
	r := e.cfg.RequiredReturn
	if growth < 0 || r <= growth {
		return 0.0
	}

	denominator := r - growth
	if denominator <= ddmEpsilon {
		return 0.0
	}

	value := dividendPerShare * (1 + growth) / denominator
	value = math.Min(math.Max(value, 0), price*e.cfg.DDMPriceCapMultiple)
	return round2(value)
}

// peAdjusted applies a quality-adjusted P/E ceiling: profitability and
// liquidity raise the multiple, capped at peCeiling.
func peAdjusted(eps, roe, currentRatio float64) float64 {
	score := 0.0
	switch {
	case roe > 0.15:
		score += 3
	case roe > 0.10:
		score += 2
	}
	if currentRatio > 1.5 {
		score += 2
	}
	multiplier := math.Min(basePEMultiple+score*peScoreStep, peCeiling)
	return round2(eps * multiplier)
}

// pvpAdjusted applies a quality-adjusted price-to-book multiple.
func pvpAdjusted(bvps, roe float64) float64 {
	multiplier := 1.0
	switch {
	case roe > 0.20:
		multiplier = 2.5
	case roe > 0.15:
		multiplier = 2.0
	case roe > 0.10:
		multiplier = 1.5
	}
	return round2(bvps * multiplier)
}

// weightedAverage computes the composite over strictly positive models only,
// renormalizing the weights to the included subset. No positive model means
// no composite (0.0).
func (e *Engine) weightedAverage(set models.FairPriceSet) float64 {
	var sum, totalWeight float64
	for _, name := range compositeOrder {
		value := set[name]
		if value <= 0 {
			continue
		}
		weight := e.cfg.Weights[name]
		sum += value * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return 0.0
	}
	return round2(sum / totalWeight)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
