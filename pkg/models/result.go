// Package models defines the shared data records exchanged between the
// scraping, valuation and presentation layers.
package models

import "time"

// FinancialRecord maps canonical indicator keys to numeric values. After
// assembly every catalog key is present; 0.0 means "zero or not found" and
// downstream arithmetic treats both identically.
type FinancialRecord map[string]float64

// Get returns the value for key, or 0.0 when absent.
func (r FinancialRecord) Get(key string) float64 {
	return r[key]
}

// FairPriceSet maps valuation model names to rounded fair prices.
// 0.0 means "model not applicable with current inputs".
type FairPriceSet map[string]float64

// Valuation model names used as FairPriceSet keys.
const (
	ModelAssetEarnings    = "asset_earnings"
	ModelDividendDiscount = "dividend_discount"
	ModelPEAdjusted       = "pe_adjusted"
	ModelPVPAdjusted      = "pvp_adjusted"
	ModelAverage          = "average"
)

// Recommendation is the scored qualitative assessment for one ticker.
type Recommendation struct {
	Recommendation string   `json:"recommendation"`
	RiskLevel      string   `json:"risk_level"`
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Summary        string   `json:"summary"`
	Score          int      `json:"score"`
}

// AnalysisResult ties together everything produced for one analysis request.
// It is immutable once returned.
type AnalysisResult struct {
	Ticker            string          `json:"ticker"`
	TickerInput       string          `json:"ticker_input_original"`
	TickerYahoo       string          `json:"ticker_yahoo"`
	CompanyName       string          `json:"nome_empresa"`
	ExtractedAtUTC    time.Time       `json:"data_extracao_utc"`
	FinancialData     FinancialRecord `json:"financial_data"`
	FairPrices        FairPriceSet    `json:"fair_prices"`
	Analysis          *Recommendation `json:"analysis"`
	SourceURL         string          `json:"source_url"`
	MissingIndicators []string        `json:"missing_indicators,omitempty"`
}

// Error categories for failed analysis requests.
const (
	ErrCategoryTimeout    = "timeout"
	ErrCategoryHTTP       = "http_status"
	ErrCategoryNetwork    = "network"
	ErrCategoryValidation = "validation"
)

// AnalysisError is the structured failure result for a single request.
// Success and failure are mutually exclusive: a request yields either an
// AnalysisResult or an AnalysisError, never a partially populated result.
type AnalysisError struct {
	Ticker      string `json:"ticker"`
	TickerInput string `json:"ticker_input_original"`
	Category    string `json:"category"`
	Message     string `json:"error"`
}

func (e *AnalysisError) Error() string {
	return e.Message
}

// PricePoint is one OHLCV sample from a price history provider.
type PricePoint struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// NewsItem is one headline from a news provider.
type NewsItem struct {
	Source   string `json:"source"`
	Datetime int64  `json:"datetime,omitempty"` // unix seconds, 0 when unknown
	Headline string `json:"headline"`
	Summary  string `json:"summary,omitempty"`
	URL      string `json:"url"`
}

// Dividend is one payout record from a dividend history provider.
type Dividend struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Amount float64 `json:"amount"`
}
