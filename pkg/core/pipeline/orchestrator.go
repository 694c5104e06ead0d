// Package pipeline wires the scraping, valuation and scoring stages into the
// end-to-end flow behind a single analysis request.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/analysis"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/fetch"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/scrape"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/ticker"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/valuation"
	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// DocumentFetcher retrieves the raw detail page for a Fundamentus symbol.
// Implementations may fetch from the live site or serve canned pages in tests.
type DocumentFetcher interface {
	FetchDetailPage(ctx context.Context, symbol string) (string, error)
	DetailURL(symbol string) string
}

// Orchestrator runs the fetch -> validate -> assemble -> value -> score flow.
type Orchestrator struct {
	fetcher DocumentFetcher
	engine  *valuation.Engine
}

// New creates an orchestrator. A nil engine falls back to the default
// valuation configuration.
func New(fetcher DocumentFetcher, engine *valuation.Engine) *Orchestrator {
	if engine == nil {
		engine = valuation.NewEngine(valuation.DefaultConfig())
	}
	return &Orchestrator{fetcher: fetcher, engine: engine}
}

// Analyze runs the full flow for one user-supplied ticker. A failure yields a
// *models.AnalysisError carrying the category; success and failure are
// mutually exclusive.
func (o *Orchestrator) Analyze(ctx context.Context, tickerInput string) (*models.AnalysisResult, error) {
	start := time.Now()
	variants := ticker.Prepare(tickerInput)
	symbol := variants.Fundamentus
	log.Printf("[Pipeline] analyzing %s (input %q)", symbol, tickerInput)

	html, err := o.fetcher.FetchDetailPage(ctx, symbol)
	if err != nil {
		return nil, o.fail(symbol, tickerInput, fetch.Classify(err),
			fmt.Sprintf("falha ao buscar dados no Fundamentus: %v", err))
	}

	doc, err := scrape.NewDocument(html)
	if err != nil {
		return nil, o.fail(symbol, tickerInput, models.ErrCategoryValidation,
			fmt.Sprintf("falha ao interpretar a página: %v", err))
	}
	if !doc.IsDetailPage() {
		return nil, o.fail(symbol, tickerInput, models.ErrCategoryValidation,
			fmt.Sprintf("página de detalhes não encontrada para %s (papel inexistente?)", symbol))
	}

	assembled := scrape.Assemble(doc, symbol)
	fairPrices := o.engine.FairPrices(assembled.Record)
	recommendation := analysis.Score(assembled.Record, fairPrices, symbol, assembled.CompanyName)

	result := &models.AnalysisResult{
		Ticker:            symbol,
		TickerInput:       variants.Original,
		TickerYahoo:       variants.Yahoo,
		CompanyName:       assembled.CompanyName,
		ExtractedAtUTC:    time.Now().UTC(),
		FinancialData:     assembled.Record,
		FairPrices:        fairPrices,
		Analysis:          recommendation,
		SourceURL:         o.fetcher.DetailURL(symbol),
		MissingIndicators: assembled.Missing,
	}

	log.Printf("[Pipeline] %s completed in %v: %s", symbol, time.Since(start), recommendation.Summary)
	return result, nil
}

func (o *Orchestrator) fail(symbol, input, category, message string) *models.AnalysisError {
	log.Printf("[Pipeline] %s failed (%s): %s", symbol, category, message)
	return &models.AnalysisError{
		Ticker:      symbol,
		TickerInput: input,
		Category:    category,
		Message:     message,
	}
}
