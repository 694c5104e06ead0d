package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	apianalysis "github.com/adalbertobrant/fundamentalistapro/pkg/api/analysis"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/config"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/fetch"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/pipeline"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/store"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/valuation"
	"github.com/adalbertobrant/fundamentalistapro/pkg/providers"
)

func main() {
	// Load environment variables
	godotenv.Load()

	cfg := config.Load("config/analyzer.yaml")

	orchestrator := pipeline.New(fetch.NewFundamentusClient(), valuation.NewEngine(cfg.Valuation))
	aggregator := providers.NewAggregator(os.Getenv("FINNHUB_API_KEY"), cfg.News.Count)

	// Analysis history needs a database; everything else works without one.
	var repo store.AnalysisRepository
	ctx := context.Background()
	if os.Getenv("DATABASE_URL") != "" {
		if err := store.InitDB(ctx); err != nil {
			log.Printf("[Main] database unavailable: %v", err)
		} else if err := store.EnsureSchema(ctx); err != nil {
			log.Printf("[Main] schema check failed: %v", err)
		} else {
			repo = store.NewAnalysisRepo()
			defer store.Close()
		}
	} else {
		log.Println("[Main] DATABASE_URL not set; history endpoints disabled")
	}

	apianalysis.InitHandler(orchestrator, aggregator, repo)

	http.HandleFunc("/api/analyze", apianalysis.HandleAnalyze)
	http.HandleFunc("/api/chart", apianalysis.HandleChart)
	http.HandleFunc("/api/news", apianalysis.HandleNews)
	http.HandleFunc("/api/dividends", apianalysis.HandleDividends)
	http.HandleFunc("/api/history", apianalysis.HandleHistory)
	http.HandleFunc("/api/report", apianalysis.HandleReport)

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - POST /api/analyze")
	fmt.Println("  - GET  /api/chart?ticker=PETR4&range=6mo&interval=1d")
	fmt.Println("  - GET  /api/news?ticker=PETR4")
	fmt.Println("  - GET  /api/dividends?ticker=PETR4")
	fmt.Println("  - GET  /api/history?ticker=PETR4&limit=10")
	fmt.Println("  - GET  /api/report?ticker=PETR4&format=html")

	if err := http.ListenAndServe(cfg.Server.Addr, nil); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
