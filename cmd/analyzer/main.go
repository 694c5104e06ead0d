package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/config"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/fetch"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/pipeline"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/report"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/valuation"
	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

func main() {
	godotenv.Load()

	jsonOut := flag.Bool("json", false, "print the full result as JSON")
	reportOut := flag.Bool("report", false, "print the Markdown report")
	configPath := flag.String("config", "config/analyzer.yaml", "path to the yaml config")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyzer [-json|-report] TICKER [TICKER...]")
		os.Exit(2)
	}

	cfg := config.Load(*configPath)
	orchestrator := pipeline.New(fetch.NewFundamentusClient(), valuation.NewEngine(cfg.Valuation))

	exitCode := 0
	for _, symbol := range flag.Args() {
		result, err := orchestrator.Analyze(context.Background(), symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
			exitCode = 1
			continue
		}

		switch {
		case *jsonOut:
			encoded, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
				exitCode = 1
				continue
			}
			fmt.Println(string(encoded))
		case *reportOut:
			fmt.Print(report.Markdown(result))
		default:
			printSummary(result)
		}
	}
	os.Exit(exitCode)
}

func printSummary(result *models.AnalysisResult) {
	fmt.Println(result.Analysis.Summary)
	fmt.Printf("  Cotação: R$ %.2f | Preço justo (média): R$ %.2f\n",
		result.FinancialData.Get(models.KeyPrice), result.FairPrices[models.ModelAverage])
	for _, s := range result.Analysis.Strengths {
		fmt.Printf("  + %s\n", s)
	}
	for _, w := range result.Analysis.Weaknesses {
		fmt.Printf("  - %s\n", w)
	}
}
