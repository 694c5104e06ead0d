// Package analysis exposes the analyzer over HTTP for the web UI.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adalbertobrant/fundamentalistapro/pkg/core/pipeline"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/report"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/store"
	"github.com/adalbertobrant/fundamentalistapro/pkg/core/ticker"
	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
	"github.com/adalbertobrant/fundamentalistapro/pkg/providers"
)

var (
	orchestrator *pipeline.Orchestrator
	aggregator   *providers.Aggregator
	repo         store.AnalysisRepository
)

// InitHandler wires the handler dependencies. repo may be nil when no
// database is configured; history endpoints then answer 503.
func InitHandler(o *pipeline.Orchestrator, a *providers.Aggregator, r store.AnalysisRepository) {
	orchestrator = o
	aggregator = a
	repo = r
}

// cors writes the CORS headers and answers preflight requests. Returns true
// when the request was fully handled.
func cors(w http.ResponseWriter, r *http.Request) bool {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return true
	}
	return false
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type errorBody struct {
	Error     string `json:"error"`
	Category  string `json:"category,omitempty"`
	RequestID string `json:"request_id"`
}

// statusForCategory maps analysis error categories to HTTP statuses.
func statusForCategory(category string) int {
	switch category {
	case models.ErrCategoryValidation:
		return http.StatusNotFound
	case models.ErrCategoryTimeout:
		return http.StatusGatewayTimeout
	case models.ErrCategoryHTTP, models.ErrCategoryNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeAnalysisError(w http.ResponseWriter, requestID string, err error) {
	var analysisErr *models.AnalysisError
	if errors.As(err, &analysisErr) {
		writeJSON(w, statusForCategory(analysisErr.Category), errorBody{
			Error:     analysisErr.Message,
			Category:  analysisErr.Category,
			RequestID: requestID,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), RequestID: requestID})
}

type analyzeRequest struct {
	Ticker string `json:"ticker"`
}

// HandleAnalyze runs the full pipeline for one ticker.
// POST /api/analyze {"ticker": "PETR4"}
func HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.NewString()
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "invalid request body", RequestID: requestID})
		return
	}
	if strings.TrimSpace(req.Ticker) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "ticker is required", RequestID: requestID})
		return
	}

	log.Printf("[API] %s analyze %q", requestID, req.Ticker)
	result, err := orchestrator.Analyze(r.Context(), req.Ticker)
	if err != nil {
		writeAnalysisError(w, requestID, err)
		return
	}

	if repo != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repo.Save(saveCtx, result); err != nil {
			log.Printf("[API] %s save failed for %s: %v", requestID, result.Ticker, err)
		}
	}

	writeJSON(w, http.StatusOK, result)
}

func requireTicker(w http.ResponseWriter, r *http.Request, requestID string) (ticker.Variants, bool) {
	symbol := strings.TrimSpace(r.URL.Query().Get("ticker"))
	if symbol == "" {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "ticker query parameter is required", RequestID: requestID})
		return ticker.Variants{}, false
	}
	return ticker.Prepare(symbol), true
}

// HandleChart serves price history.
// GET /api/chart?ticker=PETR4&range=6mo&interval=1d
func HandleChart(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	requestID := uuid.NewString()
	variants, ok := requireTicker(w, r, requestID)
	if !ok {
		return
	}

	rng := r.URL.Query().Get("range")
	if rng == "" {
		rng = "3y"
	}
	interval := r.URL.Query().Get("interval")
	if interval == "" {
		interval = "1d"
	}

	points, err := aggregator.History(r.Context(), variants, rng, interval)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), RequestID: requestID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticker": variants.Base, "points": points})
}

// HandleNews serves aggregated headlines.
// GET /api/news?ticker=PETR4
func HandleNews(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	requestID := uuid.NewString()
	variants, ok := requireTicker(w, r, requestID)
	if !ok {
		return
	}

	items, err := aggregator.News(r.Context(), variants)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), RequestID: requestID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticker": variants.Base, "news": items})
}

// HandleDividends serves the payout history.
// GET /api/dividends?ticker=PETR4
func HandleDividends(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	requestID := uuid.NewString()
	variants, ok := requireTicker(w, r, requestID)
	if !ok {
		return
	}

	dividends, err := aggregator.Dividends(r.Context(), variants)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, errorBody{Error: err.Error(), RequestID: requestID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticker": variants.Base, "dividends": dividends})
}

// HandleHistory serves stored past analyses, newest first.
// GET /api/history?ticker=PETR4&limit=10
func HandleHistory(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	requestID := uuid.NewString()
	if repo == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "analysis storage not configured", RequestID: requestID})
		return
	}
	variants, ok := requireTicker(w, r, requestID)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := repo.History(r.Context(), variants.Fundamentus, limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), RequestID: requestID})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ticker": variants.Base, "history": results})
}

// HandleReport runs an analysis and renders it as Markdown or HTML.
// GET /api/report?ticker=PETR4&format=html
func HandleReport(w http.ResponseWriter, r *http.Request) {
	if cors(w, r) {
		return
	}
	requestID := uuid.NewString()
	variants, ok := requireTicker(w, r, requestID)
	if !ok {
		return
	}

	result, err := orchestrator.Analyze(r.Context(), variants.Original)
	if err != nil {
		writeAnalysisError(w, requestID, err)
		return
	}

	if r.URL.Query().Get("format") == "html" {
		html, err := report.HTML(result)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorBody{Error: err.Error(), RequestID: requestID})
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(html))
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(report.Markdown(result)))
}
