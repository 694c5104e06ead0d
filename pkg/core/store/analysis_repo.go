package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/adalbertobrant/fundamentalistapro/pkg/models"
)

// ErrNotFound is returned when no analysis exists for a ticker.
var ErrNotFound = errors.New("no analysis found")

// AnalysisRepository persists completed analyses and serves their history.
type AnalysisRepository interface {
	Save(ctx context.Context, result *models.AnalysisResult) error
	Latest(ctx context.Context, ticker string) (*models.AnalysisResult, error)
	History(ctx context.Context, ticker string, limit int) ([]*models.AnalysisResult, error)
}

// AnalysisRepo stores results as JSONB rows, one per run, so past
// recommendations stay auditable.
type AnalysisRepo struct{}

// NewAnalysisRepo creates a repository instance backed by the shared pool.
func NewAnalysisRepo() *AnalysisRepo {
	return &AnalysisRepo{}
}

// Save appends one analysis run to the history.
func (r *AnalysisRepo) Save(ctx context.Context, result *models.AnalysisResult) error {
	pool := GetPool()
	if pool == nil {
		return fmt.Errorf("database pool not initialized")
	}

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis for %s: %w", result.Ticker, err)
	}

	query := `
		INSERT INTO stock_analysis (id, ticker, result_json, created_at)
		VALUES ($1, $2, $3, $4);
	`
	_, err = pool.Exec(ctx, query, uuid.NewString(), result.Ticker, jsonData, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to save analysis for %s: %w", result.Ticker, err)
	}
	return nil
}

// Latest returns the most recent analysis for a ticker, or ErrNotFound.
func (r *AnalysisRepo) Latest(ctx context.Context, ticker string) (*models.AnalysisResult, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}

	query := `
		SELECT result_json FROM stock_analysis
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT 1;
	`
	var jsonData []byte
	err := pool.QueryRow(ctx, query, ticker).Scan(&jsonData)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w for ticker %s", ErrNotFound, ticker)
		}
		return nil, fmt.Errorf("failed to load analysis for %s: %w", ticker, err)
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis for %s: %w", ticker, err)
	}
	return &result, nil
}

// History returns up to limit analyses for a ticker, newest first.
func (r *AnalysisRepo) History(ctx context.Context, ticker string, limit int) ([]*models.AnalysisResult, error) {
	pool := GetPool()
	if pool == nil {
		return nil, fmt.Errorf("database pool not initialized")
	}
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT result_json FROM stock_analysis
		WHERE ticker = $1
		ORDER BY created_at DESC
		LIMIT $2;
	`
	rows, err := pool.Query(ctx, query, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for %s: %w", ticker, err)
	}
	defer rows.Close()

	var results []*models.AnalysisResult
	for rows.Next() {
		var jsonData []byte
		if err := rows.Scan(&jsonData); err != nil {
			return nil, fmt.Errorf("failed to scan history row for %s: %w", ticker, err)
		}
		var result models.AnalysisResult
		if err := json.Unmarshal(jsonData, &result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history row for %s: %w", ticker, err)
		}
		results = append(results, &result)
	}
	return results, rows.Err()
}
