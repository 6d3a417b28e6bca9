package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"github.com/orasis/portgen/internal/models"
)

// Repository uploads finished runs to Postgres so reports can be queried and
// compared across dates. The upload is best effort: a failed upload never
// fails the run that produced the files on disk.
type Repository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewRepository opens and verifies a Postgres connection.
func NewRepository(ctx context.Context, databaseURL string, logger *slog.Logger) (*Repository, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Repository{db: db, logger: logger}, nil
}

// Close releases the connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// EnsureSchema creates the report tables when they do not exist.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS portfolio_reports (
			id UUID PRIMARY KEY,
			report_date TEXT NOT NULL,
			status TEXT NOT NULL,
			markdown TEXT NOT NULL,
			data JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS portfolio_positions (
			id BIGSERIAL PRIMARY KEY,
			report_id UUID NOT NULL REFERENCES portfolio_reports(id) ON DELETE CASCADE,
			asset_name TEXT NOT NULL,
			category TEXT NOT NULL,
			region TEXT NOT NULL,
			weight INTEGER NOT NULL,
			horizon TEXT NOT NULL,
			recommendation TEXT NOT NULL,
			rationale TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_portfolio_positions_report
			ON portfolio_positions(report_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensuring schema: %w", err)
		}
	}
	return nil
}

// SaveReport stores the rendered markdown and structured data under a fresh
// run id, inserts one row per position, and returns the run id.
func (r *Repository) SaveReport(ctx context.Context, markdown string, data models.PortfolioReport) (uuid.UUID, error) {
	runID := uuid.New()

	encoded, err := json.Marshal(data)
	if err != nil {
		return uuid.Nil, fmt.Errorf("encoding report data: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO portfolio_reports (id, report_date, status, markdown, data)
		 VALUES ($1, $2, $3, $4, $5)`,
		runID, data.ReportDate, data.Status, markdown, encoded)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting report: %w", err)
	}

	for _, a := range data.Assets {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO portfolio_positions
			 (report_id, asset_name, category, region, weight, horizon, recommendation, rationale)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			runID, a.AssetName, a.Category, a.Region, a.Weight, a.Horizon, a.Recommendation, a.Rationale)
		if err != nil {
			return uuid.Nil, fmt.Errorf("inserting position %s: %w", a.AssetName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("committing report: %w", err)
	}

	r.logger.Info("report uploaded", "run_id", runID, "positions", len(data.Assets))
	return runID, nil
}

// LatestReport returns the structured data of the most recent run, if any.
func (r *Repository) LatestReport(ctx context.Context) (models.PortfolioReport, error) {
	var encoded []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT data FROM portfolio_reports ORDER BY created_at DESC LIMIT 1`).Scan(&encoded)
	if err != nil {
		return models.PortfolioReport{}, fmt.Errorf("querying latest report: %w", err)
	}

	var data models.PortfolioReport
	if err := json.Unmarshal(encoded, &data); err != nil {
		return models.PortfolioReport{}, fmt.Errorf("decoding latest report: %w", err)
	}
	return data, nil
}
