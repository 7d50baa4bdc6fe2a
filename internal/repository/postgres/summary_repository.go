package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/storeops/toast-exports/internal/domain"
)

// SummaryRepository persists the daily summary documents as jsonb rows keyed
// by their deterministic ids.
type SummaryRepository struct {
	db *DB
}

func NewSummaryRepository(db *DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

const upsertSummaryQuery = `
	INSERT INTO %s (id, location, business_day, doc)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET
		doc = EXCLUDED.doc,
		updated_at = NOW()
`

func (r *SummaryRepository) UpsertSalesSummary(ctx context.Context, s *domain.SalesSummary) error {
	return r.upsert(ctx, "sales_summaries", s.ID, s.Location, s.BusinessDay, s)
}

func (r *SummaryRepository) UpsertLaborSummary(ctx context.Context, s *domain.LaborSummary) error {
	return r.upsert(ctx, "labor_summaries", s.ID, s.Location, s.BusinessDay, s)
}

func (r *SummaryRepository) upsert(ctx context.Context, table, id, location, businessDay string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal summary %s: %w", id, err)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := fmt.Sprintf(upsertSummaryQuery, table)
		if _, err := tx.ExecContext(ctx, query, id, location, businessDay, payload); err != nil {
			return fmt.Errorf("failed to upsert into %s: %w", table, err)
		}
		return nil
	})
}

// GetSalesSummary loads one sales summary document by id. A missing id
// returns (nil, nil).
func (r *SummaryRepository) GetSalesSummary(ctx context.Context, id string) (*domain.SalesSummary, error) {
	var s domain.SalesSummary
	if ok, err := r.getDoc(ctx, "sales_summaries", id, &s); err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

// GetLaborSummary loads one labor summary document by id. A missing id
// returns (nil, nil).
func (r *SummaryRepository) GetLaborSummary(ctx context.Context, id string) (*domain.LaborSummary, error) {
	var s domain.LaborSummary
	if ok, err := r.getDoc(ctx, "labor_summaries", id, &s); err != nil || !ok {
		return nil, err
	}
	return &s, nil
}

func (r *SummaryRepository) getDoc(ctx context.Context, table, id string, out any) (bool, error) {
	var payload []byte
	query := fmt.Sprintf(`SELECT doc FROM %s WHERE id = $1`, table)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load from %s: %w", table, err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal summary %s: %w", id, err)
	}
	return true, nil
}

// RunLog is one recorded processing attempt for a store and business day.
type RunLog struct {
	ID          int64  `db:"id" json:"id"`
	Location    string `db:"location" json:"location"`
	BusinessDay string `db:"business_day" json:"businessDay"`
	Kind        string `db:"kind" json:"kind"`
	Status      string `db:"status" json:"status"`
	Detail      string `db:"detail" json:"detail"`
}

// RecordRun appends a run log row. Failures here are logged by callers but
// never fail a run.
func (r *SummaryRepository) RecordRun(ctx context.Context, location, businessDay, kind, status, detail string) error {
	query := `
		INSERT INTO run_logs (location, business_day, kind, status, detail)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.db.ExecContext(ctx, query, location, businessDay, kind, status, detail); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// RecentRuns returns the latest run log rows for a location, newest first.
func (r *SummaryRepository) RecentRuns(ctx context.Context, location string, limit int) ([]RunLog, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, location, business_day::text AS business_day, kind, status, detail
		FROM run_logs
		WHERE location = $1
		ORDER BY id DESC
		LIMIT $2
	`
	runs := []RunLog{}
	if err := r.db.SelectContext(ctx, &runs, query, location, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
