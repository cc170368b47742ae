package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jonathan/content-quality/internal/schemas"
	"github.com/jonathan/content-quality/internal/types"
)

// SaveReport stores a monitor report. The full report is kept as JSON next
// to the columns used for ordering and trend queries.
func (db *DB) SaveReport(ctx context.Context, report *types.MonitorReport) error {
	payload, err := encodeReport(report)
	if err != nil {
		return err
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO quality_reports (id, started_at, finished_at, total, average, payload)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET finished_at = $3, total = $4, average = $5, payload = $6`,
		report.RunID, report.StartedAt, report.FinishedAt, report.Total, report.Average, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to save report %s: %w", report.RunID, err)
	}
	return nil
}

// LatestReport returns the most recently finished report, nil when none exists
func (db *DB) LatestReport(ctx context.Context) (*types.MonitorReport, error) {
	var payload []byte
	err := db.pool.QueryRow(ctx,
		`SELECT payload FROM quality_reports ORDER BY finished_at DESC LIMIT 1`,
	).Scan(&payload)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest report: %w", err)
	}
	return decodeReport(payload)
}

// ListReports returns up to limit reports, newest first
func (db *DB) ListReports(ctx context.Context, limit int) ([]types.MonitorReport, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT payload FROM quality_reports ORDER BY finished_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var reports []types.MonitorReport
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		report, err := decodeReport(payload)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate reports: %w", err)
	}
	return reports, nil
}

// encodeReport marshals report and checks it against the monitor report schema
func encodeReport(report *types.MonitorReport) ([]byte, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := schemas.Validate(schemas.MonitorReport, payload); err != nil {
		return nil, fmt.Errorf("invalid report %s: %w", report.RunID, err)
	}
	return payload, nil
}

func decodeReport(payload []byte) (*types.MonitorReport, error) {
	var report types.MonitorReport
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
