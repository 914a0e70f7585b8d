package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skein-lang/skein/internal/theory"
)

// ErrRunNotFound is returned when a run ID has no record.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns the runs recorded for a document, most recent logical
// position first. Ties on seq break on id with binary collation so the
// order is deterministic. limit <= 0 means no limit.
//
// Returns an empty slice (not nil) if the document has no runs.
func (s *Store) ListRuns(ctx context.Context, document string, limit int) ([]Run, error) {
	query := `
		SELECT id, document, fingerprint, seq, valid, invalid
		FROM runs
		WHERE document = ?
		ORDER BY seq DESC, id COLLATE BINARY DESC
	`
	args := []any{document}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Document, &r.Fingerprint, &r.Seq, &r.Valid, &r.Invalid); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (Run, error) {
	var r Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, document, fingerprint, seq, valid, invalid
		FROM runs WHERE id = ?
	`, id).Scan(&r.ID, &r.Document, &r.Fingerprint, &r.Seq, &r.Valid, &r.Invalid)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

// RunDiagnostics returns the diagnostics recorded with a run, in insertion
// order. The document name on each diagnostic is the run's document.
func (s *Store) RunDiagnostics(ctx context.Context, runID string) ([]theory.Diagnostic, error) {
	run, err := s.GetRun(ctx, runID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT line, message FROM diagnostics
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := []theory.Diagnostic{}
	for rows.Next() {
		d := theory.Diagnostic{Document: run.Document}
		if err := rows.Scan(&d.Line, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

// RunParts returns the part statuses recorded with a run, in document
// order.
func (s *Store) RunParts(ctx context.Context, runID string) ([]PartStatus, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT line, name, status FROM part_statuses
		WHERE run_id = ?
		ORDER BY id ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query part statuses: %w", err)
	}
	defer rows.Close()

	parts := []PartStatus{}
	for rows.Next() {
		var p PartStatus
		if err := rows.Scan(&p.Line, &p.Name, &p.Status); err != nil {
			return nil, fmt.Errorf("scan part status: %w", err)
		}
		parts = append(parts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate part statuses: %w", err)
	}
	return parts, nil
}
