package store

import (
	"context"
	"fmt"

	"github.com/skein-lang/skein/internal/theory"
)

// Run is one recorded checking pass over a document.
type Run struct {
	// ID is a caller-supplied unique identifier, typically a UUID.
	ID string
	// Document is the document name the pass checked.
	Document string
	// Fingerprint identifies the checked content, so history can tell
	// re-checks of identical documents from checks of edited ones.
	Fingerprint string
	// Seq is a logical clock; listings order by it, never by wall time.
	Seq     int64
	Valid   int
	Invalid int
}

// PartStatus is the per-part outcome recorded alongside a run.
type PartStatus struct {
	Line   int
	Name   string
	Status string
}

// WriteRun inserts a run with its diagnostics and part statuses in one
// transaction. Uses ON CONFLICT(id) DO NOTHING for idempotency - a run ID
// written twice leaves the first record in place and writes no children.
func (s *Store) WriteRun(ctx context.Context, run Run, diags []theory.Diagnostic, parts []PartStatus) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, document, fingerprint, seq, valid, invalid)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, run.ID, run.Document, run.Fingerprint, run.Seq, run.Valid, run.Invalid)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("write run: rows affected: %w", err)
	}
	if inserted == 0 {
		// Duplicate run ID; keep the original record and its children.
		return tx.Commit()
	}

	for _, d := range diags {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, line, message)
			VALUES (?, ?, ?)
		`, run.ID, d.Line, d.Message)
		if err != nil {
			return fmt.Errorf("write run diagnostic: %w", err)
		}
	}

	for _, p := range parts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO part_statuses (run_id, line, name, status)
			VALUES (?, ?, ?, ?)
		`, run.ID, p.Line, p.Name, p.Status)
		if err != nil {
			return fmt.Errorf("write run part status: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}

// NextSeq returns the next unused logical clock value for a document.
func (s *Store) NextSeq(ctx context.Context, document string) (int64, error) {
	var seq int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(seq), -1) + 1 FROM runs WHERE document = ?
	`, document).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next seq: %w", err)
	}
	return seq, nil
}
