package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// Save replaces a run and all of its page and rule records.
func (s *runStore) Save(ctx context.Context, run *domain.RunRecord) error {
	if run == nil || run.ID == "" {
		return fmt.Errorf("%w: run without id", domain.ErrInvalidInput)
	}
	if !run.Kind.IsValid() {
		return fmt.Errorf("%w: run kind %q", domain.ErrInvalidInput, run.Kind)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, kind, left_path, right_path, started_at, finished_at, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			kind = excluded.kind,
			left_path = excluded.left_path,
			right_path = excluded.right_path,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			summary = excluded.summary
	`, run.ID, run.Kind, run.Left, run.Right, run.StartedAt.UTC(), nullTime(run.FinishedAt), run.Summary)
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	for _, table := range []string{"page_results", "rule_results"} {
		//nolint:gosec // table names are constants
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE run_id = ?", run.ID); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for _, p := range run.Pages {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO page_results
				(run_id, page_number, regions, text_ratio, text_note, ssim, color, feature, good_matches, failure)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, p.PageNumber, p.Regions, p.TextRatio, p.TextNote,
			nullFloat(p.SSIM, p.SSIMValid), nullFloat(p.Color, p.ColorValid), nullFloat(p.Feature, p.FeatureOK),
			p.GoodMatches, p.Failure)
		if err != nil {
			return fmt.Errorf("saving page %d: %w", p.PageNumber, err)
		}
	}

	for _, r := range run.Rules {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO rule_results (run_id, row_index, reference, found, phase, matched_text, page_index)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, run.ID, r.RowIndex, r.Reference, r.Found, string(r.Phase), r.MatchedText, r.PageIndex)
		if err != nil {
			return fmt.Errorf("saving rule row %d: %w", r.RowIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing run: %w", err)
	}
	return nil
}

// Get retrieves a run with its page and rule records.
func (s *runStore) Get(ctx context.Context, id string) (*domain.RunRecord, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, kind, left_path, right_path, started_at, finished_at, summary
		FROM runs WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if err != nil {
		return nil, err
	}

	if run.Pages, err = s.pages(ctx, id); err != nil {
		return nil, err
	}
	if run.Rules, err = s.rules(ctx, id); err != nil {
		return nil, err
	}
	return run, nil
}

// List returns run headers newest first, without page or rule records.
func (s *runStore) List(ctx context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error) {
	query := `SELECT id, kind, left_path, right_path, started_at, finished_at, summary FROM runs`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(kind))
	}
	query += ` ORDER BY started_at DESC, id`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// Delete removes a run. Page and rule records cascade.
func (s *runStore) Delete(ctx context.Context, id string) error {
	res, err := s.store.db.ExecContext(ctx, "DELETE FROM runs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *runStore) pages(ctx context.Context, id string) ([]domain.PageRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT page_number, regions, text_ratio, text_note, ssim, color, feature, good_matches, failure
		FROM page_results WHERE run_id = ? ORDER BY page_number
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.PageRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var p domain.PageRecord
		var ssim, color, feature sql.NullFloat64
		if err := rows.Scan(&p.PageNumber, &p.Regions, &p.TextRatio, &p.TextNote,
			&ssim, &color, &feature, &p.GoodMatches, &p.Failure); err != nil {
			return nil, fmt.Errorf("scanning page: %w", err)
		}
		p.SSIM, p.SSIMValid = ssim.Float64, ssim.Valid
		p.Color, p.ColorValid = color.Float64, color.Valid
		p.Feature, p.FeatureOK = feature.Float64, feature.Valid
		pages = append(pages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}
	return pages, nil
}

func (s *runStore) rules(ctx context.Context, id string) ([]domain.RuleRecord, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT row_index, reference, found, phase, matched_text, page_index
		FROM rule_results WHERE run_id = ? ORDER BY row_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying rules: %w", err)
	}
	defer rows.Close()

	var rules []domain.RuleRecord //nolint:prealloc // size unknown from query
	for rows.Next() {
		var r domain.RuleRecord
		var phase string
		if err := rows.Scan(&r.RowIndex, &r.Reference, &r.Found, &phase, &r.MatchedText, &r.PageIndex); err != nil {
			return nil, fmt.Errorf("scanning rule: %w", err)
		}
		r.Phase = domain.SearchPhase(phase)
		rules = append(rules, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rules: %w", err)
	}
	return rules, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.RunRecord, error) {
	var run domain.RunRecord
	var kind string
	var finishedAt sql.NullTime
	if err := row.Scan(&run.ID, &kind, &run.Left, &run.Right, &run.StartedAt, &finishedAt, &run.Summary); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning run: %w", err)
	}
	run.Kind = domain.RunKind(kind)
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullFloat(v float64, valid bool) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: valid}
}
