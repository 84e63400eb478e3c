package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/notemap/internal/ir"
)

// ErrAmbiguous is returned when a run prefix matches more than one run.
var ErrAmbiguous = errors.New("ambiguous run prefix")

// RunSummary is one line of the run history.
type RunSummary struct {
	Seq         int64  `json:"seq" yaml:"seq"`
	ID          string `json:"id" yaml:"id"`
	PageHash    string `json:"page_hash" yaml:"page_hash"`
	PageName    string `json:"page" yaml:"page"`
	KeyCase     string `json:"key_case,omitempty" yaml:"key_case,omitempty"`
	Failed      bool   `json:"failed" yaml:"failed"`
	Chords      int    `json:"chords" yaml:"chords"`
	Diagnostics int    `json:"diagnostics" yaml:"diagnostics"`
}

// Filter narrows ListRuns. Zero fields match everything.
type Filter struct {
	// Page matches the page name or its full hash.
	Page string

	// Code keeps runs with at least one diagnostic of this code.
	Code ir.Code

	// Limit caps the number of runs returned, newest first.
	Limit int
}

// PageSummary identifies a stored page.
type PageSummary struct {
	Hash string `json:"hash" yaml:"hash"`
	Name string `json:"name" yaml:"name"`
	Runs int    `json:"runs" yaml:"runs"`
}

const runColumns = `seq, id, page_hash, page_name, config, engine_version, report`

// ReadRun returns the run with the given ID, or the single run whose ID
// starts with it.
//
// Returns ErrNotFound if nothing matches and ErrAmbiguous if the prefix
// matches several runs.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE id = ? OR substr(id, 1, length(?)) = ?
		ORDER BY (id = ?) DESC, seq ASC, id COLLATE BINARY ASC
		LIMIT 2
	`, id, id, id, id)
	if err != nil {
		return Run{}, fmt.Errorf("read run: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("read run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("read run: iterate: %w", err)
	}

	switch {
	case len(runs) == 0:
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	case runs[0].ID == id || len(runs) == 1:
		return runs[0], nil
	default:
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrAmbiguous)
	}
}

// LatestRun returns the most recent run over the page with the given hash.
func (s *Store) LatestRun(ctx context.Context, pageHash string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		WHERE page_hash = ?
		ORDER BY seq DESC
		LIMIT 1
	`, pageHash)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run for %s: %w", pageHash, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run for %s: %w", pageHash, err)
	}
	return run, nil
}

// ListRuns returns run summaries, newest first.
//
// Returns an empty slice (not nil) if no runs match.
func (s *Store) ListRuns(ctx context.Context, f Filter) ([]RunSummary, error) {
	query := `
		SELECT r.seq, r.id, r.page_hash, r.page_name, r.key_case, r.failed, r.chords,
			(SELECT COUNT(*) FROM diagnostics d WHERE d.run_id = r.id)
		FROM runs r
		WHERE (? = '' OR r.page_name = ? OR r.page_hash = ?)
		AND (? = '' OR EXISTS (SELECT 1 FROM diagnostics d WHERE d.run_id = r.id AND d.code = ?))
		ORDER BY r.seq DESC, r.id COLLATE BINARY ASC`
	args := []any{f.Page, f.Page, f.Page, string(f.Code), string(f.Code)}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	summaries := []RunSummary{}
	for rows.Next() {
		var rs RunSummary
		if err := rows.Scan(&rs.Seq, &rs.ID, &rs.PageHash, &rs.PageName, &rs.KeyCase, &rs.Failed, &rs.Chords, &rs.Diagnostics); err != nil {
			return nil, fmt.Errorf("list runs: scan: %w", err)
		}
		summaries = append(summaries, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: iterate: %w", err)
	}
	return summaries, nil
}

// ReadPage returns the page stored under hash.
func (s *Store) ReadPage(ctx context.Context, hash string) (ir.Page, error) {
	var name, doc string
	err := s.db.QueryRowContext(ctx, `
		SELECT name, document FROM pages WHERE hash = ?
	`, hash).Scan(&name, &doc)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Page{}, fmt.Errorf("read page %s: %w", hash, ErrNotFound)
	}
	if err != nil {
		return ir.Page{}, fmt.Errorf("read page %s: %w", hash, err)
	}
	return unmarshalPage(doc, name)
}

// ListPages returns every stored page ordered by name, then hash.
func (s *Store) ListPages(ctx context.Context) ([]PageSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.hash, p.name, (SELECT COUNT(*) FROM runs r WHERE r.page_hash = p.hash)
		FROM pages p
		ORDER BY p.name COLLATE BINARY ASC, p.hash COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	pages := []PageSummary{}
	for rows.Next() {
		var ps PageSummary
		if err := rows.Scan(&ps.Hash, &ps.Name, &ps.Runs); err != nil {
			return nil, fmt.Errorf("list pages: scan: %w", err)
		}
		pages = append(pages, ps)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pages: iterate: %w", err)
	}
	return pages, nil
}

// DiagnosticCounts returns how often each diagnostic code was recorded
// across all runs.
func (s *Store) DiagnosticCounts(ctx context.Context) (map[ir.Code]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, COUNT(*) FROM diagnostics GROUP BY code ORDER BY code
	`)
	if err != nil {
		return nil, fmt.Errorf("diagnostic counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[ir.Code]int)
	for rows.Next() {
		var code string
		var n int
		if err := rows.Scan(&code, &n); err != nil {
			return nil, fmt.Errorf("diagnostic counts: scan: %w", err)
		}
		counts[ir.Code(code)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("diagnostic counts: iterate: %w", err)
	}
	return counts, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var cfgJSON, reportJSON string
	if err := row.Scan(&run.Seq, &run.ID, &run.PageHash, &run.PageName, &cfgJSON, &run.EngineVersion, &reportJSON); err != nil {
		return Run{}, err
	}

	cfg, err := unmarshalConfig(cfgJSON)
	if err != nil {
		return Run{}, err
	}
	run.Config = cfg

	report, err := unmarshalReport(reportJSON)
	if err != nil {
		return Run{}, err
	}
	run.Report = report
	return run, nil
}
