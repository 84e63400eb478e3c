package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/ir"
)

// Run is one processing of a page.
type Run struct {
	// Seq orders runs; assigned by the store on insert.
	Seq int64 `json:"seq" yaml:"seq"`

	// ID is the caller-chosen run identifier.
	ID string `json:"id" yaml:"id"`

	PageHash      string        `json:"page_hash" yaml:"page_hash"`
	PageName      string        `json:"page" yaml:"page"`
	Config        config.Config `json:"config" yaml:"config"`
	EngineVersion string        `json:"engine_version" yaml:"engine_version"`
	Report        engine.Report `json:"report" yaml:"report"`
}

// Failed reports whether the run stopped on a fatal diagnostic.
func (r Run) Failed() bool {
	for _, d := range r.Report.Diagnostics {
		if d.Code.Fatal() {
			return true
		}
	}
	return false
}

// WritePage inserts a page document keyed by its content hash.
// Uses ON CONFLICT(hash) DO NOTHING: the first name stored for a hash is kept.
func (s *Store) WritePage(ctx context.Context, p ir.Page) (string, error) {
	hash, err := ir.PageHash(p)
	if err != nil {
		return "", fmt.Errorf("write page: %w", err)
	}
	if err := writePage(ctx, s.db, hash, p); err != nil {
		return "", err
	}
	return hash, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func writePage(ctx context.Context, db execer, hash string, p ir.Page) error {
	doc, err := marshalPage(p)
	if err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO pages (hash, name, document)
		VALUES (?, ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, p.Name, doc)
	if err != nil {
		return fmt.Errorf("write page: %w", err)
	}
	return nil
}

// Record stores a page and one run over it in a single transaction.
//
// The run's page hash, name and report come from res. Writing a run whose
// ID already exists leaves the store unchanged and returns inserted=false.
func (s *Store) Record(ctx context.Context, runID string, p ir.Page, cfg config.Config, version string, res *engine.Result) (run Run, inserted bool, err error) {
	run = Run{
		ID:            runID,
		PageHash:      res.Hash,
		PageName:      res.Page,
		Config:        cfg,
		EngineVersion: version,
		Report:        res.Report(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return run, false, fmt.Errorf("record run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := writePage(ctx, tx, res.Hash, p); err != nil {
		return run, false, fmt.Errorf("record run: %w", err)
	}

	cfgJSON, err := marshalConfig(cfg)
	if err != nil {
		return run, false, fmt.Errorf("record run: %w", err)
	}
	reportJSON, err := marshalReport(run.Report)
	if err != nil {
		return run, false, fmt.Errorf("record run: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, page_hash, page_name, config, engine_version, key_case, failed, chords, report)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.PageHash,
		run.PageName,
		cfgJSON,
		run.EngineVersion,
		string(run.Report.KeyCase),
		res.Failed(),
		run.Report.Stats.Chords,
		reportJSON,
	)
	if err != nil {
		return run, false, fmt.Errorf("record run: insert: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return run, false, fmt.Errorf("record run: rows affected: %w", err)
	}
	if rows == 0 {
		return run, false, nil
	}

	run.Seq, err = result.LastInsertId()
	if err != nil {
		return run, false, fmt.Errorf("record run: last insert id: %w", err)
	}

	for i, d := range run.Report.Diagnostics {
		var staff sql.NullInt64
		if d.Staff != nil {
			staff = sql.NullInt64{Int64: int64(*d.Staff), Valid: true}
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, ordinal, code, message, detection_id, staff)
			VALUES (?, ?, ?, ?, ?, ?)
		`, run.ID, i, string(d.Code), d.Message, d.DetectionID, staff)
		if err != nil {
			return run, false, fmt.Errorf("record run: diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return run, false, fmt.Errorf("record run: commit: %w", err)
	}
	return run, true, nil
}
