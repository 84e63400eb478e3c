package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	Page     string // optional - one page only (name or hash)
}

// ReplayPageResult holds the replay result for a single page.
type ReplayPageResult struct {
	Page          string `json:"page" yaml:"page"`
	Hash          string `json:"hash" yaml:"hash"`
	RunID         string `json:"run_id" yaml:"run_id"`
	Chords        int    `json:"chords" yaml:"chords"`
	Diagnostics   int    `json:"diagnostics" yaml:"diagnostics"`
	Deterministic bool   `json:"deterministic" yaml:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Pages            []ReplayPageResult `json:"pages" yaml:"pages"`
	TotalPages       int                `json:"total_pages" yaml:"total_pages"`
	AllDeterministic bool               `json:"all_deterministic" yaml:"all_deterministic"`
}

func (r ReplayResult) renderText(w io.Writer) {
	if r.TotalPages == 0 {
		fmt.Fprintln(w, "No pages found in database.")
		return
	}
	fmt.Fprintf(w, "Replay Summary: %d page(s)\n", r.TotalPages)
	fmt.Fprintln(w)
	for _, p := range r.Pages {
		fmt.Fprintf(w, "%s %s (%s) against run %s\n", statusMark(p.Deterministic), p.Page, shortHash(p.Hash), p.RunID)
		fmt.Fprintf(w, "  Chords: %d, Diagnostics: %d\n", p.Chords, p.Diagnostics)
		if !p.Deterministic {
			fmt.Fprintln(w, "  Warning: report differs from the recorded run!")
		}
	}
	fmt.Fprintln(w)
	if r.AllDeterministic {
		fmt.Fprintln(w, "✓ All pages reproduce their recorded reports")
	} else {
		fmt.Fprintln(w, "✗ Determinism verification failed")
	}
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Reprocess stored pages and verify determinism",
		Long: `Reprocess every stored page with the thresholds of its latest run and
compare the new report with the recorded one.

Detection IDs are random per run, so the comparison covers the score,
the diagnostic codes and messages and the statistics.

Exit codes:
  0 - Every page reproduces its recorded report
  1 - Determinism verification failed (differences detected)
  2 - Command error (database not found, etc.)

Examples:
  notemap replay --db ./notemap.db
  notemap replay --db ./notemap.db --page treble
  notemap replay --db ./notemap.db --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Page, "page", "", "replay one page only (name or hash)")

	return cmd
}

func runReplay(opts *ReplayOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	pages, err := st.ListPages(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list pages", err)
	}

	result := ReplayResult{Pages: []ReplayPageResult{}, AllDeterministic: true}
	for _, p := range pages {
		if opts.Page != "" && opts.Page != p.Name && opts.Page != p.Hash {
			continue
		}
		if p.Runs == 0 {
			continue
		}

		pr, err := replayPage(ctx, st, p, opts.Logger(cmd.ErrOrStderr()))
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay page %s", p.Name), err)
		}
		result.Pages = append(result.Pages, pr)
		if !pr.Deterministic {
			result.AllDeterministic = false
		}
	}
	result.TotalPages = len(result.Pages)

	formatter := opts.formatter(cmd)
	if !result.AllDeterministic {
		if err := formatter.Failure(ErrCodeReplay, "determinism verification failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return formatter.Success(result)
}

// replayPage reprocesses a stored page with its latest run's thresholds.
func replayPage(ctx context.Context, st *store.Store, p store.PageSummary, logger *slog.Logger) (ReplayPageResult, error) {
	run, err := st.LatestRun(ctx, p.Hash)
	if err != nil {
		return ReplayPageResult{}, err
	}
	doc, err := st.ReadPage(ctx, p.Hash)
	if err != nil {
		return ReplayPageResult{}, err
	}

	res, err := engine.New(run.Config, engine.WithLogger(logger)).Process(doc)
	if err != nil && !engine.IsPageError(err) {
		return ReplayPageResult{}, err
	}

	same, err := sameReport(run.Report, res.Report())
	if err != nil {
		return ReplayPageResult{}, err
	}
	return ReplayPageResult{
		Page:          p.Name,
		Hash:          p.Hash,
		RunID:         run.ID,
		Chords:        res.Stats.Chords,
		Diagnostics:   len(res.Diagnostics),
		Deterministic: same,
	}, nil
}

// sameReport compares two reports of one page. Detection IDs differ
// between runs and are left out.
func sameReport(recorded, replayed engine.Report) (bool, error) {
	a, err := replayKey(recorded)
	if err != nil {
		return false, err
	}
	b, err := replayKey(replayed)
	if err != nil {
		return false, err
	}
	return bytes.Equal(a, b), nil
}

func replayKey(r engine.Report) ([]byte, error) {
	diags := make([]engine.Diagnostic, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		d.DetectionID = ""
		diags[i] = d
	}
	return json.Marshal(engine.Report{
		KeyCase:     r.KeyCase,
		Score:       r.Score,
		Diagnostics: diags,
		Stats:       r.Stats,
	})
}
