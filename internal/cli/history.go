package cli

import (
	"context"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Page     string
	Code     string
	Limit    int
	Pages    bool // list stored pages instead of runs
	Codes    bool // count diagnostics by code
}

// HistoryResult lists recorded runs, newest first.
type HistoryResult struct {
	Runs []store.RunSummary `json:"runs" yaml:"runs"`
}

func (r HistoryResult) renderText(w io.Writer) {
	if len(r.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return
	}
	for _, run := range r.Runs {
		status := ""
		if run.Failed {
			status = "  FAILED"
		}
		keyCase := run.KeyCase
		if keyCase == "" {
			keyCase = "-"
		}
		fmt.Fprintf(w, "[%d] %s  %s (%s)  key=%s chords=%d diagnostics=%d%s\n",
			run.Seq, run.ID, run.PageName, shortHash(run.PageHash), keyCase, run.Chords, run.Diagnostics, status)
	}
}

// PagesResult lists stored pages.
type PagesResult struct {
	Pages []store.PageSummary `json:"pages" yaml:"pages"`
}

func (r PagesResult) renderText(w io.Writer) {
	if len(r.Pages) == 0 {
		fmt.Fprintln(w, "No pages stored.")
		return
	}
	for _, p := range r.Pages {
		fmt.Fprintf(w, "%s  %s  runs=%d\n", shortHash(p.Hash), p.Name, p.Runs)
	}
}

// CodesResult counts diagnostics across all runs.
type CodesResult struct {
	Counts map[ir.Code]int `json:"counts" yaml:"counts"`
}

func (r CodesResult) renderText(w io.Writer) {
	if len(r.Counts) == 0 {
		fmt.Fprintln(w, "No diagnostics recorded.")
		return
	}
	for _, code := range slices.Sorted(maps.Keys(r.Counts)) {
		fmt.Fprintf(w, "%-24s %d\n", code, r.Counts[code])
	}
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Long: `List the runs recorded by build --db, newest first.

Examples:
  notemap history --db ./notemap.db
  notemap history --db ./notemap.db --page treble --limit 5
  notemap history --db ./notemap.db --code BIJECTIVE_MATCH_FAILURE
  notemap history --db ./notemap.db --pages
  notemap history --db ./notemap.db --codes`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.Page, "page", "", "only runs of this page (name or hash)")
	cmd.Flags().StringVar(&opts.Code, "code", "", "only runs with this diagnostic code")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of runs (0 for all)")
	cmd.Flags().BoolVar(&opts.Pages, "pages", false, "list stored pages instead of runs")
	cmd.Flags().BoolVar(&opts.Codes, "codes", false, "count diagnostics by code")
	cmd.MarkFlagsMutuallyExclusive("pages", "codes")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	st, err := openExisting(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	formatter := opts.formatter(cmd)
	switch {
	case opts.Pages:
		pages, err := st.ListPages(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list pages", err)
		}
		return formatter.Success(PagesResult{Pages: pages})

	case opts.Codes:
		counts, err := st.DiagnosticCounts(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to count diagnostics", err)
		}
		return formatter.Success(CodesResult{Counts: counts})
	}

	runs, err := st.ListRuns(ctx, store.Filter{Page: opts.Page, Code: ir.Code(opts.Code), Limit: opts.Limit})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}
	if runs == nil {
		runs = []store.RunSummary{}
	}
	return formatter.Success(HistoryResult{Runs: runs})
}
