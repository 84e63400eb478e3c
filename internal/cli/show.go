package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/notemap/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
}

// ShowResult is a recorded run with its full report.
type ShowResult struct {
	store.Run `yaml:",inline"`
}

func (r ShowResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "Run %s (seq %d, engine %s)\n", r.ID, r.Seq, r.EngineVersion)
	renderReport(w, r.Report)
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a recorded run",
		Long: `Show the report, thresholds and page of a recorded run.

The run ID may be abbreviated to any unique prefix.

Examples:
  notemap show --db ./notemap.db 0192f3c4
  notemap show --db ./notemap.db 0192f3c4 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
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
	run, err := st.ReadRun(ctx, id)
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrAmbiguous):
		msg := fmt.Sprintf("run %q: %v", id, err)
		if ferr := formatter.Error(ErrCodeNotFound, msg, nil); ferr != nil {
			return ferr
		}
		return NewExitError(ExitCommandError, msg)
	case err != nil:
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	return formatter.Success(ShowResult{Run: run})
}

// openExisting opens a database that must already exist; store.Open
// would otherwise create an empty one.
func openExisting(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}
