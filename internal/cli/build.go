package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/notemap/internal/chord"
	"github.com/roach88/notemap/internal/classify"
	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/page"
	"github.com/roach88/notemap/internal/store"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Config   string
	Database string
	Output   string

	// IDs overrides the detection ID generator (for testing).
	// If nil, the engine draws UUIDv7 IDs.
	IDs classify.IDGenerator

	// RunIDs overrides the run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs classify.IDGenerator
}

// BuildResult holds the reports of one build invocation.
type BuildResult struct {
	Reports []engine.Report `json:"reports" yaml:"reports"`
	Runs    []string        `json:"runs,omitempty" yaml:"runs,omitempty"`
	Failed  int             `json:"failed" yaml:"failed"`
}

func (r BuildResult) renderText(w io.Writer) {
	for i, report := range r.Reports {
		renderReport(w, report)
		if i < len(r.Runs) {
			fmt.Fprintf(w, "  recorded run %s\n", r.Runs[i])
		}
	}
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <page>...",
		Short: "Reconstruct the score of one or more pages",
		Long: `Reconstruct the symbolic score of page documents.

Each page is processed independently. Recoverable problems are reported
as diagnostics; a page without usable staves or detections fails.
With --db every run is recorded in the run history database.

Exit codes:
  0 - All pages processed
  1 - One or more pages failed
  2 - Command error (unreadable page or config, database errors)

Examples:
  notemap build page.yaml
  notemap build page.yaml --output score.json
  notemap build pages/*.yaml --db ./notemap.db --config thresholds.cue
  notemap build page.yaml --format yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "threshold config file (CUE or JSON)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record runs in this SQLite database")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the score document to this file (.json, .yaml)")

	return cmd
}

func runBuild(opts *BuildOptions, paths []string, cmd *cobra.Command) error {
	if opts.Output != "" && len(paths) > 1 {
		return NewExitError(ExitCommandError, "--output takes exactly one page")
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	eng := engine.New(cfg,
		engine.WithLogger(opts.Logger(cmd.ErrOrStderr())),
		engine.WithIDGenerator(opts.IDs),
	)

	var st *store.Store
	if opts.Database != "" {
		st, err = store.Open(opts.Database)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open database", err)
		}
		defer st.Close()
	}
	runIDs := opts.RunIDs
	if runIDs == nil {
		runIDs = classify.UUIDv7Generator{}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result := BuildResult{Reports: make([]engine.Report, 0, len(paths))}
	for _, path := range paths {
		p, err := page.Load(path)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to load page %s", path), err)
		}

		res, err := eng.Process(p)
		if err != nil && !engine.IsPageError(err) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to process page %s", path), err)
		}
		if res.Failed() {
			result.Failed++
		}
		result.Reports = append(result.Reports, res.Report())

		if st != nil {
			run, _, err := st.Record(ctx, runIDs.Generate(), p, cfg, Version, res)
			if err != nil {
				return WrapExitError(ExitCommandError, fmt.Sprintf("failed to record run for %s", path), err)
			}
			result.Runs = append(result.Runs, run.ID)
		}

		if opts.Output != "" {
			if err := writeScore(opts.Output, res.Report().Score); err != nil {
				return WrapExitError(ExitCommandError, "failed to write score", err)
			}
		}
	}

	formatter := opts.formatter(cmd)
	if result.Failed > 0 {
		msg := fmt.Sprintf("%d page(s) failed", result.Failed)
		if err := formatter.Failure(ErrCodePageFailed, msg, result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, msg)
	}
	return formatter.Success(result)
}

// writeScore writes a score document; the file extension picks YAML or JSON.
func writeScore(path string, score []chord.PartRecord) error {
	var data []byte
	var err error
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(score)
	default:
		data, err = json.MarshalIndent(score, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
