package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/page"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Strict bool // any diagnostic invalidates the page
}

// PageValidation is the validation outcome of one page document.
type PageValidation struct {
	Path        string              `json:"path" yaml:"path"`
	Page        string              `json:"page,omitempty" yaml:"page,omitempty"`
	Valid       bool                `json:"valid" yaml:"valid"`
	Error       string              `json:"error,omitempty" yaml:"error,omitempty"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid" yaml:"valid"`
	Pages []PageValidation `json:"pages" yaml:"pages"`
}

func (r ValidationResult) renderText(w io.Writer) {
	for _, p := range r.Pages {
		fmt.Fprintf(w, "%s %s\n", statusMark(p.Valid), p.Path)
		if p.Error != "" {
			fmt.Fprintf(w, "  %s\n", p.Error)
		}
		for _, d := range p.Diagnostics {
			fmt.Fprintf(w, "  %s\n", formatDiagnostic(d))
		}
	}
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <page>...",
		Short: "Check page documents without reconstructing them",
		Long: `Check page documents for structural problems.

Parses each document strictly and reports empty pages, staves with fewer
than two lines, unknown class tags and duplicate detections. Faster than
build for checking detector output.

Exit codes:
  0 - All pages valid
  1 - One or more pages invalid
  2 - Command error (missing files)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Strict, "strict", false, "treat every diagnostic as an error")

	return cmd
}

func runValidate(opts *ValidateOptions, paths []string, cmd *cobra.Command) error {
	eng := engine.New(config.Default(), engine.WithLogger(opts.Logger(cmd.ErrOrStderr())))
	formatter := opts.formatter(cmd)

	result := ValidationResult{Valid: true, Pages: make([]PageValidation, 0, len(paths))}
	for _, path := range paths {
		v := PageValidation{Path: path, Valid: true}

		p, err := page.Load(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return WrapExitError(ExitCommandError, fmt.Sprintf("page not found: %s", path), err)
		case err != nil:
			v.Valid = false
			v.Error = err.Error()
		default:
			v.Page = p.Name
			formatter.VerboseLog("Validating %s: %d staves, %d detections", path, len(p.Staves), len(p.Detections))
			diags := eng.Validate(p)
			v.Diagnostics = engine.Diagnostics(diags)
			for _, d := range diags {
				if opts.Strict || d.Code.Fatal() {
					v.Valid = false
				}
			}
		}

		if !v.Valid {
			result.Valid = false
		}
		result.Pages = append(result.Pages, v)
	}

	if !result.Valid {
		if err := formatter.Failure(ErrCodeInvalid, "validation failed", result); err != nil {
			return err
		}
		return NewExitError(ExitFailure, "validation failed")
	}
	return formatter.Success(result)
}
