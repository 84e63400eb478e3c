package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/notemap/internal/config"
)

// ConfigOptions holds flags for the config command.
type ConfigOptions struct {
	*RootOptions
	Config string
	Schema bool
}

// ConfigResult holds the effective thresholds.
type ConfigResult struct {
	Source string        `json:"source" yaml:"source"`
	Config config.Config `json:"config" yaml:"config"`
}

func (r ConfigResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "# %s\n", r.Source)
	data, err := yaml.Marshal(r.Config)
	if err != nil {
		fmt.Fprintf(w, "%+v\n", r.Config)
		return
	}
	w.Write(data)
}

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective thresholds",
		Long: `Validate a threshold config file against the schema and print the
resulting thresholds, defaults included. Without --config the defaults
are printed.

Examples:
  notemap config
  notemap config --config thresholds.cue --format json
  notemap config --schema`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "threshold config file (CUE or JSON)")
	cmd.Flags().BoolVar(&opts.Schema, "schema", false, "print the CUE schema instead")

	return cmd
}

func runConfig(opts *ConfigOptions, cmd *cobra.Command) error {
	if opts.Schema {
		fmt.Fprint(cmd.OutOrStdout(), config.Schema())
		return nil
	}

	formatter := opts.formatter(cmd)
	cfg, err := config.Load(opts.Config)
	if err != nil {
		if ferr := formatter.Error(ErrCodeParse, err.Error(), nil); ferr != nil {
			return ferr
		}
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	source := opts.Config
	if source == "" {
		source = "defaults"
	}
	return formatter.Success(ConfigResult{Source: source, Config: cfg})
}
