package harness

import (
	"fmt"
	"log/slog"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/page"
	"github.com/roach88/notemap/internal/testutil"
)

// Run executes a scenario and evaluates its assertions.
//
// The page is processed with a fresh sequential ID generator, so detection
// IDs are stable across runs. A page that stops on a fatal diagnostic is
// not an error here: the "failed" assertion checks for it.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, nil)
}

// RunWithLogger is Run with engine logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	p, err := page.Load(scenario.Page)
	if err != nil {
		return nil, fmt.Errorf("load page: %w", err)
	}

	cfg := config.Default()
	if scenario.Config != "" {
		cfg, err = config.Load(scenario.Config)
		if err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	opts := []engine.Option{
		engine.WithIDGenerator(testutil.NewSequentialGenerator(scenario.IDPrefix)),
	}
	if logger != nil {
		opts = append(opts, engine.WithLogger(logger))
	}

	res, err := engine.New(cfg, opts...).Process(p)
	if err != nil && !engine.IsPageError(err) {
		return nil, fmt.Errorf("process %s: %w", scenario.Name, err)
	}

	result := NewResult(res)
	for i, a := range scenario.Assertions {
		if err := evaluateAssertion(i, a, res); err != nil {
			result.AddError(err.Error())
		}
	}
	return result, nil
}
