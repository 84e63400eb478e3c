package harness

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/notemap/internal/chord"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/resolve"
)

// Snapshot is the golden form of a scenario's report. The page hash is
// left out so that editing a fixture only changes the lines it affects.
type Snapshot struct {
	Scenario    string              `json:"scenario"`
	Page        string              `json:"page"`
	KeyCase     resolve.KeyCase     `json:"key_case,omitempty"`
	Score       []chord.PartRecord  `json:"score"`
	Diagnostics []engine.Diagnostic `json:"diagnostics,omitempty"`
	Stats       engine.Stats        `json:"stats"`
}

// NewSnapshot builds the snapshot of a scenario result.
func NewSnapshot(name string, r *engine.Result) Snapshot {
	report := r.Report()
	return Snapshot{
		Scenario:    name,
		Page:        report.Page,
		KeyCase:     report.KeyCase,
		Score:       report.Score,
		Diagnostics: report.Diagnostics,
		Stats:       report.Stats,
	}
}

// MarshalSnapshot renders a snapshot as indented JSON with a trailing newline.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return append(data, '\n'), nil
}

// RunWithGolden runs a scenario and compares its snapshot against
// testdata/golden/<name>.golden. Use -update to regenerate.
func RunWithGolden(t *testing.T, scenario *Scenario) *Result {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		t.Fatalf("scenario execution failed: %v", err)
	}
	for _, e := range result.Errors {
		t.Errorf("assertion failed: %s", e)
	}

	AssertGolden(t, scenario.Name, result)
	return result
}

// AssertGolden compares a result snapshot against its golden file.
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	data, err := MarshalSnapshot(NewSnapshot(name, result.Engine))
	if err != nil {
		t.Fatalf("failed to marshal snapshot: %v", err)
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)
}
