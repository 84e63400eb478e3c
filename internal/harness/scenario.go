package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/notemap/internal/ir"
)

// Scenario defines a conformance test over one page.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Page is the path of the page document.
	Page string `yaml:"page"`

	// Config is the optional path of a config file; empty means defaults.
	Config string `yaml:"config,omitempty"`

	// IDPrefix prefixes the generated detection IDs. Defaults to "d".
	IDPrefix string `yaml:"id_prefix,omitempty"`

	// Assertions validate the report.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion checks one property of a processed page.
type Assertion struct {
	// Type selects the check:
	// - "pitches": chord pitches of a staff, left to right
	// - "clef": default clef of a staff
	// - "key_signature": default key of a staff
	// - "key_case": page-level key rule
	// - "diagnostic_count": number of diagnostics with a code
	// - "chords": number of chords on a staff
	// - "failed": the page stopped on a fatal diagnostic
	Type string `yaml:"type"`

	// Staff is the staff index (pitches, clef, key_signature, chords).
	Staff int `yaml:"staff,omitempty"`

	// Pitches lists each chord's pitches low to high (pitches).
	Pitches [][]int `yaml:"pitches,omitempty"`

	// Clef is the expected clef kind (clef).
	Clef string `yaml:"clef,omitempty"`

	// Key is the expected key signature (key_signature).
	Key int `yaml:"key,omitempty"`

	// Value is the expected key case (key_case).
	Value string `yaml:"value,omitempty"`

	// Code is the diagnostic code (diagnostic_count).
	Code ir.Code `yaml:"code,omitempty"`

	// Count is the expected count (diagnostic_count, chords).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertPitches         = "pitches"
	AssertClef            = "clef"
	AssertKeySignature    = "key_signature"
	AssertKeyCase         = "key_case"
	AssertDiagnosticCount = "diagnostic_count"
	AssertChords          = "chords"
	AssertFailed          = "failed"
)

// FileNotFoundError is returned when a scenario references a missing file.
type FileNotFoundError struct {
	Scenario     string
	Field        string
	ResolvedPath string
}

// Error implements the error interface.
func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("scenario %q: %s file %s does not exist", e.Scenario, e.Field, e.ResolvedPath)
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), misses required fields or references missing
// files. Page and config paths are resolved relative to the scenario.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	base := filepath.Dir(path)
	scenario.Page = resolve(base, scenario.Page)
	scenario.Config = resolve(base, scenario.Config)

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// Discover returns the scenario files in dir, sorted by name.
func Discover(dir string) ([]string, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("discover scenarios: %w", err)
		}
		paths = append(paths, matches...)
	}
	slices.Sort(paths)
	return paths, nil
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Page == "" {
		return fmt.Errorf("page is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if _, err := os.Stat(s.Page); os.IsNotExist(err) {
		return &FileNotFoundError{Scenario: s.Name, Field: "page", ResolvedPath: s.Page}
	}
	if s.Config != "" {
		if _, err := os.Stat(s.Config); os.IsNotExist(err) {
			return &FileNotFoundError{Scenario: s.Name, Field: "config", ResolvedPath: s.Config}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, a); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a Assertion) error {
	switch a.Type {
	case "":
		return fmt.Errorf("assertions[%d]: type is required", index)
	case AssertPitches:
		if len(a.Pitches) == 0 {
			return fmt.Errorf("assertions[%d]: pitches list is required for pitches", index)
		}
	case AssertClef:
		if !ir.ClefKind(a.Clef).Valid() {
			return fmt.Errorf("assertions[%d]: unknown clef %q", index, a.Clef)
		}
	case AssertKeySignature:
		if a.Key < -6 || a.Key > 6 {
			return fmt.Errorf("assertions[%d]: key must be within [-6, 6]", index)
		}
	case AssertKeyCase:
		if a.Value == "" {
			return fmt.Errorf("assertions[%d]: value is required for key_case", index)
		}
	case AssertDiagnosticCount:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for diagnostic_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertChords:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative", index)
		}
	case AssertFailed:
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
