package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var schemaSource string

// Config holds every engine threshold.
type Config struct {
	Clef       ClefConfig       `json:"clef" yaml:"clef"`
	Key        KeyConfig        `json:"key" yaml:"key"`
	Accidental AccidentalConfig `json:"accidental" yaml:"accidental"`
	Chord      ChordConfig      `json:"chord" yaml:"chord"`
}

// ClefConfig tunes clef and key-signature scanning.
type ClefConfig struct {
	BandTolerance int `json:"band_tolerance" yaml:"band_tolerance"`
}

// KeyConfig tunes page-wide key-signature resolution.
type KeyConfig struct {
	NearUniformRatio float64 `json:"near_uniform_ratio" yaml:"near_uniform_ratio"`
}

// AccidentalConfig tunes accidental grouping and matching.
type AccidentalConfig struct {
	GroupDistance      float64 `json:"group_distance" yaml:"group_distance"`
	MatchXLimit        int     `json:"match_x_limit" yaml:"match_x_limit"`
	MatchYThreshold    int     `json:"match_y_threshold" yaml:"match_y_threshold"`
	ClefXLimit         int     `json:"clef_x_limit" yaml:"clef_x_limit"`
	ClefYThreshold     int     `json:"clef_y_threshold" yaml:"clef_y_threshold"`
	LeftoverXLimit     int     `json:"leftover_x_limit" yaml:"leftover_x_limit"`
	LeftoverYThreshold int     `json:"leftover_y_threshold" yaml:"leftover_y_threshold"`
}

// ChordConfig tunes chord grouping.
type ChordConfig struct {
	Tolerance float64 `json:"tolerance" yaml:"tolerance"`
}

// Error reports an invalid configuration.
type Error struct {
	Message string
	Pos     token.Pos
}

func (e *Error) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// Schema returns the embedded CUE schema.
func Schema() string { return schemaSource }

// Default returns the schema defaults.
func Default() Config {
	cfg, err := Parse(nil, "")
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return cfg
}

// Load reads and validates the configuration file at path. An empty path
// yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data, path)
}

// Parse unifies a CUE or JSON document with the schema and decodes it.
// filename only labels error positions.
func Parse(data []byte, filename string) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return Config{}, formatCUEError(err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config"))

	if len(data) > 0 {
		user := ctx.CompileBytes(data, cue.Filename(filename))
		if err := user.Err(); err != nil {
			return Config{}, formatCUEError(err)
		}
		v = v.Unify(user)
	}

	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Config{}, formatCUEError(err)
	}

	var cfg Config
	if err := v.Decode(&cfg); err != nil {
		return Config{}, formatCUEError(err)
	}
	return cfg, nil
}

// formatCUEError keeps the first CUE error with its position.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Message: err.Error()}
	}
	first := errs[0]
	e := &Error{Message: first.Error()}
	if pos := cueerrors.Positions(first); len(pos) > 0 {
		e.Pos = pos[0]
	}
	return e
}
