package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/engine"
	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/page"
)

// marshalJSON encodes v as compact JSON TEXT without HTML escaping.
func marshalJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline.
	return strings.TrimSpace(buf.String()), nil
}

func marshalPage(p ir.Page) (string, error) {
	data, err := marshalJSON(page.FromPage(p))
	if err != nil {
		return "", fmt.Errorf("marshal page: %w", err)
	}
	return data, nil
}

// unmarshalPage parses a stored page document. JSON is valid YAML, so the
// strict page decoder reads it directly.
func unmarshalPage(data, name string) (ir.Page, error) {
	p, err := page.Parse([]byte(data), name)
	if err != nil {
		return ir.Page{}, fmt.Errorf("unmarshal page: %w", err)
	}
	return p, nil
}

func marshalConfig(cfg config.Config) (string, error) {
	data, err := marshalJSON(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func unmarshalConfig(data string) (config.Config, error) {
	var cfg config.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return config.Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func marshalReport(r engine.Report) (string, error) {
	data, err := marshalJSON(r)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return data, nil
}

func unmarshalReport(data string) (engine.Report, error) {
	var r engine.Report
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return engine.Report{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return r, nil
}
