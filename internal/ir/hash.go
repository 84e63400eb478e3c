package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// DomainPage prefixes page hashes. The version suffix enables future
// algorithm migration.
const DomainPage = "notemap/page/v1"

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// PageHash computes the content-addressed identity of a page.
// The page name is excluded: the same geometry under two names is the same
// page. Confidences are hashed as integer basis points.
func PageHash(p Page) (string, error) {
	staves := make([]any, len(p.Staves))
	for i, lines := range p.Staves {
		ys := make([]any, len(lines))
		for j, y := range lines {
			ys[j] = y
		}
		staves[i] = ys
	}

	detections := make([]any, len(p.Detections))
	for i, d := range p.Detections {
		detections[i] = map[string]any{
			"top_left":     []any{d.TopLeft.X, d.TopLeft.Y},
			"bottom_right": []any{d.BottomRight.X, d.BottomRight.Y},
			"confidence":   int64(math.Round(d.Confidence * 10000)),
			"tag":          d.Tag,
		}
	}

	centroids := make([]any, len(p.Centroids))
	for i, c := range p.Centroids {
		centroids[i] = []any{c.X, c.Y}
	}

	canonical, err := MarshalCanonical(map[string]any{
		"staves":     staves,
		"detections": detections,
		"centroids":  centroids,
	})
	if err != nil {
		return "", fmt.Errorf("PageHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainPage, canonical), nil
}

// MustPageHash is like PageHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustPageHash(p Page) string {
	h, err := PageHash(p)
	if err != nil {
		panic(err)
	}
	return h
}
