package page

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/notemap/internal/ir"
)

const sample = `
name: sample
staves:
  - [100, 110, 120, 130, 140]
detections:
  - {top_left: [10, 90], bottom_right: [40, 150], confidence: 0.91, tag: cg_1}
  - {top_left: [94, 115], bottom_right: [106, 125], confidence: 0.5, tag: f_1}
centroids:
  - [100, 150]
`

func TestParse_YAML(t *testing.T) {
	p, err := Parse([]byte(sample), "ignored")
	require.NoError(t, err)

	assert.Equal(t, "sample", p.Name)
	assert.Equal(t, [][]int{{100, 110, 120, 130, 140}}, p.Staves)
	require.Len(t, p.Detections, 2)
	assert.Equal(t, ir.RawDetection{
		TopLeft:     ir.Point{X: 10, Y: 90},
		BottomRight: ir.Point{X: 40, Y: 150},
		Confidence:  0.91,
		Tag:         "cg_1",
	}, p.Detections[0])
	assert.Equal(t, []ir.Point{{X: 100, Y: 150}}, p.Centroids)
}

func TestParse_JSON(t *testing.T) {
	p, err := Parse([]byte(`{"staves": [[200, 210, 220, 230, 240]], "detections": [{"top_left": [1, 2], "bottom_right": [3, 4], "confidence": 1, "tag": "rq_1"}]}`), "from-file")
	require.NoError(t, err)

	assert.Equal(t, "from-file", p.Name)
	assert.Empty(t, p.Centroids)
	assert.Equal(t, "rq_1", p.Detections[0].Tag)
}

func TestParse_Rejects(t *testing.T) {
	tests := map[string]string{
		"unknown field": "staves: []\ndetections: []\nstaffs: []\n",
		"short point":   "staves: []\ndetections:\n  - {top_left: [1], bottom_right: [2, 3], tag: f}\n",
		"missing tag":   "staves: []\ndetections:\n  - {top_left: [1, 1], bottom_right: [2, 3]}\n",
		"bad centroid":  "staves: []\ndetections: []\ncentroids: [[1, 2, 3]]\n",
		"empty":         "",
		"not yaml":      "staves: [\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc), "x")
			assert.Error(t, err)
		})
	}
}

func TestLoad_NamesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nocturne-p2.yaml")
	require.NoError(t, os.WriteFile(path, []byte("staves: [[1, 2]]\ndetections: []\n"), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "nocturne-p2", p.Name)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFromPage_RoundTrip(t *testing.T) {
	p, err := Parse([]byte(sample), "")
	require.NoError(t, err)

	data, err := yaml.Marshal(FromPage(p))
	require.NoError(t, err)

	again, err := Parse(data, "")
	require.NoError(t, err)
	assert.Equal(t, p, again)
}
