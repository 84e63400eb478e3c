package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notemap/internal/ir"
)

func TestSequentialGenerator(t *testing.T) {
	gen := NewSequentialGenerator("n")
	assert.Equal(t, "n001", gen.Generate())
	assert.Equal(t, "n002", gen.Generate())

	gen.Reset()
	assert.Equal(t, "n001", gen.Generate())

	assert.Equal(t, "d001", NewSequentialGenerator("").Generate())
}

func TestSequentialGenerator_ThreadSafe(t *testing.T) {
	gen := NewSequentialGenerator("x")
	const workers, calls = 20, 50

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range calls {
				id := gen.Generate()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*calls)
}

func TestPageBuilder(t *testing.T) {
	p := NewPage("p1").
		Staff(Staff(100, 10, 5)...).
		Box("cg_1", 10, 90, 30, 150).
		At("f_1", 55, 130).
		Centroid(55, 150).
		Page()

	assert.Equal(t, "p1", p.Name)
	require.Len(t, p.Staves, 1)
	assert.Equal(t, []int{100, 110, 120, 130, 140}, p.Staves[0])
	require.Len(t, p.Detections, 2)
	assert.Equal(t, ir.Point{X: 50, Y: 125}, p.Detections[1].TopLeft)
	assert.Equal(t, ir.Point{X: 60, Y: 135}, p.Detections[1].BottomRight)
	assert.Equal(t, []ir.Point{{X: 55, Y: 150}}, p.Centroids)
}
