// Package page reads page documents: the staff geometry, detections and
// centroids an upstream detector produced for one scanned page.
//
// Documents are YAML, or JSON (a YAML subset), with strict field checking:
//
//	name: minuet-p1
//	staves:
//	  - [100, 110, 120, 130, 140]
//	detections:
//	  - {top_left: [10, 90], bottom_right: [40, 150], confidence: 0.91, tag: cg_1}
//	  - {top_left: [94, 115], bottom_right: [106, 125], confidence: 0.88, tag: f_1}
//	centroids:
//	  - [100, 150]
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/notemap/internal/ir"
)

// Document is the on-disk shape of a page.
type Document struct {
	Name       string      `json:"name,omitempty" yaml:"name,omitempty"`
	Staves     [][]int     `json:"staves" yaml:"staves"`
	Detections []Detection `json:"detections" yaml:"detections"`
	Centroids  [][]int     `json:"centroids,omitempty" yaml:"centroids,omitempty"`
}

// Detection is the on-disk shape of one detection.
type Detection struct {
	TopLeft     []int   `json:"top_left" yaml:"top_left,flow"`
	BottomRight []int   `json:"bottom_right" yaml:"bottom_right,flow"`
	Confidence  float64 `json:"confidence" yaml:"confidence"`
	Tag         string  `json:"tag" yaml:"tag"`
}

// Load reads the page document at path. A document without a name is
// named after its file.
func Load(path string) (ir.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return ir.Page{}, fmt.Errorf("failed to read page file: %w", err)
	}
	base := filepath.Base(path)
	return Parse(data, strings.TrimSuffix(base, filepath.Ext(base)))
}

// Parse decodes a page document. defaultName names a document that does
// not name itself.
func Parse(data []byte, defaultName string) (ir.Page, error) {
	var doc Document
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return ir.Page{}, fmt.Errorf("failed to parse page: empty document")
		}
		return ir.Page{}, fmt.Errorf("failed to parse page: %w", err)
	}
	if doc.Name == "" {
		doc.Name = defaultName
	}
	return doc.Page()
}

// Page converts the document into engine input.
func (d Document) Page() (ir.Page, error) {
	p := ir.Page{
		Name:       d.Name,
		Staves:     d.Staves,
		Detections: make([]ir.RawDetection, 0, len(d.Detections)),
	}

	for i, det := range d.Detections {
		tl, err := point(det.TopLeft)
		if err != nil {
			return ir.Page{}, fmt.Errorf("detection %d: top_left: %w", i, err)
		}
		br, err := point(det.BottomRight)
		if err != nil {
			return ir.Page{}, fmt.Errorf("detection %d: bottom_right: %w", i, err)
		}
		if det.Tag == "" {
			return ir.Page{}, fmt.Errorf("detection %d: tag is required", i)
		}
		p.Detections = append(p.Detections, ir.RawDetection{
			TopLeft:     tl,
			BottomRight: br,
			Confidence:  det.Confidence,
			Tag:         det.Tag,
		})
	}

	for i, c := range d.Centroids {
		pt, err := point(c)
		if err != nil {
			return ir.Page{}, fmt.Errorf("centroid %d: %w", i, err)
		}
		p.Centroids = append(p.Centroids, pt)
	}
	return p, nil
}

// FromPage converts engine input back into its document form.
func FromPage(p ir.Page) Document {
	d := Document{Name: p.Name, Staves: p.Staves}
	for _, r := range p.Detections {
		d.Detections = append(d.Detections, Detection{
			TopLeft:     []int{r.TopLeft.X, r.TopLeft.Y},
			BottomRight: []int{r.BottomRight.X, r.BottomRight.Y},
			Confidence:  r.Confidence,
			Tag:         r.Tag,
		})
	}
	for _, c := range p.Centroids {
		d.Centroids = append(d.Centroids, []int{c.X, c.Y})
	}
	return d
}

func point(xy []int) (ir.Point, error) {
	if len(xy) != 2 {
		return ir.Point{}, fmt.Errorf("expected [x, y], got %d values", len(xy))
	}
	return ir.Point{X: xy[0], Y: xy[1]}, nil
}
