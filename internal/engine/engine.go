package engine

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/notemap/internal/accidental"
	"github.com/roach88/notemap/internal/chord"
	"github.com/roach88/notemap/internal/classify"
	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/pitch"
	"github.com/roach88/notemap/internal/resolve"
	"github.com/roach88/notemap/internal/staff"
)

// Engine runs the reconstruction stages for one page at a time.
// It holds no per-page state; Process may be called repeatedly.
type Engine struct {
	cfg    config.Config
	ids    classify.IDGenerator
	logger *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger stage progress and diagnostics are written to.
//
// Default: a logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIDGenerator sets the generator detection IDs are drawn from.
//
// Default: UUIDv7Generator. Use classify.NewFixedGenerator in tests.
func WithIDGenerator(gen classify.IDGenerator) Option {
	return func(e *Engine) {
		if gen != nil {
			e.ids = gen
		}
	}
}

// New creates an Engine with the given thresholds.
func New(cfg config.Config, opts ...Option) *Engine {
	e := &Engine{
		cfg:    cfg,
		ids:    classify.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Config returns the thresholds the engine runs with.
func (e *Engine) Config() config.Config { return e.cfg }

// Process reconstructs the score of page p.
//
// Recoverable conditions are collected in Result.Diagnostics. A page that
// cannot be reconstructed at all returns a Result with empty parts and a
// *PageError.
func (e *Engine) Process(p ir.Page) (*Result, error) {
	log := e.logger.With("page", p.Name)

	hash, err := ir.PageHash(p)
	if err != nil {
		return nil, fmt.Errorf("process page %s: %w", p.Name, err)
	}
	res := &Result{Page: p.Name, Hash: hash}
	res.Stats.Detections = len(p.Detections)
	res.Stats.Staves = len(p.Staves)

	if len(p.Staves) == 0 || len(p.Detections) == 0 {
		return e.fail(log, res, ir.Errorf(ir.CodeEmptyPage,
			"page has %d staves and %d detections", len(p.Staves), len(p.Detections)))
	}

	classified, diags := classify.Classify(p.Detections, e.ids)
	res.Diagnostics = append(res.Diagnostics, diags...)
	res.Stats.Notes = len(classified.Notes)
	res.Stats.Clefs = len(classified.Clefs)
	res.Stats.Accidentals = len(classified.Accidentals)
	res.Stats.Rests = len(classified.Rests)
	log.Debug("classified detections",
		"notes", len(classified.Notes),
		"clefs", len(classified.Clefs),
		"accidentals", len(classified.Accidentals),
		"rests", len(classified.Rests),
		"dropped", len(diags))

	systems := e.buildSystems(res, p.Staves)
	if len(systems) == 0 {
		return e.fail(log, res, ir.Errorf(ir.CodeEmptyPage,
			"none of %d staves has two or more lines", len(p.Staves)))
	}
	log.Debug("built staff systems", "usable", len(systems), "declared", len(p.Staves))

	labeler := pitch.NewLabeler(systems)
	notes, candidates := labeler.Label(classified.Notes)
	centroids := p.Centroids
	if len(centroids) == 0 {
		centroids = pitch.PseudoCentroids(candidates)
	}
	ledger, diags := labeler.AssociateLedger(candidates, centroids)
	res.Diagnostics = append(res.Diagnostics, diags...)
	notes = append(notes, ledger...)
	res.Stats.LedgerNotes = len(ledger)
	res.Stats.Unresolved = len(diags)
	log.Debug("labeled notes", "in_staff", len(notes)-len(ledger), "ledger", len(ledger), "unresolved", len(diags))

	ropts := e.resolveOptions()
	clefs := resolve.Clefs(notes, classified.Clefs, ropts)
	res.Diagnostics = append(res.Diagnostics, clefs.Diagnostics...)
	res.ClefAssignments = clefs.Assignments

	assoc := accidental.Associate(classified.Accidentals, clefs.Notes, classified.Clefs, e.accidentalOptions())
	res.Diagnostics = append(res.Diagnostics, assoc.Diagnostics...)
	res.KeySignatures = assoc.KeySignatures
	res.Pairs = assoc.Pairs
	log.Debug("associated accidentals",
		"groups", len(assoc.Groups),
		"pairs", len(assoc.Pairs),
		"key_signatures", len(assoc.KeySignatures),
		"unmatched", len(assoc.Unmatched))

	keys := resolve.Keys(clefs.Notes, assoc.KeySignatures, ropts)
	res.Diagnostics = append(res.Diagnostics, keys.Diagnostics...)
	res.KeyAssignments = keys.Assignments
	res.KeyCase = keys.Case
	log.Debug("resolved key signatures", "case", keys.Case, "assignments", len(keys.Assignments))

	resolved := accidental.Attach(keys.Notes, assoc.Pairs)
	rests := placeRests(classified.Rests, systems)

	staves := make([]chord.Staff, len(systems))
	for i, s := range systems {
		staves[i] = chord.Staff{
			Index: s.Index(),
			Range: s.Range(),
			Clef:  clefs.Defaults[s.Index()],
			Key:   keys.Defaults[s.Index()],
		}
	}
	res.Parts = chord.Build(staves, resolved, rests, e.cfg.Chord.Tolerance)
	res.Score = chord.Serialize(res.Parts)
	for _, part := range res.Parts {
		res.Stats.Chords += len(part.Chords())
	}

	for _, d := range res.Diagnostics {
		log.Debug("diagnostic", "code", d.Code, "detection", d.DetectionID, "staff", d.Staff, "message", d.Message)
	}
	log.Info("processed page",
		"parts", len(res.Parts),
		"chords", res.Stats.Chords,
		"diagnostics", len(res.Diagnostics))
	return res, nil
}

// buildSystems builds every declared stave and keeps those with at least
// two lines, in declaration order.
func (e *Engine) buildSystems(res *Result, staves [][]int) []*staff.System {
	var systems []*staff.System
	for i, lines := range staves {
		s, err := staff.Build(i, lines)
		if err != nil {
			res.Diagnostics = append(res.Diagnostics, asError(err))
		}
		if s == nil || s.Degenerate() {
			continue
		}
		systems = append(systems, s)
	}
	return systems
}

func (e *Engine) fail(log *slog.Logger, res *Result, cause *ir.Error) (*Result, error) {
	res.Diagnostics = append(res.Diagnostics, cause)
	res.Parts = []ir.ScorePart{}
	res.Score = []chord.PartRecord{}
	log.Warn("page not processed", "code", cause.Code, "error", cause.Message)
	return res, &PageError{Page: res.Page, Cause: cause}
}

func (e *Engine) resolveOptions() resolve.Options {
	return resolve.Options{
		BandTolerance:    e.cfg.Clef.BandTolerance,
		NearUniformRatio: e.cfg.Key.NearUniformRatio,
	}
}

func (e *Engine) accidentalOptions() accidental.Options {
	a := e.cfg.Accidental
	return accidental.Options{
		GroupDistance:      a.GroupDistance,
		MatchXLimit:        a.MatchXLimit,
		MatchYThreshold:    a.MatchYThreshold,
		ClefXLimit:         a.ClefXLimit,
		ClefYThreshold:     a.ClefYThreshold,
		LeftoverXLimit:     a.LeftoverXLimit,
		LeftoverYThreshold: a.LeftoverYThreshold,
	}
}

// placeRests puts every rest on the first staff whose band accepts its
// center, or else on the staff with the nearest boundary.
func placeRests(rests []ir.Detection, systems []*staff.System) []ir.Rest {
	placed := make([]ir.Rest, 0, len(rests))
	for _, r := range rests {
		y := r.Box.CenterY()
		owner := -1
		best := 0.0
		for _, s := range systems {
			if s.Accepts(y) {
				owner = s.Index()
				break
			}
			d := min(abs(y-float64(s.Min())), abs(y-float64(s.Max())))
			if owner < 0 || d < best {
				owner, best = s.Index(), d
			}
		}
		placed = append(placed, ir.Rest{Detection: r, Staff: owner})
	}
	return placed
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func asError(err error) *ir.Error {
	if e, ok := err.(*ir.Error); ok {
		return e
	}
	return ir.Errorf(ir.CodeGeometry, "%v", err)
}
