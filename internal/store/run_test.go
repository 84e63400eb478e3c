package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/notemap/internal/config"
	"github.com/roach88/notemap/internal/ir"
	"github.com/roach88/notemap/internal/testutil"
)

func TestWritePage_ContentAddressed(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := createTestPage("first", 0)
	hash, err := s.WritePage(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, ir.MustPageHash(p), hash)

	// Same geometry under another name is the same page.
	renamed := p
	renamed.Name = "second"
	again, err := s.WritePage(ctx, renamed)
	require.NoError(t, err)
	assert.Equal(t, hash, again)

	pages, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "first", pages[0].Name)
	assert.Equal(t, 0, pages[0].Runs)
}

func TestReadPage_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := testutil.NewPage("ledger").
		Staff(testutil.Staff(100, 10, 5)...).
		At("f_1", 60, 150).
		Centroid(60, 150).
		Page()
	hash, err := s.WritePage(ctx, p)
	require.NoError(t, err)

	got, err := s.ReadPage(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	assert.Equal(t, hash, ir.MustPageHash(got))

	_, err = s.ReadPage(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecord_WritesRunAndDiagnostics(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := testutil.NewPage("no-clef").
		Staff(testutil.Staff(100, 10, 5)...).
		At("f_1", 60, 130).
		Page()
	res := processTestPage(t, p)

	run, inserted, err := s.Record(ctx, "run-1", p, config.Default(), "dev", res)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, int64(1), run.Seq)

	got, err := s.ReadRun(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, run.Seq, got.Seq)
	assert.Equal(t, "no-clef", got.PageName)
	assert.Equal(t, res.Hash, got.PageHash)
	assert.Equal(t, config.Default(), got.Config)
	assert.Equal(t, "dev", got.EngineVersion)
	assert.False(t, got.Failed())

	require.Len(t, got.Report.Diagnostics, 1)
	assert.Equal(t, ir.CodeMissingClef, got.Report.Diagnostics[0].Code)
	require.Len(t, got.Report.Score, 1)
	// Pitches come back from JSON as float64.
	assert.Equal(t, float64(67), got.Report.Score[0].Notes[0].Pitch)

	counts, err := s.DiagnosticCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[ir.Code]int{ir.CodeMissingClef: 1}, counts)
}

func TestRecord_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := createTestPage("p", 0)
	res := processTestPage(t, p)

	_, inserted, err := s.Record(ctx, "run-1", p, config.Default(), "dev", res)
	require.NoError(t, err)
	require.True(t, inserted)

	_, inserted, err = s.Record(ctx, "run-1", p, config.Default(), "dev", res)
	require.NoError(t, err)
	assert.False(t, inserted)

	runs, err := s.ListRuns(ctx, Filter{})
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestRecord_FailedPage(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := testutil.NewPage("empty").Staff(testutil.Staff(100, 10, 5)...).Page()
	res := processTestPage(t, p)
	require.True(t, res.Failed())

	_, _, err := s.Record(ctx, "run-empty", p, config.Default(), "dev", res)
	require.NoError(t, err)

	got, err := s.ReadRun(ctx, "run-empty")
	require.NoError(t, err)
	assert.True(t, got.Failed())
	assert.Empty(t, got.Report.Score)

	runs, err := s.ListRuns(ctx, Filter{Code: ir.CodeEmptyPage})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.True(t, runs[0].Failed)
}

func TestListRuns_OrderAndFilters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := createTestPage("a", 0)
	b := createTestPage("b", 5)
	noClef := testutil.NewPage("c").Staff(testutil.Staff(100, 10, 5)...).At("f_1", 60, 130).Page()

	for i, p := range []ir.Page{a, b, a, noClef} {
		_, _, err := s.Record(ctx, []string{"r1", "r2", "r3", "r4"}[i], p, config.Default(), "dev", processTestPage(t, p))
		require.NoError(t, err)
	}

	all, err := s.ListRuns(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"r4", "r3", "r2", "r1"}, runIDs(all))
	assert.Equal(t, 2, all[1].Chords)

	byName, err := s.ListRuns(ctx, Filter{Page: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"r3", "r1"}, runIDs(byName))

	byHash, err := s.ListRuns(ctx, Filter{Page: ir.MustPageHash(b)})
	require.NoError(t, err)
	assert.Equal(t, []string{"r2"}, runIDs(byHash))

	byCode, err := s.ListRuns(ctx, Filter{Code: ir.CodeMissingClef})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4"}, runIDs(byCode))
	assert.Equal(t, 1, byCode[0].Diagnostics)

	limited, err := s.ListRuns(ctx, Filter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"r4", "r3"}, runIDs(limited))

	latest, err := s.LatestRun(ctx, ir.MustPageHash(a))
	require.NoError(t, err)
	assert.Equal(t, "r3", latest.ID)

	_, err = s.LatestRun(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	pages, err := s.ListPages(ctx)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	assert.Equal(t, "a", pages[0].Name)
	assert.Equal(t, 2, pages[0].Runs)
}

func TestReadRun_Prefix(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	p := createTestPage("p", 0)
	res := processTestPage(t, p)
	for _, id := range []string{"abc-1", "abc-2", "abd-1"} {
		_, _, err := s.Record(ctx, id, p, config.Default(), "dev", res)
		require.NoError(t, err)
	}

	run, err := s.ReadRun(ctx, "abd")
	require.NoError(t, err)
	assert.Equal(t, "abd-1", run.ID)

	run, err = s.ReadRun(ctx, "abc-2")
	require.NoError(t, err)
	assert.Equal(t, "abc-2", run.ID)

	_, err = s.ReadRun(ctx, "abc")
	assert.ErrorIs(t, err, ErrAmbiguous)

	_, err = s.ReadRun(ctx, "zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func runIDs(runs []RunSummary) []string {
	ids := make([]string, len(runs))
	for i, r := range runs {
		ids[i] = r.ID
	}
	return ids
}
