package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/roach88/notemap/internal/testutil"
)

const (
	treblePage = "../harness/testdata/pages/treble.yaml"
	grandPage  = "../harness/testdata/pages/grand-staff.yaml"
	emptyPage  = "../harness/testdata/pages/empty.yaml"
	scenarios  = "../harness/testdata/scenarios"
	goldenDir  = "../harness/testdata/golden"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// build runs the build command with sequential detection and run IDs.
func build(t *testing.T, format string, db string, paths ...string) (string, error) {
	t.Helper()
	opts := &BuildOptions{
		RootOptions: &RootOptions{Format: format},
		Database:    db,
		IDs:         testutil.NewSequentialGenerator("d"),
		RunIDs:      testutil.NewSequentialGenerator("run-"),
	}
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	err := runBuild(opts, paths, cmd)
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "notemap.db")
}

// record builds pages into db with run IDs "<prefix>001", "<prefix>002", ...
func record(t *testing.T, db, prefix string, paths ...string) error {
	t.Helper()
	opts := &BuildOptions{
		RootOptions: &RootOptions{Format: "json"},
		Database:    db,
		IDs:         testutil.NewSequentialGenerator("d"),
		RunIDs:      testutil.NewSequentialGenerator(prefix),
	}
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return runBuild(opts, paths, cmd)
}
