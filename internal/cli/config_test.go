package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# defaults\n")
	assert.Contains(t, out, "near_uniform_ratio: 0.96")
	assert.Contains(t, out, "tolerance: 10")
}

func TestConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.cue")
	require.NoError(t, os.WriteFile(path, []byte("accidental: group_distance: 40\n"), 0o644))

	out, err := execute(t, "config", "--config", path, "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Data ConfigResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, path, resp.Data.Source)
	assert.Equal(t, 40.0, resp.Data.Config.Accidental.GroupDistance)
	assert.Equal(t, 10.0, resp.Data.Config.Chord.Tolerance)
}

func TestConfig_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.cue")
	require.NoError(t, os.WriteFile(path, []byte("chord: width: 3\n"), 0o644))

	_, err := execute(t, "config", "--config", path)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestConfig_Schema(t *testing.T) {
	out, err := execute(t, "config", "--schema")
	require.NoError(t, err)
	assert.Contains(t, out, "#Config: close({")
}
