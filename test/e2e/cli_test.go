//go:build e2e

package e2e

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotJSON(t *testing.T) {
	res := runCLI(t, nil, "snapshot", "--format", "json", "--seed", "11", "--no-telemetry")
	require.Equal(t, 0, res.ExitCode, res.Stderr)

	var frame struct {
		ID       string           `json:"id"`
		Snapshot []map[string]any `json:"snapshot"`
		Metrics  struct {
			ActiveZones int `json:"active_zones"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.Stdout), &frame))
	assert.NotEmpty(t, frame.ID)
	assert.Len(t, frame.Snapshot, 4)
	assert.Equal(t, 4, frame.Metrics.ActiveZones)
}

func TestExportWritesArtifacts(t *testing.T) {
	out := t.TempDir()
	res := runCLI(t, nil, "export", "--out", out, "--no-telemetry")
	require.Equal(t, 0, res.ExitCode, res.Stderr)
	assert.Contains(t, res.Stdout, "[SUCCESS]")

	for _, name := range []string{"campus_snapshot.csv", "campus_snapshot.json", "campus_snapshot.yaml", "campus_snapshot.html"} {
		info, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Positive(t, info.Size(), name)
	}
}

func TestHeadlessWatch(t *testing.T) {
	res := runCLI(t, nil, "watch", "--headless", "--cycles", "3", "--interval", "10ms", "--no-telemetry")
	require.Equal(t, 0, res.ExitCode, res.Stderr)
	assert.Equal(t, 3, strings.Count(res.Stdout, "Campus as a Living Lab"))
}

func TestEnvConfiguration(t *testing.T) {
	out := t.TempDir()
	res := runCLI(t, []string{"CAMPUSLAB_OUTPUT_DIR=" + out, "CAMPUSLAB_NO_TELEMETRY=true"}, "export", "--format", "json")
	require.Equal(t, 0, res.ExitCode, res.Stderr)
	assert.FileExists(t, filepath.Join(out, "campus_snapshot.json"))
}
