package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oversizeProfile = `volume: { length: 200, width: 200, height: 100 }
stir: { diameter: 250, speed: 10, time: 5, height: 20 }
z_final: 150
`

func TestCheck_Valid(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "resin.yaml"), resinProfile)

	stdout, _, err := execute(NewCheckCommand(&RootOptions{Format: "text"}), path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ "+path+": 35 loops")
}

func TestCheck_Violations(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, filepath.Join(dir, "resin.yaml"), resinProfile)
	bad := writeFile(t, filepath.Join(dir, "oversize.yaml"), oversizeProfile)

	stdout, _, err := execute(NewCheckCommand(&RootOptions{Format: "text"}), good, bad)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), ErrCodeGeometry)

	assert.Contains(t, stdout, "✓ "+good)
	assert.Contains(t, stdout, "✗ "+bad)
	assert.Contains(t, stdout, "stir_diameter: ")
	assert.Contains(t, stdout, "z_final: ")
}

func TestCheck_ViolationsJSON(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, filepath.Join(dir, "oversize.yaml"), oversizeProfile)

	stdout, _, err := execute(NewCheckCommand(&RootOptions{Format: "json"}), bad)
	require.Error(t, err)

	var resp struct {
		Status string `json:"status"`
		Error  struct {
			Code    string        `json:"code"`
			Details []CheckResult `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, ErrCodeGeometry, resp.Error.Code)
	require.Len(t, resp.Error.Details, 1)
	assert.False(t, resp.Error.Details[0].Valid)

	paths := []string{}
	for _, v := range resp.Error.Details[0].Violations {
		paths = append(paths, v.Path)
	}
	assert.ElementsMatch(t, []string{"stir_diameter", "z_final"}, paths)
}

func TestCheck_InvalidParameter(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, filepath.Join(dir, "slow.yaml"),
		"volume: { length: 200, width: 200, height: 200 }\nstir: { diameter: 30, speed: -1, time: 5, height: 20 }\n")

	stdout, _, err := execute(NewCheckCommand(&RootOptions{Format: "text"}), path)
	require.Error(t, err)
	assert.Contains(t, stdout, "Error [E003]")
}
