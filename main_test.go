package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/internal/testutil"
)

// writeProject lays out an STL and a config pointing at it, with roll 90
// set in the file.
func writeProject(t *testing.T, stl []byte) (configPath, outputDir string) {
	t.Helper()
	dir := t.TempDir()
	stlPath := filepath.Join(dir, "model.stl")
	require.NoError(t, os.WriteFile(stlPath, stl, 0o644))

	outputDir = filepath.Join(dir, "output")
	configPath = filepath.Join(dir, "stlpose.toml")
	body := fmt.Sprintf(`stl_path = %q
output_dir = %q
width = 32
height = 24
log_level = "error"

[pose]
roll = 90
`, stlPath, outputDir)
	require.NoError(t, os.WriteFile(configPath, []byte(body), 0o644))
	return configPath, outputDir
}

func facingSTL() []byte {
	return testutil.STLBytes("cli", testutil.FacingTriangle(0.2))
}

func TestRunKeepsFileValueWithoutFlag(t *testing.T) {
	configPath, outputDir := writeProject(t, facingSTL())

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath}, &out))

	want := filepath.Join(outputDir, "pose_090_060_045.png")
	assert.FileExists(t, want)
	assert.Contains(t, out.String(), "Generated image "+want+"\n")
	assert.Contains(t, out.String(), "Resolution: 32x24\n")
}

func TestRunFlagOverridesFile(t *testing.T) {
	configPath, outputDir := writeProject(t, facingSTL())

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "-roll=10", "-yaw", "0"}, &out))

	assert.FileExists(t, filepath.Join(outputDir, "pose_010_060_000.png"))
	assert.NoFileExists(t, filepath.Join(outputDir, "pose_090_060_045.png"))
}

func TestRunInfoDoesNotRender(t *testing.T) {
	configPath, outputDir := writeProject(t, facingSTL())

	var out bytes.Buffer
	require.NoError(t, run([]string{"-config", configPath, "-info"}, &out))

	assert.Contains(t, out.String(), "Triangles: 1\n")
	assert.Contains(t, out.String(), "Vertices: 3\n")
	assert.Contains(t, out.String(), "Degenerate triangles: 0\n")
	assert.NotContains(t, out.String(), "Generated image")
	assert.NoDirExists(t, outputDir)
}

func TestRunTruncatedSTL(t *testing.T) {
	configPath, outputDir := writeProject(t, testutil.STLBytesWithCount("cut", 3, testutil.FacingTriangle(0.2)))

	var out bytes.Buffer
	err := run([]string{"-config", configPath}, &out)
	assert.ErrorIs(t, err, core.ErrTruncatedInput)
	assert.NotContains(t, out.String(), "Generated image")
	assert.NoDirExists(t, outputDir)
}

func TestRunRejectsBadInput(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, run([]string{"-no-such-flag"}, &out))
	assert.ErrorIs(t, run([]string{"-config", filepath.Join(t.TempDir(), "missing.toml")}, &out), os.ErrNotExist)

	configPath, _ := writeProject(t, facingSTL())
	assert.Error(t, run([]string{"-config", configPath, "-log-level", "loud"}, &out))
}
