package engine

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
	"github.com/spaghettifunk/stlpose/internal/testutil"
)

func testConfig(t *testing.T, records ...testutil.STLRecord) *ApplicationConfig {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultApplicationConfig()
	cfg.STLPath = testutil.WriteSTL(t, dir, "model.stl", records...)
	cfg.OutputDir = filepath.Join(dir, "output")
	cfg.Width = 64
	cfg.Height = 48
	cfg.Pose = metadata.Pose{}
	return cfg
}

func newTestEngine(t *testing.T, cfg *ApplicationConfig) (*Engine, *bytes.Buffer) {
	t.Helper()
	e, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, e.Initialize())
	t.Cleanup(func() { _ = e.Shutdown() })

	var out bytes.Buffer
	e.SetOutput(&out)
	return e, &out
}

func TestRenderOnce(t *testing.T) {
	cfg := testConfig(t, testutil.FacingTriangle(0.2))
	e, out := newTestEngine(t, cfg)

	path, err := e.RenderOnce()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "pose_000_000_000.png"), path)
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Equal(t, 1, e.Renders())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())

	_, _, b, _ := img.At(32, 24).RGBA()
	assert.NotZero(t, b)
	_, _, b, _ = img.At(0, 0).RGBA()
	assert.Zero(t, b)

	assert.Equal(t, "Focal length (mm): 50\n"+
		"Sensor width (mm): 36\n"+
		"Resolution: 64x48\n"+
		"fx: 88.89 px\n"+
		"fy: 88.89 px\n"+
		"Optical center: (32, 24)\n", out.String())
}

func TestRenderOnceWithLabel(t *testing.T) {
	cfg := testConfig(t)
	cfg.Width, cfg.Height = 200, 40
	cfg.Label = true
	cfg.Pose = metadata.Pose{Roll: 30, Pitch: 60, Yaw: 45}
	e, _ := newTestEngine(t, cfg)

	path, err := e.RenderOnce()
	require.NoError(t, err)
	assert.Equal(t, "pose_030_060_045.png", filepath.Base(path))
}

func TestRenderOnceRequiresInitialize(t *testing.T) {
	e, err := New(testConfig(t))
	require.NoError(t, err)
	_, err = e.RenderOnce()
	assert.ErrorIs(t, err, core.ErrEngineNotInitialized)
	_, err = e.MeshInfo()
	assert.ErrorIs(t, err, core.ErrEngineNotInitialized)
}

func TestRenderOnceFailures(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.STLPath = filepath.Join(t.TempDir(), "absent.stl")
		e, _ := newTestEngine(t, cfg)
		_, err := e.RenderOnce()
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("truncated file", func(t *testing.T) {
		cfg := testConfig(t)
		data := testutil.STLBytesWithCount("cut", 2, testutil.FacingTriangle(1))
		require.NoError(t, os.WriteFile(cfg.STLPath, data, 0o644))
		e, _ := newTestEngine(t, cfg)

		_, err := e.RenderOnce()
		assert.ErrorIs(t, err, core.ErrTruncatedInput)
		assert.NoFileExists(t, cfg.OutputPath())
	})

	t.Run("short header", func(t *testing.T) {
		cfg := testConfig(t)
		require.NoError(t, os.WriteFile(cfg.STLPath, make([]byte, 40), 0o644))
		e, _ := newTestEngine(t, cfg)

		_, err := e.RenderOnce()
		assert.ErrorIs(t, err, core.ErrMalformedHeader)
	})
}

func TestMeshInfo(t *testing.T) {
	cfg := testConfig(t, testutil.FacingTriangle(1), testutil.FacingTriangle(0.5))
	e, _ := newTestEngine(t, cfg)

	info, err := e.MeshInfo()
	require.NoError(t, err)
	assert.Equal(t, 2, info.Triangles)
	assert.Equal(t, 6, info.Vertices)
	// base 2s, height 2s
	assert.InDelta(t, 2.0+0.5, info.SurfaceArea, 1e-6)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Camera.SensorWidth = 0
	_, err := New(cfg)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
}

func TestShutdown(t *testing.T) {
	e, err := New(testConfig(t))
	require.NoError(t, err)
	require.NoError(t, e.Shutdown(), "shutdown before initialize is a no-op")

	require.NoError(t, e.Initialize())
	require.NoError(t, e.Shutdown())
	require.NoError(t, e.Shutdown())
	assert.Equal(t, EngineStageShuttingDown, e.Stage())

	_, err = e.RenderOnce()
	assert.ErrorIs(t, err, core.ErrEngineNotInitialized)
}

var errNoDevice = errors.New("no device")

// brokenBackend fails to initialize until fixed is set.
type brokenBackend struct {
	fixed bool
}

func (b *brokenBackend) Initialize(width, height uint32) error {
	if !b.fixed {
		return errNoDevice
	}
	return nil
}
func (b *brokenBackend) Shutdown() error                             { return nil }
func (b *brokenBackend) BeginFrame(math.Vec4) error                  { return nil }
func (b *brokenBackend) DrawObject(*metadata.ObjectRenderData) error { return nil }
func (b *brokenBackend) EndFrame() (*image.RGBA, error) {
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func TestInitializeFailureCanBeRetried(t *testing.T) {
	e, err := New(testConfig(t))
	require.NoError(t, err)
	backend := &brokenBackend{}
	e.renderer, err = renderer.NewRenderer(backend, 1, 1)
	require.NoError(t, err)

	assert.ErrorIs(t, e.Initialize(), errNoDevice)
	assert.Equal(t, EngineStageUninitialized, e.Stage())
	_, err = e.RenderOnce()
	assert.ErrorIs(t, err, core.ErrEngineNotInitialized)

	backend.fixed = true
	require.NoError(t, e.Initialize())
	assert.Equal(t, EngineStageInitialized, e.Stage())
	assert.Error(t, e.Initialize(), "second initialize is refused")
}

type renderResult struct {
	path string
	err  error
}

func TestWatchRendersAgainOnWrite(t *testing.T) {
	cfg := testConfig(t, testutil.FacingTriangle(0.2))
	e, _ := newTestEngine(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	renders := make(chan renderResult, 8)
	done := make(chan error, 1)
	go func() {
		done <- e.Watch(ctx, func(path string, err error) {
			renders <- renderResult{path, err}
		})
	}()

	waitRender := func() renderResult {
		t.Helper()
		select {
		case r := <-renders:
			return r
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for a render")
			return renderResult{}
		}
	}

	first := waitRender()
	require.NoError(t, first.err)
	assert.FileExists(t, first.path)

	require.NoError(t, os.WriteFile(cfg.STLPath, testutil.STLBytes("edited", testutil.FacingTriangle(0.3)), 0o644))
	second := waitRender()
	require.NoError(t, second.err)
	assert.Equal(t, first.path, second.path)
	assert.GreaterOrEqual(t, e.Renders(), 2)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
