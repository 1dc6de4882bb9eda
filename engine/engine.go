package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spaghettifunk/stlpose/engine/assets"
	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/renderer"
	"github.com/spaghettifunk/stlpose/engine/renderer/software"
	"github.com/spaghettifunk/stlpose/engine/systems"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently rendering
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	config       *ApplicationConfig
	assetManager *assets.AssetManager
	sceneSystem  *systems.SceneSystem
	renderer     *renderer.Renderer
	clock        *core.Clock
	metrics      *core.Metrics
	// diagnostics destination, stdout unless replaced
	out io.Writer

	// serializes renders between the caller and the watcher
	mutex sync.Mutex
}

func New(cfg *ApplicationConfig) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultApplicationConfig()
	}
	if err := cfg.Validate(); err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	r, err := renderer.NewRenderer(software.New(), cfg.Width, cfg.Height)
	if err != nil {
		core.LogError(err.Error())
		return nil, err
	}

	return &Engine{
		currentStage: EngineStageUninitialized,
		config:       cfg,
		assetManager: assets.NewAssetManager(),
		sceneSystem:  systems.NewSceneSystem(),
		renderer:     r,
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
		out:          os.Stdout,
	}, nil
}

// SetOutput redirects the intrinsics diagnostics.
func (e *Engine) SetOutput(w io.Writer) {
	e.out = w
}

func (e *Engine) Stage() Stage {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.currentStage
}

func (e *Engine) Initialize() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.currentStage != EngineStageUninitialized {
		return fmt.Errorf("engine already initialized")
	}
	e.currentStage = EngineStageInitializing

	if err := e.assetManager.Initialize(); err != nil {
		e.currentStage = EngineStageUninitialized
		return err
	}
	if err := e.renderer.Initialize(); err != nil {
		e.currentStage = EngineStageUninitialized
		return err
	}

	e.currentStage = EngineStageInitialized
	core.LogDebug("%s initialized at %dx%d", e.config.Name, e.config.Width, e.config.Height)
	return nil
}

// MeshInfo decodes the configured STL and summarizes it without rendering.
func (e *Engine) MeshInfo() (systems.MeshInfo, error) {
	if e.currentStage < EngineStageInitialized {
		return systems.MeshInfo{}, core.ErrEngineNotInitialized
	}
	mesh, err := e.assetManager.LoadMesh(e.config.STLPath)
	if err != nil {
		return systems.MeshInfo{}, err
	}
	return systems.ComputeMeshInfo(mesh), nil
}

// RenderOnce loads the STL, prints the camera intrinsics, stages the scene,
// renders it and writes the still. It returns the path of the image.
func (e *Engine) RenderOnce() (string, error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.currentStage < EngineStageInitialized || e.currentStage == EngineStageShuttingDown {
		return "", core.ErrEngineNotInitialized
	}
	e.currentStage = EngineStageRunning
	defer func() { e.currentStage = EngineStageInitialized }()

	e.clock.Start()

	width, height := e.renderer.Resolution()
	sceneConfig := e.config.SceneConfig()
	intrinsics, err := e.sceneSystem.CameraIntrinsics(sceneConfig, int(width), int(height))
	if err != nil {
		return "", err
	}
	for _, line := range intrinsics.Lines() {
		fmt.Fprintln(e.out, line)
	}

	mesh, err := e.assetManager.LoadMesh(e.config.STLPath)
	if err != nil {
		return "", err
	}
	e.clock.Update()
	core.LogDebug("decoded %d triangles from %s in %s", mesh.TriangleCount(), e.config.STLPath, e.clock.Elapsed())

	scene, err := e.sceneSystem.Build(sceneConfig, mesh)
	if err != nil {
		return "", err
	}
	img, err := e.renderer.RenderScene(scene)
	if err != nil {
		return "", err
	}
	if e.config.Label {
		p := e.config.Pose
		renderer.DrawLabel(img, fmt.Sprintf("roll %d  pitch %d  yaw %d", p.Roll, p.Pitch, p.Yaw))
	}

	path := e.config.OutputPath()
	if err := renderer.WriteStill(img, path); err != nil {
		return "", err
	}
	e.clock.Stop()
	e.metrics.Update(e.clock.Elapsed())
	core.LogDebug("rendered %s in %s (average %s over %d renders)",
		path, e.clock.Elapsed(), e.metrics.Average(), e.metrics.Renders())
	return path, nil
}

// Renders returns how many stills have been written successfully.
func (e *Engine) Renders() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.metrics.Renders()
}

// Watch renders once, then again every time the STL file is written, until
// ctx is cancelled. Failed re-renders are reported through onRender and do
// not stop the watch, so a half-written file can be fixed by saving again.
func (e *Engine) Watch(ctx context.Context, onRender func(path string, err error)) error {
	watcher, err := e.assetManager.Watch(e.config.STLPath)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", e.config.STLPath, err)
	}

	path, err := e.RenderOnce()
	onRender(path, err)

	err = watcher.Run(ctx, func(changed string) {
		core.LogInfo("%s changed, rendering again", changed)
		path, err := e.RenderOnce()
		onRender(path, err)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (e *Engine) Shutdown() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.currentStage == EngineStageUninitialized || e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	return e.renderer.Shutdown()
}
