package renderer

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

type Renderer struct {
	backend RendererBackend
	width   uint32
	height  uint32

	CullMode metadata.FaceCullMode
}

func NewRenderer(backend RendererBackend, width, height uint32) (*Renderer, error) {
	if width == 0 || height == 0 {
		return nil, fmt.Errorf("resolution must be > 0, got %dx%d: %w", width, height, core.ErrInvalidParameter)
	}
	return &Renderer{
		backend:  backend,
		width:    width,
		height:   height,
		CullMode: metadata.FaceCullModeNone,
	}, nil
}

func (r *Renderer) Initialize() error {
	if err := r.backend.Initialize(r.width, r.height); err != nil {
		core.LogError("failed to initialize renderer backend: %s", err)
		return err
	}
	return nil
}

func (r *Renderer) Shutdown() error {
	return r.backend.Shutdown()
}

func (r *Renderer) Resolution() (uint32, uint32) {
	return r.width, r.height
}

// RenderScene draws every object of scene through the scene camera.
func (r *Renderer) RenderScene(scene *metadata.Scene) (*image.RGBA, error) {
	if scene == nil || scene.Camera == nil {
		return nil, fmt.Errorf("scene has no camera")
	}
	if scene.Light == nil {
		return nil, fmt.Errorf("scene has no light")
	}

	intrinsics, err := scene.Camera.Intrinsics(int(r.width), int(r.height))
	if err != nil {
		return nil, err
	}
	view := scene.Camera.GetView()

	if err := r.backend.BeginFrame(scene.Background); err != nil {
		return nil, err
	}
	for _, obj := range scene.Objects {
		data := &metadata.ObjectRenderData{
			Object:         obj,
			View:           view,
			CameraPosition: scene.Camera.GetPosition(),
			Intrinsics:     intrinsics,
			ClipStart:      scene.Camera.ClipStart,
			ClipEnd:        scene.Camera.ClipEnd,
			Light:          scene.Light,
			CullMode:       r.CullMode,
		}
		if err := r.backend.DrawObject(data); err != nil {
			return nil, fmt.Errorf("failed to draw %s: %w", obj.Name, err)
		}
	}
	return r.backend.EndFrame()
}

// WriteStill encodes img as PNG at path, creating parent directories.
func WriteStill(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

// PoseFilename names a still after its pose, zero-padding each angle to
// three digits.
func PoseFilename(p metadata.Pose) string {
	return fmt.Sprintf("pose_%03d_%03d_%03d.png", p.Roll, p.Pitch, p.Yaw)
}
