package renderer

import (
	"image"

	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

// RendererBackend draws one frame at a time into an offscreen image.
type RendererBackend interface {
	Initialize(width, height uint32) error
	Shutdown() error
	BeginFrame(background math.Vec4) error
	DrawObject(data *metadata.ObjectRenderData) error
	EndFrame() (*image.RGBA, error)
}
