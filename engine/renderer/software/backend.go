// Package software implements the renderer backend as a z-buffered
// scanline rasterizer drawing into memory.
package software

import (
	"fmt"
	"image"
	"image/color"
	stdmath "math"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
)

type Backend struct {
	width  int
	height int

	// linear RGB, three floats per pixel, row-major from the top-left
	colour []float32
	depth  []float64

	inFrame bool
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) Initialize(width, height uint32) error {
	if width == 0 || height == 0 {
		return fmt.Errorf("framebuffer must be > 0, got %dx%d: %w", width, height, core.ErrInvalidParameter)
	}
	b.width = int(width)
	b.height = int(height)
	b.colour = make([]float32, 3*b.width*b.height)
	b.depth = make([]float64, b.width*b.height)
	core.LogDebug("software backend initialized at %dx%d", width, height)
	return nil
}

func (b *Backend) Shutdown() error {
	b.colour = nil
	b.depth = nil
	return nil
}

func (b *Backend) BeginFrame(background math.Vec4) error {
	if b.colour == nil {
		return core.ErrEngineNotInitialized
	}
	for i := 0; i < len(b.depth); i++ {
		b.colour[3*i+0] = background.X
		b.colour[3*i+1] = background.Y
		b.colour[3*i+2] = background.Z
		b.depth[i] = stdmath.Inf(1)
	}
	b.inFrame = true
	return nil
}

// screenVertex is a projected vertex: pixel coordinates and view depth.
type screenVertex struct {
	x, y, depth float64
}

func (b *Backend) DrawObject(data *metadata.ObjectRenderData) error {
	if !b.inFrame {
		return fmt.Errorf("DrawObject called outside of a frame")
	}
	obj := data.Object
	if obj == nil || obj.Mesh == nil || obj.Material == nil {
		return fmt.Errorf("object is missing mesh or material")
	}

	model := obj.Transform.GetWorld()
	modelView := model.Mul(data.View)
	toLight := data.Light.Direction().MulScalar(-1)

	near := float64(data.ClipStart)
	far := float64(data.ClipEnd)

	mesh := obj.Mesh
	for i := range mesh.Faces {
		tri := mesh.Triangle(i)

		var world [3]math.Vec3
		var screen [3]screenVertex
		visible := true
		for k := 0; k < 3; k++ {
			world[k] = tri[k].Transform(model)
			u, v, depth, ok := data.Intrinsics.Project(tri[k].Transform(modelView))
			if !ok || !finite(u, v, depth) || depth < near || depth > far {
				visible = false
				break
			}
			screen[k] = screenVertex{u, v, depth}
		}
		if !visible {
			continue
		}

		normal, ok := math.GeometryFaceNormal(world[0], world[1], world[2])
		if !ok {
			continue
		}

		centroid := math.GeometryCentroid(world[0], world[1], world[2])
		toCamera := data.CameraPosition.Sub(centroid).Normalize()
		front := normal.Dot(toCamera) >= 0
		if (data.CullMode == metadata.FaceCullModeBack && !front) ||
			(data.CullMode == metadata.FaceCullModeFront && front) {
			continue
		}
		if !front {
			normal = normal.MulScalar(-1)
		}

		rgb := shade(obj.Material, data.Light, normal, toLight, toCamera)
		b.rasterize(screen, rgb)
	}
	return nil
}

// rasterize fills the pixels whose centres fall inside the triangle,
// keeping the nearest fragment per pixel.
func (b *Backend) rasterize(v [3]screenVertex, rgb math.Vec3) {
	area := edge(v[0], v[1], v[2].x, v[2].y)
	if area == 0 {
		return
	}

	minX := int(stdmath.Floor(stdmath.Min(v[0].x, stdmath.Min(v[1].x, v[2].x))))
	maxX := int(stdmath.Ceil(stdmath.Max(v[0].x, stdmath.Max(v[1].x, v[2].x))))
	minY := int(stdmath.Floor(stdmath.Min(v[0].y, stdmath.Min(v[1].y, v[2].y))))
	maxY := int(stdmath.Ceil(stdmath.Max(v[0].y, stdmath.Max(v[1].y, v[2].y))))
	minX = math.Clamp(minX, 0, b.width-1)
	maxX = math.Clamp(maxX, 0, b.width-1)
	minY = math.Clamp(minY, 0, b.height-1)
	maxY = math.Clamp(maxY, 0, b.height-1)

	invArea := 1 / area
	for y := minY; y <= maxY; y++ {
		py := float64(y) + 0.5
		for x := minX; x <= maxX; x++ {
			px := float64(x) + 0.5
			w0 := edge(v[1], v[2], px, py) * invArea
			w1 := edge(v[2], v[0], px, py) * invArea
			w2 := edge(v[0], v[1], px, py) * invArea
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			// depth is not linear in screen space, its reciprocal is
			depth := 1 / (w0/v[0].depth + w1/v[1].depth + w2/v[2].depth)
			idx := y*b.width + x
			if depth >= b.depth[idx] {
				continue
			}
			b.depth[idx] = depth
			b.colour[3*idx+0] = rgb.X
			b.colour[3*idx+1] = rgb.Y
			b.colour[3*idx+2] = rgb.Z
		}
	}
}

// finite reports whether none of vs is NaN or infinite. NaN fails every
// comparison, so it would slip past the clip range and into the depth buffer.
func finite(vs ...float64) bool {
	for _, v := range vs {
		if stdmath.IsNaN(v) || stdmath.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// edge is twice the signed area of (a, b, p). Dividing by the area of the
// whole triangle yields barycentric weights regardless of winding.
func edge(a, b screenVertex, px, py float64) float64 {
	return (b.x-a.x)*(py-a.y) - (b.y-a.y)*(px-a.x)
}

func (b *Backend) EndFrame() (*image.RGBA, error) {
	if !b.inFrame {
		return nil, fmt.Errorf("EndFrame called outside of a frame")
	}
	b.inFrame = false

	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			i := 3 * (y*b.width + x)
			img.SetRGBA(x, y, color.RGBA{
				R: encodeSRGB(b.colour[i+0]),
				G: encodeSRGB(b.colour[i+1]),
				B: encodeSRGB(b.colour[i+2]),
				A: 0xff,
			})
		}
	}
	return img, nil
}
