package metadata

import (
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer/components"
)

/** @brief Determines face culling mode during rendering. */
type FaceCullMode int

const (
	/** @brief No faces are culled. */
	FaceCullModeNone FaceCullMode = 0x0
	/** @brief Only front faces are culled. */
	FaceCullModeFront FaceCullMode = 0x1
	/** @brief Only back faces are culled. */
	FaceCullModeBack FaceCullMode = 0x2
)

/**
 * @brief Everything a backend needs to draw one scene object.
 */
type ObjectRenderData struct {
	Object *SceneObject
	/** @brief World-to-camera matrix. */
	View math.Mat4
	/** @brief World position of the camera, used for view-dependent shading. */
	CameraPosition math.Vec3
	Intrinsics     components.Intrinsics
	ClipStart      float32
	ClipEnd        float32
	Light          *Light
	CullMode       FaceCullMode
}
