package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/stlpose/engine/core"
	"github.com/spaghettifunk/stlpose/engine/math"
	"github.com/spaghettifunk/stlpose/engine/renderer"
	"github.com/spaghettifunk/stlpose/engine/renderer/components"
	"github.com/spaghettifunk/stlpose/engine/renderer/metadata"
	"github.com/spaghettifunk/stlpose/engine/systems"
)

type CameraConfig struct {
	// Focal length in millimetres.
	Lens float64 `toml:"lens"`
	// Horizontal sensor size in millimetres.
	SensorWidth float64    `toml:"sensor_width"`
	Position    [3]float32 `toml:"position"`
	// XYZ Euler rotation in degrees.
	Rotation [3]float32 `toml:"rotation"`
}

type LightConfig struct {
	Position [3]float32 `toml:"position"`
	// XYZ Euler rotation in degrees. Zero points the sun straight down.
	Rotation [3]float32 `toml:"rotation"`
	Energy   float32    `toml:"energy"`
}

type MaterialConfig struct {
	Name       string     `toml:"name"`
	BaseColour [4]float32 `toml:"base_colour"`
	Roughness  float32    `toml:"roughness"`
}

type ApplicationConfig struct {
	// The application name used in logs.
	Name string `toml:"name"`
	// Binary STL file to render.
	STLPath string `toml:"stl_path"`
	// Directory the still is written to. Created if missing.
	OutputDir string `toml:"output_dir"`
	// Output image width in pixels.
	Width uint32 `toml:"width"`
	// Output image height in pixels.
	Height   uint32 `toml:"height"`
	LogLevel string `toml:"log_level"`
	// Draw the pose in the bottom-left corner of the still.
	Label      bool           `toml:"label"`
	Background [4]float32     `toml:"background"`
	Pose       metadata.Pose  `toml:"pose"`
	Camera     CameraConfig   `toml:"camera"`
	Light      LightConfig    `toml:"light"`
	Material   MaterialConfig `toml:"material"`
}

// DefaultApplicationConfig returns the stock scene: a full-frame 50 mm camera
// 1.5 units above the origin looking down, a sun overhead and a blue
// material, rendering the model at roll 30, pitch 60, yaw 45.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:       "stlpose",
		STLPath:    "./model.stl",
		OutputDir:  "./output",
		Width:      1920,
		Height:     1080,
		LogLevel:   "info",
		Background: [4]float32{0, 0, 0, 1},
		Pose:       metadata.Pose{Roll: 30, Pitch: 60, Yaw: 45},
		Camera: CameraConfig{
			Lens:        components.DefaultLensMM,
			SensorWidth: components.DefaultSensorWidthMM,
			Position:    [3]float32{0, 0, 1.5},
		},
		Light: LightConfig{
			Position: [3]float32{0, 0, 2},
			Energy:   5,
		},
		Material: MaterialConfig{
			Name:       metadata.DefaultMaterialName,
			BaseColour: [4]float32{0.0, 0.5, 1.0, 1.0},
			Roughness:  0.4,
		},
	}
}

// LoadApplicationConfig reads a TOML file on top of the defaults: keys the
// file leaves out keep their default value. Unknown keys are rejected.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	cfg := DefaultApplicationConfig()
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("failed to parse config %s: %w\n%s", path, err, strict.String())
		}
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting the scene cannot be built from.
func (c *ApplicationConfig) Validate() error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), core.ErrInvalidParameter)
	}

	if c.STLPath == "" {
		return invalid("stl_path is required")
	}
	if c.OutputDir == "" {
		return invalid("output_dir is required")
	}
	if c.Width == 0 || c.Height == 0 {
		return invalid("resolution must be > 0, got %dx%d", c.Width, c.Height)
	}
	if _, err := components.ComputeIntrinsics(c.Camera.Lens, c.Camera.SensorWidth, int(c.Width), int(c.Height)); err != nil {
		return err
	}
	if c.Light.Energy < 0 {
		return invalid("light energy must be >= 0, got %v", c.Light.Energy)
	}
	if err := c.material().Validate(); err != nil {
		return fmt.Errorf("material: %s: %w", err, core.ErrInvalidParameter)
	}
	for _, v := range c.Background {
		if v < 0 || v > 1 {
			return invalid("background components must be in [0, 1], got %v", c.Background)
		}
	}
	if c.LogLevel != "" {
		if _, err := core.ParseLogLevel(c.LogLevel); err != nil {
			return invalid("%s", err)
		}
	}
	return nil
}

// OutputPath is where the still for the configured pose is written.
func (c *ApplicationConfig) OutputPath() string {
	return filepath.Join(c.OutputDir, renderer.PoseFilename(c.Pose))
}

// SceneConfig maps the file layout onto what the scene system consumes.
func (c *ApplicationConfig) SceneConfig() *systems.SceneConfig {
	return &systems.SceneConfig{
		Background:     vec4(c.Background),
		CameraPosition: vec3(c.Camera.Position),
		CameraRotation: vec3(c.Camera.Rotation),
		Lens:           c.Camera.Lens,
		SensorWidth:    c.Camera.SensorWidth,
		LightPosition:  vec3(c.Light.Position),
		LightRotation:  vec3(c.Light.Rotation),
		LightEnergy:    c.Light.Energy,
		Material:       c.material(),
		Pose:           c.Pose,
	}
}

func (c *ApplicationConfig) material() *metadata.Material {
	return &metadata.Material{
		Name:       c.Material.Name,
		BaseColour: vec4(c.Material.BaseColour),
		Roughness:  c.Material.Roughness,
	}
}

func vec3(a [3]float32) math.Vec3 {
	return math.NewVec3(a[0], a[1], a[2])
}

func vec4(a [4]float32) math.Vec4 {
	return math.NewVec4(a[0], a[1], a[2], a[3])
}
