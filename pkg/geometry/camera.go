package geometry

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/bounce/pkg/core"
)

// ErrInvalidCamera is returned for camera parameters that cannot produce a view
var ErrInvalidCamera = errors.New("invalid camera")

// CameraConfig describes a positionable thin-lens camera
type CameraConfig struct {
	Center        core.Point // Camera position (look-from)
	LookAt        core.Point // Point the camera is aimed at
	Up            core.Vec3  // Approximate up direction
	VFov          float64    // Vertical field of view in degrees
	AspectRatio   float64    // Viewport width / height
	Aperture      float64    // Lens diameter; 0 gives a pinhole camera
	FocusDistance float64    // Distance to the plane of focus; 0 means |LookAt - Center|
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	switch {
	case !(c.VFov > 0 && c.VFov < 180):
		return fmt.Errorf("%w: vertical fov %g must be in (0, 180)", ErrInvalidCamera, c.VFov)
	case !(c.AspectRatio > 0):
		return fmt.Errorf("%w: aspect ratio %g must be positive", ErrInvalidCamera, c.AspectRatio)
	case c.Aperture < 0:
		return fmt.Errorf("%w: aperture %g must not be negative", ErrInvalidCamera, c.Aperture)
	case c.FocusDistance < 0:
		return fmt.Errorf("%w: focus distance %g must not be negative", ErrInvalidCamera, c.FocusDistance)
	case c.LookAt.Subtract(c.Center).NearZero():
		return fmt.Errorf("%w: look-at point equals camera center", ErrInvalidCamera)
	case c.Up.Cross(c.LookAt.Subtract(c.Center)).NearZero():
		return fmt.Errorf("%w: up vector is parallel to the view direction", ErrInvalidCamera)
	}
	return nil
}

// Camera generates primary rays. It is immutable and shared by all render workers.
type Camera struct {
	config          CameraConfig
	origin          core.Point
	lowerLeftCorner core.Point
	horizontal      core.Vec3
	vertical        core.Vec3
	u, v, w         core.Vec3 // Camera basis: right, up, backward
	lensRadius      float64
}

// NewCamera creates a camera from a validated configuration
func NewCamera(config CameraConfig) (*Camera, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	focusDistance := config.FocusDistance
	if focusDistance == 0 {
		focusDistance = config.LookAt.Subtract(config.Center).Length()
	}

	theta := config.VFov * math.Pi / 180
	viewportHeight := 2.0 * math.Tan(theta/2)
	viewportWidth := config.AspectRatio * viewportHeight

	w := config.Center.Subtract(config.LookAt).Unit()
	u := config.Up.Cross(w).Unit()
	v := w.Cross(u)

	horizontal := u.Multiply(focusDistance * viewportWidth)
	vertical := v.Multiply(focusDistance * viewportHeight)
	lowerLeftCorner := config.Center.
		Subtract(horizontal.Multiply(0.5)).
		Subtract(vertical.Multiply(0.5)).
		Subtract(w.Multiply(focusDistance))

	return &Camera{
		config:          config,
		origin:          config.Center,
		lowerLeftCorner: lowerLeftCorner,
		horizontal:      horizontal,
		vertical:        vertical,
		u:               u,
		v:               v,
		w:               w,
		lensRadius:      config.Aperture / 2,
	}, nil
}

// GetRay returns the ray through viewport coordinates (s, t), where (0, 0) is the
// bottom-left corner and (1, 1) the top-right. random is only read when the aperture is open.
func (c *Camera) GetRay(s, t float64, random *rand.Rand) core.Ray {
	origin := c.origin
	if c.lensRadius > 0 {
		rd := core.RandomInUnitDisk(random).Multiply(c.lensRadius)
		origin = origin.Add(c.u.Multiply(rd.X)).Add(c.v.Multiply(rd.Y))
	}

	target := c.lowerLeftCorner.Add(c.horizontal.Multiply(s)).Add(c.vertical.Multiply(t))
	return core.NewRay(origin, target.Subtract(origin))
}

// Config returns the configuration the camera was built from
func (c *Camera) Config() CameraConfig {
	return c.config
}

// Forward returns the unit viewing direction
func (c *Camera) Forward() core.Vec3 {
	return c.w.Negate()
}
