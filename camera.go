package halftone

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Camera is a perspective camera looking from Position at Target. Fov is the
// vertical field of view in degrees.
type Camera struct {
	Fov      float32
	Near     float32
	Far      float32
	Aspect   float32
	Position mgl32.Vec3
	Target   mgl32.Vec3
	Up       mgl32.Vec3
}

func DefaultCamera() Camera {
	return CameraFromConfig(DefaultConfig().Camera)
}

func CameraFromConfig(c CameraConfig) Camera {
	return Camera{
		Fov:      c.Fov,
		Near:     c.Near,
		Far:      c.Far,
		Aspect:   1,
		Position: vec3Or(c.Position, mgl32.Vec3{7, 7, 7}),
		Target:   vec3Or(c.Target, mgl32.Vec3{}),
		Up:       mgl32.Vec3{0, 1, 0},
	}
}

func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection() mgl32.Mat4 {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, c.Near, c.Far)
}

// SetAspect updates the aspect ratio from a viewport size. Degenerate sizes
// are ignored.
func (c *Camera) SetAspect(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// CameraModule installs the Camera resource. A zero Camera means DefaultCamera.
type CameraModule struct {
	Camera Camera
}

func (mod CameraModule) Install(app *App, cmd *Commands) {
	cam := mod.Camera
	if cam == (Camera{}) {
		cam = DefaultCamera()
	}
	if vp, ok := Resource[Viewport](app); ok {
		cam.SetAspect(vp.Width, vp.Height)
	}
	cmd.AddResources(&cam)
}
