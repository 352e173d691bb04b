package halftone

import (
	"reflect"
	"sync"

	"github.com/chewxy/math32"

	"github.com/gekko3d/halftone/shading"
)

// MaxPixelRatio caps the device pixel ratio so dense displays don't multiply
// the rendering cost.
const MaxPixelRatio = 2

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 720
)

// Viewport is the output surface size in logical pixels plus the device pixel
// ratio. Resize may be called from any goroutine; the change is applied on the
// frame thread at the start of the next frame.
type Viewport struct {
	Width      int
	Height     int
	PixelRatio float32

	// Window framebuffer in device pixels; zero when sized by ratio alone.
	fbWidth, fbHeight int

	mu      sync.Mutex
	pending *viewportSize
}

type viewportSize struct {
	width, height     int
	pixelRatio        float32
	framebuffer       bool
	fbWidth, fbHeight int
}

func NewViewport(width, height int, pixelRatio float32) *Viewport {
	if width <= 0 {
		width = defaultViewportWidth
	}
	if height <= 0 {
		height = defaultViewportHeight
	}
	v := &Viewport{Width: width, Height: height, PixelRatio: clampPixelRatio(pixelRatio)}
	// The first frame pushes the initial size to the material and camera.
	v.Resize(width, height, v.PixelRatio)
	return v
}

func clampPixelRatio(r float32) float32 {
	if r <= 0 || math32.IsNaN(r) {
		return 1
	}
	return math32.Min(r, MaxPixelRatio)
}

// Resize records a new size. Only the latest call before a frame is applied.
func (v *Viewport) Resize(width, height int, pixelRatio float32) {
	v.mu.Lock()
	v.pending = &viewportSize{width: width, height: height, pixelRatio: pixelRatio}
	v.mu.Unlock()
}

// ResizeFramebuffer records a size reported by a window system, whose
// framebuffer is fixed by the OS. The drawing buffer then matches fbWidth x
// fbHeight exactly and PixelRatio is derived from it.
func (v *Viewport) ResizeFramebuffer(width, height, fbWidth, fbHeight int) {
	var ratio float32 = 1
	if width > 0 && fbWidth > 0 {
		ratio = float32(fbWidth) / float32(width)
	}
	v.mu.Lock()
	v.pending = &viewportSize{width: width, height: height, pixelRatio: ratio, framebuffer: true, fbWidth: fbWidth, fbHeight: fbHeight}
	v.mu.Unlock()
}

// PhysicalSize is the drawing buffer size in device pixels.
func (v *Viewport) PhysicalSize() (int, int) {
	if v.fbWidth > 0 && v.fbHeight > 0 {
		return v.fbWidth, v.fbHeight
	}
	return int(math32.Round(float32(v.Width) * v.PixelRatio)), int(math32.Round(float32(v.Height) * v.PixelRatio))
}

// take returns the pending resize, if any, and clears it.
func (v *Viewport) take() (viewportSize, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.pending == nil {
		return viewportSize{}, false
	}
	s := *v.pending
	v.pending = nil
	return s, true
}

// apply commits a resize and pushes the new size to the material resolution
// and the camera aspect together.
func (v *Viewport) apply(s viewportSize, mat *shading.Material, cam *Camera) bool {
	if s.width <= 0 || s.height <= 0 {
		return false
	}
	// A minimized window reports an empty framebuffer.
	if s.framebuffer && (s.fbWidth <= 0 || s.fbHeight <= 0) {
		return false
	}
	v.Width, v.Height, v.PixelRatio = s.width, s.height, clampPixelRatio(s.pixelRatio)
	v.fbWidth, v.fbHeight = s.fbWidth, s.fbHeight
	if cam != nil {
		cam.SetAspect(v.Width, v.Height)
	}
	if mat != nil {
		w, h := v.PhysicalSize()
		mat.SetResolution(float32(w), float32(h))
	}
	return true
}

// ViewportModule installs a Viewport of the given logical size.
type ViewportModule struct {
	Width      int
	Height     int
	PixelRatio float32
}

func (mod ViewportModule) Install(app *App, cmd *Commands) {
	ensureViewport(app, mod.Width, mod.Height, mod.PixelRatio)
}

// ensureViewport adds a Viewport and its system unless one already exists.
func ensureViewport(app *App, width, height int, pixelRatio float32) {
	if _, ok := app.resources[reflect.TypeOf((*Viewport)(nil)).Elem()]; ok {
		return
	}
	app.addResources(NewViewport(width, height, pixelRatio))
	app.UseSystem(System(viewportSystem).InStage(PreUpdate))
}

func viewportSystem(app *App, vp *Viewport, log Logger) {
	s, ok := vp.take()
	if !ok {
		return
	}
	mat, _ := Resource[shading.Material](app)
	cam, _ := Resource[Camera](app)
	if vp.apply(s, mat, cam) {
		w, h := vp.PhysicalSize()
		log.Debugf("Viewport resized to %dx%d (%dx%d physical)", vp.Width, vp.Height, w, h)
	}
}
