// Package gpu draws halftone frames with WebGPU into a GLFW window.
package gpu

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window without a client API, ready to back a wgpu surface.
// All methods must be called from the main OS thread.
type Window struct {
	win      *glfw.Window
	onResize []func(width, height int)
}

func OpenWindow(width, height int, title string) (*Window, error) {
	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("gpu: glfw init: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("gpu: create window: %w", err)
	}
	w := &Window{win: win}
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		for _, fn := range w.onResize {
			fn(width, height)
		}
	})
	win.SetKeyCallback(func(gw *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.SetShouldClose(true)
		}
	})
	return w, nil
}

// OnResize registers fn to run with the new framebuffer size, in pixels,
// whenever it changes.
func (w *Window) OnResize(fn func(width, height int)) {
	w.onResize = append(w.onResize, fn)
}

func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) ShouldClose() bool {
	return w.win.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.win.SetShouldClose(v)
}

// Size is the logical window size.
func (w *Window) Size() (int, int) {
	return w.win.GetSize()
}

// FramebufferSize is the physical size in pixels.
func (w *Window) FramebufferSize() (int, int) {
	return w.win.GetFramebufferSize()
}

// PixelRatio is framebuffer pixels per window unit. On X11 and Windows the
// window is already sized in pixels, so this stays 1 whatever the content
// scale.
func (w *Window) PixelRatio() float32 {
	ww, _ := w.win.GetSize()
	fw, _ := w.win.GetFramebufferSize()
	if ww <= 0 || fw <= 0 {
		return 1
	}
	return float32(fw) / float32(ww)
}

func (w *Window) SetTitle(title string) {
	w.win.SetTitle(title)
}

func (w *Window) Close() {
	w.win.Destroy()
	glfw.Terminate()
}
