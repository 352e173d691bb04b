package soft

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fogleman/fauxgl"
	"github.com/nfnt/resize"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/gekko3d/halftone/render"
)

// Renderer draws frames into an in-memory image. Supersample > 1 renders at a
// multiple of the output size and downsamples in Image.
type Renderer struct {
	mu          sync.Mutex
	width       int
	height      int
	supersample int
	ctx         *fauxgl.Context
	shader      *HalftoneShader
	meshes      map[*render.Mesh][]*fauxgl.Triangle
	frames      uint64
}

var _ render.Renderer = (*Renderer)(nil)

func New(width, height, supersample int) *Renderer {
	if supersample < 1 {
		supersample = 1
	}
	r := &Renderer{
		supersample: supersample,
		shader:      &HalftoneShader{},
		meshes:      make(map[*render.Mesh][]*fauxgl.Triangle),
	}
	r.resize(width, height)
	return r
}

func (r *Renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width == r.width && height == r.height {
		return
	}
	r.resize(width, height)
}

func (r *Renderer) resize(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	r.width, r.height = width, height
	r.ctx = fauxgl.NewContext(width*r.supersample, height*r.supersample)
	r.ctx.Shader = r.shader
}

// Size returns the output size in pixels.
func (r *Renderer) Size() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Frames returns how many frames have been rendered.
func (r *Renderer) Frames() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

func (r *Renderer) Render(frame *render.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ctx.ClearColorBufferWith(toColor(frame.ClearColor))
	r.ctx.ClearDepthBuffer()

	params := frame.Halftone.Clamped()
	params.Resolution = params.Resolution.Mul(float32(r.supersample))
	r.shader.Params = params

	vp := frame.ViewProjection()
	for i, item := range frame.Items {
		if item.Mesh == nil {
			continue
		}
		tris, err := r.triangles(item.Mesh)
		if err != nil {
			return fmt.Errorf("soft: draw item %d: %w", i, err)
		}
		r.shader.Matrix = toMatrix(vp.Mul4(item.Model))
		r.shader.Normal = toMatrix(item.NormalMatrix())
		r.ctx.DrawTriangles(tris)
	}
	r.frames++
	return nil
}

// triangles converts a mesh to fauxgl triangles once and caches the result.
func (r *Renderer) triangles(m *render.Mesh) ([]*fauxgl.Triangle, error) {
	if tris, ok := r.meshes[m]; ok {
		return tris, nil
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ComputeNormals()
	vertex := func(i uint32) fauxgl.Vertex {
		return fauxgl.Vertex{
			Position: toVector(m.Positions[i]),
			Normal:   toVector(m.Normals[i]),
		}
	}
	tris := make([]*fauxgl.Triangle, 0, m.TriangleCount())
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		tris = append(tris, &fauxgl.Triangle{V1: vertex(a), V2: vertex(b), V3: vertex(c)})
	}
	r.meshes[m] = tris
	return tris, nil
}

// Forget drops the cached triangles for m.
func (r *Renderer) Forget(m *render.Mesh) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.meshes, m)
}

// Image returns a copy of the last rendered frame at output size.
func (r *Renderer) Image() image.Image {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := r.ctx.Image()
	if r.supersample == 1 {
		b := src.Bounds()
		dst := image.NewNRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				dst.Set(x, y, src.At(x, y))
			}
		}
		return dst
	}
	return resize.Resize(uint(r.width), uint(r.height), src, resize.Bilinear)
}

// SaveImage writes img to path, choosing the encoder from the extension:
// .png, .bmp, .tif or .tiff.
func SaveImage(path string, img image.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return fauxgl.SavePNG(path, img)
	case ".bmp":
		return writeFile(path, func(f *os.File) error { return bmp.Encode(f, img) })
	case ".tif", ".tiff":
		return writeFile(path, func(f *os.File) error { return tiff.Encode(f, img, nil) })
	}
	return fmt.Errorf("soft: unsupported image format %q", filepath.Ext(path))
}

func writeFile(path string, encode func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
