package gpu

import (
	"errors"
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"

	"github.com/gekko3d/halftone/render"
	"github.com/gekko3d/halftone/shading"
)

const depthFormat = wgpu.TextureFormatDepth24Plus

type gpuMesh struct {
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	count  uint32
}

type objectSlot struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup
}

// Renderer draws frames to a window surface.
type Renderer struct {
	instance *wgpu.Instance
	surface  *wgpu.Surface
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	config   *wgpu.SurfaceConfiguration

	pipeline       *wgpu.RenderPipeline
	cameraBuffer   *wgpu.Buffer
	halftoneBuffer *wgpu.Buffer
	frameBindGroup *wgpu.BindGroup
	objectLayout   *wgpu.BindGroupLayout
	objects        []objectSlot
	meshes         map[*render.Mesh]*gpuMesh
	depthTexture   *wgpu.Texture
	depthView      *wgpu.TextureView
}

var _ render.Renderer = (*Renderer)(nil)

func New(win *Window) (*Renderer, error) {
	r := &Renderer{meshes: make(map[*render.Mesh]*gpuMesh)}
	r.instance = wgpu.CreateInstance(nil)
	r.surface = r.instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(win.win))

	var err error
	r.adapter, err = r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: r.surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("gpu: request adapter: %w", err)
	}
	r.device, err = r.adapter.RequestDevice(&wgpu.DeviceDescriptor{Label: "Halftone Device"})
	if err != nil {
		r.Release()
		return nil, fmt.Errorf("gpu: request device: %w", err)
	}
	r.queue = r.device.GetQueue()

	width, height := win.FramebufferSize()
	caps := r.surface.GetCapabilities(r.adapter)
	if len(caps.Formats) == 0 {
		r.Release()
		return nil, errors.New("gpu: surface reports no formats")
	}
	r.config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      caps.Formats[0],
		Width:       uint32(max(width, 1)),
		Height:      uint32(max(height, 1)),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   caps.AlphaModes[0],
	}
	r.surface.Configure(r.adapter, r.device, r.config)

	if err := r.createPipeline(); err != nil {
		r.Release()
		return nil, err
	}
	if err := r.createDepth(); err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) createPipeline() error {
	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "halftone",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shading.HalftoneWGSL},
	})
	if err != nil {
		return fmt.Errorf("gpu: shader: %w", err)
	}
	defer module.Release()

	r.pipeline, err = r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "halftone",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{{
				ArrayStride: vertexStride,
				StepMode:    wgpu.VertexStepModeVertex,
				Attributes: []wgpu.VertexAttribute{
					{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
					{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
				},
			}},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    r.config.Format,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            depthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
			StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: pipeline: %w", err)
	}

	r.cameraBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "camera",
		Size:  cameraUniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: camera buffer: %w", err)
	}
	r.halftoneBuffer, err = r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "halftone",
		Size:  shading.UniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: halftone buffer: %w", err)
	}

	frameLayout := r.pipeline.GetBindGroupLayout(0)
	defer frameLayout.Release()
	r.frameBindGroup, err = r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Layout: frameLayout,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: r.cameraBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: r.halftoneBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: frame bind group: %w", err)
	}
	r.objectLayout = r.pipeline.GetBindGroupLayout(1)
	return nil
}

func (r *Renderer) createDepth() error {
	if r.depthView != nil {
		r.depthView.Release()
		r.depthTexture.Release()
	}
	var err error
	r.depthTexture, err = r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "depth",
		Size:          wgpu.Extent3D{Width: r.config.Width, Height: r.config.Height, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("gpu: depth texture: %w", err)
	}
	r.depthView, err = r.depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("gpu: depth view: %w", err)
	}
	return nil
}

// Resize reconfigures the surface. A zero size, as reported for a minimized
// window, is ignored.
func (r *Renderer) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if uint32(width) == r.config.Width && uint32(height) == r.config.Height {
		return
	}
	r.config.Width = uint32(width)
	r.config.Height = uint32(height)
	r.surface.Configure(r.adapter, r.device, r.config)
	if err := r.createDepth(); err != nil {
		panic(err)
	}
}

func (r *Renderer) mesh(m *render.Mesh) (*gpuMesh, error) {
	if gm, ok := r.meshes[m]; ok {
		return gm, nil
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	m.ComputeNormals()
	idx := indices(m)
	vertex, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    m.Name + " vertices",
		Contents: wgpu.ToBytes(interleave(m)),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, err
	}
	index, err := r.device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    m.Name + " indices",
		Contents: wgpu.ToBytes(idx),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		vertex.Release()
		return nil, err
	}
	gm := &gpuMesh{vertex: vertex, index: index, count: uint32(len(idx))}
	r.meshes[m] = gm
	return gm, nil
}

// object returns the uniform slot for the i-th draw of a frame, growing the pool as needed.
func (r *Renderer) object(i int) (objectSlot, error) {
	for len(r.objects) <= i {
		buf, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "object",
			Size:  objectUniformSize,
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return objectSlot{}, err
		}
		bg, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Layout:  r.objectLayout,
			Entries: []wgpu.BindGroupEntry{{Binding: 0, Buffer: buf, Size: wgpu.WholeSize}},
		})
		if err != nil {
			buf.Release()
			return objectSlot{}, err
		}
		r.objects = append(r.objects, objectSlot{buffer: buf, bindGroup: bg})
	}
	return r.objects[i], nil
}

func (r *Renderer) Render(frame *render.Frame) error {
	if err := r.queue.WriteBuffer(r.cameraBuffer, 0, wgpu.ToBytes([]cameraUniform{newCameraUniform(frame)})); err != nil {
		return err
	}
	if err := r.queue.WriteBuffer(r.halftoneBuffer, 0, frame.Halftone.Uniforms().Bytes()); err != nil {
		return err
	}

	type draw struct {
		mesh *gpuMesh
		slot objectSlot
	}
	draws := make([]draw, 0, len(frame.Items))
	for i, item := range frame.Items {
		if item.Mesh == nil {
			continue
		}
		gm, err := r.mesh(item.Mesh)
		if err != nil {
			return fmt.Errorf("gpu: draw item %d: %w", i, err)
		}
		slot, err := r.object(len(draws))
		if err != nil {
			return fmt.Errorf("gpu: draw item %d: %w", i, err)
		}
		if err := r.queue.WriteBuffer(slot.buffer, 0, wgpu.ToBytes([]objectUniform{newObjectUniform(item)})); err != nil {
			return err
		}
		draws = append(draws, draw{mesh: gm, slot: slot})
	}

	next, err := r.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("gpu: acquire surface texture: %w", err)
	}
	view, err := next.CreateView(nil)
	if err != nil {
		return err
	}
	defer view.Release()
	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		return err
	}
	defer encoder.Release()

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:    view,
			LoadOp:  wgpu.LoadOpClear,
			StoreOp: wgpu.StoreOpStore,
			ClearValue: wgpu.Color{
				R: float64(frame.ClearColor[0]),
				G: float64(frame.ClearColor[1]),
				B: float64(frame.ClearColor[2]),
				A: 1,
			},
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1,
		},
	})
	defer pass.Release()

	pass.SetPipeline(r.pipeline)
	pass.SetBindGroup(0, r.frameBindGroup, nil)
	for _, d := range draws {
		pass.SetBindGroup(1, d.slot.bindGroup, nil)
		pass.SetVertexBuffer(0, d.mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(d.mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(d.mesh.count, 1, 0, 0, 0)
	}
	if err := pass.End(); err != nil {
		return err
	}

	cmd, err := encoder.Finish(nil)
	if err != nil {
		return err
	}
	defer cmd.Release()
	r.queue.Submit(cmd)
	r.surface.Present()
	return nil
}

// Forget releases the GPU buffers cached for m.
func (r *Renderer) Forget(m *render.Mesh) {
	if gm, ok := r.meshes[m]; ok {
		gm.vertex.Release()
		gm.index.Release()
		delete(r.meshes, m)
	}
}

func (r *Renderer) Release() {
	for m := range r.meshes {
		r.Forget(m)
	}
	for _, o := range r.objects {
		o.bindGroup.Release()
		o.buffer.Release()
	}
	r.objects = nil
	if r.depthView != nil {
		r.depthView.Release()
		r.depthTexture.Release()
	}
	if r.frameBindGroup != nil {
		r.frameBindGroup.Release()
	}
	if r.objectLayout != nil {
		r.objectLayout.Release()
	}
	if r.cameraBuffer != nil {
		r.cameraBuffer.Release()
	}
	if r.halftoneBuffer != nil {
		r.halftoneBuffer.Release()
	}
	if r.pipeline != nil {
		r.pipeline.Release()
	}
	if r.queue != nil {
		r.queue.Release()
	}
	if r.device != nil {
		r.device.Release()
	}
	if r.adapter != nil {
		r.adapter.Release()
	}
	if r.surface != nil {
		r.surface.Release()
	}
	if r.instance != nil {
		r.instance.Release()
	}
}
