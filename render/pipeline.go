package render

import (
	_ "embed"
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/hashicorp/golang-lru/v2"
	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

//go:embed quill.wgsl
var shaderCode string

// sharedPipeline holds the gpu objects every specialized pipeline variant
// shares: the bind group layouts, the pipeline layout and the shader module.
type sharedPipeline struct {
	transformLayout *wgpu.BindGroupLayout
	textureLayout   *wgpu.BindGroupLayout
	layout          *wgpu.PipelineLayout
	shader          *wgpu.ShaderModule
}

func newSharedPipeline(gpu *GPU) *sharedPipeline {
	transformLayout, err := gpu.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Ui.TransformLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:             wgpu.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   uint64(unsafe.Sizeof(Transform{})),
				},
			},
		},
	})
	handle(err, "create transform bind group layout")

	textureLayout, err := gpu.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Ui.TextureLayout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
		},
	})
	handle(err, "create texture bind group layout")

	layout, err := gpu.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Ui.PipelineLayout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{transformLayout, textureLayout},
	})
	handle(err, "create pipeline layout")

	shader, err := gpu.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Ui.ShaderSource",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaderCode},
	})
	handle(err, "compile ui shader")

	return &sharedPipeline{
		transformLayout: transformLayout,
		textureLayout:   textureLayout,
		layout:          layout,
		shader:          shader,
	}
}

func (r *Renderer) sharedPipeline() *sharedPipeline {
	if r.shared == nil {
		r.shared = newSharedPipeline(r.gpu)
	}

	return r.shared
}

// PipelineKey is the specialization key of the ui pipeline, derived from the
// output format of a render target.
type PipelineKey struct {
	Format wgpu.TextureFormat
}

// PipelineKeyForWindow derives the key from the window's swap chain format.
func PipelineKeyForWindow(window *WindowTarget) PipelineKey {
	return PipelineKey{Format: window.Format}
}

// PipelineKeyForImage derives the key from the gpu format of an image target.
func PipelineKeyForImage(img *GpuImage) PipelineKey {
	return PipelineKey{Format: img.Format}
}

// Specialize compiles the pipeline variant for this key.
func (key PipelineKey) Specialize(shared *sharedPipeline, dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info("Create ui render pipeline", slog.Any("format", key.Format))

	desc := &wgpu.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("Ui.%s", key.Format),
		Layout: shared.layout,
		Vertex: wgpu.VertexState{
			Module:     shared.shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(sketch.Vertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							// position
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(sketch.Vertex{}.Position)),
							ShaderLocation: 0,
						},
						{
							// uv
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(sketch.Vertex{}.UV)),
							ShaderLocation: 1,
						},
						{
							// color
							Format:         wgpu.VertexFormatUnorm8x4,
							Offset:         uint64(unsafe.Offsetof(sketch.Vertex{}.Color)),
							ShaderLocation: 2,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shared.shader,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    key.Format,
					Blend:     uiBlendState(),
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build ui pipeline: %w", err)
	}

	return pipeline, nil
}

// uiBlendState is the classic over operator for straight alpha. Vertex colors
// and the managed textures both carry unpremultiplied rgba.
func uiBlendState() *wgpu.BlendState {
	return &wgpu.BlendState{
		Color: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorSrcAlpha,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
		Alpha: wgpu.BlendComponent{
			SrcFactor: wgpu.BlendFactorOne,
			DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
			Operation: wgpu.BlendOperationAdd,
		},
	}
}

// Pipelines caches one compiled pipeline per distinct key and records which
// key each target currently uses. Targets sharing a format share the
// compiled object but keep their own entry.
type Pipelines struct {
	compiled *lru.Cache[PipelineKey, *wgpu.RenderPipeline]
	byTarget map[stage.Entity]PipelineKey
}

func NewPipelines() *Pipelines {
	compiled, _ := lru.NewWithEvict[PipelineKey, *wgpu.RenderPipeline](16, releasePipelineOnEviction)

	return &Pipelines{
		compiled: compiled,
		byTarget: map[stage.Entity]PipelineKey{},
	}
}

func releasePipelineOnEviction(_ PipelineKey, pipeline *wgpu.RenderPipeline) {
	pipeline.Release()
}

// KeyFor returns the key assigned to a target this frame.
func (p *Pipelines) KeyFor(entity stage.Entity) (PipelineKey, bool) {
	key, ok := p.byTarget[entity]
	return key, ok
}

// ForTarget resolves the compiled pipeline of a target. A miss means the
// pipeline is still loading, the node skips the frame.
func (p *Pipelines) ForTarget(entity stage.Entity) (*wgpu.RenderPipeline, bool) {
	key, ok := p.byTarget[entity]
	if !ok {
		return nil, false
	}

	return p.compiled.Get(key)
}

// queuePipelines derives each target's specialization key from its current
// output format and compiles missing pipeline variants.
func (r *Renderer) queuePipelines() error {
	clear(r.pipelines.byTarget)

	for _, entity := range r.extracted.Order {
		target := r.extracted.Targets[entity]

		var key PipelineKey

		switch target.Kind {
		case bridge.TargetWindow:
			window, ok := r.windows[entity]
			if !ok {
				continue
			}
			key = PipelineKeyForWindow(window)

		default:
			img, ok := r.images.Get(target.Image)
			if !ok {
				// image not uploaded yet, retry next frame
				continue
			}
			key = PipelineKeyForImage(img)
		}

		r.pipelines.byTarget[entity] = key

		if r.gpu == nil || r.pipelines.compiled.Contains(key) {
			continue
		}

		pipeline, err := key.Specialize(r.sharedPipeline(), r.gpu.Device)
		if err != nil {
			return fmt.Errorf("specialize ui pipeline: %w", err)
		}

		r.pipelines.compiled.Add(key, pipeline)
	}

	return nil
}
