package render

import (
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// TextureKey identifies a texture on the render side. Managed textures are
// keyed by their owning target plus the context local id, user textures by
// their global id only.
type TextureKey struct {
	Kind   sketch.TextureKind
	Target stage.Entity
	Id     uint64
}

func managedKey(target stage.Entity, id uint64) TextureKey {
	return TextureKey{Kind: sketch.TextureManaged, Target: target, Id: id}
}

func userKey(id uint64) TextureKey {
	return TextureKey{Kind: sketch.TextureUser, Id: id}
}

// WindowTarget is the per frame state of a window swap chain, handed in by
// the windowing glue at extraction.
type WindowTarget struct {
	View   *wgpu.TextureView
	Format wgpu.TextureFormat
	Width  uint32
	Height uint32
}

// ExtractedTarget is the render side snapshot of one render target.
type ExtractedTarget struct {
	Entity stage.Entity
	Kind   bridge.TargetKind

	// pixels per logical point, scissor rects scale by this
	PixelsPerPoint float32

	Size bridge.TargetSize

	// load policy of the target's render pass
	Load       bridge.LoadOp
	ClearColor [4]float64

	// image asset backing an image target
	Image stage.Handle

	Primitives []sketch.Primitive
}

// Extracted is the once per render frame snapshot of the simulation state.
type Extracted struct {
	Targets map[stage.Entity]*ExtractedTarget
	Order   []stage.Entity

	// texture id to asset handle, both namespaces
	Managed map[TextureKey]stage.Handle
	User    map[uint64]stage.Handle
}

// Renderer owns all render side state of the bridge: the graph nodes, the
// gpu image cache, the transform buffer and the bind group and pipeline
// caches. All caches are single writer, rebuilt by the prepare and queue
// steps and read only while the graph executes.
type Renderer struct {
	gpu   *GPU
	graph *stage.RenderGraph
	ui    *bridge.UI

	images     *Images
	transforms *Transforms
	pipelines  *Pipelines

	shared *sharedPipeline

	bindGroups map[TextureKey]*wgpu.BindGroup

	extracted Extracted
	windows   map[stage.Entity]*WindowTarget

	// currently installed graph nodes by label
	nodes map[PassLabel]*passNode
}

func NewRenderer(gpu *GPU, graph *stage.RenderGraph, ui *bridge.UI) *Renderer {
	return &Renderer{
		gpu:        gpu,
		graph:      graph,
		ui:         ui,
		images:     NewImages(gpu, ui.Assets()),
		transforms: NewTransforms(),
		pipelines:  NewPipelines(),
		bindGroups: map[TextureKey]*wgpu.BindGroup{},
		nodes:      map[PassLabel]*passNode{},
	}
}

// Graph returns the render graph the renderer syncs its nodes into.
func (r *Renderer) Graph() *stage.RenderGraph {
	return r.graph
}

// Extract snapshots the simulation side state and syncs the render graph
// nodes with the live render targets. windows carries the current swap chain
// state per window entity.
func (r *Renderer) Extract(windows map[stage.Entity]*WindowTarget) {
	r.windows = windows

	extracted := Extracted{
		Targets: map[stage.Entity]*ExtractedTarget{},
		Managed: map[TextureKey]stage.Handle{},
		User:    map[uint64]stage.Handle{},
	}

	for _, entity := range r.ui.Targets() {
		state, ok := r.ui.State(entity)
		if !ok {
			continue
		}

		kind, _ := r.ui.TargetKindOf(entity)

		target := &ExtractedTarget{
			Entity:         entity,
			Kind:           kind,
			PixelsPerPoint: state.Size.ScaleFactor,
			Size:           state.Size,

			// window passes paint over the camera output by default
			Load: bridge.LoadOpLoad,
		}

		switch kind {
		case bridge.TargetWindow:
			if window, ok := r.ui.Windows.Get(entity); ok && window.ClearBeforePaint {
				target.Load = bridge.LoadOpClear
				target.ClearColor = window.ClearColor
			}

		case bridge.TargetImage:
			if rti, ok := r.ui.RenderToImages.Get(entity); ok {
				target.Image = rti.Handle
				target.Load = rti.Load
				target.ClearColor = rti.ClearColor
			}
		}

		// take the paint buffer, it is rebuilt by the next pass
		target.Primitives = state.RenderOutput.Primitives
		state.RenderOutput.Primitives = nil

		extracted.Targets[entity] = target
		extracted.Order = append(extracted.Order, entity)
	}

	for key, managed := range r.ui.ManagedTextures() {
		extracted.Managed[managedKey(key.Target, key.Id)] = managed.Handle
	}

	r.ui.UserTextures().Each(func(id uint64, handle stage.Handle) {
		extracted.User[id] = handle
	})

	r.extracted = extracted

	r.syncNodes()
}

// Prepare uploads the gpu images of changed assets and rebuilds the shared
// transform buffer. Runs after Extract, before Queue.
func (r *Renderer) Prepare() error {
	if err := r.images.Prepare(); err != nil {
		return err
	}

	r.prepareTransforms()
	return nil
}

// Queue rebuilds the texture bind groups and specializes the pipelines for
// the current target formats. Runs after Prepare, before the graph executes.
func (r *Renderer) Queue() error {
	r.queueBindGroups()
	return r.queuePipelines()
}

// Render executes the render graph into the frame encoder.
func (r *Renderer) Render(encoder *wgpu.CommandEncoder) error {
	return r.graph.Run(encoder)
}
