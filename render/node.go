package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// drawCall is one scissored draw within the target's render pass. Either a
// mesh slice of the shared buffers or a callback handing the pass to host
// code.
type drawCall struct {
	clip       sketch.Rect2f
	texture    TextureKey
	indexCount uint32
	firstIndex uint32
	baseVertex int32
	callback   sketch.PaintCallback
}

// passNode renders the extracted primitives of one ui target. It owns the
// growable vertex and index buffers of that target and rebuilds its draw
// list every frame from the renderer's snapshot.
type passNode struct {
	renderer *Renderer
	entity   stage.Entity
	kind     bridge.TargetKind

	vertexBuffer *wgpu.Buffer
	vertexCap    uint64
	indexBuffer  *wgpu.Buffer
	indexCap     uint64

	draws []drawCall
}

func newNode(r *Renderer, entity stage.Entity, kind bridge.TargetKind) *passNode {
	return &passNode{
		renderer: r,
		entity:   entity,
		kind:     kind,
	}
}

// Update flattens the target's primitives into the shared vertex and index
// buffers and records one draw call per primitive.
func (n *passNode) Update() error {
	n.draws = n.draws[:0]

	r := n.renderer

	target, ok := r.extracted.Targets[n.entity]
	if !ok {
		return nil
	}

	var vertices []sketch.Vertex
	var indices []uint32

	for _, prim := range target.Primitives {
		if prim.Callback != nil {
			n.draws = append(n.draws, drawCall{
				clip:     prim.ClipRect,
				callback: prim.Callback,
			})

			continue
		}

		mesh := prim.Mesh
		if mesh == nil || len(mesh.Indices) == 0 {
			continue
		}

		key := userKey(mesh.Texture.Id())
		if mesh.Texture.Kind() == sketch.TextureManaged {
			key = managedKey(n.entity, mesh.Texture.Id())
		}

		n.draws = append(n.draws, drawCall{
			clip:       prim.ClipRect,
			texture:    key,
			indexCount: uint32(len(mesh.Indices)),
			firstIndex: uint32(len(indices)),
			baseVertex: int32(len(vertices)),
		})

		vertices = append(vertices, mesh.Vertices...)
		indices = append(indices, mesh.Indices...)
	}

	if len(indices) == 0 || r.gpu == nil {
		return nil
	}

	if err := n.writeVertices(vertices); err != nil {
		return err
	}

	return n.writeIndices(indices)
}

func (n *passNode) writeVertices(vertices []sketch.Vertex) error {
	data := wgpu.ToBytes(vertices)

	if uint64(len(data)) > n.vertexCap {
		if n.vertexBuffer != nil {
			n.vertexBuffer.Release()
		}

		capacity := nextBufferSize(uint64(len(data)))

		buffer, err := n.renderer.gpu.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Ui.Vertices",
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
			Size:  capacity,
		})
		if err != nil {
			return fmt.Errorf("create ui vertex buffer: %w", err)
		}

		n.vertexBuffer = buffer
		n.vertexCap = capacity
	}

	if err := n.renderer.gpu.WriteBuffer(n.vertexBuffer, 0, data); err != nil {
		return fmt.Errorf("update ui vertex buffer: %w", err)
	}

	return nil
}

func (n *passNode) writeIndices(indices []uint32) error {
	data := wgpu.ToBytes(indices)

	if uint64(len(data)) > n.indexCap {
		if n.indexBuffer != nil {
			n.indexBuffer.Release()
		}

		capacity := nextBufferSize(uint64(len(data)))

		buffer, err := n.renderer.gpu.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Ui.Indices",
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
			Size:  capacity,
		})
		if err != nil {
			return fmt.Errorf("create ui index buffer: %w", err)
		}

		n.indexBuffer = buffer
		n.indexCap = capacity
	}

	if err := n.renderer.gpu.WriteBuffer(n.indexBuffer, 0, data); err != nil {
		return fmt.Errorf("update ui index buffer: %w", err)
	}

	return nil
}

// nextBufferSize rounds up to the next power of two, at least 4k. Buffers
// only ever grow.
func nextBufferSize(needed uint64) uint64 {
	size := uint64(4096)
	for size < needed {
		size *= 2
	}

	return size
}

// Run encodes the target's render pass. A missing view, pipeline or
// transform slot skips the frame, the target is simply not ready yet.
func (n *passNode) Run(encoder *wgpu.CommandEncoder) error {
	r := n.renderer

	target, ok := r.extracted.Targets[n.entity]
	if !ok || r.gpu == nil {
		return nil
	}

	view, width, height, ok := n.resolveView(target)
	if !ok {
		return nil
	}

	pipeline, ok := r.pipelines.ForTarget(n.entity)
	if !ok {
		return nil
	}

	offset, ok := r.transforms.OffsetOf(n.entity)
	if !ok || r.transforms.BindGroup() == nil {
		return nil
	}

	if len(n.draws) == 0 && target.Load != bridge.LoadOpClear {
		return nil
	}

	loadOp := wgpu.LoadOpLoad
	if target.Load == bridge.LoadOpClear {
		loadOp = wgpu.LoadOpClear
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "UiPass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  loadOp,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: target.ClearColor[0],
					G: target.ClearColor[1],
					B: target.ClearColor[2],
					A: target.ClearColor[3],
				},
			},
		},
	})

	passGuard := newReleaseGuard(pass)
	defer passGuard.Release()

	setState := func() {
		pass.SetPipeline(pipeline)
		pass.SetBindGroup(0, r.transforms.BindGroup(), []uint32{offset})

		if n.vertexBuffer != nil {
			pass.SetVertexBuffer(0, n.vertexBuffer, 0, wgpu.WholeSize)
			pass.SetIndexBuffer(n.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		}
	}

	setState()

	for _, draw := range n.draws {
		x, y, w, h, ok := scissorOf(draw.clip, target.PixelsPerPoint, width, height)
		if !ok {
			continue
		}

		pass.SetScissorRect(x, y, w, h)

		if draw.callback != nil {
			draw.callback(pass)

			// the callback may have trashed the pass state
			setState()
			continue
		}

		textureGroup, ok := r.bindGroups[draw.texture]
		if !ok {
			continue
		}

		pass.SetBindGroup(1, textureGroup, nil)
		pass.DrawIndexed(draw.indexCount, 1, draw.firstIndex, draw.baseVertex, 0)
	}

	return pass.End()
}

func (n *passNode) resolveView(target *ExtractedTarget) (*wgpu.TextureView, uint32, uint32, bool) {
	r := n.renderer

	if n.kind == bridge.TargetWindow {
		window, ok := r.windows[n.entity]
		if !ok || window.View == nil {
			return nil, 0, 0, false
		}

		return window.View, window.Width, window.Height, true
	}

	img, ok := r.images.Get(target.Image)
	if !ok {
		return nil, 0, 0, false
	}

	return img.View, img.Width, img.Height, true
}

// scissorOf converts a logical clip rect to a physical scissor rect clamped
// to the target bounds. ok is false for rects of zero area.
func scissorOf(clip sketch.Rect2f, pixelsPerPoint float32, width, height uint32) (x, y, w, h uint32, ok bool) {
	minX := clampU32(clip.Min[0]*pixelsPerPoint, width)
	minY := clampU32(clip.Min[1]*pixelsPerPoint, height)
	maxX := clampU32(clip.Max[0]*pixelsPerPoint, width)
	maxY := clampU32(clip.Max[1]*pixelsPerPoint, height)

	if maxX <= minX || maxY <= minY {
		return 0, 0, 0, 0, false
	}

	return minX, minY, maxX - minX, maxY - minY, true
}

func clampU32(value float32, limit uint32) uint32 {
	if value <= 0 {
		return 0
	}

	if value >= float32(limit) {
		return limit
	}

	return uint32(value)
}

// Release drops the node's gpu buffers. Called when the target disappears.
func (n *passNode) Release() {
	if n.vertexBuffer != nil {
		n.vertexBuffer.Release()
		n.vertexBuffer = nil
		n.vertexCap = 0
	}

	if n.indexBuffer != nil {
		n.indexBuffer.Release()
		n.indexBuffer = nil
		n.indexCap = 0
	}
}
