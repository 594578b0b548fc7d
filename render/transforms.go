package render

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// transformAlign is the dynamic uniform offset alignment required by webgpu.
const transformAlign = 256

// Transform maps ui screen space (origin top left, y down, logical points)
// into normalized device coordinates.
type Transform struct {
	Scale       sketch.Vec2f
	Translation sketch.Vec2f
}

// ComputeTransform builds the transform of a target from its logical size.
func ComputeTransform(size bridge.TargetSize) Transform {
	width, height := size.Width(), size.Height()
	if width == 0 || height == 0 {
		return Transform{Scale: sketch.Vec2f{1, 1}}
	}

	return Transform{
		Scale:       sketch.Vec2f{2 / width, -2 / height},
		Translation: sketch.Vec2f{-1, 1},
	}
}

// Transforms is the shared dynamic offset uniform buffer holding one
// Transform slot per render target. It is cleared and fully rebuilt every
// frame, slots have no identity across frames.
type Transforms struct {
	data    []byte
	offsets map[stage.Entity]uint32

	buffer    *wgpu.Buffer
	capacity  uint64
	bindGroup *wgpu.BindGroup
}

func NewTransforms() *Transforms {
	return &Transforms{
		offsets: map[stage.Entity]uint32{},
	}
}

// Clear resets the buffer and the offset table for the next frame.
func (t *Transforms) Clear() {
	t.data = t.data[:0]
	clear(t.offsets)
}

// Push appends a transform slot for the entity and records its byte offset.
func (t *Transforms) Push(entity stage.Entity, transform Transform) uint32 {
	offset := uint32(len(t.data))

	slot := make([]byte, transformAlign)
	copy(slot, wgpu.ToBytes([]Transform{transform}))
	t.data = append(t.data, slot...)

	t.offsets[entity] = offset
	return offset
}

// OffsetOf returns the dynamic offset of the entity's slot this frame.
func (t *Transforms) OffsetOf(entity stage.Entity) (uint32, bool) {
	offset, ok := t.offsets[entity]
	return offset, ok
}

func (t *Transforms) Len() int {
	return len(t.data) / transformAlign
}

// BindGroup is the transform bind group of the current buffer. Valid after
// write, nil before the first frame.
func (t *Transforms) BindGroup() *wgpu.BindGroup {
	return t.bindGroup
}

// write uploads the buffer, growing it if needed. The bind group is only
// rebuilt when growth forced a new buffer object.
func (t *Transforms) write(gpu *GPU, layout *wgpu.BindGroupLayout) error {
	if len(t.data) == 0 {
		return nil
	}

	needed := uint64(len(t.data))

	if t.buffer == nil || t.capacity < needed {
		if t.buffer != nil {
			t.buffer.Release()
		}

		capacity := max(needed, uint64(transformAlign*4))

		buffer, err := gpu.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "UiTransforms",
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			Size:  capacity,
		})
		if err != nil {
			return err
		}

		t.buffer = buffer
		t.capacity = capacity

		if t.bindGroup != nil {
			t.bindGroup.Release()
		}

		bindGroup, err := gpu.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "UiTransforms",
			Layout: layout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  t.buffer,
					Size:    uint64(unsafe.Sizeof(Transform{})),
				},
			},
		})
		if err != nil {
			return err
		}

		t.bindGroup = bindGroup
	}

	return gpu.WriteBuffer(t.buffer, 0, t.data)
}

// prepareTransforms recomputes every target's transform slot and uploads the
// shared buffer.
func (r *Renderer) prepareTransforms() {
	r.transforms.Clear()

	for _, entity := range r.extracted.Order {
		target := r.extracted.Targets[entity]
		r.transforms.Push(entity, ComputeTransform(target.Size))
	}

	if r.gpu == nil {
		return
	}

	err := r.transforms.write(r.gpu, r.sharedPipeline().transformLayout)
	handle(err, "write transform buffer")
}
