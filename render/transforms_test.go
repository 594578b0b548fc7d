package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

func TestComputeTransform(t *testing.T) {
	got := ComputeTransform(bridge.TargetSize{
		PhysicalWidth:  800,
		PhysicalHeight: 600,
		ScaleFactor:    1,
	})

	assert.Equal(t, sketch.Vec2f{2.0 / 800, -2.0 / 600}, got.Scale)
	assert.Equal(t, sketch.Vec2f{-1, 1}, got.Translation)
}

func TestComputeTransformUsesLogicalSize(t *testing.T) {
	// doubling the scale factor halves the logical size
	got := ComputeTransform(bridge.TargetSize{
		PhysicalWidth:  800,
		PhysicalHeight: 600,
		ScaleFactor:    2,
	})

	assert.Equal(t, sketch.Vec2f{2.0 / 400, -2.0 / 300}, got.Scale)
	assert.Equal(t, sketch.Vec2f{-1, 1}, got.Translation)
}

func TestComputeTransformZeroSize(t *testing.T) {
	got := ComputeTransform(bridge.TargetSize{})

	assert.Equal(t, sketch.Vec2f{1, 1}, got.Scale)
	assert.Equal(t, sketch.Vec2f{}, got.Translation)
}

func TestTransformSlotsAreAligned(t *testing.T) {
	transforms := NewTransforms()

	a := stage.Entity{Index: 1}
	b := stage.Entity{Index: 2}
	c := stage.Entity{Index: 3}

	assert.Equal(t, uint32(0), transforms.Push(a, Transform{}))
	assert.Equal(t, uint32(256), transforms.Push(b, Transform{}))
	assert.Equal(t, uint32(512), transforms.Push(c, Transform{}))
	assert.Equal(t, 3, transforms.Len())

	offset, ok := transforms.OffsetOf(b)
	assert.True(t, ok)
	assert.Equal(t, uint32(256), offset)

	transforms.Clear()
	assert.Equal(t, 0, transforms.Len())

	_, ok = transforms.OffsetOf(b)
	assert.False(t, ok)
}
