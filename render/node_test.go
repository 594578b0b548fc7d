package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliverbestmann/quill/bridge"
	"github.com/oliverbestmann/quill/sketch"
)

func testImage(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestScissorOf(t *testing.T) {
	clip := sketch.RectFromSize(sketch.Vec2f{10, 20}, sketch.Vec2f{30, 40})

	x, y, w, h, ok := scissorOf(clip, 1, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{10, 20, 30, 40}, []uint32{x, y, w, h})
}

func TestScissorOfScales(t *testing.T) {
	clip := sketch.RectFromSize(sketch.Vec2f{10, 10}, sketch.Vec2f{20, 20})

	x, y, w, h, ok := scissorOf(clip, 2, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{20, 20, 40, 40}, []uint32{x, y, w, h})
}

func TestScissorOfClampsToTarget(t *testing.T) {
	clip := sketch.RectFromSize(sketch.Vec2f{-50, -50}, sketch.Vec2f{10000, 10000})

	x, y, w, h, ok := scissorOf(clip, 1, 800, 600)
	require.True(t, ok)
	assert.Equal(t, []uint32{0, 0, 800, 600}, []uint32{x, y, w, h})
}

func TestScissorOfRejectsZeroArea(t *testing.T) {
	// entirely off screen
	clip := sketch.RectFromSize(sketch.Vec2f{900, 0}, sketch.Vec2f{10, 10})
	_, _, _, _, ok := scissorOf(clip, 1, 800, 600)
	assert.False(t, ok)

	// degenerate rect
	clip = sketch.RectFromSize(sketch.Vec2f{10, 10}, sketch.Vec2f{0, 50})
	_, _, _, _, ok = scissorOf(clip, 1, 800, 600)
	assert.False(t, ok)
}

func TestNextBufferSize(t *testing.T) {
	assert.Equal(t, uint64(4096), nextBufferSize(1))
	assert.Equal(t, uint64(4096), nextBufferSize(4096))
	assert.Equal(t, uint64(8192), nextBufferSize(4097))
	assert.Equal(t, uint64(65536), nextBufferSize(40000))
}

func TestNodeBuildsDrawList(t *testing.T) {
	f := newFixture()
	entity := f.spawnWindow()

	calledBack := false
	f.addDrawSystem(func(ctx *sketch.Context) {
		painter := ctx.Painter()
		painter.RectFilled(sketch.RectFromSize(sketch.Vec2f{}, sketch.Vec2f{10, 10}), [4]uint8{255, 0, 0, 255})
		painter.RectFilled(sketch.RectFromSize(sketch.Vec2f{20, 0}, sketch.Vec2f{10, 10}), [4]uint8{0, 255, 0, 255})
		painter.Callback(func(pass any) {
			calledBack = true
		})
	})

	f.run(t)
	f.renderer.Extract(nil)

	node := f.renderer.nodes[passLabelFor(entity, bridge.TargetWindow)]
	require.NotNil(t, node)
	require.NoError(t, node.Update())

	require.Len(t, node.draws, 3)

	first, second, third := node.draws[0], node.draws[1], node.draws[2]

	assert.Equal(t, uint32(6), first.indexCount)
	assert.Equal(t, uint32(0), first.firstIndex)
	assert.Equal(t, int32(0), first.baseVertex)
	assert.Equal(t, managedKey(entity, sketch.AtlasTextureId.Id()), first.texture)

	// the second mesh is offset past the first one in the shared buffers
	assert.Equal(t, uint32(6), second.indexCount)
	assert.Equal(t, uint32(6), second.firstIndex)
	assert.Equal(t, int32(4), second.baseVertex)

	require.NotNil(t, third.callback)
	third.callback(nil)
	assert.True(t, calledBack)
}

func TestNodeSkipsEmptyMeshes(t *testing.T) {
	f := newFixture()
	entity := f.spawnWindow()

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.Painter().Mesh(&sketch.Mesh{})
	})

	f.run(t)
	f.renderer.Extract(nil)

	node := f.renderer.nodes[passLabelFor(entity, bridge.TargetWindow)]
	require.NotNil(t, node)
	require.NoError(t, node.Update())

	assert.Empty(t, node.draws)
}

func TestNodeMapsUserTextures(t *testing.T) {
	f := newFixture()
	entity := f.spawnWindow()

	handle := f.assets.Add(testImage(16, 16))
	id := f.ui.Contexts().AddImage(handle)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.Painter().Image(
			sketch.RectFromSize(sketch.Vec2f{}, sketch.Vec2f{16, 16}),
			id,
			sketch.RectFromSize(sketch.Vec2f{}, sketch.Vec2f{1, 1}),
			[4]uint8{255, 255, 255, 255},
		)
	})

	f.run(t)
	f.renderer.Extract(nil)

	node := f.renderer.nodes[passLabelFor(entity, bridge.TargetWindow)]
	require.NotNil(t, node)
	require.NoError(t, node.Update())

	require.Len(t, node.draws, 1)
	assert.Equal(t, userKey(id.Id()), node.draws[0].texture)
}
