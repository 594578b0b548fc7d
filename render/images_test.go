package render

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"

	"github.com/oliverbestmann/quill/stage"
)

func TestImagesBackfillPreexistingAssets(t *testing.T) {
	assets := stage.NewImages()
	before := assets.Add(testImage(16, 16))

	images := NewImages(nil, assets)
	after := assets.Add(testImage(8, 8))

	// the asset added before the cache subscribed produces no event, it must
	// be picked up through the backlog instead
	assert.Equal(t, []stage.Handle{before}, images.backlog)

	events := images.events.Read()
	assert.Len(t, events, 1)
	assert.Equal(t, after, events[0].Handle)
}

func TestImagesBacklogSkipsRemovedAssets(t *testing.T) {
	assets := stage.NewImages()
	handle := assets.Add(testImage(4, 4))

	images := NewImages(nil, assets)
	assets.Remove(handle)

	_, ok := assets.Get(images.backlog[0])
	assert.False(t, ok, "the backlog upload must tolerate a removed asset")
}

func TestTextureDescriptorUsableAsRenderTarget(t *testing.T) {
	desc := textureDescriptor(7, 32, 16)

	assert.Equal(t, uint32(32), desc.Size.Width)
	assert.Equal(t, uint32(16), desc.Size.Height)
	assert.Equal(t, wgpu.TextureFormatRGBA8UnormSrgb, desc.Format)

	// image targets render into the texture, sampling and uploads alone are
	// not enough
	assert.NotZero(t, desc.Usage&wgpu.TextureUsageRenderAttachment)
	assert.NotZero(t, desc.Usage&wgpu.TextureUsageTextureBinding)
	assert.NotZero(t, desc.Usage&wgpu.TextureUsageCopyDst)
}
