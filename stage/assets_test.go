package stage

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rgba(w, h int) *image.RGBA {
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

func TestImagesLifecycleEvents(t *testing.T) {
	images := NewImages()
	reader := images.Subscribe()

	handle := images.Add(rgba(2, 2))
	images.Set(handle, rgba(4, 4))
	images.Remove(handle)

	events := reader.Read()
	require.Len(t, events, 3)

	assert.Equal(t, AssetEvent{Kind: AssetAdded, Handle: handle}, events[0])
	assert.Equal(t, AssetEvent{Kind: AssetModified, Handle: handle}, events[1])
	assert.Equal(t, AssetEvent{Kind: AssetRemoved, Handle: handle}, events[2])

	// a second read yields nothing new
	assert.Empty(t, reader.Read())
}

func TestSubscribeStartsAtCurrentPosition(t *testing.T) {
	images := NewImages()

	images.Add(rgba(1, 1))

	reader := images.Subscribe()
	assert.Empty(t, reader.Read())

	handle := images.Add(rgba(1, 1))
	events := reader.Read()
	require.Len(t, events, 1)
	assert.Equal(t, handle, events[0].Handle)
}

func TestSlowReaderKeepsUnreadEvents(t *testing.T) {
	images := NewImages()

	fast := images.Subscribe()
	slow := images.Subscribe()

	a := images.Add(rgba(1, 1))
	require.Len(t, fast.Read(), 1)

	b := images.Add(rgba(1, 1))
	require.Len(t, fast.Read(), 1)

	events := slow.Read()
	require.Len(t, events, 2)
	assert.Equal(t, a, events[0].Handle)
	assert.Equal(t, b, events[1].Handle)
}

func TestSetUnknownHandleIsIgnored(t *testing.T) {
	images := NewImages()
	reader := images.Subscribe()

	images.Set(42, rgba(1, 1))

	assert.Empty(t, reader.Read())
	assert.False(t, images.Contains(42))
}

func TestHandlesAreNeverReused(t *testing.T) {
	images := NewImages()

	a := images.Add(rgba(1, 1))
	images.Remove(a)

	b := images.Add(rgba(1, 1))
	assert.NotEqual(t, a, b)
}

func TestHandlesListsStoredImages(t *testing.T) {
	images := NewImages()

	assert.Empty(t, images.Handles())

	a := images.Add(rgba(1, 1))
	b := images.Add(rgba(1, 1))
	c := images.Add(rgba(1, 1))
	images.Remove(b)

	assert.Equal(t, []Handle{a, c}, images.Handles())
}
