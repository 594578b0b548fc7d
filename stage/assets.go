package stage

import (
	"image"
	"log/slog"
	"slices"
)

// Handle references an image in the asset store. The zero Handle is never
// assigned.
type Handle uint64

type AssetEventKind uint8

const (
	AssetAdded AssetEventKind = iota
	AssetModified
	AssetRemoved
)

type AssetEvent struct {
	Kind   AssetEventKind
	Handle Handle
}

// Images is the image asset store. Mutations append change events that any
// number of subscribed readers consume independently.
type Images struct {
	next   Handle
	images map[Handle]*image.RGBA

	events  []AssetEvent
	readers []*AssetEvents
}

func NewImages() *Images {
	return &Images{
		images: map[Handle]*image.RGBA{},
	}
}

func (s *Images) Add(img *image.RGBA) Handle {
	s.next++
	handle := s.next

	s.images[handle] = img
	s.push(AssetEvent{Kind: AssetAdded, Handle: handle})

	return handle
}

// Set replaces the pixels behind an existing handle, bumping the asset to a
// new version.
func (s *Images) Set(handle Handle, img *image.RGBA) {
	if _, ok := s.images[handle]; !ok {
		slog.Warn("Set on unknown image handle", slog.Uint64("handle", uint64(handle)))
		return
	}

	s.images[handle] = img
	s.push(AssetEvent{Kind: AssetModified, Handle: handle})
}

func (s *Images) Get(handle Handle) (*image.RGBA, bool) {
	img, ok := s.images[handle]
	return img, ok
}

func (s *Images) Contains(handle Handle) bool {
	_, ok := s.images[handle]
	return ok
}

func (s *Images) Remove(handle Handle) {
	if _, ok := s.images[handle]; !ok {
		return
	}

	delete(s.images, handle)
	s.push(AssetEvent{Kind: AssetRemoved, Handle: handle})
}

func (s *Images) Len() int {
	return len(s.images)
}

// Handles returns the handles of all stored images, in ascending order.
func (s *Images) Handles() []Handle {
	handles := make([]Handle, 0, len(s.images))
	for handle := range s.images {
		handles = append(handles, handle)
	}

	slices.Sort(handles)
	return handles
}

// Subscribe returns a reader positioned after all events sent so far.
func (s *Images) Subscribe() *AssetEvents {
	reader := &AssetEvents{store: s, cursor: len(s.events)}
	s.readers = append(s.readers, reader)
	return reader
}

func (s *Images) push(event AssetEvent) {
	s.events = append(s.events, event)
}

// compact drops events every reader has consumed.
func (s *Images) compact() {
	low := len(s.events)
	for _, reader := range s.readers {
		low = min(low, reader.cursor)
	}

	if low == 0 {
		return
	}

	s.events = append([]AssetEvent(nil), s.events[low:]...)
	for _, reader := range s.readers {
		reader.cursor -= low
	}
}

// AssetEvents is a per consumer cursor over the event log of an Images store.
type AssetEvents struct {
	store  *Images
	cursor int
}

// Read returns the events sent since the previous Read.
func (r *AssetEvents) Read() []AssetEvent {
	events := r.store.events[r.cursor:]
	r.cursor = len(r.store.events)
	r.store.compact()

	if len(events) == 0 {
		return nil
	}

	return append([]AssetEvent(nil), events...)
}
