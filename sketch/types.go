// Package sketch is a minimal immediate mode paint layer. A Context collects
// clipped draw primitives between BeginPass and EndPass, tracks the textures it
// manages as a per-frame delta, and reports platform requests (cursor icon,
// copied text, opened urls, ime state) as part of its full output.
//
// sketch deliberately contains no widget or layout logic. Host code paints
// through the Painter and decides itself what a click means.
package sketch

import "image"

type TextureKind uint8

const (
	// TextureManaged identifies a texture allocated by a Context. Managed ids
	// are only unique within a single Context.
	TextureManaged TextureKind = iota

	// TextureUser identifies a texture registered by host code. User ids are
	// globally unique.
	TextureUser
)

// TextureId names a texture referenced by a Mesh. It is a tagged value, the
// managed and user id spaces do not collide even when the numeric ids are equal.
type TextureId struct {
	kind TextureKind
	id   uint64
}

func ManagedTextureId(id uint64) TextureId {
	return TextureId{kind: TextureManaged, id: id}
}

func UserTextureId(id uint64) TextureId {
	return TextureId{kind: TextureUser, id: id}
}

func (t TextureId) Kind() TextureKind {
	return t.kind
}

func (t TextureId) Id() uint64 {
	return t.id
}

// Vertex layout matches the wire layout the renderer uploads, position and uv
// in texel space, color as straight rgba bytes.
type Vertex struct {
	Position Vec2f
	UV       Vec2f
	Color    [4]uint8
}

type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Texture  TextureId
}

// PaintCallback is invoked by the render node with the raw render pass handle,
// typed as any so sketch stays independent of the gpu api.
type PaintCallback func(pass any)

// Primitive is one clipped unit of paint output. Exactly one of Mesh or
// Callback is set. Primitives are ordered, later ones paint over earlier ones.
type Primitive struct {
	ClipRect Rect2f
	Mesh     *Mesh
	Callback PaintCallback
}

// TextureSet describes one texture upload. A nil Pos means a full upload
// replacing the texture, otherwise Image patches the sub rectangle at Pos.
type TextureSet struct {
	Id    TextureId
	Image *image.RGBA
	Pos   *image.Point
}

// TexturesDelta lists the texture changes since the previous pass.
type TexturesDelta struct {
	Set  []TextureSet
	Free []TextureId
}

func (d *TexturesDelta) IsEmpty() bool {
	return len(d.Set) == 0 && len(d.Free) == 0
}

type CursorIcon uint8

const (
	CursorDefault CursorIcon = iota
	CursorPointer
	CursorText
	CursorCrosshair
	CursorNotAllowed
)

// OpenUrl is a request to open an url in a browser.
type OpenUrl struct {
	Url string

	// open in a new tab instead of the current one, only matters on web
	NewTab bool
}

// PlatformOutput carries the non-paint results of a pass.
type PlatformOutput struct {
	CursorIcon CursorIcon

	// text to place into the clipboard, empty if nothing was copied
	CopiedText string

	OpenUrl *OpenUrl

	// screen rect of the current text edit, tells the host where to place a
	// virtual keyboard or ime candidate window
	ImeRect *Rect2f
}

// FullOutput is everything a finished pass produced.
type FullOutput struct {
	Primitives    []Primitive
	TexturesDelta TexturesDelta
	Platform      PlatformOutput
}
