package sketch

import (
	"image"
	"image/draw"
	"log/slog"
)

// atlasSize is the side length of the builtin texture of a Context. The atlas
// only contains a solid white block so untextured shapes can share the texture
// bind group of everything else painted from the atlas.
const atlasSize = 8

// AtlasTextureId is the managed id of the builtin atlas of every Context.
var AtlasTextureId = ManagedTextureId(0)

// Context is the per render target paint state. It is not safe for concurrent
// use, a Context must never be shared between render targets.
type Context struct {
	pass *passState

	passCount uint64

	pointerPos     Vec2f
	pointerDown    map[PointerButton]bool
	pointerPressed map[PointerButton]bool

	atlas     *image.RGBA
	atlasSent bool

	nextManagedId uint64

	pendingSet  []TextureSet
	pendingFree []TextureId

	wantsPointer bool
}

type passState struct {
	input    RawInput
	painter  Painter
	platform PlatformOutput
}

func NewContext() *Context {
	atlas := image.NewRGBA(image.Rect(0, 0, atlasSize, atlasSize))
	draw.Draw(atlas, atlas.Bounds(), image.NewUniform(image.White), image.Point{}, draw.Src)

	return &Context{
		atlas:          atlas,
		nextManagedId:  1,
		pointerDown:    map[PointerButton]bool{},
		pointerPressed: map[PointerButton]bool{},
	}
}

// BeginPass starts a new pass with the given input. Panics if the previous
// pass was not finished with EndPass.
func (c *Context) BeginPass(input RawInput) {
	if c.pass != nil {
		panic("sketch: BeginPass called while a pass is active, missing EndPass")
	}

	clear(c.pointerPressed)

	for _, ev := range input.Events {
		switch ev.Kind {
		case EventPointerMoved:
			c.pointerPos = ev.Position

		case EventPointerButton:
			c.pointerDown[ev.Button] = ev.Pressed
			if ev.Pressed {
				c.pointerPos = ev.Position
				c.pointerPressed[ev.Button] = true
			}
		}
	}

	c.pass = &passState{input: input}
	c.pass.painter.ctx = c
	c.pass.painter.clip = input.ScreenRect
}

// EndPass finishes the current pass and returns everything it produced.
// Panics if no pass is active.
func (c *Context) EndPass() FullOutput {
	if c.pass == nil {
		panic("sketch: EndPass called without BeginPass")
	}

	pass := c.pass
	c.pass = nil
	c.passCount++

	delta := TexturesDelta{
		Set:  c.pendingSet,
		Free: c.pendingFree,
	}

	c.pendingSet = nil
	c.pendingFree = nil

	if !c.atlasSent {
		c.atlasSent = true

		atlas := image.NewRGBA(c.atlas.Bounds())
		draw.Draw(atlas, atlas.Bounds(), c.atlas, image.Point{}, draw.Src)

		// the atlas upload must precede anything painted from it
		delta.Set = append([]TextureSet{{Id: AtlasTextureId, Image: atlas}}, delta.Set...)
	}

	c.wantsPointer = false
	for _, prim := range pass.painter.prims {
		if prim.ClipRect.Contains(c.pointerPos) {
			c.wantsPointer = true
			break
		}
	}

	return FullOutput{
		Primitives:    pass.painter.prims,
		TexturesDelta: delta,
		Platform:      pass.platform,
	}
}

// Run is the non-manual driving mode, one BeginPass/EndPass pair around fn.
func (c *Context) Run(input RawInput, fn func(ctx *Context)) FullOutput {
	c.BeginPass(input)
	if fn != nil {
		fn(c)
	}
	return c.EndPass()
}

// Painter returns the painter of the active pass. Panics outside a pass.
func (c *Context) Painter() *Painter {
	return &c.activePass().painter
}

func (c *Context) activePass() *passState {
	if c.pass == nil {
		panic("sketch: no pass is active, call BeginPass first")
	}

	return c.pass
}

func (c *Context) PassCount() uint64 {
	return c.passCount
}

// PointerPosition is the latest known pointer position in logical coordinates.
func (c *Context) PointerPosition() Vec2f {
	return c.pointerPos
}

func (c *Context) IsPointerDown(button PointerButton) bool {
	return c.pointerDown[button]
}

// PointerPressed reports if the button was pressed by the input of the
// current pass.
func (c *Context) PointerPressed(button PointerButton) bool {
	return c.pointerPressed[button]
}

// WantsPointerInput reports if the last finished pass painted anything under
// the pointer. Host picking uses this to suppress clicks that hit the ui.
func (c *Context) WantsPointerInput() bool {
	return c.wantsPointer
}

func (c *Context) PixelsPerPoint() float32 {
	if c.pass == nil {
		return 1
	}

	if c.pass.input.PixelsPerPoint == 0 {
		return 1
	}

	return c.pass.input.PixelsPerPoint
}

func (c *Context) SetCursorIcon(icon CursorIcon) {
	c.activePass().platform.CursorIcon = icon
}

func (c *Context) CopyText(text string) {
	c.activePass().platform.CopiedText = text
}

func (c *Context) OpenUrl(url string, newTab bool) {
	c.activePass().platform.OpenUrl = &OpenUrl{Url: url, NewTab: newTab}
}

func (c *Context) SetImeRect(rect Rect2f) {
	r := rect
	c.activePass().platform.ImeRect = &r
}

// AllocTexture allocates a new managed texture from the image and queues its
// full upload for the next EndPass.
func (c *Context) AllocTexture(img *image.RGBA) TextureId {
	id := ManagedTextureId(c.nextManagedId)
	c.nextManagedId++

	slog.Debug("Allocate managed texture", slog.Uint64("id", id.Id()))

	c.pendingSet = append(c.pendingSet, TextureSet{Id: id, Image: img})
	return id
}

// PatchTexture queues a partial update of a managed texture, writing img at
// pos into the previously uploaded pixels.
func (c *Context) PatchTexture(id TextureId, img *image.RGBA, pos image.Point) {
	p := pos
	c.pendingSet = append(c.pendingSet, TextureSet{Id: id, Image: img, Pos: &p})
}

// FreeTexture queues the managed texture for deallocation.
func (c *Context) FreeTexture(id TextureId) {
	c.pendingFree = append(c.pendingFree, id)
}

// WhiteUV is the uv coordinate of a solid white texel in the builtin atlas.
func WhiteUV() Vec2f {
	return Vec2f{0.5, 0.5}
}
