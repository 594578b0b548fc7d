package sketch

// Painter collects clipped primitives for the active pass. Paint order is
// draw order, later primitives cover earlier ones.
type Painter struct {
	ctx   *Context
	clip  Rect2f
	prims []Primitive
}

// SetClipRect sets the clip rect for subsequent primitives.
func (p *Painter) SetClipRect(clip Rect2f) {
	p.clip = clip
}

func (p *Painter) ClipRect() Rect2f {
	return p.clip
}

// RectFilled paints a solid rectangle using the builtin atlas.
func (p *Painter) RectFilled(rect Rect2f, color [4]uint8) {
	white := WhiteUV()

	p.Mesh(&Mesh{
		Texture: AtlasTextureId,
		Vertices: []Vertex{
			{Position: rect.Min, UV: white, Color: color},
			{Position: Vec2f{rect.Max[0], rect.Min[1]}, UV: white, Color: color},
			{Position: rect.Max, UV: white, Color: color},
			{Position: Vec2f{rect.Min[0], rect.Max[1]}, UV: white, Color: color},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	})
}

// Image paints a textured rectangle. uv is in normalized texture coordinates.
func (p *Painter) Image(rect Rect2f, texture TextureId, uv Rect2f, tint [4]uint8) {
	p.Mesh(&Mesh{
		Texture: texture,
		Vertices: []Vertex{
			{Position: rect.Min, UV: uv.Min, Color: tint},
			{Position: Vec2f{rect.Max[0], rect.Min[1]}, UV: Vec2f{uv.Max[0], uv.Min[1]}, Color: tint},
			{Position: rect.Max, UV: uv.Max, Color: tint},
			{Position: Vec2f{rect.Min[0], rect.Max[1]}, UV: Vec2f{uv.Min[0], uv.Max[1]}, Color: tint},
		},
		Indices: []uint32{0, 1, 2, 2, 3, 0},
	})
}

// Mesh appends an arbitrary mesh under the current clip rect.
func (p *Painter) Mesh(mesh *Mesh) {
	if len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return
	}

	p.prims = append(p.prims, Primitive{
		ClipRect: p.clip,
		Mesh:     mesh,
	})
}

// Callback appends a paint callback that the render node invokes with the raw
// render pass handle.
func (p *Painter) Callback(cb PaintCallback) {
	if cb == nil {
		return
	}

	p.prims = append(p.prims, Primitive{
		ClipRect: p.clip,
		Callback: cb,
	})
}
