package bridge

import (
	"image"
	"image/draw"
	"log/slog"

	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// TextureKey addresses a managed texture. Managed ids are scoped per render
// target, two targets may use the same local id for different textures.
type TextureKey struct {
	Target stage.Entity
	Id     uint64
}

// ManagedTexture is a texture allocated by a ui context. The full pixel
// buffer stays resident so partial patches can be applied to it.
type ManagedTexture struct {
	Handle stage.Handle
	Pixels *image.RGBA
}

type ManagedTextures map[TextureKey]*ManagedTexture

// UserTextures maps host owned image assets to global user texture ids.
type UserTextures struct {
	byHandle map[stage.Handle]uint64
	byId     map[uint64]stage.Handle
	next     uint64
}

func NewUserTextures() *UserTextures {
	return &UserTextures{
		byHandle: map[stage.Handle]uint64{},
		byId:     map[uint64]stage.Handle{},
	}
}

// AddImage registers an asset as a user texture. Registration is idempotent
// per handle, the id counter is never reused.
func (u *UserTextures) AddImage(handle stage.Handle) sketch.TextureId {
	if id, ok := u.byHandle[handle]; ok {
		return sketch.UserTextureId(id)
	}

	id := u.next
	u.next++

	slog.Debug("Add user texture",
		slog.Uint64("id", id),
		slog.Uint64("handle", uint64(handle)),
	)

	u.byHandle[handle] = id
	u.byId[id] = handle

	return sketch.UserTextureId(id)
}

// RemoveImage drops the registration and returns the previously assigned id.
func (u *UserTextures) RemoveImage(handle stage.Handle) (sketch.TextureId, bool) {
	id, ok := u.byHandle[handle]
	if !ok {
		return sketch.TextureId{}, false
	}

	delete(u.byHandle, handle)
	delete(u.byId, id)

	return sketch.UserTextureId(id), true
}

// ImageId returns the id assigned to the handle, if registered.
func (u *UserTextures) ImageId(handle stage.Handle) (sketch.TextureId, bool) {
	id, ok := u.byHandle[handle]
	if !ok {
		return sketch.TextureId{}, false
	}
	return sketch.UserTextureId(id), true
}

func (u *UserTextures) handleOf(id uint64) (stage.Handle, bool) {
	handle, ok := u.byId[id]
	return handle, ok
}

// Each visits all registrations as (user id, handle) pairs.
func (u *UserTextures) Each(fn func(id uint64, handle stage.Handle)) {
	for id, handle := range u.byId {
		fn(id, handle)
	}
}

// ResolveTexture maps a texture id referenced by a draw primitive of the
// given target to its backing asset handle. A miss is not fatal, the caller
// drops the primitive for the frame.
func (ui *UI) ResolveTexture(target stage.Entity, id sketch.TextureId) (stage.Handle, bool) {
	switch id.Kind() {
	case sketch.TextureUser:
		return ui.user.handleOf(id.Id())

	default:
		managed, ok := ui.managed[TextureKey{Target: target, Id: id.Id()}]
		if !ok {
			return 0, false
		}
		return managed.Handle, true
	}
}

// ManagedTextures exposes the managed texture table, used by extraction.
func (ui *UI) ManagedTextures() ManagedTextures {
	return ui.managed
}

// UserTextures exposes the user texture registry.
func (ui *UI) UserTextures() *UserTextures {
	return ui.user
}

// updateTexturesSystem applies the set half of every target's texture delta:
// full uploads replace the managed texture, patches update the resident
// pixels in place and re-upload them as a new asset version.
func (ui *UI) updateTexturesSystem() error {
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		set := state.RenderOutput.TexturesDelta.Set
		state.RenderOutput.TexturesDelta.Set = nil

		for _, ts := range set {
			if ts.Id.Kind() != sketch.TextureManaged {
				continue
			}

			key := TextureKey{Target: entity, Id: ts.Id.Id()}

			if ts.Pos == nil {
				ui.applyFullUpload(key, ts.Image)
			} else {
				ui.applyPatch(key, ts.Image, *ts.Pos)
			}
		}
	}

	return nil
}

func (ui *UI) applyFullUpload(key TextureKey, src *image.RGBA) {
	pixels := cloneRGBA(src)

	if existing, ok := ui.managed[key]; ok {
		existing.Pixels = pixels
		ui.assets.Set(existing.Handle, pixels)
		return
	}

	ui.managed[key] = &ManagedTexture{
		Handle: ui.assets.Add(pixels),
		Pixels: pixels,
	}
}

func (ui *UI) applyPatch(key TextureKey, src *image.RGBA, pos image.Point) {
	managed, ok := ui.managed[key]
	if !ok {
		slog.Warn("Partial update of a missing texture",
			slog.Uint64("target", uint64(key.Target.Index)),
			slog.Uint64("id", key.Id),
		)
		return
	}

	bounds := src.Bounds()
	rect := image.Rect(pos.X, pos.Y, pos.X+bounds.Dx(), pos.Y+bounds.Dy())
	draw.Draw(managed.Pixels, rect, src, bounds.Min, draw.Src)

	ui.assets.Set(managed.Handle, managed.Pixels)
}

// freeTexturesSystem handles the free half of the texture deltas, drops the
// managed textures of destroyed targets and invalidates user texture
// registrations whose assets were removed.
func (ui *UI) freeTexturesSystem() error {
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		free := state.RenderOutput.TexturesDelta.Free
		state.RenderOutput.TexturesDelta.Free = nil

		for _, id := range free {
			if id.Kind() != sketch.TextureManaged {
				continue
			}

			key := TextureKey{Target: entity, Id: id.Id()}
			if managed, ok := ui.managed[key]; ok {
				delete(ui.managed, key)
				ui.assets.Remove(managed.Handle)
			}
		}
	}

	// textures owned by targets that no longer exist
	for key, managed := range ui.managed {
		if !ui.targets.Has(key.Target) {
			delete(ui.managed, key)
			ui.assets.Remove(managed.Handle)
		}
	}

	for _, event := range ui.assetEvents.Read() {
		if event.Kind != stage.AssetRemoved {
			continue
		}

		if id, ok := ui.user.RemoveImage(event.Handle); ok {
			slog.Debug("Invalidate user texture of removed asset",
				slog.Uint64("id", id.Id()),
				slog.Uint64("handle", uint64(event.Handle)),
			)
		}
	}

	return nil
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}
