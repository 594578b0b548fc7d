package bridge

import (
	"fmt"

	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// Contexts is the handle host systems use to reach into a target's ui
// context and the user texture registry.
type Contexts struct {
	ui *UI
}

func (ui *UI) Contexts() Contexts {
	return Contexts{ui: ui}
}

// Ctx returns the context of the primary window. Panics if no primary window
// context was initialized, that indicates the calling system runs before the
// init-contexts stage.
func (c Contexts) Ctx() *sketch.Context {
	ctx, ok := c.TryCtx()
	if !ok {
		panic("bridge: Contexts.Ctx called for an uninitialized primary window context, " +
			"make sure the calling system runs after the quill:init-contexts stage")
	}
	return ctx
}

// TryCtx is the fallible variant of Ctx.
func (c Contexts) TryCtx() (*sketch.Context, bool) {
	for _, entity := range c.ui.Primaries.Entities() {
		if state, ok := c.ui.targets.Get(entity); ok {
			return state.Ctx, true
		}
	}
	return nil, false
}

// CtxForEntity returns the context of a specific render target. Panics if the
// entity has no initialized context.
func (c Contexts) CtxForEntity(entity stage.Entity) *sketch.Context {
	ctx, ok := c.TryCtxForEntity(entity)
	if !ok {
		panic(fmt.Sprintf(
			"bridge: Contexts.CtxForEntity called for an uninitialized context (entity %d), "+
				"make sure the calling system runs after the quill:init-contexts stage", entity.Index))
	}
	return ctx
}

// TryCtxForEntity is the fallible variant of CtxForEntity.
func (c Contexts) TryCtxForEntity(entity stage.Entity) (*sketch.Context, bool) {
	state, ok := c.ui.targets.Get(entity)
	if !ok {
		return nil, false
	}
	return state.Ctx, true
}

// SettingsFor returns the mutable settings of a render target.
func (c Contexts) SettingsFor(entity stage.Entity) *Settings {
	state, ok := c.ui.targets.Get(entity)
	if !ok {
		panic(fmt.Sprintf(
			"bridge: Contexts.SettingsFor called for an uninitialized context (entity %d)", entity.Index))
	}
	return &state.Settings
}

// TakeInput hands the accumulated input of a manually driven target to the
// caller, resetting the pending buffer.
func (c Contexts) TakeInput(entity stage.Entity) sketch.RawInput {
	state, ok := c.ui.targets.Get(entity)
	if !ok {
		panic(fmt.Sprintf(
			"bridge: Contexts.TakeInput called for an uninitialized context (entity %d)", entity.Index))
	}
	return state.Input.Take()
}

// SubmitOutput feeds the output of a manually driven pass back into the
// frame pipeline, as if the pass driver had produced it.
func (c Contexts) SubmitOutput(entity stage.Entity, output sketch.FullOutput) {
	state, ok := c.ui.targets.Get(entity)
	if !ok {
		panic(fmt.Sprintf(
			"bridge: Contexts.SubmitOutput called for an uninitialized context (entity %d)", entity.Index))
	}
	state.FullOutput = &output
}

// AddImage registers an image asset as a user texture. Idempotent per handle.
func (c Contexts) AddImage(handle stage.Handle) sketch.TextureId {
	return c.ui.user.AddImage(handle)
}

// RemoveImage drops the user texture registration of the handle.
func (c Contexts) RemoveImage(handle stage.Handle) (sketch.TextureId, bool) {
	return c.ui.user.RemoveImage(handle)
}

// ImageId looks up the user texture id of the handle.
func (c Contexts) ImageId(handle stage.Handle) (sketch.TextureId, bool) {
	return c.ui.user.ImageId(handle)
}
