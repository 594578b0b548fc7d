// Package bridge feeds per frame input into sketch contexts, drives their
// passes and collects their paint output, one independent context per render
// target. The render side of the pipeline lives in the render package.
package bridge

import (
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

type TargetKind uint8

const (
	// TargetWindow renders the ui pass into an os window surface.
	TargetWindow TargetKind = iota

	// TargetImage renders the ui pass into an offscreen image asset.
	TargetImage
)

func (k TargetKind) String() string {
	if k == TargetImage {
		return "image"
	}
	return "window"
}

// Window is the host owned description of an os window. An entity gains the
// full target state bundle as soon as it carries a Window component.
type Window struct {
	PhysicalWidth  uint32
	PhysicalHeight uint32
	ScaleFactor    float32
	Focused        bool

	// clear the surface before the ui pass instead of painting over whatever
	// the host rendered into it, for hosts without their own clear pass
	ClearBeforePaint bool

	// clear color used with ClearBeforePaint, rgba in [0,1]
	ClearColor [4]float64
}

// Primary marks the primary window.
type Primary struct{}

type LoadOp uint8

const (
	// LoadOpClear clears the target to ClearColor before the ui pass.
	LoadOpClear LoadOp = iota

	// LoadOpLoad keeps the existing pixels, the ui paints on top.
	LoadOpLoad
)

// RenderToImage marks an entity as an offscreen ui render target. The ui pass
// paints into the image asset behind Handle.
type RenderToImage struct {
	Handle stage.Handle
	Load   LoadOp

	// clear color used with LoadOpClear, rgba in [0,1]
	ClearColor [4]float64
}

// NewRenderToImage marks the image for clearing to transparent before paint.
func NewRenderToImage(handle stage.Handle) RenderToImage {
	return RenderToImage{Handle: handle, Load: LoadOpClear}
}

// Settings is the per target config host code may tweak at any time.
type Settings struct {
	// run the pass manually through Contexts instead of the pass driver
	RunManually bool

	// extra scale applied on top of the window scale factor
	ScaleFactor float32

	// target hint for opened links, "_self" if empty
	DefaultOpenUrlTarget string

	// report pointer hits over ui regions to host picking
	CapturePointerInput bool
}

func DefaultSettings() Settings {
	return Settings{
		ScaleFactor:         1,
		CapturePointerInput: true,
	}
}

// TargetSize stores the physical size and the effective scale factor of a
// render target.
type TargetSize struct {
	PhysicalWidth  float32
	PhysicalHeight float32
	ScaleFactor    float32
}

// Width is the logical width of the target.
func (s TargetSize) Width() float32 {
	if s.ScaleFactor == 0 {
		return 0
	}
	return s.PhysicalWidth / s.ScaleFactor
}

// Height is the logical height of the target.
func (s TargetSize) Height() float32 {
	if s.ScaleFactor == 0 {
		return 0
	}
	return s.PhysicalHeight / s.ScaleFactor
}

// RenderOutput is the per target paint buffer handed to the render side.
// Primitives are replaced every frame, the textures delta accumulates until
// the texture systems consume it.
type RenderOutput struct {
	Primitives    []sketch.Primitive
	TexturesDelta sketch.TexturesDelta
}

func (r *RenderOutput) IsEmpty() bool {
	return len(r.Primitives) == 0 && r.TexturesDelta.IsEmpty()
}

// TargetState is the core state bundle of one render target.
type TargetState struct {
	Ctx *sketch.Context

	// pending input, reset when the pass driver consumes it
	Input sketch.RawInput

	// output of the finished pass, nil once processed
	FullOutput *sketch.FullOutput

	RenderOutput RenderOutput

	// platform output of the last processed pass
	Output sketch.PlatformOutput

	Size     TargetSize
	Settings Settings

	// edge trigger state for ime enabled/disabled events
	imeActive bool
}

func newTargetState() *TargetState {
	return &TargetState{
		Ctx:      sketch.NewContext(),
		Settings: DefaultSettings(),
	}
}
