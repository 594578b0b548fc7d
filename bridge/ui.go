package bridge

import (
	"log/slog"

	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

// The simulation side schedule stages, in execution order. Host ui systems
// belong into StageUpdate, between pass begin and end.
const (
	StageInitContexts   stage.StageLabel = "quill:init-contexts"
	StageProcessInput   stage.StageLabel = "quill:process-input"
	StageBeginPass      stage.StageLabel = "quill:begin-pass"
	StageUpdate         stage.StageLabel = "quill:update"
	StageEndPass        stage.StageLabel = "quill:end-pass"
	StageProcessOutput  stage.StageLabel = "quill:process-output"
	StageUpdateTextures stage.StageLabel = "quill:update-textures"
	StageFreeTextures   stage.StageLabel = "quill:free-textures"
)

// Stages returns the canonical simulation stage order.
func Stages() []stage.StageLabel {
	return []stage.StageLabel{
		StageInitContexts,
		StageProcessInput,
		StageBeginPass,
		StageUpdate,
		StageEndPass,
		StageProcessOutput,
		StageUpdateTextures,
		StageFreeTextures,
	}
}

type Options struct {
	// destination of copied text, in memory if nil
	Clipboard Clipboard

	// receiver of opened urls, logged if nil
	UrlOpener UrlOpener
}

// UI is the simulation side state of the bridge, tracking every active render
// target with its context, buffers and textures.
type UI struct {
	world  *stage.World
	assets *stage.Images

	// asset removal events invalidating user texture registrations
	assetEvents *stage.AssetEvents

	// host owned marker components
	Windows        *stage.Table[*Window]
	RenderToImages *stage.Table[*RenderToImage]
	Primaries      *stage.Table[Primary]

	// per target cursor icon, written from platform output
	Cursors *stage.Table[sketch.CursorIcon]

	targets *stage.Table[*TargetState]

	managed ManagedTextures
	user    *UserTextures

	pendingEvents []queuedEvent

	clipboard Clipboard
	opener    UrlOpener
}

func NewUI(world *stage.World, assets *stage.Images, opts *Options) *UI {
	if opts == nil {
		opts = &Options{}
	}

	clipboard := opts.Clipboard
	if clipboard == nil {
		clipboard = &MemoryClipboard{}
	}

	opener := opts.UrlOpener
	if opener == nil {
		opener = LogUrlOpener{}
	}

	return &UI{
		world:          world,
		assets:         assets,
		assetEvents:    assets.Subscribe(),
		Windows:        stage.NewTable[*Window](world),
		RenderToImages: stage.NewTable[*RenderToImage](world),
		Primaries:      stage.NewTable[Primary](world),
		Cursors:        stage.NewTable[sketch.CursorIcon](world),
		targets:        stage.NewTable[*TargetState](world),
		managed:        ManagedTextures{},
		user:           NewUserTextures(),
		clipboard:      clipboard,
		opener:         opener,
	}
}

// Install registers the bridge systems into their schedule stages. The
// schedule must contain all stages returned by Stages.
func (ui *UI) Install(sched *stage.Schedule) {
	sched.AddSystem(StageInitContexts, ui.initContextsSystem)
	sched.AddSystem(StageProcessInput, ui.processInputSystem)
	sched.AddSystem(StageBeginPass, ui.beginPassSystem)
	sched.AddSystem(StageEndPass, ui.endPassSystem)
	sched.AddSystem(StageProcessOutput, ui.processOutputSystem)
	sched.AddSystem(StageUpdateTextures, ui.updateTexturesSystem)
	sched.AddSystem(StageFreeTextures, ui.freeTexturesSystem)
}

// NewSchedule builds a schedule with the canonical stages and the bridge
// systems installed.
func (ui *UI) NewSchedule() *stage.Schedule {
	sched := stage.NewSchedule(Stages()...)
	ui.Install(sched)
	return sched
}

// initContextsSystem inserts the target state bundle for entities that became
// render targets and tears state down for entities that stopped being one.
func (ui *UI) initContextsSystem() error {
	ui.Windows.Each(func(entity stage.Entity, window *Window) {
		if !ui.targets.Has(entity) {
			slog.Debug("Initialize ui context",
				slog.Uint64("entity", uint64(entity.Index)),
				slog.String("kind", TargetWindow.String()),
			)

			ui.targets.Insert(entity, newTargetState())
			ui.Cursors.Insert(entity, sketch.CursorDefault)
		}
	})

	ui.RenderToImages.Each(func(entity stage.Entity, rti *RenderToImage) {
		// only insert once the image handle actually resolves
		if !ui.targets.Has(entity) && ui.assets.Contains(rti.Handle) {
			slog.Debug("Initialize ui context",
				slog.Uint64("entity", uint64(entity.Index)),
				slog.String("kind", TargetImage.String()),
			)

			ui.targets.Insert(entity, newTargetState())
		}
	})

	// refresh sizes and drop state of entities that lost their marker
	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		switch {
		case ui.Windows.Has(entity):
			window, _ := ui.Windows.Get(entity)
			state.Size = TargetSize{
				PhysicalWidth:  float32(window.PhysicalWidth),
				PhysicalHeight: float32(window.PhysicalHeight),
				ScaleFactor:    window.ScaleFactor * state.Settings.ScaleFactor,
			}

		case ui.RenderToImages.Has(entity):
			rti, _ := ui.RenderToImages.Get(entity)
			if img, ok := ui.assets.Get(rti.Handle); ok {
				bounds := img.Bounds()
				state.Size = TargetSize{
					PhysicalWidth:  float32(bounds.Dx()),
					PhysicalHeight: float32(bounds.Dy()),
					ScaleFactor:    state.Settings.ScaleFactor,
				}
			}

		default:
			slog.Debug("Tear down ui context", slog.Uint64("entity", uint64(entity.Index)))
			ui.targets.Remove(entity)
			ui.Cursors.Remove(entity)
		}
	}

	return nil
}

// Targets returns the entities currently owning a target state bundle.
func (ui *UI) Targets() []stage.Entity {
	return ui.targets.Entities()
}

// TargetKindOf reports the kind of a live render target.
func (ui *UI) TargetKindOf(entity stage.Entity) (TargetKind, bool) {
	if !ui.targets.Has(entity) {
		return TargetWindow, false
	}

	if ui.Windows.Has(entity) {
		return TargetWindow, true
	}

	return TargetImage, true
}

// State exposes the raw target state bundle, mostly useful to the render side
// and to tests.
func (ui *UI) State(entity stage.Entity) (*TargetState, bool) {
	return ui.targets.Get(entity)
}

// Assets returns the image store the ui was created with.
func (ui *UI) Assets() *stage.Images {
	return ui.assets
}
