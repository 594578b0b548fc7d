package bridge

import (
	"github.com/oliverbestmann/quill/sketch"
	"github.com/oliverbestmann/quill/stage"
)

type queuedEvent struct {
	target stage.Entity
	event  sketch.Event
}

// PushEvent queues an already translated input event for a render target.
// The input backend owns the raw event translation.
func (ui *UI) PushEvent(target stage.Entity, event sketch.Event) {
	ui.pendingEvents = append(ui.pendingEvents, queuedEvent{target: target, event: event})
}

// processInputSystem drains the queued events into the pending input buffer
// of each target and tags the input with the current size and scale.
func (ui *UI) processInputSystem() error {
	for _, queued := range ui.pendingEvents {
		state, ok := ui.targets.Get(queued.target)
		if !ok {
			// input for an entity that is not (or no longer) a target
			continue
		}

		ui.translateEvent(state, queued.event)
	}

	ui.pendingEvents = ui.pendingEvents[:0]

	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		state.Input.ScreenRect = sketch.RectFromSize(
			sketch.Vec2f{},
			sketch.Vec2f{state.Size.Width(), state.Size.Height()},
		)
		state.Input.PixelsPerPoint = state.Size.ScaleFactor

		if window, ok := ui.Windows.Get(entity); ok {
			state.Input.Focused = window.Focused
		}
	}

	return nil
}

// translateEvent appends the event, keeping ime enabled/disabled transitions
// edge triggered: enabled is sent at most once per continuous ime period.
func (ui *UI) translateEvent(state *TargetState, event sketch.Event) {
	switch event.Kind {
	case sketch.EventImeEnabled:
		if state.imeActive {
			return
		}
		state.imeActive = true

	case sketch.EventImeDisabled:
		if !state.imeActive {
			return
		}
		state.imeActive = false

	case sketch.EventImePreedit, sketch.EventImeCommit:
		// an ime composition implies an active ime period
		if !state.imeActive {
			state.imeActive = true
			state.Input.Events = append(state.Input.Events, sketch.Event{Kind: sketch.EventImeEnabled})
		}

	case sketch.EventKey:
		state.Input.Modifiers = event.Modifiers
	}

	state.Input.Events = append(state.Input.Events, event)
}
