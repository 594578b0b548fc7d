package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliverbestmann/quill/sketch"
)

// manualFixture creates a window target in manual mode, so the pending input
// buffer survives the schedule run and can be inspected.
func manualFixture(t *testing.T) (*fixture, *TargetState) {
	t.Helper()

	f := newFixture(nil)
	entity := f.spawnWindow(800, 600, 2)

	f.run(t)
	f.ui.Contexts().SettingsFor(entity).RunManually = true

	state, ok := f.ui.State(entity)
	require.True(t, ok)

	return f, state
}

func TestInputIsTaggedWithSizeAndScale(t *testing.T) {
	f, state := manualFixture(t)

	f.run(t)

	assert.Equal(t, sketch.RectFromSize(sketch.Vec2f{}, sketch.Vec2f{400, 300}), state.Input.ScreenRect)
	assert.Equal(t, float32(2), state.Input.PixelsPerPoint)
	assert.True(t, state.Input.Focused)
}

func TestEventsReachTheTarget(t *testing.T) {
	f, state := manualFixture(t)

	f.ui.PushEvent(f.ui.Targets()[0], sketch.Event{
		Kind:     sketch.EventPointerMoved,
		Position: sketch.Vec2f{10, 20},
	})

	f.run(t)

	require.Len(t, state.Input.Events, 1)
	assert.Equal(t, sketch.EventPointerMoved, state.Input.Events[0].Kind)

	// taking the input resets the buffer but keeps the sticky tags
	input := state.Input.Take()
	assert.Len(t, input.Events, 1)
	assert.Empty(t, state.Input.Events)
	assert.Equal(t, float32(2), state.Input.PixelsPerPoint)
}

func TestEventsForUnknownTargetsAreDropped(t *testing.T) {
	f, state := manualFixture(t)

	ghost := f.world.Spawn()
	f.ui.PushEvent(ghost, sketch.Event{Kind: sketch.EventPointerGone})

	f.run(t)
	assert.Empty(t, state.Input.Events)
}

func TestImeEnabledIsEdgeTriggered(t *testing.T) {
	f, state := manualFixture(t)
	target := f.ui.Targets()[0]

	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImeEnabled})
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImeEnabled})
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImePreedit, Text: "に"})
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImeCommit, Text: "日"})
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImeDisabled})
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImeDisabled})

	f.run(t)

	kinds := eventKinds(state.Input.Events)
	assert.Equal(t, []sketch.EventKind{
		sketch.EventImeEnabled,
		sketch.EventImePreedit,
		sketch.EventImeCommit,
		sketch.EventImeDisabled,
	}, kinds)
}

func TestImeCompositionImpliesEnabled(t *testing.T) {
	f, state := manualFixture(t)
	target := f.ui.Targets()[0]

	// a preedit without a preceding enabled event synthesizes one
	f.ui.PushEvent(target, sketch.Event{Kind: sketch.EventImePreedit, Text: "a"})

	f.run(t)

	kinds := eventKinds(state.Input.Events)
	assert.Equal(t, []sketch.EventKind{
		sketch.EventImeEnabled,
		sketch.EventImePreedit,
	}, kinds)
}

func TestKeyEventsUpdateModifiers(t *testing.T) {
	f, state := manualFixture(t)
	target := f.ui.Targets()[0]

	f.ui.PushEvent(target, sketch.Event{
		Kind:      sketch.EventKey,
		Key:       sketch.KeyC,
		Pressed:   true,
		Modifiers: sketch.Modifiers{Ctrl: true},
	})

	f.run(t)

	assert.True(t, state.Input.Modifiers.Ctrl)
	assert.False(t, state.Input.Modifiers.Shift)
}

func eventKinds(events []sketch.Event) []sketch.EventKind {
	kinds := make([]sketch.EventKind, 0, len(events))
	for _, ev := range events {
		kinds = append(kinds, ev.Kind)
	}
	return kinds
}
