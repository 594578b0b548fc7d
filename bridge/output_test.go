package bridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oliverbestmann/quill/sketch"
)

type recordingOpener struct {
	url    string
	target string
}

func (r *recordingOpener) Open(url, target string) {
	r.url = url
	r.target = target
}

func TestCopiedTextReachesClipboard(t *testing.T) {
	clipboard := &MemoryClipboard{}

	f := newFixture(&Options{Clipboard: clipboard})
	f.spawnWindow(100, 100, 1)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.CopyText("hello")
	})

	f.run(t)
	assert.Equal(t, "hello", clipboard.Text())
}

func TestOpenUrlDefaultsToSelf(t *testing.T) {
	opener := &recordingOpener{}

	f := newFixture(&Options{UrlOpener: opener})
	f.spawnWindow(100, 100, 1)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.OpenUrl("https://example.com", false)
	})

	f.run(t)

	assert.Equal(t, "https://example.com", opener.url)
	assert.Equal(t, "_self", opener.target)
}

func TestOpenUrlNewTab(t *testing.T) {
	opener := &recordingOpener{}

	f := newFixture(&Options{UrlOpener: opener})
	f.spawnWindow(100, 100, 1)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.OpenUrl("https://example.com", true)
	})

	f.run(t)
	assert.Equal(t, "_blank", opener.target)
}

func TestOpenUrlCustomDefaultTarget(t *testing.T) {
	opener := &recordingOpener{}

	f := newFixture(&Options{UrlOpener: opener})
	entity := f.spawnWindow(100, 100, 1)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.OpenUrl("https://example.com", false)
	})

	// the settings only exist once the context is initialized
	f.sched.AddSystem(StageProcessInput, func() error {
		f.ui.Contexts().SettingsFor(entity).DefaultOpenUrlTarget = "_parent"
		return nil
	})

	f.run(t)
	assert.Equal(t, "_parent", opener.target)
}

func TestCursorIconIsPublished(t *testing.T) {
	f := newFixture(nil)
	entity := f.spawnWindow(100, 100, 1)

	f.addDrawSystem(func(ctx *sketch.Context) {
		ctx.SetCursorIcon(sketch.CursorText)
	})

	f.run(t)

	icon, ok := f.ui.Cursors.Get(entity)
	require.True(t, ok)
	assert.Equal(t, sketch.CursorText, icon)

	state, _ := f.ui.State(entity)
	assert.Equal(t, sketch.CursorText, state.Output.CursorIcon)
}
