package bridge

import (
	"log/slog"

	"github.com/oliverbestmann/quill/stage"
)

// Clipboard receives text copied from a ui pass. Platform backends are
// external, the default keeps the text in memory.
type Clipboard interface {
	SetText(text string)
	Text() string
}

type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) SetText(text string) {
	c.text = text
}

func (c *MemoryClipboard) Text() string {
	return c.text
}

// UrlOpener receives open url requests from a ui pass. target is a link
// target hint ("_self", "_blank", ...), only meaningful on web.
type UrlOpener interface {
	Open(url, target string)
}

// LogUrlOpener only logs the request, the default outside a browser.
type LogUrlOpener struct{}

func (LogUrlOpener) Open(url, target string) {
	slog.Info("Open url",
		slog.String("url", url),
		slog.String("target", target),
	)
}

// CapturedPointer reports the render targets whose ui wants the pointer this
// frame, so host picking can suppress clicks that hit ui regions. Only
// targets with CapturePointerInput enabled are reported.
func (ui *UI) CapturedPointer() []stage.Entity {
	var captured []stage.Entity

	for _, entity := range ui.targets.Entities() {
		state, _ := ui.targets.Get(entity)

		if state.Settings.CapturePointerInput && state.Ctx.WantsPointerInput() {
			captured = append(captured, entity)
		}
	}

	return captured
}
