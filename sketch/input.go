package sketch

type PointerButton uint8

const (
	PointerPrimary PointerButton = iota
	PointerSecondary
	PointerMiddle
)

type Key uint16

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyTab
	KeyBackspace
	KeyEnter
	KeySpace
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
	KeyA
	KeyC
	KeyV
	KeyX
	KeyZ
)

type Modifiers struct {
	Alt     bool
	Ctrl    bool
	Shift   bool
	Command bool
}

type EventKind uint8

const (
	EventPointerMoved EventKind = iota
	EventPointerButton
	EventPointerGone
	EventScroll
	EventKey
	EventText
	EventTouch
	EventImeEnabled
	EventImeDisabled
	EventImePreedit
	EventImeCommit
)

// Event is a single already translated input event. Which fields are
// meaningful depends on Kind.
type Event struct {
	Kind EventKind

	Position Vec2f
	Button   PointerButton
	Pressed  bool

	ScrollDelta Vec2f

	Key       Key
	Modifiers Modifiers

	// text payload of EventText, EventImePreedit and EventImeCommit
	Text string

	TouchId uint64
}

// RawInput is the accumulated input for one pass of one Context.
type RawInput struct {
	// logical coordinates of the full render target
	ScreenRect Rect2f

	// pixels per logical point
	PixelsPerPoint float32

	// seconds since the previous pass
	PredictedDT float32

	Modifiers Modifiers
	Events    []Event

	Focused bool
}

// Take returns the accumulated input and resets the buffer for the next frame.
// Sticky state (screen rect, scale, modifiers, focus) survives the reset.
func (r *RawInput) Take() RawInput {
	taken := *r
	taken.Events = append([]Event(nil), r.Events...)
	r.Events = r.Events[:0]
	return taken
}
