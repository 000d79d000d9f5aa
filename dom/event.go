package dom

// EventType identifies one of the semantic events a node can handle.
type EventType uint8

const (
	// EventFocus fires on the node gaining keyboard focus.
	EventFocus EventType = iota + 1
	// EventBlur fires on the node losing keyboard focus, always before
	// the next node's EventFocus.
	EventBlur
	// EventDrag fires on the pressed node once the pointer travels past
	// the drag threshold, then on every further move until release.
	EventDrag
	// EventInput fires on an editable text node after its content
	// changed through typing, deletion or selection replacement.
	EventInput
	// EventKeyDown fires on the focused node for every key press.
	EventKeyDown
	// EventKeyUp fires on the focused node for every key release.
	EventKeyUp
	// EventClick fires on a node when the pointer is released over it
	// while it was the pressed node and no drag started.
	EventClick
	// EventMouseMove fires on the node under the pointer for every move.
	EventMouseMove
	// EventLayout fires on a node whose geometry changed in a layout
	// solve, at most once per solve, after the whole solve completed.
	EventLayout
	// EventSelect fires when the selected text changes, including
	// changes to and from empty.
	EventSelect
)

func (t EventType) String() string {
	switch t {
	case EventFocus:
		return "onfocus"
	case EventBlur:
		return "onblur"
	case EventDrag:
		return "ondrag"
	case EventInput:
		return "oninput"
	case EventKeyDown:
		return "onkeydown"
	case EventKeyUp:
		return "onkeyup"
	case EventClick:
		return "onclick"
	case EventMouseMove:
		return "onmousemove"
	case EventLayout:
		return "onlayout"
	case EventSelect:
		return "onselect"
	default:
		return "unknown"
	}
}

// EventPhase is the stage of propagation an event is currently in.
type EventPhase uint8

const (
	PhaseNone EventPhase = iota
	// PhaseCapture runs from the root down to the target's parent.
	PhaseCapture
	// PhaseTarget is delivery at the target itself.
	PhaseTarget
	// PhaseBubble runs from the target's parent back up to the root.
	PhaseBubble
)

// MouseButton identifies a pointer button.
type MouseButton uint8

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// Modifiers is a bitmask of held modifier keys.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
)

// HasShift reports whether shift is held.
func (m Modifiers) HasShift() bool { return m&ModShift != 0 }

// HasCtrl reports whether control is held.
func (m Modifiers) HasCtrl() bool { return m&ModCtrl != 0 }

// HasAlt reports whether alt is held.
func (m Modifiers) HasAlt() bool { return m&ModAlt != 0 }

// HasSuper reports whether the platform command key is held.
func (m Modifiers) HasSuper() bool { return m&ModSuper != 0 }

// Event is the interface all semantic events satisfy. Handlers receive
// the concrete type matching the event: PointerEvent for ondrag, onclick
// and onmousemove, KeyEvent for onkeydown and onkeyup, FocusEvent for
// onfocus and onblur, InputEvent for oninput, LayoutEvent for onlayout
// and SelectEvent for onselect.
//
// Pooled events (PointerEvent, KeyEvent) are recycled after dispatch
// returns; handlers must not retain them.
type Event interface {
	// Type returns the semantic event type.
	Type() EventType
	// Target returns the node the event is addressed to.
	Target() NodeID
	// CurrentTarget returns the node whose handler is currently running.
	CurrentTarget() NodeID
	// Phase returns the current propagation phase.
	Phase() EventPhase
	// StopPropagation prevents delivery to any further node. Capture
	// handlers can stop an event before it reaches the target.
	StopPropagation()
	// IsPropagationStopped reports whether StopPropagation was called.
	IsPropagationStopped() bool
}

// Handler consumes a semantic event. Registration happens through the
// description; a node has at most one handler per event type.
type Handler func(Event)

// eventBase carries the propagation state shared by all event types.
type eventBase struct {
	eventType          EventType
	target             NodeID
	currentTarget      NodeID
	phase              EventPhase
	propagationStopped bool
}

func (e *eventBase) Type() EventType            { return e.eventType }
func (e *eventBase) Target() NodeID             { return e.target }
func (e *eventBase) CurrentTarget() NodeID      { return e.currentTarget }
func (e *eventBase) Phase() EventPhase          { return e.phase }
func (e *eventBase) StopPropagation()           { e.propagationStopped = true }
func (e *eventBase) IsPropagationStopped() bool { return e.propagationStopped }

func (e *eventBase) setPhase(p EventPhase)     { e.phase = p }
func (e *eventBase) setCurrentTarget(id NodeID) { e.currentTarget = id }

// settableEvent is satisfied by every concrete event through the
// embedded eventBase; the dispatcher uses it to advance phase state.
type settableEvent interface {
	setPhase(EventPhase)
	setCurrentTarget(NodeID)
}

// PointerEvent carries pointer position and button state. X and Y are
// root coordinates; DeltaX and DeltaY are movement since the previous
// pointer event of the gesture (for ondrag, since the last drag event).
type PointerEvent struct {
	eventBase
	X      float32
	Y      float32
	DeltaX float32
	DeltaY float32
	Button MouseButton
	Mods   Modifiers
}

// Position returns the pointer position as a point.
func (e *PointerEvent) Position() Point { return Point{X: e.X, Y: e.Y} }

// KeyEvent carries one key transition. Key is the logical key name
// ("a", "Enter", "Backspace", "ArrowLeft"); Rune is the character the
// key produces, or zero for non-printing keys. Repeat is set on key
// events generated by the platform's auto-repeat, never on onkeyup.
type KeyEvent struct {
	eventBase
	Key    string
	Rune   rune
	Mods   Modifiers
	Repeat bool
}

// FocusEvent accompanies focus transfer. On onblur, Related is the node
// about to gain focus; on onfocus, the node that lost it. NoNode when
// focus moved from or to nothing.
type FocusEvent struct {
	eventBase
	Related NodeID
}

// LayoutEvent reports a node's geometry after a solve changed it.
type LayoutEvent struct {
	eventBase
	Rect    Rect
	Content Size
}

// InputEvent reports an edit to an editable text node. Inserted is the
// text added by the edit (empty for pure deletions); Content is the
// node's full text after the edit.
type InputEvent struct {
	eventBase
	Inserted string
	Content  string
}

// SelectEvent reports that the selected text changed. Text is the new
// selected text; Active is false when the selection was cleared.
type SelectEvent struct {
	eventBase
	Text   string
	Active bool
}

func newFocusEvent(t EventType, target, related NodeID) *FocusEvent {
	return &FocusEvent{eventBase: eventBase{eventType: t, target: target}, Related: related}
}

func newLayoutEvent(target NodeID, rect Rect, content Size) *LayoutEvent {
	return &LayoutEvent{eventBase: eventBase{eventType: EventLayout, target: target}, Rect: rect, Content: content}
}

func newInputEvent(target NodeID, inserted, content string) *InputEvent {
	return &InputEvent{eventBase: eventBase{eventType: EventInput, target: target}, Inserted: inserted, Content: content}
}

func newSelectEvent(target NodeID, text string, active bool) *SelectEvent {
	return &SelectEvent{eventBase: eventBase{eventType: EventSelect, target: target}, Text: text, Active: active}
}
