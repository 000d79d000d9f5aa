package dom

import (
	"math"

	"github.com/loomui/loom/style"
)

// DefaultDragThreshold is the pointer travel in pixels that separates a
// click from a drag.
const DefaultDragThreshold = 4

// Dispatcher turns raw input into semantic events and runs propagation.
//
// Raw input arrives through PointerMove, PointerDown, PointerUp,
// KeyDown, KeyUp, TextInput and Scroll. The dispatcher tracks the
// hovered, focused and pressed nodes, applies the drag threshold,
// routes text-run presses to the selection instead of dragging, and
// performs editing on editable text nodes.
//
// Every semantic event propagates capture first, from the root down to
// the target's parent, then fires at the target, then bubbles back to
// the root. StopPropagation halts delivery at any point, including
// during capture, before the target has seen the event.
type Dispatcher struct {
	tree      *Tree
	selection *Selection
	threshold float32

	hovered NodeID
	focused NodeID
	pressed NodeID

	pressPoint  Point
	pressButton MouseButton
	lastPoint   Point
	haveLast    bool
	dragLast    Point

	// thresholdExceeded latches once the pointer travels past the drag
	// threshold during a press; it decides drag versus click.
	thresholdExceeded bool
	dragging          bool
	selecting         bool

	// depth counts nested dispatches so reconciles arriving from any
	// handler defer until the outermost dispatch returns.
	depth int
}

// NewDispatcher wires a dispatcher to a tree. selection may be nil for
// trees without text selection; threshold zero or below selects
// DefaultDragThreshold.
func NewDispatcher(tree *Tree, selection *Selection, threshold float32) *Dispatcher {
	if threshold <= 0 {
		threshold = DefaultDragThreshold
	}
	d := &Dispatcher{tree: tree, selection: selection, threshold: threshold}
	tree.dispatcher = d
	return d
}

// Hovered returns the node currently under the pointer.
func (d *Dispatcher) Hovered() NodeID { return d.hovered }

// Focused returns the node holding keyboard focus.
func (d *Dispatcher) Focused() NodeID { return d.focused }

// Pressed returns the node a pointer button went down on, while held.
func (d *Dispatcher) Pressed() NodeID { return d.pressed }

// Dragging reports whether the current press crossed the threshold and
// is delivering ondrag events.
func (d *Dispatcher) Dragging() bool { return d.dragging }

// ============================================================
// Raw input
// ============================================================

// PointerMove processes pointer motion: hover bookkeeping, onmousemove
// to the node under the pointer, and drag or selection updates while a
// button is held.
func (d *Dispatcher) PointerMove(x, y float32, mods Modifiers) {
	p := Point{X: x, Y: y}
	if !d.haveLast {
		d.lastPoint = p
		d.haveLast = true
	}
	dx := p.X - d.lastPoint.X
	dy := p.Y - d.lastPoint.Y
	d.lastPoint = p

	hit := d.tree.HitTest(p)
	d.updateHover(hit)

	if hit != NoNode {
		ev := acquirePointerEvent(EventMouseMove, hit, x, y, dx, dy, ButtonNone, mods)
		d.dispatch(ev)
		releasePointerEvent(ev)
	}

	if d.pressed == NoNode {
		return
	}
	if !d.thresholdExceeded && pointDistance(p, d.pressPoint) > d.threshold {
		d.thresholdExceeded = true
		if !d.selecting {
			d.dragging = true
			d.dragLast = d.pressPoint
		}
	}
	if d.selecting {
		if d.selection != nil {
			d.selection.ExtendTo(p)
		}
		return
	}
	if d.dragging {
		ddx := p.X - d.dragLast.X
		ddy := p.Y - d.dragLast.Y
		d.dragLast = p
		ev := acquirePointerEvent(EventDrag, d.pressed, x, y, ddx, ddy, d.pressButton, mods)
		d.dispatch(ev)
		releasePointerEvent(ev)
	}
}

// PointerDown starts a press gesture. Focus transfers to the nearest
// focusable node at or above the hit, blurring the previous holder
// first; a press with no focusable node under it clears focus. A press
// on a text run begins a selection gesture, so later movement extends
// the selection instead of dragging.
func (d *Dispatcher) PointerDown(x, y float32, button MouseButton, mods Modifiers) {
	p := Point{X: x, Y: y}
	hit := d.tree.HitTest(p)

	d.setFocus(d.focusTarget(hit))

	d.pressed = hit
	d.pressPoint = p
	d.lastPoint = p
	d.haveLast = true
	d.pressButton = button
	d.thresholdExceeded = false
	d.dragging = false
	d.selecting = false

	if hit == NoNode {
		if d.selection != nil {
			d.selection.Clear()
		}
		return
	}
	d.tree.setNodeState(hit, style.StatePress, true)

	n := d.tree.Node(hit)
	if n != nil && n.kind == KindText {
		if d.selection != nil {
			if off, ok := d.selection.CaretFromPoint(hit, p); ok {
				if n.editable {
					n.caret = off
				}
				d.selection.Begin(hit, off)
				// Only a started selection gesture suppresses ondrag.
				d.selecting = true
			}
		}
	} else if d.selection != nil {
		d.selection.Clear()
	}
}

// PointerUp ends a press gesture. A release over the pressed node that
// never crossed the drag threshold is a click.
func (d *Dispatcher) PointerUp(x, y float32, button MouseButton, mods Modifiers) {
	p := Point{X: x, Y: y}
	hit := d.tree.HitTest(p)

	wasPressed := d.pressed
	clicked := wasPressed != NoNode && !d.thresholdExceeded && hit == wasPressed

	if wasPressed != NoNode {
		d.tree.setNodeState(wasPressed, style.StatePress, false)
	}
	d.pressed = NoNode
	d.dragging = false
	d.selecting = false
	d.thresholdExceeded = false

	if clicked {
		ev := acquirePointerEvent(EventClick, wasPressed, x, y, 0, 0, button, mods)
		d.dispatch(ev)
		releasePointerEvent(ev)
	}
}

// KeyDown applies editing keys when the focused node is an editable
// text run, then delivers onkeydown. Edits land first so oninput
// precedes the key event carrying the key that caused it. repeat marks
// auto-repeated presses; they edit like any other press.
func (d *Dispatcher) KeyDown(key string, r rune, mods Modifiers, repeat bool) {
	target := d.focused
	if target == NoNode {
		return
	}
	n := d.tree.Node(target)
	if n != nil && n.kind == KindText && n.editable {
		d.editKey(n, key, mods)
	}

	ev := acquireKeyEvent(EventKeyDown, target, key, r, mods, repeat)
	d.dispatch(ev)
	releaseKeyEvent(ev)
}

// KeyUp delivers onkeyup to the focused node.
func (d *Dispatcher) KeyUp(key string, r rune, mods Modifiers) {
	if d.focused == NoNode {
		return
	}
	ev := acquireKeyEvent(EventKeyUp, d.focused, key, r, mods, false)
	d.dispatch(ev)
	releaseKeyEvent(ev)
}

// TextInput inserts text at the focused editable node's caret,
// replacing the selection when one lies inside the node.
func (d *Dispatcher) TextInput(text string) {
	if text == "" || d.focused == NoNode {
		return
	}
	n := d.tree.Node(d.focused)
	if n == nil || n.kind != KindText || !n.editable {
		return
	}
	if start, end, ok := d.selectionWithin(n.id); ok && start != end {
		d.replaceText(n, start, end, text)
		return
	}
	d.replaceText(n, n.caret, n.caret, text)
}

// Scroll applies wheel input to the nearest scrollable node at the
// pointer, walking ancestors when the innermost one is already at its
// limit. Positive deltas scroll content down and right.
func (d *Dispatcher) Scroll(x, y, dx, dy float32, mods Modifiers) {
	p := Point{X: x, Y: y}
	for id := d.tree.HitTest(p); id != NoNode; {
		n := d.tree.Node(id)
		if n == nil {
			return
		}
		nx, ny := n.scrollX, n.scrollY
		if dx != 0 && n.scrollableX() {
			nx += dx
		}
		if dy != 0 && n.scrollableY() {
			ny += dy
		}
		if d.tree.SetScroll(id, nx, ny) {
			return
		}
		id = n.parent
	}
}

// ============================================================
// Focus
// ============================================================

// focusTarget finds the node a press at hit moves focus to: the hit
// node when it accepts focus, else its nearest accepting ancestor.
// NoNode when nothing on the chain takes focus, which clears it.
func (d *Dispatcher) focusTarget(hit NodeID) NodeID {
	for id := hit; id != NoNode; {
		n := d.tree.Node(id)
		if n == nil {
			return NoNode
		}
		if n.acceptsFocus() {
			return id
		}
		id = n.parent
	}
	return NoNode
}

// setFocus moves keyboard focus. The old node's onblur dispatch runs to
// completion before the new node's onfocus begins; the two are never
// interleaved.
func (d *Dispatcher) setFocus(id NodeID) {
	if d.focused == id {
		return
	}
	old := d.focused
	if old != NoNode {
		d.tree.setNodeState(old, style.StateFocus, false)
		d.dispatch(newFocusEvent(EventBlur, old, id))
	}
	if id != NoNode && d.tree.Node(id) == nil {
		id = NoNode
	}
	d.focused = id
	if id != NoNode {
		d.tree.setNodeState(id, style.StateFocus, true)
		d.dispatch(newFocusEvent(EventFocus, id, old))
	}
}

// ============================================================
// Editing
// ============================================================

func (d *Dispatcher) editKey(n *Node, key string, mods Modifiers) {
	runes := []rune(n.text)
	switch key {
	case "Backspace":
		if start, end, ok := d.selectionWithin(n.id); ok && start != end {
			d.replaceText(n, start, end, "")
		} else if n.caret > 0 {
			d.replaceText(n, n.caret-1, n.caret, "")
		}
	case "Delete":
		if start, end, ok := d.selectionWithin(n.id); ok && start != end {
			d.replaceText(n, start, end, "")
		} else if n.caret < len(runes) {
			d.replaceText(n, n.caret, n.caret+1, "")
		}
	case "ArrowLeft":
		d.moveCaret(n, n.caret-1, mods.HasShift())
	case "ArrowRight":
		d.moveCaret(n, n.caret+1, mods.HasShift())
	case "Home":
		d.moveCaret(n, 0, mods.HasShift())
	case "End":
		d.moveCaret(n, len(runes), mods.HasShift())
	case "a", "A":
		if mods.HasCtrl() || mods.HasSuper() {
			if d.selection != nil {
				d.selection.SelectAll(n.id)
			}
			n.caret = len(runes)
		}
	}
}

// moveCaret moves the caret, extending the selection when shift is
// held and collapsing it otherwise.
func (d *Dispatcher) moveCaret(n *Node, to int, extend bool) {
	if to < 0 {
		to = 0
	}
	if l := len([]rune(n.text)); to > l {
		to = l
	}
	if d.selection != nil {
		if extend {
			if _, _, ok := d.selectionWithin(n.id); !ok {
				d.selection.Begin(n.id, n.caret)
			}
			d.selection.ExtendToCaret(Caret{Node: n.id, Offset: to})
		} else {
			d.selection.Clear()
		}
	}
	n.caret = to
}

// replaceText splices the rune range [start, end) with insert, places
// the caret after the insertion, collapses any selection, and fires
// oninput with the new content.
func (d *Dispatcher) replaceText(n *Node, start, end int, insert string) {
	runes := []rune(n.text)
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start > end {
		start, end = end, start
	}
	newText := string(runes[:start]) + insert + string(runes[end:])
	if newText == n.text {
		return
	}
	d.tree.setText(n.id, newText)
	n.caret = start + len([]rune(insert))
	if d.selection != nil {
		d.selection.Clear()
	}
	d.dispatch(newInputEvent(n.id, insert, newText))
}

func (d *Dispatcher) selectionWithin(id NodeID) (start, end int, ok bool) {
	if d.selection == nil {
		return 0, 0, false
	}
	return d.selection.rangeWithin(id)
}

// ============================================================
// Propagation
// ============================================================

// dispatch delivers one event along its target's ancestor chain:
// capture handlers from the root down, the target's handler, then
// bubble handlers back up. Checks IsPropagationStopped after every
// handler. Reconciles requested by handlers defer until the outermost
// dispatch returns.
func (d *Dispatcher) dispatch(ev Event) {
	target := ev.Target()
	if target == NoNode {
		return
	}
	chain := d.tree.ancestorChain(target)
	if len(chain) == 0 {
		return
	}

	d.depth++
	d.tree.inDispatch = true
	defer func() {
		d.depth--
		if d.depth == 0 {
			d.tree.inDispatch = false
		}
	}()

	sev := ev.(settableEvent)

	for i := 0; i < len(chain)-1; i++ {
		n := d.tree.Node(chain[i])
		if n == nil {
			continue
		}
		h := n.capture[ev.Type()]
		if h == nil {
			continue
		}
		sev.setPhase(PhaseCapture)
		sev.setCurrentTarget(chain[i])
		h(ev)
		if ev.IsPropagationStopped() {
			return
		}
	}

	if n := d.tree.Node(target); n != nil {
		if h := n.handlers[ev.Type()]; h != nil {
			sev.setPhase(PhaseTarget)
			sev.setCurrentTarget(target)
			h(ev)
			if ev.IsPropagationStopped() {
				return
			}
		}
	}

	for i := len(chain) - 2; i >= 0; i-- {
		n := d.tree.Node(chain[i])
		if n == nil {
			continue
		}
		h := n.handlers[ev.Type()]
		if h == nil {
			continue
		}
		sev.setPhase(PhaseBubble)
		sev.setCurrentTarget(chain[i])
		h(ev)
		if ev.IsPropagationStopped() {
			return
		}
	}
}

// nodeDestroyed resets any gesture or focus reference to a node removed
// by reconcile. No synthetic events fire; the press, hover or focus
// simply ends.
func (d *Dispatcher) nodeDestroyed(id NodeID) {
	if d.hovered == id {
		d.hovered = NoNode
	}
	if d.focused == id {
		d.focused = NoNode
	}
	if d.pressed == id {
		d.pressed = NoNode
		d.dragging = false
		d.selecting = false
		d.thresholdExceeded = false
	}
}

func (d *Dispatcher) updateHover(hit NodeID) {
	if hit == d.hovered {
		return
	}
	if d.hovered != NoNode {
		d.tree.setNodeState(d.hovered, style.StateHover, false)
	}
	d.hovered = hit
	if hit != NoNode {
		d.tree.setNodeState(hit, style.StateHover, true)
	}
}

func pointDistance(a, b Point) float32 {
	return float32(math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y)))
}
