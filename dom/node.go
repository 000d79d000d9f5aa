package dom

import (
	"github.com/loomui/loom/style"
)

// NodeID identifies a node across reconciles. IDs are assigned by the
// caller in the description; zero is reserved for "no node".
type NodeID uint64

// NoNode is the absent node id.
const NoNode NodeID = 0

// NodeKind selects a node's behavior.
type NodeKind string

const (
	// KindContainer groups children and may scroll or clip them.
	KindContainer NodeKind = "container"
	// KindText holds a run of text. Text nodes are leaves.
	KindText NodeKind = "text"
	// KindImage displays a decoded image at its intrinsic size. Leaves.
	KindImage NodeKind = "image"
)

func validKind(k NodeKind) bool {
	switch k {
	case KindContainer, KindText, KindImage:
		return true
	}
	return false
}

// Node is one retained element in the tree. Nodes are created, updated,
// moved and destroyed exclusively by Tree.Reconcile; identity is carried
// by the id, so a node keeps its scroll position, interaction state and
// caret across reconciles that preserve its id.
type Node struct {
	id       NodeID
	kind     NodeKind
	parent   NodeID
	children []NodeID

	class     string
	text      string
	src       string
	editable  bool
	focusable bool
	clip      bool
	attrs     map[string]string

	handlers map[EventType]Handler
	capture  map[EventType]Handler

	style *style.Style
	state style.State

	scrollX float32
	scrollY float32

	// Intrinsic image size, zero until the source is decoded. loadErr
	// records a failed decode so the consumer can render a fallback.
	naturalWidth  float32
	naturalHeight float32
	loadErr       error

	// Layout results. local is the engine's parent-relative box, rect and
	// clipped are root-relative and scroll-adjusted. generation records
	// the last solve that visited the node.
	local      Rect
	rect       Rect
	clipped    Rect
	content    Size
	generation uint64

	// Caret rune offset for editable text nodes.
	caret int
}

// ID returns the node's identity.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node's kind.
func (n *Node) Kind() NodeKind { return n.kind }

// Parent returns the parent id, or NoNode for the root.
func (n *Node) Parent() NodeID { return n.parent }

// Children returns the node's children in order. The slice is owned by
// the tree and must not be modified.
func (n *Node) Children() []NodeID { return n.children }

// Class returns the node's class attribute.
func (n *Node) Class() string { return n.class }

// Text returns the content of a text node.
func (n *Node) Text() string { return n.text }

// Src returns the source of an image node.
func (n *Node) Src() string { return n.src }

// Editable reports whether a text node accepts editing input.
func (n *Node) Editable() bool { return n.editable }

// Focusable reports whether a pointer press moves keyboard focus to the
// node. Editable text runs take focus regardless of the flag.
func (n *Node) Focusable() bool { return n.focusable }

// ClipToBounds reports whether the node clips its children even when
// its overflow style is visible.
func (n *Node) ClipToBounds() bool { return n.clip }

// Attr returns a free-form attribute value.
func (n *Node) Attr(name string) string { return n.attrs[name] }

// Style returns the node's resolved style. Resolved styles are shared
// and must not be mutated.
func (n *Node) Style() *style.Style { return n.style }

// State returns the node's interaction flags.
func (n *Node) State() style.State { return n.state }

// Rect returns the root-relative box from the last layout solve,
// adjusted for ancestor scroll offsets.
func (n *Node) Rect() Rect { return n.rect }

// VisibleRect returns the node's box intersected with every clipping
// ancestor. An empty rect means the node is fully clipped out.
func (n *Node) VisibleRect() Rect { return n.clipped }

// ContentSize returns the extent of the node's content, which can exceed
// the box when the node scrolls.
func (n *Node) ContentSize() Size { return n.content }

// ScrollOffset returns the current scroll offsets.
func (n *Node) ScrollOffset() (x, y float32) { return n.scrollX, n.scrollY }

// NaturalSize returns an image node's intrinsic size, zero before the
// source has decoded.
func (n *Node) NaturalSize() Size {
	return Size{Width: n.naturalWidth, Height: n.naturalHeight}
}

// LoadError returns the error from the node's last failed image load,
// nil while loading or after a successful decode.
func (n *Node) LoadError() error { return n.loadErr }

// acceptsFocus reports whether a press on the node moves focus to it.
func (n *Node) acceptsFocus() bool {
	return n.focusable || (n.kind == KindText && n.editable)
}

// Generation returns the solve generation that last visited this node.
// A node whose generation trails the tree's has not been laid out in the
// current tree shape.
func (n *Node) Generation() uint64 { return n.generation }

// Caret returns the caret rune offset of an editable text node.
func (n *Node) Caret() int { return n.caret }

// Handler returns the bubble-phase handler registered for the event
// type, or nil.
func (n *Node) Handler(t EventType) Handler { return n.handlers[t] }

// maxScroll returns the clamping limits for the node's scroll offsets.
func (n *Node) maxScroll() (x, y float32) {
	x = max32(0, n.content.Width-n.local.Width)
	y = max32(0, n.content.Height-n.local.Height)
	return x, y
}

// scrollableX reports whether the node accepts horizontal scroll input.
func (n *Node) scrollableX() bool {
	return n.style != nil && n.style.OverflowX.Scrollable()
}

func (n *Node) scrollableY() bool {
	return n.style != nil && n.style.OverflowY.Scrollable()
}

// clipsChildren reports whether children render inside the node's box.
func (n *Node) clipsChildren() bool {
	if n.clip {
		return true
	}
	if n.style == nil {
		return false
	}
	return n.style.OverflowX != style.OverflowVisible || n.style.OverflowY != style.OverflowVisible
}
