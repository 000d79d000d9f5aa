package dom

import (
	"github.com/loomui/loom/style"
)

// Tree is the retained node arena. All reads and writes happen on the
// owning thread; the only concurrent part of the system is image
// decoding, which hands results back through a channel drained by the
// frame step.
type Tree struct {
	nodes map[NodeID]*Node
	root  NodeID

	// generation counts layout solves. Nodes stamped with an older
	// generation have not been laid out in the current tree shape.
	generation uint64

	layoutDirty bool
	scrollDirty bool

	// imageDirty holds image nodes whose src needs a (re)load request.
	imageDirty map[NodeID]struct{}

	// inDispatch is set while handlers run; a Reconcile arriving then is
	// validated eagerly but applied at the next FlushDeferred.
	inDispatch bool
	deferred   *Description

	dispatcher *Dispatcher
	selection  *Selection
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{
		nodes:      make(map[NodeID]*Node),
		imageDirty: make(map[NodeID]struct{}),
	}
}

// Root returns the root node id, NoNode while the tree is empty.
func (t *Tree) Root() NodeID { return t.root }

// Node returns the node with the given id, or nil.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Len returns the number of live nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Generation returns the current layout generation.
func (t *Tree) Generation() uint64 { return t.generation }

// Walk visits nodes depth-first in document order, parents before
// children, siblings first to last. Return false from fn to stop.
func (t *Tree) Walk(fn func(*Node) bool) {
	if t.root != NoNode {
		t.walkFrom(t.root, fn)
	}
}

func (t *Tree) walkFrom(id NodeID, fn func(*Node) bool) bool {
	n := t.nodes[id]
	if n == nil {
		return true
	}
	if !fn(n) {
		return false
	}
	for _, child := range n.children {
		if !t.walkFrom(child, fn) {
			return false
		}
	}
	return true
}

// Find returns the first node in document order matching fn, or nil.
func (t *Tree) Find(fn func(*Node) bool) *Node {
	var found *Node
	t.Walk(func(n *Node) bool {
		if fn(n) {
			found = n
			return false
		}
		return true
	})
	return found
}

// order returns the node's document-order position, or -1 when the node
// is not reachable from the root.
func (t *Tree) order(id NodeID) int {
	pos := -1
	i := 0
	t.Walk(func(n *Node) bool {
		if n.id == id {
			pos = i
			return false
		}
		i++
		return true
	})
	return pos
}

// ancestorChain returns the path from the root down to id, inclusive.
func (t *Tree) ancestorChain(id NodeID) []NodeID {
	var chain []NodeID
	for cur := id; cur != NoNode; {
		n := t.nodes[cur]
		if n == nil {
			break
		}
		chain = append(chain, cur)
		cur = n.parent
	}
	// Reverse so the root comes first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// SetScroll sets a node's scroll offsets, clamped to the scrollable
// range. Returns true when an offset changed; the next Step refreshes
// node rects without a layout solve.
func (t *Tree) SetScroll(id NodeID, x, y float32) bool {
	n := t.nodes[id]
	if n == nil {
		return false
	}
	maxX, maxY := n.maxScroll()
	x = clamp32(x, 0, maxX)
	y = clamp32(y, 0, maxY)
	if x == n.scrollX && y == n.scrollY {
		return false
	}
	n.scrollX = x
	n.scrollY = y
	t.scrollDirty = true
	return true
}

// SetImageSize records an image node's decoded intrinsic size and marks
// layout dirty when it changed. Unknown ids are ignored, which is how
// results for nodes destroyed while decoding get discarded.
func (t *Tree) SetImageSize(id NodeID, w, h float32) bool {
	n := t.nodes[id]
	if n == nil || n.kind != KindImage {
		return false
	}
	if n.naturalWidth == w && n.naturalHeight == h {
		return false
	}
	n.naturalWidth = w
	n.naturalHeight = h
	n.loadErr = nil
	t.layoutDirty = true
	return true
}

// SetImageError records a failed load on an image node. The node keeps
// its placeholder size; layout and input continue. Unknown ids are
// ignored, like results for destroyed nodes.
func (t *Tree) SetImageError(id NodeID, err error) bool {
	n := t.nodes[id]
	if n == nil || n.kind != KindImage {
		return false
	}
	n.loadErr = err
	return true
}

// NodesWithSrc returns the image nodes currently displaying src.
func (t *Tree) NodesWithSrc(src string) []NodeID {
	var out []NodeID
	t.Walk(func(n *Node) bool {
		if n.kind == KindImage && n.src == src {
			out = append(out, n.id)
		}
		return true
	})
	return out
}

// TakeImageRequests drains the set of image nodes needing a load.
func (t *Tree) TakeImageRequests() []NodeID {
	if len(t.imageDirty) == 0 {
		return nil
	}
	out := make([]NodeID, 0, len(t.imageDirty))
	for id := range t.imageDirty {
		if t.nodes[id] != nil {
			out = append(out, id)
		}
	}
	t.imageDirty = make(map[NodeID]struct{})
	return out
}

// Restyle resolves every node's style against the resolver, reusing the
// resolver's cache. Returns true when any node's style changed, which
// also marks layout dirty.
func (t *Tree) Restyle(r style.Resolver) bool {
	if r == nil {
		return false
	}
	changed := false
	for _, n := range t.nodes {
		resolved := r.Resolve(n.class, n.state)
		if resolved != n.style {
			n.style = resolved
			changed = true
		}
	}
	if changed {
		t.layoutDirty = true
	}
	return changed
}

// NeedsSolve reports whether structure, content or style changed since
// the last layout solve.
func (t *Tree) NeedsSolve() bool { return t.layoutDirty }

// NeedsScrollRefresh reports whether scroll offsets changed since rects
// were last resolved.
func (t *Tree) NeedsScrollRefresh() bool { return t.scrollDirty }

// MarkLayoutDirty forces a solve on the next step.
func (t *Tree) MarkLayoutDirty() { t.layoutDirty = true }

// setNodeState flips interaction flags used by state-variant styling.
func (t *Tree) setNodeState(id NodeID, flag style.State, on bool) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	if on {
		n.state |= flag
	} else {
		n.state &^= flag
	}
}

// setText replaces a text node's content and marks layout dirty. The
// caller is responsible for keeping selection and caret consistent.
func (t *Tree) setText(id NodeID, s string) {
	n := t.nodes[id]
	if n == nil || n.kind != KindText {
		return
	}
	if n.text == s {
		return
	}
	n.text = s
	t.layoutDirty = true
}

// destroyNode removes a node from the arena and silently clears any
// interaction or selection references to it. No events fire for
// destruction.
func (t *Tree) destroyNode(id NodeID) {
	n := t.nodes[id]
	if n == nil {
		return
	}
	delete(t.nodes, id)
	delete(t.imageDirty, id)
	if t.dispatcher != nil {
		t.dispatcher.nodeDestroyed(id)
	}
	if t.selection != nil {
		t.selection.nodeDestroyed(id)
	}
	if t.root == id {
		t.root = NoNode
	}
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
