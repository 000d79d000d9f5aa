package dom

import (
	"log"
	"math"

	"github.com/loomui/loom/style"
)

// TextMeasurer turns text plus style into geometry. Measurement must be
// pure: identical inputs produce identical results, with no hidden state
// observable by the layout engine.
type TextMeasurer interface {
	// MeasureText returns the size of content wrapped to maxWidth.
	MeasureText(content string, st *style.Style, maxWidth float32) Size
	// CaretIndex maps a point in the text's local coordinates to the
	// nearest rune boundary.
	CaretIndex(content string, st *style.Style, maxWidth float32, local Point) int
	// CaretRect returns the caret box before the rune at index, in the
	// text's local coordinates.
	CaretRect(content string, st *style.Style, maxWidth float32, index int) Rect
}

// LayoutBox is one node's result from a layout engine: a parent-relative
// box plus the content extent, which exceeds the box when the node
// scrolls. Content left zero defaults to the box size.
type LayoutBox struct {
	Local   Rect
	Content Size
}

// LayoutEngine computes parent-relative boxes for every node reachable
// from the tree's root. The adapter treats the engine as opaque: it
// sanitizes non-finite outputs, resolves root-relative rects, applies
// scroll offsets and clipping, and fires layout events. Engines receive
// the measurer for sizing text nodes.
type LayoutEngine interface {
	Solve(tree *Tree, viewport Size, measure TextMeasurer) map[NodeID]LayoutBox
}

// Adapter drives a LayoutEngine against a tree.
type Adapter struct {
	tree     *Tree
	engine   LayoutEngine
	measure  TextMeasurer
	viewport Size

	// contentChanged carries per-solve content deltas from box
	// application into the rect resolution walk.
	contentChanged map[NodeID]struct{}
}

// NewAdapter wires an engine and measurer to a tree.
func NewAdapter(tree *Tree, engine LayoutEngine, measure TextMeasurer) *Adapter {
	return &Adapter{tree: tree, engine: engine, measure: measure}
}

// Viewport returns the current viewport size.
func (a *Adapter) Viewport() Size { return a.viewport }

// SetViewport updates the viewport and forces a solve on the next step.
func (a *Adapter) SetViewport(s Size) {
	if s == a.viewport {
		return
	}
	a.viewport = s
	a.tree.layoutDirty = true
}

type layoutChange struct {
	id      NodeID
	rect    Rect
	content Size
}

// Solve runs the engine and applies its results: non-finite values are
// clamped to zero, scroll offsets re-clamped against the new content
// extents, root-relative rects and clips resolved, and the generation
// advanced. Nodes whose box or content changed receive one onlayout
// each, fired only after the whole solve completed. Returns the number
// of changed nodes.
func (a *Adapter) Solve() int {
	t := a.tree
	if t.root == NoNode {
		t.layoutDirty = false
		t.scrollDirty = false
		return 0
	}

	boxes := a.engine.Solve(t, a.viewport, a.measure)
	a.contentChanged = make(map[NodeID]struct{})
	for id, box := range boxes {
		n := t.nodes[id]
		if n == nil {
			continue
		}
		n.local = sanitizeRect(id, box.Local)
		content := sanitizeSize(id, box.Content)
		if content.Width == 0 && content.Height == 0 {
			content = Size{Width: n.local.Width, Height: n.local.Height}
		}
		if content != n.content {
			a.contentChanged[id] = struct{}{}
		}
		n.content = content
	}

	a.clampScrollOffsets()

	t.generation++
	var changes []layoutChange
	a.resolveRects(t.root, Point{}, unboundedRect(), true, &changes)

	t.layoutDirty = false
	t.scrollDirty = false

	if t.dispatcher != nil {
		for _, ch := range changes {
			t.dispatcher.dispatch(newLayoutEvent(ch.id, ch.rect, ch.content))
		}
	}
	return len(changes)
}

// RefreshScroll re-resolves root-relative rects after scroll offsets
// changed. No generation bump, no layout events: scrolling moves
// content without resizing anything.
func (a *Adapter) RefreshScroll() {
	t := a.tree
	if t.root != NoNode {
		a.resolveRects(t.root, Point{}, unboundedRect(), false, nil)
	}
	t.scrollDirty = false
}

// clampScrollOffsets pulls every scroll offset back into the range
// allowed by the node's content extent, so shrinking content never
// leaves a node scrolled past its end.
func (a *Adapter) clampScrollOffsets() {
	for _, n := range a.tree.nodes {
		maxX, maxY := n.maxScroll()
		n.scrollX = clamp32(n.scrollX, 0, maxX)
		n.scrollY = clamp32(n.scrollY, 0, maxY)
	}
}

// resolveRects walks the tree converting parent-relative boxes into
// root-relative rects. origin is the parent's content origin after its
// scroll offsets; clip is the intersection of all clipping ancestors.
func (a *Adapter) resolveRects(id NodeID, origin Point, clip Rect, stamp bool, changes *[]layoutChange) {
	t := a.tree
	n := t.nodes[id]
	if n == nil {
		return
	}

	abs := Rect{
		X:      origin.X + n.local.X,
		Y:      origin.Y + n.local.Y,
		Width:  n.local.Width,
		Height: n.local.Height,
	}

	if stamp {
		_, contentMoved := a.contentChanged[id]
		if n.generation == 0 || abs != n.rect || contentMoved {
			*changes = append(*changes, layoutChange{id: id, rect: abs, content: n.content})
		}
		n.generation = t.generation
	}
	n.rect = abs
	n.clipped = abs.Intersect(clip)

	childClip := clip
	if n.clipsChildren() {
		childClip = childClip.Intersect(abs)
	}
	childOrigin := Point{X: abs.X - n.scrollX, Y: abs.Y - n.scrollY}
	for _, child := range n.children {
		a.resolveRects(child, childOrigin, childClip, stamp, changes)
	}
}

func unboundedRect() Rect {
	const half = math.MaxFloat32 / 4
	return Rect{X: -half, Y: -half, Width: half * 2, Height: half * 2}
}

func sanitizeRect(id NodeID, r Rect) Rect {
	r.X = finiteOrZero(id, "x", r.X)
	r.Y = finiteOrZero(id, "y", r.Y)
	r.Width = finiteOrZero(id, "width", r.Width)
	r.Height = finiteOrZero(id, "height", r.Height)
	return r
}

func sanitizeSize(id NodeID, s Size) Size {
	s.Width = finiteOrZero(id, "content width", s.Width)
	s.Height = finiteOrZero(id, "content height", s.Height)
	return s
}

// finiteOrZero clamps NaN and infinite engine output to zero so one bad
// box cannot poison the frame. The solve continues.
func finiteOrZero(id NodeID, field string, v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		log.Printf("layout: non-finite %s for node %d, clamped to zero", field, id)
		return 0
	}
	return v
}
