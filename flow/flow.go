// Package flow is the reference layout engine: a bounded top-down block
// flow. Containers stack children along their direction with gaps,
// padding and margins; explicit, percent and min/max dimensions are
// honored; text sizes come from the measurer and images from their
// intrinsic size. The engine is deliberately not a constraint solver;
// rows do not wrap and nothing flexes.
package flow

import (
	"github.com/loomui/loom/dom"
	"github.com/loomui/loom/style"
)

// unboundedWidth stands in for "no wrap constraint" when a text node
// has no real width available.
const unboundedWidth = 1 << 20

// Engine implements dom.LayoutEngine.
type Engine struct{}

// New returns a flow engine.
func New() *Engine { return &Engine{} }

var defaultStyle = style.Default()

func styleOf(n *dom.Node) *style.Style {
	if s := n.Style(); s != nil {
		return s
	}
	return &defaultStyle
}

// Solve lays out every node reachable from the root. Boxes are
// parent-relative and unscrolled; the adapter applies scroll offsets
// and clipping.
func (e *Engine) Solve(tree *dom.Tree, viewport dom.Size, measure dom.TextMeasurer) map[dom.NodeID]dom.LayoutBox {
	out := make(map[dom.NodeID]dom.LayoutBox, tree.Len())
	root := tree.Node(tree.Root())
	if root == nil {
		return out
	}
	rs := styleOf(root)
	m := rs.Margin
	w, h, content := e.solveNode(tree, root, viewport.Width, viewport.Height, measure, out)
	out[root.ID()] = dom.LayoutBox{
		Local:   dom.Rect{X: m[style.Left], Y: m[style.Top], Width: w, Height: h},
		Content: content,
	}
	return out
}

// solveNode sizes one node given its parent's content box and writes
// the boxes of its descendants. The parent places the returned border
// box; margins are read here only where the node fills available
// space.
func (e *Engine) solveNode(tree *dom.Tree, n *dom.Node, availW, availH float32, measure dom.TextMeasurer, out map[dom.NodeID]dom.LayoutBox) (w, h float32, content dom.Size) {
	s := styleOf(n)
	switch n.Kind() {
	case dom.KindText:
		return e.solveText(n, s, availW, availH, measure)
	case dom.KindImage:
		return e.solveImage(n, s, availW, availH)
	default:
		return e.solveContainer(tree, n, s, availW, availH, measure, out)
	}
}

func (e *Engine) solveText(n *dom.Node, s *style.Style, availW, availH float32, measure dom.TextMeasurer) (w, h float32, content dom.Size) {
	pad := s.Padding

	wrapWidth := availW
	if !s.Width.IsAuto() {
		wrapWidth = s.Width.Resolve(availW, availW)
	}
	if !s.MaxWidth.IsAuto() {
		if mw := s.MaxWidth.Resolve(availW, wrapWidth); mw < wrapWidth {
			wrapWidth = mw
		}
	}
	inner := wrapWidth - pad.Horizontal()
	if inner <= 0 {
		inner = unboundedWidth
	}

	var ts dom.Size
	if measure != nil && n.Text() != "" {
		ts = measure.MeasureText(n.Text(), s, inner)
	}

	if s.Width.IsAuto() {
		w = ts.Width + pad.Horizontal()
	} else {
		w = s.Width.Resolve(availW, 0)
	}
	if s.Height.IsAuto() {
		h = ts.Height + pad.Vertical()
	} else {
		h = s.Height.Resolve(availH, 0)
	}
	w = clampDim(w, s.MinWidth, s.MaxWidth, availW)
	h = clampDim(h, s.MinHeight, s.MaxHeight, availH)

	content = dom.Size{Width: ts.Width + pad.Horizontal(), Height: ts.Height + pad.Vertical()}
	return w, h, content
}

func (e *Engine) solveImage(n *dom.Node, s *style.Style, availW, availH float32) (w, h float32, content dom.Size) {
	nat := n.NaturalSize()

	switch {
	case !s.Width.IsAuto() && !s.Height.IsAuto():
		w = s.Width.Resolve(availW, 0)
		h = s.Height.Resolve(availH, 0)
	case !s.Width.IsAuto():
		w = s.Width.Resolve(availW, 0)
		h = nat.Height
		if nat.Width > 0 {
			h = nat.Height * w / nat.Width
		}
	case !s.Height.IsAuto():
		h = s.Height.Resolve(availH, 0)
		w = nat.Width
		if nat.Height > 0 {
			w = nat.Width * h / nat.Height
		}
	default:
		// Intrinsic size; zero until the source decodes, at which point
		// layout runs again and the box pops to its real size.
		w, h = nat.Width, nat.Height
	}
	w = clampDim(w, s.MinWidth, s.MaxWidth, availW)
	h = clampDim(h, s.MinHeight, s.MaxHeight, availH)
	content = dom.Size{Width: w, Height: h}
	return w, h, content
}

func (e *Engine) solveContainer(tree *dom.Tree, n *dom.Node, s *style.Style, availW, availH float32, measure dom.TextMeasurer, out map[dom.NodeID]dom.LayoutBox) (w, h float32, content dom.Size) {
	pad := s.Padding
	row := s.Direction == style.DirectionRow

	// Width first: explicit, else fill for columns. Auto row widths
	// come from the children's total extent below.
	widthKnown := true
	switch {
	case !s.Width.IsAuto():
		w = s.Width.Resolve(availW, 0)
	case !row:
		w = availW - s.Margin.Horizontal()
		if w < 0 {
			w = 0
		}
	default:
		widthKnown = false
	}

	heightKnown := !s.Height.IsAuto()
	if heightKnown {
		h = s.Height.Resolve(availH, 0)
	}

	innerW := availW - pad.Horizontal()
	if widthKnown {
		innerW = w - pad.Horizontal()
	}
	if innerW < 0 {
		innerW = 0
	}
	innerH := float32(0)
	if heightKnown {
		innerH = h - pad.Vertical()
		if innerH < 0 {
			innerH = 0
		}
	}

	var cursor, crossMax float32
	for i, childID := range n.Children() {
		c := tree.Node(childID)
		if c == nil {
			continue
		}
		cm := styleOf(c).Margin
		cw, ch, ccontent := e.solveNode(tree, c, innerW, innerH, measure, out)
		if i > 0 {
			cursor += s.Gap
		}
		var local dom.Rect
		if row {
			local = dom.Rect{
				X:      pad[style.Left] + cursor + cm[style.Left],
				Y:      pad[style.Top] + cm[style.Top],
				Width:  cw,
				Height: ch,
			}
			cursor += cm.Horizontal() + cw
			crossMax = max32(crossMax, ch+cm.Vertical())
		} else {
			local = dom.Rect{
				X:      pad[style.Left] + cm[style.Left],
				Y:      pad[style.Top] + cursor + cm[style.Top],
				Width:  cw,
				Height: ch,
			}
			cursor += cm.Vertical() + ch
			crossMax = max32(crossMax, cw+cm.Horizontal())
		}
		out[childID] = dom.LayoutBox{Local: local, Content: ccontent}
	}

	if row {
		if !widthKnown {
			w = pad.Horizontal() + cursor
		}
		if !heightKnown {
			h = pad.Vertical() + crossMax
		}
		content = dom.Size{
			Width:  max32(w, pad.Horizontal()+cursor),
			Height: max32(h, pad.Vertical()+crossMax),
		}
	} else {
		if !heightKnown {
			h = pad.Vertical() + cursor
		}
		content = dom.Size{
			Width:  max32(w, pad.Horizontal()+crossMax),
			Height: max32(h, pad.Vertical()+cursor),
		}
	}

	w = clampDim(w, s.MinWidth, s.MaxWidth, availW)
	h = clampDim(h, s.MinHeight, s.MaxHeight, availH)
	return w, h, content
}

// clampDim applies max then min, so min wins when the two conflict.
func clampDim(v float32, lo, hi style.Dim, parent float32) float32 {
	if !hi.IsAuto() {
		if m := hi.Resolve(parent, v); v > m {
			v = m
		}
	}
	if !lo.IsAuto() {
		if m := lo.Resolve(parent, 0); v < m {
			v = m
		}
	}
	if v < 0 {
		v = 0
	}
	return v
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
