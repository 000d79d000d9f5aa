package dom

import "strings"

// Caret addresses a position inside a text node by rune offset. Offset
// ranges from zero to the node's rune count, inclusive.
type Caret struct {
	Node   NodeID
	Offset int
}

// Selection tracks the text selection as two carets: the anchor where
// the gesture started and the cursor that follows the pointer. The two
// are unordered; reading operations normalize to document order first,
// so swapping anchor and cursor never changes the selected text.
//
// onselect fires exactly when the selected text changes, including
// changes to and from empty. Destroying or rewriting a node referenced
// by a caret invalidates the selection silently.
type Selection struct {
	tree    *Tree
	measure TextMeasurer

	active bool
	anchor Caret
	cursor Caret

	// lastText is the selected text as last reported, the reference for
	// change detection.
	lastText string
}

// NewSelection builds the selection manager for a tree.
func NewSelection(tree *Tree, measure TextMeasurer) *Selection {
	s := &Selection{tree: tree, measure: measure}
	tree.selection = s
	return s
}

// Active reports whether a selection exists. A collapsed selection
// (anchor equals cursor) is active with empty text.
func (s *Selection) Active() bool { return s.active }

// Anchor returns the caret where the selection started.
func (s *Selection) Anchor() Caret { return s.anchor }

// Cursor returns the moving end of the selection.
func (s *Selection) Cursor() Caret { return s.cursor }

// Range returns the selection normalized to document order.
func (s *Selection) Range() (start, end Caret, ok bool) {
	if !s.active {
		return Caret{}, Caret{}, false
	}
	start, end = s.normalized()
	return start, end, true
}

// Begin starts a new selection with both carets at the given position.
// Non-text nodes are ignored. Collapsing an existing selection reports
// the change to empty.
func (s *Selection) Begin(id NodeID, offset int) {
	n := s.tree.Node(id)
	if n == nil || n.kind != KindText {
		return
	}
	s.active = true
	s.anchor = Caret{Node: id, Offset: clampOffset(n, offset)}
	s.cursor = s.anchor
	s.emitIfChanged(id)
}

// ExtendTo moves the cursor to the text position under the point. The
// anchor stays. Points over non-text nodes leave the cursor where it
// was, so dragging across a gap keeps the selection stable.
func (s *Selection) ExtendTo(p Point) {
	if !s.active {
		return
	}
	id := s.tree.HitTest(p)
	n := s.tree.Node(id)
	if n == nil || n.kind != KindText {
		return
	}
	offset, ok := s.CaretFromPoint(id, p)
	if !ok {
		return
	}
	s.ExtendToCaret(Caret{Node: id, Offset: offset})
}

// ExtendToCaret moves the cursor to an explicit position.
func (s *Selection) ExtendToCaret(c Caret) {
	if !s.active {
		return
	}
	n := s.tree.Node(c.Node)
	if n == nil || n.kind != KindText {
		return
	}
	c.Offset = clampOffset(n, c.Offset)
	s.cursor = c
	s.emitIfChanged(c.Node)
}

// SelectAll selects a text node's entire content.
func (s *Selection) SelectAll(id NodeID) {
	n := s.tree.Node(id)
	if n == nil || n.kind != KindText {
		return
	}
	s.active = true
	s.anchor = Caret{Node: id, Offset: 0}
	s.cursor = Caret{Node: id, Offset: len([]rune(n.text))}
	s.emitIfChanged(id)
}

// Clear drops the selection, reporting the change to empty when there
// was selected text.
func (s *Selection) Clear() {
	if !s.active {
		return
	}
	target := s.cursor.Node
	if target == NoNode {
		target = s.anchor.Node
	}
	s.active = false
	s.anchor = Caret{}
	s.cursor = Caret{}
	s.emitIfChanged(target)
}

// SelectedText returns the current selection's text. Within one node it
// is the rune range between the normalized carets. Across nodes it is
// the start node's suffix, every whole text run between in document
// order, and the end node's prefix, joined by single spaces. Empty when
// no selection exists.
func (s *Selection) SelectedText() string {
	if !s.active {
		return ""
	}
	start, end := s.normalized()

	startNode := s.tree.Node(start.Node)
	endNode := s.tree.Node(end.Node)
	if startNode == nil || endNode == nil {
		return ""
	}

	if start.Node == end.Node {
		runes := []rune(startNode.text)
		a := clampOffset(startNode, start.Offset)
		b := clampOffset(endNode, end.Offset)
		if a > b {
			a, b = b, a
		}
		return string(runes[a:b])
	}

	var parts []string
	collecting := false
	s.tree.Walk(func(n *Node) bool {
		switch n.id {
		case start.Node:
			runes := []rune(n.text)
			parts = append(parts, string(runes[clampOffset(n, start.Offset):]))
			collecting = true
		case end.Node:
			runes := []rune(n.text)
			parts = append(parts, string(runes[:clampOffset(n, end.Offset)]))
			return false
		default:
			if collecting && n.kind == KindText {
				parts = append(parts, n.text)
			}
		}
		return true
	})
	return strings.Join(parts, " ")
}

// CaretFromPoint maps a root-coordinate point to a rune offset within
// the node's text.
func (s *Selection) CaretFromPoint(id NodeID, p Point) (int, bool) {
	n := s.tree.Node(id)
	if n == nil || n.kind != KindText || s.measure == nil {
		return 0, false
	}
	local := n.rect.LocalPoint(p)
	return s.measure.CaretIndex(n.text, n.style, n.rect.Width, local), true
}

// CaretRect returns the root-coordinate caret box for an offset within
// a text node, for hosts drawing carets.
func (s *Selection) CaretRect(id NodeID, offset int) (Rect, bool) {
	n := s.tree.Node(id)
	if n == nil || n.kind != KindText || s.measure == nil {
		return Rect{}, false
	}
	r := s.measure.CaretRect(n.text, n.style, n.rect.Width, clampOffset(n, offset))
	r.X += n.rect.X
	r.Y += n.rect.Y
	return r, true
}

// rangeWithin returns the ordered offsets of a selection entirely
// inside one node, used by editing to replace selected text.
func (s *Selection) rangeWithin(id NodeID) (start, end int, ok bool) {
	if !s.active || s.anchor.Node != id || s.cursor.Node != id {
		return 0, 0, false
	}
	start, end = s.anchor.Offset, s.cursor.Offset
	if start > end {
		start, end = end, start
	}
	return start, end, true
}

// normalized orders the carets by document position.
func (s *Selection) normalized() (start, end Caret) {
	start, end = s.anchor, s.cursor
	if start.Node == end.Node {
		if start.Offset > end.Offset {
			start, end = end, start
		}
		return start, end
	}
	if s.tree.order(start.Node) > s.tree.order(end.Node) {
		start, end = end, start
	}
	return start, end
}

// emitIfChanged fires onselect at the target when the selected text
// differs from what was last reported.
func (s *Selection) emitIfChanged(target NodeID) {
	text := s.SelectedText()
	if text == s.lastText {
		return
	}
	s.lastText = text
	if s.tree.dispatcher != nil && target != NoNode {
		s.tree.dispatcher.dispatch(newSelectEvent(target, text, s.active))
	}
}

// nodeDestroyed invalidates the selection silently when a caret
// references the destroyed node. No onselect fires.
func (s *Selection) nodeDestroyed(id NodeID) {
	if !s.active {
		return
	}
	if s.anchor.Node == id || s.cursor.Node == id {
		s.reset()
	}
}

// nodeTextChanged invalidates the selection silently when a referenced
// node's text is rewritten by reconcile; the old offsets are
// meaningless against the new content.
func (s *Selection) nodeTextChanged(id NodeID) {
	if !s.active {
		return
	}
	if s.anchor.Node == id || s.cursor.Node == id {
		s.reset()
	}
}

func (s *Selection) reset() {
	s.active = false
	s.anchor = Caret{}
	s.cursor = Caret{}
	s.lastText = ""
}

func clampOffset(n *Node, offset int) int {
	if offset < 0 {
		return 0
	}
	if l := len([]rune(n.text)); offset > l {
		return l
	}
	return offset
}
