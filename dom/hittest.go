package dom

// HitTest returns the topmost node containing the point, or NoNode.
// Children win over their parent and later siblings sit above earlier
// ones, so the walk tries children in reverse order before the node
// itself. Overlap between unrelated subtrees resolves purely by that
// order; there is no z-index model, and the scan is linear in tree
// size.
//
// A node is hittable only inside the intersection of its box with every
// clipping ancestor, only when it has area, and only when the last
// solve visited it.
func (t *Tree) HitTest(p Point) NodeID {
	if t.root == NoNode || t.generation == 0 {
		return NoNode
	}
	return t.hitNode(t.root, p)
}

// HitChain returns the ancestor path from the root to the hit node,
// inclusive, or nil when nothing is hit.
func (t *Tree) HitChain(p Point) []NodeID {
	target := t.HitTest(p)
	if target == NoNode {
		return nil
	}
	return t.ancestorChain(target)
}

func (t *Tree) hitNode(id NodeID, p Point) NodeID {
	n := t.nodes[id]
	if n == nil || n.generation != t.generation {
		return NoNode
	}
	// A clipping node prunes its subtree once the point leaves the
	// visible box; children cannot extend past the clip.
	if n.clipsChildren() && !n.clipped.Contains(p) {
		return NoNode
	}
	for i := len(n.children) - 1; i >= 0; i-- {
		if hit := t.hitNode(n.children[i], p); hit != NoNode {
			return hit
		}
	}
	if n.clipped.Contains(p) {
		return id
	}
	return NoNode
}
