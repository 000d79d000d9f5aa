package dom

// NodeDesc describes the desired state of one node. The description is
// flat; structure comes from Children referencing ids in the same
// description.
type NodeDesc struct {
	ID    NodeID
	Kind  NodeKind
	Class string
	Text  string
	Src   string
	// Editable opts a text run into caret editing; editable runs also
	// take focus on press.
	Editable bool
	// Focusable routes keyboard focus to the node when pressed.
	Focusable bool
	// Clip confines children to the node's box regardless of its
	// overflow style.
	Clip     bool
	Attrs    map[string]string
	Children []NodeID

	// Handlers fire during the target and bubble phases, Capture during
	// the capture phase on ancestors of the target.
	Handlers map[EventType]Handler
	Capture  map[EventType]Handler
}

// Description is a complete statement of the desired tree.
type Description struct {
	Root  NodeID
	Nodes []NodeDesc
}

// ReconcileStats summarizes what a reconcile did.
type ReconcileStats struct {
	Created   int
	Updated   int
	Moved     int
	Destroyed int
	// Deferred is true when the call arrived during event dispatch; the
	// description was validated and will apply before the next solve.
	Deferred bool
}

// Reconcile transforms the tree to match the description. Matching is
// by id: kept ids update in place and retain scroll position, caret and
// interaction state; ids absent from the description are destroyed with
// no events; new ids are created. A node whose kind changed is destroyed
// and recreated.
//
// The description is validated in full before anything mutates. On
// error the previous tree is retained untouched, never a partial apply.
// Applying the same description twice is a no-op the second time.
//
// Calling Reconcile from inside an event handler validates eagerly but
// defers the apply to FlushDeferred; a later deferred call replaces an
// earlier one, since each description is complete.
func (t *Tree) Reconcile(desc Description) (ReconcileStats, error) {
	index, err := t.validate(desc)
	if err != nil {
		return ReconcileStats{}, err
	}
	if t.inDispatch {
		d := desc
		d.Nodes = append([]NodeDesc(nil), desc.Nodes...)
		t.deferred = &d
		return ReconcileStats{Deferred: true}, nil
	}
	return t.apply(desc, index), nil
}

// FlushDeferred applies a reconcile deferred from inside dispatch.
// Returns false when nothing was pending.
func (t *Tree) FlushDeferred() (ReconcileStats, bool) {
	if t.deferred == nil {
		return ReconcileStats{}, false
	}
	desc := *t.deferred
	t.deferred = nil
	index := make(map[NodeID]*NodeDesc, len(desc.Nodes))
	for i := range desc.Nodes {
		index[desc.Nodes[i].ID] = &desc.Nodes[i]
	}
	return t.apply(desc, index), true
}

// validate checks the description without touching the tree. All checks
// are pure functions of the description, so a deferred apply needs no
// second pass.
func (t *Tree) validate(desc Description) (map[NodeID]*NodeDesc, error) {
	if desc.Root == NoNode || len(desc.Nodes) == 0 {
		return nil, reconcileErr(ErrMissingRoot, desc.Root)
	}

	index := make(map[NodeID]*NodeDesc, len(desc.Nodes))
	for i := range desc.Nodes {
		d := &desc.Nodes[i]
		if d.ID == NoNode {
			return nil, reconcileErr(ErrBadID, d.ID)
		}
		if !validKind(d.Kind) {
			return nil, reconcileErr(ErrBadKind, d.ID)
		}
		if _, dup := index[d.ID]; dup {
			return nil, reconcileErr(ErrDuplicateID, d.ID)
		}
		index[d.ID] = d
	}
	if _, ok := index[desc.Root]; !ok {
		return nil, reconcileErr(ErrMissingRoot, desc.Root)
	}

	claimed := make(map[NodeID]NodeID, len(desc.Nodes))
	for i := range desc.Nodes {
		d := &desc.Nodes[i]
		if d.Kind != KindContainer && len(d.Children) > 0 {
			return nil, reconcileErr(ErrLeafChildren, d.ID)
		}
		for _, c := range d.Children {
			if _, ok := index[c]; !ok {
				return nil, reconcileChildErr(ErrUnknownChild, d.ID, c)
			}
			if c == desc.Root {
				return nil, reconcileChildErr(ErrRootClaimed, d.ID, c)
			}
			if _, ok := claimed[c]; ok {
				return nil, reconcileChildErr(ErrChildClaimedTwice, d.ID, c)
			}
			claimed[c] = d.ID
		}
	}

	// Every node must be reachable from the root. With children unique
	// and the root unclaimed, an unreachable node means an orphan or a
	// cycle detached from the root.
	visited := make(map[NodeID]struct{}, len(desc.Nodes))
	stack := []NodeID{desc.Root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[id]; seen {
			continue
		}
		visited[id] = struct{}{}
		stack = append(stack, index[id].Children...)
	}
	if len(visited) != len(index) {
		for i := range desc.Nodes {
			if _, ok := visited[desc.Nodes[i].ID]; !ok {
				return nil, reconcileErr(ErrUnreachable, desc.Nodes[i].ID)
			}
		}
	}
	return index, nil
}

// apply mutates the tree to match a validated description. It cannot
// fail.
func (t *Tree) apply(desc Description, index map[NodeID]*NodeDesc) ReconcileStats {
	var stats ReconcileStats

	// Destroy nodes absent from the description, and nodes whose kind
	// changed, which lose their identity and start over.
	var doomed []NodeID
	for id, n := range t.nodes {
		d, keep := index[id]
		if !keep {
			doomed = append(doomed, id)
			continue
		}
		if d.Kind != n.kind {
			doomed = append(doomed, id)
		}
	}
	for _, id := range doomed {
		t.destroyNode(id)
		stats.Destroyed++
		t.layoutDirty = true
	}

	// Desired parent per node, from the validated claims.
	parentOf := make(map[NodeID]NodeID, len(desc.Nodes))
	for i := range desc.Nodes {
		d := &desc.Nodes[i]
		for _, c := range d.Children {
			parentOf[c] = d.ID
		}
	}

	// Create and update content.
	created := make(map[NodeID]struct{})
	for i := range desc.Nodes {
		d := &desc.Nodes[i]
		n := t.nodes[d.ID]
		if n == nil {
			n = &Node{
				id:        d.ID,
				kind:      d.Kind,
				class:     d.Class,
				text:      d.Text,
				src:       d.Src,
				editable:  d.Editable,
				focusable: d.Focusable,
				clip:      d.Clip,
				attrs:     d.Attrs,
				handlers:  d.Handlers,
				capture:   d.Capture,
			}
			t.nodes[d.ID] = n
			created[d.ID] = struct{}{}
			if n.kind == KindImage && n.src != "" {
				t.imageDirty[n.id] = struct{}{}
			}
			stats.Created++
			t.layoutDirty = true
			continue
		}

		changed := false
		if n.class != d.Class {
			n.class = d.Class
			changed = true
		}
		if n.kind == KindText && n.text != d.Text {
			if t.selection != nil {
				t.selection.nodeTextChanged(n.id)
			}
			n.text = d.Text
			if n.caret > len([]rune(n.text)) {
				n.caret = len([]rune(n.text))
			}
			changed = true
		}
		if n.src != d.Src {
			n.src = d.Src
			n.naturalWidth = 0
			n.naturalHeight = 0
			n.loadErr = nil
			if n.kind == KindImage && n.src != "" {
				t.imageDirty[n.id] = struct{}{}
			}
			changed = true
		}
		if n.clip != d.Clip {
			n.clip = d.Clip
			changed = true
		}
		n.editable = d.Editable
		n.focusable = d.Focusable
		n.attrs = d.Attrs
		n.handlers = d.Handlers
		n.capture = d.Capture
		if changed {
			stats.Updated++
			t.layoutDirty = true
		}
	}

	// Link structure. Moves keep the node intact; only the edges change.
	for i := range desc.Nodes {
		d := &desc.Nodes[i]
		n := t.nodes[d.ID]
		newParent := parentOf[d.ID]
		if n.parent != newParent {
			if _, isNew := created[d.ID]; !isNew {
				stats.Moved++
			}
			n.parent = newParent
			t.layoutDirty = true
		}
		if !equalIDs(n.children, d.Children) {
			n.children = append(n.children[:0], d.Children...)
			t.layoutDirty = true
		}
	}

	t.root = desc.Root
	return stats
}

func equalIDs(a, b []NodeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
