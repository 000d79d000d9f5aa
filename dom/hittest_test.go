package dom

import (
	"testing"

	"github.com/loomui/loom/style"
)

func TestHitTestTopmost(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2, 3),
			contDesc(2, "", 4),
			contDesc(3, ""),
			textDesc(4, "inner"),
		},
	})
	tree.Restyle(stubResolver{})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 200, Height: 200}},
		2: {Local: Rect{X: 10, Y: 10, Width: 100, Height: 100}},
		// Node 3 is a later sibling overlapping node 2.
		3: {Local: Rect{X: 80, Y: 10, Width: 100, Height: 100}},
		4: {Local: Rect{X: 10, Y: 10, Width: 40, Height: 20}},
	})

	tests := []struct {
		name  string
		point Point
		want  NodeID
	}{
		{name: "child over parent", point: Point{X: 25, Y: 25}, want: 4},
		{name: "parent where child absent", point: Point{X: 15, Y: 70}, want: 2},
		{name: "later sibling wins overlap", point: Point{X: 90, Y: 50}, want: 3},
		{name: "root background", point: Point{X: 190, Y: 190}, want: 1},
		{name: "outside everything", point: Point{X: 300, Y: 300}, want: NoNode},
		{name: "left edge inclusive", point: Point{X: 10, Y: 10}, want: 2},
		{name: "right edge exclusive", point: Point{X: 200, Y: 10}, want: NoNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tree.HitTest(tt.point); got != tt.want {
				t.Errorf("HitTest(%+v) = %d, want %d", tt.point, got, tt.want)
			}
		})
	}
}

func TestHitTestBeforeSolve(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root:  1,
		Nodes: []NodeDesc{contDesc(1, "")},
	})
	if got := tree.HitTest(Point{X: 1, Y: 1}); got != NoNode {
		t.Errorf("HitTest() before any solve = %d, want NoNode", got)
	}
}

func TestHitTestZeroArea(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2),
			textDesc(2, ""),
		},
	})
	tree.Restyle(stubResolver{})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 100, Height: 100}},
		2: {Local: Rect{X: 20, Y: 20, Width: 0, Height: 12}},
	})

	if got := tree.HitTest(Point{X: 20, Y: 25}); got != 1 {
		t.Errorf("HitTest() over zero-width node = %d, want parent 1", got)
	}
}

func TestHitTestStaleGeneration(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2),
			contDesc(2, ""),
		},
	})
	tree.Restyle(stubResolver{})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 100, Height: 100}},
		2: {Local: Rect{X: 10, Y: 10, Width: 50, Height: 50}},
	})

	// Add a node; until the next solve it has no geometry and cannot
	// be hit, while solved nodes still can.
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2, 3),
			contDesc(2, ""),
			contDesc(3, ""),
		},
	})
	if got := tree.HitTest(Point{X: 20, Y: 20}); got != 2 {
		t.Errorf("HitTest() over solved node = %d, want 2", got)
	}
	if got := tree.HitTest(Point{X: 90, Y: 90}); got != 1 {
		t.Errorf("HitTest() = %d, want root under unsolved node", got)
	}
}

func TestHitTestClipPrunes(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2),
			contDesc(2, "hidden", 3),
			contDesc(3, ""),
		},
	})
	tree.Restyle(stubResolver{styles: map[string]*style.Style{"hidden": hiddenStyle()}})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 200, Height: 200}},
		2: {Local: Rect{X: 10, Y: 10, Width: 50, Height: 50}},
		// Child sticks out well past the clipping parent.
		3: {Local: Rect{X: 0, Y: 0, Width: 200, Height: 30}},
	})

	if got := tree.HitTest(Point{X: 30, Y: 20}); got != 3 {
		t.Errorf("HitTest() inside clip = %d, want 3", got)
	}
	// Over the clipped-out overhang the child is not hittable; the
	// point falls through to the root.
	if got := tree.HitTest(Point{X: 150, Y: 20}); got != 1 {
		t.Errorf("HitTest() over clipped overhang = %d, want 1", got)
	}
}

func TestHitTestClipFlag(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2),
			// Clip set directly on the node; overflow style stays visible.
			{ID: 2, Kind: KindContainer, Clip: true, Children: []NodeID{3}},
			contDesc(3, ""),
		},
	})
	tree.Restyle(stubResolver{})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 200, Height: 200}},
		2: {Local: Rect{X: 10, Y: 10, Width: 50, Height: 50}},
		3: {Local: Rect{X: 0, Y: 0, Width: 200, Height: 30}},
	})

	if got := tree.HitTest(Point{X: 30, Y: 20}); got != 3 {
		t.Errorf("HitTest() inside clip = %d, want 3", got)
	}
	if got := tree.HitTest(Point{X: 150, Y: 20}); got != 1 {
		t.Errorf("HitTest() past clipped edge = %d, want 1", got)
	}
}

func TestHitTestScrolled(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "scroll", 2, 3),
			textDesc(2, "top"),
			textDesc(3, "bottom"),
		},
	})
	tree.Restyle(stubResolver{styles: map[string]*style.Style{"scroll": scrollStyle()}})
	a := solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 100, Height: 100}, Content: Size{Width: 100, Height: 300}},
		2: {Local: Rect{Y: 0, Width: 100, Height: 20}},
		3: {Local: Rect{Y: 200, Width: 100, Height: 20}},
	})

	if got := tree.HitTest(Point{X: 50, Y: 10}); got != 2 {
		t.Fatalf("HitTest() before scroll = %d, want 2", got)
	}

	tree.SetScroll(1, 0, 200)
	a.RefreshScroll()

	// Node 3 scrolled into view where node 2 used to be.
	if got := tree.HitTest(Point{X: 50, Y: 10}); got != 3 {
		t.Errorf("HitTest() after scroll = %d, want 3", got)
	}
}

func TestHitChain(t *testing.T) {
	tree := NewTree()
	mustReconcile(t, tree, Description{
		Root: 1,
		Nodes: []NodeDesc{
			contDesc(1, "", 2),
			contDesc(2, "", 3),
			textDesc(3, "leaf"),
		},
	})
	tree.Restyle(stubResolver{})
	solveTree(t, tree, map[NodeID]LayoutBox{
		1: {Local: Rect{Width: 100, Height: 100}},
		2: {Local: Rect{X: 10, Y: 10, Width: 50, Height: 50}},
		3: {Local: Rect{X: 5, Y: 5, Width: 20, Height: 12}},
	})

	chain := tree.HitChain(Point{X: 20, Y: 20})
	want := []NodeID{1, 2, 3}
	if len(chain) != len(want) {
		t.Fatalf("HitChain() = %v, want %v", chain, want)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Fatalf("HitChain() = %v, want %v", chain, want)
		}
	}
	if got := tree.HitChain(Point{X: 500, Y: 500}); got != nil {
		t.Errorf("HitChain(miss) = %v, want nil", got)
	}
}
