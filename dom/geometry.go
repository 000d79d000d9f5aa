package dom

// Point is a position in root coordinates unless stated otherwise.
type Point struct {
	X float32
	Y float32
}

// Size is a width and height in pixels.
type Size struct {
	Width  float32
	Height float32
}

// Rect is an axis-aligned rectangle. X and Y are the top-left corner.
type Rect struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// Right returns the exclusive right edge.
func (r Rect) Right() float32 { return r.X + r.Width }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() float32 { return r.Y + r.Height }

// Contains reports whether the point lies inside the rectangle. The top
// and left edges are inclusive, the bottom and right edges exclusive, so
// adjacent rectangles never both claim a shared edge.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width <= 0 || r.Height <= 0 }

// Intersect returns the overlap of two rectangles. A non-overlapping pair
// yields an empty rectangle.
func (r Rect) Intersect(o Rect) Rect {
	x0 := max32(r.X, o.X)
	y0 := max32(r.Y, o.Y)
	x1 := min32(r.Right(), o.Right())
	y1 := min32(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Origin returns the top-left corner.
func (r Rect) Origin() Point { return Point{X: r.X, Y: r.Y} }

// LocalPoint converts a root-coordinate point into the rectangle's local
// coordinate space.
func (r Rect) LocalPoint(p Point) Point {
	return Point{X: p.X - r.X, Y: p.Y - r.Y}
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
