package grid

import "fmt"

// Point is a cell coordinate. X grows to the right, Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Neighbors4 returns the cardinal neighbours in the order right, left, up, down.
func (p Point) Neighbors4() [4]Point {
	return [4]Point{
		{p.X + 1, p.Y},
		{p.X - 1, p.Y},
		{p.X, p.Y - 1},
		{p.X, p.Y + 1},
	}
}

// Neighbors8 returns all eight surrounding points in the order E, SE, S, SW, W, NW, N, NE.
// Points may be out of bounds; callers filter through the knowledge base.
func (p Point) Neighbors8() [8]Point {
	return [8]Point{
		{p.X + 1, p.Y},
		{p.X + 1, p.Y + 1},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y + 1},
		{p.X - 1, p.Y},
		{p.X - 1, p.Y - 1},
		{p.X, p.Y - 1},
		{p.X + 1, p.Y - 1},
	}
}

// Adjacent4 reports whether q is one cardinal step away from p.
func (p Point) Adjacent4(q Point) bool {
	dx, dy := q.X-p.X, q.Y-p.Y
	return (dx == 0 && (dy == 1 || dy == -1)) || (dy == 0 && (dx == 1 || dx == -1))
}
