package game

import "fmt"

// Cell is a grid coordinate. X grows to the right, Y grows downward.
type Cell struct {
	X int
	Y int
}

func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.Dx, Y: c.Y + d.Dy}
}

func (c Cell) InBounds(gridCount int) bool {
	return c.X >= 0 && c.X < gridCount && c.Y >= 0 && c.Y < gridCount
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Direction is a unit step on one axis.
type Direction struct {
	Dx, Dy int
}

var (
	Right = Direction{Dx: 1, Dy: 0}
	Left  = Direction{Dx: -1, Dy: 0}
	Down  = Direction{Dx: 0, Dy: 1}
	Up    = Direction{Dx: 0, Dy: -1}
)

func (d Direction) Opposite() Direction {
	return Direction{Dx: -d.Dx, Dy: -d.Dy}
}

func (d Direction) IsOpposite(other Direction) bool {
	return d.Dx+other.Dx == 0 && d.Dy+other.Dy == 0
}

// IsUnit reports whether d is one of Right, Left, Down or Up.
func (d Direction) IsUnit() bool {
	return abs(d.Dx)+abs(d.Dy) == 1
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	}
	return fmt.Sprintf("(%d,%d)", d.Dx, d.Dy)
}
