package game

// Directions lists every heading a snake can take.
var Directions = []Direction{Right, Down, Left, Up}

func ManhattanDistance(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
