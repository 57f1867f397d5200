package game

import "testing"

func TestDirectionOpposites(t *testing.T) {
	for _, d := range Directions {
		if !d.IsUnit() {
			t.Errorf("%s is not a unit step", d)
		}
		if !d.IsOpposite(d.Opposite()) {
			t.Errorf("%s and %s not opposite", d, d.Opposite())
		}
		if d.IsOpposite(d) {
			t.Errorf("%s opposite to itself", d)
		}
	}
}

func TestCellAdd(t *testing.T) {
	c := Cell{X: 8, Y: 8}
	if got := c.Add(Up); got != (Cell{X: 8, Y: 7}) {
		t.Errorf("(8,8)+up = %s", got)
	}
	if got := c.Add(Right); got != (Cell{X: 9, Y: 8}) {
		t.Errorf("(8,8)+right = %s", got)
	}
	if ManhattanDistance(Cell{X: 1, Y: 2}, Cell{X: 4, Y: 0}) != 5 {
		t.Errorf("unexpected manhattan distance")
	}
}
