package game

import "math/rand"

type Food struct {
	Position Cell

	gridCount   int
	avoidsSnake bool
	rng         *rand.Rand
}

func NewFood(gridCount int, avoidsSnake bool, rng *rand.Rand) *Food {
	return &Food{gridCount: gridCount, avoidsSnake: avoidsSnake, rng: rng}
}

// SpawnNew moves the food to a random cell. With avoidsSnake set the draw is
// uniform over the cells the snake does not cover; a nil snake or a snake
// filling the whole grid falls back to an unrestricted draw.
func (f *Food) SpawnNew(snake *Snake) {
	if f.avoidsSnake && snake != nil {
		if cell, ok := f.randomFreeCell(snake); ok {
			f.Position = cell
			return
		}
	}
	f.Position = Cell{X: f.rng.Intn(f.gridCount), Y: f.rng.Intn(f.gridCount)}
}

func (f *Food) randomFreeCell(snake *Snake) (Cell, bool) {
	occupied := make(map[Cell]bool, len(snake.Body))
	for _, segment := range snake.Body {
		occupied[segment] = true
	}

	freeSpots := make([]Cell, 0, max(0, f.gridCount*f.gridCount-len(occupied)))
	for y := 0; y < f.gridCount; y++ {
		for x := 0; x < f.gridCount; x++ {
			c := Cell{X: x, Y: y}
			if !occupied[c] {
				freeSpots = append(freeSpots, c)
			}
		}
	}
	if len(freeSpots) == 0 {
		return Cell{}, false
	}
	return freeSpots[f.rng.Intn(len(freeSpots))], true
}
