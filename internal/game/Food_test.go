package game

import (
	"math/rand"
	"testing"
)

func TestFoodSpawnStaysInGrid(t *testing.T) {
	food := NewFood(16, false, rand.New(rand.NewSource(1)))

	for i := 0; i < 500; i++ {
		food.SpawnNew(nil)
		if !food.Position.InBounds(16) {
			t.Fatalf("food spawned outside grid at %s", food.Position)
		}
	}
}

func TestFoodAvoidsSnakeBody(t *testing.T) {
	const gridCount = 4
	snake := NewSnake(Cell{X: 0, Y: 0}, Right)
	// Cover every cell but (3,3).
	snake.Body = nil
	for y := 0; y < gridCount; y++ {
		for x := 0; x < gridCount; x++ {
			if x == 3 && y == 3 {
				continue
			}
			snake.Body = append(snake.Body, Cell{X: x, Y: y})
		}
	}

	food := NewFood(gridCount, true, rand.New(rand.NewSource(7)))
	for i := 0; i < 50; i++ {
		food.SpawnNew(snake)
		if food.Position != (Cell{X: 3, Y: 3}) {
			t.Fatalf("food spawned on snake at %s", food.Position)
		}
	}
}

func TestFoodFallsBackWhenGridFull(t *testing.T) {
	const gridCount = 2
	snake := NewSnake(Cell{X: 0, Y: 0}, Right)
	snake.Body = []Cell{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	food := NewFood(gridCount, true, rand.New(rand.NewSource(3)))
	food.SpawnNew(snake)
	if !food.Position.InBounds(gridCount) {
		t.Fatalf("fallback spawn outside grid at %s", food.Position)
	}
}

func TestFoodCoversWholeGrid(t *testing.T) {
	const gridCount = 3
	food := NewFood(gridCount, true, rand.New(rand.NewSource(11)))
	snake := NewSnake(Cell{X: 1, Y: 1}, Right)

	seen := make(map[Cell]bool)
	for i := 0; i < 2000; i++ {
		food.SpawnNew(snake)
		seen[food.Position] = true
	}

	if seen[Cell{X: 1, Y: 1}] {
		t.Errorf("food landed on the snake head")
	}
	if len(seen) != gridCount*gridCount-1 {
		t.Errorf("food reached %d cells, want %d", len(seen), gridCount*gridCount-1)
	}
}
