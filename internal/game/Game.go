// Package game holds the snake, the food and the tick loop that drives them.
package game

import (
	"math/rand"
	"time"
)

type State int

const (
	StateIdle State = iota
	StateRunning
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateEnded:
		return "ended"
	}
	return "unknown"
}

// Game is one play session: a snake, its food and the score. It is not safe
// for concurrent use; Loop serialises access to it.
type Game struct {
	Snake        *Snake
	Food         *Food
	Score        int
	State        State
	TickInterval time.Duration
	GridCount    int
	Ticks        int
	// Round counts calls to Start; it tells one play session from the next.
	Round int
}

// NewGame builds an idle game. A nil rng is seeded from cfg.Seed, or from the
// clock when the seed is zero.
func NewGame(cfg Config, rng *rand.Rand) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	g := &Game{
		Snake:        NewSnake(cfg.SpawnCell, cfg.DefaultHeading),
		Food:         NewFood(cfg.GridCount, cfg.FoodAvoidsSnake, rng),
		TickInterval: cfg.TickInterval,
		GridCount:    cfg.GridCount,
		State:        StateIdle,
	}
	g.Food.SpawnNew(g.Snake)
	return g, nil
}

func (g *Game) IsRunning() bool {
	return g.State == StateRunning
}

func (g *Game) Start() {
	g.Snake.Reset()
	g.Food.SpawnNew(g.Snake)
	g.Score = 0
	g.Ticks = 0
	g.Round++
	g.State = StateRunning
}

func (g *Game) End() {
	g.State = StateEnded
}

// Tick advances the game by one step and reports whether it ended on this
// step. It does nothing unless the game is running.
func (g *Game) Tick() bool {
	if !g.IsRunning() {
		return false
	}
	g.Ticks++

	g.Snake.Move()
	if g.Snake.CheckCollision(g.GridCount) {
		g.End()
		return true
	}

	if g.Snake.Head() == g.Food.Position {
		g.Snake.Grow()
		g.Food.SpawnNew(g.Snake)
		g.Score++
	}
	return false
}

// SetDirection forwards a heading change to the snake while the game runs.
func (g *Game) SetDirection(d Direction) {
	if !g.IsRunning() {
		return
	}
	g.Snake.SetDirection(d)
}

// Snapshot is a read-only copy of the game for renderers.
type Snapshot struct {
	Body      []Cell
	Heading   Direction
	Food      Cell
	Score     int
	State     State
	Tick      int
	Round     int
	GridCount int
}

func (s Snapshot) Head() Cell {
	if len(s.Body) == 0 {
		return Cell{}
	}
	return s.Body[0]
}

func (g *Game) Snapshot() Snapshot {
	body := make([]Cell, len(g.Snake.Body))
	copy(body, g.Snake.Body)

	return Snapshot{
		Body:      body,
		Heading:   g.Snake.Heading,
		Food:      g.Food.Position,
		Score:     g.Score,
		State:     g.State,
		Tick:      g.Ticks,
		Round:     g.Round,
		GridCount: g.GridCount,
	}
}
