// Package replay journals every tick of a play session so it can be watched
// again or exported for analysis.
package replay

import (
	"time"

	"github.com/Mshel/gridsnake/internal/game"
)

// Frame is the game state after one tick. Body coordinates are split into
// parallel columns, head first.
type Frame struct {
	SessionID string  `parquet:"session_id,dict"`
	Tick      int32   `parquet:"tick"`
	State     string  `parquet:"state,dict"`
	Score     int32   `parquet:"score"`
	HeadingDx int32   `parquet:"heading_dx"`
	HeadingDy int32   `parquet:"heading_dy"`
	FoodX     int32   `parquet:"food_x"`
	FoodY     int32   `parquet:"food_y"`
	BodyX     []int32 `parquet:"body_x"`
	BodyY     []int32 `parquet:"body_y"`
}

type Session struct {
	ID         string
	GridCount  int
	StartedAt  time.Time
	EndedAt    time.Time
	FinalScore int
	Ticks      int
	Frames     []Frame
}

func frameFromSnapshot(sessionID string, snap game.Snapshot) Frame {
	f := Frame{
		SessionID: sessionID,
		Tick:      int32(snap.Tick),
		State:     snap.State.String(),
		Score:     int32(snap.Score),
		HeadingDx: int32(snap.Heading.Dx),
		HeadingDy: int32(snap.Heading.Dy),
		FoodX:     int32(snap.Food.X),
		FoodY:     int32(snap.Food.Y),
		BodyX:     make([]int32, len(snap.Body)),
		BodyY:     make([]int32, len(snap.Body)),
	}
	for i, c := range snap.Body {
		f.BodyX[i] = int32(c.X)
		f.BodyY[i] = int32(c.Y)
	}
	return f
}

// Body rebuilds the snake cells of a frame.
func (f Frame) Body() []game.Cell {
	body := make([]game.Cell, min(len(f.BodyX), len(f.BodyY)))
	for i := range body {
		body[i] = game.Cell{X: int(f.BodyX[i]), Y: int(f.BodyY[i])}
	}
	return body
}
