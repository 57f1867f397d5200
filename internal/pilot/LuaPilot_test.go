package pilot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
)

type recordingSteerer struct {
	turns chan game.Direction
}

func (r *recordingSteerer) Turn(d game.Direction) {
	r.turns <- d
}

func runningSnapshot(head, food game.Cell, heading game.Direction) game.Snapshot {
	return game.Snapshot{
		Body:      []game.Cell{head},
		Heading:   heading,
		Food:      food,
		State:     game.StateRunning,
		GridCount: 16,
	}
}

func TestFoodSeekerStepsTowardFood(t *testing.T) {
	p, err := LoadLuaPilot("builtin")
	if err != nil {
		t.Fatalf("LoadLuaPilot: %v", err)
	}
	defer p.Close()

	tests := []struct {
		name    string
		head    game.Cell
		food    game.Cell
		heading game.Direction
		want    game.Direction
	}{
		{"food above", game.Cell{X: 8, Y: 8}, game.Cell{X: 8, Y: 3}, game.Right, game.Up},
		{"food below", game.Cell{X: 8, Y: 8}, game.Cell{X: 8, Y: 12}, game.Right, game.Down},
		{"food ahead", game.Cell{X: 8, Y: 8}, game.Cell{X: 12, Y: 8}, game.Right, game.Right},
		{"food behind turns aside", game.Cell{X: 8, Y: 8}, game.Cell{X: 2, Y: 9}, game.Right, game.Down},
		{"wall ahead", game.Cell{X: 15, Y: 0}, game.Cell{X: 15, Y: 15}, game.Right, game.Down},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, ok, err := p.NextDirection(runningSnapshot(tt.head, tt.food, tt.heading))
			if err != nil {
				t.Fatalf("NextDirection: %v", err)
			}
			if !ok || dir != tt.want {
				t.Fatalf("direction = %s (ok=%v), want %s", dir, ok, tt.want)
			}
		})
	}
}

func TestFoodSeekerAvoidsBody(t *testing.T) {
	p, err := LoadLuaPilot("builtin")
	if err != nil {
		t.Fatalf("LoadLuaPilot: %v", err)
	}
	defer p.Close()

	snap := runningSnapshot(game.Cell{X: 8, Y: 8}, game.Cell{X: 8, Y: 2}, game.Right)
	snap.Body = append(snap.Body, game.Cell{X: 8, Y: 7}, game.Cell{X: 7, Y: 7}, game.Cell{X: 7, Y: 8})

	dir, ok, err := p.NextDirection(snap)
	if err != nil {
		t.Fatalf("NextDirection: %v", err)
	}
	if !ok || dir == game.Up {
		t.Fatalf("direction = %s (ok=%v), steered into body", dir, ok)
	}
}

func TestLuaPilotKeepsHeadingOnNil(t *testing.T) {
	p, err := NewLuaPilot("idle", `function next_direction(state) return nil end`)
	if err != nil {
		t.Fatalf("NewLuaPilot: %v", err)
	}
	defer p.Close()

	_, ok, err := p.NextDirection(runningSnapshot(game.Cell{X: 1, Y: 1}, game.Cell{}, game.Right))
	if err != nil || ok {
		t.Fatalf("NextDirection = ok %v err %v, want no change", ok, err)
	}
}

func TestLuaPilotErrors(t *testing.T) {
	if _, err := NewLuaPilot("empty", `local x = 1`); !errors.Is(err, ErrNoStrategy) {
		t.Fatalf("missing function: err = %v, want ErrNoStrategy", err)
	}
	if _, err := NewLuaPilot("broken", `function next_direction(`); err == nil {
		t.Fatalf("syntax error not reported")
	}

	p, err := NewLuaPilot("diagonal", `function next_direction(state) return {dx = 1, dy = 1} end`)
	if err != nil {
		t.Fatalf("NewLuaPilot: %v", err)
	}
	defer p.Close()
	if _, _, err := p.NextDirection(runningSnapshot(game.Cell{}, game.Cell{}, game.Right)); !errors.Is(err, ErrBadDirection) {
		t.Fatalf("diagonal: err = %v, want ErrBadDirection", err)
	}

	p2, err := NewLuaPilot("string", `function next_direction(state) return "up" end`)
	if err != nil {
		t.Fatalf("NewLuaPilot: %v", err)
	}
	defer p2.Close()
	if _, _, err := p2.NextDirection(runningSnapshot(game.Cell{}, game.Cell{}, game.Right)); !errors.Is(err, ErrBadDirection) {
		t.Fatalf("string: err = %v, want ErrBadDirection", err)
	}
}

func TestLoadLuaPilotFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "north.lua")
	if err := os.WriteFile(path, []byte(`function next_direction(state) return {dx = 0, dy = -1} end`), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	p, err := LoadLuaPilot(path)
	if err != nil {
		t.Fatalf("LoadLuaPilot: %v", err)
	}
	defer p.Close()

	dir, ok, err := p.NextDirection(runningSnapshot(game.Cell{X: 4, Y: 4}, game.Cell{}, game.Right))
	if err != nil || !ok || dir != game.Up {
		t.Fatalf("NextDirection = %s ok %v err %v, want up", dir, ok, err)
	}

	if _, err := LoadLuaPilot(filepath.Join(t.TempDir(), "missing.lua")); err == nil {
		t.Fatalf("missing file not reported")
	}
}

func TestDriveTurnsOnlyWhileRunning(t *testing.T) {
	p, err := LoadLuaPilot("builtin")
	if err != nil {
		t.Fatalf("LoadLuaPilot: %v", err)
	}
	defer p.Close()

	snaps := make(chan game.Snapshot, 4)
	steer := &recordingSteerer{turns: make(chan game.Direction, 4)}

	idle := runningSnapshot(game.Cell{X: 8, Y: 8}, game.Cell{X: 8, Y: 1}, game.Right)
	idle.State = game.StateEnded
	snaps <- idle
	snaps <- runningSnapshot(game.Cell{X: 8, Y: 8}, game.Cell{X: 8, Y: 1}, game.Right)
	close(snaps)

	done := make(chan struct{})
	go func() {
		p.Drive(context.Background(), snaps, steer)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Drive did not return after channel closed")
	}

	if len(steer.turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(steer.turns))
	}
	if d := <-steer.turns; d != game.Up {
		t.Fatalf("turn = %s, want up", d)
	}
}
