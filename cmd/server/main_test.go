package main

import (
	"context"
	"sync"
	"testing"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/replay"
)

func TestConnectionLimiter(t *testing.T) {
	cl := newConnectionLimiter(2)

	if count, ok := cl.acquire("10.0.0.1"); !ok || count != 1 {
		t.Fatalf("first acquire = %d %v", count, ok)
	}
	if count, ok := cl.acquire("10.0.0.1"); !ok || count != 2 {
		t.Fatalf("second acquire = %d %v", count, ok)
	}
	if count, ok := cl.acquire("10.0.0.1"); ok || count != 2 {
		t.Fatalf("third acquire = %d %v, want rejection", count, ok)
	}
	if _, ok := cl.acquire("10.0.0.2"); !ok {
		t.Fatalf("other ip rejected")
	}

	if after := cl.release("10.0.0.1"); after != 1 {
		t.Fatalf("count after release = %d, want 1", after)
	}
	cl.release("10.0.0.1")
	if _, tracked := cl.ipCounter["10.0.0.1"]; tracked {
		t.Fatalf("idle ip still tracked")
	}
}

type countingSaver struct {
	mu    sync.Mutex
	saved int
}

func (c *countingSaver) SaveSession(_ context.Context, _ replay.Session) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.saved++
	return nil
}

func TestRecorderPoolWaitsForSaves(t *testing.T) {
	saver := &countingSaver{}
	pool := &recorderPool{saver: saver}

	for i := 0; i < 3; i++ {
		recorder := pool.start()
		recorder.Render(game.Snapshot{State: game.StateRunning, Round: 1, GridCount: 16, Body: []game.Cell{{X: 8, Y: 8}}})
		recorder.Close()
	}
	pool.wait()

	if saver.saved != 3 {
		t.Fatalf("saved %d sessions before wait returned, want 3", saver.saved)
	}
}
