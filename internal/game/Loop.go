package game

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Renderer receives a copy of the game state after every change.
type Renderer interface {
	Render(Snapshot)
}

type RendererFunc func(Snapshot)

func (f RendererFunc) Render(s Snapshot) { f(s) }

type intentKind int

const (
	intentStart intentKind = iota
	intentTurn
	intentStop
)

type intent struct {
	kind intentKind
	dir  Direction
}

// Loop drives a Game on a fixed-delay schedule: the next tick is armed only
// once the previous tick and its renderers have finished. Ticks and input
// intents are handled on the goroutine running Run, so the Game is never
// touched concurrently.
type Loop struct {
	game      *Game
	renderers []Renderer
	intents   chan intent
	logger    *log.Logger
}

func NewLoop(g *Game, renderers ...Renderer) *Loop {
	return &Loop{
		game:      g,
		renderers: renderers,
		intents:   make(chan intent, intentQueueSize),
		logger:    log.Default(),
	}
}

func (l *Loop) WithLogger(logger *log.Logger) *Loop {
	l.logger = logger
	return l
}

// Start begins a new session, or restarts one that ended.
func (l *Loop) Start() {
	l.enqueue(intent{kind: intentStart})
}

// Turn asks the snake to change heading. It never blocks; when the queue is
// full the intent is dropped.
func (l *Loop) Turn(d Direction) {
	l.enqueue(intent{kind: intentTurn, dir: d})
}

// Stop ends the running session.
func (l *Loop) Stop() {
	l.enqueue(intent{kind: intentStop})
}

func (l *Loop) enqueue(in intent) {
	select {
	case l.intents <- in:
	default:
		l.logger.Debug("Intent queue full, dropping intent", "kind", in.kind, "direction", in.dir)
	}
}

// Run processes ticks and intents until ctx is cancelled. An in-flight tick
// always completes before Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Debug("Game loop started", "interval", l.game.TickInterval, "grid", l.game.GridCount)
	defer l.logger.Debug("Game loop stopped")

	timer := time.NewTimer(l.game.TickInterval)
	timer.Stop()
	defer timer.Stop()

	var tickC <-chan time.Time
	arm := func() {
		timer.Reset(l.game.TickInterval)
		tickC = timer.C
	}
	disarm := func() {
		timer.Stop()
		tickC = nil
	}

	if l.game.IsRunning() {
		arm()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-tickC:
			tickC = nil
			ended := l.game.Tick()
			l.publish()
			if ended {
				l.logger.Info("Game over", "score", l.game.Score, "ticks", l.game.Ticks)
				continue
			}
			arm()

		case in := <-l.intents:
			switch in.kind {
			case intentStart:
				l.game.Start()
				l.logger.Info("Game started", "grid", l.game.GridCount)
				l.publish()
				arm()
			case intentTurn:
				before := l.game.Snake.Heading
				l.game.SetDirection(in.dir)
				if l.game.Snake.Heading != before {
					l.publish()
				}
			case intentStop:
				if !l.game.IsRunning() {
					continue
				}
				l.game.End()
				disarm()
				l.logger.Info("Game stopped", "score", l.game.Score, "ticks", l.game.Ticks)
				l.publish()
			}
		}
	}
}

func (l *Loop) publish() {
	snap := l.game.Snapshot()
	for _, r := range l.renderers {
		r.Render(snap)
	}
}

// Feed is a Renderer that hands snapshots to another goroutine. When the
// reader lags the oldest pending snapshot is dropped.
type Feed struct {
	c chan Snapshot
}

func NewFeed(size int) *Feed {
	return &Feed{c: make(chan Snapshot, max(1, size))}
}

func (f *Feed) C() <-chan Snapshot {
	return f.c
}

func (f *Feed) Render(s Snapshot) {
	for {
		select {
		case f.c <- s:
			return
		default:
		}
		select {
		case <-f.c:
		default:
		}
	}
}
