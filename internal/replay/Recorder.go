package replay

import (
	"context"
	"path/filepath"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type SessionSaver interface {
	SaveSession(ctx context.Context, session Session) error
}

// Recorder is a game.Renderer that collects the frames of each session and
// hands finished sessions to a background saver. Render must be called from a
// single goroutine, which game.Loop guarantees.
type Recorder struct {
	// ExportDir, when set, also receives each saved session as
	// <session id>.parquet.
	ExportDir string

	saver   SessionSaver
	saves   chan Session
	current *Session
	round   int
	now     func() time.Time
}

func NewRecorder(saver SessionSaver, queueSize int) *Recorder {
	return &Recorder{
		saver: saver,
		saves: make(chan Session, max(1, queueSize)),
		now:   time.Now,
	}
}

func (r *Recorder) Render(snap game.Snapshot) {
	if snap.State == game.StateRunning && snap.Round != r.round {
		if r.current != nil {
			r.finish()
		}
		r.round = snap.Round
		r.current = &Session{
			ID:        uuid.NewString(),
			GridCount: snap.GridCount,
			StartedAt: r.now(),
		}
	}
	if r.current == nil {
		return
	}

	frame := frameFromSnapshot(r.current.ID, snap)
	if n := len(r.current.Frames); n > 0 && r.current.Frames[n-1].Tick == frame.Tick {
		// A turn between ticks; keep the latest view of this tick.
		r.current.Frames[n-1] = frame
	} else {
		r.current.Frames = append(r.current.Frames, frame)
	}
	r.current.FinalScore = snap.Score
	r.current.Ticks = snap.Tick

	if snap.State == game.StateEnded {
		r.finish()
	}
}

func (r *Recorder) finish() {
	session := *r.current
	session.EndedAt = r.now()
	r.current = nil

	select {
	case r.saves <- session:
	default:
		log.Error("Replay save queue full, dropping session", "session", session.ID, "ticks", session.Ticks)
	}
}

// Run saves finished sessions until Close is called and the queue drains.
func (r *Recorder) Run(ctx context.Context) {
	for session := range r.saves {
		if err := r.saver.SaveSession(ctx, session); err != nil {
			log.Error("Replay persist failed", "session", session.ID, "error", err)
			continue
		}
		log.Info("Replay saved", "session", session.ID, "score", session.FinalScore, "ticks", session.Ticks)

		if r.ExportDir == "" {
			continue
		}
		outPath := filepath.Join(r.ExportDir, session.ID+".parquet")
		if err := WriteFramesParquet(outPath, session.Frames); err != nil {
			log.Error("Replay export failed", "session", session.ID, "path", outPath, "error", err)
		}
	}
}

// Close queues the session in progress, if any, and stops accepting
// sessions. Render must not be called afterwards.
func (r *Recorder) Close() {
	if r.current != nil {
		r.finish()
	}
	close(r.saves)
}
