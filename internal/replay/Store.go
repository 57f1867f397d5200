package replay

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sessionsTable = "replay_sessions"
	framesTable   = "replay_frames"
)

var ErrSessionNotFound = errors.New("replay session not found")

// Store keeps replay sessions in SQLite.
type Store struct {
	db *sql.DB
}

type storedCell struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open replay database: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTables() error {
	const createTablesSQL = `
	CREATE TABLE IF NOT EXISTS ` + sessionsTable + ` (
		id TEXT PRIMARY KEY,
		grid_count INTEGER NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		final_score INTEGER NOT NULL,
		ticks INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ` + framesTable + ` (
		session_id TEXT NOT NULL REFERENCES ` + sessionsTable + `(id),
		tick INTEGER NOT NULL,
		state TEXT NOT NULL,
		score INTEGER NOT NULL,
		heading_dx INTEGER NOT NULL,
		heading_dy INTEGER NOT NULL,
		food_x INTEGER NOT NULL,
		food_y INTEGER NOT NULL,
		body TEXT NOT NULL,
		PRIMARY KEY (session_id, tick)
	);`

	if _, err := s.db.Exec(createTablesSQL); err != nil {
		return fmt.Errorf("failed to create replay tables: %w", err)
	}
	log.Debug("Replay tables ensured.")
	return nil
}

func (s *Store) SaveSession(ctx context.Context, session Session) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replay transaction: %w", err)
	}
	defer tx.Rollback()

	const insertSessionSQL = `
	INSERT INTO ` + sessionsTable + ` (id, grid_count, started_at, ended_at, final_score, ticks)
	VALUES (?, ?, ?, ?, ?, ?);`
	if _, err := tx.ExecContext(ctx, insertSessionSQL,
		session.ID,
		session.GridCount,
		session.StartedAt.UTC().Format(time.RFC3339Nano),
		session.EndedAt.UTC().Format(time.RFC3339Nano),
		session.FinalScore,
		session.Ticks,
	); err != nil {
		return fmt.Errorf("failed to insert replay session %s: %w", session.ID, err)
	}

	const insertFrameSQL = `
	INSERT INTO ` + framesTable + ` (session_id, tick, state, score, heading_dx, heading_dy, food_x, food_y, body)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
	stmt, err := tx.PrepareContext(ctx, insertFrameSQL)
	if err != nil {
		return fmt.Errorf("prepare frame insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range session.Frames {
		body, err := encodeBody(f)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, session.ID, f.Tick, f.State, f.Score,
			f.HeadingDx, f.HeadingDy, f.FoodX, f.FoodY, body); err != nil {
			return fmt.Errorf("failed to insert frame %d of %s: %w", f.Tick, session.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replay session %s: %w", session.ID, err)
	}
	return nil
}

// LoadSession returns a session with its frames ordered by tick.
func (s *Store) LoadSession(ctx context.Context, id string) (Session, error) {
	const selectSessionSQL = `
	SELECT id, grid_count, started_at, ended_at, final_score, ticks
	FROM ` + sessionsTable + ` WHERE id = ?;`

	var session Session
	var startedAt, endedAt string
	err := s.db.QueryRowContext(ctx, selectSessionSQL, id).Scan(
		&session.ID, &session.GridCount, &startedAt, &endedAt, &session.FinalScore, &session.Ticks)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to query replay session %s: %w", id, err)
	}
	if session.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return Session{}, fmt.Errorf("parse started_at of %s: %w", id, err)
	}
	if session.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return Session{}, fmt.Errorf("parse ended_at of %s: %w", id, err)
	}

	const selectFramesSQL = `
	SELECT tick, state, score, heading_dx, heading_dy, food_x, food_y, body
	FROM ` + framesTable + ` WHERE session_id = ? ORDER BY tick;`

	rows, err := s.db.QueryContext(ctx, selectFramesSQL, id)
	if err != nil {
		return Session{}, fmt.Errorf("failed to query frames of %s: %w", id, err)
	}
	defer rows.Close()

	for rows.Next() {
		f := Frame{SessionID: id}
		var body string
		if err := rows.Scan(&f.Tick, &f.State, &f.Score, &f.HeadingDx, &f.HeadingDy, &f.FoodX, &f.FoodY, &body); err != nil {
			return Session{}, fmt.Errorf("failed to scan frame row: %w", err)
		}
		if err := decodeBody(body, &f); err != nil {
			return Session{}, err
		}
		session.Frames = append(session.Frames, f)
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("error after iterating frames: %w", err)
	}

	return session, nil
}

func encodeBody(f Frame) (string, error) {
	cells := make([]storedCell, min(len(f.BodyX), len(f.BodyY)))
	for i := range cells {
		cells[i] = storedCell{X: f.BodyX[i], Y: f.BodyY[i]}
	}
	raw, err := json.Marshal(cells)
	if err != nil {
		return "", fmt.Errorf("encode body of frame %d: %w", f.Tick, err)
	}
	return string(raw), nil
}

func decodeBody(raw string, f *Frame) error {
	var cells []storedCell
	if err := json.Unmarshal([]byte(raw), &cells); err != nil {
		return fmt.Errorf("decode body of frame %d: %w", f.Tick, err)
	}
	f.BodyX = make([]int32, len(cells))
	f.BodyY = make([]int32, len(cells))
	for i, c := range cells {
		f.BodyX[i] = c.X
		f.BodyY[i] = c.Y
	}
	return nil
}
