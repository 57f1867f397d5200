// Package spectate streams game snapshots to websocket viewers.
package spectate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	clientBufferSize = 16
	writeTimeout     = 5 * time.Second
)

type cellMessage struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type headingMessage struct {
	Dx int `json:"dx"`
	Dy int `json:"dy"`
}

// SnapshotMessage is the JSON shape sent to viewers.
type SnapshotMessage struct {
	Tick      int            `json:"tick"`
	State     string         `json:"state"`
	Score     int            `json:"score"`
	GridCount int            `json:"grid_count"`
	Heading   headingMessage `json:"heading"`
	Food      cellMessage    `json:"food"`
	Body      []cellMessage  `json:"body"`
}

func toMessage(snap game.Snapshot) SnapshotMessage {
	msg := SnapshotMessage{
		Tick:      snap.Tick,
		State:     snap.State.String(),
		Score:     snap.Score,
		GridCount: snap.GridCount,
		Heading:   headingMessage{Dx: snap.Heading.Dx, Dy: snap.Heading.Dy},
		Food:      cellMessage{X: snap.Food.X, Y: snap.Food.Y},
		Body:      make([]cellMessage, len(snap.Body)),
	}
	for i, c := range snap.Body {
		msg.Body[i] = cellMessage{X: c.X, Y: c.Y}
	}
	return msg
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub is a game.Renderer that fans snapshots out to every connected viewer.
// A viewer that falls behind misses snapshots rather than slowing the game.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	last    []byte
}

func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

func (h *Hub) Render(snap game.Snapshot) {
	data, err := json.Marshal(toMessage(snap))
	if err != nil {
		log.Error("Could not encode snapshot", "tick", snap.Tick, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("Spectator upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, clientBufferSize)}
	h.register(c)
	log.Info("Spectator connected", "remote", r.RemoteAddr, "viewers", h.Clients())

	go h.writePump(c)

	// Viewers never send anything meaningful; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.unregister(c)
	log.Info("Spectator disconnected", "remote", r.RemoteAddr, "viewers", h.Clients())
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- h.last
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) writePump(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Debug("Spectator write failed", "error", err)
			return
		}
	}
	c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ListenAndServe serves the hub on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, h *Hub) error {
	srv := &http.Server{Addr: addr, Handler: h.Handler()}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting spectator server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, failed := <-errCh:
		if failed {
			return fmt.Errorf("spectator server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("stop spectator server: %w", err)
	}
	return nil
}
