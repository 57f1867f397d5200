package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Mshel/gridsnake/internal/game"
	applog "github.com/Mshel/gridsnake/internal/logging"
	"github.com/Mshel/gridsnake/internal/replay"
	"github.com/Mshel/gridsnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"
)

const (
	host string = "0.0.0.0"
	port string = "6996"

	maxConnectionsPerIP = 2
	defaultHostKeyPath  = ".ssh/gridsnake_ed25519"
)

type connectionLimiter struct {
	mu        sync.Mutex
	ipCounter map[string]int
	limit     int
}

func newConnectionLimiter(limit int) *connectionLimiter {
	return &connectionLimiter{ipCounter: make(map[string]int), limit: limit}
}

func getIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// acquire reserves a slot for ip and reports the count it saw.
func (cl *connectionLimiter) acquire(ip string) (int, bool) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	current := cl.ipCounter[ip]
	if current >= cl.limit {
		return current, false
	}
	cl.ipCounter[ip]++
	return current + 1, true
}

func (cl *connectionLimiter) release(ip string) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.ipCounter[ip]--
	if cl.ipCounter[ip] <= 0 {
		delete(cl.ipCounter, ip)
	}
	return cl.ipCounter[ip]
}

func (cl *connectionLimiter) Middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := getIP(s)

		count, ok := cl.acquire(ip)
		if !ok {
			log.Warn("Connection denied: IP limit exceeded", "ip", ip, "attempted_count", count+1, "current_limit", cl.limit)
			errorMessage := fmt.Sprintf("Too many active connections from your IP (%d/%d). Please try again later.\r\n", count+1, cl.limit)
			s.Write([]byte(errorMessage))
			s.Close()
			return
		}

		log.Info("Connection accepted", "ip", ip, "current_count", count, "limit", cl.limit)
		next(s)
		log.Info("Connection closed and counter decremented", "ip", ip, "count_after", cl.release(ip))
	}
}

// recorderPool runs the replay saver of every SSH session so shutdown can
// wait for sessions still being written.
type recorderPool struct {
	saver replay.SessionSaver
	wg    sync.WaitGroup
}

func (p *recorderPool) start() *replay.Recorder {
	recorder := replay.NewRecorder(p.saver, 2)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		recorder.Run(context.Background())
	}()
	return recorder
}

func (p *recorderPool) wait() {
	p.wg.Wait()
}

func main() {
	if err := applog.Setup(os.Stderr, "server"); err != nil {
		log.Fatal("Invalid logging config", "error", err)
	}

	cfg, err := game.LoadConfigFromEnv()
	if err != nil {
		log.Fatal("Invalid game config", "error", err)
	}

	var recorders *recorderPool
	if dbPath := os.Getenv("GRIDSNAKE_REPLAY_DB"); dbPath != "" {
		store, err := replay.OpenStore(dbPath)
		if err != nil {
			log.Fatal("Could not open replay store", "error", err)
		}
		defer store.Close()
		recorders = &recorderPool{saver: store}
	}

	hostKeyPath := os.Getenv("GRIDSNAKE_PRIVATE_KEY_PATH")
	if hostKeyPath == "" {
		hostKeyPath = defaultHostKeyPath
	}

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(host+":"+port),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(newViewHandler(cfg, recorders)),
			activeterm.Middleware(),
			newConnectionLimiter(maxConnectionsPerIP).Middleware,
			logging.Middleware(),
		),
	)
	if serverCreateErr != nil {
		log.Fatal("Failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	log.Info("Starting SSH server", "host", host, "port", port, "grid", cfg.GridCount, "tick", cfg.TickInterval)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("Could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("Stopping SSH server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("Could not stop server", "error", err)
	}
	if recorders != nil {
		log.Info("Waiting for replay saves")
		recorders.wait()
	}
}

// newViewHandler gives every SSH session its own game, driven until the
// session closes.
func newViewHandler(cfg game.Config, recorders *recorderPool) bubbletea.Handler {
	return func(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
		pty, _, _ := sshSession.Pty()
		sessionLog := log.With("session", sshSession.Context().SessionID(), "user", sshSession.User())

		g, err := game.NewGame(cfg, nil)
		if err != nil {
			sessionLog.Error("Could not create game", "error", err)
			return nil, nil
		}

		feed := game.NewFeed(8)
		renderers := []game.Renderer{feed}

		var recorder *replay.Recorder
		if recorders != nil {
			recorder = recorders.start()
			renderers = append(renderers, recorder)
		}

		loop := game.NewLoop(g, renderers...).WithLogger(sessionLog)
		go func() {
			if err := loop.Run(sshSession.Context()); err != nil {
				sessionLog.Error("Game loop failed", "error", err)
			}
			if recorder != nil {
				recorder.Close()
			}
		}()

		controllerModel := ui.NewControllerModel(loop, feed.C(), pty.Window.Width, pty.Window.Height)
		return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
	}
}
