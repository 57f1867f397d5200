package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/Mshel/gridsnake/internal/logging"
	"github.com/Mshel/gridsnake/internal/pilot"
	"github.com/Mshel/gridsnake/internal/replay"
	"github.com/Mshel/gridsnake/internal/spectate"
	"github.com/Mshel/gridsnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const defaultLogFile = "gridsnake.log"

func main() {
	logPath := os.Getenv("GRIDSNAKE_LOG_FILE")
	if logPath == "" {
		logPath = defaultLogFile
	}
	logFile, err := logging.OpenFile(logPath)
	if err != nil {
		fmt.Printf("error %v", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if err := logging.Setup(logFile, "runner"); err != nil {
		fmt.Printf("error %v", err)
		os.Exit(1)
	}

	if err := run(); err != nil {
		log.Error("Runner failed", "error", err)
		fmt.Printf("error %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := game.LoadConfigFromEnv()
	if err != nil {
		return err
	}
	g, err := game.NewGame(cfg, nil)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var workers sync.WaitGroup
	uiFeed := game.NewFeed(8)
	renderers := []game.Renderer{uiFeed}

	var recorder *replay.Recorder
	if dbPath := os.Getenv("GRIDSNAKE_REPLAY_DB"); dbPath != "" {
		store, err := replay.OpenStore(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		recorder = replay.NewRecorder(store, 4)
		recorder.ExportDir = os.Getenv("GRIDSNAKE_REPLAY_EXPORT_DIR")
		renderers = append(renderers, recorder)

		workers.Add(1)
		go func() {
			defer workers.Done()
			recorder.Run(context.Background())
		}()
		log.Info("Recording replays", "db", dbPath, "export_dir", recorder.ExportDir)
	}

	if addr := os.Getenv("GRIDSNAKE_SPECTATE_ADDR"); addr != "" {
		hub := spectate.NewHub()
		renderers = append(renderers, hub)

		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := spectate.ListenAndServe(ctx, addr, hub); err != nil {
				log.Error("Spectator server failed", "error", err)
			}
		}()
	}

	var autopilot *pilot.LuaPilot
	var pilotFeed *game.Feed
	if script := os.Getenv("GRIDSNAKE_AUTOPILOT"); script != "" {
		autopilot, err = pilot.LoadLuaPilot(script)
		if err != nil {
			return err
		}
		pilotFeed = game.NewFeed(1)
		renderers = append(renderers, pilotFeed)
		log.Info("Autopilot engaged", "strategy", autopilot.Name)
	}

	loop := game.NewLoop(g, renderers...)

	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		if err := loop.Run(ctx); err != nil {
			log.Error("Game loop failed", "error", err)
		}
	}()

	var pilotDone chan struct{}
	if autopilot != nil {
		pilotDone = make(chan struct{})
		go func() {
			defer close(pilotDone)
			autopilot.Drive(ctx, pilotFeed.C(), loop)
		}()
	}

	p := tea.NewProgram(ui.NewControllerModel(loop, uiFeed.C(), 0, 0), tea.WithAltScreen(), tea.WithContext(ctx))
	_, runErr := p.Run()
	if errors.Is(runErr, tea.ErrProgramKilled) {
		runErr = nil
	}

	cancel()
	<-loopDone
	if autopilot != nil {
		<-pilotDone
		autopilot.Close()
	}
	if recorder != nil {
		recorder.Close()
	}
	workers.Wait()

	return runErr
}
