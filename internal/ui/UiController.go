package ui

import (
	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type Screen int

const (
	IntroScreen Screen = iota
	GameScreen
	GameOverScreen
)

// Messages for state transitions
type IntroSubmitMsg int    // 0 for Start, 1 for Quit
type GameOverSubmitMsg int // 0 for Restart, 1 for Quit

// SnapshotMsg carries a snapshot from the game loop into the program.
type SnapshotMsg struct {
	game.Snapshot
}

// FeedClosedMsg means the game loop is gone.
type FeedClosedMsg struct{}

// Controls are the lifecycle and steering triggers; *game.Loop satisfies it.
type Controls interface {
	Start()
	Turn(game.Direction)
	Stop()
}

type ControllerModel struct {
	CurrentScreen Screen
	controls      Controls
	feed          <-chan game.Snapshot
	keys          keyMap

	IntroModel    tea.Model
	GameModel     GameViewModel
	GameOverModel GameOverModel

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(controls Controls, feed <-chan game.Snapshot, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,
		controls:      controls,
		feed:          feed,
		keys:          newKeyMap(),

		IntroModel:    NewIntroModel(screenWidth, screenHeight),
		GameModel:     NewGameModel(controls, screenWidth, screenHeight),
		GameOverModel: NewGameOverModel(screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return tea.Batch(m.IntroModel.Init(), m.listenForSnapshots())
}

func (m ControllerModel) listenForSnapshots() tea.Cmd {
	feed := m.feed
	return func() tea.Msg {
		snap, ok := <-feed
		if !ok {
			return FeedClosedMsg{}
		}
		return SnapshotMsg{snap}
	}
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case GameScreen:
		return m.GameModel.View()
	case GameOverScreen:
		return m.GameOverModel.View()
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		gameModel, _ := m.GameModel.Update(msg)
		m.GameModel = gameModel.(GameViewModel)
		gameOverModel, _ := m.GameOverModel.Update(msg)
		m.GameOverModel = gameOverModel.(GameOverModel)
		return m, nil

	case SnapshotMsg:
		m.GameModel.Snapshot = msg.Snapshot
		if msg.State == game.StateEnded && m.CurrentScreen == GameScreen {
			log.Info("Snake crashed, showing Game Over screen.", "score", msg.Score, "ticks", msg.Tick)
			m.CurrentScreen = GameOverScreen
			m.GameOverModel.FinalScore = msg.Score
			m.GameOverModel.FinalLength = len(msg.Body)
			m.GameOverModel.FinalTicks = msg.Tick
			m.GameOverModel.SelectedButton = 0
		}
		return m, m.listenForSnapshots()

	case FeedClosedMsg:
		return m, tea.Quit

	case IntroSubmitMsg:
		if msg == 1 {
			return m, tea.Quit
		}
		m.CurrentScreen = GameScreen
		m.controls.Start()
		return m, nil

	case GameOverSubmitMsg:
		if msg == 1 {
			return m, tea.Quit
		}
		m.CurrentScreen = GameScreen
		m.controls.Start()
		return m, nil

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
		case GameScreen:
			var gameModel tea.Model
			gameModel, cmd = m.GameModel.Update(msg)
			m.GameModel = gameModel.(GameViewModel)
		case GameOverScreen:
			var gameOverModel tea.Model
			gameOverModel, cmd = m.GameOverModel.Update(msg)
			m.GameOverModel = gameOverModel.(GameOverModel)
		}
	}

	return m, cmd
}
