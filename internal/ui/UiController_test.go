package ui

import (
	"strings"
	"testing"

	"github.com/Mshel/gridsnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeControls struct {
	starts int
	stops  int
	turns  []game.Direction
}

func (f *fakeControls) Start() { f.starts++ }
func (f *fakeControls) Stop() { f.stops++ }
func (f *fakeControls) Turn(d game.Direction) { f.turns = append(f.turns, d) }

func press(t *testing.T, m ControllerModel, msg tea.KeyMsg) ControllerModel {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(ControllerModel)
	// Menu screens answer with a submit message; feed it back like the runtime would.
	if cmd != nil {
		if follow := cmd(); follow != nil {
			switch follow.(type) {
			case IntroSubmitMsg, GameOverSubmitMsg:
				next, _ = m.Update(follow)
				m = next.(ControllerModel)
			}
		}
	}
	return m
}

var (
	enterKey = tea.KeyMsg{Type: tea.KeyEnter}
	rightKey = tea.KeyMsg{Type: tea.KeyRight}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestControllerStartPlayRestart(t *testing.T) {
	controls := &fakeControls{}
	feed := make(chan game.Snapshot, 1)
	m := NewControllerModel(controls, feed, 80, 40)

	m = press(t, m, enterKey)
	if m.CurrentScreen != GameScreen || controls.starts != 1 {
		t.Fatalf("screen = %d starts = %d after start", m.CurrentScreen, controls.starts)
	}

	m = press(t, m, runeKey('w'))
	m = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if len(controls.turns) != 2 || controls.turns[0] != game.Up || controls.turns[1] != game.Left {
		t.Fatalf("turns = %v, want [up left]", controls.turns)
	}

	next, cmd := m.Update(SnapshotMsg{game.Snapshot{
		Body:      []game.Cell{{X: 16, Y: 8}, {X: 15, Y: 8}},
		Heading:   game.Right,
		Score:     1,
		State:     game.StateEnded,
		Tick:      9,
		GridCount: 16,
	}})
	m = next.(ControllerModel)
	if cmd == nil {
		t.Fatalf("snapshot did not re-arm the feed listener")
	}
	if m.CurrentScreen != GameOverScreen {
		t.Fatalf("screen = %d after crash, want game over", m.CurrentScreen)
	}
	if m.GameOverModel.FinalScore != 1 || m.GameOverModel.FinalLength != 2 || m.GameOverModel.FinalTicks != 9 {
		t.Fatalf("game over stats = %+v", m.GameOverModel)
	}
	if !strings.Contains(m.View(), "Score: 1") {
		t.Fatalf("game over view missing score")
	}

	m = press(t, m, enterKey)
	if m.CurrentScreen != GameScreen || controls.starts != 2 {
		t.Fatalf("screen = %d starts = %d after restart", m.CurrentScreen, controls.starts)
	}
}

func TestControllerQuitFromMenus(t *testing.T) {
	m := NewControllerModel(&fakeControls{}, make(chan game.Snapshot), 80, 40)

	m = press(t, m, rightKey)
	_, cmd := m.Update(enterKey)
	if cmd == nil {
		t.Fatalf("enter on Quit produced no command")
	}
	next, quit := m.Update(cmd())
	if quit == nil {
		t.Fatalf("quit button produced no command")
	}
	if _, ok := quit().(tea.QuitMsg); !ok {
		t.Fatalf("quit button did not quit")
	}
	if next.(ControllerModel).CurrentScreen != IntroScreen {
		t.Fatalf("quit changed screen")
	}

	_, cmd = m.Update(runeKey('q'))
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("q did not quit")
	}
}

func TestControllerQuitKeysWorkOnEveryScreen(t *testing.T) {
	quitKeys := []tea.KeyMsg{runeKey('q'), {Type: tea.KeyCtrlC}}
	for _, screen := range []Screen{IntroScreen, GameScreen, GameOverScreen} {
		for _, k := range quitKeys {
			m := NewControllerModel(&fakeControls{}, make(chan game.Snapshot), 80, 40)
			m.CurrentScreen = screen
			_, cmd := m.Update(k)
			if cmd == nil {
				t.Fatalf("screen %d: %q produced no command", screen, k.String())
			}
			if _, ok := cmd().(tea.QuitMsg); !ok {
				t.Fatalf("screen %d: %q did not quit", screen, k.String())
			}
		}
	}
}

func TestControllerEscGivesUp(t *testing.T) {
	controls := &fakeControls{}
	m := NewControllerModel(controls, make(chan game.Snapshot), 80, 40)
	m = press(t, m, enterKey)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if controls.stops != 1 {
		t.Fatalf("stops = %d, want 1", controls.stops)
	}
}

func TestControllerFeedClosedQuits(t *testing.T) {
	feed := make(chan game.Snapshot)
	close(feed)
	m := NewControllerModel(&fakeControls{}, feed, 80, 40)

	msg := m.listenForSnapshots()()
	if _, ok := msg.(FeedClosedMsg); !ok {
		t.Fatalf("listener returned %T, want FeedClosedMsg", msg)
	}
	_, cmd := m.Update(msg)
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("closed feed did not quit")
	}
}

func TestGameViewDrawsBoard(t *testing.T) {
	m := NewGameModel(&fakeControls{}, 120, 40)
	if !strings.Contains(m.View(), "Waiting") {
		t.Fatalf("empty game view should wait for the game")
	}

	m.Snapshot = game.Snapshot{
		Body:      []game.Cell{{X: 2, Y: 1}, {X: 1, Y: 1}},
		Heading:   game.Right,
		Food:      game.Cell{X: 3, Y: 3},
		Score:     4,
		State:     game.StateRunning,
		GridCount: 5,
	}
	board := m.renderMap()
	if got := strings.Count(board, "\n"); got != 4 {
		t.Fatalf("board has %d line breaks, want 4", got)
	}
	if !strings.Contains(board, "▶") || !strings.Contains(board, "●") {
		t.Fatalf("board missing head or food:\n%s", board)
	}
	if !strings.Contains(m.renderStatusPanel(), "Score: 4") {
		t.Fatalf("status panel missing score")
	}
}
