package ui

import (
	"fmt"
	"strings"

	"github.com/Mshel/gridsnake/internal/game"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	voidColor    = "233"
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("172")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	voidCell  = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Render("  ")
	bodyCell  = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color("34")).Render("██")
	foodCell  = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color("196")).Render("● ")
	headStyle = lipgloss.NewStyle().Background(lipgloss.Color("46")).Foreground(lipgloss.Color("0")).Bold(true)

	headRunes = map[game.Direction]rune{
		game.Up:    '▲',
		game.Down:  '▼',
		game.Left:  '◀',
		game.Right: '▶',
	}
)

// GameViewModel draws the board from the latest snapshot and turns direction
// keys into intents.
type GameViewModel struct {
	Snapshot     game.Snapshot
	ScreenWidth  int
	ScreenHeight int
	controls     Controls
	keys         keyMap
	help         help.Model
}

func NewGameModel(controls Controls, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		controls:     controls,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		keys:         newKeyMap(),
		help:         help.New(),
	}
}

func (m GameViewModel) Init() tea.Cmd { return nil }

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.controls.Turn(game.Up)
		case key.Matches(msg, m.keys.Down):
			m.controls.Turn(game.Down)
		case key.Matches(msg, m.keys.Left):
			m.controls.Turn(game.Left)
		case key.Matches(msg, m.keys.Right):
			m.controls.Turn(game.Right)
		case key.Matches(msg, m.keys.Stop):
			m.controls.Stop()
		}
	}
	return m, nil
}

func (m GameViewModel) View() string {
	if m.Snapshot.GridCount == 0 {
		return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, "Waiting for the game to start...")
	}

	board := mapViewStyle.Render(m.renderMap())
	status := statusPanelStyle.Render(m.renderStatusPanel())

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, board, status),
	)
}

func (m GameViewModel) renderMap() string {
	snap := m.Snapshot
	body := make(map[game.Cell]bool, len(snap.Body))
	for _, c := range snap.Body {
		body[c] = true
	}
	head := snap.Head()

	var sb strings.Builder
	for row := 0; row < snap.GridCount; row++ {
		for col := 0; col < snap.GridCount; col++ {
			c := game.Cell{X: col, Y: row}
			switch {
			case len(snap.Body) > 0 && c == head:
				sb.WriteString(headStyle.Render(string(headRunes[snap.Heading]) + " "))
			case body[c]:
				sb.WriteString(bodyCell)
			case c == snap.Food:
				sb.WriteString(foodCell)
			default:
				sb.WriteString(voidCell)
			}
		}
		if row < snap.GridCount-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func (m GameViewModel) renderStatusPanel() string {
	snap := m.Snapshot
	var statusContent strings.Builder

	statusContent.WriteString(lipgloss.NewStyle().Bold(true).Render("--- Snake ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("Score: %d\n", snap.Score))
	statusContent.WriteString(fmt.Sprintf("Length: %d\n", len(snap.Body)))
	statusContent.WriteString(fmt.Sprintf("Head: %s\n", snap.Head()))
	statusContent.WriteString(fmt.Sprintf("Direction: %c\n", headRunes[snap.Heading]))
	statusContent.WriteString(fmt.Sprintf("Tick: %d\n", snap.Tick))

	statusContent.WriteString("\n" + lipgloss.NewStyle().Bold(true).Render("--- Controls ---") + "\n")
	statusContent.WriteString(m.help.FullHelpView(m.keys.FullHelp()))

	return statusContent.String()
}
