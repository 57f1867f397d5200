package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// IntroModel holds the state for the start menu.
type IntroModel struct {
	selected int // 0: Start, 1: Quit
	width    int
	height   int
	keys     keyMap
	help     help.Model
}

func NewIntroModel(w, h int) IntroModel {
	return IntroModel{selected: 0, width: w, height: h, keys: newKeyMap(), help: help.New()}
}

func (m IntroModel) Init() tea.Cmd { return nil }

func (m IntroModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Right):
			m.selected = 1 - m.selected
		case key.Matches(msg, m.keys.Select):
			selected := m.selected
			return m, func() tea.Msg { return IntroSubmitMsg(selected) }
		}
	}
	return m, nil
}

var snakeAscii = `
   ____      _     _                  _
  / ___|_ __(_) __| |___ _ __   __ _| | _____
 | |  _| '__| |/ _' / __| '_ \ / _' | |/ / _ \
 | |_| | |  | | (_| \__ \ | | | (_| |   <  __/
  \____|_|  |_|\__,_|___/_| |_|\__,_|_|\_\___|
`

var (
	asciiStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46"))

	introButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 2).
				Border(lipgloss.RoundedBorder())

	introSelectedButtonStyle = introButtonStyle.
					Background(lipgloss.Color("46")).
					Foreground(lipgloss.Color("0"))
)

func (m IntroModel) View() string {
	var sb strings.Builder
	sb.WriteString("\n")
	sb.WriteString(asciiStyle.Render(snakeAscii))
	sb.WriteString("\n")

	start := introButtonStyle.Render("Start")
	quit := introButtonStyle.Render("Quit")

	if m.selected == 0 {
		start = introSelectedButtonStyle.Render("Start")
	} else {
		quit = introSelectedButtonStyle.Render("Quit")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, start, quit)
	content := lipgloss.JoinVertical(lipgloss.Center, sb.String(), buttons, m.help.View(menuHelp{m.keys}))

	return lipgloss.Place(m.width, m.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}
