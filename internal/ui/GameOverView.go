package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// GameOverModel shows the final score with Restart and Quit buttons.
type GameOverModel struct {
	FinalScore     int
	FinalLength    int
	FinalTicks     int
	SelectedButton int // 0: Restart, 1: Quit
	ScreenWidth    int
	ScreenHeight   int
	keys           keyMap
	help           help.Model
}

var (
	gameOverButtonStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("250")).
				Padding(0, 3).
				Margin(1, 1).
				Bold(true)

	selectedButtonStyle = gameOverButtonStyle.
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15"))
)

func NewGameOverModel(w, h int) GameOverModel {
	return GameOverModel{ScreenWidth: w, ScreenHeight: h, keys: newKeyMap(), help: help.New()}
}

func (g GameOverModel) Init() tea.Cmd { return nil }

func (g GameOverModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.ScreenWidth = msg.Width
		g.ScreenHeight = msg.Height
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, g.keys.Left):
			g.SelectedButton = max(0, g.SelectedButton-1)
		case key.Matches(msg, g.keys.Right):
			g.SelectedButton = min(1, g.SelectedButton+1)
		case key.Matches(msg, g.keys.Select):
			selected := g.SelectedButton
			return g, func() tea.Msg { return GameOverSubmitMsg(selected) }
		}
	}
	return g, nil
}

func (g GameOverModel) View() string {
	messageStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("9")).
		Padding(1, 5).
		Align(lipgloss.Center)

	title := messageStyle.Render("G A M E   O V E R")
	stats := fmt.Sprintf("\nScore: %d\nLength: %d\nTicks survived: %d\n", g.FinalScore, g.FinalLength, g.FinalTicks)

	restartButton := gameOverButtonStyle.Render("RESTART")
	quitButton := gameOverButtonStyle.Render("QUIT")
	if g.SelectedButton == 0 {
		restartButton = selectedButtonStyle.Render("RESTART")
	} else {
		quitButton = selectedButtonStyle.Render("QUIT")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, restartButton, quitButton)
	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, buttons)

	return lipgloss.Place(g.ScreenWidth, g.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
			g.help.View(menuHelp{g.keys}),
		),
	)
}
