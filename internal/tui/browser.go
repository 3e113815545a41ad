// Package tui is the scrollable terminal browser over the disorder cards.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/render"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BC34A")).
			Padding(0, 1)
	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8a94a6")).
			Padding(0, 1)
)

// chrome is the number of lines taken by the header and footer.
const chrome = 2

// Model shows every card in one scrollable viewport. Its only state is the
// loaded catalog and the window geometry.
type Model struct {
	title    string
	cards    []render.Card
	viewport viewport.Model
	width    int
	height   int
}

// New creates a browser over cards.
func New(title string, cards []render.Card) Model {
	m := Model{
		title:    title,
		cards:    cards,
		viewport: viewport.New(render.DefaultWidth, 20),
	}
	m.SetSize(render.DefaultWidth, 20+chrome)
	return m
}

// SetSize lays the cards out for a w by h terminal.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.viewport.Height = max(h-chrome, 1)
	m.viewport.SetContent(render.Text(m.cards, render.TextOptions{Width: w}))
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(headerStyle.Render(fmt.Sprintf("%s · %d disorders", m.title, len(m.cards))))
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(footerStyle.Render(fmt.Sprintf("%3.f%%  ↑/↓ scroll · g/G top/bottom · q quit", m.viewport.ScrollPercent()*100)))
	return sb.String()
}

// Run starts the browser full-screen and blocks until the user quits.
func Run(title string, cards []render.Card, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseCellMotion()}, opts...)
	if _, err := tea.NewProgram(New(title, cards), opts...).Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
