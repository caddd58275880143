// Package scanprogress renders a live one-line progress display for scans
// and bulk installs.
package scanprogress

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Vrilya/wow-addon-updater/internal/ui/styles"
)

// Model is the bubbletea model for per-addon progress display
type Model struct {
	title       string
	spinner     spinner.Model
	progressBar progress.Model
	current     int
	total       int
	name        string
	done        bool
	width       int
}

// NewModel creates a progress model with the given title
func NewModel(title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Spinner

	p := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return Model{
		title:       title,
		spinner:     s,
		progressBar: p,
		width:       80,
	}
}

// Progress messages for updating state
type (
	// ItemMsg reports that work on one addon has started
	ItemMsg struct {
		Current int
		Total   int
		Name    string
	}

	// DoneMsg signals the entire operation is complete
	DoneMsg struct{}
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tea.WindowSize())
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = minInt(msg.Width-10, 40)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		progressModel, cmd := m.progressBar.Update(msg)
		m.progressBar = progressModel.(progress.Model)
		return m, cmd

	case ItemMsg:
		m.current = msg.Current
		m.total = msg.Total
		m.name = msg.Name
		if msg.Total > 0 {
			return m, m.progressBar.SetPercent(float64(msg.Current) / float64(msg.Total))
		}
		return m, nil

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the progress display
func (m Model) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.Text).
		Bold(true).
		MarginBottom(1)
	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n\n")

	indent := "  "
	if m.total > 0 {
		counter := styles.MutedText.Render(fmt.Sprintf("(%d/%d)", m.current, m.total))
		line := fmt.Sprintf("%s%s %s %s", indent, m.spinner.View(), counter, styles.AddonName.Render(m.name))
		b.WriteString(line)
		b.WriteString("\n")
		b.WriteString(indent + m.progressBar.View() + "\n")
	} else {
		b.WriteString(indent + m.spinner.View() + " " + styles.MutedText.Render("Starting...") + "\n")
	}

	b.WriteString("\n")
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
