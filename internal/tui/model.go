// Package tui provides the Bubble Tea practice interface.
package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeline/internal/corpus"
	"github.com/verte-zerg/typeline/internal/metric"
	"github.com/verte-zerg/typeline/internal/model"
	"github.com/verte-zerg/typeline/internal/profile"
)

var (
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	missStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	letterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea practice UI.
type Model struct {
	config   model.Config
	profiles *profile.List
	src      *corpus.Source
	metric   metric.TriplePoint

	width  int
	height int
}

// NewModel constructs a practice TUI model.
func NewModel(cfg model.Config, profiles *profile.List, src *corpus.Source, m metric.TriplePoint) *Model {
	md := &Model{
		config:   cfg,
		profiles: profiles,
		src:      src,
		metric:   m,
	}
	md.profiles.Session().FillNextLines()
	return md
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.cycleProfile()
			return m, nil
		case tea.KeyBackspace, tea.KeyDelete:
			m.profiles.Session().Backspace()
			return m, nil
		case tea.KeySpace:
			m.applyChar(' ')
			return m, nil
		case tea.KeyRunes:
			for _, r := range msg.Runes {
				m.applyChar(r)
			}
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// applyChar runs one input character through the engine and, on line
// completion, scores the line and refills vocabulary on demand.
func (m *Model) applyChar(r rune) {
	active := m.profiles.Active()
	line, done := active.Session.ApplyChar(r)
	if !done {
		return
	}
	if req, ok := active.Tracker.AddLine(line); ok {
		words := m.src.WeightedBatch(req.Count, req.Weak, m.config.WeakFactor)
		active.Session.UpdateWords(words)
	}
	active.Session.FillNextLines()
}

func (m *Model) cycleProfile() {
	next := (m.profiles.ActiveIndex() + 1) % m.profiles.Len()
	if err := m.profiles.Select(next); err != nil {
		logErrf("failed to switch profile: %v\n", err)
		return
	}
	m.profiles.Session().FillNextLines()
}

// View implements tea.Model.
func (m *Model) View() string {
	s := m.profiles.Session()

	var lines []string
	lines = append(lines, renderActiveLine(s.Hits(), s.Errors(), s.PendingTargets()))
	lines = append(lines, renderTargetIndicator(len(s.Hits()), len(s.Errors()) == 0))
	for _, next := range s.NextLines() {
		lines = append(lines, dimStyle.Render(next))
	}
	training := strings.Join(lines, "\n")

	letters := m.renderLetters()
	content := lipgloss.JoinHorizontal(lipgloss.Top, letters, "  ", training)

	if m.width == 0 || m.height == 0 {
		return content
	}
	footer := m.renderFooter()
	bodyHeight := m.height - 1
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Right, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderLetters() string {
	ratios := m.profiles.Active().Tracker.CleanLetters()
	if len(ratios) == 0 {
		return ""
	}
	rows := make([]string, 0, len(ratios))
	for _, lr := range ratios {
		mark := lipgloss.NewStyle().
			Foreground(severityColor(m.metric.Value(lr.Ratio))).
			Render("■")
		rows = append(rows, fmt.Sprintf("%s %s", letterStyle.Render(string(lr.Char)), mark))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderFooter() string {
	active := m.profiles.Active()
	return footerStyle.Render(fmt.Sprintf("%s · %s", active.Name, active.Layout))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
