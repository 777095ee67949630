// Package lettersui provides the Bubble Tea letter-proficiency browser.
package lettersui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typeline/internal/metric"
	"github.com/verte-zerg/typeline/internal/proficiency"
)

const severityWidth = 20

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Bold(true)
	selectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#3A3A3A"))
	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// Model implements the Bubble Tea letters UI.
type Model struct {
	profileName string
	letters     []proficiency.LetterRatio
	stats       map[rune]proficiency.LetterStat
	metric      metric.TriplePoint

	table  table.Model
	width  int
	height int
}

// NewModel constructs a letters UI model for one profile.
func NewModel(profileName string, tracker *proficiency.Tracker, m metric.TriplePoint) *Model {
	letters := tracker.CleanLetters()
	// Worst letters surface first when browsing.
	sort.SliceStable(letters, func(i, j int) bool {
		return letters[i].Ratio < letters[j].Ratio
	})
	md := &Model{
		profileName: profileName,
		letters:     letters,
		stats:       tracker.Stats(),
		metric:      m,
	}
	md.initTable()
	return md
}

func (m *Model) initTable() {
	columns := []table.Column{
		{Title: "Char", Width: 6},
		{Title: "Clean", Width: 7},
		{Title: "Hits", Width: 6},
		{Title: "Misses", Width: 6},
		{Title: "Severity", Width: severityWidth},
	}
	rows := make([]table.Row, 0, len(m.letters))
	for _, lr := range m.letters {
		stat := m.stats[lr.Char]
		rows = append(rows, table.Row{
			string(lr.Char),
			fmt.Sprintf("%.1f%%", lr.Ratio*100),
			fmt.Sprintf("%d", stat.Clean),
			fmt.Sprintf("%d", stat.Dirty),
			severityBar(m.metric.Value(lr.Ratio), severityWidth),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = headerStyle
	styles.Selected = selectStyle
	m.table = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
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
		height := m.height - 6
		if height < 3 {
			height = 3
		}
		m.table.SetHeight(height)
		return m, nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC, msg.String() == "q", msg.Type == tea.KeyEsc:
			return m, tea.Quit
		case msg.String() == "g", msg.Type == tea.KeyHome:
			m.table.GotoTop()
			return m, nil
		case msg.String() == "G", msg.Type == tea.KeyEnd:
			m.table.GotoBottom()
			return m, nil
		default:
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("Letters for %s", m.profileName))
	var body string
	if len(m.letters) == 0 {
		body = "No letters tracked yet."
	} else {
		body = borderStyle.Render(m.table.View())
	}
	footer := footerStyle.Render("↑/↓ scroll · g/G top/bottom · q quit")
	return strings.Join([]string{title, body, footer}, "\n")
}

// severityBar renders v in [0, 1] as a fixed-width bar.
func severityBar(v float64, width int) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v*float64(width) + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("·", width-filled)
}
