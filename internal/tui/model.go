package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RohanGottipati/typeflow/internal/engine"
	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/stats"
)

type phase int

const (
	phaseCountdown phase = iota
	phaseTyping
	phaseResults
)

type countdownMsg struct{}

type tickMsg struct{}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	countdownStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	authorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E")).Italic(true)
)

// SessionFactory builds a fresh session (with fresh text) for each run.
type SessionFactory func() *engine.Session

// Model implements the Bubble Tea typing UI.
type Model struct {
	factory SessionFactory
	sess    *engine.Session

	width  int
	height int

	phase     phase
	countdown int
}

// NewModel constructs a typing TUI model. The first session is created
// immediately; Tab creates a new one through the factory.
func NewModel(factory SessionFactory) *Model {
	m := &Model{factory: factory}
	m.startSession()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.phase == phaseCountdown {
		return countdownTick()
	}
	return liveTick()
}

func countdownTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg { return countdownMsg{} })
}

func liveTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case countdownMsg:
		if m.phase != phaseCountdown {
			return m, nil
		}
		m.countdown--
		if m.countdown <= 0 {
			m.phase = phaseTyping
			m.sess.Activate()
			return m, liveTick()
		}
		return m, countdownTick()
	case tickMsg:
		if m.phase != phaseTyping {
			return m, nil
		}
		m.sess.CheckClock()
		if m.sess.Ended() {
			m.phase = phaseResults
			return m, nil
		}
		return m, liveTick()
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab:
		m.startSession()
		if m.phase == phaseCountdown {
			return m, countdownTick()
		}
		return m, liveTick()
	case tea.KeyEsc:
		if m.phase == phaseTyping {
			m.sess.End()
			m.phase = phaseResults
			return m, nil
		}
		return m, tea.Quit
	case tea.KeyBackspace, tea.KeyDelete:
		if m.phase == phaseTyping {
			m.sess.HandleBackspace()
		}
		return m, nil
	case tea.KeySpace:
		return m.handleRunes([]rune{' '})
	case tea.KeyEnter:
		if m.phase == phaseResults {
			return m, tea.Quit
		}
		return m, nil
	case tea.KeyRunes:
		return m.handleRunes(msg.Runes)
	default:
		return m, nil
	}
}

func (m *Model) handleRunes(runes []rune) (tea.Model, tea.Cmd) {
	if m.phase != phaseTyping {
		return m, nil
	}
	for _, r := range runes {
		m.sess.HandleCharacter(r)
	}
	if m.sess.Ended() {
		m.phase = phaseResults
	}
	return m, nil
}

// startSession discards the current session, if any, and builds a fresh
// one. Time-boxed modes get a 3-2-1 countdown; the clock itself starts
// only on the first keystroke, so countdown time never counts.
func (m *Model) startSession() {
	m.sess = m.factory()
	if m.sess.Config().TimeBoxed() {
		m.phase = phaseCountdown
		m.countdown = 3
		return
	}
	m.phase = phaseTyping
	m.sess.Activate()
}

// View implements tea.Model.
func (m *Model) View() string {
	switch m.phase {
	case phaseCountdown:
		return m.viewCountdown()
	case phaseResults:
		return m.viewResults()
	default:
		return m.viewTyping()
	}
}

func (m *Model) viewCountdown() string {
	content := countdownStyle.Render(fmt.Sprintf("%d", m.countdown))
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewTyping() string {
	proc := m.sess.Processor()
	if proc.ExpectedLen() == 0 && m.sess.Config().Mode != model.ModeZen {
		return ""
	}
	styledRunes := buildStyledRunes(proc)
	if m.width == 0 || m.height == 0 {
		return renderStyledRunes(styledRunes)
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	wrapped := wrapStyledRunes(styledRunes, contentWidth)
	content := lipgloss.NewStyle().Width(contentWidth).Render(wrapped)
	if author := m.sess.Config().Author; author != "" {
		content += "\n\n" + authorStyle.Render("— "+author)
	}
	footer := m.renderFooter()
	if footer == "" || m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	live := m.sess.Live()
	cfg := m.sess.Config()
	segments := []string{
		fmt.Sprintf("%.1f WPM", live.WPM),
		fmt.Sprintf("%.1f%%", live.Accuracy),
	}
	if cfg.TimeBoxed() {
		remaining := cfg.TargetDuration - live.ElapsedSeconds
		if remaining < 0 {
			remaining = 0
		}
		segments = append(segments, fmt.Sprintf("%ds left", remaining))
	} else if live.ExpectedLen > 0 {
		progress := int(float64(live.Cursor) / float64(live.ExpectedLen) * 100)
		segments = append(segments, fmt.Sprintf("Progress %d%%", progress))
	} else {
		segments = append(segments, fmt.Sprintf("%ds", live.ElapsedSeconds))
	}
	if live.Backspaces > 0 {
		segments = append(segments, fmt.Sprintf("%d backspaces", live.Backspaces))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) viewResults() string {
	record, ok := m.sess.Record()
	if !ok {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(record.Persona.Title))
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(record.Persona.Description))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "WPM          %.1f\n", record.WPM)
	fmt.Fprintf(&b, "Accuracy     %.1f%%\n", record.Accuracy)
	fmt.Fprintf(&b, "Consistency  %.1f\n", record.ConsistencyScore)
	fmt.Fprintf(&b, "Backspaces   %d\n", record.Backspaces)
	fmt.Fprintf(&b, "Duration     %ds\n", record.TestDuration)
	fmt.Fprintf(&b, "Reaction     %.1fs\n", record.ReactionDelay)

	if len(record.WPMOverTime) > 1 {
		values := make([]float64, len(record.WPMOverTime))
		for i, sample := range record.WPMOverTime {
			values[i] = sample.WPM
		}
		// Smooth out single-second spikes before rendering.
		b.WriteString("\n")
		b.WriteString(footerStyle.Render(stats.Sparkline(stats.MovingAverage(values, 3))))
		b.WriteString("\n")
	}

	if len(record.PersonaInsights) > 0 {
		b.WriteString("\n")
		for _, insight := range record.PersonaInsights {
			fmt.Fprintf(&b, "· %s\n", insight)
		}
	}

	b.WriteString("\n")
	b.WriteString(footerStyle.Render("Tab restart · Enter/Esc quit"))

	content := b.String()
	if m.width == 0 || m.height == 0 {
		return content
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	boxed := lipgloss.NewStyle().Width(contentWidth).Render(content)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, boxed)
}
