// Package historyui provides the Bubble Tea history interface.
package historyui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/RohanGottipati/typeflow/internal/model"
	"github.com/RohanGottipati/typeflow/internal/predict"
	"github.com/RohanGottipati/typeflow/internal/stats"
	"github.com/RohanGottipati/typeflow/internal/store"
)

const (
	tabOverview = iota
	tabSessions
	tabDetail
)

const plotHeight = 10

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

type refreshMsg struct{}

// Model implements the Bubble Tea history UI.
type Model struct {
	store   *store.Store
	changes <-chan struct{}

	records []model.SessionRecord
	errMsg  string

	tabs         []string
	activeTab    int
	viewports    []viewport.Model
	sessionTable table.Model
	detailIndex  int

	width  int
	height int
}

// NewModel constructs a history UI model. It subscribes to the store so
// the view refreshes when sessions are appended elsewhere.
func NewModel(st *store.Store) *Model {
	m := &Model{
		store:   st,
		changes: st.Subscribe(),
		tabs:    []string{"Overview", "Sessions", "Detail"},
	}
	m.initViewports()
	m.initSessionTable()
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return refreshMsg{}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case refreshMsg:
		m.refresh()
		return m, m.waitForChange()
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.String() == "q" {
			return m, tea.Quit
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "enter":
			if m.activeTab == tabSessions && len(m.records) > 0 {
				m.detailIndex = m.sessionTable.Cursor()
				m.activeTab = tabDetail
				m.renderTabContents()
				return m, tea.ClearScreen
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabSessions {
				m.sessionTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabSessions {
				var cmd tea.Cmd
				m.sessionTable, cmd = m.sessionTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initSessionTable() {
	columns := []table.Column{
		{Title: "When", Width: 16},
		{Title: "Mode", Width: 6},
		{Title: "WPM", Width: 6},
		{Title: "Accuracy", Width: 9},
		{Title: "Consistency", Width: 11},
		{Title: "Backspaces", Width: 10},
		{Title: "Persona", Width: 18},
	}
	t := table.New(table.WithColumns(columns), table.WithHeight(1))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.Padding(0, 1).PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	t.Focus()
	m.sessionTable = t
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
	if tabsHeight < 1 {
		tabsHeight = 1
	}
	headerHeight = tabsHeight
	footerHeight = 1
	if m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, bodyHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = bodyHeight
	}
	m.sessionTable.SetWidth(m.width)
	m.sessionTable.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := m.activeTab + delta
	if next < 0 {
		next = count - 1
	}
	if next >= count {
		next = 0
	}
	m.activeTab = next
}

func (m *Model) renderHeader() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return padLines(lipgloss.JoinHorizontal(lipgloss.Top, parts...), m.width)
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down/pgup/pgdn  Quit: q"
	if m.activeTab == tabSessions {
		help = "Nav: left/right  Select: up/down  Detail: enter  Quit: q"
	}
	out := headerStyle.Render(help)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(m.errMsg)
	}
	return out
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabSessions {
		if len(m.records) == 0 {
			return fitLines("No sessions recorded yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.sessionTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refresh() {
	records, err := m.store.List()
	if err != nil {
		m.errMsg = err.Error()
		for i := range m.viewports {
			m.viewports[i].SetContent("Failed to load history.")
		}
		return
	}
	m.errMsg = ""
	m.records = records
	if m.detailIndex >= len(records) {
		m.detailIndex = 0
	}
	m.applySessionRows()
	m.renderTabContents()
}

func (m *Model) applySessionRows() {
	rows := make([]table.Row, 0, len(m.records))
	for _, r := range m.records {
		rows = append(rows, table.Row{
			r.EndedAt.Local().Format("2006-01-02 15:04"),
			string(r.Mode),
			fmt.Sprintf("%.1f", r.WPM),
			fmt.Sprintf("%.1f%%", r.Accuracy),
			fmt.Sprintf("%.1f", r.ConsistencyScore),
			fmt.Sprintf("%d", r.Backspaces),
			r.Persona.Title,
		})
	}
	m.sessionTable.SetRows(rows)
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(m.renderOverview(width))
	m.viewports[tabDetail].SetContent(m.renderDetail(width))
}

func (m *Model) renderOverview(width int) string {
	if len(m.records) == 0 {
		return "No sessions recorded yet."
	}
	summary := m.renderSummaryCards(width)
	curve := m.renderWPMCurve(width)
	prediction := m.renderPrediction()
	return strings.TrimRight(summary+"\n\n"+curve+"\n"+prediction, "\n")
}

func (m *Model) renderSummaryCards(width int) string {
	var totalWPM, totalAcc, totalCons float64
	bestWPM := 0.0
	for _, r := range m.records {
		totalWPM += r.WPM
		totalAcc += r.Accuracy
		totalCons += r.ConsistencyScore
		if r.WPM > bestWPM {
			bestWPM = r.WPM
		}
	}
	count := float64(len(m.records))
	cards := []string{
		metricCard("Sessions", fmt.Sprintf("%d", len(m.records))),
		metricCard("Avg WPM", fmt.Sprintf("%.1f", totalWPM/count)),
		metricCard("Best WPM", fmt.Sprintf("%.1f", bestWPM)),
		metricCard("Avg Acc", fmt.Sprintf("%.1f%%", totalAcc/count)),
		metricCard("Avg Consistency", fmt.Sprintf("%.1f", totalCons/count)),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

// renderWPMCurve plots WPM per session, oldest to newest.
func (m *Model) renderWPMCurve(width int) string {
	if len(m.records) < 2 {
		return ""
	}
	values := make([]float64, len(m.records))
	for i, r := range m.records {
		values[len(m.records)-1-i] = r.WPM
	}
	var buf bytes.Buffer
	if err := stats.PlotWPMCurve(&buf, "WPM over sessions", values, stats.PlotWidthFor(width), plotHeight); err != nil {
		return fmt.Sprintf("Failed to render curve: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func (m *Model) renderPrediction() string {
	if len(m.records) < 2 {
		return ""
	}
	chronological := make([]model.SessionRecord, len(m.records))
	for i, r := range m.records {
		chronological[len(m.records)-1-i] = r
	}
	p, err := predict.New().Predict(chronological)
	if err != nil {
		return ""
	}
	return headerStyle.Render(fmt.Sprintf("Next session: %.1f WPM predicted (%.0f%% confidence)", p.PredictedWPM, p.Confidence))
}

func (m *Model) renderDetail(width int) string {
	if len(m.records) == 0 {
		return "No sessions recorded yet."
	}
	r := m.records[m.detailIndex]
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", cardValueStyle.Render(r.EndedAt.Local().Format("2006-01-02 15:04")))
	fmt.Fprintf(&b, "%s %s\n\n", cardValueStyle.Render(r.Persona.Title), headerStyle.Render(r.Persona.Description))
	fmt.Fprintf(&b, "WPM %.1f  Accuracy %.1f%%  Consistency %.1f  Backspaces %d  Duration %ds  Reaction %.1fs\n",
		r.WPM, r.Accuracy, r.ConsistencyScore, r.Backspaces, r.TestDuration, r.ReactionDelay)

	if len(r.WPMOverTime) > 1 {
		values := make([]float64, len(r.WPMOverTime))
		for i, sample := range r.WPMOverTime {
			values[i] = sample.WPM
		}
		var buf bytes.Buffer
		if err := stats.PlotWPMCurve(&buf, "WPM over time", values, stats.PlotWidthFor(width), plotHeight); err == nil {
			b.WriteString("\n")
			b.WriteString(strings.TrimRight(buf.String(), "\n"))
			b.WriteString("\n")
		}
	}

	if top := stats.TopMissedCharacters(r.MissedCharacters, 5); len(top) > 0 {
		fmt.Fprintf(&b, "\nMissed characters: %s\n", strings.Join(top, " "))
	}
	if len(r.TopErrorHotspots) > 0 {
		b.WriteString("\nError hotspots:\n")
		for _, h := range r.TopErrorHotspots {
			fmt.Fprintf(&b, "  %ds  %d errors\n", h.Second, h.Count)
		}
	}
	if len(r.TopBackspaceHotspots) > 0 {
		b.WriteString("\nBackspace hotspots:\n")
		for _, h := range r.TopBackspaceHotspots {
			fmt.Fprintf(&b, "  %ds  %d backspaces\n", h.Second, h.Count)
		}
	}
	if len(r.PersonaInsights) > 0 {
		b.WriteString("\n")
		for _, insight := range r.PersonaInsights {
			fmt.Fprintf(&b, "· %s\n", insight)
		}
	}
	if r.Summary != "" {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(r.Summary))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}
