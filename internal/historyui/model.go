// Package historyui provides the Bubble Tea history browser.
package historyui

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/report"
	"github.com/verte-zerg/coinsplit/internal/state"
)

const (
	tabHistory = iota
	tabProfile
	tabAchievements
)

const sparkWidth = 40

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
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
	unlockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	lockedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	modalStyle      = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A")).
			Padding(1, 2)
)

// Model implements the Bubble Tea history browser.
type Model struct {
	ctx context.Context
	app *state.App

	splits []model.Split

	tabs      []string
	activeTab int
	viewports []viewport.Model
	table     table.Model

	detail        *model.Split
	confirmDelete bool
	status        string

	width  int
	height int
}

// NewModel constructs a history browser over app.
func NewModel(ctx context.Context, app *state.App) *Model {
	m := &Model{
		ctx:   ctx,
		app:   app,
		tabs:  []string{"History", "Profile", "Achievements"},
		table: newSplitTable(),
	}
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
	m.refresh()
	return m
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
		m.updateLayout()
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.detail != nil {
			switch msg.String() {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "enter":
			if split, ok := m.selectedSplit(); ok {
				m.detail = &split
			}
			return m, nil
		case "d", "delete":
			if split, ok := m.selectedSplit(); ok {
				m.confirmDelete = true
				m.status = fmt.Sprintf("Delete %q? y/n", split.Name)
				m.updateLayout()
			}
			return m, nil
		case "g", "home":
			if m.activeTab == tabHistory {
				m.table.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabHistory {
				m.table.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			if m.activeTab == tabHistory {
				m.table, cmd = m.table.Update(msg)
				return m, cmd
			}
			m.viewports[m.activeTab], cmd = m.viewports[m.activeTab].Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if msg.String() != "y" {
		m.status = ""
		m.updateLayout()
		return m, nil
	}
	split, ok := m.selectedSplit()
	if !ok {
		m.status = ""
		return m, nil
	}
	m.app.DeleteSplit(m.ctx, split.ID)
	m.status = fmt.Sprintf("Deleted %q", split.Name)
	m.refresh()
	return m, nil
}

func (m *Model) selectedSplit() (model.Split, bool) {
	if m.activeTab != tabHistory || len(m.splits) == 0 {
		return model.Split{}, false
	}
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.splits) {
		return model.Split{}, false
	}
	return m.splits[idx], true
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.detail != nil {
		return fitLines(m.renderDetail(), m.width, m.height)
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderTabs(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) refresh() {
	m.splits = m.app.Splits()
	m.table.SetRows(splitRows(m.splits))
	if n := len(m.splits); n > 0 && m.table.Cursor() >= n {
		m.table.SetCursor(n - 1)
	}
	m.updateLayout()
	m.renderTabContents()
}

func (m *Model) renderTabContents() {
	width := m.width
	if width <= 0 {
		width = 80
	}
	profile := m.app.Profile()
	m.viewports[tabProfile].SetContent(renderProfile(profile, m.splits, width))
	m.viewports[tabAchievements].SetContent(renderAchievements(profile.Achievements))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	headerHeight = lipgloss.Height(activeNavStyle.Render("X"))
	if headerHeight < 1 {
		headerHeight = 1
	}
	footerHeight = 1
	if m.status != "" {
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
	m.table.SetWidth(m.width)
	m.table.SetHeight(maxInt(1, bodyHeight-1))
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	next := (m.activeTab + delta + count) % count
	m.activeTab = next
	if m.activeTab == tabHistory {
		m.table.Focus()
	} else {
		m.table.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderBody(height int) string {
	if m.activeTab == tabHistory {
		if len(m.splits) == 0 {
			return fitLines("No saved calculations.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.table.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) renderFooter() string {
	help := "Nav: left/right  Scroll: up/down  Quit: q"
	if m.activeTab == tabHistory {
		help = "Nav: left/right  Select: up/down  Details: enter  Delete: d  Quit: q"
	}
	footer := headerStyle.Render(truncateLine(help, m.width))
	if m.status != "" {
		footer += "\n" + warnStyle.Render(m.status)
	}
	return footer
}

func (m *Model) renderDetail() string {
	var buf bytes.Buffer
	if err := report.NewPrinter(&buf, true).Split(*m.detail); err != nil {
		buf.Reset()
		fmt.Fprintf(&buf, "Failed to render split: %v", err)
	}
	body := strings.TrimRight(buf.String(), "\n") + "\n\n" + headerStyle.Render("Esc to close")
	box := modalStyle.Width(modalWidth(m.width)).Render(body)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

func newSplitTable() table.Model {
	t := table.New(
		table.WithColumns(splitColumns()),
		table.WithFocused(true),
		table.WithHeight(1),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	t.SetStyles(styles)
	return t
}

func splitColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 16},
		{Title: "Name", Width: 24},
		{Title: "Mode", Width: 10},
		{Title: "People", Width: 6},
		{Title: "Total", Width: 12},
	}
}

func splitRows(splits []model.Split) []table.Row {
	rows := make([]table.Row, len(splits))
	for i, s := range splits {
		rows[i] = table.Row{
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Name,
			string(s.Mode),
			strconv.Itoa(s.ParticipantCount()),
			report.FormatAmount(s.TotalAmount),
		}
	}
	return rows
}

func renderProfile(pr model.UserProfile, splits []model.Split, width int) string {
	cards := []string{
		metricCard("Name", pr.Name),
		metricCard("Splits", strconv.Itoa(pr.TotalSplits)),
		metricCard("Amount", report.FormatShort(pr.TotalAmount)),
		metricCard("Achievements", fmt.Sprintf("%d/%d", pr.UnlockedCount(), len(pr.Achievements))),
	}
	var summary string
	if width < 80 {
		summary = strings.Join(cards, "\n")
	} else {
		summary = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	if len(splits) < 2 {
		return summary
	}
	totals := make([]float64, len(splits))
	for i, s := range splits {
		totals[len(splits)-1-i] = s.TotalAmount
	}
	spark := report.Sparkline(totals, minInt(sparkWidth, maxInt(1, width-10)))
	return summary + "\n\n" + cardTitleStyle.Render("Totals") + "  " + spark
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func renderAchievements(list []model.Achievement) string {
	if len(list) == 0 {
		return "No achievements."
	}
	lines := make([]string, 0, len(list))
	for _, a := range list {
		if a.Unlocked {
			lines = append(lines, unlockedStyle.Render("✓ "+a.Title)+"  "+a.Description)
			continue
		}
		lines = append(lines, lockedStyle.Render("· "+a.Title+"  "+a.Description))
	}
	return strings.Join(lines, "\n")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func modalWidth(width int) int {
	return maxInt(40, minInt(width-4, 80))
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

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
