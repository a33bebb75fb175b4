// Package tui provides the Bubble Tea calculator interface.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/coinsplit/internal/calculator"
	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/report"
	"github.com/verte-zerg/coinsplit/internal/state"
)

const (
	minParticipants = 2
	maxParticipants = 20
	tipStep         = 5
	maxTip          = 25
	maxListed       = 8
)

// Model implements the Bubble Tea calculator UI.
type Model struct {
	ctx context.Context
	app *state.App

	amount textinput.Model
	name   textinput.Model
	naming bool

	participants int
	tipPct       float64
	mode         model.SplitMode

	preview  model.Split
	status   string
	unlocked []model.Achievement

	width  int
	height int
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Width(8)
	valueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	unlockStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a calculator model.
func NewModel(ctx context.Context, app *state.App, cfg model.Config) *Model {
	amount := textinput.New()
	amount.Prompt = ""
	amount.Placeholder = "0"
	amount.CharLimit = 16
	amount.Focus()

	name := textinput.New()
	name.Prompt = ""
	name.Placeholder = model.DefaultSplitName
	name.CharLimit = 64

	m := &Model{
		ctx:          ctx,
		app:          app,
		amount:       amount,
		name:         name,
		participants: clampParticipants(cfg.Participants),
		tipPct:       clampTip(cfg.TipPct),
		mode:         cfg.Mode,
	}
	if !m.mode.Valid() {
		m.mode = model.ModeEqual
	}
	m.recompute()
	return m
}

func clampParticipants(n int) int {
	if n < minParticipants {
		return minParticipants
	}
	if n > maxParticipants {
		return maxParticipants
	}
	return n
}

func clampTip(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > maxTip {
		return maxTip
	}
	return v
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.naming {
			return m.updateNaming(msg)
		}
		return m.updateForm(msg)
	default:
		var cmd tea.Cmd
		if m.naming {
			m.name, cmd = m.name.Update(msg)
		} else {
			m.amount, cmd = m.amount.Update(msg)
		}
		return m, cmd
	}
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyLeft:
		m.tipPct = clampTip(m.tipPct - tipStep)
		m.recompute()
		return m, nil
	case tea.KeyRight:
		m.tipPct = clampTip(m.tipPct + tipStep)
		m.recompute()
		return m, nil
	case tea.KeyTab:
		m.mode = nextMode(m.mode)
		m.recompute()
		return m, nil
	case tea.KeyEnter:
		if m.preview.BillAmount <= 0 {
			m.status = "Enter a bill amount first"
			return m, nil
		}
		m.naming = true
		m.status = ""
		m.amount.Blur()
		m.name.SetValue("")
		return m, m.name.Focus()
	case tea.KeyRunes:
		switch string(msg.Runes) {
		case "+", "=":
			m.participants = clampParticipants(m.participants + 1)
			m.recompute()
			return m, nil
		case "-", "_":
			m.participants = clampParticipants(m.participants - 1)
			m.recompute()
			return m, nil
		}
		if !amountRunes(msg.Runes) {
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.amount, cmd = m.amount.Update(msg)
	m.recompute()
	return m, cmd
}

func (m *Model) updateNaming(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.stopNaming()
		return m, m.amount.Focus()
	case tea.KeyEnter:
		m.save()
		m.stopNaming()
		return m, m.amount.Focus()
	}
	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m *Model) stopNaming() {
	m.naming = false
	m.name.Blur()
}

func (m *Model) save() {
	split := m.app.Compute(m.input(m.name.Value()))
	res := m.app.AddSplit(m.ctx, split)
	m.unlocked = res.Unlocked
	m.status = fmt.Sprintf("Saved %q", res.Split.Name)
	m.amount.SetValue("")
	m.recompute()
}

func (m *Model) input(name string) calculator.Input {
	return calculator.Input{
		BillAmount:    m.amount.Value(),
		Participants:  m.participants,
		TipPercentage: m.tipPct,
		Mode:          m.mode,
		Name:          name,
	}
}

func (m *Model) recompute() {
	m.preview = m.app.Compute(m.input(""))
}

func nextMode(mode model.SplitMode) model.SplitMode {
	for i, v := range model.SplitModes {
		if v == mode {
			return model.SplitModes[(i+1)%len(model.SplitModes)]
		}
	}
	return model.ModeEqual
}

func amountRunes(runes []rune) bool {
	for _, r := range runes {
		if (r < '0' || r > '9') && r != '.' && r != ',' {
			return false
		}
	}
	return true
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderForm()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderForm() string {
	modes := make([]string, len(model.SplitModes))
	for i, mode := range model.SplitModes {
		if mode == m.mode {
			modes[i] = selectedStyle.Render("[" + string(mode) + "]")
		} else {
			modes[i] = mutedStyle.Render(string(mode))
		}
	}

	lines := []string{
		titleStyle.Render("Coin Split"),
		"",
		labelStyle.Render("Bill") + m.amount.View() + " " + report.Currency,
		labelStyle.Render("People") + valueStyle.Render(fmt.Sprintf("- %d +", m.participants)),
		labelStyle.Render("Tip") + valueStyle.Render(fmt.Sprintf("◀ %s ▶", report.FormatPercent(m.tipPct))),
		labelStyle.Render("Mode") + strings.Join(modes, " "),
		"",
	}
	for i, p := range m.preview.Participants {
		if i == maxListed {
			lines = append(lines, mutedStyle.Render(fmt.Sprintf("… %d more", len(m.preview.Participants)-maxListed)))
			break
		}
		lines = append(lines, report.ParticipantStyle(p.Color).Render("●")+" "+
			fmt.Sprintf("%-16s %s", p.Name, report.FormatAmount(p.Amount)))
	}
	if m.naming {
		lines = append(lines, "", labelStyle.Render("Name")+m.name.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderFooter() string {
	segments := []string{
		fmt.Sprintf("Tip %s", report.FormatAmount(m.preview.TipAmount)),
		fmt.Sprintf("Total %s", report.FormatAmount(m.preview.TotalAmount)),
		fmt.Sprintf("Per person %s", report.FormatAmount(m.preview.AmountPerPerson())),
	}
	if m.status != "" {
		segments = append(segments, m.status)
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if len(m.unlocked) > 0 {
		titles := make([]string, len(m.unlocked))
		for i, a := range m.unlocked {
			titles[i] = a.Title
		}
		footer += "  " + unlockStyle.Render("★ "+strings.Join(titles, ", "))
	}
	return footer
}
