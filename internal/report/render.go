package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/coinsplit/internal/model"
	"github.com/verte-zerg/coinsplit/internal/store"
)

const dateLayout = "2006-01-02 15:04"

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	unlockedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	lockedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

var participantPalette = map[model.ParticipantColor]lipgloss.Color{
	model.ColorBlue:   lipgloss.Color("#1677FF"),
	model.ColorPurple: lipgloss.Color("#722ED1"),
	model.ColorPink:   lipgloss.Color("#EB2F96"),
	model.ColorOrange: lipgloss.Color("#FA8C16"),
	model.ColorGreen:  lipgloss.Color("#52C41A"),
	model.ColorRed:    lipgloss.Color("#FF4D4F"),
	model.ColorCyan:   lipgloss.Color("#13C2C2"),
	model.ColorYellow: lipgloss.Color("#FADB14"),
}

// ParticipantStyle returns the foreground style for a participant color.
func ParticipantStyle(c model.ParticipantColor) lipgloss.Style {
	color, ok := participantPalette[c]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(color)
}

// Printer writes reports to w.
type Printer struct {
	w     io.Writer
	color bool
	width int
}

// NewPrinter returns a printer that colors output when w is a terminal or
// forceColor is set, unless NO_COLOR is present.
func NewPrinter(w io.Writer, forceColor bool) *Printer {
	width := 0
	if shouldUseColor(w, false) {
		width = TerminalWidth()
	}
	return &Printer{w: w, color: shouldUseColor(w, forceColor), width: width}
}

func (p *Printer) style(s lipgloss.Style, text string) string {
	if !p.color {
		return text
	}
	return s.Render(text)
}

func (p *Printer) lines(lines ...string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(p.w, line); err != nil {
			return err
		}
	}
	return nil
}

// Split prints one split with its participants.
func (p *Printer) Split(s model.Split) error {
	header := fmt.Sprintf("%s  %s", p.style(headingStyle, s.Name), p.style(labelStyle, fmt.Sprintf("(%s, %s)", s.Mode, s.CreatedAt.Local().Format(dateLayout))))
	summary := formatTable(nil, [][]string{
		{p.style(labelStyle, "Bill"), FormatAmount(s.BillAmount)},
		{p.style(labelStyle, "Tip"), fmt.Sprintf("%s (%s)", FormatAmount(s.TipAmount), FormatPercent(s.TipPercentage))},
		{p.style(labelStyle, "Total"), FormatAmount(s.TotalAmount)},
		{p.style(labelStyle, "Per person"), FormatAmount(s.AmountPerPerson())},
	}, nil)
	if err := p.lines(header); err != nil {
		return err
	}
	if err := p.lines(summary...); err != nil {
		return err
	}
	if len(s.Participants) == 0 {
		return nil
	}

	rows := make([][]string, len(s.Participants))
	for i, part := range s.Participants {
		rows[i] = []string{
			strconv.Itoa(i + 1),
			p.style(ParticipantStyle(part.Color), part.Name),
			FormatPercent(part.Percentage),
			FormatExact(part.Amount),
		}
	}
	if err := p.lines(""); err != nil {
		return err
	}
	return p.lines(formatTable([]string{"#", "Name", "Share", "Amount"}, rows, map[int]bool{0: true, 2: true, 3: true})...)
}

// History prints saved splits, newest first, and a chart of their totals.
func (p *Printer) History(splits []model.Split) error {
	if len(splits) == 0 {
		return p.lines("No saved calculations.")
	}
	rows := make([][]string, len(splits))
	totals := make([]float64, len(splits))
	for i, s := range splits {
		rows[i] = []string{
			shortID(s.ID),
			s.CreatedAt.Local().Format(dateLayout),
			truncate(s.Name, 28),
			string(s.Mode),
			strconv.Itoa(s.ParticipantCount()),
			FormatAmount(s.TotalAmount),
		}
		totals[len(splits)-1-i] = s.TotalAmount
	}
	lines := formatTable([]string{"ID", "Date", "Name", "Mode", "People", "Total"}, rows, map[int]bool{4: true, 5: true})
	if err := p.lines(lines...); err != nil {
		return err
	}
	if len(splits) < 2 {
		return nil
	}
	width := 40
	if p.width > 0 && p.width-10 < width {
		width = p.width - 10
	}
	return p.lines("", p.style(labelStyle, "Totals")+"  "+Sparkline(totals, width))
}

// Profile prints the profile summary.
func (p *Printer) Profile(pr model.UserProfile) error {
	rows := [][]string{
		{p.style(labelStyle, "Name"), pr.Name},
		{p.style(labelStyle, "Avatar"), pr.Avatar},
		{p.style(labelStyle, "Splits"), strconv.Itoa(pr.TotalSplits)},
		{p.style(labelStyle, "Amount"), FormatShort(pr.TotalAmount)},
		{p.style(labelStyle, "Achievements"), fmt.Sprintf("%d/%d", pr.UnlockedCount(), len(pr.Achievements))},
	}
	return p.lines(formatTable(nil, rows, nil)...)
}

// Achievements prints achievements. Locked ones are listed only when all is set.
func (p *Printer) Achievements(list []model.Achievement, all bool) error {
	rows := make([][]string, 0, len(list))
	for _, a := range list {
		if !a.Unlocked && !all {
			continue
		}
		mark := p.style(lockedStyle, "·")
		date := ""
		if a.Unlocked {
			mark = p.style(unlockedStyle, "✓")
			if a.UnlockedAt != nil {
				date = a.UnlockedAt.Local().Format(dateLayout)
			}
		}
		rows = append(rows, []string{mark, a.Title, a.Description, date})
	}
	if len(rows) == 0 {
		return p.lines("No achievements unlocked yet.")
	}
	return p.lines(formatTable(nil, rows, nil)...)
}

// Unlocked announces newly unlocked achievements.
func (p *Printer) Unlocked(list []model.Achievement) error {
	for _, a := range list {
		line := fmt.Sprintf("%s %s: %s", p.style(unlockedStyle, "★ Achievement unlocked"), a.Title, a.Description)
		if err := p.lines(line); err != nil {
			return err
		}
	}
	return nil
}

// Settings prints the preferences.
func (p *Printer) Settings(s model.AppSettings) error {
	rows := [][]string{
		{p.style(labelStyle, "Language"), strings.TrimSpace(s.Language.Flag() + " " + s.Language.DisplayName())},
		{p.style(labelStyle, "Theme"), string(s.Theme)},
		{p.style(labelStyle, "Text size"), fmt.Sprintf("%s (×%.2f)", s.TextSize, s.TextSize.Scale())},
	}
	return p.lines(formatTable(nil, rows, nil)...)
}

// Storage lists stored records with their size and last write time.
func (p *Printer) Storage(entries []store.Entry) error {
	if len(entries) == 0 {
		return p.lines("No stored records.")
	}
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Key, strconv.Itoa(e.Size), e.UpdatedAt.Local().Format(dateLayout)}
	}
	return p.lines(formatTable([]string{"Key", "Bytes", "Updated"}, rows, map[int]bool{1: true})...)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
