package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/pedigraph/pkg/pedigree/inbreeding"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// coefficientModel - Interactive inbreeding browser
// =============================================================================

// coefficientModel is the bubbletea model for browsing inbreeding
// coefficients. Rows are shown either ranked by F or in input order.
type coefficientModel struct {
	summary inbreeding.Summary
	ranked  []coefficient
	input   []coefficient
	byRank  bool

	cursor int
	offset int
	height int
}

func newCoefficientModel(r *inbreeding.Result) coefficientModel {
	input := make([]coefficient, len(r.F))
	for i, f := range r.F {
		input[i] = coefficient{id: r.IDs[i], f: f}
	}
	return coefficientModel{
		summary: r.Summary(),
		ranked:  rankCoefficients(r),
		input:   input,
		byRank:  true,
		height:  15,
	}
}

func (m coefficientModel) rows() []coefficient {
	if m.byRank {
		return m.ranked
	}
	return m.input
}

func (m coefficientModel) Init() tea.Cmd {
	return nil
}

func (m coefficientModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	n := len(m.rows())
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < n-1 {
				m.cursor++
			}
		case "pgup":
			m.cursor = max(0, m.cursor-m.height)
		case "pgdown", " ":
			m.cursor = max(0, min(n-1, m.cursor+m.height))
		case "home", "g":
			m.cursor = 0
		case "end", "G":
			m.cursor = max(0, n-1)
		case "s":
			m.byRank = !m.byRank
			m.cursor, m.offset = 0, 0
		}
	case tea.WindowSizeMsg:
		m.height = max(5, msg.Height-9)
	}

	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	return m, nil
}

func (m coefficientModel) View() string {
	var b strings.Builder

	order := "ranked by F"
	if !m.byRank {
		order = "input order"
	}
	b.WriteString(StyleTitle.Render("Inbreeding coefficients"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d individuals · %d inbred · mean %.4f · %s",
		m.summary.Individuals, m.summary.Inbred, m.summary.Mean, order)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  s toggle order  q quit"))
	b.WriteString("\n\n")

	all := m.rows()
	end := min(m.offset+m.height, len(all))
	rows := make([][]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, fmt.Sprint(i + 1), all[i].id, fmt.Sprintf("%.6f", all[i].f)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "#", "ID", "F").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle.Padding(0, 1)
			case m.offset+row >= len(all):
				return lipgloss.NewStyle()
			case m.offset+row == m.cursor:
				return listSelectedStyle.Padding(0, 1)
			case col == 3 && all[m.offset+row].f == 0:
				return listDimStyle.Padding(0, 1)
			}
			return listNormalStyle.Padding(0, 1)
		})

	b.WriteString(t.String())
	if len(all) > m.height {
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d–%d of %d", m.offset+1, end, len(all))))
	}
	return b.String()
}
