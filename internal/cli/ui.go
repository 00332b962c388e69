package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleBar    = lipgloss.NewStyle().Foreground(colorCyan)
	styleHeader = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// maxListed bounds how many ids of an anomaly set are printed.
const maxListed = 10

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints a detail line (indented).
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printTitle(w io.Writer, title string) {
	fmt.Fprintln(w, StyleTitle.Render(title))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key string, value any) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(28)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(fmt.Sprint(value)))
}

// printIDs prints an id set on one line, truncated after maxListed ids.
func printIDs(w io.Writer, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	shown := ids
	suffix := ""
	if len(ids) > maxListed {
		shown = ids[:maxListed]
		suffix = fmt.Sprintf(" … and %d more", len(ids)-maxListed)
	}
	printKeyValue(w, fmt.Sprintf("%s (%d)", label, len(ids)), strings.Join(shown, ", ")+suffix)
}

// printCacheStatus prints whether a result came from the cache.
func printCacheStatus(w io.Writer, cached bool) {
	status, style := iconFresh, styleComputed
	if cached {
		status, style = iconCached, styleCached
	}
	fmt.Fprintln(w, "  "+style.Render(status))
}

// =============================================================================
// Tables and Charts
// =============================================================================

// renderTable renders rows with a rounded border.
func renderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		String()
}

// renderHistogram renders one bar per bucket scaled to width cells.
func renderHistogram(counts []int, width int) string {
	peak := 0
	last := -1
	for i, c := range counts {
		peak = max(peak, c)
		if c > 0 {
			last = i
		}
	}
	if last < 0 {
		return StyleDim.Render("  (empty)")
	}

	var b strings.Builder
	for d := 0; d <= last; d++ {
		n := 0
		if peak > 0 {
			n = counts[d] * width / peak
		}
		if counts[d] > 0 && n == 0 {
			n = 1
		}
		label := fmt.Sprintf("%3d", d)
		if d == len(counts)-1 {
			label = fmt.Sprintf("%2d+", d)
		}
		fmt.Fprintf(&b, "  %s %s %s\n", StyleDim.Render(label), styleBar.Render(strings.Repeat("█", n)), StyleNumber.Render(fmt.Sprint(counts[d])))
	}
	return strings.TrimSuffix(b.String(), "\n")
}
