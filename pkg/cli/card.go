// Terminal card rendering for styled command output.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the accent color for styled output.
type Theme struct {
	Primary lipgloss.Color
}

// DefaultTheme is portal green.
var DefaultTheme = Theme{Primary: lipgloss.Color("#00ff9f")}

// Styles are the lipgloss styles a Card draws with.
type Styles struct {
	Title  lipgloss.Style
	Label  lipgloss.Style
	Border lipgloss.Style
}

// NewStyles derives card styles from a theme.
func NewStyles(t Theme) Styles {
	accent := lipgloss.NewStyle().Foreground(t.Primary)
	return Styles{
		Title:  accent.Bold(true).Padding(0, 1),
		Label:  accent.Bold(true),
		Border: accent,
	}
}

// Row is one "Label: value" line on a card.
type Row struct {
	Label string
	Value string
}

// Card renders a bordered card with a title, labeled rows, and an optional
// free-form body.
type Card struct {
	Styles Styles
	Title  string
	Rows   []Row
	Body   string // wrapped under a separator when non-empty
}

// DefaultCardWidth is used when Render is called with width 0.
const DefaultCardWidth = 72

// Render renders the card to a string.
func (c Card) Render(width int) string {
	if width < 20 {
		width = DefaultCardWidth
	}

	bc := c.Styles.Border
	maxContentWidth := width - 4

	var lines []string

	// Top border with embedded title: ╭─ Title ─...─╮
	title := c.Styles.Title.Render(c.Title)
	padding := max(0, width-3-lipgloss.Width(title))
	lines = append(lines, bc.Render("╭─")+title+bc.Render(strings.Repeat("─", padding)+"╮"))

	for _, row := range c.Rows {
		lines = append(lines, c.contentLine(bc, c.Styles.Label.Render(row.Label+": ")+row.Value, maxContentWidth))
	}

	if c.Body != "" {
		lines = append(lines, bc.Render("├"+strings.Repeat("─", width-2)+"┤"))
		for _, text := range wrapText(c.Body, maxContentWidth) {
			lines = append(lines, c.contentLine(bc, text, maxContentWidth))
		}
	}

	lines = append(lines, bc.Render("╰"+strings.Repeat("─", width-2)+"╯"))

	return strings.Join(lines, "\n")
}

// contentLine renders one bordered content line: │ text    │
func (c Card) contentLine(bc lipgloss.Style, text string, maxContentWidth int) string {
	if maxContentWidth > 1 && lipgloss.Width(text) > maxContentWidth {
		text = truncateString(text, maxContentWidth-1) + "…"
	}
	pad := strings.Repeat(" ", max(0, maxContentWidth-lipgloss.Width(text)))
	return bc.Render("│") + " " + text + pad + " " + bc.Render("│")
}

// wrapText splits text into lines no wider than width, wrapping on spaces
// where possible.
func wrapText(text string, width int) []string {
	if width < 1 {
		return []string{text}
	}

	var out []string
	for _, src := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		if src == "" {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range strings.Fields(src) {
			switch {
			case line == "":
				line = word
			case lipgloss.Width(line)+1+lipgloss.Width(word) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		// A single word longer than width is hard-cut.
		for lipgloss.Width(line) > width {
			cut := truncateString(line, width)
			if cut == "" || cut == line {
				break
			}
			out = append(out, cut)
			line = strings.TrimPrefix(line, cut)
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// truncateString cuts s to at most width terminal cells, never splitting a
// rune.
func truncateString(s string, width int) string {
	if width <= 0 {
		return ""
	}
	var b strings.Builder
	used := 0
	for _, r := range s {
		w := lipgloss.Width(string(r))
		if used+w > width {
			return b.String()
		}
		b.WriteRune(r)
		used += w
	}
	return s
}
