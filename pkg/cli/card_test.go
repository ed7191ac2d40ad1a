package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCardRender(t *testing.T) {
	card := Card{
		Styles: NewStyles(DefaultTheme),
		Title:  "Rick Sanchez",
		Rows: []Row{
			{Label: "Species", Value: "Human"},
			{Label: "Status", Value: "Alive"},
		},
		Body: "A genius scientist with a drinking problem and a portal gun.",
	}

	out := card.Render(60)
	lines := strings.Split(out, "\n")

	if len(lines) < 5 {
		t.Fatalf("rendered %d lines, want at least 5", len(lines))
	}
	for i, line := range lines {
		if got := lipgloss.Width(line); got != 60 {
			t.Errorf("line %d width = %d, want 60: %q", i, got, line)
		}
	}
	if !strings.Contains(out, "Species") || !strings.Contains(out, "Human") {
		t.Error("rows missing from output")
	}
	if !strings.Contains(out, "portal gun") {
		t.Error("body missing from output")
	}
}

func TestCardRenderDefaultWidth(t *testing.T) {
	card := Card{Styles: NewStyles(DefaultTheme), Title: "x"}

	lines := strings.Split(card.Render(0), "\n")
	if got := lipgloss.Width(lines[0]); got != DefaultCardWidth {
		t.Errorf("width = %d, want %d", got, DefaultCardWidth)
	}
}

func TestCardRenderTruncatesLongRow(t *testing.T) {
	card := Card{
		Styles: NewStyles(DefaultTheme),
		Title:  "t",
		Rows:   []Row{{Label: "Long", Value: strings.Repeat("x", 200)}},
	}

	for i, line := range strings.Split(card.Render(40), "\n") {
		if got := lipgloss.Width(line); got != 40 {
			t.Errorf("line %d width = %d, want 40", i, got)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"short", "hello world", 20, []string{"hello world"}},
		{"wraps on space", "one two three four", 9, []string{"one two", "three", "four"}},
		{"keeps newlines", "a\nb", 10, []string{"a", "b"}},
		{"hard cut", strings.Repeat("x", 12), 5, []string{"xxxxx", "xxxxx", "xx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.text, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		s     string
		width int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, ""},
		{"日本語", 4, "日本"}, // double-width runes
	}

	for _, tt := range tests {
		if got := truncateString(tt.s, tt.width); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.s, tt.width, got, tt.want)
		}
	}
}
