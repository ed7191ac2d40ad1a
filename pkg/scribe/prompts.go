package scribe

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/schwiftylabs/portal/pkg/rickmorty"
)

func locationSummaryPrompt(loc *rickmorty.Location) string {
	var b strings.Builder
	b.WriteString("You are the narrator from Rick and Morty. Generate a short, witty summary (2-3 sentences)\n")
	b.WriteString("about this location in the distinctive cynical and absurdist tone of the show.\n\n")
	b.WriteString("Location Details:\n")
	fmt.Fprintf(&b, "- Name: %s\n", loc.Name)
	fmt.Fprintf(&b, "- Type: %s\n", loc.Type)
	fmt.Fprintf(&b, "- Dimension: %s\n", loc.Dimension)
	fmt.Fprintf(&b, "- Number of Residents: %d\n", len(loc.Residents))
	b.WriteString("\nMake it funny, slightly dark, and remember to include some existential dread or sci-fi absurdity.\n")
	return b.String()
}

func dialoguePrompt(c1, c2 *rickmorty.Character) string {
	var b strings.Builder
	b.WriteString("Generate a short dialogue (4-6 lines) between these two Rick and Morty characters.\n")
	b.WriteString("Make it authentic to the show's humor and the characters' personalities.\n\n")
	writeCharacterBlock(&b, "Character 1", c1)
	b.WriteString("\n")
	writeCharacterBlock(&b, "Character 2", c2)
	b.WriteString("\nFormat the dialogue as:\n")
	fmt.Fprintf(&b, "%s: [their line]\n", c1.Name)
	fmt.Fprintf(&b, "%s: [their line]\n", c2.Name)
	b.WriteString("(continue for 4-6 exchanges)\n")
	return b.String()
}

func writeCharacterBlock(b *strings.Builder, label string, c *rickmorty.Character) {
	fmt.Fprintf(b, "%s:\n", label)
	fmt.Fprintf(b, "- Name: %s\n", c.Name)
	fmt.Fprintf(b, "- Species: %s\n", c.Species)
	fmt.Fprintf(b, "- Status: %s\n", c.Status)
	fmt.Fprintf(b, "- Location: %s\n", c.Location.Name)
}

func analysisPrompt(c *rickmorty.Character) string {
	var b strings.Builder
	b.WriteString("Provide a brief character analysis (2-3 sentences) for this Rick and Morty character.\n")
	b.WriteString("Focus on their significance, relationships, or interesting facts.\n\n")
	b.WriteString("Character:\n")
	fmt.Fprintf(&b, "- Name: %s\n", c.Name)
	fmt.Fprintf(&b, "- Species: %s\n", c.Species)
	fmt.Fprintf(&b, "- Status: %s\n", c.Status)
	fmt.Fprintf(&b, "- Gender: %s\n", c.Gender)
	fmt.Fprintf(&b, "- Origin: %s\n", c.Origin.Name)
	fmt.Fprintf(&b, "- Current Location: %s\n", c.Location.Name)
	fmt.Fprintf(&b, "- Episodes Appeared: %d\n", len(c.Episode))
	b.WriteString("\nBe informative but keep the Rick and Morty vibe.\n")
	return b.String()
}

func locationImagePrompt(loc *rickmorty.Location, summary string) string {
	var b strings.Builder
	b.WriteString("Based on this Rick and Morty location and its summary, create a detailed image generation prompt\n")
	b.WriteString("that would produce a high-quality visual representation.\n\n")
	fmt.Fprintf(&b, "Location: %s\n", loc.Name)
	fmt.Fprintf(&b, "Type: %s\n", loc.Type)
	fmt.Fprintf(&b, "Dimension: %s\n", loc.Dimension)
	fmt.Fprintf(&b, "Summary: %s\n", summary)
	b.WriteString("\nGenerate a single detailed prompt (2-3 sentences) for an AI image generator that captures:\n")
	b.WriteString("- The sci-fi, cartoon aesthetic of Rick and Morty\n")
	b.WriteString("- Key visual elements of this specific location\n")
	b.WriteString("- Vibrant colors and the show's art style\n")
	b.WriteString("\nReturn ONLY the image prompt, nothing else.\n")
	return b.String()
}

func dialogueImagePrompt(c1, c2 *rickmorty.Character, dialogue string) string {
	var b strings.Builder
	b.WriteString("Based on this Rick and Morty dialogue between two characters, create a detailed image generation prompt\n")
	b.WriteString("for a scene showing them in conversation.\n\n")
	fmt.Fprintf(&b, "Character 1: %s (%s)\n", c1.Name, c1.Species)
	fmt.Fprintf(&b, "Character 2: %s (%s)\n", c2.Name, c2.Species)
	b.WriteString("\nDialogue excerpt:\n")
	fmt.Fprintf(&b, "%s\n", excerpt(dialogue, 200))
	b.WriteString("\nGenerate a single detailed prompt (2-3 sentences) for an AI image generator that:\n")
	b.WriteString("- Shows both characters in the Rick and Morty animated art style\n")
	b.WriteString("- Captures the mood and setting of their conversation\n")
	b.WriteString("- Uses vibrant colors and the show's signature sci-fi aesthetic\n")
	b.WriteString("- Shows the characters clearly with expressive poses\n")
	b.WriteString("\nReturn ONLY the image prompt, nothing else.\n")
	return b.String()
}

// excerpt truncates s to at most max bytes, backing off to a rune
// boundary, with a trailing ellipsis when anything was cut.
func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
