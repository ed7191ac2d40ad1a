// Package scribe writes show-flavored text about characters and locations:
// narrator summaries, character dialogue and analysis, and scene prompts
// for an image generator. All of it comes from a single
// [textgen.Generator]; scribe only owns the prompts.
package scribe

import (
	"context"
	"fmt"
	"strings"

	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/textgen"
)

// Scribe generates themed text through a model.
type Scribe struct {
	gen textgen.Generator
}

// New creates a Scribe on top of a generator.
func New(gen textgen.Generator) *Scribe {
	return &Scribe{gen: gen}
}

// LocationSummary writes a 2-3 sentence narrator-voice summary of a
// location.
func (s *Scribe) LocationSummary(ctx context.Context, loc *rickmorty.Location) (string, error) {
	out, err := s.gen.Generate(ctx, locationSummaryPrompt(loc))
	if err != nil {
		return "", fmt.Errorf("scribe: location summary: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CharacterDialogue writes a short dialogue (4-6 lines) between two
// characters, each line in "Name: line" form.
func (s *Scribe) CharacterDialogue(ctx context.Context, c1, c2 *rickmorty.Character) (string, error) {
	out, err := s.gen.Generate(ctx, dialoguePrompt(c1, c2))
	if err != nil {
		return "", fmt.Errorf("scribe: character dialogue: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// CharacterAnalysis writes a 2-3 sentence analysis of a character.
func (s *Scribe) CharacterAnalysis(ctx context.Context, c *rickmorty.Character) (string, error) {
	out, err := s.gen.Generate(ctx, analysisPrompt(c))
	if err != nil {
		return "", fmt.Errorf("scribe: character analysis: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// LocationImagePrompt turns a location and its summary into a single
// detailed prompt for an image generator.
func (s *Scribe) LocationImagePrompt(ctx context.Context, loc *rickmorty.Location, summary string) (string, error) {
	out, err := s.gen.Generate(ctx, locationImagePrompt(loc, summary))
	if err != nil {
		return "", fmt.Errorf("scribe: location image prompt: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// DialogueImagePrompt turns a dialogue between two characters into a
// single detailed scene prompt for an image generator. Only the first
// 200 characters of the dialogue go into the prompt.
func (s *Scribe) DialogueImagePrompt(ctx context.Context, c1, c2 *rickmorty.Character, dialogue string) (string, error) {
	out, err := s.gen.Generate(ctx, dialogueImagePrompt(c1, c2, dialogue))
	if err != nil {
		return "", fmt.Errorf("scribe: dialogue image prompt: %w", err)
	}
	return strings.TrimSpace(out), nil
}
