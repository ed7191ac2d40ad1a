// Package eval grades generated text with a model-judged rubric.
//
// An [Evaluator] sends the text under review to a [textgen.Generator]
// together with a rubric prompt, then parses the structured reply
// (Score/Reasoning plus rubric-specific detail lines) into a [Result].
// The score is whatever the judge model said, clamped to the rubric
// scale; a reply without a score line is an error, never a guess.
package eval

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/schwiftylabs/portal/pkg/textgen"
)

// Score bounds of the grading scale.
const (
	MinScore = 1
	MaxScore = 10
)

// ErrUnparseableScore is returned (wrapped in a [*ScoreParseError]) when
// the judge reply carries no score line.
var ErrUnparseableScore = errors.New("eval: no score in reply")

// ScoreParseError reports a judge reply that could not be scored. Raw
// holds the full reply for inspection.
type ScoreParseError struct {
	Raw string
}

func (e *ScoreParseError) Error() string {
	return fmt.Sprintf("eval: no score found in reply (%d bytes)", len(e.Raw))
}

func (e *ScoreParseError) Unwrap() error { return ErrUnparseableScore }

// Result is a parsed evaluation.
type Result struct {
	// Score is the judge's rating on the [MinScore, MaxScore] scale.
	Score int `json:"score"`

	// Reasoning is the judge's explanation.
	Reasoning string `json:"reasoning"`

	// Details holds the remaining rubric lines, e.g. "Issues" for the
	// factual rubric, "Strengths"/"Improvements" for creativity.
	Details map[string]string `json:"details,omitempty"`

	// Raw is the unparsed judge reply.
	Raw string `json:"raw_response"`
}

// Evaluator grades text using a judge model.
type Evaluator struct {
	gen textgen.Generator
}

// New creates an Evaluator on top of a judge generator.
func New(gen textgen.Generator) *Evaluator {
	return &Evaluator{gen: gen}
}

// FactualConsistency grades how well the generated text sticks to the
// source facts. Source values are rendered as sorted "key: value" lines
// so the same input always produces the same prompt.
func (e *Evaluator) FactualConsistency(ctx context.Context, generated string, source map[string]any) (*Result, error) {
	raw, err := e.gen.Generate(ctx, factualConsistencyPrompt(generated, source))
	if err != nil {
		return nil, fmt.Errorf("eval: factual consistency: %w", err)
	}
	return ParseResult(raw)
}

// Creativity grades humor, originality, and how well the text captures
// the show's tone.
func (e *Evaluator) Creativity(ctx context.Context, generated string) (*Result, error) {
	raw, err := e.gen.Generate(ctx, creativityPrompt(generated))
	if err != nil {
		return nil, fmt.Errorf("eval: creativity: %w", err)
	}
	return ParseResult(raw)
}

// ParseResult parses a judge reply of the form
//
//	Score: 7
//	Reasoning: ...
//	Issues: ...
//
// The first "Score:" line containing digits decides the score; its digits
// are concatenated and clamped to [MinScore, MaxScore], so "Score: 12"
// grades as 10 and "Score: 0" as 1. A "Reasoning:" line fills Reasoning,
// any other "key: value" line lands in Details. Without a scoreable line
// the reply is rejected with a [*ScoreParseError].
func ParseResult(raw string) (*Result, error) {
	res := &Result{
		Raw:     raw,
		Details: make(map[string]string),
	}

	scored := false
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Score:"):
			if scored {
				continue
			}
			digits := digitsOf(strings.TrimPrefix(line, "Score:"))
			if digits == "" {
				continue
			}
			res.Score = clampScore(digits)
			scored = true
		case strings.HasPrefix(line, "Reasoning:"):
			res.Reasoning = strings.TrimSpace(strings.TrimPrefix(line, "Reasoning:"))
		case strings.Contains(line, ":"):
			key, value, _ := strings.Cut(line, ":")
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			res.Details[key] = strings.TrimSpace(value)
		}
	}

	if !scored {
		return nil, &ScoreParseError{Raw: raw}
	}
	return res, nil
}

// digitsOf returns s with everything but ASCII digits removed.
func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// clampScore turns a digit string into a score in [MinScore, MaxScore].
// Digit runs too long for an int still clamp to MaxScore.
func clampScore(digits string) int {
	if len(digits) > 3 {
		return MaxScore
	}
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
	}
	if n < MinScore {
		return MinScore
	}
	if n > MaxScore {
		return MaxScore
	}
	return n
}
