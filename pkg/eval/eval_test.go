package eval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/schwiftylabs/portal/pkg/eval"
	"github.com/schwiftylabs/portal/pkg/textgen"
)

// fakeJudge replays a canned reply and records the prompt it was given.
type fakeJudge struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeJudge) Generate(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

var _ textgen.Generator = (*fakeJudge)(nil)

func TestParseResult(t *testing.T) {
	raw := "Score: 7\nReasoning: Sticks to the facts.\nIssues: None"

	res, err := eval.ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}

	if res.Score != 7 {
		t.Errorf("score = %d, want 7", res.Score)
	}
	if res.Reasoning != "Sticks to the facts." {
		t.Errorf("reasoning = %q", res.Reasoning)
	}
	if res.Details["Issues"] != "None" {
		t.Errorf("details = %v", res.Details)
	}
	if res.Raw != raw {
		t.Errorf("raw not preserved")
	}
}

func TestParseResultScoreClamping(t *testing.T) {
	tests := []struct {
		line string
		want int
	}{
		{"Score: 5", 5},
		{"Score: 1", 1},
		{"Score: 10", 10},
		{"Score: 12", 10},
		{"Score: 0", 1},
		{"Score: [9]", 9},
		{"Score: 8/10", 10}, // digits concatenate to 810
		{"Score: 99999999999999999999", 10},
	}

	for _, tt := range tests {
		res, err := eval.ParseResult(tt.line)
		if err != nil {
			t.Errorf("ParseResult(%q): %v", tt.line, err)
			continue
		}
		if res.Score != tt.want {
			t.Errorf("ParseResult(%q).Score = %d, want %d", tt.line, res.Score, tt.want)
		}
	}
}

func TestParseResultFirstScoreWins(t *testing.T) {
	res, err := eval.ParseResult("Score: 3\nScore: 9")
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Score != 3 {
		t.Errorf("score = %d, want 3", res.Score)
	}
}

func TestParseResultSkipsScoreLineWithoutDigits(t *testing.T) {
	res, err := eval.ParseResult("Score: unclear\nScore: 6\nReasoning: x")
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Score != 6 {
		t.Errorf("score = %d, want 6", res.Score)
	}
}

func TestParseResultNoScore(t *testing.T) {
	for _, raw := range []string{
		"This is a thoughtful piece of writing.",
		"Score: N/A\nReasoning: could not judge",
		"",
	} {
		_, err := eval.ParseResult(raw)
		if err == nil {
			t.Errorf("ParseResult(%q): expected error", raw)
			continue
		}
		if !errors.Is(err, eval.ErrUnparseableScore) {
			t.Errorf("ParseResult(%q): err = %v, want ErrUnparseableScore", raw, err)
		}
		var parseErr *eval.ScoreParseError
		if !errors.As(err, &parseErr) {
			t.Errorf("ParseResult(%q): not a *ScoreParseError", raw)
			continue
		}
		if parseErr.Raw != raw {
			t.Errorf("ParseResult(%q): Raw = %q", raw, parseErr.Raw)
		}
	}
}

func TestParseResultTrimsLines(t *testing.T) {
	res, err := eval.ParseResult("  Score: 5  \n   Reasoning:   solid   \n  Strengths:  pacing  ")
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Score != 5 || res.Reasoning != "solid" || res.Details["Strengths"] != "pacing" {
		t.Errorf("parsed = %+v", res)
	}
}

func TestParseResultDetails(t *testing.T) {
	raw := "Score: 8\nReasoning: fun\nStrengths: voice\nImprovements: length\nno colon here\n: orphan value"

	res, err := eval.ParseResult(raw)
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if res.Details["Strengths"] != "voice" || res.Details["Improvements"] != "length" {
		t.Errorf("details = %v", res.Details)
	}
	if len(res.Details) != 2 {
		t.Errorf("details has stray entries: %v", res.Details)
	}
}

func TestFactualConsistency(t *testing.T) {
	judge := &fakeJudge{reply: "Score: 9\nReasoning: Matches the record.\nIssues: None"}
	ev := eval.New(judge)

	source := map[string]any{
		"species": "Human",
		"name":    "Rick Sanchez",
		"status":  "Alive",
	}
	res, err := ev.FactualConsistency(context.Background(), "Rick is an alive human.", source)
	if err != nil {
		t.Fatalf("FactualConsistency: %v", err)
	}

	if res.Score != 9 || res.Details["Issues"] != "None" {
		t.Errorf("result = %+v", res)
	}
	if !strings.Contains(judge.prompt, "Rick is an alive human.") {
		t.Error("generated text missing from prompt")
	}
	// Source facts render in sorted key order, whatever the map order.
	want := "- name: Rick Sanchez\n- species: Human\n- status: Alive\n"
	if !strings.Contains(judge.prompt, want) {
		t.Errorf("source block missing or unsorted:\n%s", judge.prompt)
	}
}

func TestCreativity(t *testing.T) {
	judge := &fakeJudge{reply: "Score: 6\nReasoning: Decent.\nStrengths: tone\nImprovements: jokes"}
	ev := eval.New(judge)

	res, err := ev.Creativity(context.Background(), "Wubba lubba dub dub!")
	if err != nil {
		t.Fatalf("Creativity: %v", err)
	}

	if res.Score != 6 {
		t.Errorf("score = %d", res.Score)
	}
	if res.Details["Strengths"] != "tone" || res.Details["Improvements"] != "jokes" {
		t.Errorf("details = %v", res.Details)
	}
	if !strings.Contains(judge.prompt, "Wubba lubba dub dub!") {
		t.Error("generated text missing from prompt")
	}
	if !strings.Contains(judge.prompt, "Strengths:") {
		t.Error("rubric format missing from prompt")
	}
}

func TestJudgeFailurePropagates(t *testing.T) {
	ev := eval.New(&fakeJudge{err: textgen.ErrRateLimited})

	_, err := ev.Creativity(context.Background(), "text")
	if !errors.Is(err, textgen.ErrRateLimited) {
		t.Fatalf("err = %v, want rate limit to surface", err)
	}
}

func TestUnparseableJudgeReply(t *testing.T) {
	ev := eval.New(&fakeJudge{reply: "I refuse to grade this."})

	_, err := ev.FactualConsistency(context.Background(), "text", map[string]any{"k": "v"})
	if !errors.Is(err, eval.ErrUnparseableScore) {
		t.Fatalf("err = %v, want ErrUnparseableScore", err)
	}
}
