package commands

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/eval"
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Judge generated text with an LLM",
	Long: `Judge generated text with an LLM.

Scores are on a ` + fmt.Sprint(eval.MinScore) + "-" + fmt.Sprint(eval.MaxScore) + ` scale with the judge's reasoning attached.

Example request file (factual.yaml):
  generated_text: Rick is a genius scientist from Earth C-137.
  source_data:
    name: Rick Sanchez
    species: Human
    origin: Earth (C-137)

Example request file (creative.yaml):
  generated_text: Rick burped his way through another portal.`,
}

type factualRequest struct {
	GeneratedText string         `json:"generated_text" yaml:"generated_text"`
	SourceData    map[string]any `json:"source_data" yaml:"source_data"`
}

type creativityRequest struct {
	GeneratedText string `json:"generated_text" yaml:"generated_text"`
}

var evalFactualCmd = &cobra.Command{
	Use:   "factual",
	Short: "Score factual consistency against source data",
	Long: `Score how factually consistent generated text is with source data.

Examples:
  portal eval factual -f factual.yaml
  portal eval factual -f factual.yaml --json | jq '.score'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireInputFile(); err != nil {
			return err
		}

		var req factualRequest
		if err := loadRequest(getInputFile(), &req); err != nil {
			return err
		}
		if strings.TrimSpace(req.GeneratedText) == "" {
			return errors.New("generated_text is required")
		}
		if req.SourceData == nil {
			return errors.New("source_data is required")
		}

		ev, err := newEvaluator()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		res, err := ev.FactualConsistency(ctx, req.GeneratedText, req.SourceData)
		if err != nil {
			return err
		}
		return outputScore("Factual Consistency", res)
	},
}

var evalCreativityCmd = &cobra.Command{
	Use:   "creativity",
	Short: "Score creativity and writing quality",
	Long: `Score the creativity and writing quality of generated text.

Examples:
  portal eval creativity -f creative.yaml
  portal eval creativity -f creative.yaml --json | jq '.score'`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireInputFile(); err != nil {
			return err
		}

		var req creativityRequest
		if err := loadRequest(getInputFile(), &req); err != nil {
			return err
		}
		if strings.TrimSpace(req.GeneratedText) == "" {
			return errors.New("generated_text is required")
		}

		ev, err := newEvaluator()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		res, err := ev.Creativity(ctx, req.GeneratedText)
		if err != nil {
			return err
		}
		return outputScore("Creativity", res)
	},
}

// newEvaluator builds an LLM judge from the configured provider.
func newEvaluator() (*eval.Evaluator, error) {
	cfg, err := getConfig()
	if err != nil {
		return nil, err
	}
	gen, _, err := buildProviders(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return eval.New(gen), nil
}

// outputScore renders an evaluation result, as a styled card by default or
// via outputResult when JSON or a file is requested.
func outputScore(title string, res *eval.Result) error {
	if isJSONOutput() || getOutputFile() != "" {
		return outputResult(res, getOutputFile(), isJSONOutput())
	}

	rows := []cli.Row{
		{Label: "Score", Value: fmt.Sprintf("%d/%d", res.Score, eval.MaxScore)},
	}
	keys := make([]string, 0, len(res.Details))
	for k := range res.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rows = append(rows, cli.Row{Label: k, Value: res.Details[k]})
	}

	card := cli.Card{
		Styles: cli.NewStyles(cli.DefaultTheme),
		Title:  title,
		Rows:   rows,
		Body:   res.Reasoning,
	}
	fmt.Println(card.Render(cli.DefaultCardWidth))
	return nil
}

func init() {
	evalCmd.AddCommand(evalFactualCmd)
	evalCmd.AddCommand(evalCreativityCmd)
}
