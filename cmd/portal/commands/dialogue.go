package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/scribe"
)

var dialogueCmd = &cobra.Command{
	Use:   "dialogue <id1> <id2>",
	Short: "Generate a dialogue between two characters",
	Long: `Generate a short in-character dialogue between two characters.

Requires an AI provider API key (GEMINI_API_KEY or OPENAI_API_KEY).

Examples:
  portal dialogue 1 2
  portal dialogue 1 2 --json | jq -r '.dialogue'`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 2)
		for i, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil || id < 1 {
				return fmt.Errorf("invalid character id %q", arg)
			}
			ids[i] = id
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
		defer cancel()

		gen, _, err := buildProviders(ctx, cfg)
		if err != nil {
			return err
		}

		client := newAPIClient(cfg, nil)
		c1, err := client.Characters.Get(ctx, ids[0])
		if err != nil {
			return err
		}
		c2, err := client.Characters.Get(ctx, ids[1])
		if err != nil {
			return err
		}

		printVerbose("Generating dialogue: %s / %s", c1.Name, c2.Name)

		dialogue, err := scribe.New(gen).CharacterDialogue(ctx, c1, c2)
		if err != nil {
			return err
		}

		if isJSONOutput() || getOutputFile() != "" {
			result := map[string]any{
				"character1": c1,
				"character2": c2,
				"dialogue":   dialogue,
			}
			return outputResult(result, getOutputFile(), isJSONOutput())
		}

		card := cli.Card{
			Styles: cli.NewStyles(cli.DefaultTheme),
			Title:  fmt.Sprintf("%s & %s", c1.Name, c2.Name),
			Body:   dialogue,
		}
		fmt.Println(card.Render(cli.DefaultCardWidth))
		return nil
	},
}
