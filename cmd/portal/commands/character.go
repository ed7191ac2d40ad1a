package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/notes"
)

var characterCmd = &cobra.Command{
	Use:   "character <id>",
	Short: "Show a character and its notes",
	Long: `Show a character and the notes stored for it.

Notes are shared with the server: anything created through the HTTP API
shows up here and vice versa.

Examples:
  portal character 1
  portal character 1 --json | jq '.notes'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil || id < 1 {
			return fmt.Errorf("invalid character id %q", args[0])
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open data store: %w", err)
		}
		defer store.Close()

		client := newAPIClient(cfg, store)
		c, err := client.Characters.Get(ctx, id)
		if err != nil {
			return err
		}

		noteList, err := notes.New(store).ListByCharacter(ctx, id)
		if err != nil {
			return err
		}
		if noteList == nil {
			noteList = []notes.Note{}
		}

		if isJSONOutput() || getOutputFile() != "" {
			result := map[string]any{"character": c, "notes": noteList}
			return outputResult(result, getOutputFile(), isJSONOutput())
		}

		var body strings.Builder
		if len(noteList) == 0 {
			body.WriteString("No notes yet.")
		} else {
			for i, n := range noteList {
				if i > 0 {
					body.WriteByte('\n')
				}
				fmt.Fprintf(&body, "[%s] %s", n.CreatedAt.Format("2006-01-02"), n.Text)
			}
		}

		card := cli.Card{
			Styles: cli.NewStyles(cli.DefaultTheme),
			Title:  fmt.Sprintf("%s (#%d)", c.Name, c.ID),
			Rows: []cli.Row{
				{Label: "Status", Value: c.Status},
				{Label: "Species", Value: c.Species},
				{Label: "Gender", Value: c.Gender},
				{Label: "Origin", Value: c.Origin.Name},
				{Label: "Location", Value: c.Location.Name},
			},
			Body: body.String(),
		}
		fmt.Println(card.Render(cli.DefaultCardWidth))
		return nil
	},
}
