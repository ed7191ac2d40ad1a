package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/search"
)

var searchTopK int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Semantic character search",
	Long: `Semantic character search over indexed embeddings.

Run 'portal index' first to build the embeddings. The query is embedded
with the same provider and matched against indexed characters by cosine
similarity.

Examples:
  portal search "genius scientist"
  portal search "evil robot" -k 3
  portal search "lawyer" --json | jq '.[0].character_name'`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.TrimSpace(args[0])
		if query == "" {
			return errors.New("query must not be empty")
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		_, emb, err := buildProviders(ctx, cfg)
		if err != nil {
			return err
		}

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open data store: %w", err)
		}
		defer store.Close()

		client := newAPIClient(cfg, store)
		svc, err := newSearchService(ctx, client, store, emb, nil)
		if err != nil {
			return err
		}
		defer svc.Close()

		printVerbose("Indexed characters: %d", svc.IndexedCount())

		results, err := svc.Search(ctx, query, searchTopK)
		if err != nil {
			if errors.Is(err, search.ErrIndexNotReady) {
				return errors.New("no character embeddings found, run 'portal index' first")
			}
			return err
		}

		if isJSONOutput() || getOutputFile() != "" {
			return outputResult(results, getOutputFile(), isJSONOutput())
		}

		if len(results) == 0 {
			printInfo("No matches for %q", query)
			return nil
		}

		styles := cli.NewStyles(cli.DefaultTheme)
		for _, r := range results {
			rows := []cli.Row{
				{Label: "Similarity", Value: cli.FormatSimilarity(r.Similarity)},
			}
			if r.Character != nil {
				rows = append(rows,
					cli.Row{Label: "Species", Value: r.Character.Species},
					cli.Row{Label: "Status", Value: r.Character.Status},
					cli.Row{Label: "Location", Value: r.Character.Location.Name},
				)
			}
			card := cli.Card{
				Styles: styles,
				Title:  fmt.Sprintf("#%d %s", r.Rank, r.Name),
				Rows:   rows,
			}
			fmt.Println(card.Render(cli.DefaultCardWidth))
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 5, "number of results")
}
