package commands

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/search"
)

var indexCmd = &cobra.Command{
	Use:   "index [id...]",
	Short: "Index characters for semantic search",
	Long: `Index characters for semantic search.

Builds embeddings for the given character ids and persists them in the
data directory, where both 'portal search' and the server pick them up.
With no ids, characters 1 through ` + fmt.Sprint(search.DefaultIndexCount) + ` are indexed.

Requires an AI provider API key (GEMINI_API_KEY or OPENAI_API_KEY).

Examples:
  portal index
  portal index 1 2 3
  portal index --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := make([]int, 0, len(args))
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil || id < 1 {
				return fmt.Errorf("invalid character id %q", arg)
			}
			ids = append(ids, id)
		}

		cfg, err := getConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
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

		if len(ids) == 0 {
			printVerbose("Indexing characters 1-%d", search.DefaultIndexCount)
		} else {
			printVerbose("Indexing %d characters", len(ids))
		}

		start := time.Now()
		res, err := svc.IndexCharacters(ctx, ids)
		if err != nil {
			return err
		}

		if isJSONOutput() || getOutputFile() != "" {
			return outputResult(res, getOutputFile(), isJSONOutput())
		}

		printSuccess("Indexed %d characters in %s",
			res.IndexedCount, formatDuration(int(time.Since(start).Milliseconds())))
		for _, e := range res.Errors {
			cli.PrintWarning("character %d: %s", e.CharacterID, e.Reason)
		}
		return nil
	},
}
