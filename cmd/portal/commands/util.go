package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"google.golang.org/genai"

	"github.com/schwiftylabs/portal/pkg/cache"
	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/embed"
	"github.com/schwiftylabs/portal/pkg/kv"
	"github.com/schwiftylabs/portal/pkg/rickmorty"
	"github.com/schwiftylabs/portal/pkg/search"
	"github.com/schwiftylabs/portal/pkg/textgen"
)

// defaultIndexWorkers bounds concurrent embedding calls during indexing.
const defaultIndexWorkers = 4

// Thin wrappers so command files read without the cli qualifier.

func loadRequest(path string, v any) error { return cli.LoadRequest(path, v) }

func printSuccess(format string, args ...any) { cli.PrintSuccess(format, args...) }

func printInfo(format string, args ...any) { cli.PrintInfo(format, args...) }

func formatDuration(ms int) string { return cli.FormatDuration(ms) }

// requireInputFile rejects commands invoked without -f.
func requireInputFile() error {
	if getInputFile() == "" {
		return fmt.Errorf("input file is required, use -f flag")
	}
	return nil
}

// openStore opens the BadgerDB data store shared between the server and
// the one-shot commands. The caller must Close it.
func openStore(cfg *cli.Config) (*kv.Badger, error) {
	dir := cfg.DataDir
	if dir == "" {
		paths, err := cli.NewPaths()
		if err != nil {
			return nil, err
		}
		if err := paths.EnsureDataDir(); err != nil {
			return nil, err
		}
		dir = paths.DataDir()
	} else if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	printVerbose("Data dir: %s", dir)
	return kv.NewBadger(kv.BadgerOptions{Dir: dir})
}

// newAPIClient creates a Rick and Morty API client from the configuration.
// With a non-nil store, upstream responses are cached in it.
func newAPIClient(cfg *cli.Config, store kv.Store) *rickmorty.Client {
	opts := []rickmorty.Option{
		rickmorty.WithTimeout(cfg.Timeout()),
		rickmorty.WithRetry(cfg.Retries()),
	}
	if store != nil {
		opts = append(opts, rickmorty.WithCache(cache.New(store, cache.WithTTL(cfg.CacheTTL()))))
	}
	return rickmorty.NewClient(opts...)
}

// buildProviders creates the text generator and embedder for the active AI
// provider. Returns an error when no provider has an API key.
func buildProviders(ctx context.Context, cfg *cli.Config) (textgen.Generator, embed.Embedder, error) {
	genOpts := []textgen.Option{
		textgen.WithTemperature(cfg.GenTemperature()),
		textgen.WithMaxTokens(cfg.GenMaxTokens()),
	}
	var embOpts []embed.Option

	switch provider := cfg.ActiveProvider(); provider {
	case "gemini":
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("create gemini client: %w", err)
		}
		if cfg.Gemini.TextModel != "" {
			genOpts = append(genOpts, textgen.WithModel(cfg.Gemini.TextModel))
		}
		if cfg.Gemini.EmbedModel != "" {
			embOpts = append(embOpts, embed.WithModel(cfg.Gemini.EmbedModel))
		}
		return textgen.NewGemini(client, genOpts...), embed.NewGemini(client, embOpts...), nil

	case "openai":
		if cfg.OpenAI.TextModel != "" {
			genOpts = append(genOpts, textgen.WithModel(cfg.OpenAI.TextModel))
		}
		if cfg.OpenAI.EmbedModel != "" {
			embOpts = append(embOpts, embed.WithModel(cfg.OpenAI.EmbedModel))
		}
		return textgen.NewOpenAI(cfg.OpenAI.APIKey, genOpts...),
			embed.NewOpenAI(cfg.OpenAI.APIKey, embOpts...), nil

	case "":
		return nil, nil, errors.New("no AI provider configured, set GEMINI_API_KEY or OPENAI_API_KEY")

	default:
		return nil, nil, fmt.Errorf("unknown provider %q (want gemini or openai)", provider)
	}
}

// newSearchService builds the semantic search service on top of the shared
// store, warm-loading any embeddings persisted by earlier runs.
func newSearchService(ctx context.Context, client *rickmorty.Client, store kv.Store, emb embed.Embedder, log *slog.Logger) (*search.Service, error) {
	return search.New(ctx, search.Config{
		Characters: client.Characters,
		Embedder:   emb,
		Store:      store,
		Workers:    defaultIndexWorkers,
		Logger:     log,
	})
}
