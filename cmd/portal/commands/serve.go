package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
	"github.com/schwiftylabs/portal/pkg/eval"
	"github.com/schwiftylabs/portal/pkg/httpapi"
	"github.com/schwiftylabs/portal/pkg/notes"
	"github.com/schwiftylabs/portal/pkg/scribe"
)

var (
	serveAddr   string
	serveOrigin string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server.

Serves the REST API for locations, characters, notes, AI content
generation, and semantic search. Notes, cached upstream responses, and
indexed embeddings are stored in the data directory and survive
restarts.

AI routes need a provider API key (GEMINI_API_KEY or OPENAI_API_KEY).
Without one the server still runs; AI routes answer 503.

Examples:
  portal serve
  portal serve --addr 0.0.0.0:8080
  GEMINI_API_KEY=... portal serve -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if isVerbose() {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(log)

		store, err := openStore(cfg)
		if err != nil {
			return fmt.Errorf("open data store: %w", err)
		}
		defer store.Close()

		client := newAPIClient(cfg, store)

		apiCfg := httpapi.Config{
			Client:      client,
			Notes:       notes.New(store),
			AllowOrigin: serveOrigin,
			Logger:      log,
		}

		ctx := context.Background()
		gen, emb, err := buildProviders(ctx, cfg)
		if err != nil {
			cli.PrintWarning("AI routes disabled: %v", err)
		} else {
			svc, err := newSearchService(ctx, client, store, emb, log)
			if err != nil {
				return fmt.Errorf("init search service: %w", err)
			}
			defer svc.Close()
			apiCfg.Search = svc
			apiCfg.Scribe = scribe.New(gen)
			apiCfg.Eval = eval.New(gen)
		}

		api, err := httpapi.New(apiCfg)
		if err != nil {
			return err
		}

		addr := serveAddr
		if addr == "" {
			addr = cfg.ListenAddr()
		}
		srv := &http.Server{Addr: addr, Handler: api}

		errCh := make(chan error, 1)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		log.Info("server listening", "addr", addr, "ai_enabled", apiCfg.Search != nil)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-sigCh:
			log.Info("shutting down", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config, "+cli.DefaultAddr+")")
	serveCmd.Flags().StringVar(&serveOrigin, "cors-origin", "", "value for Access-Control-Allow-Origin (default *)")
}
