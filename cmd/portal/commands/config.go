package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration",
	Long: `Show the resolved configuration with API keys masked.

Values come from the config file with environment overrides applied
(GEMINI_API_KEY, OPENAI_API_KEY, PORTAL_ADDR, PORTAL_DATA_DIR).

Examples:
  portal config
  portal config path`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}

		printVerbose("Config file: %s", cfg.Path())

		dataDir := cfg.DataDir
		if dataDir == "" {
			if p, err := cli.NewPaths(); err == nil {
				dataDir = p.DataDir()
			}
		}

		result := map[string]any{
			"config_file":       cfg.Path(),
			"addr":              cfg.ListenAddr(),
			"data_dir":          dataDir,
			"provider":          cfg.ActiveProvider(),
			"cache_ttl_minutes": int(cfg.CacheTTL().Minutes()),
			"timeout_seconds":   int(cfg.Timeout().Seconds()),
			"max_retries":       cfg.Retries(),
			"temperature":       cfg.GenTemperature(),
			"max_tokens":        cfg.GenMaxTokens(),
			"gemini": map[string]any{
				"api_key":     cli.MaskAPIKey(cfg.Gemini.APIKey),
				"text_model":  cfg.Gemini.TextModel,
				"embed_model": cfg.Gemini.EmbedModel,
			},
			"openai": map[string]any{
				"api_key":     cli.MaskAPIKey(cfg.OpenAI.APIKey),
				"text_model":  cfg.OpenAI.TextModel,
				"embed_model": cfg.OpenAI.EmbedModel,
			},
		}
		return outputResult(result, getOutputFile(), isJSONOutput())
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfig()
		if err != nil {
			return err
		}
		fmt.Println(cfg.Path())
		return nil
	},
}

func init() {
	configCmd.AddCommand(configPathCmd)
}
