package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/schwiftylabs/portal/pkg/cli"
)

// Flag values shared by every subcommand, bound in init.
var (
	cfgFile    string
	outputFile string
	inputFile  string
	outputJSON bool
	verbose    bool

	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Rick and Morty API explorer with AI content generation",
	Long: `portal - Rick and Morty API explorer with AI content generation.

Browse locations and characters, keep notes, generate summaries and
dialogues with an LLM, and run semantic search over character
embeddings. The same data directory backs the server and the one-shot
commands, so notes and indexed embeddings are shared.

Configuration and data are stored in ~/.portal/
AI commands need a provider API key:
  GEMINI_API_KEY   Gemini (preferred when both are set)
  OPENAI_API_KEY   OpenAI

Examples:
  # Run the HTTP API server
  portal serve

  # Index the first 50 characters, then search
  portal index
  portal search "genius scientist"

  # Show a character with notes, pipe JSON to another command
  portal character 1
  portal character 1 --json | jq '.character.origin'

  # Generate a dialogue between Rick and Morty
  portal dialogue 1 2`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "", "", "config file (default is ~/.portal/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().StringVarP(&inputFile, "file", "f", "", "input request file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		serveCmd,
		indexCmd,
		searchCmd,
		characterCmd,
		dialogueCmd,
		evalCmd,
		configCmd,
		versionCmd,
	)
}

// configLoadErr defers config load failures until a command needs config.
var configLoadErr error

func initConfig() {
	cfg, err := cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		// Commands that need config get a clear error via getConfig();
		// commands like 'portal version' keep working without one.
		configLoadErr = err
		return
	}
	globalConfig = cfg
}

// getConfig hands out the loaded configuration, or the load error when
// loading failed (e.g. HOME not set).
func getConfig() (*cli.Config, error) {
	if globalConfig == nil {
		if configLoadErr != nil {
			return nil, fmt.Errorf("config not available: %w", configLoadErr)
		}
		cfg, err := cli.LoadConfigWithPath(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("config not available: %w", err)
		}
		globalConfig = cfg
	}
	return globalConfig, nil
}

func getInputFile() string { return inputFile }

func getOutputFile() string { return outputFile }

func isJSONOutput() bool { return outputJSON }

func isVerbose() bool { return verbose }

// outputResult renders result as YAML, or JSON when asJSON is set, to
// outputPath or stdout.
func outputResult(result any, outputPath string, asJSON bool) error {
	format := cli.FormatYAML
	if asJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputPath,
	})
}

func printVerbose(format string, args ...any) {
	cli.PrintVerbose(verbose, format, args...)
}
