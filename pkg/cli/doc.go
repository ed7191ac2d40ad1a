// Package cli carries the shared plumbing of the portal command-line tool:
// configuration under ~/.portal with env overrides, result rendering as
// YAML, JSON or raw bytes, request-file loading, and styled terminal cards.
//
//	cfg, err := cli.LoadConfig()
//
//	cli.Output(result, cli.OutputOptions{
//	    Format: cli.FormatJSON,
//	    File:   outputPath,
//	})
package cli
