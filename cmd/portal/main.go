// The portal command explores the Rick and Morty universe from the terminal
// and serves the same features over HTTP.
//
//	portal [flags] <command> [args]
//
// Commands: serve (HTTP API), index and search (semantic character search),
// character (profile and notes), dialogue (generated conversations), eval
// (LLM judging), config, version.
//
// State lives under ~/.portal/. API keys come from GEMINI_API_KEY or
// OPENAI_API_KEY.
package main

import (
	"fmt"
	"os"

	"github.com/schwiftylabs/portal/cmd/portal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
