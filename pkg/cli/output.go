package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	FormatYAML OutputFormat = "yaml" // default for terminals
	FormatJSON OutputFormat = "json"
	FormatRaw  OutputFormat = "raw" // []byte and string pass through untouched
)

// OutputOptions controls where and how Output writes a result.
type OutputOptions struct {
	Format OutputFormat
	File   string    // write to this path instead of stdout
	Indent string    // JSON indentation, two spaces when empty
	Writer io.Writer // takes precedence over File and stdout
}

// Output renders result in the requested format and writes it to the
// destination opts picks: Writer if set, else File, else stdout.
func Output(result any, opts OutputOptions) error {
	w := io.Writer(os.Stdout)
	switch {
	case opts.Writer != nil:
		w = opts.Writer
	case opts.File != "":
		f, err := os.Create(opts.File)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}
	return opts.Format.render(w, result, opts.Indent)
}

func (f OutputFormat) render(w io.Writer, v any, indent string) error {
	switch f {
	case FormatYAML, "":
		return renderYAML(w, v)
	case FormatJSON:
		if indent == "" {
			indent = "  "
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", indent)
		return enc.Encode(v)
	case FormatRaw:
		switch v := v.(type) {
		case []byte:
			_, err := w.Write(v)
			return err
		case string:
			_, err := io.WriteString(w, v)
			return err
		}
		// No raw form for structured values.
		return renderYAML(w, v)
	}
	return fmt.Errorf("unsupported output format: %s", f)
}

func renderYAML(w io.Writer, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// Terminal message helpers. Status lines go to stdout; errors and verbose
// chatter go to stderr so piped output stays clean.

func PrintSuccess(format string, args ...any) {
	fmt.Printf("✓ "+format+"\n", args...)
}

func PrintInfo(format string, args ...any) {
	fmt.Printf("ℹ "+format+"\n", args...)
}

func PrintWarning(format string, args ...any) {
	fmt.Printf("⚠ "+format+"\n", args...)
}

func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// PrintVerbose writes to stderr, and only when verbose is on.
func PrintVerbose(verbose bool, format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[verbose] "+format+"\n", args...)
	}
}
