package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadRequest reads a request body from a YAML or JSON file into v.
// The path "-" means stdin.
func LoadRequest(path string, v any) error {
	if path == "-" {
		return LoadRequestFromStdin(v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	return ParseRequest(data, path, v)
}

// ParseRequest decodes data into v. A .yaml, .yml or .json extension on
// filename picks the codec; any other name is tried as YAML, then JSON.
func ParseRequest(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
		return nil
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
		return nil
	}
	if yaml.Unmarshal(data, v) == nil {
		return nil
	}
	if json.Unmarshal(data, v) == nil {
		return nil
	}
	return errors.New("failed to parse file (tried YAML and JSON)")
}

// LoadRequestFromStdin decodes stdin into v, trying JSON first and YAML
// second.
func LoadRequestFromStdin(v any) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read stdin: %w", err)
	}
	if json.Unmarshal(data, v) == nil {
		return nil
	}
	if yaml.Unmarshal(data, v) == nil {
		return nil
	}
	return errors.New("failed to parse input (tried JSON and YAML)")
}
