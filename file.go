package onion

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseError occurs when a config file exists but its content cannot be
// parsed. It is fatal: the whole load aborts and any partial merge is
// discarded.
type ParseError struct {
	Path   string
	Format string // "yaml" or "json"
	cause  error
}

// Error implements the error interface.
func (e ParseError) Error() string {
	return fmt.Sprintf("invalid %s in %s: %s", e.Format, e.Path, e.cause)
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e ParseError) Unwrap() error {
	return e.cause
}

// readConfigFile parses a single YAML or JSON file into a Map. The format is
// chosen by file extension; the scanner only yields recognized extensions,
// so an unknown one here is a programming error.
func readConfigFile(path string) (Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		return parseYaml(path, b)
	case ".json":
		return parseJson(path, b)
	default:
		return nil, fmt.Errorf("unrecognized config file extension: %s", path)
	}
}

func parseYaml(path string, b []byte) (Map, error) {
	m := make(Map)
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, ParseError{Path: path, Format: "yaml", cause: err}
	}
	return m, nil
}

func parseJson(path string, b []byte) (Map, error) {
	m := make(Map)
	// An empty JSON file contributes nothing, same as an empty YAML file.
	if len(strings.TrimSpace(string(b))) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, ParseError{Path: path, Format: "json", cause: err}
	}
	return m, nil
}
