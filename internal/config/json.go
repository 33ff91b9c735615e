package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// parseJSON reads the file at path and decodes it into a fresh
// *StructuredConfig using the `json` struct tags.
//
// Returns a wrapped error if the file cannot be read or the JSON is
// malformed.
func parseJSON(path string) (*StructuredConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading JSON config file: %w", err)
	}

	cfg := new(StructuredConfig)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing JSON config file: %w", err)
	}

	return cfg, nil
}
