package form

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadInput reads an input record from a YAML or JSON file. The
// source_files entry is kept as the raw comma-delimited string.
func LoadInput(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Input{}, fmt.Errorf("failed to read input file: %w", err)
	}
	return ParseInput(data, filepath.Ext(path))
}

// ParseInput decodes an input record. ext selects the format; anything other
// than ".json" is read as YAML.
func ParseInput(data []byte, ext string) (Input, error) {
	var in Input
	if strings.EqualFold(ext, ".json") {
		if err := json.Unmarshal(data, &in); err != nil {
			return Input{}, fmt.Errorf("failed to parse input: %w", err)
		}
		return in, nil
	}
	if err := yaml.Unmarshal(data, &in); err != nil {
		return Input{}, fmt.Errorf("failed to parse input: %w", err)
	}
	return in, nil
}
