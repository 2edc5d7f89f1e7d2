package main

import (
	"encoding/json"
	"io"
)

// writeJSONError outputs a failure message in JSON format.
func writeJSONError(w io.Writer, message string) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]string{"error": message})
}
