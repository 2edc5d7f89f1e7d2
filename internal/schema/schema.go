// Package schema publishes JSON schemas for the analysis service wire types.
// It uses github.com/swaggest/jsonschema-go to generate schemas at runtime,
// so the schemas and the contracts structs cannot drift apart.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/swaggest/jsonschema-go"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
)

// Schema labels for registered schemas.
const (
	LabelAnalyzeRequest  = "analyze-request"
	LabelAnalyzeResponse = "analyze-response"
	LabelErrorResponse   = "error-response"
	LabelHealthResponse  = "health-response"
)

var (
	registry      = make(map[string]any)
	registryMu    sync.RWMutex
	schemaCache   = make(map[string]string)
	schemaCacheMu sync.RWMutex
)

func init() {
	Register(LabelAnalyzeRequest, contracts.AnalyzeRequest{})
	Register(LabelAnalyzeResponse, []contracts.CommitCandidate{})
	Register(LabelErrorResponse, contracts.ErrorResponse{})
	Register(LabelHealthResponse, contracts.HealthResponse{})
}

// Register adds a type to the schema registry.
// The schema will be generated on first access via Get().
func Register(label string, v any) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[label] = v

	schemaCacheMu.Lock()
	delete(schemaCache, label)
	schemaCacheMu.Unlock()
}

// Get returns the JSON schema string for a registered label.
// Schemas are cached after first generation.
func Get(label string) (string, error) {
	schemaCacheMu.RLock()
	if cached, ok := schemaCache[label]; ok {
		schemaCacheMu.RUnlock()
		return cached, nil
	}
	schemaCacheMu.RUnlock()

	registryMu.RLock()
	v, ok := registry[label]
	registryMu.RUnlock()
	if !ok {
		return "", fmt.Errorf("unknown schema label: %s", label)
	}

	schema, err := GenerateJSON(v)
	if err != nil {
		return "", fmt.Errorf("failed to generate schema for %s: %w", label, err)
	}

	schemaCacheMu.Lock()
	schemaCache[label] = schema
	schemaCacheMu.Unlock()

	return schema, nil
}

// Labels returns all registered schema labels, sorted.
func Labels() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	labels := make([]string, 0, len(registry))
	for label := range registry {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// GenerateJSON generates a JSON schema string from a Go value.
// Required fields and bounds come from struct tags.
func GenerateJSON(v any) (string, error) {
	r := jsonschema.Reflector{}

	schema, err := r.Reflect(v, jsonschema.InlineRefs)
	if err != nil {
		return "", err
	}

	bytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
