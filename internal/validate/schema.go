package validate

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/prepdeck/backend/internal/provider"
)

// QuestionsSchema returns the provider schema for a batch of exactly
// count questions. The object root keeps strict structured-output modes
// happy; the batch itself lives under "questions".
func QuestionsSchema(count int) *provider.Schema {
	return &provider.Schema{
		Name: fmt.Sprintf("interview-questions-%d", count),
		Definition: map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"required":             []any{"questions"},
			"properties": map[string]any{
				"questions": map[string]any{
					"type":     "array",
					"minItems": count,
					"maxItems": count,
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []any{"question", "expected_answer_points", "topics", "follow_up_questions"},
						"properties": map[string]any{
							"question":               map[string]any{"type": "string", "minLength": 1},
							"expected_answer_points": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"topics":                 map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
							"follow_up_questions":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						},
					},
				},
			},
		},
	}
}

// FeedbackSchema is the provider schema for an answer evaluation.
var FeedbackSchema = &provider.Schema{
	Name: "answer-feedback",
	Definition: map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"required":             []any{"score", "strengths", "areas_for_improvement", "detailed_feedback"},
		"properties": map[string]any{
			"score":                 map[string]any{"type": "number", "minimum": 0, "maximum": 100},
			"strengths":             map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"areas_for_improvement": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"detailed_feedback":     map[string]any{"type": "string"},
			"suggested_resources":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"model_answer":          map[string]any{"type": "string"},
		},
	},
}

// schemaCache caches compiled schemas by name.
var schemaCache sync.Map // map[string]*jsonschema.Schema

// checkSchema validates raw JSON against a provider schema.
// Returns a *ValidationError on any parse or schema failure.
func checkSchema(schema *provider.Schema, raw json.RawMessage) *ValidationError {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return &ValidationError{Rule: "json", Message: fmt.Sprintf("response is not valid JSON: %v", err)}
	}

	compiled, err := compiledSchema(schema)
	if err != nil {
		return &ValidationError{Rule: "schema", Message: fmt.Sprintf("compile schema %q: %v", schema.Name, err)}
	}

	if err := compiled.Validate(parsed); err != nil {
		return &ValidationError{Rule: "schema", Message: err.Error()}
	}
	return nil
}

func compiledSchema(schema *provider.Schema) (*jsonschema.Schema, error) {
	if cached, ok := schemaCache.Load(schema.Name); ok {
		return cached.(*jsonschema.Schema), nil
	}

	// The compiler wants a parsed JSON value, not a Go map with typed
	// values. Round-trip through encoding/json to normalize.
	defBytes, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", schema.Name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile: %w", err)
	}

	schemaCache.Store(schema.Name, compiled)
	return compiled, nil
}
