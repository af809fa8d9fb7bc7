package planner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// DAGJSONSchema is the on-the-wire shape required of LLM structured
// output (spec.md §6): required keys nodes, edges, entryPoint; node
// required keys id and action{type,description}; edge required keys
// from, to, condition{type,description}.
const DAGJSONSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes", "edges", "entryPoint"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "action"],
        "properties": {
          "id": {"type": "string"},
          "action": {
            "type": "object",
            "required": ["type", "description"],
            "properties": {
              "type": {"type": "string", "enum": ["navigate", "click", "type", "scroll", "extract", "screenshot", "wait"]},
              "target": {"type": "string"},
              "value": {"type": "string"},
              "description": {"type": "string"}
            }
          },
          "expectedOutcomes": {"type": "array"},
          "extractionTargets": {"type": "array"},
          "isTerminal": {"type": "boolean"},
          "terminalResult": {"type": "string", "enum": ["success", "error", "abort"]}
        }
      }
    },
    "edges": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["from", "to", "condition"],
        "properties": {
          "from": {"type": "string"},
          "to": {"type": "string"},
          "condition": {
            "type": "object",
            "required": ["type", "description"],
            "properties": {
              "type": {"type": "string", "enum": ["element_present", "element_absent", "url_match", "content_match", "default"]},
              "value": {"type": "string"},
              "description": {"type": "string"}
            }
          },
          "priority": {"type": "integer"}
        }
      }
    },
    "entryPoint": {"type": "string"}
  }
}`

var fencedCodeBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*\\})\\s*```")

// extractJSON pulls a JSON object out of raw text, unwrapping a fenced
// code block if present and trimming incidental whitespace.
func extractJSON(raw string) string {
	if m := fencedCodeBlock.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// ValidateAgainstSchema pre-validates raw LLM JSON output against
// DAGJSONSchema before the core's own parsing/defaulting step runs,
// turning many malformed-output cases into an immediate retry instead of
// a partially-parsed DAG reaching the validator.
func ValidateAgainstSchema(raw string) error {
	jsonText := extractJSON(raw)

	schemaLoader := gojsonschema.NewStringLoader(DAGJSONSchema)
	docLoader := gojsonschema.NewStringLoader(jsonText)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("planner: schema validation error: %w", err)
	}
	if !result.Valid() {
		var issues []string
		for _, e := range result.Errors() {
			issues = append(issues, e.String())
		}
		return fmt.Errorf("planner: llm output failed schema pre-validation: %s", strings.Join(issues, "; "))
	}
	return nil
}
