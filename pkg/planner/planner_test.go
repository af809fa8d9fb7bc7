package planner

import (
	"context"
	"testing"
	"time"

	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/intent"
	"github.com/owlsentry/browserguard/pkg/llmprovider"
)

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

func TestBuildTemplateProducesValidatedDAG(t *testing.T) {
	i, err := intent.Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := BuildTemplate(i, Options{Now: fixedNow})
	result := dag.Validate(d)
	if !result.Valid {
		t.Fatalf("expected valid template dag, got issues: %v", result.Issues)
	}
}

const validLLMDAG = `{
  "nodes": [
    {"id": "n1", "action": {"type": "navigate", "description": "open site"}},
    {"id": "n2", "action": {"type": "extract", "description": "extract results"}, "isTerminal": true, "terminalResult": "success"}
  ],
  "edges": [
    {"from": "n1", "to": "n2", "condition": {"type": "default", "description": "always"}}
  ],
  "entryPoint": "n1"
}`

func TestBuildWithLLMAcceptsValidResponseOnFirstAttempt(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"example.com"}}
	provider := &llmprovider.MockProvider{Responses: []llmprovider.Response{{RawResponse: validLLMDAG}}}

	d, err := BuildWithLLM(context.Background(), provider, i, SystemPrompt, Options{MaxRetries: 2, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result := dag.Validate(d)
	if !result.Valid {
		t.Fatalf("expected valid dag, got issues: %v", result.Issues)
	}
	if provider.Calls() != 1 {
		t.Errorf("expected exactly one provider call, got %d", provider.Calls())
	}
}

func TestBuildWithLLMStampsDomainConstraintsRegardlessOfLLMOutput(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"trusted.example"}}
	provider := &llmprovider.MockProvider{Responses: []llmprovider.Response{{RawResponse: validLLMDAG}}}

	d, err := BuildWithLLM(context.Background(), provider, i, SystemPrompt, Options{MaxRetries: 1, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for id, n := range d.Nodes {
		found := false
		for _, c := range n.Constraints {
			if c.Type == dag.ConstraintDomain {
				found = true
				if len(c.AllowedDomains) != 1 || c.AllowedDomains[0] != "trusted.example" {
					t.Errorf("node %s has wrong domain constraint: %+v", id, c)
				}
			}
		}
		if !found {
			t.Errorf("node %s missing domain constraint", id)
		}
	}
}

func TestBuildWithLLMFallsBackToTemplateOnExhaustion(t *testing.T) {
	i, err := intent.Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider := &llmprovider.MockProvider{Responses: []llmprovider.Response{{RawResponse: "not json"}}}

	d, err := BuildWithLLM(context.Background(), provider, i, SystemPrompt, Options{MaxRetries: 1, FallbackToTemplate: true, Now: fixedNow})
	if err != nil {
		t.Fatalf("expected fallback to succeed without error, got %v", err)
	}
	result := dag.Validate(d)
	if !result.Valid {
		t.Fatalf("expected fallback template to be valid, got issues: %v", result.Issues)
	}
}

func TestBuildWithLLMReturnsPlanGenerationErrorWithoutFallback(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"example.com"}}
	provider := &llmprovider.MockProvider{Responses: []llmprovider.Response{{RawResponse: "not json"}}}

	_, err := BuildWithLLM(context.Background(), provider, i, SystemPrompt, Options{MaxRetries: 2, Now: fixedNow})
	if err == nil {
		t.Fatalf("expected an error when the llm path is exhausted with no fallback")
	}
	var genErr *PlanGenerationError
	if !asPlanGenerationError(err, &genErr) {
		t.Fatalf("expected a *PlanGenerationError, got %T: %v", err, err)
	}
	if genErr.Attempts != 2 {
		t.Errorf("expected 2 attempts recorded, got %d", genErr.Attempts)
	}
}

func asPlanGenerationError(err error, target **PlanGenerationError) bool {
	if pe, ok := err.(*PlanGenerationError); ok {
		*target = pe
		return true
	}
	return false
}
