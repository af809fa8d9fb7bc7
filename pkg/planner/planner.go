// Package planner builds a DAG for an Intent before any page has been
// observed, either from a fixed template or from an LLM-backed strategy
// with retry and template fallback.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/intent"
	"github.com/owlsentry/browserguard/pkg/llmprovider"
)

// Options configures a single build_plan call.
type Options struct {
	MaxRetries         int
	FallbackToTemplate bool
	ExtractionTargets  []dag.ExtractionTarget
	Now                func() time.Time
}

// PlanGenerationError reports an exhausted LLM path with no template
// fallback configured, carrying the last underlying cause and how many
// attempts were made.
type PlanGenerationError struct {
	Cause    error
	Attempts int
}

func (e *PlanGenerationError) Error() string {
	return fmt.Sprintf("planner: plan generation failed after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *PlanGenerationError) Unwrap() error { return e.Cause }

// BuildTemplate builds a plan using only the template strategy — always
// available, and the LLM strategy's own fallback target.
func BuildTemplate(i intent.Intent, opts Options) dag.DAG {
	now := nowFunc(opts)
	d := dag.Template(i, now())
	applyExtractionTargets(&d, opts.ExtractionTargets)
	stampDomainConstraints(&d, i)
	return d
}

// BuildWithLLM drives provider up to opts.MaxRetries times, validating
// each attempt with the DAG validator before acceptance. On exhaustion it
// falls back to the template strategy if opts.FallbackToTemplate is set;
// otherwise it returns a *PlanGenerationError.
func BuildWithLLM(ctx context.Context, provider llmprovider.Provider, i intent.Intent, systemPrompt string, opts Options) (dag.DAG, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	userPrompt := buildUserPrompt(i)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := provider.GeneratePlan(ctx, systemPrompt, userPrompt, DAGJSONSchema, i)
		if err != nil {
			lastErr = err
			continue
		}

		raw := resp.DAG
		if raw == "" {
			raw = resp.RawResponse
		}

		if err := ValidateAgainstSchema(raw); err != nil {
			lastErr = err
			continue
		}

		d, err := ParseDAG(raw, i, nowFunc(opts)())
		if err != nil {
			lastErr = err
			continue
		}

		// The core finalizes domain constraints on every node regardless
		// of what the LLM emitted.
		stampDomainConstraints(&d, i)

		result := dag.Validate(d)
		if !result.Valid {
			lastErr = fmt.Errorf("planner: llm-produced dag failed validation: %v", result.Issues)
			continue
		}

		return d, nil
	}

	if opts.FallbackToTemplate {
		return BuildTemplate(i, opts), nil
	}
	return dag.DAG{}, &PlanGenerationError{Cause: lastErr, Attempts: maxRetries}
}

func nowFunc(opts Options) func() time.Time {
	if opts.Now != nil {
		return opts.Now
	}
	return time.Now
}

func applyExtractionTargets(d *dag.DAG, extra []dag.ExtractionTarget) {
	if len(extra) == 0 {
		return
	}
	for id, n := range d.Nodes {
		if n.Action.Type == dag.ActionExtract {
			n.ExtractionTargets = append(n.ExtractionTargets, extra...)
			d.Nodes[id] = n
		}
	}
}

// stampDomainConstraints sets every node's domain constraint from i,
// overwriting whatever an LLM (or a stale template) supplied.
func stampDomainConstraints(d *dag.DAG, i intent.Intent) {
	c := dag.DomainConstraint(i)
	for id, n := range d.Nodes {
		replaced := false
		for idx, existing := range n.Constraints {
			if existing.Type == dag.ConstraintDomain {
				n.Constraints[idx] = c
				replaced = true
			}
		}
		if !replaced {
			n.Constraints = append(n.Constraints, c)
		}
		d.Nodes[id] = n
	}
}

// buildUserPrompt renders the intent into the prompt handed to the
// provider alongside the fixed system prompt.
func buildUserPrompt(i intent.Intent) string {
	return fmt.Sprintf(
		"Goal: %s\nTask type: %s\nAllowed domains: %v\nAllowed actions: %v\nMax depth: %d\nTimeout (ms): %d\n\n"+
			"Produce a single DAG with complete branch enumeration for every non-terminal node.",
		i.Goal, i.TaskType, i.AllowedDomains, i.AllowedActions, i.MaxDepth, i.TimeoutMs,
	)
}

// SystemPrompt is the fixed single-shot system prompt: the security rules,
// action/condition alphabets, and the demand for complete branch
// enumeration, independent of any one intent.
const SystemPrompt = `You are the planning component of a browser automation guard.
You generate exactly one DAG per request (single-shot: you will not observe
any page content before or after generating this plan).

Action alphabet: navigate, click, type, scroll, extract, screenshot, wait.
Condition alphabet: element_present, element_absent, url_match, content_match, default.

Security rules you must respect:
- Never include a node that submits a payment or auto-confirms a purchase.
- Never include a node that types credentials over a non-HTTPS URL.
- Every non-terminal node must enumerate outgoing edges for every
  condition that could plausibly occur (not found, login required,
  captcha, rate limited, in addition to the success path).
- At least one terminal node must exist, and every node must be reachable
  from the entry point.

Respond with a single JSON object matching the supplied schema. You may
wrap it in a fenced code block.`
