// Package llmprovider is the port the plan generator drives to obtain an
// LLM-authored DAG: a single method, decorated with logging/caching exactly
// the way a transport client would be, never retried here.
package llmprovider

import (
	"context"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// Response is what a provider returns for one generate_plan call: either a
// parsed dag field or the raw text containing it (the planner extracts the
// DAG JSON from raw if dag is absent), plus the verbatim response and a
// token count when the backend reports one.
type Response struct {
	DAG         string // DAG JSON, if the provider already extracted it
	RawResponse string
	TokensUsed  int
}

// Provider is the single-method LLM port. Providers must not retry;
// retry/fallback is the planner's responsibility.
type Provider interface {
	GeneratePlan(ctx context.Context, systemPrompt, userPrompt, schema string, i intent.Intent) (Response, error)
}
