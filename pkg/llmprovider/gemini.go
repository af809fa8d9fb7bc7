package llmprovider

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// defaultGeminiTimeout bounds one generate_plan call; the provider owns
// this request-level timeout independently of the session deadline.
const defaultGeminiTimeout = 120 * time.Second

// GeminiProvider drives Google's Gemini API to produce a plan, adapted
// from a general-purpose chat client into the single generate_plan
// operation the planner port requires.
type GeminiProvider struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiProvider creates a provider with the given API key and model.
// The default model is "gemini-2.5-flash-lite" if none is specified.
func NewGeminiProvider(apiKey, model string) (*GeminiProvider, error) {
	if model == "" {
		model = "gemini-2.5-flash-lite"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("llmprovider: create gemini client: %w", err)
	}

	return &GeminiProvider{client: client, model: model, timeout: defaultGeminiTimeout}, nil
}

// GeneratePlan issues one single-shot request combining systemPrompt (the
// security rules, action/condition alphabets, and single-shot principle)
// with userPrompt (built from i), returning the raw text response for the
// planner to extract and parse. The schema is conveyed as part of the
// system instruction since the Gemini text API does not take it as a
// separate structured parameter here.
func (p *GeminiProvider) GeneratePlan(ctx context.Context, systemPrompt, userPrompt, schema string, i intent.Intent) (Response, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	fullSystem := systemPrompt + "\n\nRespond with JSON matching this schema:\n" + schema

	contents := []*genai.Content{
		{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(userPrompt)}},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{genai.NewPartFromText(fullSystem)}},
	}

	response, err := p.client.Models.GenerateContent(ctx, p.model, contents, config)
	if err != nil {
		return Response{}, fmt.Errorf("llmprovider: gemini (model: %s) request failed: %w", p.model, err)
	}

	text := response.Text()
	var tokens int
	if response.UsageMetadata != nil {
		tokens = int(response.UsageMetadata.TotalTokenCount)
	}

	return Response{RawResponse: text, TokensUsed: tokens}, nil
}
