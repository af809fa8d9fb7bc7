package llmprovider

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// WithLogging wraps p so every generate_plan call and its outcome are
// logged at debug/error level, without altering the returned Response.
func WithLogging(p Provider, logger *slog.Logger) Provider {
	return &loggingProvider{inner: p, logger: logger}
}

type loggingProvider struct {
	inner  Provider
	logger *slog.Logger
}

func (l *loggingProvider) GeneratePlan(ctx context.Context, systemPrompt, userPrompt, schema string, i intent.Intent) (Response, error) {
	l.logger.Debug("llmprovider: generate_plan", "task_type", i.TaskType, "goal", i.Goal)
	resp, err := l.inner.GeneratePlan(ctx, systemPrompt, userPrompt, schema, i)
	if err != nil {
		l.logger.Error("llmprovider: generate_plan failed", "error", err)
		return resp, err
	}
	l.logger.Debug("llmprovider: generate_plan succeeded", "tokens_used", resp.TokensUsed)
	return resp, nil
}

// WithCache wraps p with an in-memory cache keyed by the hash of
// (systemPrompt, userPrompt, schema): identical single-shot prompts for the
// same intent shape return the prior response without a second round trip.
func WithCache(p Provider) Provider {
	return &cachingProvider{inner: p, cache: make(map[string]Response)}
}

type cachingProvider struct {
	inner Provider
	mu    sync.Mutex
	cache map[string]Response
}

func (c *cachingProvider) GeneratePlan(ctx context.Context, systemPrompt, userPrompt, schema string, i intent.Intent) (Response, error) {
	key := cacheKey(systemPrompt, userPrompt, schema)

	c.mu.Lock()
	if resp, ok := c.cache[key]; ok {
		c.mu.Unlock()
		return resp, nil
	}
	c.mu.Unlock()

	resp, err := c.inner.GeneratePlan(ctx, systemPrompt, userPrompt, schema, i)
	if err != nil {
		return resp, err
	}

	c.mu.Lock()
	c.cache[key] = resp
	c.mu.Unlock()
	return resp, nil
}

func cacheKey(parts ...string) string {
	h := sha256.New()
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
