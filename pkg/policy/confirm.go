package policy

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
)

// ConfirmGate resolves an out-of-band user acknowledgement for a
// confirm-effect Decision. Callers that cannot confirm (headless
// pipelines) should use NullConfirmGate, which always denies.
type ConfirmGate interface {
	RequestConfirmation(ctx context.Context, reason string) bool
}

// NullConfirmGate never confirms; per spec.md §4.2, a caller that cannot
// confirm must treat a confirm effect as deny.
type NullConfirmGate struct{}

func (NullConfirmGate) RequestConfirmation(context.Context, string) bool { return false }

// TerminalConfirmGate renders a huh confirmation prompt at the CLI
// boundary, generalizing teacher's shared.ConfirmationManager
// (channel-based, timeout-bounded) from a single pending flag to one call
// per decision.
type TerminalConfirmGate struct {
	mu      sync.Mutex
	Timeout time.Duration
}

// NewTerminalConfirmGate constructs a gate with the given timeout; zero
// means no timeout beyond the caller's context.
func NewTerminalConfirmGate(timeout time.Duration) *TerminalConfirmGate {
	return &TerminalConfirmGate{Timeout: timeout}
}

// RequestConfirmation blocks on an interactive huh.Confirm prompt until
// the user answers, the context is canceled, or the gate's timeout
// elapses (whichever comes first); any non-affirmative outcome denies.
func (g *TerminalConfirmGate) RequestConfirmation(ctx context.Context, reason string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	var approved bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Browser Guard: confirmation required").
				Description(reason).
				Affirmative("Allow").
				Negative("Deny").
				Value(&approved),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return false
	}
	return approved
}
