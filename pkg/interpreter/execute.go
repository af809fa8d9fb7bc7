package interpreter

import (
	"context"
	"fmt"
	"time"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/policy"
)

// Options configures one execute() call.
type Options struct {
	Strict bool // fatal on required expected-outcome mismatch
	Now    func() time.Time
	Pacer  *Pacer // optional adapter-call rate throttle; nil disables pacing

	// ConfirmGate resolves a confirm-effect Decision into an out-of-band
	// user acknowledgement. A nil ConfirmGate treats confirm exactly like
	// deny, per spec.md §4.2: "callers that cannot confirm treat it as
	// deny."
	ConfirmGate policy.ConfirmGate
}

// Execute drives d to completion against adapter, consulting engine before
// every action, exactly as pseudocoded in spec.md §4.6: resolve the
// current node, get a policy decision, perform the action, validate
// outcomes, select the next branch, check for steering, repeat.
func Execute(ctx context.Context, d dag.DAG, adapter browser.Adapter, engine *policy.Engine, opts Options) Result {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	start := now()
	deadline := d.Intent.Deadline(start)

	sctx := newSteeringContext()
	var trace []TraceEntry
	data := make(map[string]string)

	nodeID := d.EntryPoint
	for {
		if now().After(deadline) {
			return finish(StatusTimeout, data, "session deadline exceeded", trace, start, now)
		}

		node, ok := d.Nodes[nodeID]
		if !ok {
			return finish(StatusError, data, fmt.Sprintf("node %q not found", nodeID), trace, start, now)
		}

		decision := engine.Allows(policy.Action{
			Type:        toIntentAction(node.Action.Type),
			Target:      actionTarget(node.Action),
			Description: node.Action.Description,
		}, policy.Context{CurrentURL: currentURL(sctx)})
		if !decision.Allowed {
			return finish(StatusBlocked, data, decisionReason(decision), trace, start, now)
		}
		if decision.Effect == policy.EffectConfirm {
			if opts.ConfirmGate == nil || !opts.ConfirmGate.RequestConfirmation(ctx, decision.Reason) {
				return finish(StatusBlocked, data, "confirmation required and not granted: "+decisionReason(decision), trace, start, now)
			}
		}

		if err := opts.Pacer.Wait(ctx); err != nil {
			return finish(StatusError, data, err.Error(), trace, start, now)
		}

		observation, extracted, err := executeAction(ctx, adapter, node.Action)
		if err != nil {
			return finish(StatusError, data, err.Error(), trace, start, now)
		}
		for k, v := range extracted {
			data[k] = v
		}

		sctx.recordVisit(observation.URL)
		sctx.Depth++

		decisionKind := DecisionContinue
		if node.Terminal {
			decisionKind = DecisionAbort
		}
		entry := TraceEntry{NodeID: nodeID, Action: node.Action, Observation: observation, Decision: decisionKind, Timestamp: now()}
		trace = append(trace, entry)

		if node.Terminal {
			return finish(terminalStatus(node.TerminalResult), data, "", trace, start, now)
		}

		if !validateOutcomes(node.ExpectedOutcomes, observation, opts.Strict) {
			return finish(StatusAborted, data, "required expected outcome mismatch", trace, start, now)
		}

		edges := d.OutgoingEdges(nodeID)
		edge, ok := selectBranch(edges, observation)
		if !ok {
			return finish(StatusError, data, "no valid branch", trace, start, now)
		}
		trace[len(trace)-1].Decision = DecisionBranch
		trace[len(trace)-1].TakenBranch = edge.To

		if detectSteering(observation.URL, sctx) {
			return finish(StatusAborted, data, "branch-steering detected: destination domain not in allowed set", trace, start, now)
		}

		nodeID = edge.To
	}
}

func finish(status Status, data map[string]string, reason string, trace []TraceEntry, start time.Time, now func() time.Time) Result {
	return Result{Status: status, Data: data, Reason: reason, Trace: trace, DurationMs: now().Sub(start).Milliseconds()}
}

func terminalStatus(r dag.TerminalResult) Status {
	switch r {
	case dag.TerminalSuccess:
		return StatusComplete
	case dag.TerminalAbort:
		return StatusAborted
	default:
		return StatusError
	}
}

func currentURL(sctx *steeringContext) string {
	if len(sctx.Visited) == 0 {
		return ""
	}
	return sctx.Visited[len(sctx.Visited)-1]
}

func decisionReason(d policy.Decision) string {
	if d.Reason != "" {
		return d.Reason
	}
	return "blocked by policy"
}

func actionTarget(a dag.BrowserAction) string {
	if a.Type == dag.ActionNavigate {
		return a.Target
	}
	return a.Target
}
