package interpreter

import (
	"time"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
)

// Status is the closed set of terminal session results.
type Status string

const (
	StatusComplete Status = "complete"
	StatusAborted  Status = "aborted"
	StatusBlocked  Status = "blocked"
	StatusTimeout  Status = "timeout"
	StatusError    Status = "error"
)

// TraceDecision is the closed set of per-step trace decisions.
type TraceDecision string

const (
	DecisionContinue TraceDecision = "continue"
	DecisionBranch   TraceDecision = "branch"
	DecisionAbort    TraceDecision = "abort"
)

// TraceEntry records one driver-loop iteration.
type TraceEntry struct {
	NodeID      string
	Action      dag.BrowserAction
	Observation browser.Observation
	Decision    TraceDecision
	TakenBranch string
	Timestamp   time.Time
}

// Result is the outcome of executing a DAG to completion or failure.
type Result struct {
	Status     Status
	Data       map[string]string
	Reason     string
	Trace      []TraceEntry
	DurationMs int64
}
