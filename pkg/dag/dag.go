// Package dag models a pre-enumerated browsing plan: every branch the
// interpreter might take is decided before any page is observed.
package dag

import (
	"time"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// BrowserActionType is the closed alphabet of browser actions a node may
// carry, mirroring intent.Action.
type BrowserActionType string

const (
	ActionNavigate   BrowserActionType = "navigate"
	ActionClick      BrowserActionType = "click"
	ActionType       BrowserActionType = "type"
	ActionScroll     BrowserActionType = "scroll"
	ActionExtract    BrowserActionType = "extract"
	ActionScreenshot BrowserActionType = "screenshot"
	ActionWait       BrowserActionType = "wait"
)

// BrowserAction is the single action a node performs.
type BrowserAction struct {
	Type        BrowserActionType
	Target      string // selector or URL, depending on Type
	Value       string // e.g. text to type
	Description string
}

// ConditionType is the closed alphabet of edge conditions.
type ConditionType string

const (
	ConditionElementPresent ConditionType = "element_present"
	ConditionElementAbsent  ConditionType = "element_absent"
	ConditionURLMatch       ConditionType = "url_match"
	ConditionContentMatch   ConditionType = "content_match"
	ConditionDefault        ConditionType = "default"
)

// Condition is a tagged branch predicate.
type Condition struct {
	Type        ConditionType
	Value       string // selector or regex, per Type
	Description string
}

// ExpectedOutcome is a post-action assertion a node declares against the
// resulting observation.
type ExpectedOutcome struct {
	Condition Condition
	Required  bool
}

// ExtractionTarget names one piece of data a node should pull out of an
// observation.
type ExtractionTarget struct {
	Name     string
	Selector string
}

// ConstraintType is the closed alphabet of per-node constraints.
type ConstraintType string

const (
	ConstraintDomain ConstraintType = "domain"
)

// Constraint restricts what a node is allowed to do; every node carries at
// least a domain constraint enumerating the intent's allowed domains.
type Constraint struct {
	Type           ConstraintType
	AllowedDomains []string
}

// TerminalResult is the closed set of outcomes a terminal node can declare.
type TerminalResult string

const (
	TerminalSuccess TerminalResult = "success"
	TerminalError   TerminalResult = "error"
	TerminalAbort   TerminalResult = "abort"
)

// Node is one step of the plan.
type Node struct {
	ID                string
	Action            BrowserAction
	ExpectedOutcomes  []ExpectedOutcome
	ExtractionTargets []ExtractionTarget
	Constraints       []Constraint
	Terminal          bool
	TerminalResult    TerminalResult
}

// Edge connects two nodes under a condition; lower Priority is evaluated
// first during branch selection.
type Edge struct {
	From      string
	To        string
	Condition Condition
	Priority  int
}

// DAG is an entire pre-enumerated browsing session.
type DAG struct {
	ID         string
	Intent     intent.Intent
	Nodes      map[string]Node
	Edges      []Edge
	EntryPoint string
	CreatedAt  time.Time
}

// New builds an empty DAG scaffold for intent i.
func New(id string, i intent.Intent, createdAt time.Time) DAG {
	return DAG{ID: id, Intent: i, Nodes: make(map[string]Node), CreatedAt: createdAt}
}

// AddNode inserts or replaces a node.
func (d *DAG) AddNode(n Node) {
	d.Nodes[n.ID] = n
}

// AddEdge appends an edge.
func (d *DAG) AddEdge(e Edge) {
	d.Edges = append(d.Edges, e)
}

// OutgoingEdges returns the edges leaving nodeID, sorted ascending by
// priority (branch-selection order).
func (d *DAG) OutgoingEdges(nodeID string) []Edge {
	var out []Edge
	for _, e := range d.Edges {
		if e.From == nodeID {
			out = append(out, e)
		}
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1].Priority > out[j].Priority; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// DomainConstraint builds the domain constraint every node must carry,
// enumerating i's allowed domains.
func DomainConstraint(i intent.Intent) Constraint {
	return Constraint{Type: ConstraintDomain, AllowedDomains: append([]string(nil), i.AllowedDomains...)}
}
