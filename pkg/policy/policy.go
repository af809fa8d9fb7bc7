// Package policy implements the prioritized, multi-source rule engine
// that arbitrates allow/deny/confirm for whole intents and for individual
// actions in flight.
package policy

import (
	"github.com/owlsentry/browserguard/pkg/domainmatch"
	"github.com/owlsentry/browserguard/pkg/intent"
)

// Effect is the closed set of outcomes a rule can produce.
type Effect string

const (
	EffectAllow   Effect = "allow"
	EffectDeny    Effect = "deny"
	EffectConfirm Effect = "confirm"
)

// Source names where a rule came from.
type Source string

const (
	SourceStatic Source = "static"
	SourceSite   Source = "site"
	SourceTask   Source = "task"
	SourceUser   Source = "user"
)

// Scope is a struct-of-optionals predicate over domains/actions/task
// types; a nil/empty field means "matches anything".
type Scope struct {
	Domains   []string
	Actions   []intent.Action
	TaskTypes []intent.TaskType
}

func (s Scope) matchesAction(a intent.Action) bool {
	if len(s.Actions) == 0 {
		return true
	}
	for _, x := range s.Actions {
		if x == a {
			return true
		}
	}
	return false
}

func (s Scope) matchesTaskType(t intent.TaskType) bool {
	if len(s.TaskTypes) == 0 {
		return true
	}
	for _, x := range s.TaskTypes {
		if x == t {
			return true
		}
	}
	return false
}

func (s Scope) matchesDomain(domain string) bool {
	if len(s.Domains) == 0 {
		return true
	}
	return domainmatch.MatchesAny(domain, s.Domains)
}

// Rule is one entry in the prioritized rule list. Lower Priority is
// evaluated first.
type Rule struct {
	ID       string
	Source   Source
	Scope    Scope
	Effect   Effect
	Priority int
	Reason   string
}

// Decision is the outcome of evaluating the rule list against an action
// or intent. Effect == confirm means the action is conditionally
// permitted, contingent on out-of-band user acknowledgement; a caller
// that cannot confirm must treat it as deny.
type Decision struct {
	Allowed     bool
	Effect      Effect
	MatchedRule string
	Reason      string
}

func allowDecision() Decision {
	return Decision{Allowed: true, Effect: EffectAllow}
}

func denyDecision(ruleID, reason string) Decision {
	return Decision{Allowed: false, Effect: EffectDeny, MatchedRule: ruleID, Reason: reason}
}

func confirmDecision(ruleID, reason string) Decision {
	return Decision{Allowed: true, Effect: EffectConfirm, MatchedRule: ruleID, Reason: reason}
}

// Action is one planned/executed primitive to be screened, carrying the
// context a rule's scope needs plus free text used by the security
// short-circuit patterns.
type Action struct {
	Type        intent.Action
	Target      string // e.g. a navigation URL or click selector
	Description string // human description, scanned for payment patterns
}

// Context is the in-flight execution context an action is screened
// against.
type Context struct {
	CurrentURL string
	Data       map[string]any
}
