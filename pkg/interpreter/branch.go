package interpreter

import (
	"regexp"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
)

// evaluateCondition decides whether c holds against observation.
func evaluateCondition(c dag.Condition, observation browser.Observation) bool {
	switch c.Type {
	case dag.ConditionDefault:
		return true
	case dag.ConditionElementPresent:
		return anyElementMatches(observation.Elements, c.Value)
	case dag.ConditionElementAbsent:
		return !anyElementMatches(observation.Elements, c.Value)
	case dag.ConditionURLMatch:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(observation.URL)
	case dag.ConditionContentMatch:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(observation.VisibleText)
	default:
		return false
	}
}

// selectBranch returns the first outgoing edge (already sorted ascending
// by priority) whose condition evaluates true against observation.
func selectBranch(edges []dag.Edge, observation browser.Observation) (dag.Edge, bool) {
	for _, e := range edges {
		if evaluateCondition(e.Condition, observation) {
			return e, true
		}
	}
	return dag.Edge{}, false
}

// validateOutcomes checks observation against a node's expected outcomes;
// it returns false (a fatal mismatch) iff a required outcome's condition
// does not hold and strict is set.
func validateOutcomes(outcomes []dag.ExpectedOutcome, observation browser.Observation, strict bool) bool {
	if !strict {
		return true
	}
	for _, o := range outcomes {
		if o.Required && !evaluateCondition(o.Condition, observation) {
			return false
		}
	}
	return true
}
