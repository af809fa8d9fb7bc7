package policy

import (
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/owlsentry/browserguard/pkg/domainmatch"
	"github.com/owlsentry/browserguard/pkg/intent"
)

// Engine is a per-session object: the sorted rule list, plus the intent
// (if any) it was seeded with. Static rule tables are read-only
// process-wide; everything else here is owned by one session (spec.md §5).
type Engine struct {
	mu     sync.RWMutex
	intent *intent.Intent
	rules  []Rule
}

// New constructs an Engine seeded with the static rules plus, if i is
// non-nil, task-derived rules for that intent.
func New(i *intent.Intent) *Engine {
	e := &Engine{intent: i}
	e.rules = append(e.rules, StaticRules()...)
	if i != nil {
		e.rules = append(e.rules, taskDerivedRules(*i)...)
	}
	e.sortRules()
	return e
}

func (e *Engine) sortRules() {
	sort.SliceStable(e.rules, func(i, j int) bool { return e.rules[i].Priority < e.rules[j].Priority })
}

// AddSitePolicies admits externally-parsed site rules (e.g. from an
// <ai-agent-policy> meta tag) into the engine's rule list.
func (e *Engine) AddSitePolicies(rules []Rule) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = append(e.rules, rules...)
	e.sortRules()
}

// Rules returns a sorted snapshot of the engine's current rule list.
func (e *Engine) Rules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Rule, len(e.rules))
	copy(out, e.rules)
	return out
}

// AllowsIntent screens an entire intent before any plan is built.
func (e *Engine) AllowsIntent(i intent.Intent) Decision {
	if len(i.SensitiveData) > 0 && i.TaskType == intent.TaskExtract {
		return denyDecision("sensitive-data-extract", "extracting data from a request carrying sensitive-data labels is denied")
	}
	for _, d := range i.AllowedDomains {
		if IsMaliciousDomain(d) {
			return denyDecision("block-malicious-domains", "allowed_domains contains a known-hostile domain pattern: "+d)
		}
	}
	return allowDecision()
}

// Allows screens one action in flight against the current context,
// following the fixed evaluation order in spec.md §4.2.
func (e *Engine) Allows(a Action, ctx Context) Decision {
	e.mu.RLock()
	rules := make([]Rule, len(e.rules))
	copy(rules, e.rules)
	i := e.intent
	e.mu.RUnlock()

	// 1. Security short-circuit.
	if IsExecutableTarget(a.Target) {
		return denyDecision("no-executable-download", "target names an executable download")
	}
	if IsPaymentDescription(a.Description) {
		return denyDecision("no-auto-payment", "action description matches a payment pattern")
	}
	if i != nil && i.TaskType == intent.TaskLogin && !strings.HasPrefix(strings.ToLower(ctx.CurrentURL), "https://") {
		return denyDecision("https-only-credentials", "login task requires an https:// current URL")
	}

	// 2. Domain check for navigate actions.
	if a.Type == intent.ActionNavigate {
		host := hostOf(a.Target)
		if host != "" {
			if IsMaliciousDomain(host) {
				return denyDecision("block-malicious-domains", "navigation target matches a known-hostile domain pattern")
			}
			if i != nil && !domainmatch.MatchesAny(host, i.AllowedDomains) {
				return denyDecision("task-domain-denylist", "navigation target "+host+" is outside the intent's allowed domains")
			}
		}
	}

	// 3. Action-alphabet check.
	if i != nil && !i.HasAction(a.Type) {
		return denyDecision("task-action-allowlist", "action "+string(a.Type)+" is outside the intent's allowed actions")
	}

	// 4. Fallthrough: scan the remaining (non-gate) rules in ascending
	// priority for the first confirm or deny rule whose scope matches
	// (static confirm gates, task confirm-on-click, site deny rules);
	// allow rules are skipped, since the gates above already resolved
	// domain/action allow-or-deny.
	for _, r := range rules {
		if !isFallthroughEligible(r) {
			continue
		}
		if !r.Scope.matchesAction(a.Type) {
			continue
		}
		if i != nil && !r.Scope.matchesTaskType(i.TaskType) {
			continue
		}
		if len(r.Scope.Domains) > 0 {
			host := hostOf(a.Target)
			if host == "" || !r.Scope.matchesDomain(host) {
				continue
			}
		}
		switch r.Effect {
		case EffectConfirm:
			return confirmDecision(r.ID, r.Reason)
		case EffectDeny:
			return denyDecision(r.ID, r.Reason)
		}
	}

	return allowDecision()
}

// isFallthroughEligible excludes the rules already accounted for by the
// hardcoded gate steps above, so they are not double-evaluated.
func isFallthroughEligible(r Rule) bool {
	switch r.ID {
	case "no-auto-payment", "https-only-credentials", "no-executable-download",
		"block-malicious-domains", "task-domain-allowlist", "task-domain-denylist",
		"task-action-allowlist", "login-strict-same-domain":
		return false
	default:
		return true
	}
}

func hostOf(target string) string {
	u, err := url.Parse(target)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
