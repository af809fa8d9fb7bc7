package policy

import "github.com/owlsentry/browserguard/pkg/intent"

// staticRules is the process-global, immutable table of rules that exist
// independent of any intent (spec.md §4.2). Compiled once; never mutated.
var staticRules = []Rule{
	{
		ID:       "no-auto-payment",
		Source:   SourceStatic,
		Scope:    Scope{Actions: []intent.Action{intent.ActionClick, intent.ActionType}},
		Effect:   EffectDeny,
		Priority: 0,
		Reason:   "payments are never auto-submitted",
	},
	{
		ID:       "https-only-credentials",
		Source:   SourceStatic,
		Scope:    Scope{TaskTypes: []intent.TaskType{intent.TaskLogin}},
		Effect:   EffectDeny,
		Priority: 0,
		Reason:   "credentials never leave plaintext",
	},
	{
		ID:       "no-executable-download",
		Source:   SourceStatic,
		Scope:    Scope{Actions: []intent.Action{intent.ActionClick, intent.ActionNavigate}},
		Effect:   EffectDeny,
		Priority: 0,
		Reason:   "executable downloads are never permitted",
	},
	{
		ID:       "block-malicious-domains",
		Source:   SourceStatic,
		Scope:    Scope{},
		Effect:   EffectDeny,
		Priority: 0,
		Reason:   "destination matches a known-hostile domain pattern",
	},
	{
		ID:       "confirm-form-submit",
		Source:   SourceStatic,
		Scope:    Scope{Actions: []intent.Action{intent.ActionClick}},
		Effect:   EffectConfirm,
		Priority: 10,
		Reason:   "form submission requires confirmation",
	},
	{
		ID:       "confirm-external-nav",
		Source:   SourceStatic,
		Scope:    Scope{Actions: []intent.Action{intent.ActionNavigate, intent.ActionClick}},
		Effect:   EffectConfirm,
		Priority: 10,
		Reason:   "cross-domain navigation requires confirmation",
	},
}

// StaticRules returns a copy of the compiled-in static rule table.
func StaticRules() []Rule {
	out := make([]Rule, len(staticRules))
	copy(out, staticRules)
	return out
}

// readOnlyTaskTypes are task types for which clicking is gated behind
// confirmation by default (the task-derived "confirm-on-click" rule).
var readOnlyTaskTypes = map[intent.TaskType]bool{
	intent.TaskSearch:  true,
	intent.TaskExtract: true,
	intent.TaskMonitor: true,
}

// taskDerivedRules builds the per-intent rule set: domain allow/deny,
// action allowlist, and task-specific extras (spec.md §4.2).
func taskDerivedRules(i intent.Intent) []Rule {
	rules := []Rule{
		{
			ID:       "task-domain-allowlist",
			Source:   SourceTask,
			Scope:    Scope{Domains: i.AllowedDomains},
			Effect:   EffectAllow,
			Priority: 5,
			Reason:   "destination is within the intent's allowed domains",
		},
		{
			ID:       "task-domain-denylist",
			Source:   SourceTask,
			Scope:    Scope{},
			Effect:   EffectDeny,
			Priority: 100,
			Reason:   "destination is outside the intent's allowed domains",
		},
		{
			ID:       "task-action-allowlist",
			Source:   SourceTask,
			Scope:    Scope{Actions: i.AllowedActions},
			Effect:   EffectAllow,
			Priority: 5,
			Reason:   "action is within the intent's allowed actions",
		},
	}

	if readOnlyTaskTypes[i.TaskType] {
		rules = append(rules, Rule{
			ID:       "confirm-on-click",
			Source:   SourceTask,
			Scope:    Scope{Actions: []intent.Action{intent.ActionClick}},
			Effect:   EffectConfirm,
			Priority: 20,
			Reason:   "read-only task types confirm before clicking",
		})
	}

	if i.TaskType == intent.TaskLogin {
		rules = append(rules, Rule{
			ID:       "login-strict-same-domain",
			Source:   SourceTask,
			Scope:    Scope{Domains: i.AllowedDomains, TaskTypes: []intent.TaskType{intent.TaskLogin}},
			Effect:   EffectAllow,
			Priority: 5,
			Reason:   "login task restricted to the same domain",
		})
	}

	return rules
}
