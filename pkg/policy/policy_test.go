package policy

import (
	"strings"
	"testing"

	"github.com/owlsentry/browserguard/pkg/intent"
)

func TestExecutableDownloadDenied(t *testing.T) {
	e := New(nil)
	d := e.Allows(Action{Type: intent.ActionClick, Target: "https://example.com/installer.exe"}, Context{})
	if d.Allowed || d.Effect != EffectDeny {
		t.Fatalf("expected executable download to be denied, got %+v", d)
	}
}

func TestPaymentDescriptionDenied(t *testing.T) {
	e := New(nil)
	d := e.Allows(Action{Type: intent.ActionClick, Description: "Pay Now"}, Context{})
	if d.Allowed {
		t.Fatalf("expected payment description to be denied, got %+v", d)
	}
	if !strings.Contains(d.Reason, "payment") {
		t.Errorf("expected a reason mentioning payment, got %q", d.Reason)
	}
}

func TestLoginOverHTTPDenied(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskLogin, AllowedDomains: []string{"mysite.com"}, AllowedActions: []intent.Action{intent.ActionType}}
	e := New(&i)
	d := e.Allows(Action{Type: intent.ActionType, Target: "#password", Description: "type secret"}, Context{CurrentURL: "http://mysite.com/login"})
	if d.Allowed {
		t.Fatalf("expected login over HTTP to be denied, got %+v", d)
	}
}

func TestMaliciousDomainDenied(t *testing.T) {
	e := New(nil)
	d := e.Allows(Action{Type: intent.ActionNavigate, Target: "https://phishing.example/fake"}, Context{})
	if d.Allowed {
		t.Fatalf("expected malicious domain navigation to be denied, got %+v", d)
	}
}

func TestDomainOutsideAllowlistDenied(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"newegg.com"}, AllowedActions: []intent.Action{intent.ActionNavigate}}
	e := New(&i)
	d := e.Allows(Action{Type: intent.ActionNavigate, Target: "https://attacker.com/collect"}, Context{})
	if d.Allowed {
		t.Fatalf("expected out-of-allowlist navigation to be denied, got %+v", d)
	}
}

func TestConfirmEffectOnClickWithNoHigherPriorityDeny(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"example.com"}, AllowedActions: []intent.Action{intent.ActionClick}}
	e := New(&i)
	d := e.Allows(Action{Type: intent.ActionClick, Target: "#read-more"}, Context{})
	if d.Effect != EffectConfirm {
		t.Fatalf("expected confirm effect, got %+v", d)
	}
	if !d.Allowed {
		t.Errorf("confirm effect should report Allowed=true (conditionally permitted)")
	}
}

func TestAllowsIntentDeniesSensitiveExtract(t *testing.T) {
	e := New(nil)
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"example.com"}, SensitiveData: []intent.SensitiveLabel{intent.LabelEmail}}
	d := e.AllowsIntent(i)
	if d.Allowed {
		t.Fatalf("expected sensitive-data extract intent to be denied")
	}
}

func TestParseMetaPolicyNoFormSubmit(t *testing.T) {
	rules, err := ParseMetaPolicy(`<meta name="ai-agent-policy" content="no-form-submit, read-only">`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
}

func TestParseMetaPolicySingleQuotes(t *testing.T) {
	rules, err := ParseMetaPolicy(`<meta name='ai-agent-policy' content='no-ai-agents'>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rules) != 1 || rules[0].Effect != EffectDeny {
		t.Fatalf("expected a single deny rule, got %+v", rules)
	}
}
