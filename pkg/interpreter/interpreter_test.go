package interpreter

import (
	"context"
	"testing"
	"time"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/intent"
	"github.com/owlsentry/browserguard/pkg/policy"
)

func fixedNow() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

// approvingGate grants every confirmation, standing in for a user who
// accepts each confirm-effect prompt.
type approvingGate struct{}

func (approvingGate) RequestConfirmation(context.Context, string) bool { return true }

func TestExecuteSearchTemplateToCompletion(t *testing.T) {
	i, err := intent.Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d := dag.Template(i, fixedNow())

	pages := map[string]browser.Observation{
		"https://newegg.com": {URL: "https://newegg.com"},
	}
	adapter, err := browser.NewMockAdapter(pages, nil, "https://newegg.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine := policy.New(&i)
	result := Execute(context.Background(), d, adapter, engine, Options{Now: fixedNow, ConfirmGate: approvingGate{}})

	if result.Status != StatusComplete {
		t.Fatalf("expected completion, got status=%s reason=%s", result.Status, result.Reason)
	}
}

func TestExecuteBlocksPaymentDescription(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"shopping.test"}, AllowedActions: []intent.Action{intent.ActionNavigate, intent.ActionClick}}
	d := dag.New("manual", i, fixedNow())
	d.AddNode(dag.Node{ID: "entry", Action: dag.BrowserAction{Type: dag.ActionNavigate, Target: "https://shopping.test"}})
	d.AddNode(dag.Node{ID: "pay", Action: dag.BrowserAction{Type: dag.ActionClick, Target: "#pay", Description: "Pay Now"}, Terminal: true, TerminalResult: dag.TerminalSuccess})
	d.AddEdge(dag.Edge{From: "entry", To: "pay", Condition: dag.Condition{Type: dag.ConditionDefault}})
	d.EntryPoint = "entry"

	pages := map[string]browser.Observation{"https://shopping.test": {URL: "https://shopping.test"}}
	adapter, err := browser.NewMockAdapter(pages, nil, "https://shopping.test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine := policy.New(&i)
	result := Execute(context.Background(), d, adapter, engine, Options{Now: fixedNow, ConfirmGate: approvingGate{}})

	if result.Status != StatusBlocked {
		t.Fatalf("expected blocked status, got %s (%s)", result.Status, result.Reason)
	}
}

func TestMatchElementSelectors(t *testing.T) {
	el := browser.Element{Tag: "button", Attributes: map[string]string{"id": "submit", "class": "primary large", "data-action": "confirm-payment"}}

	cases := []struct {
		sel  string
		want bool
	}{
		{"button", true},
		{"#submit", true},
		{".primary", true},
		{".missing", false},
		{`[data-action*="payment"]`, true},
		{`[data-action^="confirm"]`, true},
		{`[data-action$="payment"]`, true},
		{`[data-action=confirm-payment]`, true},
		{`[data-action=other]`, false},
	}
	for _, c := range cases {
		if got := matchElement(el, c.sel); got != c.want {
			t.Errorf("matchElement(%q) = %v, want %v", c.sel, got, c.want)
		}
	}
}

func TestCanBatchRejectsNavigate(t *testing.T) {
	actions := []BulkAction{{Type: "click", Ref: "1:1"}, {Type: "navigate", Ref: "1:2"}}
	result := CanBatch(actions)
	if result.OK {
		t.Fatalf("expected navigate to block batching")
	}
}

func TestCanBatchRejectsMixedVersions(t *testing.T) {
	actions := []BulkAction{{Type: "click", Ref: "1:1"}, {Type: "click", Ref: "2:1"}}
	result := CanBatch(actions)
	if result.OK {
		t.Fatalf("expected mixed snapshot versions to block batching")
	}
}

func TestOptimizeCutsAtNavigate(t *testing.T) {
	actions := []BulkAction{
		{Type: "click", Ref: "1:1"},
		{Type: "click", Ref: "1:2"},
		{Type: "navigate", Ref: "1:3"},
		{Type: "click", Ref: "2:1"},
	}
	batches := Optimize(actions)
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d: %+v", len(batches), batches)
	}
}

func TestParseBulkAcceptsBothShapes(t *testing.T) {
	a, err := ParseBulk([]byte(`{"bulkActions":[{"type":"click","ref":"1:1"}]}`))
	if err != nil || len(a) != 1 {
		t.Fatalf("expected one action from bulkActions shape, got %v, err=%v", a, err)
	}

	b, err := ParseBulk([]byte(`{"actions":[{"type":"click","ref":"1:1"}]}`))
	if err != nil || len(b) != 1 {
		t.Fatalf("expected one action from actions shape, got %v, err=%v", b, err)
	}
}

func TestEstimateGainsFor(t *testing.T) {
	g := EstimateGainsFor(10, 2)
	if g.AvgBatchSize != 5 {
		t.Errorf("expected avg batch size 5, got %v", g.AvgBatchSize)
	}
	if g.EstimatedTimeSavedMs <= 0 {
		t.Errorf("expected positive estimated time saved, got %d", g.EstimatedTimeSavedMs)
	}
}
