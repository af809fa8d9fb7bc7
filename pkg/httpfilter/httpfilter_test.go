package httpfilter

import (
	"testing"

	"github.com/owlsentry/browserguard/pkg/intent"
)

func TestCleanSearchAllowsProductDeniesPhishing(t *testing.T) {
	i, err := intent.Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	f := FilterFromIntent(i)

	allow := f.Filter(HttpRequest{URL: "https://newegg.com/p/ABC", Method: "GET"}, "newegg.com")
	if !allow.Allowed {
		t.Fatalf("expected product page to be allowed, got %+v", allow)
	}

	deny := f.Filter(HttpRequest{URL: "https://phishing.example/fake", Method: "GET"}, "newegg.com")
	if deny.Allowed {
		t.Fatalf("expected phishing domain to be denied, got %+v", deny)
	}
}

func TestGitlabIssuesAllowedAttackerDenied(t *testing.T) {
	i, err := intent.Parse("Check my issues on https://gitlab.com")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	f := FilterFromIntent(i)

	allow := f.Filter(HttpRequest{URL: "https://gitlab.com/api/v4/issues", Method: "GET"}, "gitlab.com")
	if !allow.Allowed {
		t.Fatalf("expected gitlab API issues request to be allowed, got %+v", allow)
	}

	deny := f.Filter(HttpRequest{URL: "https://attacker.com/collect", Method: "POST"}, "gitlab.com")
	if deny.Allowed {
		t.Fatalf("expected exfiltration POST to be denied, got %+v", deny)
	}
}

func TestLookalikeGithubDomainsDenied(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"github.com", "www.github.com"}}
	f := FilterFromIntent(i)

	allow := f.Filter(HttpRequest{URL: "https://github.com/owner/repo", Method: "GET"}, "github.com")
	if !allow.Allowed {
		t.Fatalf("expected github.com to be allowed, got %+v", allow)
	}

	allowAPI := f.Filter(HttpRequest{URL: "https://api.github.com/repos/owner/repo", Method: "GET"}, "github.com")
	if !allowAPI.Allowed {
		t.Fatalf("expected api.github.com (anchor companion) to be allowed, got %+v", allowAPI)
	}

	lookalikes := []string{
		"https://github.com.attacker.com/owner/repo",
		"https://githubcom.org/owner/repo",
		"https://github-api.attacker.com/owner/repo",
	}
	for _, url := range lookalikes {
		d := f.Filter(HttpRequest{URL: url, Method: "GET"}, "github.com")
		if d.Allowed {
			t.Errorf("expected lookalike domain %s to be denied, got %+v", url, d)
		}
	}
}

func TestExtractTaskStripsCredentials(t *testing.T) {
	i := intent.Intent{TaskType: intent.TaskExtract, AllowedDomains: []string{"techcrunch.com"}}
	f := FilterFromIntent(i)

	d := f.Filter(HttpRequest{URL: "https://techcrunch.com/article", Method: "GET"}, "techcrunch.com")
	if !d.Allowed || d.Effect != FilterAllowPublic || !d.StripCookies {
		t.Fatalf("expected allow_public with stripped credentials, got %+v", d)
	}

	headers := map[string]string{"Authorization": "Bearer secret", "Cookie": "session=1", "Accept": "text/html"}
	stripped := Apply(d, HttpRequest{Headers: headers})
	if _, ok := stripped["Authorization"]; ok {
		t.Errorf("expected Authorization header to be stripped")
	}
	if _, ok := stripped["Cookie"]; ok {
		t.Errorf("expected Cookie header to be stripped")
	}
	if stripped["Accept"] != "text/html" {
		t.Errorf("expected unrelated headers to survive stripping")
	}
}

func TestCompilePatternIdentAndWildcard(t *testing.T) {
	re, err := compilePattern("/api/v1/users/{id}/orders*")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("/api/v1/users/42/orders/history") {
		t.Errorf("expected pattern to match a concrete path with trailing wildcard")
	}
	if re.MatchString("/api/v1/users/42/invoices") {
		t.Errorf("did not expect pattern to match an unrelated suffix")
	}
}

func TestCompilePatternEscapesLiteralDot(t *testing.T) {
	re, err := compilePattern("/static/app.js")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !re.MatchString("/static/app.js") {
		t.Errorf("expected literal path to match itself")
	}
	if re.MatchString("/static/appXjs") {
		t.Errorf("expected the dot to be escaped, not treated as a wildcard")
	}
}

func TestBodyContainsNestedSubtree(t *testing.T) {
	pattern := map[string]any{"order": map[string]any{"status": "confirmed"}}
	body := map[string]any{"order": map[string]any{"status": "confirmed", "id": "123"}, "extra": true}
	if !bodyContains(pattern, body) {
		t.Fatalf("expected nested subtree containment to match")
	}

	mismatched := map[string]any{"order": map[string]any{"status": "pending"}}
	if bodyContains(pattern, mismatched) {
		t.Fatalf("expected mismatched nested value to fail containment")
	}
}

func TestSitemapMatchingPicksHighestPriorityEntry(t *testing.T) {
	f := New()
	f.LoadPolicy(SitePolicy{Name: "shop", Default: DefaultDeny, Domains: []string{"shop.test"}})
	f.LoadSitemap("shop.test", []SitemapEntry{
		{SemanticAction: "browse", URLPattern: "/products/*", Method: "GET", Priority: 10},
		{SemanticAction: "checkout", URLPattern: "/products/checkout", Method: "GET", Priority: 0},
	})
	f.LoadRules("shop.test", []SemanticRule{
		{SemanticAction: "browse", Effect: FilterAllow},
		{SemanticAction: "checkout", Effect: FilterDeny, Reason: "checkout requires confirmation"},
	})

	d := f.Filter(HttpRequest{URL: "https://shop.test/products/checkout", Method: "GET"}, "shop.test")
	if d.Allowed {
		t.Fatalf("expected the more specific checkout entry (lower priority number) to win, got %+v", d)
	}
}
