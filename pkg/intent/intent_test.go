package intent

import (
	"strings"
	"testing"
)

func TestParseCleanSearch(t *testing.T) {
	i, err := Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if i.TaskType != TaskSearch {
		t.Errorf("expected task_type search, got %s", i.TaskType)
	}
	if !i.HasDomain("newegg.com") || !i.HasDomain("www.newegg.com") {
		t.Errorf("expected newegg.com and www.newegg.com in allowed_domains, got %v", i.AllowedDomains)
	}
}

func TestParseGitlabAnchors(t *testing.T) {
	i, err := Parse("Check my issues on https://gitlab.com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !i.HasDomain("gitlab.com") || !i.HasDomain("api.gitlab.com") {
		t.Errorf("expected gitlab.com and api.gitlab.com companions, got %v", i.AllowedDomains)
	}
}

func TestEveryDomainHasWWWSibling(t *testing.T) {
	i, err := Parse("extract data from shopping.com and mysite.com")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	for _, d := range i.AllowedDomains {
		bare := strings.TrimPrefix(d, "www.")
		if !i.HasDomain(bare) || !i.HasDomain("www."+bare) {
			t.Errorf("domain %q missing its www sibling in %v", d, i.AllowedDomains)
		}
	}
}

func TestValidateLoginRejectsPassword(t *testing.T) {
	i := Intent{
		TaskType:        TaskLogin,
		AllowedDomains:  []string{"mysite.com"},
		TimeoutMs:       30_000,
		OriginalRequest: "log in with password hunter2",
		SensitiveData:   []SensitiveLabel{LabelPassword},
	}
	res := Validate(i)
	if res.Valid {
		t.Fatalf("expected login intent carrying a password token to be invalid")
	}
}

func TestValidatePurchaseRejectsCreditCard(t *testing.T) {
	i := Intent{
		TaskType:       TaskPurchase,
		AllowedDomains: []string{"shop.com"},
		TimeoutMs:      60_000,
		SensitiveData:  []SensitiveLabel{LabelCreditCard},
	}
	res := Validate(i)
	if res.Valid {
		t.Fatalf("expected purchase intent carrying a credit_card token to be invalid")
	}
}

func TestValidateEmptyDomainsRejected(t *testing.T) {
	res := Validate(Intent{TaskType: TaskExtract, TimeoutMs: 1000})
	if res.Valid {
		t.Fatalf("expected empty allowed_domains to be invalid")
	}
}

func TestTimeoutBoundary(t *testing.T) {
	ok := Intent{TaskType: TaskExtract, AllowedDomains: []string{"example.com"}, TimeoutMs: MaxTimeoutMs}
	if res := Validate(ok); !res.Valid {
		t.Errorf("expected timeout_ms == %d to pass, issues: %v", MaxTimeoutMs, res.Issues)
	}

	bad := ok
	bad.TimeoutMs = MaxTimeoutMs + 1
	if res := Validate(bad); res.Valid {
		t.Errorf("expected timeout_ms == %d to fail", MaxTimeoutMs+1)
	}
}

func TestActionsForTaskType(t *testing.T) {
	got := ActionsForTaskType(TaskLogin)
	want := []Action{ActionNavigate, ActionClick, ActionType}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for idx, a := range want {
		if got[idx] != a {
			t.Errorf("index %d: expected %s, got %s", idx, a, got[idx])
		}
	}
}
