package domainmatch

import "testing"

func TestMatchesExactAndSubdomain(t *testing.T) {
	if !Matches("github.com", "github.com") {
		t.Error("expected exact match")
	}
	if !Matches("api.github.com", "github.com") {
		t.Error("expected subdomain match")
	}
	if !Matches("API.GitHub.com", "github.com") {
		t.Error("expected case-insensitive match")
	}
}

func TestMatchesRejectsLookalikes(t *testing.T) {
	lookalikes := []string{
		"github.com.attacker.com",
		"githubcom.org",
		"github-api.attacker.com",
		"notgithub.com",
	}
	for _, host := range lookalikes {
		if Matches(host, "github.com") {
			t.Errorf("expected %q to NOT match github.com", host)
		}
	}
}

func TestMatchesAny(t *testing.T) {
	allowed := []string{"github.com", "api.github.com"}
	if !MatchesAny("raw.github.com", allowed) {
		t.Error("expected raw.github.com to match via subdomain of github.com")
	}
	if MatchesAny("gitlab.com", allowed) {
		t.Error("expected gitlab.com to not match")
	}
}
