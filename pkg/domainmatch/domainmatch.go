// Package domainmatch centralizes the subdomain-matching semantics used
// consistently by both the policy engine and the HTTP filter (spec.md §9
// Open Question: the source was inconsistent between exact and subdomain
// matching; this repo uses subdomain matching everywhere, as the spec
// itself directs).
package domainmatch

import "strings"

// Matches reports whether host is covered by allowed, either as an exact
// match or as a subdomain of it (e.g. "api.github.com" matches allowed
// "github.com").
func Matches(host, allowed string) bool {
	host = strings.ToLower(host)
	allowed = strings.ToLower(allowed)
	if host == allowed {
		return true
	}
	return strings.HasSuffix(host, "."+allowed)
}

// MatchesAny reports whether host is covered by any entry in allowedList.
func MatchesAny(host string, allowedList []string) bool {
	for _, a := range allowedList {
		if Matches(host, a) {
			return true
		}
	}
	return false
}
