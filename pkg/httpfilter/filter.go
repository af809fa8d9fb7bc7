package httpfilter

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/owlsentry/browserguard/pkg/domainmatch"
	"golang.org/x/time/rate"
)

// hostOf extracts the lowercased host from a URL, returning "" if it
// cannot be parsed or carries no host.
func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// sortedByPriority returns sitemap entries in ascending priority order,
// so the first match encountered is the most specific applicable entry.
func sortedByPriority(entries []SitemapEntry) []SitemapEntry {
	sorted := append([]SitemapEntry(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Priority < sorted[j].Priority })
	return sorted
}

// Filter is a per-session object owning the active predicted allowlist,
// the set of known site policies (keyed by the domain they govern), and
// an optional rate limiter (spec.md §5 Sharing: not safe to share across
// sessions).
type Filter struct {
	mu                     sync.RWMutex
	policies               map[string]SitePolicy // domain -> policy
	predictedAllowlist     []string
	predictedAllowlistOn   bool
	limiters               map[string]*rate.Limiter
	limiterRate            rate.Limit
	limiterBurst           int
}

// New constructs an empty Filter.
func New() *Filter {
	return &Filter{policies: make(map[string]SitePolicy)}
}

// LoadPolicy registers a SitePolicy, indexed by every domain it governs.
func (f *Filter) LoadPolicy(p SitePolicy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range p.Domains {
		f.policies[strings.ToLower(d)] = p
	}
}

// LoadSitemap attaches a sitemap to the policy already registered for
// domain, if any.
func (f *Filter) LoadSitemap(domain string, entries []SitemapEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	domain = strings.ToLower(domain)
	p, ok := f.policies[domain]
	if !ok {
		return
	}
	p.Sitemap = append(p.Sitemap, entries...)
	f.policies[domain] = p
}

// LoadRules attaches semantic-action rules to the policy already
// registered for domain, if any.
func (f *Filter) LoadRules(domain string, rules []SemanticRule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	domain = strings.ToLower(domain)
	p, ok := f.policies[domain]
	if !ok {
		return
	}
	p.Rules = append(p.Rules, rules...)
	f.policies[domain] = p
}

// SetPredictedAllowlist installs the active predicted allowlist (layer 1).
func (f *Filter) SetPredictedAllowlist(domains []string, active bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.predictedAllowlist = domains
	f.predictedAllowlistOn = active
}

// SetRateLimiter installs an additional per-destination-host token bucket
// layer, evaluated between the predicted allowlist and the policy lookup.
// Disabled (skipped) when perHost is zero.
func (f *Filter) SetRateLimiter(perHost rate.Limit, burst int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limiterRate = perHost
	f.limiterBurst = burst
	f.limiters = make(map[string]*rate.Limiter)
}

func (f *Filter) allowRate(host string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.limiterRate == 0 {
		return true
	}
	lim, ok := f.limiters[host]
	if !ok {
		lim = rate.NewLimiter(f.limiterRate, f.limiterBurst)
		f.limiters[host] = lim
	}
	return lim.Allow()
}

func (f *Filter) policyFor(host string) (SitePolicy, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	// longest-matching host, exact or subdomain.
	var best SitePolicy
	bestLen := -1
	found := false
	for domain, p := range f.policies {
		if domainmatch.Matches(host, domain) && len(domain) > bestLen {
			best, bestLen, found = p, len(domain), true
		}
	}
	return best, found
}

// Filter screens one outbound request through the six layers in
// spec.md §4.3, short-circuiting on the first deny.
func (f *Filter) Filter(req HttpRequest, currentDomain string) FilterDecision {
	destHost := hostOf(req.URL)

	currentPolicy, haveCurrentPolicy := f.policyFor(currentDomain)

	// 1. Predicted allowlist.
	f.mu.RLock()
	allowlistOn := f.predictedAllowlistOn
	allowlist := append([]string(nil), f.predictedAllowlist...)
	f.mu.RUnlock()
	if allowlistOn {
		inAllowlist := domainmatch.MatchesAny(destHost, allowlist)
		admittedByCurrent := haveCurrentPolicy && domainmatch.MatchesAny(destHost, currentPolicy.AllowedDomains)
		if !inAllowlist && !admittedByCurrent {
			return deny("destination host is outside the active predicted allowlist")
		}
	}

	// rate limiting (additional layer, off by default).
	if !f.allowRate(destHost) {
		return deny("rate limited")
	}

	// 2. Policy lookup.
	policy, ok := f.policyFor(destHost)
	if !ok {
		if haveCurrentPolicy && domainmatch.MatchesAny(destHost, currentPolicy.AllowedDomains) {
			policy, ok = currentPolicy, true
		} else {
			return deny("no site policy governs destination host, and the current domain's policy does not admit it")
		}
	}

	// 5. Explicit allowed_requests bypass (checked early: it is a
	// bypass of layers 3/4, not a request that fails them first).
	for _, ar := range policy.AllowedRequests {
		if strings.HasPrefix(req.URL, ar.URL) && (ar.Method == "" || strings.EqualFold(ar.Method, req.Method)) {
			return allow()
		}
	}

	// 3. Sitemap matching.
	entry, matched := matchSitemap(policy.Sitemap, req)
	if matched {
		// 4. Rule resolution.
		for _, r := range policy.Rules {
			if r.SemanticAction == entry.SemanticAction {
				return decisionForEffect(r.Effect, r.Reason)
			}
		}
	}

	// 6. Fallthrough: policy default.
	decision := decisionForEffect(FilterEffect(policy.Default), "policy default")
	return decision
}

// Apply strips credential-bearing headers from req when decision calls for
// it, returning the headers that should actually be sent.
func Apply(decision FilterDecision, req HttpRequest) map[string]string {
	if decision.StripCookies {
		return StripCredentials(req.Headers)
	}
	return req.Headers
}

func decisionForEffect(e FilterEffect, reason string) FilterDecision {
	switch e {
	case FilterAllowPublic:
		return allowPublic(reason)
	case FilterDeny:
		return deny(reason)
	default:
		return allow()
	}
}

func matchSitemap(sitemap []SitemapEntry, req HttpRequest) (SitemapEntry, bool) {
	sorted := sortedByPriority(sitemap)
	// Patterns may be full URLs or bare paths (as the OpenAPI loader
	// produces), so an entry matches if either form of the URL matches.
	reqPath := req.URL
	if u, perr := url.Parse(req.URL); perr == nil {
		reqPath = u.Path
	}
	for _, entry := range sorted {
		if !strings.EqualFold(entry.Method, req.Method) {
			continue
		}
		var re *regexp.Regexp
		var err error
		if entry.Regex != "" {
			re, err = regexp.Compile(entry.Regex)
		} else {
			re, err = compilePattern(entry.URLPattern)
		}
		if err != nil || !(re.MatchString(req.URL) || re.MatchString(reqPath)) {
			continue
		}
		if len(entry.BodyPattern) > 0 && !bodyContains(entry.BodyPattern, parseBody(req.Body)) {
			continue
		}
		if len(entry.ResourceTypes) > 0 && !containsString(entry.ResourceTypes, req.ResourceType) {
			continue
		}
		return entry, true
	}
	return SitemapEntry{}, false
}

func containsString(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
