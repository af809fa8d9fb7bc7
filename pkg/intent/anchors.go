package intent

// anchorCompanions maps a well-known anchor host to the CDN/API hosts an
// agent legitimately needs alongside it. Process-global and immutable;
// consulted by both the parser (to seed allowed_domains) and by
// httpfilter.PredictAllowlistFromIntent (to expand the predicted
// allowlist without re-deriving the intent).
var anchorCompanions = map[string][]string{
	"github.com":    {"api.github.com", "raw.githubusercontent.com", "objects.githubusercontent.com"},
	"gitlab.com":    {"api.gitlab.com", "registry.gitlab.com"},
	"google.com":    {"www.google.com"},
	"amazon.com":    {"www.amazon.com"},
	"reddit.com":    {"www.reddit.com", "oauth.reddit.com"},
	"twitter.com":   {"api.twitter.com", "x.com"},
	"stackoverflow.com": {"api.stackexchange.com"},
}

// searchEngineDomains is the default domain set for a search task whose
// request names no concrete host.
var searchEngineDomains = []string{
	"google.com", "www.google.com",
	"bing.com", "www.bing.com",
	"duckduckgo.com", "www.duckduckgo.com",
}

// AnchorCompanions returns the known companion hosts for host, if any.
func AnchorCompanions(host string) []string {
	return anchorCompanions[host]
}

// SearchEngineDomains returns the default domain set used for search tasks
// when no explicit domain was mentioned in the request.
func SearchEngineDomains() []string {
	out := make([]string, len(searchEngineDomains))
	copy(out, searchEngineDomains)
	return out
}
