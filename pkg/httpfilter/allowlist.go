package httpfilter

import (
	"github.com/owlsentry/browserguard/pkg/intent"
)

// PredictAllowlistFromIntent expands an Intent's allowed domains with their
// anchor companions (the CDN/API/asset hosts a page legitimately pulls from),
// producing the set a predicted allowlist should admit before a single
// request has been observed.
func PredictAllowlistFromIntent(i intent.Intent) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(d string) {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	for _, d := range i.AllowedDomains {
		add(d)
		for _, companion := range intent.AnchorCompanions(d) {
			add(companion)
		}
	}
	return out
}

// FilterFromIntent builds a Filter seeded with a predicted allowlist derived
// from i, and a default per-domain policy: allow_public for extract tasks
// (which should never carry session credentials to third-party hosts) and
// allow otherwise (spec.md §4.3).
func FilterFromIntent(i intent.Intent) *Filter {
	f := New()
	f.SetPredictedAllowlist(PredictAllowlistFromIntent(i), true)

	def := DefaultAllow
	if i.TaskType == intent.TaskExtract {
		def = DefaultAllowPublic
	}

	for _, d := range i.AllowedDomains {
		f.LoadPolicy(SitePolicy{
			Name:           d,
			Default:        def,
			Domains:        []string{d},
			AllowedDomains: intent.AnchorCompanions(d),
		})
	}
	return f
}
