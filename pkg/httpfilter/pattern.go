package httpfilter

import (
	"regexp"
	"strings"
)

var identPattern = regexp.MustCompile(`\{[A-Za-z_][A-Za-z0-9_]*\}`)

// compilePattern translates a sitemap URL pattern into an anchored regex.
// Per spec.md §4.3, metacharacters are escaped FIRST, then `{ident}` is
// replaced with `([^/]+)` and `*` with `.*` — the two passes are never
// combined, or escaping would mangle the placeholders.
func compilePattern(pattern string) (*regexp.Regexp, error) {
	escaped := regexp.QuoteMeta(pattern)

	// QuoteMeta escapes the braces and the asterisk; undo that over the
	// placeholders we intend to expand, operating on the escaped string.
	escaped = strings.ReplaceAll(escaped, `\{`, "{")
	escaped = strings.ReplaceAll(escaped, `\}`, "}")
	escaped = identPattern.ReplaceAllString(escaped, `([^/]+)`)
	escaped = strings.ReplaceAll(escaped, `\*`, `.*`)

	return regexp.Compile("^" + escaped + "$")
}
