package interpreter

import (
	"regexp"
	"strings"

	"github.com/owlsentry/browserguard/pkg/browser"
)

var bracketSelectorPattern = regexp.MustCompile(`^\[([a-zA-Z0-9_-]+)(=|\*=|\^=|\$=)"?([^"\]]*)"?\]$`)

// matchElement reports whether el satisfies sel, a small selector grammar
// covering bare tags, ".class", "#id", and bracket attribute selectors
// with the = *= ^= $= operators. A comma-separated selector list matches
// if any member matches (as in CSS's selector-list semantics).
func matchElement(el browser.Element, sel string) bool {
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if matchSingleSelector(el, part) {
			return true
		}
	}
	return false
}

func matchSingleSelector(el browser.Element, sel string) bool {
	switch {
	case strings.HasPrefix(sel, "#"):
		return el.Attributes["id"] == strings.TrimPrefix(sel, "#")
	case strings.HasPrefix(sel, "."):
		return hasClass(el, strings.TrimPrefix(sel, "."))
	case strings.HasPrefix(sel, "["):
		return matchBracketSelector(el, sel)
	default:
		return strings.EqualFold(el.Tag, sel)
	}
}

func hasClass(el browser.Element, class string) bool {
	classAttr := el.Attributes["class"]
	for _, c := range strings.Fields(classAttr) {
		if c == class {
			return true
		}
	}
	return false
}

func matchBracketSelector(el browser.Element, sel string) bool {
	m := bracketSelectorPattern.FindStringSubmatch(sel)
	if m == nil {
		return false
	}
	attr, op, want := m[1], m[2], m[3]
	got, ok := el.Attributes[attr]
	if !ok {
		return false
	}
	switch op {
	case "=":
		return got == want
	case "*=":
		return strings.Contains(got, want)
	case "^=":
		return strings.HasPrefix(got, want)
	case "$=":
		return strings.HasSuffix(got, want)
	default:
		return false
	}
}

// anyElementMatches reports whether any element in els satisfies sel.
func anyElementMatches(els []browser.Element, sel string) bool {
	for _, el := range els {
		if matchElement(el, sel) {
			return true
		}
	}
	return false
}
