package refs

import "regexp"

// sensitiveActionPatterns are the built-in, English-only detectors for
// destructive or irreversible UI actions (spec.md §4.5). Injectable via
// IsSensitiveWithPatterns for locale extension (SPEC_FULL.md Open Question 4).
var sensitiveActionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bdelete\b`),
	regexp.MustCompile(`(?i)\bremove\b`),
	regexp.MustCompile(`(?i)\brefund\b`),
	regexp.MustCompile(`(?i)\bcancel (order|subscription|account)\b`),
	regexp.MustCompile(`(?i)\bpay now\b`),
	regexp.MustCompile(`(?i)\bpurchase\b`),
	regexp.MustCompile(`(?i)\bsubmit payment\b`),
	regexp.MustCompile(`(?i)\btransfer (funds|money)\b`),
	regexp.MustCompile(`(?i)\bsend money\b`),
	regexp.MustCompile(`(?i)\bconfirm (delete|removal|payment)\b`),
	regexp.MustCompile(`(?i)\bpermanent(ly)?\b`),
	regexp.MustCompile(`(?i)\birreversible\b`),
	regexp.MustCompile(`(?i)\bclose account\b`),
	regexp.MustCompile(`(?i)\brevoke\b`),
}

// IsSensitive checks the concatenation of an element's label, text,
// aria-label, and value against the built-in sensitive-action patterns.
func IsSensitive(e Element) (sensitive bool, reason string) {
	return IsSensitiveWithPatterns(e, nil)
}

// IsSensitiveWithPatterns is IsSensitive plus caller-supplied extra
// patterns, run after the built-in set.
func IsSensitiveWithPatterns(e Element, extra []*regexp.Regexp) (bool, string) {
	haystack := e.Label + " " + e.Text + " " + e.Attributes["aria-label"] + " " + e.Attributes["value"]

	for _, re := range sensitiveActionPatterns {
		if re.MatchString(haystack) {
			return true, re.String()
		}
	}
	for _, re := range extra {
		if re.MatchString(haystack) {
			return true, re.String()
		}
	}
	return false, ""
}

// FindSensitiveElements returns every element in the snapshot flagged as
// sensitive, along with the ref addressing it.
func FindSensitiveElements(snap Snapshot) map[uint32]string {
	out := make(map[uint32]string)
	for ref, el := range snap.Elements {
		if sensitive, reason := IsSensitive(el); sensitive {
			out[ref] = reason
		}
	}
	return out
}
