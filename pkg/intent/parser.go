package intent

import (
	"regexp"
	"sort"
	"strings"
)

// Options tunes intent parsing beyond the free-text detectors.
type Options struct {
	// ExtraDomains is unioned into allowed_domains regardless of what the
	// detectors find in the request text.
	ExtraDomains []string
	// ExtraSensitivePatterns are additional caller-supplied sensitive-data
	// detectors, run alongside the built-in English set.
	ExtraSensitivePatterns []*regexp.Regexp
}

const goalMaxLen = 100

// Parse derives an Intent from free text using the default Options.
func Parse(text string) (Intent, error) {
	return ParseWithOptions(text, Options{})
}

// ParseWithOptions derives an Intent from free text, then validates it.
// A non-nil error is always an *InvalidError.
func ParseWithOptions(text string, opts Options) (Intent, error) {
	taskType := DetectTaskType(text)

	domains := collectDomains(text, opts.ExtraDomains, taskType)

	i := Intent{
		Goal:            truncateGoal(text),
		TaskType:        taskType,
		AllowedDomains:  domains,
		AllowedActions:  ActionsForTaskType(taskType),
		SensitiveData:   DetectSensitiveLabels(text, opts.ExtraSensitivePatterns),
		OriginalRequest: text,
	}
	i.MaxDepth, i.TimeoutMs = DefaultsForTaskType(taskType)

	if res := Validate(i); !res.Valid {
		return i, NewInvalidError(res.Issues)
	}
	return i, nil
}

func truncateGoal(text string) string {
	g := strings.TrimSpace(text)
	if len(g) <= goalMaxLen {
		return g
	}
	return strings.TrimSpace(g[:goalMaxLen]) + "..."
}

func collectDomains(text string, extra []string, taskType TaskType) []string {
	set := map[string]bool{}

	for _, m := range hostPattern.FindAllStringSubmatch(text, -1) {
		addHostWithWWW(set, strings.ToLower(m[1]))
	}
	for _, m := range bareHostPattern.FindAllStringSubmatch(text, -1) {
		host := strings.ToLower(m[1])
		if isKnownTLD(host) {
			addHostWithWWW(set, host)
		}
	}
	for _, d := range extra {
		addHostWithWWW(set, strings.ToLower(d))
	}

	// Anchor-host companions: for every host already present, add its
	// statically-known CDN/API companions.
	for host := range copySet(set) {
		for _, companion := range AnchorCompanions(stripWWW(host)) {
			addHostWithWWW(set, companion)
		}
	}

	if len(set) == 0 && taskType == TaskSearch {
		for _, d := range SearchEngineDomains() {
			set[d] = true
		}
	}

	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

func copySet(s map[string]bool) map[string]bool {
	cp := make(map[string]bool, len(s))
	for k := range s {
		cp[k] = true
	}
	return cp
}

func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// addHostWithWWW adds host and, if absent, its www. sibling (or the bare
// host if host already carries the www. prefix).
func addHostWithWWW(set map[string]bool, host string) {
	set[host] = true
	if strings.HasPrefix(host, "www.") {
		set[strings.TrimPrefix(host, "www.")] = true
	} else {
		set["www."+host] = true
	}
}
