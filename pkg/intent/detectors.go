package intent

import "regexp"

// taskPatterns is the ordered first-match detector list for task_type.
// Order matters: more specific intents (login, purchase) are checked
// before the generic fallback.
var taskPatterns = []struct {
	taskType TaskType
	re       *regexp.Regexp
}{
	{TaskLogin, regexp.MustCompile(`(?i)\b(log\s?in|sign\s?in|authenticate)\b`)},
	{TaskPurchase, regexp.MustCompile(`(?i)\b(buy|purchase|checkout|order|add to cart)\b`)},
	{TaskMonitor, regexp.MustCompile(`(?i)\b(monitor|watch|track|alert me|notify me)\b`)},
	{TaskInteract, regexp.MustCompile(`(?i)\b(fill|submit|click|post a comment|reply to|interact)\b`)},
	{TaskSearch, regexp.MustCompile(`(?i)\b(search|find|look up|look for|prices?)\b`)},
}

// DetectTaskType returns the first task type whose pattern matches text,
// defaulting to TaskExtract.
func DetectTaskType(text string) TaskType {
	for _, p := range taskPatterns {
		if p.re.MatchString(text) {
			return p.taskType
		}
	}
	return TaskExtract
}

// actionsByTaskType is the §6 task-type action alphabet table.
var actionsByTaskType = map[TaskType][]Action{
	TaskSearch:   {ActionNavigate, ActionType, ActionClick, ActionScroll, ActionExtract},
	TaskExtract:  {ActionNavigate, ActionScroll, ActionExtract, ActionScreenshot},
	TaskMonitor:  {ActionNavigate, ActionScroll, ActionExtract, ActionScreenshot, ActionWait},
	TaskInteract: {ActionNavigate, ActionClick, ActionScroll, ActionType, ActionExtract},
	TaskPurchase: {ActionNavigate, ActionClick, ActionScroll, ActionType, ActionExtract},
	TaskLogin:    {ActionNavigate, ActionClick, ActionType},
}

// ActionsForTaskType returns the allowed action alphabet for t.
func ActionsForTaskType(t TaskType) []Action {
	out := actionsByTaskType[t]
	cp := make([]Action, len(out))
	copy(cp, out)
	return cp
}

type taskDefaults struct {
	maxDepth  int
	timeoutMs int
}

// defaultsByTaskType is the §6 defaults table: (depth, timeout_ms).
var defaultsByTaskType = map[TaskType]taskDefaults{
	TaskSearch:   {3, 30_000},
	TaskExtract:  {5, 60_000},
	TaskMonitor:  {2, 120_000},
	TaskInteract: {5, 60_000},
	TaskPurchase: {10, 180_000},
	TaskLogin:    {3, 30_000},
}

// DefaultsForTaskType returns the default (max_depth, timeout_ms) for t.
func DefaultsForTaskType(t TaskType) (maxDepth, timeoutMs int) {
	d := defaultsByTaskType[t]
	return d.maxDepth, d.timeoutMs
}

// sensitiveDetectors maps a label to the regex used to spot it in free
// text. English-only by design (see SPEC_FULL.md Open Question 4);
// callers may supply additional patterns via Options.ExtraSensitivePatterns.
var sensitiveDetectors = []struct {
	label SensitiveLabel
	re    *regexp.Regexp
}{
	{LabelSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{LabelCreditCard, regexp.MustCompile(`\b(?:\d[ -]?){16}\b`)},
	{LabelEmail, regexp.MustCompile(`\b[\w.+-]+@[\w-]+\.[a-zA-Z]{2,}\b`)},
	{LabelPassword, regexp.MustCompile(`(?i)\bpassword\b`)},
	{LabelAPIKey, regexp.MustCompile(`(?i)\bapi[_ -]?key\b`)},
	{LabelSecret, regexp.MustCompile(`(?i)\bsecret\b`)},
}

// DetectSensitiveLabels returns every sensitive-data label whose pattern
// matches text, from the built-in set plus any extras supplied.
func DetectSensitiveLabels(text string, extras []*regexp.Regexp) []SensitiveLabel {
	var out []SensitiveLabel
	for _, d := range sensitiveDetectors {
		if d.re.MatchString(text) {
			out = append(out, d.label)
		}
	}
	for _, re := range extras {
		if re.MatchString(text) {
			out = append(out, SensitiveLabel(re.String()))
		}
	}
	return out
}

// hostPattern matches explicit http(s):// URLs, capturing the host.
var hostPattern = regexp.MustCompile(`(?i)https?://([a-z0-9.-]+\.[a-z]{2,})`)

// knownTLDs bounds the bare "name.tld" detector to a fixed, practical list
// rather than matching every dotted token in free text.
var knownTLDs = []string{
	"com", "org", "net", "io", "dev", "co", "app", "gov", "edu", "ai", "me",
}

var bareHostPattern = regexp.MustCompile(`(?i)\b([a-z0-9][a-z0-9-]*\.[a-z0-9][a-z0-9-]*(?:\.[a-z]{2,})?)\b`)

func isKnownTLD(host string) bool {
	for _, tld := range knownTLDs {
		if hasSuffixDot(host, tld) {
			return true
		}
	}
	return false
}

func hasSuffixDot(host, tld string) bool {
	suffix := "." + tld
	if len(host) <= len(suffix) {
		return false
	}
	return host[len(host)-len(suffix):] == suffix
}
