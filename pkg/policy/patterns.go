package policy

import "regexp"

// executableExtensionPattern matches download targets the guard never
// allows regardless of any other rule.
var executableExtensionPattern = regexp.MustCompile(`(?i)\.(exe|msi|dmg|pkg|app|bat|cmd|sh|ps1)$`)

// paymentDescriptionPattern matches an action's human description when it
// reads like a payment-submission attempt, e.g. injected by page content.
var paymentDescriptionPattern = regexp.MustCompile(`(?i)\b(pay now|place order|checkout|buy for \$|complete purchase|submit payment|confirm payment)\b`)

// maliciousDomainPattern matches obviously hostile or evasive hosts:
// phishing/malware subdomains and common URL shorteners used to hide a
// destination.
var maliciousDomainPattern = regexp.MustCompile(`(?i)(^|\.)(phishing|malware)\.|bit\.ly$|tinyurl\.com$|t\.co$|goo\.gl$|ow\.ly$`)

// IsExecutableTarget reports whether target names an executable download.
func IsExecutableTarget(target string) bool {
	return executableExtensionPattern.MatchString(target)
}

// IsPaymentDescription reports whether description matches a payment
// submission pattern.
func IsPaymentDescription(description string) bool {
	return paymentDescriptionPattern.MatchString(description)
}

// IsMaliciousDomain reports whether host matches a known-hostile pattern.
func IsMaliciousDomain(host string) bool {
	return maliciousDomainPattern.MatchString(host)
}
