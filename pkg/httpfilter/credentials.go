package httpfilter

import "net/http"

// StripCredentials removes session-identifying headers from a request bound
// for a host the filter only trusts with the public surface (allow_public
// decisions, or any decision whose StripCookies flag is set). It returns a
// new header map; the input is never mutated.
func StripCredentials(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		switch http.CanonicalHeaderKey(k) {
		case "Authorization", "Cookie", "X-Api-Key", "X-Auth-Token":
			continue
		default:
			out[k] = v
		}
	}
	return out
}
