package httpfilter

import (
	"encoding/json"
	"net/url"
)

// parseBody decodes a request body as JSON first, falling back to
// URL-form-encoding; an unparseable body yields an empty map so matching
// simply fails rather than panicking.
func parseBody(body string) map[string]any {
	var m map[string]any
	if err := json.Unmarshal([]byte(body), &m); err == nil {
		return m
	}

	if values, err := url.ParseQuery(body); err == nil && len(values) > 0 {
		m = make(map[string]any, len(values))
		for k, v := range values {
			if len(v) == 1 {
				m[k] = v[0]
			} else {
				anyV := make([]any, len(v))
				for i, s := range v {
					anyV[i] = s
				}
				m[k] = anyV
			}
		}
		return m
	}

	return map[string]any{}
}

// bodyContains reports whether every key in pattern is present in body
// with an equal value, recursing into nested objects.
func bodyContains(pattern map[string]any, body map[string]any) bool {
	for k, wantV := range pattern {
		gotV, ok := body[k]
		if !ok {
			return false
		}
		wantMap, wantIsMap := wantV.(map[string]any)
		if wantIsMap {
			gotMap, gotIsMap := gotV.(map[string]any)
			if !gotIsMap || !bodyContains(wantMap, gotMap) {
				return false
			}
			continue
		}
		if !deepEqual(wantV, gotV) {
			return false
		}
	}
	return true
}

func deepEqual(a, b any) bool {
	aj, aerr := json.Marshal(a)
	bj, berr := json.Marshal(b)
	if aerr != nil || berr != nil {
		return false
	}
	return string(aj) == string(bj)
}
