package policy

import "fmt"

// ParseError is returned when a site-authored policy (HTML meta tag or
// YAML document) is malformed. Decision values (Allowed/Effect/Reason)
// are never errors; this is strictly for ingestion failures.
type ParseError struct {
	Source string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("policy parse error (%s): %s", e.Source, e.Detail)
}
