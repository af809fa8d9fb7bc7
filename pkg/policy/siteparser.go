package policy

import (
	"io"
	"regexp"
	"strings"

	"github.com/owlsentry/browserguard/pkg/intent"
	"gopkg.in/yaml.v3"
)

// metaTagPattern extracts the content of an
// <meta name="ai-agent-policy" content="..."> tag, accepting single or
// double quotes around either attribute.
var metaTagPattern = regexp.MustCompile(`(?is)<meta\s+name=["']ai-agent-policy["']\s+content=["']([^"']*)["']\s*/?>`)

const (
	directiveNoFormSubmit = "no-form-submit"
	directiveReadOnly     = "read-only"
	directiveNoAIAgents   = "no-ai-agents"
)

// ParseMetaPolicy extracts directives from an HTML document's
// <ai-agent-policy> meta tag and returns the corresponding site rules.
func ParseMetaPolicy(html string) ([]Rule, error) {
	m := metaTagPattern.FindStringSubmatch(html)
	if m == nil {
		return nil, nil
	}
	directives := splitDirectives(m[1])
	return rulesForDirectives(directives)
}

// ParseYAMLPolicy reads an alternate, YAML-authored site policy ingress,
// e.g. served at /.well-known/ai-agent-policy.yaml.
func ParseYAMLPolicy(r io.Reader) ([]Rule, error) {
	var doc struct {
		Directives []string `yaml:"directives"`
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &ParseError{Source: "yaml", Detail: err.Error()}
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Source: "yaml", Detail: err.Error()}
	}
	return rulesForDirectives(doc.Directives)
}

func splitDirectives(content string) []string {
	parts := strings.Split(content, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func rulesForDirectives(directives []string) ([]Rule, error) {
	var rules []Rule
	for _, d := range directives {
		switch d {
		case directiveNoFormSubmit:
			rules = append(rules, Rule{
				ID: "site-no-form-submit", Source: SourceSite,
				Scope: Scope{Actions: []intent.Action{intent.ActionClick}},
				Effect: EffectDeny, Priority: 1,
				Reason: "site policy forbids form submission",
			})
		case directiveReadOnly:
			rules = append(rules, Rule{
				ID: "site-read-only", Source: SourceSite,
				Scope: Scope{Actions: []intent.Action{intent.ActionClick, intent.ActionType}},
				Effect: EffectDeny, Priority: 1,
				Reason: "site policy declares read-only access",
			})
		case directiveNoAIAgents:
			rules = append(rules, Rule{
				ID: "site-no-ai-agents", Source: SourceSite,
				Scope: Scope{}, Effect: EffectDeny, Priority: 1,
				Reason: "site policy forbids AI agent access entirely",
			})
		default:
			return nil, &ParseError{Source: "meta", Detail: "unrecognized directive: " + d}
		}
	}
	return rules, nil
}
