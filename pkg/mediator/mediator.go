// Package mediator is the thin shim the host agent calls before invoking
// any tool: it intercepts web_fetch and browser tool calls, screening
// web_fetch through the HTTP filter and letting browser calls through
// (the secure interpreter screens those), and passes everything else
// through untouched.
package mediator

import (
	"strings"

	"github.com/owlsentry/browserguard/pkg/httpfilter"
)

// Mode is the mediator's closed operating-mode alphabet, compared
// case-insensitively throughout (see DESIGN.md Open Question resolution 1).
type Mode string

const (
	ModeBlock Mode = "block"
	ModeWarn  Mode = "warn"
)

func (m Mode) isBlock() bool { return strings.EqualFold(string(m), string(ModeBlock)) }

const (
	toolWebFetch = "web_fetch"
	toolBrowser  = "browser"
)

// WebFetchParams is the shape of a web_fetch tool call's parameters.
type WebFetchParams struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    string
}

// ToolCall is the intercepted shape: tool name, its parameters, and the
// context the host supplies (the originating user request, for audit).
type ToolCall struct {
	Tool        string
	WebFetch    *WebFetchParams
	UserRequest string
}

// TransformedCall is what an allowed-but-rewritten call becomes: the same
// tool, with transformed params (credentials stripped, for instance).
type TransformedCall struct {
	Tool     string
	WebFetch *WebFetchParams
}

// Decision is before_tool_call's return shape.
type Decision struct {
	Allow     bool
	Reason    string
	Transform *TransformedCall
}

// Mediator intercepts web_fetch/browser tool calls on behalf of the host
// agent, consulting an HTTP filter for web_fetch and passing browser tool
// calls straight through (the secure interpreter screens those directly).
type Mediator struct {
	Filter      *httpfilter.Filter
	Mode        Mode
	CurrentHost string
}

// New builds a mediator operating in mode, screening web_fetch calls
// through filter.
func New(filter *httpfilter.Filter, mode Mode) *Mediator {
	return &Mediator{Filter: filter, Mode: mode}
}

// BeforeToolCall is the tool-call mediation contract: it intercepts
// web_fetch and browser tool calls, letting every other tool name pass
// through unexamined.
func (m *Mediator) BeforeToolCall(call ToolCall) Decision {
	switch call.Tool {
	case toolWebFetch:
		return m.screenWebFetch(call)
	case toolBrowser:
		return Decision{Allow: true}
	default:
		return Decision{Allow: true}
	}
}

func (m *Mediator) screenWebFetch(call ToolCall) Decision {
	if call.WebFetch == nil {
		return Decision{Allow: false, Reason: "Browser Guard: malformed web_fetch call"}
	}
	wf := call.WebFetch
	method := wf.Method
	if method == "" {
		method = "GET"
	}

	decision := m.Filter.Filter(httpfilter.HttpRequest{
		URL:     wf.URL,
		Method:  method,
		Headers: wf.Headers,
		Body:    wf.Body,
	}, m.CurrentHost)

	if !decision.Allowed {
		if !m.Mode.isBlock() {
			return Decision{Allow: true}
		}
		return Decision{Allow: false, Reason: "Browser Guard: " + decision.Reason}
	}

	if !decision.StripCookies {
		return Decision{Allow: true}
	}

	stripped := httpfilter.StripCredentials(wf.Headers)
	return Decision{
		Allow: true,
		Transform: &TransformedCall{
			Tool:     toolWebFetch,
			WebFetch: &WebFetchParams{URL: wf.URL, Method: method, Headers: stripped, Body: wf.Body},
		},
	}
}
