package dag

import (
	"fmt"
	"time"

	"github.com/owlsentry/browserguard/pkg/intent"
)

// Template builds a task-type-specific DAG skeleton, instantiated against
// i: every node's domain constraint is stamped from i.AllowedDomains, the
// navigate target is i.AllowedDomains[0], and common failure branches
// (404, login-required, captcha, cookie banner, rate-limit, no-results)
// are pre-enumerated so the template never needs to observe a page to
// produce a complete plan.
func Template(i intent.Intent, now time.Time) DAG {
	switch i.TaskType {
	case intent.TaskSearch:
		return searchTemplate(i, now)
	case intent.TaskLogin:
		return loginTemplate(i, now)
	case intent.TaskPurchase:
		return purchaseTemplate(i, now)
	case intent.TaskMonitor:
		return monitorTemplate(i, now)
	case intent.TaskInteract:
		return interactTemplate(i, now)
	default:
		return extractTemplate(i, now)
	}
}

func homeURL(i intent.Intent) string {
	if len(i.AllowedDomains) == 0 {
		return ""
	}
	return "https://" + i.AllowedDomains[0]
}

func constraints(i intent.Intent) []Constraint {
	return []Constraint{DomainConstraint(i)}
}

// commonFailureBranches attaches the shared set of edges every template
// wires from a page-load node: cookie banner, login wall, captcha, 404,
// rate-limit, and default continuation.
func commonFailureBranches(d *DAG, from string, onOK string) {
	d.AddEdge(Edge{From: from, To: "cookie_banner", Condition: Condition{Type: ConditionElementPresent, Value: "#cookie-consent, .cookie-banner", Description: "cookie consent banner present"}, Priority: 1})
	d.AddEdge(Edge{From: from, To: "login_required", Condition: Condition{Type: ConditionElementPresent, Value: "input[type=password]", Description: "login wall present"}, Priority: 2})
	d.AddEdge(Edge{From: from, To: "captcha", Condition: Condition{Type: ConditionContentMatch, Value: "(?i)captcha|verify you are human", Description: "captcha challenge"}, Priority: 3})
	d.AddEdge(Edge{From: from, To: "not_found", Condition: Condition{Type: ConditionContentMatch, Value: "(?i)404|page not found", Description: "page not found"}, Priority: 4})
	d.AddEdge(Edge{From: from, To: "rate_limited", Condition: Condition{Type: ConditionContentMatch, Value: "(?i)too many requests|rate limit", Description: "rate limited"}, Priority: 5})
	d.AddEdge(Edge{From: from, To: onOK, Condition: Condition{Type: ConditionDefault}, Priority: 99})
}

// addTerminalErrorNodes installs the shared landing nodes every template's
// failure branches point at: terminal abort/error nodes for login wall,
// captcha, 404 and rate-limit, and a non-terminal cookie-banner dismissal
// that ends in a success terminal.
func addTerminalErrorNodes(d *DAG, i intent.Intent) {
	d.AddNode(Node{ID: "cookie_banner", Action: BrowserAction{Type: ActionClick, Target: "button.accept-cookies", Description: "dismiss cookie banner"}, Constraints: constraints(i), Terminal: false})
	d.AddEdge(Edge{From: "cookie_banner", To: "retry_after_cookies", Condition: Condition{Type: ConditionDefault}, Priority: 1})
	d.AddNode(Node{ID: "retry_after_cookies", Action: BrowserAction{Type: ActionScroll, Description: "resume after dismissing cookie banner"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalSuccess})

	d.AddNode(Node{ID: "login_required", Action: BrowserAction{Type: ActionExtract, Description: "page requires authentication"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalAbort})
	d.AddNode(Node{ID: "captcha", Action: BrowserAction{Type: ActionExtract, Description: "captcha challenge blocks automated access"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalAbort})
	d.AddNode(Node{ID: "not_found", Action: BrowserAction{Type: ActionExtract, Description: "target page not found"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalError})
	d.AddNode(Node{ID: "rate_limited", Action: BrowserAction{Type: ActionExtract, Description: "request rate limited by target"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalError})
}

func searchTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("search-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_home"

	d.AddNode(Node{ID: "navigate_home", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i), Description: "open search target"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_home", "type_query")

	d.AddNode(Node{ID: "type_query", Action: BrowserAction{Type: ActionType, Target: "input[type=search], input[name=q]", Value: i.Goal, Description: "type search query"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "type_query", To: "submit_search", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{ID: "submit_search", Action: BrowserAction{Type: ActionClick, Target: "button[type=submit]", Description: "submit search"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "submit_search", To: "no_results", Condition: Condition{Type: ConditionContentMatch, Value: "(?i)no results found", Description: "empty result set"}, Priority: 1})
	d.AddEdge(Edge{From: "submit_search", To: "extract_results", Condition: Condition{Type: ConditionDefault}, Priority: 99})

	d.AddNode(Node{ID: "no_results", Action: BrowserAction{Type: ActionExtract, Description: "no results for query"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalError})

	d.AddNode(Node{
		ID:                "extract_results",
		Action:            BrowserAction{Type: ActionExtract, Description: "extract search results"},
		ExtractionTargets: []ExtractionTarget{{Name: "results", Selector: ".result, .search-result"}},
		Constraints:       constraints(i),
		Terminal:          true,
		TerminalResult:    TerminalSuccess,
	})

	addTerminalErrorNodes(&d, i)
	return d
}

func extractTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("extract-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_target"

	d.AddNode(Node{ID: "navigate_target", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i), Description: "open extraction target"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_target", "extract_content")

	d.AddNode(Node{
		ID:                "extract_content",
		Action:            BrowserAction{Type: ActionExtract, Description: "extract page content"},
		ExtractionTargets: []ExtractionTarget{{Name: "content", Selector: "article, main, body"}},
		Constraints:       constraints(i),
		Terminal:          true,
		TerminalResult:    TerminalSuccess,
	})

	addTerminalErrorNodes(&d, i)
	return d
}

func monitorTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("monitor-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_target"

	d.AddNode(Node{ID: "navigate_target", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i), Description: "open monitored page"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_target", "capture_state")

	d.AddNode(Node{ID: "capture_state", Action: BrowserAction{Type: ActionScreenshot, Description: "capture current state"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "capture_state", To: "extract_watch", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{
		ID:                "extract_watch",
		Action:            BrowserAction{Type: ActionExtract, Description: "extract watched values"},
		ExtractionTargets: []ExtractionTarget{{Name: "watched", Selector: ".price, .status"}},
		Constraints:       constraints(i),
		Terminal:          true,
		TerminalResult:    TerminalSuccess,
	})

	addTerminalErrorNodes(&d, i)
	return d
}

func interactTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("interact-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_target"

	d.AddNode(Node{ID: "navigate_target", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i), Description: "open interaction target"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_target", "fill_form")

	d.AddNode(Node{ID: "fill_form", Action: BrowserAction{Type: ActionType, Target: "textarea, input[type=text]", Value: i.Goal, Description: "fill interaction form"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "fill_form", To: "submit_form", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{ID: "submit_form", Action: BrowserAction{Type: ActionClick, Target: "button[type=submit]", Description: "submit form"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "submit_form", To: "confirm_submission", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{
		ID:             "confirm_submission",
		Action:         BrowserAction{Type: ActionExtract, Description: "confirm submission accepted"},
		Constraints:    constraints(i),
		Terminal:       true,
		TerminalResult: TerminalSuccess,
	})

	addTerminalErrorNodes(&d, i)
	return d
}

func purchaseTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("purchase-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_product"

	d.AddNode(Node{ID: "navigate_product", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i), Description: "open product page"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_product", "add_to_cart")

	d.AddNode(Node{ID: "add_to_cart", Action: BrowserAction{Type: ActionClick, Target: "button.add-to-cart", Description: "add product to cart"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "add_to_cart", To: "review_order", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{
		ID:                "review_order",
		Action:            BrowserAction{Type: ActionExtract, Description: "review order before any payment step"},
		ExtractionTargets: []ExtractionTarget{{Name: "order_summary", Selector: ".order-summary, .cart-summary"}},
		Constraints:       constraints(i),
		Terminal:          true,
		TerminalResult:    TerminalSuccess,
	})

	addTerminalErrorNodes(&d, i)
	return d
}

func loginTemplate(i intent.Intent, now time.Time) DAG {
	d := New(fmt.Sprintf("login-%d", now.UnixNano()), i, now)
	d.EntryPoint = "navigate_login"

	d.AddNode(Node{ID: "navigate_login", Action: BrowserAction{Type: ActionNavigate, Target: homeURL(i) + "/login", Description: "open login page"}, Constraints: constraints(i)})
	commonFailureBranches(&d, "navigate_login", "type_username")

	d.AddNode(Node{ID: "type_username", Action: BrowserAction{Type: ActionType, Target: "input[name=username], input[type=email]", Description: "type username"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "type_username", To: "type_password", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{ID: "type_password", Action: BrowserAction{Type: ActionType, Target: "input[type=password]", Description: "type password"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "type_password", To: "submit_login", Condition: Condition{Type: ConditionDefault}, Priority: 1})

	d.AddNode(Node{ID: "submit_login", Action: BrowserAction{Type: ActionClick, Target: "button[type=submit]", Description: "submit login form"}, Constraints: constraints(i)})
	d.AddEdge(Edge{From: "submit_login", To: "login_failed", Condition: Condition{Type: ConditionContentMatch, Value: "(?i)invalid (username|password|credentials)", Description: "invalid credentials"}, Priority: 1})
	d.AddEdge(Edge{From: "submit_login", To: "login_succeeded", Condition: Condition{Type: ConditionDefault}, Priority: 99})

	d.AddNode(Node{ID: "login_failed", Action: BrowserAction{Type: ActionExtract, Description: "login rejected"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalError})
	d.AddNode(Node{ID: "login_succeeded", Action: BrowserAction{Type: ActionExtract, Description: "login accepted"}, Constraints: constraints(i), Terminal: true, TerminalResult: TerminalSuccess})

	addTerminalErrorNodes(&d, i)
	return d
}
