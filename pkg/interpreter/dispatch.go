package interpreter

import (
	"context"
	"fmt"

	"github.com/owlsentry/browserguard/pkg/browser"
	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/intent"
)

// toIntentAction maps a dag.BrowserActionType onto the matching
// intent.Action — the two enums share the same alphabet by construction.
func toIntentAction(t dag.BrowserActionType) intent.Action {
	return intent.Action(t)
}

// executeAction performs node action against adapter, returning the
// resulting observation and any extracted key/value data.
func executeAction(ctx context.Context, adapter browser.Adapter, action dag.BrowserAction) (browser.Observation, map[string]string, error) {
	switch action.Type {
	case dag.ActionNavigate:
		obs, err := adapter.Navigate(ctx, action.Target)
		return obs, nil, err
	case dag.ActionClick:
		obs, err := adapter.Click(ctx, action.Target)
		return obs, nil, err
	case dag.ActionType:
		obs, err := adapter.Type(ctx, action.Target, action.Value)
		return obs, nil, err
	case dag.ActionScroll:
		obs, err := adapter.Scroll(ctx, browser.ScrollDown, 0)
		return obs, nil, err
	case dag.ActionExtract:
		obs, data, err := adapter.Extract(ctx, []string{action.Target})
		return obs, data, err
	case dag.ActionScreenshot:
		obs, _, err := adapter.Screenshot(ctx)
		return obs, nil, err
	case dag.ActionWait:
		obs, err := adapter.Wait(ctx, 0)
		return obs, nil, err
	default:
		return browser.Observation{}, nil, fmt.Errorf("interpreter: unknown action type %q", action.Type)
	}
}
