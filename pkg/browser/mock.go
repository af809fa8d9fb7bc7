package browser

import (
	"context"
	"fmt"
)

// MockAdapter is a deterministic test double: pages are pre-registered by
// URL, clicks transition between pages via a selector->URL map, and typing
// records the last value typed into each selector without mutating page
// content — enough to drive DAG templates end to end without a real
// browser engine.
type MockAdapter struct {
	Pages       map[string]Observation
	ClickTarget map[string]string // selector -> destination URL
	current     Observation
	typed       map[string]string
	now         func() Observation
}

// NewMockAdapter builds a mock starting at startURL, which must be a key
// in pages.
func NewMockAdapter(pages map[string]Observation, clickTargets map[string]string, startURL string) (*MockAdapter, error) {
	start, ok := pages[startURL]
	if !ok {
		return nil, fmt.Errorf("browser: mock adapter has no page registered for start url %q", startURL)
	}
	return &MockAdapter{
		Pages:       pages,
		ClickTarget: clickTargets,
		current:     start,
		typed:       make(map[string]string),
	}, nil
}

func (m *MockAdapter) Navigate(ctx context.Context, url string) (Observation, error) {
	page, ok := m.Pages[url]
	if !ok {
		return Observation{}, fmt.Errorf("browser: mock adapter has no page registered for %q", url)
	}
	m.current = page
	return m.current, nil
}

func (m *MockAdapter) Click(ctx context.Context, selector string) (Observation, error) {
	if dest, ok := m.ClickTarget[selector]; ok {
		return m.Navigate(ctx, dest)
	}
	return m.current, nil
}

func (m *MockAdapter) Type(ctx context.Context, selector, text string) (Observation, error) {
	m.typed[selector] = text
	return m.current, nil
}

func (m *MockAdapter) Scroll(ctx context.Context, direction ScrollDirection, amount int) (Observation, error) {
	return m.current, nil
}

func (m *MockAdapter) Extract(ctx context.Context, selectors []string) (Observation, map[string]string, error) {
	data := make(map[string]string, len(selectors))
	for _, sel := range selectors {
		for _, el := range m.current.Elements {
			if elementMatchesSelector(el, sel) {
				data[sel] = el.Text
				break
			}
		}
	}
	return m.current, data, nil
}

func (m *MockAdapter) Screenshot(ctx context.Context) (Observation, []byte, error) {
	return m.current, []byte("mock-screenshot:" + m.current.URL), nil
}

func (m *MockAdapter) Wait(ctx context.Context, ms int) (Observation, error) {
	return m.current, nil
}

func (m *MockAdapter) GetState(ctx context.Context) (Observation, error) {
	return m.current, nil
}

// TypedValue returns what was last typed into selector, for test
// assertions.
func (m *MockAdapter) TypedValue(selector string) (string, bool) {
	v, ok := m.typed[selector]
	return v, ok
}

func elementMatchesSelector(el Element, sel string) bool {
	return el.Tag == sel || el.Role == sel || el.Label == sel
}
