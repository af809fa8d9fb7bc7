package refs

import (
	"fmt"

	"github.com/aymanbagabas/go-udiff"
)

// DiagnosticDiff renders a unified diff between two retained snapshots'
// FormatForLLM text. This is a diagnostic extension over the ref
// manager's validated-ref contract (SPEC_FULL.md "Ref Manager" module);
// it has no bearing on whether a ref is valid.
func (m *Manager) DiagnosticDiff(v1, v2 uint32) (string, error) {
	s1, ok := m.Snapshot(v1)
	if !ok {
		return "", fmt.Errorf("snapshot version %d is no longer retained", v1)
	}
	s2, ok := m.Snapshot(v2)
	if !ok {
		return "", fmt.Errorf("snapshot version %d is no longer retained", v2)
	}

	before := FormatForLLM(s1, 0)
	after := FormatForLLM(s2, 0)

	return udiff.Unified(
		fmt.Sprintf("snapshot-%d", v1),
		fmt.Sprintf("snapshot-%d", v2),
		before,
		after,
	), nil
}
