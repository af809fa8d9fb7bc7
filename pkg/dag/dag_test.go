package dag

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/owlsentry/browserguard/pkg/intent"
)

func fixedNow() time.Time {
	return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
}

func validSearchIntent(t *testing.T) intent.Intent {
	t.Helper()
	i, err := intent.Parse("Search for RTX 5090 prices on newegg.com")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return i
}

func TestTemplateProducesValidDAGForEveryTaskType(t *testing.T) {
	taskTypes := []intent.TaskType{
		intent.TaskSearch, intent.TaskExtract, intent.TaskMonitor,
		intent.TaskInteract, intent.TaskPurchase, intent.TaskLogin,
	}
	for _, tt := range taskTypes {
		i := intent.Intent{TaskType: tt, AllowedDomains: []string{"example.com"}, Goal: "do the thing"}
		d := Template(i, fixedNow())
		result := Validate(d)
		if !result.Valid {
			t.Errorf("template for %s produced an invalid DAG: %v", tt, result.Issues)
		}
	}
}

func TestSearchTemplateHasSuccessAndErrorTerminals(t *testing.T) {
	i := validSearchIntent(t)
	d := Template(i, fixedNow())

	var success, errorOrAbort int
	for _, n := range d.Nodes {
		if !n.Terminal {
			continue
		}
		switch n.TerminalResult {
		case TerminalSuccess:
			success++
		case TerminalError, TerminalAbort:
			errorOrAbort++
		}
	}
	if success < 1 {
		t.Errorf("expected at least one success terminal")
	}
	if errorOrAbort < 1 {
		t.Errorf("expected at least one error/abort terminal")
	}
}

func TestValidateDetectsMissingEntry(t *testing.T) {
	d := New("broken", intent.Intent{}, fixedNow())
	d.AddNode(Node{ID: "a", Terminal: true, TerminalResult: TerminalSuccess})
	d.EntryPoint = "missing"

	result := Validate(d)
	if result.Valid {
		t.Fatalf("expected invalid result for a missing entry point")
	}
}

func TestValidateDetectsUnreachableNode(t *testing.T) {
	d := New("broken", intent.Intent{}, fixedNow())
	d.AddNode(Node{ID: "entry", Terminal: true, TerminalResult: TerminalSuccess})
	d.AddNode(Node{ID: "orphan", Terminal: true, TerminalResult: TerminalSuccess})
	d.EntryPoint = "entry"

	result := Validate(d)
	if result.Valid {
		t.Fatalf("expected invalid result for an unreachable node")
	}
}

func TestValidateDetectsNonTerminalWithoutOutgoingEdges(t *testing.T) {
	d := New("broken", intent.Intent{}, fixedNow())
	d.AddNode(Node{ID: "entry", Terminal: false})
	d.EntryPoint = "entry"

	result := Validate(d)
	if result.Valid {
		t.Fatalf("expected invalid result for a non-terminal dead end")
	}
}

func TestDescribeListsTerminalResult(t *testing.T) {
	i := validSearchIntent(t)
	d := Template(i, fixedNow())
	out := Describe(d)
	if out == "" {
		t.Fatalf("expected non-empty description")
	}
	if !containsSubstring(out, "terminal:") {
		t.Errorf("expected description to annotate terminal nodes")
	}
}

// TestTemplateSurvivesJSONRoundTrip guards the "explain" subcommand's
// contract: a plan saved with "guardctl plan --out" must decode back into
// a DAG deeply equal to the one that was saved.
func TestTemplateSurvivesJSONRoundTrip(t *testing.T) {
	i := validSearchIntent(t)
	d := Template(i, fixedNow())

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var roundTripped DAG
	if err := json.Unmarshal(data, &roundTripped); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if diff := cmp.Diff(d, roundTripped); diff != "" {
		t.Errorf("DAG did not survive a JSON round trip (-want +got):\n%s", diff)
	}
}

func containsSubstring(haystack, needle string) bool {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return true
		}
	}
	return false
}
