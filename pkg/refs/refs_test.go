package refs

import "testing"

func TestCreateSnapshotAssignsSequentialRefs(t *testing.T) {
	m := NewManager(0)
	snap := m.CreateSnapshot("https://example.com", []Element{
		{Tag: "button", Label: "Cancel Order"},
		{Tag: "a", Label: "Home"},
	})
	if snap.Version != 1 {
		t.Fatalf("expected version 1, got %d", snap.Version)
	}
	if _, ok := snap.Elements[1]; !ok {
		t.Fatalf("expected ref 1 present")
	}
	if _, ok := snap.Elements[2]; !ok {
		t.Fatalf("expected ref 2 present")
	}
}

func TestValidateRefStaleAfterNewSnapshot(t *testing.T) {
	m := NewManager(0)
	m.CreateSnapshot("https://example.com", []Element{{Tag: "button", Label: "Cancel Order"}})
	m.CreateSnapshot("https://example.com", []Element{{Tag: "button", Label: "Cancel Order"}})

	_, err := m.ValidateRef("1:1")
	if err == nil {
		t.Fatalf("expected stale ref error")
	}
	staleErr, ok := err.(*StaleError)
	if !ok {
		t.Fatalf("expected *StaleError, got %T", err)
	}
	if staleErr.RequestedVersion != 1 || staleErr.CurrentVersion != 2 {
		t.Errorf("unexpected stale error contents: %+v", staleErr)
	}
}

func TestValidateRefCurrentVersionValid(t *testing.T) {
	m := NewManager(0)
	m.CreateSnapshot("https://example.com", []Element{{Tag: "button", Label: "Cancel Order"}})

	el, err := m.ValidateRef("1:1")
	if err != nil {
		t.Fatalf("expected 1:1 to validate, got %v", err)
	}
	if el.Label != "Cancel Order" {
		t.Errorf("unexpected element: %+v", el)
	}
}

func TestIdenticalAttributesYieldEqualHashes(t *testing.T) {
	m := NewManager(0)
	e := Element{Tag: "button", Role: "button", Label: "x", Text: "Submit",
		Attributes: map[string]string{"aria-label": "submit", "name": "n", "id": "i"}}

	s1 := m.CreateSnapshot("https://example.com/a", []Element{e})
	s2 := m.CreateSnapshot("https://example.com/b", []Element{e})

	if s1.hashes[1] != s2.hashes[1] {
		t.Errorf("expected equal identity hashes for identical stable attributes")
	}
}

func TestHasElementChangedDetectsMutation(t *testing.T) {
	m := NewManager(0)
	m.CreateSnapshot("https://example.com", []Element{{Tag: "button", Label: "Cancel Order", Text: "Cancel Order"}})
	snap2 := m.CreateSnapshot("https://example.com", []Element{{Tag: "button", Label: "Cancel Order", Text: "Cancel Subscription"}})

	changed, err := m.HasElementChanged("1:1", snap2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !changed {
		t.Errorf("expected element text change to be detected")
	}
}

func TestHistoryEvictsOldestSnapshot(t *testing.T) {
	m := NewManager(2)
	m.CreateSnapshot("https://example.com/1", nil)
	m.CreateSnapshot("https://example.com/2", nil)
	m.CreateSnapshot("https://example.com/3", nil)

	if _, ok := m.Snapshot(1); ok {
		t.Errorf("expected version 1 to be evicted")
	}
	if _, ok := m.Snapshot(3); !ok {
		t.Errorf("expected version 3 to be retained")
	}
}

func TestFindSensitiveElements(t *testing.T) {
	snap := Snapshot{Elements: map[uint32]Element{
		1: {Label: "Cancel Order"},
		2: {Label: "Home"},
	}}
	found := FindSensitiveElements(snap)
	if _, ok := found[1]; !ok {
		t.Errorf("expected ref 1 (Cancel Order) to be flagged sensitive")
	}
	if _, ok := found[2]; ok {
		t.Errorf("did not expect ref 2 (Home) to be flagged sensitive")
	}
}
