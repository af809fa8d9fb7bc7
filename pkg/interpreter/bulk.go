package interpreter

import (
	"encoding/json"
	"fmt"

	"github.com/owlsentry/browserguard/pkg/refs"
)

// BulkAction is one entry in a batched sub-protocol request: a versioned
// ref plus the operation-specific fields parse_bulk accepts.
type BulkAction struct {
	Type         string
	Ref          string
	Text         string
	ShouldClear  bool
	Values       []string
	DoubleClick  bool
	RightClick   bool
}

// CanBatchResult is the outcome of can_batch.
type CanBatchResult struct {
	OK     bool
	Reason string
}

// CanBatch reports whether actions may be grouped into a single adapter
// round trip: no navigate present, every ref shares one snapshot version,
// and no individual action declares a conflicting single-action
// constraint (double-click and right-click actions run alone).
func CanBatch(actions []BulkAction) CanBatchResult {
	if len(actions) == 0 {
		return CanBatchResult{OK: true}
	}

	var version uint32
	haveVersion := false

	for _, a := range actions {
		if a.Type == "navigate" {
			return CanBatchResult{OK: false, Reason: "navigate cannot be batched"}
		}
		if a.DoubleClick || a.RightClick {
			if len(actions) > 1 {
				return CanBatchResult{OK: false, Reason: "double-click/right-click must run alone"}
			}
		}
		v, _, err := refs.ParseRef(a.Ref)
		if err != nil {
			return CanBatchResult{OK: false, Reason: fmt.Sprintf("invalid ref %q: %v", a.Ref, err)}
		}
		if !haveVersion {
			version, haveVersion = v, true
		} else if v != version {
			return CanBatchResult{OK: false, Reason: "actions reference more than one snapshot version"}
		}
	}

	return CanBatchResult{OK: true}
}

// Optimize greedily groups actions into batches, starting a new batch
// whenever adding the next action would violate CanBatch — in particular,
// always cutting at a navigate action.
func Optimize(actions []BulkAction) [][]BulkAction {
	var batches [][]BulkAction
	var current []BulkAction

	for _, a := range actions {
		candidate := append(append([]BulkAction(nil), current...), a)
		if CanBatch(candidate).OK {
			current = candidate
			continue
		}
		if len(current) > 0 {
			batches = append(batches, current)
		}
		current = []BulkAction{a}
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

type wireBulkAction struct {
	Type        string   `json:"type"`
	Ref         string   `json:"ref"`
	Text        string   `json:"text,omitempty"`
	ShouldClear bool     `json:"shouldClear,omitempty"`
	Values      []string `json:"values,omitempty"`
	DoubleClick bool     `json:"doubleClick,omitempty"`
	RightClick  bool     `json:"rightClick,omitempty"`
}

type wireBulkRequestA struct {
	BulkActions []wireBulkAction `json:"bulkActions"`
}

type wireBulkRequestB struct {
	Actions []wireBulkAction `json:"actions"`
}

// ParseBulk accepts either {"bulkActions":[...]} or {"actions":[...]};
// every entry must carry a type and a syntactically valid versioned ref.
func ParseBulk(raw []byte) ([]BulkAction, error) {
	var a wireBulkRequestA
	if err := json.Unmarshal(raw, &a); err == nil && len(a.BulkActions) > 0 {
		return toBulkActions(a.BulkActions)
	}

	var b wireBulkRequestB
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("interpreter: parse_bulk: %w", err)
	}
	if len(b.Actions) == 0 {
		return nil, fmt.Errorf("interpreter: parse_bulk: no actions present")
	}
	return toBulkActions(b.Actions)
}

func toBulkActions(wire []wireBulkAction) ([]BulkAction, error) {
	out := make([]BulkAction, 0, len(wire))
	for i, w := range wire {
		if w.Type == "" {
			return nil, fmt.Errorf("interpreter: parse_bulk: entry %d missing type", i)
		}
		if _, _, err := refs.ParseRef(w.Ref); err != nil {
			return nil, fmt.Errorf("interpreter: parse_bulk: entry %d: %w", i, err)
		}
		out = append(out, BulkAction{
			Type: w.Type, Ref: w.Ref, Text: w.Text, ShouldClear: w.ShouldClear,
			Values: w.Values, DoubleClick: w.DoubleClick, RightClick: w.RightClick,
		})
	}
	return out, nil
}

// EstimateGains is the advisory calibration table from spec.md §4.6.
type EstimateGains struct {
	AvgBatchSize           float64
	EstimatedTimeSavedMs   int64
	EstimatedTokensSaved   int64
}

const (
	sequentialMsPerAction = 6400
	bulkMsPerBatch        = 10500
	sequentialTokensPerCall = 6800
	bulkTokensPerCall       = 8000
)

// EstimateGainsFor computes advisory savings of running nActions
// sequentially versus in nBatches bulk round trips.
func EstimateGainsFor(nActions, nBatches int) EstimateGains {
	if nBatches == 0 {
		return EstimateGains{}
	}
	sequentialTime := int64(nActions) * sequentialMsPerAction
	bulkTime := int64(nBatches) * bulkMsPerBatch
	sequentialTokens := int64(nActions) * sequentialTokensPerCall
	bulkTokens := int64(nBatches) * bulkTokensPerCall

	return EstimateGains{
		AvgBatchSize:         float64(nActions) / float64(nBatches),
		EstimatedTimeSavedMs: sequentialTime - bulkTime,
		EstimatedTokensSaved: sequentialTokens - bulkTokens,
	}
}
