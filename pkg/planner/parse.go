package planner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/owlsentry/browserguard/pkg/dag"
	"github.com/owlsentry/browserguard/pkg/intent"
)

type wireAction struct {
	Type        string `json:"type"`
	Target      string `json:"target"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type wireCondition struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type wireOutcome struct {
	Condition wireCondition `json:"condition"`
	Required  bool          `json:"required"`
}

type wireExtractionTarget struct {
	Name     string `json:"name"`
	Selector string `json:"selector"`
}

type wireNode struct {
	ID                string                 `json:"id"`
	Action            wireAction             `json:"action"`
	ExpectedOutcomes  []wireOutcome          `json:"expectedOutcomes"`
	ExtractionTargets []wireExtractionTarget `json:"extractionTargets"`
	IsTerminal        bool                   `json:"isTerminal"`
	TerminalResult    string                 `json:"terminalResult"`
}

type wireEdge struct {
	From      string        `json:"from"`
	To        string        `json:"to"`
	Condition wireCondition `json:"condition"`
	Value     string        `json:"value"`
	Priority  int           `json:"priority"`
}

type wireDAG struct {
	Nodes      []wireNode `json:"nodes"`
	Edges      []wireEdge `json:"edges"`
	EntryPoint string     `json:"entryPoint"`
}

// ParseDAG decodes jsonText (already schema-pre-validated) into a dag.DAG,
// defaulting missing constraint/outcome arrays to empty and falling back
// to the first node's id when entryPoint is absent.
func ParseDAG(jsonText string, i intent.Intent, createdAt time.Time) (dag.DAG, error) {
	raw := extractJSON(jsonText)

	var w wireDAG
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return dag.DAG{}, fmt.Errorf("planner: decode llm dag json: %w", err)
	}
	if len(w.Nodes) == 0 {
		return dag.DAG{}, fmt.Errorf("planner: llm dag has no nodes")
	}

	d := dag.New(fmt.Sprintf("llm-%s-%d", i.TaskType, createdAt.UnixNano()), i, createdAt)

	for _, wn := range w.Nodes {
		n := dag.Node{
			ID: wn.ID,
			Action: dag.BrowserAction{
				Type:        dag.BrowserActionType(wn.Action.Type),
				Target:      wn.Action.Target,
				Value:       wn.Action.Value,
				Description: wn.Action.Description,
			},
			Terminal: wn.IsTerminal,
		}
		if wn.IsTerminal {
			n.TerminalResult = dag.TerminalResult(wn.TerminalResult)
		}
		for _, wo := range wn.ExpectedOutcomes {
			n.ExpectedOutcomes = append(n.ExpectedOutcomes, dag.ExpectedOutcome{
				Condition: dag.Condition{
					Type:        dag.ConditionType(wo.Condition.Type),
					Value:       wo.Condition.Value,
					Description: wo.Condition.Description,
				},
				Required: wo.Required,
			})
		}
		for _, wt := range wn.ExtractionTargets {
			n.ExtractionTargets = append(n.ExtractionTargets, dag.ExtractionTarget{Name: wt.Name, Selector: wt.Selector})
		}
		d.AddNode(n)
	}

	for _, we := range w.Edges {
		d.AddEdge(dag.Edge{
			From: we.From,
			To:   we.To,
			Condition: dag.Condition{
				Type:        dag.ConditionType(we.Condition.Type),
				Value:       we.Condition.Value,
				Description: we.Condition.Description,
			},
			Priority: we.Priority,
		})
	}

	d.EntryPoint = w.EntryPoint
	if d.EntryPoint == "" {
		d.EntryPoint = w.Nodes[0].ID
	}

	return d, nil
}
