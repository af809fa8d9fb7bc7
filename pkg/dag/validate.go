package dag

import "fmt"

// ValidationResult is the validator's output shape: valid plus the
// specific issues found, so a caller can report all of them at once.
type ValidationResult struct {
	Valid  bool
	Issues []string
}

// Validate enforces every invariant in §3: the entry exists, every edge
// endpoint resolves, every non-terminal node has ≥1 outgoing edge, at
// least one terminal exists, and every node is reachable from entry.
func Validate(d DAG) ValidationResult {
	var issues []string

	if _, ok := d.Nodes[d.EntryPoint]; !ok {
		issues = append(issues, fmt.Sprintf("entry point %q is not a node in the graph", d.EntryPoint))
	}

	outgoing := make(map[string]int, len(d.Nodes))
	for _, e := range d.Edges {
		if _, ok := d.Nodes[e.From]; !ok {
			issues = append(issues, fmt.Sprintf("edge references unknown source node %q", e.From))
		}
		if _, ok := d.Nodes[e.To]; !ok {
			issues = append(issues, fmt.Sprintf("edge references unknown target node %q", e.To))
		}
		outgoing[e.From]++
	}

	hasTerminal := false
	for id, n := range d.Nodes {
		if n.Terminal {
			hasTerminal = true
			continue
		}
		if outgoing[id] == 0 {
			issues = append(issues, fmt.Sprintf("non-terminal node %q has no outgoing edges", id))
		}
	}
	if !hasTerminal {
		issues = append(issues, "no terminal node exists")
	}

	if _, ok := d.Nodes[d.EntryPoint]; ok {
		unreached := reachabilityGaps(d)
		for _, id := range unreached {
			issues = append(issues, fmt.Sprintf("node %q is unreachable from entry", id))
		}
	}

	return ValidationResult{Valid: len(issues) == 0, Issues: issues}
}

// reachabilityGaps returns, in deterministic node-id order, every node id
// not reachable from the entry point via a forward BFS closure.
func reachabilityGaps(d DAG) []string {
	visited := map[string]bool{d.EntryPoint: true}
	queue := []string{d.EntryPoint}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range d.Edges {
			if e.From == cur && !visited[e.To] {
				visited[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	var gaps []string
	for id := range d.Nodes {
		if !visited[id] {
			gaps = append(gaps, id)
		}
	}
	for i := 1; i < len(gaps); i++ {
		for j := i; j > 0 && gaps[j-1] > gaps[j]; j-- {
			gaps[j-1], gaps[j] = gaps[j], gaps[j-1]
		}
	}
	return gaps
}
