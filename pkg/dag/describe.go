package dag

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Describe produces a human-readable BFS walk through d's nodes, starting
// at the entry point: each step lists its action, outgoing branches with
// their condition descriptions, and terminal nodes are annotated with
// their terminal result.
func Describe(d DAG) string {
	var sb strings.Builder

	visited := map[string]bool{}
	queue := []string{d.EntryPoint}
	step := 0

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true
		step++

		n, ok := d.Nodes[id]
		if !ok {
			continue
		}

		sb.WriteString(fmt.Sprintf("%d. [%s] %s", step, id, n.Action.Type))
		if n.Action.Description != "" {
			sb.WriteString(": " + n.Action.Description)
		}
		sb.WriteString("\n")

		if n.Terminal {
			sb.WriteString(fmt.Sprintf("   terminal: %s\n", n.TerminalResult))
			continue
		}

		for _, e := range d.OutgoingEdges(id) {
			desc := e.Condition.Description
			if desc == "" {
				desc = string(e.Condition.Type)
			}
			sb.WriteString(fmt.Sprintf("   -> %s  (%s)\n", e.To, desc))
			if !visited[e.To] {
				queue = append(queue, e.To)
			}
		}
	}

	return sb.String()
}

// DescribeMarkdown renders Describe's plain-text BFS walk as a glamour
// Markdown document, for terminal display in the CLI harness.
func DescribeMarkdown(d DAG) (string, error) {
	plain := Describe(d)

	var md strings.Builder
	md.WriteString(fmt.Sprintf("# Plan: %s\n\n", d.ID))
	for _, line := range strings.Split(strings.TrimRight(plain, "\n"), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if strings.HasPrefix(trimmed, "->") {
			md.WriteString("  - " + strings.TrimPrefix(trimmed, "-> ") + "\n")
		} else if trimmed != "" {
			md.WriteString("- " + trimmed + "\n")
		}
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("dag: build markdown renderer: %w", err)
	}
	out, err := r.Render(md.String())
	if err != nil {
		return "", fmt.Errorf("dag: render plan markdown: %w", err)
	}
	return out, nil
}
