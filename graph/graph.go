// Package graph renders workflow graphs as Mermaid flowcharts.
package graph

import (
	"fmt"
	"strings"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/awantoch/trellis-mcp/model"
)

// Node is a vertex in the graph.
type Node struct {
	ID      string
	Label   string
	Trigger bool
}

// Edge is a directed connection between two nodes.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph composed of nodes and edges.
type Graph struct {
	Nodes []*Node
	Edges []*Edge
}

// Renderer renders a Graph into a specific output format.
type Renderer interface {
	Render(g *Graph) (string, error)
}

// MermaidRenderer outputs Graphs in Mermaid flowchart syntax.
type MermaidRenderer struct{}

// NewGraph creates a Graph from a workflow's blocks and edges. Edges that
// point at unknown blocks still get a bare node.
func NewGraph(wg *model.WorkflowGraph) *Graph {
	g := &Graph{}
	if wg == nil {
		return g
	}
	seen := make(map[string]bool, len(wg.Nodes))
	for _, n := range wg.Nodes {
		label := n.ID
		if n.Name != "" {
			label = fmt.Sprintf("%s (%s)", n.Name, n.ID)
		}
		g.Nodes = append(g.Nodes, &Node{ID: n.ID, Label: label, Trigger: n.Type == constants.BlockTypeTrigger})
		seen[n.ID] = true
	}
	for _, e := range wg.Edges {
		for _, id := range []string{e.Source, e.Target} {
			if !seen[id] {
				g.Nodes = append(g.Nodes, &Node{ID: id, Label: id})
				seen[id] = true
			}
		}
		g.Edges = append(g.Edges, &Edge{From: e.Source, To: e.Target})
	}
	return g
}

// Render renders the graph using Mermaid syntax. Block ids are replaced by
// positional aliases since server ids are not valid Mermaid identifiers.
func (r *MermaidRenderer) Render(g *Graph) (string, error) {
	if len(g.Nodes) == 0 {
		return "", nil
	}
	alias := make(map[string]string, len(g.Nodes))
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	for i, node := range g.Nodes {
		a := fmt.Sprintf("n%d", i)
		alias[node.ID] = a
		if node.Trigger {
			sb.WriteString(fmt.Sprintf("%s([\"%s\"])\n", a, escape(node.Label)))
		} else {
			sb.WriteString(fmt.Sprintf("%s[\"%s\"]\n", a, escape(node.Label)))
		}
	}
	for _, edge := range g.Edges {
		from, ok := alias[edge.From]
		if !ok {
			return "", fmt.Errorf("edge source %q is not a node", edge.From)
		}
		to, ok := alias[edge.To]
		if !ok {
			return "", fmt.Errorf("edge target %q is not a node", edge.To)
		}
		sb.WriteString(fmt.Sprintf("%s --> %s\n", from, to))
	}
	return sb.String(), nil
}

func escape(s string) string {
	return strings.ReplaceAll(s, `"`, "#quot;")
}

// ExportMermaid is a helper to create a Mermaid diagram from a workflow graph.
func ExportMermaid(wg *model.WorkflowGraph) (string, error) {
	return (&MermaidRenderer{}).Render(NewGraph(wg))
}
