package model

import (
	"encoding/json"
	"fmt"

	"github.com/awantoch/trellis-mcp/constants"
	"github.com/tidwall/gjson"
)

// Position is a canvas coordinate.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Offset returns p moved by dx, dy.
func (p Position) Offset(dx, dy float64) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Node is an existing block as read from a workflow config. Only the
// attributes the composer needs are decoded; the rest is kept verbatim.
type Node struct {
	ID       string
	Type     string
	Name     string
	EntityID string
	Position *Position
	raw      json.RawMessage
}

func (n *Node) UnmarshalJSON(b []byte) error {
	if !gjson.ValidBytes(b) {
		return fmt.Errorf("invalid node JSON")
	}
	r := gjson.ParseBytes(b)
	if !r.IsObject() {
		return fmt.Errorf("node is not an object: %s", r.Raw)
	}
	*n = NodeFromResult(r)
	return nil
}

// NodeFromResult decodes a node from an already parsed JSON object.
func NodeFromResult(r gjson.Result) Node {
	n := Node{
		ID:       r.Get("id").String(),
		Type:     r.Get("type").String(),
		Name:     r.Get("name").String(),
		EntityID: r.Get("entity_id").String(),
		raw:      json.RawMessage(r.Raw),
	}
	if n.EntityID == "" {
		n.EntityID = r.Get("trigger.entity_id").String()
	}
	n.Position = probePosition(r)
	return n
}

// probePosition reads position.{x,y}, falling back to flat position_x/position_y.
func probePosition(r gjson.Result) *Position {
	x, y := r.Get("position.x"), r.Get("position.y")
	if x.Type != gjson.Number && y.Type != gjson.Number {
		x, y = r.Get("position_x"), r.Get("position_y")
	}
	if x.Type != gjson.Number && y.Type != gjson.Number {
		return nil
	}
	var p Position
	if x.Type == gjson.Number {
		p.X = x.Float()
	}
	if y.Type == gjson.Number {
		p.Y = y.Float()
	}
	return &p
}

func (n Node) MarshalJSON() ([]byte, error) {
	if len(n.raw) > 0 {
		return n.raw, nil
	}
	out := map[string]any{"id": n.ID, "type": n.Type, "name": n.Name}
	if n.EntityID != "" {
		out["entity_id"] = n.EntityID
	}
	if n.Position != nil {
		out["position"] = n.Position
	}
	return json.Marshal(out)
}

// PositionOrOrigin returns the node position, or {0,0} when it has none.
func (n Node) PositionOrOrigin() Position {
	if n.Position == nil {
		return Position{}
	}
	return *n.Position
}

// Edge is a directed execution-order link between two blocks.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// WorkflowGraph is the full node and edge set of one workflow.
type WorkflowGraph struct {
	Nodes []Node
	Edges []Edge
	raw   json.RawMessage
}

// NewWorkflowGraph builds a graph and remembers the payload it came from.
func NewWorkflowGraph(nodes []Node, edges []Edge, raw []byte) *WorkflowGraph {
	return &WorkflowGraph{Nodes: nodes, Edges: edges, raw: append(json.RawMessage(nil), raw...)}
}

func (g WorkflowGraph) MarshalJSON() ([]byte, error) {
	if len(g.raw) > 0 {
		return g.raw, nil
	}
	nodes, edges := g.Nodes, g.Edges
	if nodes == nil {
		nodes = []Node{}
	}
	if edges == nil {
		edges = []Edge{}
	}
	return json.Marshal(struct {
		Nodes []Node `json:"nodes"`
		Edges []Edge `json:"edges"`
	}{nodes, edges})
}

// FindNode looks up a node by id.
func (g *WorkflowGraph) FindNode(id string) (*Node, bool) {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// TriggerFor returns the first trigger block bound to entityID.
func (g *WorkflowGraph) TriggerFor(entityID string) (*Node, bool) {
	for i := range g.Nodes {
		n := &g.Nodes[i]
		if n.Type == constants.BlockTypeTrigger && n.EntityID == entityID {
			return n, true
		}
	}
	return nil, false
}

// NormalizedEdges copies the edge list reduced to source and target.
func (g *WorkflowGraph) NormalizedEdges() []Edge {
	out := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		out = append(out, Edge{Source: e.Source, Target: e.Target})
	}
	return out
}
