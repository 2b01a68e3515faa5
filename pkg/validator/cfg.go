package validator

import "github.com/agentkit-dev/agentkit/pkg/logger"

var cfgLog = logger.New("validator:cfg")

// Edge is one routing pointer from a step to its target. JSONPath points at
// the flow field that declared it.
type Edge struct {
	From     string
	To       string
	JSONPath string
}

// CFG is the control-flow graph of a document. Nodes are step ids in document
// order, without duplicates. Edge targets need not be nodes.
type CFG struct {
	Nodes     []string
	Edges     []Edge
	Adjacency map[string][]string

	nodeSet map[string]struct{}
}

// HasNode reports whether id is a step id.
func (g *CFG) HasNode(id string) bool {
	_, ok := g.nodeSet[id]
	return ok
}

// BuildCFG builds the graph from steps[].flow. Every non-empty string among
// the flow pointer fields, and every value of flow.cases, becomes an edge.
func BuildCFG(doc map[string]any) *CFG {
	g := &CFG{
		Adjacency: make(map[string][]string),
		nodeSet:   make(map[string]struct{}),
	}

	steps := stepsOf(doc)
	for _, s := range steps {
		if _, seen := g.nodeSet[s.ID]; seen {
			continue
		}
		g.nodeSet[s.ID] = struct{}{}
		g.Nodes = append(g.Nodes, s.ID)
	}

	for _, s := range steps {
		for _, t := range flowTargets(s) {
			g.Edges = append(g.Edges, Edge{From: s.ID, To: t.Target, JSONPath: t.JSONPath})
			g.Adjacency[s.ID] = append(g.Adjacency[s.ID], t.Target)
		}
	}

	cfgLog.Printf("Built CFG: nodes=%d edges=%d", len(g.Nodes), len(g.Edges))
	return g
}
