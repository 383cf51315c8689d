package kin

import (
	"maps"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lineage/pkg/family"
)

// Kind is the relationship type carried by an edge.
type Kind string

const (
	KindParentChild Kind = "parent-child"
	KindSpouse      Kind = "spouse"
	KindSibling     Kind = "sibling"
)

// Kinds lists every edge kind in a stable order.
var Kinds = []Kind{KindParentChild, KindSpouse, KindSibling}

// Strength returns the fixed spring strength for the kind.
// Unknown kinds have strength 0.
func (k Kind) Strength() float64 {
	switch k {
	case KindParentChild:
		return 1.0
	case KindSpouse:
		return 0.8
	case KindSibling:
		return 0.6
	}
	return 0
}

// Node is one person in the graph.
//
// Position and Velocity are owned by the layout solver; the builder leaves
// both at the origin. Velocity is transient and reset every simulation step.
type Node struct {
	ID     string
	Person *family.Person

	Position r3.Vec
	Velocity r3.Vec

	// Generation is the signed layer relative to the focal person.
	Generation int
	// BioWeight is the visual prominence in [0,1] derived from the biography.
	BioWeight float64
	// Reached reports whether generation propagation visited this node.
	Reached bool

	links []string
}

// Edge is an unordered relationship between two nodes.
// For parent-child edges Source is the parent and Target the child.
type Edge struct {
	Source   string
	Target   string
	Kind     Kind
	Strength float64

	src, dst int
}

// Endpoints returns the arena indices of the edge's source and target.
func (e Edge) Endpoints() (int, int) { return e.src, e.dst }

// Graph is a family graph with generation labels.
//
// The zero value is not usable - use [Build] or [New].
// Graph is not safe for concurrent mutation.
type Graph struct {
	nodes    []Node
	index    map[string]int
	edges    []Edge
	keys     map[string]struct{}
	incident [][]int // node index -> edge indices, insertion order
	focal    string
}

// New creates an empty graph with capacity for n nodes.
func New(n int) *Graph {
	return &Graph{
		nodes: make([]Node, 0, n),
		index: make(map[string]int, n),
		keys:  make(map[string]struct{}),
	}
}

// Node returns the node with the given identifier.
// The pointer refers into the graph's arena, so modifications affect the graph.
func (g *Graph) Node(id string) (*Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}
	return &g.nodes[i], true
}

// Index returns the arena index of the node with the given identifier.
func (g *Graph) Index(id string) (int, bool) {
	i, ok := g.index[id]
	return i, ok
}

// Nodes returns the node arena in input order. The slice aliases the graph:
// writes to positions are visible to every other caller.
func (g *Graph) Nodes() []Node { return g.nodes }

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Focal returns the focal person's identifier, or "" for an empty graph.
func (g *Graph) Focal() string { return g.focal }

// EdgeCountByKind returns how many edges of each kind exist.
func (g *Graph) EdgeCountByKind() map[Kind]int {
	counts := make(map[Kind]int, len(Kinds))
	for _, e := range g.edges {
		counts[e.Kind]++
	}
	return counts
}

// Connections returns the identifiers connected to id, deduplicated, in the
// order the connecting edges were added. Returns nil for unknown identifiers.
func (g *Graph) Connections(id string) []string {
	i, ok := g.index[id]
	if !ok {
		return nil
	}
	links := g.nodes[i].links
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		if _, dup := seen[l]; dup {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}

// NodesInGeneration returns the nodes whose generation equals gen, in input order.
func (g *Graph) NodesInGeneration(gen int) []*Node {
	var out []*Node
	for i := range g.nodes {
		if g.nodes[i].Generation == gen {
			out = append(out, &g.nodes[i])
		}
	}
	return out
}

// Generations returns the distinct generation values in ascending order.
func (g *Graph) Generations() []int {
	set := make(map[int]struct{})
	for i := range g.nodes {
		set[g.nodes[i].Generation] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// GenerationRange returns the minimum and maximum generation across all
// nodes. Both are 0 for an empty graph.
func (g *Graph) GenerationRange() (lo, hi int) {
	for i := range g.nodes {
		gen := g.nodes[i].Generation
		if i == 0 || gen < lo {
			lo = gen
		}
		if i == 0 || gen > hi {
			hi = gen
		}
	}
	return lo, hi
}

// Unreached returns the nodes generation propagation never visited.
func (g *Graph) Unreached() []*Node {
	var out []*Node
	for i := range g.nodes {
		if !g.nodes[i].Reached {
			out = append(out, &g.nodes[i])
		}
	}
	return out
}

// addNode appends a node for p. Duplicate identifiers are ignored and the
// first occurrence wins.
func (g *Graph) addNode(p *family.Person) {
	if _, exists := g.index[p.ID]; exists {
		return
	}
	g.index[p.ID] = len(g.nodes)
	g.nodes = append(g.nodes, Node{
		ID:        p.ID,
		Person:    p,
		BioWeight: BiographyWeight(p.Biography),
	})
	g.incident = append(g.incident, nil)
}

// addEdge inserts a relationship unless an endpoint is missing or an edge of
// the same kind already joins the pair. Reports whether an edge was added.
func (g *Graph) addEdge(source, target string, kind Kind) bool {
	src, ok := g.index[source]
	if !ok {
		return false
	}
	dst, ok := g.index[target]
	if !ok {
		return false
	}
	key := edgeKey(source, target, kind)
	if _, dup := g.keys[key]; dup {
		return false
	}
	g.keys[key] = struct{}{}

	g.incident[src] = append(g.incident[src], len(g.edges))
	if dst != src {
		g.incident[dst] = append(g.incident[dst], len(g.edges))
	}
	g.edges = append(g.edges, Edge{
		Source:   source,
		Target:   target,
		Kind:     kind,
		Strength: kind.Strength(),
		src:      src,
		dst:      dst,
	})
	g.nodes[src].links = append(g.nodes[src].links, target)
	g.nodes[dst].links = append(g.nodes[dst].links, source)
	return true
}

// edgeKey is the canonical dedup key: sorted pair plus kind.
func edgeKey(a, b string, kind Kind) string {
	if b < a {
		a, b = b, a
	}
	return a + "|" + b + "-" + string(kind)
}
