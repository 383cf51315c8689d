package graph

import (
	"encoding/json"
	"os"
	"slices"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
)

// FormatVersion is written into every layout.
const FormatVersion = 1

// Layout is a computed family layout.
type Layout struct {
	Version int    `json:"version" bson:"version"`
	Focal   string `json:"focal" bson:"focal"`

	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`

	MinGeneration int `json:"min_generation" bson:"min_generation"`
	MaxGeneration int `json:"max_generation" bson:"max_generation"`

	// Provenance
	Seed      uint64        `json:"seed" bson:"seed"`
	Algorithm string        `json:"algorithm,omitempty" bson:"algorithm,omitempty"`
	Config    layout.Config `json:"config" bson:"config"`
}

// Node is one positioned person.
type Node struct {
	ID         string  `json:"id" bson:"id"`
	Name       string  `json:"name,omitempty" bson:"name,omitempty"`
	X          float64 `json:"x" bson:"x"`
	Y          float64 `json:"y" bson:"y"`
	Z          float64 `json:"z" bson:"z"`
	Generation int     `json:"generation" bson:"generation"`
	BioWeight  float64 `json:"bio_weight" bson:"bio_weight"`
	// Unreached marks people not connected to the focal person. Their
	// generation is a placeholder.
	Unreached bool `json:"unreached,omitempty" bson:"unreached,omitempty"`
}

// Position returns the node's coordinates as a vector.
func (n Node) Position() r3.Vec { return r3.Vec{X: n.X, Y: n.Y, Z: n.Z} }

// Label returns the display name, falling back to the identifier.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Edge is a relationship between two nodes. For parent-child edges Source is
// the parent.
type Edge struct {
	Source   string  `json:"source" bson:"source"`
	Target   string  `json:"target" bson:"target"`
	Kind     string  `json:"kind" bson:"kind"`
	Strength float64 `json:"strength" bson:"strength"`
}

// FromGraph snapshots g. cfg and seed are recorded as provenance.
func FromGraph(g *kin.Graph, cfg layout.Config, seed uint64) Layout {
	lo, hi := g.GenerationRange()
	l := Layout{
		Version:       FormatVersion,
		Focal:         g.Focal(),
		Nodes:         make([]Node, 0, g.NodeCount()),
		Edges:         make([]Edge, 0, g.EdgeCount()),
		MinGeneration: lo,
		MaxGeneration: hi,
		Seed:          seed,
		Config:        cfg,
	}
	for _, n := range g.Nodes() {
		name := ""
		if n.Person != nil {
			name = n.Person.Name
		}
		l.Nodes = append(l.Nodes, Node{
			ID:         n.ID,
			Name:       name,
			X:          n.Position.X,
			Y:          n.Position.Y,
			Z:          n.Position.Z,
			Generation: n.Generation,
			BioWeight:  n.BioWeight,
			Unreached:  !n.Reached,
		})
	}
	for _, e := range g.Edges() {
		l.Edges = append(l.Edges, Edge{
			Source:   e.Source,
			Target:   e.Target,
			Kind:     string(e.Kind),
			Strength: e.Strength,
		})
	}
	return l
}

// Node returns the node with the given identifier.
func (l *Layout) Node(id string) (Node, bool) {
	i := slices.IndexFunc(l.Nodes, func(n Node) bool { return n.ID == id })
	if i < 0 {
		return Node{}, false
	}
	return l.Nodes[i], true
}

// Generations returns the distinct generations in ascending order.
func (l *Layout) Generations() []int {
	var gens []int
	for _, n := range l.Nodes {
		if !slices.Contains(gens, n.Generation) {
			gens = append(gens, n.Generation)
		}
	}
	slices.Sort(gens)
	return gens
}

// ByGeneration groups nodes by generation, keeping input order within each.
func (l *Layout) ByGeneration() map[int][]Node {
	out := make(map[int][]Node)
	for _, n := range l.Nodes {
		out[n.Generation] = append(out[n.Generation], n)
	}
	return out
}

// GenerationMeans returns the mean Y coordinate of each generation.
func (l *Layout) GenerationMeans() map[int]float64 {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, n := range l.Nodes {
		sums[n.Generation] += n.Y
		counts[n.Generation]++
	}
	for g, c := range counts {
		sums[g] /= float64(c)
	}
	return sums
}

// Validate checks that every edge joins two known nodes and that identifiers
// are unique.
func (l *Layout) Validate() error {
	ids := make(map[string]struct{}, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "layout node without id")
		}
		if _, dup := ids[n.ID]; dup {
			return errors.New(errors.ErrCodeInvalidFormat, "duplicate layout node %q", n.ID)
		}
		ids[n.ID] = struct{}{}
	}
	for _, e := range l.Edges {
		if _, ok := ids[e.Source]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "edge references unknown node %q", e.Source)
		}
		if _, ok := ids[e.Target]; !ok {
			return errors.New(errors.ErrCodeInvalidFormat, "edge references unknown node %q", e.Target)
		}
	}
	return nil
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes and validates JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Version > FormatVersion {
		return Layout{}, errors.New(errors.ErrCodeUnsupported, "layout version %d is newer than %d", l.Version, FormatVersion)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
		}
		return Layout{}, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return UnmarshalLayout(data)
}
