package layout

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lineage/pkg/kin"
)

// Spring rest lengths as fractions of the generation spacing.
const (
	parentChildLength = 1.0
	spouseLength      = 0.3
	siblingLength     = 0.5
)

// IdealLength returns the spring rest length for an edge of kind k.
func (c Config) IdealLength(k kin.Kind) float64 {
	switch k {
	case kin.KindSpouse:
		return spouseLength * c.GenerationSpacing
	case kin.KindSibling:
		return siblingLength * c.GenerationSpacing
	}
	return parentChildLength * c.GenerationSpacing
}

// DirectRepulsion returns the exact repulsion on body from every other
// position: magnitude k/(d²+softening), directed away from each source.
func DirectRepulsion(positions []r3.Vec, body int, k, softening float64) r3.Vec {
	var f r3.Vec
	p := positions[body]
	for j, q := range positions {
		if j == body {
			continue
		}
		f = r3.Add(f, repel(p, q, k, softening))
	}
	return f
}

// repel is the push on a body at p from a unit mass at q.
func repel(p, q r3.Vec, k, softening float64) r3.Vec {
	d := r3.Sub(p, q)
	dist2 := r3.Norm2(d) + softening
	return r3.Scale(k/dist2/math.Sqrt(dist2), d)
}

// directRepulsion accumulates pairwise repulsion into every node's velocity.
func directRepulsion(nodes []kin.Node, k, softening float64) {
	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			f := repel(nodes[i].Position, nodes[j].Position, k, softening)
			nodes[i].Velocity = r3.Add(nodes[i].Velocity, f)
			nodes[j].Velocity = r3.Sub(nodes[j].Velocity, f)
		}
	}
}

// springs pulls or pushes edge endpoints toward their kind's rest length.
func springs(nodes []kin.Node, edges []kin.Edge, cfg Config) {
	for _, e := range edges {
		a, b := e.Endpoints()
		if a == b {
			continue
		}
		d := r3.Sub(nodes[b].Position, nodes[a].Position)
		dist := math.Sqrt(r3.Norm2(d) + cfg.Softening)
		mag := cfg.Attraction * e.Strength * (dist - cfg.IdealLength(e.Kind))
		f := r3.Scale(mag/dist, d)
		nodes[a].Velocity = r3.Add(nodes[a].Velocity, f)
		nodes[b].Velocity = r3.Sub(nodes[b].Velocity, f)
	}
}

// centering pulls every node toward the vertical axis.
func centering(nodes []kin.Node, k float64) {
	for i := range nodes {
		nodes[i].Velocity.X -= k * nodes[i].Position.X
		nodes[i].Velocity.Z -= k * nodes[i].Position.Z
	}
}

// layering pulls every node toward its generation's height.
func layering(nodes []kin.Node, cfg Config) {
	for i := range nodes {
		target := float64(nodes[i].Generation) * cfg.GenerationSpacing * 0.8
		nodes[i].Velocity.Y += cfg.LayerPull * (target - nodes[i].Position.Y)
	}
}
