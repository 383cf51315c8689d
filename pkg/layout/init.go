package layout

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lineage/pkg/kin"
)

// placeRings puts each generation on a horizontal ring of radius
// |g|*spacing at height g*spacing/2, evenly spaced with jitter. The focal
// node goes to the origin. Velocities are cleared.
func placeRings(g *kin.Graph, cfg Config, rng *rand.Rand) {
	nodes := g.Nodes()
	for _, gen := range g.Generations() {
		members := g.NodesInGeneration(gen)
		radius := math.Abs(float64(gen)) * cfg.GenerationSpacing
		y := float64(gen) * cfg.GenerationSpacing * 0.5
		for i, n := range members {
			angle := 2 * math.Pi * float64(i) / float64(len(members))
			n.Position = r3.Vec{
				X: radius*math.Cos(angle) + jitter(rng, cfg.JitterXZ),
				Y: y + jitter(rng, cfg.JitterY),
				Z: radius*math.Sin(angle) + jitter(rng, cfg.JitterXZ),
			}
		}
	}
	for i := range nodes {
		nodes[i].Velocity = r3.Vec{}
	}
	if n, ok := g.Node(g.Focal()); ok {
		n.Position = r3.Vec{}
	}
}

// jitter returns a uniform offset in [-amp, amp).
func jitter(rng *rand.Rand, amp float64) float64 {
	return (rng.Float64()*2 - 1) * amp
}
