package layout

import (
	"context"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/octree"
)

// Algorithm names the repulsion strategy used by a run.
type Algorithm string

const (
	AlgorithmDirect    Algorithm = "direct"
	AlgorithmBarnesHut Algorithm = "barnes-hut"
)

// Stats describes a completed (or cancelled) run.
type Stats struct {
	Algorithm  Algorithm
	Iterations int
	Duration   time.Duration
	// Shift is the centroid removed by the final recentering.
	Shift r3.Vec
}

// ProgressFunc is called after every completed step.
type ProgressFunc func(step, total int)

// Option configures a [Solver].
type Option func(*Solver)

// WithSeed seeds the jitter source. Runs with equal seeds are identical.
func WithSeed(seed uint64) Option {
	return func(s *Solver) { s.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef)) }
}

// WithRand uses r as the jitter source.
func WithRand(r *rand.Rand) Option { return func(s *Solver) { s.rng = r } }

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option { return func(s *Solver) { s.logger = l } }

// WithProgress registers a per-step callback.
func WithProgress(fn ProgressFunc) Option { return func(s *Solver) { s.progress = fn } }

// Solver runs the force simulation. A Solver is not safe for concurrent use
// but may be reused for successive graphs; its octree pool carries over.
type Solver struct {
	cfg      Config
	rng      *rand.Rand
	logger   *log.Logger
	progress ProgressFunc

	tree      *octree.Tree
	positions []r3.Vec
}

// NewSolver returns a solver for cfg with zero fields defaulted. Without
// [WithSeed] or [WithRand] the jitter source is randomly seeded.
func NewSolver(cfg Config, opts ...Option) *Solver {
	s := &Solver{cfg: cfg.WithDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Config returns the effective configuration.
func (s *Solver) Config() Config { return s.cfg }

// Algorithm reports which repulsion strategy a graph of n nodes gets.
func (s *Solver) Algorithm(n int) Algorithm {
	if n > s.cfg.BarnesHutThreshold {
		return AlgorithmBarnesHut
	}
	return AlgorithmDirect
}

// Place sets initial ring positions without simulating.
func (s *Solver) Place(g *kin.Graph) {
	placeRings(g, s.cfg, s.rng)
}

// Calculate places and simulates g, writing final positions into its nodes.
//
// ctx is checked between steps. On cancellation the nodes keep the positions
// of the last completed step, no recentering happens, and ctx.Err() is
// returned together with stats for the completed steps.
func (s *Solver) Calculate(ctx context.Context, g *kin.Graph) (Stats, error) {
	start := time.Now()
	nodes := g.Nodes()
	stats := Stats{Algorithm: s.Algorithm(len(nodes))}

	s.logger.Debug("layout start",
		"nodes", len(nodes), "edges", g.EdgeCount(),
		"algorithm", stats.Algorithm, "iterations", s.cfg.Iterations)

	s.Place(g)
	edges := g.Edges()
	total := s.cfg.Iterations

	for step := 0; step < total; step++ {
		if err := ctx.Err(); err != nil {
			stats.Duration = time.Since(start)
			s.logger.Debug("layout cancelled", "step", step, "err", err)
			return stats, err
		}
		s.step(nodes, edges, stats.Algorithm, step, total)
		stats.Iterations++
		if s.progress != nil {
			s.progress(step+1, total)
		}
	}

	stats.Shift = recenter(nodes)
	stats.Duration = time.Since(start)
	s.logger.Debug("layout done",
		"iterations", stats.Iterations, "shift", r3.Norm(stats.Shift), "duration", stats.Duration)
	return stats, nil
}

// step advances the simulation by one iteration.
func (s *Solver) step(nodes []kin.Node, edges []kin.Edge, algo Algorithm, step, total int) {
	for i := range nodes {
		nodes[i].Velocity = r3.Vec{}
	}

	switch algo {
	case AlgorithmBarnesHut:
		s.octreeRepulsion(nodes)
	default:
		directRepulsion(nodes, s.cfg.Repulsion, s.cfg.Softening)
	}
	springs(nodes, edges, s.cfg)
	centering(nodes, s.cfg.CenterForce)
	layering(nodes, s.cfg)

	temp := s.temperature(step, total)
	for i := range nodes {
		nodes[i].Position = r3.Add(nodes[i].Position, r3.Scale(temp, nodes[i].Velocity))
	}
}

// temperature is the cooling multiplier for step, falling linearly from 1
// toward CoolingFloor.
func (s *Solver) temperature(step, total int) float64 {
	if total <= 0 {
		return 1
	}
	return 1 - (1-s.cfg.CoolingFloor)*float64(step)/float64(total)
}

func (s *Solver) octreeRepulsion(nodes []kin.Node) {
	if s.tree == nil {
		s.tree = octree.New(s.cfg.Theta)
	}
	s.tree.Theta = s.cfg.Theta
	s.tree.Softening = s.cfg.Softening
	s.tree.Padding = s.cfg.BoundsPadding

	if cap(s.positions) < len(nodes) {
		s.positions = make([]r3.Vec, len(nodes))
	}
	s.positions = s.positions[:len(nodes)]
	for i := range nodes {
		s.positions[i] = nodes[i].Position
	}

	s.tree.Build(s.positions)
	for i := range nodes {
		f := s.tree.Force(i, s.positions[i], s.cfg.Repulsion)
		nodes[i].Velocity = r3.Add(nodes[i].Velocity, f)
	}
}

// recenter translates nodes so their centroid is the origin and returns the
// removed centroid.
func recenter(nodes []kin.Node) r3.Vec {
	if len(nodes) == 0 {
		return r3.Vec{}
	}
	var c r3.Vec
	for i := range nodes {
		c = r3.Add(c, nodes[i].Position)
	}
	c = r3.Scale(1/float64(len(nodes)), c)
	for i := range nodes {
		nodes[i].Position = r3.Sub(nodes[i].Position, c)
	}
	return c
}
