// Package octree implements a Barnes-Hut octree for approximate all-pairs
// repulsion in three dimensions.
//
// The tree is rebuilt from scratch for every set of positions. Its nodes live
// in a flat pool that is cleared, not freed, on each [Tree.Build], so repeated
// rebuilds during a simulation do not allocate once the pool has grown to its
// working size.
//
// Every body has unit mass. Aggregates carry the body count as mass and the
// running-average center of mass of the bodies beneath them.
package octree

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	DefaultTheta     = 0.7
	DefaultSoftening = 0.1
	DefaultPadding   = 10
	// DefaultMaxDepth bounds subdivision. Bodies that still share a cell at
	// this depth are aggregated in one leaf.
	DefaultMaxDepth = 32
)

const none = -1

type cell struct {
	center r3.Vec
	half   float64

	com  r3.Vec
	mass float64

	// body heads the chain of bodies stored in a leaf, or is none.
	body     int
	children [8]int32 // 0 means absent; the root is never a child
	internal bool
}

// Tree is a Barnes-Hut octree over a set of body positions.
// A Tree is not safe for concurrent use.
type Tree struct {
	// Theta is the opening-angle threshold. A region whose size-to-distance
	// ratio is below Theta is approximated by its center of mass.
	Theta float64
	// Softening is added to squared distances.
	Softening float64
	// Padding is added on every side of the bounding cube.
	Padding float64
	// MaxDepth caps subdivision for coincident bodies.
	MaxDepth int

	cells     []cell
	next      []int
	positions []r3.Vec
}

// New returns an empty tree with the given opening angle and default
// softening, padding and depth cap.
func New(theta float64) *Tree {
	return &Tree{
		Theta:     theta,
		Softening: DefaultSoftening,
		Padding:   DefaultPadding,
		MaxDepth:  DefaultMaxDepth,
	}
}

// Build discards the previous contents and inserts every position, paired
// with its index. The tree keeps a reference to positions until the next
// Build; callers must not modify the slice in between.
func (t *Tree) Build(positions []r3.Vec) {
	t.cells = t.cells[:0]
	t.positions = positions
	if cap(t.next) < len(positions) {
		t.next = make([]int, len(positions))
	}
	t.next = t.next[:len(positions)]
	if len(positions) == 0 {
		return
	}

	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		lo = r3.Vec{X: math.Min(lo.X, p.X), Y: math.Min(lo.Y, p.Y), Z: math.Min(lo.Z, p.Z)}
		hi = r3.Vec{X: math.Max(hi.X, p.X), Y: math.Max(hi.Y, p.Y), Z: math.Max(hi.Z, p.Z)}
	}
	pad := r3.Vec{X: t.Padding, Y: t.Padding, Z: t.Padding}
	lo, hi = r3.Sub(lo, pad), r3.Add(hi, pad)
	size := math.Max(hi.X-lo.X, math.Max(hi.Y-lo.Y, hi.Z-lo.Z))

	t.cells = append(t.cells, cell{
		center: r3.Scale(0.5, r3.Add(lo, hi)),
		half:   size / 2,
		body:   none,
	})
	for i, p := range positions {
		t.next[i] = none
		t.insert(0, i, p, 0)
	}
}

// Reset empties the tree, keeping its pool for reuse.
func (t *Tree) Reset() {
	t.cells = t.cells[:0]
	t.positions = nil
}

// Len returns the number of bodies in the tree.
func (t *Tree) Len() int {
	if len(t.cells) == 0 {
		return 0
	}
	return int(t.cells[0].mass)
}

// CenterOfMass returns the center of mass of all bodies, or the zero vector
// for an empty tree.
func (t *Tree) CenterOfMass() r3.Vec {
	if len(t.cells) == 0 {
		return r3.Vec{}
	}
	return t.cells[0].com
}

// Bounds returns the root cube as a box. The box is empty for an empty tree.
func (t *Tree) Bounds() r3.Box {
	if len(t.cells) == 0 {
		return r3.Box{}
	}
	root := t.cells[0]
	h := r3.Vec{X: root.half, Y: root.half, Z: root.half}
	return r3.Box{Min: r3.Sub(root.center, h), Max: r3.Add(root.center, h)}
}

func (t *Tree) insert(ci, body int, p r3.Vec, depth int) {
	for ; ; depth++ {
		c := &t.cells[ci]
		c.com = r3.Scale(1/(c.mass+1), r3.Add(r3.Scale(c.mass, c.com), p))
		c.mass++

		if !c.internal {
			if c.body == none {
				c.body = body
				return
			}
			if depth >= t.MaxDepth {
				t.next[body] = c.body
				c.body = body
				return
			}
			prev := c.body
			c.body = none
			c.internal = true
			pp := t.positions[prev]
			t.insert(t.child(ci, octant(c.center, pp)), prev, pp, depth+1)
		}
		ci = t.child(ci, octant(t.cells[ci].center, p))
	}
}

// octant packs the three axis comparisons into an index in [0,7].
func octant(center, p r3.Vec) int {
	o := 0
	if p.X >= center.X {
		o |= 1
	}
	if p.Y >= center.Y {
		o |= 2
	}
	if p.Z >= center.Z {
		o |= 4
	}
	return o
}

// child returns the pool index of octant o of cell ci, creating it on first use.
func (t *Tree) child(ci, o int) int {
	if c := t.cells[ci].children[o]; c != 0 {
		return int(c)
	}
	parent := t.cells[ci]
	q := parent.half / 2
	off := r3.Vec{X: -q, Y: -q, Z: -q}
	if o&1 != 0 {
		off.X = q
	}
	if o&2 != 0 {
		off.Y = q
	}
	if o&4 != 0 {
		off.Z = q
	}
	idx := len(t.cells)
	t.cells = append(t.cells, cell{
		center: r3.Add(parent.center, off),
		half:   q,
		body:   none,
	})
	t.cells[ci].children[o] = int32(idx)
	return idx
}

// Force returns the approximate repulsion on body at pos from every other
// body in the tree, with magnitude k*mass/(d²+Softening) directed away from
// each contributing center of mass. An empty tree yields the zero vector.
func (t *Tree) Force(body int, pos r3.Vec, k float64) r3.Vec {
	if len(t.cells) == 0 {
		return r3.Vec{}
	}
	return t.force(0, body, pos, k)
}

func (t *Tree) force(ci, body int, pos r3.Vec, k float64) r3.Vec {
	c := &t.cells[ci]
	if c.mass == 0 {
		return r3.Vec{}
	}

	mass, com := c.mass, c.com
	if !c.internal {
		if t.holds(c.body, body) {
			if mass == 1 {
				return r3.Vec{}
			}
			com = r3.Scale(1/(mass-1), r3.Sub(r3.Scale(mass, com), t.positions[body]))
			mass--
		}
		return t.pointForce(pos, com, mass, k)
	}

	d := r3.Sub(pos, com)
	dist := math.Sqrt(r3.Norm2(d) + t.Softening)
	if 2*c.half/dist < t.Theta {
		return r3.Scale(k*mass/(dist*dist)/dist, d)
	}

	var f r3.Vec
	for _, ch := range c.children {
		if ch != 0 {
			f = r3.Add(f, t.force(int(ch), body, pos, k))
		}
	}
	return f
}

func (t *Tree) pointForce(pos, com r3.Vec, mass, k float64) r3.Vec {
	d := r3.Sub(pos, com)
	dist2 := r3.Norm2(d) + t.Softening
	dist := math.Sqrt(dist2)
	return r3.Scale(k*mass/dist2/dist, d)
}

// holds reports whether body is in the leaf chain starting at head.
func (t *Tree) holds(head, body int) bool {
	for b := head; b != none; b = t.next[b] {
		if b == body {
			return true
		}
	}
	return false
}
