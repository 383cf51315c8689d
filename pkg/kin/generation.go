package kin

// assignGenerations runs breadth-first propagation from the focal node.
//
// Parent-child edges move one generation up (toward the parent, -1) or down
// (toward the child, +1); spouse and sibling edges keep the generation.
// Each node's incident edges are visited in insertion order and a node's
// generation is fixed the first time it is reached, so the result is
// deterministic. An unknown focal identifier makes this a no-op.
func (g *Graph) assignGenerations() {
	start, ok := g.index[g.focal]
	if !ok {
		return
	}

	g.nodes[start].Generation = 0
	g.nodes[start].Reached = true
	queue := []int{start}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		gen := g.nodes[n].Generation

		for _, ei := range g.incident[n] {
			e := g.edges[ei]
			next, nextGen := -1, gen
			switch e.Kind {
			case KindParentChild:
				switch n {
				case e.src:
					next, nextGen = e.dst, gen+1
				case e.dst:
					next, nextGen = e.src, gen-1
				}
			case KindSpouse, KindSibling:
				next = e.dst
				if n == e.dst {
					next = e.src
				}
			}
			if next < 0 || g.nodes[next].Reached {
				continue
			}
			g.nodes[next].Generation = nextGen
			g.nodes[next].Reached = true
			queue = append(queue, next)
		}
	}
}
