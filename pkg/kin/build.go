package kin

import "github.com/matzehuels/lineage/pkg/family"

// Build constructs the family graph for ds and assigns generations.
//
// Edges are added in a fixed order so that the result, including generation
// numbers, is reproducible for identical input:
//
//  1. parent-child edges from every person's childIds, then from every
//     person's parentIds (duplicates collapse onto the first)
//  2. spouse edges from spouseIds
//  3. sibling edges inferred from shared parents
//
// Build panics if ds is nil. An empty dataset yields an empty graph with no
// focal person.
func Build(ds *family.Dataset) *Graph {
	g := New(len(ds.People))
	for i := range ds.People {
		g.addNode(&ds.People[i])
	}

	for _, p := range ds.People {
		for _, child := range p.ChildIDs {
			g.addEdge(p.ID, child, KindParentChild)
		}
	}
	for _, p := range ds.People {
		for _, parent := range p.ParentIDs {
			g.addEdge(parent, p.ID, KindParentChild)
		}
	}
	for _, p := range ds.People {
		for _, spouse := range p.SpouseIDs {
			g.addEdge(p.ID, spouse, KindSpouse)
		}
	}
	inferSiblings(g, ds.People)

	g.focal = FocalID(ds)
	g.assignGenerations()
	return g
}

// inferSiblings adds one sibling edge per pair of people sharing at least one
// parent. The parent -> children map is built from parentIds only, so
// inference does not depend on childIds being declared. Parents and children
// are visited in first-seen order.
func inferSiblings(g *Graph, people []family.Person) {
	var parents []string
	children := make(map[string][]string)
	for _, p := range people {
		for _, parent := range p.ParentIDs {
			list, seen := children[parent]
			if !seen {
				parents = append(parents, parent)
			}
			if !containsString(list, p.ID) {
				children[parent] = append(list, p.ID)
			}
		}
	}

	for _, parent := range parents {
		kids := children[parent]
		for i := 0; i < len(kids); i++ {
			for j := i + 1; j < len(kids); j++ {
				g.addEdge(kids[i], kids[j], KindSibling)
			}
		}
	}
}

// FocalID picks the focal person of ds. The first rule that matches wins:
//
//  1. the explicit ds.FocalID, even if it names nobody
//  2. the first person with generation hint 0 and status "complete"
//  3. the first person with generation hint 0
//  4. the first person
//
// Returns "" for an empty dataset without an explicit focal identifier.
func FocalID(ds *family.Dataset) string {
	if ds.FocalID != "" {
		return ds.FocalID
	}
	for _, p := range ds.People {
		if p.Generation != nil && *p.Generation == 0 && p.Status == family.StatusComplete {
			return p.ID
		}
	}
	for _, p := range ds.People {
		if p.Generation != nil && *p.Generation == 0 {
			return p.ID
		}
	}
	if len(ds.People) > 0 {
		return ds.People[0].ID
	}
	return ""
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
