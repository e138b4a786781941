package services

import (
	"testing"

	"agristore/internal/models"
)

func TestBuildGraphSameSectionSymmetry(t *testing.T) {
	kb := &models.KnowledgeBase{
		Pages: []models.Page{
			{URL: "https://shop.example.com/products/brush-cutter", Title: "brush-cutter"},
			{URL: "https://shop.example.com/products/power-weeder", Title: "power-weeder"},
			{URL: "https://shop.example.com/products/sprayer", Title: "sprayer"},
			{URL: "https://shop.example.com/contact", Title: "contact"},
		},
	}
	g := BuildGraphFromKB(kb)

	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4", g.NodeCount())
	}

	// Every same-section edge must have a reverse edge
	for _, p := range kb.Pages {
		for _, n := range g.Neighbors(p.URL, RelationSameSection) {
			reverse := g.Neighbors(n.URL, RelationSameSection)
			found := false
			for _, r := range reverse {
				if r.URL == p.URL {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("edge %s -> %s has no reverse", p.URL, n.URL)
			}
		}
	}

	// Three product pages are pairwise linked
	neighbors := g.Neighbors("https://shop.example.com/products/brush-cutter", RelationSameSection)
	if len(neighbors) != 2 {
		t.Errorf("brush-cutter neighbors = %d, want 2", len(neighbors))
	}

	// The contact page stands alone in its section
	if n := g.Neighbors("https://shop.example.com/contact", RelationSameSection); len(n) != 0 {
		t.Errorf("contact neighbors = %d, want 0", len(n))
	}
}

func TestBuildGraphRootSection(t *testing.T) {
	kb := &models.KnowledgeBase{
		Pages: []models.Page{
			{URL: "https://shop.example.com/", Title: "home"},
			{URL: "https://shop.example.com", Title: "alias"},
		},
	}
	g := BuildGraphFromKB(kb)

	// Pages with no path segment group under the same section
	if n := g.Neighbors("https://shop.example.com/", RelationSameSection); len(n) != 1 {
		t.Errorf("root page neighbors = %d, want 1", len(n))
	}
}

func TestLinkRejectsSelfAndDuplicates(t *testing.T) {
	g := NewKnowledgeGraph()
	g.UpsertNode("a", GraphNode{Title: "a"})
	g.UpsertNode("b", GraphNode{Title: "b"})

	g.Link("a", "a", RelationSameSection)
	if n := g.Neighbors("a", ""); len(n) != 0 {
		t.Errorf("self edge stored: %v", n)
	}

	g.Link("a", "b", RelationSameSection)
	g.Link("a", "b", RelationSameSection)
	if n := g.Neighbors("a", ""); len(n) != 1 {
		t.Errorf("duplicate edge stored, neighbors = %d, want 1", len(n))
	}
}

func TestNeighborsRelationFilter(t *testing.T) {
	g := NewKnowledgeGraph()
	g.UpsertNode("a", GraphNode{})
	g.Link("a", "b", RelationSameSection)
	g.Link("a", "c", "other")

	if n := g.Neighbors("a", RelationSameSection); len(n) != 1 || n[0].URL != "b" {
		t.Errorf("filtered neighbors = %v, want only b", n)
	}
	if n := g.Neighbors("a", ""); len(n) != 2 {
		t.Errorf("unfiltered neighbors = %d, want 2", len(n))
	}
	if n := g.Neighbors("unknown", ""); len(n) != 0 {
		t.Errorf("unknown node neighbors = %d, want 0", len(n))
	}
}
