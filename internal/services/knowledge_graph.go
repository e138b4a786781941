package services

import (
	"net/url"
	"strings"

	"agristore/internal/models"
)

// RelationSameSection links two pages sharing the first URL path segment.
const RelationSameSection = "same-section"

// GraphNode carries the page data stored per graph node.
type GraphNode struct {
	Type   string   `json:"type"`
	Title  string   `json:"title"`
	Topics []string `json:"topics"`
	CTAs   []string `json:"ctas"`
}

// GraphEdge is a directed, labeled edge to another page.
type GraphEdge struct {
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// Neighbor is one result of a neighbors query.
type Neighbor struct {
	URL      string
	Relation string
	Node     GraphNode
}

// KnowledgeGraph is a lightweight in-memory adjacency graph over KB pages.
// Derived from the knowledge base; rebuilt whenever the KB is rebuilt.
type KnowledgeGraph struct {
	nodes map[string]GraphNode
	edges map[string][]GraphEdge
}

// NewKnowledgeGraph creates an empty graph
func NewKnowledgeGraph() *KnowledgeGraph {
	return &KnowledgeGraph{
		nodes: make(map[string]GraphNode),
		edges: make(map[string][]GraphEdge),
	}
}

// UpsertNode inserts or replaces a node keyed by page URL.
func (g *KnowledgeGraph) UpsertNode(id string, data GraphNode) {
	g.nodes[id] = data
	if _, ok := g.edges[id]; !ok {
		g.edges[id] = nil
	}
}

// Link adds a directed edge. Duplicate (target, relation) pairs are ignored.
func (g *KnowledgeGraph) Link(from, to, relation string) {
	if from == to {
		return
	}
	if _, ok := g.nodes[from]; !ok {
		g.UpsertNode(from, GraphNode{})
	}
	if _, ok := g.nodes[to]; !ok {
		g.UpsertNode(to, GraphNode{})
	}
	for _, e := range g.edges[from] {
		if e.Target == to && e.Relation == relation {
			return
		}
	}
	g.edges[from] = append(g.edges[from], GraphEdge{Target: to, Relation: relation})
}

// Neighbors returns outgoing edges from id, optionally filtered to a single
// relation. Unknown ids yield an empty slice.
func (g *KnowledgeGraph) Neighbors(id, relationFilter string) []Neighbor {
	var results []Neighbor
	for _, e := range g.edges[id] {
		if relationFilter != "" && e.Relation != relationFilter {
			continue
		}
		results = append(results, Neighbor{
			URL:      e.Target,
			Relation: e.Relation,
			Node:     g.nodes[e.Target],
		})
	}
	return results
}

// NodeCount returns the number of nodes in the graph.
func (g *KnowledgeGraph) NodeCount() int {
	return len(g.nodes)
}

// BuildGraphFromKB indexes KB pages and links pages sharing the first URL path
// segment with symmetric same-section edges.
func BuildGraphFromKB(kb *models.KnowledgeBase) *KnowledgeGraph {
	g := NewKnowledgeGraph()
	if kb == nil {
		return g
	}

	for _, p := range kb.Pages {
		g.UpsertNode(p.URL, GraphNode{
			Type:   "page",
			Title:  p.Title,
			Topics: p.Topics,
			CTAs:   p.CTAs,
		})
	}

	bySegment := make(map[string][]string)
	for _, p := range kb.Pages {
		seg := firstPathSegment(p.URL)
		bySegment[seg] = append(bySegment[seg], p.URL)
	}

	for _, urls := range bySegment {
		for i := 0; i < len(urls); i++ {
			for j := i + 1; j < len(urls); j++ {
				g.Link(urls[i], urls[j], RelationSameSection)
				g.Link(urls[j], urls[i], RelationSameSection)
			}
		}
	}

	return g
}

// firstPathSegment groups pages with no path segment under "root".
func firstPathSegment(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "root"
	}
	trimmed := strings.Trim(parsed.Path, "/")
	if trimmed == "" {
		return "root"
	}
	return strings.SplitN(trimmed, "/", 2)[0]
}
