package graph

import (
	"sort"

	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Graph accumulates distinct triples in first-insertion order and carries
// the prefix bindings used when serializing. Adding a triple that is
// already present is a no-op, so the mapper can emit freely while the
// graph stays duplicate-free.
//
// Graph is not safe for concurrent writers; the mapper populates it from
// a single goroutine.
type Graph struct {
	triples  []Triple
	seen     map[string]struct{}
	bindings []vocabulary.Binding
	prefixes map[string]struct{}
}

// New returns an empty graph carrying the standard namespace bindings.
func New() *Graph {
	g := &Graph{
		seen:     make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
	for _, b := range vocabulary.StandardBindings() {
		g.Bind(b.Prefix, b.Namespace)
	}
	return g
}

// NewBare returns an empty graph with no bindings, for callers that
// manage their own prefix set.
func NewBare() *Graph {
	return &Graph{
		seen:     make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
}

// Bind registers a prefix for a namespace. Rebinding an existing prefix
// is ignored so the standard set cannot be shadowed by dataset config.
func (g *Graph) Bind(prefix string, ns vocabulary.Namespace) {
	if _, dup := g.prefixes[prefix]; dup {
		return
	}
	g.prefixes[prefix] = struct{}{}
	g.bindings = append(g.bindings, vocabulary.Binding{Prefix: prefix, Namespace: ns})
}

// Bindings returns the registered bindings sorted by prefix.
func (g *Graph) Bindings() []vocabulary.Binding {
	out := make([]vocabulary.Binding, len(g.bindings))
	copy(out, g.bindings)
	sort.Slice(out, func(i, j int) bool { return out[i].Prefix < out[j].Prefix })
	return out
}

// Add inserts a triple, reporting whether it was new.
func (g *Graph) Add(t Triple) bool {
	k := t.key()
	if _, dup := g.seen[k]; dup {
		return false
	}
	g.seen[k] = struct{}{}
	g.triples = append(g.triples, t)
	return true
}

// AddAll inserts a batch of triples and returns how many were new.
func (g *Graph) AddAll(triples []Triple) int {
	added := 0
	for _, t := range triples {
		if g.Add(t) {
			added++
		}
	}
	return added
}

// Has reports whether the exact statement is present.
func (g *Graph) Has(t Triple) bool {
	_, ok := g.seen[t.key()]
	return ok
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int { return len(g.triples) }

// Triples returns the statements in insertion order. The slice is a copy;
// the terms are values, so callers cannot mutate the graph through it.
func (g *Graph) Triples() []Triple {
	out := make([]Triple, len(g.triples))
	copy(out, g.triples)
	return out
}

// BySubject returns all statements about one subject, in insertion order.
func (g *Graph) BySubject(subject string) []Triple {
	var out []Triple
	for _, t := range g.triples {
		if t.Subject == subject {
			out = append(out, t)
		}
	}
	return out
}

// Subjects returns the distinct subject IRIs in first-appearance order.
func (g *Graph) Subjects() []string {
	seen := make(map[string]struct{}, len(g.triples))
	var out []string
	for _, t := range g.triples {
		if _, dup := seen[t.Subject]; dup {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// Subgraph returns a new graph holding only statements whose subject is
// in the given set, carrying over every binding. The receiver is not
// modified.
func (g *Graph) Subgraph(subjects ...string) *Graph {
	want := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		want[s] = struct{}{}
	}
	sub := NewBare()
	for _, b := range g.bindings {
		sub.Bind(b.Prefix, b.Namespace)
	}
	for _, t := range g.triples {
		if _, ok := want[t.Subject]; ok {
			sub.Add(t)
		}
	}
	return sub
}
