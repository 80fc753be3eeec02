package mapper

import (
	"github.com/shahin-smv93/ontology-graph-db/graph"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// DebugSample returns a small subset of the graph for eyeballing: up to
// perClass subjects for each rdf:type class, with all their statements.
// The source graph is not modified.
func DebugSample(g *graph.Graph, perClass int) *graph.Graph {
	if perClass <= 0 {
		perClass = 2
	}

	taken := make(map[string]int)  // class IRI -> subjects taken
	picked := make(map[string]struct{})
	var subjects []string

	for _, t := range g.Triples() {
		if t.Predicate != vocabulary.RDFType || t.Object.Literal {
			continue
		}
		if _, dup := picked[t.Subject]; dup {
			continue
		}
		class := t.Object.Value
		if taken[class] >= perClass {
			continue
		}
		taken[class]++
		picked[t.Subject] = struct{}{}
		subjects = append(subjects, t.Subject)
	}
	return g.Subgraph(subjects...)
}
