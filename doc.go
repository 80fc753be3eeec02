// Package ontologygraphdb maps flat building and sensor inventory records
// into an RDF knowledge graph through a two-stage pipeline.
//
// # Pipeline
//
// Stage 1 - Hierarchical transform (transform package):
//   - Records are validated against a declarative mapping configuration
//   - A dataset adapter extracts typed entity descriptors per record
//   - Descriptors merge into one identity-keyed hierarchy: the same
//     building, room or sensor across many records becomes one node
//
// Stage 2 - Ontology mapping (mapper package):
//   - The hierarchy is walked in a fixed order, coarsest entities first
//   - Each entity emits an atomic batch of subject-predicate-object
//     triples into a deduplicating graph
//   - The graph serializes to deterministic Turtle that round-trips
//     through the package's own parser
//
//	records (JSON) → transform.Engine → entity.Hierarchy
//	                                       ↓
//	                  mapper.Engine → graph.Graph → Turtle
//
// # Packages
//
//   - config: mapping configuration, canonical field vocabulary, flags
//   - identity: deterministic identity URI resolution
//   - entity: typed domain entities and the identity-keyed hierarchy
//   - transform: record validation, extraction and merge
//   - mapper: fixed-order triple emission over the hierarchy
//   - graph: triple model, dedup accumulator, Turtle codec
//   - vocabulary: ontology namespaces, classes, predicates, sensor types
//   - dataset/concordia: the Concordia campus dataset adapter
//   - metric: Prometheus pipeline metrics
//   - errors: classified error handling across the pipeline
//
// The engines are dataset-agnostic: a new data source implements the
// transform.Dataset and mapper.Dataset contracts (usually by embedding
// mapper.Base) and reuses validation, merge semantics, ordering and
// serialization unchanged.
package ontologygraphdb
