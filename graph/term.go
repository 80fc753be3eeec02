// Package graph provides the RDF triple model, the deduplicating graph
// accumulator the ontology mapper writes into, and a Turtle serializer
// whose output round-trips through its own parser.
package graph

import (
	"fmt"
	"strings"

	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// Term is one position of a triple: an IRI reference or a literal.
// Subjects and predicates are always IRIs; objects may be either.
type Term struct {
	Value    string `json:"value"`
	Literal  bool   `json:"literal,omitempty"`
	Datatype string `json:"datatype,omitempty"` // IRI, empty for plain literals
}

// IRI returns an IRI term.
func IRI(value string) Term {
	return Term{Value: value}
}

// Literal returns a plain string literal.
func Literal(value string) Term {
	return Term{Value: value, Literal: true}
}

// TypedLiteral returns a literal tagged with a datatype IRI.
func TypedLiteral(value, datatype string) Term {
	return Term{Value: value, Literal: true, Datatype: datatype}
}

// IsIRI reports whether the term is an IRI reference.
func (t Term) IsIRI() bool { return !t.Literal }

// String renders the term in N-Triples style, mainly for logs and errors.
func (t Term) String() string {
	if !t.Literal {
		return "<" + t.Value + ">"
	}
	quoted := fmt.Sprintf("%q", t.Value)
	if t.Datatype != "" {
		return quoted + "^^<" + t.Datatype + ">"
	}
	return quoted
}

// Triple is a single subject-predicate-object statement. Subject and
// Predicate hold IRIs; Object may be an IRI or a literal.
type Triple struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    Term   `json:"object"`
}

// NewTriple builds a statement from a subject IRI, predicate IRI and
// object term.
func NewTriple(subject, predicate string, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// key identifies a triple for deduplication. Two triples with the same
// key assert the same statement.
func (t Triple) key() string {
	var b strings.Builder
	b.WriteString(t.Subject)
	b.WriteByte('\x1f')
	b.WriteString(t.Predicate)
	b.WriteByte('\x1f')
	if t.Object.Literal {
		b.WriteByte('L')
		b.WriteString(t.Object.Datatype)
	} else {
		b.WriteByte('I')
	}
	b.WriteByte('\x1f')
	b.WriteString(t.Object.Value)
	return b.String()
}

// String renders the triple in N-Triples style.
func (t Triple) String() string {
	return fmt.Sprintf("<%s> <%s> %s .", t.Subject, t.Predicate, t.Object)
}

// TypeTriple asserts rdf:type of subject.
func TypeTriple(subject, classIRI string) Triple {
	return NewTriple(subject, vocabulary.RDFType, IRI(classIRI))
}
