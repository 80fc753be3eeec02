package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shahin-smv93/ontology-graph-db/errors"
	"github.com/shahin-smv93/ontology-graph-db/vocabulary"
)

// EncodeTurtle writes the graph in Turtle. Output is deterministic for a
// given graph: prefixes sorted, subjects in first-appearance order,
// statements per subject in insertion order. Parsing the output with
// DecodeTurtle yields a graph with the same statement set.
func (g *Graph) EncodeTurtle(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, b := range g.Bindings() {
		if _, err := fmt.Fprintf(bw, "@prefix %s: <%s> .\n", b.Prefix, b.Namespace); err != nil {
			return errors.Wrap(err, "graph", "EncodeTurtle", "write prefix")
		}
	}
	for _, subject := range g.Subjects() {
		if _, err := fmt.Fprintln(bw); err != nil {
			return errors.Wrap(err, "graph", "EncodeTurtle", "write statement")
		}
		stmts := g.BySubject(subject)
		if _, err := fmt.Fprintf(bw, "%s ", g.compact(subject)); err != nil {
			return errors.Wrap(err, "graph", "EncodeTurtle", "write statement")
		}
		for i, t := range stmts {
			sep := " ;\n    "
			if i == len(stmts)-1 {
				sep = " .\n"
			}
			if _, err := fmt.Fprintf(bw, "%s %s%s", g.compact(t.Predicate), g.object(t.Object), sep); err != nil {
				return errors.Wrap(err, "graph", "EncodeTurtle", "write statement")
			}
		}
	}
	if err := bw.Flush(); err != nil {
		return errors.Wrap(err, "graph", "EncodeTurtle", "flush")
	}
	return nil
}

// compact renders an IRI as prefix:local when a binding covers it and the
// local part is safe as a prefixed name, falling back to <iri>.
func (g *Graph) compact(iri string) string {
	best := ""
	bestNS := ""
	for _, b := range g.bindings {
		ns := string(b.Namespace)
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			local := iri[len(ns):]
			if localNameSafe(local) {
				best = b.Prefix + ":" + local
				bestNS = ns
			}
		}
	}
	if best != "" {
		return best
	}
	return "<" + iri + ">"
}

// localNameSafe reports whether local can appear after a prefix without
// escaping. Conservative: anything outside a simple identifier charset
// falls back to a full IRI reference.
func localNameSafe(local string) bool {
	if local == "" || strings.ContainsAny(local, "/#:") {
		return false
	}
	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_':
		case r >= '0' && r <= '9', r == '-', r == '.':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return !strings.HasSuffix(local, ".")
}

func (g *Graph) object(t Term) string {
	if !t.Literal {
		return g.compact(t.Value)
	}
	quoted := `"` + escapeLiteral(t.Value) + `"`
	if t.Datatype != "" {
		return quoted + "^^" + g.compact(t.Datatype)
	}
	return quoted
}

func escapeLiteral(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return r.Replace(s)
}

// DecodeTurtle parses the Turtle subset EncodeTurtle produces: prefix
// directives, prefixed names, IRI references, and string literals with
// optional datatypes. It accepts `;` and `,` continuations. Blank nodes
// and collections are not supported.
func DecodeTurtle(r io.Reader) (*Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "graph", "DecodeTurtle", "read input")
	}
	p := &turtleParser{input: string(data), graph: NewBare()}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.graph, nil
}

type turtleParser struct {
	input string
	pos   int
	graph *Graph
}

func (p *turtleParser) run() error {
	for {
		p.skipSpace()
		if p.pos >= len(p.input) {
			return nil
		}
		if strings.HasPrefix(p.input[p.pos:], "@prefix") {
			if err := p.prefix(); err != nil {
				return err
			}
			continue
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

func (p *turtleParser) skipSpace() {
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '#' {
			for p.pos < len(p.input) && p.input[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return
		}
		p.pos++
	}
}

func (p *turtleParser) errorf(format string, args ...any) error {
	return errors.WrapMapping(
		fmt.Errorf(format+" at offset %d", append(args, p.pos)...),
		"graph", "DecodeTurtle", "parse turtle",
	)
}

func (p *turtleParser) prefix() error {
	p.pos += len("@prefix")
	p.skipSpace()
	end := strings.IndexByte(p.input[p.pos:], ':')
	if end < 0 {
		return p.errorf("malformed prefix directive")
	}
	prefix := strings.TrimSpace(p.input[p.pos : p.pos+end])
	p.pos += end + 1
	p.skipSpace()
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.skipSpace()
	if p.pos >= len(p.input) || p.input[p.pos] != '.' {
		return p.errorf("prefix directive missing terminator")
	}
	p.pos++
	p.graph.Bind(prefix, vocabulary.Namespace(iri))
	return nil
}

func (p *turtleParser) statement() error {
	subject, err := p.iri()
	if err != nil {
		return err
	}
	for {
		p.skipSpace()
		predicate, err := p.iri()
		if err != nil {
			return err
		}
		for {
			p.skipSpace()
			object, err := p.term()
			if err != nil {
				return err
			}
			p.graph.Add(Triple{Subject: subject, Predicate: predicate, Object: object})
			p.skipSpace()
			if p.pos < len(p.input) && p.input[p.pos] == ',' {
				p.pos++
				continue
			}
			break
		}
		if p.pos < len(p.input) && p.input[p.pos] == ';' {
			p.pos++
			p.skipSpace()
			// A trailing ; before . is tolerated.
			if p.pos < len(p.input) && p.input[p.pos] == '.' {
				p.pos++
				return nil
			}
			continue
		}
		if p.pos < len(p.input) && p.input[p.pos] == '.' {
			p.pos++
			return nil
		}
		return p.errorf("statement missing terminator")
	}
}

// term parses an object position: IRI, prefixed name, or literal.
func (p *turtleParser) term() (Term, error) {
	if p.pos < len(p.input) && p.input[p.pos] == '"' {
		return p.literal()
	}
	iri, err := p.iri()
	if err != nil {
		return Term{}, err
	}
	return IRI(iri), nil
}

// iri parses an IRI reference or a prefixed name and expands it.
func (p *turtleParser) iri() (string, error) {
	if p.pos < len(p.input) && p.input[p.pos] == '<' {
		return p.iriRef()
	}
	start := p.pos
	for p.pos < len(p.input) && !isTerminator(p.input[p.pos]) {
		p.pos++
	}
	name := p.input[start:p.pos]
	colon := strings.IndexByte(name, ':')
	if colon < 0 {
		return "", p.errorf("expected IRI or prefixed name, got %q", name)
	}
	prefix, local := name[:colon], name[colon+1:]
	for _, b := range p.graph.bindings {
		if b.Prefix == prefix {
			return string(b.Namespace) + local, nil
		}
	}
	return "", p.errorf("undeclared prefix %q", prefix)
}

func (p *turtleParser) iriRef() (string, error) {
	if p.pos >= len(p.input) || p.input[p.pos] != '<' {
		return "", p.errorf("expected IRI reference")
	}
	end := strings.IndexByte(p.input[p.pos:], '>')
	if end < 0 {
		return "", p.errorf("unterminated IRI reference")
	}
	iri := p.input[p.pos+1 : p.pos+end]
	p.pos += end + 1
	return iri, nil
}

func (p *turtleParser) literal() (Term, error) {
	var b strings.Builder
	p.pos++ // opening quote
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '\\' && p.pos+1 < len(p.input) {
			switch p.input[p.pos+1] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				return Term{}, p.errorf("unsupported escape \\%c", p.input[p.pos+1])
			}
			p.pos += 2
			continue
		}
		if c == '"' {
			p.pos++
			if strings.HasPrefix(p.input[p.pos:], "^^") {
				p.pos += 2
				dt, err := p.iri()
				if err != nil {
					return Term{}, err
				}
				return TypedLiteral(b.String(), dt), nil
			}
			return Literal(b.String()), nil
		}
		b.WriteByte(c)
		p.pos++
	}
	return Term{}, p.errorf("unterminated literal")
}

func isTerminator(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', ';', ',':
		return true
	}
	return false
}
