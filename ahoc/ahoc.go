// Package ahoc adapts github.com/coregx/ahocorasick into the three
// operations classify's MultiLiteral fast path needs: IsMatch, Find
// (leftmost match), and FindAll (non-overlapping, increasing starts). It is
// a thin wrapper, not a reimplementation — the automaton construction and
// search algorithm live entirely in the imported package.
package ahoc

import (
	"github.com/coregx/ahocorasick"
)

// MultiLiteral finds the leftmost-first match among a fixed set of literal
// alternatives, compiled once into an Aho-Corasick automaton.
type MultiLiteral struct {
	automaton *ahocorasick.Automaton
	literals  []string
}

// New builds a MultiLiteral matcher over the given literal set. Returns an
// error if the underlying automaton fails to build (e.g. an empty set).
//
// Grounded on coregx-coregex/meta/compile.go's
// ahocorasick.NewBuilder()/AddPattern/Build call sequence.
func New(literals []string) (*MultiLiteral, error) {
	builder := ahocorasick.NewBuilder()
	for _, lit := range literals {
		builder.AddPattern([]byte(lit))
	}
	automaton, err := builder.Build()
	if err != nil {
		return nil, err
	}
	return &MultiLiteral{automaton: automaton, literals: literals}, nil
}

// IsMatch reports whether any literal occurs anywhere in haystack.
func (m *MultiLiteral) IsMatch(haystack []byte) bool {
	return m.automaton.IsMatch(haystack)
}

// Find returns the leftmost match starting at or after `at`, or (0, 0,
// false) if none exists.
//
// Grounded on coregx-coregex/meta/find.go's findAhoCorasick /
// findAhoCorasickAt (Automaton.Find(haystack, at) returning a
// {Start, End int} match).
func (m *MultiLiteral) Find(haystack []byte, at int) (start, end int, ok bool) {
	if at > len(haystack) {
		return 0, 0, false
	}
	match := m.automaton.Find(haystack, at)
	if match == nil {
		return 0, 0, false
	}
	return match.Start, match.End, true
}

// FindAll returns every non-overlapping, leftmost-first match in haystack,
// in strictly increasing start-position order. A zero-width match (not
// reachable here, since every MultiLiteral alternative is non-empty) would
// advance by one byte to guarantee termination.
func (m *MultiLiteral) FindAll(haystack []byte) [][2]int {
	var out [][2]int
	pos := 0
	for pos <= len(haystack) {
		start, end, ok := m.Find(haystack, pos)
		if !ok {
			break
		}
		out = append(out, [2]int{start, end})
		if end > pos {
			pos = end
		} else {
			pos++
		}
	}
	return out
}

// Literals returns the literal set this matcher was built from.
func (m *MultiLiteral) Literals() []string {
	return m.literals
}
