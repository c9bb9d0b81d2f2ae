// Package classify walks a compiled syntax.Pattern and selects which
// runtime does the matching: one of the specialized, allocation-free
// scanners when the AST has a recognizable shape, the capture-free NFA
// epsilon-closure simulator (package nfa) for variable-length patterns
// that still need no captures, or the general backtracker (package
// backtrack) otherwise.
//
// Grounded on coregx-coregex/meta/compile.go's staged pipeline (parse,
// extract literals, select a strategy, fall back to the general engine)
// and coregx-coregex/meta/anchored_literal.go's O(1) anchored-literal
// comparison idiom — re-scoped away from a DFA/Teddy/reverse-search
// strategy set down to exactly the dispatch catalogue this module targets
// (see DESIGN.md's scope note).
package classify

import (
	"github.com/KSD-CO/rexile/ahoc"
	"github.com/KSD-CO/rexile/backtrack"
	"github.com/KSD-CO/rexile/chars"
	"github.com/KSD-CO/rexile/nfa"
	"github.com/KSD-CO/rexile/simd"
	"github.com/KSD-CO/rexile/syntax"
)

// Kind names the strategy a Matcher was built with; exported mainly for
// diagnostics and tests.
type Kind int

const (
	KindBacktrack Kind = iota
	KindNFA
	KindLiteral
	KindMultiLiteral
	KindAnchoredLiteral
	KindPredicateRun
	KindQuotedString
	KindIdentifierRun
	KindLiteralPlusWhitespace
	KindLiteralPlusDigits
	KindLiteralPlusWord
	KindLiteralPlusQuotedString
)

func (k Kind) String() string {
	switch k {
	case KindBacktrack:
		return "Backtrack"
	case KindNFA:
		return "NFA"
	case KindLiteral:
		return "Literal"
	case KindMultiLiteral:
		return "MultiLiteral"
	case KindAnchoredLiteral:
		return "AnchoredLiteral"
	case KindPredicateRun:
		return "PredicateRun"
	case KindQuotedString:
		return "QuotedString"
	case KindIdentifierRun:
		return "IdentifierRun"
	case KindLiteralPlusWhitespace:
		return "LiteralPlusWhitespace"
	case KindLiteralPlusDigits:
		return "LiteralPlusDigits"
	case KindLiteralPlusWord:
		return "LiteralPlusWord"
	case KindLiteralPlusQuotedString:
		return "LiteralPlusQuotedString"
	default:
		return "Unknown"
	}
}

// Matcher is classify's output: a chosen fast-path strategy plus an
// always-present backtracking fallback that serves capture extraction
// regardless of which strategy answers IsMatch/Find/FindAll.
type Matcher struct {
	kind Kind

	// KindLiteral / KindAnchoredLiteral / KindLiteralPlus*
	lit                    string
	anchorStart, anchorEnd bool

	// KindMultiLiteral
	ml *ahoc.MultiLiteral

	// KindPredicateRun / KindIdentifierRun / KindLiteralPlusWhitespace /
	// KindLiteralPlusDigits / KindLiteralPlusWord
	pred     func(byte) bool
	min, max int

	// KindQuotedString / KindLiteralPlusQuotedString
	delim byte
	class *chars.ClassSet
	qmin  int

	// KindNFA
	vm *nfa.VM

	// always present: the correctness fallback, and the source pattern's
	// capture count.
	bt          *backtrack.Matcher
	numCaptures int
}

// Options gates which fast paths Compile may select, mirroring
// coregx-coregex's meta.Config EnableDFA/EnablePrefilter toggles — useful
// for debugging and for benchmarking a pattern against the general engine
// it would otherwise never take.
type Options struct {
	DisableFastPath    bool
	DisableAhoCorasick bool
}

// Compile selects a Matcher strategy for p.
func Compile(p *syntax.Pattern, btOpts backtrack.Options, opts Options) *Matcher {
	bt := backtrack.New(p, btOpts)
	m := &Matcher{bt: bt, numCaptures: p.NumCaptures}

	if p.NumCaptures > 0 {
		m.kind = KindBacktrack
		return m
	}

	if !opts.DisableFastPath {
		tries := []func(*syntax.Pattern) *Matcher{tryLiteral}
		if !opts.DisableAhoCorasick {
			tries = append(tries, tryMultiLiteral)
		}
		tries = append(tries,
			tryAnchoredLiteral,
			tryLiteralPlusRun,
			tryLiteralPlusQuotedString,
			tryPredicateRun,
			tryQuotedString,
			tryIdentifierRun,
		)
		for _, try := range tries {
			if shape := try(p); shape != nil {
				shape.bt, shape.numCaptures = bt, p.NumCaptures
				return shape
			}
		}
	}
	if nfa.CanCompile(p.Root) {
		m.kind = KindNFA
		m.vm = nfa.NewVM(nfa.Compile(p.Root, p.CaseInsensitive, p.DotAll))
		return m
	}

	m.kind = KindBacktrack
	return m
}

// Strategy reports which shape was selected.
func (m *Matcher) Strategy() Kind { return m.kind }

// IsMatch reports whether the pattern matches anywhere in text.
func (m *Matcher) IsMatch(text []byte) bool {
	_, _, ok := m.Find(text)
	return ok
}

// Find returns the leftmost match in text.
func (m *Matcher) Find(text []byte) (start, end int, ok bool) {
	return m.FindFrom(text, 0)
}

// FindFrom returns the leftmost match starting at or after from, without
// re-scanning text[:from]. This is what drives a resumable, allocation-
// light find-iterator instead of the re-slice-and-restart approach a naive
// FindAll loop would take.
//
// KindAnchoredLiteral is a deliberate, scoped exception: ^ and $ pin to the
// true start/end of the original text, so at most one match can ever
// exist. FindFrom honors that by only ever matching when from == 0 —
// reinterpreting a later position as the anchor would be wrong, not just
// non-lazy.
func (m *Matcher) FindFrom(text []byte, from int) (start, end int, ok bool) {
	switch m.kind {
	case KindLiteral:
		return findLiteral(text, m.lit, from)
	case KindMultiLiteral:
		return m.ml.Find(text, from)
	case KindAnchoredLiteral:
		if from > 0 {
			return 0, 0, false
		}
		return findAnchoredLiteral(text, m.lit, m.anchorStart, m.anchorEnd)
	case KindPredicateRun:
		return findPredicateRun(text, m.pred, m.min, m.max, from)
	case KindQuotedString:
		return findQuotedString(text, m.delim, m.class, m.qmin, from)
	case KindIdentifierRun:
		return findIdentifierRun(text, from)
	case KindLiteralPlusWhitespace, KindLiteralPlusDigits, KindLiteralPlusWord:
		return findLiteralPlusRun(text, m.lit, m.pred, m.min, m.max, from)
	case KindLiteralPlusQuotedString:
		return findLiteralPlusQuotedString(text, m.lit, m.delim, m.class, m.qmin, from)
	case KindNFA:
		return m.vm.Find(text, from)
	default:
		return m.bt.FindFrom(text, from)
	}
}

// FindAll returns every non-overlapping leftmost-first match.
func (m *Matcher) FindAll(text []byte) [][2]int {
	switch m.kind {
	case KindMultiLiteral:
		return m.ml.FindAll(text)
	case KindNFA:
		return m.vm.FindAll(text)
	case KindBacktrack:
		return m.bt.FindAll(text)
	case KindAnchoredLiteral:
		if start, end, ok := findAnchoredLiteral(text, m.lit, m.anchorStart, m.anchorEnd); ok {
			return [][2]int{{start, end}}
		}
		return nil
	default:
		return findAllGeneric(text, m.FindFrom)
	}
}

func findAllGeneric(text []byte, findFrom func([]byte, int) (int, int, bool)) [][2]int {
	var out [][2]int
	pos := 0
	for pos <= len(text) {
		start, end, ok := findFrom(text, pos)
		if !ok {
			break
		}
		out = append(out, [2]int{start, end})
		if end > pos {
			pos = end
		} else {
			pos = start + 1
		}
	}
	return out
}

// NumCaptures returns the number of declared capture groups.
func (m *Matcher) NumCaptures() int { return m.numCaptures }

// FindCaptures always defers to the general backtracker: fast shapes never
// track capture positions.
func (m *Matcher) FindCaptures(text []byte) *backtrack.Captures {
	return m.bt.FindCaptures(text)
}

// FindCapturesFrom is FindCaptures starting the search at or after from, for
// a resumable captures-iterator.
func (m *Matcher) FindCapturesFrom(text []byte, from int) *backtrack.Captures {
	return m.bt.FindCapturesFrom(text, from)
}

// FindAllCaptures always defers to the general backtracker.
func (m *Matcher) FindAllCaptures(text []byte) []*backtrack.Captures {
	return m.bt.FindAllCaptures(text)
}

func findLiteral(text []byte, lit string, from int) (int, int, bool) {
	if len(lit) == 0 || from > len(text) {
		return 0, 0, false
	}
	idx := simd.Memmem(text[from:], []byte(lit))
	if idx < 0 {
		return 0, 0, false
	}
	start := from + idx
	return start, start + len(lit), true
}
