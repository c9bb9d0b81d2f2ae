// Package rexile implements a pattern-matching library: compile a pattern
// string once into a Matcher, then run it against any number of byte
// slices. Compilation picks, per pattern, the cheapest runtime that can
// answer it correctly — an allocation-free specialized scanner, a
// capture-free NFA simulation, or a general backtracker with captures and
// lookaround — so callers never have to reason about which engine runs.
//
// Basic usage:
//
//	re, err := rexile.Compile(`\d{3}-\d{4}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if re.IsMatch([]byte("call 555-1234")) {
//	    fmt.Println("matched!")
//	}
//
// A Matcher is safe for concurrent use by multiple goroutines: compilation
// produces an immutable AST and strategy choice, and every search method
// allocates its own per-call working state.
package rexile

import (
	"sync/atomic"

	"github.com/KSD-CO/rexile/backtrack"
	"github.com/KSD-CO/rexile/classify"
	"github.com/KSD-CO/rexile/syntax"
)

// CompileOptions configures compilation. The zero value is the default:
// case-sensitive, DOTALL off, and the backtracker's built-in complexity
// guards.
type CompileOptions struct {
	// CaseInsensitive forces (?i) semantics even if the pattern string
	// doesn't set it inline.
	CaseInsensitive bool
	// DotAll forces `.` to match newlines even if the pattern doesn't set
	// it inline.
	DotAll bool
	// MaxBacktrackDepth bounds the general backtracker's recursion depth;
	// 0 selects backtrack.DefaultMaxDepth.
	MaxBacktrackDepth int
	// MaxLookbehindScan bounds a standalone lookbehind's candidate-start
	// scan; 0 selects backtrack.DefaultMaxLookbehindScan.
	MaxLookbehindScan int
	// DisableFastPath forces every search through the NFA/backtracker,
	// skipping classify's specialized scanners entirely — useful for
	// benchmarking a pattern against the general engine it would
	// otherwise never exercise.
	DisableFastPath bool
	// DisableAhoCorasick forces a MultiLiteral-shaped alternation through
	// the NFA/backtracker instead of the Aho-Corasick fast path.
	DisableAhoCorasick bool
}

// Stats tracks which runtime a Matcher's searches actually took, for
// performance analysis and debugging — mirroring coregx-coregex's
// meta.Engine.Stats(). Safe for concurrent access; a caller may read it
// while searches run on other goroutines.
type Stats struct {
	FastPathSearches    uint64
	AhoCorasickSearches uint64
	NFASearches         uint64
	BacktrackSearches   uint64
}

// Matcher is a compiled pattern, ready to search byte slices.
type Matcher struct {
	pattern  string
	compiled *classify.Matcher

	fastPathSearches    atomic.Uint64
	ahoCorasickSearches atomic.Uint64
	nfaSearches         atomic.Uint64
	backtrackSearches   atomic.Uint64
}

// recordSearch buckets one search call by the runtime classify actually
// selected for this pattern.
func (m *Matcher) recordSearch() {
	switch m.compiled.Strategy() {
	case classify.KindMultiLiteral:
		m.ahoCorasickSearches.Add(1)
	case classify.KindNFA:
		m.nfaSearches.Add(1)
	case classify.KindBacktrack:
		m.backtrackSearches.Add(1)
	default:
		m.fastPathSearches.Add(1)
	}
}

// Stats returns a snapshot of this Matcher's execution statistics.
func (m *Matcher) Stats() Stats {
	return Stats{
		FastPathSearches:    m.fastPathSearches.Load(),
		AhoCorasickSearches: m.ahoCorasickSearches.Load(),
		NFASearches:         m.nfaSearches.Load(),
		BacktrackSearches:   m.backtrackSearches.Load(),
	}
}

// ResetStats resets this Matcher's execution statistics to zero.
func (m *Matcher) ResetStats() {
	m.fastPathSearches.Store(0)
	m.ahoCorasickSearches.Store(0)
	m.nfaSearches.Store(0)
	m.backtrackSearches.Store(0)
}

// Compile parses and compiles pattern with default options.
func Compile(pattern string) (*Matcher, error) {
	return CompileWithOptions(pattern, CompileOptions{})
}

// MustCompile is Compile, but panics on error. Intended for patterns known
// valid at init time (package-level vars).
func MustCompile(pattern string) *Matcher {
	m, err := Compile(pattern)
	if err != nil {
		panic("rexile: Compile(" + pattern + "): " + err.Error())
	}
	return m
}

// CompileWithOptions parses and compiles pattern with explicit options.
func CompileWithOptions(pattern string, opts CompileOptions) (*Matcher, error) {
	p, err := syntax.Parse(pattern)
	if err != nil {
		return nil, err
	}
	if opts.CaseInsensitive {
		p.CaseInsensitive = true
	}
	if opts.DotAll {
		p.DotAll = true
	}
	btOpts := backtrack.Options{
		MaxBacktrackDepth: opts.MaxBacktrackDepth,
		MaxLookbehindScan: opts.MaxLookbehindScan,
	}
	classifyOpts := classify.Options{
		DisableFastPath:    opts.DisableFastPath,
		DisableAhoCorasick: opts.DisableAhoCorasick,
	}
	return &Matcher{pattern: pattern, compiled: classify.Compile(p, btOpts, classifyOpts)}, nil
}

// MustCompileWithOptions is CompileWithOptions, but panics on error.
func MustCompileWithOptions(pattern string, opts CompileOptions) *Matcher {
	m, err := CompileWithOptions(pattern, opts)
	if err != nil {
		panic("rexile: Compile(" + pattern + "): " + err.Error())
	}
	return m
}

// String returns the source pattern this Matcher was compiled from.
func (m *Matcher) String() string {
	return m.pattern
}

// Strategy reports which runtime this Matcher's compile chose — mainly
// useful for tests and diagnostics.
func (m *Matcher) Strategy() classify.Kind {
	return m.compiled.Strategy()
}

// NumCaptures returns the number of declared capture groups (group 0, the
// whole match, doesn't count).
func (m *Matcher) NumCaptures() int {
	return m.compiled.NumCaptures()
}

// IsMatch reports whether the pattern matches anywhere in text.
func (m *Matcher) IsMatch(text []byte) bool {
	m.recordSearch()
	return m.compiled.IsMatch(text)
}

// Find returns the byte offsets of the leftmost match in text, or
// ok == false if there is none.
func (m *Matcher) Find(text []byte) (start, end int, ok bool) {
	m.recordSearch()
	return m.compiled.Find(text)
}

// FindAll returns every non-overlapping leftmost-first match in text, as
// [start, end) pairs in strictly increasing start order.
func (m *Matcher) FindAll(text []byte) [][2]int {
	m.recordSearch()
	return m.compiled.FindAll(text)
}

// Captures returns the leftmost match's full span plus every declared
// group's span, or nil if the pattern doesn't match.
func (m *Matcher) Captures(text []byte) *backtrack.Captures {
	m.recordSearch()
	return m.compiled.FindCaptures(text)
}

// CapturesAll returns captures for every non-overlapping match in text.
func (m *Matcher) CapturesAll(text []byte) []*backtrack.Captures {
	m.recordSearch()
	return m.compiled.FindAllCaptures(text)
}

// MatchIter yields successive non-overlapping matches one at a time. Each
// call to Next drives the underlying Matcher's resumable FindFrom directly
// — no match list is precomputed, so a caller that stops early after the
// first few matches never pays for scanning (or allocating) the rest of
// text.
type MatchIter struct {
	m    *Matcher
	text []byte
	pos  int
	done bool
}

// FindIter returns a lazy iterator over text's matches: each Next call
// performs one incremental step of the search, with no per-step allocation
// beyond what that single step's strategy needs.
func (m *Matcher) FindIter(text []byte) *MatchIter {
	return &MatchIter{m: m, text: text}
}

// Next returns the next match, or ok == false once the iterator is
// exhausted.
func (it *MatchIter) Next() (start, end int, ok bool) {
	if it.done || it.pos > len(it.text) {
		return 0, 0, false
	}
	it.m.recordSearch()
	start, end, ok = it.m.compiled.FindFrom(it.text, it.pos)
	if !ok {
		it.done = true
		return 0, 0, false
	}
	if end > it.pos {
		it.pos = end
	} else {
		it.pos = start + 1
	}
	return start, end, true
}

// CapturesIter yields successive non-overlapping matches with their
// capture groups.
type CapturesIter struct {
	m    *Matcher
	text []byte
	pos  int
	done bool
}

// CapturesIter returns a lazy iterator over text's matches, each with
// capture groups populated. Like FindIter, each Next call advances the
// search by one step instead of precomputing every match up front.
func (m *Matcher) CapturesIter(text []byte) *CapturesIter {
	return &CapturesIter{m: m, text: text}
}

// Next returns the next match's captures, or ok == false once exhausted.
func (it *CapturesIter) Next() (c *backtrack.Captures, ok bool) {
	if it.done || it.pos > len(it.text) {
		return nil, false
	}
	it.m.recordSearch()
	c = it.m.compiled.FindCapturesFrom(it.text, it.pos)
	if c == nil {
		it.done = true
		return nil, false
	}
	whole := c.Spans[0]
	if whole.End > it.pos {
		it.pos = whole.End
	} else {
		it.pos = whole.Start + 1
	}
	return c, true
}
