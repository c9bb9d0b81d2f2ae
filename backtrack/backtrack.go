// Package backtrack implements a general recursive backtracking matcher,
// its capture extractor, and lookaround evaluation. It is the matcher of
// last resort: classify routes to it whenever a pattern declares capture
// groups, contains lookaround, or needs greedy-vs-lazy tie-breaking that
// the capture-free NFA engine (package nfa) cannot express.
//
// Unlike coregx-coregex/nfa/backtrack.go's BoundedBacktracker, which walks
// a pre-compiled NFA's states, this backtracker walks the syntax.Node AST
// directly: elements carry candidate consume-lengths tried in priority
// order against a continuation, rather than compiled automaton states, so
// that is the substrate adapted here.
package backtrack

import (
	"github.com/KSD-CO/rexile/chars"
	"github.com/KSD-CO/rexile/syntax"
)

// DefaultMaxDepth bounds recursion, protecting against pathologically
// complex patterns.
const DefaultMaxDepth = 10000

// DefaultMaxLookbehindScan bounds the O(p) candidate-start scan of a
// standalone lookbehind.
const DefaultMaxLookbehindScan = 4096

// Matcher is a general backtracking matcher for one compiled pattern.
type Matcher struct {
	root            *syntax.Node
	numCaptures     int
	caseInsensitive bool
	dotAll          bool
	maxDepth        int
	maxLookbehind   int
}

// Options configures a Matcher; all fields have sane zero-value-free
// defaults applied by New.
type Options struct {
	MaxBacktrackDepth int
	MaxLookbehindScan int
}

// New builds a backtracking Matcher for pattern p.
func New(p *syntax.Pattern, opts Options) *Matcher {
	if opts.MaxBacktrackDepth <= 0 {
		opts.MaxBacktrackDepth = DefaultMaxDepth
	}
	if opts.MaxLookbehindScan <= 0 {
		opts.MaxLookbehindScan = DefaultMaxLookbehindScan
	}
	return &Matcher{
		root:            p.Root,
		numCaptures:     p.NumCaptures,
		caseInsensitive: p.CaseInsensitive,
		dotAll:          p.DotAll,
		maxDepth:        opts.MaxBacktrackDepth,
		maxLookbehind:   opts.MaxLookbehindScan,
	}
}

// NumCaptures returns the number of declared capture groups (not counting
// the whole-match slot 0).
func (m *Matcher) NumCaptures() int {
	return m.numCaptures
}

// continuation is what an element tries after it matches: "given I ended at
// this position, can the rest of the pattern succeed?" Every element
// dispatch function tries its own candidate end positions against cont,
// in priority order, and returns the first one that lets cont succeed —
// this is the backtracking itself.
type continuation func(pos int) (int, bool)

// matchCtx carries per-search mutable state: the input text, the capture
// slot table, and the recursion-depth budget.
type matchCtx struct {
	text  []byte
	caps  []int // len == 2*(numCaptures+1); -1 means unset
	ci    bool
	dotAl bool
	depth int
	max   int
}

func (m *Matcher) newCtx(text []byte) *matchCtx {
	caps := make([]int, 2*(m.numCaptures+1))
	for i := range caps {
		caps[i] = -1
	}
	return &matchCtx{text: text, caps: caps, ci: m.caseInsensitive, dotAl: m.dotAll, max: m.maxDepth}
}

func (ctx *matchCtx) resetCaps() {
	for i := range ctx.caps {
		ctx.caps[i] = -1
	}
	ctx.depth = 0
}

// identity is the continuation used at the top of a search attempt: "the
// whole pattern matched, ending here."
func identity(pos int) (int, bool) { return pos, true }

func elemsOf(n *syntax.Node) []*syntax.Node {
	if n.Kind == syntax.KindSequence {
		return n.Elems
	}
	return []*syntax.Node{n}
}

// IsMatch reports whether the pattern matches anywhere in text.
func (m *Matcher) IsMatch(text []byte) bool {
	_, _, ok := m.Find(text)
	return ok
}

// Find returns the leftmost match in text.
func (m *Matcher) Find(text []byte) (start, end int, ok bool) {
	return m.findFrom(text, 0)
}

// FindFrom returns the leftmost match starting at or after from, without
// re-scanning text[:from]. Used by classify's resumable find-iterator.
func (m *Matcher) FindFrom(text []byte, from int) (start, end int, ok bool) {
	return m.findFrom(text, from)
}

// findFrom finds the leftmost match starting at or after `from`.
func (m *Matcher) findFrom(text []byte, from int) (start, end int, ok bool) {
	ctx := m.newCtx(text)
	elems := elemsOf(m.root)
	for pos := from; pos <= len(text); pos++ {
		ctx.resetCaps()
		if endPos, matched := m.matchSeq(ctx, elems, 0, pos, identity); matched {
			return pos, endPos, true
		}
	}
	return 0, 0, false
}

// FindAll returns every non-overlapping leftmost-first match in text, in
// strictly increasing start order.
func (m *Matcher) FindAll(text []byte) [][2]int {
	var out [][2]int
	pos := 0
	for pos <= len(text) {
		start, end, ok := m.findFrom(text, pos)
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

// Captures holds the full match span plus each declared capture group's
// span (unset groups carry Matched == false).
type Captures struct {
	Spans []Span
}

// Span is a half-open [Start, End) byte range; Matched is false when the
// corresponding group lies in an unmatched alternation branch.
type Span struct {
	Start, End int
	Matched    bool
}

// Group returns the byte span for group i (0 = whole match).
func (c *Captures) Group(i int) (Span, bool) {
	if i < 0 || i >= len(c.Spans) {
		return Span{}, false
	}
	return c.Spans[i], true
}

// FindCaptures returns the leftmost match with capture spans, or nil if no
// match exists.
func (m *Matcher) FindCaptures(text []byte) *Captures {
	return m.findCapturesFrom(text, 0)
}

// FindCapturesFrom is FindCaptures starting the search at or after from.
func (m *Matcher) FindCapturesFrom(text []byte, from int) *Captures {
	return m.findCapturesFrom(text, from)
}

func (m *Matcher) findCapturesFrom(text []byte, from int) *Captures {
	ctx := m.newCtx(text)
	elems := elemsOf(m.root)
	for pos := from; pos <= len(text); pos++ {
		ctx.resetCaps()
		if end, matched := m.matchSeq(ctx, elems, 0, pos, identity); matched {
			ctx.caps[0], ctx.caps[1] = pos, end
			return capturesFromSlots(ctx.caps)
		}
	}
	return nil
}

// FindAllCaptures returns captures for every non-overlapping match.
func (m *Matcher) FindAllCaptures(text []byte) []*Captures {
	var out []*Captures
	pos := 0
	for pos <= len(text) {
		c := m.findCapturesFrom(text, pos)
		if c == nil {
			break
		}
		out = append(out, c)
		whole := c.Spans[0]
		if whole.End > pos {
			pos = whole.End
		} else {
			pos = whole.Start + 1
		}
	}
	return out
}

func capturesFromSlots(caps []int) *Captures {
	spans := make([]Span, len(caps)/2)
	for i := range spans {
		s, e := caps[2*i], caps[2*i+1]
		if s < 0 || e < 0 {
			spans[i] = Span{}
			continue
		}
		spans[i] = Span{Start: s, End: e, Matched: true}
	}
	return &Captures{Spans: spans}
}

// matchSeq matches elems[idx:] starting at pos, finally invoking cont. This
// is the spine of the backtracker: every element gets a chance to try its
// own candidate end positions, each paired with "can everything after me
// still succeed."
func (m *Matcher) matchSeq(ctx *matchCtx, elems []*syntax.Node, idx, pos int, cont continuation) (int, bool) {
	ctx.depth++
	defer func() { ctx.depth-- }()
	if ctx.depth > ctx.max {
		return 0, false
	}
	if idx == len(elems) {
		return cont(pos)
	}
	e := elems[idx]
	rest := func(end int) (int, bool) {
		return m.matchSeq(ctx, elems, idx+1, end, cont)
	}
	return m.matchElement(ctx, e, pos, rest)
}

// matchElement matches a single AST node (possibly quantified) at pos,
// then hands off to cont.
func (m *Matcher) matchElement(ctx *matchCtx, e *syntax.Node, pos int, cont continuation) (int, bool) {
	if e.Quant != nil {
		return m.matchQuantified(ctx, e, pos, cont)
	}
	return m.dispatch(ctx, e, pos, cont)
}

// dispatch matches one unquantified AST node exactly once.
func (m *Matcher) dispatch(ctx *matchCtx, e *syntax.Node, pos int, cont continuation) (int, bool) {
	text := ctx.text
	switch e.Kind {
	case syntax.KindLiteral:
		lit := e.Literal
		if pos+len(lit) > len(text) {
			return 0, false
		}
		if ctx.ci {
			if !foldEqual(text[pos:pos+len(lit)], lit) {
				return 0, false
			}
		} else if string(text[pos:pos+len(lit)]) != lit {
			return 0, false
		}
		return cont(pos + len(lit))

	case syntax.KindCharClass:
		if pos >= len(text) || !classContains(e.Class, text[pos], ctx.ci) {
			return 0, false
		}
		return cont(pos + 1)

	case syntax.KindDigit:
		return matchByte(ctx, pos, chars.IsDigit, false, cont)
	case syntax.KindNotDigit:
		return matchByte(ctx, pos, chars.IsDigit, true, cont)
	case syntax.KindWord:
		return matchByte(ctx, pos, chars.IsWord, false, cont)
	case syntax.KindNotWord:
		return matchByte(ctx, pos, chars.IsWord, true, cont)
	case syntax.KindSpace:
		return matchByte(ctx, pos, chars.IsSpace, false, cont)
	case syntax.KindNotSpace:
		return matchByte(ctx, pos, chars.IsSpace, true, cont)

	case syntax.KindDot:
		if pos >= len(text) {
			return 0, false
		}
		if text[pos] == '\n' && !ctx.dotAl {
			return 0, false
		}
		return cont(pos + chars.RuneWidth(text[pos:]))

	case syntax.KindAnchorStart:
		if pos != 0 {
			return 0, false
		}
		return cont(pos)
	case syntax.KindAnchorEnd:
		if pos != len(text) {
			return 0, false
		}
		return cont(pos)
	case syntax.KindWordBoundary:
		if !chars.WordBoundary(text, pos) {
			return 0, false
		}
		return cont(pos)
	case syntax.KindNotWordBoundary:
		if chars.WordBoundary(text, pos) {
			return 0, false
		}
		return cont(pos)

	case syntax.KindSequence:
		return m.matchSeq(ctx, e.Elems, 0, pos, cont)

	case syntax.KindGroup:
		return m.matchGroup(ctx, e, pos, cont)

	case syntax.KindAlternation:
		for _, branch := range e.Elems {
			if end, ok := m.matchSeq(ctx, elemsOf(branch), 0, pos, cont); ok {
				return end, ok
			}
		}
		return 0, false

	case syntax.KindLookaround:
		if !m.evalLookaround(ctx, e, pos) {
			return 0, false
		}
		return cont(pos)

	default:
		return 0, false
	}
}

func (m *Matcher) matchGroup(ctx *matchCtx, e *syntax.Node, pos int, cont continuation) (int, bool) {
	bodyElems := elemsOf(e.Body)
	if e.CaptureIndex == 0 {
		return m.matchSeq(ctx, bodyElems, 0, pos, cont)
	}
	idx := e.CaptureIndex
	savedStart, savedEnd := ctx.caps[2*idx], ctx.caps[2*idx+1]
	end, ok := m.matchSeq(ctx, bodyElems, 0, pos, func(bodyEnd int) (int, bool) {
		ctx.caps[2*idx], ctx.caps[2*idx+1] = pos, bodyEnd
		return cont(bodyEnd)
	})
	if !ok {
		ctx.caps[2*idx], ctx.caps[2*idx+1] = savedStart, savedEnd
	}
	return end, ok
}

func matchByte(ctx *matchCtx, pos int, pred func(byte) bool, negate bool, cont continuation) (int, bool) {
	if pos >= len(ctx.text) {
		return 0, false
	}
	hit := pred(ctx.text[pos])
	if negate {
		hit = !hit
	}
	if !hit {
		return 0, false
	}
	return cont(pos + 1)
}

func foldEqual(have []byte, want string) bool {
	if len(have) != len(want) {
		return false
	}
	for i := 0; i < len(have); i++ {
		a, b := have[i], want[i]
		if 'A' <= a && a <= 'Z' {
			a += 'a' - 'A'
		}
		if 'A' <= b && b <= 'Z' {
			b += 'a' - 'A'
		}
		if a != b {
			return false
		}
	}
	return true
}

func classContains(cs *chars.ClassSet, b byte, ci bool) bool {
	if cs.Contains(b) {
		return true
	}
	if !ci {
		return false
	}
	var swapped byte
	switch {
	case 'a' <= b && b <= 'z':
		swapped = b - ('a' - 'A')
	case 'A' <= b && b <= 'Z':
		swapped = b + ('a' - 'A')
	default:
		return false
	}
	return cs.Contains(swapped)
}

// matchQuantified applies e's Quant to the node e (read as a single
// repetition unit, ignoring its own Quant field recursively), trying
// repetition counts in greedy-or-lazy priority order and, for each count,
// delegating to cont: candidate consume lengths from max down to min
// (greedy) or min up to max (lazy), with the recursive structure
// enumerating lengths instead of precomputing them.
func (m *Matcher) matchQuantified(ctx *matchCtx, e *syntax.Node, pos int, cont continuation) (int, bool) {
	q := e.Quant
	var step func(count, at int) (int, bool)
	step = func(count, at int) (int, bool) {
		ctx.depth++
		defer func() { ctx.depth-- }()
		if ctx.depth > ctx.max {
			return 0, false
		}
		canExtend := q.Max == syntax.Unbounded || count < q.Max
		tryExtend := func() (int, bool) {
			if !canExtend {
				return 0, false
			}
			return m.dispatch(ctx, stripQuant(e), at, func(end int) (int, bool) {
				if end == at {
					// Zero-width repetition: count it once, then stop
					// extending to avoid an infinite loop.
					if count+1 >= q.Min {
						return cont(at)
					}
					return 0, false
				}
				return step(count+1, end)
			})
		}
		tryStop := func() (int, bool) {
			if count < q.Min {
				return 0, false
			}
			return cont(at)
		}
		if q.Greedy {
			if end, ok := tryExtend(); ok {
				return end, ok
			}
			return tryStop()
		}
		if end, ok := tryStop(); ok {
			return end, ok
		}
		return tryExtend()
	}
	return step(0, pos)
}

// stripQuant returns a shallow copy of e with Quant cleared, so dispatch
// treats it as a single repetition unit instead of recursing back into
// matchQuantified.
func stripQuant(e *syntax.Node) *syntax.Node {
	cp := *e
	cp.Quant = nil
	return &cp
}

// evalLookaround evaluates a zero-width lookaround assertion at pos using a
// fresh, isolated capture context so that any groups inside the lookaround
// body never leak into the outer match's captures.
func (m *Matcher) evalLookaround(ctx *matchCtx, e *syntax.Node, pos int) bool {
	switch e.Look {
	case syntax.PosLookahead:
		return m.lookMatchesAt(ctx, e.Body, pos)
	case syntax.NegLookahead:
		return !m.lookMatchesAt(ctx, e.Body, pos)
	case syntax.PosLookbehind:
		return m.lookMatchesEndingAt(ctx, e.Body, pos)
	case syntax.NegLookbehind:
		return !m.lookMatchesEndingAt(ctx, e.Body, pos)
	default:
		return false
	}
}

// lookMatchesAt reports whether body matches starting exactly at pos (any
// length), used for lookahead.
func (m *Matcher) lookMatchesAt(ctx *matchCtx, body *syntax.Node, pos int) bool {
	sub := m.newCtx(ctx.text)
	_, ok := m.matchSeq(sub, elemsOf(body), 0, pos, identity)
	return ok
}

// lookMatchesEndingAt scans candidate start positions s <= pos, bounded by
// maxLookbehind, looking for one from which body matches exactly to pos —
// a bounded O(p) lookbehind scan.
func (m *Matcher) lookMatchesEndingAt(ctx *matchCtx, body *syntax.Node, pos int) bool {
	floor := 0
	if pos-m.maxLookbehind > floor {
		floor = pos - m.maxLookbehind
	}
	for s := pos; s >= floor; s-- {
		if s != pos && s != 0 && !chars.IsBoundary(ctx.text, s) {
			continue
		}
		sub := m.newCtx(ctx.text)
		if _, ok := m.matchSeq(sub, elemsOf(body), 0, s, func(end int) (int, bool) {
			return end, end == pos
		}); ok {
			return true
		}
	}
	return false
}
