package nfa

import (
	"github.com/KSD-CO/rexile/chars"
	"github.com/KSD-CO/rexile/syntax"
)

// patchKind names which field of a State a patch writes.
type patchKind uint8

const (
	patchNext patchKind = iota
	patchLeft
	patchRight
)

type patch struct {
	id   StateID
	kind patchKind
}

// fragment is a partially-built sub-machine: an entry state plus a list of
// dangling "out" transitions still to be pointed at whatever follows.
type fragment struct {
	start StateID
	out   []patch
}

type builder struct {
	states []State
	ci     bool
	dotAll bool
}

// Compile builds an NFA for root, which must satisfy CanCompile.
func Compile(root *syntax.Node, caseInsensitive, dotAll bool) *NFA {
	b := &builder{ci: caseInsensitive, dotAll: dotAll}
	frag := b.build(root)
	matchID := b.add(State{Kind: StateMatch})
	b.patchAll(frag.out, matchID)
	return &NFA{States: b.states, Start: frag.start}
}

func (b *builder) add(s State) StateID {
	id := StateID(len(b.states))
	b.states = append(b.states, s)
	return id
}

func (b *builder) patchAll(ps []patch, target StateID) {
	for _, p := range ps {
		switch p.kind {
		case patchNext:
			b.states[p.id].Next = target
		case patchLeft:
			b.states[p.id].Left = target
		case patchRight:
			b.states[p.id].Right = target
		}
	}
}

func (b *builder) empty() fragment {
	id := b.add(State{Kind: StateEpsilon, Next: InvalidState})
	return fragment{start: id, out: []patch{{id, patchNext}}}
}

func (b *builder) byteRange(lo, hi byte) fragment {
	id := b.add(State{Kind: StateByteRange, Lo: lo, Hi: hi, Next: InvalidState})
	return fragment{start: id, out: []patch{{id, patchNext}}}
}

func (b *builder) sparse(ranges []ByteRange) fragment {
	id := b.add(State{Kind: StateSparse, Ranges: ranges, Next: InvalidState})
	return fragment{start: id, out: []patch{{id, patchNext}}}
}

func (b *builder) concat(f1, f2 fragment) fragment {
	b.patchAll(f1.out, f2.start)
	return fragment{start: f1.start, out: f2.out}
}

func (b *builder) concatAll(frags []fragment) fragment {
	if len(frags) == 0 {
		return b.empty()
	}
	acc := frags[0]
	for _, f := range frags[1:] {
		acc = b.concat(acc, f)
	}
	return acc
}

func (b *builder) alternate(f1, f2 fragment) fragment {
	id := b.add(State{Kind: StateSplit, Left: f1.start, Right: f2.start})
	out := append(append([]patch{}, f1.out...), f2.out...)
	return fragment{start: id, out: out}
}

// zeroOrOne builds `body?` (greedy prefers entering body; lazy prefers
// skipping it).
func (b *builder) zeroOrOne(greedy bool, body fragment) fragment {
	id := b.add(State{Kind: StateSplit})
	if greedy {
		b.states[id].Left = body.start
		return fragment{start: id, out: append([]patch{{id, patchRight}}, body.out...)}
	}
	b.states[id].Right = body.start
	return fragment{start: id, out: append([]patch{{id, patchLeft}}, body.out...)}
}

// star builds `body*`.
func (b *builder) star(greedy bool, body fragment) fragment {
	id := b.add(State{Kind: StateSplit})
	if greedy {
		b.states[id].Left = body.start
	} else {
		b.states[id].Right = body.start
	}
	b.patchAll(body.out, id)
	if greedy {
		return fragment{start: id, out: []patch{{id, patchRight}}}
	}
	return fragment{start: id, out: []patch{{id, patchLeft}}}
}

// plus builds `body+`.
func (b *builder) plus(greedy bool, body fragment) fragment {
	id := b.add(State{Kind: StateSplit})
	if greedy {
		b.states[id].Left = body.start
	} else {
		b.states[id].Right = body.start
	}
	b.patchAll(body.out, id)
	if greedy {
		return fragment{start: body.start, out: []patch{{id, patchRight}}}
	}
	return fragment{start: body.start, out: []patch{{id, patchLeft}}}
}

// nestedOptional builds `count` right-nested optional copies of whatever
// buildBody produces, realizing the greedy/lazy {n,m} bounded-repeat tail:
// skipping one copy skips every copy after it.
func (b *builder) nestedOptional(count int, greedy bool, buildBody func() fragment) fragment {
	if count == 0 {
		return b.empty()
	}
	body := buildBody()
	rest := b.nestedOptional(count-1, greedy, buildBody)
	return b.zeroOrOne(greedy, b.concat(body, rest))
}

func (b *builder) repeat(min, max int, greedy bool, buildBody func() fragment) fragment {
	if max == syntax.Unbounded {
		if min == 0 {
			return b.star(greedy, buildBody())
		}
		var frags []fragment
		for i := 0; i < min-1; i++ {
			frags = append(frags, buildBody())
		}
		frags = append(frags, b.plus(greedy, buildBody()))
		return b.concatAll(frags)
	}
	var frags []fragment
	for i := 0; i < min; i++ {
		frags = append(frags, buildBody())
	}
	if opt := max - min; opt > 0 {
		frags = append(frags, b.nestedOptional(opt, greedy, buildBody))
	}
	return b.concatAll(frags)
}

// build recursively realizes one AST node, wrapping it via repeat when it
// carries a Quant; buildAtom realizes the node itself, ignoring Quant.
func (b *builder) build(n *syntax.Node) fragment {
	if n.Quant == nil {
		return b.buildAtom(n)
	}
	q := n.Quant
	return b.repeat(q.Min, q.Max, q.Greedy, func() fragment { return b.buildAtom(n) })
}

func (b *builder) buildAtom(n *syntax.Node) fragment {
	switch n.Kind {
	case syntax.KindLiteral:
		frags := make([]fragment, 0, len(n.Literal))
		for i := 0; i < len(n.Literal); i++ {
			frags = append(frags, b.literalByte(n.Literal[i]))
		}
		return b.concatAll(frags)

	case syntax.KindCharClass:
		cs := n.Class
		return b.sparse(rangesFromPredicate(func(x byte) bool { return b.classMatch(cs, x) }))

	case syntax.KindDigit:
		return b.sparse(rangesFromPredicate(chars.IsDigit))
	case syntax.KindNotDigit:
		return b.sparse(rangesFromPredicate(negate(chars.IsDigit)))
	case syntax.KindWord:
		return b.sparse(rangesFromPredicate(chars.IsWord))
	case syntax.KindNotWord:
		return b.sparse(rangesFromPredicate(negate(chars.IsWord)))
	case syntax.KindSpace:
		return b.sparse(rangesFromPredicate(chars.IsSpace))
	case syntax.KindNotSpace:
		return b.sparse(rangesFromPredicate(negate(chars.IsSpace)))

	case syntax.KindDot:
		dotAll := b.dotAll
		return b.sparse(rangesFromPredicate(func(x byte) bool { return dotAll || x != '\n' }))

	case syntax.KindSequence:
		frags := make([]fragment, 0, len(n.Elems))
		for _, e := range n.Elems {
			frags = append(frags, b.build(e))
		}
		return b.concatAll(frags)

	case syntax.KindAlternation:
		acc := b.build(n.Elems[0])
		for _, e := range n.Elems[1:] {
			acc = b.alternate(acc, b.build(e))
		}
		return acc

	case syntax.KindGroup:
		return b.build(n.Body)

	default:
		// Unreachable for trees that pass CanCompile.
		return b.empty()
	}
}

func (b *builder) literalByte(lit byte) fragment {
	if !b.ci {
		return b.byteRange(lit, lit)
	}
	lo, up := foldBoth(lit)
	if lo == up {
		return b.byteRange(lo, lo)
	}
	return b.sparse([]ByteRange{{lo, lo}, {up, up}})
}

func (b *builder) classMatch(cs *chars.ClassSet, x byte) bool {
	if cs.Contains(x) {
		return true
	}
	if !b.ci {
		return false
	}
	lo, up := foldBoth(x)
	return cs.Contains(lo) || cs.Contains(up)
}

func foldBoth(b byte) (lower, upper byte) {
	switch {
	case 'a' <= b && b <= 'z':
		return b, b - ('a' - 'A')
	case 'A' <= b && b <= 'Z':
		return b + ('a' - 'A'), b
	default:
		return b, b
	}
}

func negate(pred func(byte) bool) func(byte) bool {
	return func(b byte) bool { return !pred(b) }
}
