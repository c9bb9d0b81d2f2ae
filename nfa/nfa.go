// Package nfa implements ReXile's capture-free matching engine: a Thompson
// construction over syntax.Node plus a PikeVM-style epsilon-closure
// simulator (package-local file pikevm.go), used for variable-length
// patterns that declare no capture groups and no lookaround, as a general
// variable-length fast path ahead of falling back to package backtrack.
//
// Grounded on coregx-coregex/nfa/nfa.go's StateKind/State shape: this
// engine keeps the same state vocabulary (Match, ByteRange, Sparse, Split,
// Epsilon) but drops StateCapture and StateFail, used elsewhere for
// capture tracking and dead-state compaction — neither applies here,
// since classify only ever routes capture-free, assertion-free patterns to
// this package.
package nfa

import "github.com/KSD-CO/rexile/syntax"

// StateID identifies a state within an NFA's state table.
type StateID uint32

// InvalidState marks an unset/dangling transition.
const InvalidState StateID = 0xFFFFFFFF

// StateKind tags which fields of a State are meaningful.
type StateKind uint8

const (
	StateMatch StateKind = iota
	StateByteRange
	StateSparse
	StateSplit
	StateEpsilon
)

// ByteRange is an inclusive [Lo, Hi] byte interval.
type ByteRange struct {
	Lo, Hi byte
}

// State is one Thompson-construction NFA state.
type State struct {
	Kind StateKind

	// StateByteRange
	Lo, Hi byte

	// StateSparse
	Ranges []ByteRange

	// StateByteRange / StateSparse / StateEpsilon: where to go after
	// consuming (or, for Epsilon, without consuming) input.
	Next StateID

	// StateSplit: both branches are explored, Left before Right — callers
	// that want greedy-first priority order put the "prefer this" branch
	// in Left.
	Left, Right StateID
}

// NFA is a compiled, immutable state table with a designated start state.
type NFA struct {
	States []State
	Start  StateID
}

// inRanges reports whether b falls in any of rs.
func inRanges(rs []ByteRange, b byte) bool {
	for _, r := range rs {
		if b >= r.Lo && b <= r.Hi {
			return true
		}
	}
	return false
}

// rangesFromPredicate coalesces a byte predicate into a minimal list of
// inclusive ranges, avoiding a 256-entry sparse transition for dense
// classes like \w.
func rangesFromPredicate(pred func(byte) bool) []ByteRange {
	var out []ByteRange
	inRun := false
	var lo byte
	for i := 0; i <= 255; i++ {
		b := byte(i)
		if pred(b) {
			if !inRun {
				lo, inRun = b, true
			}
		} else if inRun {
			out = append(out, ByteRange{lo, b - 1})
			inRun = false
		}
		if i == 255 && inRun {
			out = append(out, ByteRange{lo, b})
		}
	}
	return out
}

// CanCompile reports whether n can be realized as a capture-free NFA: no
// capturing groups, no lookaround, and no zero-width assertions (anchors,
// word boundaries) — those remain package backtrack's job, since this
// engine's Thompson construction has no assertion state kind.
func CanCompile(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindAnchorStart, syntax.KindAnchorEnd,
		syntax.KindWordBoundary, syntax.KindNotWordBoundary,
		syntax.KindLookaround:
		return false
	case syntax.KindGroup:
		if n.CaptureIndex != 0 {
			return false
		}
		return CanCompile(n.Body)
	case syntax.KindSequence, syntax.KindAlternation:
		for _, e := range n.Elems {
			if !CanCompile(e) {
				return false
			}
		}
		return true
	default:
		return true
	}
}
