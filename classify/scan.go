package classify

import (
	"github.com/KSD-CO/rexile/chars"
	"github.com/KSD-CO/rexile/simd"
	"github.com/KSD-CO/rexile/syntax"
)

// findAnchoredLiteral recognizes the AnchoredLiteral shape with a single
// direct byte comparison instead of a scan, since the anchor pins the only
// possible match position.
func findAnchoredLiteral(text []byte, lit string, anchorStart, anchorEnd bool) (int, int, bool) {
	n := len(lit)
	switch {
	case anchorStart && anchorEnd:
		if len(text) != n || string(text) != lit {
			return 0, 0, false
		}
		return 0, n, true
	case anchorStart:
		if len(text) < n || string(text[:n]) != lit {
			return 0, 0, false
		}
		return 0, n, true
	default: // anchorEnd only
		if len(text) < n || string(text[len(text)-n:]) != lit {
			return 0, 0, false
		}
		return len(text) - n, len(text), true
	}
}

// findPredicateRun implements the DigitRun/WordRun/WhitespaceRun shapes:
// scan for the first byte satisfying pred, then extend greedily up to max
// repetitions, honoring a minimum run length.
func findPredicateRun(text []byte, pred func(byte) bool, min, max int, from int) (int, int, bool) {
	if min == 0 && (from >= len(text) || !pred(text[from])) {
		// An empty run at from is the leftmost match.
		return from, from, true
	}
	for start := from; start < len(text); start++ {
		if !pred(text[start]) {
			continue
		}
		end := start
		limit := len(text)
		if max != syntax.Unbounded && start+max < limit {
			limit = start + max
		}
		for end < limit && pred(text[end]) {
			end++
		}
		if end-start >= min {
			return start, end, true
		}
		// Run too short to satisfy min; no longer run exists starting
		// here, so resume scanning just past it.
		start = end
	}
	return 0, 0, false
}

// findQuotedString implements the QuotedString shape: delim, then a run of
// bytes matching class (a negated class excluding delim), then delim again.
// The opening delimiter is located with simd.Memchr, always safe here since
// delim is always exactly one byte.
func findQuotedString(text []byte, delim byte, class *chars.ClassSet, min int, from int) (int, int, bool) {
	pos := from
	for {
		idx := simd.Memchr(text[pos:], delim)
		if idx < 0 {
			return 0, 0, false
		}
		start := pos + idx
		bodyStart := start + 1
		end := bodyStart
		for end < len(text) && class.Contains(text[end]) {
			end++
		}
		if end-bodyStart >= min && end < len(text) && text[end] == delim {
			return start, end + 1, true
		}
		pos = start + 1
	}
}

// findIdentifierRun implements the IdentifierRun shape: locate the first
// [a-zA-Z_] byte, then consume while the byte is a word byte.
func findIdentifierRun(text []byte, from int) (int, int, bool) {
	for start := from; start < len(text); start++ {
		if !chars.IsIdentStart(text[start]) {
			continue
		}
		end := start + 1
		for end < len(text) && chars.IsWord(text[end]) {
			end++
		}
		return start, end, true
	}
	return 0, 0, false
}

// findLiteralPlusRun implements the LiteralPlusWhitespace/Digits/Word
// shapes: locate lit with simd.Memmem, then extend the run immediately
// following it while pred holds, honoring min/max repetitions. lit is
// guaranteed non-empty by tryLiteralPlusRun, so every failed candidate
// advances the search by at least one byte.
func findLiteralPlusRun(text []byte, lit string, pred func(byte) bool, min, max int, from int) (int, int, bool) {
	pos := from
	for {
		idx := simd.Memmem(text[pos:], []byte(lit))
		if idx < 0 {
			return 0, 0, false
		}
		start := pos + idx
		runStart := start + len(lit)
		end := runStart
		limit := len(text)
		if max != syntax.Unbounded && runStart+max < limit {
			limit = runStart + max
		}
		for end < limit && pred(text[end]) {
			end++
		}
		if end-runStart >= min {
			return start, end, true
		}
		pos = start + 1
	}
}

// findLiteralPlusQuotedString implements the LiteralPlusQuotedString shape:
// locate lit, then immediately expect a QuotedString. lit is guaranteed
// non-empty by tryLiteralPlusQuotedString, so every failed candidate
// advances the search by at least one byte.
func findLiteralPlusQuotedString(text []byte, lit string, delim byte, class *chars.ClassSet, min int, from int) (int, int, bool) {
	pos := from
	for {
		idx := simd.Memmem(text[pos:], []byte(lit))
		if idx < 0 {
			return 0, 0, false
		}
		start := pos + idx
		qStart := start + len(lit)
		if qStart >= len(text) || text[qStart] != delim {
			pos = start + 1
			continue
		}
		bodyStart := qStart + 1
		end := bodyStart
		for end < len(text) && class.Contains(text[end]) {
			end++
		}
		if end-bodyStart >= min && end < len(text) && text[end] == delim {
			return start, end + 1, true
		}
		pos = start + 1
	}
}
