package classify

import (
	"github.com/KSD-CO/rexile/ahoc"
	"github.com/KSD-CO/rexile/chars"
	"github.com/KSD-CO/rexile/syntax"
)

// tryLiteral recognizes a bare, unquantified literal with no case-folding
// requirement.
func tryLiteral(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindLiteral || n.Quant != nil || len(n.Literal) == 0 {
		return nil
	}
	return &Matcher{kind: KindLiteral, lit: n.Literal}
}

// tryMultiLiteral recognizes an alternation whose every branch is a bare
// literal, routed to Aho-Corasick. Disabled under case-insensitivity
// (SPEC_FULL.md §9: the wrapped automaton matches bytes exactly, with no
// fold support).
func tryMultiLiteral(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindAlternation {
		return nil
	}
	lits := make([]string, 0, len(n.Elems))
	for _, branch := range n.Elems {
		if branch.Kind != syntax.KindLiteral || branch.Quant != nil || len(branch.Literal) == 0 {
			return nil
		}
		lits = append(lits, branch.Literal)
	}
	ml, err := ahoc.New(lits)
	if err != nil {
		return nil
	}
	return &Matcher{kind: KindMultiLiteral, ml: ml}
}

// tryAnchoredLiteral recognizes "^literal", "literal$", and "^literal$",
// matched with a single O(1) byte comparison instead of a scan.
func tryAnchoredLiteral(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindSequence {
		return nil
	}
	elems := n.Elems
	var lit *syntax.Node
	anchorStart, anchorEnd := false, false

	switch len(elems) {
	case 2:
		switch {
		case elems[0].Kind == syntax.KindAnchorStart && elems[1].Kind == syntax.KindLiteral:
			anchorStart, lit = true, elems[1]
		case elems[0].Kind == syntax.KindLiteral && elems[1].Kind == syntax.KindAnchorEnd:
			anchorEnd, lit = true, elems[0]
		default:
			return nil
		}
	case 3:
		if elems[0].Kind != syntax.KindAnchorStart || elems[1].Kind != syntax.KindLiteral || elems[2].Kind != syntax.KindAnchorEnd {
			return nil
		}
		anchorStart, anchorEnd, lit = true, true, elems[1]
	default:
		return nil
	}
	if lit.Quant != nil || len(lit.Literal) == 0 {
		return nil
	}
	return &Matcher{kind: KindAnchoredLiteral, lit: lit.Literal, anchorStart: anchorStart, anchorEnd: anchorEnd}
}

// tryPredicateRun recognizes a single quantified character predicate at the
// pattern root: \d+, \w*, \s{2,5}, and their negations, matched as
// DigitRun/WordRun/WhitespaceRun. Lazy quantifiers are not taken.
func tryPredicateRun(p *syntax.Pattern) *Matcher {
	n := p.Root
	if n.Quant == nil || !n.Quant.Greedy {
		return nil
	}
	pred, ok := builtinClassPredicate(n.Kind)
	if !ok {
		return nil
	}
	return &Matcher{kind: KindPredicateRun, pred: pred, min: n.Quant.Min, max: n.Quant.Max}
}

// tryQuotedString recognizes delim CharClass(negated, quantified) delim —
// e.g. `"[^"]*"`.
func tryQuotedString(p *syntax.Pattern) *Matcher {
	n := p.Root
	if n.Kind != syntax.KindSequence || len(n.Elems) != 3 {
		return nil
	}
	open, body, closeLit := n.Elems[0], n.Elems[1], n.Elems[2]
	if !isQuotedStringShape(open, body, closeLit) {
		return nil
	}
	return &Matcher{kind: KindQuotedString, delim: open.Literal[0], class: body.Class, qmin: body.Quant.Min}
}

// tryIdentifierRun recognizes `[a-zA-Z_]\w*` at the pattern root: an
// identifier-start byte followed by zero or more word bytes.
func tryIdentifierRun(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindSequence || len(n.Elems) != 2 {
		return nil
	}
	start, rest := n.Elems[0], n.Elems[1]
	if start.Quant != nil || start.Kind != syntax.KindCharClass || !classIsIdentStart(start.Class) {
		return nil
	}
	if rest.Kind != syntax.KindWord || rest.Quant == nil || rest.Quant.Min != 0 || rest.Quant.Max != syntax.Unbounded || !rest.Quant.Greedy {
		return nil
	}
	return &Matcher{kind: KindIdentifierRun}
}

// tryLiteralPlusRun recognizes a non-empty literal prefix immediately
// followed by a quantified run of a built-in predicate class, matched as
// LiteralPlusWhitespace/LiteralPlusDigits/LiteralPlusWord. The prefix's
// non-emptiness is the mandatory safety condition for any fast path that
// embeds a literal anchor: an empty-literal match point can't be scanned
// for, only compared against, and a scan routine handed one here would spin.
func tryLiteralPlusRun(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindSequence || len(n.Elems) != 2 {
		return nil
	}
	lit, run := n.Elems[0], n.Elems[1]
	if lit.Kind != syntax.KindLiteral || lit.Quant != nil || len(lit.Literal) == 0 {
		return nil
	}
	if run.Quant == nil || !run.Quant.Greedy {
		return nil
	}
	pred, ok := builtinClassPredicate(run.Kind)
	if !ok {
		return nil
	}
	var kind Kind
	switch run.Kind {
	case syntax.KindSpace:
		kind = KindLiteralPlusWhitespace
	case syntax.KindDigit:
		kind = KindLiteralPlusDigits
	case syntax.KindWord:
		kind = KindLiteralPlusWord
	default:
		return nil
	}
	return &Matcher{kind: kind, lit: lit.Literal, pred: pred, min: run.Quant.Min, max: run.Quant.Max}
}

// tryLiteralPlusQuotedString recognizes a non-empty literal prefix
// immediately followed by a QuotedString shape, e.g. `name:"[^"]*"` —
// matched as LiteralPlusQuotedString. The parser merges the prefix and the
// opening delimiter into one literal, so that literal's final byte is split
// off and checked as the delimiter.
func tryLiteralPlusQuotedString(p *syntax.Pattern) *Matcher {
	if p.CaseInsensitive {
		return nil
	}
	n := p.Root
	if n.Kind != syntax.KindSequence || len(n.Elems) != 3 {
		return nil
	}
	head, body, closeLit := n.Elems[0], n.Elems[1], n.Elems[2]
	if head.Kind != syntax.KindLiteral || head.Quant != nil || len(head.Literal) < 2 {
		return nil
	}
	prefix := head.Literal[:len(head.Literal)-1]
	open := &syntax.Node{Kind: syntax.KindLiteral, Literal: head.Literal[len(head.Literal)-1:]}
	if !isQuotedStringShape(open, body, closeLit) {
		return nil
	}
	return &Matcher{kind: KindLiteralPlusQuotedString, lit: prefix, delim: open.Literal[0], class: body.Class, qmin: body.Quant.Min}
}

// isQuotedStringShape reports whether open/body/closeLit form
// delim CharClass(negated, quantified with no upper bound, excluding delim)
// delim.
func isQuotedStringShape(open, body, closeLit *syntax.Node) bool {
	if open.Kind != syntax.KindLiteral || open.Quant != nil || len(open.Literal) != 1 {
		return false
	}
	if closeLit.Kind != syntax.KindLiteral || closeLit.Quant != nil || closeLit.Literal != open.Literal {
		return false
	}
	if body.Kind != syntax.KindCharClass || body.Quant == nil || !body.Class.Negated {
		return false
	}
	if body.Quant.Max != syntax.Unbounded || body.Class.Contains(open.Literal[0]) {
		return false
	}
	return true
}

// builtinClassPredicate maps a built-in class AST kind to its byte
// predicate, or reports ok == false for anything else (including negated
// classes other than NotDigit/NotWord/NotSpace, which tryPredicateRun still
// accepts but tryLiteralPlusRun's switch on Kind rejects by falling to its
// own default).
func builtinClassPredicate(k syntax.Kind) (pred func(byte) bool, ok bool) {
	switch k {
	case syntax.KindDigit:
		return chars.IsDigit, true
	case syntax.KindNotDigit:
		return negate(chars.IsDigit), true
	case syntax.KindWord:
		return chars.IsWord, true
	case syntax.KindNotWord:
		return negate(chars.IsWord), true
	case syntax.KindSpace:
		return chars.IsSpace, true
	case syntax.KindNotSpace:
		return negate(chars.IsSpace), true
	default:
		return nil, false
	}
}

// classIsIdentStart reports whether cs is exactly the non-negated
// [a-zA-Z_] class.
func classIsIdentStart(cs *chars.ClassSet) bool {
	if cs.Negated {
		return false
	}
	for b := 0; b < 256; b++ {
		if cs.Contains(byte(b)) != chars.IsIdentStart(byte(b)) {
			return false
		}
	}
	return true
}

func negate(pred func(byte) bool) func(byte) bool {
	return func(b byte) bool { return !pred(b) }
}
