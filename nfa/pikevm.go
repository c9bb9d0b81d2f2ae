package nfa

// VM runs a Thompson NFA using Pike's algorithm: every position advances a
// list of active threads in parallel, threads are explored in priority
// order (earlier-added wins ties), and a match recorded by a higher-priority
// thread always overrides one recorded by a lower-priority thread later —
// this yields the same leftmost-first semantics as package backtrack's
// greedy-first recursion, just without backtracking.
//
// Grounded on coregx-coregex/nfa/pikevm.go's thread-queue design; this VM
// drops cowCaptures entirely since classify never routes a pattern with
// capture groups here (package backtrack owns all capturing work).
type VM struct {
	nfa *NFA
}

// NewVM wraps an NFA for repeated searches.
func NewVM(nfa *NFA) *VM {
	return &VM{nfa: nfa}
}

type vmThread struct {
	id    StateID
	start int
}

// addThread follows epsilon/split transitions eagerly (the "epsilon
// closure"), appending only consuming (or Match) states to list, each
// exactly once per generation.
func (vm *VM) addThread(list *[]vmThread, seen []bool, id StateID, start int) {
	if id == InvalidState || seen[id] {
		return
	}
	seen[id] = true
	s := &vm.nfa.States[id]
	switch s.Kind {
	case StateEpsilon:
		vm.addThread(list, seen, s.Next, start)
	case StateSplit:
		vm.addThread(list, seen, s.Left, start)
		vm.addThread(list, seen, s.Right, start)
	default:
		*list = append(*list, vmThread{id: id, start: start})
	}
}

// Find returns the leftmost match starting at or after `from`, or ok=false.
func (vm *VM) Find(text []byte, from int) (start, end int, ok bool) {
	n := len(vm.nfa.States)
	clist := make([]vmThread, 0, n)
	nlist := make([]vmThread, 0, n)
	seen := make([]bool, n)

	matched := false
	var mStart, mEnd int

	for pos := from; ; pos++ {
		if !matched {
			vm.addThread(&clist, seen, vm.nfa.Start, pos)
		}
		if len(clist) == 0 {
			break
		}

		hasByte := pos < len(text)
		var b byte
		if hasByte {
			b = text[pos]
		}

		for i := range seen {
			seen[i] = false
		}
		nlist = nlist[:0]

		for _, th := range clist {
			s := &vm.nfa.States[th.id]
			switch s.Kind {
			case StateMatch:
				matched = true
				mStart, mEnd = th.start, pos
				goto stepDone
			case StateByteRange:
				if hasByte && b >= s.Lo && b <= s.Hi {
					vm.addThread(&nlist, seen, s.Next, th.start)
				}
			case StateSparse:
				if hasByte && inRanges(s.Ranges, b) {
					vm.addThread(&nlist, seen, s.Next, th.start)
				}
			}
		}
	stepDone:
		clist, nlist = nlist, clist
		if !hasByte {
			break
		}
	}

	if !matched {
		return 0, 0, false
	}
	return mStart, mEnd, true
}

// IsMatch reports whether the pattern matches anywhere in text.
func (vm *VM) IsMatch(text []byte) bool {
	_, _, ok := vm.Find(text, 0)
	return ok
}

// FindAll returns every non-overlapping leftmost-first match.
func (vm *VM) FindAll(text []byte) [][2]int {
	var out [][2]int
	pos := 0
	for pos <= len(text) {
		start, end, ok := vm.Find(text, pos)
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
