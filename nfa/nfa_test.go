package nfa

import (
	"testing"

	"github.com/KSD-CO/rexile/syntax"
)

func compileVM(t *testing.T, pattern string) *VM {
	t.Helper()
	p, err := syntax.Parse(pattern)
	if err != nil {
		t.Fatalf("Parse(%q): %v", pattern, err)
	}
	if !CanCompile(p.Root) {
		t.Fatalf("%q: expected CanCompile = true", pattern)
	}
	return NewVM(Compile(p.Root, p.CaseInsensitive, p.DotAll))
}

func TestCanCompileRejectsCapturesAndAnchors(t *testing.T) {
	cases := []string{`(\w+)@(\w+)`, `^abc$`, `foo(?=bar)`, `\bcat\b`}
	for _, pattern := range cases {
		p, err := syntax.Parse(pattern)
		if err != nil {
			t.Fatalf("Parse(%q): %v", pattern, err)
		}
		if CanCompile(p.Root) {
			t.Fatalf("%q: expected CanCompile = false", pattern)
		}
	}
}

func TestVMLiteral(t *testing.T) {
	vm := compileVM(t, "hello")
	if !vm.IsMatch([]byte("say hello there")) {
		t.Fatalf("expected match")
	}
	if vm.IsMatch([]byte("goodbye")) {
		t.Fatalf("expected no match")
	}
}

func TestVMGreedyStar(t *testing.T) {
	vm := compileVM(t, "a*")
	start, end, ok := vm.Find([]byte("xxaaab"), 0)
	if !ok || start != 0 || end != 0 {
		t.Fatalf("got (%d,%d,%v), want a zero-width match at position 0 (leftmost)", start, end, ok)
	}
	start, end, ok = vm.Find([]byte("xxaaab"), 2)
	if !ok || start != 2 || end != 5 {
		t.Fatalf("got (%d,%d,%v), want (2,5,true) from offset 2", start, end, ok)
	}
}

func TestVMAlternation(t *testing.T) {
	vm := compileVM(t, "cat|dog|bird")
	for _, text := range []string{"a dog barks", "cat nap", "bird song"} {
		if !vm.IsMatch([]byte(text)) {
			t.Fatalf("%q: expected match", text)
		}
	}
	if vm.IsMatch([]byte("a fish swims")) {
		t.Fatalf("expected no match")
	}
}

func TestVMBoundedQuantifier(t *testing.T) {
	vm := compileVM(t, "a{2,3}")
	start, end, ok := vm.Find([]byte("aaaa"), 0)
	if !ok || end-start != 3 {
		t.Fatalf("got span %d, want greedy match of length 3", end-start)
	}
}

func TestVMCharClassAndDigitRun(t *testing.T) {
	vm := compileVM(t, `\d+`)
	matches := vm.FindAll([]byte("a1 b22 c333"))
	if len(matches) != 3 {
		t.Fatalf("got %d matches, want 3: %v", len(matches), matches)
	}
	want := [][2]int{{1, 2}, {4, 6}, {8, 11}}
	for i, w := range want {
		if matches[i] != w {
			t.Fatalf("match %d = %v, want %v", i, matches[i], w)
		}
	}
}

func TestVMCaseInsensitive(t *testing.T) {
	vm := compileVM(t, "(?i)GET|POST")
	if !vm.IsMatch([]byte("get /index.html")) {
		t.Fatalf("expected case-insensitive match")
	}
}
