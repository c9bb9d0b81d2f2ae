package rexile

import (
	"reflect"
	"testing"
)

// TestCompile mirrors the seed table's error cases.
func TestCompile(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr bool
	}{
		{"simple literal", "hello", false},
		{"digit run", `\d+`, false},
		{"alternation", "foo|bar|baz", false},
		{"capture group", `(\w+)@(\w+)`, false},
		{"unbalanced paren", "(", true},
		{"dangling quantifier", "*abc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Compile(%q) error = %v, wantErr %v", tt.pattern, err, tt.wantErr)
			}
			if !tt.wantErr && re == nil {
				t.Fatalf("Compile(%q) returned nil Matcher with no error", tt.pattern)
			}
		})
	}
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("MustCompile did not panic on invalid pattern")
		}
	}()
	MustCompile("(")
}

// TestBoundaryAndBacktrackingScenarios covers a grab-bag of boundary and
// backtracking edge cases: runs, alternation, anchors, captures, lookaround,
// case-insensitivity, word boundaries, zero-width quantifiers, and
// non-ASCII input.
func TestBoundaryAndBacktrackingScenarios(t *testing.T) {
	t.Run("digit_run_find_and_find_all", func(t *testing.T) {
		re := MustCompile(`\d+`)
		text := []byte("Order #12345 $67.89")
		start, end, ok := re.Find(text)
		if !ok || start != 7 || end != 12 {
			t.Fatalf("Find() = (%d,%d,%v), want (7,12,true)", start, end, ok)
		}
		want := [][2]int{{7, 12}, {14, 16}, {17, 19}}
		got := re.FindAll(text)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("FindAll() = %v, want %v", got, want)
		}
	})

	t.Run("alternation", func(t *testing.T) {
		re := MustCompile(`foo|bar|baz`)
		text := []byte("the bar is open")
		if !re.IsMatch(text) {
			t.Fatal("expected match")
		}
		start, end, ok := re.Find(text)
		if !ok || start != 4 || end != 7 {
			t.Fatalf("Find() = (%d,%d,%v), want (4,7,true)", start, end, ok)
		}
	})

	t.Run("full_anchor", func(t *testing.T) {
		re := MustCompile(`^hello$`)
		if !re.IsMatch([]byte("hello")) {
			t.Fatal("expected match on exact text")
		}
		if re.IsMatch([]byte("hello ")) {
			t.Fatal("expected no match with trailing space")
		}
	})

	t.Run("named_or_quoted_capture", func(t *testing.T) {
		re := MustCompile(`rule\s+(?:"([^"]+)"|([a-zA-Z_]\w*))`)
		text := []byte(`rule "MyRule" { }`)
		c := re.Captures(text)
		if c == nil {
			t.Fatal("expected a match")
		}
		whole, _ := c.Group(0)
		if whole.Start != 0 || whole.End != 13 {
			t.Fatalf("group0 = %+v, want (0,13)", whole)
		}
		g1, ok := c.Group(1)
		if !ok || !g1.Matched || string(text[g1.Start:g1.End]) != "MyRule" {
			t.Fatalf("group1 = %+v, want matched \"MyRule\"", g1)
		}
		g2, ok := c.Group(2)
		if !ok || g2.Matched {
			t.Fatalf("group2 = %+v, want unmatched", g2)
		}
	})

	t.Run("backtrack_off_final_brace", func(t *testing.T) {
		re := MustCompile(`\{(.+)\}`)
		text := []byte("{ abc }")
		c := re.Captures(text)
		if c == nil {
			t.Fatal("expected a match")
		}
		whole, _ := c.Group(0)
		if whole.Start != 0 || whole.End != 7 {
			t.Fatalf("group0 = %+v, want (0,7)", whole)
		}
		g1, _ := c.Group(1)
		if g1.Start != 1 || g1.End != 6 {
			t.Fatalf("group1 = %+v, want (1,6)", g1)
		}
	})

	t.Run("lookahead", func(t *testing.T) {
		re := MustCompile(`foo(?=bar)`)
		start, end, ok := re.Find([]byte("foobar"))
		if !ok || start != 0 || end != 3 {
			t.Fatalf("Find(foobar) = (%d,%d,%v), want (0,3,true)", start, end, ok)
		}
		if re.IsMatch([]byte("foobaz")) {
			t.Fatal("expected no match against foobaz")
		}
	})

	t.Run("case_insensitive_capture", func(t *testing.T) {
		re := MustCompile(`(?i)(GET|POST)`)
		text := []byte("Get /x")
		c := re.Captures(text)
		if c == nil {
			t.Fatal("expected a match")
		}
		whole, _ := c.Group(0)
		if whole.Start != 0 || whole.End != 3 {
			t.Fatalf("group0 = %+v, want (0,3)", whole)
		}
		g1, _ := c.Group(1)
		if string(text[g1.Start:g1.End]) != "Get" {
			t.Fatalf("group1 text = %q, want %q", text[g1.Start:g1.End], "Get")
		}
	})

	t.Run("word_boundary_bounded_quantifier", func(t *testing.T) {
		re := MustCompile(`\b\d{4}\b`)
		start, end, ok := re.Find([]byte("Year: 2024!"))
		if !ok || start != 6 || end != 10 {
			t.Fatalf("Find() = (%d,%d,%v), want (6,10,true)", start, end, ok)
		}
	})

	t.Run("zero_width_quantifier", func(t *testing.T) {
		re := MustCompile(`a*b`)
		start, end, ok := re.Find([]byte("b"))
		if !ok || start != 0 || end != 1 {
			t.Fatalf("Find(\"b\") = (%d,%d,%v), want (0,1,true)", start, end, ok)
		}
	})

	t.Run("emoji_does_not_panic", func(t *testing.T) {
		re := MustCompile(`\s+`)
		defer func() {
			if r := recover(); r != nil {
				t.Fatalf("Find panicked on emoji input: %v", r)
			}
		}()
		text := []byte("🙂 x")
		start, end, ok := re.Find(text)
		if !ok {
			t.Fatal("expected a whitespace match")
		}
		if string(text[start:end]) != " " {
			t.Fatalf("matched %q, want a single space, not emoji bytes", text[start:end])
		}
	})
}

func TestFindAllEmptyOnNoMatch(t *testing.T) {
	re := MustCompile(`xyz`)
	if got := re.FindAll([]byte("abc def")); got != nil {
		t.Fatalf("FindAll() = %v, want nil", got)
	}
}

func TestStrategyDiagnostics(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"needle", "Literal"},
		{"GET|POST", "MultiLiteral"},
		{"^GET", "AnchoredLiteral"},
		{`\d+`, "PredicateRun"},
		{`"[^"]*"`, "QuotedString"},
		{`[a-zA-Z_]\w*`, "IdentifierRun"},
		{`id:\d+`, "LiteralPlusDigits"},
		{"a+b", "NFA"},
		{`(\w+)@(\w+)`, "Backtrack"},
	}
	for _, tt := range tests {
		re := MustCompile(tt.pattern)
		if got := re.Strategy().String(); got != tt.want {
			t.Errorf("%q: Strategy() = %v, want %v", tt.pattern, got, tt.want)
		}
	}
}

func TestMatchIter(t *testing.T) {
	re := MustCompile(`\d+`)
	it := re.FindIter([]byte("a1 b22 c333"))
	want := [][2]int{{1, 2}, {4, 6}, {8, 11}}
	var got [][2]int
	for {
		start, end, ok := it.Next()
		if !ok {
			break
		}
		got = append(got, [2]int{start, end})
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("FindIter() = %v, want %v", got, want)
	}
	if _, _, ok := it.Next(); ok {
		t.Fatal("expected iterator to stay exhausted")
	}
}

func TestFindIterResumesFromLastMatchEnd(t *testing.T) {
	re := MustCompile(`\d+`)
	text := []byte("1 22 333")
	it := re.FindIter(text)
	start, end, ok := it.Next()
	if !ok || start != 0 || end != 1 {
		t.Fatalf("first Next() = (%d,%d,%v), want (0,1,true)", start, end, ok)
	}
	// The second Next() on the same iterator resumes from the first match's
	// end and returns the next digit run.
	start, end, ok = it.Next()
	if !ok || start != 2 || end != 4 {
		t.Fatalf("second Next() = (%d,%d,%v), want (2,4,true)", start, end, ok)
	}
}

func TestCapturesIter(t *testing.T) {
	re := MustCompile(`(\w+)=(\d+)`)
	it := re.CapturesIter([]byte("a=1 b=22"))
	count := 0
	for {
		c, ok := it.Next()
		if !ok {
			break
		}
		count++
		if len(c.Spans) != 3 {
			t.Fatalf("expected 3 spans (whole + 2 groups), got %d", len(c.Spans))
		}
	}
	if count != 2 {
		t.Fatalf("got %d matches, want 2", count)
	}
}

func TestNumCaptures(t *testing.T) {
	re := MustCompile(`(\w+)@(\w+)\.(\w+)`)
	if re.NumCaptures() != 3 {
		t.Fatalf("NumCaptures() = %d, want 3", re.NumCaptures())
	}
	lit := MustCompile("hello")
	if lit.NumCaptures() != 0 {
		t.Fatalf("NumCaptures() = %d, want 0", lit.NumCaptures())
	}
}

func TestCompileOptionsCaseInsensitive(t *testing.T) {
	re := MustCompileWithOptions("get", CompileOptions{CaseInsensitive: true})
	if !re.IsMatch([]byte("GET /x")) {
		t.Fatal("expected case-insensitive match")
	}
}

func TestCompileOptionsDisableFastPath(t *testing.T) {
	direct := MustCompile("needle")
	if direct.Strategy().String() != "Literal" {
		t.Fatalf("Strategy() = %v, want Literal", direct.Strategy())
	}
	forced := MustCompileWithOptions("needle", CompileOptions{DisableFastPath: true})
	if forced.Strategy().String() == "Literal" {
		t.Fatal("DisableFastPath should have routed this off the Literal fast path")
	}
	if !forced.IsMatch([]byte("a needle in a haystack")) {
		t.Fatal("expected DisableFastPath matcher to still find the match via the general engine")
	}
}

func TestCompileOptionsDisableAhoCorasick(t *testing.T) {
	direct := MustCompile("GET|POST|PUT")
	if direct.Strategy().String() != "MultiLiteral" {
		t.Fatalf("Strategy() = %v, want MultiLiteral", direct.Strategy())
	}
	forced := MustCompileWithOptions("GET|POST|PUT", CompileOptions{DisableAhoCorasick: true})
	if forced.Strategy().String() == "MultiLiteral" {
		t.Fatal("DisableAhoCorasick should have routed this off the Aho-Corasick fast path")
	}
	if !forced.IsMatch([]byte("PUT /resource")) {
		t.Fatal("expected DisableAhoCorasick matcher to still find the match")
	}
}

func TestStats(t *testing.T) {
	re := MustCompile(`\d+`)
	re.IsMatch([]byte("a1"))
	re.Find([]byte("a1"))
	re.FindAll([]byte("a1 b2"))
	stats := re.Stats()
	if stats.FastPathSearches != 3 {
		t.Fatalf("Stats() = %+v, want FastPathSearches == 3", stats)
	}
	re.ResetStats()
	if got := re.Stats(); got != (Stats{}) {
		t.Fatalf("Stats() after ResetStats = %+v, want zero value", got)
	}
}

func TestCompileCachedReturnsSameMatcher(t *testing.T) {
	a, err := CompileCached(`\d{3}`)
	if err != nil {
		t.Fatalf("CompileCached: %v", err)
	}
	b, err := CompileCached(`\d{3}`)
	if err != nil {
		t.Fatalf("CompileCached: %v", err)
	}
	if a != b {
		t.Fatal("expected CompileCached to return the same *Matcher for the same pattern")
	}
}

func TestCompileCachedPropagatesError(t *testing.T) {
	if _, err := CompileCached("("); err == nil {
		t.Fatal("expected an error for an unbalanced paren")
	}
}

func TestCompileCachedDoesNotPersistFailedCompile(t *testing.T) {
	pattern := "(unbalanced-test-pattern"
	before := cacheSize(pattern)
	if before {
		t.Fatalf("pattern %q already occupies a cache slot before the test runs", pattern)
	}
	if _, err := CompileCached(pattern); err == nil {
		t.Fatal("expected an error for an unbalanced paren")
	}
	if cacheSize(pattern) {
		t.Fatalf("CompileCached left a permanent cache entry for a pattern that failed to compile")
	}
	// A second attempt recompiles instead of replaying a memoized error.
	if _, err := CompileCached(pattern); err == nil {
		t.Fatal("expected an error on retry")
	}
}

func cacheSize(pattern string) bool {
	_, ok := patternCache.Load(pattern)
	return ok
}

func TestMustCompileCachedPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("MustCompileCached did not panic on invalid pattern")
		}
	}()
	MustCompileCached(")")
}
