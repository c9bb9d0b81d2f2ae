package chars

import "testing"

func TestIsWord(t *testing.T) {
	cases := map[byte]bool{
		'a': true, 'Z': true, '5': true, '_': true,
		' ': false, '-': false, '\t': false,
	}
	for b, want := range cases {
		if got := IsWord(b); got != want {
			t.Errorf("IsWord(%q) = %v, want %v", b, got, want)
		}
	}
}

func TestIsSpace(t *testing.T) {
	for _, b := range []byte{' ', '\t', '\n', '\r'} {
		if !IsSpace(b) {
			t.Errorf("IsSpace(%q) = false, want true", b)
		}
	}
	if IsSpace('a') {
		t.Errorf("IsSpace('a') = true, want false")
	}
}

func TestWordBoundary(t *testing.T) {
	text := []byte("Year: 2024!")
	// Boundary right before '2' (index 6) and right after '4' (index 10).
	if !WordBoundary(text, 6) {
		t.Errorf("expected boundary at 6")
	}
	if !WordBoundary(text, 10) {
		t.Errorf("expected boundary at 10")
	}
	if WordBoundary(text, 7) {
		t.Errorf("expected no boundary at 7 (inside digit run)")
	}
	if !WordBoundary(text, 0) {
		t.Errorf("expected boundary at text start before word byte")
	}
}

func TestRuneWidth(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"a", 1},
		{"é", 2},    // é
		{"中", 3},    // 中
		{"\U0001F642", 4}, // 🙂
	}
	for _, c := range cases {
		if got := RuneWidth([]byte(c.s)); got != c.want {
			t.Errorf("RuneWidth(%q) = %d, want %d", c.s, got, c.want)
		}
	}
}

func TestIsBoundary(t *testing.T) {
	text := []byte("🙂x") // 4-byte emoji then 'x'
	if !IsBoundary(text, 0) {
		t.Errorf("start should be a boundary")
	}
	if IsBoundary(text, 1) || IsBoundary(text, 2) || IsBoundary(text, 3) {
		t.Errorf("mid-rune offsets should not be boundaries")
	}
	if !IsBoundary(text, 4) {
		t.Errorf("offset 4 (start of 'x') should be a boundary")
	}
}

func TestClassSet(t *testing.T) {
	var c ClassSet
	c.SetRange('a', 'z')
	c.Set('_')
	if !c.Contains('m') || !c.Contains('_') {
		t.Errorf("expected class to contain 'm' and '_'")
	}
	if c.Contains('A') {
		t.Errorf("expected class to not contain 'A'")
	}
	c.Negated = true
	if c.Contains('m') {
		t.Errorf("negated class should not contain 'm'")
	}
	if !c.Contains('A') {
		t.Errorf("negated class should contain 'A'")
	}
}
