package simd

import "testing"

func TestMemchr(t *testing.T) {
	if got := Memchr([]byte("hello world"), 'w'); got != 6 {
		t.Errorf("Memchr = %d, want 6", got)
	}
	if got := Memchr([]byte("hello world"), 'z'); got != -1 {
		t.Errorf("Memchr = %d, want -1", got)
	}
	// Long haystack to exercise the 8-byte SWAR loop past the first chunk.
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	long[73] = 'Q'
	if got := Memchr(long, 'Q'); got != 73 {
		t.Errorf("Memchr (long) = %d, want 73", got)
	}
}

func TestMemmem(t *testing.T) {
	cases := []struct {
		haystack, needle string
		want             int
	}{
		{"hello world", "world", 6},
		{"hello world", "xyz", -1},
		{"aaaaaabaaaa", "aab", 4},
		{"abc", "", 0},
		{"", "abc", -1},
		{"ab", "abc", -1},
	}
	for _, c := range cases {
		got := Memmem([]byte(c.haystack), []byte(c.needle))
		if got != c.want {
			t.Errorf("Memmem(%q, %q) = %d, want %d", c.haystack, c.needle, got, c.want)
		}
	}
}

func TestIsASCII(t *testing.T) {
	if !IsASCII([]byte("hello world, this is ascii")) {
		t.Errorf("expected ASCII text to be detected as ASCII")
	}
	if IsASCII([]byte("hello 🙂")) {
		t.Errorf("expected emoji text to not be detected as ASCII")
	}
}

func TestDetectFeatures(t *testing.T) {
	// Just exercise the probe; result is platform-dependent.
	_ = DetectFeatures()
}
