package ahoc

import "testing"

func TestMultiLiteralFindAndIsMatch(t *testing.T) {
	m, err := New([]string{"foo", "bar", "baz"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	text := []byte("the bar is open")
	if !m.IsMatch(text) {
		t.Fatalf("expected IsMatch true")
	}

	start, end, ok := m.Find(text, 0)
	if !ok || start != 4 || end != 7 {
		t.Fatalf("Find = (%d, %d, %v), want (4, 7, true)", start, end, ok)
	}
}

func TestMultiLiteralFindAll(t *testing.T) {
	m, err := New([]string{"a", "b"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	matches := m.FindAll([]byte("xaybyaz"))
	if len(matches) != 3 {
		t.Fatalf("FindAll returned %d matches, want 3: %v", len(matches), matches)
	}
	for i := 1; i < len(matches); i++ {
		if matches[i][0] <= matches[i-1][0] {
			t.Fatalf("matches not strictly increasing: %v", matches)
		}
	}
}

func TestMultiLiteralNoMatch(t *testing.T) {
	m, err := New([]string{"zzz"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.IsMatch([]byte("hello world")) {
		t.Fatalf("expected no match")
	}
}
