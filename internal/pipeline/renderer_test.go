package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExcerpt(t *testing.T) {
	if got := excerpt("kurz und gut", 160); got != "kurz und gut" {
		t.Errorf("expected short content unchanged, got %q", got)
	}

	if got := excerpt("line one\n\nline  two", 160); got != "line one line two" {
		t.Errorf("expected whitespace collapsed, got %q", got)
	}

	long := strings.Repeat("word ", 50)
	got := excerpt(long, 20)
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 23 {
		t.Errorf("expected 23 runes, got %d: %q", n, got)
	}
}

// Truncation must never split a multi-byte character
func TestExcerpt_RuneBoundary(t *testing.T) {
	// Byte index 157 lands inside the ü of the twelfth repetition
	content := strings.Repeat("spürte etwas ", 14)

	got := excerpt(content, 157)
	if !utf8.ValidString(got) {
		t.Errorf("expected valid UTF-8, got %q", got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 160 {
		t.Errorf("expected 160 runes, got %d", n)
	}
}
