package slug

import (
	"fmt"
	"testing"
	"time"
)

// TestGenerate exercises the slug generator across typical titles,
// punctuation, whitespace, and edge cases.
func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple two words", input: "Hello World", want: "hello-world"},
		{name: "title with year", input: "Hello World 2026", want: "hello-world-2026"},
		{name: "punctuation stripped", input: "Hello, World! How's it going?", want: "hello-world-hows-it-going"},
		{name: "parentheses and brackets", input: "Version (2.0) [Beta]", want: "version-20-beta"},
		{name: "hash and dollar", input: "Issue #42 costs $100", want: "issue-42-costs-100"},
		{name: "leading and trailing spaces", input: "  hello world  ", want: "hello-world"},
		{name: "consecutive hyphens collapsed", input: "hello---world", want: "hello-world"},
		{name: "single hyphen preserved", input: "well-known fact", want: "well-known-fact"},
		{name: "outer hyphens trimmed", input: "---hello world---", want: "hello-world"},
		{name: "empty string", input: "", want: ""},
		{name: "only special characters", input: "!@#$%^&*()", want: ""},
		{name: "date-like string", input: "2026-02-25", want: "2026-02-25"},
		{name: "colon separated title", input: "Go: The Complete Developer Guide", want: "go-the-complete-developer-guide"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.input)
			if got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestGenerate_Idempotent verifies that generating a slug from an already
// valid slug produces the same result.
func TestGenerate_Idempotent(t *testing.T) {
	for _, s := range []string{"hello-world", "my-blog-post-2026", "a", "123"} {
		t.Run(s, func(t *testing.T) {
			if got := Generate(s); got != s {
				t.Errorf("Generate(%q) = %q, want idempotent result %q", s, got, s)
			}
		})
	}
}

// TestUnique verifies the unix-seconds disambiguation suffix.
func TestUnique(t *testing.T) {
	now := time.Unix(1767225600, 0)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "normal title", input: "Hello World", want: "hello-world-1767225600"},
		{name: "empty title falls back to untitled", input: "", want: "untitled-1767225600"},
		{name: "symbols only falls back to untitled", input: "!!!", want: "untitled-1767225600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Unique(tt.input, now); got != tt.want {
				t.Errorf("Unique(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// TestUnique_DistinctAcrossSeconds verifies two publishes of the same
// title one second apart never collide.
func TestUnique_DistinctAcrossSeconds(t *testing.T) {
	now := time.Unix(1767225600, 0)
	a := Unique("Same Title", now)
	b := Unique("Same Title", now.Add(time.Second))
	if a == b {
		t.Errorf("Unique produced the same slug %q for different timestamps", a)
	}
	if b != fmt.Sprintf("same-title-%d", now.Unix()+1) {
		t.Errorf("Unique second slug = %q, unexpected format", b)
	}
}
