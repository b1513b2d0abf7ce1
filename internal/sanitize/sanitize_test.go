package sanitize

import "testing"

func TestPathReplacesUnsafeChars(t *testing.T) {
	cases := map[string]string{
		"simple-id_123":   "simple-id_123",
		"a/b\\c":          "a_b_c",
		"session:42":      "session:42",
		"has spaces":      "has_spaces",
		"emoji🎉here":      "emoji_here",
		"":                "unknown",
		".":               "unknown",
		"..":              "unknown",
		"...":             "...",
		"/":               "_",
	}
	for in, want := range cases {
		if got := Path(in); got != want {
			t.Errorf("Path(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathClosure(t *testing.T) {
	inputs := []string{"", ".", "..", "a/b", "weird!@#$%^&*()id", "normal_id-1.2:3"}
	for _, s := range inputs {
		got := Path(s)
		if got == "" {
			t.Fatalf("Path(%q) returned empty string", s)
		}
		if got == "." || got == ".." {
			t.Fatalf("Path(%q) returned %q", s, got)
		}
		for _, r := range got {
			if !isSafe(r) {
				t.Fatalf("Path(%q) = %q contains unsafe rune %q", s, got, r)
			}
		}
	}
}
