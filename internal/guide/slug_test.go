package guide

import (
	"strings"
	"testing"
	"unicode"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{"basic title", "My First Guide!", "my-first-guide"},
		{"punctuation stripped", "Bitcoin: What, Why & How?", "bitcoin-what-why-how"},
		{"whitespace collapsed", "  Cold   Storage \t Wallets  ", "cold-storage-wallets"},
		{"hyphen runs collapsed", "proof--of---stake", "proof-of-stake"},
		{"leading trailing hyphens trimmed", "--edge case--", "edge-case"},
		{"digits kept", "Top 5 Exchanges 2026", "top-5-exchanges-2026"},
		{"empty input", "", ""},
		{"only symbols", "!?$%", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Slugify(tc.title)
			if got != tc.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tc.title, got, tc.expected)
			}
		})
	}
}

func TestSlugifyAlphabet(t *testing.T) {
	titles := []string{
		"My First Guide!",
		"Ethereum 2.0 — The Merge",
		"   weird\t\nspacing   everywhere   ",
		"ALL CAPS TITLE",
		"déjà vu crypto",
	}

	for _, title := range titles {
		slug := Slugify(title)
		if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
			t.Errorf("Slugify(%q) = %q has a leading or trailing hyphen", title, slug)
		}
		if strings.Contains(slug, "--") {
			t.Errorf("Slugify(%q) = %q contains a double hyphen", title, slug)
		}
		for _, r := range slug {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
				t.Errorf("Slugify(%q) = %q contains unexpected rune %q", title, slug, r)
			}
			if unicode.IsUpper(r) {
				t.Errorf("Slugify(%q) = %q contains uppercase rune %q", title, slug, r)
			}
		}
	}
}

func TestSlugifyIdempotent(t *testing.T) {
	titles := []string{
		"My First Guide!",
		"proof--of---stake",
		"  spaces  and  MORE  spaces  ",
		"already-a-slug",
		"",
	}

	for _, title := range titles {
		once := Slugify(title)
		twice := Slugify(once)
		if once != twice {
			t.Errorf("Slugify not idempotent for %q: first %q, second %q", title, once, twice)
		}
	}
}
