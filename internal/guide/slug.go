package guide

import (
	"strings"
	"unicode"
)

// Slugify normalizes a title into a URL-safe identifier: lowercase letters,
// digits and single hyphens only, with no hyphen at either end. It is
// idempotent, so slugs can be re-slugified without drift.
func Slugify(title string) string {
	lowered := strings.ToLower(title)

	var b strings.Builder
	for _, r := range lowered {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}

	// Collapse hyphen runs (whitespace runs became hyphen runs above).
	var out strings.Builder
	prevHyphen := false
	for _, r := range b.String() {
		if r == '-' {
			if prevHyphen {
				continue
			}
			prevHyphen = true
		} else {
			prevHyphen = false
		}
		out.WriteRune(r)
	}

	return strings.Trim(out.String(), "-")
}
