// Package slug turns titles into URL-safe identifiers.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs.
const MaxLen = 80

// Fallback is used when a title has no usable characters.
const Fallback = "topic"

// Make lowercases s, strips accents, and joins runs of letters and digits with single dashes.
func Make(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			dash = true
		}
		if b.Len() >= MaxLen {
			break
		}
	}
	out := strings.Trim(b.String(), "-")
	if len(out) > MaxLen {
		out = strings.TrimRight(out[:MaxLen], "-")
	}
	if out == "" {
		return Fallback
	}
	return out
}

// Candidates yields base, base-topic, base-2, base-3, ... up to n entries.
func Candidates(base string, n int) []string {
	out := make([]string, 0, n)
	if n <= 0 {
		return out
	}
	out = append(out, base)
	if n > 1 && base != Fallback {
		out = append(out, base+"-"+Fallback)
	}
	for i := 2; len(out) < n; i++ {
		out = append(out, base+"-"+strconv.Itoa(i))
	}
	return out
}
