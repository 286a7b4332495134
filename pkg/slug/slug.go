package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	invalidRe = regexp.MustCompile(`[^a-z0-9\s-]+`)
	spacingRe = regexp.MustCompile(`[\s-]+`)
	validRe   = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Letters with no NFD decomposition into a base letter plus marks.
var transliterator = strings.NewReplacer(
	"ß", "ss", "ẞ", "ss",
	"æ", "ae", "Æ", "ae",
	"œ", "oe", "Œ", "oe",
	"ø", "o", "Ø", "o",
	"ł", "l", "Ł", "l",
	"đ", "d", "Đ", "d",
	"ð", "d", "Ð", "d",
	"þ", "th", "Þ", "th",
	"ı", "i",
)

// Make lowercases s, strips diacritics and collapses whitespace into single
// hyphens. Anything outside [a-z0-9-] is dropped.
func Make(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, transliterator.Replace(s))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	out := strings.ToLower(folded)
	out = invalidRe.ReplaceAllString(out, "")
	out = spacingRe.ReplaceAllString(strings.TrimSpace(out), "-")
	return strings.Trim(out, "-")
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return validRe.MatchString(s)
}

// Resolve returns candidate normalized when set, otherwise a slug derived from source.
func Resolve(candidate, source string) string {
	if c := strings.TrimSpace(candidate); c != "" {
		return Make(c)
	}
	return Make(source)
}
