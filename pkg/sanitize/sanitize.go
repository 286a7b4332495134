package sanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	richOnce sync.Once
	richPol  *bluemonday.Policy

	strictOnce sync.Once
	strictPol  *bluemonday.Policy
)

func richPolicy() *bluemonday.Policy {
	richOnce.Do(func() {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("class").Globally()
		p.AllowAttrs("target").Matching(bluemonday.SpaceSeparatedTokens).OnElements("a")
		p.RequireNoReferrerOnLinks(true)
		richPol = p
	})
	return richPol
}

func strictPolicy() *bluemonday.Policy {
	strictOnce.Do(func() {
		strictPol = bluemonday.StrictPolicy()
	})
	return strictPol
}

// HTML cleans editor-produced rich text down to a safe subset.
func HTML(s string) string {
	return strings.TrimSpace(richPolicy().Sanitize(s))
}

// Text strips all markup and trims the result. Entities are decoded so the
// stored value is plain text, escaped by whoever renders it.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy().Sanitize(s)))
}
