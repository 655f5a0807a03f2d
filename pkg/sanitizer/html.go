package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strict   *bluemonday.Policy
	safe     *bluemonday.Policy
	initOnce sync.Once
)

func policies() {
	initOnce.Do(func() {
		strict = bluemonday.StrictPolicy()

		// safe covers what goldmark emits for a bundle's about.md:
		// paragraphs, emphasis, headings, lists, code, links.
		safe = bluemonday.NewPolicy()
		safe.AllowStandardURLs()
		safe.AllowElements(
			"p", "br",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
		)
		safe.AllowAttrs("href").OnElements("a")
		safe.RequireNoFollowOnLinks(true)
	})
}

// StripHTML reduces the input to plain text. Used on values echoed back
// into pages, like the login error message.
func StripHTML(s string) string {
	policies()
	return strict.Sanitize(s)
}

// SanitizeHTML keeps basic formatting and drops everything executable:
// scripts, event handlers, javascript: URLs. Used on rendered bundle
// descriptions before they reach the index page.
func SanitizeHTML(s string) string {
	policies()
	return safe.Sanitize(s)
}
