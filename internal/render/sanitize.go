package render

import "github.com/microcosm-cc/bluemonday"

// Sanitizer cleans backend-supplied snippet HTML.
type Sanitizer interface {
	Sanitize(html string) string
}

// NewSnippetPolicy returns a policy that keeps only emphasis markup, which is
// all the index puts into snippets.
func NewSnippetPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("em", "mark", "b", "strong")
	p.AllowAttrs("class").OnElements("mark")
	return p
}
