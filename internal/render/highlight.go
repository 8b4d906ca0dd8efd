package render

import (
	"html/template"
	"strings"
)

const (
	markOpen  = `<mark class="keyword">`
	markClose = `</mark>`
)

// Terms splits a normalized query into highlight terms.
func Terms(query string) []string {
	return strings.Fields(query)
}

// Highlight escapes text and marks every case-sensitive occurrence of each
// term. Terms are not de-duplicated: a span matched by k terms is wrapped k
// times, nested so the markup stays well-formed.
func Highlight(text string, terms []string) template.HTML {
	if text == "" {
		return ""
	}
	if len(terms) == 0 {
		return template.HTML(template.HTMLEscapeString(text))
	}

	// delta[i] is the change in covering matches at byte offset i.
	delta := make([]int, len(text)+1)
	marked := false
	for _, term := range terms {
		if term == "" {
			continue
		}
		for i := 0; i < len(text); {
			j := strings.Index(text[i:], term)
			if j < 0 {
				break
			}
			start := i + j
			end := start + len(term)
			delta[start]++
			delta[end]--
			marked = true
			i = end
		}
	}
	if !marked {
		return template.HTML(template.HTMLEscapeString(text))
	}

	var b strings.Builder
	depth, segStart := 0, 0
	for pos := 0; pos <= len(text); pos++ {
		if pos < len(text) && delta[pos] == 0 {
			continue
		}
		if seg := text[segStart:pos]; seg != "" {
			b.WriteString(strings.Repeat(markOpen, depth))
			b.WriteString(template.HTMLEscapeString(seg))
			b.WriteString(strings.Repeat(markClose, depth))
		}
		depth += delta[pos]
		segStart = pos
	}
	return template.HTML(b.String())
}
