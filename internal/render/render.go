// Package render turns result records into page view models and HTML.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/url"
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/rccc/rccc-search/internal/config"
	"github.com/rccc/rccc-search/internal/models"
	"github.com/rccc/rccc-search/internal/pager"
	"github.com/rccc/rccc-search/internal/query"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Card kinds.
const (
	KindSermon = "sermon"
	KindPage   = "page"
)

// SourceLabel is the bracketed origin shown on a page card. URL is empty when
// the label should render as plain text.
type SourceLabel struct {
	Text string
	URL  string
}

// Card is the view model for one result.
type Card struct {
	Kind  string
	Title template.HTML
	Link  string
	Date  string

	// Sermon cards.
	Archive config.ArchiveLink
	Details []template.HTML

	// Page cards.
	Source  SourceLabel
	Snippet template.HTML
}

// PageLink is one entry of the pagination control.
type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Results is the view model for the result area of the page.
type Results struct {
	Total     int
	Page      int
	PageCount int
	Pages     []PageLink
	Prev      string
	Next      string
	Cards     []Card
}

// PageData is everything the full page template needs.
type PageData struct {
	Query   string
	Notice  string
	Year    int
	Results Results
}

// Renderer builds cards and renders templates.
type Renderer struct {
	sources   *config.Sources
	sanitizer Sanitizer
	tmpl      *template.Template
}

// New returns a Renderer. sanitizer may be nil, in which case snippets are
// trusted and inserted verbatim.
func New(sources *config.Sources, sanitizer Sanitizer) (*Renderer, error) {
	if sources == nil {
		sources = config.DefaultSources()
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{sources: sources, sanitizer: sanitizer, tmpl: tmpl}, nil
}

// Templates returns the parsed template set, for gin's SetHTMLTemplate.
func (r *Renderer) Templates() *template.Template {
	return r.tmpl
}

// Static returns the embedded static assets.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Results builds the result-area view model for one page of results.
// rawQuery is echoed into pagination links; normalized drives highlighting.
func (r *Renderer) Results(rawQuery, normalized string, results models.ResultSet, page, pageSize int) Results {
	count := pager.PageCount(len(results), pageSize)
	out := Results{
		Total:     len(results),
		Page:      page,
		PageCount: count,
		Cards:     r.Cards(pager.Slice(results, page, pageSize), normalized),
	}
	if count == 0 {
		return out
	}

	out.Pages = make([]PageLink, 0, count)
	for n := 1; n <= count; n++ {
		out.Pages = append(out.Pages, PageLink{Number: n, Href: pageHref(rawQuery, n), Current: n == page})
	}
	if page > 1 {
		out.Prev = pageHref(rawQuery, page-1)
	}
	if page < count {
		out.Next = pageHref(rawQuery, page+1)
	}
	return out
}

func pageHref(rawQuery string, page int) string {
	v := url.Values{}
	v.Set(query.Param, rawQuery)
	v.Set(query.PageParam, strconv.Itoa(page))
	return "/?" + v.Encode()
}

// Cards maps records to cards, highlighting the normalized query.
func (r *Renderer) Cards(records []models.Record, normalized string) []Card {
	terms := Terms(normalized)
	cards := make([]Card, 0, len(records))
	for _, rec := range records {
		cards = append(cards, r.card(rec, terms))
	}
	return cards
}

func (r *Renderer) card(rec models.Record, terms []string) Card {
	switch rec := rec.(type) {
	case *models.Sermon:
		return Card{
			Kind:    KindSermon,
			Title:   Highlight(rec.Title, terms),
			Link:    rec.RecordingLink,
			Date:    rec.Date,
			Archive: r.sources.Archive,
			Details: []template.HTML{
				Highlight(rec.Scripture, terms),
				Highlight(rec.Speaker, terms),
				template.HTML(template.HTMLEscapeString(rec.Congregation)),
			},
		}
	case *models.Page:
		return Card{
			Kind:    KindPage,
			Title:   Highlight(rec.Title, terms),
			Link:    rec.Link,
			Date:    rec.Date,
			Source:  r.SourceLabel(rec),
			Snippet: r.snippet(rec.Snippet),
		}
	default:
		panic(fmt.Sprintf("render: unknown record type %T", rec))
	}
}

// SourceLabel picks the bracketed label for a page record.
func (r *Renderer) SourceLabel(p *models.Page) SourceLabel {
	source := p.TopicName
	if source == "" {
		source = p.Type
	}
	source = strings.ToLower(source)

	if strings.HasSuffix(source, r.sources.Suffix) && govalidator.IsDNSName(source) {
		return SourceLabel{Text: r.sources.FriendlyName(source), URL: "https://" + source}
	}
	return SourceLabel{Text: source}
}

func (r *Renderer) snippet(s string) template.HTML {
	if r.sanitizer != nil {
		s = r.sanitizer.Sanitize(s)
	}
	// Backend highlighting markup is trusted unless a sanitizer is configured.
	return template.HTML(s)
}

// RenderResults renders the result-area fragment used by live search.
func (r *Renderer) RenderResults(res Results) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "results", res); err != nil {
		return "", fmt.Errorf("failed to render results: %w", err)
	}
	return buf.String(), nil
}
