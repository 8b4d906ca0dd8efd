package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/rccc/rccc-search/internal/config"
	"github.com/rccc/rccc-search/internal/models"
)

func newTestRenderer(t *testing.T, sanitizer Sanitizer) *Renderer {
	t.Helper()
	r, err := New(config.DefaultSources(), sanitizer)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func testSermon() *models.Sermon {
	return &models.Sermon{
		Title:         "神的愛",
		Speaker:       "王愛民",
		Scripture:     "約翰一書 4:8 神就是愛",
		Congregation:  "愛心堂",
		Date:          "2019-02-10",
		RecordingLink: "https://www.rccc.org/s/1.mp3",
	}
}

func TestCards_Sermon(t *testing.T) {
	r := newTestRenderer(t, nil)
	cards := r.Cards([]models.Record{testSermon()}, "愛")
	if len(cards) != 1 {
		t.Fatalf("len(cards) = %d", len(cards))
	}
	c := cards[0]
	if c.Kind != KindSermon {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Link != "https://www.rccc.org/s/1.mp3" {
		t.Errorf("Link = %q", c.Link)
	}
	if c.Archive.Label != "講道庫" {
		t.Errorf("Archive.Label = %q", c.Archive.Label)
	}
	if len(c.Details) != 3 {
		t.Fatalf("len(Details) = %d, want 3", len(c.Details))
	}
	if !strings.Contains(string(c.Details[0]), `<mark class="keyword">愛</mark>`) {
		t.Errorf("scripture not highlighted: %q", c.Details[0])
	}
	if !strings.Contains(string(c.Details[1]), `<mark class="keyword">愛</mark>`) {
		t.Errorf("speaker not highlighted: %q", c.Details[1])
	}
	if strings.Contains(string(c.Details[2]), "<mark") {
		t.Errorf("congregation should not be highlighted: %q", c.Details[2])
	}
}

func TestCards_Page(t *testing.T) {
	r := newTestRenderer(t, nil)
	page := &models.Page{
		Type:    "school.rccc.org",
		Title:   "愛的課程",
		Date:    "2020-05-01",
		Link:    "https://school.rccc.org/c/1",
		Snippet: `神<em>愛</em>世人<script>x</script>`,
	}
	c := r.Cards([]models.Record{page}, "愛")[0]
	if c.Kind != KindPage {
		t.Errorf("Kind = %q", c.Kind)
	}
	if c.Source.Text != "主日學" || c.Source.URL != "https://school.rccc.org" {
		t.Errorf("Source = %+v", c.Source)
	}
	if string(c.Snippet) != page.Snippet {
		t.Errorf("trusted snippet changed: %q", c.Snippet)
	}
}

func TestCards_SanitizedSnippet(t *testing.T) {
	r := newTestRenderer(t, NewSnippetPolicy())
	page := &models.Page{Type: "cn.rccc.org", Snippet: `神<em>愛</em><script>alert(1)</script><a href="x">世人</a>`}
	c := r.Cards([]models.Record{page}, "")[0]
	got := string(c.Snippet)
	if !strings.Contains(got, "<em>愛</em>") {
		t.Errorf("sanitizer dropped emphasis: %q", got)
	}
	if strings.Contains(got, "<script") || strings.Contains(got, "<a") {
		t.Errorf("sanitizer kept unsafe markup: %q", got)
	}
}

func TestSourceLabel(t *testing.T) {
	r := newTestRenderer(t, nil)
	cases := []struct {
		page models.Page
		want SourceLabel
	}{
		{models.Page{Type: "school.rccc.org"}, SourceLabel{"主日學", "https://school.rccc.org"}},
		{models.Page{Type: "x", TopicName: "CN.RCCC.ORG"}, SourceLabel{"中文主站", "https://cn.rccc.org"}},
		{models.Page{Type: "en.rccc.org"}, SourceLabel{"英文主站", "https://en.rccc.org"}},
		{models.Page{Type: "rbsg.rccc.org"}, SourceLabel{"若歌學生查經班", "https://rbsg.rccc.org"}},
		{models.Page{Type: "youth.rccc.org"}, SourceLabel{"youth.rccc.org", "https://youth.rccc.org"}},
		{models.Page{Type: "Blog"}, SourceLabel{Text: "blog"}},
		{models.Page{Type: "rccc.org"}, SourceLabel{Text: "rccc.org"}},
		{models.Page{Type: "evil.com/.rccc.org"}, SourceLabel{Text: "evil.com/.rccc.org"}},
	}
	for _, c := range cases {
		p := c.page
		if got := r.SourceLabel(&p); got != c.want {
			t.Errorf("SourceLabel(%+v) = %+v, want %+v", c.page, got, c.want)
		}
	}
}

func buildSet(n int) models.ResultSet {
	rs := make(models.ResultSet, n)
	for i := range rs {
		rs[i] = &models.Page{Type: "cn.rccc.org", Title: fmt.Sprintf("result %d", i+1), Link: "https://cn.rccc.org"}
	}
	return rs
}

func TestResults_Paging(t *testing.T) {
	r := newTestRenderer(t, nil)
	rs := buildSet(25)

	res := r.Results("q", "q", rs, 3, 10)
	if res.Total != 25 || res.PageCount != 3 {
		t.Errorf("Total = %d, PageCount = %d", res.Total, res.PageCount)
	}
	if len(res.Cards) != 5 {
		t.Fatalf("page 3 cards = %d, want 5", len(res.Cards))
	}
	if !strings.Contains(string(res.Cards[0].Title), "result 21") {
		t.Errorf("first card on page 3 = %q", res.Cards[0].Title)
	}
	if len(res.Pages) != 3 || !res.Pages[2].Current {
		t.Errorf("Pages = %+v", res.Pages)
	}
	if res.Next != "" || res.Prev == "" {
		t.Errorf("Prev = %q, Next = %q", res.Prev, res.Next)
	}
	if res.Pages[0].Href != "/?page=1&s=q" {
		t.Errorf("page href = %q", res.Pages[0].Href)
	}
}

func TestRenderResults_WithResults(t *testing.T) {
	r := newTestRenderer(t, nil)
	rs := models.ResultSet{testSermon(), &models.Page{Type: "school.rccc.org", Title: "t", Link: "javascript:alert(1)"}}

	html, err := r.RenderResults(r.Results("愛", "愛", rs, 1, 10))
	if err != nil {
		t.Fatalf("RenderResults error: %v", err)
	}
	for _, want := range []string{"根據關鍵字找到2條匹配記錄", `<mark class="keyword">愛</mark>`, "主日學", "講道庫", `class="pagination"`} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered results missing %q", want)
		}
	}
	if strings.Contains(html, "javascript:alert") {
		t.Error("unsafe link scheme was rendered")
	}
	if strings.Contains(html, `class="illustration"`) {
		t.Error("illustration should be hidden when there are results")
	}
}

func TestRenderResults_Empty(t *testing.T) {
	r := newTestRenderer(t, nil)
	html, err := r.RenderResults(r.Results("", "", nil, 1, 10))
	if err != nil {
		t.Fatalf("RenderResults error: %v", err)
	}
	if !strings.Contains(html, `class="illustration"`) {
		t.Error("empty results should show the illustration")
	}
	if strings.Contains(html, "根據關鍵字找到") || strings.Contains(html, `class="pagination"`) {
		t.Error("empty results should not show the count banner or pagination")
	}
}

func TestStatic_HasAssets(t *testing.T) {
	for _, name := range []string{"live.js", "style.css"} {
		f, err := Static().Open(name)
		if err != nil {
			t.Errorf("Static().Open(%q) error: %v", name, err)
			continue
		}
		f.Close()
	}
}
