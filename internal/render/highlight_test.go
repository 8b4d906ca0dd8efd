package render

import (
	"html/template"
	"testing"
)

func TestHighlight_NoTerms(t *testing.T) {
	if got := Highlight("John 3:16", nil); got != "John 3:16" {
		t.Errorf("Highlight = %q", got)
	}
}

func TestHighlight_NoMatchEqualsEscapedInput(t *testing.T) {
	in := `<b>Grace</b> & "truth"`
	got := Highlight(in, Terms("mercy"))
	want := template.HTML(template.HTMLEscapeString(in))
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_SingleTerm(t *testing.T) {
	got := Highlight("神愛世人", Terms("愛"))
	want := template.HTML(`神<mark class="keyword">愛</mark>世人`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_EveryOccurrence(t *testing.T) {
	got := Highlight("love one love", Terms("love"))
	want := template.HTML(`<mark class="keyword">love</mark> one <mark class="keyword">love</mark>`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_CaseSensitive(t *testing.T) {
	got := Highlight("Love love", Terms("love"))
	want := template.HTML(`Love <mark class="keyword">love</mark>`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_MultipleTerms(t *testing.T) {
	got := Highlight("faith hope love", Terms("  faith   love "))
	want := template.HTML(`<mark class="keyword">faith</mark> hope <mark class="keyword">love</mark>`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_DuplicateTermsWrapTwice(t *testing.T) {
	got := Highlight("a-b", Terms("a a"))
	want := template.HTML(`<mark class="keyword"><mark class="keyword">a</mark></mark>-b`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_OverlappingTermsNest(t *testing.T) {
	got := Highlight("abc", Terms("ab bc"))
	want := template.HTML(`<mark class="keyword">a</mark>` +
		`<mark class="keyword"><mark class="keyword">b</mark></mark>` +
		`<mark class="keyword">c</mark>`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_EscapesMatchedText(t *testing.T) {
	got := Highlight("x<y", Terms("<"))
	want := template.HTML(`x<mark class="keyword">&lt;</mark>y`)
	if got != want {
		t.Errorf("Highlight = %q, want %q", got, want)
	}
}

func TestHighlight_Empty(t *testing.T) {
	if got := Highlight("", Terms("a")); got != "" {
		t.Errorf("Highlight(\"\") = %q", got)
	}
}
