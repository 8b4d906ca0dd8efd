// Package query reads search state from the page address.
package query

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// Param is the address parameter carrying the search term.
	Param = "s"
	// PageParam is the address parameter carrying the selected page.
	PageParam = "page"
)

// FromURL returns the initial search term from u, or "" when there is none.
func FromURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	return u.Query().Get(Param)
}

// FromRequest is FromURL for the current gin request.
func FromRequest(c *gin.Context) string {
	return FromURL(c.Request.URL)
}

// Page returns the selected page from u clamped to [1, pageCount]. Missing or
// malformed values select page 1, as does an empty result set.
func Page(u *url.URL, pageCount int) int {
	if u == nil || pageCount < 1 {
		return 1
	}
	p, err := strconv.Atoi(u.Query().Get(PageParam))
	if err != nil || p < 1 {
		return 1
	}
	if p > pageCount {
		return pageCount
	}
	return p
}
