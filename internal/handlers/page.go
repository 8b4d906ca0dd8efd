package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/query"
	"github.com/rccc/rccc-search/internal/render"
	"github.com/rccc/rccc-search/internal/search"
	"go.uber.org/zap"
)

// PageTemplate is the name of the full search page template.
const PageTemplate = "page.html"

// UnavailableNotice is shown when the search backend fails.
const UnavailableNotice = "搜索服務暫時無法使用，請稍後再試。"

// PageHandler renders the search results page.
type PageHandler struct {
	Fetcher    search.Fetcher
	Normalizer locale.Normalizer
	Renderer   *render.Renderer
	PageSize   int
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(fetcher search.Fetcher, normalizer locale.Normalizer, renderer *render.Renderer, pageSize int) *PageHandler {
	return &PageHandler{
		Fetcher:    fetcher,
		Normalizer: normalizer,
		Renderer:   renderer,
		PageSize:   pageSize,
	}
}

// SearchPage handles GET /?s=...&page=N.
func (h *PageHandler) SearchPage(c *gin.Context) {
	raw := query.FromRequest(c)
	session := search.NewSession(h.Fetcher, h.Normalizer, h.PageSize)
	defer session.Close()

	data := render.PageData{Query: raw, Year: time.Now().Year()}

	snap, err := session.SetQuery(c.Request.Context(), raw)
	if err != nil {
		logger.FromGin(c).Error("failed to search", zap.String("query", snap.Normalized), zap.Error(err))
		data.Notice = UnavailableNotice
	}
	snap, _ = session.SetPage(query.Page(c.Request.URL, snap.PageCount()))

	data.Results = h.Renderer.Results(raw, snap.Normalized, snap.Results, snap.Page, snap.PageSize)
	c.HTML(http.StatusOK, PageTemplate, data)
}
