package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/query"
	"github.com/rccc/rccc-search/internal/search"
	"go.uber.org/zap"
)

// SearchHandler serves the backend query endpoint the search page calls.
type SearchHandler struct {
	Fetcher    search.Fetcher
	Normalizer locale.Normalizer
}

// NewSearchHandler creates a new SearchHandler.
func NewSearchHandler(fetcher search.Fetcher, normalizer locale.Normalizer) *SearchHandler {
	return &SearchHandler{Fetcher: fetcher, Normalizer: normalizer}
}

// Search handles GET /search?s=... and responds with a JSON array of
// records. An empty query yields [] without touching the index.
func (h *SearchHandler) Search(c *gin.Context) {
	q := h.Normalizer.Normalize(c.Query(query.Param))

	results, err := h.Fetcher.Fetch(c.Request.Context(), q)
	if err != nil {
		logger.FromGin(c).Error("failed to search", zap.String("query", q), zap.Error(err))
		respondError(c, http.StatusBadGateway, "Failed to search")
		return
	}

	c.JSON(http.StatusOK, results)
}
