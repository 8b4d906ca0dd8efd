// Package search fetches result sets and holds the per-user search state.
package search

import (
	"context"

	"github.com/rccc/rccc-search/internal/models"
)

// Fetcher returns the result set for an already-normalized query.
type Fetcher interface {
	Fetch(ctx context.Context, query string) (models.ResultSet, error)
}

// Index is the hosted search index.
type Index interface {
	Search(ctx context.Context, query string) (models.ResultSet, error)
}

// Cache stores encoded result sets by normalized query.
type Cache interface {
	Get(ctx context.Context, query string) ([]byte, bool, error)
	Set(ctx context.Context, query string, data []byte) error
}
