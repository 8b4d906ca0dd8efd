// Package index queries the hosted Meilisearch index holding the site's
// sermons and pages.
package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/meilisearch/meilisearch-go"
	"github.com/rccc/rccc-search/internal/models"
)

const (
	highlightPreTag  = "<em>"
	highlightPostTag = "</em>"
	snippetField     = "content"
	cropLength       = 40
)

// Error reports a failed index operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("index %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Searcher is the subset of meilisearch.IndexManager used here.
type Searcher interface {
	SearchWithContext(ctx context.Context, query string, request *meilisearch.SearchRequest) (*meilisearch.SearchResponse, error)
}

// Meili is a search.Index backed by Meilisearch.
type Meili struct {
	index Searcher
	limit int64
}

// NewMeiliClient connects to the Meilisearch server at host.
func NewMeiliClient(host, apiKey string) meilisearch.ServiceManager {
	return meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
}

// NewMeili creates a Meili index over indexName, returning at most limit hits.
func NewMeili(client meilisearch.ServiceManager, indexName string, limit int) *Meili {
	return NewMeiliWithSearcher(client.Index(indexName), limit)
}

// NewMeiliWithSearcher creates a Meili index over an existing searcher.
func NewMeiliWithSearcher(s Searcher, limit int) *Meili {
	return &Meili{index: s, limit: int64(limit)}
}

// Search implements search.Index.
func (m *Meili) Search(ctx context.Context, query string) (models.ResultSet, error) {
	req := &meilisearch.SearchRequest{
		Limit:                 m.limit,
		AttributesToHighlight: []string{snippetField},
		AttributesToCrop:      []string{snippetField},
		CropLength:            cropLength,
		HighlightPreTag:       highlightPreTag,
		HighlightPostTag:      highlightPostTag,
	}

	resp, err := m.index.SearchWithContext(ctx, query, req)
	if err != nil {
		return nil, &Error{Op: "Search", Err: err}
	}

	// Hits come back loosely typed; round-trip them through JSON so the
	// record decoder sees the same shape the HTTP API returns.
	raw, err := json.Marshal(resp.Hits)
	if err != nil {
		return nil, &Error{Op: "Search", Err: fmt.Errorf("failed to encode hits: %w", err)}
	}
	var hits []map[string]json.RawMessage
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, &Error{Op: "Search", Err: fmt.Errorf("failed to decode hits: %w", err)}
	}

	results := make(models.ResultSet, 0, len(hits))
	for i, hit := range hits {
		rec, err := models.DecodeRecord(toWire(hit))
		if err != nil {
			return nil, &Error{Op: "Search", Err: fmt.Errorf("hit %d: %w", i, err)}
		}
		results = append(results, rec)
	}
	return results, nil
}

// toWire moves Meilisearch's _formatted snippet to where the record decoder
// expects the backend highlight.
func toWire(hit map[string]json.RawMessage) []byte {
	if formatted, ok := hit["_formatted"]; ok {
		var f map[string]json.RawMessage
		if json.Unmarshal(formatted, &f) == nil {
			if content, ok := f[snippetField]; ok {
				var value string
				if json.Unmarshal(content, &value) == nil {
					hl, _ := json.Marshal(map[string]map[string]string{
						snippetField: {"value": value},
					})
					hit["_highlightResult"] = hl
				}
			}
		}
		delete(hit, "_formatted")
	}
	out, _ := json.Marshal(hit)
	return out
}
