package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/models"
	"go.uber.org/zap"
)

// Service answers queries from the hosted index, with an optional cache in
// front of it. It implements Fetcher.
type Service struct {
	Index Index
	Cache Cache
}

// NewService creates a new Service. cache may be nil.
func NewService(index Index, cache Cache) *Service {
	return &Service{Index: index, Cache: cache}
}

// Fetch implements Fetcher. Cache errors are logged and otherwise ignored.
func (s *Service) Fetch(ctx context.Context, query string) (models.ResultSet, error) {
	if query == "" {
		return models.ResultSet{}, nil
	}

	if s.Cache != nil {
		if data, ok, err := s.Cache.Get(ctx, query); err != nil {
			logger.Get().Warn("result cache read failed", zap.String("query", query), zap.Error(err))
		} else if ok {
			var cached models.ResultSet
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, nil
			}
			logger.Get().Warn("discarding undecodable cache entry", zap.String("query", query), zap.Error(err))
		}
	}

	results, err := s.Index.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}
	if results == nil {
		results = models.ResultSet{}
	}

	if s.Cache != nil {
		if data, err := json.Marshal(results); err != nil {
			logger.Get().Warn("failed to encode results for cache", zap.Error(err))
		} else if err := s.Cache.Set(ctx, query, data); err != nil {
			logger.Get().Warn("result cache write failed", zap.String("query", query), zap.Error(err))
		}
	}

	return results, nil
}
