// Package service answers search queries through the backend and cache
package service

import (
	"context"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/events"
	"github.com/mantonx/lineup/internal/modules/searchmodule/core/aggregator"
	"github.com/mantonx/lineup/internal/modules/searchmodule/core/backend"
	"github.com/mantonx/lineup/internal/modules/searchmodule/core/cache"
	"github.com/mantonx/lineup/internal/modules/searchmodule/models"
)

// SearchService runs one backend query per search and partitions the hits
type SearchService struct {
	backend    backend.Backend
	cache      cache.Cache
	maxResults int
	logger     hclog.Logger
}

// NewSearchService creates the service. A nil cache disables caching.
func NewSearchService(b backend.Backend, c cache.Cache, maxResults int, logger hclog.Logger) *SearchService {
	if c == nil {
		c = cache.NopCache{}
	}
	return &SearchService{backend: b, cache: c, maxResults: maxResults, logger: logger}
}

// Search returns partitioned results for query. A blank query matches nothing.
func (s *SearchService) Search(ctx context.Context, query string) (*models.Results, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return aggregator.Partition(query, nil), nil
	}

	gen, err := s.cache.Generation(ctx)
	cacheable := err == nil
	if err != nil {
		s.logger.Warn("search cache generation read failed", "error", err)
	} else if cached, ok, err := s.cache.Get(ctx, gen, query); err != nil {
		s.logger.Warn("search cache read failed", "error", err)
	} else if ok {
		cached.Cached = true
		return cached, nil
	}

	hits, err := s.backend.Search(ctx, query, s.maxResults)
	if err != nil {
		return nil, err
	}
	aggregator.Rank(query, hits)
	results := aggregator.Partition(query, hits)

	if cacheable {
		if err := s.cache.Set(ctx, gen, query, results); err != nil {
			s.logger.Warn("search cache write failed", "error", err)
		}
	}
	s.logger.Debug("search", "query", query, "hits", results.Total)
	return results, nil
}

// Invalidate drops cached results, called when searchable entities change
func (s *SearchService) Invalidate(ctx context.Context, event events.Event) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("search cache invalidation failed", "entity", event.Entity, "id", event.ID, "error", err)
		return
	}
	s.logger.Trace("search cache invalidated", "entity", event.Entity, "type", event.Type)
}

// Close releases the cache
func (s *SearchService) Close() error {
	return s.cache.Close()
}
