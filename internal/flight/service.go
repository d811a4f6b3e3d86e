package flight

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"flybooker/pkg/cache"
	"flybooker/pkg/logger"
)

// SearchClient fetches flights from the FlyBooker backend.
type SearchClient interface {
	SearchFlights(ctx context.Context, criteria SearchCriteria) ([]Flight, error)
}

type Service struct {
	client SearchClient
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Client
}

func NewService(client SearchClient, cache cache.Cache, ttlMinutes int, logger logger.Client) *Service {
	return &Service{
		client: client,
		cache:  cache,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: logger,
	}
}

// generateCacheKey creates a deterministic key from search parameters
func (s *Service) generateCacheKey(criteria SearchCriteria) string {
	key := fmt.Sprintf("flight:%s:%s:%s:%s:%d:%s",
		criteria.Origin,
		criteria.Destination,
		criteria.DepartureDate,
		criteria.ReturnDate,
		criteria.Passengers,
		criteria.TravelClass,
	)

	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("flight:search:%x", hash[:16])
}

// Search returns flights for the criteria, serving from the redis cache when
// a fresh result exists. Sorting is applied after the cache layer so a sort
// change never forces a backend round trip.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	cacheKey := s.generateCacheKey(req.SearchCriteria)

	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var response SearchResponse
		if err := json.Unmarshal([]byte(cached), &response); err != nil {
			s.logger.Error("failed to unmarshal cached search", logger.Err(err))
		} else {
			response.Metadata.CacheHit = true
			response.Metadata.CacheKey = cacheKey
			if req.Sort != nil {
				response.Flights = s.applySorting(response.Flights, *req.Sort)
			}
			return &response, nil
		}
	}

	startTime := time.Now()
	flights, err := s.client.SearchFlights(ctx, req.SearchCriteria)
	if err != nil {
		return nil, err
	}
	searchTime := time.Since(startTime).Milliseconds()

	response := &SearchResponse{
		SearchCriteria: req.SearchCriteria,
		Metadata: Metadata{
			TotalResults: uint32(len(flights)),
			SearchTimeMs: uint32(searchTime),
			CacheKey:     cacheKey,
			CacheHit:     false,
		},
		Flights: flights,
	}

	responseBytes, err := json.Marshal(response)
	if err != nil {
		s.logger.Error("failed to marshal search response", logger.Err(err))
		return response, nil // Return response even if caching fails
	}

	if err := s.cache.Set(ctx, cacheKey, string(responseBytes), s.ttl); err != nil {
		s.logger.Error("failed to cache search response", logger.Err(err),
			logger.Field{Key: "cache_key", Value: cacheKey})
	}

	if req.Sort != nil {
		response.Flights = s.applySorting(response.Flights, *req.Sort)
	}

	return response, nil
}

// InvalidateCache manually invalidates cache for a specific route
func (s *Service) InvalidateCache(ctx context.Context, criteria SearchCriteria) error {
	cacheKey := s.generateCacheKey(criteria)
	s.logger.Info("invalidating cache", logger.Field{Key: "cache_key", Value: cacheKey})
	return s.cache.Del(ctx, cacheKey)
}
