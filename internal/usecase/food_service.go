package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/macrolens/foodlog/internal/domain"
	"github.com/macrolens/foodlog/internal/infrastructure/usda"
	"github.com/macrolens/foodlog/internal/platform/logger"
)

const defaultCacheTTL = 24 * time.Hour

// PresetMatcher finds local presets for a search query
type PresetMatcher interface {
	Match(ctx context.Context, query string) ([]domain.Preset, error)
}

// FoodServiceConfig holds configuration for the food service
type FoodServiceConfig struct {
	CacheTTL time.Duration
}

// FoodService answers food searches and detail lookups.
// Presets are searched locally, USDA remotely, and normalized results are cached.
type FoodService struct {
	usdaClient domain.USDAClient
	cache      domain.CacheRepository
	presets    PresetMatcher
	cacheTTL   time.Duration
	log        *logger.Logger
}

// NewFoodService creates a food service. cache and presets may be nil.
func NewFoodService(
	usdaClient domain.USDAClient,
	cache domain.CacheRepository,
	presets PresetMatcher,
	log *logger.Logger,
	config FoodServiceConfig,
) *FoodService {
	cacheTTL := config.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	if log == nil {
		log = logger.Nop()
	}
	return &FoodService{
		usdaClient: usdaClient,
		cache:      cache,
		presets:    presets,
		cacheTTL:   cacheTTL,
		log:        log.With("service", "FoodService"),
	}
}

// Search returns matching presets followed by USDA results.
// Queries shorter than three characters return nothing without any lookup.
// Lookup failures are logged and yield fewer results, never an error.
func (s *FoodService) Search(ctx context.Context, query string) ([]domain.FoodSummary, error) {
	if !searchable(query) {
		return []domain.FoodSummary{}, nil
	}

	var (
		local  []domain.FoodSummary
		remote []domain.FoodSummary
		g      errgroup.Group
	)
	g.Go(func() error {
		local = s.searchPresets(ctx, query)
		return nil
	})
	g.Go(func() error {
		remote = s.searchUSDA(ctx, query)
		return nil
	})
	_ = g.Wait()

	results := make([]domain.FoodSummary, 0, len(local)+len(remote))
	results = append(results, local...)
	results = append(results, remote...)
	return results, nil
}

func (s *FoodService) searchPresets(ctx context.Context, query string) []domain.FoodSummary {
	if s.presets == nil {
		return nil
	}
	matches, err := s.presets.Match(ctx, query)
	if err != nil {
		s.log.Warn("preset search failed", "query", query, "error", err)
		return nil
	}
	out := make([]domain.FoodSummary, 0, len(matches))
	for _, p := range matches {
		out = append(out, p.Summary())
	}
	return out
}

func (s *FoodService) searchUSDA(ctx context.Context, query string) []domain.FoodSummary {
	key := searchCacheKey(query)

	var cached []domain.FoodSummary
	if s.getFromCache(ctx, key, &cached) {
		return cached
	}

	resp, err := s.usdaClient.SearchFoods(ctx, upstreamQuery(query))
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.log.Warn("USDA search failed", "query", query, "error", err)
		}
		return nil
	}

	summaries := make([]domain.FoodSummary, 0, len(resp.Foods))
	for i := range resp.Foods {
		summaries = append(summaries, usda.NormalizeSummary(&resp.Foods[i]))
	}

	s.setInCache(ctx, key, summaries)
	return summaries
}

// GetFoodDetail returns the normalized detail of a USDA food.
// Any upstream failure is reported as domain.ErrFoodUnavailable.
func (s *FoodService) GetFoodDetail(ctx context.Context, fdcID int64) (*domain.FoodDetail, error) {
	if fdcID <= 0 {
		return nil, fmt.Errorf("%w: fdc id %d", domain.ErrInvalidRequest, fdcID)
	}

	key := detailCacheKey(fdcID)
	var cached domain.FoodDetail
	if s.getFromCache(ctx, key, &cached) {
		return &cached, nil
	}

	food, err := s.usdaClient.GetFoodDetails(ctx, fdcID)
	if err != nil {
		s.log.Warn("USDA detail lookup failed", "fdc_id", fdcID, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrFoodUnavailable, err)
	}
	if food == nil {
		return nil, domain.ErrFoodUnavailable
	}

	detail := usda.NormalizeDetail(food)
	s.setInCache(ctx, key, &detail)
	return &detail, nil
}

func detailCacheKey(fdcID int64) string {
	return fmt.Sprintf("food:detail:%d", fdcID)
}

// getFromCache decodes the cached value at key into dst and reports whether it was found
func (s *FoodService) getFromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.cache == nil {
		return false
	}
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.log.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = s.cache.Delete(ctx, key)
		return false
	}
	return true
}

// setInCache stores v under key. Failures are logged, never returned.
func (s *FoodService) setInCache(ctx context.Context, key string, v interface{}) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		s.log.Warn("cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.cacheTTL); err != nil {
		s.log.Warn("cache write failed", "key", key, "error", err)
	}
}
