package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ratelshop/backend/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-z0-9\s]`)
	multipleSpacesRegex  = regexp.MustCompile(`\s+`)
)

// maxSources caps how many samples a PriceAnalysis carries.
const maxSources = 4

// recommendMargin is how far below market average the engine's own
// recommendation lands.
const recommendMargin = 0.05

// Synthetic sources are fixed percentage offsets from the simulated average
// so fallback output has the same shape as live output.
var simulationOffsets = []float64{0.05, -0.02, 0.10}

// PriceServiceConfig holds configuration for the price service
type PriceServiceConfig struct {
	Region        string
	ResultLimit   int
	MinPlausible  float64
	MaxPlausible  float64
	SimulationMin float64
	SimulationMax float64
	CacheTTL      time.Duration
}

// PriceService derives a market average and a recommended price for a
// product name from web search snippets, falling back to a simulated
// distribution whenever live data cannot be obtained.
type PriceService struct {
	search domain.SearchClient
	cache  domain.CacheRepository
	config PriceServiceConfig
	logger zerolog.Logger
}

// NewPriceService creates a new price service with dependencies
func NewPriceService(
	search domain.SearchClient,
	cache domain.CacheRepository,
	config PriceServiceConfig,
	logger zerolog.Logger,
) *PriceService {
	if config.Region == "" {
		config.Region = "Nigeria"
	}
	if config.ResultLimit <= 0 {
		config.ResultLimit = 10
	}
	if config.MinPlausible <= 0 {
		config.MinPlausible = 100
	}
	if config.MaxPlausible <= config.MinPlausible {
		config.MaxPlausible = 10_000_000
	}
	if config.SimulationMin <= 0 {
		config.SimulationMin = 30_000
	}
	if config.SimulationMax <= config.SimulationMin {
		config.SimulationMax = 450_000
	}
	if config.CacheTTL <= 0 {
		config.CacheTTL = time.Hour
	}

	return &PriceService{
		search: search,
		cache:  cache,
		config: config,
		logger: logger.With().Str("component", "price_service").Logger(),
	}
}

// Analyze produces a price analysis for a product name. It always resolves:
// provider failures and unusable results degrade to simulation mode rather
// than surfacing as errors. The only error condition is an empty name.
func (s *PriceService) Analyze(ctx context.Context, req *domain.AnalyzeRequest) (*domain.PriceAnalysis, error) {
	if req == nil || strings.TrimSpace(req.ProductName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	name := strings.TrimSpace(req.ProductName)
	cacheKey := s.cacheKey(name)

	if cached := s.getFromCache(ctx, cacheKey); cached != nil {
		cached.Source = domain.AnalysisSourceCache
		return cached, nil
	}

	if !s.search.Configured() {
		s.logger.Info().Str("product", name).Msg("provider not configured, using simulation")
		return s.simulate(name, domain.FallbackNotConfigured), nil
	}

	query := fmt.Sprintf("%s price in %s", name, s.config.Region)
	items, err := s.search.Search(ctx, query, s.config.ResultLimit)
	if err != nil {
		// Provider trouble never propagates; the negotiation UI must always
		// get a usable analysis.
		s.logger.Warn().Err(err).Str("product", name).Str("event", "provider_error").Msg("falling back to simulation")
		return s.simulate(name, domain.FallbackProviderError), nil
	}

	samples := s.collectSamples(items)
	if len(samples) == 0 {
		s.logger.Info().Str("product", name).Str("event", "no_plausible_prices").
			Int("snippets", len(items)).Msg("falling back to simulation")
		return s.simulate(name, domain.FallbackNoPlausiblePrices), nil
	}

	analysis := buildAnalysis(name, samples)
	analysis.Source = domain.AnalysisSourceSearch

	if err := s.setInCache(ctx, cacheKey, analysis); err != nil {
		s.logger.Debug().Err(err).Str("product", name).Msg("caching analysis failed")
	}

	s.logger.Debug().Str("product", name).Float64("average", analysis.MarketAverage).
		Int("samples", len(samples)).Msg("analysis completed")
	return analysis, nil
}

// collectSamples extracts plausible currency amounts from snippets and
// titles, preserving discovery order.
func (s *PriceService) collectSamples(items []domain.SearchItem) []domain.PriceSample {
	var samples []domain.PriceSample
	for _, item := range items {
		text := item.Snippet
		if text == "" {
			text = item.Title
		}
		for _, amount := range extractAmounts(text) {
			if !plausible(amount, s.config.MinPlausible, s.config.MaxPlausible) {
				continue
			}
			source := item.DisplayLink
			if source == "" {
				source = item.Title
			}
			samples = append(samples, domain.PriceSample{
				Source: source,
				Price:  amount,
				URL:    item.Link,
			})
		}
	}
	return samples
}

// buildAnalysis computes average, low, and recommendation from surviving
// samples.
func buildAnalysis(name string, samples []domain.PriceSample) *domain.PriceAnalysis {
	var sum float64
	low := samples[0].Price
	for _, sample := range samples {
		sum += sample.Price
		if sample.Price < low {
			low = sample.Price
		}
	}
	average := sum / float64(len(samples))

	sources := samples
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}

	return &domain.PriceAnalysis{
		ProductName:      name,
		MarketAverage:    average,
		MarketLow:        low,
		RecommendedPrice: math.Floor(average * (1 - recommendMargin)),
		Sources:          sources,
	}
}

// simulate synthesizes a plausible market distribution: a bounded random
// average plus fixed-offset synthetic sources. Output shape is identical to
// live analyses; Simulated and FallbackReason make the mode assertable.
func (s *PriceService) simulate(name, reason string) *domain.PriceAnalysis {
	// The top-level generator is safe for concurrent use; gin runs handlers
	// on separate goroutines and simulation is the default path when no
	// provider credentials are set.
	span := s.config.SimulationMax - s.config.SimulationMin
	average := math.Round(s.config.SimulationMin + rand.Float64()*span)

	sources := make([]domain.PriceSample, 0, len(simulationOffsets))
	low := average
	for i, offset := range simulationOffsets {
		price := math.Round(average * (1 + offset))
		if price < low {
			low = price
		}
		sources = append(sources, domain.PriceSample{
			Source: fmt.Sprintf("market estimate %d", i+1),
			Price:  price,
			URL:    "#",
		})
	}

	return &domain.PriceAnalysis{
		ProductName:      name,
		MarketAverage:    average,
		MarketLow:        low,
		RecommendedPrice: math.Floor(average * (1 - recommendMargin)),
		Sources:          sources,
		Simulated:        true,
		FallbackReason:   reason,
		Source:           domain.AnalysisSourceSimulation,
	}
}

// cacheKey creates a normalized cache key from a product name.
// Format: "price:{normalized_product_name}"
func (s *PriceService) cacheKey(name string) string {
	normalized := strings.ToLower(name)
	normalized = nonAlphanumericRegex.ReplaceAllString(normalized, "")
	normalized = multipleSpacesRegex.ReplaceAllString(normalized, " ")
	return "price:" + strings.TrimSpace(normalized)
}

// getFromCache retrieves a cached analysis, tolerating the JSON map shape
// the memory cache stores values in.
func (s *PriceService) getFromCache(ctx context.Context, key string) *domain.PriceAnalysis {
	if s.cache == nil {
		return nil
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			s.logger.Debug().Err(err).Str("key", key).Msg("cache read failed")
		}
		return nil
	}

	if analysis, ok := value.(*domain.PriceAnalysis); ok {
		return analysis
	}
	if dataMap, ok := value.(map[string]interface{}); ok {
		return mapToPriceAnalysis(dataMap)
	}
	return nil
}

// setInCache stores a live analysis. Simulated analyses are never cached:
// they carry no market information worth repeating.
func (s *PriceService) setInCache(ctx context.Context, key string, analysis *domain.PriceAnalysis) error {
	if s.cache == nil || analysis.Simulated {
		return nil
	}
	analysis.CachedAt = time.Now()
	return s.cache.Set(ctx, key, analysis, s.config.CacheTTL)
}

// mapToPriceAnalysis converts a map (from JSON cache) to a PriceAnalysis
func mapToPriceAnalysis(data map[string]interface{}) *domain.PriceAnalysis {
	result := &domain.PriceAnalysis{}

	if v, ok := data["productName"].(string); ok {
		result.ProductName = v
	}
	if v, ok := data["marketAverage"].(float64); ok {
		result.MarketAverage = v
	}
	if v, ok := data["marketLow"].(float64); ok {
		result.MarketLow = v
	}
	if v, ok := data["recommendedPrice"].(float64); ok {
		result.RecommendedPrice = v
	}
	if v, ok := data["simulated"].(bool); ok {
		result.Simulated = v
	}
	if v, ok := data["fallbackReason"].(string); ok {
		result.FallbackReason = v
	}
	if v, ok := data["source"].(string); ok {
		result.Source = v
	}
	if v, ok := data["cachedAt"].(string); ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			result.CachedAt = ts
		}
	}

	if rawSources, ok := data["sources"].([]interface{}); ok {
		for _, raw := range rawSources {
			sourceMap, ok := raw.(map[string]interface{})
			if !ok {
				continue
			}
			sample := domain.PriceSample{}
			if v, ok := sourceMap["source"].(string); ok {
				sample.Source = v
			}
			if v, ok := sourceMap["price"].(float64); ok {
				sample.Price = v
			}
			if v, ok := sourceMap["url"].(string); ok {
				sample.URL = v
			}
			result.Sources = append(result.Sources, sample)
		}
	}

	return result
}
