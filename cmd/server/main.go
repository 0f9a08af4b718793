package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/ratelshop/backend/config"
	httpDelivery "github.com/ratelshop/backend/internal/delivery/http"
	"github.com/ratelshop/backend/internal/domain"
	"github.com/ratelshop/backend/internal/infrastructure/cache"
	"github.com/ratelshop/backend/internal/infrastructure/gemini"
	"github.com/ratelshop/backend/internal/infrastructure/websearch"
	"github.com/ratelshop/backend/internal/logging"
	"github.com/ratelshop/backend/internal/usecase"
)

func main() {
	// Local development convenience; missing .env is fine
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger := logging.NewLogger(cfg.Logging)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Msg("starting ratelshop backend v1.0.0")

	// Infrastructure
	memoryCache := cache.NewMemoryCache()

	searchClient := websearch.NewClient(websearch.Options{
		APIKey:   cfg.Search.APIKey,
		EngineID: cfg.Search.EngineID,
		BaseURL:  cfg.Search.BaseURL,
		Country:  cfg.Search.Country,
		Timeout:  cfg.Search.Timeout,
	}, logger)

	if searchClient.Configured() {
		logger.Info().Str("base_url", cfg.Search.BaseURL).Str("country", cfg.Search.Country).
			Msg("search provider configured")
	} else {
		logger.Warn().Msg("search provider credentials absent, price analysis will run in simulation mode")
	}

	// The AI features are optional: without a key the endpoints return 503
	// and everything else keeps working.
	var copywriter domain.Copywriter
	if geminiClient, err := gemini.NewClient(context.Background(), cfg.Gemini.APIKey, cfg.Gemini.Model, logger); err != nil {
		logger.Warn().Err(err).Msg("Gemini not available, AI endpoints disabled")
	} else {
		copywriter = geminiClient
		logger.Info().Str("model", cfg.Gemini.Model).Msg("Gemini configured")
	}

	// Usecase layer
	priceService := usecase.NewPriceService(searchClient, memoryCache, usecase.PriceServiceConfig{
		Region:        cfg.Pricing.Region,
		MinPlausible:  cfg.Pricing.MinPlausible,
		MaxPlausible:  cfg.Pricing.MaxPlausible,
		SimulationMin: cfg.Pricing.SimulationMin,
		SimulationMax: cfg.Pricing.SimulationMax,
		CacheTTL:      cfg.Cache.TTL,
	}, logger)

	negotiationService := usecase.NewNegotiationService(usecase.NegotiationConfig{})
	contentFilter := usecase.NewContentFilter()

	// HTTP delivery
	handler := httpDelivery.NewHandler(priceService, negotiationService, contentFilter, copywriter)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("server listening")

	if err := router.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
