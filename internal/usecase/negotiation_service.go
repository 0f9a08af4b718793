package usecase

import (
	"fmt"
	"math"

	"github.com/ratelshop/backend/internal/domain"
)

// NegotiationConfig holds configuration for the negotiation service
type NegotiationConfig struct {
	// TooLowMargin is how far below market average the counter-offer lands
	// for suspiciously underpriced listings.
	TooLowMargin float64
	// BelowAverageMargin is the discount applied when the listing already
	// sits at or below market average.
	BelowAverageMargin float64
	// NoDataMargin is the discount applied when no market data exists.
	NoDataMargin float64
	// FloorRatio is the fallback floor (fraction of listing price) used when
	// no market low is available.
	FloorRatio float64
	// RoundTo is the currency granularity suggestions are rounded to.
	RoundTo float64
}

// NegotiationService computes buyer counter-offers on top of a price
// analysis and validates buyer-typed offers against the negotiation floor.
type NegotiationService struct {
	config NegotiationConfig
}

// NewNegotiationService creates a new negotiation service with the given
// configuration, defaulting any zero value.
func NewNegotiationService(config NegotiationConfig) *NegotiationService {
	if config.TooLowMargin <= 0 {
		config.TooLowMargin = 0.05
	}
	if config.BelowAverageMargin <= 0 {
		config.BelowAverageMargin = 0.05
	}
	if config.NoDataMargin <= 0 {
		config.NoDataMargin = 0.08
	}
	if config.FloorRatio <= 0 {
		config.FloorRatio = 0.5
	}
	if config.RoundTo <= 0 {
		config.RoundTo = 100
	}

	return &NegotiationService{config: config}
}

// SuggestCounterOffer computes the counter-offer a buyer can propose for a
// listing, given its market analysis and price flag.
//
// Decision order:
//  1. too_low flag with usable market data: 95% of market average. Paying
//     near the honest market rate, not the suspicious low price, protects
//     the buyer from a likely scam.
//  2. overpriced flag with usable market data: midpoint of market low and
//     market average.
//  3. listing above market average: the market average itself.
//  4. listing at/below market average: 95% of the listing price.
//  5. no market data: 92% of the listing price.
//
// The result is rounded to the nearest 100 and never below the floor price.
func (s *NegotiationService) SuggestCounterOffer(analysis *domain.PriceAnalysis, listingPrice float64, flag domain.PriceFlag) float64 {
	var average, low float64
	if analysis != nil {
		average = analysis.MarketAverage
		low = analysis.MarketLow
	}

	var suggestion float64
	switch {
	case flag == domain.PriceFlagTooLow && average > 0:
		suggestion = s.round(average * (1 - s.config.TooLowMargin))
	case flag == domain.PriceFlagOverpriced && average > 0 && low > 0:
		suggestion = s.round((low + average) / 2)
	case average > 0 && listingPrice > average:
		suggestion = s.round(average)
	case average > 0:
		suggestion = s.round(listingPrice * (1 - s.config.BelowAverageMargin))
	default:
		suggestion = s.round(listingPrice * (1 - s.config.NoDataMargin))
	}

	// A counter-offer below the cheapest verified price is one no rational
	// seller would accept.
	if floor := s.FloorPrice(analysis, listingPrice); suggestion < floor {
		suggestion = floor
	}

	return suggestion
}

// FloorPrice returns the lowest counter-offer the platform accepts for a
// listing: the market low when one exists, otherwise a fraction of the
// listing price.
func (s *NegotiationService) FloorPrice(analysis *domain.PriceAnalysis, listingPrice float64) float64 {
	if analysis != nil && analysis.MarketLow > 0 {
		return analysis.MarketLow
	}
	return listingPrice * s.config.FloorRatio
}

// ValidateOffer checks a buyer-typed counter-offer against the floor. This
// is the single user-facing error path of the price pipeline; the returned
// error names the floor so the frontend can display it.
func (s *NegotiationService) ValidateOffer(analysis *domain.PriceAnalysis, listingPrice, offer float64) error {
	if offer <= 0 || listingPrice <= 0 {
		return domain.ErrInvalidRequest
	}

	floor := s.FloorPrice(analysis, listingPrice)
	if offer < floor {
		return fmt.Errorf("%w: minimum acceptable offer is ₦%.0f", domain.ErrOfferBelowFloor, floor)
	}

	return nil
}

func (s *NegotiationService) round(value float64) float64 {
	return math.Round(value/s.config.RoundTo) * s.config.RoundTo
}
