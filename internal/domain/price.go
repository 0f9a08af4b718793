package domain

import "time"

// PriceFlag classifies how a listing's price compares to the market reference.
type PriceFlag string

const (
	PriceFlagFair       PriceFlag = "fair"
	PriceFlagOverpriced PriceFlag = "overpriced"
	PriceFlagTooLow     PriceFlag = "too_low"
)

// Fallback reasons recorded when a price analysis came from the simulator
// instead of live search data.
const (
	FallbackNotConfigured     = "not_configured"
	FallbackProviderError     = "provider_error"
	FallbackNoPlausiblePrices = "no_plausible_prices"
)

// Analysis source labels
const (
	AnalysisSourceSearch     = "search"
	AnalysisSourceSimulation = "simulation"
	AnalysisSourceCache      = "cache"
)

// PriceSample is one observed price point for a product query.
// Samples are created per analysis and never persisted.
type PriceSample struct {
	Source string  `json:"source"`
	Price  float64 `json:"price"`
	URL    string  `json:"url"`
}

// PriceAnalysis is the result of a market price check for a product name.
type PriceAnalysis struct {
	ProductName      string        `json:"productName"`
	MarketAverage    float64       `json:"marketAverage"`
	MarketLow        float64       `json:"marketLow"`
	RecommendedPrice float64       `json:"recommendedPrice"`
	Sources          []PriceSample `json:"sources"` // at most 4, most relevant first
	Simulated        bool          `json:"simulated"`
	FallbackReason   string        `json:"fallbackReason,omitempty"`
	Source           string        `json:"source"` // "search", "simulation" or "cache"
	CachedAt         time.Time     `json:"cachedAt,omitempty"`
}

// SearchItem is a single result returned by the web search provider.
type SearchItem struct {
	Title       string `json:"title"`
	Snippet     string `json:"snippet"`
	DisplayLink string `json:"displayLink"`
	Link        string `json:"link"`
}

// AnalyzeRequest asks for a market price analysis of a product name.
type AnalyzeRequest struct {
	ProductName string `json:"productName" binding:"required"`
}

// SuggestRequest asks for a negotiation counter-offer for a listing.
type SuggestRequest struct {
	ProductName  string    `json:"productName" binding:"required"`
	ListingPrice float64   `json:"listingPrice" binding:"required,gt=0"`
	PriceFlag    PriceFlag `json:"priceFlag,omitempty"`
}

// ValidateOfferRequest checks a buyer-typed counter-offer against the
// negotiation floor.
type ValidateOfferRequest struct {
	ProductName  string  `json:"productName" binding:"required"`
	ListingPrice float64 `json:"listingPrice" binding:"required,gt=0"`
	Offer        float64 `json:"offer" binding:"required,gt=0"`
}
