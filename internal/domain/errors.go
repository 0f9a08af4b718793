package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrOfferBelowFloor is returned when a buyer's counter-offer is below
	// the negotiation floor price
	ErrOfferBelowFloor = errors.New("offer below negotiation floor")

	// ErrSearchUnavailable is returned when the web search provider request fails
	ErrSearchUnavailable = errors.New("search provider request failed")

	// ErrSearchNotConfigured is returned when provider credentials are absent
	ErrSearchNotConfigured = errors.New("search provider not configured")

	// ErrAssistantUnavailable is returned when the generative assistant is
	// not configured or its request fails
	ErrAssistantUnavailable = errors.New("assistant unavailable")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
