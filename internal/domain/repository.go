package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SearchClient defines the interface for the external web search provider
// used to gather market price snippets.
type SearchClient interface {
	// Search returns up to limit result items for the query.
	Search(ctx context.Context, query string, limit int) ([]SearchItem, error)
	// Configured reports whether provider credentials are present. When
	// false, callers are expected to use simulation mode instead of calling
	// Search.
	Configured() bool
}

// Copywriter defines the interface for the generative-AI features: listing
// copywriting and the shopping assistant.
type Copywriter interface {
	GenerateListingCopy(ctx context.Context, req *GenerateCopyRequest) (*ListingCopy, error)
	Assist(ctx context.Context, req *AssistRequest) (string, error)
}
