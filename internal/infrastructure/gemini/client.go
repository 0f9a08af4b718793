// Package gemini backs the listing-copywriting and shopping-assistant
// endpoints with Google's Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/ratelshop/backend/internal/domain"
)

// Client wraps the genai SDK behind the domain.Copywriter interface.
type Client struct {
	client      *genai.Client
	model       string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new Gemini client. An empty API key is an expected
// condition (the AI features are optional); it is reported as
// ErrAssistantUnavailable so main can log and continue without them.
func NewClient(ctx context.Context, apiKey, model string, logger zerolog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, domain.ErrAssistantUnavailable
	}

	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{
		client:      client,
		model:       model,
		rateLimiter: rate.NewLimiter(rate.Limit(1), 3),
		logger:      logger.With().Str("component", "gemini").Logger(),
	}, nil
}

// GenerateListingCopy produces a listing title and description for a product.
func (c *Client) GenerateListingCopy(ctx context.Context, req *domain.GenerateCopyRequest) (*domain.ListingCopy, error) {
	if req == nil || req.ProductName == "" {
		return nil, domain.ErrInvalidRequest
	}

	text, err := c.generate(ctx, buildCopyPrompt(req))
	if err != nil {
		return nil, err
	}

	copyResult := splitListingCopy(text, req.ProductName)
	c.logger.Debug().Str("product", req.ProductName).Msg("listing copy generated")
	return copyResult, nil
}

// Assist answers a shopper question, optionally grounded in listing context.
func (c *Client) Assist(ctx context.Context, req *domain.AssistRequest) (string, error) {
	if req == nil || req.Message == "" {
		return "", domain.ErrInvalidRequest
	}

	reply, err := c.generate(ctx, buildAssistPrompt(req))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

// generate runs a single non-streaming generation call.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		c.logger.Warn().Err(err).Msg("generation request failed")
		return "", fmt.Errorf("%w: %v", domain.ErrAssistantUnavailable, err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrAssistantUnavailable)
	}

	return text, nil
}

// buildCopyPrompt assembles the copywriting prompt. The first line of the
// model reply is used as the title, the remainder as the description.
func buildCopyPrompt(req *domain.GenerateCopyRequest) string {
	var b strings.Builder
	b.WriteString("Write a short marketplace listing for the following product. ")
	b.WriteString("Reply with the listing title on the first line, then a blank line, then a 2-3 sentence description. ")
	b.WriteString("No markdown, no labels, no contact information.\n\n")
	b.WriteString("Product: " + req.ProductName + "\n")
	if req.Category != "" {
		b.WriteString("Category: " + req.Category + "\n")
	}
	if req.Condition != "" {
		b.WriteString("Condition: " + req.Condition + "\n")
	}
	if len(req.Highlights) > 0 {
		b.WriteString("Highlights: " + strings.Join(req.Highlights, ", ") + "\n")
	}
	return b.String()
}

func buildAssistPrompt(req *domain.AssistRequest) string {
	var b strings.Builder
	b.WriteString("You are the shopping assistant of a Nigerian online marketplace. ")
	b.WriteString("Answer the shopper briefly and helpfully. ")
	b.WriteString("Never suggest taking the transaction off the platform or sharing contact details.\n\n")
	if req.ListingContext != "" {
		b.WriteString("Listing being viewed: " + req.ListingContext + "\n\n")
	}
	b.WriteString("Shopper: " + req.Message + "\n")
	return b.String()
}

// splitListingCopy splits a model reply into title and description. Falls
// back to the product name as title when the reply is a single block.
func splitListingCopy(text, productName string) *domain.ListingCopy {
	trimmed := strings.TrimSpace(text)

	if idx := strings.Index(trimmed, "\n"); idx > 0 {
		title := strings.TrimSpace(trimmed[:idx])
		description := strings.TrimSpace(trimmed[idx+1:])
		if title != "" && description != "" {
			return &domain.ListingCopy{Title: title, Description: description}
		}
	}

	return &domain.ListingCopy{Title: productName, Description: trimmed}
}
