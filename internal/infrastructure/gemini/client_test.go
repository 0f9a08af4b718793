package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ratelshop/backend/internal/domain"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	client, err := NewClient(context.Background(), "", "gemini-2.0-flash", zerolog.Nop())

	assert.Nil(t, client)
	assert.ErrorIs(t, err, domain.ErrAssistantUnavailable)
}

func TestBuildCopyPrompt(t *testing.T) {
	prompt := buildCopyPrompt(&domain.GenerateCopyRequest{
		ProductName: "Samsung 55-inch TV",
		Category:    "Electronics",
		Condition:   "Used - like new",
		Highlights:  []string{"4K", "original remote"},
	})

	assert.Contains(t, prompt, "Samsung 55-inch TV")
	assert.Contains(t, prompt, "Category: Electronics")
	assert.Contains(t, prompt, "Condition: Used - like new")
	assert.Contains(t, prompt, "4K, original remote")
	assert.Contains(t, prompt, "No markdown")
}

func TestBuildCopyPrompt_OmitsEmptyFields(t *testing.T) {
	prompt := buildCopyPrompt(&domain.GenerateCopyRequest{ProductName: "Table Fan"})

	assert.Contains(t, prompt, "Table Fan")
	assert.NotContains(t, prompt, "Category:")
	assert.NotContains(t, prompt, "Condition:")
	assert.NotContains(t, prompt, "Highlights:")
}

func TestBuildAssistPrompt(t *testing.T) {
	t.Run("with listing context", func(t *testing.T) {
		prompt := buildAssistPrompt(&domain.AssistRequest{
			Message:        "does it come with a charger?",
			ListingContext: "MacBook Air M1, ₦650,000",
		})

		assert.Contains(t, prompt, "MacBook Air M1")
		assert.Contains(t, prompt, "does it come with a charger?")
		assert.Contains(t, prompt, "Never suggest taking the transaction off the platform")
	})

	t.Run("without listing context", func(t *testing.T) {
		prompt := buildAssistPrompt(&domain.AssistRequest{Message: "how does escrow work?"})

		assert.NotContains(t, prompt, "Listing being viewed")
		assert.Contains(t, prompt, "how does escrow work?")
	})
}

func TestSplitListingCopy(t *testing.T) {
	t.Run("title on first line", func(t *testing.T) {
		got := splitListingCopy("Sleek Standing Fan\n\nKeeps the whole room cool. Barely used.", "fan")

		assert.Equal(t, "Sleek Standing Fan", got.Title)
		assert.Equal(t, "Keeps the whole room cool. Barely used.", got.Description)
	})

	t.Run("single block falls back to product name", func(t *testing.T) {
		got := splitListingCopy("Just one paragraph of text.", "Standing Fan")

		assert.Equal(t, "Standing Fan", got.Title)
		assert.Equal(t, "Just one paragraph of text.", got.Description)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		got := splitListingCopy("  Title line \n body text \n", "fallback")

		assert.Equal(t, "Title line", got.Title)
		assert.False(t, strings.HasSuffix(got.Description, " "))
	})
}
