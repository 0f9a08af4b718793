package domain

// FilterResult reports which contact-sharing patterns matched a message.
type FilterResult struct {
	IsClean           bool     `json:"isClean"`
	BlockedCategories []string `json:"blockedCategories"` // unique, in order of first match
}

// CheckMessageRequest carries a buyer/seller message to be scanned.
type CheckMessageRequest struct {
	Message string `json:"message" binding:"required"`
}

// GenerateCopyRequest asks the copywriter for listing title and description.
type GenerateCopyRequest struct {
	ProductName string   `json:"productName" binding:"required"`
	Category    string   `json:"category,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// ListingCopy is generated marketplace text for a product listing.
type ListingCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// AssistRequest carries a shopper question for the assistant, with optional
// listing context the frontend attaches when the chat is opened from a
// product page.
type AssistRequest struct {
	Message        string `json:"message" binding:"required"`
	ListingContext string `json:"listingContext,omitempty"`
}
