package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ratelshop/backend/internal/domain"
	"github.com/ratelshop/backend/internal/usecase"
)

// maxMessageLength bounds messages accepted by the content check endpoint.
const maxMessageLength = 1000

// Handler holds dependencies for HTTP handlers
type Handler struct {
	prices      *usecase.PriceService
	negotiation *usecase.NegotiationService
	filter      *usecase.ContentFilter
	copywriter  domain.Copywriter // nil when Gemini is not configured
}

// NewHandler creates a new HTTP handler
func NewHandler(
	prices *usecase.PriceService,
	negotiation *usecase.NegotiationService,
	filter *usecase.ContentFilter,
	copywriter domain.Copywriter,
) *Handler {
	return &Handler{
		prices:      prices,
		negotiation: negotiation,
		filter:      filter,
		copywriter:  copywriter,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "ratelshop-backend",
		"version": "1.0.0",
	})
}

// AnalyzePrice handles market price analysis requests
func (h *Handler) AnalyzePrice(c *gin.Context) {
	var req domain.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	analysis, err := h.prices.Analyze(c.Request.Context(), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

// SuggestCounterOffer handles negotiation counter-offer requests
func (h *Handler) SuggestCounterOffer(c *gin.Context) {
	var req domain.SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName and listingPrice are required"})
		return
	}

	analysis, err := h.prices.Analyze(c.Request.Context(), &domain.AnalyzeRequest{ProductName: req.ProductName})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	suggestion := h.negotiation.SuggestCounterOffer(analysis, req.ListingPrice, req.PriceFlag)

	c.JSON(http.StatusOK, gin.H{
		"suggestedPrice": suggestion,
		"floorPrice":     h.negotiation.FloorPrice(analysis, req.ListingPrice),
		"analysis":       analysis,
	})
}

// ValidateOffer handles validation of buyer-typed counter-offers
func (h *Handler) ValidateOffer(c *gin.Context) {
	var req domain.ValidateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName, listingPrice and offer are required"})
		return
	}

	analysis, err := h.prices.Analyze(c.Request.Context(), &domain.AnalyzeRequest{ProductName: req.ProductName})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	floor := h.negotiation.FloorPrice(analysis, req.ListingPrice)

	if err := h.negotiation.ValidateOffer(analysis, req.ListingPrice, req.Offer); err != nil {
		if errors.Is(err, domain.ErrOfferBelowFloor) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":      err.Error(),
				"floorPrice": floor,
			})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accepted":   true,
		"floorPrice": floor,
	})
}

// CheckMessage handles content safety checks for buyer/seller messages. The
// same endpoint serves both the live-typing warning and the submit-time
// block so both call sites share one pattern set.
func (h *Handler) CheckMessage(c *gin.Context) {
	var req domain.CheckMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	if len(req.Message) > maxMessageLength {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message exceeds maximum length"})
		return
	}

	c.JSON(http.StatusOK, h.filter.Check(req.Message))
}

// GenerateCopy handles listing copywriting requests
func (h *Handler) GenerateCopy(c *gin.Context) {
	if h.copywriter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}

	var req domain.GenerateCopyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productName is required"})
		return
	}

	listingCopy, err := h.copywriter.GenerateListingCopy(c.Request.Context(), &req)
	if err != nil {
		h.writeAssistantError(c, err)
		return
	}

	c.JSON(http.StatusOK, listingCopy)
}

// Assist handles shopping-assistant chat requests
func (h *Handler) Assist(c *gin.Context) {
	if h.copywriter == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}

	var req domain.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	reply, err := h.copywriter.Assist(c.Request.Context(), &req)
	if err != nil {
		h.writeAssistantError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": strings.TrimSpace(reply)})
}

func (h *Handler) writeAssistantError(c *gin.Context, err error) {
	if errors.Is(err, domain.ErrInvalidRequest) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "assistant request failed"})
}
