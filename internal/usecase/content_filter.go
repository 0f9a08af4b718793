package usecase

import (
	"regexp"
	"strings"

	"github.com/ratelshop/backend/internal/domain"
)

// Category labels reported in FilterResult.BlockedCategories
const (
	CategoryPhoneNumber    = "phone number"
	CategoryNigerianPhone  = "Nigerian phone number"
	CategoryMessagingApp   = "messaging app reference"
	CategoryEmail          = "email address"
	CategorySocialHandle   = "social media handle"
	CategorySocialPlatform = "social platform reference"
	CategoryURL            = "URL"
)

// Compiled patterns for contact-information detection. These are best-effort
// heuristics, not a security boundary: spelled-out digits, zero-width
// separators and similar evasions are not normalized, and false positives
// are accepted in favor of over-blocking.
var (
	// Candidate digit sequences with optional separators; actual phone-length
	// check (7-13 digits) happens in looksLikePhoneNumber. Commas are
	// deliberately not a separator so prices like "1,200,000" stay clean.
	phoneCandidatePattern = regexp.MustCompile(`\+?\d[\d\s.\-()]{5,20}\d`)

	// Nigerian 11-digit mobile numbers: 070x/080x/081x/090x/091x prefixes
	nigerianPhonePattern = regexp.MustCompile(`\b0(70|80|81|90|91)\d{8}\b`)

	messagingAppPattern = regexp.MustCompile(`(?i)\bwhats\s?app\b|\bwa\.me\b`)

	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// @handle at start of text or after a non-address character, so the
	// domain half of an email does not double as a handle
	socialHandlePattern = regexp.MustCompile(`(?:^|[^A-Za-z0-9._%+\-])@[A-Za-z0-9_.]{2,30}`)

	socialPlatformPattern = regexp.MustCompile(`(?i)\b(instagram|insta|facebook|fb|telegram|t\.me|twitter|tiktok|snapchat)\b`)

	urlPattern = regexp.MustCompile(`(?i)https?://\S+|\bwww\.\S+`)

	digitsOnlyPattern = regexp.MustCompile(`\D`)
)

// detector pairs a category label with its match function. Detectors run in
// a fixed order and every matching category is reported, not just the first.
type detector struct {
	category string
	matches  func(message string) bool
}

var detectors = []detector{
	{CategoryNigerianPhone, nigerianPhonePattern.MatchString},
	{CategoryPhoneNumber, looksLikePhoneNumber},
	{CategoryMessagingApp, messagingAppPattern.MatchString},
	{CategoryEmail, emailPattern.MatchString},
	{CategorySocialHandle, socialHandlePattern.MatchString},
	{CategorySocialPlatform, socialPlatformPattern.MatchString},
	{CategoryURL, urlPattern.MatchString},
}

// ContentFilter scans buyer/seller messages for contact-sharing patterns
// that would let a transaction move off-platform.
type ContentFilter struct{}

// NewContentFilter creates a new content filter
func NewContentFilter() *ContentFilter {
	return &ContentFilter{}
}

// Check scans a message and reports every matched category. It is pure and
// never fails: a message matching no pattern is clean. The same Check backs
// both the live-typing warning and the submit-time hard block so the two
// call sites can never disagree.
func (f *ContentFilter) Check(message string) *domain.FilterResult {
	result := &domain.FilterResult{
		IsClean:           true,
		BlockedCategories: []string{},
	}

	if strings.TrimSpace(message) == "" {
		return result
	}

	for _, d := range detectors {
		if d.matches(message) {
			result.IsClean = false
			result.BlockedCategories = append(result.BlockedCategories, d.category)
		}
	}

	return result
}

// looksLikePhoneNumber reports whether the message contains a separator-laced
// digit sequence totaling a realistic phone-number length (7-13 digits).
func looksLikePhoneNumber(message string) bool {
	for _, candidate := range phoneCandidatePattern.FindAllString(message, -1) {
		digits := digitsOnlyPattern.ReplaceAllString(candidate, "")
		if len(digits) >= 7 && len(digits) <= 13 {
			return true
		}
	}
	return false
}
