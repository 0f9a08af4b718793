package usecase

import (
	"regexp"
	"strconv"
	"strings"
)

// nairaAmountPattern recognizes a currency-tagged amount: the naira symbol,
// "NGN", or a word-initial capital "N", followed by a number with optional
// thousands commas and optional decimals. Requiring the currency tag keeps
// phone numbers, model numbers and years out of the extraction.
var nairaAmountPattern = regexp.MustCompile(`(?:₦|NGN|\bN)\s*(\d{1,3}(?:,\d{3})+(?:\.\d{1,2})?|\d+(?:\.\d{1,2})?)`)

// extractAmounts pulls every currency-tagged amount out of a free-text
// snippet, in order of appearance.
func extractAmounts(text string) []float64 {
	matches := nairaAmountPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	amounts := make([]float64, 0, len(matches))
	for _, m := range matches {
		raw := strings.ReplaceAll(m[1], ",", "")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		amounts = append(amounts, amount)
	}

	return amounts
}

// plausible guards against mis-extracted non-price numbers: amounts outside
// the consumer-goods bounds are discarded before averaging.
func plausible(amount, min, max float64) bool {
	return amount >= min && amount <= max
}
