package scrape

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/custodia-labs/pricewatch/internal/core/domain"
)

var nonPriceChars = regexp.MustCompile(`[^\d.,]`)

// ParsePrice normalises messy localized price strings to a float.
//
// Handles:
//   - "1.299,00 €" (EU thousands dot, decimal comma)
//   - "1,299.00 EUR" (US thousands comma, decimal dot)
//   - "1299,50" (decimal comma)
//   - "1299.50" / "1299" (decimal dot / integer)
//
// When both separators appear, the one occurring last is the decimal
// separator and the other is thousands grouping. A lone comma is a
// decimal separator. Multiple dots without a comma are thousands
// grouping except for the last.
func ParsePrice(text string) (float64, error) {
	cleaned := nonPriceChars.ReplaceAllString(text, "")
	if !strings.ContainsAny(cleaned, "0123456789") {
		return 0, fmt.Errorf("%w: %q", domain.ErrNoPrice, text)
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")

	var normalized string
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// EU style: 1.299,00
			normalized = strings.ReplaceAll(cleaned, ".", "")
			normalized = strings.ReplaceAll(normalized, ",", ".")
		} else {
			// US style: 1,299.00
			normalized = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		normalized = strings.ReplaceAll(cleaned, ",", ".")
	default:
		parts := strings.Split(cleaned, ".")
		if len(parts) > 2 {
			normalized = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		} else {
			normalized = cleaned
		}
	}

	value, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrNoPrice, text)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", domain.ErrNoPrice, text)
	}
	return value, nil
}
