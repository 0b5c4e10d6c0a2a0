package parser

import "regexp"

// priceJunkRe matches everything that is not a digit, a separator or the
// dollar sign. No currency conversion or locale handling happens here.
var priceJunkRe = regexp.MustCompile(`[^\d.,$]`)

// NormalizePrice strips labels and whitespace from raw price text, keeping
// digits, separators and the currency symbol. Returns "" when nothing
// price-like remains.
func NormalizePrice(raw string) string {
	if raw == "" {
		return ""
	}
	return priceJunkRe.ReplaceAllString(raw, "")
}
