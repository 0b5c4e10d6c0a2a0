package detect

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// blockingIndicators are the body substrings Amazon serves on anti-bot
// interstitials. Matched case-insensitively against the whole payload.
var blockingIndicators = []string{
	"captcha",
	"robot",
	"automated",
	"blocked",
	"access denied",
	"sorry, we just need to make sure you're not a robot",
}

// notFoundIndicators appear in the visible text of Amazon's 404-style pages.
var notFoundIndicators = []string{
	"page not found",
	"looking for something",
	"we couldn't find that page",
	"dogs of amazon",
}

// Blocked reports whether a fetched response is an anti-bot rejection rather
// than product content. A 503 always counts as blocked, whatever the body says.
func Blocked(statusCode int, body []byte) bool {
	if statusCode == http.StatusServiceUnavailable {
		return true
	}

	content := strings.ToLower(string(body))
	for _, indicator := range blockingIndicators {
		if strings.Contains(content, indicator) {
			return true
		}
	}
	return false
}

// ProductNotFound reports whether a successfully fetched, non-blocked page is
// telling the user the product does not exist. Checked against the document's
// visible text, before any field extraction.
func ProductNotFound(doc *goquery.Document) bool {
	text := strings.ToLower(doc.Text())
	for _, indicator := range notFoundIndicators {
		if strings.Contains(text, indicator) {
			return true
		}
	}
	return false
}
