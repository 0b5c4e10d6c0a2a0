package models

import (
	"time"
)

// Product holds the fields extracted from a single product page. Every field
// except ASIN is optional: a sparse record is a valid scrape result.
type Product struct {
	ASIN           string            `json:"asin"`
	Title          *string           `json:"title"`
	Price          *string           `json:"price"`
	Availability   *string           `json:"availability"`
	Images         []string          `json:"images"`
	Description    *string           `json:"description"`
	Rating         *float64          `json:"rating"`
	ReviewCount    *string           `json:"review_count"`
	Seller         *string           `json:"seller"`
	Specifications map[string]string `json:"specifications"`
	Features       []string          `json:"features"`
}

func NewProduct(asin string) *Product {
	return &Product{
		ASIN:           asin,
		Images:         make([]string, 0),
		Features:       make([]string, 0),
		Specifications: make(map[string]string),
	}
}

// ErrorCode identifies a request-level failure cause. The set is closed:
// anything not listed here degrades to a sparse success instead.
type ErrorCode string

const (
	ErrCodeInvalidASIN       ErrorCode = "INVALID_ASIN"
	ErrCodeMissingASIN       ErrorCode = "MISSING_ASIN"
	ErrCodeRequestFailed     ErrorCode = "REQUEST_FAILED"
	ErrCodeParseError        ErrorCode = "PARSE_ERROR"
	ErrCodeProductNotFound   ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeInternalError     ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeEndpointNotFound  ErrorCode = "ENDPOINT_NOT_FOUND"
)

// ScrapeResult is the tagged outcome of one orchestrated scrape.
type ScrapeResult struct {
	Success    bool      `json:"success"`
	Data       *Product  `json:"data,omitempty"`
	ScrapedAt  float64   `json:"scraped_at,omitempty"`
	Error      string    `json:"error,omitempty"`
	ErrorCode  ErrorCode `json:"error_code,omitempty"`
	RetryAfter int       `json:"retry_after,omitempty"`
}

func SuccessResult(p *Product) *ScrapeResult {
	return &ScrapeResult{
		Success:   true,
		Data:      p,
		ScrapedAt: float64(time.Now().UnixNano()) / 1e9,
	}
}

func FailureResult(code ErrorCode, message string) *ScrapeResult {
	return &ScrapeResult{
		Success:   false,
		Error:     message,
		ErrorCode: code,
	}
}
