package scraper

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/amazon-product-api/internal/detect"
	"github.com/maltedev/amazon-product-api/internal/fetcher"
	"github.com/maltedev/amazon-product-api/internal/history"
	"github.com/maltedev/amazon-product-api/internal/metrics"
	"github.com/maltedev/amazon-product-api/internal/models"
	"github.com/maltedev/amazon-product-api/internal/parser"
)

// Fetcher fetches one product page with retries and anti-detection hygiene.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetcher.Page, error)
}

// Service composes validation, fetching, not-found detection and field
// extraction into one scrape operation per request. It performs no retries of
// its own beyond what the fetch client does internally.
type Service struct {
	fetcher   Fetcher
	extractor *parser.Extractor
	baseURL   string
	logger    *slog.Logger
	metrics   *metrics.Metrics
	history   *history.Store
}

func NewService(f Fetcher, e *parser.Extractor, baseURL string, logger *slog.Logger, m *metrics.Metrics, h *history.Store) *Service {
	return &Service{
		fetcher:   f,
		extractor: e,
		baseURL:   baseURL,
		logger:    logger.With("component", "scraper"),
		metrics:   m,
		history:   h,
	}
}

// Scrape runs the full pipeline for one identifier and always returns a
// structured outcome, never an error.
func (s *Service) Scrape(ctx context.Context, asin string) *models.ScrapeResult {
	start := time.Now()

	result := s.scrape(ctx, asin)

	duration := time.Since(start)
	outcome := "success"
	if !result.Success {
		outcome = string(result.ErrorCode)
	}
	s.metrics.IncScrape(outcome)
	s.metrics.ObserveScrapeDuration(duration)
	s.history.Record(ctx, history.Entry{
		ASIN:      NormalizeASIN(asin),
		Success:   result.Success,
		ErrorCode: result.ErrorCode,
		Duration:  duration,
	})

	return result
}

func (s *Service) scrape(ctx context.Context, asin string) *models.ScrapeResult {
	if !ValidASIN(asin) {
		return models.FailureResult(models.ErrCodeInvalidASIN,
			"Invalid ASIN format. ASIN must be 10 alphanumeric characters.")
	}

	id := NormalizeASIN(asin)
	url := fmt.Sprintf("%s/dp/%s", s.baseURL, id)
	s.logger.Info("scraping product", "asin", id, "url", url)

	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		s.logger.Error("fetch failed", "asin", id, "error", err)
		return models.FailureResult(models.ErrCodeRequestFailed,
			"Failed to fetch product page after multiple retries.")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page.Body))
	if err != nil {
		s.logger.Error("failed to parse HTML", "asin", id, "error", err)
		return models.FailureResult(models.ErrCodeParseError,
			"Failed to parse product page.")
	}

	if detect.ProductNotFound(doc) {
		return models.FailureResult(models.ErrCodeProductNotFound,
			"Product not found or no longer available.")
	}

	return models.SuccessResult(s.extractor.Extract(doc, id))
}
