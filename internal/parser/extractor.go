package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/maltedev/amazon-product-api/internal/models"
)

// Selector chains are tried in priority order; the first one yielding a
// non-empty match wins and the rest are not consulted.
var (
	titleSelectors = []string{
		"#productTitle",
		".product-title",
		"h1.a-size-large",
	}
	priceSelectors = []string{
		".a-price-whole",
		".a-price .a-offscreen",
		"#price_inside_buybox",
		".a-price-range",
	}
	availabilitySelectors = []string{
		"#availability span",
		".a-color-success",
		".a-color-state",
	}
	descriptionSelectors = []string{
		"#productDescription p",
		"#productDescription",
	}

	// Image selectors all contribute to one deduplicated set.
	imageSelectors = []string{
		"#landingImage",
		".a-dynamic-image",
		"#imgTagWrapperId img",
	}
	galleryImageSelector = ".a-button-thumbnail img"

	featureBulletSelector = "#feature-bullets ul li span"
	ratingSelector        = ".a-icon-alt"
	reviewCountSelector   = "#acrCustomerReviewText"
	sellerSelector        = "#sellerProfileTriggerId"
	detailBulletSelector  = "#detailBullets_feature_div ul li"
)

var (
	ratingRe      = regexp.MustCompile(`\d+\.?\d*`)
	reviewCountRe = regexp.MustCompile(`[\d,]+`)
)

// minFeatureLength filters out stray markup fragments in the bullet list.
const minFeatureLength = 10

// Extractor walks a parsed product page and fills a Product record. Missing
// fields are left absent, never treated as errors.
type Extractor struct {
	logger *slog.Logger
}

func NewExtractor(logger *slog.Logger) *Extractor {
	return &Extractor{
		logger: logger.With("component", "extractor"),
	}
}

// Extract builds a Product from doc. Every field is independent: whatever
// cannot be located stays absent and the rest of the record is still returned.
func (e *Extractor) Extract(doc *goquery.Document, asin string) *models.Product {
	product := models.NewProduct(asin)

	if title := firstText(doc, titleSelectors); title != "" {
		product.Title = &title
	}

	if raw := firstText(doc, priceSelectors); raw != "" {
		if price := NormalizePrice(raw); price != "" {
			product.Price = &price
		}
	}

	if availability := firstText(doc, availabilitySelectors); availability != "" {
		product.Availability = &availability
	}

	if description := firstText(doc, descriptionSelectors); description != "" {
		product.Description = &description
	}

	product.Images = e.extractImages(doc)
	product.Features = e.extractFeatures(doc)
	product.Rating = e.extractRating(doc)
	product.ReviewCount = e.extractReviewCount(doc)

	if seller := strings.TrimSpace(doc.Find(sellerSelector).First().Text()); seller != "" {
		product.Seller = &seller
	}

	product.Specifications = e.extractSpecifications(doc)

	e.logger.Debug("extracted product",
		"asin", asin,
		"hasTitle", product.Title != nil,
		"hasPrice", product.Price != nil,
		"images", len(product.Images),
		"features", len(product.Features),
	)

	return product
}

// extractImages merges the first match of every image selector with all
// gallery thumbnails, deduplicated by URL. Result order is not significant.
func (e *Extractor) extractImages(doc *goquery.Document) []string {
	seen := make(map[string]struct{})
	images := make([]string, 0)

	add := func(src string, ok bool) {
		if !ok || src == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}
		images = append(images, src)
	}

	for _, selector := range imageSelectors {
		add(doc.Find(selector).First().Attr("src"))
	}

	doc.Find(galleryImageSelector).Each(func(_ int, s *goquery.Selection) {
		add(s.Attr("src"))
	})

	return images
}

// extractFeatures collects every qualifying bullet in document order. Entries
// at or below minFeatureLength characters are dropped.
func (e *Extractor) extractFeatures(doc *goquery.Document) []string {
	features := make([]string, 0)

	doc.Find(featureBulletSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(text) > minFeatureLength {
			features = append(features, text)
		}
	})

	return features
}

func (e *Extractor) extractRating(doc *goquery.Document) *float64 {
	text := doc.Find(ratingSelector).First().Text()
	match := ratingRe.FindString(text)
	if match == "" {
		return nil
	}

	rating, err := strconv.ParseFloat(match, 64)
	if err != nil {
		e.logger.Warn("unparseable rating", "text", match, "error", err)
		return nil
	}
	return &rating
}

// extractReviewCount keeps the count as a digits-only string rather than
// parsing it, so oversized counts survive unchanged.
func (e *Extractor) extractReviewCount(doc *goquery.Document) *string {
	text := doc.Find(reviewCountSelector).First().Text()
	match := reviewCountRe.FindString(text)
	if match == "" {
		return nil
	}

	count := strings.ReplaceAll(match, ",", "")
	return &count
}

// extractSpecifications reads the detail bullet list. Each item needs at
// least two spans: the first is the key (trailing colon stripped), the second
// the value. Later duplicate keys overwrite earlier ones.
func (e *Extractor) extractSpecifications(doc *goquery.Document) map[string]string {
	specs := make(map[string]string)

	doc.Find(detailBulletSelector).Each(func(_ int, s *goquery.Selection) {
		spans := s.Find("span")
		if spans.Length() < 2 {
			return
		}

		key := strings.TrimSuffix(strings.TrimSpace(spans.Eq(0).Text()), ":")
		key = strings.TrimSpace(key)
		value := strings.TrimSpace(spans.Eq(1).Text())

		if key == "" || value == "" {
			return
		}
		specs[key] = value
	})

	return specs
}

// firstText returns the trimmed text of the first selector in the chain that
// matches a non-empty element.
func firstText(doc *goquery.Document, selectors []string) string {
	for _, selector := range selectors {
		if text := strings.TrimSpace(doc.Find(selector).First().Text()); text != "" {
			return text
		}
	}
	return ""
}
