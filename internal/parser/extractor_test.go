package parser

import (
	"log/slog"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(slog.Default())
}

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestExtractTitleFallbackChain(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{
			name:     "primary selector wins",
			html:     `<span id="productTitle"> Widget Pro </span><h1 class="a-size-large">Ignored</h1>`,
			expected: "Widget Pro",
		},
		{
			name:     "falls back to second selector",
			html:     `<div class="product-title">Widget</div>`,
			expected: "Widget",
		},
		{
			name:     "falls back to third selector",
			html:     `<h1 class="a-size-large">Widget XL</h1>`,
			expected: "Widget XL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := newTestExtractor(t).Extract(parseDoc(t, tt.html), "B08N5WRWNW")
			require.NotNil(t, product.Title)
			assert.Equal(t, tt.expected, *product.Title)
		})
	}
}

func TestExtractTitleAbsent(t *testing.T) {
	product := newTestExtractor(t).Extract(parseDoc(t, `<div>no title here</div>`), "B08N5WRWNW")
	assert.Nil(t, product.Title)
	assert.Equal(t, "B08N5WRWNW", product.ASIN)
}

func TestExtractPriceNormalized(t *testing.T) {
	html := `<span class="a-price"><span class="a-offscreen">Price: $29.99</span></span>`
	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	require.NotNil(t, product.Price)
	assert.Equal(t, "$29.99", *product.Price)
}

func TestExtractFeaturesLengthFilterAndOrder(t *testing.T) {
	html := `<div id="feature-bullets"><ul>
		<li><span>short</span></li>
		<li><span>exactly 15 chars</span></li>
		<li><span>this one is twenty ch</span></li>
	</ul></div>`

	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	assert.Equal(t, []string{"exactly 15 chars", "this one is twenty ch"}, product.Features)
}

func TestExtractImagesDeduplicated(t *testing.T) {
	html := `
		<img id="landingImage" src="https://img.example/a.jpg">
		<img class="a-dynamic-image" src="https://img.example/a.jpg">
		<span class="a-button-thumbnail"><img src="https://img.example/b.jpg"></span>
		<span class="a-button-thumbnail"><img src="https://img.example/b.jpg"></span>
		<span class="a-button-thumbnail"><img src="https://img.example/c.jpg"></span>`

	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	assert.ElementsMatch(t,
		[]string{"https://img.example/a.jpg", "https://img.example/b.jpg", "https://img.example/c.jpg"},
		product.Images,
	)
}

func TestExtractRating(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected *float64
	}{
		{
			name:     "decimal rating",
			html:     `<span class="a-icon-alt">4.5 out of 5 stars</span>`,
			expected: floatPtr(4.5),
		},
		{
			name:     "integer rating",
			html:     `<span class="a-icon-alt">4 out of 5 stars</span>`,
			expected: floatPtr(4),
		},
		{
			name:     "no numeric substring",
			html:     `<span class="a-icon-alt">no stars yet</span>`,
			expected: nil,
		},
		{
			name:     "element absent",
			html:     `<div></div>`,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product := newTestExtractor(t).Extract(parseDoc(t, tt.html), "B08N5WRWNW")
			if tt.expected == nil {
				assert.Nil(t, product.Rating)
				return
			}
			require.NotNil(t, product.Rating)
			assert.InDelta(t, *tt.expected, *product.Rating, 0.001)
		})
	}
}

func TestExtractReviewCountStripsCommas(t *testing.T) {
	html := `<span id="acrCustomerReviewText">1,234 ratings</span>`
	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	require.NotNil(t, product.ReviewCount)
	assert.Equal(t, "1234", *product.ReviewCount)
}

func TestExtractSeller(t *testing.T) {
	html := `<a id="sellerProfileTriggerId"> ACME Store </a>`
	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	require.NotNil(t, product.Seller)
	assert.Equal(t, "ACME Store", *product.Seller)
}

func TestExtractSpecifications(t *testing.T) {
	html := `<div id="detailBullets_feature_div"><ul>
		<li><span>Brand:</span><span>ACME</span></li>
		<li><span>Color:</span><span>Blue</span></li>
		<li><span>Color:</span><span>Red</span></li>
		<li><span>Lonely</span></li>
		<li><span>Empty:</span><span>   </span></li>
	</ul></div>`

	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	assert.Equal(t, map[string]string{
		"Brand": "ACME",
		"Color": "Red",
	}, product.Specifications)
}

func TestExtractAvailability(t *testing.T) {
	html := `<div id="availability"><span> In Stock </span></div>`
	product := newTestExtractor(t).Extract(parseDoc(t, html), "B08N5WRWNW")
	require.NotNil(t, product.Availability)
	assert.Equal(t, "In Stock", *product.Availability)
}

func TestExtractSparsePageStillReturnsRecord(t *testing.T) {
	product := newTestExtractor(t).Extract(parseDoc(t, `<html><body></body></html>`), "B08N5WRWNW")
	require.NotNil(t, product)
	assert.Equal(t, "B08N5WRWNW", product.ASIN)
	assert.Nil(t, product.Title)
	assert.Nil(t, product.Price)
	assert.Empty(t, product.Images)
	assert.Empty(t, product.Features)
	assert.Empty(t, product.Specifications)
}

func floatPtr(f float64) *float64 { return &f }
