package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/maltedev/amazon-product-api/internal/history"
	"github.com/maltedev/amazon-product-api/internal/models"
	"github.com/maltedev/amazon-product-api/internal/scraper"
	"github.com/redis/go-redis/v9"
)

// statusForCode maps the closed error-code set onto transport status codes.
var statusForCode = map[models.ErrorCode]int{
	models.ErrCodeInvalidASIN:       http.StatusBadRequest,
	models.ErrCodeMissingASIN:       http.StatusBadRequest,
	models.ErrCodeParseError:        http.StatusBadRequest,
	models.ErrCodeProductNotFound:   http.StatusNotFound,
	models.ErrCodeRequestFailed:     http.StatusServiceUnavailable,
	models.ErrCodeInternalError:     http.StatusInternalServerError,
	models.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
}

type Handlers struct {
	scraper *scraper.Service
	redis   *redis.Client
	history *history.Store
	logger  *slog.Logger
}

func NewHandlers(s *scraper.Service, redisClient *redis.Client, h *history.Store, logger *slog.Logger) *Handlers {
	return &Handlers{
		scraper: s,
		redis:   redisClient,
		history: h,
		logger:  logger.With("component", "api"),
	}
}

// Home serves the API documentation payload.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]any{
		"name":        "Amazon Product Scraper API",
		"version":     "1.0.0",
		"description": "RESTful API for scraping Amazon product information by ASIN",
		"endpoints": map[string]string{
			"GET /":               "API documentation",
			"GET /health":         "Health check",
			"GET /metrics":        "Prometheus metrics",
			"GET /product/{asin}": "Get product information by ASIN",
			"POST /product":       "Get product information by ASIN (JSON body)",
		},
		"example_usage": map[string]string{
			"url": "/product/B08N5WRWNW",
		},
	})
}

// Health reports service liveness plus the state of optional collaborators.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]any{
		"status":    "healthy",
		"timestamp": float64(time.Now().UnixNano()) / 1e9,
	}

	healthy := true
	if h.redis != nil {
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "unhealthy"
			healthy = false
		} else {
			status["redis"] = "healthy"
		}
	}
	if h.history != nil {
		if err := h.history.Ping(ctx); err != nil {
			status["postgres"] = "unhealthy"
			healthy = false
		} else {
			status["postgres"] = "healthy"
		}
	}

	if !healthy {
		status["status"] = "degraded"
		h.respondJSON(w, http.StatusServiceUnavailable, status)
		return
	}
	h.respondJSON(w, http.StatusOK, status)
}

// GetProductByASIN handles GET /product/{asin}.
func (h *Handlers) GetProductByASIN(w http.ResponseWriter, r *http.Request) {
	asin := chi.URLParam(r, "asin")
	h.respondResult(w, h.scraper.Scrape(r.Context(), asin))
}

type productRequest struct {
	ASIN *string `json:"asin"`
}

// GetProductByJSON handles POST /product with an {"asin": ...} body.
func (h *Handlers) GetProductByJSON(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ASIN == nil {
		h.respondJSON(w, http.StatusBadRequest, models.FailureResult(
			models.ErrCodeMissingASIN,
			`Missing ASIN in request body. Expected JSON: {"asin": "B08N5WRWNW"}`,
		))
		return
	}

	h.respondResult(w, h.scraper.Scrape(r.Context(), *req.ASIN))
}

// NotFound keeps unknown routes on the structured error contract.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusNotFound,
		models.FailureResult(models.ErrCodeEndpointNotFound, "Endpoint not found."))
}

func (h *Handlers) respondResult(w http.ResponseWriter, result *models.ScrapeResult) {
	if result.Success {
		h.respondJSON(w, http.StatusOK, result)
		return
	}

	status, ok := statusForCode[result.ErrorCode]
	if !ok {
		status = http.StatusBadRequest
	}
	h.respondJSON(w, status, result)
}

func (h *Handlers) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
