package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/atlas-transfers/service-pricing/internal/application"
	"github.com/atlas-transfers/service-pricing/internal/domain/geo"
	"github.com/atlas-transfers/service-pricing/internal/platform/response"
)

// QuoteHandler handles HTTP requests for quotes, estimates, and coverage.
type QuoteHandler struct {
	service *application.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(service *application.QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// RegisterRoutes registers all quote routes on the given router group.
func (h *QuoteHandler) RegisterRoutes(r *gin.RouterGroup) {
	quotes := r.Group("/api/v1/quotes")
	{
		quotes.POST("", h.CreateQuote)
		quotes.POST("/estimate", h.CreateEstimate)
	}
	r.GET("/api/v1/coverage", h.GetCoverage)
}

// CreateQuote handles POST /api/v1/quotes.
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req application.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// CreateEstimate handles POST /api/v1/quotes/estimate. The figure it returns
// is advisory; it is never a bookable price.
func (h *QuoteHandler) CreateEstimate(c *gin.Context) {
	var req application.EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Estimate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetCoverage handles GET /api/v1/coverage?lat=&lng=.
func (h *QuoteHandler) GetCoverage(c *gin.Context) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lat")
		return
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		response.BadRequest(c, "invalid lng")
		return
	}

	result, err := h.service.Coverage(c.Request.Context(), geo.Point{Lat: lat, Lng: lng})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
