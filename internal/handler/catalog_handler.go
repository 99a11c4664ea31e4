package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/atlas-transfers/service-pricing/internal/application"
	"github.com/atlas-transfers/service-pricing/internal/platform/response"
)

// CatalogHandler exposes the public read-only view of the pricing catalog.
type CatalogHandler struct {
	service *application.QuoteService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.QuoteService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers all catalog routes on the given router group.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	catalog := r.Group("/api/v1/catalog")
	{
		catalog.GET("/zones", h.ListZones)
		catalog.GET("/routes", h.ListRoutes)
	}
}

// ListZones handles GET /api/v1/catalog/zones.
func (h *CatalogHandler) ListZones(c *gin.Context) {
	result, err := h.service.ListZones(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListRoutes handles GET /api/v1/catalog/routes.
func (h *CatalogHandler) ListRoutes(c *gin.Context) {
	result, err := h.service.ListRoutes(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
