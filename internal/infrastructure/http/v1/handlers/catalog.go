package handlers

import (
	"github.com/gin-gonic/gin"

	"onboarding/internal/domain/catalog"
	"onboarding/internal/infrastructure/http/v1/dto"
)

// CatalogHandler serves the entity catalog.
type CatalogHandler struct {
	*BaseHandler
	response dto.CatalogResponse
}

// NewCatalogHandler creates a catalog handler. The catalog is static,
// so the response is built once.
func NewCatalogHandler(base *BaseHandler, cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{
		BaseHandler: base,
		response:    dto.FromCatalog(cat),
	}
}

// Get handles GET /api/v1/catalog
func (h *CatalogHandler) Get(c *gin.Context) {
	h.OK(c, h.response)
}
