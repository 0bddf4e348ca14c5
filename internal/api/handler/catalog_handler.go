package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/internal/service"
	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

// CatalogHandler serves the spreadsheet-backed component catalog.
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler creates a CatalogHandler.
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ListFamilies returns the component families.
// GET /api/v1/catalog/families
func (h *CatalogHandler) ListFamilies(c *gin.Context) {
	response.OK(c, gin.H{"list": h.catalogSvc.Families()})
}

// ListCodes returns the component codes of one family.
// GET /api/v1/catalog/families/:family/codes
func (h *CatalogHandler) ListCodes(c *gin.Context) {
	family := c.Param("family")
	if family == "" {
		response.BadRequest(c, 10001, "family must not be empty")
		return
	}

	response.OK(c, gin.H{"list": h.catalogSvc.CodesForFamily(family)})
}

// ListDimensions returns the nominal dimensions of one component code.
// GET /api/v1/catalog/codes/:code/dimensions
func (h *CatalogHandler) ListDimensions(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "code must not be empty")
		return
	}

	response.OK(c, gin.H{"list": h.catalogSvc.DimensionsForCode(code)})
}

// GetDrawing resolves the technical drawing of one component code.
// A miss is a 200 with found=false, never an error.
// GET /api/v1/catalog/codes/:code/drawing
func (h *CatalogHandler) GetDrawing(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		response.BadRequest(c, 10001, "code must not be empty")
		return
	}

	response.OK(c, h.catalogSvc.DrawingForCode(code))
}
