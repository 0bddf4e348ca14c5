package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/internal/dto"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

// InspectionHandler handles inspection report endpoints.
type InspectionHandler struct {
	inspSvc service.InspectionService
}

// NewInspectionHandler creates an InspectionHandler.
func NewInspectionHandler(inspSvc service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspSvc: inspSvc}
}

// CreateInspection records a new inspection report header.
// POST /api/v1/inspections
func (h *InspectionHandler) CreateInspection(c *gin.Context) {
	var req dto.CreateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	insp, err := h.inspSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleInspectionError(c, err)
		return
	}

	response.Created(c, insp)
}

// ListInspections returns the filtered, paginated inspection register.
// GET /api/v1/inspections
func (h *InspectionHandler) ListInspections(c *gin.Context) {
	var req dto.InspectionListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	list, total, err := h.inspSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetInspection returns one inspection report.
// GET /api/v1/inspections/:id
func (h *InspectionHandler) GetInspection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	insp, err := h.inspSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleInspectionError(c, err)
		return
	}

	response.OK(c, insp)
}

// UpdateInspection patches an inspection report.
// PUT /api/v1/inspections/:id
func (h *InspectionHandler) UpdateInspection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	var req dto.UpdateInspectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	insp, err := h.inspSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleInspectionError(c, err)
		return
	}

	response.OK(c, insp)
}

// DeleteInspection removes an inspection report.
// DELETE /api/v1/inspections/:id
func (h *InspectionHandler) DeleteInspection(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	if err := h.inspSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleInspectionError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *InspectionHandler) handleInspectionError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrInspectionNotFound):
		response.NotFound(c, 13001, "inspection not found")
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 13002, "validation failed", vErr.Error())
	default:
		response.InternalError(c)
	}
}
