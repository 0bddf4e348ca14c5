package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/internal/dto"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	pkgerrors "github.com/JSSP85/SolarApp-sub002/pkg/errors"
	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

// NCHandler handles non-conformity endpoints.
type NCHandler struct {
	ncSvc service.NCService
}

// NewNCHandler creates an NCHandler.
func NewNCHandler(ncSvc service.NCService) *NCHandler {
	return &NCHandler{ncSvc: ncSvc}
}

// CreateNC opens a new non-conformity.
// POST /api/v1/ncs
func (h *NCHandler) CreateNC(c *gin.Context) {
	var req dto.CreateNCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	nc, err := h.ncSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.Created(c, nc)
}

// ListNCs returns the filtered, paginated register.
// GET /api/v1/ncs
func (h *NCHandler) ListNCs(c *gin.Context) {
	var req dto.NCListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "invalid query parameters")
		return
	}

	list, total, err := h.ncSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// GetNC returns one record by its internal id.
// GET /api/v1/ncs/:id
func (h *NCHandler) GetNC(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	nc, err := h.ncSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, nc)
}

// GetNCByNumber returns one record by its RNC number.
// GET /api/v1/ncs/number/:number
func (h *NCHandler) GetNCByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		response.BadRequest(c, 10001, "number must not be empty")
		return
	}

	nc, err := h.ncSvc.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, nc)
}

// UpdateNC patches editable fields of a record.
// PUT /api/v1/ncs/:id
func (h *NCHandler) UpdateNC(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	var req dto.UpdateNCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	nc, err := h.ncSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, nc)
}

// UpdateNCStatus advances the lifecycle status of one record.
// PUT /api/v1/ncs/:id/status
func (h *NCHandler) UpdateNCStatus(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	nc, err := h.ncSvc.UpdateStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, nc)
}

// BulkUpdateStatus applies one status to several records. Updates are
// independent; the response lists successes and per-id failures.
// PUT /api/v1/ncs/status
func (h *NCHandler) BulkUpdateStatus(c *gin.Context) {
	var req dto.BulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	result, err := h.ncSvc.BulkUpdateStatus(c.Request.Context(), &req)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, result)
}

// AddTimelineEntry appends a lifecycle note to a record.
// POST /api/v1/ncs/:id/timeline
func (h *NCHandler) AddTimelineEntry(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	var req dto.AddTimelineEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "invalid request parameters")
		return
	}

	nc, err := h.ncSvc.AddTimelineEntry(c.Request.Context(), id, &req)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.Created(c, nc)
}

// DeleteNC removes a record with its timeline and attachments.
// DELETE /api/v1/ncs/:id
func (h *NCHandler) DeleteNC(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	if err := h.ncSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, nil)
}

// GetMetrics returns the analytics aggregate, recomputed per request.
// GET /api/v1/ncs/metrics
func (h *NCHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.ncSvc.Metrics(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, metrics)
}

// GetStats returns the dashboard aggregate computed in SQL.
// GET /api/v1/ncs/stats
func (h *NCHandler) GetStats(c *gin.Context) {
	stats, err := h.ncSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, stats)
}

// GetMailtoLink composes a mailto URL summarizing one record.
// GET /api/v1/ncs/:id/mailto?address=...
func (h *NCHandler) GetMailtoLink(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "id must not be empty")
		return
	}

	var req dto.MailtoRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "a valid address query parameter is required")
		return
	}

	link, err := h.ncSvc.MailtoLink(c.Request.Context(), id, req.Address)
	if err != nil {
		h.handleNCError(c, err)
		return
	}

	response.OK(c, link)
}

func (h *NCHandler) handleNCError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNCNotFound):
		response.NotFound(c, 12001, "non-conformity not found")
	case errors.As(err, &vErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, 12002, "validation failed", vErr.Error())
	case errors.Is(err, service.ErrInvalidStatus):
		response.BadRequest(c, 12003, "invalid status value")
	case errors.Is(err, service.ErrInvalidPriority):
		response.BadRequest(c, 12004, "invalid priority value")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Error(c, http.StatusConflict, 12005, "record was modified concurrently, retry")
	default:
		response.InternalError(c)
	}
}
