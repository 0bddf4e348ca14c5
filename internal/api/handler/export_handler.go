package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	"github.com/JSSP85/SolarApp-sub002/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler handles register download endpoints.
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler creates an ExportHandler.
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportRegister downloads the filtered NC register as an Excel workbook.
// GET /api/v1/export/register
func (h *ExportHandler) ExportRegister(c *gin.Context) {
	filters := &repository.NCListFilters{
		Status:          c.Query("status"),
		Priority:        c.Query("priority"),
		Project:         c.Query("project"),
		Supplier:        c.Query("supplier"),
		DetectionSource: c.Query("detection_source"),
	}

	buf, filename, err := h.exportSvc.ExportRegister(c.Request.Context(), filters)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// ExportClosureCalendar downloads planned closure deadlines as an
// iCalendar feed.
// GET /api/v1/export/closures
func (h *ExportHandler) ExportClosureCalendar(c *gin.Context) {
	feed, filename, err := h.exportSvc.ExportClosureCalendar(c.Request.Context())
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoRecords):
		response.NotFound(c, 16001, "no records match the export filters")
	case errors.Is(err, service.ErrExportGenerate):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
