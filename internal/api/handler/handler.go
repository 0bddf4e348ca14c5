package handler

import "github.com/JSSP85/SolarApp-sub002/internal/service"

// Handler aggregates every HTTP handler.
type Handler struct {
	Auth       *AuthHandler
	NC         *NCHandler
	Inspection *InspectionHandler
	Catalog    *CatalogHandler
	Export     *ExportHandler
}

// NewHandler builds the handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:       NewAuthHandler(svc.Auth),
		NC:         NewNCHandler(svc.NC),
		Inspection: NewInspectionHandler(svc.Inspection),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Export:     NewExportHandler(svc.Export),
	}
}
