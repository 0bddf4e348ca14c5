package service

import (
	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/config"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/pkg/jwt"
	"github.com/JSSP85/SolarApp-sub002/pkg/redis"
)

// Service aggregates every business service.
type Service struct {
	Auth       AuthService
	NC         NCService
	Inspection InspectionService
	Catalog    CatalogService
	Export     ExportService
}

// NewService builds the service aggregate.
// The component catalog workbook is loaded here; a missing or unreadable
// workbook degrades to an empty catalog (lookup misses are non-fatal)
// rather than blocking startup.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	catalog, err := NewCatalogService(&cfg.Catalog, logger)
	if err != nil {
		logger.Warn("component catalog unavailable, lookups will miss",
			zap.String("workbook", cfg.Catalog.WorkbookPath),
			zap.Error(err),
		)
		catalog = NewEmptyCatalogService(logger)
	}

	ncSvc := NewNCService(repo, logger)

	return &Service{
		Auth:       NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		NC:         ncSvc,
		Inspection: NewInspectionService(repo, logger),
		Catalog:    catalog,
		Export:     NewExportService(repo, logger),
	}
}
