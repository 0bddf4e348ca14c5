package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/internal/dto"
	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/pkg/dates"
)

// ErrInspectionNotFound is returned for unknown inspection ids.
var ErrInspectionNotFound = errors.New("inspection not found")

// InspectionService records and serves inspection report headers.
type InspectionService interface {
	Create(ctx context.Context, req *dto.CreateInspectionRequest, callerID string) (*dto.InspectionResponse, error)
	GetByID(ctx context.Context, id string) (*dto.InspectionResponse, error)
	List(ctx context.Context, req *dto.InspectionListRequest) ([]dto.InspectionResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateInspectionRequest) (*dto.InspectionResponse, error)
	Delete(ctx context.Context, id string) error
}

type inspectionService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewInspectionService creates an InspectionService instance.
func NewInspectionService(repo *repository.Repository, logger *zap.Logger) InspectionService {
	return &inspectionService{repo: repo, logger: logger}
}

func (s *inspectionService) Create(ctx context.Context, req *dto.CreateInspectionRequest, callerID string) (*dto.InspectionResponse, error) {
	inspectionDate := dates.Today()
	if req.InspectionDate != "" {
		t, ok := dates.Parse(req.InspectionDate)
		if !ok {
			return nil, &ValidationError{Fields: map[string]string{
				"inspection_date": "must be a DD/MM/YYYY date",
			}}
		}
		inspectionDate = t
	}

	number, err := s.repo.Inspection.NextReportNumber(ctx)
	if err != nil {
		s.logger.Error("assign report number failed", zap.Error(err))
		return nil, err
	}

	insp := &model.Inspection{
		ReportNumber:    number,
		Project:         req.Project,
		ComponentFamily: req.ComponentFamily,
		ComponentCode:   req.ComponentCode,
		BatchQuantity:   int(req.BatchQuantity),
		SampleSize:      int(req.SampleSize),
		Inspector:       req.Inspector,
		InspectionDate:  inspectionDate,
		Status:          model.InspectionPending,
		MeanCoating:     req.MeanCoating,
		VisualResult:    req.VisualResult,
		Notes:           req.Notes,
	}
	if callerID != "" {
		insp.CreatedBy = &callerID
	}

	if err := s.repo.Inspection.Create(ctx, insp); err != nil {
		s.logger.Error("create inspection failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("inspection recorded",
		zap.String("inspection_id", insp.InspectionID),
		zap.String("report_number", insp.ReportNumber),
	)
	return toInspectionResponse(insp), nil
}

func (s *inspectionService) GetByID(ctx context.Context, id string) (*dto.InspectionResponse, error) {
	insp, err := s.repo.Inspection.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}
	return toInspectionResponse(insp), nil
}

func (s *inspectionService) List(ctx context.Context, req *dto.InspectionListRequest) ([]dto.InspectionResponse, int64, error) {
	filters := &repository.InspectionListFilters{
		Project: req.Project,
		Status:  req.Status,
	}

	insps, total, err := s.repo.Inspection.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("list inspections failed", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.InspectionResponse, 0, len(insps))
	for i := range insps {
		result = append(result, *toInspectionResponse(&insps[i]))
	}
	return result, total, nil
}

func (s *inspectionService) Update(ctx context.Context, id string, req *dto.UpdateInspectionRequest) (*dto.InspectionResponse, error) {
	insp, err := s.repo.Inspection.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		return nil, err
	}

	if req.Status != nil {
		insp.Status = *req.Status
	}
	if req.SampleSize != nil {
		insp.SampleSize = int(*req.SampleSize)
	}
	if req.MeanCoating != nil {
		insp.MeanCoating = req.MeanCoating
	}
	if req.VisualResult != nil {
		insp.VisualResult = *req.VisualResult
	}
	if req.Notes != nil {
		insp.Notes = *req.Notes
	}

	if err := s.repo.Inspection.Update(ctx, insp); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInspectionNotFound
		}
		s.logger.Error("update inspection failed", zap.String("inspection_id", id), zap.Error(err))
		return nil, err
	}

	return toInspectionResponse(insp), nil
}

func (s *inspectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Inspection.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInspectionNotFound
		}
		s.logger.Error("delete inspection failed", zap.String("inspection_id", id), zap.Error(err))
		return err
	}
	return nil
}

func toInspectionResponse(insp *model.Inspection) *dto.InspectionResponse {
	return &dto.InspectionResponse{
		InspectionID:    insp.InspectionID,
		ReportNumber:    insp.ReportNumber,
		Project:         insp.Project,
		ComponentFamily: insp.ComponentFamily,
		ComponentCode:   insp.ComponentCode,
		BatchQuantity:   insp.BatchQuantity,
		SampleSize:      insp.SampleSize,
		Inspector:       insp.Inspector,
		InspectionDate:  dates.Format(insp.InspectionDate),
		Status:          insp.Status,
		MeanCoating:     insp.MeanCoating,
		VisualResult:    insp.VisualResult,
		Notes:           insp.Notes,
	}
}
