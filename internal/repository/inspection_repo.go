package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
)

// InspectionListFilters are the equality filters for the inspection register.
type InspectionListFilters struct {
	Project string
	Status  string
}

// InspectionRepository is the data-access interface for inspection reports.
type InspectionRepository interface {
	Create(ctx context.Context, insp *model.Inspection) error
	GetByID(ctx context.Context, id string) (*model.Inspection, error)
	List(ctx context.Context, f *InspectionListFilters, offset, limit int) ([]model.Inspection, int64, error)
	Update(ctx context.Context, insp *model.Inspection) error
	Delete(ctx context.Context, id string) error
	// NextReportNumber assigns INSP-NNNN from the current row count.
	NextReportNumber(ctx context.Context) (string, error)
}

type inspectionRepo struct {
	db *gorm.DB
}

// NewInspectionRepo creates the GORM-backed inspection repository.
func NewInspectionRepo(db *gorm.DB) InspectionRepository {
	return &inspectionRepo{db: db}
}

func (r *inspectionRepo) Create(ctx context.Context, insp *model.Inspection) error {
	return r.db.WithContext(ctx).Create(insp).Error
}

func (r *inspectionRepo) GetByID(ctx context.Context, id string) (*model.Inspection, error) {
	var insp model.Inspection
	err := r.db.WithContext(ctx).Where("inspection_id = ?", id).First(&insp).Error
	if err != nil {
		return nil, err
	}
	return &insp, nil
}

func (r *inspectionRepo) List(ctx context.Context, f *InspectionListFilters, offset, limit int) ([]model.Inspection, int64, error) {
	db := r.db.WithContext(ctx).Model(&model.Inspection{})

	if f != nil {
		if f.Project != "" {
			db = db.Where("project = ?", f.Project)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var insps []model.Inspection
	err := db.Offset(offset).Limit(limit).
		Order("created_at DESC").
		Find(&insps).Error
	return insps, total, err
}

func (r *inspectionRepo) Update(ctx context.Context, insp *model.Inspection) error {
	result := r.db.WithContext(ctx).
		Model(&model.Inspection{}).
		Where("inspection_id = ?", insp.InspectionID).
		Updates(map[string]interface{}{
			"status":        insp.Status,
			"sample_size":   insp.SampleSize,
			"mean_coating":  insp.MeanCoating,
			"visual_result": insp.VisualResult,
			"notes":         insp.Notes,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inspectionRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("inspection_id = ?", id).
		Delete(&model.Inspection{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *inspectionRepo) NextReportNumber(ctx context.Context) (string, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Inspection{}).Count(&count).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INSP-%04d", count+1), nil
}
