package repository

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
	pkgerrors "github.com/JSSP85/SolarApp-sub002/pkg/errors"
)

// NCListFilters are the equality filters pushed down to SQL. The search
// term and date range deliberately stay client-side of the repository
// (applied by the service after fetch).
type NCListFilters struct {
	Status          string
	Priority        string
	Project         string
	Supplier        string
	DetectionSource string
}

// NCStats is the server-side aggregate, the fallback source of truth for
// the client-computed metrics.
type NCStats struct {
	Total      int64
	ByStatus   map[string]int64
	ByPriority map[string]int64
}

// NCRepository is the persistence gateway for non-conformity documents.
type NCRepository interface {
	// Create inserts the record, its seed timeline entry and attachment
	// references in one transaction, assigning the RNC number from the
	// server-side sequence.
	Create(ctx context.Context, nc *model.NonConformity, seed *model.TimelineEntry, attachments []model.Attachment) error
	GetByID(ctx context.Context, id string) (*model.NonConformity, error)
	GetByNumber(ctx context.Context, number string) (*model.NonConformity, error)
	// List applies equality filters only, newest first, optional cap.
	List(ctx context.Context, f *NCListFilters, limit int) ([]model.NonConformity, error)
	Update(ctx context.Context, nc *model.NonConformity) error
	// UpdateStatusWithEntry applies the status change and appends its
	// timeline entry atomically. closure is non-nil when the transition
	// stamps actual_closure_date.
	UpdateStatusWithEntry(ctx context.Context, id, status string, closure *time.Time, entry *model.TimelineEntry) error
	AddTimelineEntry(ctx context.Context, entry *model.TimelineEntry) error
	ListTimeline(ctx context.Context, ncID string) ([]model.TimelineEntry, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (*NCStats, error)
	// ClosedDatePairs returns (created_date, actual_closure_date) for all
	// resolved/closed records, for resolution-time aggregation.
	ClosedDatePairs(ctx context.Context) ([][2]time.Time, error)
}

var numberSuffix = regexp.MustCompile(`^RNC-(\d+)$`)

// MaxSequence scans RNC numbers for the highest numeric suffix.
// Non-matching numbers are ignored.
func MaxSequence(numbers []string) int {
	max := 0
	for _, n := range numbers {
		m := numberSuffix.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if v > max {
			max = v
		}
	}
	return max
}

// ── implementation ──

type ncRepo struct {
	db *gorm.DB
}

// NewNCRepo creates the GORM-backed NC repository.
func NewNCRepo(db *gorm.DB) NCRepository {
	return &ncRepo{db: db}
}

// nextSequence reserves the next RNC suffix inside tx. The counter row is
// authoritative; when it lags behind existing numbers (imported data) it
// is re-seeded from the scan so the next number is always max+1. Uses an
// optimistic compare-and-swap rather than FOR UPDATE so the sqlite driver
// stays supported.
func nextSequence(tx *gorm.DB) (int, error) {
	for attempt := 0; attempt < 3; attempt++ {
		var seq model.NCSequence
		err := tx.Where("prefix = ?", "RNC").First(&seq).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			seq = model.NCSequence{Prefix: "RNC", NextValue: 1}
			if err := tx.Create(&seq).Error; err != nil {
				return 0, err
			}
		} else if err != nil {
			return 0, err
		}

		var numbers []string
		if err := tx.Model(&model.NonConformity{}).Pluck("number", &numbers).Error; err != nil {
			return 0, err
		}
		next := seq.NextValue
		if m := MaxSequence(numbers) + 1; m > next {
			next = m
		}

		result := tx.Model(&model.NCSequence{}).
			Where("prefix = ? AND next_value = ?", "RNC", seq.NextValue).
			Update("next_value", next+1)
		if result.Error != nil {
			return 0, result.Error
		}
		if result.RowsAffected == 1 {
			return next, nil
		}
		// lost the race, re-read and retry
	}
	return 0, pkgerrors.ErrOptimisticLock
}

func (r *ncRepo) Create(ctx context.Context, nc *model.NonConformity, seed *model.TimelineEntry, attachments []model.Attachment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := nextSequence(tx)
		if err != nil {
			return err
		}
		nc.Number = formatNumber(n)

		if err := tx.Create(nc).Error; err != nil {
			return err
		}

		seed.NCID = nc.NCID
		if err := tx.Create(seed).Error; err != nil {
			return err
		}

		for i := range attachments {
			attachments[i].NCID = nc.NCID
		}
		if len(attachments) > 0 {
			if err := tx.Create(&attachments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func formatNumber(n int) string {
	s := strconv.Itoa(n)
	for len(s) < 3 {
		s = "0" + s
	}
	return "RNC-" + s
}

func (r *ncRepo) GetByID(ctx context.Context, id string) (*model.NonConformity, error) {
	var nc model.NonConformity
	err := r.db.WithContext(ctx).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Attachments").
		Where("nc_id = ?", id).
		First(&nc).Error
	if err != nil {
		return nil, err
	}
	return &nc, nil
}

func (r *ncRepo) GetByNumber(ctx context.Context, number string) (*model.NonConformity, error) {
	var nc model.NonConformity
	err := r.db.WithContext(ctx).
		Preload("Timeline", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Attachments").
		Where("number = ?", number).
		First(&nc).Error
	if err != nil {
		return nil, err
	}
	return &nc, nil
}

func (r *ncRepo) List(ctx context.Context, f *NCListFilters, limit int) ([]model.NonConformity, error) {
	db := r.db.WithContext(ctx).Model(&model.NonConformity{})

	if f != nil {
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Priority != "" {
			db = db.Where("priority = ?", f.Priority)
		}
		if f.Project != "" {
			db = db.Where("project = ?", f.Project)
		}
		if f.Supplier != "" {
			db = db.Where("supplier = ?", f.Supplier)
		}
		if f.DetectionSource != "" {
			db = db.Where("detection_source = ?", f.DetectionSource)
		}
	}

	db = db.Order("created_at DESC")
	if limit > 0 {
		db = db.Limit(limit)
	}

	var ncs []model.NonConformity
	err := db.Find(&ncs).Error
	return ncs, err
}

func (r *ncRepo) Update(ctx context.Context, nc *model.NonConformity) error {
	result := r.db.WithContext(ctx).
		Model(&model.NonConformity{}).
		Where("nc_id = ?", nc.NCID).
		Updates(map[string]interface{}{
			"priority":               nc.Priority,
			"project":                nc.Project,
			"project_code":           nc.ProjectCode,
			"supplier":               nc.Supplier,
			"component_code":         nc.ComponentCode,
			"component":              nc.Component,
			"quantity":               nc.Quantity,
			"description":            nc.Description,
			"nc_type":                nc.NCType,
			"detection_source":       nc.DetectionSource,
			"material_disposition":   nc.MaterialDisposition,
			"containment_action":     nc.ContainmentAction,
			"root_cause_analysis":    nc.RootCauseAnalysis,
			"corrective_action_plan": nc.CorrectiveActionPlan,
			"planned_closure_date":   nc.PlannedClosureDate,
			"updated_at":             time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ncRepo) UpdateStatusWithEntry(ctx context.Context, id, status string, closure *time.Time, entry *model.TimelineEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}
		if closure != nil {
			updates["actual_closure_date"] = *closure
		}

		result := tx.Model(&model.NonConformity{}).
			Where("nc_id = ?", id).
			Updates(updates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		entry.NCID = id
		return tx.Create(entry).Error
	})
}

func (r *ncRepo) AddTimelineEntry(ctx context.Context, entry *model.TimelineEntry) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.NonConformity{}).
			Where("nc_id = ?", entry.NCID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(entry).Error
	})
}

func (r *ncRepo) ListTimeline(ctx context.Context, ncID string) ([]model.TimelineEntry, error) {
	var entries []model.TimelineEntry
	err := r.db.WithContext(ctx).
		Where("nc_id = ?", ncID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ncRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("nc_id = ?", id).Delete(&model.TimelineEntry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("nc_id = ?", id).Delete(&model.Attachment{}).Error; err != nil {
			return err
		}
		result := tx.Where("nc_id = ?", id).Delete(&model.NonConformity{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ncRepo) Stats(ctx context.Context) (*NCStats, error) {
	stats := &NCStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}

	type bucket struct {
		Key   string
		Count int64
	}

	var byStatus []bucket
	err := r.db.WithContext(ctx).Model(&model.NonConformity{}).
		Select("status AS key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byStatus {
		stats.ByStatus[b.Key] = b.Count
		stats.Total += b.Count
	}

	var byPriority []bucket
	err = r.db.WithContext(ctx).Model(&model.NonConformity{}).
		Select("priority AS key, COUNT(*) AS count").
		Group("priority").
		Scan(&byPriority).Error
	if err != nil {
		return nil, err
	}
	for _, b := range byPriority {
		stats.ByPriority[b.Key] = b.Count
	}

	return stats, nil
}

func (r *ncRepo) ClosedDatePairs(ctx context.Context) ([][2]time.Time, error) {
	type pair struct {
		CreatedDate       time.Time
		ActualClosureDate *time.Time
	}
	var rows []pair
	err := r.db.WithContext(ctx).Model(&model.NonConformity{}).
		Select("created_date, actual_closure_date").
		Where("status IN ?", []string{model.StatusResolved, model.StatusClosed}).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	pairs := make([][2]time.Time, 0, len(rows))
	for _, row := range rows {
		if row.ActualClosureDate == nil {
			continue
		}
		pairs = append(pairs, [2]time.Time{row.CreatedDate, *row.ActualClosureDate})
	}
	return pairs, nil
}
