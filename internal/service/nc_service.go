package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/internal/dto"
	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/pkg/dates"
)

// ── NC business errors ──

var (
	ErrNCNotFound      = errors.New("non-conformity not found")
	ErrInvalidStatus   = errors.New("invalid status value")
	ErrInvalidPriority = errors.New("invalid priority value")
)

// ValidationError carries per-field messages for inline display.
type ValidationError struct {
	Fields map[string]string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for f, msg := range e.Fields {
		parts = append(parts, f+": "+msg)
	}
	sort.Strings(parts)
	return "validation failed: " + strings.Join(parts, "; ")
}

// NCService is the state core of the application: record CRUD, the
// lifecycle/timeline engine and derived metrics.
type NCService interface {
	Create(ctx context.Context, req *dto.CreateNCRequest, callerID string) (*dto.NCResponse, error)
	GetByID(ctx context.Context, id string) (*dto.NCResponse, error)
	GetByNumber(ctx context.Context, number string) (*dto.NCResponse, error)
	List(ctx context.Context, req *dto.NCListRequest) ([]dto.NCResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateNCRequest) (*dto.NCResponse, error)
	// UpdateStatus is the single mutation entry point for lifecycle
	// changes: it applies the status and appends the status_change
	// timeline entry atomically.
	UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest) (*dto.NCResponse, error)
	BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error)
	AddTimelineEntry(ctx context.Context, id string, req *dto.AddTimelineEntryRequest) (*dto.NCResponse, error)
	Delete(ctx context.Context, id string) error
	Metrics(ctx context.Context) (*dto.MetricsResponse, error)
	Stats(ctx context.Context) (*dto.MetricsResponse, error)
	MailtoLink(ctx context.Context, id, address string) (*dto.MailtoResponse, error)
}

type ncService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNCService creates an NCService instance.
func NewNCService(repo *repository.Repository, logger *zap.Logger) NCService {
	return &ncService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *ncService) Create(ctx context.Context, req *dto.CreateNCRequest, callerID string) (*dto.NCResponse, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	now := time.Now()
	today := dates.Today()

	nc := &model.NonConformity{
		Status:               model.StatusOpen,
		Priority:             req.Priority,
		Project:              req.Project,
		ProjectCode:          req.ProjectCode,
		Supplier:             req.Supplier,
		ComponentCode:        req.ComponentCode,
		Component:            req.Component,
		Quantity:             int(req.Quantity),
		Description:          req.Description,
		NCType:               req.NCType,
		DetectionSource:      req.DetectionSource,
		MaterialDisposition:  req.MaterialDisposition,
		ContainmentAction:    req.ContainmentAction,
		RootCauseAnalysis:    req.RootCauseAnalysis,
		CorrectiveActionPlan: req.CorrectiveActionPlan,
		CreatedDate:          today,
		PhotosCount:          len(req.Photos),
		HasPhotos:            len(req.Photos) > 0,
		Latitude:             req.Latitude,
		Longitude:            req.Longitude,
		SiteAddress:          req.SiteAddress,
	}
	if callerID != "" {
		nc.CreatedBy = &callerID
	}
	if req.PlannedClosureDate != "" {
		// validateCreate already rejected unparsable input; the flag is
		// checked again so a zero date can never be stored.
		if t, ok := dates.Parse(req.PlannedClosureDate); ok {
			nc.PlannedClosureDate = &t
		}
	}

	// Every record starts with one synthetic creation entry; the
	// timeline is never empty after this point.
	seed := &model.TimelineEntry{
		EntryDate:   today,
		EntryTime:   now.Format("15:04"),
		Title:       "Non-conformity created",
		Description: "Record opened with priority " + req.Priority,
		EntryType:   model.EntryTypeCreation,
	}

	// Attachment payloads (data URIs) stop here: only references and
	// metadata reach the store. A photo submitted with an inline payload
	// and no URL leaves nothing to reference, so it counts toward
	// photos_count but writes no row.
	attachments := make([]model.Attachment, 0, len(req.Photos))
	for _, p := range req.Photos {
		if p.URL == "" {
			continue
		}
		attachments = append(attachments, model.Attachment{
			Name:             p.Name,
			URL:              p.URL,
			ContentType:      p.ContentType,
			SizeBytes:        p.Size,
			CompressionRatio: p.CompressionRatio,
		})
	}

	if err := s.repo.NC.Create(ctx, nc, seed, attachments); err != nil {
		s.logger.Error("create non-conformity failed", zap.Error(err))
		return nil, err
	}

	created, err := s.repo.NC.GetByID(ctx, nc.NCID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("non-conformity created",
		zap.String("nc_id", created.NCID),
		zap.String("number", created.Number),
		zap.String("priority", created.Priority),
	)

	return toNCResponse(created), nil
}

// validateCreate covers the rules binding tags cannot express.
func validateCreate(req *dto.CreateNCRequest) error {
	fields := make(map[string]string)

	if !model.ValidPriority(req.Priority) {
		fields["priority"] = "must be one of critical, major, minor, low"
	}
	if strings.TrimSpace(req.Project) == "" {
		fields["project"] = "required"
	}
	if strings.TrimSpace(req.Description) == "" {
		fields["description"] = "required"
	}
	if req.Quantity < 0 {
		fields["quantity"] = "must not be negative"
	}
	if req.PlannedClosureDate != "" {
		if _, ok := dates.Parse(req.PlannedClosureDate); !ok {
			fields["planned_closure_date"] = "must be a DD/MM/YYYY date"
		} else if !dates.IsFuture(req.PlannedClosureDate) {
			fields["planned_closure_date"] = "must be in the future"
		}
	}
	for i, p := range req.Photos {
		if p.URL == "" && p.DataURI == "" {
			fields[fmt.Sprintf("photos[%d]", i)] = "either url or data_uri is required"
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// ────────────────────── Get / List ──────────────────────

func (s *ncService) GetByID(ctx context.Context, id string) (*dto.NCResponse, error) {
	nc, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		s.logger.Error("get non-conformity failed", zap.String("nc_id", id), zap.Error(err))
		return nil, err
	}
	return toNCResponse(nc), nil
}

func (s *ncService) GetByNumber(ctx context.Context, number string) (*dto.NCResponse, error) {
	nc, err := s.repo.NC.GetByNumber(ctx, number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		s.logger.Error("get non-conformity failed", zap.String("number", number), zap.Error(err))
		return nil, err
	}
	return toNCResponse(nc), nil
}

// searchFields is the fixed text-field set the search term matches against.
func searchFields(nc *model.NonConformity) []string {
	return []string{
		nc.Number,
		nc.Project,
		nc.ProjectCode,
		nc.Supplier,
		nc.ComponentCode,
		nc.Component,
		nc.Description,
		nc.NCType,
		nc.DetectionSource,
	}
}

func matchesSearch(nc *model.NonConformity, term string) bool {
	if term == "" {
		return true
	}
	term = strings.ToLower(term)
	for _, f := range searchFields(nc) {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}

func (s *ncService) List(ctx context.Context, req *dto.NCListRequest) ([]dto.NCResponse, int64, error) {
	filters := &repository.NCListFilters{
		Status:          req.Status,
		Priority:        req.Priority,
		Project:         req.Project,
		Supplier:        req.Supplier,
		DetectionSource: req.DetectionSource,
	}

	// Equality filters run in SQL; search term and date range are
	// applied here, after fetch.
	ncs, err := s.repo.NC.List(ctx, filters, 0)
	if err != nil {
		s.logger.Error("list non-conformities failed", zap.Error(err))
		return nil, 0, err
	}

	filtered := make([]model.NonConformity, 0, len(ncs))
	for i := range ncs {
		nc := &ncs[i]
		if !matchesSearch(nc, req.Search) {
			continue
		}
		if (req.DateFrom != "" || req.DateTo != "") && !dates.InRange(nc.CreatedDate, req.DateFrom, req.DateTo) {
			continue
		}
		filtered = append(filtered, *nc)
	}

	total := int64(len(filtered))
	start := req.GetOffset()
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + req.GetPageSize()
	if end > len(filtered) {
		end = len(filtered)
	}

	result := make([]dto.NCResponse, 0, end-start)
	for i := start; i < end; i++ {
		result = append(result, *toNCResponse(&filtered[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *ncService) Update(ctx context.Context, id string, req *dto.UpdateNCRequest) (*dto.NCResponse, error) {
	nc, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		return nil, err
	}

	if req.Priority != nil {
		if !model.ValidPriority(*req.Priority) {
			return nil, ErrInvalidPriority
		}
		nc.Priority = *req.Priority
	}
	if req.Project != nil {
		nc.Project = *req.Project
	}
	if req.ProjectCode != nil {
		nc.ProjectCode = *req.ProjectCode
	}
	if req.Supplier != nil {
		nc.Supplier = *req.Supplier
	}
	if req.ComponentCode != nil {
		nc.ComponentCode = *req.ComponentCode
	}
	if req.Component != nil {
		nc.Component = *req.Component
	}
	if req.Quantity != nil {
		nc.Quantity = int(*req.Quantity)
	}
	if req.Description != nil {
		nc.Description = *req.Description
	}
	if req.NCType != nil {
		nc.NCType = *req.NCType
	}
	if req.DetectionSource != nil {
		nc.DetectionSource = *req.DetectionSource
	}
	if req.MaterialDisposition != nil {
		nc.MaterialDisposition = *req.MaterialDisposition
	}
	if req.ContainmentAction != nil {
		nc.ContainmentAction = *req.ContainmentAction
	}
	if req.RootCauseAnalysis != nil {
		nc.RootCauseAnalysis = *req.RootCauseAnalysis
	}
	if req.CorrectiveActionPlan != nil {
		nc.CorrectiveActionPlan = *req.CorrectiveActionPlan
	}
	if req.PlannedClosureDate != nil {
		if *req.PlannedClosureDate == "" {
			nc.PlannedClosureDate = nil
		} else {
			t, ok := dates.Parse(*req.PlannedClosureDate)
			if !ok {
				return nil, &ValidationError{Fields: map[string]string{
					"planned_closure_date": "must be a DD/MM/YYYY date",
				}}
			}
			nc.PlannedClosureDate = &t
		}
	}

	if err := s.repo.NC.Update(ctx, nc); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		s.logger.Error("update non-conformity failed", zap.String("nc_id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNCResponse(updated), nil
}

// ────────────────────── UpdateStatus ──────────────────────

// statusLabels are the display names used in status_change entry titles.
var statusLabels = map[string]string{
	model.StatusOpen:     "Open",
	model.StatusProgress: "In Progress",
	model.StatusResolved: "Resolved",
	model.StatusClosed:   "Closed",
}

func (s *ncService) UpdateStatus(ctx context.Context, id string, req *dto.UpdateStatusRequest) (*dto.NCResponse, error) {
	if !model.ValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	var closure *time.Time
	if model.IsClosure(req.Status) {
		today := dates.Today()
		closure = &today
	}

	description := req.Note
	if description == "" {
		description = "Status changed to " + statusLabels[req.Status]
	}
	entry := &model.TimelineEntry{
		EntryDate:   dates.Today(),
		EntryTime:   now.Format("15:04"),
		Title:       "Status Updated to " + statusLabels[req.Status],
		Description: description,
		EntryType:   model.EntryTypeStatusChange,
	}

	err := s.repo.NC.UpdateStatusWithEntry(ctx, id, req.Status, closure, entry)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		s.logger.Error("update status failed",
			zap.String("nc_id", id),
			zap.String("status", req.Status),
			zap.Error(err),
		)
		return nil, err
	}

	updated, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNCResponse(updated), nil
}

func (s *ncService) BulkUpdateStatus(ctx context.Context, req *dto.BulkStatusRequest) (*dto.BulkStatusResponse, error) {
	if !model.ValidStatus(req.Status) {
		return nil, ErrInvalidStatus
	}

	// One independent update per record: a failure mid-list leaves the
	// earlier successes in place, and later records are still attempted.
	resp := &dto.BulkStatusResponse{Updated: make([]string, 0, len(req.IDs))}
	for _, id := range req.IDs {
		_, err := s.UpdateStatus(ctx, id, &dto.UpdateStatusRequest{Status: req.Status, Note: req.Note})
		if err != nil {
			if resp.Failed == nil {
				resp.Failed = make(map[string]string)
			}
			resp.Failed[id] = err.Error()
			continue
		}
		resp.Updated = append(resp.Updated, id)
	}
	return resp, nil
}

// ────────────────────── Timeline ──────────────────────

func (s *ncService) AddTimelineEntry(ctx context.Context, id string, req *dto.AddTimelineEntryRequest) (*dto.NCResponse, error) {
	entryType := req.EntryType
	if entryType == "" {
		entryType = model.EntryTypeUpdate
	}

	now := time.Now()
	entry := &model.TimelineEntry{
		NCID:        id,
		EntryDate:   dates.Today(),
		EntryTime:   now.Format("15:04"),
		Title:       req.Title,
		Description: req.Description,
		EntryType:   entryType,
	}

	if err := s.repo.NC.AddTimelineEntry(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		s.logger.Error("add timeline entry failed", zap.String("nc_id", id), zap.Error(err))
		return nil, err
	}

	updated, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toNCResponse(updated), nil
}

// ────────────────────── Delete ──────────────────────

func (s *ncService) Delete(ctx context.Context, id string) error {
	if err := s.repo.NC.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNCNotFound
		}
		s.logger.Error("delete non-conformity failed", zap.String("nc_id", id), zap.Error(err))
		return err
	}
	s.logger.Info("non-conformity deleted", zap.String("nc_id", id))
	return nil
}

// ────────────────────── Metrics ──────────────────────

// Metrics recomputes the dashboard aggregate from the current register.
// Nothing here is stored.
func (s *ncService) Metrics(ctx context.Context) (*dto.MetricsResponse, error) {
	ncs, err := s.repo.NC.List(ctx, nil, 0)
	if err != nil {
		s.logger.Error("metrics fetch failed", zap.Error(err))
		return nil, err
	}
	return computeMetrics(ncs), nil
}

func computeMetrics(ncs []model.NonConformity) *dto.MetricsResponse {
	m := &dto.MetricsResponse{
		Total:      len(ncs),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}

	resolved := 0
	var resolutionDays int
	trendMap := make(map[string]*dto.TrendBucket)

	for i := range ncs {
		nc := &ncs[i]
		m.ByStatus[nc.Status]++
		m.ByPriority[nc.Priority]++

		if model.IsClosure(nc.Status) {
			resolved++
			resolutionDays += nc.DaysOpen()
		}

		month := nc.CreatedDate.Format("2006-01")
		b, ok := trendMap[month]
		if !ok {
			b = &dto.TrendBucket{Month: month}
			trendMap[month] = b
		}
		b.Opened++
		if nc.ActualClosureDate != nil {
			cm := nc.ActualClosureDate.Format("2006-01")
			cb, ok := trendMap[cm]
			if !ok {
				cb = &dto.TrendBucket{Month: cm}
				trendMap[cm] = cb
			}
			cb.Closed++
		}
	}

	if m.Total > 0 {
		m.ResolutionRate = float64(resolved) / float64(m.Total)
	}
	if resolved > 0 {
		m.AverageResolutionDays = float64(resolutionDays) / float64(resolved)
	}

	months := make([]string, 0, len(trendMap))
	for month := range trendMap {
		months = append(months, month)
	}
	sort.Strings(months)
	m.Trend = make([]dto.TrendBucket, 0, len(months))
	for _, month := range months {
		m.Trend = append(m.Trend, *trendMap[month])
	}
	return m
}

// Stats is the server-side aggregation path, the fallback source of
// truth when the register itself is not loaded.
func (s *ncService) Stats(ctx context.Context) (*dto.MetricsResponse, error) {
	stats, err := s.repo.NC.Stats(ctx)
	if err != nil {
		s.logger.Error("stats aggregation failed", zap.Error(err))
		return nil, err
	}

	m := &dto.MetricsResponse{
		Total:      int(stats.Total),
		ByStatus:   make(map[string]int),
		ByPriority: make(map[string]int),
	}
	for k, v := range stats.ByStatus {
		m.ByStatus[k] = int(v)
	}
	for k, v := range stats.ByPriority {
		m.ByPriority[k] = int(v)
	}

	resolved := m.ByStatus[model.StatusResolved] + m.ByStatus[model.StatusClosed]
	if m.Total > 0 {
		m.ResolutionRate = float64(resolved) / float64(m.Total)
	}

	pairs, err := s.repo.NC.ClosedDatePairs(ctx)
	if err != nil {
		return nil, err
	}
	if len(pairs) > 0 {
		total := 0
		for _, p := range pairs {
			total += dates.DaysBetween(p[0], p[1])
		}
		m.AverageResolutionDays = float64(total) / float64(len(pairs))
	}
	return m, nil
}

// ────────────────────── Mailto ──────────────────────

// MailtoLink composes a mailto URL summarizing the record. Delivery is
// the caller's mail client's problem; no confirmation exists.
func (s *ncService) MailtoLink(ctx context.Context, id, address string) (*dto.MailtoResponse, error) {
	nc, err := s.repo.NC.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNCNotFound
		}
		return nil, err
	}

	subject := fmt.Sprintf("%s - %s (%s)", nc.Number, nc.Project, strings.ToUpper(nc.Priority))
	body := fmt.Sprintf(
		"Non-conformity %s\nProject: %s\nSupplier: %s\nComponent: %s\nStatus: %s\nOpened: %s\n\n%s",
		nc.Number, nc.Project, nc.Supplier, nc.Component,
		statusLabels[nc.Status], dates.Format(nc.CreatedDate), nc.Description,
	)

	q := url.Values{}
	q.Set("subject", subject)
	q.Set("body", body)
	return &dto.MailtoResponse{
		MailtoURL: "mailto:" + address + "?" + strings.ReplaceAll(q.Encode(), "+", "%20"),
	}, nil
}

// ────────────────────── mapping ──────────────────────

// toNCResponse converts a model record to its API view. Timeline entries
// are stored oldest-first and presented newest-first.
func toNCResponse(nc *model.NonConformity) *dto.NCResponse {
	resp := &dto.NCResponse{
		NCID:                 nc.NCID,
		Number:               nc.Number,
		Status:               nc.Status,
		Priority:             nc.Priority,
		Project:              nc.Project,
		ProjectCode:          nc.ProjectCode,
		Supplier:             nc.Supplier,
		ComponentCode:        nc.ComponentCode,
		Component:            nc.Component,
		Quantity:             nc.Quantity,
		Description:          nc.Description,
		NCType:               nc.NCType,
		DetectionSource:      nc.DetectionSource,
		MaterialDisposition:  nc.MaterialDisposition,
		ContainmentAction:    nc.ContainmentAction,
		RootCauseAnalysis:    nc.RootCauseAnalysis,
		CorrectiveActionPlan: nc.CorrectiveActionPlan,
		CreatedDate:          dates.Format(nc.CreatedDate),
		PlannedClosureDate:   dates.FormatPtr(nc.PlannedClosureDate),
		ActualClosureDate:    dates.FormatPtr(nc.ActualClosureDate),
		DaysOpen:             nc.DaysOpen(),
		PhotosCount:          nc.PhotosCount,
		HasPhotos:            nc.HasPhotos,
		Latitude:             nc.Latitude,
		Longitude:            nc.Longitude,
		SiteAddress:          nc.SiteAddress,
	}

	for i := len(nc.Timeline) - 1; i >= 0; i-- {
		e := nc.Timeline[i]
		resp.Timeline = append(resp.Timeline, dto.TimelineEntryResponse{
			EntryID:     e.EntryID,
			Date:        dates.Format(e.EntryDate),
			Time:        e.EntryTime,
			Title:       e.Title,
			Description: e.Description,
			EntryType:   e.EntryType,
		})
	}

	for _, a := range nc.Attachments {
		resp.Attachments = append(resp.Attachments, dto.AttachmentResponse{
			AttachmentID:     a.AttachmentID,
			Name:             a.Name,
			URL:              a.URL,
			ContentType:      a.ContentType,
			SizeBytes:        a.SizeBytes,
			CompressionRatio: a.CompressionRatio,
		})
	}

	return resp
}
