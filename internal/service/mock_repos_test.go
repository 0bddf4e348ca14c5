package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
)

// ── Mock NCRepository ──

type mockNCRepo struct {
	ncs         map[string]*model.NonConformity
	order       []string // insertion order, oldest first
	timeline    map[string][]model.TimelineEntry
	attachments map[string][]model.Attachment
	entrySeq    int
	// failStatus injects an error for UpdateStatusWithEntry on given ids.
	failStatus map[string]error
}

func newMockNCRepo() *mockNCRepo {
	return &mockNCRepo{
		ncs:         make(map[string]*model.NonConformity),
		timeline:    make(map[string][]model.TimelineEntry),
		attachments: make(map[string][]model.Attachment),
		failStatus:  make(map[string]error),
	}
}

func (m *mockNCRepo) nextEntryID() string {
	m.entrySeq++
	return fmt.Sprintf("entry-%03d", m.entrySeq)
}

func (m *mockNCRepo) allNumbers() []string {
	numbers := make([]string, 0, len(m.ncs))
	for _, nc := range m.ncs {
		numbers = append(numbers, nc.Number)
	}
	return numbers
}

func (m *mockNCRepo) Create(_ context.Context, nc *model.NonConformity, seed *model.TimelineEntry, attachments []model.Attachment) error {
	n := repository.MaxSequence(m.allNumbers()) + 1
	nc.Number = fmt.Sprintf("RNC-%03d", n)
	if nc.NCID == "" {
		nc.NCID = fmt.Sprintf("nc-%03d", len(m.ncs)+1)
	}
	nc.CreatedAt = time.Now()

	m.ncs[nc.NCID] = nc
	m.order = append(m.order, nc.NCID)

	seed.NCID = nc.NCID
	seed.EntryID = m.nextEntryID()
	seed.CreatedAt = time.Now()
	m.timeline[nc.NCID] = append(m.timeline[nc.NCID], *seed)

	for i := range attachments {
		attachments[i].NCID = nc.NCID
		attachments[i].AttachmentID = fmt.Sprintf("att-%03d", i+1)
		m.attachments[nc.NCID] = append(m.attachments[nc.NCID], attachments[i])
	}
	return nil
}

func (m *mockNCRepo) GetByID(_ context.Context, id string) (*model.NonConformity, error) {
	nc, ok := m.ncs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *nc
	out.Timeline = append([]model.TimelineEntry(nil), m.timeline[id]...)
	out.Attachments = append([]model.Attachment(nil), m.attachments[id]...)
	return &out, nil
}

func (m *mockNCRepo) GetByNumber(_ context.Context, number string) (*model.NonConformity, error) {
	for id, nc := range m.ncs {
		if nc.Number == number {
			return m.GetByID(context.Background(), id)
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNCRepo) List(_ context.Context, f *repository.NCListFilters, limit int) ([]model.NonConformity, error) {
	var result []model.NonConformity
	for i := len(m.order) - 1; i >= 0; i-- { // newest first
		nc := m.ncs[m.order[i]]
		if f != nil {
			if f.Status != "" && nc.Status != f.Status {
				continue
			}
			if f.Priority != "" && nc.Priority != f.Priority {
				continue
			}
			if f.Project != "" && nc.Project != f.Project {
				continue
			}
			if f.Supplier != "" && nc.Supplier != f.Supplier {
				continue
			}
			if f.DetectionSource != "" && nc.DetectionSource != f.DetectionSource {
				continue
			}
		}
		result = append(result, *nc)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

func (m *mockNCRepo) Update(_ context.Context, nc *model.NonConformity) error {
	existing, ok := m.ncs[nc.NCID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	existing.Priority = nc.Priority
	existing.Project = nc.Project
	existing.ProjectCode = nc.ProjectCode
	existing.Supplier = nc.Supplier
	existing.ComponentCode = nc.ComponentCode
	existing.Component = nc.Component
	existing.Quantity = nc.Quantity
	existing.Description = nc.Description
	existing.NCType = nc.NCType
	existing.DetectionSource = nc.DetectionSource
	existing.MaterialDisposition = nc.MaterialDisposition
	existing.ContainmentAction = nc.ContainmentAction
	existing.RootCauseAnalysis = nc.RootCauseAnalysis
	existing.CorrectiveActionPlan = nc.CorrectiveActionPlan
	existing.PlannedClosureDate = nc.PlannedClosureDate
	existing.UpdatedAt = time.Now()
	return nil
}

func (m *mockNCRepo) UpdateStatusWithEntry(_ context.Context, id, status string, closure *time.Time, entry *model.TimelineEntry) error {
	if err, ok := m.failStatus[id]; ok {
		return err
	}
	nc, ok := m.ncs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	nc.Status = status
	if closure != nil {
		nc.ActualClosureDate = closure
	}
	nc.UpdatedAt = time.Now()

	entry.NCID = id
	entry.EntryID = m.nextEntryID()
	entry.CreatedAt = time.Now()
	m.timeline[id] = append(m.timeline[id], *entry)
	return nil
}

func (m *mockNCRepo) AddTimelineEntry(_ context.Context, entry *model.TimelineEntry) error {
	if _, ok := m.ncs[entry.NCID]; !ok {
		return gorm.ErrRecordNotFound
	}
	entry.EntryID = m.nextEntryID()
	entry.CreatedAt = time.Now()
	m.timeline[entry.NCID] = append(m.timeline[entry.NCID], *entry)
	return nil
}

func (m *mockNCRepo) ListTimeline(_ context.Context, ncID string) ([]model.TimelineEntry, error) {
	return append([]model.TimelineEntry(nil), m.timeline[ncID]...), nil
}

func (m *mockNCRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.ncs[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.ncs, id)
	delete(m.timeline, id)
	delete(m.attachments, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockNCRepo) Stats(_ context.Context) (*repository.NCStats, error) {
	stats := &repository.NCStats{
		ByStatus:   make(map[string]int64),
		ByPriority: make(map[string]int64),
	}
	for _, nc := range m.ncs {
		stats.Total++
		stats.ByStatus[nc.Status]++
		stats.ByPriority[nc.Priority]++
	}
	return stats, nil
}

func (m *mockNCRepo) ClosedDatePairs(_ context.Context) ([][2]time.Time, error) {
	var pairs [][2]time.Time
	for _, nc := range m.ncs {
		if !model.IsClosure(nc.Status) || nc.ActualClosureDate == nil {
			continue
		}
		pairs = append(pairs, [2]time.Time{nc.CreatedDate, *nc.ActualClosureDate})
	}
	return pairs, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		user.UserID = fmt.Sprintf("user-%03d", len(m.users)+1)
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, int64(len(m.users)), nil
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

// ── Mock InspectionRepository ──

type mockInspectionRepo struct {
	inspections map[string]*model.Inspection
	order       []string
}

func newMockInspectionRepo() *mockInspectionRepo {
	return &mockInspectionRepo{inspections: make(map[string]*model.Inspection)}
}

func (m *mockInspectionRepo) Create(_ context.Context, insp *model.Inspection) error {
	if insp.InspectionID == "" {
		insp.InspectionID = fmt.Sprintf("insp-%03d", len(m.inspections)+1)
	}
	m.inspections[insp.InspectionID] = insp
	m.order = append(m.order, insp.InspectionID)
	return nil
}

func (m *mockInspectionRepo) GetByID(_ context.Context, id string) (*model.Inspection, error) {
	if i, ok := m.inspections[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockInspectionRepo) List(_ context.Context, f *repository.InspectionListFilters, offset, limit int) ([]model.Inspection, int64, error) {
	var all []model.Inspection
	for i := len(m.order) - 1; i >= 0; i-- {
		insp := m.inspections[m.order[i]]
		if f != nil {
			if f.Project != "" && insp.Project != f.Project {
				continue
			}
			if f.Status != "" && insp.Status != f.Status {
				continue
			}
		}
		all = append(all, *insp)
	}
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (m *mockInspectionRepo) Update(_ context.Context, insp *model.Inspection) error {
	if _, ok := m.inspections[insp.InspectionID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.inspections[insp.InspectionID] = insp
	return nil
}

func (m *mockInspectionRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.inspections[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.inspections, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

func (m *mockInspectionRepo) NextReportNumber(_ context.Context) (string, error) {
	return fmt.Sprintf("INSP-%04d", len(m.inspections)+1), nil
}

// ── shared test setup ──

func newTestRepository() (*repository.Repository, *mockNCRepo) {
	ncRepo := newMockNCRepo()
	repo := &repository.Repository{
		NC:         ncRepo,
		User:       newMockUserRepo(),
		Inspection: newMockInspectionRepo(),
	}
	return repo, ncRepo
}
