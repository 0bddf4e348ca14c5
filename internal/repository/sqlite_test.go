package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
)

// openTestDB opens an in-memory sqlite database and applies the same
// AutoMigrate set the server's sqlite branch uses at startup.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.NCSequence{},
		&model.NonConformity{},
		&model.TimelineEntry{},
		&model.Attachment{},
		&model.Inspection{},
	); err != nil {
		t.Fatalf("AutoMigrate failed: %v", err)
	}
	return db
}

func TestSQLite_SchemaAndCreate(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	nc := &model.NonConformity{
		Status:      model.StatusOpen,
		Priority:    model.PriorityMajor,
		Project:     "Solar Park Varese",
		Quantity:    4,
		Description: "Weld porosity on torque tube batch",
		CreatedDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	seed := &model.TimelineEntry{
		EntryDate: nc.CreatedDate,
		EntryTime: "09:30",
		Title:     "Non-Conformity Created",
		EntryType: model.EntryTypeCreation,
	}
	atts := []model.Attachment{
		{Name: "weld.jpg", URL: "https://files.example.com/weld.jpg"},
	}

	if err := repo.NC.Create(ctx, nc, seed, atts); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if nc.NCID == "" {
		t.Error("NCID not assigned on insert")
	}
	if nc.Number != "RNC-001" {
		t.Errorf("Number = %s, want RNC-001", nc.Number)
	}

	got, err := repo.NC.GetByID(ctx, nc.NCID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.Timeline) != 1 {
		t.Fatalf("timeline length = %d, want 1", len(got.Timeline))
	}
	if got.Timeline[0].EntryID == "" || got.Timeline[0].NCID != nc.NCID {
		t.Errorf("seed entry keys: id=%q nc_id=%q", got.Timeline[0].EntryID, got.Timeline[0].NCID)
	}
	if len(got.Attachments) != 1 || got.Attachments[0].AttachmentID == "" {
		t.Errorf("attachments = %+v, want 1 row with assigned id", got.Attachments)
	}

	// second record advances the sequence
	nc2 := &model.NonConformity{
		Status:      model.StatusOpen,
		Priority:    model.PriorityMinor,
		Project:     "Solar Park Varese",
		Quantity:    1,
		Description: "Coating thickness below tolerance",
		CreatedDate: nc.CreatedDate,
	}
	seed2 := &model.TimelineEntry{
		EntryDate: nc2.CreatedDate,
		EntryTime: "10:00",
		Title:     "Non-Conformity Created",
		EntryType: model.EntryTypeCreation,
	}
	if err := repo.NC.Create(ctx, nc2, seed2, nil); err != nil {
		t.Fatalf("second Create failed: %v", err)
	}
	if nc2.Number != "RNC-002" {
		t.Errorf("second Number = %s, want RNC-002", nc2.Number)
	}
	if nc2.NCID == nc.NCID {
		t.Error("duplicate NCID across records")
	}
}

func TestSQLite_UserAndInspectionKeys(t *testing.T) {
	db := openTestDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	u := &model.User{
		Name:         "Ana Inspector",
		Email:        "ana@example.com",
		PasswordHash: "x",
		Role:         model.RoleInspector,
	}
	if err := repo.User.Create(ctx, u); err != nil {
		t.Fatalf("user Create failed: %v", err)
	}
	if u.UserID == "" {
		t.Error("UserID not assigned on insert")
	}

	insp := &model.Inspection{
		ReportNumber:   "INSP-0001",
		Project:        "Solar Park Varese",
		ComponentCode:  "TT-200",
		Inspector:      "Ana Inspector",
		InspectionDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		Status:         model.InspectionPending,
	}
	if err := repo.Inspection.Create(ctx, insp); err != nil {
		t.Fatalf("inspection Create failed: %v", err)
	}
	if insp.InspectionID == "" {
		t.Error("InspectionID not assigned on insert")
	}
}
