package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/JSSP85/SolarApp-sub002/pkg/dates"
)

// ── status / priority enums ──

// Valid NC statuses. Any status may follow any other; the lifecycle is
// advisory, not enforced (tracking panels only offer the forward path).
const (
	StatusOpen     = "open"
	StatusProgress = "progress"
	StatusResolved = "resolved"
	StatusClosed   = "closed"
)

// Valid NC priorities.
const (
	PriorityCritical = "critical"
	PriorityMajor    = "major"
	PriorityMinor    = "minor"
	PriorityLow      = "low"
)

// ValidStatus reports whether s is one of the four NC statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the four NC priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityCritical, PriorityMajor, PriorityMinor, PriorityLow:
		return true
	}
	return false
}

// IsClosure reports whether the status freezes the record's days-open count.
func IsClosure(s string) bool {
	return s == StatusResolved || s == StatusClosed
}

// NonConformity is one quality issue raised against a batch of
// manufactured components, maps to non_conformities.
type NonConformity struct {
	NCID     string `gorm:"column:nc_id;type:uuid;primaryKey"        json:"nc_id"`
	Number   string `gorm:"type:varchar(20);not null;uniqueIndex"    json:"number"`
	Status   string `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	Priority string `gorm:"type:varchar(20);not null"                json:"priority"`

	Project         string `gorm:"type:varchar(100);not null" json:"project"`
	ProjectCode     string `gorm:"type:varchar(50)"           json:"project_code,omitempty"`
	Supplier        string `gorm:"type:varchar(100)"          json:"supplier,omitempty"`
	ComponentCode   string `gorm:"type:varchar(50)"           json:"component_code,omitempty"`
	Component       string `gorm:"type:varchar(200)"          json:"component,omitempty"`
	Quantity        int    `gorm:"not null;default:0"         json:"quantity"`
	Description     string `gorm:"type:text;not null"         json:"description"`
	NCType          string `gorm:"column:nc_type;type:varchar(50)" json:"nc_type,omitempty"`
	DetectionSource string `gorm:"type:varchar(100)"          json:"detection_source,omitempty"`

	MaterialDisposition  string `gorm:"type:varchar(100)" json:"material_disposition,omitempty"`
	ContainmentAction    string `gorm:"type:text"         json:"containment_action,omitempty"`
	RootCauseAnalysis    string `gorm:"type:text"         json:"root_cause_analysis,omitempty"`
	CorrectiveActionPlan string `gorm:"type:text"         json:"corrective_action_plan,omitempty"`

	CreatedDate        time.Time  `gorm:"type:date;not null" json:"created_date"`
	PlannedClosureDate *time.Time `gorm:"type:date"          json:"planned_closure_date,omitempty"`
	ActualClosureDate  *time.Time `gorm:"type:date"          json:"actual_closure_date,omitempty"`

	// Attachment metadata; the payloads live in nc_attachments as
	// references and are never embedded in this record.
	PhotosCount int  `gorm:"not null;default:0"     json:"photos_count"`
	HasPhotos   bool `gorm:"not null;default:false" json:"has_photos"`

	// Site position captured from the map collaborator.
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	SiteAddress string   `gorm:"type:varchar(300)" json:"site_address,omitempty"`

	CreatedBy *string `gorm:"type:uuid" json:"created_by,omitempty"`
	BaseModel

	// Associations
	Timeline    []TimelineEntry `gorm:"foreignKey:NCID;references:NCID" json:"timeline,omitempty"`
	Attachments []Attachment    `gorm:"foreignKey:NCID;references:NCID" json:"attachments,omitempty"`
}

// TableName names the table.
func (NonConformity) TableName() string { return "non_conformities" }

// BeforeCreate mints the primary key when the caller has not set one.
// Keys are generated in Go because sqlite has no UUID function.
func (nc *NonConformity) BeforeCreate(*gorm.DB) error {
	if nc.NCID == "" {
		nc.NCID = uuid.NewString()
	}
	return nil
}

// DaysOpen returns elapsed days since creation for open records, frozen
// at the actual closure date for resolved/closed records.
func (nc *NonConformity) DaysOpen() int {
	if IsClosure(nc.Status) && nc.ActualClosureDate != nil {
		return dates.DaysBetween(nc.CreatedDate, *nc.ActualClosureDate)
	}
	return dates.DaysBetween(nc.CreatedDate, dates.Today())
}

// NCSequence backs server-side RNC number assignment, maps to nc_sequences.
type NCSequence struct {
	Prefix    string `gorm:"type:varchar(10);primaryKey"`
	NextValue int    `gorm:"not null"`
}

// TableName names the table.
func (NCSequence) TableName() string { return "nc_sequences" }
