package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inspection statuses.
const (
	InspectionPending    = "pending"
	InspectionInProgress = "in-progress"
	InspectionCompleted  = "completed"
	InspectionRejected   = "rejected"
)

// Inspection is one dimensional/coating/visual inspection report header,
// maps to inspections.
type Inspection struct {
	InspectionID    string    `gorm:"column:inspection_id;type:uuid;primaryKey"    json:"inspection_id"`
	ReportNumber    string    `gorm:"type:varchar(30);not null;uniqueIndex"        json:"report_number"`
	Project         string    `gorm:"type:varchar(100);not null"                   json:"project"`
	ComponentFamily string    `gorm:"type:varchar(100)"                            json:"component_family,omitempty"`
	ComponentCode   string    `gorm:"type:varchar(50);not null"                    json:"component_code"`
	BatchQuantity   int       `gorm:"not null;default:0"                           json:"batch_quantity"`
	SampleSize      int       `gorm:"not null;default:0"                           json:"sample_size"`
	Inspector       string    `gorm:"type:varchar(100);not null"                   json:"inspector"`
	InspectionDate  time.Time `gorm:"type:date;not null"                           json:"inspection_date"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'"  json:"status"`
	MeanCoating     *float64  `json:"mean_coating,omitempty"`
	VisualResult    string    `gorm:"type:varchar(20)" json:"visual_result,omitempty"`
	Notes           string    `gorm:"type:text"        json:"notes,omitempty"`
	CreatedBy       *string   `gorm:"type:uuid"        json:"created_by,omitempty"`
	BaseModel
}

// TableName names the table.
func (Inspection) TableName() string { return "inspections" }

// BeforeCreate mints the primary key when the caller has not set one.
func (i *Inspection) BeforeCreate(*gorm.DB) error {
	if i.InspectionID == "" {
		i.InspectionID = uuid.NewString()
	}
	return nil
}
