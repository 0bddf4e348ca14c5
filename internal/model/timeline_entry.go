package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Timeline entry types. The set is open-ended; unknown values only lose
// their icon in the frontend, never behavior.
const (
	EntryTypeCreation      = "creation"
	EntryTypeDetection     = "detection"
	EntryTypeInvestigation = "investigation"
	EntryTypeAction        = "action"
	EntryTypeStatusChange  = "status_change"
	EntryTypeUpdate        = "update"
	EntryTypeVerification  = "verification"
	EntryTypeEscalation    = "escalation"
	EntryTypeResolution    = "resolution"
)

// TimelineEntry is one immutable lifecycle note attached to an NC,
// maps to nc_timeline_entries. Append-only: no update or delete path
// exists anywhere in the application.
type TimelineEntry struct {
	EntryID     string    `gorm:"column:entry_id;type:uuid;primaryKey"       json:"entry_id"`
	NCID        string    `gorm:"column:nc_id;type:uuid;not null;index"      json:"nc_id"`
	EntryDate   time.Time `gorm:"type:date;not null"                         json:"entry_date"`
	EntryTime   string    `gorm:"type:varchar(8);not null"                   json:"entry_time"`
	Title       string    `gorm:"type:varchar(200);not null"                 json:"title"`
	Description string    `gorm:"type:text"                                  json:"description,omitempty"`
	EntryType   string    `gorm:"type:varchar(30);not null;default:'update'" json:"entry_type"`
	CreatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"         json:"created_at"`
}

// TableName names the table.
func (TimelineEntry) TableName() string { return "nc_timeline_entries" }

// BeforeCreate mints the primary key when the caller has not set one.
func (e *TimelineEntry) BeforeCreate(*gorm.DB) error {
	if e.EntryID == "" {
		e.EntryID = uuid.NewString()
	}
	return nil
}
