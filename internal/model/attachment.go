package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attachment is a reference to a photo or document held outside the
// primary store, maps to nc_attachments. Only the URL and metadata are
// persisted here; data-URI payloads are stripped before they reach the
// repository.
type Attachment struct {
	AttachmentID     string   `gorm:"column:attachment_id;type:uuid;primaryKey" json:"attachment_id"`
	NCID             string   `gorm:"column:nc_id;type:uuid;not null;index"     json:"nc_id"`
	Name             string   `gorm:"type:varchar(255);not null"                json:"name"`
	URL              string   `gorm:"type:text;not null"                        json:"url"`
	ContentType      string   `gorm:"type:varchar(100)"                         json:"content_type,omitempty"`
	SizeBytes        int64    `gorm:"not null;default:0"                        json:"size_bytes"`
	CompressionRatio *float64 `json:"compression_ratio,omitempty"`
	CreatedAt        time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName names the table.
func (Attachment) TableName() string { return "nc_attachments" }

// BeforeCreate mints the primary key when the caller has not set one.
func (a *Attachment) BeforeCreate(*gorm.DB) error {
	if a.AttachmentID == "" {
		a.AttachmentID = uuid.NewString()
	}
	return nil
}
