package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// FlexInt accepts both JSON numbers and numeric strings. Quantity fields
// arrive as strings from the legacy form frontend.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("quantity: invalid number %q", s)
	}
	*f = FlexInt(n)
	return nil
}

// PhotoDescriptor is one attachment as submitted by the creation wizard.
// DataURI payloads are dropped on persist; only reference metadata is kept.
type PhotoDescriptor struct {
	Name             string   `json:"name"    binding:"required,max=255"`
	URL              string   `json:"url"     binding:"omitempty,max=2048"`
	DataURI          string   `json:"data_uri"`
	ContentType      string   `json:"type"    binding:"omitempty,max=100"`
	Size             int64    `json:"size"    binding:"omitempty,min=0"`
	CompressionRatio *float64 `json:"compression_ratio"`
}

// ── NC requests ──

// CreateNCRequest opens a new non-conformity.
type CreateNCRequest struct {
	Priority             string            `json:"priority"               binding:"required,oneof=critical major minor low"`
	Project              string            `json:"project"                binding:"required,max=100"`
	ProjectCode          string            `json:"project_code"           binding:"omitempty,max=50"`
	Supplier             string            `json:"supplier"               binding:"omitempty,max=100"`
	ComponentCode        string            `json:"component_code"         binding:"omitempty,max=50"`
	Component            string            `json:"component"              binding:"omitempty,max=200"`
	Quantity             FlexInt           `json:"quantity"`
	Description          string            `json:"description"            binding:"required"`
	NCType               string            `json:"nc_type"                binding:"omitempty,max=50"`
	DetectionSource      string            `json:"detection_source"       binding:"omitempty,max=100"`
	MaterialDisposition  string            `json:"material_disposition"   binding:"omitempty,max=100"`
	ContainmentAction    string            `json:"containment_action"`
	RootCauseAnalysis    string            `json:"root_cause_analysis"`
	CorrectiveActionPlan string            `json:"corrective_action_plan"`
	PlannedClosureDate   string            `json:"planned_closure_date"   binding:"omitempty,max=10"` // DD/MM/YYYY, must be in the future
	Photos               []PhotoDescriptor `json:"photos"                 binding:"omitempty,dive"`
	Latitude             *float64          `json:"latitude"               binding:"omitempty,min=-90,max=90"`
	Longitude            *float64          `json:"longitude"              binding:"omitempty,min=-180,max=180"`
	SiteAddress          string            `json:"site_address"           binding:"omitempty,max=300"`
}

// UpdateNCRequest patches whitelisted fields. Only non-nil fields apply.
type UpdateNCRequest struct {
	Priority             *string  `json:"priority"               binding:"omitempty,oneof=critical major minor low"`
	Project              *string  `json:"project"                binding:"omitempty,max=100"`
	ProjectCode          *string  `json:"project_code"           binding:"omitempty,max=50"`
	Supplier             *string  `json:"supplier"               binding:"omitempty,max=100"`
	ComponentCode        *string  `json:"component_code"         binding:"omitempty,max=50"`
	Component            *string  `json:"component"              binding:"omitempty,max=200"`
	Quantity             *FlexInt `json:"quantity"`
	Description          *string  `json:"description"`
	NCType               *string  `json:"nc_type"                binding:"omitempty,max=50"`
	DetectionSource      *string  `json:"detection_source"       binding:"omitempty,max=100"`
	MaterialDisposition  *string  `json:"material_disposition"   binding:"omitempty,max=100"`
	ContainmentAction    *string  `json:"containment_action"`
	RootCauseAnalysis    *string  `json:"root_cause_analysis"`
	CorrectiveActionPlan *string  `json:"corrective_action_plan"`
	PlannedClosureDate   *string  `json:"planned_closure_date"   binding:"omitempty,max=10"`
}

// UpdateStatusRequest advances (or rewinds) the lifecycle status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open progress resolved closed"`
	Note   string `json:"note"   binding:"omitempty,max=500"`
}

// BulkStatusRequest applies one status to several records. Each update
// is independent; partial failure leaves the successes in place.
type BulkStatusRequest struct {
	IDs    []string `json:"ids"    binding:"required,min=1,dive,uuid"`
	Status string   `json:"status" binding:"required,oneof=open progress resolved closed"`
	Note   string   `json:"note"   binding:"omitempty,max=500"`
}

// AddTimelineEntryRequest appends a lifecycle note.
type AddTimelineEntryRequest struct {
	Title       string `json:"title"       binding:"required,max=200"`
	Description string `json:"description" binding:"omitempty,max=2000"`
	EntryType   string `json:"entry_type"  binding:"omitempty,max=30"`
}

// NCListRequest filters the register. Equality filters run in SQL; the
// search term and date range are applied in the service after fetch.
type NCListRequest struct {
	PaginationRequest
	Status          string `form:"status"           binding:"omitempty,oneof=open progress resolved closed"`
	Priority        string `form:"priority"         binding:"omitempty,oneof=critical major minor low"`
	Project         string `form:"project"          binding:"omitempty,max=100"`
	Supplier        string `form:"supplier"         binding:"omitempty,max=100"`
	DetectionSource string `form:"detection_source" binding:"omitempty,max=100"`
	Search          string `form:"search"           binding:"omitempty,max=100"`
	DateFrom        string `form:"date_from"        binding:"omitempty,max=10"` // DD/MM/YYYY
	DateTo          string `form:"date_to"          binding:"omitempty,max=10"`
}

// MailtoRequest asks for a mailto link for one record.
type MailtoRequest struct {
	Address string `form:"address" binding:"required,email"`
}

// ── NC responses ──

// TimelineEntryResponse is one lifecycle note, dates display-formatted.
type TimelineEntryResponse struct {
	EntryID     string `json:"entry_id"`
	Date        string `json:"date"` // DD/MM/YYYY
	Time        string `json:"time"` // HH:MM
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EntryType   string `json:"entry_type"`
}

// AttachmentResponse is one stored attachment reference.
type AttachmentResponse struct {
	AttachmentID     string   `json:"attachment_id"`
	Name             string   `json:"name"`
	URL              string   `json:"url"`
	ContentType      string   `json:"content_type,omitempty"`
	SizeBytes        int64    `json:"size_bytes"`
	CompressionRatio *float64 `json:"compression_ratio,omitempty"`
}

// NCResponse is the full record view. Timeline is newest-first.
type NCResponse struct {
	NCID                 string                  `json:"nc_id"`
	Number               string                  `json:"number"`
	Status               string                  `json:"status"`
	Priority             string                  `json:"priority"`
	Project              string                  `json:"project"`
	ProjectCode          string                  `json:"project_code,omitempty"`
	Supplier             string                  `json:"supplier,omitempty"`
	ComponentCode        string                  `json:"component_code,omitempty"`
	Component            string                  `json:"component,omitempty"`
	Quantity             int                     `json:"quantity"`
	Description          string                  `json:"description"`
	NCType               string                  `json:"nc_type,omitempty"`
	DetectionSource      string                  `json:"detection_source,omitempty"`
	MaterialDisposition  string                  `json:"material_disposition,omitempty"`
	ContainmentAction    string                  `json:"containment_action,omitempty"`
	RootCauseAnalysis    string                  `json:"root_cause_analysis,omitempty"`
	CorrectiveActionPlan string                  `json:"corrective_action_plan,omitempty"`
	CreatedDate          string                  `json:"created_date"` // DD/MM/YYYY
	PlannedClosureDate   string                  `json:"planned_closure_date,omitempty"`
	ActualClosureDate    string                  `json:"actual_closure_date,omitempty"`
	DaysOpen             int                     `json:"days_open"`
	PhotosCount          int                     `json:"photos_count"`
	HasPhotos            bool                    `json:"has_photos"`
	Latitude             *float64                `json:"latitude,omitempty"`
	Longitude            *float64                `json:"longitude,omitempty"`
	SiteAddress          string                  `json:"site_address,omitempty"`
	Timeline             []TimelineEntryResponse `json:"timeline,omitempty"`
	Attachments          []AttachmentResponse    `json:"attachments,omitempty"`
}

// BulkStatusResponse reports per-record outcomes of a bulk update.
type BulkStatusResponse struct {
	Updated []string          `json:"updated"`
	Failed  map[string]string `json:"failed,omitempty"` // id → reason
}

// MailtoResponse carries the composed mailto URL.
type MailtoResponse struct {
	MailtoURL string `json:"mailto_url"`
}
