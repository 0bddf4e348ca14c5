package dto

// ── inspection DTOs ──

// CreateInspectionRequest records a new inspection report header.
type CreateInspectionRequest struct {
	Project         string   `json:"project"          binding:"required,max=100"`
	ComponentFamily string   `json:"component_family" binding:"omitempty,max=100"`
	ComponentCode   string   `json:"component_code"   binding:"required,max=50"`
	BatchQuantity   FlexInt  `json:"batch_quantity"`
	SampleSize      FlexInt  `json:"sample_size"`
	Inspector       string   `json:"inspector"        binding:"required,max=100"`
	InspectionDate  string   `json:"inspection_date"  binding:"omitempty,max=10"` // DD/MM/YYYY, defaults to today
	MeanCoating     *float64 `json:"mean_coating"     binding:"omitempty,min=0"`
	VisualResult    string   `json:"visual_result"    binding:"omitempty,oneof=pass fail conditional"`
	Notes           string   `json:"notes"            binding:"omitempty,max=2000"`
}

// UpdateInspectionRequest patches an inspection. Only non-nil fields apply.
type UpdateInspectionRequest struct {
	Status       *string  `json:"status"        binding:"omitempty,oneof=pending in-progress completed rejected"`
	SampleSize   *FlexInt `json:"sample_size"`
	MeanCoating  *float64 `json:"mean_coating"  binding:"omitempty,min=0"`
	VisualResult *string  `json:"visual_result" binding:"omitempty,oneof=pass fail conditional"`
	Notes        *string  `json:"notes"         binding:"omitempty,max=2000"`
}

// InspectionListRequest filters the inspection register.
type InspectionListRequest struct {
	PaginationRequest
	Project string `form:"project" binding:"omitempty,max=100"`
	Status  string `form:"status"  binding:"omitempty,oneof=pending in-progress completed rejected"`
}

// InspectionResponse is the report header view.
type InspectionResponse struct {
	InspectionID    string   `json:"inspection_id"`
	ReportNumber    string   `json:"report_number"`
	Project         string   `json:"project"`
	ComponentFamily string   `json:"component_family,omitempty"`
	ComponentCode   string   `json:"component_code"`
	BatchQuantity   int      `json:"batch_quantity"`
	SampleSize      int      `json:"sample_size"`
	Inspector       string   `json:"inspector"`
	InspectionDate  string   `json:"inspection_date"` // DD/MM/YYYY
	Status          string   `json:"status"`
	MeanCoating     *float64 `json:"mean_coating,omitempty"`
	VisualResult    string   `json:"visual_result,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}
