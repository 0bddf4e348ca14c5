package dto

// ── component catalog DTOs (spreadsheet-backed, read-only) ──

// CatalogCode is one component code within a family.
type CatalogCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// CatalogDimension is one nominal dimension with its tolerances.
type CatalogDimension struct {
	Code           string  `json:"code"`
	Nominal        float64 `json:"nominal"`
	TolerancePlus  float64 `json:"tolerance_plus"`
	ToleranceMinus float64 `json:"tolerance_minus"`
}

// DrawingResponse is a drawing lookup result. A miss is descriptive and
// non-fatal; the rest of the form is unaffected.
type DrawingResponse struct {
	Found        bool   `json:"found"`
	Src          string `json:"src,omitempty"`
	ImageCode    string `json:"image_code,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}
