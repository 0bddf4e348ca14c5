package dto

// ── dashboard / analytics DTOs ──

// TrendBucket is one month of creation/closure activity.
type TrendBucket struct {
	Month  string `json:"month"` // YYYY-MM
	Opened int    `json:"opened"`
	Closed int    `json:"closed"`
}

// MetricsResponse is the derived dashboard aggregate. Never stored;
// recomputed on every request.
type MetricsResponse struct {
	Total                 int            `json:"total"`
	ByStatus              map[string]int `json:"by_status"`
	ByPriority            map[string]int `json:"by_priority"`
	ResolutionRate        float64        `json:"resolution_rate"`         // resolved+closed / total
	AverageResolutionDays float64        `json:"average_resolution_days"` // mean days_open over resolved/closed
	Trend                 []TrendBucket  `json:"trend"`
}
