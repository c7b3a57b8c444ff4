package models

import "time"

// DashboardStats are the headline counts shown on the console home page.
type DashboardStats struct {
	Departments      int       `json:"departments"`
	Programs         int       `json:"programs"`
	Campuses         int       `json:"campuses"`
	Scholarships     int       `json:"scholarships"`
	AdmissionMethods int       `json:"admission_methods"`
	Users            int       `json:"users"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// ConsoleMetrics is a point-in-time summary of the console's own instrumentation.
type ConsoleMetrics struct {
	CacheHitRatio             float64   `json:"cache_hit_ratio"`
	CacheHits                 uint64    `json:"cache_hits"`
	CacheMisses               uint64    `json:"cache_misses"`
	RequestsTotal             uint64    `json:"requests_total"`
	AverageRequestDurationMs  float64   `json:"average_request_duration_ms"`
	UpstreamRequestsTotal     uint64    `json:"upstream_requests_total"`
	UpstreamFailures          uint64    `json:"upstream_failures"`
	AverageUpstreamDurationMs float64   `json:"average_upstream_duration_ms"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generated_at"`
}
