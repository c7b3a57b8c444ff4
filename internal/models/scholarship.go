package models

import "time"

// Scholarship is a yearly scholarship programme.
type Scholarship struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Recipients   int        `json:"recipients"`
	Percentage   *float64   `json:"percentage"`
	Requirements string     `json:"requirements"`
	Year         int        `json:"year"`
	Notes        string     `json:"notes"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// AdmissionMethod is a yearly admission route (e.g. transcript review, entrance exam).
type AdmissionMethod struct {
	ID           string `json:"id"`
	MethodCode   string `json:"method_code"`
	Name         string `json:"name"`
	Requirements string `json:"requirements"`
	Notes        string `json:"notes"`
	Year         int    `json:"year"`
	IsActive     bool   `json:"is_active"`
}
