package models

// Department is an academic department (khoa).
type Department struct {
	ID          string `json:"id"`
	Code        string `json:"code"`
	Name        string `json:"name"`
	NameEn      string `json:"name_en"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active,omitempty"`
}

// Program is a degree programme offered by a department.
type Program struct {
	ID            string        `json:"id"`
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	NameEn        string        `json:"name_en"`
	DepartmentID  string        `json:"department_id"`
	DurationYears int           `json:"duration_years"`
	Department    DepartmentRef `json:"department"`
	IsActive      *bool         `json:"is_active,omitempty"`
}

// DepartmentRef is the department summary joined onto a program by the server.
type DepartmentRef struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameEn string `json:"name_en"`
}
