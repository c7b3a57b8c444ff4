package dto

// DepartmentPayload is the body of POST/PUT /departments.
type DepartmentPayload struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	NameEn      string `json:"name_en,omitempty"`
	Description string `json:"description,omitempty"`
}

// ProgramPayload is the body of POST/PUT /programs.
type ProgramPayload struct {
	Code          string `json:"code"`
	Name          string `json:"name"`
	NameEn        string `json:"name_en,omitempty"`
	DepartmentID  string `json:"department_id"`
	DurationYears int    `json:"duration_years"`
}

// CampusPayload is the body of POST/PUT /campuses.
type CampusPayload struct {
	Code               string  `json:"code"`
	Name               string  `json:"name"`
	City               string  `json:"city"`
	Address            string  `json:"address,omitempty"`
	Phone              string  `json:"phone,omitempty"`
	Email              string  `json:"email,omitempty"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

// TuitionFeePayload is the body of POST/PUT /tuition.
type TuitionFeePayload struct {
	ProgramID          string  `json:"program_id"`
	CampusID           string  `json:"campus_id"`
	Year               int     `json:"year"`
	SemesterGroup13Fee float64 `json:"semester_group_1_3_fee"`
	SemesterGroup46Fee float64 `json:"semester_group_4_6_fee"`
	SemesterGroup79Fee float64 `json:"semester_group_7_9_fee"`
}
