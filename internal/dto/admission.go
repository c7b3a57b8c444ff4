package dto

// ScholarshipPayload is the body of POST/PUT /scholarships. A nil percentage means the
// scholarship is not percentage based.
type ScholarshipPayload struct {
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Type         string   `json:"type"`
	Recipients   int      `json:"recipients"`
	Percentage   *float64 `json:"percentage"`
	Requirements string   `json:"requirements,omitempty"`
	Year         int      `json:"year"`
	Notes        string   `json:"notes,omitempty"`
	IsActive     bool     `json:"is_active"`
}

// AdmissionMethodPayload is the body of POST/PUT /admission-methods.
type AdmissionMethodPayload struct {
	MethodCode   string `json:"method_code"`
	Name         string `json:"name"`
	Requirements string `json:"requirements,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Year         int    `json:"year"`
	IsActive     bool   `json:"is_active"`
}

// UserPayload is the body of POST/PUT /users. Password is omitted on edit unless a new one
// was entered.
type UserPayload struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password *string `json:"password,omitempty"`
	Role     string  `json:"role"`
	IsActive bool    `json:"is_active"`
}
