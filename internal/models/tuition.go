package models

// TuitionFee is a per-program, per-campus, per-year fee record with server-computed aggregates.
type TuitionFee struct {
	ID                 string   `json:"id"`
	Year               int      `json:"year"`
	ProgramID          string   `json:"program_id"`
	ProgramCode        string   `json:"program_code"`
	ProgramName        string   `json:"program_name"`
	ProgramNameEn      string   `json:"program_name_en"`
	DepartmentID       string   `json:"department_id"`
	DepartmentCode     string   `json:"department_code"`
	DepartmentName     string   `json:"department_name"`
	DepartmentNameEn   string   `json:"department_name_en"`
	CampusID           string   `json:"campus_id"`
	CampusCode         string   `json:"campus_code"`
	CampusName         string   `json:"campus_name"`
	CampusCity         string   `json:"campus_city"`
	CampusDiscount     *float64 `json:"campus_discount"`
	SemesterGroup13Fee float64  `json:"semester_group_1_3_fee"`
	SemesterGroup46Fee float64  `json:"semester_group_4_6_fee"`
	SemesterGroup79Fee float64  `json:"semester_group_7_9_fee"`
	TotalProgramFee    float64  `json:"total_program_fee"`
	MinSemesterFee     float64  `json:"min_semester_fee"`
	MaxSemesterFee     float64  `json:"max_semester_fee"`
	IsActive           *bool    `json:"is_active,omitempty"`
}

// CampusFee is one campus row inside a tuition comparison.
type CampusFee struct {
	CampusCode         string   `json:"campus_code"`
	CampusName         string   `json:"campus_name"`
	City               string   `json:"city"`
	DiscountPercentage *float64 `json:"discount_percentage"`
	Semester13Fee      float64  `json:"semester_1_3_fee"`
	Semester46Fee      float64  `json:"semester_4_6_fee"`
	Semester79Fee      float64  `json:"semester_7_9_fee"`
	TotalProgramFee    float64  `json:"total_program_fee"`
}

// TuitionComparison compares one program's fees across campuses for a year. The min/max bounds
// are computed by the server over exactly the rows it aggregated.
type TuitionComparison struct {
	ProgramCode    string      `json:"program_code"`
	ProgramName    string      `json:"program_name"`
	DepartmentName string      `json:"department_name"`
	Year           int         `json:"year"`
	CampusFees     []CampusFee `json:"campus_fees"`
	MinSemesterFee float64     `json:"min_semester_fee"`
	MaxSemesterFee float64     `json:"max_semester_fee"`
	MinTotalFee    float64     `json:"min_total_fee"`
	MaxTotalFee    float64     `json:"max_total_fee"`
}

// ComparisonResponse is the `{data}` envelope of the comparison endpoint.
type ComparisonResponse struct {
	Data []TuitionComparison `json:"data"`
}

// ComparisonView pairs a comparison with display strings. The amounts are shown exactly as the
// server computed them.
type ComparisonView struct {
	TuitionComparison
	Display ComparisonDisplay `json:"display"`
}

// ComparisonDisplay holds formatted VND amounts.
type ComparisonDisplay struct {
	MinSemesterFee string             `json:"min_semester_fee"`
	MaxSemesterFee string             `json:"max_semester_fee"`
	MinTotalFee    string             `json:"min_total_fee"`
	MaxTotalFee    string             `json:"max_total_fee"`
	Campuses       []CampusFeeDisplay `json:"campuses"`
}

// CampusFeeDisplay holds formatted VND amounts for one campus row.
type CampusFeeDisplay struct {
	CampusCode      string `json:"campus_code"`
	Semester13Fee   string `json:"semester_1_3_fee"`
	Semester46Fee   string `json:"semester_4_6_fee"`
	Semester79Fee   string `json:"semester_7_9_fee"`
	TotalProgramFee string `json:"total_program_fee"`
}

// TuitionReference is the option data behind the tuition filters and form selects.
type TuitionReference struct {
	Programs    []Program `json:"programs"`
	Campuses    []Campus  `json:"campuses"`
	Years       []int     `json:"years"`
	DefaultYear int       `json:"default_year"`
}
