package form

import (
	"strings"

	"github.com/noah-isme/admission-admin/internal/dto"
	"github.com/noah-isme/admission-admin/internal/models"
)

const yearRangeMessage = "must be between 2020 and 2030"

// DepartmentFields is the department form.
type DepartmentFields struct {
	Code        string `json:"code" validate:"notblank,max=20"`
	Name        string `json:"name" validate:"notblank,max=255"`
	NameEn      string `json:"name_en" validate:"max=255"`
	Description string `json:"description"`
}

// DepartmentSchema builds the department form schema.
func DepartmentSchema() Schema[DepartmentFields, models.Department] {
	return Schema[DepartmentFields, models.Department]{
		Resource: "departments",
		Defaults: func() DepartmentFields { return DepartmentFields{} },
		FromEntity: func(d models.Department) DepartmentFields {
			return DepartmentFields{Code: d.Code, Name: d.Name, NameEn: d.NameEn, Description: d.Description}
		},
		EntityID: func(d models.Department) string { return d.ID },
		Payload: func(f DepartmentFields, _ Mode) interface{} {
			return dto.DepartmentPayload{
				Code:        strings.TrimSpace(f.Code),
				Name:        strings.TrimSpace(f.Name),
				NameEn:      strings.TrimSpace(f.NameEn),
				Description: strings.TrimSpace(f.Description),
			}
		},
	}
}

// ProgramFields is the program form.
type ProgramFields struct {
	Code          string `json:"code" validate:"notblank,max=20"`
	Name          string `json:"name" validate:"notblank,max=255"`
	NameEn        string `json:"name_en" validate:"max=255"`
	DepartmentID  string `json:"department_id" validate:"notblank"`
	DurationYears int    `json:"duration_years" validate:"gte=1,lte=10"`
}

// ProgramSchema builds the program form schema.
func ProgramSchema() Schema[ProgramFields, models.Program] {
	return Schema[ProgramFields, models.Program]{
		Resource: "programs",
		Defaults: func() ProgramFields { return ProgramFields{DurationYears: 4} },
		FromEntity: func(p models.Program) ProgramFields {
			departmentID := p.DepartmentID
			if departmentID == "" {
				departmentID = p.Department.ID
			}
			return ProgramFields{Code: p.Code, Name: p.Name, NameEn: p.NameEn, DepartmentID: departmentID, DurationYears: p.DurationYears}
		},
		EntityID: func(p models.Program) string { return p.ID },
		Payload: func(f ProgramFields, _ Mode) interface{} {
			return dto.ProgramPayload{
				Code:          strings.TrimSpace(f.Code),
				Name:          strings.TrimSpace(f.Name),
				NameEn:        strings.TrimSpace(f.NameEn),
				DepartmentID:  f.DepartmentID,
				DurationYears: f.DurationYears,
			}
		},
		Messages: map[string]string{
			"department_id.notblank": "please select a department",
			"duration_years.gte":     "must be between 1 and 10 years",
			"duration_years.lte":     "must be between 1 and 10 years",
		},
	}
}

// CampusFields is the campus form.
type CampusFields struct {
	Code               string  `json:"code" validate:"notblank,max=20"`
	Name               string  `json:"name" validate:"notblank,max=255"`
	City               string  `json:"city" validate:"notblank,max=100"`
	Address            string  `json:"address"`
	Phone              string  `json:"phone"`
	Email              string  `json:"email" validate:"omitempty,email"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
}

// CampusSchema builds the campus form schema.
func CampusSchema() Schema[CampusFields, models.Campus] {
	return Schema[CampusFields, models.Campus]{
		Resource: "campuses",
		Defaults: func() CampusFields { return CampusFields{} },
		FromEntity: func(c models.Campus) CampusFields {
			return CampusFields{
				Code: c.Code, Name: c.Name, City: c.City, Address: c.Address,
				Phone: c.Phone, Email: c.Email, DiscountPercentage: c.DiscountPercentage,
			}
		},
		EntityID: func(c models.Campus) string { return c.ID },
		Payload: func(f CampusFields, _ Mode) interface{} {
			return dto.CampusPayload{
				Code:               strings.TrimSpace(f.Code),
				Name:               strings.TrimSpace(f.Name),
				City:               strings.TrimSpace(f.City),
				Address:            strings.TrimSpace(f.Address),
				Phone:              strings.TrimSpace(f.Phone),
				Email:              strings.TrimSpace(f.Email),
				DiscountPercentage: f.DiscountPercentage,
			}
		},
		Messages: map[string]string{
			"discount_percentage.gte": "must be between 0 and 100",
			"discount_percentage.lte": "must be between 0 and 100",
		},
	}
}

// TuitionFields is the tuition fee form.
type TuitionFields struct {
	ProgramID          string  `json:"program_id" validate:"notblank"`
	CampusID           string  `json:"campus_id" validate:"notblank"`
	Year               int     `json:"year" validate:"gte=2020,lte=2030"`
	SemesterGroup13Fee float64 `json:"semester_group_1_3_fee" validate:"gte=0"`
	SemesterGroup46Fee float64 `json:"semester_group_4_6_fee" validate:"gte=0"`
	SemesterGroup79Fee float64 `json:"semester_group_7_9_fee" validate:"gte=0"`
}

// TuitionSchema builds the tuition form schema.
func TuitionSchema(defaultYear int) Schema[TuitionFields, models.TuitionFee] {
	return Schema[TuitionFields, models.TuitionFee]{
		Resource: "tuition",
		Defaults: func() TuitionFields { return TuitionFields{Year: defaultYear} },
		FromEntity: func(t models.TuitionFee) TuitionFields {
			return TuitionFields{
				ProgramID:          t.ProgramID,
				CampusID:           t.CampusID,
				Year:               t.Year,
				SemesterGroup13Fee: t.SemesterGroup13Fee,
				SemesterGroup46Fee: t.SemesterGroup46Fee,
				SemesterGroup79Fee: t.SemesterGroup79Fee,
			}
		},
		EntityID: func(t models.TuitionFee) string { return t.ID },
		Payload: func(f TuitionFields, _ Mode) interface{} {
			return dto.TuitionFeePayload(f)
		},
		Messages: map[string]string{
			"program_id.notblank":        "please select a program",
			"campus_id.notblank":         "please select a campus",
			"year.gte":                   yearRangeMessage,
			"year.lte":                   yearRangeMessage,
			"semester_group_1_3_fee.gte": "must not be negative",
			"semester_group_4_6_fee.gte": "must not be negative",
			"semester_group_7_9_fee.gte": "must not be negative",
		},
	}
}

// ScholarshipFields is the scholarship form. A nil percentage means not percentage based.
type ScholarshipFields struct {
	Code         string   `json:"code" validate:"notblank,max=50"`
	Name         string   `json:"name" validate:"notblank,max=255"`
	Type         string   `json:"type" validate:"notblank,max=50"`
	Recipients   int      `json:"recipients" validate:"gt=0"`
	Percentage   *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
	Requirements string   `json:"requirements"`
	Year         int      `json:"year" validate:"gte=2020,lte=2030"`
	Notes        string   `json:"notes"`
	IsActive     bool     `json:"is_active"`
}

// ScholarshipSchema builds the scholarship form schema.
func ScholarshipSchema(defaultYear int) Schema[ScholarshipFields, models.Scholarship] {
	return Schema[ScholarshipFields, models.Scholarship]{
		Resource: "scholarships",
		Defaults: func() ScholarshipFields {
			return ScholarshipFields{Recipients: 1, Year: defaultYear, IsActive: true}
		},
		FromEntity: func(s models.Scholarship) ScholarshipFields {
			var pct *float64
			if s.Percentage != nil {
				v := *s.Percentage
				pct = &v
			}
			return ScholarshipFields{
				Code: s.Code, Name: s.Name, Type: s.Type, Recipients: s.Recipients, Percentage: pct,
				Requirements: s.Requirements, Year: s.Year, Notes: s.Notes, IsActive: s.IsActive,
			}
		},
		EntityID: func(s models.Scholarship) string { return s.ID },
		Payload: func(f ScholarshipFields, _ Mode) interface{} {
			return dto.ScholarshipPayload{
				Code:         strings.TrimSpace(f.Code),
				Name:         strings.TrimSpace(f.Name),
				Type:         strings.TrimSpace(f.Type),
				Recipients:   f.Recipients,
				Percentage:   f.Percentage,
				Requirements: strings.TrimSpace(f.Requirements),
				Year:         f.Year,
				Notes:        strings.TrimSpace(f.Notes),
				IsActive:     f.IsActive,
			}
		},
		Messages: map[string]string{
			"recipients.gt":  "must be greater than 0",
			"percentage.gte": "must be between 0 and 100",
			"percentage.lte": "must be between 0 and 100",
			"year.gte":       yearRangeMessage,
			"year.lte":       yearRangeMessage,
		},
	}
}

// AdmissionMethodFields is the admission method form.
type AdmissionMethodFields struct {
	MethodCode   string `json:"method_code" validate:"notblank,max=10"`
	Name         string `json:"name" validate:"notblank,max=255"`
	Requirements string `json:"requirements"`
	Notes        string `json:"notes"`
	Year         int    `json:"year" validate:"gte=2020,lte=2030"`
	IsActive     bool   `json:"is_active"`
}

// AdmissionMethodSchema builds the admission method form schema.
func AdmissionMethodSchema(defaultYear int) Schema[AdmissionMethodFields, models.AdmissionMethod] {
	return Schema[AdmissionMethodFields, models.AdmissionMethod]{
		Resource: "admission-methods",
		Defaults: func() AdmissionMethodFields {
			return AdmissionMethodFields{Year: defaultYear, IsActive: true}
		},
		FromEntity: func(m models.AdmissionMethod) AdmissionMethodFields {
			return AdmissionMethodFields{
				MethodCode: m.MethodCode, Name: m.Name, Requirements: m.Requirements,
				Notes: m.Notes, Year: m.Year, IsActive: m.IsActive,
			}
		},
		EntityID: func(m models.AdmissionMethod) string { return m.ID },
		Payload: func(f AdmissionMethodFields, _ Mode) interface{} {
			return dto.AdmissionMethodPayload{
				MethodCode:   strings.TrimSpace(f.MethodCode),
				Name:         strings.TrimSpace(f.Name),
				Requirements: strings.TrimSpace(f.Requirements),
				Notes:        strings.TrimSpace(f.Notes),
				Year:         f.Year,
				IsActive:     f.IsActive,
			}
		},
		Messages: map[string]string{
			"year.gte": yearRangeMessage,
			"year.lte": yearRangeMessage,
		},
	}
}

// UserFields is the user form. Password is never prefilled.
type UserFields struct {
	Username string `json:"username" validate:"notblank,min=3,max=50"`
	Email    string `json:"email" validate:"notblank,email"`
	Password string `json:"password" validate:"omitempty,min=8"`
	Role     string `json:"role" validate:"oneof=student admin staff super_admin"`
	IsActive bool   `json:"is_active"`
}

// UserSchema builds the user form schema. A password is mandatory on create; on edit an empty
// password means "leave unchanged" and is left out of the payload.
func UserSchema() Schema[UserFields, models.User] {
	return Schema[UserFields, models.User]{
		Resource: "users",
		Defaults: func() UserFields {
			return UserFields{Role: string(models.RoleStaff), IsActive: true}
		},
		FromEntity: func(u models.User) UserFields {
			return UserFields{Username: u.Username, Email: u.Email, Role: string(u.Role), IsActive: u.IsActive}
		},
		EntityID: func(u models.User) string { return u.ID },
		Check: func(f UserFields, mode Mode) map[string]string {
			if mode == ModeCreate && f.Password == "" {
				return map[string]string{"password": "is required"}
			}
			return nil
		},
		Payload: func(f UserFields, _ Mode) interface{} {
			payload := dto.UserPayload{
				Username: strings.TrimSpace(f.Username),
				Email:    strings.TrimSpace(f.Email),
				Role:     f.Role,
				IsActive: f.IsActive,
			}
			if f.Password != "" {
				pw := f.Password
				payload.Password = &pw
			}
			return payload
		},
	}
}
