package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/form"
	"github.com/noah-isme/admission-admin/internal/listctrl"
	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/internal/repository"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

// Filter keys forwarded to the admission API.
const (
	FilterSearch         = listctrl.DefaultSearchKey
	FilterDepartmentCode = "department_code"
	FilterProgramCode    = "program_code"
	FilterCampusCode     = "campus_code"
	FilterYear           = "year"
	FilterType           = "type"
	FilterRole           = "role"
	FilterStatus         = "is_active"
)

// PageDeps carries what every resource page is built from.
type PageDeps struct {
	Client      repository.Doer
	Cache       *CacheService
	Logger      *zap.Logger
	PageSize    int
	DefaultYear int
}

var referentialPhrases = []string{"foreign key", "constraint", "referenced"}

// isReferentialRefusal reports whether the server refused a delete because other records point at the row.
func isReferentialRefusal(err error) bool {
	if appErrors.IsSessionExpired(err) {
		return false
	}
	msg := strings.ToLower(appErrors.Message(err))
	for _, phrase := range referentialPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}

// referentialRewrite replaces constraint-violation phrasing with message.
func referentialRewrite[T any](message func(T) string) func(error, T) error {
	return func(err error, entity T) error {
		if !isReferentialRefusal(err) {
			return err
		}
		return appErrors.Wrap(err, appErrors.CodeConflict, appErrors.ErrConflict.Status, message(entity))
	}
}

func yearString(year int) string {
	if year <= 0 {
		return listctrl.AllSentinel
	}
	return strconv.Itoa(year)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func active(v bool) string {
	if v {
		return "active"
	}
	return "inactive"
}

// NewDepartmentsPage builds the departments screen. Deleting a department that still owns programs
// is refused before the request is sent.
func NewDepartmentsPage(deps PageDeps) *ResourcePage[models.Department, form.DepartmentFields] {
	repo := repository.NewResourceRepository[models.Department](deps.Client, repository.DepartmentsEndpoint)
	programs := repository.NewResourceRepository[models.Program](deps.Client, repository.ProgramsEndpoint)
	return NewResourcePage(PageConfig[models.Department, form.DepartmentFields]{
		Resource: repository.ResourceDepartments,
		Title:    "Departments",
		Repo:     repo,
		Schema:   form.DepartmentSchema(),
		List: listctrl.Options[models.Department]{
			PageSize: deps.PageSize,
			Defaults: map[string]string{FilterSearch: ""},
			SearchFields: func(d models.Department) []string {
				return []string{d.Name, d.Code, d.NameEn}
			},
		},
		Columns: []Column[models.Department]{
			{Header: "Code", Value: func(d models.Department) string { return d.Code }},
			{Header: "Name", Value: func(d models.Department) string { return d.Name }},
			{Header: "English name", Value: func(d models.Department) string { return d.NameEn }},
			{Header: "Description", Value: func(d models.Department) string { return d.Description }},
		},
		BeforeDelete: func(ctx context.Context, d models.Department) error {
			return checkDepartmentUnused(ctx, programs, d)
		},
		RewriteDeleteError: referentialRewrite(func(d models.Department) string {
			return fmt.Sprintf("department %q still has programs; reassign or delete them first", d.Code)
		}),
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

type programCounter interface {
	Count(ctx context.Context, filters url.Values) (int, error)
}

func checkDepartmentUnused(ctx context.Context, programs programCounter, d models.Department) error {
	count, err := programs.Count(ctx, url.Values{FilterDepartmentCode: {d.Code}})
	if err != nil {
		return err
	}
	if count > 0 {
		noun := "programs"
		if count == 1 {
			noun = "program"
		}
		return appErrors.Clone(appErrors.ErrConflict,
			fmt.Sprintf("cannot delete department %q: it still has %d %s; reassign or delete them first", d.Code, count, noun))
	}
	return nil
}

// NewProgramsPage builds the programs screen, filterable by department code.
func NewProgramsPage(deps PageDeps) *ResourcePage[models.Program, form.ProgramFields] {
	return NewResourcePage(PageConfig[models.Program, form.ProgramFields]{
		Resource: repository.ResourcePrograms,
		Title:    "Programs",
		Repo:     repository.NewResourceRepository[models.Program](deps.Client, repository.ProgramsEndpoint),
		Schema:   form.ProgramSchema(),
		List: listctrl.Options[models.Program]{
			PageSize:      deps.PageSize,
			Defaults:      map[string]string{FilterSearch: "", FilterDepartmentCode: listctrl.AllSentinel},
			ServerFilters: []string{FilterDepartmentCode},
			SearchFields: func(p models.Program) []string {
				return []string{p.Name, p.Code, p.NameEn, p.Department.Name}
			},
		},
		Columns: []Column[models.Program]{
			{Header: "Code", Value: func(p models.Program) string { return p.Code }},
			{Header: "Name", Value: func(p models.Program) string { return p.Name }},
			{Header: "Department", Value: func(p models.Program) string { return p.Department.Name }},
			{Header: "Duration (years)", Value: func(p models.Program) string { return strconv.Itoa(p.DurationYears) }},
		},
		RewriteDeleteError: referentialRewrite(func(p models.Program) string {
			return fmt.Sprintf("program %q still has tuition records; delete them first", p.Code)
		}),
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

// NewCampusesPage builds the campuses screen.
func NewCampusesPage(deps PageDeps) *ResourcePage[models.Campus, form.CampusFields] {
	return NewResourcePage(PageConfig[models.Campus, form.CampusFields]{
		Resource: repository.ResourceCampuses,
		Title:    "Campuses",
		Repo:     repository.NewResourceRepository[models.Campus](deps.Client, repository.CampusesEndpoint),
		Schema:   form.CampusSchema(),
		List: listctrl.Options[models.Campus]{
			PageSize:      deps.PageSize,
			Defaults:      map[string]string{FilterSearch: "", FilterYear: listctrl.AllSentinel},
			ServerFilters: []string{FilterYear},
			SearchFields: func(c models.Campus) []string {
				return []string{c.Name, c.Code, c.City, c.Address}
			},
		},
		Columns: []Column[models.Campus]{
			{Header: "Code", Value: func(c models.Campus) string { return c.Code }},
			{Header: "Name", Value: func(c models.Campus) string { return c.Name }},
			{Header: "City", Value: func(c models.Campus) string { return c.City }},
			{Header: "Phone", Value: func(c models.Campus) string { return c.Phone }},
			{Header: "Email", Value: func(c models.Campus) string { return c.Email }},
			{Header: "Discount (%)", Value: func(c models.Campus) string {
				return strconv.FormatFloat(c.DiscountPercentage, 'f', -1, 64)
			}},
		},
		RewriteDeleteError: referentialRewrite(func(c models.Campus) string {
			return fmt.Sprintf("campus %q still has tuition records; delete them first", c.Code)
		}),
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

// NewTuitionPage builds the tuition fee screen.
func NewTuitionPage(deps PageDeps) *ResourcePage[models.TuitionFee, form.TuitionFields] {
	return NewResourcePage(PageConfig[models.TuitionFee, form.TuitionFields]{
		Resource: repository.ResourceTuition,
		Title:    "Tuition fees",
		Repo:     repository.NewTuitionRepository(deps.Client),
		Schema:   form.TuitionSchema(deps.DefaultYear),
		List: listctrl.Options[models.TuitionFee]{
			PageSize: deps.PageSize,
			Defaults: map[string]string{
				FilterSearch:      "",
				FilterProgramCode: listctrl.AllSentinel,
				FilterCampusCode:  listctrl.AllSentinel,
				FilterYear:        yearString(deps.DefaultYear),
			},
			ServerFilters: []string{FilterProgramCode, FilterCampusCode, FilterYear},
			SearchFields: func(t models.TuitionFee) []string {
				return []string{t.ProgramName, t.ProgramCode, t.CampusName}
			},
		},
		Columns: []Column[models.TuitionFee]{
			{Header: "Program", Value: func(t models.TuitionFee) string { return t.ProgramCode + " " + t.ProgramName }},
			{Header: "Campus", Value: func(t models.TuitionFee) string { return t.CampusName }},
			{Header: "Year", Value: func(t models.TuitionFee) string { return strconv.Itoa(t.Year) }},
			{Header: "Semesters 1-3", Value: func(t models.TuitionFee) string { return money(t.SemesterGroup13Fee) }},
			{Header: "Semesters 4-6", Value: func(t models.TuitionFee) string { return money(t.SemesterGroup46Fee) }},
			{Header: "Semesters 7-9", Value: func(t models.TuitionFee) string { return money(t.SemesterGroup79Fee) }},
			{Header: "Total", Value: func(t models.TuitionFee) string { return money(t.TotalProgramFee) }},
		},
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

// NewScholarshipsPage builds the scholarships screen. Inactive scholarships are hidden after fetch.
func NewScholarshipsPage(deps PageDeps) *ResourcePage[models.Scholarship, form.ScholarshipFields] {
	return NewResourcePage(PageConfig[models.Scholarship, form.ScholarshipFields]{
		Resource: repository.ResourceScholarships,
		Title:    "Scholarships",
		Repo:     repository.NewResourceRepository[models.Scholarship](deps.Client, repository.ScholarshipsEndpoint),
		Schema:   form.ScholarshipSchema(deps.DefaultYear),
		List: listctrl.Options[models.Scholarship]{
			PageSize: deps.PageSize,
			Defaults: map[string]string{
				FilterSearch: "",
				FilterType:   listctrl.AllSentinel,
				FilterYear:   yearString(deps.DefaultYear),
			},
			ServerFilters: []string{FilterYear, FilterType},
			SearchFields: func(s models.Scholarship) []string {
				return []string{s.Name, s.Code, s.Type}
			},
			ImplicitFilter: func(s models.Scholarship) bool { return s.IsActive },
		},
		Columns: []Column[models.Scholarship]{
			{Header: "Code", Value: func(s models.Scholarship) string { return s.Code }},
			{Header: "Name", Value: func(s models.Scholarship) string { return s.Name }},
			{Header: "Type", Value: func(s models.Scholarship) string { return s.Type }},
			{Header: "Recipients", Value: func(s models.Scholarship) string { return strconv.Itoa(s.Recipients) }},
			{Header: "Percentage", Value: func(s models.Scholarship) string {
				if s.Percentage == nil {
					return ""
				}
				return strconv.FormatFloat(*s.Percentage, 'f', -1, 64)
			}},
			{Header: "Year", Value: func(s models.Scholarship) string { return strconv.Itoa(s.Year) }},
		},
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

// NewAdmissionMethodsPage builds the admission methods screen. Inactive methods are hidden after fetch.
func NewAdmissionMethodsPage(deps PageDeps) *ResourcePage[models.AdmissionMethod, form.AdmissionMethodFields] {
	return NewResourcePage(PageConfig[models.AdmissionMethod, form.AdmissionMethodFields]{
		Resource: repository.ResourceAdmissionMethods,
		Title:    "Admission methods",
		Repo:     repository.NewResourceRepository[models.AdmissionMethod](deps.Client, repository.AdmissionMethodsEndpoint),
		Schema:   form.AdmissionMethodSchema(deps.DefaultYear),
		List: listctrl.Options[models.AdmissionMethod]{
			PageSize:      deps.PageSize,
			Defaults:      map[string]string{FilterSearch: "", FilterYear: yearString(deps.DefaultYear)},
			ServerFilters: []string{FilterYear},
			SearchFields: func(m models.AdmissionMethod) []string {
				return []string{m.Name, m.MethodCode}
			},
			ImplicitFilter: func(m models.AdmissionMethod) bool { return m.IsActive },
		},
		Columns: []Column[models.AdmissionMethod]{
			{Header: "Code", Value: func(m models.AdmissionMethod) string { return m.MethodCode }},
			{Header: "Name", Value: func(m models.AdmissionMethod) string { return m.Name }},
			{Header: "Year", Value: func(m models.AdmissionMethod) string { return strconv.Itoa(m.Year) }},
			{Header: "Requirements", Value: func(m models.AdmissionMethod) string { return m.Requirements }},
		},
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

// NewUsersPage builds the users screen. The status filter takes active/inactive/all.
func NewUsersPage(deps PageDeps) *ResourcePage[models.User, form.UserFields] {
	return NewResourcePage(PageConfig[models.User, form.UserFields]{
		Resource: repository.ResourceUsers,
		Title:    "Users",
		Repo:     repository.NewResourceRepository[models.User](deps.Client, repository.UsersEndpoint),
		Schema:   form.UserSchema(),
		List: listctrl.Options[models.User]{
			PageSize: deps.PageSize,
			Defaults: map[string]string{
				FilterSearch: "",
				FilterRole:   listctrl.AllSentinel,
				FilterStatus: listctrl.AllSentinel,
			},
			ServerFilters: []string{FilterRole, FilterStatus},
			SearchFields: func(u models.User) []string {
				return []string{u.Username, u.Email}
			},
			Encode: encodeUserFilter,
		},
		Columns: []Column[models.User]{
			{Header: "Username", Value: func(u models.User) string { return u.Username }},
			{Header: "Email", Value: func(u models.User) string { return u.Email }},
			{Header: "Role", Value: func(u models.User) string { return string(u.Role) }},
			{Header: "Status", Value: func(u models.User) string { return active(u.IsActive) }},
		},
		Cache:  deps.Cache,
		Logger: deps.Logger,
	})
}

func encodeUserFilter(key, value string) string {
	if key != FilterStatus {
		return value
	}
	switch strings.ToLower(value) {
	case "active", "true":
		return "true"
	case "inactive", "false":
		return "false"
	default:
		return ""
	}
}
