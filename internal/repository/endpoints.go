package repository

import "net/http"

// Resource names double as metric labels and cache key segments.
const (
	ResourceDepartments      = "departments"
	ResourcePrograms         = "programs"
	ResourceCampuses         = "campuses"
	ResourceTuition          = "tuition"
	ResourceScholarships     = "scholarships"
	ResourceAdmissionMethods = "admission-methods"
	ResourceUsers            = "users"
	ResourceAuth             = "auth"
	ResourceKnowledge        = "knowledge"
)

func messages(forbidden, notFound, conflict string) map[int]string {
	return map[int]string{
		http.StatusForbidden: forbidden,
		http.StatusNotFound:  notFound,
		http.StatusConflict:  conflict,
	}
}

var (
	DepartmentsEndpoint = Endpoint{
		Resource: ResourceDepartments,
		Path:     "/departments",
		Messages: messages(
			"you do not have permission to manage departments",
			"department not found",
			"a department with this code already exists",
		),
	}
	ProgramsEndpoint = Endpoint{
		Resource: ResourcePrograms,
		Path:     "/programs",
		Messages: messages(
			"you do not have permission to manage programs",
			"program not found",
			"a program with this code already exists",
		),
	}
	CampusesEndpoint = Endpoint{
		Resource: ResourceCampuses,
		Path:     "/campuses",
		Messages: messages(
			"you do not have permission to manage campuses",
			"campus not found",
			"a campus with this code already exists",
		),
	}
	TuitionEndpoint = Endpoint{
		Resource: ResourceTuition,
		Path:     "/tuition",
		Messages: messages(
			"you do not have permission to manage tuition fees",
			"tuition record not found",
			"a tuition record for this program, campus and year already exists",
		),
	}
	ScholarshipsEndpoint = Endpoint{
		Resource: ResourceScholarships,
		Path:     "/scholarships",
		Messages: messages(
			"you do not have permission to manage scholarships",
			"scholarship not found",
			"a scholarship with this code already exists for this year",
		),
	}
	AdmissionMethodsEndpoint = Endpoint{
		Resource: ResourceAdmissionMethods,
		Path:     "/admission-methods",
		Messages: messages(
			"you do not have permission to manage admission methods",
			"admission method not found",
			"an admission method with this code already exists for the selected year",
		),
	}
	UsersEndpoint = Endpoint{
		Resource: ResourceUsers,
		Path:     "/users",
		Messages: messages(
			"you do not have permission to manage users",
			"user not found",
			"username or email already exists",
		),
	}
)
