package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/dto"
	"github.com/noah-isme/admission-admin/internal/form"
	"github.com/noah-isme/admission-admin/internal/listctrl"
	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type routeFunc func(req apiclient.Request) (interface{}, error)

// fakeAPI stands in for the admission API behind apiclient.Client.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]routeFunc
	calls  []apiclient.Request
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{routes: map[string]routeFunc{}}
}

func (f *fakeAPI) on(method, path string, fn routeFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fn
}

func (f *fakeAPI) Do(_ context.Context, req apiclient.Request, out interface{}) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	fn := f.routes[req.Method+" "+req.Path]
	f.mu.Unlock()
	if fn == nil {
		return appErrors.FromStatus(404, "")
	}
	body, err := fn(req)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (f *fakeAPI) count(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeAPI) last(method, path string) apiclient.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Method == method && f.calls[i].Path == path {
			return f.calls[i]
		}
	}
	return apiclient.Request{}
}

func page[T any](items []T, total int) *models.ListResponse[T] {
	return &models.ListResponse[T]{Data: items, Meta: models.PageMeta{Total: total, Limit: 10}}
}

func testDeps(api *fakeAPI) PageDeps {
	return PageDeps{Client: api, PageSize: 10, DefaultYear: 2025}
}

func TestDeleteDepartmentWithProgramsIsRefused(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/departments", func(apiclient.Request) (interface{}, error) {
		return page([]models.Department{{ID: "d1", Code: "IT", Name: "Information Technology"}}, 1), nil
	})
	api.on("GET", "/programs", func(req apiclient.Request) (interface{}, error) {
		if req.Query.Get("department_code") == "IT" {
			return page([]models.Program{{ID: "p1"}}, 3), nil
		}
		return page([]models.Program{}, 0), nil
	})
	api.on("DELETE", "/departments/d1", func(apiclient.Request) (interface{}, error) {
		return models.MessageResponse{Message: "deleted"}, nil
	})

	p := NewDepartmentsPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))

	err := p.Delete(ctx, "d1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeConflict))
	assert.Contains(t, appErrors.Message(err), "3 programs")
	assert.Equal(t, 0, api.count("DELETE", "/departments/d1"))

	countReq := api.last("GET", "/programs")
	assert.Equal(t, "1", countReq.Query.Get("limit"))
	assert.Equal(t, "0", countReq.Query.Get("offset"))

	view := p.List().View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Total)
}

func TestDeleteRewritesConstraintViolation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/programs", func(apiclient.Request) (interface{}, error) {
		return page([]models.Program{{ID: "p1", Code: "CS"}}, 1), nil
	})
	api.on("DELETE", "/programs/p1", func(apiclient.Request) (interface{}, error) {
		return nil, appErrors.FromStatus(500, `update or delete on table "programs" violates foreign key constraint`)
	})

	p := NewProgramsPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))
	err := p.Delete(ctx, "p1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeConflict))
	assert.Equal(t, `program "CS" still has tuition records; delete them first`, appErrors.Message(err))
}

func TestDeleteConflictFromServerNamesDependents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/programs":
			_, _ = w.Write([]byte(`{"data":[{"id":"p1","code":"CS","name":"Computer Science"}],"meta":{"total":1,"limit":10}}`))
		case r.Method == http.MethodDelete && r.URL.Path == "/programs/p1":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":{"message":"update or delete on table \"programs\" violates foreign key constraint"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	client := apiclient.New(srv.URL, time.Second)
	p := NewProgramsPage(PageDeps{Client: client, PageSize: 10, DefaultYear: 2025})
	require.NoError(t, p.Initialize(ctx))

	err := p.Delete(ctx, "p1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeConflict))
	assert.Equal(t, `program "CS" still has tuition records; delete them first`, appErrors.Message(err))
	assert.Equal(t, 1, p.List().View().Total)
}

func TestCreateRefetchesServerTotal(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	total := 4
	api.on("GET", "/departments", func(apiclient.Request) (interface{}, error) {
		return page([]models.Department{{ID: "d1", Code: "IT"}}, total), nil
	})
	api.on("POST", "/departments", func(req apiclient.Request) (interface{}, error) {
		payload := req.Body.(dto.DepartmentPayload)
		total = 9
		return models.ItemResponse[models.Department]{Data: models.Department{ID: "d2", Code: payload.Code}}, nil
	})

	p := NewDepartmentsPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))
	_, err := p.OpenCreate()
	require.NoError(t, err)
	_, err = p.PatchDialog(form.ModeCreate, []byte(`{"code":" CS ","name":"Computer Science"}`))
	require.NoError(t, err)

	state, err := p.SubmitDialog(ctx, form.ModeCreate)
	require.NoError(t, err)
	assert.False(t, state.(form.State[form.DepartmentFields]).Open)

	assert.Equal(t, "CS", api.last("POST", "/departments").Body.(dto.DepartmentPayload).Code)
	assert.Equal(t, 2, api.count("GET", "/departments"))
	assert.Equal(t, 9, p.List().View().Total)
}

func TestScholarshipPercentageNeverReachesNetwork(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	p := NewScholarshipsPage(testDeps(api))

	_, err := p.OpenCreate()
	require.NoError(t, err)
	_, err = p.PatchDialog(form.ModeCreate, []byte(`{"code":"HB1","name":"Merit","type":"Academic","percentage":150}`))
	require.NoError(t, err)

	state, err := p.SubmitDialog(ctx, form.ModeCreate)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeClientValidation))
	assert.Equal(t, "must be between 0 and 100", state.(form.State[form.ScholarshipFields]).Errors["percentage"])
	assert.Equal(t, 0, api.count("POST", "/scholarships"))
}

func TestOpenEditUsesLoadedRowOrFetches(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/users", func(apiclient.Request) (interface{}, error) {
		return page([]models.User{{ID: "u1", Username: "alice", Email: "a@example.com", Role: models.RoleAdmin, IsActive: true}}, 2), nil
	})
	api.on("GET", "/users/u2", func(apiclient.Request) (interface{}, error) {
		return models.ItemResponse[models.User]{Data: models.User{ID: "u2", Username: "bob", Role: models.RoleStaff}}, nil
	})

	p := NewUsersPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))

	state, err := p.OpenEdit(ctx, "u1")
	require.NoError(t, err)
	fields := state.(form.State[form.UserFields]).Fields
	assert.Equal(t, "alice", fields.Username)
	assert.Empty(t, fields.Password)
	assert.Equal(t, 0, api.count("GET", "/users/u1"))

	state, err = p.OpenEdit(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, "bob", state.(form.State[form.UserFields]).Fields.Username)
	assert.Equal(t, 1, api.count("GET", "/users/u2"))
}

func TestUserStatusFilterIsEncoded(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/users", func(apiclient.Request) (interface{}, error) {
		return page([]models.User{}, 0), nil
	})

	p := NewUsersPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))
	assert.Empty(t, api.last("GET", "/users").Query.Get("is_active"))

	require.NoError(t, p.SetFilter(ctx, FilterStatus, "inactive"))
	assert.Equal(t, "false", api.last("GET", "/users").Query.Get("is_active"))

	require.NoError(t, p.SetFilter(ctx, FilterRole, "admin"))
	q := api.last("GET", "/users").Query
	assert.Equal(t, "admin", q.Get("role"))
	assert.Equal(t, "0", q.Get("offset"))
}

func TestScholarshipsHideInactiveRowsButKeepTotal(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/scholarships", func(req apiclient.Request) (interface{}, error) {
		assert.Equal(t, "2025", req.Query.Get("year"))
		assert.Empty(t, req.Query.Get("type"))
		return page([]models.Scholarship{
			{ID: "s1", Name: "Học bổng Tài năng", Code: "HB1", IsActive: true},
			{ID: "s2", Name: "Old", Code: "HB0", IsActive: false},
		}, 12), nil
	})

	p := NewScholarshipsPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))
	view := p.View().(listctrl.View[models.Scholarship])
	assert.Equal(t, 1, view.Shown)
	assert.Equal(t, 12, view.Total)

	require.NoError(t, p.SetFilter(ctx, FilterSearch, "tai nang"))
	view = p.View().(listctrl.View[models.Scholarship])
	require.Len(t, view.Items, 1)
	assert.Equal(t, "s1", view.Items[0].ID)
}

func TestListsAreServedFromCacheUntilMutation(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/campuses", func(apiclient.Request) (interface{}, error) {
		return page([]models.Campus{{ID: "c1", Code: "HN", Name: "Ha Noi"}}, 1), nil
	})
	api.on("DELETE", "/campuses/c1", func(apiclient.Request) (interface{}, error) {
		return models.MessageResponse{Message: "ok"}, nil
	})
	deps := testDeps(api)
	deps.Cache = NewCacheService(newFakeCacheRepo(), NewMetricsService(), time.Minute, nil, true)

	p := NewCampusesPage(deps)
	require.NoError(t, p.Initialize(ctx))
	require.NoError(t, p.Initialize(ctx))
	assert.Equal(t, 1, api.count("GET", "/campuses"))

	require.NoError(t, p.Refresh(ctx))
	assert.Equal(t, 2, api.count("GET", "/campuses"))

	require.NoError(t, p.Delete(ctx, "c1"))
	assert.Equal(t, 3, api.count("GET", "/campuses"))
}

func TestExportRendersVisibleRows(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	api.on("GET", "/departments", func(apiclient.Request) (interface{}, error) {
		return page([]models.Department{
			{ID: "d1", Code: "IT", Name: "Information Technology"},
			{ID: "d2", Code: "BA", Name: "Business"},
		}, 2), nil
	})

	p := NewDepartmentsPage(testDeps(api))
	require.NoError(t, p.Initialize(ctx))
	require.NoError(t, p.SetFilter(ctx, FilterSearch, "business"))

	file, err := p.Export("csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(file.Filename, "departments-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(file.Body), "\uFEFF"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Code", records[0][0])
	assert.Equal(t, "BA", records[1][0])

	_, err = p.Export("xlsx")
	require.Error(t, err)
}

func TestUnknownDialogMode(t *testing.T) {
	p := NewDepartmentsPage(testDeps(newFakeAPI()))
	_, err := p.DialogState(form.Mode("preview"))
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeValidation))
}

func TestWorkspaceResetReplacesPages(t *testing.T) {
	api := newFakeAPI()
	ws := NewCatalogWorkspace(testDeps(api))
	assert.Len(t, ws.Resources(), 7)

	before, err := ws.Page("departments")
	require.NoError(t, err)
	ws.Reset()
	after, err := ws.Page("departments")
	require.NoError(t, err)

	assert.NotSame(t, before, after)
	assert.True(t, before.(*ResourcePage[models.Department, form.DepartmentFields]).List().Closed())
	assert.ErrorIs(t, before.Initialize(context.Background()), appErrors.ErrPageClosed)

	_, err = ws.Page("invoices")
	assert.True(t, appErrors.HasCode(err, appErrors.CodeNotFound))
}
