package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-admin/internal/form"
	"github.com/noah-isme/admission-admin/internal/service"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type fakeView struct {
	Shown int `json:"shown"`
	Total int `json:"total"`
}

type fakeDialog struct {
	Open   bool              `json:"open"`
	Fields map[string]string `json:"fields"`
}

type fakePage struct {
	view      fakeView
	err       error
	dialog    *fakeDialog
	dialogErr error
	filterKey string
	filterVal string
	page      int
	deleted   string
	patched   string
	editID    string
}

func (p *fakePage) Resource() string { return "programs" }

func (p *fakePage) Initialize(context.Context) error { return p.err }

func (p *fakePage) View() interface{} { return p.view }

func (p *fakePage) Refresh(context.Context) error { return p.err }

func (p *fakePage) OpenCreate() (interface{}, error) { return p.dialog, p.dialogErr }

func (p *fakePage) CloseDialog(form.Mode) (interface{}, error) { return p.dialog, p.dialogErr }

func (p *fakePage) DialogState(mode form.Mode) (interface{}, error) {
	if mode != form.ModeCreate && mode != form.ModeEdit {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown dialog "+string(mode))
	}
	return p.dialog, p.dialogErr
}

func (p *fakePage) Close() {}

func (p *fakePage) SetFilter(_ context.Context, key, value string) error {
	p.filterKey, p.filterVal = key, value
	return p.err
}

func (p *fakePage) GoToPage(_ context.Context, n int) error {
	p.page = n
	return p.err
}

func (p *fakePage) OpenEdit(_ context.Context, id string) (interface{}, error) {
	p.editID = id
	return p.dialog, p.dialogErr
}

func (p *fakePage) PatchDialog(_ form.Mode, raw []byte) (interface{}, error) {
	p.patched = string(raw)
	return p.dialog, p.dialogErr
}

func (p *fakePage) SubmitDialog(context.Context, form.Mode) (interface{}, error) {
	return p.dialog, p.dialogErr
}

func (p *fakePage) Delete(_ context.Context, id string) error {
	p.deleted = id
	return p.err
}

func (p *fakePage) Export(format string) (*service.ExportFile, error) {
	if format != "csv" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format "+format)
	}
	return &service.ExportFile{Filename: "programs-20250101.csv", ContentType: "text/csv", Body: []byte("code\nSE\n")}, nil
}

type fakeRegistry struct{ pages map[string]service.Page }

func (r fakeRegistry) Page(resource string) (service.Page, error) {
	page, ok := r.pages[resource]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown resource "+resource)
	}
	return page, nil
}

func (r fakeRegistry) Resources() []string { return []string{"programs"} }

func pageHandlerFor(page *fakePage) *PageHandler {
	return NewPageHandler(fakeRegistry{pages: map[string]service.Page{"programs": page}})
}

func resourceParam(name string) gin.Param { return gin.Param{Key: "resource", Value: name} }

func TestPageHandlerUnknownResource(t *testing.T) {
	h := pageHandlerFor(&fakePage{})
	c, rec := newTestContext(http.MethodGet, "/api/pages/rooms", nil, resourceParam("rooms"))

	h.View(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPageHandlerSetFilter(t *testing.T) {
	page := &fakePage{view: fakeView{Shown: 3, Total: 3}}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPut, "/api/pages/programs/filters",
		strings.NewReader(`{"key":" department_code ","value":"IT"}`), resourceParam("programs"))

	h.SetFilter(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "department_code", page.filterKey)
	assert.Equal(t, "IT", page.filterVal)
	assert.JSONEq(t, `{"shown":3,"total":3}`, string(decodeEnvelope(t, rec).Data))
}

func TestPageHandlerFailureKeepsView(t *testing.T) {
	page := &fakePage{view: fakeView{Shown: 10, Total: 40}, err: appErrors.Clone(appErrors.ErrUpstream, "HTTP 500")}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/refresh", nil, resourceParam("programs"))

	h.Refresh(c)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "HTTP 500", env.Error.Message)
	assert.JSONEq(t, `{"shown":10,"total":40}`, string(env.Data))
}

func TestPageHandlerStaleResponseIsNotAnError(t *testing.T) {
	page := &fakePage{view: fakeView{Shown: 1, Total: 1}, err: appErrors.Clone(appErrors.ErrStaleResponse, "")}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPut, "/api/pages/programs/page", strings.NewReader(`{"page":2}`), resourceParam("programs"))

	h.GoToPage(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, page.page)
	assert.Nil(t, decodeEnvelope(t, rec).Error)
}

func TestPageHandlerGoToPageOutOfRangeIsIgnored(t *testing.T) {
	cases := []struct {
		body string
		page int
	}{
		{`{"page":0}`, 0},
		{`{"page":-1}`, -1},
		{`{"page":3}`, 3},
	}
	for _, tc := range cases {
		t.Run(tc.body, func(t *testing.T) {
			page := &fakePage{view: fakeView{Shown: 10, Total: 15}, page: 99}
			h := pageHandlerFor(page)
			c, rec := newTestContext(http.MethodPut, "/api/pages/programs/page", strings.NewReader(tc.body), resourceParam("programs"))

			h.GoToPage(c)

			require.Equal(t, http.StatusOK, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Nil(t, env.Error)
			assert.JSONEq(t, `{"shown":10,"total":15}`, string(env.Data))
			assert.Equal(t, tc.page, page.page)
		})
	}
}

func TestPageHandlerGoToPageRequiresPage(t *testing.T) {
	page := &fakePage{page: 99}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPut, "/api/pages/programs/page", strings.NewReader(`{}`), resourceParam("programs"))

	h.GoToPage(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 99, page.page)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}

func TestPageHandlerSessionExpiredRedirects(t *testing.T) {
	page := &fakePage{err: appErrors.Clone(appErrors.ErrSessionExpired, "")}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/initialize", nil, resourceParam("programs"))

	h.Initialize(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, "/login", env.Meta["redirect"])
	assert.Empty(t, env.Data)
}

func TestPageHandlerDeleteConflict(t *testing.T) {
	page := &fakePage{err: appErrors.Clone(appErrors.ErrConflict, "program \"SE\" still has tuition records; delete them first")}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodDelete, "/api/pages/programs/items/p1", nil,
		resourceParam("programs"), gin.Param{Key: "id", Value: "p1"})

	h.Delete(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "p1", page.deleted)
	assert.Contains(t, decodeEnvelope(t, rec).Error.Message, "tuition records")
}

func TestPageHandlerExport(t *testing.T) {
	h := pageHandlerFor(&fakePage{})
	c, rec := newTestContext(http.MethodGet, "/api/pages/programs/export?format=csv", nil, resourceParam("programs"))

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "programs-20250101.csv")
	assert.Equal(t, "code\nSE\n", rec.Body.String())
}

func TestPageHandlerExportRejectsUnknownFormat(t *testing.T) {
	h := pageHandlerFor(&fakePage{})
	c, rec := newTestContext(http.MethodGet, "/api/pages/programs/export?format=xlsx", nil, resourceParam("programs"))

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageHandlerOpenEditRequiresID(t *testing.T) {
	h := pageHandlerFor(&fakePage{})
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/dialogs/edit/open", strings.NewReader(`{}`),
		resourceParam("programs"), gin.Param{Key: "mode", Value: "edit"})

	h.OpenDialog(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageHandlerOpenEdit(t *testing.T) {
	page := &fakePage{dialog: &fakeDialog{Open: true, Fields: map[string]string{"code": "SE"}}}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/dialogs/edit/open", strings.NewReader(`{"id":"p1"}`),
		resourceParam("programs"), gin.Param{Key: "mode", Value: "edit"})

	h.OpenDialog(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p1", page.editID)
	assert.JSONEq(t, `{"open":true,"fields":{"code":"SE"}}`, string(decodeEnvelope(t, rec).Data))
}

func TestPageHandlerUnknownDialogMode(t *testing.T) {
	h := pageHandlerFor(&fakePage{})
	c, rec := newTestContext(http.MethodGet, "/api/pages/programs/dialogs/bulk", nil,
		resourceParam("programs"), gin.Param{Key: "mode", Value: "bulk"})

	h.Dialog(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPageHandlerPatchRejectsMalformedJSON(t *testing.T) {
	page := &fakePage{}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPatch, "/api/pages/programs/dialogs/create", strings.NewReader(`{"code":`),
		resourceParam("programs"), gin.Param{Key: "mode", Value: "create"})

	h.PatchDialog(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, page.patched)
}

func TestPageHandlerSubmitValidationKeepsFields(t *testing.T) {
	page := &fakePage{
		dialog:    &fakeDialog{Open: true, Fields: map[string]string{"code": ""}},
		dialogErr: appErrors.WithFields(map[string]string{"code": "code is required"}),
	}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/dialogs/create/submit", nil,
		resourceParam("programs"), gin.Param{Key: "mode", Value: "create"})

	h.SubmitDialog(c)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error)
	assert.Equal(t, "code is required", env.Error.Fields["code"])
	assert.JSONEq(t, `{"open":true,"fields":{"code":""}}`, string(env.Data))
}

func TestPageHandlerSubmitReturnsListToo(t *testing.T) {
	page := &fakePage{view: fakeView{Shown: 9, Total: 9}, dialog: &fakeDialog{}}
	h := pageHandlerFor(page)
	c, rec := newTestContext(http.MethodPost, "/api/pages/programs/dialogs/create/submit", nil,
		resourceParam("programs"), gin.Param{Key: "mode", Value: "create"})

	h.SubmitDialog(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dialog":{"open":false,"fields":null},"list":{"shown":9,"total":9}}`, string(decodeEnvelope(t, rec).Data))
}
