package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/form"
	"github.com/noah-isme/admission-admin/internal/service"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/response"
)

const maxFieldsBody = 1 << 20

type pageRegistry interface {
	Page(resource string) (service.Page, error)
	Resources() []string
}

// PageHandler exposes every resource screen: its list state, filters, pagination, dialogs,
// deletes and exports.
type PageHandler struct {
	pages pageRegistry
}

// NewPageHandler constructs a page handler.
func NewPageHandler(pages pageRegistry) *PageHandler {
	return &PageHandler{pages: pages}
}

// FilterRequest sets one filter value. "all" or an empty value clears it.
type FilterRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// GoToPageRequest selects a 1-based page. Pages outside 1..pageCount are ignored.
type GoToPageRequest struct {
	Page *int `json:"page" binding:"required"`
}

// OpenEditRequest names the row to edit.
type OpenEditRequest struct {
	ID string `json:"id" binding:"required"`
}

// Resources godoc
// @Summary List resource screens
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/pages [get]
func (h *PageHandler) Resources(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.pages.Resources())
}

// View godoc
// @Summary Current list view of a resource
// @Tags Pages
// @Produce json
// @Param resource path string true "Resource name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/pages/{resource} [get]
func (h *PageHandler) View(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, page.View())
}

// Initialize godoc
// @Summary Load page 1 with default filters
// @Tags Pages
// @Produce json
// @Param resource path string true "Resource name"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/pages/{resource}/initialize [post]
func (h *PageHandler) Initialize(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	respondView(c, page, page.Initialize(c.Request.Context()))
}

// SetFilter godoc
// @Summary Change a filter and reload page 1
// @Tags Pages
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Param payload body FilterRequest true "Filter"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/filters [put]
func (h *PageHandler) SetFilter(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid filter payload"))
		return
	}
	respondView(c, page, page.SetFilter(c.Request.Context(), strings.TrimSpace(req.Key), req.Value))
}

// GoToPage godoc
// @Summary Load another page; out of range pages are ignored
// @Tags Pages
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Param payload body GoToPageRequest true "Page"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/page [put]
func (h *PageHandler) GoToPage(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	var req GoToPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid page payload"))
		return
	}
	respondView(c, page, page.GoToPage(c.Request.Context(), *req.Page))
}

// Refresh godoc
// @Summary Reload the current page keeping rows visible
// @Tags Pages
// @Produce json
// @Param resource path string true "Resource name"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/refresh [post]
func (h *PageHandler) Refresh(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	respondView(c, page, page.Refresh(c.Request.Context()))
}

// Delete godoc
// @Summary Delete a row and reload the list
// @Tags Pages
// @Produce json
// @Param resource path string true "Resource name"
// @Param id path string true "Row ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /api/pages/{resource}/items/{id} [delete]
func (h *PageHandler) Delete(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	respondView(c, page, page.Delete(c.Request.Context(), c.Param("id")))
}

// Export godoc
// @Summary Export the visible rows
// @Tags Pages
// @Produce text/csv
// @Produce application/pdf
// @Param resource path string true "Resource name"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Router /api/pages/{resource}/export [get]
func (h *PageHandler) Export(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	file, err := page.Export(c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// OpenDialog godoc
// @Summary Open the create dialog, or the edit dialog for a row
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Param mode path string true "create or edit"
// @Param payload body OpenEditRequest false "Row to edit"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/dialogs/{mode}/open [post]
func (h *PageHandler) OpenDialog(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	var (
		state interface{}
		err   error
	)
	mode := form.Mode(strings.ToLower(c.Param("mode")))
	switch mode {
	case form.ModeCreate:
		state, err = page.OpenCreate()
	case form.ModeEdit:
		var req OpenEditRequest
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			response.Error(c, appErrors.Wrap(bindErr, appErrors.ErrValidation.Code, http.StatusBadRequest, "an id is required to edit"))
			return
		}
		state, err = page.OpenEdit(c.Request.Context(), req.ID)
	default:
		_, err = page.DialogState(mode)
	}
	respondDialog(c, state, err)
}

// Dialog godoc
// @Summary Current dialog state
// @Tags Dialogs
// @Produce json
// @Param resource path string true "Resource name"
// @Param mode path string true "create or edit"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/dialogs/{mode} [get]
func (h *PageHandler) Dialog(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	state, err := page.DialogState(form.Mode(c.Param("mode")))
	respondDialog(c, state, err)
}

// PatchDialog godoc
// @Summary Merge field values into a dialog
// @Tags Dialogs
// @Accept json
// @Produce json
// @Param resource path string true "Resource name"
// @Param mode path string true "create or edit"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/dialogs/{mode} [patch]
func (h *PageHandler) PatchDialog(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxFieldsBody))
	if err != nil || !json.Valid(raw) {
		response.Error(c, appErrors.Clone(appErrors.ErrClientValidation, "malformed form fields"))
		return
	}
	state, err := page.PatchDialog(form.Mode(c.Param("mode")), raw)
	respondDialog(c, state, err)
}

// SubmitDialog godoc
// @Summary Validate and submit a dialog
// @Tags Dialogs
// @Produce json
// @Param resource path string true "Resource name"
// @Param mode path string true "create or edit"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /api/pages/{resource}/dialogs/{mode}/submit [post]
func (h *PageHandler) SubmitDialog(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	state, err := page.SubmitDialog(c.Request.Context(), form.Mode(c.Param("mode")))
	if err != nil {
		respondDialog(c, state, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"dialog": state, "list": page.View()})
}

// CloseDialog godoc
// @Summary Close a dialog
// @Tags Dialogs
// @Produce json
// @Param resource path string true "Resource name"
// @Param mode path string true "create or edit"
// @Success 200 {object} response.Envelope
// @Router /api/pages/{resource}/dialogs/{mode}/close [post]
func (h *PageHandler) CloseDialog(c *gin.Context) {
	page, ok := h.page(c)
	if !ok {
		return
	}
	state, err := page.CloseDialog(form.Mode(c.Param("mode")))
	respondDialog(c, state, err)
}

func (h *PageHandler) page(c *gin.Context) (service.Page, bool) {
	page, err := h.pages.Page(c.Param("resource"))
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return page, true
}

// respondView renders the list view. A superseded response renders the current view as success.
func respondView(c *gin.Context, page service.Page, err error) {
	switch {
	case err == nil, appErrors.HasCode(err, appErrors.CodeStaleResponse):
		response.JSON(c, http.StatusOK, page.View())
	case appErrors.IsSessionExpired(err):
		response.Error(c, err)
	default:
		response.ErrorWithData(c, err, page.View())
	}
}

func respondDialog(c *gin.Context, state interface{}, err error) {
	switch {
	case err == nil:
		response.JSON(c, http.StatusOK, state)
	case appErrors.IsSessionExpired(err), state == nil:
		response.Error(c, err)
	default:
		response.ErrorWithData(c, err, state)
	}
}
