package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/pkg/response"
)

type tuitionService interface {
	Comparison(ctx context.Context, programCode string, year int) ([]models.ComparisonView, error)
	ReferenceData(ctx context.Context) (*models.TuitionReference, error)
}

// TuitionHandler serves the read-only tuition comparison screen.
type TuitionHandler struct {
	service tuitionService
}

// NewTuitionHandler constructs the handler.
func NewTuitionHandler(svc tuitionService) *TuitionHandler {
	return &TuitionHandler{service: svc}
}

// Comparison godoc
// @Summary Compare tuition across campuses
// @Tags Tuition
// @Produce json
// @Param program_code query string false "Program code or all"
// @Param year query int false "Academic year"
// @Success 200 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /api/tuition/comparison [get]
func (h *TuitionHandler) Comparison(c *gin.Context) {
	rows, err := h.service.Comparison(c.Request.Context(), c.Query("program_code"), parseYear(c.Query("year")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, map[string]interface{}{"count": len(rows)})
}

// Reference godoc
// @Summary Programs, campuses and years for the comparison filters
// @Tags Tuition
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/tuition/reference [get]
func (h *TuitionHandler) Reference(c *gin.Context) {
	ref, err := h.service.ReferenceData(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ref)
}

func parseYear(raw string) int {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return year
}
