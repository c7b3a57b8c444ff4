package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/jobs"
	"github.com/noah-isme/admission-admin/pkg/response"
)

const uploadField = "file"

type knowledgeService interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadTicket, error)
	Ticket(id string) (*models.UploadTicket, error)
	Tickets() []models.UploadTicket
	QueueStats() jobs.Stats
	Documents(ctx context.Context) ([]models.KnowledgeDocument, error)
	DeleteDocument(ctx context.Context, filename string) (*models.MessageResponse, error)
	Status(ctx context.Context) (*models.KnowledgeStatus, error)
}

// KnowledgeHandler manages documents in the chatbot knowledge base.
type KnowledgeHandler struct {
	service knowledgeService
}

// NewKnowledgeHandler constructs the handler.
func NewKnowledgeHandler(svc knowledgeService) *KnowledgeHandler {
	return &KnowledgeHandler{service: svc}
}

// Upload godoc
// @Summary Queue a document upload
// @Tags Knowledge
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document"
// @Success 202 {object} response.Envelope
// @Failure 413 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /api/knowledge/uploads [post]
func (h *KnowledgeHandler) Upload(c *gin.Context) {
	header, err := c.FormFile(uploadField)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "a file is required"))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	ticket, err := h.service.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, ticket)
}

// Uploads godoc
// @Summary List upload tickets
// @Tags Knowledge
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/knowledge/uploads [get]
func (h *KnowledgeHandler) Uploads(c *gin.Context) {
	tickets := h.service.Tickets()
	response.JSON(c, http.StatusOK, tickets, map[string]interface{}{
		"count": len(tickets),
		"queue": h.service.QueueStats(),
	})
}

// UploadStatus godoc
// @Summary Poll one upload ticket
// @Tags Knowledge
// @Produce json
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /api/knowledge/uploads/{id} [get]
func (h *KnowledgeHandler) UploadStatus(c *gin.Context) {
	ticket, err := h.service.Ticket(c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ticket)
}

// Documents godoc
// @Summary List stored documents
// @Tags Knowledge
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/knowledge/documents [get]
func (h *KnowledgeHandler) Documents(c *gin.Context) {
	docs, err := h.service.Documents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, map[string]interface{}{"count": len(docs)})
}

// DeleteDocument godoc
// @Summary Delete a stored document
// @Tags Knowledge
// @Produce json
// @Param filename path string true "Document file name"
// @Success 200 {object} response.Envelope
// @Router /api/knowledge/documents/{filename} [delete]
func (h *KnowledgeHandler) DeleteDocument(c *gin.Context) {
	res, err := h.service.DeleteDocument(c.Request.Context(), c.Param("filename"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Status godoc
// @Summary Knowledge base storage status
// @Tags Knowledge
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /api/knowledge/status [get]
func (h *KnowledgeHandler) Status(c *gin.Context) {
	status, err := h.service.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}
