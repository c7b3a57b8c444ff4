package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/models"
)

// Uploader is the multipart side of apiclient.Client.
type Uploader interface {
	Doer
	Upload(ctx context.Context, req apiclient.Request, field, filename string, content io.Reader, out interface{}) error
}

// KnowledgeRepository talks to the knowledge-document service. The service is unauthenticated.
type KnowledgeRepository struct {
	client Uploader
}

// NewKnowledgeRepository constructs a knowledge repository.
func NewKnowledgeRepository(client Uploader) *KnowledgeRepository {
	return &KnowledgeRepository{client: client}
}

// Upload sends one document as the "file" form field.
func (r *KnowledgeRepository) Upload(ctx context.Context, filename string, content io.Reader) (*models.UploadResult, error) {
	var out models.UploadResult
	if err := r.client.Upload(ctx, r.request(http.MethodPost, "/knowledge/upload"), "file", filename, content, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Documents lists stored documents. The service answers either with an array or with the same
// array encoded as a JSON string; anything else yields an empty list.
func (r *KnowledgeRepository) Documents(ctx context.Context) ([]models.KnowledgeDocument, error) {
	var raw json.RawMessage
	if err := r.client.Do(ctx, r.request(http.MethodGet, "/knowledge/documents"), &raw); err != nil {
		return nil, err
	}
	return decodeDocuments(raw), nil
}

// DeleteDocument removes a document by filename.
func (r *KnowledgeRepository) DeleteDocument(ctx context.Context, filename string) (*models.MessageResponse, error) {
	var out models.MessageResponse
	path := fmt.Sprintf("/knowledge/documents/%s", url.PathEscape(filename))
	if err := r.client.Do(ctx, r.request(http.MethodDelete, path), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status reports the knowledge base backing store.
func (r *KnowledgeRepository) Status(ctx context.Context) (*models.KnowledgeStatus, error) {
	var out models.KnowledgeStatus
	if err := r.client.Do(ctx, r.request(http.MethodGet, "/knowledge/status"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *KnowledgeRepository) request(method, path string) apiclient.Request {
	return apiclient.Request{Method: method, Path: path, Resource: ResourceKnowledge, Anonymous: true}
}

type wireDocument struct {
	Path     string `json:"path"`
	Filename string `json:"filename"`
	Exists   bool   `json:"exists"`
	Size     int64  `json:"size"`
	Modified string `json:"modified"`
}

func decodeDocuments(raw json.RawMessage) []models.KnowledgeDocument {
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		raw = json.RawMessage(encoded)
	}
	var docs []wireDocument
	if err := json.Unmarshal(raw, &docs); err != nil {
		return []models.KnowledgeDocument{}
	}
	out := make([]models.KnowledgeDocument, 0, len(docs))
	for _, d := range docs {
		name := d.Filename
		if name == "" {
			name = d.Path
		}
		out = append(out, models.KnowledgeDocument{
			Path:     name,
			Filename: name,
			Exists:   d.Exists,
			Size:     d.Size,
			Modified: d.Modified,
		})
	}
	return out
}
