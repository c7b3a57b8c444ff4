package repository

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/models"
)

// Doer is the subset of apiclient.Client used by repositories.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request, out interface{}) error
}

// Endpoint binds a resource name to its collection path and friendly status messages.
type Endpoint struct {
	Resource string
	Path     string
	Messages map[int]string
}

// ResourceRepository performs CRUD calls for one collection of T.
type ResourceRepository[T any] struct {
	client   Doer
	endpoint Endpoint
}

// NewResourceRepository constructs a repository for the given endpoint.
func NewResourceRepository[T any](client Doer, endpoint Endpoint) *ResourceRepository[T] {
	return &ResourceRepository[T]{client: client, endpoint: endpoint}
}

// List fetches one page. The query already carries limit/offset and server filters.
func (r *ResourceRepository[T]) List(ctx context.Context, query url.Values) (*models.ListResponse[T], error) {
	var out models.ListResponse[T]
	if err := r.client.Do(ctx, r.request(http.MethodGet, r.endpoint.Path, query, nil), &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []T{}
	}
	return &out, nil
}

// Count returns meta.total for the given filters by requesting a single row.
func (r *ResourceRepository[T]) Count(ctx context.Context, filters url.Values) (int, error) {
	query := url.Values{}
	for k, v := range filters {
		query[k] = append([]string(nil), v...)
	}
	query.Set("limit", "1")
	query.Set("offset", "0")
	page, err := r.List(ctx, query)
	if err != nil {
		return 0, err
	}
	return page.Meta.Total, nil
}

// Get fetches a single entity.
func (r *ResourceRepository[T]) Get(ctx context.Context, id string) (*T, error) {
	var out models.ItemResponse[T]
	if err := r.client.Do(ctx, r.request(http.MethodGet, r.itemPath(id), nil, nil), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Create posts a new entity.
func (r *ResourceRepository[T]) Create(ctx context.Context, payload interface{}) (*T, error) {
	var out models.ItemResponse[T]
	if err := r.client.Do(ctx, r.request(http.MethodPost, r.endpoint.Path, nil, payload), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Update replaces an entity.
func (r *ResourceRepository[T]) Update(ctx context.Context, id string, payload interface{}) (*T, error) {
	var out models.ItemResponse[T]
	if err := r.client.Do(ctx, r.request(http.MethodPut, r.itemPath(id), nil, payload), &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

// Delete removes an entity. A 409 keeps the server's message: the endpoint's conflict text
// describes duplicate codes, while a refused delete names the constraint that blocked it.
func (r *ResourceRepository[T]) Delete(ctx context.Context, id string) error {
	var out models.MessageResponse
	req := r.request(http.MethodDelete, r.itemPath(id), nil, nil)
	req.Messages = withoutStatus(r.endpoint.Messages, http.StatusConflict)
	return r.client.Do(ctx, req, &out)
}

func (r *ResourceRepository[T]) itemPath(id string) string {
	return fmt.Sprintf("%s/%s", r.endpoint.Path, url.PathEscape(id))
}

func (r *ResourceRepository[T]) request(method, path string, query url.Values, body interface{}) apiclient.Request {
	return apiclient.Request{
		Method:   method,
		Path:     path,
		Query:    query,
		Body:     body,
		Resource: r.endpoint.Resource,
		Messages: r.endpoint.Messages,
	}
}

func withoutStatus(messages map[int]string, status int) map[int]string {
	out := make(map[int]string, len(messages))
	for k, v := range messages {
		if k != status {
			out[k] = v
		}
	}
	return out
}

// PageQuery renders limit/offset for a 1-based page.
func PageQuery(page, limit int) url.Values {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa((page-1)*limit))
	return q
}
