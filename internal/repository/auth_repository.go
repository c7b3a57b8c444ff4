package repository

import (
	"context"
	"net/http"

	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

// AuthRepository talks to the /auth endpoints.
type AuthRepository struct {
	client Doer
}

// NewAuthRepository constructs an auth repository.
func NewAuthRepository(client Doer) *AuthRepository {
	return &AuthRepository{client: client}
}

// Login exchanges credentials for a token. A 401 here means bad credentials, not an expired session.
func (r *AuthRepository) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	err := r.client.Do(ctx, apiclient.Request{
		Method:    http.MethodPost,
		Path:      "/auth/login",
		Body:      req,
		Resource:  ResourceAuth,
		Anonymous: true,
	}, &out)
	if err != nil {
		if appErrors.IsSessionExpired(err) {
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
		}
		return nil, err
	}
	return &out, nil
}

// Profile returns the user behind the current token.
func (r *AuthRepository) Profile(ctx context.Context) (*models.User, error) {
	var out models.ItemResponse[models.User]
	if err := r.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/auth/profile", Resource: ResourceAuth}, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
