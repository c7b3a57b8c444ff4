package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type authRepository interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	Profile(ctx context.Context) (*models.User, error)
}

type sessionStore interface {
	SetToken(ctx context.Context, token string) error
	SetUserData(ctx context.Context, user models.User) error
	GetUserData(ctx context.Context) (*models.User, error)
	IsAuthenticated(ctx context.Context) (bool, error)
	TokenExpired(ctx context.Context) (bool, error)
	Logout(ctx context.Context) error
}

type pageResetter interface {
	Reset()
}

// AuthService gates the console behind an administrator login and owns the session lifecycle.
type AuthService struct {
	repo      authRepository
	session   sessionStore
	pages     pageResetter
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authRepository, session sessionStore, pages pageResetter, validate *validator.Validate, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AuthService{repo: repo, session: session, pages: pages, validator: validate, logger: logger}
}

// Login authenticates against the admission API. Only administrators get past the gate; any other
// role is rejected without persisting anything even though the server accepted the credentials.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "please enter a valid email and password")
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	user := resp.Data.User
	if !user.Role.IsAdministrator() {
		s.logger.Warn("non administrator login rejected", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
		return nil, appErrors.Clone(appErrors.ErrAccessDenied, "")
	}
	if resp.Data.Token == "" {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "login response did not include a token")
	}

	if err := s.session.SetToken(ctx, resp.Data.Token); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	if err := s.session.SetUserData(ctx, user); err != nil {
		_ = s.session.Logout(ctx)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	if s.pages != nil {
		s.pages.Reset()
	}
	s.logger.Info("console login", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &user, nil
}

// Profile reloads the current user from the server and refreshes the stored copy.
func (s *AuthService) Profile(ctx context.Context) (*models.User, error) {
	user, err := s.repo.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.session.SetUserData(ctx, *user); err != nil {
		s.logger.Warn("failed to refresh stored user", zap.Error(err))
	}
	return user, nil
}

// Logout clears the session and drops every page's state.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.session.Logout(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear session")
	}
	if s.pages != nil {
		s.pages.Reset()
	}
	return nil
}

// Expire handles a session-expired signal from any call: the session is cleared so the next
// request is sent to the login entry point.
func (s *AuthService) Expire(ctx context.Context) {
	s.logger.Warn("session expired, clearing stored credentials")
	if err := s.Logout(ctx); err != nil {
		s.logger.Error("failed to clear expired session", zap.Error(err))
	}
}

// Status reports the persisted session.
func (s *AuthService) Status(ctx context.Context) (*models.SessionStatus, error) {
	authenticated, err := s.session.IsAuthenticated(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read session")
	}
	status := &models.SessionStatus{Authenticated: authenticated}
	if !authenticated {
		return status, nil
	}
	if status.TokenExpired, err = s.session.TokenExpired(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read session")
	}
	if status.User, err = s.session.GetUserData(ctx); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read session")
	}
	status.IsAdmin = status.User != nil && status.User.Role.IsAdministrator()
	return status, nil
}

// RequireSession succeeds only for a live administrator session. Anything else clears the
// session and returns SessionExpired.
func (s *AuthService) RequireSession(ctx context.Context) (*models.User, error) {
	status, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	if status.Authenticated && status.IsAdmin && !status.TokenExpired {
		return status.User, nil
	}
	if status.Authenticated {
		s.Expire(ctx)
	}
	return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
}
