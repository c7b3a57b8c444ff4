package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/models"
)

// Persisted keys, shared with the browser dashboard's local storage layout.
const (
	KeyToken         = "auth_token"
	KeyUserData      = "user_data"
	KeyAuthenticated = "isAuthenticated"
)

// Store exposes the operator session. It is injected into the API clients as their token source.
type Store struct {
	kv     KV
	logger *zap.Logger
	now    func() time.Time
}

// NewStore builds a Store over the given persistence.
func NewStore(kv KV, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, logger: logger, now: time.Now}
}

// SetToken persists the bearer token.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, KeyToken, token)
}

// GetToken returns the stored token or an empty string.
func (s *Store) GetToken(ctx context.Context) (string, error) {
	token, _, err := s.kv.Get(ctx, KeyToken)
	return token, err
}

// SetUserData persists the profile and raises the authenticated flag.
func (s *Store) SetUserData(ctx context.Context, user models.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user data: %w", err)
	}
	if err := s.kv.Set(ctx, KeyUserData, string(payload)); err != nil {
		return err
	}
	return s.kv.Set(ctx, KeyAuthenticated, "true")
}

// GetUserData returns the stored profile, or nil when absent or unreadable.
func (s *Store) GetUserData(ctx context.Context) (*models.User, error) {
	raw, ok, err := s.kv.Get(ctx, KeyUserData)
	if err != nil || !ok || raw == "" {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("discarding unreadable user data", zap.Error(err))
		return nil, nil
	}
	return &user, nil
}

// IsAuthenticated requires both a token and the authenticated flag.
func (s *Store) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := s.GetToken(ctx)
	if err != nil {
		return false, err
	}
	flag, _, err := s.kv.Get(ctx, KeyAuthenticated)
	if err != nil {
		return false, err
	}
	return token != "" && flag == "true", nil
}

// IsAdmin reports whether the stored profile has an administrator role.
func (s *Store) IsAdmin(ctx context.Context) (bool, error) {
	user, err := s.GetUserData(ctx)
	if err != nil || user == nil {
		return false, err
	}
	return user.Role.IsAdministrator(), nil
}

// Logout clears every persisted key together.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyToken, KeyUserData, KeyAuthenticated); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("session cleared")
	return nil
}

// TokenExpired inspects the unverified exp claim. Tokens without one, or that cannot be parsed
// as a JWT, are left to the server to judge.
func (s *Store) TokenExpired(ctx context.Context) (bool, error) {
	token, err := s.GetToken(ctx)
	if err != nil || token == "" {
		return false, err
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false, nil
	}
	return !s.now().Before(exp.Time), nil
}
