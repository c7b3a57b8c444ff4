package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/internal/service"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type denyGuard struct{}

func (denyGuard) RequireSession(context.Context) (*models.User, error) {
	return nil, appErrors.Clone(appErrors.ErrSessionExpired, "")
}

type fakeDashboardSrv struct{ hit bool }

func (f *fakeDashboardSrv) Stats(context.Context) (*models.DashboardStats, error) {
	f.hit = true
	return &models.DashboardStats{}, nil
}

func TestRegisterRoutesGuardsConsoleEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dashboard := &fakeDashboardSrv{}
	r := gin.New()
	RegisterRoutes(r, Handlers{
		Auth:      NewAuthHandler(&fakeAuthSrv{status: &models.SessionStatus{}}),
		Pages:     pageHandlerFor(&fakePage{}),
		Tuition:   NewTuitionHandler(nil),
		Knowledge: NewKnowledgeHandler(&fakeKnowledgeSrv{}),
		Dashboard: NewDashboardHandler(dashboard),
		Metrics:   NewMetricsHandler(service.NewMetricsService()),
	}, denyGuard{})

	for _, target := range []string{"/api/dashboard/stats", "/api/pages/programs", "/api/knowledge/documents", "/api/tuition/reference"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
	assert.False(t, dashboard.hit)

	for _, target := range []string{"/health", "/api/auth/session", "/api/console/metrics"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusOK, rec.Code, target)
	}
}
