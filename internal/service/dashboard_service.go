package service

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/internal/repository"
)

const dashboardConcurrency = 3

type resourceCounter interface {
	Count(ctx context.Context, filters url.Values) (int, error)
}

// DashboardCounters groups one counter per headline figure.
type DashboardCounters struct {
	Departments      resourceCounter
	Programs         resourceCounter
	Campuses         resourceCounter
	Scholarships     resourceCounter
	AdmissionMethods resourceCounter
	Users            resourceCounter
}

// DashboardService composes the console home page.
type DashboardService struct {
	counters DashboardCounters
	logger   *zap.Logger
	now      func() time.Time
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(counters DashboardCounters, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{counters: counters, logger: logger, now: time.Now}
}

// NewDashboardServiceFromClient wires the counters onto the admission API.
func NewDashboardServiceFromClient(client repository.Doer, logger *zap.Logger) *DashboardService {
	return NewDashboardService(DashboardCounters{
		Departments:      repository.NewResourceRepository[models.Department](client, repository.DepartmentsEndpoint),
		Programs:         repository.NewResourceRepository[models.Program](client, repository.ProgramsEndpoint),
		Campuses:         repository.NewResourceRepository[models.Campus](client, repository.CampusesEndpoint),
		Scholarships:     repository.NewResourceRepository[models.Scholarship](client, repository.ScholarshipsEndpoint),
		AdmissionMethods: repository.NewResourceRepository[models.AdmissionMethod](client, repository.AdmissionMethodsEndpoint),
		Users:            repository.NewResourceRepository[models.User](client, repository.UsersEndpoint),
	}, logger)
}

// Stats counts every resource from meta.total, a few requests at a time. The first failure
// cancels the rest.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	targets := []struct {
		name    string
		counter resourceCounter
		dest    *int
	}{
		{repository.ResourceDepartments, s.counters.Departments, &stats.Departments},
		{repository.ResourcePrograms, s.counters.Programs, &stats.Programs},
		{repository.ResourceCampuses, s.counters.Campuses, &stats.Campuses},
		{repository.ResourceScholarships, s.counters.Scholarships, &stats.Scholarships},
		{repository.ResourceAdmissionMethods, s.counters.AdmissionMethods, &stats.AdmissionMethods},
		{repository.ResourceUsers, s.counters.Users, &stats.Users},
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardConcurrency)
	for _, target := range targets {
		target := target
		if target.counter == nil {
			continue
		}
		g.Go(func() error {
			count, err := target.counter.Count(gctx, url.Values{})
			if err != nil {
				s.logger.Warn("dashboard count failed", zap.String("resource", target.name), zap.Error(err))
				return err
			}
			*target.dest = count
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	stats.GeneratedAt = s.now().UTC()
	return stats, nil
}
