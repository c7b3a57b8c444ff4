package service

import (
	"context"
	"math"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/noah-isme/admission-admin/internal/models"
	"github.com/noah-isme/admission-admin/internal/repository"
)

const (
	referencePageSize = 100
	firstYear         = 2020
	lastYear          = 2030
)

type comparisonRepository interface {
	Comparison(ctx context.Context, programCode string, year int) ([]models.TuitionComparison, error)
}

type programLister interface {
	List(ctx context.Context, query url.Values) (*models.ListResponse[models.Program], error)
}

type campusLister interface {
	List(ctx context.Context, query url.Values) (*models.ListResponse[models.Campus], error)
}

// TuitionService serves the tuition comparison view and the option lists of the tuition screen.
type TuitionService struct {
	comparisons comparisonRepository
	programs    programLister
	campuses    campusLister
	defaultYear int
	printer     *message.Printer
	logger      *zap.Logger
}

// NewTuitionService constructs a TuitionService.
func NewTuitionService(comparisons comparisonRepository, programs programLister, campuses campusLister, defaultYear int, logger *zap.Logger) *TuitionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TuitionService{
		comparisons: comparisons,
		programs:    programs,
		campuses:    campuses,
		defaultYear: defaultYear,
		printer:     message.NewPrinter(language.Vietnamese),
		logger:      logger,
	}
}

// NewTuitionServiceFromClient wires the service onto the admission API.
func NewTuitionServiceFromClient(client repository.Doer, defaultYear int, logger *zap.Logger) *TuitionService {
	return NewTuitionService(
		repository.NewTuitionRepository(client),
		repository.NewResourceRepository[models.Program](client, repository.ProgramsEndpoint),
		repository.NewResourceRepository[models.Campus](client, repository.CampusesEndpoint),
		defaultYear,
		logger,
	)
}

// Comparison returns the cross-campus comparison of a program. "all" or an empty code compares
// every program; a zero year falls back to the default year. Min/max bounds are passed through.
func (s *TuitionService) Comparison(ctx context.Context, programCode string, year int) ([]models.ComparisonView, error) {
	programCode = strings.TrimSpace(programCode)
	if programCode == "all" {
		programCode = ""
	}
	if year <= 0 {
		year = s.defaultYear
	}
	rows, err := s.comparisons.Comparison(ctx, programCode, year)
	if err != nil {
		return nil, err
	}
	views := make([]models.ComparisonView, 0, len(rows))
	for _, row := range rows {
		views = append(views, s.view(row))
	}
	return views, nil
}

// ReferenceData loads programs and campuses concurrently.
func (s *TuitionService) ReferenceData(ctx context.Context) (*models.TuitionReference, error) {
	ref := &models.TuitionReference{DefaultYear: s.defaultYear}
	query := repository.PageQuery(1, referencePageSize)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page, err := s.programs.List(gctx, query)
		if err != nil {
			return err
		}
		ref.Programs = page.Data
		return nil
	})
	g.Go(func() error {
		page, err := s.campuses.List(gctx, query)
		if err != nil {
			return err
		}
		ref.Campuses = page.Data
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for y := firstYear; y <= lastYear; y++ {
		ref.Years = append(ref.Years, y)
	}
	return ref, nil
}

// FormatVND renders an amount the way the admission office prints it, e.g. "12.500.000 ₫".
func (s *TuitionService) FormatVND(amount float64) string {
	return s.printer.Sprintf("%d", int64(math.Round(amount))) + " ₫"
}

func (s *TuitionService) view(row models.TuitionComparison) models.ComparisonView {
	display := models.ComparisonDisplay{
		MinSemesterFee: s.FormatVND(row.MinSemesterFee),
		MaxSemesterFee: s.FormatVND(row.MaxSemesterFee),
		MinTotalFee:    s.FormatVND(row.MinTotalFee),
		MaxTotalFee:    s.FormatVND(row.MaxTotalFee),
		Campuses:       make([]models.CampusFeeDisplay, 0, len(row.CampusFees)),
	}
	for _, fee := range row.CampusFees {
		display.Campuses = append(display.Campuses, models.CampusFeeDisplay{
			CampusCode:      fee.CampusCode,
			Semester13Fee:   s.FormatVND(fee.Semester13Fee),
			Semester46Fee:   s.FormatVND(fee.Semester46Fee),
			Semester79Fee:   s.FormatVND(fee.Semester79Fee),
			TotalProgramFee: s.FormatVND(fee.TotalProgramFee),
		})
	}
	if row.CampusFees == nil {
		row.CampusFees = []models.CampusFee{}
	}
	return models.ComparisonView{TuitionComparison: row, Display: display}
}
