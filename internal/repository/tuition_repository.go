package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/models"
)

// TuitionRepository adds the comparison endpoint on top of tuition CRUD.
type TuitionRepository struct {
	*ResourceRepository[models.TuitionFee]
	client Doer
}

// NewTuitionRepository constructs the tuition repository.
func NewTuitionRepository(client Doer) *TuitionRepository {
	return &TuitionRepository{
		ResourceRepository: NewResourceRepository[models.TuitionFee](client, TuitionEndpoint),
		client:             client,
	}
}

// Comparison fetches the cross-campus comparison for a program. Empty code or zero year are omitted.
func (r *TuitionRepository) Comparison(ctx context.Context, programCode string, year int) ([]models.TuitionComparison, error) {
	query := url.Values{}
	if programCode != "" {
		query.Set("program_code", programCode)
	}
	if year > 0 {
		query.Set("year", strconv.Itoa(year))
	}
	var out models.ComparisonResponse
	err := r.client.Do(ctx, apiclient.Request{
		Method:   http.MethodGet,
		Path:     TuitionEndpoint.Path + "/comparison",
		Query:    query,
		Resource: ResourceTuition,
		Messages: TuitionEndpoint.Messages,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []models.TuitionComparison{}
	}
	return out.Data, nil
}
