package form

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-admin/internal/dto"
	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type submitRecorder struct {
	mu        sync.Mutex
	calls     int
	mode      Mode
	id        string
	payload   interface{}
	err       error
	refreshes int
}

func (r *submitRecorder) submit(_ context.Context, mode Mode, id string, payload interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.mode, r.id, r.payload = mode, id, payload
	return r.err
}

func (r *submitRecorder) refresh(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
	return nil
}

func TestScholarshipPercentageOutOfRangeNeverSubmits(t *testing.T) {
	rec := &submitRecorder{}
	dialog := NewDialog(ScholarshipSchema(2025), rec.submit, rec.refresh, nil)
	require.NoError(t, dialog.Open(nil))
	require.NoError(t, dialog.Patch([]byte(`{"code":"HB1","name":"Merit","type":"Academic","recipients":5,"percentage":150}`)))

	err := dialog.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.CodeClientValidation))
	assert.Equal(t, "must be between 0 and 100", appErrors.FromError(err).Fields["percentage"])
	assert.Equal(t, 0, rec.calls)

	state := dialog.State()
	assert.True(t, state.Open)
	assert.Equal(t, "must be between 0 and 100", state.Errors["percentage"])
}

func TestScholarshipNullPercentageIsValid(t *testing.T) {
	rec := &submitRecorder{}
	dialog := NewDialog(ScholarshipSchema(2025), rec.submit, rec.refresh, nil)
	require.NoError(t, dialog.Open(nil))
	require.NoError(t, dialog.Patch([]byte(`{"code":"HB1","name":"Merit","type":"Academic","recipients":5,"percentage":null}`)))

	require.NoError(t, dialog.Submit(context.Background()))
	payload := rec.payload.(dto.ScholarshipPayload)
	assert.Nil(t, payload.Percentage)
	assert.Equal(t, 2025, payload.Year)
	assert.True(t, payload.IsActive)
	assert.Equal(t, 1, rec.refreshes)
	assert.False(t, dialog.State().Open)
}

func TestUserPasswordRules(t *testing.T) {
	ctx := context.Background()
	rec := &submitRecorder{}
	dialog := NewDialog(UserSchema(), rec.submit, rec.refresh, nil)

	require.NoError(t, dialog.Open(nil))
	require.NoError(t, dialog.Patch([]byte(`{"username":"alice","email":"alice@example.com","password":""}`)))
	err := dialog.Submit(ctx)
	require.Error(t, err)
	assert.Equal(t, "is required", dialog.State().Errors["password"])
	assert.Equal(t, 0, rec.calls)

	require.NoError(t, dialog.Patch([]byte(`{"password":"short"}`)))
	require.Error(t, dialog.Submit(ctx))
	assert.Equal(t, "must be at least 8 characters", dialog.State().Errors["password"])

	user := models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: models.RoleStaff, IsActive: true}
	require.NoError(t, dialog.Open(&user))
	require.NoError(t, dialog.Submit(ctx))
	assert.Equal(t, ModeEdit, rec.mode)
	assert.Equal(t, "u1", rec.id)
	payload := rec.payload.(dto.UserPayload)
	assert.Nil(t, payload.Password)
}

func TestUserCreateDefaultsToStaff(t *testing.T) {
	rec := &submitRecorder{}
	dialog := NewDialog(UserSchema(), rec.submit, rec.refresh, nil)
	require.NoError(t, dialog.Open(nil))
	assert.Equal(t, string(models.RoleStaff), dialog.State().Fields.Role)

	require.NoError(t, dialog.Patch([]byte(`{"role":"janitor"}`)))
	assert.False(t, dialog.Validate())
	assert.Contains(t, dialog.State().Errors["role"], "must be one of")
}

func TestEditPopulationIsIdempotent(t *testing.T) {
	pct := 50.0
	entity := models.Scholarship{ID: "s1", Code: "HB1", Name: "Merit", Type: "Academic", Recipients: 3, Percentage: &pct, Year: 2025, IsActive: true}
	dialog := NewDialog(ScholarshipSchema(2025), (&submitRecorder{}).submit, nil, nil)

	require.NoError(t, dialog.Open(&entity))
	first := dialog.State()
	require.NoError(t, dialog.Patch([]byte(`{"name":"Changed"}`)))
	dialog.Close()
	require.NoError(t, dialog.Open(&entity))
	second := dialog.State()

	assert.Equal(t, first, second)
	assert.Equal(t, "Merit", second.Fields.Name)
	assert.Equal(t, 50.0, *entity.Percentage)
}

func TestOpenClearsPreviousErrors(t *testing.T) {
	dialog := NewDialog(DepartmentSchema(), (&submitRecorder{}).submit, nil, nil)
	require.NoError(t, dialog.Open(nil))
	assert.False(t, dialog.Validate())
	assert.NotEmpty(t, dialog.State().Errors)

	require.NoError(t, dialog.Open(nil))
	assert.Empty(t, dialog.State().Errors)
}

func TestSubmitFailureKeepsFields(t *testing.T) {
	rec := &submitRecorder{err: appErrors.FromStatus(409, "a department with this code already exists")}
	dialog := NewDialog(DepartmentSchema(), rec.submit, rec.refresh, nil)
	require.NoError(t, dialog.Open(nil))
	require.NoError(t, dialog.Patch([]byte(`{"code":"IT","name":"Information Technology"}`)))

	err := dialog.Submit(context.Background())
	require.Error(t, err)

	state := dialog.State()
	assert.True(t, state.Open)
	assert.False(t, state.IsSubmitting)
	assert.Equal(t, "IT", state.Fields.Code)
	assert.Equal(t, "a department with this code already exists", state.SubmitError)
	assert.Equal(t, 0, rec.refreshes)
}

func TestConcurrentSubmitIsRejected(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	submit := func(context.Context, Mode, string, interface{}) error {
		close(entered)
		<-release
		return nil
	}
	dialog := NewDialog(DepartmentSchema(), submit, nil, nil)
	require.NoError(t, dialog.Open(nil))
	require.NoError(t, dialog.Patch([]byte(`{"code":"IT","name":"IT"}`)))

	done := make(chan error, 1)
	go func() { done <- dialog.Submit(context.Background()) }()
	<-entered

	assert.True(t, dialog.State().IsSubmitting)
	assert.ErrorIs(t, dialog.Submit(context.Background()), appErrors.ErrSubmitInProgress)
	assert.ErrorIs(t, dialog.Patch([]byte(`{"code":"X"}`)), appErrors.ErrSubmitInProgress)

	close(release)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("submit did not finish")
	}
}

func TestSubmitOnClosedDialog(t *testing.T) {
	dialog := NewDialog(DepartmentSchema(), (&submitRecorder{}).submit, nil, nil)
	assert.ErrorIs(t, dialog.Submit(context.Background()), appErrors.ErrDialogClosed)
}

func TestFieldRulesPerResource(t *testing.T) {
	cases := []struct {
		name  string
		check func() map[string]string
		field string
		want  string
	}{
		{"department code too long", func() map[string]string {
			d := NewDialog(DepartmentSchema(), nil, nil, nil)
			return d.check(DepartmentFields{Code: "ABCDEFGHIJKLMNOPQRSTU", Name: "x"}, ModeCreate)
		}, "code", "must be at most 20 characters"},
		{"blank department name", func() map[string]string {
			d := NewDialog(DepartmentSchema(), nil, nil, nil)
			return d.check(DepartmentFields{Code: "IT", Name: "   "}, ModeCreate)
		}, "name", "is required"},
		{"program duration", func() map[string]string {
			d := NewDialog(ProgramSchema(), nil, nil, nil)
			return d.check(ProgramFields{Code: "P", Name: "P", DepartmentID: "d1", DurationYears: 12}, ModeCreate)
		}, "duration_years", "must be between 1 and 10 years"},
		{"campus email", func() map[string]string {
			d := NewDialog(CampusSchema(), nil, nil, nil)
			return d.check(CampusFields{Code: "HN", Name: "Ha Noi", City: "Ha Noi", Email: "nope"}, ModeCreate)
		}, "email", "must be a valid email address"},
		{"tuition negative fee", func() map[string]string {
			d := NewDialog(TuitionSchema(2025), nil, nil, nil)
			return d.check(TuitionFields{ProgramID: "p", CampusID: "c", Year: 2025, SemesterGroup46Fee: -1}, ModeCreate)
		}, "semester_group_4_6_fee", "must not be negative"},
		{"admission method year", func() map[string]string {
			d := NewDialog(AdmissionMethodSchema(2025), nil, nil, nil)
			return d.check(AdmissionMethodFields{MethodCode: "THPT", Name: "Exam", Year: 2031}, ModeCreate)
		}, "year", "must be between 2020 and 2030"},
		{"admission method code length", func() map[string]string {
			d := NewDialog(AdmissionMethodSchema(2025), nil, nil, nil)
			return d.check(AdmissionMethodFields{MethodCode: "ABCDEFGHIJK", Name: "Exam", Year: 2025}, ModeCreate)
		}, "method_code", "must be at most 10 characters"},
		{"scholarship recipients", func() map[string]string {
			d := NewDialog(ScholarshipSchema(2025), nil, nil, nil)
			return d.check(ScholarshipFields{Code: "HB", Name: "x", Type: "t", Recipients: 0, Year: 2025}, ModeCreate)
		}, "recipients", "must be greater than 0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := tc.check()
			assert.Equal(t, tc.want, errs[tc.field])
		})
	}
}

func TestPatchRejectsMalformedJSON(t *testing.T) {
	dialog := NewDialog(DepartmentSchema(), nil, nil, nil)
	require.NoError(t, dialog.Open(nil))
	err := dialog.Patch([]byte(`{"code":`))
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.CodeClientValidation, appErr.Code)
}
