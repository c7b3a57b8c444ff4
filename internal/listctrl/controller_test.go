package listctrl

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

type row struct {
	Code     string
	Name     string
	IsActive bool
}

// fakeBackend serves a fixed data set honouring limit/offset and records every query.
type fakeBackend struct {
	mu      sync.Mutex
	rows    []row
	queries []url.Values
	err     error
}

func (f *fakeBackend) fetch(_ context.Context, q url.Values) (*models.ListResponse[row], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	var data []row
	if offset < len(f.rows) {
		data = append(data, f.rows[offset:end]...)
	}
	return &models.ListResponse[row]{
		Data: data,
		Meta: models.PageMeta{
			Total:   len(f.rows),
			Limit:   limit,
			Offset:  offset,
			HasNext: offset+limit < len(f.rows),
			HasPrev: offset > 0,
		},
	}, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queries)
}

func (f *fakeBackend) lastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[len(f.queries)-1]
}

func rows(n int) []row {
	out := make([]row, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, row{Code: "C" + strconv.Itoa(i), Name: "Row " + strconv.Itoa(i), IsActive: true})
	}
	return out
}

func newController(backend *fakeBackend) *Controller[row] {
	return New(backend.fetch, Options[row]{
		PageSize:      10,
		ServerFilters: []string{"year", "type"},
		SearchFields:  func(r row) []string { return []string{r.Code, r.Name} },
	})
}

func TestInitializeLoadsFirstPage(t *testing.T) {
	backend := &fakeBackend{rows: rows(15)}
	ctrl := newController(backend)

	require.NoError(t, ctrl.Initialize(context.Background()))

	state := ctrl.State()
	assert.Equal(t, StatusIdle, state.Status)
	assert.Equal(t, 1, state.Page)
	assert.Len(t, state.Items, 10)
	assert.Equal(t, 15, state.Meta.Total)
	assert.Equal(t, "10", backend.lastQuery().Get("limit"))
	assert.Equal(t, "0", backend.lastQuery().Get("offset"))
}

func TestInitializeFailureClearsItems(t *testing.T) {
	backend := &fakeBackend{rows: rows(3)}
	ctrl := newController(backend)
	require.NoError(t, ctrl.Initialize(context.Background()))

	backend.err = appErrors.FromStatus(500, "db down")
	err := ctrl.Initialize(context.Background())
	require.Error(t, err)

	state := ctrl.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, "db down", state.ErrorMessage)
	assert.Empty(t, state.Items)
	assert.Equal(t, err, ctrl.Err())
}

func TestRefreshFailureKeepsItems(t *testing.T) {
	backend := &fakeBackend{rows: rows(3)}
	ctrl := newController(backend)
	require.NoError(t, ctrl.Initialize(context.Background()))

	backend.err = errors.New("connection reset")
	require.Error(t, ctrl.Refresh(context.Background()))

	state := ctrl.State()
	assert.Equal(t, StatusError, state.Status)
	assert.Len(t, state.Items, 3)
}

func TestSetFilterResetsPageAndOmitsSentinel(t *testing.T) {
	backend := &fakeBackend{rows: rows(25)}
	ctrl := newController(backend)
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))
	require.NoError(t, ctrl.GoToPage(ctx, 3))
	assert.Equal(t, 3, ctrl.State().Page)

	require.NoError(t, ctrl.SetFilter(ctx, "year", "2025"))
	assert.Equal(t, 1, ctrl.State().Page)
	q := backend.lastQuery()
	assert.Equal(t, "0", q.Get("offset"))
	assert.Equal(t, "2025", q.Get("year"))

	require.NoError(t, ctrl.SetFilter(ctx, "type", AllSentinel))
	_, present := backend.lastQuery()["type"]
	assert.False(t, present)

	require.NoError(t, ctrl.SetFilter(ctx, "year", ""))
	_, present = backend.lastQuery()["year"]
	assert.False(t, present)
}

func TestGoToPageOutOfRangeIsNoop(t *testing.T) {
	backend := &fakeBackend{rows: rows(15)}
	ctrl := newController(backend)
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))
	before := ctrl.State()
	calls := backend.calls()

	for _, n := range []int{0, -1, 3} {
		require.NoError(t, ctrl.GoToPage(ctx, n))
	}

	assert.Equal(t, calls, backend.calls())
	assert.Equal(t, before, ctrl.State())
}

func TestFilterSearchPaginateScenario(t *testing.T) {
	data := rows(15)
	data[0].Name = "Computer Science"
	data[1].Code = "CS2"
	backend := &fakeBackend{rows: data}
	ctrl := newController(backend)
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))

	require.NoError(t, ctrl.SetFilter(ctx, "year", "2025"))
	assert.Equal(t, 1, ctrl.State().Page)
	require.NoError(t, ctrl.SetFilter(ctx, "search", "cs"))
	assert.Equal(t, 1, ctrl.State().Page)
	calls := backend.calls()
	require.NoError(t, ctrl.GoToPage(ctx, 3))
	assert.Equal(t, calls, backend.calls())

	view := ctrl.View()
	assert.Equal(t, 1, view.Page)
	assert.Equal(t, 2, view.PageCount)
	assert.Equal(t, 15, view.Total)
	assert.Equal(t, 1, view.Shown)
	assert.Equal(t, "CS2", view.Items[0].Code)
	assert.Equal(t, "2025", view.Filters["year"])
	assert.Equal(t, "cs", view.Filters["search"])

	q := backend.lastQuery()
	assert.Equal(t, "2025", q.Get("year"))
	_, sent := q["search"]
	assert.False(t, sent, "search is applied client-side")
}

func TestSearchIgnoresCaseAndDiacritics(t *testing.T) {
	backend := &fakeBackend{rows: []row{
		{Code: "CNTT", Name: "Công nghệ thông tin", IsActive: true},
		{Code: "QTKD", Name: "Quản trị kinh doanh", IsActive: true},
	}}
	ctrl := newController(backend)
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))
	require.NoError(t, ctrl.SetFilter(ctx, "search", "CONG NGHE"))

	view := ctrl.View()
	require.Len(t, view.Items, 1)
	assert.Equal(t, "CNTT", view.Items[0].Code)
	assert.Equal(t, 2, view.Total)
}

func TestImplicitFilterHidesRowsWithoutChangingTotal(t *testing.T) {
	data := rows(4)
	data[1].IsActive = false
	backend := &fakeBackend{rows: data}
	ctrl := New(backend.fetch, Options[row]{
		PageSize:       10,
		ImplicitFilter: func(r row) bool { return r.IsActive },
	})
	require.NoError(t, ctrl.Initialize(context.Background()))

	view := ctrl.View()
	assert.Equal(t, 3, view.Shown)
	assert.Equal(t, 4, view.Total)
	assert.Len(t, ctrl.State().Items, 4)
}

func TestAfterMutationRefetchesServerTotal(t *testing.T) {
	backend := &fakeBackend{rows: rows(5)}
	ctrl := newController(backend)
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))

	backend.mu.Lock()
	backend.rows = append(backend.rows, row{Code: "NEW", IsActive: true})
	backend.mu.Unlock()

	require.NoError(t, ctrl.AfterMutation(ctx))
	assert.Equal(t, 6, ctrl.View().Total)
}

// blockingBackend holds each fetch until released so ordering can be controlled.
type blockingBackend struct {
	started chan url.Values
	release map[string]chan struct{}
	mu      sync.Mutex
	rows    []row
}

func newBlockingBackend(data []row) *blockingBackend {
	return &blockingBackend{started: make(chan url.Values, 8), release: map[string]chan struct{}{}, rows: data}
}

func (b *blockingBackend) gate(offset string) chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch, ok := b.release[offset]
	if !ok {
		ch = make(chan struct{})
		b.release[offset] = ch
	}
	return ch
}

func (b *blockingBackend) fetch(ctx context.Context, q url.Values) (*models.ListResponse[row], error) {
	b.started <- q
	<-b.gate(q.Get("offset"))
	inner := &fakeBackend{rows: b.rows}
	return inner.fetch(ctx, q)
}

func TestRefreshKeepsRowsVisibleWhileLoading(t *testing.T) {
	backend := newBlockingBackend(rows(12))
	ctrl := newController(&fakeBackend{rows: rows(12)})
	require.NoError(t, ctrl.Initialize(context.Background()))
	ctrl.fetch = backend.fetch

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(context.Background()) }()
	<-backend.started

	state := ctrl.State()
	assert.Equal(t, StatusRefreshing, state.Status)
	assert.Len(t, state.Items, 10)

	close(backend.gate("0"))
	require.NoError(t, <-done)
	assert.Equal(t, StatusIdle, ctrl.State().Status)
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	data := rows(30)
	ctrl := newController(&fakeBackend{rows: data})
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))

	backend := newBlockingBackend(data)
	ctrl.fetch = backend.fetch

	slow := make(chan error, 1)
	go func() { slow <- ctrl.GoToPage(ctx, 2) }()
	<-backend.started

	fast := make(chan error, 1)
	go func() { fast <- ctrl.GoToPage(ctx, 3) }()
	<-backend.started

	close(backend.gate("20"))
	require.NoError(t, <-fast)
	close(backend.gate("10"))
	err := <-slow
	assert.True(t, appErrors.HasCode(err, appErrors.CodeStaleResponse))

	state := ctrl.State()
	assert.Equal(t, 3, state.Page)
	assert.Equal(t, "C21", state.Items[0].Code)
}

func TestCloseDiscardsInFlightResponse(t *testing.T) {
	data := rows(5)
	ctrl := newController(&fakeBackend{rows: data})
	ctx := context.Background()
	require.NoError(t, ctrl.Initialize(ctx))
	before := ctrl.State()

	backend := newBlockingBackend(append(data, row{Code: "LATE"}))
	ctrl.fetch = backend.fetch

	done := make(chan error, 1)
	go func() { done <- ctrl.Refresh(ctx) }()
	<-backend.started
	ctrl.Close()
	close(backend.gate("0"))

	err := <-done
	assert.ErrorIs(t, err, appErrors.ErrPageClosed)
	assert.Len(t, ctrl.State().Items, len(before.Items))
	assert.ErrorIs(t, ctrl.Refresh(ctx), appErrors.ErrPageClosed)
}

func TestPageWindow(t *testing.T) {
	cases := []struct {
		current, count int
		want           []int
	}{
		{1, 0, []int{}},
		{1, 3, []int{1, 2, 3}},
		{1, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{9, 10, []int{6, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PageWindow(tc.current, tc.count, 5), "current=%d count=%d", tc.current, tc.count)
	}
}
