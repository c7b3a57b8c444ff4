package listctrl

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/textfold"
)

// Status is the fetch lifecycle of a list.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusLoading    Status = "loading"
	StatusRefreshing Status = "refreshing"
	StatusError      Status = "error"
)

// AllSentinel marks a filter as not applied.
const AllSentinel = "all"

// DefaultSearchKey is the filter key holding free-text search.
const DefaultSearchKey = "search"

const pageWindow = 5

// Fetcher loads one page. The query carries limit, offset and the applied server filters.
type Fetcher[T any] func(ctx context.Context, query url.Values) (*models.ListResponse[T], error)

// Options configures a Controller for one resource.
type Options[T any] struct {
	PageSize int
	// Defaults seed the filter state on Initialize.
	Defaults map[string]string
	// ServerFilters are the filter keys forwarded as query parameters.
	ServerFilters []string
	SearchKey     string
	// SearchFields returns the text a row is searched over. Nil disables client search.
	SearchFields func(T) []string
	// ImplicitFilter hides rows after fetch (e.g. inactive records). Nil shows everything.
	ImplicitFilter func(T) bool
	// Encode maps a filter value onto its query form, e.g. "active" to "true".
	Encode func(key, value string) string
	Logger *zap.Logger
}

// State is a snapshot of the list. Items hold the last successful fetch for Filters and Page.
type State[T any] struct {
	Items        []T               `json:"items"`
	Meta         models.PageMeta   `json:"meta"`
	Filters      map[string]string `json:"filters"`
	Page         int               `json:"page"`
	Status       Status            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// View is the render model: the visible rows plus pagination helpers. Total is the server count
// and is never adjusted for client-side filtering; Shown counts the visible rows.
type View[T any] struct {
	Items        []T               `json:"items"`
	Meta         models.PageMeta   `json:"meta"`
	Filters      map[string]string `json:"filters"`
	Page         int               `json:"page"`
	PageCount    int               `json:"page_count"`
	Pages        []int             `json:"pages"`
	Shown        int               `json:"shown"`
	Total        int               `json:"total"`
	Status       Status            `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
}

// Controller coordinates fetch, filter, pagination and refresh for one resource. Every fetch is
// tagged with a sequence number; a response that is not the latest, or that arrives after Close,
// is discarded.
type Controller[T any] struct {
	mu      sync.Mutex
	fetch   Fetcher[T]
	opts    Options[T]
	server  map[string]bool
	state   State[T]
	seq     uint64
	closed  bool
	lastErr error
}

// New builds a controller. It does not fetch until Initialize is called.
func New[T any](fetch Fetcher[T], opts Options[T]) *Controller[T] {
	if opts.PageSize <= 0 {
		opts.PageSize = 10
	}
	if opts.SearchKey == "" {
		opts.SearchKey = DefaultSearchKey
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	server := make(map[string]bool, len(opts.ServerFilters))
	for _, key := range opts.ServerFilters {
		server[key] = true
	}
	return &Controller[T]{
		fetch:  fetch,
		opts:   opts,
		server: server,
		state: State[T]{
			Items:   []T{},
			Filters: copyFilters(opts.Defaults),
			Page:    1,
			Status:  StatusIdle,
		},
	}
}

type loadMode int

const (
	modeInitialize loadMode = iota
	modeFilter
	modePage
	modeRefresh
)

// Initialize resets filters to their defaults and loads page 1. On failure the rows are cleared.
func (c *Controller[T]) Initialize(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.ErrPageClosed
	}
	c.state.Filters = copyFilters(c.opts.Defaults)
	c.state.Page = 1
	c.state.Status = StatusLoading
	c.mu.Unlock()
	return c.load(ctx, 1, modeInitialize)
}

// SetFilter updates one filter, resets to page 1 and refetches. The previous rows are dropped
// because they belong to a different result set.
func (c *Controller[T]) SetFilter(ctx context.Context, key, value string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.ErrPageClosed
	}
	if c.state.Filters == nil {
		c.state.Filters = map[string]string{}
	}
	c.state.Filters[key] = value
	c.state.Page = 1
	c.state.Items = []T{}
	c.state.Meta = models.PageMeta{}
	c.state.Status = StatusLoading
	c.mu.Unlock()
	return c.load(ctx, 1, modeFilter)
}

// GoToPage loads page n keeping the current filters. Pages outside 1..ceil(total/limit) are
// ignored without error.
func (c *Controller[T]) GoToPage(ctx context.Context, n int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.ErrPageClosed
	}
	pageCount := c.state.Meta.PageCount(c.opts.PageSize)
	if n < 1 || n > pageCount {
		c.mu.Unlock()
		c.opts.Logger.Debug("ignoring out of range page", zap.Int("page", n), zap.Int("page_count", pageCount))
		return nil
	}
	c.state.Status = StatusLoading
	c.mu.Unlock()
	return c.load(ctx, n, modePage)
}

// Refresh refetches the current page and filters while keeping the rows visible.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return appErrors.ErrPageClosed
	}
	page := c.state.Page
	c.state.Status = StatusRefreshing
	c.mu.Unlock()
	return c.load(ctx, page, modeRefresh)
}

// AfterMutation reloads server state once a create, update or delete succeeded.
func (c *Controller[T]) AfterMutation(ctx context.Context) error {
	return c.Refresh(ctx)
}

// Close stops the controller from accepting work or applying in-flight responses.
func (c *Controller[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.seq++
}

// Closed reports whether Close was called.
func (c *Controller[T]) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Err returns the failure of the last applied fetch, if any.
func (c *Controller[T]) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// State returns a copy of the raw list state.
func (c *Controller[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = make([]T, len(c.state.Items))
	copy(s.Items, c.state.Items)
	s.Filters = copyFilters(c.state.Filters)
	return s
}

// View applies the implicit filter and client-side search to the fetched page.
func (c *Controller[T]) View() View[T] {
	s := c.State()

	query := ""
	if c.opts.SearchFields != nil && !c.server[c.opts.SearchKey] {
		query = applied(s.Filters[c.opts.SearchKey])
	}

	visible := make([]T, 0, len(s.Items))
	for _, item := range s.Items {
		if c.opts.ImplicitFilter != nil && !c.opts.ImplicitFilter(item) {
			continue
		}
		if query != "" && !textfold.ContainsAny(query, c.opts.SearchFields(item)...) {
			continue
		}
		visible = append(visible, item)
	}

	pageCount := s.Meta.PageCount(c.opts.PageSize)
	return View[T]{
		Items:        visible,
		Meta:         s.Meta,
		Filters:      s.Filters,
		Page:         s.Page,
		PageCount:    pageCount,
		Pages:        PageWindow(s.Page, pageCount, pageWindow),
		Shown:        len(visible),
		Total:        s.Meta.Total,
		Status:       s.Status,
		ErrorMessage: s.ErrorMessage,
	}
}

func (c *Controller[T]) queryLocked(page int) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(c.opts.PageSize))
	q.Set("offset", strconv.Itoa((page-1)*c.opts.PageSize))
	for _, key := range c.opts.ServerFilters {
		v := applied(c.state.Filters[key])
		if v != "" && c.opts.Encode != nil {
			v = c.opts.Encode(key, v)
		}
		if v != "" {
			q.Set(key, v)
		}
	}
	return q
}

func (c *Controller[T]) load(ctx context.Context, page int, mode loadMode) error {
	c.mu.Lock()
	c.seq++
	ticket := c.seq
	query := c.queryLocked(page)
	c.mu.Unlock()

	resp, err := c.fetch(ctx, query)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		if err != nil {
			return err
		}
		return appErrors.ErrPageClosed
	}
	if ticket != c.seq {
		c.opts.Logger.Debug("discarding stale list response", zap.Uint64("ticket", ticket), zap.Uint64("latest", c.seq))
		return appErrors.ErrStaleResponse
	}

	if err != nil {
		c.lastErr = err
		c.state.Status = StatusError
		c.state.ErrorMessage = appErrors.Message(err)
		if mode == modeInitialize {
			c.state.Items = []T{}
			c.state.Meta = models.PageMeta{}
		}
		return err
	}

	items := resp.Data
	if items == nil {
		items = []T{}
	}
	c.lastErr = nil
	c.state.Items = items
	c.state.Meta = resp.Meta
	c.state.Page = page
	c.state.Status = StatusIdle
	c.state.ErrorMessage = ""
	return nil
}

// PageWindow returns at most size page numbers centred on current.
func PageWindow(current, pageCount, size int) []int {
	if pageCount <= 0 || size <= 0 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > pageCount {
		current = pageCount
	}
	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > pageCount {
		end = pageCount
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

// applied returns the value to send, or "" when the value is the "all" sentinel or blank.
func applied(value string) string {
	value = strings.TrimSpace(value)
	if value == AllSentinel {
		return ""
	}
	return value
}

func copyFilters(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
