package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/form"
	"github.com/noah-isme/admission-admin/internal/listctrl"
	"github.com/noah-isme/admission-admin/internal/models"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
	"github.com/noah-isme/admission-admin/pkg/export"
)

// resourceRepository is the CRUD surface a page drives.
type resourceRepository[T any] interface {
	List(ctx context.Context, query url.Values) (*models.ListResponse[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, payload interface{}) (*T, error)
	Update(ctx context.Context, id string, payload interface{}) (*T, error)
	Delete(ctx context.Context, id string) error
}

// Column is one exported column.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// PageConfig wires one resource screen.
type PageConfig[T any, F any] struct {
	Resource string
	Title    string
	Repo     resourceRepository[T]
	Schema   form.Schema[F, T]
	List     listctrl.Options[T]
	Columns  []Column[T]
	// BeforeDelete runs a pre-flight check and returns an error to abort the delete.
	BeforeDelete func(ctx context.Context, entity T) error
	// RewriteDeleteError turns a server refusal into an actionable message.
	RewriteDeleteError func(err error, entity T) error
	Cache              *CacheService
	Logger             *zap.Logger
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Page is the type-erased screen used by the HTTP layer.
type Page interface {
	Resource() string
	Initialize(ctx context.Context) error
	View() interface{}
	SetFilter(ctx context.Context, key, value string) error
	GoToPage(ctx context.Context, n int) error
	Refresh(ctx context.Context) error
	OpenCreate() (interface{}, error)
	OpenEdit(ctx context.Context, id string) (interface{}, error)
	PatchDialog(mode form.Mode, raw []byte) (interface{}, error)
	SubmitDialog(ctx context.Context, mode form.Mode) (interface{}, error)
	CloseDialog(mode form.Mode) (interface{}, error)
	DialogState(mode form.Mode) (interface{}, error)
	Delete(ctx context.Context, id string) error
	Export(format string) (*ExportFile, error)
	Close()
}

// ResourcePage owns one resource's list state plus its create and edit dialogs.
type ResourcePage[T any, F any] struct {
	cfg    PageConfig[T, F]
	list   *listctrl.Controller[T]
	create *form.Dialog[F, T]
	edit   *form.Dialog[F, T]
	logger *zap.Logger
}

// NewResourcePage builds a page. Nothing is fetched until Initialize.
func NewResourcePage[T any, F any](cfg PageConfig[T, F]) *ResourcePage[T, F] {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	logger := cfg.Logger.With(zap.String("resource", cfg.Resource))
	p := &ResourcePage[T, F]{cfg: cfg, logger: logger}

	opts := cfg.List
	opts.Logger = logger
	p.list = listctrl.New(p.fetch, opts)
	p.create = form.NewDialog(cfg.Schema, p.submit, p.afterMutation, logger)
	p.edit = form.NewDialog(cfg.Schema, p.submit, p.afterMutation, logger)
	return p
}

// Resource returns the resource name.
func (p *ResourcePage[T, F]) Resource() string {
	return p.cfg.Resource
}

// List exposes the underlying controller.
func (p *ResourcePage[T, F]) List() *listctrl.Controller[T] {
	return p.list
}

// Initialize loads page 1 with the default filters.
func (p *ResourcePage[T, F]) Initialize(ctx context.Context) error {
	return p.list.Initialize(ctx)
}

// View returns the typed render model.
func (p *ResourcePage[T, F]) View() interface{} {
	return p.list.View()
}

// SetFilter changes one filter and reloads page 1.
func (p *ResourcePage[T, F]) SetFilter(ctx context.Context, key, value string) error {
	return p.list.SetFilter(ctx, key, value)
}

// GoToPage loads page n; out of range pages are ignored.
func (p *ResourcePage[T, F]) GoToPage(ctx context.Context, n int) error {
	return p.list.GoToPage(ctx, n)
}

// Refresh reloads the current page from the server, bypassing cached pages.
func (p *ResourcePage[T, F]) Refresh(ctx context.Context) error {
	p.cfg.Cache.InvalidateResource(ctx, p.cfg.Resource)
	return p.list.Refresh(ctx)
}

// OpenCreate opens the create dialog with default fields.
func (p *ResourcePage[T, F]) OpenCreate() (interface{}, error) {
	if err := p.create.Open(nil); err != nil {
		return nil, err
	}
	return p.create.State(), nil
}

// OpenEdit opens the edit dialog for id, taking the row from the current page when present.
func (p *ResourcePage[T, F]) OpenEdit(ctx context.Context, id string) (interface{}, error) {
	entity, err := p.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.edit.Open(entity); err != nil {
		return nil, err
	}
	return p.edit.State(), nil
}

// PatchDialog merges field values into a dialog.
func (p *ResourcePage[T, F]) PatchDialog(mode form.Mode, raw []byte) (interface{}, error) {
	dialog, err := p.dialog(mode)
	if err != nil {
		return nil, err
	}
	if err := dialog.Patch(raw); err != nil {
		return dialog.State(), err
	}
	return dialog.State(), nil
}

// SubmitDialog validates and sends a dialog. The returned state is valid on failure too.
func (p *ResourcePage[T, F]) SubmitDialog(ctx context.Context, mode form.Mode) (interface{}, error) {
	dialog, err := p.dialog(mode)
	if err != nil {
		return nil, err
	}
	err = dialog.Submit(ctx)
	return dialog.State(), err
}

// CloseDialog hides a dialog.
func (p *ResourcePage[T, F]) CloseDialog(mode form.Mode) (interface{}, error) {
	dialog, err := p.dialog(mode)
	if err != nil {
		return nil, err
	}
	dialog.Close()
	return dialog.State(), nil
}

// DialogState returns a dialog's current state.
func (p *ResourcePage[T, F]) DialogState(mode form.Mode) (interface{}, error) {
	dialog, err := p.dialog(mode)
	if err != nil {
		return nil, err
	}
	return dialog.State(), nil
}

// Delete removes id after the pre-flight check, then reloads the list.
func (p *ResourcePage[T, F]) Delete(ctx context.Context, id string) error {
	var entity T
	if p.cfg.BeforeDelete != nil || p.cfg.RewriteDeleteError != nil {
		found, err := p.find(ctx, id)
		if err != nil {
			return err
		}
		entity = *found
	}
	if p.cfg.BeforeDelete != nil {
		if err := p.cfg.BeforeDelete(ctx, entity); err != nil {
			p.logger.Info("delete rejected by pre-flight check", zap.String("id", id), zap.Error(err))
			return err
		}
	}
	if err := p.cfg.Repo.Delete(ctx, id); err != nil {
		if p.cfg.RewriteDeleteError != nil {
			err = p.cfg.RewriteDeleteError(err, entity)
		}
		return err
	}
	if err := p.afterMutation(ctx); err != nil {
		p.logger.Warn("list refresh after delete failed", zap.String("id", id), zap.Error(err))
	}
	return nil
}

// Export renders the visible rows of the current page.
func (p *ResourcePage[T, F]) Export(format string) (*ExportFile, error) {
	renderer, err := export.ForFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.CodeValidation, appErrors.ErrValidation.Status, err.Error())
	}
	view := p.list.View()
	dataset := export.Dataset{
		Title:   p.cfg.Title,
		Headers: make([]string, 0, len(p.cfg.Columns)),
		Rows:    make([][]string, 0, len(view.Items)),
	}
	for _, col := range p.cfg.Columns {
		dataset.Headers = append(dataset.Headers, col.Header)
	}
	for _, item := range view.Items {
		row := make([]string, 0, len(p.cfg.Columns))
		for _, col := range p.cfg.Columns {
			row = append(row, col.Value(item))
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s%s", p.cfg.Resource, time.Now().Format("20060102"), renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Close stops the page; in-flight responses are discarded.
func (p *ResourcePage[T, F]) Close() {
	p.list.Close()
	p.create.Close()
	p.edit.Close()
}

func (p *ResourcePage[T, F]) dialog(mode form.Mode) (*form.Dialog[F, T], error) {
	switch form.Mode(strings.ToLower(string(mode))) {
	case form.ModeCreate:
		return p.create, nil
	case form.ModeEdit:
		return p.edit, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown dialog mode %q", mode))
	}
}

func (p *ResourcePage[T, F]) find(ctx context.Context, id string) (*T, error) {
	if p.cfg.Schema.EntityID != nil {
		for _, item := range p.list.State().Items {
			if p.cfg.Schema.EntityID(item) == id {
				found := item
				return &found, nil
			}
		}
	}
	return p.cfg.Repo.Get(ctx, id)
}

func (p *ResourcePage[T, F]) fetch(ctx context.Context, query url.Values) (*models.ListResponse[T], error) {
	key := ListKey(p.cfg.Resource, query)
	var cached models.ListResponse[T]
	if p.cfg.Cache.Get(ctx, key, &cached) {
		if cached.Data == nil {
			cached.Data = []T{}
		}
		return &cached, nil
	}
	resp, err := p.cfg.Repo.List(ctx, query)
	if err != nil {
		return nil, err
	}
	p.cfg.Cache.Set(ctx, key, resp)
	return resp, nil
}

func (p *ResourcePage[T, F]) submit(ctx context.Context, mode form.Mode, id string, payload interface{}) error {
	if mode == form.ModeEdit {
		_, err := p.cfg.Repo.Update(ctx, id, payload)
		return err
	}
	_, err := p.cfg.Repo.Create(ctx, payload)
	return err
}

// afterMutation drops every cached list (joined fields span resources) and reloads from the server.
func (p *ResourcePage[T, F]) afterMutation(ctx context.Context) error {
	p.cfg.Cache.InvalidateLists(ctx)
	return p.list.AfterMutation(ctx)
}
