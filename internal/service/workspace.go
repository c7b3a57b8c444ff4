package service

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/admission-admin/internal/repository"
	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

// PageFactory builds a fresh page.
type PageFactory func() Page

// Workspace holds the open page of every resource for the single operator context. Reset closes
// every page and replaces it with a fresh one, discarding list and dialog state.
type Workspace struct {
	mu        sync.RWMutex
	factories map[string]PageFactory
	pages     map[string]Page
	logger    *zap.Logger
}

// NewWorkspace builds one page per factory.
func NewWorkspace(factories map[string]PageFactory, logger *zap.Logger) *Workspace {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workspace{factories: factories, pages: make(map[string]Page, len(factories)), logger: logger}
	for resource, build := range factories {
		w.pages[resource] = build()
	}
	return w
}

// NewCatalogWorkspace wires the seven resource screens.
func NewCatalogWorkspace(deps PageDeps) *Workspace {
	return NewWorkspace(map[string]PageFactory{
		repository.ResourceDepartments:      func() Page { return NewDepartmentsPage(deps) },
		repository.ResourcePrograms:         func() Page { return NewProgramsPage(deps) },
		repository.ResourceCampuses:         func() Page { return NewCampusesPage(deps) },
		repository.ResourceTuition:          func() Page { return NewTuitionPage(deps) },
		repository.ResourceScholarships:     func() Page { return NewScholarshipsPage(deps) },
		repository.ResourceAdmissionMethods: func() Page { return NewAdmissionMethodsPage(deps) },
		repository.ResourceUsers:            func() Page { return NewUsersPage(deps) },
	}, deps.Logger)
}

// Page returns the open page for resource.
func (w *Workspace) Page(resource string) (Page, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	page, ok := w.pages[resource]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "unknown resource "+resource)
	}
	return page, nil
}

// Resources lists the registered resource names in order.
func (w *Workspace) Resources() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	names := make([]string, 0, len(w.pages))
	for name := range w.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Reset closes every page and opens fresh ones.
func (w *Workspace) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for resource, page := range w.pages {
		page.Close()
		w.pages[resource] = w.factories[resource]()
	}
	w.logger.Info("workspace reset", zap.Int("pages", len(w.pages)))
}

// Close closes every page.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, page := range w.pages {
		page.Close()
	}
}
