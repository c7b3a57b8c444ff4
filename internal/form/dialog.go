package form

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/admission-admin/pkg/errors"
)

// Mode distinguishes a create dialog from an edit dialog.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Schema describes one resource's form: how fields are seeded, checked and turned into a payload.
type Schema[F any, E any] struct {
	Resource string
	Defaults func() F
	// FromEntity must be deterministic so reopening an edit dialog yields identical fields.
	FromEntity func(E) F
	EntityID   func(E) string
	// Check adds mode dependent rules on top of the struct tags.
	Check   func(fields F, mode Mode) map[string]string
	Payload func(fields F, mode Mode) interface{}
	// Messages overrides validator messages keyed by "field.tag".
	Messages map[string]string
}

// SubmitFunc performs the create (empty id) or update call.
type SubmitFunc func(ctx context.Context, mode Mode, id string, payload interface{}) error

// SuccessFunc runs after a successful submit, typically the list's AfterMutation.
type SuccessFunc func(ctx context.Context) error

// State is the observable dialog state.
type State[F any] struct {
	Open         bool              `json:"open"`
	Mode         Mode              `json:"mode"`
	EntityID     string            `json:"entity_id,omitempty"`
	Fields       F                 `json:"fields"`
	Errors       map[string]string `json:"errors"`
	IsSubmitting bool              `json:"is_submitting"`
	SubmitError  string            `json:"submit_error,omitempty"`
}

// Dialog owns the lifecycle of one create-or-edit form.
type Dialog[F any, E any] struct {
	mu        sync.Mutex
	schema    Schema[F, E]
	validate  *validator.Validate
	submit    SubmitFunc
	onSuccess SuccessFunc
	logger    *zap.Logger
	state     State[F]
}

// NewDialog builds a closed dialog.
func NewDialog[F any, E any](schema Schema[F, E], submit SubmitFunc, onSuccess SuccessFunc, logger *zap.Logger) *Dialog[F, E] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dialog[F, E]{
		schema:    schema,
		validate:  newValidator(),
		submit:    submit,
		onSuccess: onSuccess,
		logger:    logger,
		state:     State[F]{Mode: ModeCreate, Fields: schema.Defaults(), Errors: map[string]string{}},
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Open reinitialises the fields from entity (edit) or from the defaults (create) and clears errors.
func (d *Dialog[F, E]) Open(entity *E) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state.IsSubmitting {
		return appErrors.ErrSubmitInProgress
	}
	next := State[F]{Open: true, Errors: map[string]string{}}
	if entity != nil {
		next.Mode = ModeEdit
		next.Fields = d.schema.FromEntity(*entity)
		if d.schema.EntityID != nil {
			next.EntityID = d.schema.EntityID(*entity)
		}
	} else {
		next.Mode = ModeCreate
		next.Fields = d.schema.Defaults()
	}
	d.state = next
	return nil
}

// Close hides the dialog. Entered values are discarded on the next Open.
func (d *Dialog[F, E]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Open = false
}

// Patch merges a JSON object into the current fields.
func (d *Dialog[F, E]) Patch(raw []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.state.Open {
		return appErrors.ErrDialogClosed
	}
	if d.state.IsSubmitting {
		return appErrors.ErrSubmitInProgress
	}
	fields := d.state.Fields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return appErrors.Wrap(err, appErrors.CodeClientValidation, appErrors.ErrClientValidation.Status, "malformed form fields")
	}
	d.state.Fields = fields
	return nil
}

// Validate runs every rule, stores the per-field messages and reports whether the form is valid.
func (d *Dialog[F, E]) Validate() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Errors = d.check(d.state.Fields, d.state.Mode)
	return len(d.state.Errors) == 0
}

// Submit validates and sends the form. Invalid input never reaches the network. On failure the
// dialog stays open with the entered values intact; on success it closes and calls onSuccess.
func (d *Dialog[F, E]) Submit(ctx context.Context) error {
	d.mu.Lock()
	if !d.state.Open {
		d.mu.Unlock()
		return appErrors.ErrDialogClosed
	}
	if d.state.IsSubmitting {
		d.mu.Unlock()
		return appErrors.ErrSubmitInProgress
	}
	errs := d.check(d.state.Fields, d.state.Mode)
	d.state.Errors = errs
	if len(errs) > 0 {
		d.mu.Unlock()
		return appErrors.WithFields(errs)
	}
	d.state.IsSubmitting = true
	d.state.SubmitError = ""
	mode, id := d.state.Mode, d.state.EntityID
	payload := d.schema.Payload(d.state.Fields, mode)
	d.mu.Unlock()

	err := d.submit(ctx, mode, id, payload)

	d.mu.Lock()
	d.state.IsSubmitting = false
	if err != nil {
		d.state.SubmitError = appErrors.Message(err)
		d.mu.Unlock()
		d.logger.Info("form submit failed",
			zap.String("resource", d.schema.Resource),
			zap.String("mode", string(mode)),
			zap.Error(err),
		)
		return err
	}
	d.state.Open = false
	d.mu.Unlock()

	if d.onSuccess != nil {
		if err := d.onSuccess(ctx); err != nil {
			d.logger.Warn("list refresh after mutation failed", zap.String("resource", d.schema.Resource), zap.Error(err))
		}
	}
	return nil
}

// State returns a copy of the dialog state.
func (d *Dialog[F, E]) State() State[F] {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	s.Errors = make(map[string]string, len(d.state.Errors))
	for k, v := range d.state.Errors {
		s.Errors[k] = v
	}
	return s
}

func (d *Dialog[F, E]) check(fields F, mode Mode) map[string]string {
	errs := map[string]string{}
	if err := d.validate.Struct(fields); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			errs["_form"] = err.Error()
			return errs
		}
		for _, fe := range verrs {
			name := fe.Field()
			if _, seen := errs[name]; seen {
				continue
			}
			if msg, ok := d.schema.Messages[name+"."+fe.Tag()]; ok {
				errs[name] = msg
				continue
			}
			errs[name] = describe(fe)
		}
	}
	if d.schema.Check != nil {
		for name, msg := range d.schema.Check(fields, mode) {
			if _, seen := errs[name]; !seen {
				errs[name] = msg
			}
		}
	}
	return errs
}

func describe(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "min":
		if isText {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if isText {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "is invalid"
	}
}
