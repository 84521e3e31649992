package customer

import (
	"strings"
	"sync"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

// FieldRenderer shows or hides a field's error styling.
type FieldRenderer interface {
	RenderFieldError(field enums.CustomerField, invalid bool)
}

// Listener is told the form gate after every evaluation.
type Listener func(valid bool)

// Info is the trimmed customer identity submitted with a transaction.
type Info struct {
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	ExternalID string `json:"external_id"`
}

// FieldState reports one input's current validity and touch flag.
type FieldState struct {
	Value   string `json:"value"`
	Valid   bool   `json:"valid"`
	Touched bool   `json:"touched"`
}

// Form tracks the four customer inputs and derives the submit gate from their
// current values. Touch flags only decide when error styling appears.
type Form struct {
	mu        sync.Mutex
	values    map[enums.CustomerField]string
	touched   map[enums.CustomerField]bool
	valid     map[enums.CustomerField]bool
	renderer  FieldRenderer
	listeners []Listener
}

// Option configures a Form.
type Option func(*Form)

// WithRenderer routes field error styling to r.
func WithRenderer(r FieldRenderer) Option {
	return func(f *Form) {
		f.renderer = r
	}
}

// WithValues pre-fills the form, as browser autofill would.
func WithValues(values map[enums.CustomerField]string) Option {
	return func(f *Form) {
		for field, value := range values {
			if field.IsValid() {
				f.values[field] = normalize(field, value)
			}
		}
	}
}

// NewForm builds the form and evaluates it once so the gate starts correct.
func NewForm(opts ...Option) *Form {
	f := &Form{
		values:  make(map[enums.CustomerField]string, len(enums.CustomerFields)),
		touched: make(map[enums.CustomerField]bool, len(enums.CustomerFields)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	f.evaluate()
	return f
}

// Subscribe registers fn to receive the gate after every evaluation.
func (f *Form) Subscribe(fn Listener) {
	if fn == nil {
		return
	}
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
}

// Set records a keystroke on field: it marks the field touched, sanitizes
// phone input and re-evaluates the whole form.
func (f *Form) Set(field enums.CustomerField, value string) error {
	if !field.IsValid() {
		return pkgerrors.New(pkgerrors.CodeNotFound, "unknown customer field").WithDetails(map[string]any{"field": field})
	}
	f.mu.Lock()
	f.values[field] = normalize(field, value)
	f.touched[field] = true
	f.mu.Unlock()

	f.evaluate()
	return nil
}

// Value returns the stored (sanitized, untrimmed) value of field.
func (f *Form) Value(field enums.CustomerField) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.values[field]
}

// IsValid is the submit gate: every field passes.
func (f *Form) IsValid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return allValid(f.valid)
}

// Fields returns the state of every input keyed by field.
func (f *Form) Fields() map[enums.CustomerField]FieldState {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[enums.CustomerField]FieldState, len(enums.CustomerFields))
	for _, field := range enums.CustomerFields {
		out[field] = FieldState{
			Value:   f.values[field],
			Valid:   f.valid[field],
			Touched: f.touched[field],
		}
	}
	return out
}

// Validate returns one validation error per invalid field, combined.
func (f *Form) Validate() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var err error
	for _, field := range enums.CustomerFields {
		if f.valid[field] {
			continue
		}
		err = multierr.Append(err, pkgerrors.New(pkgerrors.CodeValidation, invalidMessages[field]).WithDetails(map[string]any{
			"field": field,
		}))
	}
	return err
}

// Info returns the trimmed customer values.
func (f *Form) Info() Info {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info()
}

// Snapshot returns the trimmed customer values together with the gate
// computed from those same values.
func (f *Form) Snapshot() (Info, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	info := f.info()
	return info, allValid(check(info.values()))
}

func (f *Form) info() Info {
	return Info{
		Name:       strings.TrimSpace(f.values[enums.CustomerFieldName]),
		Phone:      strings.TrimSpace(f.values[enums.CustomerFieldPhone]),
		Email:      strings.TrimSpace(f.values[enums.CustomerFieldEmail]),
		ExternalID: strings.TrimSpace(f.values[enums.CustomerFieldExternalID]),
	}
}

func (i Info) values() fieldValues {
	return fieldValues{
		Name:       i.Name,
		Phone:      i.Phone,
		Email:      i.Email,
		ExternalID: i.ExternalID,
	}
}

func (f *Form) evaluate() {
	f.mu.Lock()
	f.valid = check(f.info().values())
	gate := allValid(f.valid)
	styling := make(map[enums.CustomerField]bool, len(enums.CustomerFields))
	for _, field := range enums.CustomerFields {
		styling[field] = f.touched[field] && !f.valid[field]
	}
	renderer := f.renderer
	listeners := make([]Listener, len(f.listeners))
	copy(listeners, f.listeners)
	f.mu.Unlock()

	if renderer != nil {
		for _, field := range enums.CustomerFields {
			renderer.RenderFieldError(field, styling[field])
		}
	}
	for _, fn := range listeners {
		fn(gate)
	}
}

func normalize(field enums.CustomerField, value string) string {
	if field == enums.CustomerFieldPhone {
		return SanitizePhone(value)
	}
	return value
}

func allValid(valid map[enums.CustomerField]bool) bool {
	for _, field := range enums.CustomerFields {
		if !valid[field] {
			return false
		}
	}
	return true
}
