package customer

import (
	"testing"

	"go.uber.org/multierr"

	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
)

type recordingRenderer struct {
	calls map[enums.CustomerField][]bool
}

func newRecordingRenderer() *recordingRenderer {
	return &recordingRenderer{calls: map[enums.CustomerField][]bool{}}
}

func (r *recordingRenderer) RenderFieldError(field enums.CustomerField, invalid bool) {
	r.calls[field] = append(r.calls[field], invalid)
}

func (r *recordingRenderer) last(field enums.CustomerField) bool {
	calls := r.calls[field]
	return calls[len(calls)-1]
}

func fill(t *testing.T, f *Form, values map[enums.CustomerField]string) {
	t.Helper()
	for _, field := range enums.CustomerFields {
		if err := f.Set(field, values[field]); err != nil {
			t.Fatalf("set %s: %v", field, err)
		}
	}
}

func validValues() map[enums.CustomerField]string {
	return map[enums.CustomerField]string{
		enums.CustomerFieldName:       "Ana",
		enums.CustomerFieldPhone:      "0812",
		enums.CustomerFieldEmail:      "ana@gmail.com",
		enums.CustomerFieldExternalID: "X1",
	}
}

func TestGateTrueOnlyWhenAllFieldsValid(t *testing.T) {
	form := NewForm()
	fill(t, form, validValues())
	if !form.IsValid() {
		t.Fatalf("expected gate open for %+v", form.Fields())
	}

	if err := form.Set(enums.CustomerFieldEmail, "ana@yahoo.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if form.IsValid() {
		t.Fatalf("expected gate closed for non gmail address")
	}
}

func TestFieldRules(t *testing.T) {
	cases := []struct {
		field enums.CustomerField
		value string
		valid bool
	}{
		{enums.CustomerFieldName, "Ana", true},
		{enums.CustomerFieldName, "   ", false},
		{enums.CustomerFieldName, "", false},
		{enums.CustomerFieldPhone, "0812345", true},
		{enums.CustomerFieldPhone, "", false},
		{enums.CustomerFieldPhone, "+62 812-34", true},
		{enums.CustomerFieldPhone, "abc", false},
		{enums.CustomerFieldEmail, "ana@gmail.com", true},
		{enums.CustomerFieldEmail, "  ana@gmail.com  ", true},
		{enums.CustomerFieldEmail, "ana@yahoo.com", false},
		{enums.CustomerFieldEmail, "a na@gmail.com", false},
		{enums.CustomerFieldEmail, "ana@x@gmail.com", false},
		{enums.CustomerFieldEmail, "@gmail.com", false},
		{enums.CustomerFieldEmail, "ana@gmailxcom", false},
		{enums.CustomerFieldExternalID, "X1", true},
		{enums.CustomerFieldExternalID, "\t", false},
	}
	for _, tc := range cases {
		form := NewForm()
		if err := form.Set(tc.field, tc.value); err != nil {
			t.Fatalf("set %s: %v", tc.field, err)
		}
		if got := form.Fields()[tc.field].Valid; got != tc.valid {
			t.Fatalf("%s=%q valid=%v want %v", tc.field, tc.value, got, tc.valid)
		}
	}
}

func TestPhoneIsSanitizedBeforeValidation(t *testing.T) {
	form := NewForm()
	if err := form.Set(enums.CustomerFieldPhone, "+62 (812) 555"); err != nil {
		t.Fatalf("set phone: %v", err)
	}
	if got := form.Value(enums.CustomerFieldPhone); got != "62812555" {
		t.Fatalf("expected sanitized phone, got %q", got)
	}
	if !form.Fields()[enums.CustomerFieldPhone].Valid {
		t.Fatalf("sanitized phone should be valid")
	}
}

func TestEagerEvaluationWithPrefilledValues(t *testing.T) {
	var gates []bool
	form := NewForm(WithValues(validValues()))
	form.Subscribe(func(valid bool) { gates = append(gates, valid) })
	if !form.IsValid() {
		t.Fatalf("prefilled form should start valid")
	}

	empty := NewForm()
	if empty.IsValid() {
		t.Fatalf("empty form must start with the gate closed")
	}
	if len(gates) != 0 {
		t.Fatalf("subscribers added after construction should not see the eager evaluation")
	}
}

func TestErrorStylingFollowsTouch(t *testing.T) {
	renderer := newRecordingRenderer()
	form := NewForm(WithRenderer(renderer))

	for _, field := range enums.CustomerFields {
		if renderer.last(field) {
			t.Fatalf("untouched field %s should not show an error", field)
		}
	}

	if err := form.Set(enums.CustomerFieldEmail, "ana@yahoo.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	if !renderer.last(enums.CustomerFieldEmail) {
		t.Fatalf("touched invalid email should show an error")
	}
	if renderer.last(enums.CustomerFieldName) {
		t.Fatalf("untouched name should stay clean even though it is invalid")
	}
	fields := form.Fields()
	if fields[enums.CustomerFieldName].Touched || !fields[enums.CustomerFieldEmail].Touched {
		t.Fatalf("unexpected touch flags %+v", fields)
	}
}

func TestListenersSeeEveryEvaluation(t *testing.T) {
	form := NewForm()
	var gates []bool
	form.Subscribe(func(valid bool) { gates = append(gates, valid) })
	fill(t, form, validValues())
	if len(gates) != 4 {
		t.Fatalf("expected one notification per keystroke, got %d", len(gates))
	}
	if gates[2] || !gates[3] {
		t.Fatalf("gate should open only on the last field, got %v", gates)
	}
}

func TestValidateCombinesFieldErrors(t *testing.T) {
	form := NewForm()
	if err := form.Set(enums.CustomerFieldName, "Ana"); err != nil {
		t.Fatalf("set name: %v", err)
	}
	err := form.Validate()
	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 field errors, got %d (%v)", len(errs), err)
	}
	for _, e := range errs {
		if !pkgerrors.Is(e, pkgerrors.CodeValidation) {
			t.Fatalf("expected validation code, got %v", e)
		}
	}

	fill(t, form, validValues())
	if err := form.Validate(); err != nil {
		t.Fatalf("expected nil error for valid form, got %v", err)
	}
}

func TestInfoTrimsValues(t *testing.T) {
	form := NewForm()
	fill(t, form, map[enums.CustomerField]string{
		enums.CustomerFieldName:       "  Ana  ",
		enums.CustomerFieldPhone:      "0812",
		enums.CustomerFieldEmail:      " ana@gmail.com",
		enums.CustomerFieldExternalID: "X1 ",
	})
	want := Info{Name: "Ana", Phone: "0812", Email: "ana@gmail.com", ExternalID: "X1"}
	if got := form.Info(); got != want {
		t.Fatalf("expected %+v got %+v", want, got)
	}
}

func TestSetUnknownField(t *testing.T) {
	form := NewForm()
	if err := form.Set("address", "x"); !pkgerrors.Is(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSnapshotPairsValuesWithGate(t *testing.T) {
	f := NewForm(WithValues(map[enums.CustomerField]string{
		enums.CustomerFieldName:       " Ana ",
		enums.CustomerFieldPhone:      "0812",
		enums.CustomerFieldEmail:      "ana@gmail.com",
		enums.CustomerFieldExternalID: "X1",
	}))

	info, valid := f.Snapshot()
	if !valid || info.Name != "Ana" || info.Email != "ana@gmail.com" {
		t.Fatalf("unexpected snapshot %+v valid=%v", info, valid)
	}

	if err := f.Set(enums.CustomerFieldEmail, "ana@yahoo.com"); err != nil {
		t.Fatalf("set email: %v", err)
	}
	info, valid = f.Snapshot()
	if valid {
		t.Fatalf("expected gate closed for %q", info.Email)
	}
	if info.Email != "ana@yahoo.com" {
		t.Fatalf("expected snapshot to carry the new email, got %q", info.Email)
	}
}
