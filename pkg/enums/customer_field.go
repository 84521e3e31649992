package enums

import "fmt"

// CustomerField names one input of the checkout customer form.
type CustomerField string

const (
	CustomerFieldName       CustomerField = "name"
	CustomerFieldPhone      CustomerField = "phone"
	CustomerFieldEmail      CustomerField = "email"
	CustomerFieldExternalID CustomerField = "external_id"
)

// CustomerFields lists the form inputs in display order.
var CustomerFields = []CustomerField{
	CustomerFieldName,
	CustomerFieldPhone,
	CustomerFieldEmail,
	CustomerFieldExternalID,
}

// String implements fmt.Stringer.
func (c CustomerField) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CustomerField.
func (c CustomerField) IsValid() bool {
	for _, candidate := range CustomerFields {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCustomerField converts raw input into a CustomerField.
func ParseCustomerField(value string) (CustomerField, error) {
	for _, candidate := range CustomerFields {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid customer field %q", value)
}
