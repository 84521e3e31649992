package customer

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/storefront/pkg/enums"
)

// MailDomain is the only mail provider accepted for customer emails.
const MailDomain = "gmail.com"

var (
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	emailPattern  = regexp.MustCompile(`^[^\s@]+@` + regexp.QuoteMeta(MailDomain) + `$`)
	nonDigits     = regexp.MustCompile(`[^0-9]`)
)

// fieldValues is the trimmed form content checked by the validator.
type fieldValues struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"digits_only"`
	Email      string `json:"email" validate:"mail_domain"`
	ExternalID string `json:"external_id" validate:"required"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	mustRegister(v, "digits_only", func(fl validator.FieldLevel) bool {
		return digitsPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, "mail_domain", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

// check returns the validity of every field for the given trimmed values.
func check(values fieldValues) map[enums.CustomerField]bool {
	result := make(map[enums.CustomerField]bool, len(enums.CustomerFields))
	for _, field := range enums.CustomerFields {
		result[field] = true
	}
	err := validate.Struct(values)
	if err == nil {
		return result
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		for _, field := range enums.CustomerFields {
			result[field] = false
		}
		return result
	}
	for _, fieldErr := range errs {
		if field, parseErr := enums.ParseCustomerField(fieldErr.Field()); parseErr == nil {
			result[field] = false
		}
	}
	return result
}

// SanitizePhone strips every non-digit character.
func SanitizePhone(value string) string {
	return nonDigits.ReplaceAllString(value, "")
}

var invalidMessages = map[enums.CustomerField]string{
	enums.CustomerFieldName:       "name is required",
	enums.CustomerFieldPhone:      "phone must contain digits only",
	enums.CustomerFieldEmail:      "email must be a " + MailDomain + " address",
	enums.CustomerFieldExternalID: "feedio id is required",
}
