// Package validation checks incoming payloads against the field rules of the contacts API and
// reports every broken rule at once.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var (
	phonePattern   = regexp.MustCompile(`^(\+\d{1,3}[- ]?)?\d{10}$`)
	zipCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
)

// messages holds the user facing text per "<json field>.<tag>".
var messages = map[string]string{
	"firstName.notblank": "First name is required",
	"firstName.max":      "First name must be between 1 and 50 characters",
	"lastName.notblank":  "Last name is required",
	"lastName.max":       "Last name must be between 1 and 50 characters",
	"email.emailaddress": "Please provide a valid email address",
	"email.max":          "Email cannot exceed 255 characters",
	"phone.phonenumber":  "Please provide a valid phone number",
	"address.max":        "Address cannot exceed 200 characters",
	"city.max":           "City cannot exceed 100 characters",
	"state.max":          "State cannot exceed 50 characters",
	"zipCode.zipcode":    "Please provide a valid ZIP code (e.g., 12345 or 12345-6789)",
	"country.max":        "Country cannot exceed 100 characters",
	"categoryId.gt":      CategoryNotFound,
	"name.notblank":      "Name is required",
	"name.max":           "Name cannot exceed 100 characters",
	"description.max":    "Description cannot exceed 500 characters",
}

// CategoryNotFound is reported for a categoryId that does not reference a stored category.
const CategoryNotFound = "Category does not exist"

// Violation is a single broken rule.
type Violation struct {
	Field   string
	Message string
}

// Violations is the collection of broken rules of one payload. A nil or empty collection means
// the payload is valid.
type Violations []Violation

func (v Violations) Error() string {
	parts := make([]string, 0, len(v))
	for _, violation := range v {
		parts = append(parts, violation.Field+": "+violation.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ByField groups the messages by field name, keeping their order.
func (v Violations) ByField() map[string][]string {
	grouped := make(map[string][]string, len(v))
	for _, violation := range v {
		grouped[violation.Field] = append(grouped[violation.Field], violation.Message)
	}
	return grouped
}

// Validator evaluates the `validate` struct tags of request payloads.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator with the custom rules of the contacts API registered.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	mustRegister(validate, "notblank", validators.NotBlank)
	mustRegister(validate, "emailaddress", emailAddress(validate))
	mustRegister(validate, "phonenumber", matches(phonePattern))
	mustRegister(validate, "zipcode", matches(zipCodePattern))
	return &Validator{validate: validate}
}

// Struct validates payload and returns all violations. It returns nil for a valid payload.
func (v *Validator) Struct(payload any) Violations {
	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return Violations{{Field: "", Message: err.Error()}}
	}
	violations := make(Violations, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, Violation{Field: fe.Field(), Message: message(fe)})
	}
	return violations
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}

// The custom string rules accept "": omitempty only skips nil pointers, and an empty optional
// field counts as absent.

func matches(pattern *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || pattern.MatchString(value)
	}
}

func emailAddress(validate *validator.Validate) validator.Func {
	return func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || validate.Var(value, "email") == nil
	}
}

// jsonFieldName makes the validator report fields by their JSON name.
func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func mustRegister(validate *validator.Validate, tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}
