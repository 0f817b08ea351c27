package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/contacts-page/pkg/model"
)

func ptr[T any](v T) *T { return &v }

// TestCreateValid verifies that a complete and correct payload passes.
func TestCreateValid(t *testing.T) {
	v := New()
	violations := v.Struct(model.CreateContactRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     ptr("johndoe@gmail.com"),
		Phone:     ptr("+1 1234567890"),
		Address:   ptr("123 Main St"),
		City:      ptr("Anytown"),
		State:     ptr("CA"),
		ZipCode:   ptr("12345-6789"),
		Country:   ptr("USA"),
	})
	assert.Empty(t, violations)
}

// TestCreateOnlyNames verifies that all optional fields may be left out.
func TestCreateOnlyNames(t *testing.T) {
	v := New()
	assert.Empty(t, v.Struct(model.CreateContactRequest{FirstName: "John", LastName: "Doe"}))
}

// TestCreateEmptyOptionalFields verifies that empty optional strings count as absent.
func TestCreateEmptyOptionalFields(t *testing.T) {
	v := New()
	violations := v.Struct(model.CreateContactRequest{
		FirstName: "John",
		LastName:  "Doe",
		Email:     ptr(""),
		Phone:     ptr(""),
		ZipCode:   ptr(""),
	})
	assert.Empty(t, violations)

	assert.Empty(t, v.Struct(model.UpdateContactRequest{Email: ptr(""), Phone: ptr(""), ZipCode: ptr("")}))
}

// TestEmailLength verifies that an email address must fit into its 255 character column.
func TestEmailLength(t *testing.T) {
	v := New()
	local := strings.Repeat("a", 64)
	domain := strings.Repeat("b", 60) + "." + strings.Repeat("c", 60) + "." + strings.Repeat("d", 60) + ".com"
	fits := local + "@" + domain
	assert.Len(t, fits, 251)
	assert.Empty(t, v.Struct(model.CreateContactRequest{FirstName: "a", LastName: "b", Email: &fits}))

	tooLong := strings.Repeat("x", 250) + "@example.com"
	violations := v.Struct(model.CreateContactRequest{FirstName: "a", LastName: "b", Email: &tooLong})
	assert.Equal(t, map[string][]string{
		"email": {"Email cannot exceed 255 characters"},
	}, violations.ByField())
}

// TestCreateMissingNames verifies that blank names are rejected with the name messages.
func TestCreateMissingNames(t *testing.T) {
	v := New()
	violations := v.Struct(model.CreateContactRequest{FirstName: "", LastName: "   "})
	assert.Equal(t, map[string][]string{
		"firstName": {"First name is required"},
		"lastName":  {"Last name is required"},
	}, violations.ByField())
}

// TestCreateTooLongNames verifies the 50 character limit, counted in characters not bytes.
func TestCreateTooLongNames(t *testing.T) {
	v := New()
	assert.Empty(t, v.Struct(model.CreateContactRequest{
		FirstName: strings.Repeat("ä", 50),
		LastName:  "Doe",
	}))
	violations := v.Struct(model.CreateContactRequest{
		FirstName: strings.Repeat("a", 51),
		LastName:  strings.Repeat("b", 51),
	})
	assert.Equal(t, map[string][]string{
		"firstName": {"First name must be between 1 and 50 characters"},
		"lastName":  {"Last name must be between 1 and 50 characters"},
	}, violations.ByField())
}

// TestCreateCollectsAllViolations verifies that validation does not stop at the first error.
func TestCreateCollectsAllViolations(t *testing.T) {
	v := New()
	violations := v.Struct(model.CreateContactRequest{
		FirstName:  "",
		LastName:   "Doe",
		Email:      ptr("not-an-email"),
		Phone:      ptr("notaphone"),
		Address:    ptr(strings.Repeat("x", 201)),
		City:       ptr(strings.Repeat("x", 101)),
		State:      ptr(strings.Repeat("x", 51)),
		ZipCode:    ptr("1234"),
		Country:    ptr(strings.Repeat("x", 101)),
		CategoryId: ptr(int64(0)),
	})
	assert.Equal(t, map[string][]string{
		"firstName":  {"First name is required"},
		"email":      {"Please provide a valid email address"},
		"phone":      {"Please provide a valid phone number"},
		"address":    {"Address cannot exceed 200 characters"},
		"city":       {"City cannot exceed 100 characters"},
		"state":      {"State cannot exceed 50 characters"},
		"zipCode":    {"Please provide a valid ZIP code (e.g., 12345 or 12345-6789)"},
		"country":    {"Country cannot exceed 100 characters"},
		"categoryId": {CategoryNotFound},
	}, violations.ByField())
	assert.Len(t, violations, 9)
	assert.Contains(t, violations.Error(), "phone: Please provide a valid phone number")
}

// TestPhoneNumbers checks the phone pattern against a few typical inputs.
func TestPhoneNumbers(t *testing.T) {
	v := New()
	tests := []struct {
		phone string
		valid bool
	}{
		{"1234567890", true},
		{"+1 1234567890", true},
		{"+420-1234567890", true},
		{"+4201234567890", true},
		{"123-456-7890", false},
		{"12345", false},
		{"notaphone", false},
		{"+12345 1234567890", false},
	}
	for _, tt := range tests {
		t.Run(tt.phone, func(t *testing.T) {
			violations := v.Struct(model.CreateContactRequest{FirstName: "a", LastName: "b", Phone: &tt.phone})
			assert.Equal(t, tt.valid, len(violations) == 0, violations)
		})
	}
}

// TestZipCodes checks the ZIP code pattern.
func TestZipCodes(t *testing.T) {
	v := New()
	tests := []struct {
		zip   string
		valid bool
	}{
		{"12345", true},
		{"12345-6789", true},
		{"1234", false},
		{"123456", false},
		{"12345-678", false},
		{"ABCDE", false},
	}
	for _, tt := range tests {
		t.Run(tt.zip, func(t *testing.T) {
			violations := v.Struct(model.CreateContactRequest{FirstName: "a", LastName: "b", ZipCode: &tt.zip})
			assert.Equal(t, tt.valid, len(violations) == 0, violations)
		})
	}
}

// TestUpdateOnlySuppliedFields verifies that an update payload is checked field by field and that
// absent names are not required.
func TestUpdateOnlySuppliedFields(t *testing.T) {
	v := New()
	assert.Empty(t, v.Struct(model.UpdateContactRequest{}))
	assert.Empty(t, v.Struct(model.UpdateContactRequest{City: ptr("Brno")}))

	violations := v.Struct(model.UpdateContactRequest{
		FirstName: ptr(""),
		Phone:     ptr("notaphone"),
	})
	assert.Equal(t, map[string][]string{
		"firstName": {"First name is required"},
		"phone":     {"Please provide a valid phone number"},
	}, violations.ByField())
}

// TestCategory verifies the category payload rules.
func TestCategory(t *testing.T) {
	v := New()
	assert.Empty(t, v.Struct(model.CreateCategoryRequest{Name: "Family"}))
	violations := v.Struct(model.CreateCategoryRequest{
		Name:        " ",
		Description: ptr(strings.Repeat("x", 501)),
	})
	assert.Equal(t, map[string][]string{
		"name":        {"Name is required"},
		"description": {"Description cannot exceed 500 characters"},
	}, violations.ByField())
}
