// Package model contains the JSON types of the contacts REST API. Clients of the service can
// import it instead of redeclaring the structures.
package model

import "time"

// Contact is a contact as returned by the API. The audit fields are maintained by the service.
type Contact struct {
	Id             int64      `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          *string    `json:"email,omitempty"`
	Phone          *string    `json:"phone,omitempty"`
	Address        *string    `json:"address,omitempty"`
	City           *string    `json:"city,omitempty"`
	State          *string    `json:"state,omitempty"`
	ZipCode        *string    `json:"zipCode,omitempty"`
	Country        *string    `json:"country,omitempty"`
	CategoryId     *int64     `json:"categoryId,omitempty"`
	CreatedBy      *string    `json:"createdBy,omitempty"`
	CreatedOn      *time.Time `json:"createdOn,omitempty"`
	LastModifiedBy *string    `json:"lastModifiedBy,omitempty"`
	LastModifiedOn *time.Time `json:"lastModifiedOn,omitempty"`
}

// CreateContactRequest is the body of POST /api/contacts.
type CreateContactRequest struct {
	FirstName  string  `json:"firstName"            validate:"notblank,max=50"`
	LastName   string  `json:"lastName"             validate:"notblank,max=50"`
	Email      *string `json:"email,omitempty"      validate:"omitempty,max=255,emailaddress"`
	Phone      *string `json:"phone,omitempty"      validate:"omitempty,phonenumber"`
	Address    *string `json:"address,omitempty"    validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty"       validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty"      validate:"omitempty,max=50"`
	ZipCode    *string `json:"zipCode,omitempty"    validate:"omitempty,zipcode"`
	Country    *string `json:"country,omitempty"    validate:"omitempty,max=100"`
	CategoryId *int64  `json:"categoryId,omitempty" validate:"omitnil,gt=0"`
}

// UpdateContactRequest is the body of PUT /api/contacts/{id}. Only non-null fields are applied.
type UpdateContactRequest struct {
	FirstName  *string `json:"firstName,omitempty"  validate:"omitnil,notblank,max=50"`
	LastName   *string `json:"lastName,omitempty"   validate:"omitnil,notblank,max=50"`
	Email      *string `json:"email,omitempty"      validate:"omitempty,max=255,emailaddress"`
	Phone      *string `json:"phone,omitempty"      validate:"omitempty,phonenumber"`
	Address    *string `json:"address,omitempty"    validate:"omitempty,max=200"`
	City       *string `json:"city,omitempty"       validate:"omitempty,max=100"`
	State      *string `json:"state,omitempty"      validate:"omitempty,max=50"`
	ZipCode    *string `json:"zipCode,omitempty"    validate:"omitempty,zipcode"`
	Country    *string `json:"country,omitempty"    validate:"omitempty,max=100"`
	CategoryId *int64  `json:"categoryId,omitempty" validate:"omitnil,gt=0"`
}

// ListContactsQuery holds the URL parameters of GET /api/contacts.
type ListContactsQuery struct {
	Page              int    `form:"page"`
	RecordsPerPage    int    `form:"recordsPerPage"`
	FirstNameContains string `form:"firstNameContains"`
	LastNameContains  string `form:"lastNameContains"`
	EmailContains     string `form:"emailContains"`
	PhoneContains     string `form:"phoneContains"`
}

// Category is a contact category as returned by the API.
type Category struct {
	Id          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name        string  `json:"name"                  validate:"notblank,max=100"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

// ValidationProblem is returned with status 400 when a payload breaks one or more rules. Errors
// maps the JSON field name to all messages for that field.
type ValidationProblem struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}
