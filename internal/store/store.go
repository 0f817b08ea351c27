// Package store defines the persistence gateway of the contacts service. The sqlstore package
// implements it on top of sqlx and MySQL, the ormstore package on top of gorm.
package store

import (
	"context"
	"errors"
	"strings"

	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
)

// ErrNotFound is returned when no row has the requested id.
var ErrNotFound = errors.New("not found")

// Gateway is the persistence collaborator of the request handlers. Every write takes the identity
// of the caller, which the audit hook records on auditable rows before they are saved.
type Gateway interface {
	// FindContacts applies the filter's substring conditions first and pages the matches
	// afterwards, ordered by id.
	FindContacts(ctx context.Context, filter model.ContactFilter) ([]model.Contact, error)
	FindContactByID(ctx context.Context, id int64) (*model.Contact, error)
	CreateContact(ctx context.Context, actor string, contact *model.Contact) error
	// UpdateContact writes all fields of contact except id and the creation audit fields.
	UpdateContact(ctx context.Context, actor string, contact *model.Contact) error
	DeleteContact(ctx context.Context, id int64) error
	CountContacts(ctx context.Context) (int64, error)

	FindCategories(ctx context.Context) ([]model.ContactCategory, error)
	FindCategoryByID(ctx context.Context, id int64) (*model.ContactCategory, error)
	CreateCategory(ctx context.Context, actor string, category *model.ContactCategory) error
	// DeleteCategory removes the category. Contacts referencing it keep existing with a null
	// category id.
	DeleteCategory(ctx context.Context, id int64) error

	Close() error
}

// ContainsPattern turns a substring filter into a case-insensitive LIKE pattern in which the
// wildcards of the input match literally. The column has to be compared with LOWER(column) and
// backslash as escape character.
func ContainsPattern(substring string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(strings.ToLower(substring)) + "%"
}

// Condition is a substring condition on one column.
type Condition struct {
	Column  string
	Pattern string
}

// Conditions returns the active substring conditions of filter in a fixed column order. Blank
// substrings produce no condition.
func Conditions(filter model.ContactFilter) []Condition {
	candidates := []struct {
		column    string
		substring string
	}{
		{"first_name", filter.FirstNameContains},
		{"last_name", filter.LastNameContains},
		{"email", filter.EmailContains},
		{"phone", filter.PhoneContains},
	}
	var conditions []Condition
	for _, c := range candidates {
		if strings.TrimSpace(c.substring) == "" {
			continue
		}
		conditions = append(conditions, Condition{Column: c.column, Pattern: ContainsPattern(c.substring)})
	}
	return conditions
}
