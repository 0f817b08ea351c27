package model

import (
	"math"
	"time"
)

// Auditable is implemented by entities that carry creator and modifier metadata. The persistence
// layer calls these methods right before a row is written; request payloads never reach them.
type Auditable interface {
	MarkCreated(by string, on time.Time)
	MarkModified(by string, on time.Time)
}

// AuditFields is embedded by every audit-capable entity.
type AuditFields struct {
	CreatedBy      *string    `db:"created_by"       gorm:"size:100"`
	CreatedOn      *time.Time `db:"created_on"`
	LastModifiedBy *string    `db:"last_modified_by" gorm:"size:100"`
	LastModifiedOn *time.Time `db:"last_modified_on"`
}

// MarkCreated records who inserted the row and when.
func (a *AuditFields) MarkCreated(by string, on time.Time) {
	a.CreatedBy = &by
	a.CreatedOn = &on
}

// MarkModified records who changed the row last and when.
func (a *AuditFields) MarkModified(by string, on time.Time) {
	a.LastModifiedBy = &by
	a.LastModifiedOn = &on
}

// Contact is the data structure for a person that we know. First and last name are mandatory,
// all other fields are optional.
type Contact struct {
	Id         int64            `db:"id"          gorm:"primaryKey"`
	FirstName  string           `db:"first_name"  gorm:"size:50;not null"`
	LastName   string           `db:"last_name"   gorm:"size:50;not null"`
	Email      *string          `db:"email"       gorm:"size:255"`
	Phone      *string          `db:"phone"       gorm:"size:20"`
	Address    *string          `db:"address"     gorm:"size:200"`
	City       *string          `db:"city"        gorm:"size:100"`
	State      *string          `db:"state"       gorm:"size:50"`
	ZipCode    *string          `db:"zip_code"    gorm:"size:10"`
	Country    *string          `db:"country"     gorm:"size:100"`
	CategoryId *int64           `db:"category_id" gorm:"index"`
	Category   *ContactCategory `db:"-"           gorm:"foreignKey:CategoryId"`
	AuditFields
}

// ContactCategory groups contacts, e.g. "Family" or "Work". Deleting a category leaves its
// contacts in place with a null category. gorm derives the foreign key from the has-many side,
// so the constraint is declared on Contacts.
type ContactCategory struct {
	Id          int64     `db:"id"          gorm:"primaryKey"`
	Name        string    `db:"name"        gorm:"size:100;not null"`
	Description *string   `db:"description" gorm:"size:500"`
	Contacts    []Contact `db:"-"           gorm:"foreignKey:CategoryId;constraint:OnDelete:SET NULL"`
}

// Defaults for the contact listing.
const (
	DefaultPage           = 1
	DefaultRecordsPerPage = 100
)

// ContactFilter narrows and pages a contact listing. Empty or blank substrings are ignored.
type ContactFilter struct {
	Page              int
	RecordsPerPage    int
	FirstNameContains string
	LastNameContains  string
	EmailContains     string
	PhoneContains     string
}

// Normalize replaces non-positive paging values with the defaults.
func (f ContactFilter) Normalize() ContactFilter {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.RecordsPerPage <= 0 {
		f.RecordsPerPage = DefaultRecordsPerPage
	}
	return f
}

// Offset is the number of matching rows skipped before the requested page starts. A page whose
// offset does not fit into an int starts at math.MaxInt and is therefore empty.
func (f ContactFilter) Offset() int {
	n := f.Normalize()
	if n.Page-1 > math.MaxInt/n.RecordsPerPage {
		return math.MaxInt
	}
	return (n.Page - 1) * n.RecordsPerPage
}

// Limit is the maximum number of rows on a page.
func (f ContactFilter) Limit() int {
	return f.Normalize().RecordsPerPage
}
