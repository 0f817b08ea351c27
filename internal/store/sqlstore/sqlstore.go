// Package sqlstore implements the persistence gateway with sqlx on a MySQL database. The schema
// is created by cmd/migration from scripts/database.sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"gitlab.com/dirk.krummacker/contacts-page/internal/audit"
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
)

// Store is a store.Gateway backed by sqlx.
type Store struct {
	db   *sqlx.DB
	hook *audit.Hook

	// Prepared statements offer a significant speed increase if executed many times.
	insertContact         *sqlx.NamedStmt
	selectContactWhereId  *sqlx.Stmt
	updateContact         *sqlx.NamedStmt
	deleteContactWhereId  *sqlx.Stmt
	insertCategory        *sqlx.NamedStmt
	selectCategoryWhereId *sqlx.Stmt
	deleteCategoryWhereId *sqlx.Stmt
}

var _ store.Gateway = (*Store)(nil)

// Open creates a MySQL connection pool for dsn. The connection itself is established lazily.
func Open(dsn string) (*sql.DB, error) {
	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	return sqlDB, nil
}

// New wraps the specified sql database and prepares all statements. The database argument can be
// a real database for production use or a mock database within unit tests.
func New(sqlDB *sql.DB, hook *audit.Hook) (*Store, error) {
	if hook == nil {
		hook = audit.NewHook(nil)
	}
	s := &Store{db: sqlx.NewDb(sqlDB, "mysql"), hook: hook}
	var err error
	if s.insertContact, err = s.db.PrepareNamed(`
		INSERT INTO contacts (first_name, last_name, email, phone, address, city, state, zip_code,
			country, category_id, created_by, created_on, last_modified_by, last_modified_on)
		VALUES (:first_name, :last_name, :email, :phone, :address, :city, :state, :zip_code,
			:country, :category_id, :created_by, :created_on, :last_modified_by, :last_modified_on)
	`); err != nil {
		return nil, fmt.Errorf("prepare insert contact: %w", err)
	}
	if s.selectContactWhereId, err = s.db.Preparex(`
		SELECT * FROM contacts WHERE id = ?
	`); err != nil {
		return nil, fmt.Errorf("prepare select contact: %w", err)
	}
	if s.updateContact, err = s.db.PrepareNamed(`
		UPDATE contacts SET first_name = :first_name, last_name = :last_name, email = :email,
			phone = :phone, address = :address, city = :city, state = :state, zip_code = :zip_code,
			country = :country, category_id = :category_id, last_modified_by = :last_modified_by,
			last_modified_on = :last_modified_on
		WHERE id = :id
	`); err != nil {
		return nil, fmt.Errorf("prepare update contact: %w", err)
	}
	if s.deleteContactWhereId, err = s.db.Preparex(`
		DELETE FROM contacts WHERE id = ?
	`); err != nil {
		return nil, fmt.Errorf("prepare delete contact: %w", err)
	}
	if s.insertCategory, err = s.db.PrepareNamed(`
		INSERT INTO contact_categories (name, description) VALUES (:name, :description)
	`); err != nil {
		return nil, fmt.Errorf("prepare insert category: %w", err)
	}
	if s.selectCategoryWhereId, err = s.db.Preparex(`
		SELECT id, name, description FROM contact_categories WHERE id = ?
	`); err != nil {
		return nil, fmt.Errorf("prepare select category: %w", err)
	}
	if s.deleteCategoryWhereId, err = s.db.Preparex(`
		DELETE FROM contact_categories WHERE id = ?
	`); err != nil {
		return nil, fmt.Errorf("prepare delete category: %w", err)
	}
	return s, nil
}

// FindContacts selects the contacts matching all substring conditions of the filter and returns
// the requested page of them.
func (s *Store) FindContacts(ctx context.Context, filter model.ContactFilter) ([]model.Contact, error) {
	var where []string
	var args []interface{}
	for _, condition := range store.Conditions(filter) {
		where = append(where, fmt.Sprintf("LOWER(%s) LIKE ?", condition.Column))
		args = append(args, condition.Pattern)
	}
	query := "SELECT * FROM contacts"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id ASC LIMIT ? OFFSET ?"
	args = append(args, filter.Limit(), filter.Offset())

	contacts := []model.Contact{}
	if err := s.db.SelectContext(ctx, &contacts, query, args...); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	return contacts, nil
}

func (s *Store) FindContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	var contacts []model.Contact
	if err := s.selectContactWhereId.SelectContext(ctx, &contacts, id); err != nil {
		return nil, fmt.Errorf("select contact %d: %w", id, err)
	}
	if len(contacts) == 0 {
		return nil, store.ErrNotFound
	}
	return &contacts[0], nil
}

// CreateContact inserts the contact and sets its Id to the value assigned by the database.
func (s *Store) CreateContact(ctx context.Context, actor string, contact *model.Contact) error {
	s.hook.BeforeSave(actor, audit.Change{Entity: contact, State: audit.Added})
	result, err := s.insertContact.ExecContext(ctx, contact)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	contact.Id = id
	return nil
}

func (s *Store) UpdateContact(ctx context.Context, actor string, contact *model.Contact) error {
	s.hook.BeforeSave(actor, audit.Change{Entity: contact, State: audit.Modified})
	result, err := s.updateContact.ExecContext(ctx, contact)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", contact.Id, err)
	}
	// The DSN sets clientFoundRows, so matched rows are counted even if nothing changed.
	return expectOneRow(result)
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	result, err := s.deleteContactWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete contact %d: %w", id, err)
	}
	return expectOneRow(result)
}

func (s *Store) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM contacts"); err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

func (s *Store) FindCategories(ctx context.Context) ([]model.ContactCategory, error) {
	categories := []model.ContactCategory{}
	err := s.db.SelectContext(ctx, &categories,
		"SELECT id, name, description FROM contact_categories ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

func (s *Store) FindCategoryByID(ctx context.Context, id int64) (*model.ContactCategory, error) {
	var category model.ContactCategory
	err := s.selectCategoryWhereId.GetContext(ctx, &category, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category %d: %w", id, err)
	}
	return &category, nil
}

func (s *Store) CreateCategory(ctx context.Context, actor string, category *model.ContactCategory) error {
	s.hook.BeforeSave(actor, audit.Change{Entity: category, State: audit.Added})
	result, err := s.insertCategory.ExecContext(ctx, category)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	category.Id = id
	return nil
}

// DeleteCategory relies on the foreign key of contacts.category_id (ON DELETE SET NULL) to
// detach the contacts of the category.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	result, err := s.deleteCategoryWhereId.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return expectOneRow(result)
}

// Close releases the prepared statements and the connection pool and reports every error that
// occurred on the way.
func (s *Store) Close() error {
	var errs []error
	for _, stmt := range []interface{ Close() error }{
		s.insertContact, s.selectContactWhereId, s.updateContact, s.deleteContactWhereId,
		s.insertCategory, s.selectCategoryWhereId, s.deleteCategoryWhereId,
	} {
		if err := stmt.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close statement: %w", err))
		}
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}

func expectOneRow(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
