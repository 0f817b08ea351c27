// Package ormstore implements the persistence gateway with gorm. It is used for PostgreSQL and for
// SQLite, where gorm creates the schema itself.
package ormstore

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"gitlab.com/dirk.krummacker/contacts-page/internal/audit"
	"gitlab.com/dirk.krummacker/contacts-page/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-page/internal/model"
	"gitlab.com/dirk.krummacker/contacts-page/internal/store"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormLogger "gorm.io/gorm/logger"
)

// Store is a store.Gateway backed by gorm.
type Store struct {
	db *gorm.DB
}

var _ store.Gateway = (*Store)(nil)

// Open connects to the database of the given driver ("postgres" or "sqlite") and registers the
// audit callbacks. A nil log silences gorm.
func Open(driver string, dsn string, hook *audit.Hook, log *logger.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported gorm driver %q", driver)
	}

	gormLog := gormLogger.Default.LogMode(gormLogger.Silent)
	if log != nil {
		gormLog = gormLogger.New(log.StdLogger(), gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		})
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", driver, err)
	}
	if driver == "sqlite" {
		// Every connection of an in-memory database sees a database of its own.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, hook)
}

// New wraps an open gorm database and registers the audit callbacks on it.
func New(db *gorm.DB, hook *audit.Hook) (*Store, error) {
	if hook == nil {
		hook = audit.NewHook(nil)
	}
	if err := registerAuditCallbacks(db, hook); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates the tables of categories and contacts, including the foreign key
// that nulls contacts.category_id when its category is deleted.
func (s *Store) Migrate() error {
	if err := s.db.AutoMigrate(&model.ContactCategory{}, &model.Contact{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// registerAuditCallbacks hooks the audit stamping into every create and update gorm executes.
// The caller identity travels on the statement context, see audit.WithActor.
func registerAuditCallbacks(db *gorm.DB, hook *audit.Hook) error {
	err := db.Callback().Create().Before("gorm:create").Register("audit:stamp_added", func(tx *gorm.DB) {
		stamp(tx, hook, audit.Added)
	})
	if err != nil {
		return fmt.Errorf("register create callback: %w", err)
	}
	err = db.Callback().Update().Before("gorm:update").Register("audit:stamp_modified", func(tx *gorm.DB) {
		stamp(tx, hook, audit.Modified)
	})
	if err != nil {
		return fmt.Errorf("register update callback: %w", err)
	}
	return nil
}

func stamp(tx *gorm.DB, hook *audit.Hook, state audit.State) {
	if tx.Error != nil || tx.Statement.Schema == nil {
		return
	}
	var changes []audit.Change
	collect := func(v reflect.Value) {
		if v.Kind() == reflect.Struct && v.CanAddr() {
			changes = append(changes, audit.Change{Entity: v.Addr().Interface(), State: state})
		}
	}
	rv := reflect.Indirect(tx.Statement.ReflectValue)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			collect(reflect.Indirect(rv.Index(i)))
		}
	case reflect.Struct:
		collect(rv)
	}
	hook.BeforeSave(audit.ActorFrom(tx.Statement.Context), changes...)
}

func (s *Store) FindContacts(ctx context.Context, filter model.ContactFilter) ([]model.Contact, error) {
	query := s.db.WithContext(ctx).Model(&model.Contact{})
	for _, condition := range store.Conditions(filter) {
		query = query.Where(fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, condition.Column), condition.Pattern)
	}
	contacts := []model.Contact{}
	err := query.Order("id ASC").Offset(filter.Offset()).Limit(filter.Limit()).Find(&contacts).Error
	if err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	return contacts, nil
}

func (s *Store) FindContactByID(ctx context.Context, id int64) (*model.Contact, error) {
	var contact model.Contact
	err := s.db.WithContext(ctx).First(&contact, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select contact %d: %w", id, err)
	}
	return &contact, nil
}

func (s *Store) CreateContact(ctx context.Context, actor string, contact *model.Contact) error {
	err := s.db.WithContext(audit.WithActor(ctx, actor)).Omit(clause.Associations).Create(contact).Error
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *Store) UpdateContact(ctx context.Context, actor string, contact *model.Contact) error {
	result := s.db.WithContext(audit.WithActor(ctx, actor)).
		Model(contact).
		Select("*").
		Omit("id", "created_by", "created_on", clause.Associations).
		Updates(contact)
	if result.Error != nil {
		return fmt.Errorf("update contact %d: %w", contact.Id, result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&model.Contact{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete contact %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) CountContacts(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Contact{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return count, nil
}

func (s *Store) FindCategories(ctx context.Context) ([]model.ContactCategory, error) {
	categories := []model.ContactCategory{}
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("select categories: %w", err)
	}
	return categories, nil
}

func (s *Store) FindCategoryByID(ctx context.Context, id int64) (*model.ContactCategory, error) {
	var category model.ContactCategory
	err := s.db.WithContext(ctx).First(&category, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select category %d: %w", id, err)
	}
	return &category, nil
}

func (s *Store) CreateCategory(ctx context.Context, actor string, category *model.ContactCategory) error {
	err := s.db.WithContext(audit.WithActor(ctx, actor)).Omit(clause.Associations).Create(category).Error
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&model.ContactCategory{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete category %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
