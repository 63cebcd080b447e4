package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	apperrors "github.com/mantonx/lineup/internal/errors"
	"gorm.io/gorm"
)

// Entity is implemented by pointers to models stored through Repository
type Entity interface {
	GetID() string
	SetID(id string)
}

// Revisioned is implemented by models guarded by an optimistic revision counter
type Revisioned interface {
	GetRevision() int64
	SetRevision(rev int64)
}

// QueryFunc narrows a list query
type QueryFunc func(*gorm.DB) *gorm.DB

// Repository provides whole-record persistence for a single model type.
// Records are replaced wholesale; there are no partial updates.
type Repository[T any, PT interface {
	*T
	Entity
}] struct {
	db       *gorm.DB
	resource string
}

// NewRepository creates a repository for the model T
func NewRepository[T any, PT interface {
	*T
	Entity
}](db *gorm.DB, resource string) *Repository[T, PT] {
	return &Repository[T, PT]{db: db, resource: resource}
}

// DB returns the underlying connection
func (r *Repository[T, PT]) DB() *gorm.DB {
	return r.db
}

// List returns all records matching the optional query
func (r *Repository[T, PT]) List(ctx context.Context, query QueryFunc) ([]T, error) {
	var items []T
	q := r.db.WithContext(ctx).Model(new(T))
	if query != nil {
		q = query(q)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, apperrors.Database("list", r.resource, "", err)
	}
	return items, nil
}

// Get returns the record with the given id
func (r *Repository[T, PT]) Get(ctx context.Context, id string) (PT, error) {
	var item T
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error; err != nil {
		return nil, apperrors.Database("get", r.resource, id, err)
	}
	return PT(&item), nil
}

// GetMany returns the records for ids that exist, in no particular order
func (r *Repository[T, PT]) GetMany(ctx context.Context, ids []string) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []T
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, apperrors.Database("get_many", r.resource, "", err)
	}
	return items, nil
}

// Create inserts a record, assigning an id and initial revision when missing
func (r *Repository[T, PT]) Create(ctx context.Context, item PT) error {
	if item.GetID() == "" {
		item.SetID(uuid.NewString())
	}
	if rv, ok := any(item).(Revisioned); ok && rv.GetRevision() == 0 {
		rv.SetRevision(1)
	}
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return apperrors.Database("create", r.resource, item.GetID(), err)
	}
	return nil
}

// Replace overwrites every column of the record with the given id
func (r *Repository[T, PT]) Replace(ctx context.Context, id string, item PT) error {
	item.SetID(id)
	result := r.db.WithContext(ctx).Model(item).Select("*").Omit("created_at").Updates(item)
	if result.Error != nil {
		return apperrors.Database("replace", r.resource, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("replace", r.resource, id)
	}
	return nil
}

// ReplaceRevision overwrites the record only if its stored revision equals
// expected, then advances the revision. A mismatch returns a stale write.
func (r *Repository[T, PT]) ReplaceRevision(ctx context.Context, id string, item PT, expected int64) error {
	rv, ok := any(item).(Revisioned)
	if !ok {
		return apperrors.Database("replace", r.resource, id, fmt.Errorf("%T is not revisioned", item))
	}

	item.SetID(id)
	rv.SetRevision(expected + 1)

	result := r.db.WithContext(ctx).Model(item).
		Where("revision = ?", expected).
		Select("*").Omit("created_at").
		Updates(item)
	if result.Error != nil {
		rv.SetRevision(expected)
		return apperrors.Database("replace", r.resource, id, result.Error)
	}
	if result.RowsAffected == 0 {
		rv.SetRevision(expected)
		exists, err := r.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return apperrors.NotFound("replace", r.resource, id)
		}
		return apperrors.StaleWrite("replace", r.resource, id, expected)
	}
	return nil
}

// Exists reports whether a record with the id is stored
func (r *Repository[T, PT]) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.Database("exists", r.resource, id, err)
	}
	return count > 0, nil
}

// Delete removes the record with the given id
func (r *Repository[T, PT]) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return apperrors.Database("delete", r.resource, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("delete", r.resource, id)
	}
	return nil
}
