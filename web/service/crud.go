// Package service implements the data access and business rules behind the
// panel's controllers.
package service

import (
	"context"

	"github.com/Romankivs/Lab1Istp/database"
	"github.com/Romankivs/Lab1Istp/util/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Crud implements list/show/create/update/delete over one table whose rows
// are T and whose key column holds values of type K.
type Crud[T any, K comparable] struct {
	db        *gorm.DB
	keyColumn string
	preloads  []string
}

// NewCrud returns a Crud over the table of T. preloads name the references
// loaded together with listed and shown rows.
func NewCrud[T any, K comparable](db *gorm.DB, keyColumn string, preloads ...string) *Crud[T, K] {
	return &Crud[T, K]{db: db, keyColumn: keyColumn, preloads: preloads}
}

// WithTx returns a copy bound to the given transaction.
func (s *Crud[T, K]) WithTx(tx *gorm.DB) *Crud[T, K] {
	return &Crud[T, K]{db: tx, keyColumn: s.keyColumn, preloads: s.preloads}
}

func (s *Crud[T, K]) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx)
	for _, p := range s.preloads {
		q = q.Preload(p)
	}
	return q
}

// List returns every row ordered by key.
func (s *Crud[T, K]) List(ctx context.Context) ([]T, error) {
	rows := make([]T, 0)
	err := s.query(ctx).Order(s.keyColumn).Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

// Get returns the row with the given key or common.ErrNotFound.
func (s *Crud[T, K]) Get(ctx context.Context, key K) (*T, error) {
	row := new(T)
	err := s.query(ctx).Where(s.keyColumn+" = ?", key).Take(row).Error
	if err != nil {
		return nil, translate(err)
	}
	return row, nil
}

// Create inserts one row. References are written as keys only.
func (s *Crud[T, K]) Create(ctx context.Context, row *T) error {
	return translate(s.db.WithContext(ctx).Omit(clause.Associations).Create(row).Error)
}

// Update overwrites every column of the row with the given key, except the
// key itself, with the values of row. Zero values are written too.
func (s *Crud[T, K]) Update(ctx context.Context, key K, row *T) error {
	res := s.db.WithContext(ctx).
		Model(new(T)).
		Where(s.keyColumn+" = ?", key).
		Select("*").
		Omit(s.keyColumn, clause.Associations).
		Updates(row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Delete removes the row with the given key. Rows still referenced by
// other tables are refused by the store with common.ErrConstraint.
func (s *Crud[T, K]) Delete(ctx context.Context, key K) error {
	res := s.db.WithContext(ctx).Where(s.keyColumn+" = ?", key).Delete(new(T))
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}

// Count returns the number of rows.
func (s *Crud[T, K]) Count(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(new(T)).Count(&n).Error
	return n, translate(err)
}

// translate maps store errors onto the common taxonomy.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case database.IsNotFound(err):
		return common.ErrNotFound
	case database.IsConstraint(err), common.LooksLikeConstraint(err):
		return common.ConstraintError(err)
	}
	return err
}
