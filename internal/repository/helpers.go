package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// deleteByID hard-deletes one row and reports gorm.ErrRecordNotFound when
// nothing matched.
func deleteByID[T any](ctx context.Context, db *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[T](db.WithContext(ctx), id)
}

func deleteByIDTx[T any](tx *gorm.DB, id uuid.UUID) error {
	var zero T
	res := tx.Where("id = ?", id).Delete(&zero)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
