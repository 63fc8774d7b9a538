package repository

import (
	"context"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SlaughterRepository interface {
	CreateTx(tx *gorm.DB, s *model.Slaughter) error
	UpdateTx(tx *gorm.DB, s *model.Slaughter) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Slaughter, error)
	// ExistsForAnimalTx runs on tx so it sees the same snapshot as the write.
	ExistsForAnimalTx(tx *gorm.DB, animalID uuid.UUID, excludeID *uuid.UUID) (bool, error)
	// List preloads the animal of each slaughter.
	List(ctx context.Context) ([]model.Slaughter, error)

	DB() *gorm.DB
}

type slaughterRepo struct{ db *gorm.DB }

func NewSlaughterRepository(db *gorm.DB) SlaughterRepository { return &slaughterRepo{db: db} }

func (r *slaughterRepo) CreateTx(tx *gorm.DB, s *model.Slaughter) error {
	return tx.Omit("Animal").Create(s).Error
}

func (r *slaughterRepo) UpdateTx(tx *gorm.DB, s *model.Slaughter) error {
	return tx.Omit("Animal").Save(s).Error
}

func (r *slaughterRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[model.Slaughter](tx, id)
}

func (r *slaughterRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Slaughter, error) {
	var s model.Slaughter
	err := r.db.WithContext(ctx).Preload("Animal").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *slaughterRepo) ExistsForAnimalTx(tx *gorm.DB, animalID uuid.UUID, excludeID *uuid.UUID) (bool, error) {
	var n int64
	q := tx.Model(&model.Slaughter{}).Where("animal_id = ?", animalID)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *slaughterRepo) List(ctx context.Context) ([]model.Slaughter, error) {
	var rows []model.Slaughter
	err := r.db.WithContext(ctx).Preload("Animal").Order("date DESC").Find(&rows).Error
	return rows, err
}

func (r *slaughterRepo) DB() *gorm.DB { return r.db }
