package repository

import (
	"context"
	"time"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WeightRepository interface {
	Create(ctx context.Context, w *model.Weight) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Weight, error)
	List(ctx context.Context, animalID *uuid.UUID) ([]model.Weight, error)
	Update(ctx context.Context, w *model.Weight) error
	Delete(ctx context.Context, id uuid.UUID) error

	ExistsOnDate(ctx context.Context, animalID uuid.UUID, day time.Time, excludeID *uuid.UUID) (bool, error)
	// Latest returns the most recent weighing or gorm.ErrRecordNotFound.
	Latest(ctx context.Context, animalID uuid.UUID) (*model.Weight, error)
	// History returns all weighings of the animal, oldest first.
	History(ctx context.Context, animalID uuid.UUID) ([]model.Weight, error)
}

type weightRepo struct{ db *gorm.DB }

func NewWeightRepository(db *gorm.DB) WeightRepository { return &weightRepo{db: db} }

func (r *weightRepo) Create(ctx context.Context, w *model.Weight) error {
	return r.db.WithContext(ctx).Omit("Animal").Create(w).Error
}

func (r *weightRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Weight, error) {
	var w model.Weight
	err := r.db.WithContext(ctx).First(&w, "id = ?", id).Error
	return &w, err
}

func (r *weightRepo) List(ctx context.Context, animalID *uuid.UUID) ([]model.Weight, error) {
	var weights []model.Weight
	q := r.db.WithContext(ctx)
	if animalID != nil {
		q = q.Where("animal_id = ?", *animalID)
	}
	err := q.Order("recorded_at DESC").Find(&weights).Error
	return weights, err
}

func (r *weightRepo) Update(ctx context.Context, w *model.Weight) error {
	return r.db.WithContext(ctx).Omit("Animal").Save(w).Error
}

func (r *weightRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Weight](ctx, r.db, id)
}

func (r *weightRepo) ExistsOnDate(ctx context.Context, animalID uuid.UUID, day time.Time, excludeID *uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Weight{}).
		Where("animal_id = ? AND recorded_at = ?", animalID, day.Format("2006-01-02"))
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *weightRepo) Latest(ctx context.Context, animalID uuid.UUID) (*model.Weight, error) {
	var w model.Weight
	err := r.db.WithContext(ctx).Where("animal_id = ?", animalID).Order("recorded_at DESC").First(&w).Error
	return &w, err
}

func (r *weightRepo) History(ctx context.Context, animalID uuid.UUID) ([]model.Weight, error) {
	var weights []model.Weight
	err := r.db.WithContext(ctx).Where("animal_id = ?", animalID).Order("recorded_at ASC").Find(&weights).Error
	return weights, err
}
