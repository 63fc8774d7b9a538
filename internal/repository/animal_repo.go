package repository

import (
	"context"
	"strings"
	"time"

	"farmledger/internal/dto"
	"farmledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnimalRepository defines the data access contract for animals.
type AnimalRepository interface {
	CreateTx(tx *gorm.DB, a *model.Animal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Animal, error)
	FindByEartag(ctx context.Context, eartag string) (*model.Animal, error)
	EartagExists(ctx context.Context, eartag string, excludeID *uuid.UUID) (bool, error)
	List(ctx context.Context, filter dto.AnimalFilter) ([]model.Animal, int64, error)
	ListAll(ctx context.Context) ([]model.Animal, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Animal, error)
	Update(ctx context.Context, a *model.Animal) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ListWithoutRationLog returns animals that never had a ration log.
	ListWithoutRationLog(ctx context.Context) ([]model.Animal, error)

	// Used inside transactions; callers must pass the tx instance
	SetSlaughteredTx(tx *gorm.DB, id uuid.UUID, slaughtered bool) error
	AddFeedCostTx(tx *gorm.DB, id uuid.UUID, increment decimal.Decimal) error
	// LockTx takes a row lock on the animal for the rest of the transaction.
	LockTx(tx *gorm.DB, id uuid.UUID) (*model.Animal, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type animalRepo struct{ db *gorm.DB }

func NewAnimalRepository(db *gorm.DB) AnimalRepository { return &animalRepo{db: db} }

func (r *animalRepo) CreateTx(tx *gorm.DB, a *model.Animal) error {
	return tx.Create(a).Error
}

func (r *animalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Animal, error) {
	var a model.Animal
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *animalRepo) FindByEartag(ctx context.Context, eartag string) (*model.Animal, error) {
	var a model.Animal
	err := r.db.WithContext(ctx).Where("eartag = ?", eartag).First(&a).Error
	return &a, err
}

func (r *animalRepo) EartagExists(ctx context.Context, eartag string, excludeID *uuid.UUID) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&model.Animal{}).Where("eartag = ?", eartag)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *animalRepo) List(ctx context.Context, filter dto.AnimalFilter) ([]model.Animal, int64, error) {
	var animals []model.Animal
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Animal{})

	if filter.CompanyID != "" {
		q = q.Where("company_id = ?", filter.CompanyID)
	}
	if filter.Race != "" {
		q = q.Where("LOWER(race) = LOWER(?)", filter.Race)
	}
	// Only "0" and "1" are meaningful; anything else is ignored.
	switch filter.Gender {
	case "0":
		q = q.Where("gender = false")
	case "1":
		q = q.Where("gender = true")
	}
	switch strings.ToLower(filter.IsSlaughtered) {
	case "true", "1":
		q = q.Where("is_slaughtered = true")
	case "false", "0":
		q = q.Where("is_slaughtered = false")
	}
	if filter.Eartag != "" {
		q = q.Where("eartag = ?", filter.Eartag)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("eartag ASC").Limit(filter.Limit).Offset(offset).Find(&animals).Error
	return animals, total, err
}

func (r *animalRepo) ListAll(ctx context.Context) ([]model.Animal, error) {
	var animals []model.Animal
	err := r.db.WithContext(ctx).Preload("Company").Order("eartag ASC").Find(&animals).Error
	return animals, err
}

func (r *animalRepo) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Animal, error) {
	var animals []model.Animal
	if len(ids) == 0 {
		return animals, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("eartag ASC").Find(&animals).Error
	return animals, err
}

// Update writes only the columns an edit owns; feed_cost and is_slaughtered
// belong to the allocator and the slaughter workflow.
func (r *animalRepo) Update(ctx context.Context, a *model.Animal) error {
	a.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(&model.Animal{}).Where("id = ?", a.ID).Updates(map[string]interface{}{
		"eartag":     a.Eartag,
		"company_id": a.CompanyID,
		"race":       a.Race,
		"gender":     a.Gender,
		"room":       a.Room,
		"cost":       a.Cost,
		"updated_at": a.UpdatedAt,
	}).Error
}

func (r *animalRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Animal](ctx, r.db, id)
}

func (r *animalRepo) ListWithoutRationLog(ctx context.Context) ([]model.Animal, error) {
	var animals []model.Animal
	err := r.db.WithContext(ctx).
		Where("NOT EXISTS (SELECT 1 FROM animal_ration_logs l WHERE l.animal_id = animals.id)").
		Order("created_at ASC").
		Find(&animals).Error
	return animals, err
}

func (r *animalRepo) SetSlaughteredTx(tx *gorm.DB, id uuid.UUID, slaughtered bool) error {
	return tx.Model(&model.Animal{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_slaughtered": slaughtered,
		"updated_at":     time.Now(),
	}).Error
}

func (r *animalRepo) AddFeedCostTx(tx *gorm.DB, id uuid.UUID, increment decimal.Decimal) error {
	return tx.Model(&model.Animal{}).Where("id = ?", id).
		Update("feed_cost", gorm.Expr("feed_cost + ?", increment)).Error
}

func (r *animalRepo) LockTx(tx *gorm.DB, id uuid.UUID) (*model.Animal, error) {
	var a model.Animal
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *animalRepo) DB() *gorm.DB { return r.db }
