package repository

import (
	"context"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VaccineRepository interface {
	Create(ctx context.Context, v *model.Vaccine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Vaccine, error)
	List(ctx context.Context) ([]model.Vaccine, error)
	Update(ctx context.Context, v *model.Vaccine) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateRecord(ctx context.Context, rec *model.AnimalVaccineRecord) error
	FindRecordByID(ctx context.Context, id uuid.UUID) (*model.AnimalVaccineRecord, error)
	ListRecords(ctx context.Context, animalID *uuid.UUID) ([]model.AnimalVaccineRecord, error)
	UpdateRecord(ctx context.Context, rec *model.AnimalVaccineRecord) error
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

type vaccineRepo struct{ db *gorm.DB }

func NewVaccineRepository(db *gorm.DB) VaccineRepository { return &vaccineRepo{db: db} }

func (r *vaccineRepo) Create(ctx context.Context, v *model.Vaccine) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *vaccineRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Vaccine, error) {
	var v model.Vaccine
	err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error
	return &v, err
}

func (r *vaccineRepo) List(ctx context.Context) ([]model.Vaccine, error) {
	var vs []model.Vaccine
	err := r.db.WithContext(ctx).Order("name ASC").Find(&vs).Error
	return vs, err
}

func (r *vaccineRepo) Update(ctx context.Context, v *model.Vaccine) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *vaccineRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Vaccine](ctx, r.db, id)
}

func (r *vaccineRepo) CreateRecord(ctx context.Context, rec *model.AnimalVaccineRecord) error {
	return r.db.WithContext(ctx).Omit("Animal", "Vaccine").Create(rec).Error
}

func (r *vaccineRepo) FindRecordByID(ctx context.Context, id uuid.UUID) (*model.AnimalVaccineRecord, error) {
	var rec model.AnimalVaccineRecord
	err := r.db.WithContext(ctx).Preload("Vaccine").First(&rec, "id = ?", id).Error
	return &rec, err
}

func (r *vaccineRepo) ListRecords(ctx context.Context, animalID *uuid.UUID) ([]model.AnimalVaccineRecord, error) {
	var recs []model.AnimalVaccineRecord
	q := r.db.WithContext(ctx).Preload("Vaccine")
	if animalID != nil {
		q = q.Where("animal_id = ?", *animalID)
	}
	err := q.Order("date_administered DESC").Find(&recs).Error
	return recs, err
}

func (r *vaccineRepo) UpdateRecord(ctx context.Context, rec *model.AnimalVaccineRecord) error {
	return r.db.WithContext(ctx).Omit("Animal", "Vaccine").Save(rec).Error
}

func (r *vaccineRepo) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.AnimalVaccineRecord](ctx, r.db, id)
}
