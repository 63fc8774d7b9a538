package repository

import (
	"context"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, c *model.Company) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Update(ctx context.Context, c *model.Company) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type companyRepo struct{ db *gorm.DB }

func NewCompanyRepository(db *gorm.DB) CompanyRepository { return &companyRepo{db: db} }

func (r *companyRepo) Create(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *companyRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Company, error) {
	var c model.Company
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *companyRepo) List(ctx context.Context) ([]model.Company, error) {
	var companies []model.Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}

func (r *companyRepo) Update(ctx context.Context, c *model.Company) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *companyRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Company](ctx, r.db, id)
}

// ── Farmers ──────────────────────────────────────────────────────────────────

type FarmerRepository interface {
	Create(ctx context.Context, f *model.Farmer) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error)
	List(ctx context.Context, companyID *uuid.UUID) ([]model.Farmer, error)
	Update(ctx context.Context, f *model.Farmer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type farmerRepo struct{ db *gorm.DB }

func NewFarmerRepository(db *gorm.DB) FarmerRepository { return &farmerRepo{db: db} }

func (r *farmerRepo) Create(ctx context.Context, f *model.Farmer) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *farmerRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Farmer, error) {
	var f model.Farmer
	err := r.db.WithContext(ctx).First(&f, "id = ?", id).Error
	return &f, err
}

func (r *farmerRepo) List(ctx context.Context, companyID *uuid.UUID) ([]model.Farmer, error) {
	var farmers []model.Farmer
	q := r.db.WithContext(ctx).Model(&model.Farmer{})
	if companyID != nil {
		q = q.Where("company_id = ?", *companyID)
	}
	err := q.Order("name ASC").Find(&farmers).Error
	return farmers, err
}

func (r *farmerRepo) Update(ctx context.Context, f *model.Farmer) error {
	return r.db.WithContext(ctx).Save(f).Error
}

func (r *farmerRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[model.Farmer](ctx, r.db, id)
}
