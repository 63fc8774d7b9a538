package repository

import (
	"context"
	"time"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RationLogFilter narrows List; nil fields are ignored.
type RationLogFilter struct {
	AnimalID      *uuid.UUID
	RationTableID *uuid.UUID
	Active        *bool
}

// RationLogRepository persists AnimalRationLog rows. The activation rules
// live in the service; writes here are plain statements meant to run inside
// the caller's transaction.
type RationLogRepository interface {
	CreateTx(tx *gorm.DB, l *model.AnimalRationLog) error
	UpdateTx(tx *gorm.DB, l *model.AnimalRationLog) error
	DeleteTx(tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.AnimalRationLog, error)
	List(ctx context.Context, f RationLogFilter) ([]model.AnimalRationLog, error)

	// FindActiveByAnimal returns the animal's active log or gorm.ErrRecordNotFound.
	FindActiveByAnimal(ctx context.Context, animalID uuid.UUID) (*model.AnimalRationLog, error)
	// ListActive returns every active log with its animal and table.
	ListActive(ctx context.Context) ([]model.AnimalRationLog, error)

	// DeactivateActiveTx closes every active log of the animal except exceptID.
	DeactivateActiveTx(tx *gorm.DB, animalID uuid.UUID, exceptID *uuid.UUID, endDate time.Time) (int64, error)
	// FindLatestInactiveTx returns the most recently closed log of the animal.
	FindLatestInactiveTx(tx *gorm.DB, animalID uuid.UUID, exceptID uuid.UUID) (*model.AnimalRationLog, error)
	// ReactivateTx marks a log active again and clears its end date.
	ReactivateTx(tx *gorm.DB, id uuid.UUID) error

	DB() *gorm.DB
}

type rationLogRepo struct{ db *gorm.DB }

func NewRationLogRepository(db *gorm.DB) RationLogRepository { return &rationLogRepo{db: db} }

func (r *rationLogRepo) CreateTx(tx *gorm.DB, l *model.AnimalRationLog) error {
	return tx.Omit("Animal", "RationTable").Create(l).Error
}

func (r *rationLogRepo) UpdateTx(tx *gorm.DB, l *model.AnimalRationLog) error {
	return tx.Model(&model.AnimalRationLog{}).Where("id = ?", l.ID).Updates(map[string]interface{}{
		"animal_id":       l.AnimalID,
		"ration_table_id": l.RationTableID,
		"start_date":      l.StartDate,
		"end_date":        l.EndDate,
		"is_active":       l.IsActive,
		"updated_at":      time.Now(),
	}).Error
}

func (r *rationLogRepo) DeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[model.AnimalRationLog](tx, id)
}

func (r *rationLogRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AnimalRationLog, error) {
	var l model.AnimalRationLog
	err := r.db.WithContext(ctx).Preload("Animal").Preload("RationTable").First(&l, "id = ?", id).Error
	return &l, err
}

func (r *rationLogRepo) List(ctx context.Context, f RationLogFilter) ([]model.AnimalRationLog, error) {
	var logs []model.AnimalRationLog
	q := r.db.WithContext(ctx).Preload("Animal").Preload("RationTable")
	if f.AnimalID != nil {
		q = q.Where("animal_id = ?", *f.AnimalID)
	}
	if f.RationTableID != nil {
		q = q.Where("ration_table_id = ?", *f.RationTableID)
	}
	if f.Active != nil {
		q = q.Where("is_active = ?", *f.Active)
	}
	err := q.Order("start_date DESC").Find(&logs).Error
	return logs, err
}

func (r *rationLogRepo) FindActiveByAnimal(ctx context.Context, animalID uuid.UUID) (*model.AnimalRationLog, error) {
	var l model.AnimalRationLog
	err := r.db.WithContext(ctx).Where("animal_id = ? AND is_active = true", animalID).First(&l).Error
	return &l, err
}

func (r *rationLogRepo) ListActive(ctx context.Context) ([]model.AnimalRationLog, error) {
	var logs []model.AnimalRationLog
	err := r.db.WithContext(ctx).
		Preload("Animal").
		Preload("RationTable").
		Where("is_active = true").
		Order("start_date ASC").
		Find(&logs).Error
	return logs, err
}

func (r *rationLogRepo) DeactivateActiveTx(tx *gorm.DB, animalID uuid.UUID, exceptID *uuid.UUID, endDate time.Time) (int64, error) {
	q := tx.Model(&model.AnimalRationLog{}).Where("animal_id = ? AND is_active = true", animalID)
	if exceptID != nil {
		q = q.Where("id <> ?", *exceptID)
	}
	res := q.Updates(map[string]interface{}{
		"is_active":  false,
		"end_date":   endDate,
		"updated_at": time.Now(),
	})
	return res.RowsAffected, res.Error
}

func (r *rationLogRepo) FindLatestInactiveTx(tx *gorm.DB, animalID uuid.UUID, exceptID uuid.UUID) (*model.AnimalRationLog, error) {
	var l model.AnimalRationLog
	err := tx.Where("animal_id = ? AND is_active = false AND id <> ?", animalID, exceptID).
		Order("end_date DESC NULLS LAST, start_date DESC").
		First(&l).Error
	return &l, err
}

func (r *rationLogRepo) ReactivateTx(tx *gorm.DB, id uuid.UUID) error {
	return tx.Model(&model.AnimalRationLog{}).Where("id = ?", id).Updates(map[string]interface{}{
		"is_active":  true,
		"end_date":   nil,
		"updated_at": time.Now(),
	}).Error
}

func (r *rationLogRepo) DB() *gorm.DB { return r.db }
