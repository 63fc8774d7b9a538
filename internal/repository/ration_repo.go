package repository

import (
	"context"
	"time"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Every read here takes an explicit model.Visibility; there is no implicit
// "active only" scope.

func statusUpdates(status model.RecordStatus, at time.Time) map[string]interface{} {
	var deletedAt *time.Time
	if status == model.StatusDeleted {
		deletedAt = &at
	}
	return map[string]interface{}{
		"status":     status,
		"deleted_at": deletedAt,
		"updated_at": at,
	}
}

// ── Components ───────────────────────────────────────────────────────────────

type RationComponentRepository interface {
	CreateTx(tx *gorm.DB, c *model.RationComponent) error
	UpdateTx(tx *gorm.DB, c *model.RationComponent) error
	SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error
	HardDeleteTx(tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationComponent, error)
	List(ctx context.Context, vis model.Visibility) ([]model.RationComponent, error)
	// TableIDsUsing returns the tables that reference the component, in any status.
	TableIDsUsing(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)

	DB() *gorm.DB
}

type rationComponentRepo struct{ db *gorm.DB }

func NewRationComponentRepository(db *gorm.DB) RationComponentRepository {
	return &rationComponentRepo{db: db}
}

func (r *rationComponentRepo) CreateTx(tx *gorm.DB, c *model.RationComponent) error {
	return tx.Create(c).Error
}

func (r *rationComponentRepo) UpdateTx(tx *gorm.DB, c *model.RationComponent) error {
	return tx.Save(c).Error
}

func (r *rationComponentRepo) SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error {
	return tx.Model(&model.RationComponent{}).Where("id = ?", id).Updates(statusUpdates(status, at)).Error
}

func (r *rationComponentRepo) HardDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[model.RationComponent](tx, id)
}

func (r *rationComponentRepo) FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationComponent, error) {
	var c model.RationComponent
	err := r.db.WithContext(ctx).Where("id = ? AND status IN ?", id, vis.Statuses()).First(&c).Error
	return &c, err
}

func (r *rationComponentRepo) List(ctx context.Context, vis model.Visibility) ([]model.RationComponent, error) {
	var comps []model.RationComponent
	err := r.db.WithContext(ctx).Where("status IN ?", vis.Statuses()).Order("name ASC").Find(&comps).Error
	return comps, err
}

func (r *rationComponentRepo) TableIDsUsing(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.RationTableComponent{}).
		Where("component_id = ?", id).
		Distinct().
		Pluck("ration_table_id", &ids).Error
	return ids, err
}

func (r *rationComponentRepo) DB() *gorm.DB { return r.db }

// ── Tables ───────────────────────────────────────────────────────────────────

type RationTableRepository interface {
	CreateTx(tx *gorm.DB, t *model.RationTable) error
	UpdateTx(tx *gorm.DB, t *model.RationTable) error
	SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error
	HardDeleteTx(tx *gorm.DB, id uuid.UUID) error
	// FindByID preloads table components of every status with their component.
	FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationTable, error)
	FindByName(ctx context.Context, name string, vis model.Visibility) (*model.RationTable, error)
	List(ctx context.Context, vis model.Visibility) ([]model.RationTable, error)
	// CountRationLogs counts assignment logs of the table, active or not.
	CountRationLogs(ctx context.Context, id uuid.UUID) (int64, error)

	DB() *gorm.DB
}

type rationTableRepo struct{ db *gorm.DB }

func NewRationTableRepository(db *gorm.DB) RationTableRepository {
	return &rationTableRepo{db: db}
}

func (r *rationTableRepo) CreateTx(tx *gorm.DB, t *model.RationTable) error {
	return tx.Omit("Components").Create(t).Error
}

func (r *rationTableRepo) UpdateTx(tx *gorm.DB, t *model.RationTable) error {
	return tx.Model(&model.RationTable{}).Where("id = ?", t.ID).Updates(map[string]interface{}{
		"name":        t.Name,
		"description": t.Description,
		"updated_at":  time.Now(),
	}).Error
}

func (r *rationTableRepo) SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error {
	return tx.Model(&model.RationTable{}).Where("id = ?", id).Updates(statusUpdates(status, at)).Error
}

func (r *rationTableRepo) HardDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[model.RationTable](tx, id)
}

func (r *rationTableRepo) CountRationLogs(ctx context.Context, id uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.AnimalRationLog{}).Where("ration_table_id = ?", id).Count(&n).Error
	return n, err
}

func (r *rationTableRepo) FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationTable, error) {
	var t model.RationTable
	err := r.db.WithContext(ctx).
		Preload("Components", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Preload("Components.Component").
		Where("id = ? AND status IN ?", id, vis.Statuses()).
		First(&t).Error
	return &t, err
}

func (r *rationTableRepo) FindByName(ctx context.Context, name string, vis model.Visibility) (*model.RationTable, error) {
	var t model.RationTable
	err := r.db.WithContext(ctx).
		Preload("Components").
		Preload("Components.Component").
		Where("name = ? AND status IN ?", name, vis.Statuses()).
		Order("created_at ASC").
		First(&t).Error
	return &t, err
}

func (r *rationTableRepo) List(ctx context.Context, vis model.Visibility) ([]model.RationTable, error) {
	var tables []model.RationTable
	err := r.db.WithContext(ctx).
		Preload("Components").
		Preload("Components.Component").
		Where("status IN ?", vis.Statuses()).
		Order("name ASC").
		Find(&tables).Error
	return tables, err
}

func (r *rationTableRepo) DB() *gorm.DB { return r.db }

// ── Table components ─────────────────────────────────────────────────────────

type RationTableComponentRepository interface {
	CreateTx(tx *gorm.DB, tc *model.RationTableComponent) error
	UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error
	SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error
	HardDeleteTx(tx *gorm.DB, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationTableComponent, error)
	// FindByPair ignores status: (table, component) is unique across all rows.
	FindByPair(ctx context.Context, tableID, componentID uuid.UUID) (*model.RationTableComponent, error)
	List(ctx context.Context, vis model.Visibility, tableID *uuid.UUID) ([]model.RationTableComponent, error)

	DB() *gorm.DB
}

type rationTableComponentRepo struct{ db *gorm.DB }

func NewRationTableComponentRepository(db *gorm.DB) RationTableComponentRepository {
	return &rationTableComponentRepo{db: db}
}

func (r *rationTableComponentRepo) CreateTx(tx *gorm.DB, tc *model.RationTableComponent) error {
	return tx.Omit("RationTable", "Component").Create(tc).Error
}

func (r *rationTableComponentRepo) UpdateQuantityTx(tx *gorm.DB, id uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.RationTableComponent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"quantity":   qty,
		"updated_at": time.Now(),
	}).Error
}

func (r *rationTableComponentRepo) SetStatusTx(tx *gorm.DB, id uuid.UUID, status model.RecordStatus, at time.Time) error {
	return tx.Model(&model.RationTableComponent{}).Where("id = ?", id).Updates(statusUpdates(status, at)).Error
}

func (r *rationTableComponentRepo) HardDeleteTx(tx *gorm.DB, id uuid.UUID) error {
	return deleteByIDTx[model.RationTableComponent](tx, id)
}

func (r *rationTableComponentRepo) FindByID(ctx context.Context, id uuid.UUID, vis model.Visibility) (*model.RationTableComponent, error) {
	var tc model.RationTableComponent
	err := r.db.WithContext(ctx).Preload("Component").
		Where("id = ? AND status IN ?", id, vis.Statuses()).
		First(&tc).Error
	return &tc, err
}

func (r *rationTableComponentRepo) FindByPair(ctx context.Context, tableID, componentID uuid.UUID) (*model.RationTableComponent, error) {
	var tc model.RationTableComponent
	err := r.db.WithContext(ctx).
		Where("ration_table_id = ? AND component_id = ?", tableID, componentID).
		First(&tc).Error
	return &tc, err
}

func (r *rationTableComponentRepo) List(ctx context.Context, vis model.Visibility, tableID *uuid.UUID) ([]model.RationTableComponent, error) {
	var rows []model.RationTableComponent
	q := r.db.WithContext(ctx).Preload("Component").Where("status IN ?", vis.Statuses())
	if tableID != nil {
		q = q.Where("ration_table_id = ?", *tableID)
	}
	err := q.Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *rationTableComponentRepo) DB() *gorm.DB { return r.db }
