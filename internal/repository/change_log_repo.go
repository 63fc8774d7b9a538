package repository

import (
	"context"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChangeLogRepository appends and reads the ration audit trail. Lists are
// newest first.
type ChangeLogRepository interface {
	CreateComponentLogsTx(tx *gorm.DB, logs []model.ComponentChangeLog) error
	CreateTableLogTx(tx *gorm.DB, l *model.RationTableLog) error
	CreateTableComponentLogTx(tx *gorm.DB, l *model.RationTableComponentLog) error

	ListComponentLogs(ctx context.Context, componentID *uuid.UUID) ([]model.ComponentChangeLog, error)
	ListTableLogs(ctx context.Context, tableID *uuid.UUID) ([]model.RationTableLog, error)
	ListTableComponentLogs(ctx context.Context, tableComponentID, tableID *uuid.UUID) ([]model.RationTableComponentLog, error)
}

type changeLogRepo struct{ db *gorm.DB }

func NewChangeLogRepository(db *gorm.DB) ChangeLogRepository { return &changeLogRepo{db: db} }

func (r *changeLogRepo) CreateComponentLogsTx(tx *gorm.DB, logs []model.ComponentChangeLog) error {
	if len(logs) == 0 {
		return nil
	}
	return tx.Omit("Component").Create(&logs).Error
}

func (r *changeLogRepo) CreateTableLogTx(tx *gorm.DB, l *model.RationTableLog) error {
	return tx.Omit("RationTable").Create(l).Error
}

func (r *changeLogRepo) CreateTableComponentLogTx(tx *gorm.DB, l *model.RationTableComponentLog) error {
	return tx.Omit("TableComponent").Create(l).Error
}

func (r *changeLogRepo) ListComponentLogs(ctx context.Context, componentID *uuid.UUID) ([]model.ComponentChangeLog, error) {
	var logs []model.ComponentChangeLog
	q := r.db.WithContext(ctx)
	if componentID != nil {
		q = q.Where("component_id = ?", *componentID)
	}
	err := q.Order("changed_at DESC").Find(&logs).Error
	return logs, err
}

func (r *changeLogRepo) ListTableLogs(ctx context.Context, tableID *uuid.UUID) ([]model.RationTableLog, error) {
	var logs []model.RationTableLog
	q := r.db.WithContext(ctx)
	if tableID != nil {
		q = q.Where("ration_table_id = ?", *tableID)
	}
	err := q.Order("changed_at DESC").Find(&logs).Error
	return logs, err
}

func (r *changeLogRepo) ListTableComponentLogs(ctx context.Context, tableComponentID, tableID *uuid.UUID) ([]model.RationTableComponentLog, error) {
	var logs []model.RationTableComponentLog
	q := r.db.WithContext(ctx)
	if tableComponentID != nil {
		q = q.Where("table_component_id = ?", *tableComponentID)
	}
	if tableID != nil {
		q = q.Where("table_component_id IN (?)",
			r.db.Model(&model.RationTableComponent{}).Select("id").Where("ration_table_id = ?", *tableID))
	}
	err := q.Order("changed_at DESC").Find(&logs).Error
	return logs, err
}
