package repository

import (
	"context"
	"time"

	"farmledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FeedCostRunRepository interface {
	Create(ctx context.Context, run *model.FeedCostRun) error
	Update(ctx context.Context, run *model.FeedCostRun) error
	// ExistsBetween reports whether another run started in [from, to).
	ExistsBetween(ctx context.Context, from, to time.Time, excludeID uuid.UUID) (bool, error)
	List(ctx context.Context, limit int) ([]model.FeedCostRun, error)
}

type feedCostRunRepo struct{ db *gorm.DB }

func NewFeedCostRunRepository(db *gorm.DB) FeedCostRunRepository { return &feedCostRunRepo{db: db} }

func (r *feedCostRunRepo) Create(ctx context.Context, run *model.FeedCostRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *feedCostRunRepo) Update(ctx context.Context, run *model.FeedCostRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *feedCostRunRepo) ExistsBetween(ctx context.Context, from, to time.Time, excludeID uuid.UUID) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.FeedCostRun{}).
		Where("started_at >= ? AND started_at < ? AND id <> ?", from, to, excludeID).
		Count(&n).Error
	return n > 0, err
}

func (r *feedCostRunRepo) List(ctx context.Context, limit int) ([]model.FeedCostRun, error) {
	var runs []model.FeedCostRun
	err := r.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
