package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FeedCostRun records one execution of the feed-cost allocator.
// SameDayRepeat is set when an earlier run exists for the same UTC day: the
// allocator is additive, so such a run double-counts that day's feed.
type FeedCostRun struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Trigger        string          `gorm:"type:varchar(20);not null"` // schedule | manual | cli
	StartedAt      time.Time       `gorm:"not null;index"`
	FinishedAt     *time.Time
	Processed      int             `gorm:"not null;default:0"`
	Skipped        int             `gorm:"not null;default:0"`
	TotalIncrement decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SameDayRepeat  bool            `gorm:"not null;default:false"`
}
