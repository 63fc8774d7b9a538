package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Animal is one head of livestock identified by its eartag.
// FeedCost is mutated only by the feed-cost allocator; IsSlaughtered only by
// the slaughter workflow.
type Animal struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Eartag        string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	CompanyID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Race          *string         `gorm:"type:varchar(255)"`
	Gender        *bool           // true = male, false = female
	Room          string          `gorm:"type:varchar(255);not null"`
	Cost          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FeedCost      decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	IsSlaughtered bool            `gorm:"not null;default:false;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

// Group is a feeding cohort. DryMatter is the daily dry-matter intake per kg
// of live weight used by the feed-cost allocator.
type Group struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string          `gorm:"type:varchar(255);not null"`
	DryMatter decimal.Decimal `gorm:"type:decimal(10,5);not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName avoids the GROUPS keyword.
func (Group) TableName() string { return "herd_groups" }

// AnimalGroup is the many-to-many membership between animals and groups.
type AnimalGroup struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnimalID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_animal_group"`
	GroupID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_animal_group;index"`
	CreatedAt time.Time

	Animal *Animal `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	Group  *Group  `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}
