package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Audit trail rows. They are append-only and cascade with their subject on
// hard delete.

// Change-log actions shared by table and table-component logs.
const (
	ActionCreated     = "Created"
	ActionUpdated     = "Updated"
	ActionSoftDeleted = "Soft Deleted"
	ActionRestored    = "Restored"
)

// ComponentChangeLog records a change of one tracked field of a RationComponent.
type ComponentChangeLog struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ComponentID uuid.UUID `gorm:"type:uuid;not null;index"`
	FieldName   string    `gorm:"type:varchar(50);not null"` // price | dry_matter | calorie | starch | deleted_at
	OldValue    *string   `gorm:"type:text"`
	NewValue    *string   `gorm:"type:text"`
	ChangedAt   time.Time `gorm:"not null;index"`

	Component *RationComponent `gorm:"foreignKey:ComponentID;constraint:OnDelete:CASCADE"`
}

type RationTableLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RationTableID uuid.UUID `gorm:"type:uuid;not null;index"`
	Action        string    `gorm:"type:varchar(50);not null"`
	Description   *string   `gorm:"type:text"`
	ChangedAt     time.Time `gorm:"not null;index"`

	RationTable *RationTable `gorm:"foreignKey:RationTableID;constraint:OnDelete:CASCADE"`
}

type RationTableComponentLog struct {
	ID               uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TableComponentID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Action           string              `gorm:"type:varchar(50);not null"`
	OldQuantity      decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	NewQuantity      decimal.NullDecimal `gorm:"type:decimal(10,2)"`
	ChangedAt        time.Time           `gorm:"not null;index"`

	TableComponent *RationTableComponent `gorm:"foreignKey:TableComponentID;constraint:OnDelete:CASCADE"`
}
