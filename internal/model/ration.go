package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordStatus marks soft-deletable ration records.
type RecordStatus string

const (
	StatusActive  RecordStatus = "active"
	StatusDeleted RecordStatus = "deleted"
)

// Visibility is the explicit filter every ration query takes.
type Visibility string

const (
	VisibleActive  Visibility = "active"
	VisibleDeleted Visibility = "deleted"
	VisibleAll     Visibility = "all"
)

// ParseVisibility maps a query parameter to a Visibility. Empty means active.
func ParseVisibility(s string) (Visibility, bool) {
	switch Visibility(s) {
	case "", VisibleActive:
		return VisibleActive, true
	case VisibleDeleted:
		return VisibleDeleted, true
	case VisibleAll:
		return VisibleAll, true
	}
	return "", false
}

// Statuses returns the statuses a visibility admits.
func (v Visibility) Statuses() []RecordStatus {
	switch v {
	case VisibleDeleted:
		return []RecordStatus{StatusDeleted}
	case VisibleAll:
		return []RecordStatus{StatusActive, StatusDeleted}
	default:
		return []RecordStatus{StatusActive}
	}
}

// Admits reports whether a record with status s is visible.
func (v Visibility) Admits(s RecordStatus) bool {
	for _, st := range v.Statuses() {
		if st == s {
			return true
		}
	}
	return false
}

// RationComponent is a feed ingredient. DryMatter is a percentage of the
// as-fed mass; Price is per unit of quantity.
type RationComponent struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null"`
	Description *string
	DryMatter   decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Calorie     decimal.Decimal `gorm:"type:decimal(7,2);not null"`
	Starch      decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status      RecordStatus    `gorm:"type:varchar(10);not null;default:'active';index"`
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c RationComponent) IsDeleted() bool { return c.Status == StatusDeleted }

// RationTable is a named feed recipe.
type RationTable struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"type:varchar(255);not null;index"`
	Description *string
	Status      RecordStatus `gorm:"type:varchar(10);not null;default:'active';index"`
	DeletedAt   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Components []RationTableComponent `gorm:"foreignKey:RationTableID"`
}

func (t RationTable) IsDeleted() bool { return t.Status == StatusDeleted }

// RationTableComponent is the quantity of one component in one table.
type RationTableComponent struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RationTableID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_table_component"`
	ComponentID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_table_component;index"`
	Quantity      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Status        RecordStatus    `gorm:"type:varchar(10);not null;default:'active';index"`
	DeletedAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	RationTable *RationTable     `gorm:"foreignKey:RationTableID;constraint:OnDelete:CASCADE"`
	Component   *RationComponent `gorm:"foreignKey:ComponentID;constraint:OnDelete:RESTRICT"`
}

func (tc RationTableComponent) IsDeleted() bool { return tc.Status == StatusDeleted }
