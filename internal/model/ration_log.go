package model

import (
	"time"

	"github.com/google/uuid"
)

// AnimalRationLog assigns one ration table to one animal for a period.
// At most one row per animal has IsActive=true; a partial unique index
// (see infra.applySchemaPatches) enforces it.
type AnimalRationLog struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnimalID      uuid.UUID `gorm:"type:uuid;not null;index"`
	RationTableID uuid.UUID `gorm:"type:uuid;not null;index"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       *time.Time
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Animal      *Animal      `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	RationTable *RationTable `gorm:"foreignKey:RationTableID;constraint:OnDelete:CASCADE"`
}
