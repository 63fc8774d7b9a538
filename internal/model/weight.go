package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Weight is one weighing of an animal; one record per animal per day.
type Weight struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnimalID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_weight_animal_day"`
	Weight     decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	RecordedAt datatypes.Date  `gorm:"not null;uniqueIndex:idx_weight_animal_day"`
	CreatedAt  time.Time

	Animal *Animal `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
}
