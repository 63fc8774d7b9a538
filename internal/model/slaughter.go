package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Slaughter is the terminal record of an animal. SalePrice is per kg of
// carcass; KDV is the tax rate applied to the proceeds (0.18 = 18%).
type Slaughter struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnimalID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	Date          datatypes.Date  `gorm:"not null"`
	CarcassWeight decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	KDV           decimal.Decimal `gorm:"column:kdv;type:decimal(5,4);not null;default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Animal *Animal `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
}
