package model

import (
	"time"

	"github.com/google/uuid"
)

// Company owns animals and employs farmers.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Address   string    `gorm:"type:text;not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Farmer is a person working for a Company.
type Farmer struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Age       int       `gorm:"not null"`
	Position  string    `gorm:"type:varchar(100);not null"` // e.g. manager, laborer
	Email     *string
	CompanyID uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Company *Company `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}
