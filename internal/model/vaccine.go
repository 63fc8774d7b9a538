package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Vaccine struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Description  *string   `gorm:"type:text"`
	Manufacturer *string   `gorm:"type:varchar(255)"`
	CreatedAt    time.Time
}

// AnimalVaccineRecord registers one administration of a vaccine.
type AnimalVaccineRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AnimalID         uuid.UUID      `gorm:"type:uuid;not null;index"`
	VaccineID        uuid.UUID      `gorm:"type:uuid;not null;index"`
	DateAdministered datatypes.Date `gorm:"not null"`
	AdministeredBy   *string        `gorm:"type:varchar(255)"`
	Remarks          *string        `gorm:"type:text"`
	CreatedAt        time.Time

	Animal  *Animal  `gorm:"foreignKey:AnimalID;constraint:OnDelete:CASCADE"`
	Vaccine *Vaccine `gorm:"foreignKey:VaccineID;constraint:OnDelete:CASCADE"`
}
