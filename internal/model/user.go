package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// JWT "typ" claim values.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Roles lists every assignable role.
var Roles = []string{RoleAdmin, RoleManager, RoleStaff}

// User stores API users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Username     string    `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'staff'"`
	Active       bool      `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
