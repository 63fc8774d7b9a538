package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Animals ─────────────────────────────────────────────────────────────────

type AnimalRequest struct {
	Eartag    string           `json:"eartag"     validate:"required,max=255"`
	CompanyID string           `json:"company_id" validate:"required,uuid"`
	Race      *string          `json:"race"       validate:"omitempty,max=255"`
	Gender    *bool            `json:"gender"`
	Room      string           `json:"room"       validate:"required,max=255"`
	Cost      *decimal.Decimal `json:"cost"       validate:"omitempty,min=0"`
}

// AnimalFilter mirrors the list query string. Gender is "0" or "1"; any other
// value is ignored. IsSlaughtered accepts "true" or "1".
type AnimalFilter struct {
	CompanyID     string `form:"company_id"`
	Race          string `form:"race"`
	Gender        string `form:"gender"`
	IsSlaughtered string `form:"is_slaughtered"`
	Eartag        string `form:"eartag"`
	Page          int    `form:"page,default=1"   validate:"min=1"`
	Limit         int    `form:"limit,default=50" validate:"min=1,max=500"`
}

type AnimalResponse struct {
	ID            string          `json:"id"`
	Eartag        string          `json:"eartag"`
	CompanyID     string          `json:"company_id"`
	Race          *string         `json:"race"`
	Gender        *bool           `json:"gender"`
	Room          string          `json:"room"`
	Cost          decimal.Decimal `json:"cost"`
	FeedCost      decimal.Decimal `json:"feed_cost"`
	IsSlaughtered bool            `json:"is_slaughtered"`
	CreatedAt     time.Time       `json:"created_at"`
}

type AnimalListResponse struct {
	Data       []AnimalResponse `json:"data"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
}

// ─── Groups ──────────────────────────────────────────────────────────────────

type GroupRequest struct {
	Name      string          `json:"name"       validate:"required,max=255"`
	DryMatter decimal.Decimal `json:"dry_matter" validate:"min=0"`
}

type GroupResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	DryMatter decimal.Decimal `json:"dry_matter"`
}

// ─── Memberships ─────────────────────────────────────────────────────────────

type AnimalGroupRequest struct {
	AnimalID string `json:"animal_id" validate:"required,uuid"`
	GroupID  string `json:"group_id"  validate:"required,uuid"`
}

type AnimalGroupFilter struct {
	AnimalID string `form:"animal_id"`
	GroupID  string `form:"group_id"`
}

type AnimalGroupResponse struct {
	ID        string    `json:"id"`
	AnimalID  string    `json:"animal_id"`
	Eartag    string    `json:"eartag,omitempty"`
	GroupID   string    `json:"group_id"`
	GroupName string    `json:"group_name,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
