package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ─── Components ──────────────────────────────────────────────────────────────

type RationComponentRequest struct {
	Name        string          `json:"name"        validate:"required,max=255"`
	Description *string         `json:"description"`
	DryMatter   decimal.Decimal `json:"dry_matter"  validate:"gt=0,lte=100"`
	Calorie     decimal.Decimal `json:"calorie"     validate:"min=0"`
	Starch      decimal.Decimal `json:"starch"      validate:"min=0"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0"`
}

type UpdateRationComponentRequest struct {
	Name        *string          `json:"name"        validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	DryMatter   *decimal.Decimal `json:"dry_matter"  validate:"omitempty,gt=0,lte=100"`
	Calorie     *decimal.Decimal `json:"calorie"     validate:"omitempty,min=0"`
	Starch      *decimal.Decimal `json:"starch"      validate:"omitempty,min=0"`
	Price       *decimal.Decimal `json:"price"       validate:"omitempty,gt=0"`
}

type RationComponentResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	DryMatter   decimal.Decimal `json:"dry_matter"`
	Calorie     decimal.Decimal `json:"calorie"`
	Starch      decimal.Decimal `json:"starch"`
	Price       decimal.Decimal `json:"price"`
	Status      string          `json:"status"`
	DeletedAt   *time.Time      `json:"deleted_at"`
}

// ─── Tables ──────────────────────────────────────────────────────────────────

type RationTableRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description"`
}

type RationTableResponse struct {
	ID          string                         `json:"id"`
	Name        string                         `json:"name"`
	Description *string                        `json:"description"`
	Status      string                         `json:"status"`
	DeletedAt   *time.Time                     `json:"deleted_at"`
	Components  []RationTableComponentResponse `json:"components"`
}

type RationCostResponse struct {
	RationTableID string          `json:"ration_table_id"`
	Cost          decimal.Decimal `json:"cost"`
	DryMatter     decimal.Decimal `json:"dry_matter"`
	Calories      decimal.Decimal `json:"calories"`
	Starch        decimal.Decimal `json:"starch"`
}

// ─── Table components ────────────────────────────────────────────────────────

type RationTableComponentRequest struct {
	RationTableID string          `json:"ration_table_id" validate:"required,uuid"`
	ComponentID   string          `json:"component_id"    validate:"required,uuid"`
	Quantity      decimal.Decimal `json:"quantity"        validate:"gt=0"`
}

type UpdateRationTableComponentRequest struct {
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
}

type RationTableComponentFilter struct {
	Visibility    string `form:"visibility"`
	RationTableID string `form:"ration_table_id"`
}

type RationTableComponentResponse struct {
	ID            string          `json:"id"`
	RationTableID string          `json:"ration_table_id"`
	ComponentID   string          `json:"component_id"`
	ComponentName string          `json:"component_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Status        string          `json:"status"`
	DeletedAt     *time.Time      `json:"deleted_at"`
}

// ─── Change logs ─────────────────────────────────────────────────────────────

type ComponentChangeLogResponse struct {
	ID          string    `json:"id"`
	ComponentID string    `json:"component_id"`
	FieldName   string    `json:"field_name"`
	OldValue    *string   `json:"old_value"`
	NewValue    *string   `json:"new_value"`
	ChangedAt   time.Time `json:"changed_at"`
}

type RationTableLogResponse struct {
	ID            string    `json:"id"`
	RationTableID string    `json:"ration_table_id"`
	Action        string    `json:"action"`
	Description   *string   `json:"description"`
	ChangedAt     time.Time `json:"changed_at"`
}

type RationTableComponentLogResponse struct {
	ID               string              `json:"id"`
	TableComponentID string              `json:"table_component_id"`
	Action           string              `json:"action"`
	OldQuantity      decimal.NullDecimal `json:"old_quantity"`
	NewQuantity      decimal.NullDecimal `json:"new_quantity"`
	ChangedAt        time.Time           `json:"changed_at"`
}
