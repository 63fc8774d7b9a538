package dto

import "time"

// ─── Companies ───────────────────────────────────────────────────────────────

type CompanyRequest struct {
	Name    string `json:"name"    validate:"required,min=1,max=100"`
	Address string `json:"address"`
}

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
}

// ─── Farmers ─────────────────────────────────────────────────────────────────

type FarmerRequest struct {
	Name      string  `json:"name"       validate:"required,min=1,max=100"`
	Age       int     `json:"age"        validate:"min=0,max=130"`
	Position  string  `json:"position"   validate:"required,max=100"`
	Email     *string `json:"email"      validate:"omitempty,email"`
	CompanyID string  `json:"company_id" validate:"required,uuid"`
}

type FarmerFilter struct {
	CompanyID string `form:"company_id"`
}

type FarmerResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Age       int     `json:"age"`
	Position  string  `json:"position"`
	Email     *string `json:"email"`
	CompanyID string  `json:"company_id"`
}
