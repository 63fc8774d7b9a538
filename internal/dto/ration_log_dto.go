package dto

import "time"

// AnimalRationLogRequest creates or fully updates an assignment. StartDate
// defaults to now; IsActive defaults to true.
type AnimalRationLogRequest struct {
	AnimalID      string     `json:"animal_id"       validate:"required,uuid"`
	RationTableID string     `json:"ration_table_id" validate:"required,uuid"`
	StartDate     *time.Time `json:"start_date"`
	EndDate       *time.Time `json:"end_date"`
	IsActive      *bool      `json:"is_active"`
}

type DeactivateRationLogRequest struct {
	EndDate *time.Time `json:"end_date"`
}

// AnimalRationLogFilter uses the query names "animal" and "ration_table".
type AnimalRationLogFilter struct {
	AnimalID      string `form:"animal"`
	RationTableID string `form:"ration_table"`
	Active        string `form:"is_active"`
}

type AnimalRationLogResponse struct {
	ID              string     `json:"id"`
	AnimalID        string     `json:"animal_id"`
	Eartag          string     `json:"eartag,omitempty"`
	RationTableID   string     `json:"ration_table_id"`
	RationTableName string     `json:"ration_table_name,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	IsActive        bool       `json:"is_active"`
}
