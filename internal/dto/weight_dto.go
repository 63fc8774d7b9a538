package dto

import "github.com/shopspring/decimal"

// DateLayout is the wire format of date-only fields.
const DateLayout = "2006-01-02"

type WeightRequest struct {
	AnimalID   string          `json:"animal_id"   validate:"required,uuid"`
	Weight     decimal.Decimal `json:"weight"`
	RecordedAt string          `json:"recorded_at" validate:"required,datetime=2006-01-02"`
}

type WeightFilter struct {
	AnimalID string `form:"animal_id"`
}

type WeightResponse struct {
	ID         string          `json:"id"`
	AnimalID   string          `json:"animal_id"`
	Weight     decimal.Decimal `json:"weight"`
	RecordedAt string          `json:"recorded_at"`
}

// ─── Gain read-models ────────────────────────────────────────────────────────

type GainStepResponse struct {
	FromDate   string          `json:"from_date"`
	ToDate     string          `json:"to_date"`
	FromWeight decimal.Decimal `json:"from_weight"`
	ToWeight   decimal.Decimal `json:"to_weight"`
	Days       int             `json:"days"`
	DailyGain  decimal.Decimal `json:"daily_gain"`
}

type DailyGainResponse struct {
	AnimalID string `json:"animal_id"`
	Eartag   string `json:"eartag"`
	GainStepResponse
}

type GainHistoryResponse struct {
	AnimalID    string             `json:"animal_id"`
	Eartag      string             `json:"eartag"`
	GainHistory []GainStepResponse `json:"gain_history"`
}

// GroupGainResult is one member's outcome; exactly one of DailyGain,
// GainHistory and Error is set.
type GroupGainResult struct {
	AnimalID    string             `json:"animal_id"`
	Eartag      string             `json:"eartag"`
	DailyGain   *GainStepResponse  `json:"daily_gain,omitempty"`
	GainHistory []GainStepResponse `json:"gain_history,omitempty"`
	Error       string             `json:"error,omitempty"`
}

type GroupGainResponse struct {
	GroupID   string            `json:"group_id"`
	GroupName string            `json:"group_name"`
	Results   []GroupGainResult `json:"results"`
}
