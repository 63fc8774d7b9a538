package dto

import "github.com/shopspring/decimal"

type SlaughterRequest struct {
	AnimalID      string          `json:"animal_id"      validate:"required,uuid"`
	Date          string          `json:"date"           validate:"required,datetime=2006-01-02"`
	CarcassWeight decimal.Decimal `json:"carcass_weight" validate:"gt=0"`
	SalePrice     decimal.Decimal `json:"sale_price"     validate:"gt=0"`
	KDV           decimal.Decimal `json:"kdv"            validate:"min=0,max=1"`
}

type SlaughterResponse struct {
	ID            string          `json:"id"`
	AnimalID      string          `json:"animal_id"`
	Eartag        string          `json:"eartag,omitempty"`
	Date          string          `json:"date"`
	CarcassWeight decimal.Decimal `json:"carcass_weight"`
	SalePrice     decimal.Decimal `json:"sale_price"`
	KDV           decimal.Decimal `json:"kdv"`
}

type ProfitResponse struct {
	SlaughterID string          `json:"slaughter_id"`
	AnimalID    string          `json:"animal_id"`
	Eartag      string          `json:"eartag"`
	Revenue     decimal.Decimal `json:"revenue"`
	AnimalCost  decimal.Decimal `json:"animal_cost"`
	FeedCost    decimal.Decimal `json:"feed_cost"`
	Tax         decimal.Decimal `json:"tax"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	Profit      decimal.Decimal `json:"profit"`
}

type TotalProfitResponse struct {
	Count       int             `json:"count"`
	TotalProfit decimal.Decimal `json:"total_profit"`
}
