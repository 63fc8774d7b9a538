package calc

import "github.com/shopspring/decimal"

// ProfitInput carries the slaughter and animal figures.
type ProfitInput struct {
	SalePrice     decimal.Decimal // per kg of carcass
	CarcassWeight decimal.Decimal
	KDV           decimal.Decimal // tax rate, 0.18 = 18%
	AnimalCost    decimal.Decimal
	FeedCost      decimal.Decimal
}

// ProfitBreakdown itemizes Profit for statements.
type ProfitBreakdown struct {
	Revenue   decimal.Decimal
	Tax       decimal.Decimal
	TotalCost decimal.Decimal
	Profit    decimal.Decimal
}

// Profit = revenue − (animal cost + feed cost + revenue × kdv),
// revenue = sale price × carcass weight.
func Profit(in ProfitInput) ProfitBreakdown {
	revenue := in.SalePrice.Mul(in.CarcassWeight)
	tax := revenue.Mul(in.KDV)
	total := in.AnimalCost.Add(in.FeedCost).Add(tax)
	return ProfitBreakdown{
		Revenue:   revenue,
		Tax:       tax,
		TotalCost: total,
		Profit:    revenue.Sub(total),
	}
}
