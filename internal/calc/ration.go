// Package calc holds the farm's business arithmetic. Every function works on
// shopspring/decimal values; nothing here touches storage.
package calc

import (
	"farmledger/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RationTotals are the aggregates of one ration table.
type RationTotals struct {
	Cost      decimal.Decimal
	DryMatter decimal.Decimal // kg of dry matter in the mix
	Calories  decimal.Decimal
	Starch    decimal.Decimal
}

// Line is one component of a ration table as seen by the aggregation.
type Line struct {
	Price     decimal.Decimal
	DryMatter decimal.Decimal // percent
	Calorie   decimal.Decimal
	Starch    decimal.Decimal
	Quantity  decimal.Decimal
}

// Totals sums lines. The result does not depend on line order.
func Totals(lines []Line) RationTotals {
	t := RationTotals{
		Cost:      decimal.Zero,
		DryMatter: decimal.Zero,
		Calories:  decimal.Zero,
		Starch:    decimal.Zero,
	}
	for _, l := range lines {
		t.Cost = t.Cost.Add(l.Price.Mul(l.Quantity))
		t.DryMatter = t.DryMatter.Add(l.DryMatter.Div(hundred).Mul(l.Quantity))
		t.Calories = t.Calories.Add(l.Calorie.Mul(l.Quantity))
		t.Starch = t.Starch.Add(l.Starch.Mul(l.Quantity))
	}
	return t
}

// TableLines extracts the lines that count towards a table's totals: active
// table components whose component is loaded and active.
func TableLines(table *model.RationTable) []Line {
	if table == nil {
		return nil
	}
	lines := make([]Line, 0, len(table.Components))
	for _, tc := range table.Components {
		if tc.IsDeleted() || tc.Component == nil || tc.Component.IsDeleted() {
			continue
		}
		c := tc.Component
		lines = append(lines, Line{
			Price:     c.Price,
			DryMatter: c.DryMatter,
			Calorie:   c.Calorie,
			Starch:    c.Starch,
			Quantity:  tc.Quantity,
		})
	}
	return lines
}

// TableTotals is Totals(TableLines(table)).
func TableTotals(table *model.RationTable) RationTotals {
	return Totals(TableLines(table))
}
