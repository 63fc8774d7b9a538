package calc

import (
	"github.com/shopspring/decimal"
)

// SkipReason explains why the allocator left an animal untouched.
type SkipReason string

const (
	SkipNone           SkipReason = ""
	SkipNoGroup        SkipReason = "no group assignment"
	SkipZeroCoef       SkipReason = "group has no dry matter coefficient"
	SkipNoWeight       SkipReason = "no weight record"
	SkipZeroTableDM    SkipReason = "ration table has no dry matter"
	SkipRationNotFound SkipReason = "ration table not found"
)

// FeedInput is what the allocator knows about one animal on one run.
// Nil pointers mean the datum is missing.
type FeedInput struct {
	GroupCoefficient *decimal.Decimal
	LatestWeight     *decimal.Decimal
	Table            RationTotals
}

// FeedIncrement computes the day's feed cost for one animal:
//
//	demand    = coefficient × weight
//	share     = demand / table dry matter
//	increment = table cost × share
//
// The increment is rounded half-up to 2 places, the precision of
// Animal.FeedCost. When an input is missing the reason is returned with a
// zero increment.
func FeedIncrement(in FeedInput) (decimal.Decimal, SkipReason) {
	if in.GroupCoefficient == nil {
		return decimal.Zero, SkipNoGroup
	}
	if !in.GroupCoefficient.IsPositive() {
		return decimal.Zero, SkipZeroCoef
	}
	if in.LatestWeight == nil {
		return decimal.Zero, SkipNoWeight
	}
	if !in.Table.DryMatter.IsPositive() {
		return decimal.Zero, SkipZeroTableDM
	}
	demand := in.GroupCoefficient.Mul(*in.LatestWeight)
	share := demand.DivRound(in.Table.DryMatter, 16)
	return in.Table.Cost.Mul(share).Round(2), SkipNone
}
