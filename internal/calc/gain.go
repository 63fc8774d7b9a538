package calc

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSameDay is returned when two weighings fall on the same calendar day.
var ErrSameDay = errors.New("weights recorded on the same day")

// ErrNotEnoughWeights is returned when fewer than two weighings exist.
var ErrNotEnoughWeights = errors.New("at least two weight records are required")

// WeightPoint is one weighing.
type WeightPoint struct {
	Weight decimal.Decimal
	Date   time.Time
}

// GainStep is the gain between two consecutive weighings.
type GainStep struct {
	From      WeightPoint
	To        WeightPoint
	Days      int
	DailyGain decimal.Decimal
}

// DaysBetween counts calendar days from a to b, ignoring time of day.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

// DailyGain is (to.weight − from.weight) / days, rounded to 2 places.
func DailyGain(from, to WeightPoint) (GainStep, error) {
	days := DaysBetween(from.Date, to.Date)
	if days == 0 {
		return GainStep{}, ErrSameDay
	}
	g := to.Weight.Sub(from.Weight).DivRound(decimal.NewFromInt(int64(days)), 2)
	return GainStep{From: from, To: to, Days: days, DailyGain: g}, nil
}

// LatestGain computes the gain between the two most recent points. points
// must be sorted by date, newest first.
func LatestGain(points []WeightPoint) (GainStep, error) {
	if len(points) < 2 {
		return GainStep{}, ErrNotEnoughWeights
	}
	return DailyGain(points[1], points[0])
}

// GainHistory computes the gain for every consecutive pair. points must be
// sorted by date, oldest first.
func GainHistory(points []WeightPoint) ([]GainStep, error) {
	if len(points) < 2 {
		return nil, ErrNotEnoughWeights
	}
	steps := make([]GainStep, 0, len(points)-1)
	for i := 1; i < len(points); i++ {
		s, err := DailyGain(points[i-1], points[i])
		if err != nil {
			return nil, err
		}
		steps = append(steps, s)
	}
	return steps, nil
}
