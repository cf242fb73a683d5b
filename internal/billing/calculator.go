// Package billing turns play segments and extras into money.
// Every function here is pure; callers supply the reference instant.
package billing

import (
	"math"
	"time"

	"billiard/internal/domain"
)

// Totals is the full price breakdown of a session at a given instant.
type Totals struct {
	PlayedMinutes   int64 `json:"played_minutes"`
	BillableMinutes int64 `json:"billable_minutes"`
	TimeCharge      int64 `json:"time_charge"`
	ExtrasTotal     int64 `json:"extras_total"`
	Subtotal        int64 `json:"subtotal"`
	Tax             int64 `json:"tax"`
	Total           int64 `json:"total"`
}

// Calculate computes the totals of session under settings as of now.
func Calculate(session *domain.TableSession, settings domain.Settings, now time.Time) Totals {
	played := PlayedMinutes(session.Segments, now)
	billable := BillableMinutes(played, settings.RoundingMinutes)
	timeCharge := TimeCharge(billable, settings.HourlyRate)
	extras := ExtrasTotal(session.Extras)
	subtotal := timeCharge + extras
	tax := Tax(subtotal, settings.TaxRatePct)

	return Totals{
		PlayedMinutes:   played,
		BillableMinutes: billable,
		TimeCharge:      timeCharge,
		ExtrasTotal:     extras,
		Subtotal:        subtotal,
		Tax:             tax,
		Total:           subtotal + tax,
	}
}

// PlayedMinutes sums all segments, measuring open ones up to now.
// Partial minutes are dropped. Segments without a start or with an
// inverted range count as zero.
func PlayedMinutes(segments []domain.Segment, now time.Time) int64 {
	var total time.Duration
	for _, seg := range segments {
		if seg.StartAt.IsZero() {
			continue
		}
		end := now
		if seg.EndAt != nil {
			end = *seg.EndAt
		}
		if end.IsZero() || !end.After(seg.StartAt) {
			continue
		}
		total += end.Sub(seg.StartAt)
	}
	return int64(total / time.Minute)
}

// BillableMinutes rounds played minutes up to the next rounding step.
func BillableMinutes(played int64, roundingMinutes int) int64 {
	if played <= 0 {
		return 0
	}
	return RoundUpToStep(played, int64(roundingMinutes))
}

// RoundUpToStep returns the smallest multiple of step that is >= value.
// A non-positive step leaves value unchanged.
func RoundUpToStep(value, step int64) int64 {
	if step <= 0 {
		return value
	}
	if rem := value % step; rem != 0 {
		if value > 0 {
			return value + step - rem
		}
		return value - rem
	}
	return value
}

// TimeCharge prices billable minutes at an hourly rate, rounded to whole units.
func TimeCharge(billableMinutes, hourlyRate int64) int64 {
	return RoundHalfUp(float64(billableMinutes) * float64(hourlyRate) / 60)
}

// ExtrasTotal sums price times quantity over extras.
func ExtrasTotal(extras []domain.ExtraItem) int64 {
	var sum int64
	for _, e := range extras {
		sum += e.Amount()
	}
	return sum
}

// Tax applies a percentage rate to subtotal. The rate is clamped to [0,100].
func Tax(subtotal int64, taxRatePct float64) int64 {
	rate := ClampFloat(taxRatePct, 0, domain.MaxTaxRatePct)
	return RoundHalfUp(float64(subtotal) * rate / 100)
}

// Change is what the cashier hands back. It is never negative.
func Change(total, cashGiven int64) int64 {
	if cashGiven <= total {
		return 0
	}
	return cashGiven - total
}

// RoundHalfUp rounds to the nearest integer with halves going up.
// Non-finite input rounds to zero.
func RoundHalfUp(x float64) int64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int64(math.Floor(x + 0.5))
}

// ClampFloat limits n to [lo, hi]. NaN clamps to lo.
func ClampFloat(n, lo, hi float64) float64 {
	if math.IsNaN(n) || n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// ClampInt limits n to [lo, hi].
func ClampInt(n, lo, hi int64) int64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
