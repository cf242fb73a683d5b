package billing

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"billiard/internal/domain"
)

var base = time.Date(2025, 3, 1, 18, 0, 0, 0, time.FixedZone("ICT", 7*3600))

func at(minutes float64) time.Time {
	return base.Add(time.Duration(minutes * float64(time.Minute)))
}

func closed(start, end float64) domain.Segment {
	e := at(end)
	return domain.Segment{StartAt: at(start), EndAt: &e}
}

func open(start float64) domain.Segment {
	return domain.Segment{StartAt: at(start)}
}

func TestPlayedMinutes(t *testing.T) {
	tests := []struct {
		name     string
		segments []domain.Segment
		now      time.Time
		want     int64
	}{
		{"no segments", nil, at(30), 0},
		{"open segment", []domain.Segment{open(0)}, at(20), 20},
		{"partial minute dropped", []domain.Segment{open(0)}, at(20.9), 20},
		{"closed segments summed", []domain.Segment{closed(0, 10), closed(15, 27)}, at(60), 22},
		{"partial minutes summed before flooring", []domain.Segment{closed(0, 0.5), closed(1, 1.5)}, at(60), 1},
		{"closed then open", []domain.Segment{closed(0, 10), open(30)}, at(45), 25},
		{"inverted segment ignored", []domain.Segment{closed(10, 5), closed(0, 3)}, at(60), 3},
		{"zero start ignored", []domain.Segment{{StartAt: time.Time{}}}, at(60), 0},
		{"open segment in the future", []domain.Segment{open(10)}, at(5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PlayedMinutes(tt.segments, tt.now))
		})
	}
}

func TestPlayedMinutes_MonotonicWhileOpen(t *testing.T) {
	segments := []domain.Segment{closed(0, 7), open(12)}

	prev := int64(-1)
	for m := 12.0; m < 200; m += 0.37 {
		got := PlayedMinutes(segments, at(m))
		assert.GreaterOrEqual(t, got, prev, "played minutes decreased at %v", m)
		prev = got
	}
}

func TestBillableMinutes(t *testing.T) {
	tests := []struct {
		played   int64
		rounding int
		want     int64
	}{
		{0, 15, 0},
		{-3, 15, 0},
		{1, 15, 15},
		{15, 15, 15},
		{16, 15, 30},
		{20, 15, 30},
		{59, 60, 60},
		{61, 60, 120},
		{7, 1, 7},
		{7, 0, 7},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, BillableMinutes(tt.played, tt.rounding), "played=%d rounding=%d", tt.played, tt.rounding)
	}
}

func TestTimeCharge(t *testing.T) {
	assert.Equal(t, int64(25000), TimeCharge(30, 50000))
	assert.Equal(t, int64(0), TimeCharge(0, 50000))
	// 1 minute at 50000/h = 833.33
	assert.Equal(t, int64(833), TimeCharge(1, 50000))
	// 1 minute at 30/h = 0.5, halves round up
	assert.Equal(t, int64(1), TimeCharge(1, 30))
}

func TestTax(t *testing.T) {
	assert.Equal(t, int64(0), Tax(45000, 0))
	assert.Equal(t, int64(4500), Tax(45000, 10))
	assert.Equal(t, int64(3825), Tax(45000, 8.5))
	assert.Equal(t, int64(45000), Tax(45000, 250), "rate clamps to 100")
	assert.Equal(t, int64(0), Tax(45000, -5), "rate clamps to 0")
	assert.Equal(t, int64(1), Tax(10, 5), "0.5 rounds up")
}

func TestChange(t *testing.T) {
	assert.Equal(t, int64(5000), Change(45000, 50000))
	assert.Equal(t, int64(0), Change(45000, 40000))
	assert.Equal(t, int64(0), Change(45000, 45000))
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, int64(3), RoundHalfUp(2.5))
	assert.Equal(t, int64(2), RoundHalfUp(2.49))
	assert.Equal(t, int64(-2), RoundHalfUp(-2.5))
	assert.Equal(t, int64(0), RoundHalfUp(math.NaN()))
	assert.Equal(t, int64(0), RoundHalfUp(math.Inf(1)))
}

func TestCalculate_EndToEnd(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.HourlyRate = 50000
	settings.RoundingMinutes = 15
	settings.TaxRatePct = 0

	session := &domain.TableSession{
		TableNo:  3,
		Segments: []domain.Segment{open(0)},
		Extras:   []domain.ExtraItem{{ID: "ex_1", Name: "Tea", Price: 10000, Qty: 2}},
	}

	got := Calculate(session, settings, at(20))

	assert.Equal(t, Totals{
		PlayedMinutes:   20,
		BillableMinutes: 30,
		TimeCharge:      25000,
		ExtrasTotal:     20000,
		Subtotal:        45000,
		Tax:             0,
		Total:           45000,
	}, got)
}

func TestCalculate_TotalsIdentity(t *testing.T) {
	rates := []float64{0, 5, 8.5, 10, 33.3, 100, 150, -1}
	steps := []int{1, 5, 10, 15, 30, 60}

	for _, rate := range rates {
		for _, step := range steps {
			settings := domain.DefaultSettings()
			settings.TaxRatePct = rate
			settings.RoundingMinutes = step
			settings.HourlyRate = 47000

			session := &domain.TableSession{
				Segments: []domain.Segment{closed(0, 13), open(40)},
				Extras: []domain.ExtraItem{
					{Price: 12000, Qty: 3},
					{Price: 7500, Qty: 1},
				},
			}
			got := Calculate(session, settings, at(97))

			assert.Equal(t, got.TimeCharge+got.ExtrasTotal, got.Subtotal)
			assert.Equal(t, got.Subtotal+got.Tax, got.Total)
			clamped := math.Max(0, math.Min(100, rate))
			assert.Equal(t, RoundHalfUp(float64(got.Subtotal)*clamped/100), got.Tax)
		}
	}
}

func TestCalculate_Repeatable(t *testing.T) {
	settings := domain.DefaultSettings()
	session := &domain.TableSession{Segments: []domain.Segment{open(0)}}

	first := Calculate(session, settings, at(42))
	second := Calculate(session, settings, at(42))

	assert.Equal(t, first, second)
	assert.Len(t, session.Segments, 1)
	assert.Nil(t, session.Segments[0].EndAt)
}
