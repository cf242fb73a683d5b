package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSettings_Normalize(t *testing.T) {
	s := Settings{
		ShopName:        "  Crown  ",
		Currency:        "USD",
		TableCount:      0,
		HourlyRate:      -100,
		TaxRatePct:      math.NaN(),
		RoundingMinutes: 20,
	}
	s.Normalize()

	assert.Equal(t, "Crown", s.ShopName)
	assert.Equal(t, Currency, s.Currency)
	assert.Equal(t, MinTableCount, s.TableCount)
	assert.Equal(t, int64(0), s.HourlyRate)
	assert.Equal(t, 0.0, s.TaxRatePct)
	assert.Equal(t, 15, s.RoundingMinutes)

	s.TableCount = 500
	s.TaxRatePct = 250
	s.RoundingMinutes = 60
	s.Normalize()
	assert.Equal(t, MaxTableCount, s.TableCount)
	assert.Equal(t, MaxTaxRatePct, s.TaxRatePct)
	assert.Equal(t, 60, s.RoundingMinutes)
}

func TestIsRoundingStep(t *testing.T) {
	for _, m := range []int{1, 5, 10, 15, 30, 60} {
		assert.True(t, IsRoundingStep(m), m)
	}
	for _, m := range []int{0, 2, 20, 45, 120} {
		assert.False(t, IsRoundingStep(m), m)
	}
}

func TestTableSession_DeriveState(t *testing.T) {
	start := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	tests := []struct {
		name    string
		session TableSession
		want    SessionState
		status  TableStatus
	}{
		{
			name:    "open trailing segment",
			session: TableSession{Segments: []Segment{{StartAt: start}}},
			want:    SessionStatePlaying,
			status:  TableStatusPlaying,
		},
		{
			name:    "all segments closed",
			session: TableSession{Segments: []Segment{{StartAt: start, EndAt: &end}}},
			want:    SessionStateStopped,
			status:  TableStatusStopped,
		},
		{
			name:    "no segments",
			session: TableSession{},
			want:    SessionStateStopped,
			status:  TableStatusStopped,
		},
		{
			name:    "closed wins",
			session: TableSession{Segments: []Segment{{StartAt: start}}, ClosedAt: &end},
			want:    SessionStateClosed,
			status:  TableStatusIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.session
			assert.Equal(t, tt.want, s.DeriveState())
			s.State = s.DeriveState()
			assert.Equal(t, tt.status, s.TableStatus())
		})
	}
}

func TestExtraItem_Amount(t *testing.T) {
	assert.Equal(t, int64(75000), ExtraItem{Price: 25000, Qty: 3}.Amount())
}

func TestPaymentMethod_Valid(t *testing.T) {
	assert.True(t, PaymentMethodCash.Valid())
	assert.True(t, PaymentMethodQR.Valid())
	assert.False(t, PaymentMethod("CASH").Valid())
	assert.False(t, PaymentMethod("").Valid())
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	assert.Equal(t, SchemaVersion, doc.Version)
	assert.Equal(t, int64(0), doc.Revision)
	assert.Equal(t, DefaultSettings(), doc.Settings)
	assert.Empty(t, doc.Sessions)
	assert.Empty(t, doc.Orders)
}
