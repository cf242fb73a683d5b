package handler

import (
	"time"

	"billiard/internal/billing"
	"billiard/internal/domain"
	"billiard/internal/engine"
)

// SegmentResponse is one playing interval.
type SegmentResponse struct {
	StartAt string  `json:"start_at"`
	EndAt   *string `json:"end_at"`
}

// ExtraResponse is a sold item on a session.
type ExtraResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Price  int64  `json:"price"`
	Qty    int64  `json:"qty"`
	Amount int64  `json:"amount"`
}

// SessionResponse is the HTTP shape of a table session.
type SessionResponse struct {
	ID        string            `json:"id"`
	TableNo   int               `json:"table_no"`
	State     string            `json:"state"`
	CreatedAt string            `json:"created_at"`
	Segments  []SegmentResponse `json:"segments"`
	Extras    []ExtraResponse   `json:"extras"`
	Note      string            `json:"note,omitempty"`
	ClosedAt  *string           `json:"closed_at"`
	Totals    *billing.Totals   `json:"totals,omitempty"`
}

// TableResponse is one row of the floor overview.
type TableResponse struct {
	TableNo int              `json:"table_no"`
	Status  string           `json:"status"`
	Session *SessionResponse `json:"session"`
	Totals  *billing.Totals  `json:"totals"`
}

// SettingsResponse is the HTTP shape of the shop settings.
type SettingsResponse struct {
	ShopName        string  `json:"shop_name"`
	ShopAddress     string  `json:"shop_address"`
	ShopPhone       string  `json:"shop_phone"`
	Currency        string  `json:"currency"`
	TableCount      int     `json:"table_count"`
	HourlyRate      int64   `json:"hourly_rate"`
	TaxRatePct      float64 `json:"tax_rate_pct"`
	RoundingMinutes int     `json:"rounding_minutes"`
}

// OrderLineResponse is one line of an order.
type OrderLineResponse struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Qty       int64  `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
	Amount    int64  `json:"amount"`
}

// PaymentResponse contains payment details. Cash fields only appear for cash.
type PaymentResponse struct {
	Method    string `json:"method"`
	CashGiven *int64 `json:"cash_given,omitempty"`
	Change    *int64 `json:"change,omitempty"`
}

// OrderResponse is the HTTP shape of an order.
type OrderResponse struct {
	ID              string              `json:"id"`
	TableNo         int                 `json:"table_no"`
	SessionID       string              `json:"session_id"`
	CreatedAt       string              `json:"created_at"`
	PlayedMinutes   int64               `json:"played_minutes"`
	BillableMinutes int64               `json:"billable_minutes"`
	HourlyRate      int64               `json:"hourly_rate"`
	RoundingMinutes int                 `json:"rounding_minutes"`
	TaxRatePct      float64             `json:"tax_rate_pct"`
	Lines           []OrderLineResponse `json:"lines"`
	Subtotal        int64               `json:"subtotal"`
	Tax             int64               `json:"tax"`
	Total           int64               `json:"total"`
	Payment         PaymentResponse     `json:"payment"`
}

func formatTime(t time.Time) string {
	return t.Format(timeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func toSessionResponse(s *domain.TableSession, totals *billing.Totals) *SessionResponse {
	if s == nil {
		return nil
	}

	segments := make([]SegmentResponse, 0, len(s.Segments))
	for _, seg := range s.Segments {
		segments = append(segments, SegmentResponse{
			StartAt: formatTime(seg.StartAt),
			EndAt:   formatTimePtr(seg.EndAt),
		})
	}

	extras := make([]ExtraResponse, 0, len(s.Extras))
	for _, e := range s.Extras {
		extras = append(extras, ExtraResponse{
			ID:     e.ID,
			Name:   e.Name,
			Price:  e.Price,
			Qty:    e.Qty,
			Amount: e.Amount(),
		})
	}

	return &SessionResponse{
		ID:        s.ID,
		TableNo:   s.TableNo,
		State:     string(s.State),
		CreatedAt: formatTime(s.CreatedAt),
		Segments:  segments,
		Extras:    extras,
		Note:      s.Note,
		ClosedAt:  formatTimePtr(s.ClosedAt),
		Totals:    totals,
	}
}

func toTableResponses(views []engine.TableView) []TableResponse {
	tables := make([]TableResponse, 0, len(views))
	for _, v := range views {
		tables = append(tables, TableResponse{
			TableNo: v.TableNo,
			Status:  string(v.Status),
			Session: toSessionResponse(v.Session, nil),
			Totals:  v.Totals,
		})
	}
	return tables
}

func toSettingsResponse(s domain.Settings) SettingsResponse {
	return SettingsResponse{
		ShopName:        s.ShopName,
		ShopAddress:     s.ShopAddress,
		ShopPhone:       s.ShopPhone,
		Currency:        s.Currency,
		TableCount:      s.TableCount,
		HourlyRate:      s.HourlyRate,
		TaxRatePct:      s.TaxRatePct,
		RoundingMinutes: s.RoundingMinutes,
	}
}

func toOrderResponse(o *domain.Order) OrderResponse {
	lines := make([]OrderLineResponse, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, OrderLineResponse{
			Kind:      string(l.Kind),
			Name:      l.Name,
			Qty:       l.Qty,
			UnitPrice: l.UnitPrice,
			Amount:    l.Amount,
		})
	}

	return OrderResponse{
		ID:              o.ID,
		TableNo:         o.TableNo,
		SessionID:       o.SessionID,
		CreatedAt:       formatTime(o.CreatedAt),
		PlayedMinutes:   o.PlayedMinutes,
		BillableMinutes: o.BillableMinutes,
		HourlyRate:      o.HourlyRate,
		RoundingMinutes: o.RoundingMinutes,
		TaxRatePct:      o.TaxRatePct,
		Lines:           lines,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Total:           o.Total,
		Payment: PaymentResponse{
			Method:    string(o.Payment.Method),
			CashGiven: o.Payment.CashGiven,
			Change:    o.Payment.Change,
		},
	}
}

func toOrderResponses(orders []*domain.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	return out
}
