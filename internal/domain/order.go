package domain

import "time"

// PaymentMethod represents how an order was paid.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodQR   PaymentMethod = "qr"
)

// Valid reports whether m is a supported payment method.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodQR:
		return true
	}
	return false
}

// LineKind tags an order line.
type LineKind string

const (
	LineKindTime  LineKind = "time"
	LineKindExtra LineKind = "extra"
	LineKindTax   LineKind = "tax"
)

// OrderLine is one printed row of a receipt.
type OrderLine struct {
	Kind      LineKind `json:"kind"`
	Name      string   `json:"name"`
	Qty       int64    `json:"qty"`
	UnitPrice int64    `json:"unitPrice"`
	Amount    int64    `json:"amount"`
}

// Payment records how the customer paid. CashGiven and Change are only set for cash.
type Payment struct {
	Method    PaymentMethod `json:"method"`
	CashGiven *int64        `json:"cashGiven,omitempty"`
	Change    *int64        `json:"change,omitempty"`
}

// Order is the immutable receipt produced at checkout.
type Order struct {
	ID              string      `json:"id"`
	TableNo         int         `json:"tableNo"`
	SessionID       string      `json:"sessionId"`
	CreatedAt       time.Time   `json:"createdAt"`
	PlayedMinutes   int64       `json:"playedMinutes"`
	BillableMinutes int64       `json:"billableMinutes"`
	HourlyRate      int64       `json:"hourlyRate"`
	RoundingMinutes int         `json:"roundingMinutes"`
	TaxRatePct      float64     `json:"taxRatePct"`
	Lines           []OrderLine `json:"lines"`
	Subtotal        int64       `json:"subtotal"`
	Tax             int64       `json:"tax"`
	Total           int64       `json:"total"`
	Payment         Payment     `json:"payment"`
}
