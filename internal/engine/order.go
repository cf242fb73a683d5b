package engine

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"billiard/internal/billing"
	"billiard/internal/domain"
)

// CheckoutInput describes how a session is being paid.
// CashGiven is only read for cash payments.
type CheckoutInput struct {
	SessionID string
	Method    domain.PaymentMethod
	CashGiven float64
}

// Checkout closes a session and materializes its order. The trailing
// segment is closed at now and totals are computed at the same instant.
func Checkout(doc *domain.Document, in CheckoutInput, now time.Time, ids IDGenerator) (*domain.Order, error) {
	session, err := FindSession(doc, in.SessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrAlreadyClosed
	}
	if !in.Method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
	}

	closeTrailingSegment(session, now)
	totals := billing.Calculate(session, doc.Settings, now)

	order := MaterializeOrder(session, doc.Settings, totals, NewPayment(in.Method, in.CashGiven, totals.Total))
	order.ID = ids.NewID(OrderIDPrefix)
	order.CreatedAt = now

	doc.Orders = append([]*domain.Order{order}, doc.Orders...)

	closedAt := now
	session.ClosedAt = &closedAt
	session.State = domain.SessionStateClosed

	return order, nil
}

// NewPayment builds the payment record. Cash tendered is rounded and
// clamped at zero; change never goes negative.
func NewPayment(method domain.PaymentMethod, cashGiven float64, total int64) domain.Payment {
	payment := domain.Payment{Method: method}
	if method != domain.PaymentMethodCash {
		return payment
	}

	given := int64(0)
	if !math.IsNaN(cashGiven) && !math.IsInf(cashGiven, 0) {
		given = max(0, billing.RoundHalfUp(cashGiven))
	}
	change := billing.Change(total, given)
	payment.CashGiven = &given
	payment.Change = &change

	return payment
}

// MaterializeOrder freezes totals and extras into order lines: the time
// line first, then one line per extra in insertion order, then a tax line
// only when tax is positive.
func MaterializeOrder(session *domain.TableSession, settings domain.Settings, totals billing.Totals, payment domain.Payment) *domain.Order {
	lines := make([]domain.OrderLine, 0, len(session.Extras)+2)
	lines = append(lines, domain.OrderLine{
		Kind:      domain.LineKindTime,
		Name:      fmt.Sprintf("Table time (%d min)", totals.BillableMinutes),
		Qty:       1,
		UnitPrice: totals.TimeCharge,
		Amount:    totals.TimeCharge,
	})

	for _, e := range session.Extras {
		lines = append(lines, domain.OrderLine{
			Kind:      domain.LineKindExtra,
			Name:      e.Name,
			Qty:       e.Qty,
			UnitPrice: e.Price,
			Amount:    e.Amount(),
		})
	}

	if totals.Tax > 0 {
		lines = append(lines, domain.OrderLine{
			Kind:      domain.LineKindTax,
			Name:      "Tax (" + strconv.FormatFloat(settings.TaxRatePct, 'f', -1, 64) + "%)",
			Qty:       1,
			UnitPrice: totals.Tax,
			Amount:    totals.Tax,
		})
	}

	return &domain.Order{
		TableNo:         session.TableNo,
		SessionID:       session.ID,
		PlayedMinutes:   totals.PlayedMinutes,
		BillableMinutes: totals.BillableMinutes,
		HourlyRate:      settings.HourlyRate,
		RoundingMinutes: settings.RoundingMinutes,
		TaxRatePct:      settings.TaxRatePct,
		Lines:           lines,
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Payment:         payment,
	}
}

// FindOrder looks an order up by id.
func FindOrder(doc *domain.Document, orderID string) (*domain.Order, error) {
	for _, o := range doc.Orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}
