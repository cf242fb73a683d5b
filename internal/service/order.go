package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"billiard/internal/domain"
	"billiard/internal/engine"
)

// OrderCache is a read-through cache for orders. Orders never change once
// written, so entries need no invalidation on update.
type OrderCache interface {
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)
	SetOrder(ctx context.Context, order *domain.Order) error
	SetOrdersBatch(ctx context.Context, orders []*domain.Order) error
}

// OrderDetail is an order with the settings to render it.
type OrderDetail struct {
	Order    *domain.Order
	Settings domain.Settings
}

// OrderService handles order history.
type OrderService struct {
	tx       *Transactor
	cache    OrderCache
	receipts *ReceiptService
	log      logrus.FieldLogger
}

// NewOrderService creates a new OrderService. cache may be nil.
func NewOrderService(tx *Transactor, cache OrderCache, receipts *ReceiptService, log logrus.FieldLogger) *OrderService {
	if receipts == nil {
		receipts = NewReceiptService()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OrderService{tx: tx, cache: cache, receipts: receipts, log: log}
}

// List returns every order, newest first. The listed orders warm the
// cache for the detail and receipt lookups that usually follow.
func (s *OrderService) List(ctx context.Context) ([]*domain.Order, error) {
	doc, err := s.tx.View(ctx, "list_orders")
	if err != nil {
		return nil, err
	}

	if s.cache != nil && len(doc.Orders) > 0 {
		if err := s.cache.SetOrdersBatch(ctx, doc.Orders); err != nil {
			s.log.WithError(err).WithField("count", len(doc.Orders)).Warn("failed to warm order cache")
		}
	}

	return doc.Orders, nil
}

// Get returns an order and the current settings.
func (s *OrderService) Get(ctx context.Context, orderID string) (*OrderDetail, error) {
	if orderID == "" {
		return nil, ErrMissingOrderID
	}

	doc, err := s.tx.View(ctx, "get_order")
	if err != nil {
		return nil, err
	}

	if cached := s.cached(ctx, orderID); cached != nil {
		return &OrderDetail{Order: cached, Settings: doc.Settings}, nil
	}

	order, err := engine.FindOrder(doc, orderID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetOrder(ctx, order); err != nil {
			s.log.WithError(err).WithField("order_id", orderID).Warn("failed to cache order")
		}
	}

	return &OrderDetail{Order: order, Settings: doc.Settings}, nil
}

// Receipt renders an order as printable text.
func (s *OrderService) Receipt(ctx context.Context, orderID string) (string, error) {
	detail, err := s.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	return s.receipts.FormatReceipt(detail.Order, detail.Settings), nil
}

func (s *OrderService) cached(ctx context.Context, orderID string) *domain.Order {
	if s.cache == nil {
		return nil
	}
	order, err := s.cache.GetOrder(ctx, orderID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("order cache read failed")
		return nil
	}
	return order
}
