package service

import (
	"context"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"billiard/internal/billing"
	"billiard/internal/domain"
	"billiard/internal/engine"
)

// Clock returns the current instant.
type Clock func() time.Time

func defaultClock() time.Time { return time.Now() }

// SessionView is a session together with its live totals.
type SessionView struct {
	Session *domain.TableSession
	Totals  billing.Totals
}

// TablesOverview is the floor plan as of one instant.
type TablesOverview struct {
	Settings domain.Settings
	Tables   []engine.TableView
}

// CheckoutResult is the materialized order and the settings it was priced with.
type CheckoutResult struct {
	Order    *domain.Order
	Settings domain.Settings
}

// SessionService handles table session operations.
type SessionService struct {
	tx     *Transactor
	events EventPublisher
	ids    engine.IDGenerator
	now    Clock
	log    logrus.FieldLogger
}

// NewSessionService creates a new SessionService.
// Nil ids, clock or logger fall back to UUIDs, time.Now and the standard logger.
func NewSessionService(tx *Transactor, events EventPublisher, ids engine.IDGenerator, now Clock, log logrus.FieldLogger) *SessionService {
	if ids == nil {
		ids = engine.UUIDGenerator{}
	}
	if now == nil {
		now = defaultClock
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SessionService{tx: tx, events: events, ids: ids, now: now, log: log}
}

// NormalizeTableNo rounds a caller supplied table number.
// It must be finite and positive.
func NormalizeTableNo(n float64) (int, error) {
	if math.IsNaN(n) || math.IsInf(n, 0) || n <= 0 {
		return 0, ErrInvalidTableNo
	}
	no := int(billing.RoundHalfUp(n))
	if no < 1 {
		return 0, ErrInvalidTableNo
	}
	return no, nil
}

// Start opens a session on tableNo, or returns the table's active session.
func (s *SessionService) Start(ctx context.Context, tableNo int) (*domain.TableSession, bool, error) {
	var (
		session *domain.TableSession
		created bool
		now     time.Time
	)

	doc, err := s.tx.Update(ctx, "start", func(doc *domain.Document) error {
		var err error
		now = s.now()
		session, created, err = engine.StartSession(doc, tableNo, now, s.ids)
		return err
	})
	if err != nil {
		return nil, false, err
	}

	if created {
		s.log.WithFields(logrus.Fields{"table_no": tableNo, "session_id": session.ID}).Info("session started")
		publish(ctx, s.events, s.log, domain.Event{
			Type:       domain.EventSessionStarted,
			OccurredAt: now,
			Revision:   doc.Revision,
			TableNo:    tableNo,
			SessionID:  session.ID,
		})
	}

	return session, created, nil
}

// Stop pauses the active session of tableNo.
func (s *SessionService) Stop(ctx context.Context, tableNo int) (*domain.TableSession, error) {
	return s.transition(ctx, "stop", domain.EventSessionStopped, func(doc *domain.Document, now time.Time) (*domain.TableSession, error) {
		return engine.StopSession(doc, tableNo, now)
	})
}

// Resume restarts the clock on the active session of tableNo.
func (s *SessionService) Resume(ctx context.Context, tableNo int) (*domain.TableSession, error) {
	return s.transition(ctx, "resume", domain.EventSessionResumed, func(doc *domain.Document, now time.Time) (*domain.TableSession, error) {
		return engine.ResumeSession(doc, tableNo, now)
	})
}

// StopByID pauses a session addressed by id.
func (s *SessionService) StopByID(ctx context.Context, sessionID string) (*domain.TableSession, error) {
	return s.transition(ctx, "stop", domain.EventSessionStopped, func(doc *domain.Document, now time.Time) (*domain.TableSession, error) {
		return engine.StopSessionByID(doc, sessionID, now)
	})
}

// ResumeByID resumes a session addressed by id.
func (s *SessionService) ResumeByID(ctx context.Context, sessionID string) (*domain.TableSession, error) {
	return s.transition(ctx, "resume", domain.EventSessionResumed, func(doc *domain.Document, now time.Time) (*domain.TableSession, error) {
		return engine.ResumeSessionByID(doc, sessionID, now)
	})
}

func (s *SessionService) transition(
	ctx context.Context,
	name string,
	eventType domain.EventType,
	fn func(doc *domain.Document, now time.Time) (*domain.TableSession, error),
) (*domain.TableSession, error) {
	var (
		session *domain.TableSession
		now     time.Time
	)

	// The clock is read under the document lock so that timestamps
	// follow commit order.
	doc, err := s.tx.Update(ctx, name, func(doc *domain.Document) error {
		var err error
		now = s.now()
		session, err = fn(doc, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"table_no":   session.TableNo,
		"session_id": session.ID,
		"state":      session.State,
	}).Info("session " + name)

	publish(ctx, s.events, s.log, domain.Event{
		Type:       eventType,
		OccurredAt: now,
		Revision:   doc.Revision,
		TableNo:    session.TableNo,
		SessionID:  session.ID,
	})

	return session, nil
}

// AddExtra appends an item to an open session.
func (s *SessionService) AddExtra(ctx context.Context, sessionID string, in engine.ExtraInput) (*domain.TableSession, error) {
	var (
		session *domain.TableSession
		extra   *domain.ExtraItem
	)

	doc, err := s.tx.Update(ctx, "add_extra", func(doc *domain.Document) error {
		var err error
		session, extra, err = engine.AddExtra(doc, sessionID, in, s.ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventExtraAdded,
		OccurredAt: s.now(),
		Revision:   doc.Revision,
		TableNo:    session.TableNo,
		SessionID:  session.ID,
		Data: map[string]any{
			"extra_id": extra.ID,
			"name":     extra.Name,
			"price":    extra.Price,
			"qty":      extra.Qty,
		},
	})

	return session, nil
}

// RemoveExtra drops an item from an open session. Unknown extra ids are ignored.
func (s *SessionService) RemoveExtra(ctx context.Context, sessionID, extraID string) (*domain.TableSession, error) {
	if extraID == "" {
		return nil, ErrMissingExtraID
	}

	var session *domain.TableSession
	doc, err := s.tx.Update(ctx, "remove_extra", func(doc *domain.Document) error {
		var err error
		session, err = engine.RemoveExtra(doc, sessionID, extraID)
		return err
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventExtraRemoved,
		OccurredAt: s.now(),
		Revision:   doc.Revision,
		TableNo:    session.TableNo,
		SessionID:  session.ID,
		Data:       map[string]any{"extra_id": extraID},
	})

	return session, nil
}

// Checkout closes a session and records its order.
func (s *SessionService) Checkout(ctx context.Context, in engine.CheckoutInput) (*CheckoutResult, error) {
	if in.SessionID == "" {
		return nil, ErrMissingSessionID
	}
	if in.Method == "" {
		in.Method = domain.PaymentMethodCash
	}

	var (
		order *domain.Order
		now   time.Time
	)

	doc, err := s.tx.Update(ctx, "checkout", func(doc *domain.Document) error {
		var err error
		now = s.now()
		order, err = engine.Checkout(doc, in, now, s.ids)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"table_no":   order.TableNo,
		"session_id": order.SessionID,
		"order_id":   order.ID,
		"total":      order.Total,
		"method":     order.Payment.Method,
	}).Info("session checked out")

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventOrderCreated,
		OccurredAt: now,
		Revision:   doc.Revision,
		TableNo:    order.TableNo,
		SessionID:  order.SessionID,
		OrderID:    order.ID,
		Data: map[string]any{
			"total":  order.Total,
			"method": order.Payment.Method,
		},
	})

	return &CheckoutResult{Order: order, Settings: doc.Settings}, nil
}

// GetSession returns a session with totals as of now.
func (s *SessionService) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	doc, err := s.tx.View(ctx, "get_session")
	if err != nil {
		return nil, err
	}

	session, err := engine.FindSession(doc, sessionID)
	if err != nil {
		return nil, err
	}

	return &SessionView{
		Session: session,
		Totals:  billing.Calculate(session, doc.Settings, s.now()),
	}, nil
}

// ListTables returns every configured table with live totals.
func (s *SessionService) ListTables(ctx context.Context) (*TablesOverview, error) {
	doc, err := s.tx.View(ctx, "list_tables")
	if err != nil {
		return nil, err
	}

	return &TablesOverview{
		Settings: doc.Settings,
		Tables:   engine.Tables(doc, s.now()),
	}, nil
}
