// Package engine holds the table session state machine and order
// materialization. It mutates an in-memory document and never does I/O.
package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"billiard/internal/domain"
)

// ActiveSessionForTable returns the open session of a table, or nil.
func ActiveSessionForTable(doc *domain.Document, tableNo int) *domain.TableSession {
	for _, s := range doc.Sessions {
		if s.TableNo == tableNo && !s.IsClosed() {
			return s
		}
	}
	return nil
}

// FindSession looks a session up by id.
func FindSession(doc *domain.Document, sessionID string) (*domain.TableSession, error) {
	for _, s := range doc.Sessions {
		if s.ID == sessionID {
			return s, nil
		}
	}
	return nil, ErrNotFound
}

// StartSession opens a session on a table. If the table already has an
// active session it is returned untouched and created is false.
func StartSession(doc *domain.Document, tableNo int, now time.Time, ids IDGenerator) (session *domain.TableSession, created bool, err error) {
	if tableNo < 1 || tableNo > doc.Settings.TableCount {
		return nil, false, fmt.Errorf("%w: table %d is not between 1 and %d", ErrInvalidInput, tableNo, doc.Settings.TableCount)
	}

	if existing := ActiveSessionForTable(doc, tableNo); existing != nil {
		return existing, false, nil
	}

	session = &domain.TableSession{
		ID:        ids.NewID(SessionIDPrefix),
		TableNo:   tableNo,
		State:     domain.SessionStatePlaying,
		CreatedAt: now,
		Segments:  []domain.Segment{{StartAt: now}},
		Extras:    []domain.ExtraItem{},
	}
	doc.Sessions = append([]*domain.TableSession{session}, doc.Sessions...)

	return session, true, nil
}

// StopSession pauses the active session of a table.
func StopSession(doc *domain.Document, tableNo int, now time.Time) (*domain.TableSession, error) {
	session := ActiveSessionForTable(doc, tableNo)
	if session == nil {
		return nil, ErrNotFound
	}
	stop(session, now)
	return session, nil
}

// StopSessionByID pauses a session addressed by id.
func StopSessionByID(doc *domain.Document, sessionID string, now time.Time) (*domain.TableSession, error) {
	session, err := FindSession(doc, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrAlreadyClosed
	}
	stop(session, now)
	return session, nil
}

// ResumeSession restarts the clock on the active session of a table.
func ResumeSession(doc *domain.Document, tableNo int, now time.Time) (*domain.TableSession, error) {
	session := ActiveSessionForTable(doc, tableNo)
	if session == nil {
		return nil, ErrNotFound
	}
	resume(session, now)
	return session, nil
}

// ResumeSessionByID restarts the clock on a session addressed by id.
func ResumeSessionByID(doc *domain.Document, sessionID string, now time.Time) (*domain.TableSession, error) {
	session, err := FindSession(doc, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrAlreadyClosed
	}
	resume(session, now)
	return session, nil
}

func stop(session *domain.TableSession, now time.Time) {
	if session.State != domain.SessionStatePlaying {
		return
	}
	closeTrailingSegment(session, now)
	session.State = domain.SessionStateStopped
}

// resume opens a new segment. It never starts before the previous segment
// ended, so segments cannot overlap.
func resume(session *domain.TableSession, now time.Time) {
	if session.State == domain.SessionStatePlaying {
		return
	}
	start := now
	if last := session.LastSegment(); last != nil && last.EndAt != nil && start.Before(*last.EndAt) {
		start = *last.EndAt
	}
	session.Segments = append(session.Segments, domain.Segment{StartAt: start})
	session.State = domain.SessionStatePlaying
}

// closeTrailingSegment ends the last segment at now if it is still open.
// An end before the start is clamped to the start.
func closeTrailingSegment(session *domain.TableSession, now time.Time) {
	last := session.LastSegment()
	if last == nil || !last.IsOpen() {
		return
	}
	end := now
	if end.Before(last.StartAt) {
		end = last.StartAt
	}
	last.EndAt = &end
}

// ExtraInput is a requested extra charge. Price and Qty may be fractional
// or non-finite; they are normalized before being stored.
type ExtraInput struct {
	Name  string
	Price float64
	Qty   float64
}

// AddExtra appends an extra charge to an open session.
func AddExtra(doc *domain.Document, sessionID string, in ExtraInput, ids IDGenerator) (*domain.TableSession, *domain.ExtraItem, error) {
	session, err := FindSession(doc, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if session.IsClosed() {
		return nil, nil, ErrSessionClosed
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: extra name is required", ErrInvalidInput)
	}

	session.Extras = append(session.Extras, domain.ExtraItem{
		ID:    ids.NewID(ExtraIDPrefix),
		Name:  name,
		Price: NormalizePrice(in.Price),
		Qty:   NormalizeQty(in.Qty),
	})

	return session, &session.Extras[len(session.Extras)-1], nil
}

// RemoveExtra drops an extra from an open session. Unknown ids are ignored.
func RemoveExtra(doc *domain.Document, sessionID, extraID string) (*domain.TableSession, error) {
	session, err := FindSession(doc, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsClosed() {
		return nil, ErrSessionClosed
	}

	kept := make([]domain.ExtraItem, 0, len(session.Extras))
	for _, e := range session.Extras {
		if e.ID != extraID {
			kept = append(kept, e)
		}
	}
	session.Extras = kept

	return session, nil
}

// NormalizePrice rounds a price to whole units, never below zero.
// Malformed input counts as zero.
func NormalizePrice(price float64) int64 {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0
	}
	return max(0, int64(math.Floor(price+0.5)))
}

// NormalizeQty rounds a quantity to a whole number, never below one.
// Malformed or zero input counts as one.
func NormalizeQty(qty float64) int64 {
	if math.IsNaN(qty) || math.IsInf(qty, 0) || qty == 0 {
		return 1
	}
	return max(1, int64(math.Floor(qty+0.5)))
}
