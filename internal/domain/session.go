package domain

import "time"

// SessionState represents the lifecycle state of a table session.
type SessionState string

const (
	SessionStatePlaying SessionState = "playing"
	SessionStateStopped SessionState = "stopped"
	SessionStateClosed  SessionState = "closed"
)

// TableStatus is what the floor overview shows for a table.
type TableStatus string

const (
	TableStatusIdle    TableStatus = "idle"
	TableStatusPlaying TableStatus = "playing"
	TableStatusStopped TableStatus = "stopped"
)

// Segment is one contiguous interval of play. EndAt is nil while open.
type Segment struct {
	StartAt time.Time  `json:"startAt"`
	EndAt   *time.Time `json:"endAt"`
}

// IsOpen reports whether the segment is still running.
func (s Segment) IsOpen() bool {
	return s.EndAt == nil
}

// ExtraItem is an ad-hoc charge such as a drink.
type ExtraItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
	Qty   int64  `json:"qty"`
}

// Amount is price times quantity.
func (e ExtraItem) Amount() int64 {
	return e.Price * e.Qty
}

// TableSession is one occupancy of one table.
type TableSession struct {
	ID        string       `json:"id"`
	TableNo   int          `json:"tableNo"`
	State     SessionState `json:"state"`
	CreatedAt time.Time    `json:"createdAt"`
	Segments  []Segment    `json:"segments"`
	Extras    []ExtraItem  `json:"extras"`
	Note      string       `json:"note,omitempty"`
	ClosedAt  *time.Time   `json:"closedAt"`
}

// IsClosed reports whether the session was checked out.
func (s *TableSession) IsClosed() bool {
	return s.ClosedAt != nil
}

// LastSegment returns the trailing segment, or nil if there is none.
func (s *TableSession) LastSegment() *Segment {
	if len(s.Segments) == 0 {
		return nil
	}
	return &s.Segments[len(s.Segments)-1]
}

// DeriveState computes the state from closedAt and the segment list.
// Used when loading documents written before the state was stored.
func (s *TableSession) DeriveState() SessionState {
	if s.IsClosed() {
		return SessionStateClosed
	}
	if last := s.LastSegment(); last != nil && last.IsOpen() {
		return SessionStatePlaying
	}
	return SessionStateStopped
}

// TableStatus maps the session state onto the floor status.
func (s *TableSession) TableStatus() TableStatus {
	switch s.State {
	case SessionStatePlaying:
		return TableStatusPlaying
	case SessionStateStopped:
		return TableStatusStopped
	default:
		return TableStatusIdle
	}
}
