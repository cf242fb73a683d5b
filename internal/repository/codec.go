package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"billiard/internal/domain"
)

// versionHeader reads only the schema version of a raw document.
type versionHeader struct {
	Version int `json:"version"`
}

// storedSettings mirrors domain.Settings with every field optional so
// absent fields can fall back to their declared defaults.
type storedSettings struct {
	ShopName        *string  `json:"shopName"`
	ShopAddress     *string  `json:"shopAddress"`
	ShopPhone       *string  `json:"shopPhone"`
	TableCount      *float64 `json:"tableCount"`
	HourlyRate      *float64 `json:"hourlyRate"`
	TaxRatePct      *float64 `json:"taxRatePct"`
	RoundingMinutes *float64 `json:"roundingMinutes"`
}

type storedDocument struct {
	Version  int                    `json:"version"`
	Revision int64                  `json:"revision"`
	Settings *storedSettings        `json:"settings"`
	Sessions []*domain.TableSession `json:"sessions"`
	Orders   []*domain.Order        `json:"orders"`
}

// migration upgrades a document from version N to N+1 in place.
type migration func(doc *domain.Document)

// migrations is keyed by the version a step upgrades from.
var migrations = map[int]migration{
	1: migrateV1ToV2,
}

// migrateV1ToV2 derives the explicit session state that version 1
// documents encoded only through closedAt and the trailing segment.
func migrateV1ToV2(doc *domain.Document) {
	for _, s := range doc.Sessions {
		s.State = s.DeriveState()
	}
}

// Decode parses a stored document of any supported version and upgrades
// it to domain.SchemaVersion. Empty input yields the default document.
func Decode(raw []byte) (*domain.Document, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return domain.NewDocument(), nil
	}

	var header versionHeader
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("decode document version: %w", err)
	}
	if header.Version > domain.SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, header.Version)
	}
	if header.Version < 1 {
		// Unversioned content starts over from defaults.
		return domain.NewDocument(), nil
	}

	var stored storedDocument
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	doc := &domain.Document{
		Version:  stored.Version,
		Revision: stored.Revision,
		Settings: decodeSettings(stored.Settings),
		Sessions: compactSessions(stored.Sessions),
		Orders:   compactOrders(stored.Orders),
	}

	for doc.Version < domain.SchemaVersion {
		step, ok := migrations[doc.Version]
		if !ok {
			return nil, fmt.Errorf("%w: no migration from %d", ErrUnsupportedVersion, doc.Version)
		}
		step(doc)
		doc.Version++
	}

	for _, s := range doc.Sessions {
		normalizeSession(s)
	}

	return doc, nil
}

// Encode serializes a document for storage.
func Encode(doc *domain.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return data, nil
}

func decodeSettings(in *storedSettings) domain.Settings {
	out := domain.DefaultSettings()
	if in == nil {
		return out
	}

	if in.ShopName != nil && strings.TrimSpace(*in.ShopName) != "" {
		out.ShopName = *in.ShopName
	}
	if in.ShopAddress != nil {
		out.ShopAddress = *in.ShopAddress
	}
	if in.ShopPhone != nil {
		out.ShopPhone = *in.ShopPhone
	}
	if in.TableCount != nil {
		out.TableCount = int(*in.TableCount + 0.5)
	}
	if in.HourlyRate != nil {
		out.HourlyRate = int64(*in.HourlyRate + 0.5)
	}
	if in.TaxRatePct != nil {
		out.TaxRatePct = *in.TaxRatePct
	}
	if in.RoundingMinutes != nil {
		out.RoundingMinutes = int(*in.RoundingMinutes + 0.5)
	}

	out.Normalize()
	return out
}

func compactSessions(in []*domain.TableSession) []*domain.TableSession {
	out := make([]*domain.TableSession, 0, len(in))
	for _, s := range in {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func compactOrders(in []*domain.Order) []*domain.Order {
	out := make([]*domain.Order, 0, len(in))
	for _, o := range in {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// normalizeSession repairs sessions so the state machine invariants hold:
// only the trailing segment may be open, and the stored state agrees
// with closedAt and the segments.
func normalizeSession(s *domain.TableSession) {
	if s.Segments == nil {
		s.Segments = []domain.Segment{}
	}
	if s.Extras == nil {
		s.Extras = []domain.ExtraItem{}
	}
	for i := 0; i < len(s.Segments)-1; i++ {
		seg := &s.Segments[i]
		if seg.IsOpen() {
			end := s.Segments[i+1].StartAt
			if end.Before(seg.StartAt) {
				end = seg.StartAt
			}
			seg.EndAt = &end
		}
	}
	if s.IsClosed() {
		if last := s.LastSegment(); last != nil && last.IsOpen() {
			end := maxTime(last.StartAt, *s.ClosedAt)
			last.EndAt = &end
		}
	}
	s.State = s.DeriveState()
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
