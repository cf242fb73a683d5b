package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"billiard/internal/domain"
	"billiard/internal/engine"
)

// SettingsService handles shop configuration.
type SettingsService struct {
	tx     *Transactor
	events EventPublisher
	now    Clock
	log    logrus.FieldLogger
}

// NewSettingsService creates a new SettingsService.
func NewSettingsService(tx *Transactor, events EventPublisher, now Clock, log logrus.FieldLogger) *SettingsService {
	if now == nil {
		now = defaultClock
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SettingsService{tx: tx, events: events, now: now, log: log}
}

// Get returns the current settings.
func (s *SettingsService) Get(ctx context.Context) (domain.Settings, error) {
	doc, err := s.tx.View(ctx, "get_settings")
	if err != nil {
		return domain.Settings{}, err
	}
	return doc.Settings, nil
}

// Update applies a best-effort patch. Fields of the wrong type or out of
// range are ignored or clamped; it never fails on content.
func (s *SettingsService) Update(ctx context.Context, patch map[string]any) (domain.Settings, error) {
	doc, err := s.tx.Update(ctx, "update_settings", func(doc *domain.Document) error {
		doc.Settings = engine.ApplySettingsPatch(doc.Settings, patch)
		return nil
	})
	if err != nil {
		return domain.Settings{}, err
	}

	keys := make([]string, 0, len(patch))
	for k := range patch {
		keys = append(keys, k)
	}
	s.log.WithFields(logrus.Fields{"revision": doc.Revision, "keys": keys}).Info("settings updated")

	publish(ctx, s.events, s.log, domain.Event{
		Type:       domain.EventSettingsUpdate,
		OccurredAt: s.now(),
		Revision:   doc.Revision,
	})

	return doc.Settings, nil
}
