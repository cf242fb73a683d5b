package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"billiard/internal/domain"
)

// EventPublisher delivers domain events after they were persisted.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// LogPublisher writes events to the log. Used when no broker is configured.
type LogPublisher struct {
	log logrus.FieldLogger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(log logrus.FieldLogger) *LogPublisher {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogPublisher{log: log}
}

// Publish logs event at info level.
func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	entry := p.log.WithFields(logrus.Fields{
		"event":    event.Type,
		"revision": event.Revision,
	})
	if event.TableNo != 0 {
		entry = entry.WithField("table_no", event.TableNo)
	}
	if event.SessionID != "" {
		entry = entry.WithField("session_id", event.SessionID)
	}
	if event.OrderID != "" {
		entry = entry.WithField("order_id", event.OrderID)
	}
	entry.Info("event")
	return nil
}

// publish sends event and swallows failures; the state change is already durable.
func publish(ctx context.Context, pub EventPublisher, log logrus.FieldLogger, event domain.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event); err != nil {
		log.WithError(err).WithField("event", event.Type).Warn("failed to publish event")
	}
}
