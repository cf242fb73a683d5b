package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/sirupsen/logrus"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

// Locker serializes document mutations across processes.
type Locker interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// Transactor runs read-modify-write cycles against the document store.
// All mutations go through one mutex; an optional Locker extends the
// exclusion to other server instances.
type Transactor struct {
	store  repository.DocumentStore
	locker Locker
	log    logrus.FieldLogger

	mu sync.Mutex
}

// NewTransactor creates a new Transactor. locker may be nil.
func NewTransactor(store repository.DocumentStore, locker Locker, log logrus.FieldLogger) *Transactor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Transactor{store: store, locker: locker, log: log}
}

// Update reads the document, applies fn and writes the result with the
// next revision. When fn fails nothing is written.
func (t *Transactor) Update(ctx context.Context, name string, fn func(doc *domain.Document) error) (*domain.Document, error) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		defer txn.StartSegment("document/update/" + name).End()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.locker != nil {
		release, err := t.locker.Acquire(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: acquire document lock: %w", name, err)
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				t.log.WithError(err).WithField("op", name).Warn("release document lock")
			}
		}()
	}

	doc, err := t.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: read document: %w", name, err)
	}

	if err := fn(doc); err != nil {
		return nil, err
	}

	doc.Version = domain.SchemaVersion
	doc.Revision++
	doc.Settings.Normalize()

	if err := t.store.Write(ctx, doc); err != nil {
		return nil, fmt.Errorf("%s: write document: %w", name, err)
	}

	t.log.WithFields(logrus.Fields{"op": name, "revision": doc.Revision}).Debug("document updated")
	return doc, nil
}

// View reads the current document without taking any lock.
func (t *Transactor) View(ctx context.Context, name string) (*domain.Document, error) {
	if txn := newrelic.FromContext(ctx); txn != nil {
		defer txn.StartSegment("document/view/" + name).End()
	}

	doc, err := t.store.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: read document: %w", name, err)
	}
	return doc, nil
}
