// Package gormstore keeps the shop document in a SQL table through GORM,
// for deployments on SQLite or MySQL.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

// DefaultDocumentID is the row holding the shop document.
const DefaultDocumentID = "default"

type documentRecord struct {
	ID        string `gorm:"primaryKey;size:64"`
	Revision  int64  `gorm:"not null"`
	Body      string `gorm:"not null"`
	UpdatedAt time.Time
}

func (documentRecord) TableName() string {
	return "pos_documents"
}

// Store is a GORM implementation of repository.DocumentStore.
type Store struct {
	db *gorm.DB
	id string
}

// NewStore migrates the document table and returns a store on db.
func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&documentRecord{}); err != nil {
		return nil, fmt.Errorf("migrate document table: %w", err)
	}
	return &Store{db: db, id: DefaultDocumentID}, nil
}

// Read loads the document row. A missing row reads as the default document.
func (s *Store) Read(ctx context.Context) (*domain.Document, error) {
	var rec documentRecord
	err := s.db.WithContext(ctx).Where("id = ?", s.id).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NewDocument(), nil
		}
		return nil, err
	}

	return repository.Decode([]byte(rec.Body))
}

// Write stores doc if the row is still at doc.Revision-1.
func (s *Store) Write(ctx context.Context, doc *domain.Document) error {
	body, err := repository.Encode(doc)
	if err != nil {
		return err
	}

	db := s.db.WithContext(ctx)
	now := time.Now()

	var res *gorm.DB
	if doc.Revision == 1 {
		res = db.Clauses(clause.OnConflict{DoNothing: true}).Create(&documentRecord{
			ID:        s.id,
			Revision:  doc.Revision,
			Body:      string(body),
			UpdatedAt: now,
		})
	} else {
		res = db.Model(&documentRecord{}).
			Where("id = ? AND revision = ?", s.id, doc.Revision-1).
			Updates(map[string]any{
				"revision":   doc.Revision,
				"body":       string(body),
				"updated_at": now,
			})
	}
	if res.Error != nil {
		return res.Error
	}

	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: revision %d already taken", repository.ErrConflict, doc.Revision)
	}

	return nil
}

// Ensure Store implements repository.DocumentStore.
var _ repository.DocumentStore = (*Store)(nil)
