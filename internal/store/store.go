// Package store persists whole collections of a user as JSON documents.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"smashcost-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store saves and loads one JSON document per user and collection kind.
// Load returns nil data when nothing was ever saved.
type Store interface {
	Save(ctx context.Context, userID uint, kind models.CollectionKind, data []byte) error
	Load(ctx context.Context, userID uint, kind models.CollectionKind) ([]byte, error)
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Save replaces the stored document.
func (s *GormStore) Save(ctx context.Context, userID uint, kind models.CollectionKind, data []byte) error {
	snap := models.CollectionSnapshot{
		UserID:    userID,
		Kind:      kind,
		Data:      string(data),
		UpdatedAt: time.Now(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "kind"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&snap).Error
	if err != nil {
		return fmt.Errorf("save %s of user %d: %w", kind, userID, err)
	}
	return nil
}

func (s *GormStore) Load(ctx context.Context, userID uint, kind models.CollectionKind) ([]byte, error) {
	var snap models.CollectionSnapshot
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND kind = ?", userID, kind).
		First(&snap).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load %s of user %d: %w", kind, userID, err)
	}
	return []byte(snap.Data), nil
}
