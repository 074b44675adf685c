package models

import "time"

// CollectionKind names a persisted collection of a user.
type CollectionKind string

const (
	KindProducts CollectionKind = "products"
	KindSupplies CollectionKind = "supplies"
)

// CollectionSnapshot - whole-collection JSON document, one row per (user, kind).
// Each save replaces the previous document.
type CollectionSnapshot struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_user_kind,priority:1"`
	Kind      CollectionKind `gorm:"size:20;not null;uniqueIndex:idx_user_kind,priority:2"`
	Data      string         `gorm:"type:text;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
