// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the ViewFlag
// model used to de-duplicate the first-view side effects per
// (session, shipment).
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

// ErrDuplicate indicates that a view flag already exists for the given
// (session_id, shipment_id) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetViewFlag returns a non-expired flag or ErrNotFound.
func GetViewFlag(ctx context.Context, db *gorm.DB, sessionID string, shipmentID uint, now time.Time) (*domain.ViewFlag, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.ViewFlag
	err := db.WithContext(ctx).
		Where("session_id = ? AND shipment_id = ? AND expires_at > ?", sessionID, shipmentID, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateViewFlag inserts a flag and returns ErrDuplicate on unique violation.
func CreateViewFlag(ctx context.Context, db *gorm.DB, sessionID string, shipmentID uint, ttl time.Duration) (*domain.ViewFlag, error) {
	now := time.Now().UTC()
	rec := &domain.ViewFlag{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		ShipmentID: shipmentID,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
