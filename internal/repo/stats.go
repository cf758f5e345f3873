// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

// ShipmentsStats returns aggregate metadata for the shipment dashboard: the
// total number of rows and the maximum UpdatedAt timestamp among them.
//
// When no shipments exist, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total shipments
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func ShipmentsStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Shipment{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// EventsStats returns aggregate metadata for a shipment's audit trail: the
// total number of rows and the maximum OccurredAt timestamp among them.
// Because events are append-only, (count, max timestamp) changes on every
// append, which makes the pair a cheap ETag input.
//
// Return values:
//   - count:         total events for shipmentID
//   - maxOccurredAt: pointer to the greatest OccurredAt, or nil if no rows
//   - err:           database error, if any
func EventsStats(ctx context.Context, db *gorm.DB, shipmentID uint) (count int64, maxOccurredAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.Event{}).Where("shipment_id = ?", shipmentID)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest occurred_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		OccurredAt time.Time
	}
	if err = q.Select("occurred_at").Order("occurred_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.OccurredAt, nil
}
