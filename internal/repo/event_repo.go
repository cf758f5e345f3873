// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Event
// model: an append-only audit log owned by a shipment.
//
// Events are never updated or deleted after creation (only the owning
// shipment's cascade removes them). Listing is newest-first by timestamp;
// the surrogate id breaks ties so that events appended later within the same
// second still sort ahead of earlier ones.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

// AppendEvent inserts one audit record for the shipment. The timestamp is
// supplied by the caller so all effects of one operation share a clock.
func AppendEvent(ctx context.Context, db *gorm.DB, shipmentID uint, actor, etype, ip, userAgent string, now time.Time) (*domain.Event, error) {
	ev := &domain.Event{
		ShipmentID: shipmentID,
		OccurredAt: now,
		Actor:      actor,
		Type:       etype,
		IP:         ip,
		UserAgent:  userAgent,
	}
	if err := db.WithContext(ctx).Create(ev).Error; err != nil {
		return nil, err
	}
	return ev, nil
}

// ListEvents returns a shipment's audit trail, newest first.
func ListEvents(ctx context.Context, db *gorm.DB, shipmentID uint) ([]domain.Event, error) {
	var out []domain.Event
	err := db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at desc, id desc").
		Find(&out).Error
	return out, err
}

// CountEvents returns the number of audit records for a shipment.
func CountEvents(ctx context.Context, db *gorm.DB, shipmentID uint) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Event{}).
		Where("shipment_id = ?", shipmentID).
		Count(&total).Error
	return total, err
}

// ListEventsPage returns a page of the shipment's audit trail, newest first.
func ListEventsPage(ctx context.Context, db *gorm.DB, shipmentID uint, offset, limit int) ([]domain.Event, error) {
	var out []domain.Event
	err := db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("occurred_at desc, id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}
