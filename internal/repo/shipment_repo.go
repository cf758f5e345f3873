// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Shipment
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a shipment is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
//
// The two "first-time" writes (MarkShipmentViewed, MarkShipmentReceived) are
// conditional updates guarded by `... IS NULL`, so concurrent callers
// converge on a single winning timestamp and later calls are no-ops.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateShipment inserts a new Shipment row. SentAt is expected to be set by
// the caller (the service stamps all lifecycle times from one clock).
// On success, it returns the persisted Shipment. On failure, a DB error.
func CreateShipment(ctx context.Context, db *gorm.DB, s *domain.Shipment) (*domain.Shipment, error) {
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetShipmentByToken fetches a shipment by its public token. If the record
// does not exist, it returns ErrNotFound.
func GetShipmentByToken(ctx context.Context, db *gorm.DB, token string) (*domain.Shipment, error) {
	var s domain.Shipment
	err := db.WithContext(ctx).
		Where("token = ?", token).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetShipmentByID fetches a shipment by its surrogate id, or ErrNotFound.
func GetShipmentByID(ctx context.Context, db *gorm.DB, id uint) (*domain.Shipment, error) {
	var s domain.Shipment
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListShipments returns all shipments, most recently created first.
// It returns an empty slice when none exist. On DB error, it returns the error.
func ListShipments(ctx context.Context, db *gorm.DB) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := db.WithContext(ctx).
		Order("id desc").
		Find(&out).Error
	return out, err
}

// CountShipments returns the total number of shipments.
func CountShipments(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Count(&total).Error
	return total, err
}

// ListShipmentsPage returns a paginated slice of shipments, most recently
// created first. Use CountShipments to obtain the total for pagination
// metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListShipmentsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Shipment, error) {
	var out []domain.Shipment
	err := db.WithContext(ctx).
		Order("id desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MarkShipmentViewed sets viewed_at to now only if it is currently null.
// It reports whether this call won the first-view write; repeat calls are
// safe no-ops returning false.
func MarkShipmentViewed(ctx context.Context, db *gorm.DB, id uint, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Where("id = ? AND viewed_at IS NULL", id).
		Update("viewed_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkShipmentReceived sets received_at to now only if it is currently null.
// Completeness (zero unconfirmed items) is the caller's check; this function
// only enforces the set-if-null discipline. Repeat calls are safe no-ops.
func MarkShipmentReceived(ctx context.Context, db *gorm.DB, id uint, now time.Time) (bool, error) {
	res := db.WithContext(ctx).
		Model(&domain.Shipment{}).
		Where("id = ? AND received_at IS NULL", id).
		Update("received_at", now)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
