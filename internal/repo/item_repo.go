// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Item
// model, including the atomic conditional bulk updates the checklist state
// machine depends on.
//
// Every bulk transition is a single conditional UPDATE guarded by
// `confirmed_at IS NULL` (or `viewed_at IS NULL`) and scoped to the owning
// shipment, so:
//   - two concurrent requests confirming overlapping item sets converge
//     without double-counting or clobbering the first writer's actor/time;
//   - ids belonging to a different shipment are silently excluded by the
//     shipment_id predicate rather than rejected.
//
// Unknown shipment ids are not validated here; operations simply affect
// zero rows. Existence checks belong to the service layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

// CreateItem inserts a new checklist item for the given shipment. Label
// validation (non-empty after trimming) is the service's responsibility.
func CreateItem(ctx context.Context, db *gorm.DB, shipmentID uint, label, externalURL string) (*domain.Item, error) {
	it := &domain.Item{
		ShipmentID:  shipmentID,
		Label:       label,
		ExternalURL: externalURL,
	}
	if err := db.WithContext(ctx).Create(it).Error; err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems returns a shipment's items in creation order. The result is a
// materialized slice and supports repeated iteration.
func ListItems(ctx context.Context, db *gorm.DB, shipmentID uint) ([]domain.Item, error) {
	var out []domain.Item
	err := db.WithContext(ctx).
		Where("shipment_id = ?", shipmentID).
		Order("id asc").
		Find(&out).Error
	return out, err
}

// GetItem fetches a single item by id, enforcing shipment ownership.
// Returns ErrNotFound when the item is missing or owned by another shipment.
func GetItem(ctx context.Context, db *gorm.DB, shipmentID, itemID uint) (*domain.Item, error) {
	var it domain.Item
	err := db.WithContext(ctx).
		Where("id = ? AND shipment_id = ?", itemID, shipmentID).
		First(&it).Error
	if err != nil {
		return nil, err
	}
	return &it, nil
}

// ListUnviewedItemIDs returns the ids of the shipment's items whose
// viewed_at is still null, in creation order.
func ListUnviewedItemIDs(ctx context.Context, db *gorm.DB, shipmentID uint) ([]uint, error) {
	var ids []uint
	err := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("shipment_id = ? AND viewed_at IS NULL", shipmentID).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// CountUnconfirmedItems returns how many of the shipment's items still have
// a null confirmed_at.
func CountUnconfirmedItems(ctx context.Context, db *gorm.DB, shipmentID uint) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("shipment_id = ? AND confirmed_at IS NULL", shipmentID).
		Count(&n).Error
	return n, err
}

// ConfirmAllItems stamps confirmed_at/confirmed_by on every unconfirmed item
// of the shipment in one conditional UPDATE. It returns the number of rows
// changed; a second call is a zero-row no-op and never overwrites an earlier
// confirmation's actor or timestamp.
func ConfirmAllItems(ctx context.Context, db *gorm.DB, shipmentID uint, actor string, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("shipment_id = ? AND confirmed_at IS NULL", shipmentID).
		Updates(map[string]any{"confirmed_at": now, "confirmed_by": actor})
	return res.RowsAffected, res.Error
}

// ConfirmSelectedItems is ConfirmAllItems restricted to the given id set.
// Ids from other shipments are excluded by the shipment_id predicate and an
// empty id set is a no-op, not an error (the caller decides whether an empty
// selection is user error).
func ConfirmSelectedItems(ctx context.Context, db *gorm.DB, shipmentID uint, itemIDs []uint, actor string, now time.Time) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("shipment_id = ? AND id IN ? AND confirmed_at IS NULL", shipmentID, itemIDs).
		Updates(map[string]any{"confirmed_at": now, "confirmed_by": actor})
	return res.RowsAffected, res.Error
}

// MarkItemsViewed stamps viewed_at/viewed_by on the given items where
// viewed_at is still null. Repeat calls on the same items are safe no-ops.
func MarkItemsViewed(ctx context.Context, db *gorm.DB, shipmentID uint, itemIDs []uint, actor string, now time.Time) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("shipment_id = ? AND id IN ? AND viewed_at IS NULL", shipmentID, itemIDs).
		Updates(map[string]any{"viewed_at": now, "viewed_by": actor})
	return res.RowsAffected, res.Error
}

// SetItemImage stores the blob path on an item, enforcing shipment
// ownership. Returns ErrNotFound when no row matched.
func SetItemImage(ctx context.Context, db *gorm.DB, shipmentID, itemID uint, path string) error {
	res := db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ? AND shipment_id = ?", itemID, shipmentID).
		Update("image_path", path)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ClearItemImage removes the blob path from an item and returns the previous
// path so the caller can delete the blob. Returns ErrNotFound when the item
// does not exist in the shipment.
func ClearItemImage(ctx context.Context, db *gorm.DB, shipmentID, itemID uint) (string, error) {
	it, err := GetItem(ctx, db, shipmentID, itemID)
	if err != nil {
		return "", err
	}
	old := it.ImagePath
	if old == "" {
		return "", nil
	}
	err = db.WithContext(ctx).
		Model(&domain.Item{}).
		Where("id = ? AND shipment_id = ?", itemID, shipmentID).
		Update("image_path", "").Error
	return old, err
}
