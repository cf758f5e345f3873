// Package services – ShipmentService
//
// This file implements the ShipmentService, which manages the lifecycle of
// shipment aggregates outside the public checklist flow: creation with an
// initial item set (including uploaded assets), adding items, attaching and
// removing item images, dashboard listing, and audit-trail retrieval.
//
// Service-level errors (e.g., ErrShipmentNotFound, ErrEmptyLabel) are
// returned for predictable cases so handlers can map them to HTTP results
// consistently.
package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-shipment-backend/internal/blob"
	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/repo"
)

// defaultTitle is used when a shipment is created without a title.
const defaultTitle = "Checklist"

// Upload is one asset submitted with a create-shipment request or an item
// image attachment. Name is the client-supplied filename (only its
// extension survives storage); Data streams the content.
type Upload struct {
	Name string
	Data io.Reader
}

// CreateShipmentInput carries everything needed to create a shipment with
// its initial checklist.
type CreateShipmentInput struct {
	Title            string
	Number           string
	ResponsibleEmail string
	// Labels are the initial item labels. Each is trimmed; labels that are
	// empty after trimming are dropped silently.
	Labels []string
	// Assets are optional uploads; each becomes an item whose label names
	// the asset and whose external reference points at the retrieval path.
	Assets []Upload
}

// ShipmentDetail aggregates a shipment with its items and audit trail for
// the internal detail view.
type ShipmentDetail struct {
	Shipment *domain.Shipment
	Items    []domain.Item
	Events   []domain.Event
}

// ShipmentService provides shipment-level operations: creation, item
// management, asset attachment, and listing. Public-checklist behavior
// (first-view, confirmations) lives in ChecklistService.
type ShipmentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Blobs stores uploaded assets. Optional; uploads fail cleanly when nil.
	Blobs blob.Store
}

// NewShipmentService constructs a ShipmentService.
func NewShipmentService(db *gorm.DB, blobs blob.Store) *ShipmentService {
	return &ShipmentService{DB: db, Blobs: blobs}
}

// Create persists a new shipment with its initial items. The public token
// is 128 bits of randomness hex-encoded, status starts as SENT (derived),
// and sent_at is stamped once, immutably. Uploaded assets are stored first;
// item rows for them are created inside the same transaction as the
// shipment, so a failed insert leaves no partial checklist (stored blobs
// are removed best-effort on rollback).
func (s *ShipmentService) Create(ctx context.Context, in CreateShipmentInput) (*domain.Shipment, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "Create")
	defer span.End()

	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = defaultTitle
	}
	_, email := NormalizeIdentity("", in.ResponsibleEmail)

	token, err := newToken()
	if err != nil {
		return nil, err
	}

	// Store assets before opening the transaction; blob writes cannot be
	// rolled back, so failures here abort with nothing persisted.
	type storedAsset struct {
		label string
		path  string
	}
	var stored []storedAsset
	cleanup := func() {
		for _, a := range stored {
			_ = s.Blobs.Delete(a.path)
		}
	}
	for _, a := range in.Assets {
		if !blob.AllowedImage(a.Name) {
			cleanup()
			return nil, ErrUnsupportedImageType
		}
		if s.Blobs == nil {
			return nil, errors.New("no blob store configured")
		}
		path, err := s.Blobs.Save(ctx, a.Name, a.Data)
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, storedAsset{label: "Asset: " + a.Name, path: path})
	}

	var ship *domain.Shipment
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sh := &domain.Shipment{
			Token:            token,
			Title:            title,
			Number:           strings.TrimSpace(in.Number),
			ResponsibleEmail: email,
			SentAt:           nowUTC(),
		}
		if _, err := repo.CreateShipment(ctx, tx, sh); err != nil {
			return err
		}
		for _, label := range in.Labels {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			if _, err := repo.CreateItem(ctx, tx, sh.ID, label, ""); err != nil {
				return err
			}
		}
		for _, a := range stored {
			if _, err := repo.CreateItem(ctx, tx, sh.ID, a.label, a.path); err != nil {
				return err
			}
		}
		ship = sh
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}

	span.SetAttributes(attribute.Int("shipment.id", int(ship.ID)))
	return ship, nil
}

// AddItem appends one item to an existing shipment. The label must be
// non-empty after trimming; the shipment must exist.
func (s *ShipmentService) AddItem(ctx context.Context, shipmentID uint, label string) (*domain.Item, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrEmptyLabel
	}
	if _, err := repo.GetShipmentByID(ctx, s.DB, shipmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	return repo.CreateItem(ctx, s.DB, shipmentID, label, "")
}

// Get returns the internal detail view of a shipment: the aggregate, its
// items in creation order, and its audit trail newest first.
func (s *ShipmentService) Get(ctx context.Context, shipmentID uint) (*ShipmentDetail, error) {
	ship, err := repo.GetShipmentByID(ctx, s.DB, shipmentID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	items, err := repo.ListItems(ctx, s.DB, ship.ID)
	if err != nil {
		return nil, err
	}
	events, err := repo.ListEvents(ctx, s.DB, ship.ID)
	if err != nil {
		return nil, err
	}
	return &ShipmentDetail{Shipment: ship, Items: items, Events: events}, nil
}

// ListPage returns a page of shipments for the dashboard, newest first.
// It applies defaults for invalid page/pageSize and returns the total count.
func (s *ShipmentService) ListPage(ctx context.Context, page, pageSize int) ([]domain.Shipment, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountShipments(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Shipment{}, 0, nil
	}

	items, err := repo.ListShipmentsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// Events returns a page of the shipment's audit trail, newest first.
func (s *ShipmentService) Events(ctx context.Context, shipmentID uint, page, pageSize int) ([]domain.Event, int64, error) {
	tr := otel.Tracer("services/ShipmentService")
	ctx, span := tr.Start(ctx, "Events",
		trace.WithAttributes(
			attribute.Int("shipment.id", int(shipmentID)),
			attribute.Int("page", page),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	offset := (page - 1) * pageSize

	if _, err := repo.GetShipmentByID(ctx, s.DB, shipmentID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrShipmentNotFound
		}
		return nil, 0, err
	}
	total, err := repo.CountEvents(ctx, s.DB, shipmentID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Event{}, 0, nil
	}
	events, err := repo.ListEventsPage(ctx, s.DB, shipmentID, offset, pageSize)
	return events, total, err
}

// AttachItemImage stores an uploaded image and records its retrieval path
// on the item. A previously attached image is deleted best-effort after the
// new path is persisted.
func (s *ShipmentService) AttachItemImage(ctx context.Context, shipmentID, itemID uint, up Upload) (string, error) {
	if !blob.AllowedImage(up.Name) {
		return "", ErrUnsupportedImageType
	}
	it, err := repo.GetItem(ctx, s.DB, shipmentID, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrItemNotFound
		}
		return "", err
	}
	if s.Blobs == nil {
		return "", errors.New("no blob store configured")
	}
	path, err := s.Blobs.Save(ctx, up.Name, up.Data)
	if err != nil {
		return "", err
	}
	if err := repo.SetItemImage(ctx, s.DB, shipmentID, itemID, path); err != nil {
		_ = s.Blobs.Delete(path)
		if errors.Is(err, repo.ErrNotFound) {
			return "", ErrItemNotFound
		}
		return "", err
	}
	if it.ImagePath != "" {
		_ = s.Blobs.Delete(it.ImagePath)
	}
	return path, nil
}

// RemoveItemImage clears the item's image reference and deletes the blob
// best-effort; blob deletion failures are swallowed, not propagated.
func (s *ShipmentService) RemoveItemImage(ctx context.Context, shipmentID, itemID uint) error {
	old, err := repo.ClearItemImage(ctx, s.DB, shipmentID, itemID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrItemNotFound
		}
		return err
	}
	if old != "" && s.Blobs != nil {
		_ = s.Blobs.Delete(old)
	}
	return nil
}

// newToken mints the shipment's public identifier: 128 bits from
// crypto/rand, hex-encoded. The space is large enough that tokens are not
// enumerable and carry no ordering.
func newToken() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}

// nowUTC returns the server clock in UTC at second precision, matching the
// granularity of the persisted lifecycle timestamps.
func nowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
