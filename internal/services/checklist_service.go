// Package services – ChecklistService
//
// This file implements the public checklist flow: opening a shipment by its
// token (with the per-session first-view side effects), bulk and selective
// confirmation, and the deliberately unsupported unconfirm operation.
//
// Every mutating operation runs its item updates, derived-status recompute,
// and audit append inside one transaction, so the audit trail never records
// an effect that was rolled back.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/repo"
	"github.com/tbourn/go-shipment-backend/internal/utils"
)

// DefaultViewFlagTTL bounds how long a session's first-view deduplication
// flag lives. After expiry, a re-open only re-appends a VIEW_OPEN record
// (the item viewed_at stamps are already set and never move).
const DefaultViewFlagTTL = 30 * 24 * time.Hour

// ChecklistView is what the public viewer sees when opening a checklist:
// the shipment, its items in creation order, and whether this viewer may
// confirm items.
type ChecklistView struct {
	Shipment *domain.Shipment
	Items    []domain.Item
	// CanEdit is true when the checklist is open to everyone or the viewer
	// is the responsible party.
	CanEdit bool
}

// ConfirmResult reports the outcome of a confirmation: how many items were
// newly confirmed, whether the shipment just transitioned to RECEIVED, and
// the derived status after the operation.
type ConfirmResult struct {
	Confirmed int64
	Received  bool
	Status    string
}

// ChecklistService implements the token-scoped public flow. Viewer identity
// and authorization are resolved here; persistence details live in repo.
type ChecklistService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// FlagTTL is the lifetime of the per-session first-view flag. Zero
	// means DefaultViewFlagTTL.
	FlagTTL time.Duration
}

// NewChecklistService constructs a ChecklistService with the default
// first-view flag TTL.
func NewChecklistService(db *gorm.DB) *ChecklistService {
	return &ChecklistService{DB: db, FlagTTL: DefaultViewFlagTTL}
}

func (s *ChecklistService) flagTTL() time.Duration {
	if s.FlagTTL > 0 {
		return s.FlagTTL
	}
	return DefaultViewFlagTTL
}

// Open resolves a checklist by token and applies the first-view side
// effects exactly once per (session, shipment):
//
//   - items with a null viewed_at are stamped; when any were, an
//     AUTO_VIEWED_ITEMS record is appended and the shipment's viewed_at is
//     set if still null (a checklist with no items to view stays SENT);
//   - the session's view flag is created so subsequent opens skip this block.
//
// A VIEW_OPEN record is appended on every open, deduplicated or not. When
// the shipment has a responsible party and the viewer is anonymous, Open
// returns ErrIdentityRequired without reading or mutating anything else.
func (s *ChecklistService) Open(ctx context.Context, token string, v Viewer) (*ChecklistView, error) {
	tr := otel.Tracer("services/ChecklistService")
	ctx, span := tr.Start(ctx, "Open")
	defer span.End()

	ship, err := repo.GetShipmentByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	span.SetAttributes(attribute.Int("shipment.id", int(ship.ID)))

	if !ship.Open() && v.Anonymous() {
		return nil, ErrIdentityRequired
	}

	now := nowUTC()
	firstView := false
	if _, err := repo.GetViewFlag(ctx, s.DB, v.SessionID, ship.ID, now); err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		firstView = true
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if firstView {
			ids, err := repo.ListUnviewedItemIDs(ctx, tx, ship.ID)
			if err != nil {
				return err
			}
			if len(ids) > 0 {
				if _, err := repo.MarkItemsViewed(ctx, tx, ship.ID, ids, v.Actor(), now); err != nil {
					return err
				}
				if _, err := repo.AppendEvent(ctx, tx, ship.ID, v.Actor(), domain.EventAutoViewedItems, v.IP, v.UserAgent, now); err != nil {
					return err
				}
				if _, err := repo.MarkShipmentViewed(ctx, tx, ship.ID, now); err != nil {
					return err
				}
			}
			if v.SessionID != "" {
				if _, err := repo.CreateViewFlag(ctx, tx, v.SessionID, ship.ID, s.flagTTL()); err != nil && !errors.Is(err, repo.ErrDuplicate) {
					return err
				}
			}
		}
		_, err := repo.AppendEvent(ctx, tx, ship.ID, v.Actor(), domain.EventViewOpen, v.IP, v.UserAgent, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Re-read so derived status reflects the writes above.
	ship, err = repo.GetShipmentByID(ctx, s.DB, ship.ID)
	if err != nil {
		return nil, err
	}
	items, err := repo.ListItems(ctx, s.DB, ship.ID)
	if err != nil {
		return nil, err
	}
	return &ChecklistView{
		Shipment: ship,
		Items:    items,
		CanEdit:  s.authorize(ship, v) == nil,
	}, nil
}

// ConfirmAll confirms every still-unconfirmed item on the shipment as one
// operation: a single conditional bulk update, one CONFIRM_ALL audit
// record, and the RECEIVED transition when the checklist is now complete.
// A repeat call confirms zero items but still appends its audit record.
func (s *ChecklistService) ConfirmAll(ctx context.Context, token string, v Viewer) (*ConfirmResult, error) {
	tr := otel.Tracer("services/ChecklistService")
	ctx, span := tr.Start(ctx, "ConfirmAll")
	defer span.End()

	ship, err := s.loadAuthorized(ctx, token, v)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("shipment.id", int(ship.ID)))

	now := nowUTC()
	out := &ConfirmResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repo.ConfirmAllItems(ctx, tx, ship.ID, v.Actor(), now)
		if err != nil {
			return err
		}
		out.Confirmed = n
		if _, err := repo.AppendEvent(ctx, tx, ship.ID, v.Actor(), domain.EventConfirmAll, v.IP, v.UserAgent, now); err != nil {
			return err
		}
		received, err := markReceivedIfComplete(ctx, tx, ship.ID, now)
		if err != nil {
			return err
		}
		out.Received = received
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.stampStatus(ctx, ship.ID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ConfirmSelected confirms the items named by rawIDs. The parse is
// tolerant (non-numeric tokens are dropped); an empty surviving set is
// ErrNoItemsSelected and leaves no trace in the audit trail. Ids owned by
// other shipments and already-confirmed items are excluded by the
// conditional update, not reported as errors.
func (s *ChecklistService) ConfirmSelected(ctx context.Context, token string, rawIDs []string, v Viewer) (*ConfirmResult, error) {
	tr := otel.Tracer("services/ChecklistService")
	ctx, span := tr.Start(ctx, "ConfirmSelected",
		trace.WithAttributes(attribute.Int("ids.raw", len(rawIDs))),
	)
	defer span.End()

	ship, err := s.loadAuthorized(ctx, token, v)
	if err != nil {
		return nil, err
	}

	ids := utils.ParseUintList(rawIDs)
	if len(ids) == 0 {
		return nil, ErrNoItemsSelected
	}

	now := nowUTC()
	out := &ConfirmResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repo.ConfirmSelectedItems(ctx, tx, ship.ID, ids, v.Actor(), now)
		if err != nil {
			return err
		}
		out.Confirmed = n
		if _, err := repo.AppendEvent(ctx, tx, ship.ID, v.Actor(), domain.EventConfirmSelected, v.IP, v.UserAgent, now); err != nil {
			return err
		}
		received, err := markReceivedIfComplete(ctx, tx, ship.ID, now)
		if err != nil {
			return err
		}
		out.Received = received
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.stampStatus(ctx, ship.ID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// stampStatus re-reads the shipment so the result reports the derived
// status as persisted, not as guessed from this call's writes alone.
func (s *ChecklistService) stampStatus(ctx context.Context, shipmentID uint, out *ConfirmResult) error {
	ship, err := repo.GetShipmentByID(ctx, s.DB, shipmentID)
	if err != nil {
		return err
	}
	out.Status = ship.Status()
	return nil
}

// Unconfirm rejects the request to revert a confirmation. The operation
// performs no item mutation and appends no audit record; it only ensures
// the session's view flag exists (so the caller's next open skips the
// first-view block) before returning ErrUnconfirmNotSupported.
func (s *ChecklistService) Unconfirm(ctx context.Context, token string, itemID uint, v Viewer) error {
	ship, err := repo.GetShipmentByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrShipmentNotFound
		}
		return err
	}
	_ = itemID
	if v.SessionID != "" {
		if _, err := repo.CreateViewFlag(ctx, s.DB, v.SessionID, ship.ID, s.flagTTL()); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return err
		}
	}
	return ErrUnconfirmNotSupported
}

// loadAuthorized fetches the shipment and checks the viewer may mutate it.
func (s *ChecklistService) loadAuthorized(ctx context.Context, token string, v Viewer) (*domain.Shipment, error) {
	ship, err := repo.GetShipmentByToken(ctx, s.DB, token)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrShipmentNotFound
		}
		return nil, err
	}
	if err := s.authorize(ship, v); err != nil {
		return nil, err
	}
	return ship, nil
}

// authorize applies the single-responsible-party gate: an open shipment
// (no responsible email) accepts anyone; otherwise the viewer must be
// identified and match the responsible email exactly (both sides are
// stored lower-cased).
func (s *ChecklistService) authorize(ship *domain.Shipment, v Viewer) error {
	if ship.Open() {
		return nil
	}
	if v.Anonymous() {
		return ErrIdentityRequired
	}
	if v.Email != ship.ResponsibleEmail {
		return &AuthorizationError{Responsible: ship.ResponsibleEmail}
	}
	return nil
}

// markReceivedIfComplete flips received_at when no unconfirmed items
// remain. The set-if-null guard in the repo keeps the first timestamp even
// if later item additions reopen and re-complete the checklist.
func markReceivedIfComplete(ctx context.Context, tx *gorm.DB, shipmentID uint, now time.Time) (bool, error) {
	remaining, err := repo.CountUnconfirmedItems(ctx, tx, shipmentID)
	if err != nil {
		return false, err
	}
	if remaining != 0 {
		return false, nil
	}
	return repo.MarkShipmentReceived(ctx, tx, shipmentID, now)
}
