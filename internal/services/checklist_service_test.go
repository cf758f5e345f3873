package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:checklistsvc_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.Shipment{}, &domain.Item{}, &domain.Event{}, &domain.ViewFlag{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// seedChecklist creates a shipment with the given responsible email and item
// labels, returning the shipment and its item ids.
func seedChecklist(t *testing.T, db *gorm.DB, responsible string, labels ...string) (*domain.Shipment, []uint) {
	t.Helper()
	s := &domain.Shipment{
		Token:            uuid.NewString()[:32],
		Title:            "Checklist",
		ResponsibleEmail: responsible,
		SentAt:           time.Now().UTC().Truncate(time.Second),
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed shipment: %v", err)
	}
	ids := make([]uint, 0, len(labels))
	for _, l := range labels {
		it := &domain.Item{ShipmentID: s.ID, Label: l}
		if err := db.Create(it).Error; err != nil {
			t.Fatalf("seed item %q: %v", l, err)
		}
		ids = append(ids, it.ID)
	}
	return s, ids
}

func eventTypes(t *testing.T, db *gorm.DB, shipmentID uint) []string {
	t.Helper()
	events, err := repo.ListEvents(context.Background(), db, shipmentID)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func countEvents(t *testing.T, db *gorm.DB, shipmentID uint) int64 {
	t.Helper()
	n, err := repo.CountEvents(context.Background(), db, shipmentID)
	if err != nil {
		t.Fatalf("CountEvents: %v", err)
	}
	return n
}

func TestOpen_FirstViewSideEffectsOncePerSession(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "", "a", "b")

	viewer := Viewer{SessionID: "sess-1", IP: "1.2.3.4", UserAgent: "ua"}

	view, err := svc.Open(context.Background(), s.Token, viewer)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if view.Shipment.Status() != domain.StatusViewed {
		t.Fatalf("expected VIEWED after first open, got %s", view.Shipment.Status())
	}
	if !view.CanEdit {
		t.Fatalf("open shipment must be editable by anyone")
	}
	for _, it := range view.Items {
		if it.ViewedAt == nil || it.ViewedBy != "Guest" {
			t.Fatalf("item not auto-viewed: %+v", it)
		}
	}
	// First open: AUTO_VIEWED_ITEMS + VIEW_OPEN.
	if got := countEvents(t, db, s.ID); got != 2 {
		t.Fatalf("expected 2 events after first open, got %d (%v)", got, eventTypes(t, db, s.ID))
	}

	// Second open from the same session only appends VIEW_OPEN.
	if _, err := svc.Open(context.Background(), s.Token, viewer); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if got := countEvents(t, db, s.ID); got != 3 {
		t.Fatalf("expected 3 events after second open, got %d", got)
	}
}

func TestOpen_SecondSessionDoesNotRestampItems(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "", "a")

	if _, err := svc.Open(context.Background(), s.Token, Viewer{SessionID: "sess-1"}); err != nil {
		t.Fatalf("first session Open: %v", err)
	}
	first, err := repo.ListItems(context.Background(), db, s.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}

	if _, err := svc.Open(context.Background(), s.Token, Viewer{SessionID: "sess-2"}); err != nil {
		t.Fatalf("second session Open: %v", err)
	}
	second, err := repo.ListItems(context.Background(), db, s.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if !first[0].ViewedAt.Equal(*second[0].ViewedAt) {
		t.Fatalf("item viewed_at moved between sessions: %v vs %v", first[0].ViewedAt, second[0].ViewedAt)
	}
	// No items were unviewed, so the second session adds only VIEW_OPEN.
	types := eventTypes(t, db, s.ID)
	auto := 0
	for _, typ := range types {
		if typ == domain.EventAutoViewedItems {
			auto++
		}
	}
	if auto != 1 {
		t.Fatalf("AUTO_VIEWED_ITEMS must appear exactly once, got %v", types)
	}
}

func TestOpen_NoItemsLeavesShipmentSent(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "")

	viewer := Viewer{SessionID: "sess-empty"}
	view, err := svc.Open(context.Background(), s.Token, viewer)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if view.Shipment.ViewedAt != nil {
		t.Fatalf("viewed_at stamped with nothing to view: %v", view.Shipment.ViewedAt)
	}
	if got := view.Shipment.Status(); got != domain.StatusSent {
		t.Fatalf("status = %s, want %s", got, domain.StatusSent)
	}
	// Nothing auto-viewed, so only the VIEW_OPEN record.
	if types := eventTypes(t, db, s.ID); len(types) != 1 || types[0] != domain.EventViewOpen {
		t.Fatalf("events = %v", types)
	}
	// The session flag is still planted: a re-open skips the first-view block.
	if _, err := repo.GetViewFlag(context.Background(), db, "sess-empty", s.ID, time.Now().UTC()); err != nil {
		t.Fatalf("view flag missing after empty open: %v", err)
	}
	if _, err := svc.Open(context.Background(), s.Token, viewer); err != nil {
		t.Fatalf("second Open: %v", err)
	}
	if got := countEvents(t, db, s.ID); got != 2 {
		t.Fatalf("expected 2 events after reopen, got %d", got)
	}
}

func TestOpen_GatedShipmentRequiresIdentity(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "maria@example.com", "a")

	_, err := svc.Open(context.Background(), s.Token, Viewer{SessionID: "sess-1"})
	if !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
	if got := countEvents(t, db, s.ID); got != 0 {
		t.Fatalf("rejected open must leave no events, got %d", got)
	}

	// An identified non-responsible viewer may still look.
	view, err := svc.Open(context.Background(), s.Token, Viewer{SessionID: "sess-1", Email: "other@example.com"})
	if err != nil {
		t.Fatalf("identified Open: %v", err)
	}
	if view.CanEdit {
		t.Fatalf("non-responsible viewer must not be able to edit")
	}
}

func TestOpen_UnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	if _, err := svc.Open(context.Background(), "deadbeef", Viewer{SessionID: "s"}); !errors.Is(err, ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}

func TestConfirmAll_AuthorizationGate(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "maria@example.com", "a")

	// Anonymous viewer.
	if _, err := svc.ConfirmAll(context.Background(), s.Token, Viewer{SessionID: "s1"}); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("anonymous: expected ErrIdentityRequired, got %v", err)
	}

	// Wrong identity.
	_, err := svc.ConfirmAll(context.Background(), s.Token, Viewer{SessionID: "s1", Email: "other@example.com"})
	if !errors.Is(err, ErrNotResponsible) {
		t.Fatalf("wrong email: expected ErrNotResponsible, got %v", err)
	}
	var authErr *AuthorizationError
	if !errors.As(err, &authErr) || authErr.Responsible != "maria@example.com" {
		t.Fatalf("AuthorizationError must carry the responsible identity: %v", err)
	}

	// Denied attempts leave no audit trace.
	if got := countEvents(t, db, s.ID); got != 0 {
		t.Fatalf("denied confirms must append no events, got %d", got)
	}
}

func TestConfirmAll_CompletesAndSetsReceived(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "maria@example.com", "a", "b", "c")

	viewer := Viewer{SessionID: "s1", Name: "Maria", Email: "maria@example.com"}
	res, err := svc.ConfirmAll(context.Background(), s.Token, viewer)
	if err != nil {
		t.Fatalf("ConfirmAll: %v", err)
	}
	if res.Confirmed != 3 || !res.Received || res.Status != domain.StatusReceived {
		t.Fatalf("unexpected result: %+v", res)
	}

	items, _ := repo.ListItems(context.Background(), db, s.ID)
	for _, it := range items {
		if it.ConfirmedBy != "Maria <maria@example.com>" {
			t.Fatalf("actor string mismatch: %q", it.ConfirmedBy)
		}
	}
	types := eventTypes(t, db, s.ID)
	if len(types) != 1 || types[0] != domain.EventConfirmAll {
		t.Fatalf("expected exactly one CONFIRM_ALL event, got %v", types)
	}

	// Repeat: zero rows, still RECEIVED, but the attempt is audited.
	res, err = svc.ConfirmAll(context.Background(), s.Token, viewer)
	if err != nil {
		t.Fatalf("repeat ConfirmAll: %v", err)
	}
	if res.Confirmed != 0 || res.Received || res.Status != domain.StatusReceived {
		t.Fatalf("unexpected repeat result: %+v", res)
	}
	if got := countEvents(t, db, s.ID); got != 2 {
		t.Fatalf("repeat must append its own event, got %d", got)
	}
}

func TestConfirmSelected_TolerantParseAndPartialCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, ids := seedChecklist(t, db, "", "a", "b")

	viewer := Viewer{SessionID: "s1", Email: "any@example.com"}
	raw := []string{strconv.Itoa(int(ids[0])), "abc", ""} // one valid, junk dropped

	res, err := svc.ConfirmSelected(context.Background(), s.Token, raw, viewer)
	if err != nil {
		t.Fatalf("ConfirmSelected: %v", err)
	}
	if res.Confirmed != 1 || res.Received {
		t.Fatalf("unexpected result: %+v", res)
	}

	// Completing the rest flips RECEIVED.
	res, err = svc.ConfirmSelected(context.Background(), s.Token, []string{strconv.Itoa(int(ids[1]))}, viewer)
	if err != nil {
		t.Fatalf("second ConfirmSelected: %v", err)
	}
	if !res.Received || res.Status != domain.StatusReceived {
		t.Fatalf("expected RECEIVED after completing: %+v", res)
	}
}

func TestConfirmSelected_EmptySelectionIsErrorWithoutAudit(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, _ := seedChecklist(t, db, "", "a")

	_, err := svc.ConfirmSelected(context.Background(), s.Token, []string{"abc", " ", "-1"}, Viewer{SessionID: "s1"})
	if !errors.Is(err, ErrNoItemsSelected) {
		t.Fatalf("expected ErrNoItemsSelected, got %v", err)
	}
	if got := countEvents(t, db, s.ID); got != 0 {
		t.Fatalf("validation failures must not be audited, got %d events", got)
	}
}

func TestConfirmSelected_ForeignIDsSilentlySkipped(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s1, _ := seedChecklist(t, db, "", "mine")
	s2, otherIDs := seedChecklist(t, db, "", "theirs")

	raw := []string{strconv.Itoa(int(otherIDs[0]))}
	res, err := svc.ConfirmSelected(context.Background(), s1.Token, raw, Viewer{SessionID: "s1"})
	if err != nil {
		t.Fatalf("ConfirmSelected: %v", err)
	}
	if res.Confirmed != 0 {
		t.Fatalf("foreign id must confirm nothing: %+v", res)
	}

	their, _ := repo.ListItems(context.Background(), db, s2.ID)
	if their[0].ConfirmedAt != nil {
		t.Fatalf("foreign shipment's item was mutated: %+v", their[0])
	}
}

func TestReceivedAt_MonotonicAfterLateItemAddition(t *testing.T) {
	db := newTestDB(t)
	chk := NewChecklistService(db)
	ship := NewShipmentService(db, nil)
	s, _ := seedChecklist(t, db, "", "a")

	viewer := Viewer{SessionID: "s1", Email: "x@example.com"}
	res, err := chk.ConfirmAll(context.Background(), s.Token, viewer)
	if err != nil || !res.Received {
		t.Fatalf("initial completion: %+v err=%v", res, err)
	}
	got, _ := repo.GetShipmentByID(context.Background(), db, s.ID)
	firstReceived := *got.ReceivedAt

	// A late item re-opens the work without clearing received_at…
	if _, err := ship.AddItem(context.Background(), s.ID, "late"); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	// …and re-completing keeps the original timestamp.
	time.Sleep(1100 * time.Millisecond)
	if _, err := chk.ConfirmAll(context.Background(), s.Token, viewer); err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	got, _ = repo.GetShipmentByID(context.Background(), db, s.ID)
	if !got.ReceivedAt.Equal(firstReceived) {
		t.Fatalf("received_at moved: %v -> %v", firstReceived, got.ReceivedAt)
	}
}

func TestUnconfirm_AlwaysRejectedWithoutMutation(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	s, ids := seedChecklist(t, db, "", "a")

	viewer := Viewer{SessionID: "s1", Email: "x@example.com"}
	if _, err := svc.ConfirmSelected(context.Background(), s.Token, []string{strconv.Itoa(int(ids[0]))}, viewer); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	before := countEvents(t, db, s.ID)

	err := svc.Unconfirm(context.Background(), s.Token, ids[0], viewer)
	if !errors.Is(err, ErrUnconfirmNotSupported) {
		t.Fatalf("expected ErrUnconfirmNotSupported, got %v", err)
	}

	it, _ := repo.GetItem(context.Background(), db, s.ID, ids[0])
	if it.ConfirmedAt == nil {
		t.Fatalf("unconfirm must not clear the confirmation")
	}
	if got := countEvents(t, db, s.ID); got != before {
		t.Fatalf("unconfirm must not be audited: %d -> %d", before, got)
	}

	// The rejection still plants the session's view flag.
	if _, err := repo.GetViewFlag(context.Background(), db, "s1", s.ID, time.Now().UTC()); err != nil {
		t.Fatalf("view flag missing after unconfirm: %v", err)
	}
}

func TestUnconfirm_UnknownToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewChecklistService(db)
	if err := svc.Unconfirm(context.Background(), "missing", 1, Viewer{SessionID: "s"}); !errors.Is(err, ErrShipmentNotFound) {
		t.Fatalf("expected ErrShipmentNotFound, got %v", err)
	}
}
