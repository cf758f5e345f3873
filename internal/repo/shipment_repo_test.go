package repo

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shipment-backend/internal/domain"
)

func newRepoDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("repo_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// Ensure the file handle is released before TempDir cleanup (Windows needs this).
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func seedShipment(t *testing.T, db *gorm.DB, token string) *domain.Shipment {
	t.Helper()
	s := &domain.Shipment{
		Token:  token,
		Title:  "Checklist",
		SentAt: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("seed shipment: %v", err)
	}
	return s
}

func TestCreateShipment_Error_NoTable(t *testing.T) {
	db := newRepoDB(t /* no migrations */)
	s := &domain.Shipment{Token: "t", Title: "x", SentAt: time.Now()}
	if _, err := CreateShipment(context.Background(), db, s); err == nil {
		t.Fatalf("expected error creating without table")
	}
}

func TestCreateShipment_Success_PersistsAndSetsFields(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})

	sent := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s, err := CreateShipment(context.Background(), db, &domain.Shipment{
		Token:            "00112233445566778899aabbccddeeff",
		Title:            "March restock",
		Number:           "PO-1",
		ResponsibleEmail: "maria@example.com",
		SentAt:           sent,
	})
	if err != nil {
		t.Fatalf("CreateShipment: %v", err)
	}
	if s.ID == 0 {
		t.Fatalf("expected assigned ID, got %+v", s)
	}

	got, err := GetShipmentByToken(context.Background(), db, s.Token)
	if err != nil {
		t.Fatalf("GetShipmentByToken: %v", err)
	}
	if got.Title != "March restock" || got.ResponsibleEmail != "maria@example.com" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.ViewedAt != nil || got.ReceivedAt != nil {
		t.Fatalf("fresh shipment must have nil lifecycle timestamps: %+v", got)
	}
}

func TestGetShipmentByToken_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})
	if _, err := GetShipmentByToken(context.Background(), db, "nope"); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetShipmentByID_NotFound(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})
	if _, err := GetShipmentByID(context.Background(), db, 999); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListShipmentsPage_NewestFirst(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})
	for i := 0; i < 5; i++ {
		seedShipment(t, db, fmt.Sprintf("token-%d", i))
	}

	total, err := CountShipments(context.Background(), db)
	if err != nil || total != 5 {
		t.Fatalf("CountShipments: total=%d err=%v", total, err)
	}

	page, err := ListShipmentsPage(context.Background(), db, 0, 2)
	if err != nil {
		t.Fatalf("ListShipmentsPage: %v", err)
	}
	if len(page) != 2 || page[0].ID <= page[1].ID {
		t.Fatalf("expected 2 rows id-descending, got %+v", page)
	}
}

func TestMarkShipmentViewed_FirstWriteWins(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})
	s := seedShipment(t, db, "tok-viewed")

	first := time.Date(2025, 3, 2, 12, 0, 0, 0, time.UTC)
	won, err := MarkShipmentViewed(context.Background(), db, s.ID, first)
	if err != nil || !won {
		t.Fatalf("first MarkShipmentViewed: won=%v err=%v", won, err)
	}

	// Second call must be a zero-row no-op that keeps the first timestamp.
	won, err = MarkShipmentViewed(context.Background(), db, s.ID, first.Add(time.Hour))
	if err != nil || won {
		t.Fatalf("repeat MarkShipmentViewed: won=%v err=%v", won, err)
	}

	got, err := GetShipmentByID(context.Background(), db, s.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ViewedAt == nil || !got.ViewedAt.Equal(first) {
		t.Fatalf("viewed_at moved: %v", got.ViewedAt)
	}
}

func TestMarkShipmentReceived_FirstWriteWins(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})
	s := seedShipment(t, db, "tok-received")

	first := time.Date(2025, 3, 3, 8, 0, 0, 0, time.UTC)
	won, err := MarkShipmentReceived(context.Background(), db, s.ID, first)
	if err != nil || !won {
		t.Fatalf("first MarkShipmentReceived: won=%v err=%v", won, err)
	}
	won, err = MarkShipmentReceived(context.Background(), db, s.ID, first.Add(time.Hour))
	if err != nil || won {
		t.Fatalf("repeat MarkShipmentReceived: won=%v err=%v", won, err)
	}

	got, err := GetShipmentByID(context.Background(), db, s.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.ReceivedAt == nil || !got.ReceivedAt.Equal(first) {
		t.Fatalf("received_at moved: %v", got.ReceivedAt)
	}
	if got.Status() != domain.StatusReceived {
		t.Fatalf("expected RECEIVED, got %s", got.Status())
	}
}

func TestShipmentsStats_EmptyAndSeeded(t *testing.T) {
	db := newRepoDB(t, &domain.Shipment{})

	count, maxTS, err := ShipmentsStats(context.Background(), db)
	if err != nil || count != 0 || maxTS != nil {
		t.Fatalf("empty stats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}

	seedShipment(t, db, "a")
	seedShipment(t, db, "b")

	count, maxTS, err = ShipmentsStats(context.Background(), db)
	if err != nil || count != 2 || maxTS == nil {
		t.Fatalf("seeded stats: count=%d maxTS=%v err=%v", count, maxTS, err)
	}
}
