package domain

import (
	"testing"
	"time"
)

func TestShipment_StatusDerivation(t *testing.T) {
	now := time.Now().UTC()

	s := &Shipment{}
	if got := s.Status(); got != StatusSent {
		t.Fatalf("no timestamps: got %s, want %s", got, StatusSent)
	}

	s.ViewedAt = &now
	if got := s.Status(); got != StatusViewed {
		t.Fatalf("viewed only: got %s, want %s", got, StatusViewed)
	}

	s.ReceivedAt = &now
	if got := s.Status(); got != StatusReceived {
		t.Fatalf("received: got %s, want %s", got, StatusReceived)
	}

	// received_at dominates even if viewed_at was never stamped.
	s = &Shipment{ReceivedAt: &now}
	if got := s.Status(); got != StatusReceived {
		t.Fatalf("received without viewed: got %s, want %s", got, StatusReceived)
	}
}

func TestShipment_Open(t *testing.T) {
	if !(&Shipment{}).Open() {
		t.Fatalf("shipment without responsible email must be open")
	}
	if (&Shipment{ResponsibleEmail: "maria@example.com"}).Open() {
		t.Fatalf("gated shipment must not be open")
	}
}

func TestItem_Confirmed(t *testing.T) {
	now := time.Now().UTC()
	if (&Item{}).Confirmed() {
		t.Fatalf("fresh item must not be confirmed")
	}
	if !(&Item{ConfirmedAt: &now}).Confirmed() {
		t.Fatalf("stamped item must be confirmed")
	}
}
