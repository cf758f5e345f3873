// Package domain defines the persistence models for shipments, checklist
// items, and audit events. These types are mapped with GORM and form the
// core data layer of the shipment checklist application.
package domain

import (
	"time"
)

// Shipment lifecycle status labels. The status is never stored; it is
// derived from the two first-time timestamps so a status/timestamp pair can
// never disagree.
const (
	StatusSent     = "SENT"
	StatusViewed   = "VIEWED"
	StatusReceived = "RECEIVED"
)

// Audit event types recorded against a shipment.
const (
	EventViewOpen        = "VIEW_OPEN"
	EventAutoViewedItems = "AUTO_VIEWED_ITEMS"
	EventConfirmAll      = "CONFIRM_ALL"
	EventConfirmSelected = "CONFIRM_SELECTED"
)

// Shipment represents a checklist sent to a recipient. It is addressed
// publicly by an unguessable token and optionally gated to a single
// responsible party by email.
//
// Fields:
//   - ID: surrogate integer primary key.
//   - Token: opaque 128-bit random identifier, hex-encoded; unique.
//   - Title / Number: display metadata; Number is optional.
//   - ResponsibleEmail: lower-cased email of the only identity allowed to
//     confirm items; empty means the shipment is open to anyone.
//   - SentAt: set at creation, immutable.
//   - ViewedAt: set at most once, the first time any item is auto-marked
//     viewed (monotonic "first view" timestamp).
//   - ReceivedAt: set at most once, the first time every item is confirmed
//     (monotonic "first completion" timestamp).
type Shipment struct {
	ID               uint       `json:"id"                gorm:"primaryKey"`
	Token            string     `json:"token"             gorm:"type:char(32);not null;uniqueIndex:ux_shipment_token"`
	Title            string     `json:"title"             gorm:"type:varchar(255);not null"`
	Number           string     `json:"number,omitempty"  gorm:"type:varchar(64)"`
	ResponsibleEmail string     `json:"responsible_email,omitempty" gorm:"type:varchar(255)"`
	SentAt           time.Time  `json:"sent_at"           gorm:"not null"`
	ViewedAt         *time.Time `json:"viewed_at,omitempty"`
	ReceivedAt       *time.Time `json:"received_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName returns the database table name for Shipment.
func (Shipment) TableName() string { return "shipments" }

// Status derives the lifecycle label from the first-time timestamps:
// RECEIVED once every item has been confirmed, VIEWED after the first open,
// SENT otherwise. Transitions are monotonic because the underlying
// timestamps are set-if-null.
func (s *Shipment) Status() string {
	switch {
	case s.ReceivedAt != nil:
		return StatusReceived
	case s.ViewedAt != nil:
		return StatusViewed
	default:
		return StatusSent
	}
}

// Open reports whether the shipment accepts confirmations from any viewer
// (no responsible party assigned).
func (s *Shipment) Open() bool { return s.ResponsibleEmail == "" }

// Item is one checklist line belonging to a shipment. Confirmation and
// first-view are one-way transitions: once ConfirmedAt/ViewedAt are set they
// are never cleared or overwritten.
//
// Fields:
//   - ID: surrogate integer primary key.
//   - ShipmentID: foreign key to the owning shipment (cascade delete).
//   - Label: required, non-empty text.
//   - ExternalURL: optional reference to an attached asset.
//   - ImagePath: optional blob-store retrieval path of an attached image.
//   - ConfirmedAt / ConfirmedBy: both null or both set, first confirmation wins.
//   - ViewedAt / ViewedBy: set at most once on first view.
type Item struct {
	ID          uint       `json:"id"                     gorm:"primaryKey"`
	ShipmentID  uint       `json:"shipment_id"            gorm:"not null;index:idx_shipment_items"`
	Label       string     `json:"label"                  gorm:"type:varchar(255);not null"`
	ExternalURL string     `json:"external_url,omitempty" gorm:"type:varchar(512)"`
	ImagePath   string     `json:"image_path,omitempty"   gorm:"type:varchar(512)"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	ConfirmedBy string     `json:"confirmed_by,omitempty" gorm:"type:varchar(255)"`
	ViewedAt    *time.Time `json:"viewed_at,omitempty"`
	ViewedBy    string     `json:"viewed_by,omitempty"    gorm:"type:varchar(255)"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Shipment is the owning aggregate. Items are cascade-deleted with it.
	Shipment Shipment `json:"-" gorm:"foreignKey:ShipmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Item.
func (Item) TableName() string { return "items" }

// Confirmed reports whether the item has been confirmed.
func (i *Item) Confirmed() bool { return i.ConfirmedAt != nil }

// Event is one immutable audit record of an action taken against a
// shipment. Rows are append-only: never updated or deleted except by the
// owning shipment's cascade.
//
// Fields:
//   - OccurredAt: server clock, UTC, second precision.
//   - Actor: free-text identity string ("Name <email>", bare email, or "Guest").
//   - Type: one of the Event* constants.
//   - IP / UserAgent: optional request origin metadata.
type Event struct {
	ID         uint      `json:"id"                   gorm:"primaryKey"`
	ShipmentID uint      `json:"shipment_id"          gorm:"not null;index:idx_shipment_events,priority:1"`
	OccurredAt time.Time `json:"occurred_at"          gorm:"not null;index:idx_shipment_events,priority:2"`
	Actor      string    `json:"actor"                gorm:"type:varchar(255);not null"`
	Type       string    `json:"type"                 gorm:"type:varchar(32);not null"`
	IP         string    `json:"ip,omitempty"         gorm:"type:varchar(64)"`
	UserAgent  string    `json:"user_agent,omitempty" gorm:"type:varchar(512)"`

	// Shipment is the owning aggregate. Events are cascade-deleted with it.
	Shipment Shipment `json:"-" gorm:"foreignKey:ShipmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Event.
func (Event) TableName() string { return "events" }
