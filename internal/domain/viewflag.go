// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// ViewFlag records that a given viewer session has already triggered the
// first-view side effects for a shipment, keyed by (session_id, shipment_id).
// It de-duplicates the auto-view pass across requests: repeat visits within
// the flag's lifetime skip the AUTO_VIEWED_ITEMS block entirely.
type ViewFlag struct {
	ID         string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	SessionID  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_session_shipment,priority:1"`
	ShipmentID uint      `gorm:"not null;uniqueIndex:ux_session_shipment,priority:2"`
	CreatedAt  time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (ViewFlag) TableName() string { return "view_flags" }
