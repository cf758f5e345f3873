// Package services defines the business logic for shipments, checklist
// items, and the audit trail. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import (
	"errors"
	"fmt"
)

var (
	// ErrShipmentNotFound indicates that no shipment exists for the given
	// token or id.
	ErrShipmentNotFound = errors.New("shipment not found")

	// ErrItemNotFound indicates that the item does not exist or belongs to
	// a different shipment.
	ErrItemNotFound = errors.New("item not found")

	// ErrEmptyLabel is returned when an item label is empty after trimming.
	ErrEmptyLabel = errors.New("item label is empty")

	// ErrNoItemsSelected is returned when a selective confirmation resolves
	// to an empty id set after the tolerant parse.
	ErrNoItemsSelected = errors.New("no item selected")

	// ErrIdentityRequired is returned when a shipment has a responsible
	// party assigned and the viewer has not identified themselves. Callers
	// must redirect to identity resolution before retrying.
	ErrIdentityRequired = errors.New("viewer identity required")

	// ErrNotResponsible is the sentinel matched (via errors.Is) by
	// AuthorizationError: the viewer is identified but is not the
	// shipment's responsible party.
	ErrNotResponsible = errors.New("viewer is not the responsible party")

	// ErrUnconfirmNotSupported is returned by the deliberately unsupported
	// unconfirm operation. It never accompanies a state change.
	ErrUnconfirmNotSupported = errors.New("unconfirming items is not allowed")

	// ErrUnsupportedImageType is returned when an uploaded asset's filename
	// does not carry an accepted image extension.
	ErrUnsupportedImageType = errors.New("unsupported image type")
)

// AuthorizationError reports a mutation attempt by a viewer who is not the
// shipment's responsible party. It carries the responsible identity so the
// caller can tell the user who to contact.
type AuthorizationError struct {
	Responsible string
}

// Error implements the error interface.
func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("only the responsible party (%s) may confirm items", e.Responsible)
}

// Is lets errors.Is(err, ErrNotResponsible) match an AuthorizationError.
func (e *AuthorizationError) Is(target error) bool { return target == ErrNotResponsible }
