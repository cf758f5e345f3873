// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, forbidden, not_found) mirror common HTTP
//     status semantics to aid interoperability.
//   - Domain-specific codes (e.g., identity_required, unconfirm_not_supported)
//     are reserved for checklist business rules that cannot be conveyed by
//     status alone.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "identity_required",
//	  "message": "identify yourself before opening this checklist"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeIdentityRequired      = "identity_required"
	ErrCodeNotResponsible        = "not_responsible"
	ErrCodeNoItemsSelected       = "no_items_selected"
	ErrCodeUnconfirmNotSupported = "unconfirm_not_supported"
	ErrCodeUnsupportedImage      = "unsupported_image_type"
	ErrCodeCreateFailed          = "create_failed"
	ErrCodeListFailed            = "list_failed"
	ErrCodeUploadFailed          = "upload_failed"
	ErrCodeMethodNotAllowed      = "method_not_allowed"
)
