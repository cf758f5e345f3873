// Public checklist HTTP handlers (recipient-side API).
//
// This file exposes the token-addressed endpoints that checklist recipients
// use:
//   - GET  /open/{token}                     (open the checklist)
//   - POST /open/{token}/confirm-all         (confirm every remaining item)
//   - POST /open/{token}/confirm             (confirm selected items)
//   - POST /open/{token}/unconfirm/{itemID}  (always rejected)
//
// No login is required beyond the token itself; viewer identity comes from
// the signed session cookie and gates confirmation on shipments that have a
// responsible party. Handlers are transport-thin.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/http/middleware"
	"github.com/tbourn/go-shipment-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ChecklistService defines the recipient-side operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChecklistService interface {
	// Open resolves the checklist and applies first-view side effects.
	Open(ctx context.Context, token string, v services.Viewer) (*services.ChecklistView, error)
	// ConfirmAll confirms every remaining item.
	ConfirmAll(ctx context.Context, token string, v services.Viewer) (*services.ConfirmResult, error)
	// ConfirmSelected confirms the items named by rawIDs (tolerant parse).
	ConfirmSelected(ctx context.Context, token string, rawIDs []string, v services.Viewer) (*services.ConfirmResult, error)
	// Unconfirm always rejects; it never mutates items.
	Unconfirm(ctx context.Context, token string, itemID uint, v services.Viewer) error
}

// ChecklistHandlers groups the recipient-side HTTP endpoints.
type ChecklistHandlers struct {
	svc ChecklistService
}

// NewChecklistHandlers constructs a ChecklistHandlers bound to the service.
func NewChecklistHandlers(svc ChecklistService) *ChecklistHandlers {
	return &ChecklistHandlers{svc: svc}
}

//
// DTOs
//

// ChecklistResponse is the recipient's view of a checklist.
type ChecklistResponse struct {
	ShipmentSummary
	Items []domain.Item `json:"items"`
	// CanEdit is true when this viewer may confirm items.
	CanEdit bool `json:"can_edit" example:"true"`
}

// ConfirmSelectedRequest is the JSON payload for selective confirmation.
// IDs are accepted as strings and parsed tolerantly: non-numeric entries
// are dropped rather than rejected.
type ConfirmSelectedRequest struct {
	IDs []string `json:"ids" example:"1,2,5"`
}

// ConfirmResponse reports the outcome of a confirmation operation.
type ConfirmResponse struct {
	// Confirmed is the number of items newly confirmed by this call.
	Confirmed int64 `json:"confirmed" example:"3"`
	// Received is true when this call completed the checklist.
	Received bool `json:"received" example:"false"`
	// Status is the shipment's derived status after the operation.
	Status string `json:"status" example:"VIEWED"`
}

//
// Helpers
//

// viewerFrom assembles the service-layer viewer from the session middleware
// and request metadata.
func viewerFrom(c *gin.Context) services.Viewer {
	name, email := middleware.ViewerIdentity(c)
	return services.Viewer{
		Name:      name,
		Email:     email,
		SessionID: middleware.SessionID(c),
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// failChecklist maps checklist service errors onto the shared envelope.
// Unmatched errors become 500s.
func failChecklist(c *gin.Context, err error) {
	var authErr *services.AuthorizationError
	switch {
	case errors.Is(err, services.ErrShipmentNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "shipment not found")
	case errors.Is(err, services.ErrIdentityRequired):
		fail(c, http.StatusUnauthorized, ErrCodeIdentityRequired, "identify yourself before opening this checklist")
	case errors.As(err, &authErr):
		fail(c, http.StatusForbidden, ErrCodeNotResponsible, authErr.Error())
	case errors.Is(err, services.ErrNoItemsSelected):
		fail(c, http.StatusBadRequest, ErrCodeNoItemsSelected, "select at least one item")
	case errors.Is(err, services.ErrUnconfirmNotSupported):
		fail(c, http.StatusForbidden, ErrCodeUnconfirmNotSupported, "confirmed items cannot be unconfirmed")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}

//
// Handlers
//

// OpenChecklist godoc
// @ID          openChecklist
// @Summary     Open a checklist by token
// @Description Returns the checklist for the given token. The first open per browser session marks all unviewed items viewed and stamps the shipment's viewed_at.
// @Tags        Checklist
// @Produce     json
//
// @Param       token  path  string  true  "Checklist token (32 hex chars)"  example(3f2a9c0d8e7b6a5f4e3d2c1b0a998877)
//
// @Success     200  {object}  handlers.ChecklistResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Identity required"
// @Failure     404  {object}  handlers.ErrorResponse  "Shipment not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /open/{token} [get]
func (h *ChecklistHandlers) OpenChecklist(c *gin.Context) {
	view, err := h.svc.Open(c.Request.Context(), c.Param("token"), viewerFrom(c))
	if err != nil {
		failChecklist(c, err)
		return
	}
	ok(c, http.StatusOK, ChecklistResponse{
		ShipmentSummary: summarize(*view.Shipment),
		Items:           view.Items,
		CanEdit:         view.CanEdit,
	})
}

// ConfirmAll godoc
// @ID          confirmAll
// @Summary     Confirm every remaining item
// @Description Confirms all still-unconfirmed items as the current viewer. Completing the checklist sets the shipment's received_at (first completion wins).
// @Tags        Checklist
// @Produce     json
//
// @Param       token  path  string  true  "Checklist token"  example(3f2a9c0d8e7b6a5f4e3d2c1b0a998877)
//
// @Success     200  {object}  handlers.ConfirmResponse
// @Failure     401  {object}  handlers.ErrorResponse  "Identity required"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the responsible party"
// @Failure     404  {object}  handlers.ErrorResponse  "Shipment not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /open/{token}/confirm-all [post]
func (h *ChecklistHandlers) ConfirmAll(c *gin.Context) {
	res, err := h.svc.ConfirmAll(c.Request.Context(), c.Param("token"), viewerFrom(c))
	if err != nil {
		failChecklist(c, err)
		return
	}
	middleware.CountConfirmation("all", res.Received)
	ok(c, http.StatusOK, confirmResponse(res))
}

// ConfirmSelected godoc
// @ID          confirmSelected
// @Summary     Confirm selected items
// @Description Confirms the listed items as the current viewer. Non-numeric ids are dropped tolerantly; ids from other shipments and already-confirmed items are skipped silently.
// @Tags        Checklist
// @Accept      json
// @Produce     json
//
// @Param       token  path  string                            true  "Checklist token"  example(3f2a9c0d8e7b6a5f4e3d2c1b0a998877)
// @Param       body   body  handlers.ConfirmSelectedRequest   true  "Selected item ids"
//
// @Success     200  {object}  handlers.ConfirmResponse
// @Failure     400  {object}  handlers.ErrorResponse  "No items selected"
// @Failure     401  {object}  handlers.ErrorResponse  "Identity required"
// @Failure     403  {object}  handlers.ErrorResponse  "Not the responsible party"
// @Failure     404  {object}  handlers.ErrorResponse  "Shipment not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /open/{token}/confirm [post]
func (h *ChecklistHandlers) ConfirmSelected(c *gin.Context) {
	var req ConfirmSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Fall back to form encoding so plain HTML checkbox forms work too.
		req.IDs = c.PostFormArray("item_ids")
	}

	res, err := h.svc.ConfirmSelected(c.Request.Context(), c.Param("token"), req.IDs, viewerFrom(c))
	if err != nil {
		failChecklist(c, err)
		return
	}
	middleware.CountConfirmation("selected", res.Received)
	ok(c, http.StatusOK, confirmResponse(res))
}

// Unconfirm godoc
// @ID          unconfirmItem
// @Summary     Unconfirm an item (always rejected)
// @Description Reverting a confirmation is not supported; confirmations are one-way. The endpoint exists to answer the attempt explicitly rather than 404.
// @Tags        Checklist
// @Produce     json
//
// @Param       token   path  string  true  "Checklist token"  example(3f2a9c0d8e7b6a5f4e3d2c1b0a998877)
// @Param       itemID  path  int     true  "Item ID"          example(19)
//
// @Failure     403  {object}  handlers.ErrorResponse  "Unconfirm not supported"
// @Failure     404  {object}  handlers.ErrorResponse  "Shipment not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /open/{token}/unconfirm/{itemID} [post]
func (h *ChecklistHandlers) Unconfirm(c *gin.Context) {
	itemID, _ := pathUint(c, "itemID")

	err := h.svc.Unconfirm(c.Request.Context(), c.Param("token"), itemID, viewerFrom(c))
	if err == nil {
		// The service contract always returns an error; treat silence as a bug.
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "unexpected unconfirm success")
		return
	}
	failChecklist(c, err)
}

func confirmResponse(res *services.ConfirmResult) ConfirmResponse {
	return ConfirmResponse{
		Confirmed: res.Confirmed,
		Received:  res.Received,
		Status:    res.Status,
	}
}
