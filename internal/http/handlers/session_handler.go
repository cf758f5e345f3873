// Viewer session HTTP handlers.
//
// This file exposes REST endpoints for viewer self-identification:
//   - POST   /session   (identify: set the signed viewer cookie)
//   - GET    /session   (current identity)
//   - DELETE /session   (forget identity)
//
// There is no password and no account: a viewer claims a (name, email) pair
// and the server signs it into a cookie. Authorization against a shipment's
// responsible party happens later, in the checklist service, by comparing
// the claimed email. Handlers are transport-thin.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shipment-backend/internal/http/middleware"
	"github.com/tbourn/go-shipment-backend/internal/services"
)

// SessionHandlers groups the viewer identity endpoints.
type SessionHandlers struct {
	opts middleware.SessionOptions
}

// NewSessionHandlers constructs SessionHandlers bound to the cookie options.
func NewSessionHandlers(opts middleware.SessionOptions) *SessionHandlers {
	return &SessionHandlers{opts: opts}
}

// IdentifyRequest is the JSON payload for claiming a viewer identity.
type IdentifyRequest struct {
	// Name is the optional display name; it is trimmed and title-cased.
	Name string `json:"name" example:"Maria Silva"`
	// Email is required; it is trimmed and lower-cased before storage.
	Email string `json:"email" binding:"required" example:"maria@example.com"`
}

// ViewerResponse describes the current viewer identity.
type ViewerResponse struct {
	Name      string `json:"name,omitempty" example:"Maria Silva"`
	Email     string `json:"email,omitempty" example:"maria@example.com"`
	Anonymous bool   `json:"anonymous" example:"false"`
}

// Identify godoc
// @ID          identifyViewer
// @Summary     Claim a viewer identity
// @Description Stores the viewer's (name, email) in a signed cookie. The email is lower-cased; confirmation rights are checked against it per shipment.
// @Tags        Session
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.IdentifyRequest  true  "Identity payload"
//
// @Success     200  {object}  handlers.ViewerResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Router      /session [post]
func (h *SessionHandlers) Identify(c *gin.Context) {
	// Without a signing secret the cookie below would be silently skipped
	// and the claimed identity lost; answer 500 instead of lying with a 200.
	if h.opts.Secret == "" {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "viewer identity is not configured")
		return
	}

	var req IdentifyRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email required")
		return
	}

	name, email := services.NormalizeIdentity(req.Name, req.Email)
	if email == "" || !strings.Contains(email, "@") {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "email must be a valid address")
		return
	}

	middleware.SetViewerCookie(c, h.opts, name, email)
	ok(c, http.StatusOK, ViewerResponse{Name: name, Email: email})
}

// Current godoc
// @ID          currentViewer
// @Summary     Current viewer identity
// @Description Returns the identity claimed by this browser session, or an anonymous marker.
// @Tags        Session
// @Produce     json
//
// @Success     200  {object}  handlers.ViewerResponse
// @Router      /session [get]
func (h *SessionHandlers) Current(c *gin.Context) {
	name, email := middleware.ViewerIdentity(c)
	ok(c, http.StatusOK, ViewerResponse{
		Name:      name,
		Email:     email,
		Anonymous: email == "",
	})
}

// Forget godoc
// @ID          forgetViewer
// @Summary     Forget the viewer identity
// @Description Expires the signed viewer cookie. The session ID (and its first-view flags) survive.
// @Tags        Session
//
// @Success     204  {string}  string  "No Content"
// @Router      /session [delete]
func (h *SessionHandlers) Forget(c *gin.Context) {
	middleware.ClearViewerCookie(c, h.opts)
	noContent(c)
}
