// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements viewer sessions for the public checklist flow. Two
// cookies are involved:
//
//   - "sid": an opaque session identifier minted on first contact. It scopes
//     the per-session first-view deduplication and the rate-limit bucket.
//   - "viewer": the self-identified (name, email) pair, serialized and
//     signed with HMAC-SHA256 so clients cannot forge an identity claim
//     without the server secret. Tampered or malformed cookies are treated
//     as anonymous, never as errors.
//
// The resolved identity is stashed in the Gin context under unexported keys
// and read back via SessionID and ViewerFrom. Handlers set or clear the
// viewer cookie through SetViewerCookie / ClearViewerCookie.
package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionCookie = "sid"
	viewerCookie  = "viewer"

	sessionIDKey  = "session.id"
	viewerNameKey = "viewer.name"
	viewerMailKey = "viewer.email"
)

// SessionOptions configures the session middleware and cookie helpers.
type SessionOptions struct {
	// Secret keys the HMAC over the viewer cookie. Empty disables identity
	// cookies entirely (viewers stay anonymous); the sid cookie still works.
	Secret string
	// TTL is the max-age applied to both cookies.
	TTL time.Duration
	// Secure marks the cookies Secure (HTTPS-only).
	Secure bool
}

// viewerClaim is the payload serialized into the signed viewer cookie.
type viewerClaim struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Session resolves the viewer session for each request.
//
// It ensures a sid cookie exists (minting a UUIDv4 when absent), verifies
// the viewer cookie's signature when present, and stashes session ID and
// identity in the Gin context. Invalid viewer cookies are ignored.
func Session(opt SessionOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(sessionCookie)
		if err != nil || sid == "" {
			sid = uuid.NewString()
			c.SetCookie(sessionCookie, sid, int(opt.TTL.Seconds()), "/", "", opt.Secure, true)
		}
		c.Set(sessionIDKey, sid)

		if opt.Secret != "" {
			if raw, err := c.Cookie(viewerCookie); err == nil && raw != "" {
				if claim, ok := verifyViewerCookie(opt.Secret, raw); ok {
					c.Set(viewerNameKey, claim.Name)
					c.Set(viewerMailKey, claim.Email)
				}
			}
		}

		c.Next()
	}
}

// SessionID returns the session identifier resolved by Session, or "" when
// the middleware is not installed.
func SessionID(c *gin.Context) string {
	v, _ := c.Get(sessionIDKey)
	return asString(v)
}

// ViewerIdentity returns the verified (name, email) pair from the viewer
// cookie. Both are empty for anonymous viewers.
func ViewerIdentity(c *gin.Context) (name, email string) {
	n, _ := c.Get(viewerNameKey)
	e, _ := c.Get(viewerMailKey)
	return asString(n), asString(e)
}

// SetViewerCookie writes the signed identity cookie. Callers pass an
// already-normalized (name, email); the email must be non-empty.
func SetViewerCookie(c *gin.Context, opt SessionOptions, name, email string) {
	if opt.Secret == "" || email == "" {
		return
	}
	val := signViewerCookie(opt.Secret, viewerClaim{Name: name, Email: email})
	c.SetCookie(viewerCookie, val, int(opt.TTL.Seconds()), "/", "", opt.Secure, true)
}

// ClearViewerCookie expires the identity cookie.
func ClearViewerCookie(c *gin.Context, opt SessionOptions) {
	c.SetCookie(viewerCookie, "", -1, "/", "", opt.Secure, true)
}

// signViewerCookie serializes the claim as base64(json) + "." + base64(hmac).
func signViewerCookie(secret string, claim viewerClaim) string {
	payload, _ := json.Marshal(claim)
	body := base64.RawURLEncoding.EncodeToString(payload)
	return body + "." + signature(secret, body)
}

// verifyViewerCookie checks the signature in constant time and decodes the
// claim. Any structural or signature failure yields (zero, false).
func verifyViewerCookie(secret, raw string) (viewerClaim, bool) {
	var claim viewerClaim
	body, sig, ok := strings.Cut(raw, ".")
	if !ok || body == "" || sig == "" {
		return claim, false
	}
	if !hmac.Equal([]byte(sig), []byte(signature(secret, body))) {
		return claim, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return claim, false
	}
	if err := json.Unmarshal(payload, &claim); err != nil || claim.Email == "" {
		return claim, false
	}
	return claim, true
}

func signature(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
