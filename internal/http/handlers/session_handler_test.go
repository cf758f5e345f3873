package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shipment-backend/internal/http/middleware"
)

func TestIdentify_NormalizesAndSetsCookie(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/session", `{"name":"  maria silva ","email":" Maria@Example.COM "}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp ViewerResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if resp.Name != "Maria Silva" || resp.Email != "maria@example.com" {
		t.Fatalf("identity not normalized: %+v", resp)
	}

	found := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "viewer" && ck.Value != "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("viewer cookie missing")
	}
}

func TestIdentify_Validation(t *testing.T) {
	r, _ := newTestRouter(t)

	for _, body := range []string{
		`{}`,
		`{"email":"   "}`,
		`{"email":"not-an-address"}`,
		`not json`,
	} {
		w := doJSON(r, http.MethodPost, "/session", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d", body, w.Code)
		}
		var resp ErrorResponse
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Code != ErrCodeBadRequest {
			t.Fatalf("body %q: code = %q", body, resp.Code)
		}
	}
}

func TestIdentify_MissingSecretIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewSessionHandlers(middleware.SessionOptions{TTL: time.Hour})
	r.POST("/session", h.Identify)

	// Without a signing secret the identity could never round-trip; a 200
	// here would claim an identity that was never stored.
	w := doJSON(r, http.MethodPost, "/session", `{"email":"maria@example.com"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var resp ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if resp.Code != ErrCodeInternal {
		t.Fatalf("code = %q", resp.Code)
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "viewer" {
			t.Fatalf("no viewer cookie may be set without a secret")
		}
	}
}

func TestCurrent_AnonymousAndIdentified(t *testing.T) {
	r, _ := newTestRouter(t)

	// Anonymous by default.
	w := doJSON(r, http.MethodGet, "/session", "")
	var resp ViewerResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusOK || !resp.Anonymous {
		t.Fatalf("expected anonymous viewer: %d %+v", w.Code, resp)
	}

	// With the signed cookie the identity is echoed back.
	ck := identify(t, r, "Maria", "maria@example.com")
	w2 := doJSON(r, http.MethodGet, "/session", "", ck)
	var resp2 ViewerResponse
	_ = json.Unmarshal(w2.Body.Bytes(), &resp2)
	if resp2.Anonymous || resp2.Email != "maria@example.com" {
		t.Fatalf("expected identified viewer: %+v", resp2)
	}
}

func TestForget_ExpiresCookie(t *testing.T) {
	r, _ := newTestRouter(t)
	ck := identify(t, r, "Maria", "maria@example.com")

	w := doJSON(r, http.MethodDelete, "/session", "", ck)
	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	cleared := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "viewer" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected expired viewer cookie")
	}
}
