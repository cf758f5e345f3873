package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shipment-backend/internal/blob"
	"github.com/tbourn/go-shipment-backend/internal/config"
	"github.com/tbourn/go-shipment-backend/internal/domain"
)

func newRouterUnderTest(t *testing.T) (*gin.Engine, *blob.DiskStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("pragma: %v", err)
	}
	if err := db.AutoMigrate(&domain.Shipment{}, &domain.Item{}, &domain.Event{}, &domain.ViewFlag{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	store, err := blob.NewDiskStore(t.TempDir(), "/static/uploads")
	if err != nil {
		t.Fatalf("disk store: %v", err)
	}

	cfg := config.Config{
		APIBasePath:    "/api/v1",
		MaxUploadBytes: 8 << 20,
		ViewFlagTTL:    time.Hour,
		RateRPS:        1000,
		RateBurst:      1000,
		Session: config.SessionConfig{
			Secret: "router-test-secret",
			TTL:    time.Hour,
		},
		OTEL: config.OTELConfig{ServiceName: "router-test"},
	}

	r := gin.New()
	RegisterRoutes(r, db, store, cfg)
	return r, store
}

func get(r *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_HealthAndMetrics(t *testing.T) {
	r, _ := newRouterUnderTest(t)

	w := get(r, "/health")
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok"`) {
		t.Fatalf("health body: %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected request id header")
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("expected wildcard ACAO with no configured origins")
	}

	if w2 := get(r, "/metrics"); w2.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", w2.Code)
	}
}

func TestRegisterRoutes_Fallbacks(t *testing.T) {
	r, _ := newRouterUnderTest(t)

	w := get(r, "/nope")
	if w.Code != http.StatusNotFound {
		t.Fatalf("no-route status = %d", w.Code)
	}
	var body struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body.Code != "not_found" {
		t.Fatalf("no-route code = %q", body.Code)
	}

	req := httptest.NewRequest(http.MethodDelete, "/health", nil)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)
	if w2.Code != http.StatusMethodNotAllowed {
		t.Fatalf("no-method status = %d", w2.Code)
	}
	_ = json.Unmarshal(w2.Body.Bytes(), &body)
	if body.Code != "method_not_allowed" {
		t.Fatalf("no-method code = %q", body.Code)
	}
}

func TestRegisterRoutes_StaticUploads(t *testing.T) {
	r, store := newRouterUnderTest(t)

	urlPath, err := store.Save(context.Background(), "pic.png", strings.NewReader("png-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	w := get(r, urlPath)
	if w.Code != http.StatusOK {
		t.Fatalf("static status = %d for %s", w.Code, urlPath)
	}
	if w.Body.String() != "png-bytes" {
		t.Fatalf("static body = %q", w.Body.String())
	}
}

// End-to-end smoke through the mounted API base path: create a shipment on the
// sender side, open it on the recipient side by token.
func TestRegisterRoutes_APISmoke(t *testing.T) {
	r, _ := newRouterUnderTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/shipments",
		strings.NewReader(`{"title":"Smoke","labels":["a","b"]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || len(created.Token) != 32 {
		t.Fatalf("bad create body (%v): %s", err, w.Body.String())
	}

	w2 := get(r, "/api/v1/open/"+created.Token)
	if w2.Code != http.StatusOK {
		t.Fatalf("open status = %d: %s", w2.Code, w2.Body.String())
	}
	var opened struct {
		Status string            `json:"status"`
		Items  []json.RawMessage `json:"items"`
	}
	_ = json.Unmarshal(w2.Body.Bytes(), &opened)
	if opened.Status != domain.StatusViewed || len(opened.Items) != 2 {
		t.Fatalf("unexpected open payload: %s", w2.Body.String())
	}
}

func TestGroupWithPrefix_RootAndNamed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	groupWithPrefix(r, "").GET("/a", func(c *gin.Context) { c.Status(http.StatusOK) })
	groupWithPrefix(r, "/base").GET("/b", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := get(r, "/a"); w.Code != http.StatusOK {
		t.Fatalf("root group status = %d", w.Code)
	}
	if w := get(r, "/base/b"); w.Code != http.StatusOK {
		t.Fatalf("prefixed group status = %d", w.Code)
	}
}

func TestLimitBody_CapsRequestSize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(limitBody(8))
	r.POST("/echo", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.String(http.StatusOK, "%d", len(body))
	})

	small := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("tiny"))
	ws := httptest.NewRecorder()
	r.ServeHTTP(ws, small)
	if ws.Code != http.StatusOK || ws.Body.String() != "4" {
		t.Fatalf("small body: %d %q", ws.Code, ws.Body.String())
	}

	big := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 64)))
	wb := httptest.NewRecorder()
	r.ServeHTTP(wb, big)
	if wb.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized body status = %d", wb.Code)
	}
}
