package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-shipment-backend/internal/blob"
	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/http/middleware"
	"github.com/tbourn/go-shipment-backend/internal/services"
)

// testSessionOpts keys the signed viewer cookie for handler tests.
var testSessionOpts = middleware.SessionOptions{Secret: "handler-test-secret", TTL: time.Hour}

// newTestRouter wires the real services onto a fresh engine with an
// in-memory database, mirroring the production route table.
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.Shipment{}, &domain.Item{}, &domain.Event{}, &domain.ViewFlag{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}

	store, err := blob.NewDiskStore(t.TempDir(), "/static/uploads")
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Session(testSessionOpts))

	sh := NewShipmentHandlers(services.NewShipmentService(db, store))
	ch := NewChecklistHandlers(services.NewChecklistService(db))
	se := NewSessionHandlers(testSessionOpts)

	r.POST("/session", se.Identify)
	r.GET("/session", se.Current)
	r.DELETE("/session", se.Forget)

	r.POST("/shipments", sh.CreateShipment)
	r.GET("/shipments", sh.ListShipments)
	r.GET("/shipments/:id", sh.GetShipment)
	r.GET("/shipments/:id/events", sh.ListShipmentEvents)
	r.POST("/shipments/:id/items", sh.AddItem)
	r.POST("/shipments/:id/items/:itemID/image", sh.AttachItemImage)
	r.DELETE("/shipments/:id/items/:itemID/image", sh.RemoveItemImage)

	r.GET("/open/:token", ch.OpenChecklist)
	r.POST("/open/:token/confirm-all", ch.ConfirmAll)
	r.POST("/open/:token/confirm", ch.ConfirmSelected)
	r.POST("/open/:token/unconfirm/:itemID", ch.Unconfirm)

	return r, db
}

// doJSON performs a request with an optional JSON body and extra cookies.
func doJSON(r *gin.Engine, method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// identify claims an identity through the real endpoint and returns the
// signed viewer cookie for reuse in later requests.
func identify(t *testing.T, r *gin.Engine, name, email string) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/session", fmt.Sprintf(`{"name":%q,"email":%q}`, name, email))
	if w.Code != http.StatusOK {
		t.Fatalf("identify: %d %s", w.Code, w.Body.String())
	}
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "viewer" {
			return ck
		}
	}
	t.Fatalf("viewer cookie not set")
	return nil
}
