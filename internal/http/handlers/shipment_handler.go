// Shipment HTTP handlers (sender-side API).
//
// This file exposes REST endpoints for managing shipments and their
// checklist items:
//   - POST   /shipments                          (create, JSON or multipart)
//   - GET    /shipments                          (list, paginated, ETag support)
//   - GET    /shipments/{id}                     (detail with items and audit trail)
//   - GET    /shipments/{id}/events              (audit trail, paginated, ETag support)
//   - POST   /shipments/{id}/items               (append an item)
//   - POST   /shipments/{id}/items/{itemID}/image   (attach image)
//   - DELETE /shipments/{id}/items/{itemID}/image   (remove image)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-shipment-backend/internal/domain"
	"github.com/tbourn/go-shipment-backend/internal/repo"
	"github.com/tbourn/go-shipment-backend/internal/services"
	"github.com/tbourn/go-shipment-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ShipmentService defines shipment lifecycle operations consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ShipmentService interface {
	// Create persists a shipment with its initial items and assets.
	Create(ctx context.Context, in services.CreateShipmentInput) (*domain.Shipment, error)
	// AddItem appends one labelled item to an existing shipment.
	AddItem(ctx context.Context, shipmentID uint, label string) (*domain.Item, error)
	// Get returns the shipment with its items and audit trail.
	Get(ctx context.Context, shipmentID uint) (*services.ShipmentDetail, error)
	// ListPage returns a page of shipments and the total count.
	ListPage(ctx context.Context, page, pageSize int) ([]domain.Shipment, int64, error)
	// Events returns a page of the shipment's audit trail and the total count.
	Events(ctx context.Context, shipmentID uint, page, pageSize int) ([]domain.Event, int64, error)
	// AttachItemImage stores an uploaded image on an item.
	AttachItemImage(ctx context.Context, shipmentID, itemID uint, up services.Upload) (string, error)
	// RemoveItemImage clears an item's image.
	RemoveItemImage(ctx context.Context, shipmentID, itemID uint) error
}

//
// Handler wiring
//

// ShipmentHandlers groups the sender-side HTTP endpoints. It depends on the
// abstract service interface to keep transport concerns separate from
// business logic.
type ShipmentHandlers struct {
	svc ShipmentService
}

// NewShipmentHandlers constructs a ShipmentHandlers bound to the service.
func NewShipmentHandlers(svc ShipmentService) *ShipmentHandlers {
	return &ShipmentHandlers{svc: svc}
}

//
// DTOs
//

// CreateShipmentRequest is the JSON payload for creating a shipment.
type CreateShipmentRequest struct {
	// Title optionally names the checklist; a default is used when empty.
	Title string `json:"title" example:"March restock"`
	// Number is an optional external reference (order number, tracking code).
	Number string `json:"number" example:"PO-2024-0117"`
	// ResponsibleEmail restricts confirmations to one identity when set.
	ResponsibleEmail string `json:"responsible_email" example:"maria@example.com"`
	// Labels are the initial checklist item labels.
	Labels []string `json:"labels" example:"Pallet 1,Pallet 2"`
}

// AddItemRequest is the JSON payload for appending a checklist item.
type AddItemRequest struct {
	// Label is the item text (required, non-empty after trimming).
	Label string `json:"label" binding:"required" example:"Pallet 3"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ShipmentSummary is a shipment with its derived status attached.
type ShipmentSummary struct {
	domain.Shipment
	Status string `json:"status" example:"VIEWED"`
}

// ShipmentDetailResponse is the full sender-side view of one shipment.
type ShipmentDetailResponse struct {
	ShipmentSummary
	Items  []domain.Item  `json:"items"`
	Events []domain.Event `json:"events"`
}

// ListShipmentsResponse wraps a page of shipments and pagination information.
type ListShipmentsResponse struct {
	Shipments  []ShipmentSummary `json:"shipments"`
	Pagination Pagination        `json:"pagination"`
}

// ListEventsResponse wraps a page of audit events and pagination information.
type ListEventsResponse struct {
	Events     []domain.Event `json:"events"`
	Pagination Pagination     `json:"pagination"`
}

// ItemImageResponse reports the stored retrieval path of an attached image.
type ItemImageResponse struct {
	ImagePath string `json:"image_path" example:"/static/uploads/3f2a….png"`
}

//
// Helpers
//

func summarize(s domain.Shipment) ShipmentSummary {
	return ShipmentSummary{Shipment: s, Status: s.Status()}
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// pathUint parses a numeric path parameter; ok=false means it was not a
// plain non-negative decimal.
func pathUint(c *gin.Context, name string) (uint, bool) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

func buildPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Handlers
//

// CreateShipment godoc
// @ID          createShipment
// @Summary     Create a shipment checklist
// @Description Creates a shipment with its initial items and returns it, including the public token. Accepts JSON or multipart/form-data (fields title, number, responsible_email, repeated labels, file parts named assets).
// @Tags        Shipments
// @Accept      json
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       body  body  handlers.CreateShipmentRequest  true  "Create shipment payload"
//
// @Success     201  {object}  handlers.ShipmentSummary
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /shipments [post]
func (h *ShipmentHandlers) CreateShipment(c *gin.Context) {
	in, err := h.bindCreate(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		return
	}
	defer closeAssets(in.Assets)

	ship, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedImageType) {
			fail(c, http.StatusBadRequest, ErrCodeUnsupportedImage, err.Error())
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		return
	}
	ok(c, http.StatusCreated, summarize(*ship))
}

// bindCreate accepts either a JSON body or a multipart form (when the
// checklist ships with image assets) and maps both onto the service input.
func (h *ShipmentHandlers) bindCreate(c *gin.Context) (services.CreateShipmentInput, error) {
	var in services.CreateShipmentInput

	ct := c.ContentType()
	if !strings.HasPrefix(ct, "multipart/") {
		var req CreateShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return in, errors.New("invalid JSON body")
		}
		in.Title = req.Title
		in.Number = req.Number
		in.ResponsibleEmail = req.ResponsibleEmail
		in.Labels = req.Labels
		return in, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return in, errors.New("invalid multipart form")
	}
	first := func(k string) string {
		if vs := form.Value[k]; len(vs) > 0 {
			return vs[0]
		}
		return ""
	}
	in.Title = first("title")
	in.Number = first("number")
	in.ResponsibleEmail = first("responsible_email")
	in.Labels = form.Value["labels"]

	for _, fh := range form.File["assets"] {
		f, err := fh.Open()
		if err != nil {
			closeAssets(in.Assets)
			return in, errors.New("unreadable asset upload")
		}
		// Closed via closeAssets once the create call has consumed them.
		in.Assets = append(in.Assets, services.Upload{Name: fh.Filename, Data: f})
	}
	return in, nil
}

// closeAssets releases the readers opened by bindCreate. Uploads whose Data
// is not a Closer (e.g. in-memory buffers) are left alone.
func closeAssets(assets []services.Upload) {
	for _, a := range assets {
		if cl, ok := a.Data.(io.Closer); ok {
			_ = cl.Close()
		}
	}
}

// ListShipments godoc
// @ID          listShipments
// @Summary     List shipments (paginated)
// @Description Returns a page of shipments, newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Shipments
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListShipmentsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments [get]
func (h *ShipmentHandlers) ListShipments(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, okc := h.svc.(*services.ShipmentService); okc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.ShipmentsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"shipments:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.svc.ListPage(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	out := make([]ShipmentSummary, 0, len(items))
	for _, s := range items {
		out = append(out, summarize(s))
	}
	ok(c, http.StatusOK, ListShipmentsResponse{
		Shipments:  out,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// GetShipment godoc
// @ID          getShipment
// @Summary     Shipment detail
// @Description Returns the shipment with its items (creation order) and audit trail (newest first).
// @Tags        Shipments
// @Produce     json
//
// @Param       id  path  int  true  "Shipment ID"  example(7)
//
// @Success     200  {object} handlers.ShipmentDetailResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Shipment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id} [get]
func (h *ShipmentHandlers) GetShipment(c *gin.Context) {
	id, okID := pathUint(c, "id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "shipment id must be numeric")
		return
	}

	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrShipmentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "shipment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, ShipmentDetailResponse{
		ShipmentSummary: summarize(*detail.Shipment),
		Items:           detail.Items,
		Events:          detail.Events,
	})
}

// ListShipmentEvents godoc
// @ID          listShipmentEvents
// @Summary     Shipment audit trail (paginated)
// @Description Returns a page of the shipment's audit events, newest first. Supports weak ETag via If-None-Match.
// @Tags        Shipments
// @Produce     json
//
// @Param       id             path    int     true  "Shipment ID"                 example(7)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListEventsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Shipment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id}/events [get]
func (h *ShipmentHandlers) ListShipmentEvents(c *gin.Context) {
	ctx := c.Request.Context()
	id, okID := pathUint(c, "id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "shipment id must be numeric")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort). Events are append-only, so (count, max
	// occurred_at) fully identifies the trail.
	var db *gorm.DB
	if svc, okc := h.svc.(*services.ShipmentService); okc {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.EventsStats(ctx, db, id)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"events:%d:%d:%d"`, id, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	events, total, err := h.svc.Events(ctx, id, page, pageSize)
	if err != nil {
		if errors.Is(err, services.ErrShipmentNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "shipment not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: buildPagination(page, pageSize, total),
	})
}

// AddItem godoc
// @ID          addShipmentItem
// @Summary     Append a checklist item
// @Description Adds one item to the shipment. The shipment's RECEIVED status is not retroactively cleared; the new item simply starts unconfirmed.
// @Tags        Shipments
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                       true  "Shipment ID"  example(7)
// @Param       body  body  handlers.AddItemRequest   true  "Item payload"
//
// @Success     201  {object} domain.Item
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Shipment not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id}/items [post]
func (h *ShipmentHandlers) AddItem(c *gin.Context) {
	id, okID := pathUint(c, "id")
	if !okID {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "shipment id must be numeric")
		return
	}

	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	it, err := h.svc.AddItem(c.Request.Context(), id, req.Label)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyLabel):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "label must not be empty")
		case errors.Is(err, services.ErrShipmentNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "shipment not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, it)
}

// AttachItemImage godoc
// @ID          attachItemImage
// @Summary     Attach an image to an item
// @Description Stores the uploaded file (multipart field "image") and records its retrieval path on the item. Accepted extensions: png, jpg, jpeg, webp, gif.
// @Tags        Shipments
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       id      path      int   true  "Shipment ID"  example(7)
// @Param       itemID  path      int   true  "Item ID"      example(19)
// @Param       image   formData  file  true  "Image file"
//
// @Success     200  {object} handlers.ItemImageResponse
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Item not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id}/items/{itemID}/image [post]
func (h *ShipmentHandlers) AttachItemImage(c *gin.Context) {
	id, okID := pathUint(c, "id")
	itemID, okItem := pathUint(c, "itemID")
	if !okID || !okItem {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids must be numeric")
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, `multipart field "image" required`)
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, "unreadable upload")
		return
	}
	defer f.Close()

	path, err := h.svc.AttachItemImage(c.Request.Context(), id, itemID, services.Upload{
		Name: fh.Filename,
		Data: f,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedImageType):
			fail(c, http.StatusBadRequest, ErrCodeUnsupportedImage, "accepted extensions: png, jpg, jpeg, webp, gif")
		case errors.Is(err, services.ErrItemNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, ItemImageResponse{ImagePath: path})
}

// RemoveItemImage godoc
// @ID          removeItemImage
// @Summary     Remove an item's image
// @Description Clears the item's image reference and deletes the stored file best-effort.
// @Tags        Shipments
//
// @Param       id      path  int  true  "Shipment ID"  example(7)
// @Param       itemID  path  int  true  "Item ID"      example(19)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Item not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /shipments/{id}/items/{itemID}/image [delete]
func (h *ShipmentHandlers) RemoveItemImage(c *gin.Context) {
	id, okID := pathUint(c, "id")
	itemID, okItem := pathUint(c, "itemID")
	if !okID || !okItem {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "ids must be numeric")
		return
	}

	if err := h.svc.RemoveItemImage(c.Request.Context(), id, itemID); err != nil {
		if errors.Is(err, services.ErrItemNotFound) {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "item not found")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}
