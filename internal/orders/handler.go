package orders

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aniverse/pkg/models"
)

// Publisher mirrors placed orders into the content source. Nil disables the
// mirror; the local store remains the system of record either way.
type Publisher interface {
	CreateOrderEntry(ctx context.Context, o models.Order) (string, error)
}

type Handler struct {
	Repo      *Repo
	Publisher Publisher
}

func NewHandler(repo *Repo, pub Publisher) *Handler {
	return &Handler{Repo: repo, Publisher: pub}
}

// RegisterRoutes mounts the public order endpoint on api and the
// administration endpoints on admin (expected to carry auth middleware).
func (h *Handler) RegisterRoutes(api, admin *gin.RouterGroup) {
	api.POST("/orders", h.create)
	admin.GET("/orders", h.list)
	admin.GET("/orders/:id", h.getByID)
	admin.PATCH("/orders/:id", h.updateStatus)
}

type createReq struct {
	Name  string             `json:"name"`
	Email string             `json:"email"`
	Items []models.OrderItem `json:"items"`
	Total float64            `json:"total"`
}

// NewOrderID generates a public order id like ORD-1756700000000-8F3KQ.
func NewOrderID() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:5]
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), suffix)
}

func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if !strings.Contains(req.Email, "@") || len(req.Email) > 255 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email"})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items required"})
		return
	}
	for _, it := range req.Items {
		if it.UID == "" || it.Quantity <= 0 || it.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item"})
			return
		}
	}
	if req.Total < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid total"})
		return
	}

	order := models.Order{
		ID:            NewOrderID(),
		CustomerName:  req.Name,
		CustomerEmail: req.Email,
		Items:         req.Items,
		Total:         req.Total,
		Status:        models.OrderStatusPending,
		CreatedAt:     time.Now().UTC(),
	}

	// Mirror into the content source first so the entry uid is stored with
	// the order. A mirror failure is logged and the order still goes through.
	if h.Publisher != nil {
		entryUID, err := h.Publisher.CreateOrderEntry(c.Request.Context(), order)
		if err != nil {
			log.Printf("[orders] mirror %s: %v", order.ID, err)
		} else {
			order.EntryUID = entryUID
		}
	}

	if err := h.Repo.Create(c.Request.Context(), order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create order failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":   true,
		"order_id":  order.ID,
		"entry_uid": order.EntryUID,
	})
}

func (h *Handler) list(c *gin.Context) {
	q := ListQuery{
		Status: c.Query("status"),
		Limit:  parseInt(c.Query("limit"), 20),
		Offset: parseInt(c.Query("offset"), 0),
	}

	items, err := h.Repo.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total":  len(items),
		"limit":  q.Limit,
		"offset": q.Offset,
		"items":  items,
	})
}

func (h *Handler) getByID(c *gin.Context) {
	o, err := h.Repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get failed"})
		return
	}
	if o == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, o)
}

type statusReq struct {
	Status string `json:"status"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	switch status {
	case models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusCancelled:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "status must be one of: pending, paid, shipped, cancelled",
		})
		return
	}

	ok, err := h.Repo.UpdateStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "status": status})
}

func parseInt(s string, def int) int {
	if strings.TrimSpace(s) == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
