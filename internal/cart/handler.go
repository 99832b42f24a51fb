package cart

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"aniverse/pkg/models"
)

type Handler struct {
	Repo *Repo
}

func NewHandler(repo *Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/carts", h.create)
	rg.GET("/carts/:id", h.get)
	rg.POST("/carts/:id/items", h.addItem)
	rg.PUT("/carts/:id/items/:uid", h.setQuantity)
	rg.DELETE("/carts/:id/items/:uid", h.removeItem)
	rg.DELETE("/carts/:id", h.clear)
}

func cartResponse(c *gin.Context, cart *models.Cart) {
	c.JSON(http.StatusOK, gin.H{
		"cart_id":    cart.ID,
		"items":      cart.Items,
		"total":      cart.Total(),
		"count":      cart.Count(),
		"updated_at": cart.UpdatedAt,
	})
}

func (h *Handler) create(c *gin.Context) {
	id := uuid.NewString()
	if err := h.Repo.Create(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create cart failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cart_id": id})
}

func (h *Handler) get(c *gin.Context) {
	cart, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get cart failed"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	cartResponse(c, cart)
}

// addItem merges by uid: an item already in the cart gets its quantity
// bumped, new items append at the end.
func (h *Handler) addItem(c *gin.Context) {
	var item models.CartItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	item.UID = strings.TrimSpace(item.UID)
	if item.UID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "uid required"})
		return
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}

	cart, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get cart failed"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	merged := false
	for i := range cart.Items {
		if cart.Items[i].UID == item.UID {
			cart.Items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}
	if !merged {
		cart.Items = append(cart.Items, item)
	}

	if ok, err := h.Repo.Save(c.Request.Context(), cart.ID, cart.Items); err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save cart failed"})
		return
	}
	cartResponse(c, cart)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

// setQuantity sets an item's quantity; zero or below removes the item.
func (h *Handler) setQuantity(c *gin.Context) {
	var req quantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	cart, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get cart failed"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	uid := c.Param("uid")
	found := false
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.UID == uid {
			found = true
			if req.Quantity <= 0 {
				continue
			}
			it.Quantity = req.Quantity
		}
		items = append(items, it)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "item not in cart"})
		return
	}
	cart.Items = items

	if ok, err := h.Repo.Save(c.Request.Context(), cart.ID, cart.Items); err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save cart failed"})
		return
	}
	cartResponse(c, cart)
}

func (h *Handler) removeItem(c *gin.Context) {
	cart, err := h.Repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "get cart failed"})
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	uid := c.Param("uid")
	items := cart.Items[:0]
	for _, it := range cart.Items {
		if it.UID != uid {
			items = append(items, it)
		}
	}
	cart.Items = items

	if ok, err := h.Repo.Save(c.Request.Context(), cart.ID, cart.Items); err != nil || !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save cart failed"})
		return
	}
	cartResponse(c, cart)
}

func (h *Handler) clear(c *gin.Context) {
	if err := h.Repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear cart failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
