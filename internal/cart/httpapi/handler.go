package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/danipaBernales/modern-ecommerce/internal/cart/app"
	"github.com/danipaBernales/modern-ecommerce/internal/cart/domain"
	catalog "github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

type Handler struct {
	store *app.Store
}

func NewHandler(store *app.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/cart", h.getCart)
	r.POST("/cart/items", h.addItem)
	r.PUT("/cart/items/:productID", h.setQuantity)
	r.DELETE("/cart/items/:productID", h.removeItem)
	r.DELETE("/cart", h.clear)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// addItemRequest carries the product reference plus the display
// snapshot the cart denormalizes at add time.
type addItemRequest struct {
	ID       string          `json:"id" binding:"required"`
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price"`
	ImageURL string          `json:"image_url"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, statePayload(h.store.State()))
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "INVALID_INPUT",
			Message: err.Error(),
		})
		return
	}

	h.store.Add(c.Request.Context(), catalog.Product{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: req.ImageURL,
	})
	c.JSON(http.StatusOK, statePayload(h.store.State()))
}

func (h *Handler) setQuantity(c *gin.Context) {
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{
			Error:   "INVALID_INPUT",
			Message: err.Error(),
		})
		return
	}

	h.store.SetQuantity(c.Request.Context(), c.Param("productID"), req.Quantity)
	c.JSON(http.StatusOK, statePayload(h.store.State()))
}

func (h *Handler) removeItem(c *gin.Context) {
	h.store.Remove(c.Request.Context(), c.Param("productID"))
	c.JSON(http.StatusOK, statePayload(h.store.State()))
}

func (h *Handler) clear(c *gin.Context) {
	h.store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, statePayload(h.store.State()))
}

func statePayload(s domain.State) gin.H {
	items := s.Items
	if items == nil {
		items = []domain.Item{}
	}
	return gin.H{
		"items":      items,
		"item_count": s.ItemCount(),
		"subtotal":   s.Subtotal(),
	}
}
