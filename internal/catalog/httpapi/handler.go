package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/danipaBernales/modern-ecommerce/internal/catalog/app"
	"github.com/danipaBernales/modern-ecommerce/internal/catalog/domain"
)

type Handler struct {
	engine *app.Engine
}

func NewHandler(engine *app.Engine) *Handler {
	return &Handler{engine: engine}
}

func (h *Handler) Register(r gin.IRouter) {
	r.GET("/products", h.listProducts)
	r.GET("/categories", h.listCategories)
	r.GET("/categories/groups", h.categoryGroups)
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// listProducts handles GET /products. Malformed numeric params are
// treated as unset so the catalog stays queryable on bad input.
func (h *Handler) listProducts(c *gin.Context) {
	f := domain.Filter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Sort:     domain.ParseSort(c.Query("sort")),
	}
	if v, err := decimal.NewFromString(c.Query("min_price")); err == nil {
		f.MinPrice = v
	}
	if v, err := decimal.NewFromString(c.Query("max_price")); err == nil {
		f.MaxPrice = v
	}

	res, err := h.engine.Query(c.Request.Context(), f)
	if errors.Is(err, app.ErrRemoteQuery) {
		// Stale-but-valid: keep showing the last good result when we
		// have one, flagging it so the client can surface a notice.
		if prev, ok := h.engine.Current(); ok {
			c.JSON(http.StatusOK, resultPayload(prev, true))
			return
		}
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:   "REMOTE_QUERY_FAILED",
			Message: "catalog is unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, resultPayload(res, false))
}

func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.engine.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:   "REMOTE_QUERY_FAILED",
			Message: "catalog is unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": cats})
}

func (h *Handler) categoryGroups(c *gin.Context) {
	res, err := h.engine.Query(c.Request.Context(), domain.Filter{})
	if err != nil {
		c.JSON(http.StatusBadGateway, errorResponse{
			Error:   "REMOTE_QUERY_FAILED",
			Message: "catalog is unavailable",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": h.engine.GroupByCategory(res.Products)})
}

type productPayload struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	CreatedAt   string          `json:"created_at"`
}

func resultPayload(res domain.Result, stale bool) gin.H {
	products := make([]productPayload, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, productPayload{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price,
			Stock:       p.Stock,
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		})
	}
	return gin.H{
		"products":   products,
		"categories": res.Categories,
		"max_price":  res.MaxPrice,
		"stale":      stale,
	}
}
