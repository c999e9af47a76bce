package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/application/storefront"
)

// StorefrontHandler serves the public shop. No session is required.
type StorefrontHandler struct {
	BaseHandler
	shop *storefront.Service
}

// NewStorefrontHandler creates a new StorefrontHandler
func NewStorefrontHandler(shop *storefront.Service) *StorefrontHandler {
	return &StorefrontHandler{shop: shop}
}

// Catalog godoc
// @Summary      Published products
// @Tags         shop
// @Router       /shop/catalog [get]
func (h *StorefrontHandler) Catalog(c *gin.Context) {
	var filter storefront.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	cards, total, err := h.shop.Catalog(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, cards, total, page, pageSize)
}

// Product godoc
// @Summary      Product page
// @Tags         shop
// @Router       /shop/products/{slug} [get]
func (h *StorefrontHandler) Product(c *gin.Context) {
	product, err := h.shop.Product(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Categories godoc
// @Summary      Shop categories
// @Tags         shop
// @Router       /shop/categories [get]
func (h *StorefrontHandler) Categories(c *gin.Context) {
	categories, err := h.shop.Categories(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Content godoc
// @Summary      Home page content
// @Tags         shop
// @Router       /shop/content [get]
func (h *StorefrontHandler) Content(c *gin.Context) {
	content, err := h.shop.Content(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, content)
}

// Quote godoc
// @Summary      Price a cart
// @Description  Nothing is reserved or persisted
// @Tags         shop
// @Router       /shop/cart/quote [post]
func (h *StorefrontHandler) Quote(c *gin.Context) {
	var req storefront.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quote, err := h.shop.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// Checkout godoc
// @Summary      Place an online order
// @Param        Idempotency-Key header string false "Client generated key"
// @Tags         shop
// @Router       /shop/checkout [post]
func (h *StorefrontHandler) Checkout(c *gin.Context) {
	var req storefront.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.shop.Checkout(c.Request.Context(), c.GetHeader(IdempotencyKeyHeader), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}
