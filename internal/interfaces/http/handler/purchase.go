package handler

import (
	"github.com/gin-gonic/gin"
	purchasingapp "github.com/retailpos/backend/internal/application/purchasing"
)

// PurchaseHandler handles stock purchases from vendors
type PurchaseHandler struct {
	BaseHandler
	purchaseService *purchasingapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *purchasingapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Create godoc
// @Summary      Record a purchase
// @Description  Adds the purchased quantities to stock and updates each product's cost price
// @Tags         purchases
// @Security     BearerAuth
// @Router       /purchases [post]
func (h *PurchaseHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req purchasingapp.CreatePurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	purchase, err := h.purchaseService.Create(c.Request.Context(), &userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, purchase)
}

// List godoc
// @Summary      List purchases
// @Param        vendor_id query string false "Only purchases from this vendor"
// @Tags         purchases
// @Security     BearerAuth
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter purchasingapp.PurchaseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	list, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, pageSize)
}

// Get godoc
// @Summary      Purchase with items
// @Tags         purchases
// @Security     BearerAuth
// @Router       /purchases/{id} [get]
func (h *PurchaseHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	purchase, err := h.purchaseService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, purchase)
}
