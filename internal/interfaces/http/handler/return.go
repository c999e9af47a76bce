package handler

import (
	"github.com/gin-gonic/gin"
	returnsapp "github.com/retailpos/backend/internal/application/returns"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
)

// ReturnHandler handles returns against completed sales
type ReturnHandler struct {
	BaseHandler
	returnService *returnsapp.ReturnService
}

// NewReturnHandler creates a new ReturnHandler
func NewReturnHandler(returnService *returnsapp.ReturnService) *ReturnHandler {
	return &ReturnHandler{
		returnService: returnService,
	}
}

// Create godoc
// @Summary      Process a return
// @Description  Refunds the returned lines, restocks the products and issues a return receipt
// @Tags         returns
// @Security     BearerAuth
// @Router       /returns [post]
func (h *ReturnHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req returnsapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := h.returnService.CreateReturn(c.Request.Context(), &userID, middleware.GetJWTUsername(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, receipt)
}

// List godoc
// @Summary      List returned lines
// @Param        sale_id query string false "Only returns of this sale"
// @Tags         returns
// @Security     BearerAuth
// @Router       /returns [get]
func (h *ReturnHandler) List(c *gin.Context) {
	var filter returnsapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	list, total, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, pageSize)
}

// ForSale godoc
// @Summary      Returns of one sale
// @Tags         returns
// @Security     BearerAuth
// @Router       /sales/{id}/returns [get]
func (h *ReturnHandler) ForSale(c *gin.Context) {
	saleID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	list, err := h.returnService.ForSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Receipt godoc
// @Summary      Reprint a return receipt
// @Tags         returns
// @Security     BearerAuth
// @Router       /returns/receipts/{id} [get]
func (h *ReturnHandler) Receipt(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	receipt, err := h.returnService.GetReceipt(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}
