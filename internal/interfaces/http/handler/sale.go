package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/retailpos/backend/internal/application/sales"
)

// SaleHandler handles POS checkout and sale history
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// Create godoc
// @Summary      Record a POS sale
// @Description  Items, tax, discount and payment are validated and written in one transaction.
// @Description  Send an Idempotency-Key header to make retries safe.
// @Tags         sales
// @Param        Idempotency-Key header string false "Client generated key"
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req salesapp.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sale, err := h.saleService.CreateSale(c.Request.Context(), &userID, c.GetHeader(IdempotencyKeyHeader), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter salesapp.SaleListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	list, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, list, total, page, pageSize)
}

// Recent godoc
// @Summary      Latest sales
// @Param        limit query int false "Defaults to 10, capped at 50"
// @Tags         sales
// @Security     BearerAuth
// @Router       /sales/recent [get]
func (h *SaleHandler) Recent(c *gin.Context) {
	list, err := h.saleService.Recent(c.Request.Context(), queryInt(c, "limit", salesapp.DefaultRecentLimit))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Get godoc
// @Summary      Sale details
// @Tags         sales
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}
