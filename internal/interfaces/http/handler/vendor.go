package handler

import (
	"github.com/gin-gonic/gin"
	purchasingapp "github.com/retailpos/backend/internal/application/purchasing"
)

// VendorHandler handles vendor CRUD
type VendorHandler struct {
	BaseHandler
	vendorService *purchasingapp.VendorService
}

// NewVendorHandler creates a new VendorHandler
func NewVendorHandler(vendorService *purchasingapp.VendorService) *VendorHandler {
	return &VendorHandler{
		vendorService: vendorService,
	}
}

// List godoc
// @Summary      List vendors
// @Tags         vendors
// @Security     BearerAuth
// @Router       /vendors [get]
func (h *VendorHandler) List(c *gin.Context) {
	var filter purchasingapp.VendorListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	vendors, total, err := h.vendorService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOf(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, vendors, total, page, pageSize)
}

// Get godoc
// @Summary      Get a vendor
// @Tags         vendors
// @Security     BearerAuth
// @Router       /vendors/{id} [get]
func (h *VendorHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	vendor, err := h.vendorService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// Create godoc
// @Summary      Create a vendor
// @Tags         vendors
// @Security     BearerAuth
// @Router       /vendors [post]
func (h *VendorHandler) Create(c *gin.Context) {
	var req purchasingapp.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vendor, err := h.vendorService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, vendor)
}

// Update godoc
// @Summary      Update a vendor
// @Tags         vendors
// @Security     BearerAuth
// @Router       /vendors/{id} [put]
func (h *VendorHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req purchasingapp.VendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	vendor, err := h.vendorService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, vendor)
}

// Delete godoc
// @Summary      Delete a vendor
// @Description  Vendors with purchases cannot be deleted
// @Tags         vendors
// @Security     BearerAuth
// @Router       /vendors/{id} [delete]
func (h *VendorHandler) Delete(c *gin.Context) {
	id, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.vendorService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
