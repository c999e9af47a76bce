package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	settingsapp "github.com/retailpos/backend/internal/application/settings"
	"github.com/retailpos/backend/internal/interfaces/http/dto"
)

// LogoFormField is the multipart field carrying the logo file
const LogoFormField = "logo"

// SettingsHandler handles business settings, the logo and storefront content
type SettingsHandler struct {
	BaseHandler
	settingsService *settingsapp.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService *settingsapp.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get godoc
// @Summary      Business settings
// @Tags         settings
// @Security     BearerAuth
// @Router       /settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetSettings(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// Update godoc
// @Summary      Update business settings
// @Tags         settings
// @Security     BearerAuth
// @Router       /settings [put]
func (h *SettingsHandler) Update(c *gin.Context) {
	var req settingsapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UploadLogo godoc
// @Summary      Upload the shop logo
// @Description  Multipart field "logo". PNG, JPEG, GIF or WebP. Replaces the previous logo.
// @Tags         settings
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Router       /settings/logo [post]
func (h *SettingsHandler) UploadLogo(c *gin.Context) {
	maxBytes := h.settingsService.MaxLogoBytes()

	file, header, err := c.Request.FormFile(LogoFormField)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body too large")
			return
		}
		h.BadRequest(c, "Missing logo file")
		return
	}
	defer file.Close()

	if header.Size > maxBytes {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidInput, fmt.Sprintf("Logo cannot exceed %d bytes", maxBytes))
		return
	}

	// one extra byte lets the service see an oversized upload
	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		h.BadRequest(c, "Failed to read logo file")
		return
	}

	logo, err := h.settingsService.UploadLogo(c.Request.Context(), data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, logo)
}

// GetShopContent godoc
// @Summary      Storefront content
// @Tags         settings
// @Security     BearerAuth
// @Router       /shop-content [get]
func (h *SettingsHandler) GetShopContent(c *gin.Context) {
	content, err := h.settingsService.GetShopContent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, content)
}

// UpdateShopContent godoc
// @Summary      Update storefront content
// @Tags         settings
// @Security     BearerAuth
// @Router       /shop-content [put]
func (h *SettingsHandler) UpdateShopContent(c *gin.Context) {
	var req settingsapp.UpdateShopContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	content, err := h.settingsService.UpdateShopContent(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, content)
}
