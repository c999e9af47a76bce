package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) PingContext(ctx context.Context) error { return f(ctx) }

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("retailpos", "test", pingFunc(func(context.Context) error { return nil }))
		router := gin.New()
		router.GET("/health", h.Health)

		w := performRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"healthy"`)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler("retailpos", "test", pingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }))
		router := gin.New()
		router.GET("/health", h.Health)

		w := performRequest(router, http.MethodGet, "/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"database":"unreachable"`)
		assert.NotContains(t, w.Body.String(), "refused")
	})
}

func TestSystemHandler_Info(t *testing.T) {
	h := NewSystemHandler("retailpos", "1.2.3", pingFunc(func(context.Context) error { return nil }))
	router := gin.New()
	router.GET("/info", h.Info)

	w := performRequest(router, http.MethodGet, "/info", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"version":"1.2.3"`)
}
