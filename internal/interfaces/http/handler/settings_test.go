package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	settingsapp "github.com/retailpos/backend/internal/application/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newLogoRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, "logo.bin")
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/settings/logo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newSettingsRouter(repo *MockSettingsRepository, store *MockFileStore, maxBytes int64) *gin.Engine {
	h := NewSettingsHandler(settingsapp.NewSettingsService(repo, new(MockProductRepository), store, maxBytes, nil))
	router := gin.New()
	router.POST("/settings/logo", h.UploadLogo)
	return router
}

func TestSettingsHandler_UploadLogo(t *testing.T) {
	t.Run("stores png under a fixed name", func(t *testing.T) {
		repo := new(MockSettingsRepository)
		store := new(MockFileStore)
		store.On("Put", mock.Anything, "logo.png", pngHeader, "image/png").Return("/uploads/logo.png", nil)
		for _, stale := range []string{"logo.gif", "logo.jpg", "logo.webp"} {
			store.On("Delete", mock.Anything, stale).Return(nil).Once()
		}
		repo.On("UpdateLogoURL", mock.Anything, mock.MatchedBy(func(url string) bool {
			return strings.HasPrefix(url, "/uploads/logo.png?v=")
		})).Return(nil)

		w := httptest.NewRecorder()
		newSettingsRouter(repo, store, 1024).ServeHTTP(w, newLogoRequest(t, LogoFormField, pngHeader))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, w.Body.String(), "/uploads/logo.png?v=")
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("rejects non image content", func(t *testing.T) {
		store := new(MockFileStore)

		w := httptest.NewRecorder()
		newSettingsRouter(new(MockSettingsRepository), store, 1024).
			ServeHTTP(w, newLogoRequest(t, LogoFormField, []byte("<html>not an image</html>")))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "ERR_INVALID_INPUT")
		store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		data := append(append([]byte{}, pngHeader...), make([]byte, 64)...)

		w := httptest.NewRecorder()
		newSettingsRouter(new(MockSettingsRepository), new(MockFileStore), 32).
			ServeHTTP(w, newLogoRequest(t, LogoFormField, data))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "cannot exceed 32 bytes")
	})

	t.Run("missing field", func(t *testing.T) {
		w := httptest.NewRecorder()
		newSettingsRouter(new(MockSettingsRepository), new(MockFileStore), 1024).
			ServeHTTP(w, newLogoRequest(t, "file", pngHeader))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Missing logo file")
	})
}
