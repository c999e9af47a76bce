package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test").
		GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	NewRouter(engine).Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/test/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	ok := func(body string) gin.HandlerFunc {
		return func(c *gin.Context) { c.String(http.StatusOK, body) }
	}

	t.Run("registers each method", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items").
			GET("", ok("list")).
			POST("", ok("create")).
			PUT("/:id", ok("update")).
			DELETE("/:id", ok("delete"))
		g.RegisterRoutes(engine.Group("/api/v1"))

		assert.Equal(t, "list", serve(engine, http.MethodGet, "/api/v1/items").Body.String())
		assert.Equal(t, "create", serve(engine, http.MethodPost, "/api/v1/items").Body.String())
		assert.Equal(t, "update", serve(engine, http.MethodPut, "/api/v1/items/1").Body.String())
		assert.Equal(t, "delete", serve(engine, http.MethodDelete, "/api/v1/items/1").Body.String())
	})

	t.Run("middleware covers subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("items", "/items").Use(func(c *gin.Context) {
			c.Header("X-Group", "items")
			c.Next()
		})
		g.Group("admin", "/admin").GET("/stats", ok("stats"))
		g.RegisterRoutes(engine.Group(""))

		w := serve(engine, http.MethodGet, "/items/admin/stats")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "items", w.Header().Get("X-Group"))
	})

	t.Run("subgroup middleware does not leak to parent", func(t *testing.T) {
		engine := gin.New()
		deny := func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) }
		g := NewDomainGroup("items", "/items").GET("", ok("list"))
		g.Group("writes", "").Use(deny).POST("", ok("create"))
		g.RegisterRoutes(engine.Group(""))

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/items").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPost, "/items").Code)
	})

	t.Run("lists routes with prefixes", func(t *testing.T) {
		g := NewDomainGroup("items", "/items").GET("", ok(""))
		g.Group("images", "/:id/images").POST("", ok(""))

		assert.Equal(t, []Route{
			{Method: http.MethodGet, Path: "/items"},
			{Method: http.MethodPost, Path: "/items/:id/images"},
		}, g.Routes())
		assert.Equal(t, "items", g.Name())
		assert.Equal(t, "/items", g.Prefix())
	})
}

// testGuards authenticate from X-Test-Role so access rules can be checked
// without minting tokens.
func testGuards() Guards {
	return Guards{
		Session: func(c *gin.Context) {
			role := c.GetHeader("X-Test-Role")
			if role == "" {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.Set(middleware.JWTRoleKey, role)
			c.Next()
		},
		Admin: middleware.RequireRole("admin"),
		Login: func(c *gin.Context) { c.AbortWithStatus(http.StatusTooManyRequests) },
	}
}

func TestAPIGroups_RouteTable(t *testing.T) {
	var routes []Route
	for _, g := range APIGroups(Handlers{}, testGuards()) {
		routes = append(routes, g.Routes()...)
	}

	expected := []Route{
		{http.MethodPost, "/auth/login"},
		{http.MethodGet, "/auth/me"},
		{http.MethodPut, "/products/:id/categories"},
		{http.MethodDelete, "/products/:id/images/:image_id"},
		{http.MethodGet, "/sales/recent"},
		{http.MethodGet, "/sales/:id/returns"},
		{http.MethodGet, "/returns/receipts/:id"},
		{http.MethodGet, "/reports"},
		{http.MethodPost, "/settings/logo"},
		{http.MethodPut, "/shop-content"},
		{http.MethodDelete, "/vendors/:id"},
		{http.MethodGet, "/purchases/:id"},
		{http.MethodPost, "/users"},
		{http.MethodPost, "/shop/checkout"},
		{http.MethodGet, "/system/info"},
	}
	for _, want := range expected {
		assert.Contains(t, routes, want)
	}
}

func TestAPIGroups_AccessRules(t *testing.T) {
	// Handlers are never reached: every request below is stopped by a guard.
	engine := gin.New()
	r := NewRouter(engine)
	for _, g := range APIGroups(Handlers{}, testGuards()) {
		r.Register(g)
	}
	r.Setup()

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		status int
	}{
		{"sales need a session", http.MethodGet, "/api/v1/sales", "", http.StatusUnauthorized},
		{"receipts need a session", http.MethodGet, "/api/v1/returns/receipts/x", "", http.StatusUnauthorized},
		{"logout needs a session", http.MethodPost, "/api/v1/auth/logout", "", http.StatusUnauthorized},
		{"cashier cannot create products", http.MethodPost, "/api/v1/products", "cashier", http.StatusForbidden},
		{"cashier cannot edit categories", http.MethodPut, "/api/v1/categories/x", "cashier", http.StatusForbidden},
		{"cashier cannot upload a logo", http.MethodPost, "/api/v1/settings/logo", "cashier", http.StatusForbidden},
		{"cashier cannot update shop content", http.MethodPut, "/api/v1/shop-content", "cashier", http.StatusForbidden},
		{"cashier cannot list vendors", http.MethodGet, "/api/v1/vendors", "cashier", http.StatusForbidden},
		{"cashier cannot create purchases", http.MethodPost, "/api/v1/purchases", "cashier", http.StatusForbidden},
		{"cashier cannot list users", http.MethodGet, "/api/v1/users", "cashier", http.StatusForbidden},
		{"login is throttled before the handler", http.MethodPost, "/api/v1/auth/login", "", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var headers []string
			if tt.role != "" {
				headers = []string{"X-Test-Role", tt.role}
			}
			w := serve(engine, tt.method, tt.path, headers...)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestAPIGroups_StorefrontIsPublic(t *testing.T) {
	for _, g := range APIGroups(Handlers{}, testGuards()) {
		if g.Name() != "shop" {
			continue
		}
		require.Empty(t, g.middleware)
		for _, rt := range g.routes {
			assert.Len(t, rt.handlers, 1, rt.path)
		}
		return
	}
	t.Fatal("shop group not registered")
}
