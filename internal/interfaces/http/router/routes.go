package router

import (
	"github.com/gin-gonic/gin"
	"github.com/retailpos/backend/internal/interfaces/http/handler"
)

// Handlers are the HTTP handlers mounted by the API
type Handlers struct {
	Auth       *handler.AuthHandler
	Category   *handler.CategoryHandler
	Product    *handler.ProductHandler
	Sale       *handler.SaleHandler
	Return     *handler.ReturnHandler
	Report     *handler.ReportHandler
	Settings   *handler.SettingsHandler
	Vendor     *handler.VendorHandler
	Purchase   *handler.PurchaseHandler
	User       *handler.UserHandler
	Storefront *handler.StorefrontHandler
	System     *handler.SystemHandler
}

// Guards are the access checks placed in front of routes.
// Session authenticates the caller, Admin runs after Session and checks the role.
// Login throttles credential attempts and may be nil.
type Guards struct {
	Session gin.HandlerFunc
	Admin   gin.HandlerFunc
	Login   gin.HandlerFunc
}

// APIGroups returns the route groups of the versioned API
func APIGroups(h Handlers, g Guards) []*DomainGroup {
	login := []gin.HandlerFunc{h.Auth.Login}
	if g.Login != nil {
		login = append([]gin.HandlerFunc{g.Login}, login...)
	}

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", login...).
		POST("/logout", g.Session, h.Auth.Logout).
		GET("/me", g.Session, h.Auth.Me)

	categories := NewDomainGroup("categories", "/categories").Use(g.Session).
		GET("", h.Category.List).
		POST("", g.Admin, h.Category.Create).
		PUT("/:id", g.Admin, h.Category.Update).
		DELETE("/:id", g.Admin, h.Category.Delete)

	products := NewDomainGroup("products", "/products").Use(g.Session).
		GET("", h.Product.List).
		GET("/:id", h.Product.Get)
	products.Group("product-admin", "").Use(g.Admin).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		PUT("/:id/categories", h.Product.SetCategories).
		POST("/:id/images", h.Product.AddImage).
		DELETE("/:id/images/:image_id", h.Product.DeleteImage)

	sales := NewDomainGroup("sales", "/sales").Use(g.Session).
		POST("", h.Sale.Create).
		GET("", h.Sale.List).
		GET("/recent", h.Sale.Recent).
		GET("/:id", h.Sale.Get).
		GET("/:id/returns", h.Return.ForSale)

	returns := NewDomainGroup("returns", "/returns").Use(g.Session).
		POST("", h.Return.Create).
		GET("", h.Return.List).
		GET("/receipts/:id", h.Return.Receipt)

	reports := NewDomainGroup("reports", "/reports").Use(g.Session).
		GET("", h.Report.SalesReport)

	settings := NewDomainGroup("settings", "/settings").Use(g.Session).
		GET("", h.Settings.Get).
		PUT("", g.Admin, h.Settings.Update).
		POST("/logo", g.Admin, h.Settings.UploadLogo)

	shopContent := NewDomainGroup("shop-content", "/shop-content").Use(g.Session).
		GET("", h.Settings.GetShopContent).
		PUT("", g.Admin, h.Settings.UpdateShopContent)

	vendors := NewDomainGroup("vendors", "/vendors").Use(g.Session, g.Admin).
		GET("", h.Vendor.List).
		POST("", h.Vendor.Create).
		GET("/:id", h.Vendor.Get).
		PUT("/:id", h.Vendor.Update).
		DELETE("/:id", h.Vendor.Delete)

	purchases := NewDomainGroup("purchases", "/purchases").Use(g.Session, g.Admin).
		GET("", h.Purchase.List).
		POST("", h.Purchase.Create).
		GET("/:id", h.Purchase.Get)

	users := NewDomainGroup("users", "/users").Use(g.Session, g.Admin).
		GET("", h.User.List).
		POST("", h.User.Create)

	shop := NewDomainGroup("shop", "/shop").
		GET("/catalog", h.Storefront.Catalog).
		GET("/products/:slug", h.Storefront.Product).
		GET("/categories", h.Storefront.Categories).
		GET("/content", h.Storefront.Content).
		POST("/cart/quote", h.Storefront.Quote).
		POST("/checkout", h.Storefront.Checkout)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.Info)

	return []*DomainGroup{
		authGroup, categories, products, sales, returns, reports,
		settings, shopContent, vendors, purchases, users, shop, system,
	}
}

// Setup mounts the API groups, the health probe and, when uploadsDir is set,
// the directory of locally stored uploads.
func Setup(engine *gin.Engine, h Handlers, g Guards, uploadsPath, uploadsDir string) *Router {
	engine.GET("/health", h.System.Health)
	if uploadsDir != "" {
		engine.Static(uploadsPath, uploadsDir)
	}

	r := NewRouter(engine)
	for _, group := range APIGroups(h, g) {
		r.Register(group)
	}
	r.Setup()
	return r
}
