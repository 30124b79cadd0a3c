package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/store"
)

type Deps struct {
	Catalog      *CatalogHTTP
	Cart         *CartHTTP
	Wishlist     *WishlistHTTP
	Auth         *AuthHTTP
	Checkout     *CheckoutHTTP
	Orders       *OrderHTTP
	Announcement *AnnouncementHTTP
	AuthStore    *store.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	e.GET("/categories", d.Catalog.GetCategories)
	e.GET("/categories/:slug/products", d.Catalog.GetCategoryProducts)
	e.GET("/products", d.Catalog.GetProducts)
	e.GET("/products/featured", d.Catalog.GetFeaturedProducts)
	e.GET("/products/upcoming", d.Catalog.GetUpcomingProducts)
	e.GET("/products/search", d.Catalog.SearchProducts)
	e.GET("/products/:slug", d.Catalog.GetProductDetail)
	e.GET("/sliders", d.Catalog.GetSliders)

	cart := e.Group("/cart")
	cart.GET("", d.Cart.GetCart)
	cart.POST("", d.Cart.AddToCart)
	cart.PATCH("/items/:id", d.Cart.UpdateQuantity)
	cart.DELETE("/items/:id", d.Cart.RemoveFromCart)
	cart.DELETE("", d.Cart.ClearCart)

	wishlist := e.Group("/wishlist")
	wishlist.GET("", d.Wishlist.GetWishlist)
	wishlist.POST("", d.Wishlist.AddToWishlist)
	wishlist.DELETE("/items/:id", d.Wishlist.RemoveFromWishlist)
	wishlist.DELETE("", d.Wishlist.ClearWishlist)

	auth := e.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.Logout)
	auth.GET("/session", d.Auth.GetSession)
	auth.GET("/profile", d.Auth.GetProfile)
	auth.PUT("/profile", d.Auth.UpdateProfile)
	auth.POST("/change-password", d.Auth.ChangePassword)
	auth.POST("/forgot-password", d.Auth.ForgotPassword)
	auth.POST("/reset-password", d.Auth.ResetPassword)

	checkout := e.Group("/checkout", requireAuth(d.AuthStore))
	checkout.POST("/start", d.Checkout.Start)
	checkout.GET("", d.Checkout.GetState)
	checkout.POST("/billing", d.Checkout.SubmitBilling)
	checkout.POST("/back", d.Checkout.Back)
	checkout.POST("/payment", d.Checkout.SubmitPayment)

	orders := e.Group("/orders", requireAuth(d.AuthStore))
	orders.GET("", d.Orders.GetOrders)
	orders.GET("/:id", d.Orders.GetOrderDetail)
	orders.POST("/:id/cancel", d.Orders.CancelOrder)

	e.GET("/announcement", d.Announcement.Get)
	e.POST("/announcement/seen", d.Announcement.MarkSeen)
}

// requireAuth rejects requests until the auth store has a signed-in
// session. Initialization happens before the server starts, so a 401
// here really means signed out.
func requireAuth(a *store.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !a.IsAuthenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
			}
			return next(c)
		}
	}
}
