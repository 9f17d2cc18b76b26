package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/PKL-SST-2025/BatikKita-Be/controllers"
	"github.com/PKL-SST-2025/BatikKita-Be/middleware"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

type Controllers struct {
	Auth          *controllers.AuthController
	Products      *controllers.ProductController
	Cart          *controllers.CartController
	Orders        *controllers.OrderController
	Favorites     *controllers.FavoriteController
	Notifications *controllers.NotificationController
	Coupons       *controllers.CouponController
}

// Register wires the HTTP surface: public catalog and auth endpoints, the
// authenticated customer area, and the admin area.
func Register(router *gin.Engine, tokens *services.TokenService, ctrl Controllers) {
	api := router.Group("/api")

	api.POST("/auth/register", ctrl.Auth.Register)
	api.POST("/auth/login", ctrl.Auth.Login)

	api.GET("/products", ctrl.Products.List)
	api.GET("/products/:id", ctrl.Products.Get)
	api.GET("/products/:id/reviews", ctrl.Products.ListReviews)

	// Protected customer routes live under /api/auth, matching the paths the
	// frontend already calls.
	authed := api.Group("/auth", middleware.AuthRequired(tokens))
	{
		authed.GET("/profile", ctrl.Auth.Profile)
		authed.PUT("/profile", ctrl.Auth.UpdateProfile)
		authed.PUT("/profile/password", ctrl.Auth.ChangePassword)

		authed.GET("/addresses", ctrl.Auth.ListAddresses)
		authed.POST("/addresses", ctrl.Auth.CreateAddress)
		authed.PUT("/addresses/:id", ctrl.Auth.UpdateAddress)
		authed.DELETE("/addresses/:id", ctrl.Auth.DeleteAddress)

		authed.GET("/cart", ctrl.Cart.Get)
		authed.POST("/cart/items", ctrl.Cart.AddItem)
		authed.PUT("/cart/items/:id", ctrl.Cart.UpdateItem)
		authed.DELETE("/cart/items/:id", ctrl.Cart.RemoveItem)
		authed.DELETE("/cart", ctrl.Cart.Clear)

		authed.POST("/checkout", ctrl.Orders.Checkout)
		authed.GET("/orders", ctrl.Orders.ListMine)
		authed.GET("/orders/:id", ctrl.Orders.Get)

		authed.POST("/products/:id/reviews", ctrl.Products.CreateReview)

		authed.GET("/favorites", ctrl.Favorites.List)
		authed.POST("/favorites/:productId", ctrl.Favorites.Add)
		authed.DELETE("/favorites/:productId", ctrl.Favorites.Remove)

		authed.GET("/notifications", ctrl.Notifications.List)
		authed.GET("/notifications/stats", ctrl.Notifications.Stats)
		authed.PUT("/notifications/:id/read", ctrl.Notifications.MarkRead)
		authed.PUT("/notifications/mark", ctrl.Notifications.MarkMultiple)
		authed.DELETE("/notifications/:id", ctrl.Notifications.Delete)
	}

	admin := api.Group("/admin", middleware.AdminRequired(tokens))
	{
		admin.POST("/products", ctrl.Products.Create)
		admin.PUT("/products/:id", ctrl.Products.Update)
		admin.DELETE("/products/:id", ctrl.Products.Delete)

		admin.GET("/orders", ctrl.Orders.AdminList)
		admin.PUT("/orders/:id/status", ctrl.Orders.UpdateStatus)

		admin.POST("/coupons", ctrl.Coupons.Create)
		admin.GET("/coupons", ctrl.Coupons.List)
		admin.DELETE("/coupons/:code", ctrl.Coupons.Deactivate)
	}
}
