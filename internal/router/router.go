// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aryanmiramini/shopyar-backend/internal/config"
	"github.com/aryanmiramini/shopyar-backend/internal/handlers"
	"github.com/aryanmiramini/shopyar-backend/internal/middleware"
	"github.com/aryanmiramini/shopyar-backend/internal/services"
	"github.com/aryanmiramini/shopyar-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	smsService := services.NewSMSService(cfg)
	notificationService := services.NewNotificationService(db, cfg, smsService)
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg, smsService, notificationService)
	productService := services.NewProductService(db)
	categoryService := services.NewCategoryService(db)
	cartService := services.NewCartService(db)
	orderService := services.NewOrderService(db)
	reviewService := services.NewReviewService(db)
	wishlistService := services.NewWishlistService(db)
	paymentService := services.NewPaymentService(db, cfg, orderService)

	// Status changes fan out to notifications (and SMS for shipping)
	orderService.AddListener(notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	productHandler := handlers.NewProductHandler(productService, reviewService, storageService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	cartHandler := handlers.NewCartHandler(cartService)
	orderHandler := handlers.NewOrderHandler(orderService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	wishlistHandler := handlers.NewWishlistHandler(wishlistService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)

	utils.SetJWTSecret(cfg.JWT.SecretKey)

	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS([]string{cfg.Frontend.BaseURL}))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Local uploads are served directly in development
	r.Static("/uploads", "./uploads")

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Admin operations live on the resource paths themselves, guarded per
	// route rather than under a separate prefix.
	adminOnly := []gin.HandlerFunc{middleware.AuthRequired(), middleware.AdminRequired()}

	v1 := r.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/request-otp", middleware.OTPRateLimit(), authHandler.RequestOTP)
			auth.POST("/verify-otp", authHandler.VerifyOTP)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.POST("", append(adminOnly, categoryHandler.Create)...)
			categories.PATCH("/:id", append(adminOnly, categoryHandler.Update)...)
			categories.DELETE("/:id", append(adminOnly, categoryHandler.Delete)...)
		}

		products := v1.Group("/products")
		{
			products.GET("", middleware.OptionalAuth(), productHandler.List)
			products.GET("/featured", productHandler.Featured)
			products.GET("/:id", middleware.OptionalAuth(), productHandler.Get)
			products.GET("/:id/reviews", productHandler.ListReviews)
			products.POST("", append(adminOnly, productHandler.Create)...)
			products.PATCH("/:id", append(adminOnly, productHandler.Update)...)
			products.DELETE("/:id", append(adminOnly, productHandler.Delete)...)
			products.POST("/:id/images", append(adminOnly, productHandler.UploadImage)...)
		}

		cart := v1.Group("/cart")
		cart.Use(middleware.AuthRequired())
		{
			cart.POST("/add", cartHandler.AddItem)
			cart.GET("/summary", cartHandler.Get)
			cart.DELETE("/clear", cartHandler.Clear)
			cart.PATCH("/items/:itemId", cartHandler.UpdateItem)
			cart.DELETE("/items/:itemId", cartHandler.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(middleware.AuthRequired())
		{
			orders.POST("", orderHandler.Place)
			orders.GET("/my-orders", orderHandler.ListMine)
			orders.GET("/all", middleware.AdminRequired(), orderHandler.ListAll)
			orders.GET("/stats/overview", middleware.AdminRequired(), orderHandler.Stats)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id/status", middleware.AdminRequired(), orderHandler.UpdateStatus)
			orders.PATCH("/:id/cancel", orderHandler.Cancel)
		}

		payments := v1.Group("/payments")
		payments.Use(middleware.AuthRequired())
		{
			payments.POST("/intent", paymentHandler.CreateIntent)
			payments.POST("/confirm", paymentHandler.Confirm)
		}

		reviews := v1.Group("/reviews")
		reviews.Use(middleware.AuthRequired())
		{
			reviews.POST("", reviewHandler.Create)
			reviews.PATCH("/:id", reviewHandler.Update)
			reviews.DELETE("/:id", reviewHandler.Delete)
		}

		wishlist := v1.Group("/wishlist")
		wishlist.Use(middleware.AuthRequired())
		{
			wishlist.GET("", wishlistHandler.List)
			wishlist.POST("", wishlistHandler.Add)
			wishlist.GET("/check/:productId", wishlistHandler.Check)
			wishlist.DELETE("/:productId", wishlistHandler.Remove)
		}

		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.List)
			notifications.GET("/unread-count", notificationHandler.UnreadCount)
			notifications.PATCH("/read-all", notificationHandler.MarkAllRead)
			notifications.PATCH("/:id/read", notificationHandler.MarkRead)
		}
	}

	return r
}
