package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/auth"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("⚠️ product index warning: %v", err)
	}
	if err := database.EnsurePrincipalIndexes(db); err != nil {
		log.Printf("⚠️ principal index warning: %v", err)
	}
	if err := database.EnsureCartIndexes(db); err != nil {
		log.Printf("⚠️ cart index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("⚠️ order index warning: %v", err)
	}

	secret := config.AppEnv.JWTSecret
	accessTTL := config.AppEnv.AccessTokenTTL
	refreshTTL := config.AppEnv.RefreshTokenTTL

	r := gin.Default()
	r.Static("/public", "./public")

	// Public storefront.
	r.GET("/api/products", handlers.GetProducts(db))
	r.GET("/api/products/top", handlers.GetTopProducts(db))
	r.GET("/api/products/featured", handlers.GetFeaturedProducts(db))
	r.GET("/api/products/:id", handlers.GetProductByID(db))
	r.GET("/api/categories", handlers.GetCategories(db))

	// Seller product management. Updates and deletes also accept admins.
	r.GET("/api/products/seller", middleware.SellerAuth(db, secret), handlers.GetSellerProducts(db))
	r.POST("/api/products", middleware.SellerAuth(db, secret), handlers.CreateProduct(db, config.AppEnv.UploadDir))
	r.PUT("/api/products/:id",
		middleware.RequireAuth(db, secret, auth.RoleSeller, auth.RoleAdmin),
		handlers.UpdateProduct(db),
	)
	r.DELETE("/api/products/:id",
		middleware.RequireAuth(db, secret, auth.RoleSeller, auth.RoleAdmin),
		handlers.DeleteProduct(db),
	)

	// Customer accounts.
	r.POST("/api/auth/register", handlers.Register(db, secret, accessTTL, refreshTTL))
	r.POST("/api/auth/login", handlers.Login(db, secret, accessTTL, refreshTTL))
	r.POST("/api/auth/refresh", handlers.Refresh(db, secret, accessTTL, refreshTTL))
	r.POST("/api/auth/logout", handlers.Logout(db))
	r.GET("/api/auth/me", middleware.CustomerAuth(db, secret), handlers.GetMe(db))

	cart := r.Group("/api/cart")
	cart.Use(middleware.CustomerAuth(db, secret))
	{
		cart.GET("", handlers.GetCart(db))
		cart.POST("", handlers.AddToCart(db))
		cart.PUT("/:productId", handlers.UpdateCartItem(db))
		cart.DELETE("/:productId", handlers.RemoveCartItem(db))
		cart.DELETE("", handlers.ClearCart(db))
	}

	orders := r.Group("/api/orders")
	{
		orders.POST("", middleware.CustomerAuth(db, secret), handlers.CreateOrder(db))
		orders.GET("", middleware.AdminAuth(db, secret), handlers.GetOrders(db))
		orders.GET("/myorders", middleware.CustomerAuth(db, secret), handlers.GetMyOrders(db))
		orders.GET("/sellerorders", middleware.SellerAuth(db, secret), handlers.GetSellerOrders(db))
		orders.GET("/:id", middleware.RequireAuth(db, secret), handlers.GetOrderByID(db))
		orders.PUT("/:id/pay", middleware.CustomerAuth(db, secret), handlers.MarkOrderPaid(db))
		orders.PUT("/:id/status",
			middleware.RequireAuth(db, secret, auth.RoleSeller, auth.RoleAdmin),
			handlers.UpdateOrderStatus(db),
		)
	}

	// Seller accounts.
	r.POST("/api/sellers/register", handlers.RegisterSeller(db))
	r.POST("/api/sellers/login", handlers.LoginSeller(db, secret, accessTTL, refreshTTL))

	// Admin console.
	r.POST("/api/admin/login", handlers.AdminLogin(db, secret, accessTTL))

	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminAuth(db, secret))
	{
		admin.GET("/profile", handlers.GetAdminProfile())
		admin.GET("/dashboard", handlers.GetDashboardStats(db))

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.PUT("/products/:id/approve", handlers.ApproveProduct(db))
		admin.PUT("/products/:id/feature", handlers.FeatureProduct(db))

		admin.GET("/categories", handlers.GetAllCategories(db))
		admin.POST("/categories", handlers.CreateCategory(db))
		admin.PUT("/categories/:id", handlers.UpdateCategory(db))
		admin.DELETE("/categories/:id", handlers.DeleteCategory(db))

		admin.GET("/users", handlers.GetAccounts(db))
		admin.PUT("/users/:role/:id", handlers.UpdateAccount(db))
		admin.DELETE("/users/:role/:id", handlers.DeactivateAccount(db))

		admin.GET("/sellers/pending", handlers.GetPendingSellers(db))
		admin.PUT("/sellers/:id/approve", handlers.ApproveSeller(db))

		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
