package main

import (
	"marketplace-api/internal/handler"
	mid "marketplace-api/internal/middleware"
	"marketplace-api/internal/model"
	"marketplace-api/internal/storage"
	"marketplace-api/pkg/config"
	"marketplace-api/pkg/database"
	"marketplace-api/pkg/jwtutil"
	"marketplace-api/pkg/logger"
	"marketplace-api/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("marketplace-api")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting marketplace-api", appConfig.LogConfig()...)

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize database
	if _, err := database.InitDB(&appConfig.DB); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(
		&model.User{},
		&model.Space{},
		&model.SpaceMember{},
		&model.ProductCategory{},
		&model.Product{},
		&model.ProductImage{},
		&model.ProductPriceHistory{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	log.Info("Database migrations applied")

	// Initialize image storage
	store, err := storage.NewDiskStorage(appConfig.Storage.BasePath, appConfig.Storage.PublicURL)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}

	handler.Init(appConfig, store)

	// Initialize Echo instance
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(logger.Middleware())
	e.Use(prometheus.MetricsMiddleware())
	e.Use(mid.LocaleMiddleware)

	// Metrics and health endpoints
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))
	e.GET("/health", handler.Health)

	// Stored images
	e.Static(appConfig.Storage.PublicURL, appConfig.Storage.BasePath)

	// Public routes
	e.POST("/register", handler.Register)
	e.POST("/login", handler.Login)
	e.GET("/products", handler.ListProducts)
	e.GET("/products/:id", handler.GetProduct)
	e.GET("/products/:id/price-at", handler.PriceAtQuery)
	e.GET("/categories", handler.ListCategories)
	e.GET("/spaces", handler.ListSpaces)
	e.GET("/spaces/:id", handler.GetSpace)

	// Authenticated routes
	auth := e.Group("", mid.AuthMiddleware)
	auth.GET("/me", handler.Me)
	auth.POST("/logout", handler.Logout)

	auth.POST("/products", handler.CreateProduct)
	auth.PUT("/products/:id", handler.UpdateProduct)
	auth.PATCH("/products/:id", handler.UpdateProduct)
	auth.DELETE("/products/:id", handler.DeleteProduct)
	auth.POST("/products/:id/images", handler.AddProductImage)
	auth.DELETE("/products/:id/images/:imageId", handler.DeleteProductImage)
	auth.POST("/products/:id/images/reorder", handler.ReorderProductImages)

	auth.POST("/categories", handler.CreateCategory)

	auth.GET("/spaces/managed", handler.ManagedSpaces)
	auth.POST("/spaces", handler.CreateSpace)
	auth.PUT("/spaces/:id", handler.UpdateSpace)
	auth.DELETE("/spaces/:id", handler.DeleteSpace)
	auth.POST("/spaces/:id/assign-user", handler.AssignUser)
	auth.DELETE("/spaces/:id/users/:userId", handler.RemoveUser)
	auth.GET("/spaces/:id/users", handler.ListSpaceUsers)

	auth.GET("/user/profile", handler.Profile)
	auth.PUT("/user/profile", handler.UpdateProfile)
	auth.PUT("/user/password", handler.UpdatePassword)
	auth.DELETE("/user/account", handler.DeleteAccount)

	auth.POST("/orders", handler.CreateOrder)
	auth.GET("/orders", handler.ListOrders)
	auth.GET("/orders/:id", handler.GetOrder)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
