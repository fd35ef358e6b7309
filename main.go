package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"wajba-server/config"
	"wajba-server/database"
	"wajba-server/handlers"
	"wajba-server/services"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	if err := config.Load(); err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if config.AppConfig.Environment == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Connect to database
	db, err := database.Connect(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize tables
	if err := db.InitializeTables(); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize tables")
	}

	// Snapshot cache is optional; without Redis carts are recomputed on
	// every read
	var cache services.SnapshotCache
	if config.AppConfig.RedisURL != "" {
		opts, err := goredis.ParseURL(config.AppConfig.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		client := goredis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, running without cart cache")
		} else {
			cache = services.NewRedisCache(client)
			log.Info().Msg("cart snapshot cache enabled")
		}
	}

	// Initialize Cloudinary (avatar uploads); optional in development
	if config.AppConfig.CloudinaryURL != "" {
		if err := services.InitializeCloudinary(config.AppConfig.CloudinaryURL); err != nil {
			log.Warn().Err(err).Msg("failed to initialize Cloudinary, avatar uploads disabled")
		}
	}

	// Set Gin mode
	if config.AppConfig.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers.InitializeHandlers(db, cache)

	// Cart reminder delivery loop
	schedulerCtx, stopScheduler := context.WithCancel(context.Background())
	defer stopScheduler()
	go services.NewNotificationScheduler().Run(schedulerCtx, time.Minute)

	router := gin.Default()
	router.HandleMethodNotAllowed = true

	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handlers.APIResponse{
			Success:   false,
			Message:   "Method not allowed",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handlers.APIResponse{
			Success:   false,
			Message:   "Not found",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})

	// CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{
			"status":  status,
			"message": "Wajba server is running",
		})
	})

	// API routes
	api := router.Group("/api/v1")
	{
		// Authentication routes
		auth := api.Group("/auth")
		{
			auth.GET("/check-user", handlers.CheckUserExists)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/validate", handlers.ValidateToken)
			auth.PUT("/update-push-token", handlers.AuthMiddleware(), handlers.UpdatePushToken)
		}

		// Browse routes (no auth)
		categories := api.Group("/categories")
		{
			categories.GET("/", handlers.GetCategories)
			categories.GET("/:id/merchants", handlers.GetCategoryMerchants)
		}

		merchants := api.Group("/merchants")
		{
			merchants.GET("/", handlers.GetMerchants)
			merchants.GET("/:id", handlers.GetMerchant)
			merchants.GET("/:id/menu", handlers.GetMerchantMenu)
		}

		// User routes (protected)
		users := api.Group("/users")
		users.Use(handlers.AuthMiddleware())
		{
			users.GET("/profile", handlers.GetUserProfile)
			users.PUT("/profile", handlers.UpdateUserProfile)
			users.PUT("/password", handlers.ChangePassword)
			users.POST("/avatar", handlers.UploadAvatar)
		}

		// Address book routes (protected)
		addresses := api.Group("/addresses")
		addresses.Use(handlers.AuthMiddleware())
		{
			addresses.GET("/", handlers.GetAddressBook)
			addresses.POST("/", handlers.CreateAddress)
			addresses.PUT("/:id", handlers.UpdateAddress)
			addresses.DELETE("/:id", handlers.DeleteAddress)
		}

		// Cart routes (protected)
		cart := api.Group("/cart")
		cart.Use(handlers.AuthMiddleware())
		{
			cart.GET("", handlers.GetCart)
			cart.POST("", handlers.AddToCart)
			cart.PUT("", handlers.UpdateCartItem)
			cart.DELETE("", handlers.RemoveFromCart)
		}

		// Order routes (protected)
		orders := api.Group("/orders")
		orders.Use(handlers.AuthMiddleware())
		{
			orders.GET("/", handlers.GetUserOrders)
			orders.GET("/:id", handlers.GetOrder)
		}
	}

	addr := "0.0.0.0:" + config.AppConfig.ServerPort
	log.Info().Str("addr", addr).Msg("starting wajba server")
	if err := http.ListenAndServe(addr, corsHandler.Handler(router)); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
