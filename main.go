package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/PKL-SST-2025/BatikKita-Be/cache"
	"github.com/PKL-SST-2025/BatikKita-Be/common/logger"
	"github.com/PKL-SST-2025/BatikKita-Be/controllers"
	"github.com/PKL-SST-2025/BatikKita-Be/database"
	"github.com/PKL-SST-2025/BatikKita-Be/kafka"
	"github.com/PKL-SST-2025/BatikKita-Be/models"
	"github.com/PKL-SST-2025/BatikKita-Be/repository"
	"github.com/PKL-SST-2025/BatikKita-Be/routes"
	"github.com/PKL-SST-2025/BatikKita-Be/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if err := database.Connect(database.Config{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Name:     cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
	}); err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.UserAddress{},
		&models.Product{},
		&models.Review{},
		&models.Favorite{},
		&models.Cart{},
		&models.CartItem{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Notification{},
	); err != nil {
		logger.Log.Fatal("Failed to run migrations", zap.Error(err))
	}

	userRepo := repository.NewGormUserRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	cartRepo := repository.NewGormCartRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	couponRepo := repository.NewGormCouponRepository(database.DB)
	favoriteRepo := repository.NewGormFavoriteRepository(database.DB)
	notificationRepo := repository.NewGormNotificationRepository(database.DB)
	checkoutStore := repository.NewGormCheckoutStore(database.DB)

	productCache := cache.NewProductCache(cfg.RedisAddr, logger.Log)
	if productCache != nil {
		defer productCache.Close()
	}

	var events services.EventPublisher
	var producer *kafka.Producer
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		producer = kafka.NewProducer(brokers, cfg.KafkaEventTopic, logger.Log)
		defer producer.Close()
		events = producer
	}

	tokens := services.NewTokenService(cfg.JWTSecret)
	authService := services.NewAuthService(userRepo, tokens, events, logger.Log)
	productService := services.NewProductService(productRepo, productCache, logger.Log)
	cartService := services.NewCartService(cartRepo, productRepo, logger.Log)
	checkoutService := services.NewCheckoutService(checkoutStore, events, productCache, logger.Log)
	orderService := services.NewOrderService(orderRepo, events, logger.Log)
	couponService := services.NewCouponService(couponRepo, logger.Log)
	favoriteService := services.NewFavoriteService(favoriteRepo, productRepo, logger.Log)
	notificationService := services.NewNotificationService(notificationRepo, logger.Log)

	consumerCtx, stopConsumer := context.WithCancel(context.Background())
	defer stopConsumer()
	if cfg.KafkaBrokers != "" {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		consumer := kafka.NewConsumer(brokers, cfg.KafkaEventTopic, "batikkita-notifications",
			notificationService.HandleEvent, logger.Log)
		defer consumer.Close()
		go consumer.Run(consumerCtx)
	}

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-role"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.Register(router, tokens, routes.Controllers{
		Auth:          controllers.NewAuthController(authService),
		Products:      controllers.NewProductController(productService),
		Cart:          controllers.NewCartController(cartService),
		Orders:        controllers.NewOrderController(checkoutService, orderService),
		Favorites:     controllers.NewFavoriteController(favoriteService),
		Notifications: controllers.NewNotificationController(notificationService),
		Coupons:       controllers.NewCouponController(couponService),
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	stopConsumer()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Forced shutdown", zap.Error(err))
	}
	logger.Log.Info("Server stopped")
}
