package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/immedha/firstlight/database"
	"github.com/immedha/firstlight/internal/cache"
	"github.com/immedha/firstlight/internal/config"
	"github.com/immedha/firstlight/internal/handler"
	"github.com/immedha/firstlight/internal/karma"
	"github.com/immedha/firstlight/internal/middleware"
	"github.com/immedha/firstlight/internal/questiongen"
	"github.com/immedha/firstlight/internal/realtime"
	"github.com/immedha/firstlight/internal/repository"
	"github.com/immedha/firstlight/internal/service"
	"github.com/immedha/firstlight/internal/storage"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger := newLogger(cfg)

	// Connect to the database
	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("database connection failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	refreshTokenRepo := repository.NewRefreshTokenRepository(db)

	// Karma policy and cache
	policy := karma.NewPolicy(cfg)
	karmaCache, err := cache.NewKarmaCache(cfg, userRepo)
	if err != nil {
		logger.Warn("redis unavailable, karma lookups will hit the database", "error", err)
		karmaCache = cache.NewKarmaCacheWithoutRedis(userRepo)
	}
	defer karmaCache.Close()

	// Services
	authService := service.NewAuthService(userRepo, refreshTokenRepo, cfg)
	userService := service.NewUserService(userRepo, policy)
	listingService := service.NewListingService(productRepo, karmaCache, policy, logger)

	// Real-time product stream: every subscriber gets the full published
	// set on connect and after every mutation
	hub := realtime.NewHub(func() (interface{}, error) {
		products, err := listingService.ListForViewer(context.Background(), "")
		if err != nil {
			return nil, err
		}
		return products, nil
	}, logger)
	go hub.Run()

	productService := service.NewProductService(productRepo, hub)
	reviewService := service.NewReviewService(reviewRepo, productRepo, policy, karmaCache, hub)

	// Question generator
	generator, err := questiongen.NewGenerator(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("question generator setup failed", "error", err)
		os.Exit(1)
	}

	// Image storage
	imageStore, err := storage.NewImageStore(cfg)
	if err != nil {
		logger.Error("image store setup failed", "error", err)
		os.Exit(1)
	}

	// Setup Gin
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Uploaded images are served statically
	r.Static(cfg.UploadBaseURL, imageStore.Dir())

	api := r.Group("/api")

	// optional auth: known viewers get tier-biased listings
	public := api.Group("")
	public.Use(middleware.OptionalAuthMiddleware(authService))

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(authService))

	authHandler := handler.NewAuthHandler(authService, cfg)
	authHandler.RegisterRoutes(api)

	productHandler := handler.NewProductHandler(productService, listingService, reviewService, userService)
	productHandler.RegisterRoutes(public, authed)

	reviewHandler := handler.NewReviewHandler(reviewService)
	reviewHandler.RegisterRoutes(authed)

	userHandler := handler.NewUserHandler(userService)
	userHandler.RegisterRoutes(public, authed)

	questionHandler := handler.NewQuestionHandler(generator)
	questionHandler.RegisterRoutes(authed)

	uploadHandler := handler.NewUploadHandler(imageStore)
	uploadHandler.RegisterRoutes(authed)

	// product snapshot stream
	api.GET("/products/stream", realtime.WSHandler(hub))

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	logger.Info("server starting", "addr", addr, "env", cfg.GoEnv)
	if err := r.Run(addr); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(h)
}
