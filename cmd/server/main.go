package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/song-request-queue/internal/config"
	"github.com/iliyamo/song-request-queue/internal/database"
	"github.com/iliyamo/song-request-queue/internal/handler"
	"github.com/iliyamo/song-request-queue/internal/middleware"
	"github.com/iliyamo/song-request-queue/internal/payment"
	"github.com/iliyamo/song-request-queue/internal/queue"
	"github.com/iliyamo/song-request-queue/internal/repository"
	"github.com/iliyamo/song-request-queue/internal/router"
	"github.com/iliyamo/song-request-queue/internal/service"
	"github.com/iliyamo/song-request-queue/pkg/logger"
)

func main() {
	_ = godotenv.Load() // .env is optional; real deployments set the environment directly
	cfg := config.Load()

	zlog, err := logger.New(cfg.Env != "prod")
	if err != nil {
		log.Fatalf("logger init: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		zlog.Fatalf("database open: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		zlog.Warn("redis unavailable, pricing cache and rate limiting disabled")
	}

	pricingRepo := repository.NewPricingConfigRepo(db)
	cachedPricing := repository.NewCachedPricingConfigRepo(pricingRepo, rdb, cfg.PricingCacheTTL)
	subRepo := repository.NewSubmissionRepo(db)
	spotRepo := repository.NewSpotRepo(db)
	bidRepo := repository.NewBidRepo(db)
	noteRepo := repository.NewNotificationRepo(db)

	provider := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey, 10*time.Second)
	publisher := queue.NewPublisher()

	engine := service.NewEngine(cachedPricing, subRepo, spotRepo, bidRepo, noteRepo, provider, publisher, zlog, service.Options{
		SuccessURL: cfg.CheckoutSuccess,
		CancelURL:  cfg.CheckoutCancel,
		Currency:   cfg.Currency,
	})

	go func() {
		if err := queue.StartOutbidConsumer(); err != nil {
			zlog.Errorw("outbid consumer stopped", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS()) // checkout runs from the streamer's site on another origin

	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	router.RegisterRoutes(e,
		handler.NewPricingHandler(engine),
		handler.NewSubmissionHandler(subRepo, spotRepo, zlog),
		cfg.JWTSecret,
	)
	router.RegisterPayments(e, handler.NewPaymentHandler(engine), cfg.JWTSecret, limit)
	router.RegisterAdmin(e, handler.NewAdminHandler(cachedPricing, spotRepo, subRepo, zlog), cfg.JWTSecret)

	addr := ":" + cfg.Port
	zlog.Infow("listening", "addr", addr, "env", cfg.Env)
	if err := e.Start(addr); err != nil {
		zlog.Fatalf("server stopped: %v", err)
	}
}
