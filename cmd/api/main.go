package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hotelbooking/internal/config"
	"hotelbooking/internal/database"
	"hotelbooking/internal/middleware"
	"hotelbooking/internal/modules/availability"
	"hotelbooking/internal/modules/booking"
	"hotelbooking/internal/modules/catalog"
	"hotelbooking/internal/modules/discount"
	"hotelbooking/internal/modules/notification"
	"hotelbooking/internal/modules/payment"
	"hotelbooking/internal/modules/pricing"
	jwtsvc "hotelbooking/internal/pkg/jwt"
	"hotelbooking/internal/pkg/logger"
	"hotelbooking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl := logger.New(cfg.Env)
	defer zl.Sync()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("connect database", zap.Error(err))
	}
	if err := database.Migrate(context.Background(), db, cfg.DatabaseURL); err != nil {
		zl.Fatal("migrate database", zap.Error(err))
	}

	bookingRepo := repository.NewBookingRepository(db)
	stayRepo := repository.NewStayRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	promotionRepo := repository.NewPromotionRepository(db)
	historyRepo := repository.NewHistoryRepository(db)
	outboxRepo := repository.NewOutboxRepository(db)
	txm := repository.NewTxManager(db)

	j := jwtsvc.New(cfg.JWTSecret, 24*time.Hour)
	engine := pricing.NewEngine(cfg.TaxRate)

	notifSvc := notification.NewService(outboxRepo, zl)

	availabilitySvc := availability.NewService(stayRepo, roomRepo, promotionRepo, engine, zl)
	availabilityHandler := availability.NewHandler(availabilitySvc)

	bookingSvc := booking.NewService(
		bookingRepo,
		stayRepo,
		availabilitySvc,
		roomRepo,
		discountRepo,
		promotionRepo,
		paymentRepo,
		historyRepo,
		engine,
		notifSvc,
		txm,
		zl,
	)
	bookingHandler := booking.NewHandler(bookingSvc)

	paymentSvc := payment.NewService(paymentRepo, bookingRepo, notifSvc, txm, zl)
	paymentHandler := payment.NewHandler(paymentSvc)

	discountSvc := discount.NewService(discountRepo, promotionRepo)
	discountHandler := discount.NewHandler(discountSvc)

	catalogSvc := catalog.NewService(roomRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(zl))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		// public reference data
		catalogHandler.RegisterRoutes(v1)

		// staff-only booking operations
		admin := v1.Group("/admin")
		admin.Use(middleware.RequireAdmin(j))
		{
			availabilityHandler.RegisterRoutes(admin)
			bookingHandler.RegisterRoutes(admin)
			paymentHandler.RegisterRoutes(admin)
			discountHandler.RegisterRoutes(admin)
		}
	}

	zl.Info("starting server", zap.String("port", cfg.AppPort))
	if err := r.Run(":" + cfg.AppPort); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
