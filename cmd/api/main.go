package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/daybook-api/internal/application/service"
	"github.com/sangkips/daybook-api/internal/config"
	"github.com/sangkips/daybook-api/internal/infrastructure/database"
	"github.com/sangkips/daybook-api/internal/infrastructure/lock"
	"github.com/sangkips/daybook-api/internal/infrastructure/repository"
	"github.com/sangkips/daybook-api/internal/presentation/http/handler"
	"github.com/sangkips/daybook-api/internal/presentation/http/routes"
	"github.com/sangkips/daybook-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Log)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	db, err := database.NewDB(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}

	if err := database.AutoMigrate(db, logger); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	if err := database.SeedAdmin(db, cfg.Admin, logger); err != nil {
		logger.WithError(err).Warn("Failed to seed admin user")
	}

	// Without Redis, concurrent updates to one record are last-write-wins.
	var locker lock.Locker = lock.NopLocker{}
	if cfg.Redis.Enabled() {
		rdb, err := database.NewRedisClient(sigCtx, &cfg.Redis)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to redis")
		}
		defer rdb.Close()
		locker = lock.NewRedisLocker(rdb, cfg.Redis.LockTTL)
		logger.WithField("address", cfg.Redis.Address).Info("Using redis update locks")
	}

	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	productRepo := repository.NewProductRepository(db)
	rawMaterialRepo := repository.NewRawMaterialRepository(db)
	categoryRepo := repository.NewPurchaseCategoryRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	counterRepo := repository.NewDayCounterRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, logger)
	userService := service.NewUserService(userRepo, logger)
	purchaseService := service.NewPurchaseService(purchaseRepo, rawMaterialRepo, locker, logger)
	expenseService := service.NewExpenseService(expenseRepo, locker, logger)
	counterService := service.NewDayCounterService(counterRepo, locker, logger)
	exportService := service.NewExportService(purchaseRepo, counterRepo, logger)

	handlers := &routes.Handlers{
		Auth:             handler.NewAuthHandler(authService),
		User:             handler.NewUserHandler(userService),
		Purchase:         handler.NewPurchaseHandler(purchaseService, exportService),
		Expense:          handler.NewExpenseHandler(expenseService),
		DayCounter:       handler.NewDayCounterHandler(counterService, exportService),
		Vendor:           handler.NewVendorHandler(service.NewVendorService(vendorRepo, logger)),
		Product:          handler.NewProductHandler(service.NewProductService(productRepo, logger)),
		RawMaterial:      handler.NewRawMaterialHandler(service.NewRawMaterialService(rawMaterialRepo, logger)),
		PurchaseCategory: handler.NewPurchaseCategoryHandler(service.NewPurchaseCategoryService(categoryRepo, logger)),
	}

	rateLimiter := routes.NewRateLimiter(cfg.RateLimit)
	defer rateLimiter.Stop()

	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
		Logger:          logger,
		RateLimiter:     rateLimiter,
	})

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"port": port, "env": cfg.App.Env}).Infof("Starting %s server", cfg.App.Name)
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
		return
	case <-sigCtx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
