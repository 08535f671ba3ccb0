package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fasttrack-courier/internal/config"
	appmiddleware "fasttrack-courier/internal/middleware"
	"fasttrack-courier/internal/modules/auth"
	"fasttrack-courier/internal/modules/courier"
	"fasttrack-courier/internal/modules/parcel"
	"fasttrack-courier/internal/modules/pickup"
	"fasttrack-courier/internal/modules/stats"
	"fasttrack-courier/pkg/notify"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbpool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create database pool: %v", err)
	}
	defer dbpool.Close()

	if err := dbpool.Ping(ctx); err != nil {
		log.Fatalf("failed to reach database: %v", err)
	}

	notifier, err := notify.NewService(ctx, cfg.AWSRegion, cfg.SenderEmail, cfg.FrontendURL, cfg.EmailEnabled)
	if err != nil {
		log.Fatalf("failed to build notifier: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.ClientOrigin},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	authMW := appmiddleware.JWT(cfg.JWTSecret)
	adminMW := echo.MiddlewareFunc(appmiddleware.RequireAdmin)

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)
	authHandler.RegisterRoutes(e, authMW, adminMW)

	parcelRepo := parcel.NewRepository(dbpool)
	parcelService := parcel.NewService(parcelRepo, notifier)
	parcelHandler := parcel.NewHandler(parcelService)
	parcelHandler.RegisterRoutes(e, authMW, adminMW)

	pickupRepo := pickup.NewRepository(dbpool)
	pickupService := pickup.NewService(pickupRepo)
	pickupHandler := pickup.NewHandler(pickupService)
	pickupHandler.RegisterRoutes(e, authMW, adminMW)

	courierRepo := courier.NewRepository(dbpool)
	courierService := courier.NewService(courierRepo)
	courierHandler := courier.NewHandler(courierService)
	courierHandler.RegisterRoutes(e, authMW, adminMW)

	statsRepo := stats.NewRepository(dbpool)
	statsService := stats.NewService(statsRepo)
	statsHandler := stats.NewHandler(statsService)
	statsHandler.RegisterRoutes(e, authMW, adminMW)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "FastTrack Courier Service API",
			"status":  "running",
		})
	})
	e.GET("/health", func(c echo.Context) error {
		if err := dbpool.Ping(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "healthy"})
	})

	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server: ", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Fatal(err)
	}
}
