package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/ukbizhub/directory-api/internal/auth"
	"github.com/ukbizhub/directory-api/internal/config"
	"github.com/ukbizhub/directory-api/internal/database"
	"github.com/ukbizhub/directory-api/internal/handler"
	middlewarepkg "github.com/ukbizhub/directory-api/internal/middleware"
	"github.com/ukbizhub/directory-api/internal/repository"
	"github.com/ukbizhub/directory-api/internal/router"
	"github.com/ukbizhub/directory-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer pool.Close()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	usersRepo := repository.NewPGXUsersRepository(pool)
	businessesRepo := repository.NewPGXBusinessesRepository(pool)
	waitlistRepo := repository.NewPGXWaitlistRepository(pool)

	validator := service.NewValidator(service.ValidatorConfig{
		IncludeDebugDetail: cfg.ValidationDebugDetail,
	})

	authService := service.NewAuthService(usersRepo, jwtManager)
	userService := service.NewUserService(usersRepo)
	submissionsService := service.NewSubmissionsService(businessesRepo, validator)
	waitlistService := service.NewWaitlistService(waitlistRepo)

	var notifier handler.NotifierPoster
	if cfg.OpsWebhookURL != "" {
		notifier = handler.NewNotifierClient(nil, cfg.OpsWebhookURL)
	}

	handlers := router.Handlers{
		Auth:       handler.NewAuthHandler(authService),
		Users:      handler.NewUserAdminHandler(userService),
		Businesses: handler.NewBusinessesHandler(submissionsService),
		Submit:     handler.NewSubmitHandler(submissionsService, notifier),
		Waitlist:   handler.NewWaitlistHandler(waitlistService),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())

	router.Register(e, cfg, jwtManager, handlers)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- e.Start(":" + cfg.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
		return
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}
