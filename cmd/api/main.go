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

	"github.com/octobees/identity-console/api/internal/apiclient"
	"github.com/octobees/identity-console/api/internal/config"
	"github.com/octobees/identity-console/api/internal/handler"
	middlewarepkg "github.com/octobees/identity-console/api/internal/middleware"
	"github.com/octobees/identity-console/api/internal/router"
	"github.com/octobees/identity-console/api/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	backend := apiclient.New(httpClient, cfg.BackendBaseURL)

	cookies := session.NewStore(!cfg.DevMode)
	refresher := session.NewRefresher(backend)
	switcher := session.NewManager(backend, cookies)

	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(backend, cookies),
		ContextSwitch: handler.NewContextSwitchHandler(switcher),
		Console:       handler.NewConsoleHandler(backend),
		Proxy:         handler.NewProxyHandler(backend),
		Admin:         handler.NewAdminHandler(cfg),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middlewarepkg.RequestID())
	e.Use(middlewarepkg.Logging())
	e.Use(echoMiddleware.Recover())
	e.Use(middlewarepkg.Identity(cookies, refresher))

	router.Register(e, cfg, handlers)

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
