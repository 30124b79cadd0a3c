package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/chooseyourcart/storefront/internal/api"
	"github.com/chooseyourcart/storefront/internal/config"
	"github.com/chooseyourcart/storefront/internal/httpserver"
	"github.com/chooseyourcart/storefront/internal/logging"
	mw "github.com/chooseyourcart/storefront/internal/middleware"
	"github.com/chooseyourcart/storefront/internal/repo"
	"github.com/chooseyourcart/storefront/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(echomw.RequestID())
	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	st, err := repo.Open(initCtx, cfg.DataPath)
	if err != nil {
		log.Fatalf("repo open: %v", err)
	}

	client := api.NewClient(cfg.APIBaseURL)

	cart, err := store.NewCart(initCtx, st)
	if err != nil {
		log.Fatalf("cart init: %v", err)
	}

	wishlist := store.NewWishlist(st)

	auth := store.NewAuth(st, client)
	auth.Subscribe(func(ctx context.Context, userID int) {
		if err := wishlist.SetUser(ctx, userID); err != nil {
			logger.Warn("wishlist user switch failed", "user_id", userID, "error", err)
		}
	})
	if err := auth.Init(logging.IntoContext(initCtx, logger)); err != nil {
		log.Fatalf("auth init: %v", err)
	}

	httpserver.Register(e, &httpserver.Deps{
		Catalog:      &httpserver.CatalogHTTP{Client: client},
		Cart:         &httpserver.CartHTTP{Cart: cart},
		Wishlist:     &httpserver.WishlistHTTP{Wishlist: wishlist},
		Auth:         &httpserver.AuthHTTP{Auth: auth, Client: client},
		Checkout:     &httpserver.CheckoutHTTP{Cart: cart, Auth: auth, Client: client},
		Orders:       &httpserver.OrderHTTP{Auth: auth, Client: client},
		Announcement: &httpserver.AnnouncementHTTP{Announcement: store.NewAnnouncement(st)},
		AuthStore:    auth,
	})

	go func() {
		logger.Info("starting storefront", "port", cfg.ServerPort, "api", cfg.APIBaseURL)
		if err := e.Start(":" + cfg.ServerPort); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := st.Close(); err != nil {
		logger.Error("repo close", "error", err)
	}
}
